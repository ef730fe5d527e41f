package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret", 7)

	raw, err := svc.Issue(42, "alice@x.com", "admin")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	claims, err := svc.Verify(raw)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "alice@x.com" {
		t.Errorf("Email = %q, want alice@x.com", claims.Email)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected a token ID (jti)")
	}
}

func TestVerifyFailures(t *testing.T) {
	svc := NewTokenService("test-secret", 7)
	other := NewTokenService("other-secret", 7)

	valid, err := svc.Issue(1, "a@x.com", "user")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "garbage input",
			token:   "not-a-token",
			wantErr: ErrTokenInvalid,
		},
		{
			name:    "empty input",
			token:   "",
			wantErr: ErrTokenInvalid,
		},
		{
			name:    "tampered signature",
			token:   valid[:len(valid)-2] + "xx",
			wantErr: ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.token); !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		if _, err := other.Verify(valid); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Verify() error = %v, want %v", err, ErrTokenInvalid)
		}
	})
}

func TestVerifyExpired(t *testing.T) {
	svc := NewTokenService("test-secret", 7)

	// Sign an already-expired token with the same secret.
	now := time.Now().UTC()
	claims := Claims{
		UserID: 1,
		Email:  "a@x.com",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing expired token: %v", err)
	}

	if _, err := svc.Verify(raw); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want %v", err, ErrTokenExpired)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1", 4)
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}

	if !VerifyPassword(hash, "secret1") {
		t.Error("VerifyPassword() should accept the correct password")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("VerifyPassword() should reject a wrong password")
	}
	if VerifyPassword("not-a-hash", "secret1") {
		t.Error("VerifyPassword() should reject a malformed hash")
	}
}
