package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/internal/auth"
	"github.com/inkwell-cms/inkwell/internal/models"
)

type stubUserLoader struct {
	users map[int64]*models.User
}

func (s *stubUserLoader) GetByID(_ context.Context, id int64) (*models.User, error) {
	return s.users[id], nil
}

type stubDenylist struct {
	revoked map[string]bool
}

func (s *stubDenylist) TokenDenylisted(jti string) bool {
	return s.revoked[jti]
}

func newTestRouter(m *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", m.Authenticate(), func(c *gin.Context) {
		respond(c, http.StatusOK, "ok", gin.H{"username": CurrentUser(c).Username})
	})
	r.POST("/admin", m.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		respond(c, http.StatusOK, "ok", nil)
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", 7)
	loader := &stubUserLoader{users: map[int64]*models.User{
		1: {ID: 1, Username: "alice", Role: models.RoleUser, IsActive: true},
		2: {ID: 2, Username: "bob", Role: models.RoleUser, IsActive: false},
	}}
	m := NewAuthMiddleware(tokens, loader, nil)
	router := newTestRouter(m)

	aliceToken, err := tokens.Issue(1, "alice@x.com", models.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	bobToken, err := tokens.Issue(2, "bob@x.com", models.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	ghostToken, err := tokens.Issue(99, "ghost@x.com", models.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
	}{
		{
			name:       "no token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage bearer token",
			header:     "Bearer not-a-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid bearer token",
			header:     "Bearer " + aliceToken,
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid cookie token",
			cookie:     aliceToken,
			wantStatus: http.StatusOK,
		},
		{
			name:       "header preferred over cookie",
			header:     "Bearer not-a-token",
			cookie:     aliceToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "inactive account treated as unauthenticated",
			header:     "Bearer " + bobToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "token for deleted account",
			header:     "Bearer " + ghostToken,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", 7)
	loader := &stubUserLoader{users: map[int64]*models.User{
		1: {ID: 1, Username: "alice", Role: models.RoleUser, IsActive: true},
		2: {ID: 2, Username: "root", Role: models.RoleAdmin, IsActive: true},
	}}
	m := NewAuthMiddleware(tokens, loader, nil)
	router := newTestRouter(m)

	userToken, _ := tokens.Issue(1, "alice@x.com", models.RoleUser)
	adminToken, _ := tokens.Issue(2, "root@x.com", models.RoleAdmin)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{
			name:       "unauthenticated is 401 not 403",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "authenticated non-admin is 403",
			token:      userToken,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin passes",
			token:      adminToken,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRequireRoleBlocksHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenService("test-secret", 7)
	loader := &stubUserLoader{users: map[int64]*models.User{
		1: {ID: 1, Username: "alice", Role: models.RoleUser, IsActive: true},
	}}
	m := NewAuthMiddleware(tokens, loader, nil)

	executed := false
	r := gin.New()
	r.POST("/admin", m.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		executed = true
		respond(c, http.StatusOK, "mutated", nil)
	})

	token, err := tokens.Issue(1, "alice@x.com", models.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 (body: %s)", w.Code, w.Body.String())
	}
	if executed {
		t.Error("handler ran for a non-admin identity; the role gate must stop the chain")
	}
}

func TestDenylistedToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", 7)
	loader := &stubUserLoader{users: map[int64]*models.User{
		1: {ID: 1, Username: "alice", Role: models.RoleUser, IsActive: true},
	}}

	raw, err := tokens.Issue(1, "alice@x.com", models.RoleUser)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	claims, err := tokens.Verify(raw)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}

	deny := &stubDenylist{revoked: map[string]bool{claims.ID: true}}
	router := newTestRouter(NewAuthMiddleware(tokens, loader, deny))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for denylisted token", w.Code)
	}
}
