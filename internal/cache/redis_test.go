package cache

import (
	"testing"
)

func TestHashKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
	}{
		{
			name:  "single part",
			parts: []string{"test"},
		},
		{
			name:  "multiple parts",
			parts: []string{"posts", "published", "page-2"},
		},
		{
			name:  "empty parts",
			parts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed1 := HashKey(tt.parts...)
			hashed2 := HashKey(tt.parts...)

			// Hash should be consistent
			if hashed1 != hashed2 {
				t.Errorf("HashKey() should be consistent, got %s and %s", hashed1, hashed2)
			}

			// Hash should be 32 characters (MD5 hex)
			if len(hashed1) != 32 {
				t.Errorf("HashKey() should return 32 character hex string, got length %d", len(hashed1))
			}
		})
	}

	if HashKey("a", "b") == HashKey("ab") {
		t.Error("HashKey() should separate parts before hashing")
	}
}

func TestCache_NamespaceKey(t *testing.T) {
	cache := &Cache{}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "simple key",
			key:      "test",
			expected: "inkwell:test",
		},
		{
			name:     "key with colon",
			key:      "denylist:abc",
			expected: "inkwell:denylist:abc",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "inkwell:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cache.namespaceKey(tt.key)
			if result != tt.expected {
				t.Errorf("namespaceKey() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestDisabledCacheIsSafe(t *testing.T) {
	var c *Cache

	if _, err := c.Get("k"); err != ErrCacheDisabled {
		t.Errorf("Get() on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Set("k", "v", 0); err != ErrCacheDisabled {
		t.Errorf("Set() on nil cache = %v, want ErrCacheDisabled", err)
	}
	if c.TokenDenylisted("jti") {
		t.Error("TokenDenylisted() on nil cache should report false")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil cache should be a no-op, got %v", err)
	}
}
