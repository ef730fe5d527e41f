package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkwell-cms/inkwell/internal/auth"
	"github.com/inkwell-cms/inkwell/internal/models"
	"github.com/inkwell-cms/inkwell/pkg/logging"
)

// CookieName is the session cookie carrying the token. Every path uses
// this single name, including registration.
const CookieName = "auth-token"

const (
	ctxUserKey      = "currentUser"
	ctxRequestIDKey = "requestID"
)

// UserLoader resolves a token subject to its account record.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// TokenDenylist reports tokens revoked before their natural expiry.
type TokenDenylist interface {
	TokenDenylisted(jti string) bool
}

// AuthMiddleware resolves request identity from a bearer token or the
// session cookie. Identity is request-scoped: nothing is cached across
// requests.
type AuthMiddleware struct {
	tokens *auth.TokenService
	users  UserLoader
	deny   TokenDenylist
	logger *zap.Logger
}

// NewAuthMiddleware creates the access control middleware. deny may be nil
// when no denylist backend is configured.
func NewAuthMiddleware(tokens *auth.TokenService, users UserLoader, deny TokenDenylist) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
		deny:   deny,
		logger: logging.WithComponent("auth-middleware"),
	}
}

// RequestID attaches a unique ID to each request for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// extractToken returns the candidate token, preferring the Authorization
// header and falling back to the session cookie.
func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if tok, err := c.Cookie(CookieName); err == nil {
		return tok
	}
	return ""
}

// resolve verifies the request's token and loads the account. The reason
// string is a caller-facing message; a nil user with empty reason means no
// token was presented.
func (m *AuthMiddleware) resolve(c *gin.Context) (*models.User, string) {
	raw := extractToken(c)
	if raw == "" {
		return nil, ""
	}

	claims, err := m.tokens.Verify(raw)
	if err != nil {
		return nil, "Invalid or expired token"
	}
	if m.deny != nil && m.deny.TokenDenylisted(claims.ID) {
		return nil, "Invalid or expired token"
	}

	user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		m.logger.Error("failed to load user for token", zap.Int64("user_id", claims.UserID), zap.Error(err))
		return nil, "Authentication failed"
	}
	if user == nil || !user.IsActive {
		// A valid token for a deactivated or deleted account is treated
		// as unauthenticated for all purposes.
		return nil, "User not found or inactive"
	}
	return user, ""
}

// Authenticate requires a valid token bound to an active account.
// Failures map to 401.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, reason := m.resolve(c)
		if user == nil {
			if reason == "" {
				reason = "No token provided"
			}
			fail(c, http.StatusUnauthorized, reason)
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// Optional resolves identity when a token is present but never rejects
// the request. Handlers serving both public and privileged views use it.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, _ := m.resolve(c); user != nil {
			c.Set(ctxUserKey, user)
		}
		c.Next()
	}
}

// RequireRole requires a valid identity carrying the given role. Identity
// and role are both checked before the handler chain advances. A valid
// identity with the wrong role yields 403, distinct from the 401 of a
// missing or invalid token; callers branch on that distinction.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, reason := m.resolve(c)
		if user == nil {
			if reason == "" {
				reason = "No token provided"
			}
			fail(c, http.StatusUnauthorized, reason)
			return
		}
		if user.Role != role {
			fail(c, http.StatusForbidden, "Insufficient permissions")
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the identity attached by the middleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
