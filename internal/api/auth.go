package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell-cms/inkwell/internal/auth"
	"github.com/inkwell-cms/inkwell/internal/cache"
	"github.com/inkwell-cms/inkwell/internal/db"
	"github.com/inkwell-cms/inkwell/internal/models"
	"github.com/inkwell-cms/inkwell/pkg/logging"
)

// AuthAPI serves registration, login, logout and identity endpoints.
type AuthAPI struct {
	users      *db.UserRepository
	tokens     *auth.TokenService
	cache      *cache.Cache
	bcryptCost int
	production bool
	logger     *zap.Logger
}

// NewAuthAPI creates the auth API.
func NewAuthAPI(users *db.UserRepository, tokens *auth.TokenService, redisCache *cache.Cache, bcryptCost int, production bool) *AuthAPI {
	return &AuthAPI{
		users:      users,
		tokens:     tokens,
		cache:      redisCache,
		bcryptCost: bcryptCost,
		production: production,
		logger:     logging.WithComponent("auth-api"),
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userPayload is the identity shape returned by auth endpoints, stripped
// of the credential hash.
func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"role":     u.Role,
		"avatar":   u.Avatar,
	}
}

// setAuthCookie transports the token as an HTTP-only, same-site-strict
// cookie with a max-age matching the token lifetime.
func (a *AuthAPI) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, token, int(a.tokens.TTL().Seconds()), "/", "", a.production, true)
}

// Register handles POST /api/auth/register
func (a *AuthAPI) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Username == "" || req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "Username, email and password are required")
		return
	}
	if len(req.Password) < 6 {
		fail(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	ctx := c.Request.Context()

	exists, err := a.users.ExistsByIdentity(ctx, req.Username, req.Email)
	if err != nil {
		a.serverError(c, "register lookup failed", err)
		return
	}
	if exists {
		fail(c, http.StatusBadRequest, "User with this email or username already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password, a.bcryptCost)
	if err != nil {
		a.serverError(c, "password hashing failed", err)
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := a.users.Create(ctx, user); err != nil {
		a.serverError(c, "user creation failed", err)
		return
	}

	token, err := a.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		a.serverError(c, "token issuance failed", err)
		return
	}
	a.setAuthCookie(c, token)

	respond(c, http.StatusOK, "User registered successfully", gin.H{
		"user":  userPayload(user),
		"token": token,
	})
}

// Login handles POST /api/auth/login
func (a *AuthAPI) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx := c.Request.Context()

	user, err := a.users.GetByEmail(ctx, req.Email)
	if err != nil {
		a.serverError(c, "login lookup failed", err)
		return
	}
	if user == nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		// Deactivated accounts fail login regardless of password.
		fail(c, http.StatusUnauthorized, "Account is deactivated")
		return
	}

	if err := a.users.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		a.logger.Warn("failed to record last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	token, err := a.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		a.serverError(c, "token issuance failed", err)
		return
	}
	a.setAuthCookie(c, token)

	respond(c, http.StatusOK, "Login successful", gin.H{
		"user":  userPayload(user),
		"token": token,
	})
}

// Logout handles POST /api/auth/logout. The cookie is cleared, and when a
// denylist backend is available the token is revoked for the remainder of
// its lifetime.
func (a *AuthAPI) Logout(c *gin.Context) {
	if raw := extractToken(c); raw != "" {
		if claims, err := a.tokens.Verify(raw); err == nil && claims.ExpiresAt != nil {
			remaining := time.Until(claims.ExpiresAt.Time)
			if err := a.cache.DenylistToken(claims.ID, remaining); err != nil && err != cache.ErrCacheDisabled {
				a.logger.Warn("failed to denylist token", zap.Error(err))
			}
		}
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, "", -1, "/", "", a.production, true)
	respond(c, http.StatusOK, "Logged out", nil)
}

// Me handles GET /api/auth/me
func (a *AuthAPI) Me(c *gin.Context) {
	user := CurrentUser(c)
	respond(c, http.StatusOK, "Success", gin.H{
		"user": userPayload(user),
	})
}

func (a *AuthAPI) serverError(c *gin.Context, msg string, err error) {
	a.logger.Error(msg, zap.Error(err))
	fail(c, http.StatusInternalServerError, "Internal server error")
}
