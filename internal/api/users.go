package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell-cms/inkwell/internal/auth"
	"github.com/inkwell-cms/inkwell/internal/db"
	"github.com/inkwell-cms/inkwell/internal/models"
	"github.com/inkwell-cms/inkwell/pkg/logging"
)

// UserAPI serves profile self-service and admin account management.
type UserAPI struct {
	users      *db.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserAPI creates the user API.
func NewUserAPI(users *db.UserRepository, bcryptCost int) *UserAPI {
	return &UserAPI{
		users:      users,
		bcryptCost: bcryptCost,
		logger:     logging.WithComponent("user-api"),
	}
}

type profileRequest struct {
	Username        string  `json:"username"`
	Avatar          *string `json:"avatar"`
	Bio             *string `json:"bio"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
}

type userActionRequest struct {
	Action string `json:"action"`
}

// List handles GET /api/users (admin only).
func (a *UserAPI) List(c *gin.Context) {
	filter := db.UserFilter{
		Search: c.Query("search"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryLimit(c, 10),
	}
	switch c.Query("active") {
	case "true":
		active := true
		filter.Active = &active
	case "false":
		active := false
		filter.Active = &active
	}

	users, total, err := a.users.List(c.Request.Context(), filter)
	if err != nil {
		a.serverError(c, "user listing failed", err)
		return
	}

	respond(c, http.StatusOK, "Success", gin.H{
		"users":      users,
		"pagination": NewPagination(filter.Page, filter.Limit, total),
	})
}

// UpdateProfile handles PUT /api/users/profile. Changing the password
// requires proving the current one.
func (a *UserAPI) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	user := CurrentUser(c)

	if username := strings.TrimSpace(req.Username); username != "" && username != user.Username {
		exists, err := a.users.ExistsByIdentity(ctx, username, "")
		if err != nil {
			a.serverError(c, "username lookup failed", err)
			return
		}
		if exists {
			fail(c, http.StatusBadRequest, "Username is already taken")
			return
		}
		user.Username = username
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if req.NewPassword != "" {
		if len(req.NewPassword) < 6 {
			fail(c, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		if !auth.VerifyPassword(user.PasswordHash, req.CurrentPassword) {
			fail(c, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		hash, err := auth.HashPassword(req.NewPassword, a.bcryptCost)
		if err != nil {
			a.serverError(c, "password hashing failed", err)
			return
		}
		user.PasswordHash = hash
	}

	if err := a.users.Update(ctx, user); err != nil {
		a.serverError(c, "profile update failed", err)
		return
	}

	respond(c, http.StatusOK, "Profile updated successfully", gin.H{"user": userPayload(user)})
}

// Action handles PUT /api/users/:id (admin only): activate,
// deactivate, make_admin, remove_admin. Admins cannot strip or
// deactivate their own account through this endpoint.
func (a *UserAPI) Action(c *gin.Context) {
	var req userActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := c.Request.Context()

	target, err := a.users.GetByID(ctx, paramID(c))
	if err != nil {
		a.serverError(c, "user lookup failed", err)
		return
	}
	if target == nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}

	actor := CurrentUser(c)
	if target.ID == actor.ID {
		fail(c, http.StatusBadRequest, "Cannot perform this action on your own account")
		return
	}

	switch req.Action {
	case "activate":
		target.IsActive = true
	case "deactivate":
		target.IsActive = false
	case "make_admin":
		target.Role = models.RoleAdmin
	case "remove_admin":
		target.Role = models.RoleUser
	default:
		fail(c, http.StatusBadRequest, "Invalid action")
		return
	}

	if err := a.users.Update(ctx, target); err != nil {
		a.serverError(c, "user update failed", err)
		return
	}

	respond(c, http.StatusOK, "User updated successfully", gin.H{"user": userPayload(target)})
}

// Delete handles DELETE /api/users/:id (admin only). Self-deletion is
// rejected so an instance cannot lose its last admin by accident.
func (a *UserAPI) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	target, err := a.users.GetByID(ctx, paramID(c))
	if err != nil {
		a.serverError(c, "user lookup failed", err)
		return
	}
	if target == nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}

	actor := CurrentUser(c)
	if target.ID == actor.ID {
		fail(c, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	if err := a.users.Delete(ctx, target.ID); err != nil {
		a.serverError(c, "user deletion failed", err)
		return
	}

	respond(c, http.StatusOK, "User deleted successfully", nil)
}

func (a *UserAPI) serverError(c *gin.Context, msg string, err error) {
	a.logger.Error(msg, zap.Error(err))
	fail(c, http.StatusInternalServerError, "Internal server error")
}
