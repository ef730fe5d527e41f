package api

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell-cms/inkwell/internal/db"
	"github.com/inkwell-cms/inkwell/internal/models"
	"github.com/inkwell-cms/inkwell/pkg/logging"
)

// commentStore is the comment persistence surface the handlers need.
type commentStore interface {
	List(ctx context.Context, f db.CommentFilter) ([]*models.Comment, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	GetByIDWithRelations(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	DeleteWithReplies(ctx context.Context, id int64) error
}

type postLoader interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
}

// CommentAPI serves comment submission and the moderation workflow.
type CommentAPI struct {
	comments commentStore
	posts    postLoader
	logger   *zap.Logger
}

// NewCommentAPI creates the comment API.
func NewCommentAPI(repo *db.Repository) *CommentAPI {
	return &CommentAPI{
		comments: db.NewCommentRepository(repo),
		posts:    db.NewPostRepository(repo),
		logger:   logging.WithComponent("comment-api"),
	}
}

type commentCreateRequest struct {
	Content  string `json:"content"`
	PostID   int64  `json:"postId"`
	ParentID int64  `json:"parentId"`
}

type commentStatusRequest struct {
	Status string `json:"status"`
}

// List handles GET /api/comments. Readers see approved comments; listing
// any other status requires an admin identity.
func (a *CommentAPI) List(c *gin.Context) {
	status := c.DefaultQuery("status", models.CommentStatusApproved)
	if !models.ValidCommentStatus(status) {
		fail(c, http.StatusBadRequest, "Invalid status")
		return
	}
	if status != models.CommentStatusApproved {
		user := CurrentUser(c)
		if user == nil {
			fail(c, http.StatusUnauthorized, "No token provided")
			return
		}
		if !user.IsAdmin() {
			fail(c, http.StatusForbidden, "Insufficient permissions")
			return
		}
	}

	// Post-scoped listings return roots with replies preloaded; the
	// moderation queue (no post filter) lists every comment flat.
	postID := queryID(c, "post")
	filter := db.CommentFilter{
		Status:    status,
		PostID:    postID,
		RootsOnly: postID != 0,
		Page:      queryInt(c, "page", 1),
		Limit:     queryLimit(c, 10),
	}

	comments, total, err := a.comments.List(c.Request.Context(), filter)
	if err != nil {
		a.serverError(c, "comment listing failed", err)
		return
	}

	respond(c, http.StatusOK, "Success", gin.H{
		"comments":   comments,
		"pagination": NewPagination(filter.Page, filter.Limit, total),
	})
}

// Create handles POST /api/comments. New comments always enter the queue
// as pending, regardless of the author's role. Replies must target a root
// comment on the same post.
func (a *CommentAPI) Create(c *gin.Context) {
	var req commentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" || req.PostID == 0 {
		fail(c, http.StatusBadRequest, "Content and post are required")
		return
	}

	ctx := c.Request.Context()

	post, err := a.posts.GetByID(ctx, req.PostID)
	if err != nil {
		a.serverError(c, "post lookup failed", err)
		return
	}
	if post == nil {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}

	var parentID sql.NullInt64
	if req.ParentID != 0 {
		parent, err := a.comments.GetByID(ctx, req.ParentID)
		if err != nil {
			a.serverError(c, "parent comment lookup failed", err)
			return
		}
		if parent == nil {
			fail(c, http.StatusNotFound, "Parent comment not found")
			return
		}
		if !parent.IsRoot() {
			fail(c, http.StatusBadRequest, "Replies to replies are not allowed")
			return
		}
		if parent.PostID != req.PostID {
			fail(c, http.StatusBadRequest, "Parent comment belongs to a different post")
			return
		}
		parentID = sql.NullInt64{Int64: parent.ID, Valid: true}
	}

	comment := &models.Comment{
		Content:  req.Content,
		AuthorID: CurrentUser(c).ID,
		PostID:   req.PostID,
		ParentID: parentID,
		Status:   models.CommentStatusPending,
	}
	if err := a.comments.Create(ctx, comment); err != nil {
		a.serverError(c, "comment creation failed", err)
		return
	}

	respond(c, http.StatusOK, "Comment submitted for review", gin.H{"comment": comment})
}

// UpdateStatus handles PUT /api/comments/:id/status (admin only).
// Approving stamps the moderation record; moving to any other status
// clears it. Nothing ever returns to pending.
func (a *CommentAPI) UpdateStatus(c *gin.Context) {
	var req commentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !models.ValidCommentStatus(req.Status) {
		fail(c, http.StatusBadRequest, "Invalid status")
		return
	}

	ctx := c.Request.Context()

	comment, err := a.comments.GetByID(ctx, paramID(c))
	if err != nil {
		a.serverError(c, "comment lookup failed", err)
		return
	}
	if comment == nil {
		fail(c, http.StatusNotFound, "Comment not found")
		return
	}

	if !models.CanTransition(comment.Status, req.Status) {
		fail(c, http.StatusBadRequest, "Cannot change status from "+comment.Status+" to "+req.Status)
		return
	}

	comment.Status = req.Status
	if req.Status == models.CommentStatusApproved {
		comment.ApprovedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
		comment.ApprovedByID = sql.NullInt64{Int64: CurrentUser(c).ID, Valid: true}
	} else {
		comment.ApprovedAt = sql.NullTime{}
		comment.ApprovedByID = sql.NullInt64{}
	}

	if err := a.comments.Update(ctx, comment); err != nil {
		a.serverError(c, "comment update failed", err)
		return
	}

	updated, err := a.comments.GetByIDWithRelations(ctx, comment.ID)
	if err != nil || updated == nil {
		updated = comment
	}
	respond(c, http.StatusOK, "Comment "+req.Status, gin.H{"comment": updated})
}

// Delete handles DELETE /api/comments/:id (admin only). Deleting a root
// comment removes its replies too, so roots-only listings stay consistent.
func (a *CommentAPI) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	comment, err := a.comments.GetByID(ctx, paramID(c))
	if err != nil {
		a.serverError(c, "comment lookup failed", err)
		return
	}
	if comment == nil {
		fail(c, http.StatusNotFound, "Comment not found")
		return
	}

	if err := a.comments.DeleteWithReplies(ctx, comment.ID); err != nil {
		a.serverError(c, "comment deletion failed", err)
		return
	}

	respond(c, http.StatusOK, "Comment deleted successfully", nil)
}

func (a *CommentAPI) serverError(c *gin.Context, msg string, err error) {
	a.logger.Error(msg, zap.Error(err))
	fail(c, http.StatusInternalServerError, "Internal server error")
}
