package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/models"
)

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// CommentFilter narrows comment listings.
type CommentFilter struct {
	Status    string
	PostID    int64
	RootsOnly bool // return only parentless comments; replies come preloaded
	Page      int
	Limit     int
}

// List retrieves comments matching the filter, newest first, with the total
// count. Replies and their authors are eagerly attached to each root.
func (r *CommentRepository) List(ctx context.Context, f CommentFilter) ([]*models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PostID != 0 {
		q = q.Where("post_id = ?", f.PostID)
	}
	if f.RootsOnly {
		q = q.Where("parent_id IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*models.Comment
	err := applyPage(q, f.Page, f.Limit, 10).
		Preload("Author").
		Preload("Post", func(db *gorm.DB) *gorm.DB {
			return db.Omit("content")
		}).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.Author").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// ApprovedRootsByPost retrieves the approved root comments of a post with
// approved replies attached, for the public post detail view.
func (r *CommentRepository) ApprovedRootsByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", models.CommentStatusApproved).Order("created_at ASC")
		}).
		Preload("Replies.Author").
		Where("post_id = ? AND status = ? AND parent_id IS NULL", postID, models.CommentStatusApproved).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// GetByIDWithRelations retrieves a comment with author and post attached.
func (r *CommentRepository) GetByIDWithRelations(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Post", func(db *gorm.DB) *gorm.DB {
			return db.Omit("content")
		}).
		First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// Update updates a comment
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// DeleteWithReplies removes a comment and any replies that reference it in
// one transaction, so a deleted root never leaves orphaned replies behind.
func (r *CommentRepository) DeleteWithReplies(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
}
