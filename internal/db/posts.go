package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/models"
)

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// PostFilter narrows post listings. All set fields are ANDed together.
type PostFilter struct {
	Status        string
	CategoryID    int64
	SubCategoryID int64
	Featured      *bool
	Search        string // matched against title, excerpt and tags
	Page          int
	Limit         int
}

// List retrieves posts matching the filter with the total count. The content
// body is omitted from the projection to keep list payloads small; only the
// detail fetch returns it.
func (r *PostRepository) List(ctx context.Context, f PostFilter) ([]*models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.SubCategoryID != 0 {
		q = q.Where("subcategory_id = ?", f.SubCategoryID)
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("title ILIKE ? OR excerpt ILIKE ? OR tags ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := applyPage(q, f.Page, f.Limit, 12).
		Omit("content").
		Preload("Category").
		Preload("SubCategory").
		Preload("Author").
		Order("published_at DESC NULLS LAST, created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug retrieves a post by slug regardless of status.
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetPublishedBySlug retrieves a published post by slug with its
// relationships attached, for the public detail view.
func (r *PostRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("SubCategory").
		Preload("Author").
		Where("slug = ? AND status = ?", slug, models.PostStatusPublished).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// SlugExists reports whether any post already holds the slug.
func (r *PostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Update updates a post
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// IncrementViews bumps the view counter in a single atomic UPDATE. Callers
// return the pre-read value plus one instead of issuing a second read.
func (r *PostRepository) IncrementViews(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// Delete removes a post and all of its comments in one transaction.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}
