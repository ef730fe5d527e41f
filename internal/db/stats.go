package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/models"
)

// StatsRepository aggregates dashboard statistics
type StatsRepository struct {
	*Repository
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(repo *Repository) *StatsRepository {
	return &StatsRepository{Repository: repo}
}

// Overview holds entity counters for the admin dashboard.
type Overview struct {
	TotalPosts       int64 `json:"totalPosts"`
	PublishedPosts   int64 `json:"publishedPosts"`
	DraftPosts       int64 `json:"draftPosts"`
	TotalUsers       int64 `json:"totalUsers"`
	ActiveUsers      int64 `json:"activeUsers"`
	TotalComments    int64 `json:"totalComments"`
	PendingComments  int64 `json:"pendingComments"`
	ApprovedComments int64 `json:"approvedComments"`
	TotalCategories  int64 `json:"totalCategories"`
	TotalViews       int64 `json:"totalViews"`
}

// CategoryCount is the number of published posts under one category.
type CategoryCount struct {
	CategoryID int64  `gorm:"column:category_id" json:"categoryId"`
	Name       string `gorm:"column:name" json:"name"`
	Color      string `gorm:"column:color" json:"color"`
	Count      int64  `gorm:"column:count" json:"count"`
}

// GetOverview collects the entity/status counters and the total view sum.
func (r *StatsRepository) GetOverview(ctx context.Context) (*Overview, error) {
	o := &Overview{}
	db := r.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		model interface{}
		cond  []interface{}
	}{
		{&o.TotalPosts, &models.Post{}, nil},
		{&o.PublishedPosts, &models.Post{}, []interface{}{"status = ?", models.PostStatusPublished}},
		{&o.DraftPosts, &models.Post{}, []interface{}{"status = ?", models.PostStatusDraft}},
		{&o.TotalUsers, &models.User{}, nil},
		{&o.ActiveUsers, &models.User{}, []interface{}{"is_active = ?", true}},
		{&o.TotalComments, &models.Comment{}, nil},
		{&o.PendingComments, &models.Comment{}, []interface{}{"status = ?", models.CommentStatusPending}},
		{&o.ApprovedComments, &models.Comment{}, []interface{}{"status = ?", models.CommentStatusApproved}},
		{&o.TotalCategories, &models.Category{}, []interface{}{"is_active = ?", true}},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.cond != nil {
			q = q.Where(c.cond[0], c.cond[1:]...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var views struct {
		Total int64 `gorm:"column:total"`
	}
	err := db.Model(&models.Post{}).
		Select("COALESCE(SUM(views), 0) AS total").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	o.TotalViews = views.Total

	return o, nil
}

// RecentPosts retrieves the most recently created posts.
func (r *StatsRepository) RecentPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Omit("content").
		Preload("Category").
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// RecentComments retrieves the most recently created comments.
func (r *StatsRepository) RecentComments(ctx context.Context, limit int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Post", func(db *gorm.DB) *gorm.DB {
			return db.Omit("content")
		}).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// PopularPosts retrieves the most viewed published posts.
func (r *StatsRepository) PopularPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Omit("content").
		Preload("Category").
		Where("status = ?", models.PostStatusPublished).
		Order("views DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// PostsByCategory counts published posts per category, most populous first.
func (r *StatsRepository) PostsByCategory(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("cms_posts.category_id, cms_categories.name, cms_categories.color, COUNT(*) AS count").
		Joins("INNER JOIN cms_categories ON cms_categories.id = cms_posts.category_id").
		Where("cms_posts.status = ?", models.PostStatusPublished).
		Group("cms_posts.category_id, cms_categories.name, cms_categories.color").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
