package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/models"
)

// CategoryRepository provides category-related database operations
type CategoryRepository struct {
	*Repository
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(repo *Repository) *CategoryRepository {
	return &CategoryRepository{Repository: repo}
}

// ListActive retrieves active categories ordered for display.
func (r *CategoryRepository) ListActive(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// ExistsConflict reports whether another category already holds the given
// name or slug. Category slugs are globally unique. excludeID skips the
// row being updated; pass 0 on create.
func (r *CategoryRepository) ExistsConflict(ctx context.Context, name, slug string, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("name = ? OR slug = ?", name, slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// Update updates a category
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete removes a category by ID
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, id).Error
}

// SubCategoryRepository provides subcategory-related database operations
type SubCategoryRepository struct {
	*Repository
}

// NewSubCategoryRepository creates a new subcategory repository
func NewSubCategoryRepository(repo *Repository) *SubCategoryRepository {
	return &SubCategoryRepository{Repository: repo}
}

// List retrieves active subcategories, optionally scoped to one category.
func (r *SubCategoryRepository) List(ctx context.Context, categoryID int64) ([]*models.SubCategory, error) {
	q := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ?", true)
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}

	var subs []*models.SubCategory
	if err := q.Order("sort_order ASC, name ASC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// GetByID retrieves a subcategory by ID
func (r *SubCategoryRepository) GetByID(ctx context.Context, id int64) (*models.SubCategory, error) {
	var sub models.SubCategory
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// ExistsConflict reports whether the slug is already taken inside the parent
// category. Uniqueness is scoped to the parent: the same slug under two
// different categories is allowed.
func (r *SubCategoryRepository) ExistsConflict(ctx context.Context, categoryID int64, slug string, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.SubCategory{}).
		Where("category_id = ? AND slug = ?", categoryID, slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// Create creates a new subcategory
func (r *SubCategoryRepository) Create(ctx context.Context, sub *models.SubCategory) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// Update updates a subcategory
func (r *SubCategoryRepository) Update(ctx context.Context, sub *models.SubCategory) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

// Delete removes a subcategory by ID
func (r *SubCategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.SubCategory{}, id).Error
}
