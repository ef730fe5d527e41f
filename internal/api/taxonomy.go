package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell-cms/inkwell/internal/cache"
	"github.com/inkwell-cms/inkwell/internal/db"
	"github.com/inkwell-cms/inkwell/internal/models"
	"github.com/inkwell-cms/inkwell/internal/slug"
	"github.com/inkwell-cms/inkwell/pkg/logging"
)

const categoryCacheTTL = 5 * time.Minute

// categoryStore is the category persistence surface the handlers need.
type categoryStore interface {
	ListActive(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	ExistsConflict(ctx context.Context, name, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// subCategoryStore is the subcategory persistence surface. Conflict
// checks carry the parent category: slugs are unique per parent only.
type subCategoryStore interface {
	List(ctx context.Context, categoryID int64) ([]*models.SubCategory, error)
	GetByID(ctx context.Context, id int64) (*models.SubCategory, error)
	ExistsConflict(ctx context.Context, categoryID int64, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, sub *models.SubCategory) error
	Update(ctx context.Context, sub *models.SubCategory) error
	Delete(ctx context.Context, id int64) error
}

// TaxonomyAPI serves category and subcategory management. Reads are
// public; writes are admin-only.
type TaxonomyAPI struct {
	cats    categoryStore
	subcats subCategoryStore
	cache   *cache.Cache
	logger  *zap.Logger
}

// NewTaxonomyAPI creates the taxonomy API.
func NewTaxonomyAPI(repo *db.Repository, redisCache *cache.Cache) *TaxonomyAPI {
	return &TaxonomyAPI{
		cats:    db.NewCategoryRepository(repo),
		subcats: db.NewSubCategoryRepository(repo),
		cache:   redisCache,
		logger:  logging.WithComponent("taxonomy-api"),
	}
}

func categoryCacheKey() string {
	return cache.HashKey("categories", "active")
}

// invalidateCategories drops the cached category list after any write.
func (t *TaxonomyAPI) invalidateCategories() {
	if err := t.cache.Delete(categoryCacheKey()); err != nil && err != cache.ErrCacheDisabled {
		t.logger.Warn("failed to invalidate category cache", zap.Error(err))
	}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	SortOrder   int    `json:"order"`
	IsActive    *bool  `json:"isActive"`
}

type subCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  int64  `json:"categoryId"`
	SortOrder   int    `json:"order"`
	IsActive    *bool  `json:"isActive"`
}

// ListCategories handles GET /api/categories. The active list changes
// rarely, so it is served from cache between writes.
func (t *TaxonomyAPI) ListCategories(c *gin.Context) {
	var cached []*models.Category
	if err := t.cache.GetJSON(categoryCacheKey(), &cached); err == nil {
		respond(c, http.StatusOK, "Success", gin.H{"categories": cached})
		return
	}

	categories, err := t.cats.ListActive(c.Request.Context())
	if err != nil {
		t.serverError(c, "category listing failed", err)
		return
	}

	if err := t.cache.SetJSON(categoryCacheKey(), categories, categoryCacheTTL); err != nil && err != cache.ErrCacheDisabled {
		t.logger.Warn("failed to cache category list", zap.Error(err))
	}
	respond(c, http.StatusOK, "Success", gin.H{"categories": categories})
}

// GetCategory handles GET /api/categories/:id.
func (t *TaxonomyAPI) GetCategory(c *gin.Context) {
	category, err := t.cats.GetByID(c.Request.Context(), paramID(c))
	if err != nil {
		t.serverError(c, "category lookup failed", err)
		return
	}
	if category == nil {
		fail(c, http.StatusNotFound, "Category not found")
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"category": category})
}

// CreateCategory handles POST /api/categories (admin only). The slug is
// derived from the name and must be unique across all categories.
func (t *TaxonomyAPI) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		fail(c, http.StatusBadRequest, "Name is required")
		return
	}
	catSlug := slug.Make(req.Name)
	if catSlug == "" {
		fail(c, http.StatusBadRequest, "Name must contain letters or digits")
		return
	}

	ctx := c.Request.Context()
	conflict, err := t.cats.ExistsConflict(ctx, req.Name, catSlug, 0)
	if err != nil {
		t.serverError(c, "category lookup failed", err)
		return
	}
	if conflict {
		fail(c, http.StatusBadRequest, "Category with this name already exists")
		return
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        catSlug,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if err := t.cats.Create(ctx, category); err != nil {
		t.serverError(c, "category creation failed", err)
		return
	}
	t.invalidateCategories()

	respond(c, http.StatusOK, "Category created successfully", gin.H{"category": category})
}

// UpdateCategory handles PUT /api/categories/:id (admin only). Renaming
// re-derives the slug, subject to the same uniqueness check.
func (t *TaxonomyAPI) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	category, err := t.cats.GetByID(ctx, paramID(c))
	if err != nil {
		t.serverError(c, "category lookup failed", err)
		return
	}
	if category == nil {
		fail(c, http.StatusNotFound, "Category not found")
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" && name != category.Name {
		newSlug := slug.Make(name)
		if newSlug == "" {
			fail(c, http.StatusBadRequest, "Name must contain letters or digits")
			return
		}
		conflict, err := t.cats.ExistsConflict(ctx, name, newSlug, category.ID)
		if err != nil {
			t.serverError(c, "category lookup failed", err)
			return
		}
		if conflict {
			fail(c, http.StatusBadRequest, "Category with this name already exists")
			return
		}
		category.Name = name
		category.Slug = newSlug
	}
	if req.Description != "" {
		category.Description = req.Description
	}
	if req.Icon != "" {
		category.Icon = req.Icon
	}
	if req.Color != "" {
		category.Color = req.Color
	}
	if req.SortOrder != 0 {
		category.SortOrder = req.SortOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := t.cats.Update(ctx, category); err != nil {
		t.serverError(c, "category update failed", err)
		return
	}
	t.invalidateCategories()

	respond(c, http.StatusOK, "Category updated successfully", gin.H{"category": category})
}

// DeleteCategory handles DELETE /api/categories/:id (admin only).
func (t *TaxonomyAPI) DeleteCategory(c *gin.Context) {
	ctx := c.Request.Context()
	category, err := t.cats.GetByID(ctx, paramID(c))
	if err != nil {
		t.serverError(c, "category lookup failed", err)
		return
	}
	if category == nil {
		fail(c, http.StatusNotFound, "Category not found")
		return
	}

	if err := t.cats.Delete(ctx, category.ID); err != nil {
		t.serverError(c, "category deletion failed", err)
		return
	}
	t.invalidateCategories()
	respond(c, http.StatusOK, "Category deleted successfully", nil)
}

// ListSubCategories handles GET /api/subcategories, optionally scoped to
// one category via ?category=.
func (t *TaxonomyAPI) ListSubCategories(c *gin.Context) {
	subs, err := t.subcats.List(c.Request.Context(), queryID(c, "category"))
	if err != nil {
		t.serverError(c, "subcategory listing failed", err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"subCategories": subs})
}

// CreateSubCategory handles POST /api/subcategories (admin only). The
// slug must be unique only within the parent category.
func (t *TaxonomyAPI) CreateSubCategory(c *gin.Context) {
	var req subCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.CategoryID == 0 {
		fail(c, http.StatusBadRequest, "Name and category are required")
		return
	}
	subSlug := slug.Make(req.Name)
	if subSlug == "" {
		fail(c, http.StatusBadRequest, "Name must contain letters or digits")
		return
	}

	ctx := c.Request.Context()
	parent, err := t.cats.GetByID(ctx, req.CategoryID)
	if err != nil {
		t.serverError(c, "category lookup failed", err)
		return
	}
	if parent == nil {
		fail(c, http.StatusNotFound, "Category not found")
		return
	}

	conflict, err := t.subcats.ExistsConflict(ctx, req.CategoryID, subSlug, 0)
	if err != nil {
		t.serverError(c, "subcategory lookup failed", err)
		return
	}
	if conflict {
		fail(c, http.StatusBadRequest, "SubCategory with this name already exists in the category")
		return
	}

	sub := &models.SubCategory{
		Name:        req.Name,
		Slug:        subSlug,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}
	if err := t.subcats.Create(ctx, sub); err != nil {
		t.serverError(c, "subcategory creation failed", err)
		return
	}

	sub.Category = parent
	respond(c, http.StatusOK, "SubCategory created successfully", gin.H{"subCategory": sub})
}

// UpdateSubCategory handles PUT /api/subcategories/:id (admin only).
// Moving a subcategory to another parent re-checks slug uniqueness in the
// destination.
func (t *TaxonomyAPI) UpdateSubCategory(c *gin.Context) {
	var req subCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	sub, err := t.subcats.GetByID(ctx, paramID(c))
	if err != nil {
		t.serverError(c, "subcategory lookup failed", err)
		return
	}
	if sub == nil {
		fail(c, http.StatusNotFound, "SubCategory not found")
		return
	}

	targetCategory := sub.CategoryID
	if req.CategoryID != 0 && req.CategoryID != sub.CategoryID {
		parent, err := t.cats.GetByID(ctx, req.CategoryID)
		if err != nil {
			t.serverError(c, "category lookup failed", err)
			return
		}
		if parent == nil {
			fail(c, http.StatusNotFound, "Category not found")
			return
		}
		targetCategory = req.CategoryID
	}

	targetSlug := sub.Slug
	targetName := sub.Name
	if name := strings.TrimSpace(req.Name); name != "" && name != sub.Name {
		targetName = name
		targetSlug = slug.Make(name)
		if targetSlug == "" {
			fail(c, http.StatusBadRequest, "Name must contain letters or digits")
			return
		}
	}

	if targetSlug != sub.Slug || targetCategory != sub.CategoryID {
		conflict, err := t.subcats.ExistsConflict(ctx, targetCategory, targetSlug, sub.ID)
		if err != nil {
			t.serverError(c, "subcategory lookup failed", err)
			return
		}
		if conflict {
			fail(c, http.StatusBadRequest, "SubCategory with this name already exists in the category")
			return
		}
	}

	sub.Name = targetName
	sub.Slug = targetSlug
	sub.CategoryID = targetCategory
	if req.Description != "" {
		sub.Description = req.Description
	}
	if req.SortOrder != 0 {
		sub.SortOrder = req.SortOrder
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}
	sub.Category = nil

	if err := t.subcats.Update(ctx, sub); err != nil {
		t.serverError(c, "subcategory update failed", err)
		return
	}

	respond(c, http.StatusOK, "SubCategory updated successfully", gin.H{"subCategory": sub})
}

// DeleteSubCategory handles DELETE /api/subcategories/:id (admin only).
func (t *TaxonomyAPI) DeleteSubCategory(c *gin.Context) {
	ctx := c.Request.Context()
	sub, err := t.subcats.GetByID(ctx, paramID(c))
	if err != nil {
		t.serverError(c, "subcategory lookup failed", err)
		return
	}
	if sub == nil {
		fail(c, http.StatusNotFound, "SubCategory not found")
		return
	}

	if err := t.subcats.Delete(ctx, sub.ID); err != nil {
		t.serverError(c, "subcategory deletion failed", err)
		return
	}
	respond(c, http.StatusOK, "SubCategory deleted successfully", nil)
}

func (t *TaxonomyAPI) serverError(c *gin.Context, msg string, err error) {
	t.logger.Error(msg, zap.Error(err))
	fail(c, http.StatusInternalServerError, "Internal server error")
}
