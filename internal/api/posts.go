package api

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
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

const postListCacheTTL = time.Minute

// postStore is the post persistence surface the handlers need.
type postStore interface {
	List(ctx context.Context, f db.PostFilter) ([]*models.Post, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	IncrementViews(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// approvedCommentLoader resolves the visible comment thread of a post.
type approvedCommentLoader interface {
	ApprovedRootsByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
}

type categoryLoader interface {
	GetByID(ctx context.Context, id int64) (*models.Category, error)
}

type subCategoryLoader interface {
	GetByID(ctx context.Context, id int64) (*models.SubCategory, error)
}

// PostAPI serves post CRUD and the public browsing endpoints.
type PostAPI struct {
	posts    postStore
	comments approvedCommentLoader
	cats     categoryLoader
	subcats  subCategoryLoader
	cache    *cache.Cache
	logger   *zap.Logger
}

// NewPostAPI creates the post API.
func NewPostAPI(repo *db.Repository, redisCache *cache.Cache) *PostAPI {
	return &PostAPI{
		posts:    db.NewPostRepository(repo),
		comments: db.NewCommentRepository(repo),
		cats:     db.NewCategoryRepository(repo),
		subcats:  db.NewSubCategoryRepository(repo),
		cache:    redisCache,
		logger:   logging.WithComponent("post-api"),
	}
}

type postCreateRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	Thumbnail     string   `json:"thumbnail"`
	Tags          []string `json:"tags"`
	CategoryID    int64    `json:"categoryId"`
	SubCategoryID int64    `json:"subCategoryId"`
	Status        string   `json:"status"`
	Featured      bool     `json:"featured"`
}

type postUpdateRequest struct {
	Title         *string   `json:"title"`
	Content       *string   `json:"content"`
	Excerpt       *string   `json:"excerpt"`
	Thumbnail     *string   `json:"thumbnail"`
	Tags          *[]string `json:"tags"`
	CategoryID    *int64    `json:"categoryId"`
	SubCategoryID *int64    `json:"subCategoryId"`
	Status        *string   `json:"status"`
	Featured      *bool     `json:"featured"`
}

type postListPayload struct {
	Posts      []*models.Post `json:"posts"`
	Pagination Pagination     `json:"pagination"`
}

func joinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, ",")
}

// maxPageSize caps caller-supplied page limits on every listing.
const maxPageSize = 100

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func queryLimit(c *gin.Context, def int) int {
	v := queryInt(c, "limit", def)
	if v > maxPageSize {
		return maxPageSize
	}
	return v
}

func queryID(c *gin.Context, key string) int64 {
	v, _ := strconv.ParseInt(c.Query(key), 10, 64)
	return v
}

func paramID(c *gin.Context) int64 {
	v, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	return v
}

// List handles GET /api/posts. Filters are ANDed; the default view is
// published posts, and any other status requires an admin identity.
func (p *PostAPI) List(c *gin.Context) {
	status := c.DefaultQuery("status", models.PostStatusPublished)
	if !models.ValidPostStatus(status) {
		fail(c, http.StatusBadRequest, "Invalid status")
		return
	}
	if status != models.PostStatusPublished {
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

	filter := db.PostFilter{
		Status:        status,
		CategoryID:    queryID(c, "category"),
		SubCategoryID: queryID(c, "subCategory"),
		Search:        c.Query("search"),
		Page:          queryInt(c, "page", 1),
		Limit:         queryLimit(c, 12),
	}
	if c.Query("featured") == "true" {
		featured := true
		filter.Featured = &featured
	}

	// Anonymous published listings are cached briefly; admin views and
	// authenticated requests always hit the store.
	cacheable := status == models.PostStatusPublished && CurrentUser(c) == nil
	cacheKey := cache.HashKey(
		"posts", status, c.Query("category"), c.Query("subCategory"),
		c.Query("featured"), c.Query("search"),
		strconv.Itoa(filter.Page), strconv.Itoa(filter.Limit),
	)
	if cacheable {
		var cached postListPayload
		if err := p.cache.GetJSON(cacheKey, &cached); err == nil {
			respond(c, http.StatusOK, "Success", gin.H{
				"posts":      cached.Posts,
				"pagination": cached.Pagination,
			})
			return
		}
	}

	posts, total, err := p.posts.List(c.Request.Context(), filter)
	if err != nil {
		p.serverError(c, "post listing failed", err)
		return
	}

	pagination := NewPagination(filter.Page, filter.Limit, total)
	if cacheable {
		payload := postListPayload{Posts: posts, Pagination: pagination}
		if err := p.cache.SetJSON(cacheKey, payload, postListCacheTTL); err != nil && err != cache.ErrCacheDisabled {
			p.logger.Warn("failed to cache post listing", zap.Error(err))
		}
	}

	respond(c, http.StatusOK, "Success", gin.H{
		"posts":      posts,
		"pagination": pagination,
	})
}

// Create handles POST /api/posts (admin only).
func (p *PostAPI) Create(c *gin.Context) {
	var req postCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Content == "" || req.Thumbnail == "" || req.CategoryID == 0 {
		fail(c, http.StatusBadRequest, "Title, content, thumbnail and category are required")
		return
	}
	if req.Status == "" {
		req.Status = models.PostStatusDraft
	}
	if !models.ValidPostStatus(req.Status) {
		fail(c, http.StatusBadRequest, "Invalid status")
		return
	}

	ctx := c.Request.Context()

	category, err := p.cats.GetByID(ctx, req.CategoryID)
	if err != nil {
		p.serverError(c, "category lookup failed", err)
		return
	}
	if category == nil {
		fail(c, http.StatusNotFound, "Category not found")
		return
	}

	var subCategoryID sql.NullInt64
	if req.SubCategoryID != 0 {
		sub, err := p.subcats.GetByID(ctx, req.SubCategoryID)
		if err != nil {
			p.serverError(c, "subcategory lookup failed", err)
			return
		}
		if sub == nil {
			fail(c, http.StatusNotFound, "SubCategory not found")
			return
		}
		if sub.CategoryID != req.CategoryID {
			fail(c, http.StatusBadRequest, "SubCategory does not belong to the given category")
			return
		}
		subCategoryID = sql.NullInt64{Int64: sub.ID, Valid: true}
	}

	postSlug := slug.Make(req.Title)
	if postSlug == "" {
		fail(c, http.StatusBadRequest, "Title must contain letters or digits")
		return
	}
	taken, err := p.posts.SlugExists(ctx, postSlug)
	if err != nil {
		p.serverError(c, "slug lookup failed", err)
		return
	}
	if taken {
		fail(c, http.StatusBadRequest, "Post with this title already exists")
		return
	}

	author := CurrentUser(c)
	post := &models.Post{
		Title:         req.Title,
		Slug:          postSlug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Thumbnail:     req.Thumbnail,
		Tags:          joinTags(req.Tags),
		CategoryID:    req.CategoryID,
		SubCategoryID: subCategoryID,
		AuthorID:      author.ID,
		Status:        req.Status,
		Featured:      req.Featured,
	}
	if req.Status == models.PostStatusPublished {
		post.PublishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}

	if err := p.posts.Create(ctx, post); err != nil {
		p.serverError(c, "post creation failed", err)
		return
	}

	post.Category = category
	post.Author = author
	respond(c, http.StatusOK, "Post created successfully", gin.H{"post": post})
}

// Get handles GET /api/posts/:slug. Fetching a published post increments
// its view counter; the response reflects the post-increment value without
// a second read.
func (p *PostAPI) Get(c *gin.Context) {
	ctx := c.Request.Context()

	post, err := p.posts.GetPublishedBySlug(ctx, c.Param("slug"))
	if err != nil {
		p.serverError(c, "post lookup failed", err)
		return
	}
	if post == nil {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}

	if err := p.posts.IncrementViews(ctx, post.ID); err != nil {
		p.serverError(c, "view increment failed", err)
		return
	}
	post.Views++

	comments, err := p.comments.ApprovedRootsByPost(ctx, post.ID)
	if err != nil {
		p.serverError(c, "comment lookup failed", err)
		return
	}

	respond(c, http.StatusOK, "Success", gin.H{
		"post":     post,
		"comments": comments,
	})
}

// Update handles PUT /api/posts/:slug. Only the author or an admin may
// update; the slug never changes after creation.
func (p *PostAPI) Update(c *gin.Context) {
	var req postUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := c.Request.Context()

	post, err := p.posts.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		p.serverError(c, "post lookup failed", err)
		return
	}
	if post == nil {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}

	user := CurrentUser(c)
	if post.AuthorID != user.ID && !user.IsAdmin() {
		fail(c, http.StatusForbidden, "Not authorized to update this post")
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			fail(c, http.StatusBadRequest, "Title cannot be empty")
			return
		}
		post.Title = title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Thumbnail != nil {
		post.Thumbnail = *req.Thumbnail
	}
	if req.Tags != nil {
		post.Tags = joinTags(*req.Tags)
	}
	if req.Featured != nil {
		post.Featured = *req.Featured
	}
	if req.CategoryID != nil {
		category, err := p.cats.GetByID(ctx, *req.CategoryID)
		if err != nil {
			p.serverError(c, "category lookup failed", err)
			return
		}
		if category == nil {
			fail(c, http.StatusNotFound, "Category not found")
			return
		}
		post.CategoryID = *req.CategoryID
	}
	if req.SubCategoryID != nil {
		if *req.SubCategoryID == 0 {
			post.SubCategoryID = sql.NullInt64{}
		} else {
			sub, err := p.subcats.GetByID(ctx, *req.SubCategoryID)
			if err != nil {
				p.serverError(c, "subcategory lookup failed", err)
				return
			}
			if sub == nil {
				fail(c, http.StatusNotFound, "SubCategory not found")
				return
			}
			if sub.CategoryID != post.CategoryID {
				fail(c, http.StatusBadRequest, "SubCategory does not belong to the post's category")
				return
			}
			post.SubCategoryID = sql.NullInt64{Int64: sub.ID, Valid: true}
		}
	}
	if req.Status != nil {
		if !models.ValidPostStatus(*req.Status) {
			fail(c, http.StatusBadRequest, "Invalid status")
			return
		}
		// PublishedAt is set once, on the first transition to published.
		if *req.Status == models.PostStatusPublished && !post.PublishedAt.Valid {
			post.PublishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
		}
		post.Status = *req.Status
	}

	if err := p.posts.Update(ctx, post); err != nil {
		p.serverError(c, "post update failed", err)
		return
	}

	respond(c, http.StatusOK, "Post updated successfully", gin.H{"post": post})
}

// Delete handles DELETE /api/posts/:slug. Deleting a post removes its
// comments as well.
func (p *PostAPI) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	post, err := p.posts.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		p.serverError(c, "post lookup failed", err)
		return
	}
	if post == nil {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}

	user := CurrentUser(c)
	if post.AuthorID != user.ID && !user.IsAdmin() {
		fail(c, http.StatusForbidden, "Not authorized to delete this post")
		return
	}

	if err := p.posts.Delete(ctx, post.ID); err != nil {
		p.serverError(c, "post deletion failed", err)
		return
	}

	respond(c, http.StatusOK, "Post deleted successfully", nil)
}

func (p *PostAPI) serverError(c *gin.Context, msg string, err error) {
	p.logger.Error(msg, zap.Error(err))
	fail(c, http.StatusInternalServerError, "Internal server error")
}
