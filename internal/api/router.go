package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/internal/auth"
	"github.com/inkwell-cms/inkwell/internal/cache"
	"github.com/inkwell-cms/inkwell/internal/db"
	"github.com/inkwell-cms/inkwell/internal/models"
	"github.com/inkwell-cms/inkwell/pkg/config"
)

// Router wires the HTTP surface: handler groups, access control and the
// health endpoint.
type Router struct {
	database *db.DB
	cache    *cache.Cache

	middleware *AuthMiddleware
	authAPI    *AuthAPI
	postAPI    *PostAPI
	taxonomy   *TaxonomyAPI
	commentAPI *CommentAPI
	userAPI    *UserAPI
	statsAPI   *StatsAPI
}

// NewRouter builds all handler groups on top of one repository.
func NewRouter(cfg *config.Config, database *db.DB, redisCache *cache.Cache) *Router {
	repo := db.NewRepository(database.DB)
	users := db.NewUserRepository(repo)
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLDays)

	return &Router{
		database:   database,
		cache:      redisCache,
		middleware: NewAuthMiddleware(tokens, users, redisCache),
		authAPI:    NewAuthAPI(users, tokens, redisCache, cfg.Auth.BcryptCost, cfg.Server.Production),
		postAPI:    NewPostAPI(repo, redisCache),
		taxonomy:   NewTaxonomyAPI(repo, redisCache),
		commentAPI: NewCommentAPI(repo),
		userAPI:    NewUserAPI(users, cfg.Auth.BcryptCost),
		statsAPI:   NewStatsAPI(repo, redisCache),
	}
}

// SetupRoutes registers every endpoint on the engine.
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.GET("/health", r.health)

	api := engine.Group("/api")
	m := r.middleware
	admin := m.RequireRole(models.RoleAdmin)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.authAPI.Register)
		authGroup.POST("/login", r.authAPI.Login)
		authGroup.POST("/logout", r.authAPI.Logout)
		authGroup.GET("/me", m.Authenticate(), r.authAPI.Me)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", m.Optional(), r.postAPI.List)
		posts.GET("/:slug", r.postAPI.Get)
		posts.POST("", admin, r.postAPI.Create)
		posts.PUT("/:slug", m.Authenticate(), r.postAPI.Update)
		posts.DELETE("/:slug", m.Authenticate(), r.postAPI.Delete)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", r.taxonomy.ListCategories)
		categories.GET("/:id", r.taxonomy.GetCategory)
		categories.POST("", admin, r.taxonomy.CreateCategory)
		categories.PUT("/:id", admin, r.taxonomy.UpdateCategory)
		categories.DELETE("/:id", admin, r.taxonomy.DeleteCategory)
	}

	subCategories := api.Group("/subcategories")
	{
		subCategories.GET("", r.taxonomy.ListSubCategories)
		subCategories.POST("", admin, r.taxonomy.CreateSubCategory)
		subCategories.PUT("/:id", admin, r.taxonomy.UpdateSubCategory)
		subCategories.DELETE("/:id", admin, r.taxonomy.DeleteSubCategory)
	}

	comments := api.Group("/comments")
	{
		comments.GET("", m.Optional(), r.commentAPI.List)
		comments.POST("", m.Authenticate(), r.commentAPI.Create)
		comments.PUT("/:id/status", admin, r.commentAPI.UpdateStatus)
		comments.DELETE("/:id", admin, r.commentAPI.Delete)
	}

	users := api.Group("/users")
	{
		users.GET("", admin, r.userAPI.List)
		users.PUT("/profile", m.Authenticate(), r.userAPI.UpdateProfile)
		users.PUT("/:id", admin, r.userAPI.Action)
		users.DELETE("/:id", admin, r.userAPI.Delete)
	}

	api.GET("/stats/dashboard", admin, r.statsAPI.Dashboard)
}

// health reports liveness of the service and its backends. A failing
// database marks the service unhealthy; a failing cache only degrades it.
func (r *Router) health(c *gin.Context) {
	ctx := c.Request.Context()

	status := http.StatusOK
	overall := "healthy"
	dbState := "ok"
	if err := r.database.Health(ctx); err != nil {
		dbState = "unreachable"
		overall = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	cacheState := "disabled"
	if r.cache != nil {
		cacheState = "ok"
		if err := r.cache.Health(ctx); err != nil {
			cacheState = "unreachable"
		}
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"time":     time.Now().UTC().Format(time.RFC3339),
		"database": dbState,
		"cache":    cacheState,
	})
}
