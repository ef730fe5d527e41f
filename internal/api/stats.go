package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell-cms/inkwell/internal/cache"
	"github.com/inkwell-cms/inkwell/internal/db"
	"github.com/inkwell-cms/inkwell/internal/models"
	"github.com/inkwell-cms/inkwell/pkg/logging"
)

const statsCacheTTL = 30 * time.Second

// StatsAPI serves the admin dashboard aggregates.
type StatsAPI struct {
	stats  *db.StatsRepository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewStatsAPI creates the stats API.
func NewStatsAPI(repo *db.Repository, redisCache *cache.Cache) *StatsAPI {
	return &StatsAPI{
		stats:  db.NewStatsRepository(repo),
		cache:  redisCache,
		logger: logging.WithComponent("stats-api"),
	}
}

type dashboardPayload struct {
	Overview        *db.Overview       `json:"overview"`
	RecentPosts     []*models.Post     `json:"recentPosts"`
	RecentComments  []*models.Comment  `json:"recentComments"`
	PopularPosts    []*models.Post     `json:"popularPosts"`
	PostsByCategory []db.CategoryCount `json:"postsByCategory"`
}

// Dashboard handles GET /api/stats/dashboard (admin only). The payload is
// cached briefly since every widget recomputes several aggregates.
func (s *StatsAPI) Dashboard(c *gin.Context) {
	cacheKey := cache.HashKey("stats", "dashboard")
	var cached dashboardPayload
	if err := s.cache.GetJSON(cacheKey, &cached); err == nil {
		respond(c, http.StatusOK, "Success", gin.H{"stats": cached})
		return
	}

	ctx := c.Request.Context()

	overview, err := s.stats.GetOverview(ctx)
	if err != nil {
		s.serverError(c, "overview aggregation failed", err)
		return
	}
	recentPosts, err := s.stats.RecentPosts(ctx, 5)
	if err != nil {
		s.serverError(c, "recent posts lookup failed", err)
		return
	}
	recentComments, err := s.stats.RecentComments(ctx, 5)
	if err != nil {
		s.serverError(c, "recent comments lookup failed", err)
		return
	}
	popularPosts, err := s.stats.PopularPosts(ctx, 5)
	if err != nil {
		s.serverError(c, "popular posts lookup failed", err)
		return
	}
	byCategory, err := s.stats.PostsByCategory(ctx)
	if err != nil {
		s.serverError(c, "category aggregation failed", err)
		return
	}

	payload := dashboardPayload{
		Overview:        overview,
		RecentPosts:     recentPosts,
		RecentComments:  recentComments,
		PopularPosts:    popularPosts,
		PostsByCategory: byCategory,
	}
	if err := s.cache.SetJSON(cacheKey, payload, statsCacheTTL); err != nil && err != cache.ErrCacheDisabled {
		s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
	}

	respond(c, http.StatusOK, "Success", gin.H{"stats": payload})
}

func (s *StatsAPI) serverError(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	fail(c, http.StatusInternalServerError, "Internal server error")
}
