package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/okravets/openblog/backend/internal/cache"
	"github.com/okravets/openblog/backend/internal/models"
	"github.com/okravets/openblog/backend/internal/repositories"
)

// AnalyticsHandler serves the aggregation endpoints, fronting the
// expensive ones with the result cache.
type AnalyticsHandler struct {
	analyticsRepository repositories.AnalyticsRepository
	resultCache         *cache.Cache
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsRepo repositories.AnalyticsRepository, resultCache *cache.Cache) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsRepository: analyticsRepo,
		resultCache:         resultCache,
	}
}

// RegisterAnalyticsRoutes registers aggregation routes
func (h *AnalyticsHandler) RegisterAnalyticsRoutes(g *echo.Group) {
	g.GET("/authors/top", h.GetTopAuthors)
	g.GET("/categories/popular", h.GetPopularCategories)
	g.GET("/statistics/comments", h.GetCommentStatistics)
	g.GET("/statistics/views", h.GetViewStatistics)
	g.GET("/analytics", h.GetDashboard)
}

// parseLimit reads the limit query param with a default of 10
func parseLimit(c echo.Context) (int, error) {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return 0, echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = v
	}
	return limit, nil
}

// GetTopAuthors returns the authors with the most posts, cached
func (h *AnalyticsHandler) GetTopAuthors(c echo.Context) error {
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}

	key := cache.Key("top_authors", limit)
	authors, err := h.resultCache.GetOrCompute(key, cache.DefaultTTL, func() (any, error) {
		return h.analyticsRepository.TopAuthors(c.Request().Context(), limit)
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, authors)
}

// GetPopularCategories returns the categories with the most posts, cached
func (h *AnalyticsHandler) GetPopularCategories(c echo.Context) error {
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}

	key := cache.Key("popular_categories", limit)
	categories, err := h.resultCache.GetOrCompute(key, cache.DefaultTTL, func() (any, error) {
		return h.analyticsRepository.PopularCategories(c.Request().Context(), limit)
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCommentStatistics returns global comment statistics, cached. An
// empty posts collection yields an empty object.
func (h *AnalyticsHandler) GetCommentStatistics(c echo.Context) error {
	stats, err := h.resultCache.GetOrCompute(cache.Key("comment_statistics"), cache.DefaultTTL, func() (any, error) {
		return h.analyticsRepository.CommentStatistics(c.Request().Context())
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if s, ok := stats.(*models.CommentStats); !ok || s == nil {
		return c.JSON(http.StatusOK, echo.Map{})
	}
	return c.JSON(http.StatusOK, stats)
}

// GetViewStatistics returns global view statistics, cached
func (h *AnalyticsHandler) GetViewStatistics(c echo.Context) error {
	stats, err := h.resultCache.GetOrCompute(cache.Key("view_statistics"), cache.DefaultTTL, func() (any, error) {
		return h.analyticsRepository.ViewStatistics(c.Request().Context())
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if s, ok := stats.(*models.ViewStats); !ok || s == nil {
		return c.JSON(http.StatusOK, echo.Map{})
	}
	return c.JSON(http.StatusOK, stats)
}

// GetDashboard returns the fan-out analytics payload, cached with the
// longer dashboard TTL.
func (h *AnalyticsHandler) GetDashboard(c echo.Context) error {
	dashboard, err := h.resultCache.GetOrCompute(cache.Key("analytics_dashboard"), cache.DashboardTTL, func() (any, error) {
		return h.analyticsRepository.Dashboard(c.Request().Context())
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, dashboard)
}
