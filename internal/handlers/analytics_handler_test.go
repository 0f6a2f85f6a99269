package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okravets/openblog/backend/internal/cache"
	"github.com/okravets/openblog/backend/internal/models"
)

func newAnalyticsHandler() (*AnalyticsHandler, *fakeAnalyticsRepository) {
	repo := newFakeAnalyticsRepository()
	return NewAnalyticsHandler(repo, cache.New(cache.DefaultTTL)), repo
}

func TestGetTopAuthorsCaching(t *testing.T) {
	h, repo := newAnalyticsHandler()
	repo.topAuthors = []models.AuthorStats{{
		AuthorID:   primitive.NewObjectID(),
		AuthorName: "Olena Shevchenko",
		PostCount:  12,
	}}

	for i := 0; i < 3; i++ {
		c, rec := newTestContext(http.MethodGet, "/authors/top", nil)
		err := h.GetTopAuthors(c)
		assert.Equal(t, http.StatusOK, httpStatus(err, rec))
	}

	// repeated requests are served from the result cache
	assert.Equal(t, 1, repo.callCount("TopAuthors"))
}

func TestGetTopAuthorsLimitIsPartOfTheKey(t *testing.T) {
	h, repo := newAnalyticsHandler()

	c, _ := newTestContext(http.MethodGet, "/authors/top?limit=5", nil)
	assert.NoError(t, h.GetTopAuthors(c))
	c, _ = newTestContext(http.MethodGet, "/authors/top?limit=20", nil)
	assert.NoError(t, h.GetTopAuthors(c))

	assert.Equal(t, 2, repo.callCount("TopAuthors"))
}

func TestGetTopAuthorsBadLimit(t *testing.T) {
	h, repo := newAnalyticsHandler()

	c, rec := newTestContext(http.MethodGet, "/authors/top?limit=0", nil)
	err := h.GetTopAuthors(c)

	assert.Equal(t, http.StatusBadRequest, httpStatus(err, rec))
	assert.Zero(t, repo.callCount("TopAuthors"))
}

func TestGetPopularCategoriesCaching(t *testing.T) {
	h, repo := newAnalyticsHandler()

	for i := 0; i < 2; i++ {
		c, rec := newTestContext(http.MethodGet, "/categories/popular", nil)
		err := h.GetPopularCategories(c)
		assert.Equal(t, http.StatusOK, httpStatus(err, rec))
	}

	assert.Equal(t, 1, repo.callCount("PopularCategories"))
}

func TestGetCommentStatistics(t *testing.T) {
	t.Run("populated", func(t *testing.T) {
		h, repo := newAnalyticsHandler()
		repo.commentStats = &models.CommentStats{
			TotalComments:          4,
			TotalPosts:             2,
			AverageCommentsPerPost: 2.0,
			MaxComments:            3,
			MinComments:            1,
		}

		c, rec := newTestContext(http.MethodGet, "/statistics/comments", nil)
		err := h.GetCommentStatistics(c)

		assert.Equal(t, http.StatusOK, httpStatus(err, rec))
		body := decodeBody(rec)
		assert.Equal(t, float64(4), body["totalComments"])
		assert.Equal(t, 2.0, body["averageCommentsPerPost"])
	})

	t.Run("empty collection yields empty object", func(t *testing.T) {
		h, _ := newAnalyticsHandler()

		c, rec := newTestContext(http.MethodGet, "/statistics/comments", nil)
		err := h.GetCommentStatistics(c)

		assert.Equal(t, http.StatusOK, httpStatus(err, rec))
		assert.Equal(t, map[string]interface{}{}, decodeBody(rec))
	})
}

func TestGetViewStatistics(t *testing.T) {
	h, repo := newAnalyticsHandler()
	repo.viewStats = &models.ViewStats{TotalViews: 100, AverageViews: 25.0, MaxViews: 60, MinViews: 2, TotalPosts: 4}

	for i := 0; i < 2; i++ {
		c, rec := newTestContext(http.MethodGet, "/statistics/views", nil)
		err := h.GetViewStatistics(c)
		assert.Equal(t, http.StatusOK, httpStatus(err, rec))

		body := decodeBody(rec)
		assert.Equal(t, float64(100), body["totalViews"])
	}

	// second request served from the result cache
	assert.Equal(t, 1, repo.callCount("ViewStatistics"))
}

func TestGetDashboardCaching(t *testing.T) {
	h, repo := newAnalyticsHandler()
	repo.dashboard = &models.Dashboard{
		PostsByStatus: []models.StatusCount{{Status: "published", Count: 40}},
		PostsByMonth:  []models.MonthCount{{Year: 2026, Month: 8, Count: 7}},
	}

	for i := 0; i < 3; i++ {
		c, rec := newTestContext(http.MethodGet, "/analytics", nil)
		err := h.GetDashboard(c)
		assert.Equal(t, http.StatusOK, httpStatus(err, rec))
	}

	assert.Equal(t, 1, repo.callCount("Dashboard"))
}
