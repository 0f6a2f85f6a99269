package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/okravets/openblog/backend/internal/models"
	"github.com/okravets/openblog/backend/internal/repositories"
)

// RatingHandler handles HTTP requests related to post ratings
type RatingHandler struct {
	postRepository repositories.PostRepository
}

// NewRatingHandler creates a new RatingHandler
func NewRatingHandler(postRepo repositories.PostRepository) *RatingHandler {
	return &RatingHandler{postRepository: postRepo}
}

// RegisterRatingRoutes registers rating routes
func (h *RatingHandler) RegisterRatingRoutes(g *echo.Group) {
	g.POST("/posts/:id/rating", h.RatePost)
}

// RatePost applies the like/dislike toggle: a first vote is recorded,
// a repeated identical vote retracts it, and the opposite vote flips
// the recorded type.
func (h *RatingHandler) RatePost(c echo.Context) error {
	postID := c.Param("id")

	var req models.RatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	action, err := h.postRepository.ApplyRating(c.Request().Context(), postID, req.UserID, req.Type)
	if err != nil {
		return repoError(err, "Post not found")
	}

	switch action {
	case repositories.RatingRemoved:
		return c.JSON(http.StatusOK, echo.Map{"message": "Rating removed", "removed": true})
	case repositories.RatingSwitched:
		return c.JSON(http.StatusOK, echo.Map{"message": "Rating updated"})
	default:
		return c.JSON(http.StatusOK, echo.Map{"message": "Rating added"})
	}
}
