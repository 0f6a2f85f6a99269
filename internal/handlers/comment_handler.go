package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okravets/openblog/backend/internal/models"
	"github.com/okravets/openblog/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository // to notify the post author
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterCommentRoutes registers comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
}

// RegisterModerationRoutes registers moderation routes
func (h *CommentHandler) RegisterModerationRoutes(g *echo.Group) {
	g.PATCH("/posts/:postId/comments/:commentId", h.ModerateComment)
}

// CreateComment appends a comment to a post, or a reply to one of its
// top-level comments. New comments always start out pending.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid userId format")
	}

	var parentID *primitive.ObjectID
	if req.ParentCommentID != "" {
		oid, err := primitive.ObjectIDFromHex(req.ParentCommentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid parentCommentId format")
		}
		parentID = &oid
	}

	comment := models.NewComment(userID, req.Content, parentID)
	if err := h.postRepository.AddComment(c.Request().Context(), postID, comment); err != nil {
		if parentID != nil {
			return repoError(err, "Post or parent comment not found")
		}
		return repoError(err, "Post not found")
	}

	// Notify the post author. Lookup or append failures are swallowed:
	// the comment write already succeeded.
	if post, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err == nil {
		notification := models.NewCommentNotification(post.ID, post.Title)
		_ = h.userRepository.AppendNotification(c.Request().Context(), post.AuthorID, notification)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Comment added",
		"comment": comment,
	})
}

// ModerateComment applies a moderation status transition to a
// top-level comment.
func (h *CommentHandler) ModerateComment(c echo.Context) error {
	postID := c.Param("postId")
	commentID := c.Param("commentId")

	var req models.ModerateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.postRepository.ModerateComment(c.Request().Context(), postID, commentID, req.Status); err != nil {
		return repoError(err, "Post or comment not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment status updated"})
}
