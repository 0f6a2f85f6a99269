package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okravets/openblog/backend/internal/models"
	"github.com/okravets/openblog/backend/internal/repositories"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository      repositories.PostRepository
	categoryRepository  repositories.CategoryRepository
	analyticsRepository repositories.AnalyticsRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, categoryRepo repositories.CategoryRepository, analyticsRepo repositories.AnalyticsRepository) *PostHandler {
	return &PostHandler{
		postRepository:      postRepo,
		categoryRepository:  categoryRepo,
		analyticsRepository: analyticsRepo,
	}
}

// RegisterPostRoutes registers read-side post routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/search/tags", h.SearchByTags)
	g.GET("/posts/search/text", h.SearchByText)
	g.GET("/posts/search/location", h.SearchByLocation)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts/:id/versions", h.GetVersions)
}

// RegisterPostMutationRoutes registers write-side post routes
func (h *PostHandler) RegisterPostMutationRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.PUT("/posts/:id", h.UpdatePost)
}

// GetPosts lists published posts with optional category/author/tag
// filters, paginated.
func (h *PostHandler) GetPosts(c echo.Context) error {
	page, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	sortBy, sortOrder, err := parseSort(c)
	if err != nil {
		return err
	}

	query := &repositories.PostQuery{
		Page:       page,
		Limit:      limit,
		CategoryID: c.QueryParam("categoryId"),
		AuthorID:   c.QueryParam("authorId"),
		Tags:       parseTags(c.QueryParam("tags")),
		SortBy:     sortBy,
		SortOrder:  sortOrder,
	}

	result, err := h.analyticsRepository.PostsPaginated(c.Request().Context(), query)
	if err != nil {
		return repoError(err, "Post not found")
	}
	return c.JSON(http.StatusOK, result)
}

// GetPost returns a single post with joined author and category data.
// Every fetch increments the post's view counter.
func (h *PostHandler) GetPost(c echo.Context) error {
	postID := c.Param("id")

	if err := h.postRepository.IncrementViews(c.Request().Context(), postID); err != nil {
		return repoError(err, "Post not found")
	}

	post, err := h.postRepository.GetPostDetail(c.Request().Context(), postID)
	if err != nil {
		return repoError(err, "Post not found")
	}
	return c.JSON(http.StatusOK, post)
}

// CreatePost creates a new published post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	authorID, err := primitive.ObjectIDFromHex(req.AuthorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid authorId format")
	}
	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid categoryId format")
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	post := &models.Post{
		Title:       req.Title,
		Content:     req.Content,
		AuthorID:    authorID,
		CategoryID:  categoryID,
		Tags:        tags,
		Comments:    []models.Comment{},
		Rating:      models.Rating{Users: []models.RatingEntry{}},
		Views:       0,
		Status:      models.PostStatusPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
		PublishedAt: &now,
		Location:    req.Location.GeoPoint(),
		Versions:    []models.Version{},
		Metadata:    models.NewMetadata(req.Content),
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The counter update is not transactional with the insert; the post
	// is already stored, so a failed increment is logged and left to the
	// reconciliation pass.
	if err := h.categoryRepository.IncrementPostCount(c.Request().Context(), categoryID); err != nil {
		log.Printf("Failed to increment postCount for category %s: %v", categoryID.Hex(), err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Post created",
		"postId":  post.ID,
	})
}

// UpdatePost edits a post, archiving the prior title and content into
// its version history.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	postID := c.Param("id")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.postRepository.UpdatePost(c.Request().Context(), postID, &req); err != nil {
		return repoError(err, "Post not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post updated, version archived"})
}

// GetVersions returns a post's edit history
func (h *PostHandler) GetVersions(c echo.Context) error {
	versions, err := h.postRepository.GetVersions(c.Request().Context(), c.Param("id"))
	if err != nil {
		return repoError(err, "Post not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"versions": versions})
}

// SearchByTags lists published posts containing every requested tag
func (h *PostHandler) SearchByTags(c echo.Context) error {
	tags := parseTags(c.QueryParam("tags"))
	if len(tags) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "At least one tag is required")
	}

	page, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	sortBy, sortOrder, err := parseSort(c)
	if err != nil {
		return err
	}

	result, err := h.analyticsRepository.PostsByTags(c.Request().Context(), tags, page, limit, sortBy, sortOrder)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// SearchByText runs a relevance-ranked full-text search
func (h *PostHandler) SearchByText(c echo.Context) error {
	searchText := c.QueryParam("q")
	if searchText == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	page, limit, err := parsePagination(c)
	if err != nil {
		return err
	}

	result, err := h.analyticsRepository.SearchText(c.Request().Context(), searchText, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// SearchByLocation returns published posts near a point, nearest
// first, capped at 20 results.
func (h *PostHandler) SearchByLocation(c echo.Context) error {
	longitude, err := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Coordinates (lng, lat) are required")
	}
	latitude, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Coordinates (lng, lat) are required")
	}

	maxDistance := 10000
	if raw := c.QueryParam("maxDistance"); raw != "" {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || v < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "maxDistance must be a positive integer")
		}
		maxDistance = v
	}

	posts, err := h.analyticsRepository.PostsByLocation(c.Request().Context(), longitude, latitude, maxDistance)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, posts)
}
