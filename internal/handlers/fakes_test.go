package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okravets/openblog/backend/internal/models"
	"github.com/okravets/openblog/backend/internal/repositories"
	"github.com/okravets/openblog/backend/pkg/validators"
)

// newTestContext builds an echo context with the request validator
// installed, the way the server wires it.
func newTestContext(method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// decodeBody unmarshals a recorded JSON response
func decodeBody(rec *httptest.ResponseRecorder) map[string]interface{} {
	out := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return out
}

// httpStatus extracts the status code from a handler error, or 200
func httpStatus(err error, rec *httptest.ResponseRecorder) int {
	if err == nil {
		return rec.Code
	}
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return http.StatusInternalServerError
}

// fakePostRepository is an in-memory PostRepository with the same
// visible semantics as the Mongo implementation.
type fakePostRepository struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post
}

func newFakePostRepository() *fakePostRepository {
	return &fakePostRepository{posts: map[primitive.ObjectID]*models.Post{}}
}

func (f *fakePostRepository) get(id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", repositories.ErrInvalidID, id)
	}
	post, ok := f.posts[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return post, nil
}

func (f *fakePostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.ID = primitive.NewObjectID()
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.get(id)
}

func (f *fakePostRepository) GetPostDetail(ctx context.Context, id string) (*models.PostDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(id)
	if err != nil {
		return nil, err
	}
	return &models.PostDetail{
		ID:       post.ID,
		Title:    post.Title,
		Content:  post.Content,
		AuthorID: post.AuthorID,
		Comments: post.Comments,
		Rating:   post.Rating,
		Views:    post.Views,
		Status:   post.Status,
		Versions: post.Versions,
		Metadata: post.Metadata,
	}, nil
}

func (f *fakePostRepository) IncrementViews(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(id)
	if err != nil {
		return err
	}
	post.Views++
	return nil
}

func (f *fakePostRepository) UpdatePost(ctx context.Context, id string, req *models.UpdatePostRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(id)
	if err != nil {
		return err
	}

	post.Versions = append(post.Versions, models.Version{
		Title:    post.Title,
		Content:  post.Content,
		EditedAt: time.Now(),
		EditedBy: post.AuthorID,
	})
	if len(post.Versions) > models.MaxVersions {
		post.Versions = post.Versions[len(post.Versions)-models.MaxVersions:]
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	post.UpdatedAt = time.Now()
	return nil
}

func (f *fakePostRepository) GetVersions(ctx context.Context, id string) ([]models.Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(id)
	if err != nil {
		return nil, err
	}
	return post.Versions, nil
}

func (f *fakePostRepository) ApplyRating(ctx context.Context, postID, userID, vote string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(postID)
	if err != nil {
		return "", err
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", fmt.Errorf("%w: %s", repositories.ErrInvalidID, userID)
	}

	for i, entry := range post.Rating.Users {
		if entry.UserID != userOID {
			continue
		}
		if entry.Type == vote {
			post.Rating.Users = append(post.Rating.Users[:i], post.Rating.Users[i+1:]...)
			if vote == models.VoteLike {
				post.Rating.Likes--
			} else {
				post.Rating.Dislikes--
			}
			return repositories.RatingRemoved, nil
		}
		post.Rating.Users[i].Type = vote
		if vote == models.VoteLike {
			post.Rating.Likes++
			post.Rating.Dislikes--
		} else {
			post.Rating.Likes--
			post.Rating.Dislikes++
		}
		return repositories.RatingSwitched, nil
	}

	post.Rating.Users = append(post.Rating.Users, models.RatingEntry{UserID: userOID, Type: vote})
	if vote == models.VoteLike {
		post.Rating.Likes++
	} else {
		post.Rating.Dislikes++
	}
	return repositories.RatingAdded, nil
}

func (f *fakePostRepository) AddComment(ctx context.Context, postID string, comment models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(postID)
	if err != nil {
		return err
	}

	if comment.ParentCommentID == nil {
		post.Comments = append(post.Comments, comment)
		return nil
	}
	// only top-level comments can receive replies
	for i := range post.Comments {
		if post.Comments[i].ID == *comment.ParentCommentID {
			post.Comments[i].Replies = append(post.Comments[i].Replies, comment)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakePostRepository) ModerateComment(ctx context.Context, postID, commentID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(postID)
	if err != nil {
		return err
	}
	commentOID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("%w: %s", repositories.ErrInvalidID, commentID)
	}
	for i := range post.Comments {
		if post.Comments[i].ID == commentOID {
			post.Comments[i].Status = status
			return nil
		}
	}
	return repositories.ErrNotFound
}

// fakeUserRepository is an in-memory UserRepository
type fakeUserRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	if user.Notifications == nil {
		user.Notifications = []models.Notification{}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", repositories.ErrInvalidID, id)
	}
	user, ok := f.users[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, *user)
	}
	return users, nil
}

func (f *fakeUserRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	now := time.Now()
	user.LastLogin = &now
	return nil
}

func (f *fakeUserRepository) AppendNotification(ctx context.Context, userID primitive.ObjectID, n models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Notifications = append(user.Notifications, n)
	return nil
}

func (f *fakeUserRepository) GetNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	user, err := f.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Notifications, nil
}

func (f *fakeUserRepository) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("%w: %s", repositories.ErrInvalidID, userID)
	}
	notificationOID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return fmt.Errorf("%w: %s", repositories.ErrInvalidID, notificationID)
	}
	user, ok := f.users[userOID]
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range user.Notifications {
		if user.Notifications[i].ID == notificationOID {
			user.Notifications[i].Read = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

// fakeCategoryRepository is an in-memory CategoryRepository. The
// context of the last counter increment is kept so tests can check
// the write happened on the request, not in a detached goroutine.
type fakeCategoryRepository struct {
	mu           sync.Mutex
	categories   map[primitive.ObjectID]*models.Category
	incrementCtx context.Context
	incrementErr error
}

func newFakeCategoryRepository() *fakeCategoryRepository {
	return &fakeCategoryRepository{categories: map[primitive.ObjectID]*models.Category{}}
}

func (f *fakeCategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	category.ID = primitive.NewObjectID()
	f.categories[category.ID] = category
	return nil
}

func (f *fakeCategoryRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	categories := make([]models.Category, 0, len(f.categories))
	for _, category := range f.categories {
		categories = append(categories, *category)
	}
	return categories, nil
}

func (f *fakeCategoryRepository) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", repositories.ErrInvalidID, id)
	}
	category, ok := f.categories[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return category, nil
}

func (f *fakeCategoryRepository) IncrementPostCount(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incrementCtx = ctx
	if f.incrementErr != nil {
		return f.incrementErr
	}
	if category, ok := f.categories[id]; ok {
		category.PostCount++
	}
	return nil
}

func (f *fakeCategoryRepository) ReconcilePostCounts(ctx context.Context) error {
	return nil
}

// fakeAnalyticsRepository returns canned results and counts calls, so
// tests can observe whether the cache short-circuited a query.
type fakeAnalyticsRepository struct {
	mu    sync.Mutex
	calls map[string]int

	topAuthors   []models.AuthorStats
	categories   []models.CategoryStats
	commentStats *models.CommentStats
	viewStats    *models.ViewStats
	postPage     *models.PostPage
	searchPage   *models.SearchPage
	nearby       []models.Post
	dashboard    *models.Dashboard
}

func newFakeAnalyticsRepository() *fakeAnalyticsRepository {
	return &fakeAnalyticsRepository{calls: map[string]int{}}
}

func (f *fakeAnalyticsRepository) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeAnalyticsRepository) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAnalyticsRepository) TopAuthors(ctx context.Context, limit int) ([]models.AuthorStats, error) {
	f.record("TopAuthors")
	return f.topAuthors, nil
}

func (f *fakeAnalyticsRepository) PopularCategories(ctx context.Context, limit int) ([]models.CategoryStats, error) {
	f.record("PopularCategories")
	return f.categories, nil
}

func (f *fakeAnalyticsRepository) CommentStatistics(ctx context.Context) (*models.CommentStats, error) {
	f.record("CommentStatistics")
	return f.commentStats, nil
}

func (f *fakeAnalyticsRepository) ViewStatistics(ctx context.Context) (*models.ViewStats, error) {
	f.record("ViewStatistics")
	return f.viewStats, nil
}

func (f *fakeAnalyticsRepository) PostsByTags(ctx context.Context, tags []string, page, limit int, sortBy string, sortOrder int) (*models.SearchPage, error) {
	f.record("PostsByTags")
	return f.searchPage, nil
}

func (f *fakeAnalyticsRepository) SearchText(ctx context.Context, text string, page, limit int) (*models.SearchPage, error) {
	f.record("SearchText")
	return f.searchPage, nil
}

func (f *fakeAnalyticsRepository) PostsPaginated(ctx context.Context, q *repositories.PostQuery) (*models.PostPage, error) {
	f.record("PostsPaginated")
	if f.postPage != nil {
		return f.postPage, nil
	}
	return &models.PostPage{
		Posts:      []models.PostSummary{},
		Pagination: models.NewPagination(q.Page, q.Limit, 0),
	}, nil
}

func (f *fakeAnalyticsRepository) PostsByLocation(ctx context.Context, longitude, latitude float64, maxDistance int) ([]models.Post, error) {
	f.record("PostsByLocation")
	return f.nearby, nil
}

func (f *fakeAnalyticsRepository) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	f.record("Dashboard")
	return f.dashboard, nil
}
