package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/okravets/openblog/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Rating mutation outcomes
const (
	RatingAdded    = "added"
	RatingRemoved  = "removed"
	RatingSwitched = "switched"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostDetail(ctx context.Context, id string) (*models.PostDetail, error)
	IncrementViews(ctx context.Context, id string) error
	UpdatePost(ctx context.Context, id string, req *models.UpdatePostRequest) error
	GetVersions(ctx context.Context, id string) ([]models.Version, error)
	ApplyRating(ctx context.Context, postID, userID, vote string) (string, error)
	AddComment(ctx context.Context, postID string, comment models.Comment) error
	ModerateComment(ctx context.Context, postID, commentID, status string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost inserts a new post
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a raw post document by ID
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostDetail retrieves a post with author and category display
// fields joined in.
func (r *MongoPostRepository) GetPostDetail(ctx context.Context, id string) (*models.PostDetail, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": objID}}},
		lookupStage("users", "authorId", "author"),
		bson.D{{Key: "$unwind", Value: "$author"}},
		lookupStage("categories", "categoryId", "category"),
		bson.D{{Key: "$unwind", Value: "$category"}},
		bson.D{{Key: "$project", Value: bson.M{
			"title":          1,
			"content":        1,
			"authorId":       1,
			"authorName":     authorNameExpr,
			"authorUsername": "$author.username",
			"categoryId":     1,
			"categoryName":   "$category.name",
			"categorySlug":   "$category.slug",
			"tags":           1,
			"comments":       1,
			"rating":         1,
			"views":          1,
			"status":         1,
			"createdAt":      1,
			"publishedAt":    1,
			"location":       1,
			"versions":       1,
			"metadata":       1,
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.PostDetail
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNotFound
	}
	return &posts[0], nil
}

// IncrementViews bumps the post's view counter by one
func (r *MongoPostRepository) IncrementViews(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

// UpdatePost applies an edit, archiving the pre-edit title and content
// into the versions list. The list keeps the most recent MaxVersions
// snapshots, oldest evicted first.
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, req *models.UpdatePostRequest) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return err
	}

	editedBy := post.AuthorID
	if req.EditedBy != "" {
		editedBy, err = primitive.ObjectIDFromHex(req.EditedBy)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidID, req.EditedBy)
		}
	}

	now := time.Now()
	version := models.Version{
		Title:    post.Title,
		Content:  post.Content,
		EditedAt: now,
		EditedBy: editedBy,
	}

	set := bson.M{"updatedAt": now}
	if req.Title != "" {
		set["title"] = req.Title
	}
	if req.Content != "" {
		set["content"] = req.Content
	}

	update := bson.M{
		"$set": set,
		"$push": bson.M{
			"versions": bson.M{
				"$each":  []models.Version{version},
				"$slice": -models.MaxVersions,
			},
		},
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	return err
}

// GetVersions returns a post's edit history, most recent last
func (r *MongoPostRepository) GetVersions(ctx context.Context, id string) ([]models.Version, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var post models.Post
	opts := options.FindOne().SetProjection(bson.M{"versions": 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}, opts).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if post.Versions == nil {
		return []models.Version{}, nil
	}
	return post.Versions, nil
}

// ratingTransition decides how a vote changes the (post, user) rating
// state. current is the user's existing vote type, empty when unrated.
// Casting the same vote again retracts it; casting the other vote
// flips the recorded type.
func ratingTransition(current, vote string) (action string, likesDelta, dislikesDelta int) {
	switch {
	case current == "":
		if vote == models.VoteLike {
			return RatingAdded, 1, 0
		}
		return RatingAdded, 0, 1
	case current == vote:
		if vote == models.VoteLike {
			return RatingRemoved, -1, 0
		}
		return RatingRemoved, 0, -1
	default:
		if vote == models.VoteLike {
			return RatingSwitched, 1, -1
		}
		return RatingSwitched, -1, 1
	}
}

// ApplyRating applies the toggle state machine for one user's vote on
// a post and returns the resulting action. The counter and entry-list
// change is issued as a single document update; the read that decides
// which transition applies is not atomic with it.
func (r *MongoPostRepository) ApplyRating(ctx context.Context, postID, userID, vote string) (string, error) {
	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidID, postID)
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidID, userID)
	}

	var post models.Post
	opts := options.FindOne().SetProjection(bson.M{"rating.users": 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": postOID}, opts).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrNotFound
		}
		return "", err
	}

	current := ""
	for _, entry := range post.Rating.Users {
		if entry.UserID == userOID {
			current = entry.Type
			break
		}
	}

	action, likesDelta, dislikesDelta := ratingTransition(current, vote)

	inc := bson.M{}
	if likesDelta != 0 {
		inc["rating.likes"] = likesDelta
	}
	if dislikesDelta != 0 {
		inc["rating.dislikes"] = dislikesDelta
	}

	switch action {
	case RatingAdded:
		_, err = r.collection.UpdateOne(ctx, bson.M{"_id": postOID}, bson.M{
			"$push": bson.M{"rating.users": models.RatingEntry{UserID: userOID, Type: vote}},
			"$inc":  inc,
		})
	case RatingRemoved:
		_, err = r.collection.UpdateOne(ctx, bson.M{"_id": postOID}, bson.M{
			"$pull": bson.M{"rating.users": bson.M{"userId": userOID}},
			"$inc":  inc,
		})
	case RatingSwitched:
		arrayFilters := options.ArrayFilters{
			Filters: []interface{}{bson.M{"elem.userId": userOID}},
		}
		_, err = r.collection.UpdateOne(ctx, bson.M{"_id": postOID}, bson.M{
			"$set": bson.M{"rating.users.$[elem].type": vote},
			"$inc": inc,
		}, options.Update().SetArrayFilters(arrayFilters))
	}
	if err != nil {
		return "", err
	}
	return action, nil
}

// AddComment appends a comment to the post, or to a top-level parent
// comment's reply list. A parent that does not resolve to a top-level
// comment is rejected, which also rejects replies to replies.
func (r *MongoPostRepository) AddComment(ctx context.Context, postID string, comment models.Comment) error {
	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, postID)
	}

	var res *mongo.UpdateResult
	if comment.ParentCommentID != nil {
		res, err = r.collection.UpdateOne(ctx,
			bson.M{"_id": postOID, "comments._id": *comment.ParentCommentID},
			bson.M{"$push": bson.M{"comments.$.replies": comment}},
		)
	} else {
		res, err = r.collection.UpdateOne(ctx,
			bson.M{"_id": postOID},
			bson.M{"$push": bson.M{"comments": comment}},
		)
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ModerateComment applies a moderation status to a top-level comment
func (r *MongoPostRepository) ModerateComment(ctx context.Context, postID, commentID, status string) error {
	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, postID)
	}
	commentOID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, commentID)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postOID, "comments._id": commentOID},
		bson.M{"$set": bson.M{"comments.$.status": status}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
