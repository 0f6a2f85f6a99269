package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/okravets/openblog/backend/internal/models"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	IncrementPostCount(ctx context.Context, id primitive.ObjectID) error
	ReconcilePostCounts(ctx context.Context) error
}

// MongoCategoryRepository implements CategoryRepository for MongoDB
type MongoCategoryRepository struct {
	categories *mongo.Collection
	posts      *mongo.Collection
}

// NewMongoCategoryRepository creates a new MongoCategoryRepository
func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{
		categories: db.Collection("categories"),
		posts:      db.Collection("posts"),
	}
}

// CreateCategory inserts a new category
func (r *MongoCategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	category.ID = primitive.NewObjectID()
	category.CreatedAt = time.Now()
	_, err := r.categories.InsertOne(ctx, category)
	return err
}

// GetCategories retrieves all categories
func (r *MongoCategoryRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.categories.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID
func (r *MongoCategoryRepository) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var category models.Category
	err = r.categories.FindOne(ctx, bson.M{"_id": objID}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// IncrementPostCount bumps the denormalized post counter. Called only
// from the post creation path; not transactional with the post insert.
func (r *MongoCategoryRepository) IncrementPostCount(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.categories.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"postCount": 1}})
	return err
}

// ReconcilePostCounts recomputes every category's postCount from the
// posts collection. Run offline (the seed script uses it) to settle
// drift between the counter and the real count.
func (r *MongoCategoryRepository) ReconcilePostCounts(ctx context.Context) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$categoryId",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var counts []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Count int                `bson:"count"`
	}
	if err := cursor.All(ctx, &counts); err != nil {
		return err
	}

	counted := map[primitive.ObjectID]int{}
	for _, c := range counts {
		counted[c.ID] = c.Count
	}

	categories, err := r.GetCategories(ctx)
	if err != nil {
		return err
	}
	for _, category := range categories {
		if _, err := r.categories.UpdateOne(ctx,
			bson.M{"_id": category.ID},
			bson.M{"$set": bson.M{"postCount": counted[category.ID]}},
		); err != nil {
			return err
		}
	}
	return nil
}
