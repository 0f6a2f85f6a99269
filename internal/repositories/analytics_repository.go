package repositories

import (
	"context"
	"fmt"

	"github.com/okravets/openblog/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// PostQuery carries the optional filters and ordering of the paginated
// post listing.
type PostQuery struct {
	Page       int
	Limit      int
	CategoryID string
	AuthorID   string
	Tags       []string
	SortBy     string
	SortOrder  int
}

// AnalyticsRepository answers read queries by composing aggregation
// pipelines over the posts collection and its joined user and category
// data.
type AnalyticsRepository interface {
	TopAuthors(ctx context.Context, limit int) ([]models.AuthorStats, error)
	PopularCategories(ctx context.Context, limit int) ([]models.CategoryStats, error)
	CommentStatistics(ctx context.Context) (*models.CommentStats, error)
	ViewStatistics(ctx context.Context) (*models.ViewStats, error)
	PostsByTags(ctx context.Context, tags []string, page, limit int, sortBy string, sortOrder int) (*models.SearchPage, error)
	SearchText(ctx context.Context, text string, page, limit int) (*models.SearchPage, error)
	PostsPaginated(ctx context.Context, q *PostQuery) (*models.PostPage, error)
	PostsByLocation(ctx context.Context, longitude, latitude float64, maxDistance int) ([]models.Post, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

// MongoAnalyticsRepository implements AnalyticsRepository for MongoDB
type MongoAnalyticsRepository struct {
	posts *mongo.Collection
}

// NewMongoAnalyticsRepository creates a new MongoAnalyticsRepository
func NewMongoAnalyticsRepository(db *mongo.Database) *MongoAnalyticsRepository {
	return &MongoAnalyticsRepository{posts: db.Collection("posts")}
}

// authorNameExpr concatenates the joined author's first and last name
var authorNameExpr = bson.M{"$concat": bson.A{"$author.profile.firstName", " ", "$author.profile.lastName"}}

// lookupStage joins a foreign collection on its _id
func lookupStage(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         from,
		"localField":   localField,
		"foreignField": "_id",
		"as":           as,
	}}}
}

// TopAuthors groups posts by author, ranks by post count and joins the
// author profile. Average views are guarded against a zero post count.
func (r *MongoAnalyticsRepository) TopAuthors(ctx context.Context, limit int) ([]models.AuthorStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":        "$authorId",
			"postCount":  bson.M{"$sum": 1},
			"totalViews": bson.M{"$sum": "$views"},
			"totalLikes": bson.M{"$sum": "$rating.likes"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"postCount": -1}}},
		bson.D{{Key: "$limit", Value: limit}},
		lookupStage("users", "_id", "author"),
		bson.D{{Key: "$unwind", Value: "$author"}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":        0,
			"authorId":   "$_id",
			"authorName": authorNameExpr,
			"username":   "$author.username",
			"postCount":  1,
			"totalViews": 1,
			"totalLikes": 1,
			"averageViews": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$postCount", 0}},
				0,
				bson.M{"$divide": bson.A{"$totalViews", "$postCount"}},
			}},
		}}},
	}

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	authors := []models.AuthorStats{}
	if err := cursor.All(ctx, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

// PopularCategories groups posts by category and ranks by post count.
// The comment total counts top-level comments only.
func (r *MongoAnalyticsRepository) PopularCategories(ctx context.Context, limit int) ([]models.CategoryStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           "$categoryId",
			"postCount":     bson.M{"$sum": 1},
			"totalViews":    bson.M{"$sum": "$views"},
			"totalComments": bson.M{"$sum": bson.M{"$size": "$comments"}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"postCount": -1}}},
		bson.D{{Key: "$limit", Value: limit}},
		lookupStage("categories", "_id", "category"),
		bson.D{{Key: "$unwind", Value: "$category"}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":           0,
			"categoryId":    "$_id",
			"categoryName":  "$category.name",
			"categorySlug":  "$category.slug",
			"postCount":     1,
			"totalViews":    1,
			"totalComments": 1,
		}}},
	}

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.CategoryStats{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// commentStatisticsPipeline counts each post's comments, top-level
// plus all of their replies, then folds the per-post counts into
// collection-wide totals.
func commentStatisticsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$project", Value: bson.M{
			"commentCount": bson.M{"$add": bson.A{
				bson.M{"$size": "$comments"},
				bson.M{"$sum": bson.M{"$map": bson.M{
					"input": "$comments",
					"as":    "comment",
					"in":    bson.M{"$size": bson.M{"$ifNull": bson.A{"$$comment.replies", bson.A{}}}},
				}}},
			}},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":                    nil,
			"totalComments":          bson.M{"$sum": "$commentCount"},
			"totalPosts":             bson.M{"$sum": 1},
			"averageCommentsPerPost": bson.M{"$avg": "$commentCount"},
			"maxComments":            bson.M{"$max": "$commentCount"},
			"minComments":            bson.M{"$min": "$commentCount"},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":                    0,
			"totalComments":          1,
			"totalPosts":             1,
			"averageCommentsPerPost": bson.M{"$round": bson.A{"$averageCommentsPerPost", 2}},
			"maxComments":            1,
			"minComments":            1,
		}}},
	}
}

// CommentStatistics computes per-post comment counts (top-level plus
// replies) and aggregates them across all posts. Returns nil when the
// posts collection is empty.
func (r *MongoAnalyticsRepository) CommentStatistics(ctx context.Context) (*models.CommentStats, error) {
	cursor, err := r.posts.Aggregate(ctx, commentStatisticsPipeline())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []models.CommentStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, nil
	}
	return &stats[0], nil
}

// ViewStatistics aggregates view counters across all posts. Returns
// nil when the posts collection is empty.
func (r *MongoAnalyticsRepository) ViewStatistics(ctx context.Context) (*models.ViewStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalViews":   bson.M{"$sum": "$views"},
			"averageViews": bson.M{"$avg": "$views"},
			"maxViews":     bson.M{"$max": "$views"},
			"minViews":     bson.M{"$min": "$views"},
			"totalPosts":   bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":          0,
			"totalViews":   1,
			"averageViews": bson.M{"$round": bson.A{"$averageViews", 2}},
			"maxViews":     1,
			"minViews":     1,
			"totalPosts":   1,
		}}},
	}

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []models.ViewStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, nil
	}
	return &stats[0], nil
}

// PostsByTags returns published posts whose tag set contains every
// requested tag.
func (r *MongoAnalyticsRepository) PostsByTags(ctx context.Context, tags []string, page, limit int, sortBy string, sortOrder int) (*models.SearchPage, error) {
	query := bson.M{
		"tags":   bson.M{"$all": tags},
		"status": models.PostStatusPublished,
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortOrder}}).
		SetSkip(models.Skip(page, limit)).
		SetLimit(int64(limit))

	cursor, err := r.posts.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}

	total, err := r.posts.CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}

	return &models.SearchPage{
		Posts:      posts,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}

// SearchText runs a relevance-ranked full-text search over published
// posts, most relevant first.
func (r *MongoAnalyticsRepository) SearchText(ctx context.Context, text string, page, limit int) (*models.SearchPage, error) {
	query := bson.M{
		"$text":  bson.M{"$search": text},
		"status": models.PostStatusPublished,
	}

	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSkip(models.Skip(page, limit)).
		SetLimit(int64(limit))

	cursor, err := r.posts.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}

	total, err := r.posts.CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}

	return &models.SearchPage{
		Posts:      posts,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}

// buildPostsMatch translates a PostQuery's filters into the $match
// stage of the paginated listing.
func buildPostsMatch(q *PostQuery) (bson.M, error) {
	match := bson.M{"status": models.PostStatusPublished}
	if q.CategoryID != "" {
		oid, err := primitive.ObjectIDFromHex(q.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidID, q.CategoryID)
		}
		match["categoryId"] = oid
	}
	if q.AuthorID != "" {
		oid, err := primitive.ObjectIDFromHex(q.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidID, q.AuthorID)
		}
		match["authorId"] = oid
	}
	if len(q.Tags) > 0 {
		match["tags"] = bson.M{"$all": q.Tags}
	}
	return match, nil
}

// PostsPaginated lists published posts with author and category joined
// in, content truncated to 200 characters and comments reduced to a
// count. The data page and the total count are fetched concurrently,
// so the count may be stale relative to the page.
func (r *MongoAnalyticsRepository) PostsPaginated(ctx context.Context, q *PostQuery) (*models.PostPage, error) {
	match, err := buildPostsMatch(q)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		lookupStage("users", "authorId", "author"),
		bson.D{{Key: "$unwind", Value: "$author"}},
		lookupStage("categories", "categoryId", "category"),
		bson.D{{Key: "$unwind", Value: "$category"}},
		bson.D{{Key: "$project", Value: bson.M{
			"title":          1,
			"content":        bson.M{"$substrCP": bson.A{"$content", 0, 200}},
			"authorId":       1,
			"authorName":     authorNameExpr,
			"authorUsername": "$author.username",
			"categoryId":     1,
			"categoryName":   "$category.name",
			"categorySlug":   "$category.slug",
			"tags":           1,
			"rating":         1,
			"views":          1,
			"comments":       bson.M{"$size": "$comments"},
			"createdAt":      1,
			"publishedAt":    1,
			"metadata":       1,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: q.SortBy, Value: q.SortOrder}}}},
		bson.D{{Key: "$skip", Value: models.Skip(q.Page, q.Limit)}},
		bson.D{{Key: "$limit", Value: q.Limit}},
	}

	var (
		posts = []models.PostSummary{}
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cursor, err := r.posts.Aggregate(gctx, pipeline)
		if err != nil {
			return err
		}
		defer cursor.Close(gctx)
		return cursor.All(gctx, &posts)
	})
	g.Go(func() error {
		var err error
		total, err = r.posts.CountDocuments(gctx, match)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.PostPage{
		Posts:      posts,
		Pagination: models.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// PostsByLocation returns published posts within maxDistance meters of
// the given point, nearest first, capped at 20 results.
func (r *MongoAnalyticsRepository) PostsByLocation(ctx context.Context, longitude, latitude float64, maxDistance int) ([]models.Post, error) {
	query := bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": bson.A{longitude, latitude},
				},
				"$maxDistance": maxDistance,
			},
		},
		"status": models.PostStatusPublished,
	}

	cursor, err := r.posts.Find(ctx, query, options.Find().SetLimit(20))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// postsByStatus groups post counts by lifecycle status
func (r *MongoAnalyticsRepository) postsByStatus(ctx context.Context) ([]models.StatusCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := []models.StatusCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// postsByMonth groups post counts by publication (year, month) for the
// 12 most recent buckets, newest first.
func (r *MongoAnalyticsRepository) postsByMonth(ctx context.Context) ([]models.MonthCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$publishedAt"},
				"month": bson.M{"$month": "$publishedAt"},
			},
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: -1},
			{Key: "_id.month", Value: -1},
		}}},
		bson.D{{Key: "$limit", Value: 12}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":   0,
			"year":  "$_id.year",
			"month": "$_id.month",
			"count": 1,
		}}},
	}

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := []models.MonthCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// Dashboard fans out the six dashboard sub-queries concurrently. The
// sub-queries share no dependency, so an all-or-nothing join is fine.
func (r *MongoAnalyticsRepository) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var dashboard models.Dashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dashboard.TopAuthors, err = r.TopAuthors(gctx, 5)
		return err
	})
	g.Go(func() (err error) {
		dashboard.PopularCategories, err = r.PopularCategories(gctx, 5)
		return err
	})
	g.Go(func() (err error) {
		dashboard.CommentStats, err = r.CommentStatistics(gctx)
		return err
	})
	g.Go(func() (err error) {
		dashboard.ViewStats, err = r.ViewStatistics(gctx)
		return err
	})
	g.Go(func() (err error) {
		dashboard.PostsByStatus, err = r.postsByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		dashboard.PostsByMonth, err = r.postsByMonth(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dashboard, nil
}
