package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthorStats is one row of the top-authors aggregation
type AuthorStats struct {
	AuthorID     primitive.ObjectID `json:"authorId" bson:"authorId"`
	AuthorName   string             `json:"authorName" bson:"authorName"`
	Username     string             `json:"username" bson:"username"`
	PostCount    int                `json:"postCount" bson:"postCount"`
	TotalViews   int                `json:"totalViews" bson:"totalViews"`
	TotalLikes   int                `json:"totalLikes" bson:"totalLikes"`
	AverageViews float64            `json:"averageViews" bson:"averageViews"`
}

// CategoryStats is one row of the popular-categories aggregation.
// TotalComments counts top-level comments only.
type CategoryStats struct {
	CategoryID    primitive.ObjectID `json:"categoryId" bson:"categoryId"`
	CategoryName  string             `json:"categoryName" bson:"categoryName"`
	CategorySlug  string             `json:"categorySlug" bson:"categorySlug"`
	PostCount     int                `json:"postCount" bson:"postCount"`
	TotalViews    int                `json:"totalViews" bson:"totalViews"`
	TotalComments int                `json:"totalComments" bson:"totalComments"`
}

// CommentStats aggregates comment counts across all posts. A post's
// count is its top-level comments plus all of their replies.
type CommentStats struct {
	TotalComments          int     `json:"totalComments" bson:"totalComments"`
	TotalPosts             int     `json:"totalPosts" bson:"totalPosts"`
	AverageCommentsPerPost float64 `json:"averageCommentsPerPost" bson:"averageCommentsPerPost"`
	MaxComments            int     `json:"maxComments" bson:"maxComments"`
	MinComments            int     `json:"minComments" bson:"minComments"`
}

// ViewStats aggregates view counters across all posts
type ViewStats struct {
	TotalViews   int     `json:"totalViews" bson:"totalViews"`
	AverageViews float64 `json:"averageViews" bson:"averageViews"`
	MaxViews     int     `json:"maxViews" bson:"maxViews"`
	MinViews     int     `json:"minViews" bson:"minViews"`
	TotalPosts   int     `json:"totalPosts" bson:"totalPosts"`
}

// StatusCount is a post count for one lifecycle status
type StatusCount struct {
	Status string `json:"status" bson:"_id"`
	Count  int    `json:"count" bson:"count"`
}

// MonthCount is a post count for one (year, month) publication bucket
type MonthCount struct {
	Year  int `json:"year" bson:"year"`
	Month int `json:"month" bson:"month"`
	Count int `json:"count" bson:"count"`
}

// Dashboard is the fan-out analytics payload
type Dashboard struct {
	TopAuthors        []AuthorStats   `json:"topAuthors"`
	PopularCategories []CategoryStats `json:"popularCategories"`
	CommentStats      *CommentStats   `json:"commentStats"`
	ViewStats         *ViewStats      `json:"viewStats"`
	PostsByStatus     []StatusCount   `json:"postsByStatus"`
	PostsByMonth      []MonthCount    `json:"postsByMonth"`
}

// PostSummary is the reduced projection used by paginated listings:
// content truncated to 200 characters and comments reduced to a count.
type PostSummary struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Title          string             `json:"title" bson:"title"`
	Content        string             `json:"content" bson:"content"`
	AuthorID       primitive.ObjectID `json:"authorId" bson:"authorId"`
	AuthorName     string             `json:"authorName" bson:"authorName"`
	AuthorUsername string             `json:"authorUsername" bson:"authorUsername"`
	CategoryID     primitive.ObjectID `json:"categoryId" bson:"categoryId"`
	CategoryName   string             `json:"categoryName" bson:"categoryName"`
	CategorySlug   string             `json:"categorySlug" bson:"categorySlug"`
	Tags           []string           `json:"tags" bson:"tags"`
	Rating         Rating             `json:"rating" bson:"rating"`
	Views          int                `json:"views" bson:"views"`
	Comments       int                `json:"comments" bson:"comments"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	PublishedAt    *time.Time         `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
	Metadata       Metadata           `json:"metadata" bson:"metadata"`
}

// PostDetail is the single-post projection with joined author and
// category display fields.
type PostDetail struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Title          string             `json:"title" bson:"title"`
	Content        string             `json:"content" bson:"content"`
	AuthorID       primitive.ObjectID `json:"authorId" bson:"authorId"`
	AuthorName     string             `json:"authorName" bson:"authorName"`
	AuthorUsername string             `json:"authorUsername" bson:"authorUsername"`
	CategoryID     primitive.ObjectID `json:"categoryId" bson:"categoryId"`
	CategoryName   string             `json:"categoryName" bson:"categoryName"`
	CategorySlug   string             `json:"categorySlug" bson:"categorySlug"`
	Tags           []string           `json:"tags" bson:"tags"`
	Comments       []Comment          `json:"comments" bson:"comments"`
	Rating         Rating             `json:"rating" bson:"rating"`
	Views          int                `json:"views" bson:"views"`
	Status         string             `json:"status" bson:"status"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	PublishedAt    *time.Time         `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
	Location       *GeoPoint          `json:"location,omitempty" bson:"location,omitempty"`
	Versions       []Version          `json:"versions" bson:"versions"`
	Metadata       Metadata           `json:"metadata" bson:"metadata"`
}

// PostPage is a paginated page of post summaries
type PostPage struct {
	Posts      []PostSummary `json:"posts"`
	Pagination Pagination    `json:"pagination"`
}

// SearchPage is a paginated page of full post documents, as returned
// by the tag and full-text searches.
type SearchPage struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}
