package models

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post lifecycle statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// Vote types for the rating protocol
const (
	VoteLike    = "like"
	VoteDislike = "dislike"
)

// MaxVersions bounds the per-post edit history; the oldest entry is
// evicted first.
const MaxVersions = 10

// RatingEntry records that a user rated a post and how. The entry list
// is the source of truth; the Likes/Dislikes counters on Rating are
// denormalized caches kept in sync by the rating mutation path.
type RatingEntry struct {
	UserID primitive.ObjectID `json:"userId" bson:"userId"`
	Type   string             `json:"type" bson:"type"`
}

// Rating aggregates votes on a post
type Rating struct {
	Likes    int           `json:"likes" bson:"likes"`
	Dislikes int           `json:"dislikes" bson:"dislikes"`
	Users    []RatingEntry `json:"users" bson:"users"`
}

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude]
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// Version is a snapshot of a post's title and content taken before an edit
type Version struct {
	Title    string             `json:"title" bson:"title"`
	Content  string             `json:"content" bson:"content"`
	EditedAt time.Time          `json:"editedAt" bson:"editedAt"`
	EditedBy primitive.ObjectID `json:"editedBy" bson:"editedBy"`
}

// Metadata carries derived presentation fields
type Metadata struct {
	ReadingTime int  `json:"readingTime" bson:"readingTime"`
	WordCount   int  `json:"wordCount" bson:"wordCount"`
	Featured    bool `json:"featured" bson:"featured"`
}

// NewMetadata computes word count and reading time (200 words per minute)
func NewMetadata(content string) Metadata {
	words := len(strings.Fields(content))
	return Metadata{
		ReadingTime: int(math.Ceil(float64(words) / 200)),
		WordCount:   words,
		Featured:    false,
	}
}

// Post represents a blog post stored in MongoDB. Comments and versions
// are embedded and have no lifecycle of their own.
type Post struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Content     string             `json:"content" bson:"content"`
	AuthorID    primitive.ObjectID `json:"authorId" bson:"authorId"`
	CategoryID  primitive.ObjectID `json:"categoryId" bson:"categoryId"`
	Tags        []string           `json:"tags" bson:"tags"`
	Comments    []Comment          `json:"comments" bson:"comments"`
	Rating      Rating             `json:"rating" bson:"rating"`
	Views       int                `json:"views" bson:"views"`
	Status      string             `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
	PublishedAt *time.Time         `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
	Location    *GeoPoint          `json:"location,omitempty" bson:"location,omitempty"`
	Versions    []Version          `json:"versions" bson:"versions"`
	Metadata    Metadata           `json:"metadata" bson:"metadata"`
}

// LocationInput is the request shape for a post's geolocation
type LocationInput struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// GeoPoint converts the input to its GeoJSON form
func (l *LocationInput) GeoPoint() *GeoPoint {
	if l == nil {
		return nil
	}
	return &GeoPoint{Type: "Point", Coordinates: []float64{l.Longitude, l.Latitude}}
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title      string         `json:"title" validate:"required,min=5,max=200"`
	Content    string         `json:"content" validate:"required,min=50"`
	AuthorID   string         `json:"authorId" validate:"required"`
	CategoryID string         `json:"categoryId" validate:"required"`
	Tags       []string       `json:"tags,omitempty"`
	Location   *LocationInput `json:"location,omitempty"`
}

// UpdatePostRequest defines the request body for editing a post
type UpdatePostRequest struct {
	Title    string `json:"title,omitempty" validate:"omitempty,min=5,max=200"`
	Content  string `json:"content,omitempty" validate:"omitempty,min=50"`
	EditedBy string `json:"editedBy,omitempty"`
}

// RatePostRequest defines the request body for casting a vote
type RatePostRequest struct {
	UserID string `json:"userId" validate:"required"`
	Type   string `json:"type" validate:"required,oneof=like dislike"`
}
