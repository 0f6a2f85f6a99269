package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category represents a post category stored in MongoDB.
// PostCount is a denormalized counter incremented by the post creation
// path only; it converges on the real count but is not transactional
// with post insertion.
type Category struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Color       string             `json:"color,omitempty" bson:"color,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	PostCount   int                `json:"postCount" bson:"postCount"`
}
