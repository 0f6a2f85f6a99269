package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment moderation statuses
const (
	CommentStatusPending  = "pending"
	CommentStatusApproved = "approved"
	CommentStatusRejected = "rejected"
)

// Comment is embedded in the post document. Replies nest one level:
// a reply never carries further replies of its own.
type Comment struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id"`
	UserID          primitive.ObjectID  `json:"userId" bson:"userId"`
	Content         string              `json:"content" bson:"content"`
	CreatedAt       time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
	Status          string              `json:"status" bson:"status"`
	Likes           int                 `json:"likes" bson:"likes"`
	Dislikes        int                 `json:"dislikes" bson:"dislikes"`
	ParentCommentID *primitive.ObjectID `json:"parentCommentId,omitempty" bson:"parentCommentId"`
	Replies         []Comment           `json:"replies" bson:"replies"`
}

// NewComment constructs a comment awaiting moderation. Every new
// comment starts out pending with zeroed counters.
func NewComment(userID primitive.ObjectID, content string, parentID *primitive.ObjectID) Comment {
	now := time.Now()
	return Comment{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		Content:         content,
		CreatedAt:       now,
		UpdatedAt:       now,
		Status:          CommentStatusPending,
		Likes:           0,
		Dislikes:        0,
		ParentCommentID: parentID,
		Replies:         []Comment{},
	}
}

// CreateCommentRequest defines the request body for posting a comment or reply
type CreateCommentRequest struct {
	UserID          string `json:"userId" validate:"required"`
	Content         string `json:"content" validate:"required,min=1"`
	ParentCommentID string `json:"parentCommentId,omitempty"`
}

// ModerateCommentRequest defines the request body for a moderation transition
type ModerateCommentRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}
