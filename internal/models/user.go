package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleAuthor = "author"
	RoleReader = "reader"
	RoleAdmin  = "admin"
)

// Profile holds the public-facing part of a user document
type Profile struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
	Bio       string `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar    string `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// Notification is embedded in the user document, most recent last
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Type      string             `json:"type" bson:"type"`
	Message   string             `json:"message" bson:"message"`
	PostID    primitive.ObjectID `json:"postId,omitempty" bson:"postId,omitempty"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// NewCommentNotification builds the notification appended to a post
// author when someone comments on one of their posts.
func NewCommentNotification(postID primitive.ObjectID, postTitle string) Notification {
	return Notification{
		ID:        primitive.NewObjectID(),
		Type:      "new_comment",
		Message:   "New comment on your post \"" + postTitle + "\"",
		PostID:    postID,
		Read:      false,
		CreatedAt: time.Now(),
	}
}

// User represents a user stored in MongoDB
type User struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username      string             `json:"username" bson:"username"`
	Email         string             `json:"email" bson:"email"`
	Password      string             `json:"-" bson:"password"` // bcrypt hash, never serialized
	Role          string             `json:"role" bson:"role"`
	Profile       Profile            `json:"profile" bson:"profile"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	LastLogin     *time.Time         `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	Notifications []Notification     `json:"notifications" bson:"notifications"`
}

// SignupRequest defines the request body for local user registration
type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=author reader admin"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Bio       string `json:"bio,omitempty"`
}

// SignInRequest defines the request body for authentication
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
