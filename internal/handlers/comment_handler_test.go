package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okravets/openblog/backend/internal/models"
)

func postComment(t *testing.T, h *CommentHandler, postID string, req models.CreateCommentRequest) (int, map[string]interface{}) {
	t.Helper()
	c, rec := newTestContext(http.MethodPost, "/posts/"+postID+"/comments", req)
	c.SetParamNames("id")
	c.SetParamValues(postID)

	err := h.CreateComment(c)
	return httpStatus(err, rec), decodeBody(rec)
}

func TestCreateComment(t *testing.T) {
	postRepo := newFakePostRepository()
	userRepo := newFakeUserRepository()
	h := NewCommentHandler(postRepo, userRepo)

	author := &models.User{Username: "author", Email: "author@example.com"}
	_ = userRepo.CreateUser(nil, author)

	post := seedPost(postRepo)
	post.AuthorID = author.ID

	status, body := postComment(t, h, post.ID.Hex(), models.CreateCommentRequest{
		UserID:  primitive.NewObjectID().Hex(),
		Content: "First!",
	})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Comment added", body["message"])
	assert.Len(t, post.Comments, 1)

	// new comments always await moderation
	assert.Equal(t, models.CommentStatusPending, post.Comments[0].Status)
	assert.Zero(t, post.Comments[0].Likes)

	// the post author got notified
	assert.Len(t, author.Notifications, 1)
	assert.Equal(t, "new_comment", author.Notifications[0].Type)
	assert.Equal(t, post.ID, author.Notifications[0].PostID)
}

func TestCreateReply(t *testing.T) {
	postRepo := newFakePostRepository()
	userRepo := newFakeUserRepository()
	h := NewCommentHandler(postRepo, userRepo)
	post := seedPost(postRepo)

	postComment(t, h, post.ID.Hex(), models.CreateCommentRequest{
		UserID:  primitive.NewObjectID().Hex(),
		Content: "parent comment",
	})
	parentID := post.Comments[0].ID

	status, _ := postComment(t, h, post.ID.Hex(), models.CreateCommentRequest{
		UserID:          primitive.NewObjectID().Hex(),
		Content:         "a reply",
		ParentCommentID: parentID.Hex(),
	})

	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, post.Comments, 1)
	assert.Len(t, post.Comments[0].Replies, 1)
	assert.Equal(t, &parentID, post.Comments[0].Replies[0].ParentCommentID)
}

func TestCreateReplyErrors(t *testing.T) {
	postRepo := newFakePostRepository()
	userRepo := newFakeUserRepository()
	h := NewCommentHandler(postRepo, userRepo)
	post := seedPost(postRepo)

	t.Run("unknown parent", func(t *testing.T) {
		status, _ := postComment(t, h, post.ID.Hex(), models.CreateCommentRequest{
			UserID:          primitive.NewObjectID().Hex(),
			Content:         "orphan reply",
			ParentCommentID: primitive.NewObjectID().Hex(),
		})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("reply to a reply is rejected", func(t *testing.T) {
		postComment(t, h, post.ID.Hex(), models.CreateCommentRequest{
			UserID:  primitive.NewObjectID().Hex(),
			Content: "top level",
		})
		parentID := post.Comments[0].ID
		postComment(t, h, post.ID.Hex(), models.CreateCommentRequest{
			UserID:          primitive.NewObjectID().Hex(),
			Content:         "first level reply",
			ParentCommentID: parentID.Hex(),
		})
		replyID := post.Comments[0].Replies[0].ID

		status, _ := postComment(t, h, post.ID.Hex(), models.CreateCommentRequest{
			UserID:          primitive.NewObjectID().Hex(),
			Content:         "second level reply",
			ParentCommentID: replyID.Hex(),
		})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("empty content", func(t *testing.T) {
		status, _ := postComment(t, h, post.ID.Hex(), models.CreateCommentRequest{
			UserID: primitive.NewObjectID().Hex(),
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func moderateComment(t *testing.T, h *CommentHandler, postID, commentID, status string) int {
	t.Helper()
	c, rec := newTestContext(http.MethodPatch, "/posts/"+postID+"/comments/"+commentID, models.ModerateCommentRequest{Status: status})
	c.SetParamNames("postId", "commentId")
	c.SetParamValues(postID, commentID)

	err := h.ModerateComment(c)
	return httpStatus(err, rec)
}

func TestModerateComment(t *testing.T) {
	postRepo := newFakePostRepository()
	h := NewCommentHandler(postRepo, newFakeUserRepository())
	post := seedPost(postRepo)

	postComment(t, h, post.ID.Hex(), models.CreateCommentRequest{
		UserID:  primitive.NewObjectID().Hex(),
		Content: "awaiting review",
	})
	commentID := post.Comments[0].ID.Hex()

	t.Run("approve", func(t *testing.T) {
		status := moderateComment(t, h, post.ID.Hex(), commentID, "approved")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, models.CommentStatusApproved, post.Comments[0].Status)
	})

	t.Run("back to pending", func(t *testing.T) {
		status := moderateComment(t, h, post.ID.Hex(), commentID, "pending")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, models.CommentStatusPending, post.Comments[0].Status)
	})

	t.Run("unsupported status", func(t *testing.T) {
		status := moderateComment(t, h, post.ID.Hex(), commentID, "deleted")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown comment", func(t *testing.T) {
		status := moderateComment(t, h, post.ID.Hex(), primitive.NewObjectID().Hex(), "approved")
		assert.Equal(t, http.StatusNotFound, status)
	})
}
