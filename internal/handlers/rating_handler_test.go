package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okravets/openblog/backend/internal/models"
)

func seedPost(repo *fakePostRepository) *models.Post {
	post := &models.Post{
		Title:   "A post about nothing in particular",
		Content: "Some content long enough to not matter here.",
		Rating:  models.Rating{Users: []models.RatingEntry{}},
		Status:  models.PostStatusPublished,
	}
	_ = repo.CreatePost(nil, post)
	return post
}

func ratePost(t *testing.T, h *RatingHandler, postID, userID, vote string) (int, map[string]interface{}) {
	t.Helper()
	c, rec := newTestContext(http.MethodPost, "/posts/"+postID+"/rating", models.RatePostRequest{
		UserID: userID,
		Type:   vote,
	})
	c.SetParamNames("id")
	c.SetParamValues(postID)

	err := h.RatePost(c)
	return httpStatus(err, rec), decodeBody(rec)
}

func TestRatePostToggle(t *testing.T) {
	repo := newFakePostRepository()
	post := seedPost(repo)
	h := NewRatingHandler(repo)
	userID := primitive.NewObjectID().Hex()

	// first like is recorded
	status, body := ratePost(t, h, post.ID.Hex(), userID, "like")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Rating added", body["message"])
	assert.Equal(t, 1, post.Rating.Likes)
	assert.Len(t, post.Rating.Users, 1)

	// the same vote again retracts it
	status, body = ratePost(t, h, post.ID.Hex(), userID, "like")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Rating removed", body["message"])
	assert.Equal(t, true, body["removed"])
	assert.Equal(t, 0, post.Rating.Likes)
	assert.Empty(t, post.Rating.Users)
}

func TestRatePostSwitch(t *testing.T) {
	repo := newFakePostRepository()
	post := seedPost(repo)
	h := NewRatingHandler(repo)
	userID := primitive.NewObjectID().Hex()

	ratePost(t, h, post.ID.Hex(), userID, "like")
	status, body := ratePost(t, h, post.ID.Hex(), userID, "dislike")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Rating updated", body["message"])
	assert.Equal(t, 0, post.Rating.Likes)
	assert.Equal(t, 1, post.Rating.Dislikes)
	// still a single entry for the user, now a dislike
	assert.Len(t, post.Rating.Users, 1)
	assert.Equal(t, models.VoteDislike, post.Rating.Users[0].Type)
}

func TestRatePostTwoUsers(t *testing.T) {
	repo := newFakePostRepository()
	post := seedPost(repo)
	h := NewRatingHandler(repo)

	ratePost(t, h, post.ID.Hex(), primitive.NewObjectID().Hex(), "like")
	ratePost(t, h, post.ID.Hex(), primitive.NewObjectID().Hex(), "dislike")

	assert.Equal(t, 1, post.Rating.Likes)
	assert.Equal(t, 1, post.Rating.Dislikes)
	assert.Len(t, post.Rating.Users, 2)
}

func TestRatePostErrors(t *testing.T) {
	repo := newFakePostRepository()
	seedPost(repo)
	h := NewRatingHandler(repo)
	userID := primitive.NewObjectID().Hex()

	t.Run("unknown post", func(t *testing.T) {
		status, _ := ratePost(t, h, primitive.NewObjectID().Hex(), userID, "like")
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("malformed post id", func(t *testing.T) {
		status, _ := ratePost(t, h, "garbage", userID, "like")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unsupported vote type", func(t *testing.T) {
		post := seedPost(repo)
		status, _ := ratePost(t, h, post.ID.Hex(), userID, "love")
		assert.Equal(t, http.StatusBadRequest, status)
	})
}
