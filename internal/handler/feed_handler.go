package handler

import (
	"net/http"

	"lookbook/backend/internal/models"
	"lookbook/backend/internal/repository"
	"lookbook/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedHandler serves the aggregated feed.
type FeedHandler struct {
	feed  *service.FeedService
	users repository.UserRepository
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(feed *service.FeedService, users repository.UserRepository) *FeedHandler {
	return &FeedHandler{feed: feed, users: users}
}

// GetFeed godoc
// @Summary      Get the aggregated feed
// @Description  Returns the viewer's feed: own posts plus posts from followed and befriended users, filtered by visibility, newest first, each annotated with the current resolved relation to the author.
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   PostResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /feed [get]
func (h *FeedHandler) GetFeed(c *gin.Context) {
	viewerID := currentUserID(c)

	items, err := h.feed.ComposeFeed(viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compose feed"})
		return
	}

	seen := make(map[uint]bool)
	authorIDs := make([]uint, 0, len(items))
	for _, item := range items {
		if !seen[item.Post.AuthorID] {
			seen[item.Post.AuthorID] = true
			authorIDs = append(authorIDs, item.Post.AuthorID)
		}
	}
	users, err := h.users.ListByIDs(authorIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feed authors"})
		return
	}
	authors := make(map[uint]models.User, len(users))
	for _, u := range users {
		authors[u.ID] = u
	}

	responses := make([]PostResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, newPostResponse(item, authors))
	}
	c.JSON(http.StatusOK, responses)
}
