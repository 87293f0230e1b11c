package handler

import (
	"net/http"
	"strconv"

	"lookbook/backend/internal/models"
	"lookbook/backend/internal/repository"
	"lookbook/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// PostInput defines the structure for creating a post.
type PostInput struct {
	Content    string            `json:"content" binding:"required"`
	Visibility models.Visibility `json:"visibility" example:"followers"`
	ImageURL   string            `json:"image_url"`
}

// PostHandler serves post CRUD and per-profile post listings.
type PostHandler struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	feed     *service.FeedService
	resolver *service.Resolver
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts repository.PostRepository, users repository.UserRepository, feed *service.FeedService, resolver *service.Resolver) *PostHandler {
	return &PostHandler{posts: posts, users: users, feed: feed, resolver: resolver}
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Creates a post owned by the authenticated user. Visibility defaults to public.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body PostInput true "Post content"
// @Success      201  {object}  PostResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	viewerID := currentUserID(c)

	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Visibility == "" {
		input.Visibility = models.VisibilityPublic
	}
	if !input.Visibility.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown visibility"})
		return
	}

	post := models.Post{
		AuthorID:   viewerID,
		Content:    input.Content,
		ImageURL:   input.ImageURL,
		Visibility: input.Visibility,
	}
	if err := h.posts.Create(&post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, newPostResponse(service.FeedItem{Post: post, Relation: service.RelationSelf}, h.authorIndex([]uint{viewerID})))
}

// GetPost godoc
// @Summary      Get a post by ID
// @Description  Retrieves a single post if the viewer's resolved relation to the author may see it. Anonymous viewers see public posts only.
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  PostResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	viewerID := currentUserID(c)

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := h.posts.GetByID(uint(postID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	tag := service.RelationSelf
	if post.AuthorID != viewerID {
		tag, err = h.resolver.Resolve(viewerID, post.AuthorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve relation"})
			return
		}
	}
	item := service.FeedItem{Post: *post, Relation: tag}
	if !service.Visible(post.Visibility, tag) {
		// Hidden posts are indistinguishable from absent ones.
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, newPostResponse(item, h.authorIndex([]uint{post.AuthorID})))
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Deletes a post owned by the authenticated user.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  map[string]string "{"message": "Post deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	viewerID := currentUserID(c)

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := h.posts.GetByID(uint(postID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if post.AuthorID != viewerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can delete a post"})
		return
	}

	if err := h.posts.Delete(post.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// GetUserPosts godoc
// @Summary      List a user's posts
// @Description  Lists the posts of one user that the viewer's resolved relation may see, newest first.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {array}   PostResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/posts [get]
func (h *PostHandler) GetUserPosts(c *gin.Context) {
	viewerID := currentUserID(c)
	targetID, ok := pathUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	items, err := h.feed.AuthorPosts(viewerID, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	authors := h.authorIndex([]uint{targetID})
	responses := make([]PostResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, newPostResponse(item, authors))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *PostHandler) authorIndex(ids []uint) map[uint]models.User {
	index := make(map[uint]models.User, len(ids))
	users, err := h.users.ListByIDs(ids)
	if err != nil {
		return index
	}
	for _, u := range users {
		index[u.ID] = u
	}
	return index
}
