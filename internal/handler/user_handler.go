package handler

import (
	"net/http"
	"strconv"

	"lookbook/backend/internal/models"
	"lookbook/backend/internal/repository"
	"lookbook/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves profile, search and relation-listing routes.
type UserHandler struct {
	users     repository.UserRepository
	relations repository.RelationRepository
	resolver  *service.Resolver
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users repository.UserRepository, relations repository.RelationRepository, resolver *service.Resolver) *UserHandler {
	return &UserHandler{users: users, relations: relations, resolver: resolver}
}

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	viewerID := currentUserID(c)

	user, err := h.users.GetByID(viewerID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	stats, err := h.relations.Stats(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count relations"})
		return
	}

	c.JSON(http.StatusOK, PrivateUserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Bio:            user.Bio,
		AvatarURL:      user.AvatarURL,
		Verified:       user.Verified,
		FriendsCount:   stats.Friends,
		FollowersCount: stats.Followers,
		FollowingCount: stats.Following,
	})
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Retrieves the public profile for a specific user, annotated with the viewer's resolved relation.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  PublicUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	viewerID := currentUserID(c)
	targetID, ok := pathUserID(c)
	if !ok {
		return
	}

	if viewerID == targetID {
		h.GetMe(c)
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

	resp, err := h.buildPublicUserResponse(*user, viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build profile"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SearchUsers godoc
// @Summary      Search for users
// @Description  Searches for users by username with pagination; each hit is annotated with the viewer's resolved relation.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  false  "Search query for username"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedResponse[PublicUserResponse]
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	viewerID := currentUserID(c)
	searchQuery := c.Query("q")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	users, totalItems, err := h.users.Search(searchQuery, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	tags, err := h.resolver.ResolveAll(viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve relations"})
		return
	}

	responses := make([]PublicUserResponse, 0, len(users))
	for _, user := range users {
		// Don't show the viewer in the search results.
		if user.ID == viewerID {
			continue
		}
		tag, ok := tags[user.ID]
		if !ok {
			tag = service.RelationNone
		}
		resp, err := h.publicUserWithTag(user, tag)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build profile"})
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(responses, totalItems, page, limit))
}

// GetRelations godoc
// @Summary      List the current user's relations
// @Description  Lists the users on the other end of the viewer's relationship edges, filtered by direction, kind and status.
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        direction query     string  true   "Direction (incoming or outgoing)"
// @Param        kind      query     string  false  "Filter by kind (follow, friend)"
// @Param        status    query     string  false  "Filter by status (pending, accepted)"
// @Success      200       {array}   PublicUserResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Router       /users/me/relations [get]
func (h *UserHandler) GetRelations(c *gin.Context) {
	viewerID := currentUserID(c)

	direction := c.Query("direction")
	if direction != "incoming" && direction != "outgoing" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'direction' query parameter (incoming or outgoing) is required"})
		return
	}
	incoming := direction == "incoming"

	kind := models.RelationType(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown relation kind"})
		return
	}
	status := models.FriendshipStatus(c.Query("status"))

	rels, err := h.relations.ListDirected(viewerID, incoming, kind, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch relations"})
		return
	}

	tags, err := h.resolver.ResolveAll(viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve relations"})
		return
	}

	responses := make([]PublicUserResponse, 0, len(rels))
	for _, r := range rels {
		counterpart := r.ToUser
		if incoming {
			counterpart = r.FromUser
		}
		// An orphaned edge has no user behind it; skip it.
		if counterpart.ID == 0 {
			continue
		}
		tag, ok := tags[counterpart.ID]
		if !ok {
			continue
		}
		resp, err := h.publicUserWithTag(counterpart, tag)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build profile"})
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, responses)
}

func (h *UserHandler) buildPublicUserResponse(user models.User, viewerID uint) (PublicUserResponse, error) {
	tag, err := h.resolver.Resolve(viewerID, user.ID)
	if err != nil {
		return PublicUserResponse{}, err
	}
	return h.publicUserWithTag(user, tag)
}

func (h *UserHandler) publicUserWithTag(user models.User, tag service.RelationTag) (PublicUserResponse, error) {
	stats, err := h.relations.Stats(user.ID)
	if err != nil {
		return PublicUserResponse{}, err
	}
	return PublicUserResponse{
		ID:             user.ID,
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Bio:            user.Bio,
		AvatarURL:      user.AvatarURL,
		FriendsCount:   stats.Friends,
		FollowersCount: stats.Followers,
		FollowingCount: stats.Following,
		Relation:       tag,
	}, nil
}
