package handler

import (
	"errors"
	"net/http"
	"strconv"

	"lookbook/backend/internal/models"
	"lookbook/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// RelationInput carries the relationship kind for request/accept/reject.
type RelationInput struct {
	Kind models.RelationType `json:"kind" binding:"required" example:"friend"`
}

// RelationHandler serves the relationship lifecycle and resolution routes.
type RelationHandler struct {
	relations *service.RelationService
	resolver  *service.Resolver
}

// NewRelationHandler creates a RelationHandler.
func NewRelationHandler(relations *service.RelationService, resolver *service.Resolver) *RelationHandler {
	return &RelationHandler{relations: relations, resolver: resolver}
}

func pathUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return 0, false
	}
	return uint(id), true
}

func relationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Relationship operation failed"})
	}
}

// SendRequest godoc
// @Summary      Send a relationship request
// @Description  Sends a follow or friend request to another user. Idempotent: if a relation of that kind already exists, the current state is returned with 200.
// @Tags         relations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Target User ID"
// @Param        input body      RelationInput  true  "Relation kind"
// @Success      201  {object}  RelationResponse "New pending relation"
// @Success      200  {object}  RelationResponse "Relation already existed"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Router       /users/{id}/relations [post]
func (h *RelationHandler) SendRequest(c *gin.Context) {
	viewerID := currentUserID(c)
	targetID, ok := pathUserID(c)
	if !ok {
		return
	}

	var input RelationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, created, err := h.relations.SendRequest(viewerID, targetID, input.Kind)
	if err != nil {
		relationError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, RelationResponse{SubjectID: targetID, Relation: tag})
}

// AcceptRequest godoc
// @Summary      Accept a relationship request
// @Description  Accepts a pending follow or friend request from another user.
// @Tags         relations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Requesting User ID"
// @Param        input body      RelationInput  true  "Relation kind"
// @Success      200  {object}  RelationResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Pending request not found"
// @Router       /users/{id}/relations/accept [post]
func (h *RelationHandler) AcceptRequest(c *gin.Context) {
	viewerID := currentUserID(c)
	requesterID, ok := pathUserID(c)
	if !ok {
		return
	}

	var input RelationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.relations.Accept(viewerID, requesterID, input.Kind); err != nil {
		relationError(c, err)
		return
	}

	tag, err := h.resolver.Resolve(viewerID, requesterID)
	if err != nil {
		relationError(c, err)
		return
	}
	c.JSON(http.StatusOK, RelationResponse{SubjectID: requesterID, Relation: tag})
}

// RejectRequest godoc
// @Summary      Reject a relationship request
// @Description  Rejects a pending follow or friend request; the pending edge is deleted.
// @Tags         relations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Requesting User ID"
// @Param        input body      RelationInput  true  "Relation kind"
// @Success      200  {object}  map[string]string "{"message": "Request rejected"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Pending request not found"
// @Router       /users/{id}/relations/reject [post]
func (h *RelationHandler) RejectRequest(c *gin.Context) {
	viewerID := currentUserID(c)
	requesterID, ok := pathUserID(c)
	if !ok {
		return
	}

	var input RelationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.relations.Reject(viewerID, requesterID, input.Kind); err != nil {
		relationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request rejected"})
}

// RemoveRelation godoc
// @Summary      Remove a relationship
// @Description  Unfollows or unfriends a user. For friendships both directional edges are removed. Idempotent: removing an absent relation still returns 200.
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   int     true   "Target User ID"
// @Param        kind  query  string  true   "Relation kind (follow or friend)"
// @Success      200  {object}  map[string]string "{"message": "Relation removed"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/{id}/relations [delete]
func (h *RelationHandler) RemoveRelation(c *gin.Context) {
	viewerID := currentUserID(c)
	targetID, ok := pathUserID(c)
	if !ok {
		return
	}

	kind := models.RelationType(c.Query("kind"))
	if err := h.relations.Remove(viewerID, targetID, kind); err != nil {
		relationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Relation removed"})
}

// GetRelation godoc
// @Summary      Resolve the relationship with a user
// @Description  Returns the canonical relationship tag between the viewer and the target user, including pending direction.
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  RelationResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/{id}/relation [get]
func (h *RelationHandler) GetRelation(c *gin.Context) {
	viewerID := currentUserID(c)
	targetID, ok := pathUserID(c)
	if !ok {
		return
	}

	tag, err := h.resolver.Resolve(viewerID, targetID)
	if err != nil {
		relationError(c, err)
		return
	}
	c.JSON(http.StatusOK, RelationResponse{SubjectID: targetID, Relation: tag})
}
