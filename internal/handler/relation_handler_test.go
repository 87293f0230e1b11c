package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lookbook/backend/internal/auth"
	"lookbook/backend/internal/models"
	"lookbook/backend/internal/repository"
	"lookbook/backend/internal/service"
	"lookbook/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testEnv struct {
	store  *repository.MemoryStore
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	resolver := service.NewResolver(store.Relations, store.Users)
	relationSvc := service.NewRelationService(store.Relations, store.Users)
	feedSvc := service.NewFeedService(store.Posts, resolver)

	userHandler := NewUserHandler(store.Users, store.Relations, resolver)
	relationHandler := NewRelationHandler(relationSvc, resolver)
	postHandler := NewPostHandler(store.Posts, store.Users, feedSvc, resolver)
	feedHandler := NewFeedHandler(feedSvc, store.Users)

	router := gin.New()
	apiV1 := router.Group("/api/v1")

	userRoutes := apiV1.Group("/users")
	userRoutes.Use(auth.Middleware(testSecret))
	{
		userRoutes.GET("/me", userHandler.GetMe)
		userRoutes.GET("/me/relations", userHandler.GetRelations)
		userRoutes.GET("/:id", userHandler.GetUserByID)
		userRoutes.GET("/:id/relation", relationHandler.GetRelation)
		userRoutes.POST("/:id/relations", relationHandler.SendRequest)
		userRoutes.POST("/:id/relations/accept", relationHandler.AcceptRequest)
		userRoutes.POST("/:id/relations/reject", relationHandler.RejectRequest)
		userRoutes.DELETE("/:id/relations", relationHandler.RemoveRelation)
	}
	apiV1.GET("/feed", auth.Middleware(testSecret), feedHandler.GetFeed)
	apiV1.GET("/posts/:id", auth.OptionalMiddleware(testSecret), postHandler.GetPost)
	apiV1.POST("/posts", auth.Middleware(testSecret), postHandler.CreatePost)

	return &testEnv{store: store, router: router}
}

func (e *testEnv) createUser(t *testing.T, username string) (uint, string) {
	t.Helper()
	u := models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, e.store.Users.Create(&u))
	token, err := jwt.GenerateToken(u.ID, testSecret)
	require.NoError(t, err)
	return u.ID, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeRelation(t *testing.T, w *httptest.ResponseRecorder) RelationResponse {
	t.Helper()
	var resp RelationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRelationRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/v1/users/1/relations", "", RelationInput{Kind: models.RelationFriend})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFriendRequestFlow(t *testing.T) {
	env := newTestEnv(t)
	aliceID, aliceToken := env.createUser(t, "alice")
	bobID, bobToken := env.createUser(t, "bob")

	// Alice sends a friend request.
	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/relations", bobID), aliceToken, RelationInput{Kind: models.RelationFriend})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, service.RelationPendingSentFriend, decodeRelation(t, w).Relation)

	// A repeated send is a 200 with the existing state.
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/relations", bobID), aliceToken, RelationInput{Kind: models.RelationFriend})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, service.RelationPendingSentFriend, decodeRelation(t, w).Relation)

	// Bob sees the pending request from his side.
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/relation", aliceID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, service.RelationPendingReceivedFriend, decodeRelation(t, w).Relation)

	// Bob accepts; both sides now resolve to friend.
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/relations/accept", aliceID), bobToken, RelationInput{Kind: models.RelationFriend})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, service.RelationFriend, decodeRelation(t, w).Relation)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/relation", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, service.RelationFriend, decodeRelation(t, w).Relation)

	// Alice unfriends; removal is idempotent.
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/relations?kind=friend", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/relations?kind=friend", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/relation", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, service.RelationNone, decodeRelation(t, w).Relation)
}

func TestSendRequestInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	aliceID, aliceToken := env.createUser(t, "alice")

	// Self-relation.
	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/relations", aliceID), aliceToken, RelationInput{Kind: models.RelationFriend})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown kind.
	w = env.do(t, http.MethodPost, "/api/v1/users/999/relations", aliceToken, RelationInput{Kind: "enemy"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Missing target user.
	w = env.do(t, http.MethodPost, "/api/v1/users/999/relations", aliceToken, RelationInput{Kind: models.RelationFriend})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRejectRoute(t *testing.T) {
	env := newTestEnv(t)
	aliceID, aliceToken := env.createUser(t, "alice")
	bobID, bobToken := env.createUser(t, "bob")

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/relations/reject", aliceID), bobToken, RelationInput{Kind: models.RelationFollow})
	require.Equal(t, http.StatusNotFound, w.Code)

	env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/relations", bobID), aliceToken, RelationInput{Kind: models.RelationFollow})
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/relations/reject", aliceID), bobToken, RelationInput{Kind: models.RelationFollow})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestFeedRoute(t *testing.T) {
	env := newTestEnv(t)
	aliceID, aliceToken := env.createUser(t, "alice")
	bobID, bobToken := env.createUser(t, "bob")

	// Alice follows bob (bob accepts).
	env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/relations", bobID), aliceToken, RelationInput{Kind: models.RelationFollow})
	env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/relations/accept", aliceID), bobToken, RelationInput{Kind: models.RelationFollow})

	// Bob posts at followers and friends visibility.
	w := env.do(t, http.MethodPost, "/api/v1/posts", bobToken, PostInput{Content: "for followers", Visibility: models.VisibilityFollowers})
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.do(t, http.MethodPost, "/api/v1/posts", bobToken, PostInput{Content: "for friends", Visibility: models.VisibilityFriends})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/feed", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var feed []PostResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	require.Equal(t, "for followers", feed[0].Content)
	require.Equal(t, service.RelationFollowing, feed[0].Relation)
	require.Equal(t, "bob", feed[0].AuthorUsername)
}

func TestGetPostAnonymous(t *testing.T) {
	env := newTestEnv(t)
	_, bobToken := env.createUser(t, "bob")

	w := env.do(t, http.MethodPost, "/api/v1/posts", bobToken, PostInput{Content: "hello", Visibility: models.VisibilityPublic})
	require.Equal(t, http.StatusCreated, w.Code)
	var created PostResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Public post is visible without a token.
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// A followers-only post is hidden from anonymous viewers.
	w = env.do(t, http.MethodPost, "/api/v1/posts", bobToken, PostInput{Content: "inner circle", Visibility: models.VisibilityFollowers})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", created.ID), "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
