package handler

import (
	"errors"
	"net/http"
	"testing"

	"lookbook/backend/internal/auth"
	"lookbook/backend/internal/models"
	"lookbook/backend/internal/repository"
	"lookbook/backend/internal/service"
	"lookbook/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// failingUserRepository errors on ListByIDs to exercise the handler's store
// failure path; everything else delegates to the in-memory store.
type failingUserRepository struct {
	*repository.MemoryUserRepository
}

func (r *failingUserRepository) ListByIDs(ids []uint) ([]models.User, error) {
	return nil, errors.New("store unavailable")
}

func TestGetFeedAuthorLookupFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	resolver := service.NewResolver(store.Relations, store.Users)
	feedSvc := service.NewFeedService(store.Posts, resolver)
	feedHandler := NewFeedHandler(feedSvc, &failingUserRepository{store.Users})

	router := gin.New()
	router.GET("/api/v1/feed", auth.Middleware(testSecret), feedHandler.GetFeed)

	alice := models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, store.Users.Create(&alice))
	require.NoError(t, store.Posts.Create(&models.Post{AuthorID: alice.ID, Content: "hi", Visibility: models.VisibilityPublic}))
	token, err := jwt.GenerateToken(alice.ID, testSecret)
	require.NoError(t, err)

	env := &testEnv{store: store, router: router}
	w := env.do(t, http.MethodGet, "/api/v1/feed", token, nil)

	// A failed author lookup is a 500, never a feed with missing usernames.
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Failed to load feed authors")
}
