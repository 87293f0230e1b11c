package handler

import (
	"time"

	"lookbook/backend/internal/models"
	"lookbook/backend/internal/service"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// RelationResponse is the canonical serialization of a resolved
// relationship. Every endpoint that reports a relationship uses it.
type RelationResponse struct {
	SubjectID uint                `json:"subject_id" example:"2"`
	Relation  service.RelationTag `json:"relation" example:"pending_sent_friend"`
}

// PostResponse is the canonical serialization of a post. Every endpoint
// that returns posts uses it, annotated with the viewer's current resolved
// relation to the author.
type PostResponse struct {
	ID             uint                `json:"id" example:"1"`
	AuthorID       uint                `json:"author_id" example:"2"`
	AuthorUsername string              `json:"author_username,omitempty" example:"marta"`
	Content        string              `json:"content"`
	ImageURL       string              `json:"image_url,omitempty"`
	Visibility     models.Visibility   `json:"visibility" example:"followers"`
	CreatedAt      time.Time           `json:"created_at"`
	Relation       service.RelationTag `json:"relation" example:"friend"`
}

// PublicUserResponse is a user's public profile as seen by another user.
type PublicUserResponse struct {
	ID             uint                `json:"id" example:"1"`
	Username       string              `json:"username" example:"marta"`
	FirstName      string              `json:"first_name,omitempty"`
	LastName       string              `json:"last_name,omitempty"`
	Bio            string              `json:"bio,omitempty"`
	AvatarURL      string              `json:"avatar_url,omitempty"`
	FriendsCount   int64               `json:"friends_count"`
	FollowersCount int64               `json:"followers_count"`
	FollowingCount int64               `json:"following_count"`
	Relation       service.RelationTag `json:"relation" example:"following"`
}

// PrivateUserResponse is the authenticated user's own profile.
type PrivateUserResponse struct {
	ID             uint   `json:"id" example:"1"`
	Username       string `json:"username" example:"marta"`
	Email          string `json:"email" example:"marta@example.com"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Bio            string `json:"bio,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	Verified       bool   `json:"verified"`
	FriendsCount   int64  `json:"friends_count"`
	FollowersCount int64  `json:"followers_count"`
	FollowingCount int64  `json:"following_count"`
}

// PaginationMeta defines the structure for pagination metadata.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

// PaginatedResponse defines the structure for a paginated list of any type.
type PaginatedResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginatedResponse creates a new PaginatedResponse.
func NewPaginatedResponse[T any](data []T, totalItems int64, page, limit int) PaginatedResponse[T] {
	if limit <= 0 {
		limit = 1
	}
	return PaginatedResponse[T]{
		Data: data,
		Meta: PaginationMeta{
			TotalItems:  totalItems,
			TotalPages:  (int(totalItems) + limit - 1) / limit,
			CurrentPage: page,
			PageSize:    limit,
		},
	}
}

func newPostResponse(item service.FeedItem, authors map[uint]models.User) PostResponse {
	resp := PostResponse{
		ID:         item.Post.ID,
		AuthorID:   item.Post.AuthorID,
		Content:    item.Post.Content,
		ImageURL:   item.Post.ImageURL,
		Visibility: item.Post.Visibility,
		CreatedAt:  item.Post.CreatedAt,
		Relation:   item.Relation,
	}
	if author, ok := authors[item.Post.AuthorID]; ok {
		resp.AuthorUsername = author.Username
	}
	return resp
}
