package repository

import (
	"errors"

	"lookbook/backend/internal/models"

	"gorm.io/gorm"
)

// PostRepository is read/write persistence for posts. The feed composer
// treats it as a candidate source: it fetches by author set and applies
// visibility rules itself rather than pushing them into the query.
type PostRepository interface {
	Create(post *models.Post) error

	// GetByID fetches a post, or nil if it does not exist.
	GetByID(id uint) (*models.Post, error)

	Delete(id uint) error

	// ListByAuthors fetches every post authored by any of the given users,
	// newest first.
	ListByAuthors(authorIDs []uint) ([]models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a PostRepository backed by gorm.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

func (r *postRepository) ListByAuthors(authorIDs []uint) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var posts []models.Post
	err := r.db.
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}
