package repository

import (
	"errors"

	"lookbook/backend/internal/models"

	"gorm.io/gorm"
)

// UserRepository is read access to the user store plus the create needed by
// registration. User lifecycle is otherwise owned externally, so a missing
// user is never an error here: lookups return nil.
type UserRepository interface {
	Create(user *models.User) error

	// GetByID fetches a user, or nil if the id no longer resolves.
	GetByID(id uint) (*models.User, error)

	// GetByLogin fetches a user by username or email, or nil.
	GetByLogin(login string) (*models.User, error)

	// ExistingIDs reports which of the given ids currently resolve to a
	// user. Used to filter orphaned relationship edges.
	ExistingIDs(ids []uint) (map[uint]bool, error)

	// ListByIDs fetches the users that still resolve among the given ids.
	ListByIDs(ids []uint) ([]models.User, error)

	// Search returns a page of users matching the username query, plus the
	// total match count.
	Search(query string, page, limit int) ([]models.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a UserRepository backed by gorm.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByLogin(login string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ? OR email = ?", login, login).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistingIDs(ids []uint) (map[uint]bool, error) {
	existing := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	var found []uint
	if err := r.db.Model(&models.User{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

func (r *userRepository) ListByIDs(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) Search(query string, page, limit int) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if query != "" {
		q = q.Where("username ILIKE ?", "%"+query+"%")
	}

	var totalItems int64
	if err := q.Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	offset := (page - 1) * limit
	if err := q.Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, totalItems, nil
}
