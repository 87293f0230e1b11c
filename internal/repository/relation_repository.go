package repository

import (
	"errors"

	"lookbook/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationStats holds aggregate edge counts for one user's profile.
type RelationStats struct {
	Friends   int64
	Followers int64
	Following int64
}

// RelationRepository is pure persistence for relationship edges. It enforces
// no business rules beyond the uniqueness of (from, to, kind); the lifecycle
// rules live in the service layer.
type RelationRepository interface {
	// Create inserts the edge and reports whether a row was actually
	// created. A duplicate (from, to, kind) is not an error: the insert is
	// dropped and Create returns false.
	Create(rel *models.UserRelation) (bool, error)

	// Get fetches the exact edge, or nil if it does not exist.
	Get(from, to uint, kind models.RelationType) (*models.UserRelation, error)

	// BetweenPair fetches every edge in either direction between a and b.
	BetweenPair(a, b uint) ([]models.UserRelation, error)

	// Touching fetches every edge where userID is either endpoint.
	Touching(userID uint) ([]models.UserRelation, error)

	// ListDirected fetches edges by one endpoint, filtered by kind and
	// status when those are non-zero.
	ListDirected(userID uint, incoming bool, kind models.RelationType, status models.FriendshipStatus) ([]models.UserRelation, error)

	// SetStatus updates the status of the exact edge.
	SetStatus(from, to uint, kind models.RelationType, status models.FriendshipStatus) error

	// Delete removes the exact edge and reports whether a row existed.
	Delete(from, to uint, kind models.RelationType) (bool, error)

	// Stats counts accepted friend, follower and following edges for a user.
	Stats(userID uint) (RelationStats, error)

	// Atomically runs fn inside a single transaction. Every repository call
	// made through the argument sees and writes one consistent snapshot;
	// if fn returns an error the whole transaction rolls back.
	Atomically(fn func(RelationRepository) error) error
}

type relationRepository struct {
	db *gorm.DB
}

// NewRelationRepository returns a RelationRepository backed by gorm.
func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) Create(rel *models.UserRelation) (bool, error) {
	// OnConflict DoNothing makes the composite primary key the
	// serialization point for concurrent requests on the same pair.
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(rel)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *relationRepository) Get(from, to uint, kind models.RelationType) (*models.UserRelation, error) {
	var rel models.UserRelation
	err := r.db.Where("from_user_id = ? AND to_user_id = ? AND kind = ?", from, to, kind).First(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *relationRepository) BetweenPair(a, b uint) ([]models.UserRelation, error) {
	var rels []models.UserRelation
	err := r.db.
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a).
		Find(&rels).Error
	return rels, err
}

func (r *relationRepository) Touching(userID uint) ([]models.UserRelation, error) {
	var rels []models.UserRelation
	err := r.db.
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Find(&rels).Error
	return rels, err
}

func (r *relationRepository) ListDirected(userID uint, incoming bool, kind models.RelationType, status models.FriendshipStatus) ([]models.UserRelation, error) {
	query := r.db
	if incoming {
		query = query.Where("to_user_id = ?", userID).Preload("FromUser")
	} else {
		query = query.Where("from_user_id = ?", userID).Preload("ToUser")
	}
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var rels []models.UserRelation
	err := query.Find(&rels).Error
	return rels, err
}

func (r *relationRepository) SetStatus(from, to uint, kind models.RelationType, status models.FriendshipStatus) error {
	return r.db.Model(&models.UserRelation{}).
		Where("from_user_id = ? AND to_user_id = ? AND kind = ?", from, to, kind).
		Update("status", status).Error
}

func (r *relationRepository) Delete(from, to uint, kind models.RelationType) (bool, error) {
	res := r.db.
		Where("from_user_id = ? AND to_user_id = ? AND kind = ?", from, to, kind).
		Delete(&models.UserRelation{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *relationRepository) Stats(userID uint) (RelationStats, error) {
	var stats RelationStats
	model := func() *gorm.DB { return r.db.Model(&models.UserRelation{}) }

	if err := model().
		Where("from_user_id = ? AND kind = ? AND status = ?", userID, models.RelationFriend, models.StatusAccepted).
		Count(&stats.Friends).Error; err != nil {
		return stats, err
	}
	if err := model().
		Where("to_user_id = ? AND kind = ? AND status = ?", userID, models.RelationFollow, models.StatusAccepted).
		Count(&stats.Followers).Error; err != nil {
		return stats, err
	}
	err := model().
		Where("from_user_id = ? AND kind = ? AND status = ?", userID, models.RelationFollow, models.StatusAccepted).
		Count(&stats.Following).Error
	return stats, err
}

func (r *relationRepository) Atomically(fn func(RelationRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&relationRepository{db: tx})
	})
}
