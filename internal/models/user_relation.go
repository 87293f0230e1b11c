package models

import "time"

// RelationType is the category of a relationship edge.
type RelationType string

const (
	// RelationFollow is a one-way subscription. A single directed edge
	// from_user -> to_user means "from_user follows to_user"; no reverse
	// edge is implied.
	RelationFollow RelationType = "follow"

	// RelationFriend is bidirectional. A confirmed friendship is stored as
	// two accepted edges (A->B and B->A); a friend request is a single
	// pending edge from requester to recipient.
	RelationFriend RelationType = "friend"
)

// Valid reports whether t is a known relationship type.
func (t RelationType) Valid() bool {
	return t == RelationFollow || t == RelationFriend
}

// FriendshipStatus defines the lifecycle state of a relationship edge.
type FriendshipStatus string

const (
	// StatusPending means a request has been sent but not yet accepted.
	StatusPending FriendshipStatus = "pending"

	// StatusAccepted means the request was accepted. Rejection is never
	// persisted; rejecting deletes the edge.
	StatusAccepted FriendshipStatus = "accepted"
)

// UserRelation is one directed relationship edge between two users.
// The primary key is the composite (FromUserID, ToUserID, Kind), which is
// the uniqueness guarantee every idempotent create relies on.
type UserRelation struct {
	FromUserID uint             `gorm:"primaryKey"`
	ToUserID   uint             `gorm:"primaryKey"`
	Kind       RelationType     `gorm:"primaryKey;type:varchar(20)"`
	Status     FriendshipStatus `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	FromUser User `gorm:"foreignKey:FromUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToUser   User `gorm:"foreignKey:ToUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
