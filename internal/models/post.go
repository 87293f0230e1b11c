package models

import "gorm.io/gorm"

// Visibility is the per-post access tier controlling which relationship
// kinds may see the post.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityFollowers Visibility = "followers"
	VisibilityFriends   Visibility = "friends"
	VisibilityPrivate   Visibility = "private"
)

// Valid reports whether v is a known visibility tier.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityFollowers, VisibilityFriends, VisibilityPrivate:
		return true
	}
	return false
}

// Post represents a publication. The feed composer only filters and orders
// posts; it never mutates them.
type Post struct {
	gorm.Model
	AuthorID   uint       `gorm:"not null;index"`
	Content    string     `gorm:"type:text;not null"`
	ImageURL   string     `gorm:"size:255"`
	Visibility Visibility `gorm:"type:varchar(20);not null;default:'public'"`

	Author User `gorm:"foreignKey:AuthorID"`
}
