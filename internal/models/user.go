package models

import "gorm.io/gorm"

// User represents a user in the system. Account lifecycle (verification,
// password reset, avatar upload) is owned by the auth/profile layer; the
// relationship and feed code only reads the id and display fields.
type User struct {
	gorm.Model
	Username     string `gorm:"size:50;unique;not null"`
	Email        string `gorm:"size:100;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	FirstName    string `gorm:"size:50"`
	LastName     string `gorm:"size:50"`
	Bio          string `gorm:"type:text"`
	AvatarURL    string `gorm:"size:255"`
	Verified     bool   `gorm:"not null;default:false"`
}
