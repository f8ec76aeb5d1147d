package models

import "gorm.io/gorm"

// User represents a user in the system.
type User struct {
	gorm.Model
	Username     string `gorm:"size:255;uniqueIndex;not null"`
	FullName     string `gorm:"size:255;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Bio          string
	Link         string `gorm:"size:512"`
	ProfileImg   string `gorm:"size:512"`
	CoverImg     string `gorm:"size:512"`

	// Both associations read the same follows table, so the two sides of a
	// follow edge can never disagree.
	Followers []*User `gorm:"many2many:follows;joinForeignKey:FolloweeID;joinReferences:FollowerID"`
	Following []*User `gorm:"many2many:follows;joinForeignKey:FollowerID;joinReferences:FolloweeID"`
}
