package models

import "time"

// NotificationKind is the category of event a notification was produced by.
// All kinds share the same record shape.
type NotificationKind string

const (
	NotificationFollow  NotificationKind = "follow"
	NotificationLike    NotificationKind = "like"
	NotificationComment NotificationKind = "comment"
)

// Notification is a single inbox entry addressed to a user. Records are
// append-only: they are only ever mutated by the bulk mark-read operation and
// only removed by the recipient.
type Notification struct {
	ID        uint             `gorm:"primaryKey"`
	FromID    uint             `gorm:"index;not null"`
	ToID      uint             `gorm:"index;not null"`
	Kind      NotificationKind `gorm:"size:20;not null"`
	Read      bool             `gorm:"not null;default:false"`
	CreatedAt time.Time

	From User `gorm:"foreignKey:FromID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	To   User `gorm:"foreignKey:ToID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
