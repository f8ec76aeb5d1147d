// Package notifications is the append-only ledger of inbox records. Records
// are mutated only by the recipient-scoped bulk operations and the restored
// single delete.
package notifications

import (
	"errors"

	"chirp/backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the notification does not exist.
	ErrNotFound = errors.New("notification not found")
	// ErrNotOwner means the caller is not the notification's recipient.
	ErrNotOwner = errors.New("notification does not belong to caller")
)

// Notify appends an unread notification. Repeated identical events produce
// repeated records; the ledger never deduplicates.
func Notify(db *gorm.DB, fromID, toID uint, kind models.NotificationKind) error {
	n := models.Notification{
		FromID: fromID,
		ToID:   toID,
		Kind:   kind,
	}
	return db.Create(&n).Error
}

// ListAndMarkRead returns the recipient's whole inbox newest-first, each
// record carrying its pre-mutation read flag and the sender preloaded, then
// marks the whole inbox read. A record created between the fetch and the mark
// may or may not be marked; that window is accepted.
func ListAndMarkRead(db *gorm.DB, userID uint) ([]models.Notification, error) {
	items := []models.Notification{}
	err := db.Preload("From").
		Where("to_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Notification{}).
		Where("to_id = ?", userID).
		Update("read", true).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Purge deletes every notification addressed to the recipient.
func Purge(db *gorm.DB, userID uint) error {
	return db.Where("to_id = ?", userID).Delete(&models.Notification{}).Error
}

// Delete removes a single notification. Only the recipient may delete it.
func Delete(db *gorm.DB, userID, notificationID uint) error {
	var n models.Notification
	if err := db.First(&n, notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if n.ToID != userID {
		return ErrNotOwner
	}

	return db.Delete(&n).Error
}
