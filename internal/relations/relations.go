// Package relations owns the follow edges between users. It is the only code
// that mutates the follows table.
package relations

import (
	"errors"
	"fmt"
	"strings"

	"chirp/backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrUserNotFound means a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrSelfFollow means a user tried to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrInvalidKind means a relationship listing asked for something other
	// than followers or following.
	ErrInvalidKind = errors.New("invalid relationship kind")
)

// ToggleFollow flips the follow edge from actor to target. It returns true
// when the call created the edge (followed) and false when it removed an
// existing one (unfollowed). Creating the follow notification is the caller's
// business: a notification failure must never undo the edge change.
func ToggleFollow(db *gorm.DB, actorID, targetID uint) (bool, error) {
	if actorID == targetID {
		return false, ErrSelfFollow
	}

	var target models.User
	if err := db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: id %d", ErrUserNotFound, targetID)
		}
		return false, err
	}

	var edge models.Follow
	err := db.Where("follower_id = ? AND followee_id = ?", actorID, targetID).First(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		edge = models.Follow{FollowerID: actorID, FolloweeID: targetID}
		if err := db.Create(&edge).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if err := db.Where("follower_id = ? AND followee_id = ?", actorID, targetID).Delete(&models.Follow{}).Error; err != nil {
		return false, err
	}
	return false, nil
}

// SuggestedUsers returns up to limit users the actor does not already follow,
// picked at random, never including the actor.
func SuggestedUsers(db *gorm.DB, actorID uint, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 4
	}

	followed := db.Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", actorID)

	var users []models.User
	err := db.
		Where("id <> ?", actorID).
		Where("id NOT IN (?)", followed).
		Order("RANDOM()").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListRelationship resolves username and returns the full set of users on one
// side of its follow edges. kind is "followers" or "following".
func ListRelationship(db *gorm.DB, username, kind string) ([]*models.User, error) {
	var assoc string
	switch kind {
	case "followers":
		assoc = "Followers"
	case "following":
		assoc = "Following"
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	var user models.User
	err := db.Preload(assoc).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return nil, err
	}

	if kind == "followers" {
		return user.Followers, nil
	}
	return user.Following, nil
}

// SearchUsers matches the query as a case-insensitive substring of username or
// full name. An empty query returns an empty result without touching the
// database.
func SearchUsers(db *gorm.DB, query string) ([]models.User, error) {
	users := []models.User{}
	if strings.TrimSpace(query) == "" {
		return users, nil
	}

	pattern := "%" + strings.ToLower(query) + "%"
	err := db.
		Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ?", pattern, pattern).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetProfile returns one user by username with both follow associations
// loaded.
func GetProfile(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	err := db.Preload("Followers").Preload("Following").
		Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return nil, err
	}
	return &user, nil
}

// AllUsers returns every user except the actor, with follow associations
// loaded, for the follow page.
func AllUsers(db *gorm.DB, actorID uint) ([]models.User, error) {
	var users []models.User
	err := db.Preload("Followers").Preload("Following").
		Where("id <> ?", actorID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
