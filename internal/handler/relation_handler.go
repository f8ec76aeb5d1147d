package handler

import (
	"errors"
	"net/http"
	"strconv"

	"chirp/backend/internal/database"
	"chirp/backend/internal/models"
	"chirp/backend/internal/notifications"
	"chirp/backend/internal/relations"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ToggleFollow godoc
// @Summary      Follow or unfollow a user
// @Description  Toggles the follow edge from the caller to the target user. Following produces a notification for the target.
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"action": "followed"}"
// @Failure      400  {object}  ErrorResponse "Self-follow or invalid ID"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/follow/{id} [post]
func ToggleFollow(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	followed, err := relations.ToggleFollow(database.DB, viewerID.(uint), uint(targetID))
	if err != nil {
		switch {
		case errors.Is(err, relations.ErrSelfFollow):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You can't follow yourself"})
		case errors.Is(err, relations.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update follow state"})
		}
		return
	}

	if !followed {
		c.JSON(http.StatusOK, gin.H{"action": "unfollowed"})
		return
	}

	// Fire-and-forget: the edge change stands even if the notification write
	// fails.
	if err := notifications.Notify(database.DB, viewerID.(uint), uint(targetID), models.NotificationFollow); err != nil {
		log.Error().Err(err).
			Uint("from", viewerID.(uint)).
			Uint64("to", targetID).
			Msg("failed to record follow notification")
	}

	c.JSON(http.StatusOK, gin.H{"action": "followed"})
}

// GetFollowFollowing godoc
// @Summary      List a user's followers or following
// @Description  Returns the full set of users on one side of a user's follow edges.
// @Tags         relations
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Param        kind      path      string  true  "followers or following"
// @Success      200  {array}   UserRef
// @Failure      400  {object}  ErrorResponse "Unknown kind"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Unknown username"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/followFollowing/{username}/{kind} [get]
func GetFollowFollowing(c *gin.Context) {
	users, err := relations.ListRelationship(database.DB, c.Param("username"), c.Param("kind"))
	if err != nil {
		switch {
		case errors.Is(err, relations.ErrInvalidKind):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Kind must be followers or following"})
		case errors.Is(err, relations.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		}
		return
	}

	c.JSON(http.StatusOK, buildUserRefs(users))
}
