package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"chirp/backend/internal/database"
	"chirp/backend/internal/models"
	"chirp/backend/internal/notifications"

	"github.com/gin-gonic/gin"
)

// NotificationResponse defines the structure for a single inbox entry.
type NotificationResponse struct {
	ID        uint                    `json:"id" example:"1"`
	From      UserRef                 `json:"from"`
	Kind      models.NotificationKind `json:"kind" example:"follow"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"createdAt"`
}

// GetNotifications godoc
// @Summary      List notifications
// @Description  Returns the caller's inbox newest-first and marks the whole inbox read. Returned records show their read state before the call.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   NotificationResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /notifications [get]
func GetNotifications(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	items, err := notifications.ListAndMarkRead(database.DB, viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	responses := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		responses = append(responses, NotificationResponse{
			ID: n.ID,
			From: UserRef{
				ID:         n.From.ID,
				Username:   n.From.Username,
				FullName:   n.From.FullName,
				ProfileImg: n.From.ProfileImg,
			},
			Kind:      n.Kind,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, responses)
}

// DeleteNotifications godoc
// @Summary      Delete all notifications
// @Description  Deletes every notification addressed to the caller.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string "{"message": "Notifications deleted successfully"}"
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /notifications [delete]
func DeleteNotifications(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	if err := notifications.Purge(database.DB, viewerID.(uint)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notifications deleted successfully"})
}

// DeleteNotification godoc
// @Summary      Delete one notification
// @Description  Deletes a single notification. Only its recipient may delete it.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  map[string]string "{"message": "Notification deleted successfully"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Not the recipient"
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /notifications/{id} [delete]
func DeleteNotification(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	err = notifications.Delete(database.DB, viewerID.(uint), uint(notificationID))
	if err != nil {
		switch {
		case errors.Is(err, notifications.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		case errors.Is(err, notifications.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can't delete this notification"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}
