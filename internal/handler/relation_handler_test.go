package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"chirp/backend/internal/database"
	"chirp/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db
}

func seedUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		FullName:     "User " + username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

// newTestRouter wires the protected routes with a stub auth middleware that
// trusts the X-Test-User header, so handler behavior can be exercised without
// minting tokens.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	identify := func(c *gin.Context) {
		var id uint
		fmt.Sscanf(c.GetHeader("X-Test-User"), "%d", &id)
		c.Set("userID", id)
		c.Next()
	}

	users := router.Group("/api/users", identify)
	{
		users.POST("/follow/:id", ToggleFollow)
		users.GET("/followFollowing/:username/:kind", GetFollowFollowing)
		users.GET("/search", SearchUsers)
	}

	notifs := router.Group("/api/notifications", identify)
	{
		notifs.GET("", GetNotifications)
		notifs.DELETE("", DeleteNotifications)
	}

	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, asUser uint) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Test-User", fmt.Sprintf("%d", asUser))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFollowProducesNotification(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")

	w := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", bob.ID), alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "followed", body["action"])

	// Exactly one unread follow notification for bob.
	var notifs []models.Notification
	require.NoError(t, database.DB.Where("to_id = ?", bob.ID).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, alice.ID, notifs[0].FromID)
	assert.Equal(t, models.NotificationFollow, notifs[0].Kind)
	assert.False(t, notifs[0].Read)

	// Bob reads his inbox: the record arrives still flagged unread.
	w = doRequest(t, router, http.MethodGet, "/api/notifications", bob.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var inbox []NotificationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inbox))
	require.Len(t, inbox, 1)
	assert.Equal(t, "alice", inbox[0].From.Username)
	assert.False(t, inbox[0].Read)

	// A direct fetch afterwards shows it marked read.
	var n models.Notification
	require.NoError(t, database.DB.First(&n, inbox[0].ID).Error)
	assert.True(t, n.Read)
}

func TestToggleFollowResponses(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")

	w := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", bob.ID), alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", bob.ID), alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unfollowed", body["action"])

	// Unfollowing does not remove the original notification.
	var count int64
	require.NoError(t, database.DB.Model(&models.Notification{}).Where("to_id = ?", bob.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", alice.ID), alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", bob.ID+100), alice.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/users/follow/abc", alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowFollowingEndpoint(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")

	w := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", alice.ID), bob.ID)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/users/followFollowing/alice/followers", bob.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var refs []UserRef
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refs))
	require.Len(t, refs, 1)
	assert.Equal(t, "bob", refs[0].Username)

	// Zero followers is an empty array, not an error.
	w = doRequest(t, router, http.MethodGet, "/api/users/followFollowing/bob/followers", alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refs))
	assert.Empty(t, refs)

	w = doRequest(t, router, http.MethodGet, "/api/users/followFollowing/nobody/followers", alice.ID)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/users/followFollowing/alice/friends", bob.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchUsersEndpoint(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	alice := seedUser(t, "alice")

	w := doRequest(t, router, http.MethodGet, "/api/users/search?query=ALI", alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var users []PublicUserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)

	w = doRequest(t, router, http.MethodGet, "/api/users/search?query=", alice.ID)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Empty(t, users)
}

func TestPurgeEndpoint(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()
	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")

	w := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", bob.ID), alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodDelete, "/api/notifications", bob.ID)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/notifications", bob.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var inbox []NotificationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inbox))
	assert.Empty(t, inbox)
}
