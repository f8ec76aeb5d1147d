package relations

import (
	"testing"

	"chirp/backend/internal/database"
	"chirp/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would get its own empty :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		FullName:     "User " + username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func followingIDs(t *testing.T, db *gorm.DB, userID uint) []uint {
	t.Helper()
	var user models.User
	require.NoError(t, db.Preload("Following").First(&user, userID).Error)
	ids := []uint{}
	for _, u := range user.Following {
		ids = append(ids, u.ID)
	}
	return ids
}

func followerIDs(t *testing.T, db *gorm.DB, userID uint) []uint {
	t.Helper()
	var user models.User
	require.NoError(t, db.Preload("Followers").First(&user, userID).Error)
	ids := []uint{}
	for _, u := range user.Followers {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestToggleFollow(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	followed, err := ToggleFollow(db, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, followed)

	// Both sides of the edge must agree.
	assert.Equal(t, []uint{bob.ID}, followingIDs(t, db, alice.ID))
	assert.Equal(t, []uint{alice.ID}, followerIDs(t, db, bob.ID))
	assert.Empty(t, followerIDs(t, db, alice.ID))
	assert.Empty(t, followingIDs(t, db, bob.ID))

	// Second toggle undoes the first.
	followed, err = ToggleFollow(db, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, followed)

	assert.Empty(t, followingIDs(t, db, alice.ID))
	assert.Empty(t, followerIDs(t, db, bob.ID))
}

func TestToggleFollowSelf(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")

	_, err := ToggleFollow(db, alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestToggleFollowUnknownTarget(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")

	_, err := ToggleFollow(db, alice.ID, alice.ID+100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSuggestedUsers(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	dave := seedUser(t, db, "dave")

	_, err := ToggleFollow(db, alice.ID, bob.ID)
	require.NoError(t, err)

	users, err := SuggestedUsers(db, alice.ID, 10)
	require.NoError(t, err)

	ids := []uint{}
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []uint{carol.ID, dave.ID}, ids)

	users, err = SuggestedUsers(db, alice.ID, 1)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestListRelationship(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := ToggleFollow(db, bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = ToggleFollow(db, carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = ToggleFollow(db, alice.ID, bob.ID)
	require.NoError(t, err)

	followers, err := ListRelationship(db, "alice", "followers")
	require.NoError(t, err)
	ids := []uint{}
	for _, u := range followers {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []uint{bob.ID, carol.ID}, ids)

	following, err := ListRelationship(db, "alice", "following")
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].ID)
}

func TestListRelationshipNoFollowers(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")

	followers, err := ListRelationship(db, "alice", "followers")
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestListRelationshipErrors(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")

	_, err := ListRelationship(db, "nobody", "followers")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = ListRelationship(db, "alice", "friends")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestSearchUsers(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	seedUser(t, db, "bob")

	users, err := SearchUsers(db, "ALI")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, alice.ID, users[0].ID)

	// Full name matches too.
	users, err = SearchUsers(db, "user b")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)

	users, err = SearchUsers(db, "zzz")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestSearchUsersEmptyQuery(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice")

	users, err := SearchUsers(db, "")
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	users, err = SearchUsers(db, "   ")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGetProfile(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := ToggleFollow(db, bob.ID, alice.ID)
	require.NoError(t, err)

	profile, err := GetProfile(db, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, profile.ID)
	require.Len(t, profile.Followers, 1)
	assert.Equal(t, bob.ID, profile.Followers[0].ID)

	_, err = GetProfile(db, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAllUsersExcludesActor(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	users, err := AllUsers(db, alice.ID)
	require.NoError(t, err)

	ids := []uint{}
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []uint{bob.ID, carol.ID}, ids)
}
