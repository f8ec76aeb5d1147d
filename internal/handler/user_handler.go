package handler

import (
	"errors"
	"net/http"
	"strconv"

	"chirp/backend/internal/database"
	"chirp/backend/internal/models"
	"chirp/backend/internal/relations"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// region --- DTOs ---

// UserRef is the minimal projection of a user referenced from another record.
type UserRef struct {
	ID         uint   `json:"id" example:"1"`
	Username   string `json:"username" example:"jane"`
	FullName   string `json:"fullName" example:"Jane Doe"`
	ProfileImg string `json:"profileImg"`
}

// PublicUserResponse defines the structure for a user's public profile.
// Credential fields are never part of it.
type PublicUserResponse struct {
	ID         uint      `json:"id" example:"1"`
	Username   string    `json:"username" example:"jane"`
	FullName   string    `json:"fullName" example:"Jane Doe"`
	Bio        string    `json:"bio"`
	Link       string    `json:"link"`
	ProfileImg string    `json:"profileImg"`
	CoverImg   string    `json:"coverImg"`
	Followers  []UserRef `json:"followers"`
	Following  []UserRef `json:"following"`
}

// UpdateProfileInput defines the structure for profile updates. Empty fields
// are left unchanged.
type UpdateProfileInput struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Bio             string `json:"bio"`
	Link            string `json:"link"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// endregion

// region --- User Handlers ---

// GetProfile godoc
// @Summary      Get a user profile
// @Description  Retrieves the public profile for a user by username.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200  {object}  PublicUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/profile/{username} [get]
func GetProfile(c *gin.Context) {
	user, err := relations.GetProfile(database.DB, c.Param("username"))
	if err != nil {
		if errors.Is(err, relations.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, buildPublicUserResponse(*user))
}

// GetSuggestedUsers godoc
// @Summary      Get suggested users
// @Description  Returns a few random users the caller does not follow yet.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max users to return" default(4)
// @Success      200  {array}   PublicUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/suggested [get]
func GetSuggestedUsers(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "4"))
	if err != nil || limit < 1 {
		limit = 4
	}

	users, err := relations.SuggestedUsers(database.DB, viewerID.(uint), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suggested users"})
		return
	}

	c.JSON(http.StatusOK, buildPublicUserResponses(users))
}

// GetFollowPage godoc
// @Summary      List all users for the follow page
// @Description  Returns every user except the caller, with follower data.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   PublicUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/followPage [get]
func GetFollowPage(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	users, err := relations.AllUsers(database.DB, viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, buildPublicUserResponses(users))
}

// SearchUsers godoc
// @Summary      Search for users
// @Description  Case-insensitive substring search over username and full name. An empty query returns an empty list.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        query  query     string  false  "Search query"
// @Success      200  {array}   PublicUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/search [get]
func SearchUsers(c *gin.Context) {
	users, err := relations.SearchUsers(database.DB, c.Query("query"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	c.JSON(http.StatusOK, buildPublicUserResponses(users))
}

// UpdateProfile godoc
// @Summary      Update profile
// @Description  Updates the caller's profile fields; changing the password requires the current one.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateProfileInput true "Profile fields"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/update [post]
func UpdateProfile(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if (input.CurrentPassword == "") != (input.NewPassword == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide both current and new password"})
		return
	}
	if input.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
			return
		}
		if len(input.NewPassword) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.PasswordHash = string(hashed)
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Link != "" {
		user.Link = input.Link
	}

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(user))
}

// endregion

// region --- Helpers ---

func buildUserRefs(users []*models.User) []UserRef {
	refs := make([]UserRef, 0, len(users))
	for _, u := range users {
		refs = append(refs, UserRef{
			ID:         u.ID,
			Username:   u.Username,
			FullName:   u.FullName,
			ProfileImg: u.ProfileImg,
		})
	}
	return refs
}

func buildPublicUserResponse(user models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:         user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		Bio:        user.Bio,
		Link:       user.Link,
		ProfileImg: user.ProfileImg,
		CoverImg:   user.CoverImg,
		Followers:  buildUserRefs(user.Followers),
		Following:  buildUserRefs(user.Following),
	}
}

func buildPublicUserResponses(users []models.User) []PublicUserResponse {
	responses := make([]PublicUserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, buildPublicUserResponse(u))
	}
	return responses
}

// endregion
