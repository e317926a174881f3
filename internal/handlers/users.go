package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
	"github.com/siyaha-app/siyaha-backend/internal/services"
)

func GetProfile(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.FindByID(c.Request.Context(), c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"user": user})
	}
}

func UpdateProfile(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username    *string `json:"username"`
			PhoneNumber *string `json:"phoneNumber"`
			Bio         *string `json:"bio"`
			Language    *string `json:"language"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user, err := users.FindByID(c.Request.Context(), c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		if req.Username != nil {
			user.Username = *req.Username
		}
		if req.PhoneNumber != nil {
			user.PhoneNumber = *req.PhoneNumber
		}
		if req.Bio != nil {
			user.Bio = *req.Bio
		}
		if req.Language != nil {
			user.Language = *req.Language
		}
		if err := users.Update(c.Request.Context(), user); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"user": user})
	}
}

func UploadAvatar(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("avatar")
		if err != nil {
			c.JSON(400, gin.H{"error": "Avatar file is required"})
			return
		}

		url, err := services.UploadImage(file, "avatars")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload avatar"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		old := user.AvatarURL
		user.AvatarURL = url
		if err := users.Update(c.Request.Context(), user); err != nil {
			respondError(c, err)
			return
		}
		if old != "" {
			if err := services.DeleteImage(old); err != nil {
				log.Printf("failed to delete old avatar %s: %v", old, err)
			}
		}
		c.JSON(200, gin.H{"avatarUrl": url})
	}
}

func GetPreferences(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		prefs, err := users.GetPreferences(c.Request.Context(), c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		if prefs == nil {
			prefs = &models.TravelerPreferences{UserID: c.GetUint("userId"), GroupSize: 1}
		}
		c.JSON(200, gin.H{"preferences": prefs})
	}
}

// UpdatePreferences saves the traveler's ranking preferences and drops the
// cached recommendation feed so the next fetch reflects them.
func UpdatePreferences(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PreferredCategory string  `json:"preferredCategory"`
			PreferredRegion   string  `json:"preferredRegion"`
			MaxBudget         float64 `json:"maxBudget"`
			GroupSize         int     `json:"groupSize"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		userID := c.GetUint("userId")
		prefs, err := users.GetPreferences(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		if prefs == nil {
			prefs = &models.TravelerPreferences{UserID: userID}
		}
		prefs.PreferredCategory = req.PreferredCategory
		prefs.PreferredRegion = req.PreferredRegion
		prefs.MaxBudget = req.MaxBudget
		prefs.GroupSize = req.GroupSize
		if prefs.GroupSize < 1 {
			prefs.GroupSize = 1
		}

		if err := users.SavePreferences(c.Request.Context(), prefs); err != nil {
			respondError(c, err)
			return
		}
		if err := services.InvalidateRankedFeed(c.Request.Context(), userID); err != nil {
			log.Printf("failed to invalidate ranked feed for user %d: %v", userID, err)
		}
		c.JSON(200, gin.H{"preferences": prefs})
	}
}

func SuspendUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Suspended bool `json:"suspended"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := users.SetSuspended(c.Request.Context(), id, req.Suspended); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "User updated"})
	}
}
