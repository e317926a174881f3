package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

func AddFavorite(favorites *service.FavoriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ExperienceID      uint `json:"experienceId" binding:"required"`
			NotifyOnPriceDrop bool `json:"notifyOnPriceDrop"`
			NotifyOnNewDates  bool `json:"notifyOnNewDates"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		favorite, err := favorites.Add(c.Request.Context(), service.AddFavoriteCommand{
			UserID:            c.GetUint("userId"),
			ExperienceID:      req.ExperienceID,
			NotifyOnPriceDrop: req.NotifyOnPriceDrop,
			NotifyOnNewDates:  req.NotifyOnNewDates,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, gin.H{"favorite": favorite})
	}
}

func RemoveFavorite(favorites *service.FavoriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "experienceId")
		if !ok {
			return
		}
		if err := favorites.Remove(c.Request.Context(), c.GetUint("userId"), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Favorite removed"})
	}
}

func GetFavorites(favorites *service.FavoriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := favorites.List(c.Request.Context(), c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"favorites": items})
	}
}

func UpdateFavoriteAlerts(favorites *service.FavoriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "experienceId")
		if !ok {
			return
		}
		var req struct {
			NotifyOnPriceDrop bool `json:"notifyOnPriceDrop"`
			NotifyOnNewDates  bool `json:"notifyOnNewDates"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		favorite, err := favorites.UpdateAlerts(c.Request.Context(), c.GetUint("userId"), id, req.NotifyOnPriceDrop, req.NotifyOnNewDates)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"favorite": favorite})
	}
}
