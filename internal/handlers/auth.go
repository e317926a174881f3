package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
	"github.com/siyaha-app/siyaha-backend/pkg/utils"
)

type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phoneNumber"`
	UserType    string `json:"userType" binding:"required,oneof=traveler provider"`
	Language    string `json:"language"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user := models.User{
			Username:    req.Username,
			Email:       req.Email,
			Password:    req.Password,
			PhoneNumber: req.PhoneNumber,
			UserType:    models.UserType(req.UserType),
			Language:    req.Language,
		}
		if err := user.HashPassword(); err != nil {
			c.JSON(500, gin.H{"error": "Failed to process password"})
			return
		}

		if err := users.Create(c.Request.Context(), &user); err != nil {
			respondError(c, err)
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		go func() {
			if err := utils.SendWelcomeEmail(&user); err != nil {
				log.Printf("welcome email to %s failed: %v", user.Email, err)
			}
		}()

		c.JSON(201, gin.H{"token": token, "user": user})
	}
}

func Login(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), req.Email)
		if err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}
		if err := user.CheckPassword(req.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}
		if user.IsSuspended {
			c.JSON(403, gin.H{"error": "Account suspended"})
			return
		}

		token, err := utils.GenerateToken(user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{"token": token, "user": user})
	}
}
