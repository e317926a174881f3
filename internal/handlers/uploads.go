package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/services"
)

// uploadTo receives a multipart file under field and stores it in the given
// storage folder, responding with the public URL.
func uploadTo(c *gin.Context, folder, field string) {
	file, err := c.FormFile(field)
	if err != nil {
		c.JSON(400, gin.H{"error": "File is required"})
		return
	}
	url, err := services.UploadImage(file, folder)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to upload file"})
		return
	}
	c.JSON(200, gin.H{"url": url})
}
