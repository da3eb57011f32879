package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/griev-ease/api-go/controllers"
)

func SetupUploadRoutes(protected *gin.RouterGroup, uploadController *controllers.UploadController) {
	uploads := protected.Group("/uploads")
	{
		uploads.POST("/presign", uploadController.GetPresignedURL)
		uploads.POST("/confirm", uploadController.ConfirmUpload)
	}
}
