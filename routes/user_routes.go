package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/griev-ease/api-go/controllers"
)

func SetupUserRoutes(protected *gin.RouterGroup, userController *controllers.UserController) {
	user := protected.Group("/user")
	{
		user.GET("/profile", userController.GetProfile)
		user.PUT("/profile", userController.UpdateProfile)
		user.PUT("/deactivate", userController.DeactivateAccount)
		user.PUT("/reactivate", userController.ReactivateAccount)
	}
}
