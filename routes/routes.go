package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/griev-ease/api-go/controllers"
	"github.com/griev-ease/api-go/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize controllers
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	grievanceController := controllers.NewGrievanceController(db)
	interactionController := controllers.NewInteractionController(db)
	statsController := controllers.NewStatsController(db)
	uploadController := controllers.NewUploadController()

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)
		public.POST("/auth/google", authController.GoogleLogin)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(db))
	{
		protected.POST("/auth/logout", authController.Logout)
		protected.PUT("/auth/change-password", authController.ChangePassword)
		protected.GET("/auth/me", authController.GetCurrentUser)

		SetupUserRoutes(protected, userController)
		SetupGrievanceRoutes(protected, grievanceController, interactionController, statsController)
		SetupUploadRoutes(protected, uploadController)
	}
}
