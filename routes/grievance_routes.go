package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/griev-ease/api-go/controllers"
)

func SetupGrievanceRoutes(
	protected *gin.RouterGroup,
	grievanceController *controllers.GrievanceController,
	interactionController *controllers.InteractionController,
	statsController *controllers.StatsController,
) {
	grievances := protected.Group("/grievances")
	{
		grievances.POST("", grievanceController.CreateGrievance)
		grievances.GET("", grievanceController.GetAllGrievances)

		// Fixed paths before the :id wildcard
		grievances.GET("/my-grievances", grievanceController.GetMyGrievances)
		grievances.GET("/search", grievanceController.SearchGrievances)
		grievances.GET("/solved", grievanceController.GetSolvedGrievances)
		grievances.GET("/department/:dept", grievanceController.GetGrievancesByDepartment)
		grievances.GET("/status/:status", grievanceController.GetGrievancesByStatus)
		grievances.GET("/stats", statsController.GetStatistics)

		grievances.GET("/:id", grievanceController.GetGrievanceByID)
		grievances.PUT("/:id", grievanceController.UpdateGrievance)
		grievances.DELETE("/:id", grievanceController.DeleteGrievance)
		grievances.PUT("/:id/upvote", interactionController.ToggleUpvote)
		grievances.PUT("/:id/status", grievanceController.UpdateGrievanceStatus)
	}
}
