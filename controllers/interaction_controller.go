package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/griev-ease/api-go/models"
	"github.com/griev-ease/api-go/utils"
	"gorm.io/gorm"
)

type InteractionController struct {
	DB *gorm.DB
}

func NewInteractionController(db *gorm.DB) *InteractionController {
	return &InteractionController{DB: db}
}

// ToggleUpvote godoc
// @Summary Toggle an upvote on a grievance
// @Description Adds the caller's upvote if absent, removes it if present; the ledger row and the denormalized counter move together
// @Tags interactions
// @Produce json
// @Param id path string true "Grievance ID"
// @Success 200 {object} ApiResponse
// @Router /grievances/{id}/upvote [put]
func (ic *InteractionController) ToggleUpvote(c *gin.Context) {
	grievanceID := c.Param("id")
	claims := utils.GetUser(c)

	var grievance models.Grievance
	if err := ic.DB.First(&grievance, "id = ?", grievanceID).Error; err != nil {
		c.JSON(http.StatusNotFound, FailureResponse("Grievance not found."))
		return
	}

	var existingUpvote models.GrievanceUpvote
	result := ic.DB.Where("grievance_id = ? AND user_id = ?", grievance.ID, claims.UserID).First(&existingUpvote)

	tx := ic.DB.Begin()

	if result.Error == gorm.ErrRecordNotFound {
		upvote := models.GrievanceUpvote{
			GrievanceID: grievance.ID,
			UserID:      claims.UserID,
		}

		// The composite unique index rejects a concurrent duplicate insert
		// here, which rolls back the counter increment with it.
		if err := tx.Create(&upvote).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, FailureResponse("Failed to upvote grievance"))
			return
		}

		if err := tx.Model(&models.Grievance{}).Where("id = ?", grievance.ID).
			Update("upvotes", gorm.Expr("upvotes + ?", 1)).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, FailureResponse("Failed to upvote grievance"))
			return
		}
	} else {
		res := tx.Where("grievance_id = ? AND user_id = ?", grievance.ID, claims.UserID).
			Delete(&models.GrievanceUpvote{})
		if res.Error != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, FailureResponse("Failed to remove upvote"))
			return
		}

		// A concurrent toggle can remove the row between the existence check
		// and this delete; the counter only moves when this delete removed it.
		if res.RowsAffected == 1 {
			if err := tx.Model(&models.Grievance{}).Where("id = ?", grievance.ID).
				Update("upvotes", gorm.Expr("upvotes - ?", 1)).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, FailureResponse("Failed to remove upvote"))
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to toggle upvote"))
		return
	}

	if err := ic.DB.First(&grievance, "id = ?", grievance.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to toggle upvote"))
		return
	}

	gc := GrievanceController{DB: ic.DB}
	response, err := gc.toResponse(grievance, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to toggle upvote"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(response, "Upvote toggled successfully"))
}
