package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/griev-ease/api-go/models"
	"github.com/griev-ease/api-go/utils"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Tags users
// @Produce json
// @Success 200 {object} ApiResponse
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, FailureResponse("User not found in context"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, FailureResponse("User not found."))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(user, "Success"))
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Description Partial update of name, phone number and address; blank fields are left unchanged. Email cannot be changed.
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} ApiResponse
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, FailureResponse("User not found in context"))
		return
	}

	var input struct {
		Name        string `json:"name"`
		PhoneNumber string `json:"phoneNumber"`
		Address     string `json:"address"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, FailureResponse("User not found."))
		return
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.PhoneNumber != "" {
		updates["phone_number"] = input.PhoneNumber
	}
	if input.Address != "" {
		updates["address"] = input.Address
	}

	if err := uc.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to update profile"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(user, "Profile updated successfully"))
}

// DeactivateAccount godoc
// @Summary Deactivate the current user's account
// @Description Soft delete; grievances and upvotes are preserved
// @Tags users
// @Produce json
// @Success 200 {object} ApiResponse
// @Router /user/deactivate [put]
func (uc *UserController) DeactivateAccount(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, FailureResponse("User not found in context"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, FailureResponse("User not found."))
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusConflict, FailureResponse("Account is already deactivated."))
		return
	}

	if err := uc.DB.Model(&user).Updates(map[string]interface{}{
		"is_active":  false,
		"updated_at": time.Now(),
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to deactivate account"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(nil, "Account deactivated successfully"))
}

// ReactivateAccount godoc
// @Summary Reactivate a previously deactivated account
// @Tags users
// @Produce json
// @Success 200 {object} ApiResponse
// @Router /user/reactivate [put]
func (uc *UserController) ReactivateAccount(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, FailureResponse("User not found in context"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, FailureResponse("User not found."))
		return
	}

	if user.IsActive {
		c.JSON(http.StatusConflict, FailureResponse("Account is already active."))
		return
	}

	if err := uc.DB.Model(&user).Updates(map[string]interface{}{
		"is_active":  true,
		"updated_at": time.Now(),
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to reactivate account"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(nil, "Account reactivated successfully"))
}
