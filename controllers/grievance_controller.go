package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/griev-ease/api-go/constants"
	"github.com/griev-ease/api-go/models"
	"github.com/griev-ease/api-go/policy"
	"github.com/griev-ease/api-go/utils"
	"gorm.io/gorm"
)

type GrievanceController struct {
	DB *gorm.DB
}

func NewGrievanceController(db *gorm.DB) *GrievanceController {
	return &GrievanceController{DB: db}
}

type CreateGrievanceRequest struct {
	Name          string `json:"name" binding:"required"`
	Street        string `json:"street" binding:"required"`
	Locality      string `json:"locality" binding:"required"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state" binding:"required"`
	Department    string `json:"department" binding:"required"`
	Description   string `json:"description" binding:"required"`
	PhoneNumber   string `json:"phoneNumber" binding:"required"`
	ImageURL      string `json:"imageUrl" binding:"required"`
	ImagePublicID string `json:"imagePublicId" binding:"required"`
}

type UpdateGrievanceRequest struct {
	Name        string `json:"name"`
	Street      string `json:"street"`
	Locality    string `json:"locality"`
	City        string `json:"city"`
	State       string `json:"state"`
	Department  string `json:"department"`
	Description string `json:"description"`
	PhoneNumber string `json:"phoneNumber"`
}

type UpdateStatusRequest struct {
	Status              string `json:"status" binding:"required"`
	SolvedImageURL      string `json:"solvedImageUrl"`
	SolvedImagePublicID string `json:"solvedImagePublicId"`
}

type GrievanceListQuery struct {
	Page       int    `form:"page,default=1" binding:"min=1"`
	PageSize   int    `form:"pageSize,default=10" binding:"min=1,max=100"`
	Department string `form:"department"`
	Status     string `form:"status"`
	Locality   string `form:"locality"`
	SortBy     string `form:"sortBy" binding:"omitempty,oneof=recent upvotes oldest"`
}

// GrievanceResponse is the grievance DTO. HasUpvoted is computed per request
// for the calling user, never cached on the entity.
type GrievanceResponse struct {
	models.Grievance
	UserName   string `json:"userName"`
	HasUpvoted bool   `json:"hasUpvoted"`
}

func (gc *GrievanceController) toResponse(grievance models.Grievance, currentUserID string) (GrievanceResponse, error) {
	responses, err := gc.toResponses([]models.Grievance{grievance}, currentUserID)
	if err != nil {
		return GrievanceResponse{}, err
	}
	return responses[0], nil
}

// toResponses resolves filer names and the caller's upvotes in one query each
// rather than per row.
func (gc *GrievanceController) toResponses(grievances []models.Grievance, currentUserID string) ([]GrievanceResponse, error) {
	if len(grievances) == 0 {
		return []GrievanceResponse{}, nil
	}

	userIDs := make([]string, 0, len(grievances))
	grievanceIDs := make([]string, 0, len(grievances))
	for _, g := range grievances {
		userIDs = append(userIDs, g.UserID)
		grievanceIDs = append(grievanceIDs, g.ID)
	}

	var users []struct {
		ID   string
		Name string
	}
	if err := gc.DB.Model(&models.User{}).
		Select("id, name").
		Where("id IN ?", userIDs).
		Scan(&users).Error; err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	var upvotedIDs []string
	if err := gc.DB.Model(&models.GrievanceUpvote{}).
		Where("user_id = ? AND grievance_id IN ?", currentUserID, grievanceIDs).
		Pluck("grievance_id", &upvotedIDs).Error; err != nil {
		return nil, err
	}
	upvoted := make(map[string]bool, len(upvotedIDs))
	for _, id := range upvotedIDs {
		upvoted[id] = true
	}

	responses := make([]GrievanceResponse, 0, len(grievances))
	for _, g := range grievances {
		responses = append(responses, GrievanceResponse{
			Grievance:  g,
			UserName:   names[g.UserID],
			HasUpvoted: upvoted[g.ID],
		})
	}
	return responses, nil
}

// CreateGrievance godoc
// @Summary File a new grievance
// @Description Creates a grievance in pending status with zero upvotes
// @Tags grievances
// @Accept json
// @Produce json
// @Param grievance body CreateGrievanceRequest true "Grievance creation request"
// @Success 201 {object} ApiResponse
// @Router /grievances [post]
func (gc *GrievanceController) CreateGrievance(c *gin.Context) {
	claims := utils.GetUser(c)
	var req CreateGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}

	if !constants.IsValidDepartment(req.Department) {
		c.JSON(http.StatusBadRequest, FailureResponse(
			fmt.Sprintf("Invalid department. Valid departments: %s", constants.DepartmentList())))
		return
	}

	grievance := models.Grievance{
		UserID:        claims.UserID,
		Name:          req.Name,
		Street:        req.Street,
		Locality:      req.Locality,
		City:          req.City,
		State:         req.State,
		Department:    req.Department,
		Description:   req.Description,
		PhoneNumber:   req.PhoneNumber,
		ImageURL:      req.ImageURL,
		ImagePublicID: req.ImagePublicID,
		Status:        constants.StatusPending,
		Priority:      "medium",
		Upvotes:       0,
	}

	if err := gc.DB.Create(&grievance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to create grievance"))
		return
	}

	response, err := gc.toResponse(grievance, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to create grievance"))
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse(response, "Grievance filed successfully"))
}

// listGrievances applies the shared filter/sort/pagination pipeline. All
// handlers that return grievance lists funnel through it.
func (gc *GrievanceController) listGrievances(c *gin.Context, query GrievanceListQuery, scope func(*gorm.DB) *gorm.DB) {
	claims := utils.GetUser(c)

	dbQuery := gc.DB.Model(&models.Grievance{})
	if scope != nil {
		dbQuery = scope(dbQuery)
	}

	if query.Department != "" {
		dbQuery = dbQuery.Where("LOWER(department) = ?", strings.ToLower(query.Department))
	}
	if query.Status != "" {
		dbQuery = dbQuery.Where("LOWER(status) = ?", strings.ToLower(query.Status))
	}
	if query.Locality != "" {
		dbQuery = dbQuery.Where("LOWER(locality) LIKE ?", "%"+strings.ToLower(query.Locality)+"%")
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Error fetching grievances"))
		return
	}

	switch query.SortBy {
	case "upvotes":
		dbQuery = dbQuery.Order("upvotes DESC, created_at DESC")
	case "oldest":
		dbQuery = dbQuery.Order("created_at ASC")
	default: // "recent"
		dbQuery = dbQuery.Order("created_at DESC")
	}

	var grievances []models.Grievance
	offset := (query.Page - 1) * query.PageSize
	if err := dbQuery.Offset(offset).Limit(query.PageSize).Find(&grievances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Error fetching grievances"))
		return
	}

	responses, err := gc.toResponses(grievances, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Error fetching grievances"))
		return
	}

	paginated := NewPaginatedResponse(responses, query.Page, query.PageSize, total)
	c.JSON(http.StatusOK, SuccessResponse(paginated, "Success"))
}

// GetAllGrievances godoc
// @Summary List grievances
// @Description Paginated list with optional department/status/locality filters and recent/upvotes/oldest sort
// @Tags grievances
// @Produce json
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 10)"
// @Param department query string false "Department filter (exact, case-insensitive)"
// @Param status query string false "Status filter (exact, case-insensitive)"
// @Param locality query string false "Locality filter (substring, case-insensitive)"
// @Param sortBy query string false "Sort order: recent, upvotes or oldest"
// @Success 200 {object} ApiResponse
// @Router /grievances [get]
func (gc *GrievanceController) GetAllGrievances(c *gin.Context) {
	var query GrievanceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}

	gc.listGrievances(c, query, nil)
}

// GetGrievanceByID godoc
// @Summary Get a single grievance
// @Tags grievances
// @Produce json
// @Param id path string true "Grievance ID"
// @Success 200 {object} ApiResponse
// @Router /grievances/{id} [get]
func (gc *GrievanceController) GetGrievanceByID(c *gin.Context) {
	claims := utils.GetUser(c)

	var grievance models.Grievance
	if err := gc.DB.First(&grievance, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, FailureResponse("Grievance not found."))
		return
	}

	response, err := gc.toResponse(grievance, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Error fetching grievances"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(response, "Success"))
}

// GetMyGrievances godoc
// @Summary List the current user's grievances
// @Tags grievances
// @Produce json
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 10)"
// @Success 200 {object} ApiResponse
// @Router /grievances/my-grievances [get]
func (gc *GrievanceController) GetMyGrievances(c *gin.Context) {
	claims := utils.GetUser(c)

	var query GrievanceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}
	query.Department, query.Status, query.Locality = "", "", ""

	gc.listGrievances(c, query, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", claims.UserID)
	})
}

// UpdateGrievance godoc
// @Summary Update a grievance
// @Description Creator-only partial update; blank fields are left unchanged; solved grievances cannot be edited
// @Tags grievances
// @Accept json
// @Produce json
// @Param id path string true "Grievance ID"
// @Param grievance body UpdateGrievanceRequest true "Grievance update request"
// @Success 200 {object} ApiResponse
// @Router /grievances/{id} [put]
func (gc *GrievanceController) UpdateGrievance(c *gin.Context) {
	claims := utils.GetUser(c)

	var req UpdateGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}

	var grievance models.Grievance
	if err := gc.DB.First(&grievance, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, FailureResponse("Grievance not found."))
		return
	}

	decision := policy.Authorize(claims.Role, claims.UserID, grievance.UserID, grievance.Status, policy.OpEdit)
	if !decision.Allowed {
		if decision.StateConflict() {
			c.JSON(http.StatusConflict, FailureResponse("Cannot update a solved grievance."))
		} else {
			c.JSON(http.StatusForbidden, FailureResponse("You can only update your own grievances."))
		}
		return
	}

	updates := map[string]interface{}{"updated_at": time.Now()}

	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Street != "" {
		updates["street"] = req.Street
	}
	if req.Locality != "" {
		updates["locality"] = req.Locality
	}
	if req.City != "" {
		updates["city"] = req.City
	}
	if req.State != "" {
		updates["state"] = req.State
	}
	if req.Department != "" {
		if !constants.IsValidDepartment(req.Department) {
			c.JSON(http.StatusBadRequest, FailureResponse(
				fmt.Sprintf("Invalid department. Valid departments: %s", constants.DepartmentList())))
			return
		}
		updates["department"] = req.Department
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.PhoneNumber != "" {
		updates["phone_number"] = req.PhoneNumber
	}

	if err := gc.DB.Model(&grievance).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to update grievance"))
		return
	}

	if err := gc.DB.First(&grievance, "id = ?", grievance.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to update grievance"))
		return
	}

	response, err := gc.toResponse(grievance, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to update grievance"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(response, "Grievance updated successfully"))
}

// DeleteGrievance godoc
// @Summary Delete a grievance
// @Description Creator-only; allowed only while the grievance is pending
// @Tags grievances
// @Produce json
// @Param id path string true "Grievance ID"
// @Success 200 {object} ApiResponse
// @Router /grievances/{id} [delete]
func (gc *GrievanceController) DeleteGrievance(c *gin.Context) {
	claims := utils.GetUser(c)

	var grievance models.Grievance
	if err := gc.DB.First(&grievance, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, FailureResponse("Grievance not found."))
		return
	}

	decision := policy.Authorize(claims.Role, claims.UserID, grievance.UserID, grievance.Status, policy.OpDelete)
	if !decision.Allowed {
		if decision.StateConflict() {
			c.JSON(http.StatusConflict, FailureResponse("Cannot delete grievance. Only pending grievances can be deleted."))
		} else {
			c.JSON(http.StatusForbidden, FailureResponse("You can only delete your own grievances."))
		}
		return
	}

	tx := gc.DB.Begin()

	// Upvote ledger rows go with the grievance.
	if err := tx.Where("grievance_id = ?", grievance.ID).Delete(&models.GrievanceUpvote{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to delete grievance"))
		return
	}

	if err := tx.Delete(&grievance).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to delete grievance"))
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to delete grievance"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(nil, "Grievance deleted successfully"))
}

// UpdateGrievanceStatus godoc
// @Summary Change a grievance's lifecycle status
// @Description Government officials only; status moves forward only (pending, in-process, solved); reaching solved stamps the resolution time and optional image
// @Tags grievances
// @Accept json
// @Produce json
// @Param id path string true "Grievance ID"
// @Param status body UpdateStatusRequest true "Status update request"
// @Success 200 {object} ApiResponse
// @Router /grievances/{id}/status [put]
func (gc *GrievanceController) UpdateGrievanceStatus(c *gin.Context) {
	claims := utils.GetUser(c)

	decision := policy.Authorize(claims.Role, claims.UserID, "", "", policy.OpChangeStatus)
	if !decision.Allowed {
		c.JSON(http.StatusForbidden, FailureResponse("Only Government Officials can update grievance status."))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}

	if !constants.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, FailureResponse(
			fmt.Sprintf("Invalid status. Valid statuses: %s", constants.StatusList())))
		return
	}

	var grievance models.Grievance
	if err := gc.DB.First(&grievance, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, FailureResponse("Grievance not found."))
		return
	}

	if grievance.Status == constants.StatusSolved {
		c.JSON(http.StatusConflict, FailureResponse("Cannot change status of a solved grievance."))
		return
	}

	if constants.StatusRank(req.Status) <= constants.StatusRank(grievance.Status) {
		c.JSON(http.StatusConflict, FailureResponse(
			fmt.Sprintf("Cannot move status from %s to %s. Status only moves forward.", grievance.Status, req.Status)))
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     req.Status,
		"updated_at": now,
	}

	if req.Status == constants.StatusSolved {
		updates["solved_on"] = now
		// Resolution image is optional.
		if req.SolvedImageURL != "" {
			updates["solved_image_url"] = req.SolvedImageURL
			updates["solved_image_public_id"] = req.SolvedImagePublicID
		}
	}

	if err := gc.DB.Model(&grievance).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to update status"))
		return
	}

	if err := gc.DB.First(&grievance, "id = ?", grievance.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to update status"))
		return
	}

	response, err := gc.toResponse(grievance, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to update status"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(response, "Status updated successfully"))
}

// SearchGrievances godoc
// @Summary Search grievances by keyword
// @Description Substring match over description, locality and department
// @Tags grievances
// @Produce json
// @Param q query string true "Search query"
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 10)"
// @Success 200 {object} ApiResponse
// @Router /grievances/search [get]
func (gc *GrievanceController) SearchGrievances(c *gin.Context) {
	var query GrievanceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}

	searchQuery := strings.TrimSpace(c.Query("q"))
	if searchQuery == "" {
		gc.listGrievances(c, query, nil)
		return
	}

	pattern := "%" + strings.ToLower(searchQuery) + "%"
	gc.listGrievances(c, query, func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(description) LIKE ? OR LOWER(locality) LIKE ? OR LOWER(department) LIKE ?",
			pattern, pattern, pattern)
	})
}

// GetGrievancesByDepartment godoc
// @Summary List grievances for a department
// @Tags grievances
// @Produce json
// @Param dept path string true "Department name"
// @Success 200 {object} ApiResponse
// @Router /grievances/department/{dept} [get]
func (gc *GrievanceController) GetGrievancesByDepartment(c *gin.Context) {
	dept := c.Param("dept")
	if !constants.IsValidDepartment(dept) {
		c.JSON(http.StatusBadRequest, FailureResponse(
			fmt.Sprintf("Invalid department. Valid departments: %s", constants.DepartmentList())))
		return
	}

	var query GrievanceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}
	query.Department = dept

	gc.listGrievances(c, query, nil)
}

// GetGrievancesByStatus godoc
// @Summary List grievances in a lifecycle status
// @Description Government officials only
// @Tags grievances
// @Produce json
// @Param status path string true "Status"
// @Success 200 {object} ApiResponse
// @Router /grievances/status/{status} [get]
func (gc *GrievanceController) GetGrievancesByStatus(c *gin.Context) {
	claims := utils.GetUser(c)

	decision := policy.Authorize(claims.Role, claims.UserID, "", "", policy.OpViewStats)
	if !decision.Allowed {
		c.JSON(http.StatusForbidden, FailureResponse("Only Government Officials can filter by status."))
		return
	}

	status := c.Param("status")
	if !constants.IsValidStatus(status) {
		c.JSON(http.StatusBadRequest, FailureResponse(
			fmt.Sprintf("Invalid status. Valid statuses: %s", constants.StatusList())))
		return
	}

	var query GrievanceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}
	query.Status = status

	gc.listGrievances(c, query, nil)
}

// GetSolvedGrievances godoc
// @Summary List solved grievances
// @Tags grievances
// @Produce json
// @Success 200 {object} ApiResponse
// @Router /grievances/solved [get]
func (gc *GrievanceController) GetSolvedGrievances(c *gin.Context) {
	var query GrievanceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}
	query.Status = constants.StatusSolved

	gc.listGrievances(c, query, nil)
}
