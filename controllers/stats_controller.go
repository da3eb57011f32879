package controllers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/griev-ease/api-go/constants"
	"github.com/griev-ease/api-go/models"
	"github.com/griev-ease/api-go/policy"
	"github.com/griev-ease/api-go/utils"
	"gorm.io/gorm"
)

type StatsController struct {
	DB *gorm.DB
}

func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{DB: db}
}

type DepartmentStats struct {
	Department string `json:"department"`
	Total      int64  `json:"total"`
	Pending    int64  `json:"pending"`
	InProcess  int64  `json:"inProcess"`
	Solved     int64  `json:"solved"`
}

type LocalityStats struct {
	Locality         string `json:"locality"`
	TotalGrievances  int64  `json:"totalGrievances"`
	SolvedGrievances int64  `json:"solvedGrievances"`
}

type StatisticsResponse struct {
	TotalGrievances       int64             `json:"totalGrievances"`
	PendingGrievances     int64             `json:"pendingGrievances"`
	InProcessGrievances   int64             `json:"inProcessGrievances"`
	SolvedGrievances      int64             `json:"solvedGrievances"`
	AverageResolutionDays float64           `json:"averageResolutionDays"`
	DepartmentWiseStats   []DepartmentStats `json:"departmentWiseStats"`
	TopLocalities         []LocalityStats   `json:"topLocalities"`
}

// GetStatistics godoc
// @Summary Grievance statistics
// @Description Totals, per-status counts, average resolution time, department rollups and top localities. Government officials only.
// @Tags statistics
// @Produce json
// @Success 200 {object} ApiResponse
// @Router /grievances/stats [get]
func (sc *StatsController) GetStatistics(c *gin.Context) {
	claims := utils.GetUser(c)

	decision := policy.Authorize(claims.Role, claims.UserID, "", "", policy.OpViewStats)
	if !decision.Allowed {
		c.JSON(http.StatusForbidden, FailureResponse("Only Government Officials can view statistics."))
		return
	}

	var stats StatisticsResponse

	if err := sc.DB.Model(&models.Grievance{}).Count(&stats.TotalGrievances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to compute statistics"))
		return
	}
	if err := sc.DB.Model(&models.Grievance{}).Where("status = ?", constants.StatusPending).Count(&stats.PendingGrievances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to compute statistics"))
		return
	}
	if err := sc.DB.Model(&models.Grievance{}).Where("status = ?", constants.StatusInProcess).Count(&stats.InProcessGrievances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to compute statistics"))
		return
	}
	if err := sc.DB.Model(&models.Grievance{}).Where("status = ?", constants.StatusSolved).Count(&stats.SolvedGrievances).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to compute statistics"))
		return
	}

	avg, err := sc.averageResolutionDays()
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to compute statistics"))
		return
	}
	stats.AverageResolutionDays = avg

	// Grouped over departments actually present in the data; historical rows
	// may reference departments since removed from the taxonomy.
	deptRows := sc.DB.Model(&models.Grievance{}).
		Select(`department,
			COUNT(*) as total,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as pending,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as in_process,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as solved`,
			constants.StatusPending, constants.StatusInProcess, constants.StatusSolved).
		Group("department").
		Order("department ASC")

	if err := deptRows.Scan(&stats.DepartmentWiseStats).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to compute statistics"))
		return
	}

	// Ties on count break on locality name ascending so the ranking is stable.
	localityRows := sc.DB.Model(&models.Grievance{}).
		Select(`locality,
			COUNT(*) as total_grievances,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as solved_grievances`,
			constants.StatusSolved).
		Group("locality").
		Order("total_grievances DESC, locality ASC").
		Limit(10)

	if err := localityRows.Scan(&stats.TopLocalities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to compute statistics"))
		return
	}

	if stats.DepartmentWiseStats == nil {
		stats.DepartmentWiseStats = []DepartmentStats{}
	}
	if stats.TopLocalities == nil {
		stats.TopLocalities = []LocalityStats{}
	}

	c.JSON(http.StatusOK, SuccessResponse(stats, "Success"))
}

// averageResolutionDays computes the mean created-to-solved interval in
// fractional days over solved grievances, rounded to 2 decimal places. The
// interval math happens here rather than in SQL to stay dialect-neutral.
func (sc *StatsController) averageResolutionDays() (float64, error) {
	var solved []struct {
		CreatedAt time.Time
		SolvedOn  *time.Time
	}

	if err := sc.DB.Model(&models.Grievance{}).
		Select("created_at, solved_on").
		Where("status = ? AND solved_on IS NOT NULL", constants.StatusSolved).
		Scan(&solved).Error; err != nil {
		return 0, err
	}

	if len(solved) == 0 {
		return 0, nil
	}

	var totalDays float64
	for _, g := range solved {
		totalDays += g.SolvedOn.Sub(g.CreatedAt).Hours() / 24
	}

	return math.Round(totalDays/float64(len(solved))*100) / 100, nil
}
