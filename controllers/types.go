package controllers

import "math"

// ApiResponse is the envelope every handler returns.
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Errors  []string    `json:"errors,omitempty"`
}

func SuccessResponse(data interface{}, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func FailureResponse(message string, errors ...string) ApiResponse {
	if len(errors) == 0 {
		errors = []string{message}
	}
	return ApiResponse{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// PaginatedResponse wraps list payloads. Pages are 1-indexed.
type PaginatedResponse struct {
	Data            interface{} `json:"data"`
	PageNumber      int         `json:"pageNumber"`
	PageSize        int         `json:"pageSize"`
	TotalRecords    int64       `json:"totalRecords"`
	TotalPages      int         `json:"totalPages"`
	HasNextPage     bool        `json:"hasNextPage"`
	HasPreviousPage bool        `json:"hasPreviousPage"`
}

func NewPaginatedResponse(data interface{}, pageNumber, pageSize int, totalRecords int64) PaginatedResponse {
	totalPages := int(math.Ceil(float64(totalRecords) / float64(pageSize)))

	return PaginatedResponse{
		Data:            data,
		PageNumber:      pageNumber,
		PageSize:        pageSize,
		TotalRecords:    totalRecords,
		TotalPages:      totalPages,
		HasNextPage:     pageNumber < totalPages,
		HasPreviousPage: pageNumber > 1,
	}
}
