package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/griev-ease/api-go/config"
	"github.com/griev-ease/api-go/utils"
)

// UploadController issues presigned URLs so clients upload grievance images
// straight to object storage; the API only ever stores the resulting URL/key.
type UploadController struct {
	R2Client *s3.Client
	R2Config *config.R2Config
}

type PresignedURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

type UploadConfirmRequest struct {
	Key string `json:"key" binding:"required"`
}

func NewUploadController() *UploadController {
	r2Config := config.GetR2Config()

	r2Client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2Config.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2Config.AccessKeyID,
			r2Config.SecretAccessKey,
			"",
		),
		Region: r2Config.Region,
	})

	return &UploadController{
		R2Client: r2Client,
		R2Config: r2Config,
	}
}

// GetPresignedURL godoc
// @Summary Get a presigned upload URL for a grievance image
// @Tags uploads
// @Accept json
// @Produce json
// @Param upload body PresignedURLRequest true "Upload request"
// @Success 200 {object} ApiResponse
// @Router /uploads/presign [post]
func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	user := utils.GetUser(c)
	var req PresignedURLRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}

	if !isValidImageType(req.ContentType) {
		c.JSON(http.StatusBadRequest, FailureResponse("Only image uploads are allowed"))
		return
	}

	// 10MB cap, same as any photo upload.
	if req.FileSize > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, FailureResponse("File size exceeds limit"))
		return
	}

	key := uc.generateImageKey(user.UserID, req.FileName)

	presignedURL, err := uc.createPresignedURL(key, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to create upload URL"))
		return
	}

	response := PresignedURLResponse{
		UploadURL: presignedURL,
		FileURL:   fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, key),
		Key:       key,
		ExpiresIn: 3600,
	}

	c.JSON(http.StatusOK, SuccessResponse(response, "Presigned URL generated successfully"))
}

// ConfirmUpload godoc
// @Summary Confirm a finished image upload
// @Description Verifies the object exists in storage and returns its public URL
// @Tags uploads
// @Accept json
// @Produce json
// @Param upload body UploadConfirmRequest true "Confirm request"
// @Success 200 {object} ApiResponse
// @Router /uploads/confirm [post]
func (uc *UploadController) ConfirmUpload(c *gin.Context) {
	var req UploadConfirmRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}

	exists, err := uc.verifyFileExists(req.Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to verify file upload"))
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, FailureResponse("File not found in storage"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(gin.H{
		"key":     req.Key,
		"fileUrl": fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, req.Key),
	}, "Upload confirmed successfully"))
}

func isValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg", "image/jpg", "image/png", "image/webp", "image/heic",
	}

	for _, validType := range validTypes {
		if contentType == validType {
			return true
		}
	}
	return false
}

func (uc *UploadController) generateImageKey(userID, fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("grievances/%s/%d_%s%s", userID, time.Now().Unix(), uuid.New().String(), ext)
}

func (uc *UploadController) createPresignedURL(key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(uc.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigner := s3.NewPresignClient(uc.R2Client)
	req, err := presigner.PresignPutObject(context.TODO(), input, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (uc *UploadController) verifyFileExists(key string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	}

	_, err := uc.R2Client.HeadObject(context.TODO(), input)
	if err != nil {
		return false, nil
	}

	return true, nil
}
