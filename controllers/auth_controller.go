package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/griev-ease/api-go/config"
	"github.com/griev-ease/api-go/constants"
	"github.com/griev-ease/api-go/models"
	"github.com/griev-ease/api-go/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB           *gorm.DB
	GoogleConfig *config.GoogleConfig
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		DB:           db,
		GoogleConfig: config.NewGoogleConfig(),
	}
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a locality member or government official account and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} ApiResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=6"`
		PhoneNumber string `json:"phoneNumber" binding:"required"`
		Address     string `json:"address" binding:"required"`
		Role        string `json:"role" binding:"required,oneof=LocalityMember GovernmentOfficial"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}

	email := strings.ToLower(input.Email)

	var existing models.User
	if err := ac.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, FailureResponse("Email already registered. Please login or use a different email."))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Could not hash password"))
		return
	}

	now := time.Now()
	user := models.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		PhoneNumber:  input.PhoneNumber,
		Address:      input.Address,
		Role:         input.Role,
		IsActive:     true,
		TokenVersion: 0,
		LastLogin:    &now,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse("Email already registered. Please login or use a different email."))
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Could not generate token"))
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse(AuthResponse{Token: token, User: user}, "User registered successfully"))
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} ApiResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, FailureResponse("Invalid email or password."))
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, FailureResponse("Account is deactivated. Please contact support."))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, FailureResponse("Invalid email or password."))
		return
	}

	now := time.Now()
	user.LastLogin = &now
	ac.DB.Model(&user).Update("last_login", now)

	token, err := utils.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Could not generate token"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(AuthResponse{Token: token, User: user}, "Login successful"))
}

// GoogleLogin godoc
// @Summary Sign in with Google
// @Description Verifies a Google credential and issues a first-party token; creates a locality member account on first sign-in
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} ApiResponse
// @Router /auth/google [post]
func (ac *AuthController) GoogleLogin(c *gin.Context) {
	var input struct {
		IDToken     string `json:"id_token"`
		AccessToken string `json:"access_token"`
		Code        string `json:"code"`
		RedirectURI string `json:"redirect_uri"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}

	if !ac.GoogleConfig.Enabled() {
		c.JSON(http.StatusBadRequest, FailureResponse("Google sign-in is not configured"))
		return
	}

	var userInfo *config.GoogleUserInfo
	var err error

	if input.Code != "" && input.RedirectURI != "" {
		token, exchangeErr := ac.GoogleConfig.ExchangeCode(c.Request.Context(), input.Code)
		if exchangeErr != nil {
			c.JSON(http.StatusUnauthorized, FailureResponse("Failed to exchange code for token"))
			return
		}
		userInfo, err = ac.GoogleConfig.GetUserInfo(token.AccessToken)
	} else if input.IDToken != "" {
		userInfo, err = ac.GoogleConfig.VerifyIDToken(input.IDToken)
	} else if input.AccessToken != "" {
		userInfo, err = ac.GoogleConfig.GetUserInfo(input.AccessToken)
	} else {
		c.JSON(http.StatusBadRequest, FailureResponse("Either code with redirect_uri, id_token, or access_token is required"))
		return
	}

	if err != nil {
		c.JSON(http.StatusUnauthorized, FailureResponse("Invalid Google token"))
		return
	}

	email := strings.ToLower(userInfo.Email)

	var user models.User
	if err := ac.DB.Where("email = ?", email).First(&user).Error; err != nil {
		// First sign-in: create a locality member. The random password hash is
		// unusable; the account authenticates through Google only.
		randomHash, hashErr := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
		if hashErr != nil {
			c.JSON(http.StatusInternalServerError, FailureResponse("Failed to create user"))
			return
		}

		now := time.Now()
		user = models.User{
			Name:         userInfo.Name,
			Email:        email,
			PasswordHash: string(randomHash),
			Role:         constants.RoleLocalityMember,
			IsActive:     true,
			TokenVersion: 0,
			LastLogin:    &now,
		}

		if err := ac.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, FailureResponse("Failed to create user"))
			return
		}
	} else {
		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, FailureResponse("Account is deactivated. Please contact support."))
			return
		}
		now := time.Now()
		user.LastLogin = &now
		ac.DB.Model(&user).Update("last_login", now)
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Could not generate token"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(AuthResponse{Token: token, User: user}, "Login successful"))
}

// Logout godoc
// @Summary Logout the current session
// @Description Blacklists the presented bearer token until its natural expiry
// @Tags auth
// @Produce json
// @Success 200 {object} ApiResponse
// @Router /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	user := utils.GetUser(c)
	token := utils.GetRawToken(c)
	if user == nil || token == "" {
		c.JSON(http.StatusUnauthorized, FailureResponse("User not found in context"))
		return
	}

	expiresAt, err := utils.GetTokenExpiry(token)
	if err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse("Invalid token"))
		return
	}

	if err := utils.BlacklistToken(ac.DB, token, user.UserID, expiresAt); err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to logout"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(nil, "Logged out successfully"))
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Description Verifies the current password, increments the token version (invalidating all outstanding sessions) and returns a fresh token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} ApiResponse
// @Router /auth/change-password [put]
func (ac *AuthController) ChangePassword(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, FailureResponse("User not found in context"))
		return
	}

	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse(err.Error()))
		return
	}

	var user models.User
	if err := ac.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, FailureResponse("User not found."))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		c.JSON(http.StatusForbidden, FailureResponse("Current password is incorrect."))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Could not hash password"))
		return
	}

	// The hash swap and version bump land together; the bump invalidates
	// every token minted before this point.
	user.PasswordHash = string(hashedPassword)
	user.TokenVersion++
	if err := ac.DB.Model(&user).Updates(map[string]interface{}{
		"password_hash": user.PasswordHash,
		"token_version": user.TokenVersion,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Failed to change password"))
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, FailureResponse("Could not generate token"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(gin.H{"token": token}, "Password changed successfully. All other sessions have been logged out."))
}

// GetCurrentUser godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} ApiResponse
// @Router /auth/me [get]
func (ac *AuthController) GetCurrentUser(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, FailureResponse("User not found in context"))
		return
	}

	var user models.User
	if err := ac.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, FailureResponse("User not found."))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(user, "Success"))
}
