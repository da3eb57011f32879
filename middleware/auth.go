package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/griev-ease/api-go/models"
	"github.com/griev-ease/api-go/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware authenticates the bearer token and enforces both revocation
// mechanisms: the per-user token version (bulk revocation on password change)
// and the explicit blacklist (single-session revocation on logout). Handlers
// behind it can assume the request is unrevoked.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "success": false})
			c.Abort()
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format", "success": false})
			c.Abort()
			return
		}

		token := bearerToken[1]
		claims := jwt.MapClaims{}
		parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !parsedToken.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "success": false})
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims", "success": false})
			c.Abort()
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims", "success": false})
			c.Abort()
			return
		}

		version, ok := claims["token_version"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims", "success": false})
			c.Abort()
			return
		}

		blacklisted, err := utils.IsTokenBlacklisted(db, token)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not verify token", "success": false})
			c.Abort()
			return
		}
		if blacklisted {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked", "success": false})
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found", "success": false})
			c.Abort()
			return
		}

		// The active flag is enforced at login (and a deactivated account can
		// still reactivate itself here); revocation is version + blacklist.

		// Stale version means every session issued before the last password
		// change, regardless of natural expiry.
		if user.TokenVersion != int(version) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has been invalidated", "success": false})
			c.Abort()
			return
		}

		userClaims := &utils.UserClaims{
			UserID:       userID,
			Role:         role,
			TokenVersion: int(version),
		}

		c.Set(string(utils.UserContextKey), userClaims)
		c.Set(string(utils.RawTokenKey), token)

		c.Next()
	}
}
