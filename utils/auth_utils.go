package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/griev-ease/api-go/models"
)

type UserClaims struct {
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

type contextKey string

const UserContextKey contextKey = "user"

// RawTokenKey holds the bearer token string as presented, for logout blacklisting.
const RawTokenKey contextKey = "raw_token"

func GetUser(c *gin.Context) *UserClaims {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if userClaims, ok := user.(*UserClaims); ok {
		return userClaims
	}
	return nil
}

func GetRawToken(c *gin.Context) string {
	token, exists := c.Get(string(RawTokenKey))
	if !exists {
		return ""
	}
	if s, ok := token.(string); ok {
		return s
	}
	return ""
}

const TokenValidity = time.Hour * 24

// GenerateToken mints a bearer token for the user, embedding the user's
// current token version so a later password change invalidates it.
func GenerateToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":       user.ID,
		"role":          user.Role,
		"token_version": user.TokenVersion,
		"exp":           time.Now().Add(TokenValidity).Unix(),
	})

	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// GetTokenExpiry reads the natural expiry of a token without re-verifying the
// signature; callers have already authenticated.
func GetTokenExpiry(tokenString string) (time.Time, error) {
	parser := jwt.Parser{}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, err
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}

	return time.Unix(int64(exp), 0), nil
}
