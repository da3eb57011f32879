package utils

import (
	"time"

	"github.com/griev-ease/api-go/models"
	"gorm.io/gorm"
)

// BlacklistToken records an individually revoked bearer token until its
// natural expiry. Re-blacklisting an already-blacklisted token is a no-op.
func BlacklistToken(db *gorm.DB, token, userID string, expiresAt time.Time) error {
	var existing models.TokenBlacklist
	if err := db.Where("token = ?", token).First(&existing).Error; err == nil {
		return nil
	}

	entry := models.TokenBlacklist{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := db.Create(&entry).Error; err != nil {
		// A concurrent logout can insert the same token between the check and
		// this create; the unique index rejects the second insert.
		var count int64
		if db.Model(&models.TokenBlacklist{}).Where("token = ?", token).Count(&count); count > 0 {
			return nil
		}
		return err
	}
	return nil
}

// IsTokenBlacklisted only considers non-expired entries; expired tokens are
// rejected by signature verification anyway.
func IsTokenBlacklisted(db *gorm.DB, token string) (bool, error) {
	var count int64
	err := db.Model(&models.TokenBlacklist{}).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		Count(&count).Error
	return count > 0, err
}

// CleanupExpiredTokens prunes entries past their natural expiry. Safe to run
// concurrently with requests; it never touches a live entry.
func CleanupExpiredTokens(db *gorm.DB) (int64, error) {
	result := db.Where("expires_at <= ?", time.Now()).Delete(&models.TokenBlacklist{})
	return result.RowsAffected, result.Error
}
