package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenBlacklist holds individually revoked bearer tokens (logout). Entries
// are inert once past ExpiresAt and are pruned by the background sweep.
type TokenBlacklist struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	Token         string    `gorm:"uniqueIndex;not null" json:"token"`
	UserID        string    `gorm:"type:uuid;index;not null" json:"userId"`
	BlacklistedAt time.Time `gorm:"autoCreateTime" json:"blacklistedAt"`
	ExpiresAt     time.Time `gorm:"index;not null" json:"expiresAt"`
}

func (t *TokenBlacklist) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
