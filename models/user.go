package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"` // Don't expose password hash in JSON
	PhoneNumber  string     `json:"phoneNumber"`
	Address      string     `json:"address"`
	Role         string     `gorm:"index;not null" json:"role"`
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	TokenVersion int        `gorm:"default:0" json:"-"`
	LastLogin    *time.Time `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	Grievances []Grievance       `json:"-" gorm:"foreignKey:UserID"`
	Upvotes    []GrievanceUpvote `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
