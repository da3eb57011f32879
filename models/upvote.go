package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GrievanceUpvote is the upvote ledger. The composite unique index is the
// backstop against double-upvote races; the grievance counter is kept in sync
// inside the same transaction.
type GrievanceUpvote struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	GrievanceID string    `gorm:"type:uuid;not null;uniqueIndex:idx_grievance_user" json:"grievanceId"`
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_grievance_user" json:"userId"`
	UpvotedAt   time.Time `gorm:"autoCreateTime" json:"upvotedAt"`

	Grievance Grievance `json:"-" gorm:"foreignKey:GrievanceID"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}

func (u *GrievanceUpvote) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
