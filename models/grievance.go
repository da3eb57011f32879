package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Grievance struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string `gorm:"type:uuid;index;not null" json:"userId"`
	Name        string `gorm:"not null" json:"name"`
	Street      string `gorm:"not null" json:"street"`
	Locality    string `gorm:"index;not null" json:"locality"`
	City        string `gorm:"not null" json:"city"`
	State       string `gorm:"not null" json:"state"`
	Department  string `gorm:"index;not null" json:"department"`
	Description string `gorm:"type:text;not null" json:"description"`
	PhoneNumber string `gorm:"not null" json:"phoneNumber"`

	// Image filed with the complaint, uploaded out-of-band; the record only
	// keeps the public URL and storage key.
	ImageURL      string `gorm:"not null" json:"imageUrl"`
	ImagePublicID string `gorm:"not null" json:"imagePublicId"`

	// Resolution image, populated only when an official marks the grievance solved.
	SolvedImageURL      *string `json:"solvedImageUrl"`
	SolvedImagePublicID *string `json:"solvedImagePublicId"`

	// Denormalized; must equal the number of GrievanceUpvote rows for this grievance.
	Upvotes int `gorm:"default:0" json:"upvotes"`

	Status    string     `gorm:"index;default:pending" json:"status"`
	Priority  string     `gorm:"default:medium" json:"priority"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	SolvedOn  *time.Time `json:"solvedOn"`

	User          User              `json:"-" gorm:"foreignKey:UserID"`
	UpvoteEntries []GrievanceUpvote `json:"-" gorm:"foreignKey:GrievanceID"`
}

func (g *Grievance) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}
