package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Harassment categories. New signalements default to CategoryUnspecified,
// which is also the category written by the anonymous geolocated path.
const (
	CategoryMoral       = 0
	CategoryPhysical    = 1
	CategorySexual      = 2
	CategoryCyber       = 3
	CategoryUnspecified = 4
)

// CategoryLabel returns the human-readable label used in notification
// bodies. Unknown values fall back to the unspecified label.
func CategoryLabel(category int) string {
	switch category {
	case CategoryMoral:
		return "moral"
	case CategoryPhysical:
		return "physical"
	case CategorySexual:
		return "sexual"
	case CategoryCyber:
		return "cyber"
	default:
		return "unspecified"
	}
}

// ValidCategory reports whether category is within the closed set.
func ValidCategory(category int) bool {
	return category >= CategoryMoral && category <= CategoryUnspecified
}

// Signalement is one filed incident report. UserID is the owner and is set
// once at creation; no update path may reassign it.
type Signalement struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Category          int            `gorm:"not null;default:4;index" json:"category"`
	Hours             time.Time      `json:"hours"`
	Place             string         `gorm:"not null;size:500" json:"place"`
	ReportingContent  string         `gorm:"type:text" json:"reporting_content,omitempty"`
	Photos            datatypes.JSON `json:"photos,omitempty"`
	Latitude          *float64       `json:"latitude,omitempty"`
	Longitude         *float64       `json:"longitude,omitempty"`
	Locality          string         `gorm:"size:255" json:"locality,omitempty"`
	IsUrgent          bool           `gorm:"not null;default:false" json:"is_urgent"`
	IsProcessed       bool           `gorm:"not null;default:false;index" json:"is_processed"`
	PersonnelComments string         `gorm:"type:text" json:"personnel_comments,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	User              User           `gorm:"foreignKey:UserID" json:"-"`
}
