package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Staff members review and adjudicate signalements.
const (
	RoleReporter = 0
	RoleStaff    = 1
)

// SystemReporterLogin is the reserved identity that owns anonymous urgent
// signalements. It carries an empty password hash and can never log in.
const SystemReporterLogin = "urgence"

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Login     string    `gorm:"not null;size:255;uniqueIndex" json:"login"`
	Password  string    `gorm:"not null" json:"-"`
	Email     string    `gorm:"size:255" json:"email,omitempty"`
	Role      int       `gorm:"not null;default:0" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}
