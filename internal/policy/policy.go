// Package policy holds the access decisions for signalements and user
// records. Role checks are authoritative over ownership: staff bypasses
// ownership restrictions, ownership never bypasses a staff-only one.
package policy

import (
	"github.com/Sylvain-Z/signalcampus-backend/internal/models"
	"github.com/google/uuid"
)

// CanViewSignalement allows the report's owner and staff.
func CanViewSignalement(principal *models.User, ownerID uuid.UUID) bool {
	return principal.ID == ownerID || principal.IsStaff()
}

// CanListUserSignalements allows a user to list their own reports; staff
// may list anyone's.
func CanListUserSignalements(principal *models.User, userID uuid.UUID) bool {
	return principal.ID == userID || principal.IsStaff()
}

// CanModerateSignalements gates update, delete and mark-processed.
// Staff only, regardless of ownership.
func CanModerateSignalements(principal *models.User) bool {
	return principal.IsStaff()
}

// CanManageUser allows self-service account changes and staff
// administration.
func CanManageUser(principal *models.User, userID uuid.UUID) bool {
	return principal.ID == userID || principal.IsStaff()
}
