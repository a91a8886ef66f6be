package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Sylvain-Z/signalcampus-backend/internal/models"
	"gorm.io/gorm"
)

// urgentCategories are the categories requiring immediate staff attention.
var urgentCategories = map[int]bool{
	models.CategoryPhysical: true,
	models.CategorySexual:   true,
}

// IsUrgent reports whether a signalement needs immediate attention: either
// its category is in the urgent set or it came through the urgent path.
func IsUrgent(s *models.Signalement) bool {
	return urgentCategories[s.Category] || s.IsUrgent
}

// Dispatcher notifies staff members when a signalement is created. It
// queries recipients fresh at dispatch time and isolates failures per
// recipient: one undeliverable address never blocks the rest.
type Dispatcher struct {
	db     *gorm.DB
	mailer Mailer
}

func NewDispatcher(db *gorm.DB, mailer Mailer) *Dispatcher {
	return &Dispatcher{db: db, mailer: mailer}
}

func (d *Dispatcher) SignalementCreated(ctx context.Context, s *models.Signalement) {
	var staff []models.User
	if err := d.db.Where("role = ?", models.RoleStaff).Find(&staff).Error; err != nil {
		slog.Error("failed to fetch staff for notification", "signalement_id", s.ID, "error", err)
		return
	}

	urgent := IsUrgent(s)
	subject := "New signalement"
	if urgent {
		subject = "URGENT: " + subject
	}
	body := buildBody(s, urgent)

	sent := 0
	for _, member := range staff {
		if member.Email == "" {
			slog.Warn("staff member has no email, skipping notification",
				"user_id", member.ID, "signalement_id", s.ID)
			continue
		}
		err := d.mailer.Send(ctx, Message{
			To:      member.Email,
			Subject: subject,
			Body:    body,
			Urgent:  urgent,
		})
		if err != nil {
			slog.Error("failed to send notification",
				"to", member.Email, "signalement_id", s.ID, "error", err)
			continue
		}
		sent++
	}

	slog.Info("signalement notifications dispatched",
		"signalement_id", s.ID, "urgent", urgent, "staff", len(staff), "sent", sent)
}

func buildBody(s *models.Signalement, urgent bool) string {
	attention := "as soon as possible"
	if urgent {
		attention = "with priority"
	}
	return fmt.Sprintf(
		"Hello,\n\nA new signalement (ID: %s) has been filed and needs your attention.\n\n"+
			"Category: %s\nPlace: %s\n\nPlease handle this signalement %s.\n\n"+
			"Signalement management system",
		s.ID, models.CategoryLabel(s.Category), s.Place, attention,
	)
}
