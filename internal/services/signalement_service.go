package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sylvain-Z/signalcampus-backend/internal/dto"
	"github.com/Sylvain-Z/signalcampus-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrSignalementNotFound = errors.New("signalement not found")

// Notifier receives the creation side-effect. Dispatch runs detached from
// the request; its failures never reach the HTTP response.
type Notifier interface {
	SignalementCreated(ctx context.Context, s *models.Signalement)
}

type SignalementService struct {
	db             *gorm.DB
	notifier       Notifier
	systemReporter uuid.UUID
}

func NewSignalementService(db *gorm.DB, notifier Notifier, systemReporter uuid.UUID) *SignalementService {
	return &SignalementService{db: db, notifier: notifier, systemReporter: systemReporter}
}

// Create files a signalement owned by ownerID and kicks off staff
// notification in the background once the record is durably stored.
func (s *SignalementService) Create(ownerID uuid.UUID, req *dto.CreateSignalementRequest) (*models.Signalement, error) {
	if strings.TrimSpace(req.Place) == "" {
		return nil, fmt.Errorf("%w: place is required", ErrValidation)
	}

	category := models.CategoryUnspecified
	if req.Category != nil {
		if !models.ValidCategory(*req.Category) {
			return nil, fmt.Errorf("%w: invalid category", ErrValidation)
		}
		category = *req.Category
	}

	signalement := models.Signalement{
		ID:               uuid.New(),
		UserID:           ownerID,
		Category:         category,
		Hours:            time.Now(),
		Place:            req.Place,
		ReportingContent: req.ReportingContent,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Locality:         req.Locality,
	}

	if len(req.Photos) > 0 {
		photos, err := json.Marshal(req.Photos)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid photos", ErrValidation)
		}
		signalement.Photos = datatypes.JSON(photos)
	}

	if err := s.db.Create(&signalement).Error; err != nil {
		return nil, fmt.Errorf("failed to create signalement: %w", err)
	}

	s.dispatch(&signalement)
	return &signalement, nil
}

// CreateUrgent files an anonymous signalement under the reserved system
// identity so that a distressed user can report without an account.
func (s *SignalementService) CreateUrgent(req *dto.CreateUrgentRequest) (*models.Signalement, error) {
	locality := req.Locality
	if locality == "" {
		locality = "Unspecified"
	}

	signalement := models.Signalement{
		ID:               uuid.New(),
		UserID:           s.systemReporter,
		Category:         models.CategoryUnspecified,
		Hours:            time.Now(),
		Place:            "Geolocated",
		ReportingContent: "Urgent signalement",
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Locality:         locality,
		IsUrgent:         true,
	}

	if err := s.db.Create(&signalement).Error; err != nil {
		return nil, fmt.Errorf("failed to create urgent signalement: %w", err)
	}

	s.dispatch(&signalement)
	return &signalement, nil
}

func (s *SignalementService) dispatch(signalement *models.Signalement) {
	if s.notifier == nil {
		return
	}
	created := *signalement
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("notification dispatch panicked", "signalement_id", created.ID, "panic", r)
			}
		}()
		s.notifier.SignalementCreated(context.Background(), &created)
	}()
}

func (s *SignalementService) List(filter *dto.SignalementFilter) ([]models.Signalement, error) {
	query := s.db.Model(&models.Signalement{})
	if filter != nil {
		if filter.Category != nil {
			query = query.Where("category = ?", *filter.Category)
		}
		if filter.IsProcessed != nil {
			query = query.Where("is_processed = ?", *filter.IsProcessed)
		}
	}

	var signalements []models.Signalement
	if err := query.Order("created_at DESC").Find(&signalements).Error; err != nil {
		return nil, err
	}
	return signalements, nil
}

func (s *SignalementService) Get(id uuid.UUID) (*models.Signalement, error) {
	var signalement models.Signalement
	if err := s.db.First(&signalement, "id = ?", id).Error; err != nil {
		return nil, ErrSignalementNotFound
	}
	return &signalement, nil
}

func (s *SignalementService) ListByOwner(ownerID uuid.UUID) ([]models.Signalement, error) {
	var signalements []models.Signalement
	if err := s.db.Where("user_id = ?", ownerID).Order("created_at DESC").Find(&signalements).Error; err != nil {
		return nil, err
	}
	return signalements, nil
}

// Update merges the supplied fields. The owner column is never part of the
// update set, whatever the request payload carried.
func (s *SignalementService) Update(id uuid.UUID, req *dto.UpdateSignalementRequest) error {
	updates := map[string]interface{}{}
	if req.Category != nil {
		if !models.ValidCategory(*req.Category) {
			return fmt.Errorf("%w: invalid category", ErrValidation)
		}
		updates["category"] = *req.Category
	}
	if req.Place != nil {
		updates["place"] = *req.Place
	}
	if req.ReportingContent != nil {
		updates["reporting_content"] = *req.ReportingContent
	}
	if req.Photos != nil {
		photos, err := json.Marshal(*req.Photos)
		if err != nil {
			return fmt.Errorf("%w: invalid photos", ErrValidation)
		}
		updates["photos"] = datatypes.JSON(photos)
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.Locality != nil {
		updates["locality"] = *req.Locality
	}
	if req.IsUrgent != nil {
		updates["is_urgent"] = *req.IsUrgent
	}
	if req.PersonnelComments != nil {
		updates["personnel_comments"] = *req.PersonnelComments
	}
	if len(updates) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	result := s.db.Model(&models.Signalement{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSignalementNotFound
	}
	return nil
}

func (s *SignalementService) Delete(id uuid.UUID) error {
	result := s.db.Where("id = ?", id).Delete(&models.Signalement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSignalementNotFound
	}
	return nil
}

// MarkProcessed sets the processed flag. Repeating the call on an already
// processed signalement succeeds again; the transition is one-way.
func (s *SignalementService) MarkProcessed(id uuid.UUID) error {
	result := s.db.Model(&models.Signalement{}).Where("id = ?", id).
		Update("is_processed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSignalementNotFound
	}
	return nil
}
