package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/Sylvain-Z/signalcampus-backend/internal/dto"
	"github.com/Sylvain-Z/signalcampus-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu      sync.Mutex
	created []models.Signalement
	done    chan struct{}
}

func newRecordingNotifier(expected int) *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, expected)}
}

func (r *recordingNotifier) SignalementCreated(_ context.Context, s *models.Signalement) {
	r.mu.Lock()
	r.created = append(r.created, *s)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func seedReporter(t *testing.T, db *gorm.DB, login string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&models.User{
		ID:    id,
		Login: login,
		Role:  models.RoleReporter,
	}).Error)
	return id
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestCreateSignalementDefaultsAndDispatch(t *testing.T) {
	db := testDB(t)
	owner := seedReporter(t, db, "alice")
	notifier := newRecordingNotifier(1)
	svc := NewSignalementService(db, notifier, uuid.Nil)

	created, err := svc.Create(owner, &dto.CreateSignalementRequest{
		Place:            "cafeteria",
		ReportingContent: "description",
	})
	require.NoError(t, err)
	require.Equal(t, owner, created.UserID)
	require.Equal(t, models.CategoryUnspecified, created.Category)
	require.False(t, created.IsProcessed)
	require.False(t, created.Hours.IsZero())

	<-notifier.done
	require.Len(t, notifier.created, 1)
	require.Equal(t, created.ID, notifier.created[0].ID)
}

func TestCreateSignalementValidation(t *testing.T) {
	db := testDB(t)
	owner := seedReporter(t, db, "alice")
	svc := NewSignalementService(db, nil, uuid.Nil)

	_, err := svc.Create(owner, &dto.CreateSignalementRequest{Place: "  "})
	require.True(t, errors.Is(err, ErrValidation))

	_, err = svc.Create(owner, &dto.CreateSignalementRequest{Place: "yard", Category: intPtr(9)})
	require.True(t, errors.Is(err, ErrValidation))
}

func TestPhotosRoundTripPreservesOrder(t *testing.T) {
	db := testDB(t)
	owner := seedReporter(t, db, "alice")
	svc := NewSignalementService(db, nil, uuid.Nil)

	photos := []string{"ref-3", "ref-1", "ref-2"}
	created, err := svc.Create(owner, &dto.CreateSignalementRequest{
		Place:  "stairs",
		Photos: photos,
	})
	require.NoError(t, err)

	fetched, err := svc.Get(created.ID)
	require.NoError(t, err)

	var got []string
	require.NoError(t, json.Unmarshal(fetched.Photos, &got))
	require.Equal(t, photos, got)
}

func TestCreateUrgentAttributedToSystemReporter(t *testing.T) {
	db := testDB(t)
	system := seedReporter(t, db, models.SystemReporterLogin)
	notifier := newRecordingNotifier(1)
	svc := NewSignalementService(db, notifier, system)

	created, err := svc.CreateUrgent(&dto.CreateUrgentRequest{
		Latitude:  floatPtr(48.8566),
		Longitude: floatPtr(2.3522),
	})
	require.NoError(t, err)
	require.Equal(t, system, created.UserID)
	require.True(t, created.IsUrgent)
	require.Equal(t, models.CategoryUnspecified, created.Category)
	require.Equal(t, "Geolocated", created.Place)
	require.Equal(t, "Unspecified", created.Locality)

	<-notifier.done
	require.Len(t, notifier.created, 1)
	require.True(t, notifier.created[0].IsUrgent)
}

func TestListFilters(t *testing.T) {
	db := testDB(t)
	owner := seedReporter(t, db, "alice")
	svc := NewSignalementService(db, nil, uuid.Nil)

	a, err := svc.Create(owner, &dto.CreateSignalementRequest{Place: "a", Category: intPtr(models.CategoryPhysical)})
	require.NoError(t, err)
	_, err = svc.Create(owner, &dto.CreateSignalementRequest{Place: "b", Category: intPtr(models.CategoryCyber)})
	require.NoError(t, err)
	require.NoError(t, svc.MarkProcessed(a.ID))

	all, err := svc.List(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	physical, err := svc.List(&dto.SignalementFilter{Category: intPtr(models.CategoryPhysical)})
	require.NoError(t, err)
	require.Len(t, physical, 1)
	require.Equal(t, a.ID, physical[0].ID)

	unprocessed, err := svc.List(&dto.SignalementFilter{IsProcessed: boolPtr(false)})
	require.NoError(t, err)
	require.Len(t, unprocessed, 1)
	require.Equal(t, "b", unprocessed[0].Place)

	both, err := svc.List(&dto.SignalementFilter{
		Category:    intPtr(models.CategoryPhysical),
		IsProcessed: boolPtr(true),
	})
	require.NoError(t, err)
	require.Len(t, both, 1)
}

func TestUpdateNeverReassignsOwner(t *testing.T) {
	db := testDB(t)
	owner := seedReporter(t, db, "alice")
	svc := NewSignalementService(db, nil, uuid.Nil)

	created, err := svc.Create(owner, &dto.CreateSignalementRequest{Place: "yard"})
	require.NoError(t, err)

	err = svc.Update(created.ID, &dto.UpdateSignalementRequest{
		Place:             strPtr("playground"),
		PersonnelComments: strPtr("under review"),
	})
	require.NoError(t, err)

	fetched, err := svc.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, owner, fetched.UserID)
	require.Equal(t, "playground", fetched.Place)
	require.Equal(t, "under review", fetched.PersonnelComments)
}

func TestUpdateUnknownIDReturnsNotFound(t *testing.T) {
	db := testDB(t)
	svc := NewSignalementService(db, nil, uuid.Nil)

	err := svc.Update(uuid.New(), &dto.UpdateSignalementRequest{Place: strPtr("x")})
	require.True(t, errors.Is(err, ErrSignalementNotFound))
}

func TestUpdateEmptyPayloadIsValidationError(t *testing.T) {
	db := testDB(t)
	svc := NewSignalementService(db, nil, uuid.Nil)

	err := svc.Update(uuid.New(), &dto.UpdateSignalementRequest{})
	require.True(t, errors.Is(err, ErrValidation))
}

func TestMarkProcessedIsIdempotent(t *testing.T) {
	db := testDB(t)
	owner := seedReporter(t, db, "alice")
	svc := NewSignalementService(db, nil, uuid.Nil)

	created, err := svc.Create(owner, &dto.CreateSignalementRequest{Place: "yard"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkProcessed(created.ID))
	require.NoError(t, svc.MarkProcessed(created.ID))

	fetched, err := svc.Get(created.ID)
	require.NoError(t, err)
	require.True(t, fetched.IsProcessed)
}

func TestMarkProcessedUnknownID(t *testing.T) {
	db := testDB(t)
	svc := NewSignalementService(db, nil, uuid.Nil)

	err := svc.MarkProcessed(uuid.New())
	require.True(t, errors.Is(err, ErrSignalementNotFound))
}

func TestDeleteUnknownIDReturnsNotFound(t *testing.T) {
	db := testDB(t)
	svc := NewSignalementService(db, nil, uuid.Nil)

	err := svc.Delete(uuid.New())
	require.True(t, errors.Is(err, ErrSignalementNotFound))
}

func TestListByOwner(t *testing.T) {
	db := testDB(t)
	alice := seedReporter(t, db, "alice")
	bob := seedReporter(t, db, "bob")
	svc := NewSignalementService(db, nil, uuid.Nil)

	_, err := svc.Create(alice, &dto.CreateSignalementRequest{Place: "a"})
	require.NoError(t, err)
	_, err = svc.Create(bob, &dto.CreateSignalementRequest{Place: "b"})
	require.NoError(t, err)

	mine, err := svc.ListByOwner(alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, alice, mine[0].UserID)
}
