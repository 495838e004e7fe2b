package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lumina-app/lumina-backend/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func userRow(id uuid.UUID, tier string, uploaded int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "subscription_tier", "photos_uploaded"}).
		AddRow(id.String(), "u@example.com", tier, uploaded)
}

// unavailableStore fails every upload, standing in for an object store
// outage.
type unavailableStore struct{}

func (unavailableStore) UploadImage(context.Context, io.Reader) (string, error) {
	return "", errors.New("object store unavailable")
}

func (unavailableStore) UploadRemote(context.Context, string, string) (string, error) {
	return "", errors.New("object store unavailable")
}

// A free user at the ceiling gets no slot: the conditional update matches
// zero rows and the quota error comes back without any further writes.
func TestReserveUploadSlotAtCeiling(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPhotoService(db, nil, nil)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(userRow(userID, models.TierFree, 15))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := svc.reserveUploadSlot(userID)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveUploadSlotUnderCeiling(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPhotoService(db, nil, nil)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(userRow(userID, models.TierFree, 14))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.reserveUploadSlot(userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Yearly has no ceiling: the counter increments unconditionally, so even an
// absurd count reserves a slot.
func TestReserveUploadSlotYearlyUnbounded(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPhotoService(db, nil, nil)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(userRow(userID, models.TierYearly, 5000))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.reserveUploadSlot(userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitQuotaExceeded(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPhotoService(db, unavailableStore{}, nil)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(userRow(userID, models.TierFree, 15))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := svc.Submit(context.Background(), userID, strings.NewReader("img"))
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// When the object store upload fails before a photo row exists, the reserved
// slot is handed back with a compensating decrement.
func TestSubmitReleasesSlotWhenUploadFails(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPhotoService(db, unavailableStore{}, nil)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(userRow(userID, models.TierFree, 3))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := svc.Submit(context.Background(), userID, strings.NewReader("img"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrQuotaExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}
