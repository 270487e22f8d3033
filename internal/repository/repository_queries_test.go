package repository

import (
	"context"
	"database/sql/driver"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

func TestJobRepository_CreateStoresNormalizedStatus(t *testing.T) {
	parentID := uuid.New()
	db := &cannedDB{tables: map[string]cannedRows{
		"jobs": {
			columns: []string{"id", "title", "parent_id", "status"},
			values:  [][]driver.Value{{uuid.NewString(), "Weekend nanny", parentID.String(), models.JobStatusActive}},
		},
	}}
	repo := NewJobRepository(newCannedGateway(t, db, common.DefaultRelations()))

	job, err := repo.Create(context.Background(), CreateJobParams{Title: "Weekend nanny", ParentID: parentID, Status: models.JobStatusPending})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusActive, job.Status)

	queries := db.executed()
	require.Len(t, queries, 1)
	assert.True(t, strings.HasPrefix(queries[0], "INSERT INTO jobs ("), queries[0])
	assert.Contains(t, db.lastArgs(), driver.Value(models.JobStatusActive))
	assert.NotContains(t, db.lastArgs(), driver.Value(models.JobStatusPending))
}

func TestPaymentRepository_CreateAndLookupByBooking(t *testing.T) {
	bookingID, parentID, caregiverID := uuid.New(), uuid.New(), uuid.New()
	db := &cannedDB{tables: map[string]cannedRows{
		"payments": {
			columns: []string{"id", "booking_id", "parent_id", "caregiver_id", "total_amount", "payment_status"},
			values: [][]driver.Value{{
				uuid.NewString(), bookingID.String(), parentID.String(), caregiverID.String(), 120.5, models.PaymentStatusPending,
			}},
		},
	}}
	repo := NewPaymentRepository(newCannedGateway(t, db, common.DefaultRelations()))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreatePaymentParams{BookingID: bookingID, ParentID: parentID, CaregiverID: caregiverID, TotalAmount: 120.5})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, created.PaymentStatus)
	assert.Contains(t, db.lastArgs(), driver.Value(models.PaymentStatusPending))

	found, err := repo.GetByBookingID(ctx, bookingID)
	require.NoError(t, err)
	assert.Equal(t, bookingID, found.BookingID)
	assert.Equal(t, 120.5, found.TotalAmount)

	last := db.executed()[len(db.executed())-1]
	assert.Contains(t, last, "src.booking_id = $1")
	assert.Equal(t, []driver.Value{bookingID.String()}, db.lastArgs())
}

func TestPaymentRepository_GetByBookingIDNotFound(t *testing.T) {
	db := &cannedDB{tables: map[string]cannedRows{
		"payments": {columns: []string{"id"}},
	}}
	repo := NewPaymentRepository(newCannedGateway(t, db, common.DefaultRelations()))

	_, err := repo.GetByBookingID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrPaymentNotFound)
}

func TestPaymentRepository_CreateProof(t *testing.T) {
	bookingID, uploader := uuid.New(), uuid.New()
	path, mime := "proofs/receipt.png", "image/png"
	db := &cannedDB{tables: map[string]cannedRows{
		"payment_proofs": {
			columns: []string{"id", "booking_id", "storage_path", "mime_type", "uploaded_by"},
			values:  [][]driver.Value{{uuid.NewString(), bookingID.String(), path, mime, uploader.String()}},
		},
	}}
	repo := NewPaymentRepository(newCannedGateway(t, db, common.DefaultRelations()))

	proof, err := repo.CreateProof(context.Background(), CreateProofParams{
		BookingID:   bookingID,
		StoragePath: &path,
		MimeType:    &mime,
		UploadedBy:  &uploader,
	})
	require.NoError(t, err)
	require.NotNil(t, proof.StoragePath)
	assert.Equal(t, path, *proof.StoragePath)
	require.NotNil(t, proof.UploadedBy)
	assert.Equal(t, uploader, *proof.UploadedBy)
	assert.Nil(t, proof.PublicURL)

	queries := db.executed()
	require.Len(t, queries, 1)
	assert.True(t, strings.HasPrefix(queries[0], "INSERT INTO payment_proofs ("), queries[0])
}

func TestUserRepository_GetByEmail(t *testing.T) {
	id := uuid.New()
	db := &cannedDB{tables: map[string]cannedRows{
		"users": {
			columns: []string{"id", "email", "name", "role", "status"},
			values:  [][]driver.Value{{id.String(), "mary@example.com", "Mary", models.RoleCaregiver, models.UserStatusActive}},
		},
	}}
	repo := NewUserRepository(newCannedGateway(t, db, common.DefaultRelations()))

	user, err := repo.GetByEmail(context.Background(), "mary@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Contains(t, db.executed()[0], "src.email = $1")
	assert.Equal(t, []driver.Value{"mary@example.com"}, db.lastArgs())

	empty := &cannedDB{tables: map[string]cannedRows{"users": {columns: []string{"id"}}}}
	repo = NewUserRepository(newCannedGateway(t, empty, common.DefaultRelations()))
	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}
