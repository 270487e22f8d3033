package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/iyaya-backend/internal/domain/valueobject"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
)

func TestBookingService_CancelTwice(t *testing.T) {
	bookings := new(mockBookingStore)
	audit := &recordingAudit{}
	svc := NewBookingService(bookings, audit, nil)
	ctx := context.Background()

	id := uuid.New()
	bookings.On("GetByID", mock.Anything, id).Return(&models.Booking{ID: id, Status: models.BookingStatusPending}, nil).Once()
	bookings.On("UpdateStatus", mock.Anything, id, models.BookingStatusPending, models.BookingStatusCancelled).
		Return(&models.Booking{ID: id, Status: models.BookingStatusCancelled}, nil).Once()
	bookings.On("GetByIDDetailed", mock.Anything, id).Return(&models.Booking{ID: id, Status: models.BookingStatusCancelled}, nil).Once()

	booking, err := svc.Transition(ctx, adminActor, id, valueobject.BookingCancel, "")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
	assert.Equal(t, []string{"CANCEL_BOOKING"}, audit.actions())

	bookings.On("GetByID", mock.Anything, id).Return(&models.Booking{ID: id, Status: models.BookingStatusCancelled}, nil).Once()

	_, err = svc.Transition(ctx, adminActor, id, valueobject.BookingCancel, "")
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidTransition(err))
	assert.Len(t, audit.entries, 1)
	bookings.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestBookingService_StartOnlyAudits(t *testing.T) {
	bookings := new(mockBookingStore)
	audit := &recordingAudit{}
	svc := NewBookingService(bookings, audit, nil)

	id := uuid.New()
	bookings.On("GetByID", mock.Anything, id).Return(&models.Booking{ID: id, Status: models.BookingStatusConfirmed}, nil)
	bookings.On("GetByIDDetailed", mock.Anything, id).Return(&models.Booking{ID: id, Status: models.BookingStatusConfirmed}, nil)

	booking, err := svc.Transition(context.Background(), adminActor, id, valueobject.BookingStart, "")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, []string{models.AuditStartBooking}, audit.actions())
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_StartRequiresConfirmed(t *testing.T) {
	bookings := new(mockBookingStore)
	audit := &recordingAudit{}
	svc := NewBookingService(bookings, audit, nil)

	id := uuid.New()
	bookings.On("GetByID", mock.Anything, id).Return(&models.Booking{ID: id, Status: models.BookingStatusPending}, nil)

	_, err := svc.Transition(context.Background(), adminActor, id, valueobject.BookingStart, "")
	assert.True(t, apperror.IsInvalidTransition(err))
	assert.Empty(t, audit.entries)
}

func TestBookingService_UpdateRejectsInvertedInterval(t *testing.T) {
	bookings := new(mockBookingStore)
	svc := NewBookingService(bookings, &recordingAudit{}, nil)

	id := uuid.New()
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	bookings.On("GetByID", mock.Anything, id).Return(&models.Booking{ID: id, Status: models.BookingStatusPending, StartTime: &start}, nil)

	end := start.Add(-time.Hour)
	_, err := svc.Update(context.Background(), adminActor, id, BookingUpdateInput{Patch: repository.BookingPatch{EndTime: &end}})
	assert.True(t, apperror.IsValidation(err))
	bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_UpdateStatusByTarget(t *testing.T) {
	bookings := new(mockBookingStore)
	audit := &recordingAudit{}
	svc := NewBookingService(bookings, audit, nil)

	id := uuid.New()
	bookings.On("GetByID", mock.Anything, id).Return(&models.Booking{ID: id, Status: models.BookingStatusConfirmed}, nil)
	bookings.On("UpdateStatus", mock.Anything, id, models.BookingStatusConfirmed, models.BookingStatusCompleted).
		Return(&models.Booking{ID: id, Status: models.BookingStatusCompleted}, nil)
	bookings.On("GetByIDDetailed", mock.Anything, id).Return(&models.Booking{ID: id, Status: models.BookingStatusCompleted}, nil)

	_, err := svc.Update(context.Background(), adminActor, id, BookingUpdateInput{Status: models.BookingStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, []string{"COMPLETE_BOOKING"}, audit.actions())
}

func TestBookingService_UpdateWithDisallowedStatusWritesNothing(t *testing.T) {
	bookings := new(mockBookingStore)
	audit := &recordingAudit{}
	svc := NewBookingService(bookings, audit, nil)

	id := uuid.New()
	notes := "moved to Saturday"
	bookings.On("GetByID", mock.Anything, id).Return(&models.Booking{ID: id, Status: models.BookingStatusCancelled}, nil)

	_, err := svc.Update(context.Background(), adminActor, id, BookingUpdateInput{Patch: repository.BookingPatch{Notes: &notes}, Status: models.BookingStatusConfirmed})
	assert.True(t, apperror.IsInvalidTransition(err))

	_, err = svc.Update(context.Background(), adminActor, id, BookingUpdateInput{Patch: repository.BookingPatch{Notes: &notes}, Status: "bogus"})
	assert.True(t, apperror.IsValidation(err))

	bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, audit.entries)
}
