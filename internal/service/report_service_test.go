package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
)

func TestReportService_CreateDefaultsSeverity(t *testing.T) {
	reports := new(mockReportStore)
	users := new(mockUserStore)
	svc := NewReportService(reports, users, &recordingAudit{}, nil)

	reported := uuid.New()
	users.On("GetByID", mock.Anything, reported).Return(&models.User{ID: reported}, nil)
	reports.On("Create", mock.Anything, mock.MatchedBy(func(p repository.CreateReportParams) bool {
		return p.Severity == models.SeverityMedium && p.ReporterID == parentActor.ID &&
			p.Title == "Late again" && len(p.EvidenceURLs) == 1
	})).Return(&models.UserReport{ID: uuid.New(), Status: models.ReportStatusPending}, nil)

	report, err := svc.Create(context.Background(), parentActor, CreateReportInput{
		ReportedUserID: reported,
		ReportType:     models.ReportTypeNoShow,
		Title:          "  Late again ",
		EvidenceURLs:   []string{"https://files.example.com/1.png", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, report.Status)
	reports.AssertExpectations(t)
}

func TestReportService_CreateValidation(t *testing.T) {
	svc := NewReportService(new(mockReportStore), new(mockUserStore), &recordingAudit{}, nil)
	ctx := context.Background()
	other := uuid.New()

	tests := []struct {
		name string
		in   CreateReportInput
	}{
		{"self report", CreateReportInput{ReportedUserID: parentActor.ID, ReportType: models.ReportTypeFraud, Title: "t"}},
		{"unknown type", CreateReportInput{ReportedUserID: other, ReportType: "spam", Title: "t"}},
		{"unknown severity", CreateReportInput{ReportedUserID: other, ReportType: models.ReportTypeFraud, Severity: "extreme", Title: "t"}},
		{"empty title", CreateReportInput{ReportedUserID: other, ReportType: models.ReportTypeFraud, Title: " "}},
		{"bad evidence", CreateReportInput{ReportedUserID: other, ReportType: models.ReportTypeFraud, Title: "t", EvidenceURLs: []string{"ftp://x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, parentActor, tt.in)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}

func TestReportService_CreateUnknownReportedUser(t *testing.T) {
	users := new(mockUserStore)
	svc := NewReportService(new(mockReportStore), users, &recordingAudit{}, nil)

	reported := uuid.New()
	users.On("GetByID", mock.Anything, reported).Return(nil, apperror.ErrUserNotFound)

	_, err := svc.Create(context.Background(), parentActor, CreateReportInput{ReportedUserID: reported, ReportType: models.ReportTypeOther, Title: "t"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestReportService_UpdateStatusStampsReview(t *testing.T) {
	reports := new(mockReportStore)
	audit := &recordingAudit{}
	svc := NewReportService(reports, new(mockUserStore), audit, nil)
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	id := uuid.New()
	reports.On("GetByID", mock.Anything, id).Return(&models.UserReport{ID: id, Status: models.ReportStatusPending}, nil)
	reports.On("UpdateStatus", mock.Anything, id, repository.ReportReview{
		Status:     models.ReportStatusResolved,
		Resolution: strPtr("warning issued"),
		ReviewedBy: &adminActor.ID,
		ReviewedAt: now,
	}).Return(&models.UserReport{ID: id, Status: models.ReportStatusResolved}, nil)

	_, err := svc.UpdateStatus(context.Background(), adminActor, id, ReportStatusInput{Status: models.ReportStatusResolved, Resolution: "warning issued"})
	require.NoError(t, err)
	assert.Equal(t, []string{models.AuditUpdateReportStatus}, audit.actions())
	reports.AssertExpectations(t)
}

func TestReportService_UpdateStatusRejectsUnknown(t *testing.T) {
	reports := new(mockReportStore)
	svc := NewReportService(reports, new(mockUserStore), &recordingAudit{}, nil)

	_, err := svc.UpdateStatus(context.Background(), adminActor, uuid.New(), ReportStatusInput{Status: "closed"})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.UpdateStatus(context.Background(), parentActor, uuid.New(), ReportStatusInput{Status: models.ReportStatusResolved})
	assert.True(t, apperror.IsForbidden(err))
}
