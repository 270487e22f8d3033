package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

const maxEvidenceURLs = 10

// ReportStore описывает зависимости ReportService от хранилища.
type ReportStore interface {
	Create(ctx context.Context, in repository.CreateReportParams) (*models.UserReport, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserReport, error)
	List(ctx context.Context, f repository.ReportFilter, page, limit int) (common.ListResult[models.UserReport], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, review repository.ReportReview) (*models.UserReport, error)
}

// UserLookup проверяет существование пользователя.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CreateReportInput жалоба от пользователя.
type CreateReportInput struct {
	ReportedUserID uuid.UUID
	ReportType     string
	Category       string
	Title          string
	Description    string
	Severity       string
	EvidenceURLs   []string
	BookingID      *uuid.UUID
	JobID          *uuid.UUID
}

// ReportStatusInput решение администратора по жалобе.
type ReportStatusInput struct {
	Status     string
	AdminNotes string
	Resolution string
}

type ReportService struct {
	reports  ReportStore
	users    UserLookup
	audit    AuditRecorder
	observer ModerationObserver
	now      func() time.Time
}

func NewReportService(reports ReportStore, users UserLookup, audit AuditRecorder, observer ModerationObserver) *ReportService {
	return &ReportService{
		reports:  reports,
		users:    users,
		audit:    audit,
		observer: observerOrNoop(observer),
		now:      time.Now,
	}
}

// Create сохраняет жалобу. Пожаловаться на самого себя нельзя.
func (s *ReportService) Create(ctx context.Context, reporter models.Actor, in CreateReportInput) (*models.UserReport, error) {
	if in.ReportedUserID == uuid.Nil {
		return nil, apperror.Validation("reported_user_id is required")
	}
	if in.ReportedUserID == reporter.ID {
		return nil, apperror.Validation("cannot report yourself")
	}
	if _, ok := models.ValidReportTypes[in.ReportType]; !ok {
		return nil, apperror.Validation(fmt.Sprintf("invalid report type: %s", in.ReportType))
	}
	severity := in.Severity
	if severity == "" {
		severity = models.SeverityMedium
	}
	if _, ok := models.ValidSeverities[severity]; !ok {
		return nil, apperror.Validation(fmt.Sprintf("invalid severity: %s", severity))
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.Validation("title is required")
	}
	evidence, err := normalizeEvidence(in.EvidenceURLs)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, in.ReportedUserID); err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NotFound("reported user not found")
		}
		return nil, err
	}

	return s.reports.Create(ctx, repository.CreateReportParams{
		ReporterID:     reporter.ID,
		ReportedUserID: in.ReportedUserID,
		ReportType:     in.ReportType,
		Category:       optionalString(strings.TrimSpace(in.Category)),
		Title:          title,
		Description:    optionalString(strings.TrimSpace(in.Description)),
		Severity:       severity,
		EvidenceURLs:   evidence,
		BookingID:      in.BookingID,
		JobID:          in.JobID,
	})
}

func (s *ReportService) List(ctx context.Context, f repository.ReportFilter, page, limit int) (common.ListResult[models.UserReport], error) {
	return s.reports.List(ctx, f, page, limit)
}

func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*models.UserReport, error) {
	return s.reports.GetByID(ctx, id)
}

// UpdateStatus фиксирует решение и отметку о рассмотрении.
func (s *ReportService) UpdateStatus(ctx context.Context, actor models.Actor, id uuid.UUID, in ReportStatusInput) (*models.UserReport, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if _, ok := models.ValidReportStatuses[in.Status]; !ok {
		return nil, apperror.Validation(fmt.Sprintf("invalid report status: %s", in.Status))
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	review := repository.ReportReview{
		Status:     in.Status,
		AdminNotes: optionalString(strings.TrimSpace(in.AdminNotes)),
		Resolution: optionalString(strings.TrimSpace(in.Resolution)),
		ReviewedAt: s.now().UTC(),
	}
	if in.Status != models.ReportStatusPending {
		review.ReviewedBy = &actor.ID
	}

	_, err = s.reports.UpdateStatus(ctx, id, review)
	s.observer.ObserveTransition("report", in.Status, outcome(err))
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		AdminID:  actor.ID,
		Action:   models.AuditUpdateReportStatus,
		TargetID: id.String(),
		Metadata: models.JSONMap{
			"from":             report.Status,
			"to":               in.Status,
			"reported_user_id": report.ReportedUserID.String(),
			"resolution":       strings.TrimSpace(in.Resolution),
		},
	})
	return s.reports.GetByID(ctx, id)
}

func normalizeEvidence(urls []string) ([]string, error) {
	if len(urls) > maxEvidenceURLs {
		return nil, apperror.Validation(fmt.Sprintf("too many evidence urls, max %d", maxEvidenceURLs))
	}
	out := make([]string, 0, len(urls))
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, apperror.Validation(fmt.Sprintf("invalid evidence url: %s", raw))
		}
		out = append(out, raw)
	}
	return out, nil
}
