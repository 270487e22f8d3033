package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

const (
	reportsTable        = "user_reports"
	defaultReportsLimit = 20
)

var (
	reportEmbeds        = []string{"reporter", "reported_user"}
	reportSearchColumns = []string{"title", "description", "category"}
)

// ReportFilter параметры списка жалоб.
type ReportFilter struct {
	Status         string
	Severity       string
	ReportType     string
	ReportedUserID *uuid.UUID
	ReporterID     *uuid.UUID
	Search         string
}

// CreateReportParams данные новой жалобы.
type CreateReportParams struct {
	ReporterID     uuid.UUID
	ReportedUserID uuid.UUID
	ReportType     string
	Category       *string
	Title          string
	Description    *string
	Severity       string
	EvidenceURLs   []string
	BookingID      *uuid.UUID
	JobID          *uuid.UUID
}

// ReportReview результат рассмотрения жалобы.
type ReportReview struct {
	Status     string
	AdminNotes *string
	Resolution *string
	ReviewedBy *uuid.UUID
	ReviewedAt time.Time
}

// ReportRepository работает с таблицей user_reports.
type ReportRepository struct {
	gw *common.Gateway
}

func NewReportRepository(gw *common.Gateway) *ReportRepository {
	return &ReportRepository{gw: gw}
}

func (r *ReportRepository) Create(ctx context.Context, in CreateReportParams) (*models.UserReport, error) {
	evidence := in.EvidenceURLs
	if evidence == nil {
		evidence = []string{}
	}
	report, err := common.Insert[models.UserReport](ctx, r.gw, reportsTable, map[string]interface{}{
		"reporter_id":      in.ReporterID,
		"reported_user_id": in.ReportedUserID,
		"report_type":      in.ReportType,
		"category":         in.Category,
		"title":            in.Title,
		"description":      in.Description,
		"severity":         in.Severity,
		"status":           models.ReportStatusPending,
		"evidence_urls":    pq.StringArray(evidence),
		"booking_id":       in.BookingID,
		"job_id":           in.JobID,
	})
	if err != nil {
		return nil, mapErr(err, "report repository: create", nil)
	}
	return report, nil
}

// GetByID возвращает жалобу с карточками автора и обвиняемого.
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserReport, error) {
	report, err := findOneEmbedded(ctx, r.gw, reportsTable, common.Where(common.Eq("id", id)), reportEmbeds, reportUserRefs)
	if err != nil {
		return nil, mapErr(err, "report repository: get by id", apperror.ErrReportNotFound)
	}
	return report, nil
}

// List возвращает страницу жалоб, новые первыми.
func (r *ReportRepository) List(ctx context.Context, f ReportFilter, page, limit int) (common.ListResult[models.UserReport], error) {
	p := common.NewPage(page, limit, defaultReportsLimit)

	filter := common.Where(common.Search(f.Search, reportSearchColumns...))
	if f.Status != "" {
		filter = filter.And(common.Eq("status", f.Status))
	}
	if f.Severity != "" {
		filter = filter.And(common.Eq("severity", f.Severity))
	}
	if f.ReportType != "" {
		filter = filter.And(common.Eq("report_type", f.ReportType))
	}
	if f.ReportedUserID != nil {
		filter = filter.And(common.Eq("reported_user_id", *f.ReportedUserID))
	}
	if f.ReporterID != nil {
		filter = filter.And(common.Eq("reporter_id", *f.ReporterID))
	}

	reports, total, err := findEmbedded(ctx, r.gw, reportsTable, filter, common.Options{
		OrderBy: []common.Order{common.Desc("created_at")},
		Offset:  p.Offset(),
		Limit:   p.Limit,
		Count:   true,
		Embed:   reportEmbeds,
	}, reportUserRefs)
	if err != nil {
		return common.ListResult[models.UserReport]{}, mapErr(err, "report repository: list", nil)
	}
	return common.Result(reports, total, p), nil
}

// UpdateStatus записывает решение по жалобе. reviewed_by и reviewed_at ставятся только вместе.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, review ReportReview) (*models.UserReport, error) {
	patch := map[string]interface{}{
		"status":     review.Status,
		"updated_at": review.ReviewedAt,
	}
	if review.AdminNotes != nil {
		patch["admin_notes"] = *review.AdminNotes
	}
	if review.Resolution != nil {
		patch["resolution"] = *review.Resolution
	}
	if review.ReviewedBy != nil {
		patch["reviewed_by"] = *review.ReviewedBy
		patch["reviewed_at"] = review.ReviewedAt
	}

	report, err := common.Update[models.UserReport](ctx, r.gw, reportsTable, common.Where(common.Eq("id", id)), patch)
	if err != nil {
		return nil, mapErr(err, "report repository: update status", apperror.ErrReportNotFound)
	}
	return report, nil
}
