package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/domain/valueobject"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

const (
	jobsTable        = "jobs"
	defaultJobsLimit = 10
)

var (
	jobEmbeds        = []string{"parent", "caregiver"}
	jobSearchColumns = []string{"title", "description", "location"}
)

// JobFilter параметры списка вакансий.
type JobFilter struct {
	Status      string
	ParentID    *uuid.UUID
	CaregiverID *uuid.UUID
	Search      string
}

// CreateJobParams данные новой вакансии.
type CreateJobParams struct {
	Title       string
	Description *string
	Location    *string
	Budget      *float64
	HourlyRate  *float64
	ParentID    uuid.UUID
	Status      string
}

// JobPatch редактируемые администратором поля. nil означает "не менять".
type JobPatch struct {
	Title       *string
	Description *string
	Location    *string
	Budget      *float64
	HourlyRate  *float64
	CaregiverID *uuid.UUID
}

func (p JobPatch) values() map[string]interface{} {
	values := map[string]interface{}{}
	if p.Title != nil {
		values["title"] = *p.Title
	}
	if p.Description != nil {
		values["description"] = *p.Description
	}
	if p.Location != nil {
		values["location"] = *p.Location
	}
	if p.Budget != nil {
		values["budget"] = *p.Budget
	}
	if p.HourlyRate != nil {
		values["hourly_rate"] = *p.HourlyRate
	}
	if p.CaregiverID != nil {
		values["caregiver_id"] = *p.CaregiverID
	}
	return values
}

// JobRepository работает с таблицей jobs.
type JobRepository struct {
	gw *common.Gateway
}

func NewJobRepository(gw *common.Gateway) *JobRepository {
	return &JobRepository{gw: gw}
}

// Create сохраняет вакансию, переходные статусы приводятся к хранимым.
func (r *JobRepository) Create(ctx context.Context, in CreateJobParams) (*models.Job, error) {
	status := valueobject.NormalizeJobStatus(in.Status)
	if status == "" {
		status = models.JobStatusActive
	}
	job, err := common.Insert[models.Job](ctx, r.gw, jobsTable, map[string]interface{}{
		"title":       in.Title,
		"description": in.Description,
		"location":    in.Location,
		"budget":      in.Budget,
		"hourly_rate": in.HourlyRate,
		"parent_id":   in.ParentID,
		"status":      status,
	})
	if err != nil {
		return nil, mapErr(err, "job repository: create", nil)
	}
	return job, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := common.FindOne[models.Job](ctx, r.gw, jobsTable, common.Where(common.Eq("id", id)), common.Options{})
	if err != nil {
		return nil, mapErr(err, "job repository: get by id", apperror.ErrJobNotFound)
	}
	return job, nil
}

// GetByIDDetailed возвращает вакансию с карточками родителя и сиделки.
func (r *JobRepository) GetByIDDetailed(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := findOneEmbedded(ctx, r.gw, jobsTable, common.Where(common.Eq("id", id)), jobEmbeds, jobUserRefs)
	if err != nil {
		return nil, mapErr(err, "job repository: get detailed", apperror.ErrJobNotFound)
	}
	return job, nil
}

// List возвращает страницу вакансий, новые первыми.
func (r *JobRepository) List(ctx context.Context, f JobFilter, page, limit int) (common.ListResult[models.Job], error) {
	p := common.NewPage(page, limit, defaultJobsLimit)

	filter := common.Where(common.Search(f.Search, jobSearchColumns...))
	if f.Status != "" {
		filter = filter.And(common.Eq("status", valueobject.NormalizeJobStatus(f.Status)))
	}
	if f.ParentID != nil {
		filter = filter.And(common.Eq("parent_id", *f.ParentID))
	}
	if f.CaregiverID != nil {
		filter = filter.And(common.Eq("caregiver_id", *f.CaregiverID))
	}

	jobs, total, err := findEmbedded(ctx, r.gw, jobsTable, filter, common.Options{
		OrderBy: []common.Order{common.Desc("created_at")},
		Offset:  p.Offset(),
		Limit:   p.Limit,
		Count:   true,
		Embed:   jobEmbeds,
	}, jobUserRefs)
	if err != nil {
		return common.ListResult[models.Job]{}, mapErr(err, "job repository: list", nil)
	}
	return common.Result(jobs, total, p), nil
}

// UpdateStatus записывает статус, только если текущий всё ещё равен from.
func (r *JobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Job, error) {
	job, err := common.Update[models.Job](ctx, r.gw, jobsTable,
		common.Where(common.Eq("id", id), common.Eq("status", from)),
		map[string]interface{}{
			"status":     valueobject.NormalizeJobStatus(to),
			"updated_at": time.Now().UTC(),
		})
	if err != nil {
		return nil, mapCASErr(err, "job repository: update status")
	}
	return job, nil
}

// Update меняет редактируемые поля вакансии.
func (r *JobRepository) Update(ctx context.Context, id uuid.UUID, patch JobPatch) (*models.Job, error) {
	values := patch.values()
	if len(values) == 0 {
		return r.GetByID(ctx, id)
	}
	values["updated_at"] = time.Now().UTC()

	job, err := common.Update[models.Job](ctx, r.gw, jobsTable, common.Where(common.Eq("id", id)), values)
	if err != nil {
		return nil, mapErr(err, "job repository: update", apperror.ErrJobNotFound)
	}
	return job, nil
}
