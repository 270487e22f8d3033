package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/domain/valueobject"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

// JobStore описывает зависимости JobService от хранилища.
type JobStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	GetByIDDetailed(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, f repository.JobFilter, page, limit int) (common.ListResult[models.Job], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Job, error)
	Update(ctx context.Context, id uuid.UUID, patch repository.JobPatch) (*models.Job, error)
}

// JobUpdateInput изменения вакансии из PATCH запроса.
// Status пустой, если статус менять не нужно.
type JobUpdateInput struct {
	Patch  repository.JobPatch
	Status string
	Reason string
}

// JobService модерация вакансий.
type JobService struct {
	jobs        JobStore
	transitions valueobject.JobTransitions
	audit       AuditRecorder
	observer    ModerationObserver
}

func NewJobService(jobs JobStore, transitions valueobject.JobTransitions, audit AuditRecorder, observer ModerationObserver) *JobService {
	return &JobService{
		jobs:        jobs,
		transitions: transitions,
		audit:       audit,
		observer:    observerOrNoop(observer),
	}
}

func (s *JobService) List(ctx context.Context, f repository.JobFilter, page, limit int) (common.ListResult[models.Job], error) {
	return s.jobs.List(ctx, f, page, limit)
}

func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return s.jobs.GetByIDDetailed(ctx, id)
}

// Transition выполняет действие над вакансией по таблице переходов.
func (s *JobService) Transition(ctx context.Context, actor models.Actor, id uuid.UUID, action valueobject.JobAction, reason string) (*models.Job, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tr, err := s.transitions.Resolve(action, job.Status)
	if err != nil {
		s.observer.ObserveTransition("job", string(action), outcome(err))
		return nil, err
	}

	if err := s.apply(ctx, actor, job, action, tr, reason); err != nil {
		return nil, err
	}
	return s.jobs.GetByIDDetailed(ctx, id)
}

// Update меняет поля вакансии и, если указан статус, переводит её через подходящее действие.
func (s *JobService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in JobUpdateInput) (*models.Job, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if err := validateJobPatch(in.Patch); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Переход проверяется до любой записи: недопустимый статус не меняет ни полей, ни журнала.
	var (
		action valueobject.JobAction
		tr     valueobject.Transition
	)
	changeStatus := in.Status != "" && valueobject.NormalizeJobStatus(in.Status) != job.Status
	if changeStatus {
		action, tr, err = s.transitions.ResolveTarget(job.Status, in.Status)
		if err != nil {
			s.observer.ObserveTransition("job", "update", outcome(err))
			return nil, err
		}
	}

	if fields := jobPatchFields(in.Patch); len(fields) > 0 {
		if _, err := s.jobs.Update(ctx, id, in.Patch); err != nil {
			return nil, err
		}
		s.audit.Record(ctx, AuditEntry{
			AdminID:  actor.ID,
			Action:   models.AuditUpdateJob,
			TargetID: id.String(),
			Metadata: models.JSONMap{"fields": fields},
		})
	}

	if changeStatus {
		if err := s.apply(ctx, actor, job, action, tr, in.Reason); err != nil {
			return nil, err
		}
	}

	return s.jobs.GetByIDDetailed(ctx, id)
}

// apply записывает статус при условии, что он не изменился с момента чтения, и пишет аудит.
func (s *JobService) apply(ctx context.Context, actor models.Actor, job *models.Job, action valueobject.JobAction, tr valueobject.Transition, reason string) error {
	_, err := s.jobs.UpdateStatus(ctx, job.ID, job.Status, tr.Target)
	s.observer.ObserveTransition("job", string(action), outcome(err))
	if err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		AdminID:  actor.ID,
		Action:   action.AuditAction(),
		TargetID: job.ID.String(),
		Metadata: models.JSONMap{"from": job.Status, "to": tr.Target, "reason": reason},
	})
	return nil
}

func validateJobPatch(p repository.JobPatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return apperror.Validation("title cannot be empty")
	}
	if err := valueobject.ValidateAmount("budget", p.Budget); err != nil {
		return err
	}
	return valueobject.ValidateAmount("hourly_rate", p.HourlyRate)
}

func jobPatchFields(p repository.JobPatch) []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Location != nil {
		fields = append(fields, "location")
	}
	if p.Budget != nil {
		fields = append(fields, "budget")
	}
	if p.HourlyRate != nil {
		fields = append(fields, "hourly_rate")
	}
	if p.CaregiverID != nil {
		fields = append(fields, "caregiver_id")
	}
	return fields
}
