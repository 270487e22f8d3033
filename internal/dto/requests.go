package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/repository"
	"github.com/ignatzorin/iyaya-backend/internal/service"
	"github.com/ignatzorin/iyaya-backend/internal/validation"
)

// PageQuery параметры пагинации. Некорректные значения нормализует репозиторий.
type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// UserListQuery фильтры списка пользователей.
type UserListQuery struct {
	PageQuery
	Role           string `form:"role"`
	Status         string `form:"status"`
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"include_deleted"`
}

func (q UserListQuery) Filter() repository.UserFilter {
	return repository.UserFilter{
		Role:           q.Role,
		Status:         q.Status,
		Search:         strings.TrimSpace(q.Search),
		IncludeDeleted: q.IncludeDeleted,
	}
}

// CreateUserRequest создание аккаунта администратором.
// ID передаётся, когда аккаунт уже заведён у провайдера авторизации.
type CreateUserRequest struct {
	ID    *string `json:"id" binding:"omitempty,uuid"`
	Email string  `json:"email" binding:"required"`
	Name  string  `json:"name" binding:"required"`
	Role  string  `json:"role"`
}

func (r CreateUserRequest) Input() (service.CreateUserInput, error) {
	if err := validation.ValidateName(r.Name); err != nil {
		return service.CreateUserInput{}, err
	}
	id, err := parseOptionalUUID("id", r.ID)
	if err != nil {
		return service.CreateUserInput{}, err
	}
	return service.CreateUserInput{ID: id, Email: r.Email, Name: r.Name, Role: r.Role}, nil
}

// UpdateUserStatusRequest смена статуса аккаунта.
type UpdateUserStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	Reason       string `json:"reason"`
	DurationDays int    `json:"duration_days"`
}

func (r UpdateUserStatusRequest) Options() (service.StatusOptions, error) {
	if err := validation.ValidateReason(r.Reason); err != nil {
		return service.StatusOptions{}, err
	}
	return service.StatusOptions{Reason: r.Reason, DurationDays: r.DurationDays}, nil
}

// BulkUserStatusRequest смена статуса нескольких аккаунтов.
type BulkUserStatusRequest struct {
	UserIDs      []string `json:"user_ids" binding:"required,min=1,dive,uuid"`
	Status       string   `json:"status" binding:"required"`
	Reason       string   `json:"reason"`
	DurationDays int      `json:"duration_days"`
}

func (r BulkUserStatusRequest) ParseUserIDs() ([]uuid.UUID, error) {
	return parseUUIDSlice(r.UserIDs)
}

func (r BulkUserStatusRequest) Options() (service.StatusOptions, error) {
	return UpdateUserStatusRequest{Reason: r.Reason, DurationDays: r.DurationDays}.Options()
}

// ChangeRoleRequest смена роли.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// DeleteUserRequest тело DELETE /users/:id, необязательное.
type DeleteUserRequest struct {
	Reason string `json:"reason"`
}

// JobListQuery фильтры списка вакансий.
type JobListQuery struct {
	PageQuery
	Status      string `form:"status"`
	ParentID    string `form:"parent_id" binding:"omitempty,uuid"`
	CaregiverID string `form:"caregiver_id" binding:"omitempty,uuid"`
	Search      string `form:"search"`
}

func (q JobListQuery) Filter() repository.JobFilter {
	return repository.JobFilter{
		Status:      q.Status,
		ParentID:    uuidOrNil(q.ParentID),
		CaregiverID: uuidOrNil(q.CaregiverID),
		Search:      strings.TrimSpace(q.Search),
	}
}

// UpdateJobRequest PATCH вакансии. Пустой status означает, что статус не меняется.
type UpdateJobRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	Budget      *float64 `json:"budget"`
	HourlyRate  *float64 `json:"hourly_rate"`
	CaregiverID *string  `json:"caregiver_id" binding:"omitempty,uuid"`
	Status      string   `json:"status"`
	Reason      string   `json:"reason"`
}

func (r UpdateJobRequest) Input() (service.JobUpdateInput, error) {
	if err := validation.ValidateJobTitle(r.Title); err != nil {
		return service.JobUpdateInput{}, err
	}
	if err := validation.ValidateOptional("description", r.Description, validation.MaxDescriptionLength); err != nil {
		return service.JobUpdateInput{}, err
	}
	if err := validation.ValidateOptional("location", r.Location, validation.MaxLocationLength); err != nil {
		return service.JobUpdateInput{}, err
	}
	if err := validation.ValidateReason(r.Reason); err != nil {
		return service.JobUpdateInput{}, err
	}
	caregiverID, err := parseOptionalUUID("caregiver_id", r.CaregiverID)
	if err != nil {
		return service.JobUpdateInput{}, err
	}

	return service.JobUpdateInput{
		Patch: repository.JobPatch{
			Title:       trimmed(r.Title),
			Description: r.Description,
			Location:    trimmed(r.Location),
			Budget:      r.Budget,
			HourlyRate:  r.HourlyRate,
			CaregiverID: caregiverID,
		},
		Status: r.Status,
		Reason: r.Reason,
	}, nil
}

// TransitionRequest тело action-эндпоинтов, необязательное.
type TransitionRequest struct {
	Reason string `json:"reason"`
}

// BookingListQuery фильтры списка бронирований. from/to в RFC 3339.
type BookingListQuery struct {
	PageQuery
	Status      string `form:"status"`
	ParentID    string `form:"parent_id" binding:"omitempty,uuid"`
	CaregiverID string `form:"caregiver_id" binding:"omitempty,uuid"`
	JobID       string `form:"job_id" binding:"omitempty,uuid"`
	UserID      string `form:"user_id" binding:"omitempty,uuid"`
	From        string `form:"from"`
	To          string `form:"to"`
}

func (q BookingListQuery) Filter() (repository.BookingFilter, error) {
	from, err := parseOptionalTime("from", q.From)
	if err != nil {
		return repository.BookingFilter{}, err
	}
	to, err := parseOptionalTime("to", q.To)
	if err != nil {
		return repository.BookingFilter{}, err
	}
	return repository.BookingFilter{
		Status:      q.Status,
		ParentID:    uuidOrNil(q.ParentID),
		CaregiverID: uuidOrNil(q.CaregiverID),
		JobID:       uuidOrNil(q.JobID),
		UserID:      uuidOrNil(q.UserID),
		From:        from,
		To:          to,
	}, nil
}

// UpdateBookingRequest PATCH бронирования.
type UpdateBookingRequest struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Notes     *string    `json:"notes"`
	Status    string     `json:"status"`
	Reason    string     `json:"reason"`
}

func (r UpdateBookingRequest) Input() (service.BookingUpdateInput, error) {
	if err := validation.ValidateOptional("notes", r.Notes, validation.MaxNotesLength); err != nil {
		return service.BookingUpdateInput{}, err
	}
	if err := validation.ValidateReason(r.Reason); err != nil {
		return service.BookingUpdateInput{}, err
	}
	return service.BookingUpdateInput{
		Patch:  repository.BookingPatch{StartTime: r.StartTime, EndTime: r.EndTime, Notes: r.Notes},
		Status: r.Status,
		Reason: r.Reason,
	}, nil
}

// PaymentListQuery фильтры списка оплат.
type PaymentListQuery struct {
	PageQuery
	Status      string `form:"status"`
	ParentID    string `form:"parent_id" binding:"omitempty,uuid"`
	CaregiverID string `form:"caregiver_id" binding:"omitempty,uuid"`
	BookingID   string `form:"booking_id" binding:"omitempty,uuid"`
}

func (q PaymentListQuery) Filter() repository.PaymentFilter {
	return repository.PaymentFilter{
		Status:      q.Status,
		ParentID:    uuidOrNil(q.ParentID),
		CaregiverID: uuidOrNil(q.CaregiverID),
		BookingID:   uuidOrNil(q.BookingID),
	}
}

// UpdatePaymentStatusRequest смена статуса оплаты.
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// RefundRequest возврат оплаты.
type RefundRequest struct {
	Reason string `json:"reason"`
}

// ReportListQuery фильтры списка жалоб.
type ReportListQuery struct {
	PageQuery
	Status         string `form:"status"`
	Severity       string `form:"severity"`
	ReportType     string `form:"report_type"`
	ReportedUserID string `form:"reported_user_id" binding:"omitempty,uuid"`
	ReporterID     string `form:"reporter_id" binding:"omitempty,uuid"`
	Search         string `form:"search"`
}

func (q ReportListQuery) Filter() repository.ReportFilter {
	return repository.ReportFilter{
		Status:         q.Status,
		Severity:       q.Severity,
		ReportType:     q.ReportType,
		ReportedUserID: uuidOrNil(q.ReportedUserID),
		ReporterID:     uuidOrNil(q.ReporterID),
		Search:         strings.TrimSpace(q.Search),
	}
}

// CreateReportRequest жалоба пользователя на другого пользователя.
type CreateReportRequest struct {
	ReportedUserID string   `json:"reported_user_id" binding:"required,uuid"`
	ReportType     string   `json:"report_type" binding:"required"`
	Category       string   `json:"category"`
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	Severity       string   `json:"severity"`
	EvidenceURLs   []string `json:"evidence_urls"`
	BookingID      *string  `json:"booking_id" binding:"omitempty,uuid"`
	JobID          *string  `json:"job_id" binding:"omitempty,uuid"`
}

func (r CreateReportRequest) Input() (service.CreateReportInput, error) {
	if err := validation.ValidateNotes("description", r.Description); err != nil {
		return service.CreateReportInput{}, err
	}
	reported, err := uuid.Parse(r.ReportedUserID)
	if err != nil {
		return service.CreateReportInput{}, fmt.Errorf("reported_user_id must be a valid UUID")
	}
	bookingID, err := parseOptionalUUID("booking_id", r.BookingID)
	if err != nil {
		return service.CreateReportInput{}, err
	}
	jobID, err := parseOptionalUUID("job_id", r.JobID)
	if err != nil {
		return service.CreateReportInput{}, err
	}
	return service.CreateReportInput{
		ReportedUserID: reported,
		ReportType:     r.ReportType,
		Category:       r.Category,
		Title:          r.Title,
		Description:    r.Description,
		Severity:       r.Severity,
		EvidenceURLs:   r.EvidenceURLs,
		BookingID:      bookingID,
		JobID:          jobID,
	}, nil
}

// UpdateReportStatusRequest решение администратора по жалобе.
type UpdateReportStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
	Resolution string `json:"resolution"`
}

func (r UpdateReportStatusRequest) Input() (service.ReportStatusInput, error) {
	if err := validation.ValidateNotes("admin_notes", r.AdminNotes); err != nil {
		return service.ReportStatusInput{}, err
	}
	if err := validation.ValidateNotes("resolution", r.Resolution); err != nil {
		return service.ReportStatusInput{}, err
	}
	return service.ReportStatusInput{Status: r.Status, AdminNotes: r.AdminNotes, Resolution: r.Resolution}, nil
}

// AuditListQuery фильтры журнала аудита.
type AuditListQuery struct {
	PageQuery
	Action   string `form:"action"`
	TargetID string `form:"target_id"`
	AdminID  string `form:"admin_id" binding:"omitempty,uuid"`
}

func (q AuditListQuery) Filter() repository.AuditFilter {
	return repository.AuditFilter{
		Action:   strings.TrimSpace(q.Action),
		TargetID: strings.TrimSpace(q.TargetID),
		AdminID:  uuidOrNil(q.AdminID),
	}
}

// UpdateCaregiverProfileRequest профиль сиделки.
type UpdateCaregiverProfileRequest struct {
	Bio             *string  `json:"bio"`
	ExperienceYears int      `json:"experience_years"`
	HourlyRate      *float64 `json:"hourly_rate"`
}

func (r UpdateCaregiverProfileRequest) Input() (repository.CaregiverProfileInput, error) {
	if err := validation.ValidateOptional("bio", r.Bio, validation.MaxBioLength); err != nil {
		return repository.CaregiverProfileInput{}, err
	}
	if err := validation.ValidateExperience(r.ExperienceYears); err != nil {
		return repository.CaregiverProfileInput{}, err
	}
	return repository.CaregiverProfileInput{
		Bio:             trimmed(r.Bio),
		ExperienceYears: r.ExperienceYears,
		HourlyRate:      r.HourlyRate,
	}, nil
}

// uuidOrNil для query параметров, уже проверенных тегом binding.
func uuidOrNil(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

func parseOptionalUUID(field string, s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, fmt.Errorf("%s must be a valid UUID", field)
	}
	return &id, nil
}

func parseOptionalTime(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp", field)
	}
	return &t, nil
}

// parseUUIDSlice разбирает список идентификаторов, повторы отбрасываются.
func parseUUIDSlice(strs []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(strs))
	ids := make([]uuid.UUID, 0, len(strs))
	for _, str := range strs {
		id, err := uuid.Parse(strings.TrimSpace(str))
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", str)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
