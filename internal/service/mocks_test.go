package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/notify"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

var (
	adminActor      = models.Actor{ID: uuid.New(), Role: models.RoleAdmin, Status: models.UserStatusActive}
	superadminActor = models.Actor{ID: uuid.New(), Role: models.RoleSuperadmin, Status: models.UserStatusActive}
	parentActor     = models.Actor{ID: uuid.New(), Role: models.RoleParent, Status: models.UserStatusActive}
)

// recordingAudit запоминает записи журнала вместо сохранения.
type recordingAudit struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (r *recordingAudit) Record(_ context.Context, entry AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordingAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// recordingObserver запоминает исходы переходов.
type recordingObserver struct {
	mu             sync.Mutex
	transitions    []string
	auditFailures  int
	notifyFailures int
}

func (o *recordingObserver) ObserveTransition(entity, action, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, entity+":"+action+":"+outcome)
}

func (o *recordingObserver) AuditFailed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.auditFailures++
}

func (o *recordingObserver) NotificationFailed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notifyFailures++
}

type mockAuditLogStore struct {
	mock.Mock
}

func (m *mockAuditLogStore) Create(ctx context.Context, adminID uuid.UUID, action, targetID string, metadata models.JSONMap) (*models.AuditLogEntry, error) {
	args := m.Called(ctx, adminID, action, targetID, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditLogEntry), args.Error(1)
}

func (m *mockAuditLogStore) List(ctx context.Context, f repository.AuditFilter, page, limit int) (common.ListResult[models.AuditLogEntry], error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).(common.ListResult[models.AuditLogEntry]), args.Error(1)
}

type mockJobStore struct {
	mock.Mock
}

func (m *mockJobStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobStore) GetByIDDetailed(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobStore) List(ctx context.Context, f repository.JobFilter, page, limit int) (common.ListResult[models.Job], error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).(common.ListResult[models.Job]), args.Error(1)
}

func (m *mockJobStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Job, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobStore) Update(ctx context.Context, id uuid.UUID, patch repository.JobPatch) (*models.Job, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingStore) GetByIDDetailed(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingStore) List(ctx context.Context, f repository.BookingFilter, page, limit int) (common.ListResult[models.Booking], error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).(common.ListResult[models.Booking]), args.Error(1)
}

func (m *mockBookingStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Booking, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingStore) Update(ctx context.Context, id uuid.UUID, patch repository.BookingPatch) (*models.Booking, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, in repository.CreateUserParams) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) GetByIDDetailed(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) List(ctx context.Context, f repository.UserFilter, page, limit int) (common.ListResult[models.User], error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).(common.ListResult[models.User]), args.Error(1)
}

func (m *mockUserStore) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) UpsertCaregiverProfile(ctx context.Context, userID uuid.UUID, in repository.CaregiverProfileInput) (*models.CaregiverProfile, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CaregiverProfile), args.Error(1)
}

func (m *mockUserStore) UpdateStatusWithHistory(ctx context.Context, id uuid.UUID, change repository.UserStatusChange) (*models.User, error) {
	args := m.Called(ctx, id, change)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID, repository.UserStatusChange) *models.User); ok {
		return fn(ctx, id, change), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) ReactivateExpired(ctx context.Context, now time.Time, reason string) ([]models.User, error) {
	args := m.Called(ctx, now, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

type mockHistoryStore struct {
	mock.Mock
}

func (m *mockHistoryStore) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (common.ListResult[models.StatusHistoryEntry], error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).(common.ListResult[models.StatusHistoryEntry]), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendStatusEmail(ctx context.Context, email notify.StatusEmail) error {
	return m.Called(ctx, email).Error(0)
}

type mockPaymentStore struct {
	mock.Mock
}

func (m *mockPaymentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockPaymentStore) GetByIDDetailed(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockPaymentStore) List(ctx context.Context, f repository.PaymentFilter, page, limit int) (common.ListResult[models.Payment], error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).(common.ListResult[models.Payment]), args.Error(1)
}

func (m *mockPaymentStore) UpdateStatus(ctx context.Context, id uuid.UUID, change repository.PaymentStatusChange) (*models.Payment, error) {
	args := m.Called(ctx, id, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockPaymentStore) ListProofsByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID][]models.PaymentProof, error) {
	args := m.Called(ctx, bookingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]models.PaymentProof), args.Error(1)
}

func (m *mockPaymentStore) GetProof(ctx context.Context, id uuid.UUID) (*models.PaymentProof, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentProof), args.Error(1)
}

func (m *mockPaymentStore) DeleteProof(ctx context.Context, id, bookingID uuid.UUID) error {
	return m.Called(ctx, id, bookingID).Error(0)
}

type mockProofObjects struct {
	mock.Mock
}

func (m *mockProofObjects) PresignGet(ctx context.Context, storagePath string) (string, error) {
	args := m.Called(ctx, storagePath)
	return args.String(0), args.Error(1)
}

func (m *mockProofObjects) Delete(ctx context.Context, storagePath string) error {
	return m.Called(ctx, storagePath).Error(0)
}

type mockReportStore struct {
	mock.Mock
}

func (m *mockReportStore) Create(ctx context.Context, in repository.CreateReportParams) (*models.UserReport, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserReport), args.Error(1)
}

func (m *mockReportStore) GetByID(ctx context.Context, id uuid.UUID) (*models.UserReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserReport), args.Error(1)
}

func (m *mockReportStore) List(ctx context.Context, f repository.ReportFilter, page, limit int) (common.ListResult[models.UserReport], error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).(common.ListResult[models.UserReport]), args.Error(1)
}

func (m *mockReportStore) UpdateStatus(ctx context.Context, id uuid.UUID, review repository.ReportReview) (*models.UserReport, error) {
	args := m.Called(ctx, id, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserReport), args.Error(1)
}

type mockSettingsStore struct {
	mock.Mock
}

func (m *mockSettingsStore) Get(ctx context.Context) (*models.SystemSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SystemSettings), args.Error(1)
}

func (m *mockSettingsStore) Save(ctx context.Context, s models.SystemSettings, updatedBy uuid.UUID) (*models.SystemSettings, error) {
	args := m.Called(ctx, s, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SystemSettings), args.Error(1)
}

func strPtr(v string) *string { return &v }
