package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/iyaya-backend/internal/domain/valueobject"
	"github.com/ignatzorin/iyaya-backend/internal/http/middleware"
	"github.com/ignatzorin/iyaya-backend/internal/http/response"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	repocommon "github.com/ignatzorin/iyaya-backend/internal/repository/common"
	"github.com/ignatzorin/iyaya-backend/internal/service"
)

var (
	testAdmin  = models.Actor{ID: uuid.MustParse("00000000-0000-0000-0000-00000000a001"), Role: models.RoleAdmin, Status: models.UserStatusActive}
	testParent = models.Actor{ID: uuid.MustParse("00000000-0000-0000-0000-00000000b001"), Role: models.RoleParent, Status: models.UserStatusActive}
)

// newTestRouter собирает gin с ErrorHandler и подставленным актором.
func newTestRouter(actor *models.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	if actor != nil {
		a := *actor
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextActorKey, a)
			c.Next()
		})
	}
	return r
}

func perform(r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

// dataAs перекладывает поле data ответа в dst.
func dataAs(resp response.Response, dst interface{}) error {
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

type mockUserManager struct{ mock.Mock }

func (m *mockUserManager) List(ctx context.Context, f repository.UserFilter, page, limit int) (repocommon.ListResult[models.User], error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).(repocommon.ListResult[models.User]), args.Error(1)
}

func (m *mockUserManager) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserManager) Create(ctx context.Context, actor models.Actor, in service.CreateUserInput) (*models.User, error) {
	args := m.Called(ctx, actor, in)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserManager) ChangeRole(ctx context.Context, actor models.Actor, userID uuid.UUID, role string) (*models.User, error) {
	args := m.Called(ctx, actor, userID, role)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type mockUserStatusManager struct{ mock.Mock }

func (m *mockUserStatusManager) UpdateStatus(ctx context.Context, actor models.Actor, userID uuid.UUID, status string, opts service.StatusOptions) (*models.User, error) {
	args := m.Called(ctx, actor, userID, status, opts)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserStatusManager) BulkUpdateStatus(ctx context.Context, actor models.Actor, ids []uuid.UUID, status string, opts service.StatusOptions) (*service.BulkStatusResult, error) {
	args := m.Called(ctx, actor, ids, status, opts)
	result, _ := args.Get(0).(*service.BulkStatusResult)
	return result, args.Error(1)
}

func (m *mockUserStatusManager) SoftDelete(ctx context.Context, actor models.Actor, userID uuid.UUID, reason string) error {
	return m.Called(ctx, actor, userID, reason).Error(0)
}

func (m *mockUserStatusManager) GetStatusHistory(ctx context.Context, userID uuid.UUID, page, limit int) (repocommon.ListResult[models.StatusHistoryEntry], error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).(repocommon.ListResult[models.StatusHistoryEntry]), args.Error(1)
}

type mockJobModerator struct{ mock.Mock }

func (m *mockJobModerator) List(ctx context.Context, f repository.JobFilter, page, limit int) (repocommon.ListResult[models.Job], error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).(repocommon.ListResult[models.Job]), args.Error(1)
}

func (m *mockJobModerator) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *mockJobModerator) Transition(ctx context.Context, actor models.Actor, id uuid.UUID, action valueobject.JobAction, reason string) (*models.Job, error) {
	args := m.Called(ctx, actor, id, action, reason)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *mockJobModerator) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in service.JobUpdateInput) (*models.Job, error) {
	args := m.Called(ctx, actor, id, in)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

type mockBookingModerator struct{ mock.Mock }

func (m *mockBookingModerator) List(ctx context.Context, f repository.BookingFilter, page, limit int) (repocommon.ListResult[models.Booking], error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).(repocommon.ListResult[models.Booking]), args.Error(1)
}

func (m *mockBookingModerator) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	booking, _ := args.Get(0).(*models.Booking)
	return booking, args.Error(1)
}

func (m *mockBookingModerator) Transition(ctx context.Context, actor models.Actor, id uuid.UUID, action valueobject.BookingAction, reason string) (*models.Booking, error) {
	args := m.Called(ctx, actor, id, action, reason)
	booking, _ := args.Get(0).(*models.Booking)
	return booking, args.Error(1)
}

func (m *mockBookingModerator) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in service.BookingUpdateInput) (*models.Booking, error) {
	args := m.Called(ctx, actor, id, in)
	booking, _ := args.Get(0).(*models.Booking)
	return booking, args.Error(1)
}

type mockPaymentModerator struct{ mock.Mock }

func (m *mockPaymentModerator) List(ctx context.Context, f repository.PaymentFilter, page, limit int) (repocommon.ListResult[models.Payment], error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).(repocommon.ListResult[models.Payment]), args.Error(1)
}

func (m *mockPaymentModerator) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	payment, _ := args.Get(0).(*models.Payment)
	return payment, args.Error(1)
}

func (m *mockPaymentModerator) UpdateStatus(ctx context.Context, actor models.Actor, id uuid.UUID, status, notes string) (*models.Payment, error) {
	args := m.Called(ctx, actor, id, status, notes)
	payment, _ := args.Get(0).(*models.Payment)
	return payment, args.Error(1)
}

func (m *mockPaymentModerator) Refund(ctx context.Context, actor models.Actor, id uuid.UUID, reason string) (*models.Payment, error) {
	args := m.Called(ctx, actor, id, reason)
	payment, _ := args.Get(0).(*models.Payment)
	return payment, args.Error(1)
}

func (m *mockPaymentModerator) DeleteProof(ctx context.Context, actor models.Actor, paymentID, proofID uuid.UUID) error {
	return m.Called(ctx, actor, paymentID, proofID).Error(0)
}

type mockReportManager struct{ mock.Mock }

func (m *mockReportManager) Create(ctx context.Context, reporter models.Actor, in service.CreateReportInput) (*models.UserReport, error) {
	args := m.Called(ctx, reporter, in)
	report, _ := args.Get(0).(*models.UserReport)
	return report, args.Error(1)
}

func (m *mockReportManager) List(ctx context.Context, f repository.ReportFilter, page, limit int) (repocommon.ListResult[models.UserReport], error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).(repocommon.ListResult[models.UserReport]), args.Error(1)
}

func (m *mockReportManager) Get(ctx context.Context, id uuid.UUID) (*models.UserReport, error) {
	args := m.Called(ctx, id)
	report, _ := args.Get(0).(*models.UserReport)
	return report, args.Error(1)
}

func (m *mockReportManager) UpdateStatus(ctx context.Context, actor models.Actor, id uuid.UUID, in service.ReportStatusInput) (*models.UserReport, error) {
	args := m.Called(ctx, actor, id, in)
	report, _ := args.Get(0).(*models.UserReport)
	return report, args.Error(1)
}

type mockSettingsManager struct{ mock.Mock }

func (m *mockSettingsManager) Get(ctx context.Context) (*models.SystemSettings, error) {
	args := m.Called(ctx)
	settings, _ := args.Get(0).(*models.SystemSettings)
	return settings, args.Error(1)
}

func (m *mockSettingsManager) Update(ctx context.Context, actor models.Actor, patch repository.SettingsPatch) (*models.SystemSettings, error) {
	args := m.Called(ctx, actor, patch)
	settings, _ := args.Get(0).(*models.SystemSettings)
	return settings, args.Error(1)
}
