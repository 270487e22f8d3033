package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

const (
	paymentsTable        = "payments"
	paymentProofsTable   = "payment_proofs"
	defaultPaymentsLimit = 20
)

var paymentEmbeds = []string{"parent", "caregiver"}

// PaymentFilter параметры списка оплат.
type PaymentFilter struct {
	Status      string
	ParentID    *uuid.UUID
	CaregiverID *uuid.UUID
	BookingID   *uuid.UUID
}

// CreatePaymentParams данные новой оплаты.
type CreatePaymentParams struct {
	BookingID   uuid.UUID
	ParentID    uuid.UUID
	CaregiverID uuid.UUID
	TotalAmount float64
}

// PaymentStatusChange новое состояние оплаты. Запись проходит, только если статус равен ExpectedStatus.
type PaymentStatusChange struct {
	ExpectedStatus string
	Status         string
	Notes          *string
	RefundReason   *string
}

// CreateProofParams метаданные загруженного подтверждения.
type CreateProofParams struct {
	BookingID   uuid.UUID
	StoragePath *string
	PublicURL   *string
	MimeType    *string
	UploadedBy  *uuid.UUID
	PaymentType *string
}

// PaymentRepository работает с таблицами payments и payment_proofs.
type PaymentRepository struct {
	gw *common.Gateway
}

func NewPaymentRepository(gw *common.Gateway) *PaymentRepository {
	return &PaymentRepository{gw: gw}
}

func (r *PaymentRepository) Create(ctx context.Context, in CreatePaymentParams) (*models.Payment, error) {
	payment, err := common.Insert[models.Payment](ctx, r.gw, paymentsTable, map[string]interface{}{
		"booking_id":     in.BookingID,
		"parent_id":      in.ParentID,
		"caregiver_id":   in.CaregiverID,
		"total_amount":   in.TotalAmount,
		"payment_status": models.PaymentStatusPending,
	})
	if err != nil {
		return nil, mapErr(err, "payment repository: create", nil)
	}
	return payment, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, err := common.FindOne[models.Payment](ctx, r.gw, paymentsTable, common.Where(common.Eq("id", id)), common.Options{})
	if err != nil {
		return nil, mapErr(err, "payment repository: get by id", apperror.ErrPaymentNotFound)
	}
	return payment, nil
}

// GetByBookingID возвращает оплату бронирования.
func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Payment, error) {
	payment, err := common.FindOne[models.Payment](ctx, r.gw, paymentsTable, common.Where(common.Eq("booking_id", bookingID)), common.Options{})
	if err != nil {
		return nil, mapErr(err, "payment repository: get by booking", apperror.ErrPaymentNotFound)
	}
	return payment, nil
}

// GetByIDDetailed возвращает оплату с карточками участников.
func (r *PaymentRepository) GetByIDDetailed(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, err := findOneEmbedded(ctx, r.gw, paymentsTable, common.Where(common.Eq("id", id)), paymentEmbeds, paymentUserRefs)
	if err != nil {
		return nil, mapErr(err, "payment repository: get detailed", apperror.ErrPaymentNotFound)
	}
	return payment, nil
}

// List возвращает страницу оплат, новые первыми.
func (r *PaymentRepository) List(ctx context.Context, f PaymentFilter, page, limit int) (common.ListResult[models.Payment], error) {
	p := common.NewPage(page, limit, defaultPaymentsLimit)

	filter := common.Filter{}
	if f.Status != "" {
		filter = filter.And(common.Eq("payment_status", f.Status))
	}
	if f.ParentID != nil {
		filter = filter.And(common.Eq("parent_id", *f.ParentID))
	}
	if f.CaregiverID != nil {
		filter = filter.And(common.Eq("caregiver_id", *f.CaregiverID))
	}
	if f.BookingID != nil {
		filter = filter.And(common.Eq("booking_id", *f.BookingID))
	}

	payments, total, err := findEmbedded(ctx, r.gw, paymentsTable, filter, common.Options{
		OrderBy: []common.Order{common.Desc("created_at")},
		Offset:  p.Offset(),
		Limit:   p.Limit,
		Count:   true,
		Embed:   paymentEmbeds,
	}, paymentUserRefs)
	if err != nil {
		return common.ListResult[models.Payment]{}, mapErr(err, "payment repository: list", nil)
	}
	return common.Result(payments, total, p), nil
}

// UpdateStatus записывает статус оплаты с заметкой и причиной возврата.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, change PaymentStatusChange) (*models.Payment, error) {
	patch := map[string]interface{}{
		"payment_status": change.Status,
		"updated_at":     time.Now().UTC(),
	}
	if change.Notes != nil {
		patch["notes"] = *change.Notes
	}
	if change.RefundReason != nil {
		patch["refund_reason"] = *change.RefundReason
	}

	payment, err := common.Update[models.Payment](ctx, r.gw, paymentsTable,
		common.Where(common.Eq("id", id), common.Eq("payment_status", change.ExpectedStatus)), patch)
	if err != nil {
		return nil, mapCASErr(err, "payment repository: update status")
	}
	return payment, nil
}

// ListProofsByBookingIDs загружает подтверждения для набора бронирований одним запросом.
func (r *PaymentRepository) ListProofsByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID][]models.PaymentProof, error) {
	out := make(map[uuid.UUID][]models.PaymentProof, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(bookingIDs))
	for _, id := range bookingIDs {
		ids = append(ids, id.String())
	}

	proofs, _, err := common.Find[models.PaymentProof](ctx, r.gw, paymentProofsTable,
		common.Where(common.In("booking_id", ids)),
		common.Options{OrderBy: []common.Order{common.Asc("uploaded_at")}})
	if err != nil {
		return nil, mapErr(err, "payment repository: list proofs", nil)
	}

	for _, proof := range proofs {
		out[proof.BookingID] = append(out[proof.BookingID], proof)
	}
	return out, nil
}

// GetProof возвращает подтверждение по id.
func (r *PaymentRepository) GetProof(ctx context.Context, id uuid.UUID) (*models.PaymentProof, error) {
	proof, err := common.FindOne[models.PaymentProof](ctx, r.gw, paymentProofsTable, common.Where(common.Eq("id", id)), common.Options{})
	if err != nil {
		return nil, mapErr(err, "payment repository: get proof", apperror.ErrProofNotFound)
	}
	return proof, nil
}

// CreateProof сохраняет метаданные подтверждения.
func (r *PaymentRepository) CreateProof(ctx context.Context, in CreateProofParams) (*models.PaymentProof, error) {
	proof, err := common.Insert[models.PaymentProof](ctx, r.gw, paymentProofsTable, map[string]interface{}{
		"booking_id":   in.BookingID,
		"storage_path": in.StoragePath,
		"public_url":   in.PublicURL,
		"mime_type":    in.MimeType,
		"uploaded_by":  in.UploadedBy,
		"payment_type": in.PaymentType,
	})
	if err != nil {
		return nil, mapErr(err, "payment repository: create proof", nil)
	}
	return proof, nil
}

// DeleteProof удаляет подтверждение, принадлежащее бронированию.
func (r *PaymentRepository) DeleteProof(ctx context.Context, id, bookingID uuid.UUID) error {
	affected, err := common.Delete(ctx, r.gw, paymentProofsTable,
		common.Where(common.Eq("id", id), common.Eq("booking_id", bookingID)))
	if err != nil {
		return mapErr(err, "payment repository: delete proof", nil)
	}
	if affected == 0 {
		return apperror.ErrProofNotFound
	}
	return nil
}
