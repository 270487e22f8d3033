package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/iyaya-backend/internal/logger"
	"github.com/ignatzorin/iyaya-backend/internal/models"
	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

// PaymentStore описывает зависимости PaymentService от хранилища.
type PaymentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	GetByIDDetailed(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	List(ctx context.Context, f repository.PaymentFilter, page, limit int) (common.ListResult[models.Payment], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, change repository.PaymentStatusChange) (*models.Payment, error)
	ListProofsByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID][]models.PaymentProof, error)
	GetProof(ctx context.Context, id uuid.UUID) (*models.PaymentProof, error)
	DeleteProof(ctx context.Context, id, bookingID uuid.UUID) error
}

// ProofObjects хранилище файлов подтверждений (реализуется storage.ObjectStore).
type ProofObjects interface {
	PresignGet(ctx context.Context, storagePath string) (string, error)
	Delete(ctx context.Context, storagePath string) error
}

// PaymentService проверка оплат администратором.
type PaymentService struct {
	payments PaymentStore
	objects  ProofObjects
	audit    AuditRecorder
	observer ModerationObserver
}

// NewPaymentService создаёт сервис. objects может быть nil, если хранилище не настроено.
func NewPaymentService(payments PaymentStore, objects ProofObjects, audit AuditRecorder, observer ModerationObserver) *PaymentService {
	return &PaymentService{payments: payments, objects: objects, audit: audit, observer: observerOrNoop(observer)}
}

// List возвращает оплаты с подтверждениями и итогом проверки.
func (s *PaymentService) List(ctx context.Context, f repository.PaymentFilter, page, limit int) (common.ListResult[models.Payment], error) {
	result, err := s.payments.List(ctx, f, page, limit)
	if err != nil {
		return result, err
	}
	items, err := s.attachProofs(ctx, result.Items)
	if err != nil {
		return common.ListResult[models.Payment]{}, err
	}
	result.Items = items
	return result, nil
}

// Get возвращает оплату с подтверждениями.
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, err := s.payments.GetByIDDetailed(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.attachProofs(ctx, []models.Payment{*payment})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// UpdateStatus меняет статус оплаты. Тот же статус ничего не меняет и не пишется в журнал.
func (s *PaymentService) UpdateStatus(ctx context.Context, actor models.Actor, id uuid.UUID, status, notes string) (*models.Payment, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if _, ok := models.ValidPaymentStatuses[status]; !ok {
		return nil, apperror.Validation(fmt.Sprintf("invalid payment status: %s", status))
	}

	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.PaymentStatus == status {
		return s.Get(ctx, id)
	}
	if payment.PaymentStatus == models.PaymentStatusRefunded {
		err := apperror.InvalidTransition("payment", "update", payment.PaymentStatus, status)
		s.observer.ObserveTransition("payment", status, outcome(err))
		return nil, err
	}

	notes = strings.TrimSpace(notes)
	if (status == models.PaymentStatusPaid || status == models.PaymentStatusRefunded) && notes == "" {
		return nil, apperror.Validation(fmt.Sprintf("notes are required to mark a payment as %s", status))
	}

	change := repository.PaymentStatusChange{
		ExpectedStatus: payment.PaymentStatus,
		Status:         status,
		Notes:          optionalString(notes),
	}
	if status == models.PaymentStatusRefunded {
		change.RefundReason = optionalString(notes)
	}

	_, err = s.payments.UpdateStatus(ctx, id, change)
	s.observer.ObserveTransition("payment", status, outcome(err))
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		AdminID:  actor.ID,
		Action:   models.AuditUpdatePaymentStatus,
		TargetID: id.String(),
		Metadata: models.JSONMap{"from": payment.PaymentStatus, "to": status, "notes": notes},
	})
	return s.Get(ctx, id)
}

// Refund переводит оплату в refunded с обязательной причиной.
func (s *PaymentService) Refund(ctx context.Context, actor models.Actor, id uuid.UUID, reason string) (*models.Payment, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.Validation("refund reason is required")
	}

	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.PaymentStatus == models.PaymentStatusRefunded {
		err := apperror.InvalidTransition("payment", "refund", payment.PaymentStatus, models.PaymentStatusRefunded)
		s.observer.ObserveTransition("payment", "refund", outcome(err))
		return nil, err
	}

	_, err = s.payments.UpdateStatus(ctx, id, repository.PaymentStatusChange{
		ExpectedStatus: payment.PaymentStatus,
		Status:         models.PaymentStatusRefunded,
		RefundReason:   &reason,
	})
	s.observer.ObserveTransition("payment", "refund", outcome(err))
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		AdminID:  actor.ID,
		Action:   models.AuditRefundPayment,
		TargetID: id.String(),
		Metadata: models.JSONMap{"from": payment.PaymentStatus, "reason": reason, "amount": payment.TotalAmount},
	})
	return s.Get(ctx, id)
}

// DeleteProof удаляет подтверждение оплаты и его файл.
func (s *PaymentService) DeleteProof(ctx context.Context, actor models.Actor, paymentID, proofID uuid.UUID) error {
	if !actor.IsAdmin() {
		return apperror.ErrForbidden
	}

	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	proof, err := s.payments.GetProof(ctx, proofID)
	if err != nil {
		return err
	}
	if proof.BookingID != payment.BookingID {
		return apperror.ErrProofNotFound
	}

	if err := s.payments.DeleteProof(ctx, proofID, payment.BookingID); err != nil {
		return err
	}

	// Строка уже удалена, поэтому ошибка удаления файла не возвращается.
	if s.objects != nil && !isBlank(proof.StoragePath) {
		if err := s.objects.Delete(ctx, *proof.StoragePath); err != nil {
			logger.WithError(err, logrus.Fields{"proof_id": proofID.String(), "storage_path": *proof.StoragePath}).
				Warn("payment proof object not removed")
		}
	}

	metadata := models.JSONMap{"payment_id": paymentID.String(), "booking_id": payment.BookingID.String()}
	if proof.StoragePath != nil {
		metadata["storage_path"] = *proof.StoragePath
	}
	s.audit.Record(ctx, AuditEntry{
		AdminID:  actor.ID,
		Action:   models.AuditDeletePaymentProof,
		TargetID: proofID.String(),
		Metadata: metadata,
	})
	return nil
}

// attachProofs одним запросом загружает подтверждения для всех оплат и пересчитывает проверку.
func (s *PaymentService) attachProofs(ctx context.Context, payments []models.Payment) ([]models.Payment, error) {
	bookingIDs := make([]uuid.UUID, 0, len(payments))
	for _, p := range payments {
		bookingIDs = append(bookingIDs, p.BookingID)
	}

	proofs, err := s.payments.ListProofsByBookingIDs(ctx, bookingIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.Payment, 0, len(payments))
	for _, p := range payments {
		normalized := NormalizePayment(p, proofs[p.BookingID])
		s.signProofs(ctx, normalized.Proofs)
		out = append(out, normalized)
	}
	return out, nil
}

// signProofs заполняет signed_url, если хранилище настроено. Ошибки подписи не фатальны.
func (s *PaymentService) signProofs(ctx context.Context, proofs []models.PaymentProof) {
	if s.objects == nil {
		return
	}
	for i := range proofs {
		if isBlank(proofs[i].StoragePath) {
			continue
		}
		url, err := s.objects.PresignGet(ctx, *proofs[i].StoragePath)
		if err != nil {
			logger.WithError(err, logrus.Fields{"proof_id": proofs[i].ID.String()}).Warn("presign payment proof failed")
			continue
		}
		proofs[i].SignedURL = url
	}
}
