package repository

import (
	"fmt"

	"github.com/ignatzorin/iyaya-backend/internal/pkg/apperror"
	"github.com/ignatzorin/iyaya-backend/internal/repository/common"
)

// mapErr приводит ошибку шлюза к доменной: отсутствие строки становится notFound,
// нарушение уникальности конфликтом, остальное внутренней ошибкой.
func mapErr(err error, op string, notFound *apperror.AppError) error {
	if err == nil {
		return nil
	}
	switch {
	case common.IsNoRows(err) && notFound != nil:
		return notFound
	case common.IsUniqueViolation(err):
		return apperror.Wrap(err, apperror.ErrCodeConflict, "record already exists")
	case common.HasCode(err, common.CodeForeignKey):
		return apperror.Wrap(err, apperror.ErrCodeValidation, "referenced record does not exist")
	}
	return apperror.Internal(fmt.Errorf("%s: %w", op, err), "storage error")
}

// mapCASErr: пустой результат условного обновления означает, что статус уже изменили.
func mapCASErr(err error, op string) error {
	if common.IsNoRows(err) {
		return apperror.ErrStatusConflict
	}
	return mapErr(err, op, nil)
}
