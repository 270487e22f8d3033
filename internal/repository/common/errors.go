package common

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrorCode код ошибки шлюза, на который ориентируются репозитории.
type ErrorCode string

const (
	CodeNoRows             ErrorCode = "no_rows"
	CodeRelationUnresolved ErrorCode = "relation_unresolved"
	CodeUniqueViolation    ErrorCode = "unique_violation"
	CodeForeignKey         ErrorCode = "foreign_key_violation"
	CodeUnexpected         ErrorCode = "unexpected"
)

// Коды PostgreSQL, которые различает шлюз.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgUndefinedTable      = "42P01"
	pgUndefinedColumn     = "42703"
)

// Error ошибка шлюза с кодом и исходной причиной.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gateway %s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("gateway %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HasCode проверяет код ошибки шлюза в цепочке.
func HasCode(err error, code ErrorCode) bool {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Code == code
	}
	return false
}

func IsNoRows(err error) bool {
	return HasCode(err, CodeNoRows)
}

func IsRelationUnresolved(err error) bool {
	return HasCode(err, CodeRelationUnresolved)
}

func IsUniqueViolation(err error) bool {
	return HasCode(err, CodeUniqueViolation)
}

// classify приводит ошибку драйвера к ошибке шлюза.
// embedding сообщает, что в запросе были встраиваемые связи: отсутствующая таблица
// или колонка в таком запросе означает неразрешённую связь.
func classify(err error, op, table string, embedding bool) error {
	if err == nil {
		return nil
	}

	var gwErr *Error
	if errors.As(err, &gwErr) {
		return err
	}

	msg := fmt.Sprintf("%s %s", op, table)
	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Code: CodeNoRows, Message: msg, Cause: err}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return &Error{Code: CodeUniqueViolation, Message: msg, Cause: err}
		case pgForeignKeyViolation:
			return &Error{Code: CodeForeignKey, Message: msg, Cause: err}
		case pgUndefinedTable, pgUndefinedColumn:
			if embedding {
				return &Error{Code: CodeRelationUnresolved, Message: msg, Cause: err}
			}
		}
	}

	return &Error{Code: CodeUnexpected, Message: msg, Cause: err}
}
