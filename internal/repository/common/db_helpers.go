package common

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// WithTransaction выполняет fn внутри транзакции: откат при ошибке или панике, коммит при успехе.
func WithTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// InTx выполняет fn со шлюзом, привязанным к новой транзакции.
func (g *Gateway) InTx(ctx context.Context, fn func(tx *Gateway) error) error {
	db, ok := g.ext.(*sqlx.DB)
	if !ok {
		// Уже внутри транзакции.
		return fn(g)
	}
	return WithTransaction(ctx, db, func(tx *sqlx.Tx) error {
		return fn(g.WithTx(tx))
	})
}
