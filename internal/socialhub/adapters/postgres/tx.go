package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"socialhub/internal/socialhub/ports/repositories"
	"socialhub/pkg/logger"
)

// PgxPoolInterface - часть pgxpool.Pool, нужная репозиториям. Реализуется и pgxmock.
type PgxPoolInterface interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// querier - общее подмножество пула и транзакции.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type txKey struct{}

// conn возвращает транзакцию из контекста или пул.
func conn(ctx context.Context, pool PgxPoolInterface) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

const (
	errCtxBeginTx  = "begin transaction"
	errCtxCommitTx = "commit transaction"
	msgRollbackErr = "rollback failed"
)

// TxManager реализует repositories.Transactor поверх pgx.
type TxManager struct {
	pool PgxPoolInterface
}

// NewTxManager создает менеджер транзакций.
func NewTxManager(pool PgxPoolInterface) repositories.Transactor {
	return &TxManager{pool: pool}
}

// WithinTransaction открывает транзакцию и передает ее в fn через контекст.
// Вложенный вызов переиспользует внешнюю транзакцию.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			m.rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			m.rollback(ctx, tx)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", errCtxCommitTx, err)
	}
	return nil
}

func (m *TxManager) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.Log(ctx).Warn(ctx, msgRollbackErr, zap.Error(err))
	}
}
