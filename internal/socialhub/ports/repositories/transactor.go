package repositories

import "context"

// Transactor выполняет fn в одной транзакции: commit при nil, rollback при ошибке или панике.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
