// Package postgres содержит репозитории SocialHub поверх pgx.
package postgres

import "socialhub/internal/socialhub/ports/repositories"

// RepositoryFactory собирает репозитории и менеджер транзакций на одном пуле.
type RepositoryFactory struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	transactor  repositories.Transactor
}

// NewRepositoryFactory создает фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{
		userRepo:    NewUserRepository(pool),
		profileRepo: NewProfileRepository(pool),
		transactor:  NewTxManager(pool),
	}
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.userRepo
}

// ProfileRepository возвращает репозиторий профилей.
func (f *RepositoryFactory) ProfileRepository() repositories.ProfileRepository {
	return f.profileRepo
}

// Transactor возвращает менеджер транзакций.
func (f *RepositoryFactory) Transactor() repositories.Transactor {
	return f.transactor
}
