package repository

import "context"

// RepositoryFactory hands out repositories bound to a single unit of work.
type RepositoryFactory interface {
	Users() UserRepository
	Posts() PostRepository
}

// TransactionManager runs multi-step work atomically. A non-nil error from fn
// rolls every write made through the factory back.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repos RepositoryFactory) error) error
}
