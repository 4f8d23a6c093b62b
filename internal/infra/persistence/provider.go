// Package persistence selects the store backing the repositories.
package persistence

import (
	"log/slog"

	"blog/config"
	domainerrors "blog/internal/domain/errors"
	"blog/internal/domain/repository"
	"blog/internal/infra/persistence/memory"
	"blog/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Stores exposes the repositories of the configured driver to the container.
type Stores struct {
	fx.Out

	Users        repository.UserRepository
	Posts        repository.PostRepository
	Transactions repository.TransactionManager
}

// NewStores opens the store named by storage.driver.
func NewStores(params Params) (Stores, error) {
	switch params.Config.Storage.Driver {
	case config.StorageDriverMemory:
		params.Logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()

		return Stores{
			Users:        store.Users(),
			Posts:        store.Posts(),
			Transactions: store,
		}, nil
	case config.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Stores{}, err
		}

		return Stores{
			Users:        postgres.NewUserRepository(db),
			Posts:        postgres.NewPostRepository(db),
			Transactions: postgres.NewTransactionManager(db),
		}, nil
	default:
		return Stores{}, domainerrors.ErrConfiguration.WrapMessage("unsupported storage driver: " + params.Config.Storage.Driver)
	}
}
