package main

import (
	"context"
	"log/slog"
	"os"

	"blog/config"
	"blog/internal/domain/repository"
	"blog/internal/domain/service"
	"blog/internal/infra/auth"
	logs "blog/internal/infra/log"
	"blog/internal/infra/persistence"

	"go.uber.org/fx"
)

const (
	demoEmail       = "demo@example.com"
	demoName        = "Demo Author"
	defaultPassword = "demo-password"
)

type seedParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Transactions repository.TransactionManager
	Hasher       service.PasswordHasher
	Logger       *slog.Logger
}

func main() {
	fx.New(
		fx.Provide(
			config.New,
			logs.New,
			persistence.NewStores,
			auth.NewPasswordHasher,
		),
		fx.Invoke(runSeed),
	).Run()
}

// runSeed is registered after the store hooks so it sees a migrated database.
func runSeed(params seedParams) {
	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			password := os.Getenv("SEED_PASSWORD")
			if password == "" {
				password = defaultPassword
			}

			s := &seeder{
				tx:     params.Transactions,
				hasher: params.Hasher,
				logger: params.Logger,
			}
			result, err := s.Seed(ctx, password)
			if err != nil {
				return err
			}

			params.Logger.Info("Seed completed",
				slog.String("email", demoEmail),
				slog.Bool("user_created", result.UserCreated),
				slog.Int("posts_created", result.PostsCreated),
				slog.Int("posts_skipped", result.PostsSkipped),
			)

			return params.Shutdown()
		},
	})
}
