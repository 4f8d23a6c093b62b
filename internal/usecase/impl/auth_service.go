// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	deliverycontext "blog/internal/delivery/context"
	"blog/internal/domain/entity"
	domainerrors "blog/internal/domain/errors"
	"blog/internal/domain/repository"
	"blog/internal/domain/service"
	"blog/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dummyPassword is hashed once at startup. Logins for unknown emails compare
// against its digest so both failure paths pay for one hash comparison.
const dummyPassword = "blog-login-placeholder-password"

// maxNameLength matches the users.name column.
const maxNameLength = 100

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	validate     *validator.Validate
	dummyHash    string
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) (usecase.AuthUsecase, error) {
	dummyHash, err := params.Hasher.Hash(dummyPassword)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare login digest")
	}

	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		validate:     validator.New(),
		dummyHash:    dummyHash,
		logger:       params.Logger,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates the input, rejects taken emails and stores the hashed credential.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	name := strings.TrimSpace(input.Name)
	email := entity.NormalizeEmail(input.Email)

	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name must be at most 100 characters long")
	}
	if err := srv.validate.Var(email, "required,email,max=255"); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("a valid email of at most 255 characters is required")
	}
	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}

	_, err := srv.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domainerrors.ErrDuplicateEmail
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, errors.Wrap(err, "failed to check email uniqueness")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

		return nil, errors.WithStack(err)
	}

	credential := &entity.UserCredential{
		User:         entity.User{Name: name, Email: email},
		PasswordHash: hash,
	}
	if err := srv.userRepo.Create(ctx, credential); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	srv.log(ctx).Info("User registered", slog.String("user_id", credential.User.ID.String()))

	return credential.Safe(), nil
}

// Login verifies the credentials and issues a session token.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := entity.NormalizeEmail(input.Email)

	credential, err := srv.userRepo.FindCredentialByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.hasher.Check(input.Password, srv.dummyHash)
		srv.log(ctx).Debug("Login rejected")

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find credential")
	}

	if !srv.hasher.Check(input.Password, credential.PasswordHash) {
		srv.log(ctx).Debug("Login rejected")

		return nil, domainerrors.ErrInvalidCredentials
	}

	token, err := srv.tokenService.Issue(credential.User.ID, credential.User.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue session token")
	}

	srv.log(ctx).Info("User logged in", slog.String("user_id", credential.User.ID.String()))

	return &usecase.LoginOutput{
		Token: token,
		User:  credential.Safe(),
	}, nil
}

// CurrentIdentity resolves a session token. Stateless: no store lookup.
func (srv *authService) CurrentIdentity(_ context.Context, token string) (*entity.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domainerrors.ErrInvalidToken
	}

	identity, err := srv.tokenService.Verify(token)
	if err != nil {
		return nil, domainerrors.ErrInvalidToken
	}

	return identity, nil
}
