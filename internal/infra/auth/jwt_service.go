package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"blog/config"
	"blog/internal/domain/entity"
	domainerrors "blog/internal/domain/errors"
	"blog/internal/domain/service"
	"blog/internal/errors"
)

const defaultTokenTTL = time.Hour

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// JWTOption customizes a jwtService.
type JWTOption func(*jwtService)

// WithClock replaces time.Now for issuing and verifying tokens.
func WithClock(now func() time.Time) JWTOption {
	return func(s *jwtService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTTL overrides the session lifetime taken from the configuration.
func WithTTL(ttl time.Duration) JWTOption {
	return func(s *jwtService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewJWTService is the constructor for jwtService.
// A missing secret is a configuration error.
func NewJWTService(cfg *config.Config, opts ...JWTOption) (service.TokenService, error) {
	if cfg.SecretKey.Session == "" {
		return nil, domainerrors.ErrConfiguration.WrapMessage("session secret must be provided")
	}

	svc := &jwtService{
		secret: []byte(cfg.SecretKey.Session),
		ttl:    defaultTokenTTL,
		now:    time.Now,
	}
	if cfg.Session != nil && cfg.Session.TTL > 0 {
		svc.ttl = cfg.Session.TTL
	}
	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Issue signs {sub, email, iat, exp} for the user.
func (s *jwtService) Issue(userID uuid.UUID, email string) (*entity.SessionToken, error) {
	now := s.now()
	claims := service.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, errors.Wrap(err, "sign session token")
	}

	return &entity.SessionToken{
		Value:     signed,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify returns the identity carried by a valid token.
func (s *jwtService) Verify(tokenString string) (*entity.Identity, error) {
	if tokenString == "" {
		return nil, domainerrors.ErrInvalidToken
	}

	var claims service.Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, domainerrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil || claims.Email == "" {
		return nil, domainerrors.ErrInvalidToken
	}

	return &entity.Identity{UserID: userID, Email: claims.Email}, nil
}

func (s *jwtService) TTL() time.Duration {
	return s.ttl
}
