// ABOUTME: Login service verifying credentials against the user store
// ABOUTME: Authenticates identity first; role authorization is a separate step

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkpost/inkpost/internal/store"
)

// Login errors
var (
	ErrUnknownUser   = errors.New("username does not exist")
	ErrWrongPassword = errors.New("incorrect password")
)

// UserStore is the subset of the store the auth service needs.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*store.User, error)
	GetUserByUsername(ctx context.Context, username string) (*store.User, error)
}

// Service authenticates users and mints bearer tokens. It is stateless:
// all durable state lives in the store or inside the token itself.
type Service struct {
	users    UserStore
	verifier *JWTVerifier
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewService creates an auth service issuing tokens with the given lifetime.
func NewService(users UserStore, verifier *JWTVerifier, tokenTTL time.Duration) *Service {
	return &Service{
		users:    users,
		verifier: verifier,
		tokenTTL: tokenTTL,
		logger:   slog.Default().With("component", "auth"),
	}
}

// Login verifies the username/password pair and mints a token on success.
// It returns ErrUnknownUser or ErrWrongPassword on rejection. Authorization
// (role checks) is deliberately not done here: callers decide what roles the
// authenticated user needs.
func (s *Service) Login(ctx context.Context, username, password string) (*store.User, string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			burnPasswordCheck(password)
			return nil, "", ErrUnknownUser
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrWrongPassword
	}

	token, err := s.verifier.Generate(user.ID, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("generating token: %w", err)
	}

	s.logger.Info("login successful", "username", username, "user_id", user.ID)
	return user, token, nil
}

// Verifier returns the token verifier used by this service.
func (s *Service) Verifier() *JWTVerifier {
	return s.verifier
}
