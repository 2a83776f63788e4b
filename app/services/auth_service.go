package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/nftlisting/app/models"
	"github.com/shashiranjanraj/nftlisting/app/repositories"
	"github.com/shashiranjanraj/nftlisting/pkg/auth"
	"github.com/shashiranjanraj/nftlisting/pkg/event"
	"github.com/shashiranjanraj/nftlisting/pkg/logger"
	"github.com/shashiranjanraj/nftlisting/pkg/metrics"
	"github.com/shashiranjanraj/nftlisting/pkg/rbac"
	"github.com/shashiranjanraj/nftlisting/pkg/validate"
)

// UserStore is the credential store.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates an account with the default role.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	if err := invalid(validate.Struct(in)); err != nil {
		metrics.AuthAttempts.WithLabelValues("register", "invalid").Inc()
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		metrics.AuthAttempts.WithLabelValues("register", "exists").Inc()
		return nil, ErrAlreadyExists
	case !errors.Is(err, repositories.ErrNotFound):
		metrics.AuthAttempts.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: lookup: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash: %w", err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     rbac.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			metrics.AuthAttempts.WithLabelValues("register", "exists").Inc()
			return nil, ErrAlreadyExists
		}
		metrics.AuthAttempts.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: insert: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("register", "ok").Inc()
	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID.Hex())
	event.Fire(EventUserRegistered, *user)
	return user, nil
}

// Login returns a signed token for valid credentials. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (string, error) {
	if err := invalid(validate.Struct(in)); err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "invalid").Inc()
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.AuthAttempts.WithLabelValues("login", "denied").Inc()
			return "", ErrInvalidCredentials
		}
		metrics.AuthAttempts.WithLabelValues("login", "error").Inc()
		return "", fmt.Errorf("login: lookup: %w", err)
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		metrics.AuthAttempts.WithLabelValues("login", "denied").Inc()
		return "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID.Hex())
	if err != nil {
		return "", fmt.Errorf("login: sign: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("login", "ok").Inc()
	event.Fire(EventUserLoggedIn, *user)
	return token, nil
}
