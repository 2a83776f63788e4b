package seeders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/nftlisting/app/models"
	"github.com/shashiranjanraj/nftlisting/app/repositories"
	"github.com/shashiranjanraj/nftlisting/config"
	"github.com/shashiranjanraj/nftlisting/pkg/auth"
	"github.com/shashiranjanraj/nftlisting/pkg/logger"
	"github.com/shashiranjanraj/nftlisting/pkg/rbac"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the ADMIN_* account with the admin role. It is skipped
// when ADMIN_EMAIL or ADMIN_PASSWORD is empty and is idempotent by email.
func SeedAdmin(ctx context.Context, s Stores) error {
	email, password := config.AdminEmail(), config.AdminPassword()
	if email == "" || password == "" {
		logger.Info("seed admin: ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping")
		return nil
	}

	_, err := s.Users.FindByEmail(ctx, email)
	if err == nil {
		logger.Info("seed admin: already present", "email", email)
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		Username: config.AdminUsername(),
		Email:    email,
		Password: hash,
		Role:     rbac.RoleAdmin,
	}
	if err := s.Users.Create(ctx, admin); err != nil && !errors.Is(err, repositories.ErrDuplicate) {
		return fmt.Errorf("create admin: %w", err)
	}
	logger.Info("seed admin: created", "email", email, "user_id", admin.ID.Hex())
	return nil
}
