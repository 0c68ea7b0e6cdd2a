// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/priceboard/priceboard/internal/auth"
	"github.com/priceboard/priceboard/internal/model"
)

// Bootstrap admin credentials.
const (
	DefaultAdminEmail    = "admin@test.com"
	DefaultAdminPassword = "admin123"
)

// Seed creates the bootstrap admin account if it does not exist. The admin
// is created active so the instance is usable immediately after first start.
func Seed(ctx context.Context, s Store) error {
	_, err := s.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	id, err := s.CreateUser(ctx, DefaultAdminEmail, passwordHash, model.RoleAdmin, model.StatusActive)
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user", "id", id, "email", DefaultAdminEmail)
	return nil
}
