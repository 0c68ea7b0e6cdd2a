// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/priceboard/priceboard/internal/model"
)

// pgUniqueViolation is the SQLSTATE code for unique constraint violations.
const pgUniqueViolation = "23505"

// Postgres implements Store on a PostgreSQL database.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects to a PostgreSQL database via the pgx stdlib driver.
func OpenPostgres(url string) (*Postgres, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Postgres{db: db}, nil
}

// DB returns the underlying connection.
func (s *Postgres) DB() *sql.DB { return s.db }

// Close closes the underlying connection.
func (s *Postgres) Close() error { return s.db.Close() }

func (s *Postgres) CreateUser(ctx context.Context, email, passwordHash, role, status string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password, role, status) VALUES ($1, $2, $3, $4) RETURNING id`,
		email, passwordHash, role, status).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, model.ErrEmailTaken
		}
		return 0, fmt.Errorf("creating user: %w", err)
	}
	return id, nil
}

func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password, role, status FROM users WHERE email = $1`, email))
}

func (s *Postgres) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password, role, status FROM users WHERE id = $1`, id))
}

func (s *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, password, role, status FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return collectUsers(rows)
}

func (s *Postgres) ApproveUser(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET status = $1 WHERE id = $2`, model.StatusActive, id)
	return err
}

func (s *Postgres) DeleteUser(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = $1 AND role != $2`, id, model.RoleAdmin)
	return err
}

func (s *Postgres) CreateProduct(ctx context.Context, p model.ProductParams) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO products (name, price, available, description, image, category, unit)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		p.Name, p.Price, p.Available, p.Description, p.Image, p.Category, p.Unit).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating product: %w", err)
	}
	return id, nil
}

func (s *Postgres) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	return scanProduct(s.db.QueryRowContext(ctx,
		`SELECT id, name, price, available, description, image, category, unit
		 FROM products WHERE id = $1`, id))
}

func (s *Postgres) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, price, available, description, image, category, unit
		 FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return collectProducts(rows)
}

func (s *Postgres) UpdateProduct(ctx context.Context, id int64, p model.ProductParams) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = $1, price = $2, unit = $3, available = $4, category = $5, description = $6
		 WHERE id = $7`,
		p.Name, p.Price, p.Unit, p.Available, p.Category, p.Description, id)
	return err
}

func (s *Postgres) DeleteProduct(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (s *Postgres) CreateLoginLog(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO login_logs (email) VALUES ($1)`, email)
	return err
}

func (s *Postgres) RecentLoginLogs(ctx context.Context, limit int) ([]model.LoginLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, login_time FROM login_logs ORDER BY login_time DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing login logs: %w", err)
	}
	return collectLoginLogs(rows)
}
