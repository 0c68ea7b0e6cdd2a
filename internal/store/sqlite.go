// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver for database/sql

	"github.com/priceboard/priceboard/internal/model"
)

// SQLite implements Store on a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an already-open connection. Used by tests and by the
// session store wiring.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// OpenSQLite opens a SQLite database and configures it for performance and
// concurrency.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite with WAL mode supports multiple readers but a single writer
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA busy_timeout=5000",  // Wait 5s when database is locked
		"PRAGMA synchronous=NORMAL", // Good balance of safety and speed
		"PRAGMA cache_size=-64000",  // 64MB cache
		"PRAGMA foreign_keys=ON",    // Enforce foreign key constraints
		"PRAGMA temp_store=MEMORY",  // Store temp tables in memory
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &SQLite{db: db}, nil
}

// DB returns the underlying connection.
func (s *SQLite) DB() *sql.DB { return s.db }

// Close closes the underlying connection.
func (s *SQLite) Close() error { return s.db.Close() }

// isUniqueEmailViolation detects the users.email unique constraint error.
// The message format is shared by the modernc and mattn drivers.
func isUniqueEmailViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: users.email")
}

func (s *SQLite) CreateUser(ctx context.Context, email, passwordHash, role, status string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, password, role, status) VALUES (?, ?, ?, ?)`,
		email, passwordHash, role, status)
	if err != nil {
		if isUniqueEmailViolation(err) {
			return 0, model.ErrEmailTaken
		}
		return 0, fmt.Errorf("creating user: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLite) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password, role, status FROM users WHERE email = ?`, email))
}

func (s *SQLite) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password, role, status FROM users WHERE id = ?`, id))
}

func (s *SQLite) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, password, role, status FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return collectUsers(rows)
}

func (s *SQLite) ApproveUser(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET status = ? WHERE id = ?`, model.StatusActive, id)
	return err
}

func (s *SQLite) DeleteUser(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = ? AND role != ?`, id, model.RoleAdmin)
	return err
}

func (s *SQLite) CreateProduct(ctx context.Context, p model.ProductParams) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, price, available, description, image, category, unit)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Price, p.Available, p.Description, p.Image, p.Category, p.Unit)
	if err != nil {
		return 0, fmt.Errorf("creating product: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLite) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	return scanProduct(s.db.QueryRowContext(ctx,
		`SELECT id, name, price, available, description, image, category, unit
		 FROM products WHERE id = ?`, id))
}

func (s *SQLite) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, price, available, description, image, category, unit
		 FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return collectProducts(rows)
}

func (s *SQLite) UpdateProduct(ctx context.Context, id int64, p model.ProductParams) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = ?, price = ?, unit = ?, available = ?, category = ?, description = ?
		 WHERE id = ?`,
		p.Name, p.Price, p.Unit, p.Available, p.Category, p.Description, id)
	return err
}

func (s *SQLite) DeleteProduct(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return err
}

func (s *SQLite) CreateLoginLog(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO login_logs (email) VALUES (?)`, email)
	return err
}

func (s *SQLite) RecentLoginLogs(ctx context.Context, limit int) ([]model.LoginLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, login_time FROM login_logs ORDER BY login_time DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing login logs: %w", err)
	}
	return collectLoginLogs(rows)
}
