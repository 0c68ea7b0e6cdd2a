// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides the relational data access layer. A single Store
// interface is implemented once per backend (SQLite and Postgres); the
// implementation is selected at startup and never branched per query.
package store

import (
	"context"
	"database/sql"

	"github.com/priceboard/priceboard/internal/model"
)

// Store is the data access interface shared by all backends.
type Store interface {
	// CreateUser inserts a user and returns its id. A violation of the
	// email uniqueness constraint is reported as model.ErrEmailTaken.
	CreateUser(ctx context.Context, email, passwordHash, role, status string) (int64, error)
	// GetUserByEmail returns model.ErrNotFound when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	// GetUserByID returns model.ErrNotFound when no such user exists.
	GetUserByID(ctx context.Context, id int64) (model.User, error)
	// ListUsers returns all users in id order.
	ListUsers(ctx context.Context) ([]model.User, error)
	// ApproveUser sets the user's status to active. Missing ids are a no-op.
	ApproveUser(ctx context.Context, id int64) error
	// DeleteUser removes the user unless its role is admin. Missing ids are
	// a no-op.
	DeleteUser(ctx context.Context, id int64) error

	// CreateProduct inserts a product and returns its id.
	CreateProduct(ctx context.Context, p model.ProductParams) (int64, error)
	// GetProduct returns model.ErrNotFound when no such product exists.
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	// ListProducts returns all products in id order.
	ListProducts(ctx context.Context) ([]model.Product, error)
	// UpdateProduct overwrites the six text fields of a product. The image
	// column is never touched by this operation. Missing ids are a no-op.
	UpdateProduct(ctx context.Context, id int64, p model.ProductParams) error
	// DeleteProduct removes the product. Missing ids are a no-op.
	DeleteProduct(ctx context.Context, id int64) error

	// CreateLoginLog appends a login log row for the email; login_time
	// defaults to the current time.
	CreateLoginLog(ctx context.Context, email string) error
	// RecentLoginLogs returns up to limit rows ordered newest first.
	RecentLoginLogs(ctx context.Context, limit int) ([]model.LoginLog, error)

	// DB exposes the underlying connection for infrastructure that needs it
	// (session store, migrations).
	DB() *sql.DB
	Close() error
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status)
	if err == sql.ErrNoRows {
		return model.User{}, model.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func scanProduct(row *sql.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Available, &p.Description, &p.Image, &p.Category, &p.Unit)
	if err == sql.ErrNoRows {
		return model.Product{}, model.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func collectUsers(rows *sql.Rows) ([]model.User, error) {
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func collectProducts(rows *sql.Rows) ([]model.Product, error) {
	defer func() { _ = rows.Close() }()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Available, &p.Description, &p.Image, &p.Category, &p.Unit); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func collectLoginLogs(rows *sql.Rows) ([]model.LoginLog, error) {
	defer func() { _ = rows.Close() }()

	var logs []model.LoginLog
	for rows.Next() {
		var l model.LoginLog
		if err := rows.Scan(&l.ID, &l.Email, &l.LoginTime); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
