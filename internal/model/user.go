// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the persistent value types shared across the
// application: users, products, and login log entries.
package model

import "errors"

// User roles.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User account statuses. Registration creates pending accounts; only an
// admin approval moves them to active.
const (
	StatusPending = "pending"
	StatusActive  = "active"
)

// Sentinel errors returned by the store layer.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when an insert violates the users email
	// uniqueness constraint.
	ErrEmailTaken = errors.New("email already registered")
)

// User is a registered account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	Status       string
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive reports whether the account has been approved.
func (u User) IsActive() bool {
	return u.Status == StatusActive
}
