// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session identity,
// authorization gates, CSRF protection, and security headers.
package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/priceboard/priceboard/internal/model"
	"github.com/priceboard/priceboard/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyIdentity holds the Identity value for the request.
const ContextKeyIdentity ContextKey = "identity"

// Identity is the immutable session state attached to each request: the
// logged-in email and its role. The zero value means anonymous.
type Identity struct {
	User string
	Role string
}

// IsAuthenticated reports whether a user is logged in.
func (i Identity) IsAuthenticated() bool {
	return i.User != ""
}

// IsAdmin reports whether the session carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// LoadIdentity creates middleware that materializes the session's
// {user, role} pair as an Identity value on the request context. Anonymous
// requests carry a zero Identity and proceed.
func LoadIdentity(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := Identity{
				User: sm.GetString(r.Context(), session.KeyUser),
				Role: sm.GetString(r.Context(), session.KeyRole),
			}
			ctx := context.WithValue(r.Context(), ContextKeyIdentity, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the Identity from the request context. Returns the
// zero Identity when LoadIdentity did not run.
func GetIdentity(r *http.Request) Identity {
	ident, _ := r.Context().Value(ContextKeyIdentity).(Identity)
	return ident
}

// RequireAdmin creates middleware gating the admin console. Non-admin
// sessions are redirected to the pricing page with no error message and no
// log entry; the failure is deliberately indistinguishable from a plain
// visit.
func RequireAdmin(pricingURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetIdentity(r).IsAdmin() {
				http.Redirect(w, r, pricingURL, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
