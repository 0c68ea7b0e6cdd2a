// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the server-side session manager.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/priceboard/priceboard/internal/store"
)

// Session keys. The session holds only the immutable {user, role} pair.
const (
	KeyUser = "user"
	KeyRole = "role"
)

// New creates a session manager backed by the same database as the store.
func New(db *sql.DB, dialect store.Dialect, isDev bool) *scs.SessionManager {
	sm := scs.New()

	if dialect == store.DialectPostgres {
		sm.Store = postgresstore.New(db)
	} else {
		sm.Store = sqlite3store.New(db)
	}

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	// The __Host- prefix locks the cookie to this host over HTTPS.
	if !isDev {
		sm.Cookie.Name = "__Host-session"
		sm.Cookie.Path = "/"
	}

	return sm
}
