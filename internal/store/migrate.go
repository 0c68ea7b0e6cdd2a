// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Dialect identifies a supported database backend.
type Dialect string

// Supported dialects.
const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// migrationsDir maps a dialect to its embedded migration directory.
func migrationsDir(dialect Dialect) string {
	if dialect == DialectPostgres {
		return "migrations/postgres"
	}
	return "migrations/sqlite"
}

// Migrate runs all pending migrations for the given dialect.
func Migrate(db *sql.DB, dialect Dialect) error {
	dir := migrationsDir(dialect)

	sub, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("getting migrations fs: %w", err)
	}
	goose.SetBaseFS(sub)

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
