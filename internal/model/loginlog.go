// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// LoginLog is an append-only record of a successful login. Rows are never
// updated or deleted by the application.
type LoginLog struct {
	ID        int64
	Email     string
	LoginTime time.Time
}
