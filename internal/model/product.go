// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Product is a price list entry. All fields besides ID are free-form text;
// price is deliberately not numeric.
type Product struct {
	ID          int64
	Name        string
	Price       string
	Available   string
	Description string
	Image       string
	Category    string
	Unit        string
}

// ProductParams holds the writable product fields for create and update
// operations. Image is only ever set on create; the edit path leaves it
// untouched.
type ProductParams struct {
	Name        string
	Price       string
	Available   string
	Description string
	Image       string
	Category    string
	Unit        string
}
