// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route paths.
const (
	RoutePricing       = "/pricing"
	RouteRegister      = "/register"
	RouteAuth          = "/auth"
	RouteLogout        = "/logout"
	RouteAdmin         = "/admin"
	RouteEdit          = "/edit/{id}"
	RouteApproveUser   = "/approve_user/{id}"
	RouteDeleteUser    = "/delete_user/{id}"
	RouteDeleteProduct = "/delete_product/{id}"
)

// Flash message types.
const (
	flashTypeSuccess = "success"
	flashTypeError   = "error"
	flashTypeInfo    = "info"
)
