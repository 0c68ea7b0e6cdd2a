// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
)

// ApproveUser activates a pending account so it can sign in.
func (h *AdminHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}

	if err := h.store.ApproveUser(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to approve user", err, "id", id)
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdmin, "User approved")
}

// DeleteUser removes a customer account. Admin accounts are never deleted.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}

	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete user", err, "id", id)
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdmin, "User deleted")
}
