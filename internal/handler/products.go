// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/priceboard/priceboard/internal/model"
	"github.com/priceboard/priceboard/internal/render"
)

// EditProductForm renders the edit page for a single product. Unknown ids
// bounce back to the admin console.
func (h *AdminHandler) EditProductForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
			return
		}
		logAndInternalError(w, "failed to get product", err, "id", id)
		return
	}

	if err := h.renderer.Render(w, r, "admin/edit_product.html", render.TemplateData{
		Title: "Edit Product",
		Data: map[string]any{
			"Product": product,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render product form", err)
	}
}

// UpdateProduct handles the edit form submission. The stored image is left
// as is; only the text fields change.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteAdmin, "Invalid form data")
		return
	}

	params := productParamsFromForm(r)
	if err := h.store.UpdateProduct(r.Context(), id, params); err != nil {
		logAndInternalError(w, "failed to update product", err, "id", id)
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdmin, "Product updated")
}

// DeleteProduct removes a product and returns to the admin console.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}

	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete product", err, "id", id)
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdmin, "Product deleted")
}
