// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/priceboard/priceboard/internal/middleware"
	"github.com/priceboard/priceboard/internal/render"
	"github.com/priceboard/priceboard/internal/store"
)

// CatalogHandler serves the public catalog page.
type CatalogHandler struct {
	store    store.Store
	renderer *render.Renderer
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(st store.Store, renderer *render.Renderer) *CatalogHandler {
	return &CatalogHandler{store: st, renderer: renderer}
}

// Pricing renders the product price list for signed-in users. Anonymous
// visitors get the login wall instead; prices are never sent to them.
func (h *CatalogHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r)
	if !ident.IsAuthenticated() {
		if err := h.renderer.Render(w, r, "site/logingate.html", render.TemplateData{
			Title: "Sign In",
		}); err != nil {
			logAndInternalError(w, "failed to render login gate", err)
		}
		return
	}

	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list products", err)
		return
	}

	if err := h.renderer.Render(w, r, "site/pricing.html", render.TemplateData{
		Title: "Price List",
		Data: map[string]any{
			"Products": products,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render price list", err)
	}
}
