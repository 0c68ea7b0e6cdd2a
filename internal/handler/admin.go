// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/priceboard/priceboard/internal/model"
	"github.com/priceboard/priceboard/internal/render"
	"github.com/priceboard/priceboard/internal/service"
	"github.com/priceboard/priceboard/internal/store"
)

// recentLoginCount limits the login audit list on the dashboard.
const recentLoginCount = 10

// AdminHandler serves the admin console: product management, user approval,
// and the login audit log.
type AdminHandler struct {
	store    store.Store
	renderer *render.Renderer
	uploads  *service.UploadService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(st store.Store, renderer *render.Renderer, uploads *service.UploadService) *AdminHandler {
	return &AdminHandler{
		store:    st,
		renderer: renderer,
		uploads:  uploads,
	}
}

// Dashboard renders the admin console with products, registered users, and
// the ten most recent logins.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list products", err)
		return
	}

	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list users", err)
		return
	}

	logs, err := h.store.RecentLoginLogs(r.Context(), recentLoginCount)
	if err != nil {
		logAndInternalError(w, "failed to list login logs", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/dashboard.html", render.TemplateData{
		Title: "Admin",
		Data: map[string]any{
			"Products":  products,
			"Users":     users,
			"LoginLogs": logs,
		},
	}); err != nil {
		logAndInternalError(w, "failed to render dashboard", err)
	}
}

// CreateProduct handles the add-product form submission, including the
// optional image upload.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		flashError(w, r, h.renderer, RouteAdmin, "Invalid form data")
		return
	}

	params := productParamsFromForm(r)
	if params.Name == "" {
		flashError(w, r, h.renderer, RouteAdmin, "Product name is required")
		return
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		filename, err := h.uploads.Save(file, header)
		if err != nil {
			slog.Error("failed to save product image", "error", err, "filename", header.Filename)
			flashError(w, r, h.renderer, RouteAdmin, "Failed to save image")
			return
		}
		params.Image = filename
	} else if err != http.ErrMissingFile {
		flashError(w, r, h.renderer, RouteAdmin, "Invalid image upload")
		return
	}

	if _, err := h.store.CreateProduct(r.Context(), params); err != nil {
		logAndInternalError(w, "failed to create product", err, "name", params.Name)
		return
	}

	flashSuccess(w, r, h.renderer, RouteAdmin, "Product added")
}

// productParamsFromForm collects the product text fields from a parsed form.
func productParamsFromForm(r *http.Request) model.ProductParams {
	return model.ProductParams{
		Name:        r.FormValue("name"),
		Price:       r.FormValue("price"),
		Available:   r.FormValue("available"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Unit:        r.FormValue("unit"),
	}
}
