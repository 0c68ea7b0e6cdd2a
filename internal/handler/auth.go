// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/priceboard/priceboard/internal/auth"
	"github.com/priceboard/priceboard/internal/model"
	"github.com/priceboard/priceboard/internal/render"
	"github.com/priceboard/priceboard/internal/session"
	"github.com/priceboard/priceboard/internal/store"
)

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	store          store.Store
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(st store.Store, renderer *render.Renderer, sm *scs.SessionManager) *AuthHandler {
	return &AuthHandler{
		store:          st,
		renderer:       renderer,
		sessionManager: sm,
	}
}

// RegisterForm renders the customer registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "auth/register.html", render.TemplateData{
		Title: "Register",
	}); err != nil {
		logAndInternalError(w, "failed to render registration form", err)
	}
}

// Register handles the registration form submission. New accounts start in
// pending status and cannot sign in until an admin approves them.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteRegister, "Invalid form data")
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteRegister, "Email and password are required")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", err)
		return
	}

	_, err = h.store.CreateUser(r.Context(), email, hash, model.RoleCustomer, model.StatusPending)
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			flashError(w, r, h.renderer, RoutePricing, "Email already registered.")
			return
		}
		logAndInternalError(w, "failed to create user", err, "email", email)
		return
	}

	slog.Info("user registered", "email", email)
	flashAndRedirect(w, r, h.renderer, RoutePricing, "Account pending admin approval.", flashTypeInfo)
}

// Authenticate handles the login form submission. Pending accounts are
// rejected with a flash message and no session is created for them.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RoutePricing, "Invalid form data")
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			flashError(w, r, h.renderer, RoutePricing, "Invalid Credentials")
			return
		}
		logAndInternalError(w, "failed to look up user", err, "email", email)
		return
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		flashError(w, r, h.renderer, RoutePricing, "Invalid Credentials")
		return
	}

	if !user.IsActive() {
		flashError(w, r, h.renderer, RoutePricing, "Your account is pending admin approval.")
		return
	}

	if err := h.store.CreateLoginLog(r.Context(), user.Email); err != nil {
		slog.Error("failed to record login", "error", err, "email", user.Email)
	}

	// Renew the session token on privilege change to prevent session fixation.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "failed to renew session token", err)
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyUser, user.Email)
	h.sessionManager.Put(r.Context(), session.KeyRole, user.Role)

	slog.Info("user logged in", "email", user.Email, "role", user.Role)

	if user.IsAdmin() {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, RoutePricing, http.StatusSeeOther)
}

// Logout destroys the session and returns to the catalog page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "failed to destroy session", err)
		return
	}
	http.Redirect(w, r, RoutePricing, http.StatusSeeOther)
}
