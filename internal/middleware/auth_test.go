// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/priceboard/priceboard/internal/model"
	"github.com/priceboard/priceboard/internal/session"
)

// withIdentity stamps an Identity onto the request context directly.
func withIdentity(r *http.Request, ident Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextKeyIdentity, ident))
}

func TestIdentity_ZeroValue(t *testing.T) {
	var ident Identity
	if ident.IsAuthenticated() {
		t.Error("zero Identity must be anonymous")
	}
	if ident.IsAdmin() {
		t.Error("zero Identity must not be admin")
	}
}

func TestIdentity_Roles(t *testing.T) {
	admin := Identity{User: "admin@test.com", Role: model.RoleAdmin}
	if !admin.IsAuthenticated() || !admin.IsAdmin() {
		t.Error("admin identity misclassified")
	}

	customer := Identity{User: "c@example.com", Role: model.RoleCustomer}
	if !customer.IsAuthenticated() {
		t.Error("customer identity must be authenticated")
	}
	if customer.IsAdmin() {
		t.Error("customer identity must not be admin")
	}
}

func TestGetIdentity_Missing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/pricing", nil)
	if ident := GetIdentity(r); ident != (Identity{}) {
		t.Errorf("expected zero Identity, got %+v", ident)
	}
}

func TestLoadIdentity(t *testing.T) {
	sm := scs.New()

	var got Identity
	h := sm.LoadAndSave(LoadIdentity(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetIdentity(r)
	})))

	// Anonymous request: zero identity
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pricing", nil))
	if got.IsAuthenticated() {
		t.Errorf("anonymous request carried identity %+v", got)
	}

	// Populated session: identity present
	loginHandler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), session.KeyUser, "user@example.com")
		sm.Put(r.Context(), session.KeyRole, model.RoleCustomer)
	}))
	rec = httptest.NewRecorder()
	loginHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login did not set a session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/pricing", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got.User != "user@example.com" || got.Role != model.RoleCustomer {
		t.Errorf("identity = %+v, want user@example.com/customer", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	gate := RequireAdmin("/pricing")
	protected := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		ident      Identity
		wantStatus int
	}{
		{"anonymous", Identity{}, http.StatusSeeOther},
		{"customer", Identity{User: "c@example.com", Role: model.RoleCustomer}, http.StatusSeeOther},
		{"admin", Identity{User: "admin@test.com", Role: model.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := withIdentity(httptest.NewRequest(http.MethodGet, "/admin", nil), tt.ident)
			protected.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusSeeOther {
				if loc := rec.Header().Get("Location"); loc != "/pricing" {
					t.Errorf("redirect location = %q, want /pricing", loc)
				}
			}
		})
	}
}
