// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/priceboard/priceboard/internal/auth"
	"github.com/priceboard/priceboard/internal/middleware"
	"github.com/priceboard/priceboard/internal/model"
	"github.com/priceboard/priceboard/internal/render"
	"github.com/priceboard/priceboard/internal/service"
	"github.com/priceboard/priceboard/internal/store"
	"github.com/priceboard/priceboard/web"
)

// testApp wires the full application against an in-memory database.
type testApp struct {
	store  *store.SQLite
	sm     *scs.SessionManager
	router http.Handler
}

// newTestApp builds the router the same way main does, minus the transport
// middleware that only matters over a real network.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db, store.DialectSQLite); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	st := store.NewSQLite(db)
	if err := store.Seed(context.Background(), st); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	sm := scs.New()
	sm.Lifetime = 24 * time.Hour

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("failed to get templates fs: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
	})
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	uploads := service.NewUploadService(t.TempDir())

	authHandler := NewAuthHandler(st, renderer, sm)
	catalogHandler := NewCatalogHandler(st, renderer)
	adminHandler := NewAdminHandler(st, renderer, uploads)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LoadIdentity(sm))

	r.Get("/", catalogHandler.Pricing)
	r.Get(RoutePricing, catalogHandler.Pricing)
	r.Get(RouteRegister, authHandler.RegisterForm)
	r.Post(RouteRegister, authHandler.Register)
	r.Post(RouteAuth, authHandler.Authenticate)
	r.Get(RouteLogout, authHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(RoutePricing))
		r.Get(RouteAdmin, adminHandler.Dashboard)
		r.Post(RouteAdmin, adminHandler.CreateProduct)
		r.Get(RouteEdit, adminHandler.EditProductForm)
		r.Post(RouteEdit, adminHandler.UpdateProduct)
		r.Get(RouteApproveUser, adminHandler.ApproveUser)
		r.Get(RouteDeleteUser, adminHandler.DeleteUser)
		r.Get(RouteDeleteProduct, adminHandler.DeleteProduct)
	})

	return &testApp{store: st, sm: sm, router: r}
}

// testClient drives the router while carrying session cookies between
// requests, like a browser would.
type testClient struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func newTestClient(t *testing.T, app *testApp) *testClient {
	return &testClient{t: t, app: app, cookies: make(map[string]*http.Cookie)}
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()

	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	c.app.router.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return rec
}

func (c *testClient) get(target string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *testClient) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// postAndFollow submits a form and follows a single redirect, returning the
// final page. Flash messages set by the POST show up in this response.
func (c *testClient) postAndFollow(target string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	rec := c.postForm(target, form)
	if rec.Code != http.StatusSeeOther && rec.Code != http.StatusFound {
		c.t.Fatalf("POST %s: status = %d, want a redirect", target, rec.Code)
	}
	return c.get(rec.Header().Get("Location"))
}

// login signs the client in through the real login flow.
func (c *testClient) login(email, password string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.postForm(RouteAuth, url.Values{
		"email":    {email},
		"password": {password},
	})
}

// loginAdmin signs in as the seeded admin.
func (c *testClient) loginAdmin() {
	c.t.Helper()
	rec := c.login(store.DefaultAdminEmail, store.DefaultAdminPassword)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != RouteAdmin {
		c.t.Fatalf("admin login failed: status %d, location %q", rec.Code, rec.Header().Get("Location"))
	}
}

// createActiveCustomer inserts an approved customer directly into the store.
func createActiveCustomer(t *testing.T, app *testApp, email, password string) int64 {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	id, err := app.store.CreateUser(context.Background(), email, hash, model.RoleCustomer, model.StatusActive)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return id
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

func assertBodyContains(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("body does not contain %q", want)
	}
}

func assertBodyNotContains(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if strings.Contains(rec.Body.String(), want) {
		t.Errorf("body must not contain %q", want)
	}
}
