// Copyright (c) 2026 Priceboard Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/priceboard/priceboard/internal/model"
	"github.com/priceboard/priceboard/internal/store"
)

func TestAdminGate(t *testing.T) {
	app := newTestApp(t)
	createActiveCustomer(t, app, "cust@example.com", "secret123")

	adminPages := []string{
		RouteAdmin,
		"/edit/1",
		"/approve_user/1",
		"/delete_user/1",
		"/delete_product/1",
	}

	t.Run("anonymous", func(t *testing.T) {
		c := newTestClient(t, app)
		for _, page := range adminPages {
			rec := c.get(page)
			assertStatus(t, rec.Code, http.StatusSeeOther)
			if loc := rec.Header().Get("Location"); loc != RoutePricing {
				t.Errorf("GET %s: redirect = %q, want %q", page, loc, RoutePricing)
			}
		}
	})

	t.Run("customer", func(t *testing.T) {
		c := newTestClient(t, app)
		c.login("cust@example.com", "secret123")
		for _, page := range adminPages {
			rec := c.get(page)
			assertStatus(t, rec.Code, http.StatusSeeOther)
			if loc := rec.Header().Get("Location"); loc != RoutePricing {
				t.Errorf("GET %s: redirect = %q, want %q", page, loc, RoutePricing)
			}
		}
	})
}

func TestAdminGate_NoMutationThroughGate(t *testing.T) {
	app := newTestApp(t)

	cust := newTestClient(t, app)
	cust.postAndFollow(RouteRegister, url.Values{
		"email":    {"victim@example.com"},
		"password": {"secret123"},
	})
	user, err := app.store.GetUserByEmail(context.Background(), "victim@example.com")
	if err != nil {
		t.Fatalf("user not found: %v", err)
	}

	id := seedProduct(t, app, "Target", "1.00")

	// A non-admin session hitting mutating admin routes changes nothing
	c := newTestClient(t, app)
	c.get("/approve_user/" + itoa(user.ID))
	c.get("/delete_user/" + itoa(user.ID))
	c.get("/delete_product/" + itoa(id))

	user, err = app.store.GetUserByEmail(context.Background(), "victim@example.com")
	if err != nil {
		t.Fatalf("user was deleted through the gate: %v", err)
	}
	if user.IsActive() {
		t.Error("user was approved through the gate")
	}
	if _, err := app.store.GetProduct(context.Background(), id); err != nil {
		t.Errorf("product was deleted through the gate: %v", err)
	}
}

func TestDashboard(t *testing.T) {
	app := newTestApp(t)
	c := newTestClient(t, app)

	seedProduct(t, app, "Olive Oil", "9.80")
	createActiveCustomer(t, app, "cust@example.com", "secret123")

	// Customer logs in so the audit list has an entry
	cust := newTestClient(t, app)
	cust.login("cust@example.com", "secret123")

	c.loginAdmin()
	rec := c.get(RouteAdmin)
	assertStatus(t, rec.Code, http.StatusOK)
	assertBodyContains(t, rec, "Olive Oil")
	assertBodyContains(t, rec, "cust@example.com")
	assertBodyContains(t, rec, store.DefaultAdminEmail)
	assertBodyContains(t, rec, "Recent Logins")
}

func TestCreateProduct(t *testing.T) {
	app := newTestApp(t)
	c := newTestClient(t, app)
	c.loginAdmin()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, value := range map[string]string{
		"name":        "Honey",
		"price":       "7.20",
		"available":   "yes",
		"category":    "Pantry",
		"unit":        "jar",
		"description": "Raw wildflower honey",
	} {
		if err := mw.WriteField(field, value); err != nil {
			t.Fatalf("writing field %s: %v", field, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, RouteAdmin, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := c.do(req)
	assertStatus(t, rec.Code, http.StatusSeeOther)

	products, err := app.store.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("listing products: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("len(products) = %d, want 1", len(products))
	}
	if products[0].Name != "Honey" || products[0].Price != "7.20" {
		t.Errorf("product = %+v", products[0])
	}
	if products[0].Image != "" {
		t.Errorf("image = %q, want empty without upload", products[0].Image)
	}
}

func TestCreateProduct_MissingName(t *testing.T) {
	app := newTestApp(t)
	c := newTestClient(t, app)
	c.loginAdmin()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("price", "1.00")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, RouteAdmin, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := c.do(req)
	assertStatus(t, rec.Code, http.StatusSeeOther)

	products, _ := app.store.ListProducts(context.Background())
	if len(products) != 0 {
		t.Errorf("product created without a name")
	}
}

func TestEditProduct(t *testing.T) {
	app := newTestApp(t)
	c := newTestClient(t, app)
	c.loginAdmin()

	id := seedProduct(t, app, "Rye Bread", "2.40")

	rec := c.get("/edit/" + itoa(id))
	assertStatus(t, rec.Code, http.StatusOK)
	assertBodyContains(t, rec, "Rye Bread")

	rec = c.postForm("/edit/"+itoa(id), url.Values{
		"name":        {"Rye Bread 750g"},
		"price":       {"2.60"},
		"available":   {"no"},
		"category":    {"Bakery"},
		"unit":        {"loaf"},
		"description": {"Dark rye"},
	})
	assertStatus(t, rec.Code, http.StatusSeeOther)

	p, err := app.store.GetProduct(context.Background(), id)
	if err != nil {
		t.Fatalf("getting product: %v", err)
	}
	if p.Name != "Rye Bread 750g" || p.Price != "2.60" || p.Available != "no" {
		t.Errorf("product = %+v", p)
	}
}

func TestEditProduct_UnknownID(t *testing.T) {
	app := newTestApp(t)
	c := newTestClient(t, app)
	c.loginAdmin()

	rec := c.get("/edit/9999")
	assertStatus(t, rec.Code, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != RouteAdmin {
		t.Errorf("redirect = %q, want %q", loc, RouteAdmin)
	}
}

func TestDeleteProduct(t *testing.T) {
	app := newTestApp(t)
	c := newTestClient(t, app)
	c.loginAdmin()

	id := seedProduct(t, app, "Oat Milk", "1.90")

	rec := c.get("/delete_product/" + itoa(id))
	assertStatus(t, rec.Code, http.StatusSeeOther)

	if _, err := app.store.GetProduct(context.Background(), id); err != model.ErrNotFound {
		t.Errorf("product still present after delete: %v", err)
	}

	// Deleting again is a no-op
	rec = c.get("/delete_product/" + itoa(id))
	assertStatus(t, rec.Code, http.StatusSeeOther)
}

func TestApproveUser(t *testing.T) {
	app := newTestApp(t)
	c := newTestClient(t, app)
	c.loginAdmin()

	cust := newTestClient(t, app)
	cust.postAndFollow(RouteRegister, url.Values{
		"email":    {"pending@example.com"},
		"password": {"secret123"},
	})

	user, err := app.store.GetUserByEmail(context.Background(), "pending@example.com")
	if err != nil {
		t.Fatalf("user not found: %v", err)
	}

	rec := c.get("/approve_user/" + itoa(user.ID))
	assertStatus(t, rec.Code, http.StatusSeeOther)

	user, _ = app.store.GetUserByEmail(context.Background(), "pending@example.com")
	if !user.IsActive() {
		t.Errorf("status = %q, want active", user.Status)
	}
}

func TestDeleteUser(t *testing.T) {
	app := newTestApp(t)
	c := newTestClient(t, app)
	c.loginAdmin()

	id := createActiveCustomer(t, app, "cust@example.com", "secret123")

	rec := c.get("/delete_user/" + itoa(id))
	assertStatus(t, rec.Code, http.StatusSeeOther)

	if _, err := app.store.GetUserByID(context.Background(), id); err != model.ErrNotFound {
		t.Errorf("user still present after delete: %v", err)
	}
}

func TestDeleteUser_AdminSurvives(t *testing.T) {
	app := newTestApp(t)
	c := newTestClient(t, app)
	c.loginAdmin()

	admin, err := app.store.GetUserByEmail(context.Background(), store.DefaultAdminEmail)
	if err != nil {
		t.Fatalf("admin not found: %v", err)
	}

	rec := c.get("/delete_user/" + itoa(admin.ID))
	assertStatus(t, rec.Code, http.StatusSeeOther)

	if _, err := app.store.GetUserByID(context.Background(), admin.ID); err != nil {
		t.Errorf("admin account was deleted: %v", err)
	}
}
