package test

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHealthEndpointIsPublic(t *testing.T) {
	h := NewTestServer(t)

	resp, err := http.Get(h.URL() + "/healthz")
	if err != nil {
		t.Fatalf("healthz failed: %v", err)
	}
	defer resp.Body.Close()
	AssertStatusCode(t, resp, http.StatusOK)
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	h := NewTestServer(t)

	resp := h.GetJSON(t, "/api/items", "", nil)
	AssertStatusCode(t, resp, http.StatusUnauthorized)

	resp = h.PostJSON(t, "/api/sales", "", map[string]interface{}{"itemId": 1, "quantity": 1}, nil)
	AssertStatusCode(t, resp, http.StatusUnauthorized)
}

func TestRegisterValidationOverHTTP(t *testing.T) {
	h := NewTestServer(t)

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"short username", map[string]string{"username": "ab", "password": "secret1"}, http.StatusBadRequest},
		{"short password", map[string]string{"username": "mary", "password": "abc"}, http.StatusBadRequest},
		{"bad characters", map[string]string{"username": "mary!", "password": "secret1"}, http.StatusBadRequest},
		{"unknown role", map[string]string{"username": "mary", "password": "secret1", "role": "owner"}, http.StatusBadRequest},
		{"valid", map[string]string{"username": "mary", "password": "secret1"}, http.StatusCreated},
		{"duplicate", map[string]string{"username": "mary", "password": "secret1"}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.PostJSON(t, "/api/auth/register", "", tt.body, nil)
			AssertStatusCode(t, resp, tt.want)
		})
	}
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	h := NewTestServer(t)
	h.RegisterAndLogin(t, "mary", "secret1", "")

	var unknownUser, wrongPassword struct {
		Error string `json:"error"`
	}

	resp := h.PostJSON(t, "/api/auth/login", "", map[string]string{
		"username": "nobody", "password": "secret1",
	}, &unknownUser)
	AssertStatusCode(t, resp, http.StatusUnauthorized)

	resp = h.PostJSON(t, "/api/auth/login", "", map[string]string{
		"username": "mary", "password": "wrong-password",
	}, &wrongPassword)
	AssertStatusCode(t, resp, http.StatusUnauthorized)

	if unknownUser.Error != wrongPassword.Error {
		t.Fatalf("login failures leak which field was wrong: %q vs %q",
			unknownUser.Error, wrongPassword.Error)
	}
}

func TestSaleLifecycle(t *testing.T) {
	h := NewTestServer(t)
	token := h.RegisterAndLogin(t, "mary", "secret1", "")

	var item struct {
		ID int64 `json:"id"`
	}
	resp := h.PostJSON(t, "/api/items", token, map[string]interface{}{
		"name": "Soap", "quantity": 10, "price": 50.0,
	}, &item)
	AssertStatusCode(t, resp, http.StatusCreated)

	var sale struct {
		ID       int64   `json:"id"`
		Quantity int     `json:"quantity"`
		Amount   float64 `json:"amount"`
	}
	resp = h.PostJSON(t, "/api/sales", token, map[string]interface{}{
		"itemId": item.ID, "quantity": 3,
	}, &sale)
	AssertStatusCode(t, resp, http.StatusCreated)
	if sale.Amount != 150.0 {
		t.Fatalf("expected sale amount 150.0, got %v", sale.Amount)
	}

	var items []struct {
		Quantity int `json:"quantity"`
	}
	resp = h.GetJSON(t, "/api/items", token, &items)
	AssertStatusCode(t, resp, http.StatusOK)
	if len(items) != 1 || items[0].Quantity != 7 {
		t.Fatalf("expected one item with quantity 7, got %+v", items)
	}

	var summary struct {
		TotalSales   int64   `json:"totalSales"`
		TotalRevenue float64 `json:"totalRevenue"`
		AverageSale  float64 `json:"averageSale"`
		Currency     string  `json:"currency"`
	}
	resp = h.GetJSON(t, "/api/reports/summary?period=today", token, &summary)
	AssertStatusCode(t, resp, http.StatusOK)
	if summary.TotalSales != 1 || summary.TotalRevenue != 150.0 || summary.AverageSale != 150.0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Currency != "USD" {
		t.Fatalf("expected default currency USD, got %q", summary.Currency)
	}
}

func TestSaleFailureModes(t *testing.T) {
	h := NewTestServer(t)
	token := h.RegisterAndLogin(t, "mary", "secret1", "")

	var item struct {
		ID int64 `json:"id"`
	}
	resp := h.PostJSON(t, "/api/items", token, map[string]interface{}{
		"name": "Rice", "quantity": 2, "price": 5.0,
	}, &item)
	AssertStatusCode(t, resp, http.StatusCreated)

	resp = h.PostJSON(t, "/api/sales", token, map[string]interface{}{
		"itemId": 9999, "quantity": 1,
	}, nil)
	AssertStatusCode(t, resp, http.StatusNotFound)

	resp = h.PostJSON(t, "/api/sales", token, map[string]interface{}{
		"itemId": item.ID, "quantity": 0,
	}, nil)
	AssertStatusCode(t, resp, http.StatusBadRequest)

	resp = h.PostJSON(t, "/api/sales", token, map[string]interface{}{
		"itemId": item.ID, "quantity": 100,
	}, nil)
	AssertStatusCode(t, resp, http.StatusBadRequest)

	// Nothing above should have touched the stock.
	var items []struct {
		Quantity int `json:"quantity"`
	}
	h.GetJSON(t, "/api/items", token, &items)
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("failed sales should not change stock, got %+v", items)
	}
}

func TestItemDeleteBlockedBySales(t *testing.T) {
	h := NewTestServer(t)
	token := h.RegisterAndLogin(t, "mary", "secret1", "")

	var item struct {
		ID int64 `json:"id"`
	}
	h.PostJSON(t, "/api/items", token, map[string]interface{}{
		"name": "Soap", "quantity": 5, "price": 10.0,
	}, &item)
	h.PostJSON(t, "/api/sales", token, map[string]interface{}{
		"itemId": item.ID, "quantity": 1,
	}, nil)

	resp := h.Delete(t, fmt.Sprintf("/api/items/%d", item.ID), token)
	AssertStatusCode(t, resp, http.StatusConflict)
}

func TestLowStockEndpoint(t *testing.T) {
	h := NewTestServer(t)
	token := h.RegisterAndLogin(t, "mary", "secret1", "")

	for _, it := range []map[string]interface{}{
		{"name": "Rice", "quantity": 10, "price": 5.0},
		{"name": "Soap", "quantity": 3, "price": 2.0},
		{"name": "Salt", "quantity": 5, "price": 1.0},
	} {
		resp := h.PostJSON(t, "/api/items", token, it, nil)
		AssertStatusCode(t, resp, http.StatusCreated)
	}

	var low []struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}
	resp := h.GetJSON(t, "/api/items/low-stock", token, &low)
	AssertStatusCode(t, resp, http.StatusOK)

	if len(low) != 2 {
		t.Fatalf("expected 2 low-stock items at default threshold, got %d", len(low))
	}
	if low[0].Name != "Soap" || low[1].Name != "Salt" {
		t.Fatalf("expected ascending quantity order [Soap Salt], got %+v", low)
	}
}

func TestFactoryResetRequiresAdmin(t *testing.T) {
	h := NewTestServer(t)
	userToken := h.RegisterAndLogin(t, "mary", "secret1", "")
	adminToken := h.RegisterAndLogin(t, "boss", "secret1", "admin")

	h.PostJSON(t, "/api/items", userToken, map[string]interface{}{
		"name": "Soap", "quantity": 5, "price": 10.0,
	}, nil)

	resp := h.PostJSON(t, "/api/admin/reset", userToken, nil, nil)
	AssertStatusCode(t, resp, http.StatusForbidden)

	resp = h.PostJSON(t, "/api/admin/reset", adminToken, nil, nil)
	AssertStatusCode(t, resp, http.StatusOK)

	var items []struct{}
	h.GetJSON(t, "/api/items", userToken, &items)
	if len(items) != 0 {
		t.Fatalf("expected empty inventory after reset, got %d items", len(items))
	}
}
