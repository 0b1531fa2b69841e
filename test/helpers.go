package test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukapos/dukapos/internal/domain"
	"github.com/dukapos/dukapos/internal/handler"
	"github.com/dukapos/dukapos/internal/infrastructure/logger"
	"github.com/dukapos/dukapos/internal/security"
	"github.com/dukapos/dukapos/internal/security/audit"
	"github.com/dukapos/dukapos/internal/security/auth"
	"github.com/dukapos/dukapos/internal/security/middleware"
	"github.com/dukapos/dukapos/internal/security/ratelimit"
	"github.com/dukapos/dukapos/internal/service"
)

// memStore is an in-memory stand-in for the Postgres repositories. It keeps
// the same write semantics the SQL layer guarantees: unique usernames,
// guarded stock decrements, and all-or-nothing sale recording.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	items  map[int64]*domain.Item
	sales  []*domain.Sale
	nextID int64
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]*domain.User),
		items: make(map[int64]*domain.Item),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Username]; exists {
		return domain.ErrUsernameTaken
	}
	user.ID = m.id()
	user.CreatedAt = time.Now()
	m.users[user.Username] = user
	return nil
}

func (m *memStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *memStore) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

// userRepo and itemRepo give memStore two Create methods with different
// signatures without clashing.
type userRepo struct{ *memStore }

func (r userRepo) Create(ctx context.Context, user *domain.User) error {
	return r.CreateUser(ctx, user)
}

type itemRepo struct{ *memStore }

func (r itemRepo) Create(ctx context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = r.id()
	r.items[item.ID] = item
	return nil
}

func (r itemRepo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (r itemRepo) List(ctx context.Context) ([]*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]*domain.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r itemRepo) Restock(ctx context.Context, id int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Quantity += quantity
	return nil
}

func (r itemRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	for _, sale := range r.sales {
		if sale.ItemID == id {
			return domain.ErrItemHasSales
		}
	}
	delete(r.items, id)
	return nil
}

func (r itemRepo) LowStock(ctx context.Context, threshold int) ([]*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Item
	for _, item := range r.items {
		if item.Quantity <= threshold {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out, nil
}

type saleRepo struct{ *memStore }

func (r saleRepo) RecordSale(ctx context.Context, itemID int64, quantity int) (*domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	if item.Quantity < quantity {
		return nil, domain.ErrInsufficientStock
	}
	item.Quantity -= quantity
	sale := &domain.Sale{
		ID:       r.id(),
		ItemID:   itemID,
		ItemName: item.Name,
		Quantity: quantity,
		Amount:   float64(quantity) * item.Price,
		Date:     time.Now(),
	}
	r.sales = append(r.sales, sale)
	return sale, nil
}

func (r saleRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Sale, len(r.sales))
	copy(out, r.sales)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r saleRepo) ResetAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = nil
	r.items = make(map[int64]*domain.Item)
	return nil
}

type reportRepo struct{ *memStore }

func (r reportRepo) Summary(ctx context.Context, start, end time.Time) (*domain.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := &domain.Summary{}
	for _, sale := range r.sales {
		if !sale.Date.Before(start) && sale.Date.Before(end) {
			summary.TotalSales++
			summary.TotalRevenue += sale.Amount
		}
	}
	return summary, nil
}

func (r reportRepo) Detailed(ctx context.Context, start, end time.Time) ([]*domain.ItemTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byName := make(map[string]*domain.ItemTotals)
	for _, sale := range r.sales {
		if sale.Date.Before(start) || !sale.Date.Before(end) {
			continue
		}
		row, ok := byName[sale.ItemName]
		if !ok {
			row = &domain.ItemTotals{ItemName: sale.ItemName}
			byName[sale.ItemName] = row
		}
		row.QuantitySold += int64(sale.Quantity)
		row.TotalAmount += sale.Amount
	}
	totals := make([]*domain.ItemTotals, 0, len(byName))
	for _, row := range byName {
		totals = append(totals, row)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].TotalAmount > totals[j].TotalAmount })
	return totals, nil
}

// TestServerHelper is a fully wired API server over in-memory storage
type TestServerHelper struct {
	Server *httptest.Server
	Store  *memStore
	Logger *slog.Logger
}

func NewTestServer(t *testing.T) *TestServerHelper {
	t.Helper()

	log := logger.NewLogger("error")
	store := newMemStore()

	tokenManager := auth.NewTokenManager("integration-test-secret", "dukapos")
	authService := service.NewAuthService(userRepo{store}, tokenManager, bcrypt.MinCost, log)
	inventoryService := service.NewInventoryService(itemRepo{store}, log)
	saleService := service.NewSaleService(saleRepo{store}, nil, log)
	reportService := service.NewReportService(reportRepo{store}, itemRepo{store}, nil, log)

	auditLogger := audit.NewLogger(log)
	authorizer := security.NewAuthorizationService(log)
	limiter := ratelimit.NewLimiter(1000, time.Minute)
	t.Cleanup(limiter.Stop)

	authHandler := handler.NewAuthHandler(authService, limiter, log)
	itemsHandler := handler.NewItemsHandler(inventoryService, reportService, nil, log)
	salesHandler := handler.NewSalesHandler(saleService, auditLogger, log)
	reportsHandler := handler.NewReportsHandler(reportService, nil, log)
	adminHandler := handler.NewAdminHandler(saleService, authorizer, auditLogger, log)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("POST /api/items/{id}/restock", itemsHandler.Restock)
	mux.HandleFunc("DELETE /api/items/{id}", itemsHandler.Delete)
	mux.HandleFunc("GET /api/items/low-stock", itemsHandler.LowStock)
	mux.HandleFunc("POST /api/sales", salesHandler.Record)
	mux.HandleFunc("GET /api/sales", salesHandler.List)
	mux.HandleFunc("GET /api/reports/summary", reportsHandler.Summary)
	mux.HandleFunc("GET /api/reports/detailed", reportsHandler.Detailed)
	mux.HandleFunc("POST /api/admin/reset", adminHandler.Reset)
	mux.HandleFunc("GET /healthz", handler.Healthz)

	root := middleware.JWTMiddleware(tokenManager, log)(mux)
	server := httptest.NewServer(root)
	t.Cleanup(server.Close)

	return &TestServerHelper{Server: server, Store: store, Logger: log}
}

func (h *TestServerHelper) URL() string {
	return h.Server.URL
}

// PostJSON sends a JSON body with an optional bearer token and decodes the
// response into out when out is non-nil
func (h *TestServerHelper) PostJSON(t *testing.T, path, token string, body, out interface{}) *http.Response {
	t.Helper()
	return h.doJSON(t, http.MethodPost, path, token, body, out)
}

func (h *TestServerHelper) GetJSON(t *testing.T, path, token string, out interface{}) *http.Response {
	t.Helper()
	return h.doJSON(t, http.MethodGet, path, token, nil, out)
}

func (h *TestServerHelper) Delete(t *testing.T, path, token string) *http.Response {
	t.Helper()
	return h.doJSON(t, http.MethodDelete, path, token, nil, nil)
}

func (h *TestServerHelper) doJSON(t *testing.T, method, path, token string, body, out interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, h.URL()+path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp
}

// RegisterAndLogin creates an account through the API and returns its token
func (h *TestServerHelper) RegisterAndLogin(t *testing.T, username, password, role string) string {
	t.Helper()

	resp := h.PostJSON(t, "/api/auth/register", "", map[string]string{
		"username": username, "password": password, "role": role,
	}, nil)
	AssertStatusCode(t, resp, http.StatusCreated)

	var login struct {
		Token string `json:"token"`
	}
	resp = h.PostJSON(t, "/api/auth/login", "", map[string]string{
		"username": username, "password": password,
	}, &login)
	AssertStatusCode(t, resp, http.StatusOK)
	if login.Token == "" {
		t.Fatal("login returned no token")
	}
	return login.Token
}

func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}
