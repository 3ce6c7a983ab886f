package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ardiwn/shop-api/internal/auth"
	"github.com/ardiwn/shop-api/internal/core/domain"
	"github.com/ardiwn/shop-api/internal/core/service"
)

// In-memory store implementing every repository port, seeded like the
// development database.
type memStore struct {
	mu       sync.Mutex
	users    []*domain.User
	products []*domain.Product
	orders   []domain.Order
}

func newMemStore(t *testing.T) *memStore {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	return &memStore{
		users: []*domain.User{
			{ID: 1, Email: "alfonso@gmail.com", PasswordHash: string(hash), Roles: []string{"ADMIN"}},
		},
		products: []*domain.Product{
			{ID: 1, Name: "Laptop", Price: decimal.NewFromInt(1500), Qty: 10},
			{ID: 2, Name: "Mouse", Price: decimal.NewFromInt(20), Qty: 20},
			{ID: 3, Name: "Keyboard", Price: decimal.NewFromInt(50), Qty: 30},
		},
	}
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.products {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memStore) CreateOrder(ctx context.Context, userID int64, createdAt time.Time, items []domain.LineItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range items {
		p := m.findProduct(item.ProductID)
		if p == nil || p.Qty < item.Qty {
			return 0, fmt.Errorf("%w: product %d", domain.ErrInsufficientStock, item.ProductID)
		}
	}

	order := domain.Order{ID: int64(len(m.orders) + 1), UserID: userID, CreatedAt: createdAt}
	for _, item := range items {
		m.findProduct(item.ProductID).Qty -= item.Qty
		order.Items = append(order.Items, domain.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Qty:       item.Qty,
		})
	}
	m.orders = append(m.orders, order)

	return order.ID, nil
}

func (m *memStore) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.OrderSummary
	for _, o := range m.orders {
		email := ""
		for _, u := range m.users {
			if u.ID == o.UserID {
				email = u.Email
			}
		}
		out = append(out, domain.OrderSummary{ID: o.ID, CreatedAt: o.CreatedAt, Email: email})
	}
	return out, nil
}

func (m *memStore) findProduct(id int64) *domain.Product {
	for _, p := range m.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *memStore) productQty(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p := m.findProduct(id); p != nil {
		return p.Qty
	}
	return -1
}

const testSecret = "test-secret"

func newTestRouter(t *testing.T, store *memStore) http.Handler {
	t.Helper()

	tokens := auth.NewTokenManager(testSecret, time.Hour)
	h := NewHTTPHandler(
		service.NewAuthService(store, tokens),
		service.NewCatalogService(store),
		service.NewOrderService(store, store),
		tokens.TTL(),
	)
	return NewRouter(h, tokens)
}

func do(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.SetBasicAuth("alfonso@gmail.com", "password123")
	rec := do(router, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func authedRequest(method, path, token string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, newMemStore(t))

	rec := do(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp["status"])
	assert.NotEmpty(t, resp["timestamp"])
}

func TestLogin_Success(t *testing.T) {
	router := newTestRouter(t, newMemStore(t))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.SetBasicAuth("alfonso@gmail.com", "password123")
	rec := do(router, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
}

func TestLogin_MissingHeader(t *testing.T) {
	router := newTestRouter(t, newMemStore(t))

	rec := do(router, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Basic", rec.Header().Get("WWW-Authenticate"))
}

func TestLogin_BadCredentials(t *testing.T) {
	router := newTestRouter(t, newMemStore(t))

	for _, tc := range []struct{ email, password string }{
		{"alfonso@gmail.com", "wrong"},
		{"nobody@gmail.com", "password123"},
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.SetBasicAuth(tc.email, tc.password)
		rec := do(router, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "invalid credentials", resp.Message, "failure shape must not leak user existence")
	}
}

func TestProtectedEndpoints_RequireToken(t *testing.T) {
	store := newMemStore(t)
	router := newTestRouter(t, store)

	orderBody := []byte(`{"items":[{"productId":1,"qty":1}]}`)

	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/products", nil),
		httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(orderBody)),
		httptest.NewRequest(http.MethodGet, "/api/orders", nil),
		authedRequest(http.MethodPost, "/api/orders", "not-a-token", orderBody),
	}

	for _, req := range requests {
		rec := do(router, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", req.Method, req.URL.Path)
	}

	// Rejected requests must not have touched state.
	assert.Equal(t, 10, store.productQty(1))
	assert.Empty(t, store.orders)
}

func TestProtectedEndpoints_RejectExpiredToken(t *testing.T) {
	store := newMemStore(t)
	router := newTestRouter(t, store)

	expired, err := auth.NewTokenManager(testSecret, -time.Minute).Issue(&domain.User{ID: 1, Roles: []string{"ADMIN"}})
	require.NoError(t, err)

	rec := do(router, authedRequest(http.MethodGet, "/api/products", expired, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderFlow(t *testing.T) {
	store := newMemStore(t)
	router := newTestRouter(t, store)
	token := login(t, router)

	// Place an order for 3 laptops.
	rec := do(router, authedRequest(http.MethodPost, "/api/orders", token, []byte(`{"items":[{"productId":1,"qty":3}]}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Success bool `json:"success"`
		Data    struct {
			OrderID int64 `json:"orderId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Equal(t, int64(1), created.Data.OrderID)

	// Stock dropped from 10 to 7.
	rec = do(router, authedRequest(http.MethodGet, "/api/products", token, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var products struct {
		Data []ProductResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products.Data, 3)
	assert.Equal(t, 7, products.Data[0].Qty)
	assert.True(t, products.Data[0].Price.Equal(decimal.NewFromInt(1500)))

	// Ordering 8 more must fail: only 7 left, and nothing changes.
	rec = do(router, authedRequest(http.MethodPost, "/api/orders", token, []byte(`{"items":[{"productId":1,"qty":8}]}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var failed APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failed))
	assert.False(t, failed.Success)
	assert.Contains(t, failed.Message, "available 7, requested 8")
	assert.Equal(t, 7, store.productQty(1))

	// The committed order shows up in the listing with the owner's email.
	rec = do(router, authedRequest(http.MethodGet, "/api/orders", token, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var orders struct {
		Data []OrderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders.Data, 1)
	assert.Equal(t, int64(1), orders.Data[0].ID)
	assert.Equal(t, "alfonso@gmail.com", orders.Data[0].Email)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	router := newTestRouter(t, newMemStore(t))
	token := login(t, router)

	rec := do(router, authedRequest(http.MethodPost, "/api/orders", token, []byte(`{"items":[{"productId":99,"qty":1}]}`)))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "product 99")
}

func TestCreateOrder_BadPayload(t *testing.T) {
	store := newMemStore(t)
	router := newTestRouter(t, store)
	token := login(t, router)

	cases := map[string]string{
		"malformed json": `{"items":`,
		"empty items":    `{"items":[]}`,
		"zero quantity":  `{"items":[{"productId":1,"qty":0}]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(router, authedRequest(http.MethodPost, "/api/orders", token, []byte(body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	assert.Equal(t, 10, store.productQty(1))
}

func TestReads_Idempotent(t *testing.T) {
	router := newTestRouter(t, newMemStore(t))
	token := login(t, router)

	for _, path := range []string{"/api/products", "/api/orders"} {
		first := do(router, authedRequest(http.MethodGet, path, token, nil))
		second := do(router, authedRequest(http.MethodGet, path, token, nil))

		require.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, first.Body.String(), second.Body.String(), "repeated read of %s", path)
	}
}
