package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ardiwn/shop-api/internal/core/domain"
	"github.com/ardiwn/shop-api/internal/core/service"
)

type HTTPHandler struct {
	authService    *service.AuthService
	catalogService *service.CatalogService
	orderService   *service.OrderService
	tokenTTL       time.Duration
}

func NewHTTPHandler(authService *service.AuthService, catalogService *service.CatalogService, orderService *service.OrderService, tokenTTL time.Duration) *HTTPHandler {
	return &HTTPHandler{
		authService:    authService,
		catalogService: catalogService,
		orderService:   orderService,
		tokenTTL:       tokenTTL,
	}
}

// APIResponse is the envelope for every business endpoint and every error.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type ProductResponse struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
}

type OrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Qty       int   `json:"qty"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

type OrderResponse struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Email     string    `json:"email"`
}

// Login exchanges Basic credentials for a bearer token.
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		w.Header().Set("WWW-Authenticate", "Basic")
		writeJSON(w, http.StatusUnauthorized, APIResponse{
			Success: false,
			Message: "Basic Auth required",
		})
		return
	}

	token, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, APIResponse{
				Success: false,
				Message: "invalid credentials",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokenTTL.Seconds()),
	})
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, ProductResponse{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
			Qty:   p.Qty,
		})
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, APIResponse{
			Success: false,
			Message: "JWT required",
		})
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	items := make([]domain.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.LineItem{ProductID: item.ProductID, Qty: item.Qty})
	}

	orderID, err := h.orderService.PlaceOrder(r.Context(), claims.UserID, items)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInsufficientStock):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrProductNotFound):
			status = http.StatusNotFound
		}

		writeJSON(w, status, APIResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Message: "order created",
		Data:    map[string]int64{"orderId": orderID},
	})
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, OrderResponse{
			ID:        o.ID,
			CreatedAt: o.CreatedAt,
			Email:     o.Email,
		})
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
