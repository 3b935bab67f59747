package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_cart/bookstore-service/internal/domain"
	"go.uber.org/zap"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, form *domain.CustomerForm, cart *domain.ShoppingCart) (int64, error)
	GetOrderDetails(ctx context.Context, orderID int64) (*domain.OrderDetails, error)
}

type OrdersHandler struct {
	responder
	orders  OrderService
	timeout time.Duration
}

func NewOrdersHandler(orders OrderService, timeout time.Duration, log *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		responder: newResponder(log),
		orders:    orders,
		timeout:   timeout,
	}
}

// POST /api/v1/orders
func (h *OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var form domain.OrderForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, http.StatusBadRequest, "request_too_large", "request body is too large")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	orderID, err := h.orders.PlaceOrder(ctx, &form.CustomerForm, &form.Cart)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	details, err := h.orders.GetOrderDetails(ctx, orderID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, details)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := pathID(r, "order_id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return
	}

	details, err := h.orders.GetOrderDetails(ctx, orderID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, details)
}
