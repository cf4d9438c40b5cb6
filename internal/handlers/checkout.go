package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mainstream-shop/internal/cart"
	"mainstream-shop/internal/middleware"
	"mainstream-shop/internal/models"
	"mainstream-shop/internal/services"
)

// CheckoutHandler turns the cart into orders and serves order tracking
type CheckoutHandler struct {
	orders    *services.OrderService
	snapshots SnapshotProvider
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(orderService *services.OrderService, snapshots SnapshotProvider) *CheckoutHandler {
	return &CheckoutHandler{orders: orderService, snapshots: snapshots}
}

// Create handles POST /api/orders: builds orders from the session cart and
// the submitted contact data, then clears the cart.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session := middleware.GetSession(r.Context())
	if session == nil {
		respondError(w, http.StatusInternalServerError, "Session unavailable")
		return
	}
	store := cart.NewStore(h.snapshots(session, r, w))
	store.Load(r.Context())

	orders, err := h.orders.CreateFromCart(store.Items(), &req, r)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyCart):
			respondError(w, http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, models.ErrAthleteNotFound),
			errors.Is(err, models.ErrVideoTypeNotFound):
			respondError(w, http.StatusBadRequest, "Cart references unknown items")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if err := store.Clear(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	numbers := make([]string, len(orders))
	for i, order := range orders {
		numbers[i] = order.HumanOrderNumber
	}
	respondSuccess(w, http.StatusCreated, "Order created", map[string]any{
		"orders":        orders,
		"order_numbers": numbers,
	})
}

// InitiatePayment handles POST /api/orders/{id}/payment, starting the
// payment window.
func (h *CheckoutHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.orders.InitiatePayment(id)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, "Payment window started", order)
}

type trackRequest struct {
	Email       string `json:"email"`
	OrderNumber string `json:"order_number"`
}

// Track handles POST /api/orders/track: the customer-facing order lookup by
// contact email and human order number.
func (h *CheckoutHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.orders.Track(req.Email, req.OrderNumber)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondSuccess(w, http.StatusOK, "", map[string]any{
		"order_number":   order.HumanOrderNumber,
		"status":         string(order.Status),
		"status_display": order.StatusDisplay(),
		"total_amount":   order.TotalAmount,
		"created_at":     order.CreatedAt,
	})
}
