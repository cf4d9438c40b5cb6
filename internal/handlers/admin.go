package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mainstream-shop/internal/middleware"
	"mainstream-shop/internal/models"
	"mainstream-shop/internal/services"
)

// AdminHandler serves the back-office order workflow
type AdminHandler struct {
	orders *services.OrderService
	audit  *services.AuditService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(orderService *services.OrderService, auditService *services.AuditService) *AdminHandler {
	return &AdminHandler{orders: orderService, audit: auditService}
}

// ListOrders handles GET /api/admin/orders?status=
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := models.OrderStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.OrderPaid
	}
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "Unknown order status")
		return
	}

	orders, err := h.orders.ListByStatus(status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	respondSuccess(w, http.StatusOK, "", orders)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// UpdateOrderStatus handles POST /api/admin/orders/{id}/status
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actor := middleware.GetUserFromContext(r.Context())
	var actorID *int
	if actor != nil {
		actorID = &actor.ID
	}

	status := models.OrderStatus(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "Unknown order status")
		return
	}
	switch status {
	case models.OrderCancelledManual:
		err = h.orders.CancelManually(id, req.Reason, actorID, r)
	case models.OrderPaid:
		err = h.orders.MarkPaid(id, actorID, r)
	default:
		err = h.orders.UpdateStatus(id, status, actorID, r)
	}
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondSuccess(w, http.StatusOK, "Order updated", nil)
}

// ListAuditLogs handles GET /api/admin/audit-logs
func (h *AdminHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.audit.ListRecent(100)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load audit logs")
		return
	}
	if entries == nil {
		entries = []*models.AuditLog{}
	}
	respondSuccess(w, http.StatusOK, "", entries)
}
