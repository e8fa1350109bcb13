package web

import (
	"net/http"
	"strings"

	"omnicart-backend/internal/core"
)

// placeOrder handles POST /api/orders. The body is optional: cart-only
// clients POST with no payload, and when the caller's cart has items the
// cart wins over any explicit list.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	var req struct {
		Items []core.OrderItemRequest `json:"items"`
	}
	if !decodeJSONOptional(w, r, &req) {
		return
	}
	order, err := h.svc.PlaceOrder(r.Context(), claims.UserID, req.Items)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, order)
}

// myOrders handles GET /api/orders — the caller's own orders.
func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	orders, err := h.svc.GetOrdersByUser(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, orders)
}

// getOrder handles GET /api/orders/{id}. Customers may only read their own
// orders; sellers and admins may read any.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	claims := authFromContext(r.Context())
	if claims.Role == core.RoleCustomer && order.UserID != claims.UserID {
		writeError(w, r, "order not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, order)
}

// allOrders handles GET /api/orders/all.
func (h *Handler) allOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.GetAllOrders(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, orders)
}

// updateOrderStatus handles POST /api/orders/{id}/status.
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	claims := authFromContext(r.Context())
	actorID := claims.UserID
	status := core.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	order, err := h.svc.UpdateOrderStatus(r.Context(), id, status, &actorID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}
