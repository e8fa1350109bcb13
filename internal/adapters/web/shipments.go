package web

import (
	"net/http"
)

// createShipment handles POST /api/shipments/order/{orderId}.
func (h *Handler) createShipment(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "orderId")
	if !ok {
		return
	}
	var req struct {
		LogisticsPartner string  `json:"logistics_partner"`
		TrackingNumber   *string `json:"tracking_number"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	shipment, err := h.svc.CreateShipment(r.Context(), orderID, req.LogisticsPartner, req.TrackingNumber)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, shipment)
}

// updateShipmentStatus handles PATCH /api/shipments/{id}/status.
func (h *Handler) updateShipmentStatus(w http.ResponseWriter, r *http.Request) {
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
	shipment, err := h.svc.UpdateShipmentStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, shipment)
}

// getShipmentByOrder handles GET /api/shipments/order/{orderId}.
func (h *Handler) getShipmentByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "orderId")
	if !ok {
		return
	}
	shipment, err := h.svc.GetShipmentByOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, shipment)
}

// allShipments handles GET /api/shipments.
func (h *Handler) allShipments(w http.ResponseWriter, r *http.Request) {
	shipments, err := h.svc.GetAllShipments(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, shipments)
}

// shipmentsBySeller handles GET /api/shipments/seller/{sellerId}.
func (h *Handler) shipmentsBySeller(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := pathUUID(w, r, "sellerId")
	if !ok {
		return
	}
	shipments, err := h.svc.GetShipmentsBySeller(r.Context(), sellerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, shipments)
}
