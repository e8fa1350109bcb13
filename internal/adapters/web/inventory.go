package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"omnicart-backend/internal/core"
)

type adjustInventoryRequest struct {
	WarehouseID   *uuid.UUID `json:"warehouse_id"`
	ProductID     uuid.UUID  `json:"product_id"`
	QuantityDelta int        `json:"quantity_delta"`
	Type          string     `json:"type"`
	Reason        string     `json:"reason"`
	ReferenceType *string    `json:"reference_type"`
	ReferenceID   *uuid.UUID `json:"reference_id"`
}

// adjustInventory handles POST /api/inventory/adjust.
func (h *Handler) adjustInventory(w http.ResponseWriter, r *http.Request) {
	var req adjustInventoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.svc.AdjustInventory(r.Context(), core.AdjustRequest{
		WarehouseID:   req.WarehouseID,
		ProductID:     req.ProductID,
		QuantityDelta: req.QuantityDelta,
		Type:          core.MovementType(req.Type),
		Reason:        req.Reason,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "adjusted"})
}

// updateProductQuantity handles POST /api/inventory/update/{productId}, the
// legacy flat-quantity endpoint.
func (h *Handler) updateProductQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathUUID(w, r, "productId")
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.UpdateProductQuantity(r.Context(), productID, req.Quantity); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "updated"})
}

// checkQuantity handles GET /api/inventory/check/{productId}.
func (h *Handler) checkQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathUUID(w, r, "productId")
	if !ok {
		return
	}
	qty, err := h.svc.GetProductQuantity(r.Context(), productID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	type response struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  int       `json:"quantity"`
	}
	writeJSON(w, response{ProductID: productID, Quantity: qty})
}

// allInventory handles GET /api/inventory/all.
func (h *Handler) allInventory(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.GetAllInventory(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, views)
}

// inventoryBySeller handles GET /api/inventory/seller/{sellerId}.
func (h *Handler) inventoryBySeller(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := pathUUID(w, r, "sellerId")
	if !ok {
		return
	}
	views, err := h.svc.GetInventoryBySeller(r.Context(), sellerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, views)
}

// allWarehouseInventory handles GET /api/inventory/warehouse — the default
// warehouse view.
func (h *Handler) allWarehouseInventory(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.GetAllWarehouseInventory(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, views)
}

// warehouseInventory handles GET /api/inventory/warehouse/{warehouseId}.
func (h *Handler) warehouseInventory(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := pathUUID(w, r, "warehouseId")
	if !ok {
		return
	}
	views, err := h.svc.GetWarehouseInventory(r.Context(), warehouseID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, views)
}

// warehouseInventoryBySeller handles both the default-warehouse and the
// explicit-warehouse seller views; {warehouseId} is absent on the former.
func (h *Handler) warehouseInventoryBySeller(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := pathUUID(w, r, "sellerId")
	if !ok {
		return
	}
	var warehouseID *uuid.UUID
	if raw := chi.URLParam(r, "warehouseId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, "invalid warehouseId", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		warehouseID = &id
	}
	views, err := h.svc.GetWarehouseInventoryBySeller(r.Context(), sellerID, warehouseID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, views)
}

// deleteInventory handles the inventory delete endpoints; {warehouseId} is
// absent for the default-warehouse variant.
func (h *Handler) deleteInventory(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathUUID(w, r, "productId")
	if !ok {
		return
	}
	var warehouseID *uuid.UUID
	if raw := chi.URLParam(r, "warehouseId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, "invalid warehouseId", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		warehouseID = &id
	}
	if err := h.svc.DeleteInventory(r.Context(), warehouseID, productID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// stockMovements handles GET /api/inventory/movements?warehouseId=&productId=.
func (h *Handler) stockMovements(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := queryUUID(w, r, "warehouseId")
	if !ok {
		return
	}
	productID, ok := queryUUID(w, r, "productId")
	if !ok {
		return
	}
	movements, err := h.svc.GetStockMovements(r.Context(), warehouseID, productID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, movements)
}
