package web

import (
	"net/http"

	"omnicart-backend/internal/core"
)

// createWarehouse handles POST /api/warehouses.
func (h *Handler) createWarehouse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		Capacity *int   `json:"capacity"`
		Active   *bool  `json:"active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	warehouse, err := h.svc.CreateWarehouse(r.Context(), core.CreateWarehouseRequest{
		Name:     req.Name,
		Location: req.Location,
		Capacity: req.Capacity,
		Active:   req.Active,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, warehouse)
}

// getWarehouse handles GET /api/warehouses/{id}.
func (h *Handler) getWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	warehouse, err := h.svc.GetWarehouse(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, warehouse)
}

// listWarehouses handles GET /api/warehouses.
func (h *Handler) listWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.svc.ListWarehouses(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, warehouses)
}

// updateWarehouse handles PATCH /api/warehouses/{id}. Absent fields are left
// unchanged.
func (h *Handler) updateWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Name     *string `json:"name"`
		Location *string `json:"location"`
		Capacity *int    `json:"capacity"`
		Active   *bool   `json:"active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	warehouse, err := h.svc.UpdateWarehouse(r.Context(), id, core.UpdateWarehouseRequest{
		Name:     req.Name,
		Location: req.Location,
		Capacity: req.Capacity,
		Active:   req.Active,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, warehouse)
}

// deleteWarehouse handles DELETE /api/warehouses/{id}.
func (h *Handler) deleteWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteWarehouse(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
