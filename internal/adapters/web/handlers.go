package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"omnicart-backend/internal/app"
	"omnicart-backend/internal/core"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{svc: svc, jwtSecret: jwtSecret}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/logout", h.logout)
	})

	// ── Protected API ─────────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		// Cart
		r.Get("/api/cart", h.getCart)
		r.Post("/api/cart", h.addToCart)
		r.Delete("/api/cart", h.clearCart)

		// Products
		r.Get("/api/products", h.listProducts)
		r.Get("/api/products/{id}", h.getProduct)
		r.Get("/api/products/seller/{sellerId}", h.listProductsBySeller)
		r.With(RequireRole(core.RoleSeller, core.RoleAdmin)).
			Post("/api/products", h.createProduct)

		// Orders
		r.Post("/api/orders", h.placeOrder)
		r.Get("/api/orders", h.myOrders)
		r.Get("/api/orders/{id}", h.getOrder)
		r.With(RequireRole(core.RoleAdmin)).Get("/api/orders/all", h.allOrders)
		r.With(RequireRole(core.RoleAdmin)).Post("/api/orders/{id}/status", h.updateOrderStatus)

		// Shipments
		r.Get("/api/shipments/order/{orderId}", h.getShipmentByOrder)
		r.With(RequireRole(core.RoleSeller, core.RoleAdmin)).Group(func(r chi.Router) {
			r.Get("/api/shipments", h.allShipments)
			r.Get("/api/shipments/seller/{sellerId}", h.shipmentsBySeller)
			r.Post("/api/shipments/order/{orderId}", h.createShipment)
			r.Patch("/api/shipments/{id}/status", h.updateShipmentStatus)
		})

		// Inventory
		r.With(RequireRole(core.RoleSeller, core.RoleAdmin)).Group(func(r chi.Router) {
			r.Post("/api/inventory/adjust", h.adjustInventory)
			r.Post("/api/inventory/update/{productId}", h.updateProductQuantity)
			r.Get("/api/inventory/all", h.allInventory)
			r.Get("/api/inventory/seller/{sellerId}", h.inventoryBySeller)
			r.Get("/api/inventory/warehouse", h.allWarehouseInventory)
			r.Get("/api/inventory/warehouse/{warehouseId}", h.warehouseInventory)
			r.Get("/api/inventory/warehouse/seller/{sellerId}", h.warehouseInventoryBySeller)
			r.Get("/api/inventory/warehouse/{warehouseId}/seller/{sellerId}", h.warehouseInventoryBySeller)
			r.Delete("/api/inventory/product/{productId}", h.deleteInventory)
			r.Delete("/api/inventory/warehouse/{warehouseId}/product/{productId}", h.deleteInventory)
			r.Get("/api/inventory/movements", h.stockMovements)
		})
		r.Get("/api/inventory/check/{productId}", h.checkQuantity)

		// Warehouses
		r.Get("/api/warehouses", h.listWarehouses)
		r.Get("/api/warehouses/{id}", h.getWarehouse)
		r.With(RequireRole(core.RoleAdmin)).Group(func(r chi.Router) {
			r.Post("/api/warehouses", h.createWarehouse)
			r.Patch("/api/warehouses/{id}", h.updateWarehouse)
			r.Delete("/api/warehouses/{id}", h.deleteWarehouse)
		})

		// Admin reporting
		r.With(RequireRole(core.RoleAdmin)).Group(func(r chi.Router) {
			r.Get("/api/admin/dashboard", h.dashboard)
			r.Get("/api/admin/audit-logs", h.auditLogs)
		})
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// pathUUID extracts and parses a UUID URL parameter. Writes a 400 and returns
// false on parse failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, r, "invalid "+name, "BAD_REQUEST", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses an optional UUID query parameter; nil when absent.
func queryUUID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, r, "invalid "+name, "BAD_REQUEST", http.StatusBadRequest)
		return nil, false
	}
	return &id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// decodeJSONOptional is decodeJSON for endpoints whose body may be omitted
// entirely: an empty body leaves v at its zero value and succeeds. Present
// but malformed bodies still fail.
func decodeJSONOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
		return false
	}
	writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	return false
}
