package web

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"omnicart-backend/internal/core"
)

// createProduct handles POST /api/products. Sellers create products under
// their own account; admins may create unowned catalog entries.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Category    *string         `json:"category"`
		Price       decimal.Decimal `json:"price"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	claims := authFromContext(r.Context())
	var sellerID *uuid.UUID
	if claims.Role == core.RoleSeller {
		sellerID = &claims.UserID
	}
	product, err := h.svc.CreateProduct(r.Context(), core.CreateProductRequest{
		SellerID:    sellerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, product)
}

// getProduct handles GET /api/products/{id}.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

// listProducts handles GET /api/products.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, products)
}

// listProductsBySeller handles GET /api/products/seller/{sellerId}.
func (h *Handler) listProductsBySeller(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := pathUUID(w, r, "sellerId")
	if !ok {
		return
	}
	products, err := h.svc.ListProductsBySeller(r.Context(), sellerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, products)
}

// getCart handles GET /api/cart.
func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	items, err := h.svc.GetCart(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, items)
}

// addToCart handles POST /api/cart.
func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	var req struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  int       `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.AddToCart(r.Context(), claims.UserID, req.ProductID, req.Quantity); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// clearCart handles DELETE /api/cart.
func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if err := h.svc.ClearCart(r.Context(), claims.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
