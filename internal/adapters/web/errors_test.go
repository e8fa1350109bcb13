package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnicart-backend/internal/core"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{
			name:       "not found",
			err:        &core.NotFoundError{Entity: "Order", ID: "abc"},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantError:  "Order abc not found",
		},
		{
			name:       "wrapped not found unwraps for the response",
			err:        fmt.Errorf("loading order: %w", &core.NotFoundError{Entity: "Order"}),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantError:  "Order not found",
		},
		{
			name:       "insufficient stock",
			err:        &core.InsufficientStockError{ProductName: "Widget"},
			wantStatus: http.StatusConflict,
			wantCode:   "INSUFFICIENT_STOCK",
			wantError:  "insufficient stock for product: Widget",
		},
		{
			name:       "empty order",
			err:        core.ErrEmptyOrder,
			wantStatus: http.StatusBadRequest,
			wantCode:   "EMPTY_ORDER",
			wantError:  "cart is empty, cannot place order",
		},
		{
			name:       "validation",
			err:        &core.ValidationError{Msg: "quantityDelta must be non-zero"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
			wantError:  "quantityDelta must be non-zero",
		},
		{
			name:       "unknown error hides internals",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)

			writeServiceError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}
