package core

import (
	"errors"
	"fmt"
)

// NotFoundError reports a referenced entity that does not exist.
// The web layer maps it to HTTP 404.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ValidationError reports a malformed request (zero delta, missing product id).
// The web layer maps it to HTTP 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// InsufficientStockError reports a negative adjustment that would drive a
// warehouse's quantity below zero. Mapped to HTTP 409. No partial state is
// written when this is returned.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return "insufficient stock for product: " + e.ProductName
}

// ErrEmptyOrder is returned by PlaceOrder when the user's cart is empty and
// no explicit items were requested. Mapped to HTTP 400.
var ErrEmptyOrder = errors.New("cart is empty, cannot place order")

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInsufficientStock reports whether err is (or wraps) an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}
