package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"omnicart-backend/internal/core"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "product abc not found",
		(&core.NotFoundError{Entity: "product", ID: "abc"}).Error())
	assert.Equal(t, "warehouse not found",
		(&core.NotFoundError{Entity: "warehouse"}).Error())
	assert.Equal(t, "insufficient stock for product: Widget A",
		(&core.InsufficientStockError{ProductName: "Widget A"}).Error())
}

func TestErrorPredicatesSeeThroughWrapping(t *testing.T) {
	notFound := fmt.Errorf("placing order: %w", &core.NotFoundError{Entity: "user", ID: "u1"})
	assert.True(t, core.IsNotFound(notFound))
	assert.False(t, core.IsInsufficientStock(notFound))

	short := fmt.Errorf("adjusting: %w", &core.InsufficientStockError{ProductName: "Widget B"})
	assert.True(t, core.IsInsufficientStock(short))
	assert.False(t, core.IsNotFound(short))

	assert.False(t, core.IsNotFound(errors.New("boom")))
	assert.False(t, core.IsNotFound(nil))
}
