package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestOrderTotal(t *testing.T) {
	order := Order{
		Discount:     10,
		ShippingCost: 15.00,
		Lines: []OrderLine{
			{ProductID: uintPtr(1), Price: 100.00, Quantity: 1},
		},
	}

	// 100 * 0.9 + 15
	assert.Equal(t, 105.00, order.Total())
}

func TestOrderTotalNoDiscount(t *testing.T) {
	order := Order{
		ShippingCost: 25.50,
		Lines: []OrderLine{
			{ProductID: uintPtr(1), Price: 59.90, Quantity: 2},
			{ProductID: uintPtr(2), Price: 120.00, Quantity: 1},
		},
	}

	assert.InDelta(t, 239.80, order.ItemsTotal(), 0.001)
	assert.Equal(t, 265.30, order.Total())
}

func TestOrderTotalUsesPriceSnapshot(t *testing.T) {
	// The line keeps the price captured at checkout time; a later catalog
	// change must not alter the order total.
	order := Order{
		ShippingCost: 10.00,
		Lines: []OrderLine{
			{ProductID: uintPtr(7), Price: 80.00, Quantity: 1},
		},
	}
	before := order.Total()

	liveProduct := Product{Price: 150.00}
	_ = liveProduct // catalog price changed, order lines untouched

	assert.Equal(t, before, order.Total())
	assert.Equal(t, 90.00, order.Total())
}

func TestOrderTotalRounding(t *testing.T) {
	order := Order{
		Discount: 33,
		Lines: []OrderLine{
			{ProductID: uintPtr(1), Price: 9.99, Quantity: 3},
		},
	}

	// 29.97 * 0.67 = 20.0799 -> 20.08
	assert.Equal(t, 20.08, order.Total())
}

func TestOrderHasCourseLines(t *testing.T) {
	order := Order{
		Lines: []OrderLine{
			{ProductID: uintPtr(1), Price: 50, Quantity: 1},
		},
	}
	assert.False(t, order.HasCourseLines())

	order.Lines = append(order.Lines, OrderLine{CourseID: uintPtr(3), Price: 200, Quantity: 1})
	assert.True(t, order.HasCourseLines())
}
