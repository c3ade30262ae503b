package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCouponValidAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	coupon := Coupon{
		Code:      "SAVE10",
		Discount:  10,
		Active:    true,
		ValidFrom: now.Add(-24 * time.Hour),
		ValidTo:   now.Add(24 * time.Hour),
	}

	assert.True(t, coupon.ValidAt(now))
	assert.True(t, coupon.ValidAt(coupon.ValidFrom))

	inactive := coupon
	inactive.Active = false
	assert.False(t, inactive.ValidAt(now))

	notStarted := coupon
	notStarted.ValidFrom = now.Add(time.Hour)
	assert.False(t, notStarted.ValidAt(now))
}

func TestCouponValidAtWindowBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	coupon := Coupon{
		Code:      "EDGE",
		Discount:  20,
		Active:    true,
		ValidFrom: now.Add(-time.Hour),
		ValidTo:   now,
	}

	// valid_to exactly equal to now is still applicable
	assert.True(t, coupon.ValidAt(now))
	// one microsecond past the window is not
	assert.False(t, coupon.ValidAt(now.Add(time.Microsecond)))
}
