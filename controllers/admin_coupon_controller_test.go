package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCouponWindowInclusiveEndOfDay(t *testing.T) {
	req := &CouponRequest{ValidFrom: "2026-12-01", ValidTo: "2026-12-25"}
	from, to, ok := parseCouponWindow(req)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), from)
	// The end date covers the whole day.
	assert.Equal(t, time.Date(2026, 12, 25, 23, 59, 59, 0, time.UTC), to)
}

func TestParseCouponWindowSingleDay(t *testing.T) {
	req := &CouponRequest{ValidFrom: "2026-06-01", ValidTo: "2026-06-01"}
	from, to, ok := parseCouponWindow(req)
	assert.True(t, ok)
	assert.True(t, to.After(from))
}

func TestParseCouponWindowRejectsInvertedRange(t *testing.T) {
	req := &CouponRequest{ValidFrom: "2026-06-02", ValidTo: "2026-06-01"}
	_, _, ok := parseCouponWindow(req)
	assert.False(t, ok)
}

func TestParseCouponWindowRejectsBadDates(t *testing.T) {
	for _, tc := range []CouponRequest{
		{ValidFrom: "01/12/2026", ValidTo: "2026-12-25"},
		{ValidFrom: "2026-12-01", ValidTo: "christmas"},
		{ValidFrom: "", ValidTo: "2026-12-25"},
	} {
		_, _, ok := parseCouponWindow(&tc)
		assert.False(t, ok)
	}
}
