package utils

import (
	"testing"
	"time"

	"github.com/dellacasa/emporio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func fullRate() *models.ShippingRate {
	return &models.ShippingRate{
		State:         "SP",
		StandardCost:  floatPtr(15.00),
		StandardDays:  intPtr(5),
		ExpeditedCost: floatPtr(30.00),
		ExpeditedDays: intPtr(2),
		FreightCost:   floatPtr(80.00),
		FreightDays:   intPtr(10),
	}
}

func TestShippingOptionsRequireCostAndDays(t *testing.T) {
	rate := fullRate()
	rate.ExpeditedDays = nil // cost present, days missing: not offered

	options := ShippingOptions(rate)
	require.Len(t, options, 2)
	assert.Equal(t, models.ShippingMethodStandard, options[0].ID)
	assert.Equal(t, models.ShippingMethodFreight, options[1].ID)
}

func TestShippingOptionsEmptyRate(t *testing.T) {
	options := ShippingOptions(&models.ShippingRate{State: "AC"})
	assert.Empty(t, options)
}

func TestResolveShippingMethodChosenOffered(t *testing.T) {
	opt, err := ResolveShippingMethod(fullRate(), models.ShippingMethodExpedited)
	require.NoError(t, err)
	assert.Equal(t, models.ShippingMethodExpedited, opt.ID)
	assert.Equal(t, 30.00, opt.Cost)
	assert.Equal(t, 2, opt.Days)
}

func TestResolveShippingMethodFallsBackInOrder(t *testing.T) {
	rate := fullRate()
	rate.FreightCost = nil
	rate.FreightDays = nil

	// chosen method unavailable: fall back standard -> expedited -> freight
	opt, err := ResolveShippingMethod(rate, models.ShippingMethodFreight)
	require.NoError(t, err)
	assert.Equal(t, models.ShippingMethodStandard, opt.ID)

	rate.StandardCost = nil
	opt, err = ResolveShippingMethod(rate, models.ShippingMethodFreight)
	require.NoError(t, err)
	assert.Equal(t, models.ShippingMethodExpedited, opt.ID)
}

func TestResolveShippingMethodNoneOffered(t *testing.T) {
	_, err := ResolveShippingMethod(&models.ShippingRate{State: "AM"}, models.ShippingMethodStandard)
	assert.ErrorIs(t, err, ErrNoShippingMethod)
}

func TestEstimatedDeliveryOnlyWhenPaid(t *testing.T) {
	paidAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	order := &models.Order{
		ShippingMethod: models.ShippingMethodStandard,
		ShippingDays:   5,
		UpdatedAt:      paidAt,
	}

	assert.Nil(t, EstimatedDelivery(order))

	order.Paid = true
	eta := EstimatedDelivery(order)
	require.NotNil(t, eta)
	assert.Equal(t, paidAt.AddDate(0, 0, 5), *eta)
}

func TestEstimatedDeliveryNeedsSnapshot(t *testing.T) {
	order := &models.Order{
		Paid:           true,
		ShippingMethod: models.ShippingMethodStandard,
		UpdatedAt:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	// orders created before the day count was snapshotted have no estimate
	assert.Nil(t, EstimatedDelivery(order))
}
