package utils

import (
	"time"

	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/models"
	"gorm.io/gorm"
)

// ErrRegionNotServed is returned when a region has no shipping rate row.
var ErrRegionNotServed = NewAppError(400, "We do not ship to this region yet", nil)

// ErrNoShippingMethod is returned when the region has a rate row but no
// method with both cost and delivery estimate configured.
var ErrNoShippingMethod = NewAppError(400, "No shipping method available for this region", nil)

// ShippingOption is one offered delivery method for a region.
type ShippingOption struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
	Days int     `json:"days"`
}

// ShippingOptions returns the methods offered for the rate row, in
// fallback order. A method is offered only when both its cost and its
// day count are present.
func ShippingOptions(rate *models.ShippingRate) []ShippingOption {
	var options []ShippingOption
	if rate.StandardCost != nil && rate.StandardDays != nil {
		options = append(options, ShippingOption{
			ID: models.ShippingMethodStandard, Name: "Standard",
			Cost: *rate.StandardCost, Days: *rate.StandardDays,
		})
	}
	if rate.ExpeditedCost != nil && rate.ExpeditedDays != nil {
		options = append(options, ShippingOption{
			ID: models.ShippingMethodExpedited, Name: "Expedited",
			Cost: *rate.ExpeditedCost, Days: *rate.ExpeditedDays,
		})
	}
	if rate.FreightCost != nil && rate.FreightDays != nil {
		options = append(options, ShippingOption{
			ID: models.ShippingMethodFreight, Name: "Freight",
			Cost: *rate.FreightCost, Days: *rate.FreightDays,
		})
	}
	return options
}

// ResolveShippingMethod picks the caller's chosen method when the region
// offers it, otherwise falls back standard -> expedited -> freight. It
// errors only when the region offers no method at all.
func ResolveShippingMethod(rate *models.ShippingRate, chosen string) (ShippingOption, error) {
	options := ShippingOptions(rate)
	if len(options) == 0 {
		return ShippingOption{}, ErrNoShippingMethod
	}
	for _, opt := range options {
		if opt.ID == chosen {
			return opt, nil
		}
	}
	return options[0], nil
}

// GetShippingRate loads the rate row for a region code, matching
// case-insensitively. ErrRegionNotServed when there is none.
func GetShippingRate(state string) (*models.ShippingRate, error) {
	return GetShippingRateTx(config.DB, state)
}

// GetShippingRateTx is GetShippingRate bound to a transaction, so
// checkout reads the rate inside the same transaction that creates the
// order.
func GetShippingRateTx(db *gorm.DB, state string) (*models.ShippingRate, error) {
	var rate models.ShippingRate
	if err := db.Where("UPPER(state) = UPPER(?)", state).First(&rate).Error; err != nil {
		return nil, ErrRegionNotServed
	}
	return &rate, nil
}

// EstimatedDelivery computes the delivery ETA for a paid order from its
// payment time (updated_at flips when the webhook marks it paid) plus the
// day count snapshotted at checkout. Unpaid orders and orders without a
// snapshot have no estimate.
func EstimatedDelivery(order *models.Order) *time.Time {
	if !order.Paid || order.ShippingDays <= 0 {
		return nil
	}
	eta := order.UpdatedAt.AddDate(0, 0, order.ShippingDays)
	return &eta
}
