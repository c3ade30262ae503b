package models

import (
	"time"
)

// Shipping method identifiers, in fallback order.
const (
	ShippingMethodStandard  = "standard"
	ShippingMethodExpedited = "expedited"
	ShippingMethodFreight   = "freight"
)

// ShippingRate holds per-region costs and delivery estimates, one row per
// two-letter region code. Each method's cost/days pair is nullable: a
// method is offered for the region only when both values are present.
type ShippingRate struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	State string `json:"state" gorm:"size:2;uniqueIndex;not null"`

	StandardCost *float64 `json:"standard_cost"`
	StandardDays *int     `json:"standard_days"`

	ExpeditedCost *float64 `json:"expedited_cost"`
	ExpeditedDays *int     `json:"expedited_days"`

	FreightCost *float64 `json:"freight_cost"`
	FreightDays *int     `json:"freight_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
