package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a percentage discount with a validity window. Codes are unique
// case-insensitively (enforced by a functional index created in InitDB).
// UsageCount is incremented exactly once per finalized order, never at
// selection time and never decremented.
type Coupon struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Code       string         `gorm:"not null" json:"code"`
	ValidFrom  time.Time      `json:"valid_from"`
	ValidTo    time.Time      `json:"valid_to"`
	Discount   int            `json:"discount" gorm:"check:discount >= 0 AND discount <= 100"`
	Active     bool           `json:"active" gorm:"default:true"`
	UsageCount int            `json:"usage_count" gorm:"default:0"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidAt reports whether the coupon may be applied at the given instant.
// Both window boundaries are inclusive: a coupon whose ValidTo equals now
// is still applicable.
func (cp *Coupon) ValidAt(t time.Time) bool {
	return cp.Active && !t.Before(cp.ValidFrom) && !t.After(cp.ValidTo)
}
