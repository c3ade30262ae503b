package models

import (
	"math"
	"time"
)

// Payment status constants. An order is created pending, moves to
// awaiting_payment once a gateway charge exists and to paid when the
// webhook confirms. There is no automatic cancellation or expiry: an
// order that is never confirmed stays awaiting_payment.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusAwaiting = "awaiting_payment"
	PaymentStatusPaid     = "paid"
)

// Delivery status constants. Advanced manually by an admin, only
// meaningful once the order is paid.
const (
	DeliveryStatusProcessing = "Processing"
	DeliveryStatusShipped    = "Shipped"
	DeliveryStatusDelivered  = "Delivered"
)

type Order struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID *uint `json:"user_id"`
	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	State      string `json:"state"`

	// Shipping cost and transit days are snapshotted at checkout; later
	// edits to the rate table never move an existing order's total or ETA.
	ShippingMethod string  `json:"shipping_method"`
	ShippingCost   float64 `json:"shipping_cost"`
	ShippingDays   int     `json:"shipping_days"`

	// Coupon reference is nullable so deleting a coupon keeps order
	// history intact; the discount percentage is snapshotted here.
	CouponID *uint   `json:"coupon_id"`
	Coupon   *Coupon `json:"coupon,omitempty" gorm:"foreignKey:CouponID;constraint:OnDelete:SET NULL"`
	Discount int     `json:"discount"`

	Paid           bool   `json:"paid" gorm:"default:false"`
	PaymentStatus  string `json:"payment_status" gorm:"default:'pending'"`
	DeliveryStatus string `json:"delivery_status" gorm:"default:'Processing'"`

	// Gateway charge correlation, set when the charge is created.
	ChargeID   string `json:"charge_id,omitempty"`
	InvoiceURL string `json:"invoice_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Lines []OrderLine `json:"lines" gorm:"foreignKey:OrderID"`
}

// OrderLine belongs to exactly one order and references either a product
// or a course. Both references are nullable so the catalog entity may be
// deleted later without deleting history; the unit price is a snapshot
// taken when the line was created.
type OrderLine struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `json:"order_id"`
	ProductID *uint    `json:"product_id"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	CourseID  *uint    `json:"course_id"`
	Course    *Course  `json:"course,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:SET NULL"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity" gorm:"default:1"`
}

// Cost returns the line total from the snapshotted unit price.
func (l *OrderLine) Cost() float64 {
	return l.Price * float64(l.Quantity)
}

// ItemsTotal sums the line costs before discount and shipping.
func (o *Order) ItemsTotal() float64 {
	var total float64
	for i := range o.Lines {
		total += o.Lines[i].Cost()
	}
	return total
}

// Total computes the amount charged for the order:
//
//	round(items * (1 - discount/100) + shipping_cost)
//
// Discount and shipping are applied at computation time only; the stored
// line prices are never mutated.
func (o *Order) Total() float64 {
	items := o.ItemsTotal()
	discounted := items - items*float64(o.Discount)/100
	return math.Round((discounted+o.ShippingCost)*100) / 100
}

// HasCourseLines reports whether any line references a course, which is
// what makes a paid order grant enrollments.
func (o *Order) HasCourseLines() bool {
	for i := range o.Lines {
		if o.Lines[i].CourseID != nil {
			return true
		}
	}
	return false
}
