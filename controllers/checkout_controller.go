package controllers

import (
	"encoding/gob"
	"strings"
	"time"

	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/models"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// guestOrdersSessionKey holds the ids of orders placed without a login.
// A guest order is only visible to the session that created it; order
// ids are sequential and must not be enough to read someone's order.
const guestOrdersSessionKey = "guest_orders"

func init() {
	gob.Register([]uint{})
}

func rememberGuestOrder(session sessions.Session, orderID uint) {
	ids, _ := session.Get(guestOrdersSessionKey).([]uint)
	session.Set(guestOrdersSessionKey, append(ids, orderID))
}

func sessionOwnsOrder(c *gin.Context, orderID uint) bool {
	ids, _ := sessions.Default(c).Get(guestOrdersSessionKey).([]uint)
	for _, id := range ids {
		if id == orderID {
			return true
		}
	}
	return false
}

// CheckoutRequest represents the request body for placing an order from
// the session cart. Guests check out with just contact details.
type CheckoutRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	Address        string `json:"address" binding:"required"`
	PostalCode     string `json:"postal_code"`
	City           string `json:"city" binding:"required"`
	State          string `json:"state" binding:"required"`
	ShippingMethod string `json:"shipping_method"`
}

// PlaceOrder converts the session cart into an order inside a single
// transaction: coupon re-validation, shipping resolution, stock
// decrement and order creation all commit or roll back together. The
// session cart is cleared only after the commit succeeds.
func PlaceOrder(c *gin.Context) {
	utils.LogInfo("PlaceOrder called")

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid checkout request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	cart := utils.GetCart(c)
	if cart.Len() == 0 {
		utils.BadRequest(c, "Your cart is empty", nil)
		return
	}

	var userID *uint
	if user, exists := c.Get("user"); exists {
		id := user.(models.User).ID
		userID = &id
	}

	// The session coupon id is re-validated inside the transaction; the
	// coupon may have expired or been deactivated since it was applied.
	session := sessions.Default(c)
	var sessionCouponID *uint
	if raw := session.Get(couponSessionKey); raw != nil {
		if id, ok := raw.(uint); ok {
			sessionCouponID = &id
		}
	}

	state := strings.ToUpper(strings.TrimSpace(req.State))

	var order models.Order
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		rate, err := utils.GetShippingRateTx(tx, state)
		if err != nil {
			return err
		}
		option, err := utils.ResolveShippingMethod(rate, req.ShippingMethod)
		if err != nil {
			return err
		}

		var couponID *uint
		var discount int
		if sessionCouponID != nil {
			var coupon models.Coupon
			if err := tx.First(&coupon, *sessionCouponID).Error; err == nil && coupon.ValidAt(time.Now()) {
				couponID = &coupon.ID
				discount = coupon.Discount
				if err := tx.Model(&coupon).
					UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1)).Error; err != nil {
					return err
				}
			}
		}

		order = models.Order{
			UserID:         userID,
			FirstName:      strings.TrimSpace(req.FirstName),
			LastName:       strings.TrimSpace(req.LastName),
			Email:          strings.ToLower(strings.TrimSpace(req.Email)),
			Phone:          req.Phone,
			Address:        req.Address,
			PostalCode:     req.PostalCode,
			City:           req.City,
			State:          state,
			ShippingMethod: option.ID,
			ShippingCost:   option.Cost,
			ShippingDays:   option.Days,
			CouponID:       couponID,
			Discount:       discount,
			PaymentStatus:  models.PaymentStatusPending,
			DeliveryStatus: models.DeliveryStatusProcessing,
		}

		for _, line := range cart.Lines() {
			// Guarded decrement: the update only lands when enough stock
			// remains, so concurrent checkouts cannot oversell.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return utils.BadRequestError("Not enough stock for one of the items", nil)
			}

			productID := line.ProductID
			order.Lines = append(order.Lines, models.OrderLine{
				ProductID: &productID,
				Price:     line.Price,
				Quantity:  line.Quantity,
			})
		}

		return tx.Create(&order).Error
	})
	if err != nil {
		if appErr := utils.GetAppError(err); appErr != nil {
			utils.LogError("Checkout rejected: %v", appErr)
			utils.Error(c, appErr.Code, appErr.Message, nil)
			return
		}
		utils.LogError("Checkout transaction failed: %v", err)
		utils.InternalServerError(c, "Failed to place order", nil)
		return
	}

	cart.Clear()
	clearSessionCoupon(c)
	if userID == nil {
		rememberGuestOrder(session, order.ID)
	}
	if err := cart.Save(); err != nil {
		// The order exists; a stale cart cookie is an annoyance, not a
		// failure.
		utils.LogError("Failed to clear cart after checkout: %v", err)
	}

	utils.OrdersPlaced.Inc()
	utils.LogInfo("Order %d placed, total %.2f", order.ID, order.Total())
	utils.Created(c, "Order placed successfully", gin.H{
		"order_id":        order.ID,
		"items_total":     utils.RoundMoney(order.ItemsTotal()),
		"discount":        order.Discount,
		"shipping_method": order.ShippingMethod,
		"shipping_cost":   order.ShippingCost,
		"total":           order.Total(),
		"payment_status":  order.PaymentStatus,
	})
}
