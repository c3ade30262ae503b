package controllers

import (
	"net/http"
	"time"

	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/models"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const couponSessionKey = "coupon_id"

// ApplyCouponRequest represents the request body for applying a coupon
// code to the session cart.
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// sessionCoupon returns the coupon applied to this session, re-validated
// against the current time. A coupon that expired since it was applied
// reads as absent.
func sessionCoupon(c *gin.Context) (*models.Coupon, bool) {
	session := sessions.Default(c)
	raw := session.Get(couponSessionKey)
	if raw == nil {
		return nil, false
	}
	couponID, ok := raw.(uint)
	if !ok {
		return nil, false
	}

	var coupon models.Coupon
	if err := config.DB.First(&coupon, couponID).Error; err != nil {
		return nil, false
	}
	if !coupon.ValidAt(time.Now()) {
		return nil, false
	}
	return &coupon, true
}

func clearSessionCoupon(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(couponSessionKey)
}

// ApplyCoupon validates a coupon code and stores it in the session.
// Unknown, inactive and out-of-window codes all produce the same
// message so the endpoint does not reveal which codes exist.
func ApplyCoupon(c *gin.Context) {
	utils.LogInfo("ApplyCoupon called")

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	cart := utils.GetCart(c)
	if cart.Len() == 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "discount": 0, "message": "Your cart is empty"})
		return
	}

	var coupon models.Coupon
	err := config.DB.Where("LOWER(code) = LOWER(?)", req.Code).First(&coupon).Error
	if err != nil || !coupon.ValidAt(time.Now()) {
		utils.LogInfo("Rejected coupon code: %s", req.Code)
		// A rejected code also drops any previously applied coupon.
		session := sessions.Default(c)
		session.Delete(couponSessionKey)
		if err := session.Save(); err != nil {
			utils.LogError("Failed to save session: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"success": false, "discount": 0, "message": "Invalid or expired coupon"})
		return
	}

	session := sessions.Default(c)
	session.Set(couponSessionKey, coupon.ID)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save coupon session: %v", err)
		utils.InternalServerError(c, "Failed to apply coupon", nil)
		return
	}

	utils.LogInfo("Applied coupon %s (%d%%)", coupon.Code, coupon.Discount)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"discount": coupon.Discount,
		"message":  "Coupon applied",
		"total":    utils.ApplyDiscount(cart.Total(), coupon.Discount),
	})
}

// RemoveCoupon drops the applied coupon from the session.
func RemoveCoupon(c *gin.Context) {
	utils.LogInfo("RemoveCoupon called")

	session := sessions.Default(c)
	session.Delete(couponSessionKey)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save session: %v", err)
		utils.InternalServerError(c, "Failed to remove coupon", nil)
		return
	}

	cart := utils.GetCart(c)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"discount": 0,
		"message":  "Coupon removed",
		"total":    cart.Total(),
	})
}
