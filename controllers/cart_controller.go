package controllers

import (
	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/models"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-gonic/gin"
)

// AddToCartRequest represents the request body for adding a product to
// the session cart.
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
	Override  bool `json:"override"`
}

// lookupProducts loads catalog products for cart enrichment.
func lookupProducts(ids []uint) ([]models.Product, error) {
	var products []models.Product
	err := config.DB.Where("id IN ? AND is_active = ?", ids, true).Find(&products).Error
	return products, err
}

// AddToCart adds a product to the session cart, snapshotting its price
// on first insert. Override replaces the quantity instead of adding.
func AddToCart(c *gin.Context) {
	utils.LogInfo("AddToCart called")

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	var product models.Product
	if err := config.DB.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		utils.LogError("Product not found for cart add: %d", req.ProductID)
		utils.NotFound(c, "Product not found")
		return
	}

	cart := utils.GetCart(c)
	cart.Add(product, req.Quantity, req.Override)
	if err := cart.Save(); err != nil {
		utils.LogError("Failed to save cart session: %v", err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	utils.LogInfo("Cart updated: product %d, quantity %d", req.ProductID, req.Quantity)
	utils.Success(c, "Product added to cart", gin.H{
		"item_count": cart.Len(),
		"total":      cart.Total(),
	})
}

// UpdateCartItem sets the quantity of a cart line. Zero or negative
// removes the line.
func UpdateCartItem(c *gin.Context) {
	utils.LogInfo("UpdateCartItem called")

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	cart := utils.GetCart(c)
	if req.Quantity <= 0 {
		cart.Remove(req.ProductID)
	} else {
		var product models.Product
		if err := config.DB.First(&product, req.ProductID).Error; err != nil {
			utils.NotFound(c, "Product not found")
			return
		}
		cart.Add(product, req.Quantity, true)
	}
	if err := cart.Save(); err != nil {
		utils.LogError("Failed to save cart session: %v", err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	utils.Success(c, "Cart updated", gin.H{
		"item_count": cart.Len(),
		"total":      cart.Total(),
	})
}

// RemoveFromCart removes a product line from the session cart.
func RemoveFromCart(c *gin.Context) {
	utils.LogInfo("RemoveFromCart called")

	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	cart := utils.GetCart(c)
	cart.Remove(req.ProductID)
	if err := cart.Save(); err != nil {
		utils.LogError("Failed to save cart session: %v", err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	utils.Success(c, "Product removed from cart", gin.H{
		"item_count": cart.Len(),
		"total":      cart.Total(),
	})
}

// ClearCart empties the session cart and drops any applied coupon.
func ClearCart(c *gin.Context) {
	utils.LogInfo("ClearCart called")

	cart := utils.GetCart(c)
	cart.Clear()
	clearSessionCoupon(c)
	if err := cart.Save(); err != nil {
		utils.LogError("Failed to save cart session: %v", err)
		utils.InternalServerError(c, "Failed to clear cart", nil)
		return
	}

	utils.Success(c, "Cart cleared", gin.H{
		"item_count": 0,
		"total":      0.0,
	})
}

// GetCart returns the session cart with products, quantities and line
// totals, plus the applied coupon discount when one is active.
func GetCart(c *gin.Context) {
	utils.LogInfo("GetCart called")

	cart := utils.GetCart(c)
	items, err := cart.Items(lookupProducts)
	if err != nil {
		utils.LogError("Failed to load cart products: %v", err)
		utils.InternalServerError(c, "Failed to fetch cart", nil)
		return
	}

	payload := gin.H{
		"items":      items,
		"item_count": cart.Len(),
		"subtotal":   cart.Total(),
		"total":      cart.Total(),
	}

	if coupon, ok := sessionCoupon(c); ok {
		discounted := utils.ApplyDiscount(cart.Total(), coupon.Discount)
		payload["coupon_code"] = coupon.Code
		payload["discount"] = coupon.Discount
		payload["total"] = discounted
	}

	utils.Success(c, "Cart retrieved successfully", payload)
}
