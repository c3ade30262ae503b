package controllers

import (
	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/models"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-gonic/gin"
)

// orderResponse shapes an order for API responses, including the
// computed total and the delivery estimate when the order is paid.
func orderResponse(order *models.Order) gin.H {
	resp := gin.H{
		"id":              order.ID,
		"first_name":      order.FirstName,
		"last_name":       order.LastName,
		"email":           order.Email,
		"state":           order.State,
		"city":            order.City,
		"shipping_method": order.ShippingMethod,
		"shipping_cost":   order.ShippingCost,
		"discount":        order.Discount,
		"items_total":     utils.RoundMoney(order.ItemsTotal()),
		"total":           order.Total(),
		"paid":            order.Paid,
		"payment_status":  order.PaymentStatus,
		"delivery_status": order.DeliveryStatus,
		"invoice_url":     order.InvoiceURL,
		"created_at":      order.CreatedAt,
		"lines":           order.Lines,
	}

	if eta := utils.EstimatedDelivery(order); eta != nil {
		resp["estimated_delivery"] = eta
	}
	return resp
}

// ListOrders returns the caller's order history.
func ListOrders(c *gin.Context) {
	utils.LogInfo("ListOrders called")

	user, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Please login for access")
		return
	}
	userID := user.(models.User).ID

	var orders []models.Order
	if err := config.DB.Preload("Lines").Preload("Lines.Product").Preload("Lines.Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for user %d: %v", userID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	responses := make([]gin.H, 0, len(orders))
	for i := range orders {
		responses = append(responses, orderResponse(&orders[i]))
	}

	utils.Success(c, "Orders retrieved successfully", gin.H{
		"orders": responses,
	})
}

// GetOrder returns a single order. Guest orders require the session
// that placed them; orders owned by a user require that user's token.
func GetOrder(c *gin.Context) {
	utils.LogInfo("GetOrder called")

	var order models.Order
	if err := config.DB.Preload("Lines").Preload("Lines.Product").Preload("Lines.Course").
		First(&order, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}
	if !orderVisibleTo(c, &order) {
		utils.NotFound(c, "Order not found")
		return
	}

	utils.Success(c, "Order retrieved successfully", gin.H{
		"order": orderResponse(&order),
	})
}
