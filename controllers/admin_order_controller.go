package controllers

import (
	"strconv"

	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/models"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-gonic/gin"
)

// AdminListOrders returns all orders, optionally filtered by payment or
// delivery status.
func AdminListOrders(c *gin.Context) {
	utils.LogInfo("AdminListOrders called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Order{})

	if status := c.Query("payment_status"); status != "" {
		query = query.Where("payment_status = ?", status)
	}
	if status := c.Query("delivery_status"); status != "" {
		query = query.Where("delivery_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	var orders []models.Order
	if err := query.Preload("Lines").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	responses := make([]gin.H, 0, len(orders))
	for i := range orders {
		responses = append(responses, orderResponse(&orders[i]))
	}

	utils.SuccessWithPagination(c, "Orders retrieved successfully", gin.H{
		"orders": responses,
	}, total, pagination.Page, pagination.Limit)
}

// UpdateDeliveryStatus moves a paid order along Processing, Shipped,
// Delivered. Unpaid orders cannot ship.
func UpdateDeliveryStatus(c *gin.Context) {
	utils.LogInfo("UpdateDeliveryStatus called")

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		DeliveryStatus string `json:"delivery_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	switch req.DeliveryStatus {
	case models.DeliveryStatusProcessing, models.DeliveryStatusShipped, models.DeliveryStatusDelivered:
	default:
		utils.BadRequest(c, "Invalid delivery status", nil)
		return
	}

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}
	if !order.Paid {
		utils.BadRequest(c, "Order has not been paid yet", nil)
		return
	}

	if err := config.DB.Model(&order).Update("delivery_status", req.DeliveryStatus).Error; err != nil {
		utils.LogError("Failed to update delivery status for order %d: %v", orderID, err)
		utils.InternalServerError(c, "Failed to update delivery status", nil)
		return
	}

	utils.LogInfo("Order %d delivery status set to %s", orderID, req.DeliveryStatus)
	utils.Success(c, "Delivery status updated successfully", gin.H{
		"order_id":        order.ID,
		"delivery_status": req.DeliveryStatus,
	})
}
