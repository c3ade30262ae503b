package controllers

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/gateway"
	"github.com/dellacasa/emporio/models"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-gonic/gin"
)

// newPaymentClient is swapped in tests to point at a stub gateway.
var newPaymentClient = gateway.NewClient

// PayOrderRequest represents the request body for initiating payment on
// an order.
type PayOrderRequest struct {
	BillingType string `json:"billing_type"`
}

// InitiatePayment creates a gateway charge for a pending order and moves
// it to awaiting_payment. Calling it again for an unpaid order creates a
// fresh charge and overwrites the stored correlation ids.
func InitiatePayment(c *gin.Context) {
	utils.LogInfo("InitiatePayment called")

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	// The body is optional; an absent body means the payer picks the
	// billing type on the hosted invoice page.
	var req PayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var order models.Order
	if err := config.DB.Preload("Lines").First(&order, orderID).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}
	if !orderVisibleTo(c, &order) {
		utils.NotFound(c, "Order not found")
		return
	}
	if order.Paid {
		utils.BadRequest(c, "Order is already paid", nil)
		return
	}

	client := newPaymentClient()
	charge, err := client.CreateCharge(gateway.ChargeRequest{
		CustomerName:      order.FirstName + " " + order.LastName,
		CustomerEmail:     order.Email,
		Value:             order.Total(),
		Description:       fmt.Sprintf("Pedido #%d", order.ID),
		ExternalReference: gateway.OrderReference(order.ID),
		BillingType:       req.BillingType,
	})
	if err != nil {
		utils.ChargeFailures.Inc()
		utils.LogError("Failed to create charge for order %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to start payment", nil)
		return
	}

	order.ChargeID = charge.ID
	order.InvoiceURL = charge.InvoiceURL
	order.PaymentStatus = models.PaymentStatusAwaiting
	if err := config.DB.Model(&order).Updates(map[string]interface{}{
		"charge_id":      order.ChargeID,
		"invoice_url":    order.InvoiceURL,
		"payment_status": order.PaymentStatus,
	}).Error; err != nil {
		utils.LogError("Failed to store charge for order %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to start payment", nil)
		return
	}

	utils.ChargesCreated.Inc()
	utils.LogInfo("Charge %s created for order %d", charge.ID, order.ID)

	payload := gin.H{
		"order_id":       order.ID,
		"charge_id":      charge.ID,
		"invoice_url":    charge.InvoiceURL,
		"payment_status": order.PaymentStatus,
		"total":          order.Total(),
	}
	if charge.PixPayload != "" {
		payload["pix_payload"] = charge.PixPayload
	}
	utils.Success(c, "Payment initiated", payload)
}

// orderVisibleTo reports whether the caller may act on the order. Orders
// belonging to a user are only visible to that user; guest orders are
// only visible to the session that placed them.
func orderVisibleTo(c *gin.Context, order *models.Order) bool {
	if order.UserID == nil {
		return sessionOwnsOrder(c, order.ID)
	}
	user, exists := c.Get("user")
	if !exists {
		return false
	}
	return user.(models.User).ID == *order.UserID
}
