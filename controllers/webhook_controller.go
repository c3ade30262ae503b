package controllers

import (
	"net/http"
	"os"

	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/gateway"
	"github.com/dellacasa/emporio/models"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-gonic/gin"
)

// Gateway events that confirm a payment. Every other event type is
// acknowledged and ignored.
const (
	eventPaymentReceived  = "PAYMENT_RECEIVED"
	eventPaymentConfirmed = "PAYMENT_CONFIRMED"
)

// WebhookPayload is the gateway's notification body.
type WebhookPayload struct {
	Event   string `json:"event"`
	Payment struct {
		ID                string `json:"id"`
		ExternalReference string `json:"externalReference"`
		InvoiceURL        string `json:"invoiceUrl"`
		BillingType       string `json:"billingType"`
	} `json:"payment"`
}

// PaymentWebhook receives payment notifications from the gateway. The
// endpoint always answers 200 once the token and body check out, even
// when the referenced record cannot be found; the gateway retries on
// anything else and there is nothing a retry would fix.
func PaymentWebhook(c *gin.Context) {
	token := c.GetHeader("asaas-access-token")
	if token == "" || token != os.Getenv("ASAAS_WEBHOOK_TOKEN") {
		utils.LogError("Webhook rejected: bad access token")
		utils.WebhookEvents.WithLabelValues("unauthorized").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
		return
	}

	var payload WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.LogError("Webhook rejected: malformed body: %v", err)
		utils.WebhookEvents.WithLabelValues("malformed").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	utils.LogInfo("Webhook event %s for charge %s ref %q",
		payload.Event, payload.Payment.ID, payload.Payment.ExternalReference)

	if payload.Event != eventPaymentReceived && payload.Event != eventPaymentConfirmed {
		utils.WebhookEvents.WithLabelValues("ignored").Inc()
		c.JSON(http.StatusOK, gin.H{"status": "received"})
		return
	}

	ref, ok := gateway.ParseReference(payload.Payment.ExternalReference)
	if !ok {
		utils.LogInfo("Webhook reference %q not ours, acknowledging", payload.Payment.ExternalReference)
		utils.WebhookEvents.WithLabelValues("unresolved").Inc()
		c.JSON(http.StatusOK, gin.H{"status": "received"})
		return
	}

	switch ref.Kind {
	case gateway.RefKindOrder:
		confirmOrder(c, ref.ID, &payload)
	case gateway.RefKindEnrollment:
		confirmEnrollment(c, ref.ID, &payload)
	}
}

// confirmOrder marks the order paid and grants enrollments for any
// course lines. Re-delivery of the same event is a no-op.
func confirmOrder(c *gin.Context, orderID uint, payload *WebhookPayload) {
	var order models.Order
	if err := config.DB.Preload("Lines").First(&order, orderID).Error; err != nil {
		utils.LogError("Webhook for unknown order %d", orderID)
		utils.WebhookEvents.WithLabelValues("unresolved").Inc()
		c.JSON(http.StatusOK, gin.H{"status": "received"})
		return
	}

	if !order.Paid {
		updates := map[string]interface{}{
			"paid":           true,
			"payment_status": models.PaymentStatusPaid,
		}
		if payload.Payment.ID != "" {
			updates["charge_id"] = payload.Payment.ID
		}
		if payload.Payment.InvoiceURL != "" {
			updates["invoice_url"] = payload.Payment.InvoiceURL
		}
		if err := config.DB.Model(&order).Updates(updates).Error; err != nil {
			utils.LogError("Failed to mark order %d paid: %v", orderID, err)
			utils.WebhookEvents.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process"})
			return
		}

		grantOrderEnrollments(&order)

		// Confirmation email is best effort; the payment stands either
		// way.
		if err := utils.SendOrderPaidEmail(order.Email, order.FirstName, order.ID); err != nil {
			utils.LogError("Failed to send payment email for order %d: %v", order.ID, err)
		}
		utils.LogInfo("Order %d marked paid via webhook", order.ID)
	} else {
		utils.LogInfo("Order %d already paid, webhook replay ignored", order.ID)
	}

	utils.WebhookEvents.WithLabelValues("order_processed").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "order_processed"})
}

// grantOrderEnrollments creates a paid enrollment for every course line
// of a paid order. The unique student+course index makes the grant
// idempotent; guest orders carry no student and grant nothing.
func grantOrderEnrollments(order *models.Order) {
	if order.UserID == nil || !order.HasCourseLines() {
		return
	}
	for i := range order.Lines {
		line := &order.Lines[i]
		if line.CourseID == nil {
			continue
		}
		enrollment := models.Enrollment{
			StudentID: *order.UserID,
			CourseID:  *line.CourseID,
		}
		err := config.DB.
			Where("student_id = ? AND course_id = ?", *order.UserID, *line.CourseID).
			Assign(map[string]interface{}{
				"status":      models.EnrollmentStatusPaid,
				"amount":      line.Price,
				"charge_id":   order.ChargeID,
				"invoice_url": order.InvoiceURL,
			}).
			FirstOrCreate(&enrollment).Error
		if err != nil {
			utils.LogError("Failed to grant enrollment for order %d course %d: %v",
				order.ID, *line.CourseID, err)
			continue
		}
		utils.LogInfo("Enrollment granted: student %d course %d", *order.UserID, *line.CourseID)
	}
}

// confirmEnrollment marks a standalone course enrollment paid.
func confirmEnrollment(c *gin.Context, enrollmentID uint, payload *WebhookPayload) {
	var enrollment models.Enrollment
	if err := config.DB.First(&enrollment, enrollmentID).Error; err != nil {
		utils.LogError("Webhook for unknown enrollment %d", enrollmentID)
		utils.WebhookEvents.WithLabelValues("unresolved").Inc()
		c.JSON(http.StatusOK, gin.H{"status": "received"})
		return
	}

	if enrollment.Status != models.EnrollmentStatusPaid {
		updates := map[string]interface{}{
			"status": models.EnrollmentStatusPaid,
		}
		if payload.Payment.ID != "" {
			updates["charge_id"] = payload.Payment.ID
		}
		if payload.Payment.InvoiceURL != "" {
			updates["invoice_url"] = payload.Payment.InvoiceURL
		}
		if err := config.DB.Model(&enrollment).Updates(updates).Error; err != nil {
			utils.LogError("Failed to mark enrollment %d paid: %v", enrollmentID, err)
			utils.WebhookEvents.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process"})
			return
		}
		sendEnrollmentEmail(&enrollment)
		utils.LogInfo("Enrollment %d marked paid via webhook", enrollment.ID)
	} else {
		utils.LogInfo("Enrollment %d already paid, webhook replay ignored", enrollment.ID)
	}

	utils.WebhookEvents.WithLabelValues("enrollment_processed").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "enrollment_processed"})
}

func sendEnrollmentEmail(enrollment *models.Enrollment) {
	var student models.User
	var course models.Course
	if err := config.DB.First(&student, enrollment.StudentID).Error; err != nil {
		return
	}
	if err := config.DB.First(&course, enrollment.CourseID).Error; err != nil {
		return
	}
	if err := utils.SendEnrollmentConfirmation(student.Email, student.FirstName, course.Title); err != nil {
		utils.LogError("Failed to send enrollment email for %d: %v", enrollment.ID, err)
	}
}
