package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dellacasa/emporio/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.POST("/webhooks/payments", PaymentWebhook)
	return router
}

func postWebhook(router *gin.Engine, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("asaas-access-token", token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookRejectsMissingToken(t *testing.T) {
	t.Setenv("ASAAS_WEBHOOK_TOKEN", "sekret")
	router := newWebhookRouter()

	w := postWebhook(router, "", `{"event":"PAYMENT_RECEIVED"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookRejectsWrongToken(t *testing.T) {
	t.Setenv("ASAAS_WEBHOOK_TOKEN", "sekret")
	router := newWebhookRouter()

	w := postWebhook(router, "wrong", `{"event":"PAYMENT_RECEIVED"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	t.Setenv("ASAAS_WEBHOOK_TOKEN", "sekret")
	router := newWebhookRouter()

	w := postWebhook(router, "sekret", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookMethodNotAllowed(t *testing.T) {
	t.Setenv("ASAAS_WEBHOOK_TOKEN", "sekret")
	router := newWebhookRouter()

	req := httptest.NewRequest(http.MethodGet, "/webhooks/payments", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestWebhookAcknowledgesForeignEvents(t *testing.T) {
	t.Setenv("ASAAS_WEBHOOK_TOKEN", "sekret")
	router := newWebhookRouter()

	w := postWebhook(router, "sekret", `{"event":"PAYMENT_CREATED","payment":{"id":"pay_1","externalReference":"order:1"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"received"}`, w.Body.String())
}

func TestWebhookAcknowledgesUnparseableReference(t *testing.T) {
	t.Setenv("ASAAS_WEBHOOK_TOKEN", "sekret")
	router := newWebhookRouter()

	for _, ref := range []string{"", "42", "legacy-ref", "wallet:9"} {
		w := postWebhook(router, "sekret",
			`{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_1","externalReference":"`+ref+`"}}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"received"}`, w.Body.String())
	}
}

func TestWebhookAcknowledgesUnknownOrder(t *testing.T) {
	t.Setenv("ASAAS_WEBHOOK_TOKEN", "sekret")
	setupTestDB(t)
	router := newWebhookRouter()

	w := postWebhook(router, "sekret",
		`{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_1","externalReference":"order:9999"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"received"}`, w.Body.String())
}

func TestWebhookConfirmsOrderAndGrantsEnrollmentOnce(t *testing.T) {
	t.Setenv("ASAAS_WEBHOOK_TOKEN", "sekret")
	db := setupTestDB(t)

	user := models.User{Username: "rita", Email: "rita@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	course := models.Course{Title: "Go do zero", Price: 150, IsActive: true}
	require.NoError(t, db.Create(&course).Error)
	order := models.Order{
		UserID:        &user.ID,
		FirstName:     "Rita",
		Email:         user.Email,
		PaymentStatus: models.PaymentStatusAwaiting,
		Lines: []models.OrderLine{
			{CourseID: &course.ID, Price: 150, Quantity: 1},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	router := newWebhookRouter()
	body := fmt.Sprintf(
		`{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_77","externalReference":"order:%d","invoiceUrl":"https://sandbox.asaas.com/i/77"}}`,
		order.ID)

	w := postWebhook(router, "sekret", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"order_processed"}`, w.Body.String())

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.True(t, stored.Paid)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, "pay_77", stored.ChargeID)

	var enrollments []models.Enrollment
	require.NoError(t, db.Where("student_id = ? AND course_id = ?", user.ID, course.ID).
		Find(&enrollments).Error)
	require.Len(t, enrollments, 1)
	assert.Equal(t, models.EnrollmentStatusPaid, enrollments[0].Status)
	assert.Equal(t, 150.0, enrollments[0].Amount)

	// the gateway re-delivers confirmations; the second one is a no-op
	w = postWebhook(router, "sekret", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"order_processed"}`, w.Body.String())

	var replayed models.Order
	require.NoError(t, db.First(&replayed, order.ID).Error)
	assert.True(t, replayed.Paid)
	assert.Equal(t, models.PaymentStatusPaid, replayed.PaymentStatus)
	assert.True(t, replayed.UpdatedAt.Equal(stored.UpdatedAt))

	require.NoError(t, db.Where("student_id = ? AND course_id = ?", user.ID, course.ID).
		Find(&enrollments).Error)
	require.Len(t, enrollments, 1)
	assert.Equal(t, models.EnrollmentStatusPaid, enrollments[0].Status)
}

func TestWebhookConfirmsEnrollmentIdempotently(t *testing.T) {
	t.Setenv("ASAAS_WEBHOOK_TOKEN", "sekret")
	db := setupTestDB(t)

	user := models.User{Username: "joao", Email: "joao@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	course := models.Course{Title: "SQL na pratica", Price: 90, IsActive: true}
	require.NoError(t, db.Create(&course).Error)
	enrollment := models.Enrollment{
		StudentID: user.ID,
		CourseID:  course.ID,
		Status:    models.EnrollmentStatusPending,
		Amount:    90,
		ChargeID:  "pay_9",
	}
	require.NoError(t, db.Create(&enrollment).Error)

	router := newWebhookRouter()
	body := fmt.Sprintf(
		`{"event":"PAYMENT_RECEIVED","payment":{"id":"pay_9","externalReference":"enrollment:%d"}}`,
		enrollment.ID)

	w := postWebhook(router, "sekret", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"enrollment_processed"}`, w.Body.String())

	var stored models.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentStatusPaid, stored.Status)

	w = postWebhook(router, "sekret", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"enrollment_processed"}`, w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentStatusPaid, stored.Status)
}
