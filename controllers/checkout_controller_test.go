package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dellacasa/emporio/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedStorefront(t *testing.T, db *gorm.DB) (models.Product, models.ShippingRate) {
	t.Helper()

	category := models.Category{Name: "Books", Slug: "books"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{
		CategoryID: category.ID,
		Name:       "Dom Casmurro",
		Slug:       "dom-casmurro",
		Price:      50,
		Stock:      10,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&product).Error)
	rate := models.ShippingRate{
		State:        "SP",
		StandardCost: floatRef(15),
		StandardDays: intRef(5),
	}
	require.NoError(t, db.Create(&rate).Error)
	return product, rate
}

const checkoutBody = `{
	"first_name": "Rita",
	"email": "rita@example.com",
	"address": "Rua Augusta 100",
	"city": "Sao Paulo",
	"state": "SP",
	"shipping_method": "standard"
}`

func TestCheckoutIncrementsCouponUsageOnce(t *testing.T) {
	db := setupTestDB(t)
	product, _ := seedStorefront(t, db)
	coupon := models.Coupon{
		Code:      "SAVE10",
		Discount:  10,
		Active:    true,
		ValidFrom: time.Now().Add(-time.Hour),
		ValidTo:   time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&coupon).Error)

	sc := &sessionClient{router: newStoreRouter()}

	w := sc.do(http.MethodPost, "/cart/items", fmt.Sprintf(`{"product_id":%d,"quantity":2}`, product.ID))
	require.Equal(t, http.StatusOK, w.Code)

	w = sc.do(http.MethodPost, "/cart/coupon", `{"code":"save10"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// selecting a coupon never touches its counter
	var stored models.Coupon
	require.NoError(t, db.First(&stored, coupon.ID).Error)
	assert.Zero(t, stored.UsageCount)

	w = sc.do(http.MethodPost, "/checkout", checkoutBody)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			OrderID uint    `json:"order_id"`
			Total   float64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 105.00, resp.Data.Total) // 2x50 minus 10%, plus R$15 shipping

	require.NoError(t, db.First(&stored, coupon.ID).Error)
	assert.Equal(t, 1, stored.UsageCount)

	var order models.Order
	require.NoError(t, db.First(&order, resp.Data.OrderID).Error)
	assert.Equal(t, 10, order.Discount)
	assert.Equal(t, "standard", order.ShippingMethod)
	assert.Equal(t, 15.0, order.ShippingCost)
	assert.Equal(t, 5, order.ShippingDays)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 8, fresh.Stock)
}

func TestGuestOrderOnlyVisibleToItsSession(t *testing.T) {
	db := setupTestDB(t)
	product, _ := seedStorefront(t, db)

	router := newStoreRouter()
	sc := &sessionClient{router: router}

	w := sc.do(http.MethodPost, "/cart/items", fmt.Sprintf(`{"product_id":%d}`, product.ID))
	require.Equal(t, http.StatusOK, w.Code)
	w = sc.do(http.MethodPost, "/checkout", checkoutBody)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			OrderID uint `json:"order_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	orderPath := fmt.Sprintf("/orders/%d", resp.Data.OrderID)

	w = sc.do(http.MethodGet, orderPath, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// a different session guessing the sequential id sees nothing
	other := &sessionClient{router: router}
	w = other.do(http.MethodGet, orderPath, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderEstimateFixedAtCheckout(t *testing.T) {
	db := setupTestDB(t)
	_, rate := seedStorefront(t, db)

	user := models.User{Username: "rita", Email: "rita@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	order := models.Order{
		UserID:         &user.ID,
		FirstName:      "Rita",
		Email:          user.Email,
		State:          "SP",
		ShippingMethod: models.ShippingMethodStandard,
		ShippingCost:   15,
		ShippingDays:   5,
		Paid:           true,
		PaymentStatus:  models.PaymentStatusPaid,
		DeliveryStatus: models.DeliveryStatusProcessing,
	}
	require.NoError(t, db.Create(&order).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/orders/:id", func(c *gin.Context) { c.Set("user", user) }, GetOrder)
	sc := &sessionClient{router: router}

	getEstimate := func() time.Time {
		w := sc.do(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data struct {
				Order struct {
					EstimatedDelivery *time.Time `json:"estimated_delivery"`
				} `json:"order"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Data.Order.EstimatedDelivery)
		return *resp.Data.Order.EstimatedDelivery
	}

	require.NoError(t, db.First(&order, order.ID).Error)
	want := order.UpdatedAt.AddDate(0, 0, 5)

	first := getEstimate()
	assert.WithinDuration(t, want, first, time.Second)

	// an admin editing the rate table later must not move the estimate
	require.NoError(t, db.Model(&rate).Update("standard_days", 9).Error)
	assert.True(t, first.Equal(getEstimate()))

	// nor does withdrawing the method for the region entirely
	require.NoError(t, db.Model(&rate).Update("standard_days", nil).Error)
	assert.True(t, first.Equal(getEstimate()))
}
