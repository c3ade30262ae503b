package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestQuoteShippingRequiresStateCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/shipping/quote", QuoteShipping)

	for _, state := range []string{"", "S", "Sao Paulo"} {
		req := httptest.NewRequest(http.MethodGet, "/shipping/quote?state="+strings.ReplaceAll(state, " ", "%20"), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Success bool              `json:"success"`
			Options []json.RawMessage `json:"options"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Empty(t, body.Options)
	}
}

func TestApplyCouponEmptyCart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("test", cookie.NewStore([]byte("test-secret"))))
	router.POST("/cart/coupon", ApplyCoupon)

	req := httptest.NewRequest(http.MethodPost, "/cart/coupon", strings.NewReader(`{"code":"NATAL10"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success  bool   `json:"success"`
		Discount int    `json:"discount"`
		Message  string `json:"message"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Zero(t, body.Discount)
}
