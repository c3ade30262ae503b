package controllers

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dellacasa/emporio/config"
	"github.com/dellacasa/emporio/models"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points config.DB at a fresh in-memory database for the
// duration of one test. The database is named after the test so parallel
// packages never share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Admin{},
		&models.Category{}, &models.Product{},
		&models.Course{}, &models.Module{}, &models.Lesson{}, &models.LessonView{},
		&models.Coupon{}, &models.ShippingRate{},
		&models.Order{}, &models.OrderLine{}, &models.Enrollment{},
	))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })
	return db
}

// newStoreRouter wires the storefront handlers under a cookie session,
// the way SetupRouter does.
func newStoreRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("emporio", cookie.NewStore([]byte("test-secret"))))
	router.POST("/cart/items", AddToCart)
	router.POST("/cart/coupon", ApplyCoupon)
	router.POST("/checkout", PlaceOrder)
	router.GET("/orders/:id", GetOrder)
	return router
}

// sessionClient replays the session cookie between requests the way a
// browser would, so a multi-step flow keeps its cart and coupon.
type sessionClient struct {
	router  *gin.Engine
	cookies []*http.Cookie
}

func (sc *sessionClient) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range sc.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	sc.router.ServeHTTP(w, req)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		sc.cookies = cs
	}
	return w
}

func floatRef(v float64) *float64 { return &v }
func intRef(v int) *int           { return &v }
