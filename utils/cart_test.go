package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dellacasa/emporio/models"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// runWithCart executes fn inside a request that has the session
// middleware installed, the way handlers see the cart.
func runWithCart(t *testing.T, fn func(c *gin.Context)) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("emporio_test", store))
	router.GET("/run", func(c *gin.Context) {
		fn(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/run", nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func testProduct(id uint, price float64) models.Product {
	return models.Product{
		Model: gorm.Model{ID: id},
		Name:  "Test Product",
		Price: price,
	}
}

func TestCartAddAccumulates(t *testing.T) {
	runWithCart(t, func(c *gin.Context) {
		cart := GetCart(c)
		cart.Add(testProduct(1, 59.90), 1, false)
		cart.Add(testProduct(1, 59.90), 2, false)

		assert.Equal(t, 3, cart.Len())
		assert.InDelta(t, 179.70, cart.Total(), 0.001)
	})
}

func TestCartAddOverrideReplacesQuantity(t *testing.T) {
	runWithCart(t, func(c *gin.Context) {
		cart := GetCart(c)
		cart.Add(testProduct(1, 100.00), 5, false)
		cart.Add(testProduct(1, 100.00), 2, true)

		assert.Equal(t, 2, cart.Len())
		assert.Equal(t, 200.00, cart.Total())
	})
}

func TestCartPriceSnapshotTakenOnFirstAdd(t *testing.T) {
	runWithCart(t, func(c *gin.Context) {
		cart := GetCart(c)
		cart.Add(testProduct(1, 100.00), 1, false)
		// catalog price changed between adds; the snapshot wins
		cart.Add(testProduct(1, 150.00), 1, false)

		assert.Equal(t, 200.00, cart.Total())
	})
}

func TestCartRemoveAndClear(t *testing.T) {
	runWithCart(t, func(c *gin.Context) {
		cart := GetCart(c)
		cart.Add(testProduct(1, 10.00), 1, false)
		cart.Add(testProduct(2, 20.00), 1, false)

		cart.Remove(1)
		assert.Equal(t, 1, cart.Len())
		assert.Equal(t, 20.00, cart.Total())

		cart.Clear()
		assert.Equal(t, 0, cart.Len())
		assert.Equal(t, 0.00, cart.Total())
	})
}

func TestCartItemsSkipsStaleLines(t *testing.T) {
	runWithCart(t, func(c *gin.Context) {
		cart := GetCart(c)
		cart.Add(testProduct(1, 10.00), 2, false)
		cart.Add(testProduct(99, 30.00), 1, false)

		// product 99 was deleted from the catalog after it was added
		lookup := func(ids []uint) ([]models.Product, error) {
			return []models.Product{testProduct(1, 10.00)}, nil
		}

		items, err := cart.Items(lookup)
		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, uint(1), items[0].Product.ID)
		assert.Equal(t, 20.00, items[0].LineTotal)
	})
}

func TestCartSaveMarksSession(t *testing.T) {
	runWithCart(t, func(c *gin.Context) {
		cart := GetCart(c)
		cart.Add(testProduct(1, 10.00), 1, false)
		assert.NoError(t, cart.Save())

		// a fresh read within the same session sees the saved lines
		reloaded := GetCart(c)
		assert.Equal(t, 1, reloaded.Len())
	})
}
