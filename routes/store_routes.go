package routes

import (
	"github.com/dellacasa/emporio/controllers"
	"github.com/dellacasa/emporio/middleware"
	"github.com/gin-gonic/gin"
)

// initStoreRoutes wires the public storefront: catalog, session cart,
// coupons, shipping quotes and checkout. Everything here works for
// guests; a token, when present, attaches the order to the account.
func initStoreRoutes(router *gin.RouterGroup) {
	router.GET("/products", controllers.ListProducts)
	router.GET("/products/:slug", controllers.GetProduct)
	router.GET("/categories", controllers.ListCategories)
	router.GET("/courses", controllers.ListCourses)

	router.GET("/shipping/quote", controllers.QuoteShipping)

	cart := router.Group("/cart")
	{
		cart.GET("", controllers.GetCart)
		cart.POST("/items", controllers.AddToCart)
		cart.PUT("/items", controllers.UpdateCartItem)
		cart.DELETE("/items", controllers.RemoveFromCart)
		cart.DELETE("", controllers.ClearCart)
		cart.POST("/coupon", controllers.ApplyCoupon)
		cart.DELETE("/coupon", controllers.RemoveCoupon)
	}

	checkout := router.Group("/checkout")
	checkout.Use(middleware.OptionalAuthMiddleware())
	{
		checkout.POST("", controllers.PlaceOrder)
	}

	// Order lookup and payment stay reachable for guest orders.
	orders := router.Group("/orders")
	orders.Use(middleware.OptionalAuthMiddleware())
	{
		orders.GET("/:id", controllers.GetOrder)
		orders.POST("/:id/pay", controllers.InitiatePayment)
		orders.GET("/:id/invoice", controllers.DownloadInvoice)
	}
}
