package routes

import (
	"github.com/dellacasa/emporio/controllers"
	"github.com/dellacasa/emporio/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes.
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.POST("/login", controllers.AdminLogin)

		admin.Use(middleware.AdminAuthMiddleware())
		{
			// Catalog management
			admin.POST("/categories", controllers.CreateCategory)
			admin.POST("/products", controllers.CreateProduct)
			admin.PUT("/products/:id", controllers.UpdateProduct)
			admin.DELETE("/products/:id", controllers.DeleteProduct)

			// Course management
			admin.POST("/courses", controllers.CreateCourse)
			admin.PUT("/courses/:id", controllers.UpdateCourse)
			admin.POST("/courses/:id/modules", controllers.CreateModule)
			admin.POST("/modules/:id/lessons", controllers.CreateLesson)

			// Coupon management
			admin.GET("/coupons", controllers.ListCoupons)
			admin.POST("/coupons", controllers.CreateCoupon)
			admin.PUT("/coupons/:id", controllers.UpdateCoupon)
			admin.DELETE("/coupons/:id", controllers.DeleteCoupon)

			// Shipping rate table
			admin.GET("/shipping-rates", controllers.GetShippingRates)
			admin.POST("/shipping-rates", controllers.AddShippingRate)
			admin.PUT("/shipping-rates/:id", controllers.UpdateShippingRate)
			admin.DELETE("/shipping-rates/:id", controllers.DeleteShippingRate)

			// Orders
			admin.GET("/orders", controllers.AdminListOrders)
			admin.PATCH("/orders/:id/delivery-status", controllers.UpdateDeliveryStatus)
		}
	}
}
