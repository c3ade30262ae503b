package routes

import (
	"os"

	"github.com/dellacasa/emporio/controllers"
	"github.com/dellacasa/emporio/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter initializes and returns the Gin router with all routes.
func SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	// The webhook route is registered for POST only; other verbs must
	// answer 405 rather than 404.
	router.HandleMethodNotAllowed = true

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "dev-session-secret"
	}
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		MaxAge:   60 * 60 * 24 * 7,
		Path:     "/",
		Secure:   os.Getenv("ENV") == "production",
		HttpOnly: true,
	})
	router.Use(sessions.Sessions("emporio", store))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Gateway notifications land outside the versioned API.
	router.POST("/webhooks/payments", controllers.PaymentWebhook)

	auth := router.Group("/auth")
	{
		auth.GET("/google/login", controllers.GoogleLogin)
		auth.GET("/google/callback", controllers.GoogleCallback)
	}

	api := router.Group("/v1")
	{
		initStoreRoutes(api)
		initUserRoutes(api)
		initAdminRoutes(api)
	}

	return router
}
