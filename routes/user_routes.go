package routes

import (
	"github.com/dellacasa/emporio/controllers"
	"github.com/dellacasa/emporio/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes wires account registration, login and the
// authenticated member area.
func initUserRoutes(router *gin.RouterGroup) {
	router.POST("/register", controllers.Register)
	router.POST("/login", controllers.Login)

	// Course detail shows the outline publicly; an optional token adds
	// the caller's enrollment state.
	courses := router.Group("/courses")
	courses.Use(middleware.OptionalAuthMiddleware())
	{
		courses.GET("/:id", controllers.GetCourse)
	}

	me := router.Group("")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("/profile", controllers.GetProfile)
		me.GET("/orders", controllers.ListOrders)
		me.GET("/my-courses", controllers.MyCourses)

		me.POST("/courses/:id/enroll", controllers.EnrollCourse)
		me.POST("/courses/:id/order", controllers.CreateCourseOrder)
		me.GET("/lessons/:id", controllers.GetLesson)
		me.POST("/lessons/:id/viewed", controllers.MarkLessonViewed)
	}
}
