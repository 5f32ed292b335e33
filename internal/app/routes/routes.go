package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	healthController *controllers.HealthController,
) {
	router.GET("/health", healthController.Health)

	courses := router.Group("/courses")
	{
		// Registered before /:id so "report" is never taken for an id
		courses.GET("/report", courseController.GenerateReport)

		courses.GET("", courseController.GetAllCourses)
		courses.POST("", courseController.CreateCourse)
		courses.GET("/:id", courseController.GetCourseByID)
		courses.PUT("/:id", courseController.UpdateCourse)
		courses.DELETE("/:id", courseController.DeleteCourse)
	}
}
