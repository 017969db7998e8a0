package app

import (
	"valentine_quiz_backend/docs"
	"valentine_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// The whole surface is public: possession of a share link is the
		// only capability the system has.
		api.POST("/quizzes", c.quiz.CreateQuiz)
		api.GET("/quizzes/:id", c.quiz.GetQuiz)
		api.POST("/quizzes/:id/images", c.upload.UploadImage)
	}
}
