package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomodoro/internal/handler"
	"pomodoro/internal/middleware"
)

// New wires the Task API. Auth endpoints sit at the root; everything under
// /api requires a bearer token.
func New(
	tokens middleware.TokenParser,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	corsOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(middleware.DefaultCORSPolicy(corsOrigins)))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.POST("/register", authHandler.Register)
	engine.POST("/login", authHandler.Login)

	api := engine.Group("/api")
	api.Use(middleware.Auth(tokens))

	tasks := api.Group("/TaskItem")
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	return engine
}
