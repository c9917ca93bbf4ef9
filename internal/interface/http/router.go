package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/glowedge/skincare-backend/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(nil),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	api.Use(identityMiddleware())
	{
		api.POST("/login", handler.Login)
		api.GET("/me", handler.Me)
		api.PUT("/me/profile", handler.UpdateProfile)

		api.GET("/products", handler.ListProducts)
		api.POST("/products", handler.CreateProduct)
		api.GET("/products/:id", handler.GetProduct)
		api.PUT("/products/:id", handler.UpdateProduct)
		api.DELETE("/products/:id", handler.DeleteProduct)
		api.POST("/products/:id/image", handler.UploadProductImage)
		api.DELETE("/products/:id/image", handler.DeleteProductImage)

		api.GET("/routines", handler.ListRoutines)
		api.POST("/routines", handler.CreateRoutine)
		api.GET("/routines/:id", handler.GetRoutine)
		api.PUT("/routines/:id", handler.UpdateRoutine)
		api.DELETE("/routines/:id", handler.DeleteRoutine)
		api.POST("/routines/generate", handler.GenerateRoutines)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
