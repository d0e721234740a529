package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Router holds the handlers wired into the gin engine
type Router struct {
	orders  *OrderHandler
	budgets *BudgetHandler
	health  func() error
	logger  *zap.Logger
}

// NewRouter creates a new Router
func NewRouter(orders *OrderHandler, budgets *BudgetHandler, health func() error, logger *zap.Logger) *Router {
	return &Router{orders: orders, budgets: budgets, health: health, logger: logger}
}

// Engine builds the gin engine with all routes registered
func (r *Router) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), r.requestLogger())

	engine.GET("/health", func(c *gin.Context) {
		if err := r.health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	{
		orders := v1.Group("/service-orders")
		{
			orders.POST("", r.orders.Create)
			orders.GET("", r.orders.List)
			orders.GET("/:id", r.orders.Get)
			orders.PATCH("/:id/status", r.orders.Transition)
		}

		budgets := v1.Group("/budgets")
		{
			budgets.POST("", r.budgets.Create)
			budgets.GET("/:id", r.budgets.Get)
			budgets.POST("/:id/send", r.budgets.Send)
			budgets.POST("/:id/receive", r.budgets.Receive)
			budgets.POST("/:id/approve", r.budgets.Approve)
			budgets.POST("/:id/reject", r.budgets.Reject)
		}
	}

	return engine
}

func (r *Router) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		r.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
