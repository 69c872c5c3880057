package handler

import (
	"net/http"
	"time"

	"shopkart/pkg/logger"
	"shopkart/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes настраивает маршруты Orders Service
// Ключ шлюза публичный, заказы требуют авторизации, управление заказами только для admin
func SetupRoutes(
	orderHandler *OrderHandler,
	paymentHandler *PaymentHandler,
	authMiddleware *AuthMiddleware,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("orders-service"))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "orders-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/razorpaykey", paymentHandler.GetKey)

		authorized := api.Group("")
		authorized.Use(authMiddleware.Authenticate())
		{
			authorized.POST("/createorder", orderHandler.CreateOrder)
			authorized.POST("/createorderonline", paymentHandler.CreateOnlineOrder)
			authorized.POST("/paymentverification", paymentHandler.VerifyPayment)
			authorized.GET("/order/:id", orderHandler.GetOrder)
			authorized.GET("/orders/me", orderHandler.MyOrders)
		}

		admin := api.Group("/admin")
		admin.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole(roleAdmin))
		{
			admin.GET("/orders", orderHandler.AllOrders)
			admin.PUT("/order/:id", orderHandler.UpdateOrderStatus)
			admin.DELETE("/order/:id", orderHandler.DeleteOrder)
		}
	}

	return router
}
