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

// SetupRoutes настраивает маршруты Catalog Service
// Поиск, карточка товара и список отзывов публичные; отзывы пишут авторизованные, товары ведет admin
func SetupRoutes(
	productHandler *ProductHandler,
	reviewHandler *ReviewHandler,
	authMiddleware *AuthMiddleware,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("catalog-service"))
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
			"service": "catalog-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/products", productHandler.ListProducts)
		api.GET("/product/:id", productHandler.GetProduct)
		api.GET("/reviews", reviewHandler.GetReviews)

		authorized := api.Group("")
		authorized.Use(authMiddleware.Authenticate())
		{
			authorized.PUT("/review", reviewHandler.SubmitReview)
			authorized.DELETE("/reviews", reviewHandler.DeleteReview)
		}

		admin := api.Group("/admin")
		admin.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"))
		{
			admin.GET("/products", productHandler.AdminListProducts)
			admin.POST("/product/new", productHandler.CreateProduct)
			admin.PUT("/product/:id", productHandler.UpdateProduct)
			admin.DELETE("/product/:id", productHandler.DeleteProduct)
		}
	}

	return router
}
