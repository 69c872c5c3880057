package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopkart/auth-service/internal/app/auth/entity"
	"shopkart/pkg/logger"
	"shopkart/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	authMiddleware *AuthMiddleware,
	rateLimiter *RateLimiter,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("auth-service"))

	// Фронтенд шлет cookie token, поэтому origin перечисляются явно
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "auth-service",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/register", rateLimiter.Middleware(), authHandler.Register)
		api.POST("/login", rateLimiter.Middleware(), authHandler.Login)
		api.POST("/refresh", authHandler.RefreshToken)
		api.GET("/logout", authHandler.Logout)
		api.POST("/password/forget", rateLimiter.Middleware(), authHandler.ForgotPassword)
		api.PUT("/password/reset/:token", authHandler.ResetPassword)

		protected := api.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.GET("/me", userHandler.GetMe)
			protected.PUT("/me/update", userHandler.UpdateProfile)
			protected.PUT("/password/update", authHandler.UpdatePassword)

			protected.PUT("/addToWishList", userHandler.ToggleWishList)
			protected.POST("/recentlyViewed", userHandler.RecordView)
			protected.GET("/getRecentlyViewedProduct", userHandler.GetRecentlyViewed)
		}

		admin := api.Group("/admin")
		admin.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole(entity.RoleAdmin))
		{
			admin.GET("/users", userHandler.ListUsers)
			admin.GET("/user/:id", userHandler.GetUser)
			admin.PUT("/user/:id", userHandler.ToggleRole)
			admin.DELETE("/user/:id", userHandler.DeleteUser)
		}
	}

	return router
}
