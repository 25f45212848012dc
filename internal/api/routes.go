package api

import (
	"subscription-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine) {
	// API route group
	api := r.Group("/api")
	{
		// Auth routes (no session required)
		auth := api.Group("/auth")
		{
			auth.POST("/register", Register)
			auth.POST("/login", Login)
		}

		// Package routes (reads are public, writes are admin-only)
		packages := api.Group("/packages")
		{
			packages.GET("", GetPackages)
			packages.GET("/:id", GetPackage)
		}
		packagesAdmin := api.Group("/packages")
		packagesAdmin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			packagesAdmin.POST("", CreatePackage)
			packagesAdmin.PUT("/:id", UpdatePackage)
			packagesAdmin.DELETE("/:id", DeletePackage)
		}

		// Credit package routes
		creditPackages := api.Group("/credit-packages")
		{
			creditPackages.GET("", GetCreditPackages)
			creditPackages.GET("/:id", GetCreditPackage)
		}
		creditPackagesAdmin := api.Group("/credit-packages")
		creditPackagesAdmin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			creditPackagesAdmin.POST("", CreateCreditPackage)
			creditPackagesAdmin.PUT("/:id", UpdateCreditPackage)
			creditPackagesAdmin.DELETE("/:id", DeleteCreditPackage)
		}

		// Subscription routes (require a session; purchases are rate limited)
		subscriptions := api.Group("/subscriptions")
		subscriptions.Use(middleware.AuthMiddleware())
		{
			subscriptions.GET("", GetSubscriptions)
			subscriptions.POST("", middleware.PurchaseRateLimitMiddleware(), CreateSubscription)
			subscriptions.GET("/:id", GetSubscription)
			subscriptions.PUT("/:id", UpdateSubscription)
			subscriptions.DELETE("/delete-all", DeleteAllSubscriptions)
			subscriptions.DELETE("/delete-selected", DeleteSelectedSubscriptions)
		}

		// Credit ledger routes
		userCredits := api.Group("/user-credits")
		userCredits.Use(middleware.AuthMiddleware())
		{
			userCredits.GET("", GetUserCredits)
			userCredits.POST("", CreateUserCredit)
			userCredits.POST("/consume", ConsumeCredits)
			userCredits.GET("/:id", GetUserCredit)
			userCredits.PUT("/:id", UpdateUserCredit)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			admin.GET("/overview", GetAdminOverview)
			admin.GET("/users", GetAdminUsers)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "subscription-service",
		})
	})
}
