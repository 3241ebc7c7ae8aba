package main

import (
	"github.com/codecrew/backend/internal/handlers"
	"github.com/codecrew/backend/internal/middleware"
	"github.com/codecrew/backend/internal/models"
	"github.com/codecrew/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "codecrew"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/signup", svc.authHandler.Signup)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/federated/callback", svc.authHandler.FederatedCallback)
			auth.POST("/refresh", svc.authHandler.Refresh)
		}

		// Public read routes
		beaconHandler := handlers.NewBeaconHandler(models.GetDB())
		api.GET("/beacons", beaconHandler.List)
		api.GET("/beacons/:id", beaconHandler.GetByID)

		userHandler := handlers.NewUserHandler(models.GetDB())
		api.GET("/users/:username", userHandler.GetProfile)

		searchHandler := handlers.NewSearchHandler(models.GetDB())
		api.GET("/search", searchHandler.Search)

		memberHandler := handlers.NewMemberHandler(models.GetDB())
		api.GET("/beacons/:id/members", memberHandler.ListMembers)

		// Websocket chat (token arrives as a query parameter)
		api.GET("/beacons/:id/chat/ws", svc.chatHandler.Connect)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)

			// Profile
			protected.PUT("/users/me", userHandler.UpdateProfile)

			// Beacons (write operations)
			protected.POST("/beacons", beaconHandler.Create)
			protected.POST("/beacons/draft", beaconHandler.CreateDraft)
			protected.PUT("/beacons/:id/status", beaconHandler.TransitionStatus)

			// Memberships
			protected.DELETE("/beacons/:id/membership", memberHandler.Leave)
			protected.DELETE("/beacons/:id/members/:userId", memberHandler.RemoveMember)

			// Applications
			applicationHandler := handlers.NewApplicationHandler(models.GetDB())
			protected.POST("/applications", applicationHandler.Apply)
			protected.PUT("/applications/:id/review", applicationHandler.Review)
			protected.GET("/applications/mine", applicationHandler.ListMine)
			protected.GET("/applications/received", applicationHandler.ListReceived)

			// Bookmarks
			bookmarkHandler := handlers.NewBookmarkHandler(models.GetDB())
			protected.POST("/beacons/:id/bookmark", bookmarkHandler.Add)
			protected.DELETE("/beacons/:id/bookmark", bookmarkHandler.Remove)
			protected.GET("/bookmarks", bookmarkHandler.List)

			// Dashboard
			dashboardHandler := handlers.NewDashboardHandler(models.GetDB())
			protected.GET("/dashboard", dashboardHandler.Get)
			protected.GET("/dashboard/refresh", dashboardHandler.Refresh)

			// Chat history (member check inside the handler)
			protected.GET("/beacons/:id/chat/messages", svc.chatHandler.History)

			// Notifications
			notificationHandler := handlers.NewNotificationHandler(models.GetDB())
			protected.GET("/notifications", notificationHandler.List)
			protected.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}

		// Admin only routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			systemLogHandler := handlers.NewSystemLogHandler(models.GetDB())
			admin.GET("/system-logs", systemLogHandler.List)
			admin.GET("/system-logs/modules", systemLogHandler.GetModules)
			admin.GET("/system-logs/retention", systemLogHandler.GetRetention)
			admin.PUT("/system-logs/retention", systemLogHandler.SetRetention)
			admin.POST("/system-logs/cleanup", systemLogHandler.Cleanup)
		}
	}
}
