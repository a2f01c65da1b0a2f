package routes

import (
	"claims-portal-api/controllers"
	"claims-portal-api/middleware"
	"claims-portal-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Staff authentication
			public.POST("/login", controllers.Login)
			public.POST("/login/email-code", controllers.RequestEmailCode)
			public.POST("/login/email-code/verify", controllers.VerifyEmailCode)

			// Claim submission (the public wizard posts the assembled payload)
			public.POST("/claims", controllers.CreateClaim)
			public.GET("/claims/ref/:reference", controllers.GetClaimByReference)

			// Form collaborators used before a claim exists
			public.POST("/uploads/slots", controllers.CreateUploadSlot)
			public.POST("/enhance-text", controllers.EnhanceText)
			public.GET("/address-lookup", controllers.LookupAddress)
			public.GET("/construction-info", controllers.LookupConstructionInfo)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Claims Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// In-app notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Claims workspace (staff and admin)
			claims := protected.Group("/claims")
			{
				claims.GET("", controllers.GetClaims)
				claims.GET("/:id", controllers.GetClaim)
				claims.GET("/:id/audit-logs", controllers.GetClaimAuditLogs)
				claims.GET("/:id/transitions", controllers.GetClaimTransitions)

				// Lifecycle actions
				claims.PUT("/:id/status", controllers.UpdateClaimStatus)
				claims.PUT("/:id/stage", controllers.UpdateClaimStage)
				claims.PUT("/:id/assign", controllers.AssignClaim)
				claims.PUT("/:id/policy", controllers.AssignClaimPolicy)
				claims.PUT("/:id/assessor", controllers.AssignClaimAssessor)
				claims.PUT("/:id/insurer", controllers.SetClaimInsurerDetails)
				claims.POST("/:id/close", middleware.RequireRole(models.RoleAdmin), controllers.CloseClaim)

				// Notes
				claims.GET("/:id/notes", controllers.GetClaimNotes)
				claims.POST("/:id/notes", controllers.AddClaimNote)
				claims.PUT("/notes/:noteId", controllers.UpdateClaimNote)
				claims.DELETE("/notes/:noteId", controllers.DeleteClaimNote)

				// Payments
				claims.GET("/:id/payments", controllers.GetClaimPayments)
				claims.POST("/:id/payments", middleware.RequireRole(models.RoleAdmin), controllers.CreateClaimPayment)
				claims.DELETE("/payments/:paymentId", middleware.RequireRole(models.RoleAdmin), controllers.DeleteClaimPayment)

				// Exports
				claims.GET("/export.csv", controllers.ExportClaimsCSV)
				claims.GET("/export.xlsx", controllers.ExportClaimsXLSX)
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/stats", controllers.GetDashboardStats)
			}

			// Reference data pickers (read for all staff)
			protected.GET("/policies", controllers.GetPolicies)
			protected.GET("/policies/:id", controllers.GetPolicy)
			protected.GET("/assessors", controllers.GetAssessors)
			protected.GET("/assessors/:id", controllers.GetAssessor)

			// Admin-only management
			admin := protected.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", controllers.GetUsers)
				admin.GET("/users/:id", controllers.GetUser)
				admin.POST("/users", controllers.CreateUser)
				admin.PUT("/users/:id", controllers.UpdateUser)
				admin.DELETE("/users/:id", controllers.DeactivateUser)

				admin.POST("/policies", controllers.CreatePolicy)
				admin.PUT("/policies/:id", controllers.UpdatePolicy)
				admin.DELETE("/policies/:id", controllers.DeactivatePolicy)

				admin.POST("/assessors", controllers.CreateAssessor)
				admin.PUT("/assessors/:id", controllers.UpdateAssessor)
				admin.DELETE("/assessors/:id", controllers.DeactivateAssessor)
			}
		}
	}
}
