package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"visa-center.backend/internal/interfaces/http/handlers"
	"visa-center.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	profileHandler      *handlers.ProfileHandler
	catalogHandler      *handlers.CatalogHandler
	applicationHandler  *handlers.ApplicationHandler
	adminHandler        *handlers.AdminHandler
	consultationHandler *handlers.ConsultationHandler
	settingsHandler     *handlers.SettingsHandler
	authMiddleware      gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/otp/send", d.authHandler.SendOTP)
			auth.POST("/otp/verify", d.authHandler.VerifyOTP)
			auth.POST("/otp/resend", d.authHandler.ResendOTP)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/logout", d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
		}

		// Profile routes (protected)
		profile := v1.Group("/profile")
		profile.Use(d.authMiddleware)
		{
			profile.GET("", d.profileHandler.Get)
			profile.PUT("", d.profileHandler.Update)
			profile.PATCH("", d.profileHandler.Update)
			profile.POST("/picture", d.profileHandler.UploadPicture)
		}

		// Catalog routes (public)
		countries := v1.Group("/countries")
		{
			countries.GET("", d.catalogHandler.ListCountries)
			countries.GET("/:id", d.catalogHandler.GetCountry)
			countries.GET("/:id/visa-types", d.catalogHandler.ListCountryVisaTypes)
		}
		visaTypes := v1.Group("/visa-types")
		{
			visaTypes.GET("", d.catalogHandler.ListVisaTypes)
			visaTypes.GET("/:id", d.catalogHandler.GetVisaType)
		}

		// Public site endpoints
		v1.POST("/book-consultation", d.consultationHandler.Book)
		v1.GET("/settings", d.settingsHandler.Get)

		// Application routes (protected)
		applications := v1.Group("/visa-applications")
		applications.Use(d.authMiddleware)
		{
			applications.POST("", d.applicationHandler.Create)
			applications.GET("", d.applicationHandler.List)
			applications.GET("/:id", d.applicationHandler.Get)
			applications.PATCH("/:id", d.applicationHandler.UpdateDocuments)
		}

		// Admin login (public)
		v1.POST("/admin/login", d.authHandler.AdminLogin)

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/users", d.adminHandler.ListUsers)
			admin.GET("/stats", d.adminHandler.Stats)

			admin.POST("/countries", d.catalogHandler.CreateCountry)
			admin.PUT("/countries/:id", d.catalogHandler.UpdateCountry)
			admin.PUT("/countries/:id/visa-types", d.catalogHandler.SetCountryVisaTypes)
			admin.DELETE("/countries/:id", d.catalogHandler.DeleteCountry)

			admin.POST("/visa-types", d.catalogHandler.CreateVisaType)
			admin.PUT("/visa-types/:id", d.catalogHandler.UpdateVisaType)
			admin.DELETE("/visa-types/:id", d.catalogHandler.DeleteVisaType)

			admin.GET("/visa-applications", d.applicationHandler.AdminList)
			admin.PATCH("/visa-applications/:id", d.applicationHandler.Review)
			admin.PATCH("/document-review/:id", d.applicationHandler.ReviewDocuments)

			admin.GET("/consultations", d.consultationHandler.List)
			admin.GET("/consultations/:id", d.consultationHandler.Get)
			admin.PATCH("/consultations/:id", d.consultationHandler.UpdateStatus)
			admin.DELETE("/consultations/:id", d.consultationHandler.Delete)

			admin.PUT("/settings", d.settingsHandler.Update)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "visa-center-backend",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
