package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/memoria-app/memoria-backend/internal/config"
	"github.com/memoria-app/memoria-backend/internal/http/handlers"
	"github.com/memoria-app/memoria-backend/internal/http/middleware"
	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	orderHandler *handlers.OrderHandler,
	photoHandler *handlers.PhotoHandler,
	paymentHandler *handlers.PaymentHandler,
	providerHandler *handlers.ProviderHandler,
	catalogHandler *handlers.CatalogHandler,
	statsHandler *handlers.StatsHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Public reference data.
	api.GET("/cemeteries", catalogHandler.ListCemeteries)
	api.GET("/cemeteries/:id", middleware.UUIDValidator("id"), catalogHandler.GetCemetery)
	api.GET("/service-categories", catalogHandler.ListServiceCategories)
	api.GET("/ws", wsHandler.Handle)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.POST("/orders", middleware.RequireRole(models.RoleClient), orderHandler.Create)
		protected.GET("/orders", orderHandler.List)
		protected.GET("/orders/available", middleware.RequireRole(models.RolePrestataire), orderHandler.ListAvailable)
		protected.GET("/orders/pending-validation", middleware.RequireRole(models.RoleAdmin), orderHandler.ListPendingValidation)
		protected.GET("/orders/disputed", middleware.RequireRole(models.RoleAdmin), orderHandler.ListDisputed)
		protected.GET("/orders/:id", middleware.UUIDValidator("id"), orderHandler.Get)

		protected.PATCH("/orders/:id/accept", middleware.UUIDValidator("id"), middleware.RequireRole(models.RolePrestataire), orderHandler.Accept)
		protected.PATCH("/orders/:id/complete", middleware.UUIDValidator("id"), middleware.RequireRole(models.RolePrestataire), orderHandler.Complete)
		protected.PATCH("/orders/:id/cancel", middleware.UUIDValidator("id"), middleware.RequireRole(models.RolePrestataire), orderHandler.Cancel)
		protected.PATCH("/orders/:id/validate", middleware.UUIDValidator("id"), middleware.RequireRole(models.RoleAdmin), orderHandler.Validate)
		protected.PATCH("/orders/:id/dispute", middleware.UUIDValidator("id"), middleware.RequireRole(models.RoleAdmin), orderHandler.Dispute)
		protected.PATCH("/orders/:id/resolve", middleware.UUIDValidator("id"), middleware.RequireRole(models.RoleAdmin), orderHandler.Resolve)

		protected.POST("/orders/:id/photos", middleware.UUIDValidator("id"), middleware.RequireRole(models.RolePrestataire), photoHandler.Upload)
		protected.GET("/orders/:id/photos", middleware.UUIDValidator("id"), photoHandler.List)
		protected.GET("/orders/:id/payments", middleware.UUIDValidator("id"), paymentHandler.ListOrderPayments)

		protected.POST("/payments/create-payment-intent", middleware.RequireRole(models.RoleClient), paymentHandler.CreateIntent)
		protected.POST("/payments/confirm", middleware.RequireRole(models.RoleClient), paymentHandler.Confirm)

		providers := protected.Group("/providers")
		providers.Use(middleware.RequireRole(models.RoleAdmin))
		{
			providers.GET("/pending", providerHandler.ListPending)
			providers.PATCH("/:id/approve", middleware.UUIDValidator("id"), providerHandler.Approve)
			providers.PATCH("/:id/reject", middleware.UUIDValidator("id"), providerHandler.Reject)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/create", authHandler.CreateAdmin)
			admin.GET("/stats", statsHandler.GetPlatformStats)
		}
	}

	return r
}
