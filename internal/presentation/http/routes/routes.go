package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onusexpress/courier-api/internal/config"
	domainRepo "github.com/onusexpress/courier-api/internal/domain/repository"
	"github.com/onusexpress/courier-api/internal/presentation/http/handler"
	"github.com/onusexpress/courier-api/internal/presentation/http/middleware"
	"github.com/onusexpress/courier-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Account      *handler.AccountHandler
	Quote        *handler.QuoteHandler
	Lead         *handler.LeadHandler
	Campaign     *handler.CampaignHandler
	Notification *handler.NotificationHandler
	Dispatch     *handler.DispatchHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Every route below is rate limited per client address; the quote and
	// lead surfaces are public.
	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
		BurstSize:         deps.Cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})

	v1 := router.Group("/api/v1")
	v1.Use(rateLimiter.Middleware())
	{
		registerAuthRoutes(v1, h)
		registerQuoteRoutes(v1, h)
		registerPublicLeadRoutes(v1, h, deps)

		// Notify receiving endpoint requires a client session
		notify := v1.Group("")
		notify.Use(middleware.AuthMiddleware(deps.JWTManager))
		notify.Use(middleware.RequireRole("cliente"))
		notify.POST("/presupuestos/notify", h.Notification.Receive)

		// Authenticated account routes
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.GET("/profile", h.Auth.GetProfile)
		protected.PUT("/profile/password", h.Auth.ChangePassword)

		// Back-office routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(deps.JWTManager))
		admin.Use(middleware.AdminOnly())
		registerAdminRoutes(admin, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/admin-pin", h.Auth.AdminPINLogin)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}
}

func registerQuoteRoutes(v1 *gin.RouterGroup, h *Handlers) {
	v1.GET("/tarifas", h.Quote.GetCatalog)

	quotes := v1.Group("/presupuestos")
	{
		quotes.POST("", h.Quote.CreateSession)
		quotes.GET("/:id", h.Quote.GetSession)
		quotes.DELETE("/:id", h.Quote.DropSession)
		quotes.PUT("/:id/client-name", h.Quote.SetClientName)
		quotes.POST("/:id/lines/service", h.Quote.AddServiceLine)
		quotes.POST("/:id/lines/weight-surcharge", h.Quote.AddWeightSurcharge)
		quotes.POST("/:id/lines/dimension-surcharge", h.Quote.AddDimensionSurcharge)
		quotes.POST("/:id/lines/additional", h.Quote.AddAdditional)
		quotes.PATCH("/:id/lines/:line_id", h.Quote.UpdateLine)
		quotes.DELETE("/:id/lines/:line_id", h.Quote.RemoveLine)
		quotes.PUT("/:id/adjustment", h.Quote.SetAdjustment)
		quotes.DELETE("/:id/adjustment", h.Quote.ClearAdjustment)
		quotes.POST("/:id/reset", h.Quote.Reset)
		quotes.GET("/:id/pdf", h.Quote.ExportPDF)
		quotes.POST("/:id/dispatch", h.Quote.Dispatch)
	}
}

func registerPublicLeadRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	v1.POST("/contacto", idempotency, h.Lead.Submit)
	v1.GET("/campanas", h.Campaign.List)
	v1.GET("/campanas/:id", h.Campaign.Get)
	v1.POST("/campanas/:id/postulaciones", idempotency, h.Campaign.Apply)
}

func registerAdminRoutes(admin *gin.RouterGroup, h *Handlers) {
	// Accounts
	accounts := admin.Group("/accounts")
	{
		accounts.GET("", h.Account.List)
		accounts.GET("/:id", h.Account.Get)
		accounts.POST("/:id/credentials", h.Account.IssueCredentials)
	}

	// Campaigns
	campaigns := admin.Group("/campanas")
	{
		campaigns.POST("", h.Campaign.Create)
		campaigns.GET("/:id", h.Campaign.GetDetail)
		campaigns.PUT("/:id", h.Campaign.Update)
		campaigns.DELETE("/:id", h.Campaign.Delete)
		campaigns.GET("/:id/export/csv", h.Campaign.ExportCSV)
		campaigns.GET("/:id/export/excel", h.Campaign.ExportExcel)
	}
	admin.PUT("/postulaciones/:application_id", h.Campaign.ReviewApplication)

	// Contact messages
	contacts := admin.Group("/contacto")
	{
		contacts.GET("", h.Lead.List)
		contacts.GET("/:id", h.Lead.Get)
		contacts.POST("/:id/handled", h.Lead.MarkHandled)
	}

	// Received quote notifications
	notifications := admin.Group("/notificaciones")
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/:id", h.Notification.Get)
	}

	// Failed dispatch log, read only
	admin.GET("/dispatch-failures", h.Dispatch.ListFailures)
}
