package routes

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-counter/internal/config"
	domainRepo "github.com/sangkips/billing-counter/internal/domain/repository"
	"github.com/sangkips/billing-counter/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-counter/internal/presentation/http/handler"
	"github.com/sangkips/billing-counter/internal/presentation/http/middleware"
	"github.com/sangkips/billing-counter/pkg/logger"
	"github.com/sangkips/billing-counter/pkg/utils"
)

// AdminRole may run the destructive housekeeping routes.
const AdminRole = "admin"

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Catalog   *handler.CatalogHandler
	Till      *handler.TillHandler
	Cart      *handler.CartHandler
	HeldOrder *handler.HeldOrderHandler
	Order     *handler.OrderHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Log             *logger.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		deps.Log.Error("panic", c.GetString("request_id"), "handler panicked", fmt.Errorf("%v", recovered))
		response.InternalServerError(c, "Internal server error")
	}))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	health := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	}
	router.GET("/health", health)

	// Credential checks reach the backend, so they are throttled per client.
	credentialLimiter := middleware.NewClientRateLimiter(rateLimiterConfig(deps.Cfg.RateLimit))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health)
		v1.POST("/auth/login", credentialLimiter.Middleware(), h.Auth.Login)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}))

		registerProtectedRoutes(protected, h, credentialLimiter)
	}

	return router
}

func rateLimiterConfig(cfg config.RateLimitConfig) middleware.RateLimiterConfig {
	out := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		out.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		out.BurstSize = cfg.Requests
	}
	out.CleanupInterval = 5 * time.Minute
	out.EntryTTL = 10 * time.Minute
	return out
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, limiter *middleware.ClientRateLimiter) {
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/me", h.Auth.Me)

	registerCatalogRoutes(protected, h)
	registerTillRoutes(protected, h, limiter)
	registerCartRoutes(protected, h)
	registerHeldOrderRoutes(protected, h)
	registerOrderRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	catalog := protected.Group("/catalog")
	{
		catalog.GET("", h.Catalog.List)
		catalog.POST("/refresh", h.Catalog.Refresh)
		catalog.GET("/favourites", h.Catalog.Favourites)
		catalog.POST("/favourites/:id", h.Catalog.ToggleFavourite)
	}
}

func registerTillRoutes(protected *gin.RouterGroup, h *Handlers, limiter *middleware.ClientRateLimiter) {
	till := protected.Group("/till")
	{
		till.GET("", h.Till.Status)
		till.POST("/open", limiter.Middleware(), h.Till.Open)
		till.POST("/close", limiter.Middleware(), h.Till.Close)
	}
}

func registerCartRoutes(protected *gin.RouterGroup, h *Handlers) {
	cart := protected.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.POST("/lines/:index/increment", h.Cart.IncrementLine)
		cart.POST("/lines/:index/decrement", h.Cart.DecrementLine)
		cart.DELETE("/lines/:index", h.Cart.RemoveLine)
		cart.PUT("/details", h.Cart.UpdateDetails)
		cart.PUT("/payment-method", h.Cart.SetPaymentMethod)
		cart.POST("/finalize", h.Cart.Finalize)
	}
}

func registerHeldOrderRoutes(protected *gin.RouterGroup, h *Handlers) {
	held := protected.Group("/held-orders")
	{
		held.GET("", h.HeldOrder.List)
		held.POST("", h.HeldOrder.Hold)
		held.DELETE("", middleware.RequireRole(AdminRole), h.HeldOrder.ClearAll)
		held.GET("/:id", h.HeldOrder.Get)
		held.DELETE("/:id", h.HeldOrder.Delete)
		held.POST("/:id/resume", h.HeldOrder.Resume)
		held.POST("/:id/print", h.HeldOrder.Print)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers) {
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:number", h.Order.Get)
		orders.POST("/:number/print", h.Order.Print)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}
