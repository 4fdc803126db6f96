package router

import (
	"github.com/gin-gonic/gin"
	"github.com/joyeria/backend/internal/domain/identity"
	"github.com/joyeria/backend/internal/infrastructure/auth"
	"github.com/joyeria/backend/internal/infrastructure/config"
	"github.com/joyeria/backend/internal/infrastructure/logger"
	"github.com/joyeria/backend/internal/interfaces/http/handler"
	"github.com/joyeria/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Config wires the handlers and cross-cutting services into the engine
type Config struct {
	AppConfig *config.Config
	Logger    *zap.Logger

	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist

	System    *handler.SystemHandler
	Auth      *handler.AuthHandler
	Products  *handler.ProductHandler
	Cart      *handler.CartHandler
	Orders    *handler.OrderHandler
	Invoices  *handler.InvoiceHandler
	Payments  *handler.PaymentHandler
	Returns   *handler.ReturnHandler
	Inventory *handler.InventoryHandler
	Customers *handler.CustomerHandler
}

// New builds the gin engine with the full middleware chain and routes
func New(cfg Config) *gin.Engine {
	if cfg.AppConfig.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	_ = engine.SetTrustedProxies(cfg.AppConfig.HTTP.TrustedProxies)

	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.AppConfig.HTTP.CORSAllowOrigins
	if len(cfg.AppConfig.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.AppConfig.HTTP.CORSAllowMethods
	}
	if len(cfg.AppConfig.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.AppConfig.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	if cfg.AppConfig.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.AppConfig.HTTP.MaxBodySize))
	}
	if cfg.AppConfig.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(
			cfg.AppConfig.HTTP.RateLimitRequests,
			cfg.AppConfig.HTTP.RateLimitWindow,
		)
		engine.Use(middleware.RateLimit(limiter))
	}

	registerRoutes(engine, cfg)
	return engine
}

func registerRoutes(engine *gin.Engine, cfg Config) {
	jwtAuth := middleware.JWTAuth(middleware.JWTConfig{
		JWTService:     cfg.JWTService,
		TokenBlacklist: cfg.TokenBlacklist,
		Logger:         cfg.Logger,
	})

	v1 := engine.Group("/api/v1")

	v1.GET("/health", cfg.System.Health)

	// Login and registration get their own, stricter limiter so catalog
	// traffic cannot mask a credential stuffing run.
	authPublic := v1.Group("/auth")
	if cfg.AppConfig.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(
			cfg.AppConfig.HTTP.AuthRateLimitRequests,
			cfg.AppConfig.HTTP.AuthRateLimitWindow,
		)
		authPublic.Use(middleware.RateLimit(authLimiter))
	}
	authPublic.POST("/register", cfg.Auth.Register)
	authPublic.POST("/login", cfg.Auth.Login)
	authPublic.POST("/refresh", cfg.Auth.Refresh)

	// Catalog browsing is anonymous; only active products are visible
	v1.GET("/products", cfg.Products.PublicList)
	v1.GET("/products/:id", cfg.Products.Get)
	v1.GET("/products/sku/:sku", cfg.Products.GetBySKU)

	authed := v1.Group("")
	authed.Use(jwtAuth)

	authedAuth := authed.Group("/auth")
	authedAuth.GET("/me", cfg.Auth.Me)
	authedAuth.POST("/logout", cfg.Auth.Logout)
	authedAuth.POST("/change-password", cfg.Auth.ChangePassword)

	cart := authed.Group("/cart")
	cart.GET("", cfg.Cart.Get)
	cart.DELETE("", cfg.Cart.Clear)
	cart.POST("/lines", cfg.Cart.AddLine)
	cart.PUT("/lines/:productId", cfg.Cart.UpdateQuantity)
	cart.DELETE("/lines/:productId", cfg.Cart.RemoveLine)
	cart.POST("/merge", cfg.Cart.Merge)
	cart.POST("/checkout", cfg.Cart.Checkout)

	authed.GET("/orders/mine", cfg.Orders.ListMine)
	authed.GET("/orders/:id", cfg.Orders.Get)

	authed.GET("/customers/me", cfg.Customers.Me)
	authed.PUT("/customers/me", cfg.Customers.UpdateMe)
	authed.GET("/branches", cfg.Customers.ListBranches)
	authed.GET("/levels", cfg.Customers.ListLevels)

	authed.POST("/returns", cfg.Returns.Create)
	authed.GET("/returns/mine", cfg.Returns.ListMine)
	authed.GET("/returns/:id", cfg.Returns.Get)

	staff := authed.Group("")
	staff.Use(middleware.RequireStaff())
	staff.GET("/products/all", cfg.Products.List)
	staff.GET("/orders", cfg.Orders.List)
	staff.GET("/orders/number/:number", cfg.Orders.GetByNumber)
	staff.GET("/orders/summary", cfg.Orders.StatusSummary)
	staff.GET("/orders/:id/returns", cfg.Returns.ListByOrder)
	staff.GET("/orders/:id/invoice", cfg.Invoices.GetByOrder)
	staff.GET("/orders/:id/payments", cfg.Payments.ListByOrder)
	staff.GET("/customers", cfg.Customers.List)
	staff.GET("/customers/:id", cfg.Customers.Get)
	staff.GET("/returns", cfg.Returns.ListByStatus)
	staff.GET("/invoices", cfg.Invoices.List)
	staff.GET("/invoices/:id", cfg.Invoices.Get)
	staff.GET("/invoices/folio/:folio", cfg.Invoices.GetByFolio)
	staff.GET("/invoices/:id/payments", cfg.Payments.ListByInvoice)
	staff.GET("/inventory/branches/:branchId", cfg.Inventory.ListByBranch)
	staff.GET("/inventory/branches/:branchId/below-ideal", cfg.Inventory.ListBelowIdeal)
	staff.GET("/inventory/branches/:branchId/products/:productId", cfg.Inventory.GetStock)
	staff.GET("/inventory/branches/:branchId/products/:productId/movements", cfg.Inventory.MovementHistory)
	staff.GET("/inventory/movements/reference/:reference", cfg.Inventory.MovementsByReference)

	sales := authed.Group("")
	sales.Use(middleware.RequireRoles(identity.RoleAdmin, identity.RoleVentas))
	sales.POST("/orders/:id/advance", cfg.Orders.Advance)
	sales.POST("/orders/:id/cancel", cfg.Orders.Cancel)
	sales.POST("/returns/:id/authorize", cfg.Returns.Authorize)
	sales.POST("/returns/:id/reject", cfg.Returns.Reject)
	sales.POST("/customers/:id/level", cfg.Customers.AssignLevel)
	sales.POST("/customers/:id/branch", cfg.Customers.AssignBranch)

	catalog := authed.Group("/products")
	catalog.Use(middleware.RequireRoles(identity.RoleAdmin, identity.RoleVentas))
	catalog.POST("", cfg.Products.Create)
	catalog.PUT("/:id", cfg.Products.Update)
	catalog.PUT("/:id/price", cfg.Products.SetPrice)
	catalog.PUT("/:id/discount", cfg.Products.SetDiscount)
	catalog.POST("/:id/activate", cfg.Products.Activate)
	catalog.POST("/:id/deactivate", cfg.Products.Deactivate)
	catalog.DELETE("/:id", cfg.Products.Delete)

	warehouse := authed.Group("")
	warehouse.Use(middleware.RequireRoles(identity.RoleAdmin, identity.RoleInventario))
	warehouse.POST("/inventory/adjust", cfg.Inventory.Adjust)
	warehouse.PUT("/inventory/levels", cfg.Inventory.SetLevels)
	warehouse.POST("/returns/:id/restock", cfg.Returns.Restock)

	finance := authed.Group("")
	finance.Use(middleware.RequireRoles(identity.RoleAdmin, identity.RoleFinanzas))
	finance.POST("/orders/:id/invoice", cfg.Invoices.EnsureForOrder)
	finance.POST("/payments", cfg.Payments.Record)

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(identity.RoleAdmin))
	admin.POST("/auth/staff", cfg.Auth.CreateStaff)
	admin.POST("/users/:id/disable", cfg.Auth.DisableUser)
	admin.POST("/levels", cfg.Customers.CreateLevel)
	admin.POST("/branches", cfg.Customers.CreateBranch)
}
