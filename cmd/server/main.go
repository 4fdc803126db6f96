package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joyeria/backend/internal/application/billing"
	"github.com/joyeria/backend/internal/application/catalog"
	"github.com/joyeria/backend/internal/application/identity"
	"github.com/joyeria/backend/internal/application/inventory"
	"github.com/joyeria/backend/internal/application/ordering"
	"github.com/joyeria/backend/internal/application/partner"
	"github.com/joyeria/backend/internal/application/returns"
	orderingdomain "github.com/joyeria/backend/internal/domain/ordering"
	"github.com/joyeria/backend/internal/infrastructure/auth"
	"github.com/joyeria/backend/internal/infrastructure/config"
	"github.com/joyeria/backend/internal/infrastructure/logger"
	"github.com/joyeria/backend/internal/infrastructure/persistence"
	"github.com/joyeria/backend/internal/infrastructure/session"
	"github.com/joyeria/backend/internal/interfaces/http/handler"
	"github.com/joyeria/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	database, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = redisClient.Close() }()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		err = redisClient.Ping(pingCtx).Err()
		cancelPing()
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
	} else {
		log.Warn("redis disabled, using in-process session stores")
	}

	db := database.DB
	txManager := persistence.NewGormTxManager(db)

	userRepo := persistence.NewGormUserRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	levelRepo := persistence.NewGormCustomerLevelRepository(db)
	branchRepo := persistence.NewGormBranchRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	stockRepo := persistence.NewGormBranchStockRepository(db)
	movementRepo := persistence.NewGormStockMovementRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	returnRepo := persistence.NewGormReturnRepository(db)

	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	var cartStore orderingdomain.CartStore
	if cfg.Redis.Enabled {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		cartStore = session.NewRedisCartStore(redisClient, cfg.Cart.TTL, log)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		cartStore = session.NewInMemoryCartStore(cfg.Cart.TTL)
	}

	authService := identity.NewAuthService(txManager, userRepo, customerRepo, jwtService, blacklist, log)
	productService := catalog.NewProductService(productRepo, log)
	customerService := partner.NewCustomerService(customerRepo, levelRepo, branchRepo, log)
	inventoryService := inventory.NewInventoryService(txManager, stockRepo, movementRepo, productRepo, log)
	cartService := ordering.NewCartService(cartStore, productRepo, log)
	checkoutService := ordering.NewCheckoutService(
		txManager, cartStore, orderRepo, customerRepo, levelRepo,
		stockRepo, movementRepo, invoiceRepo, log)
	orderService := ordering.NewOrderService(txManager, orderRepo, stockRepo, movementRepo, log)
	invoiceService := billing.NewInvoiceService(txManager, invoiceRepo, paymentRepo, orderRepo, customerRepo, log)
	paymentService := billing.NewPaymentService(txManager, invoiceRepo, paymentRepo, orderRepo, log)
	returnService := returns.NewReturnService(txManager, returnRepo, orderRepo, stockRepo, movementRepo, log)

	engine := router.New(router.Config{
		AppConfig:      cfg,
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		System:         handler.NewSystemHandler(db, redisClient),
		Auth:           handler.NewAuthHandler(authService, cfg.Cookie),
		Products:       handler.NewProductHandler(productService),
		Cart:           handler.NewCartHandler(cartService, checkoutService),
		Orders:         handler.NewOrderHandler(orderService, customerService),
		Invoices:       handler.NewInvoiceHandler(invoiceService),
		Payments:       handler.NewPaymentHandler(paymentService),
		Returns:        handler.NewReturnHandler(returnService, orderService, customerService),
		Inventory:      handler.NewInventoryHandler(inventoryService),
		Customers:      handler.NewCustomerHandler(customerService),
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
