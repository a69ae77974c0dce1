package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"giftyy-backend/internal/cart"
	"giftyy-backend/internal/checkout"
	"giftyy-backend/internal/config"
	"giftyy-backend/internal/database"
	"giftyy-backend/internal/handlers"
	"giftyy-backend/internal/logging"
	"giftyy-backend/internal/middleware"
	"giftyy-backend/internal/orderqr"
	"giftyy-backend/internal/storage"
	"giftyy-backend/internal/wishlist"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Development)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// wishlist reads degrade to empty lists until redis is back
		logger.Warn("redis unavailable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	media, err := storage.Connect(ctx, storage.Config{
		Endpoint:     cfg.MinioEndpoint,
		AccessKey:    cfg.MinioAccessKey,
		SecretKey:    cfg.MinioSecretKey,
		UseSSL:       cfg.MinioUseSSL,
		Bucket:       cfg.MinioBucket,
		SignedURLTTL: cfg.SignedURLTTL,
	}, logger)
	if err != nil {
		logger.Warn("object storage disabled, memory uploads will fail", zap.Error(err))
		media = nil
	}

	// Queries
	orderQueries := database.NewOrderQueries(db)
	productQueries := database.NewProductQueries(db)
	vendorQueries := database.NewVendorQueries(db)
	settingsQueries := database.NewSettingsQueries(db)

	var images orderqr.ImageSource = orderqr.GeneratorImages{BaseURL: cfg.QRGeneratorURL, Size: cfg.QRImageSize}
	if cfg.QRRenderLocal {
		if media != nil {
			images = orderqr.StoredImages{Storage: media, Size: cfg.QRImageSize}
		} else {
			logger.Warn("QR_RENDER_LOCAL needs object storage, using the external generator")
		}
	}
	qrService := orderqr.NewService(orderQueries, images, cfg.DeepLinkBaseURL, logger)

	carts := cart.NewRegistry()
	checkouts := checkout.NewRegistry()
	sessions := middleware.NewSessionManager(cfg.SessionSecret, !cfg.Development)
	maintenance := middleware.NewMaintenanceSwitch(settingsQueries, cfg.MaintenanceMode, cfg.MaintenanceTTL, logger)

	// Handlers
	cartHandler := handlers.NewCartHandler(carts)
	checkoutHandler := handlers.NewCheckoutHandler(carts, checkouts, vendorQueries, orderQueries, qrService, media,
		handlers.CheckoutOptions{TaxRate: cfg.TaxRate, CardPrice: cfg.CardPrice}, logger)
	productHandler := handlers.NewProductHandler(productQueries, logger)
	wishlistHandler := handlers.NewWishlistHandler(wishlist.NewStore(redisClient, cfg.WishlistKey, logger), logger)
	orderQRHandler := handlers.NewOrderQRHandler(qrService, orderQueries, media, logger)
	vendorHandler := handlers.NewVendorHandler(vendorQueries, cfg.JWTSecret)
	settingsHandler := handlers.NewSettingsHandler(maintenance, settingsQueries, logger)

	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20

	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.TrustedProxyHeaders())

	// Server functions are called straight from the app with their own CORS
	// rules, so they sit outside the session and maintenance middleware.
	apiCORS := cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/functions/") {
			c.Next()
			return
		}
		apiCORS(c)
	})

	functions := r.Group("/functions/v1", middleware.FunctionCORS())
	{
		functions.POST("/create-order-qr", orderQRHandler.CreateOrderQR)
		functions.OPTIONS("/create-order-qr", orderQRHandler.CreateOrderQR)
	}

	r.GET("/health", middleware.HealthCheck)

	api := r.Group("/api")
	api.Use(middleware.MaintenanceMiddleware(maintenance.Enabled))

	api.GET("/maintenance-status", settingsHandler.GetMaintenanceStatus)
	api.GET("/products/:id/price", productHandler.GetProductPrice)
	api.GET("/orders/:id/qr", orderQRHandler.GetOrderQR)

	// Vendor routes
	api.POST("/vendor/login", vendorHandler.Login)
	vendor := api.Group("/vendor")
	vendor.Use(middleware.VendorAuthMiddleware(cfg.JWTSecret))
	{
		vendor.GET("/orders/:id/qr", orderQRHandler.GetVendorOrderQR)
		vendor.GET("/settings", settingsHandler.GetSettings)
		vendor.PUT("/maintenance", settingsHandler.UpdateMaintenanceMode)
	}

	// Buyer routes (public but require session)
	buyer := api.Group("")
	buyer.Use(sessions.Middleware())

	cartRoutes := buyer.Group("/cart")
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.POST("/add", cartHandler.AddToCart)
		cartRoutes.PUT("/update/:id", cartHandler.UpdateCartItem)
		cartRoutes.DELETE("/remove/:id", cartHandler.RemoveFromCart)
		cartRoutes.POST("/clear", cartHandler.ClearCart)
		cartRoutes.GET("/count", cartHandler.GetCartCount)
	}

	checkoutRoutes := buyer.Group("/checkout")
	{
		checkoutRoutes.GET("", checkoutHandler.GetCheckout)
		checkoutRoutes.PUT("/card", checkoutHandler.SelectCard)
		checkoutRoutes.PUT("/recipient", checkoutHandler.SetRecipient)
		checkoutRoutes.PUT("/memory", checkoutHandler.AttachMemory)
		checkoutRoutes.POST("/memory/upload", checkoutHandler.UploadMemory)
		checkoutRoutes.DELETE("/memory", checkoutHandler.ClearMemory)
		checkoutRoutes.PUT("/payment", checkoutHandler.SetPayment)
		checkoutRoutes.POST("/advance", checkoutHandler.Advance)
		checkoutRoutes.POST("/back", checkoutHandler.Back)
		checkoutRoutes.POST("/reset", checkoutHandler.Reset)
		checkoutRoutes.GET("/summary", checkoutHandler.GetSummary)
		checkoutRoutes.POST("/complete", checkoutHandler.Complete)
	}
	buyer.GET("/orders", checkoutHandler.ListOrders)

	wishlistRoutes := buyer.Group("/wishlist")
	{
		wishlistRoutes.GET("", wishlistHandler.GetWishlist)
		wishlistRoutes.DELETE("", wishlistHandler.ClearWishlist)
		wishlistRoutes.GET("/:productId", wishlistHandler.CheckWishlist)
		wishlistRoutes.POST("/:productId", wishlistHandler.ToggleWishlist)
		wishlistRoutes.DELETE("/:productId", wishlistHandler.RemoveFromWishlist)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
		// memory uploads can be large
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}
