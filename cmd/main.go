package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"menuqr-service/internal/handler"
	"menuqr-service/internal/middleware"
	"menuqr-service/internal/model"
	"menuqr-service/internal/otp"
	"menuqr-service/pkg/config"
	"menuqr-service/pkg/database"
	"menuqr-service/pkg/jwtutil"
	"menuqr-service/pkg/logger"
	"menuqr-service/pkg/mailer"
	"menuqr-service/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables.
	// This fails if the JWT signing key is absent: the service must not
	// come up in a state where token verification could be skipped.
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting menu publishing service...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.Open(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close(db)
	if err := database.Migrate(db, &model.Vendor{}, &model.MenuItem{}, &model.AnalyticsEvent{}); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtUtil, err := jwtutil.New(&cfg.JWT)
	if err != nil {
		log.Fatal("Failed to initialize JWT utility", zap.Error(err))
	}
	log.Info("JWT utility initialized")

	// Build the OTP issuer and handlers
	smtpMailer := mailer.NewSMTPMailer(&cfg.SMTP)
	issuer := otp.NewIssuer(db, smtpMailer, cfg.OTP.TTL)

	authHandler := handler.NewAuthHandler(issuer, jwtUtil, cfg.Server.Env)
	vendorHandler := handler.NewVendorHandler(db)
	menuHandler := handler.NewMenuHandler(db)
	publicHandler := handler.NewPublicHandler(db, cfg.Public.BaseURL)
	analyticsHandler := handler.NewAnalyticsHandler(db)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/send-otp", authHandler.SendOTP)
	auth.POST("/verify-otp", authHandler.VerifyOTP)

	// Customer-facing routes - anonymous
	public := e.Group("/public")
	public.GET("/menu", publicHandler.GetMenu)
	public.GET("/qr", publicHandler.GetQR)
	public.POST("/analytics/track", analyticsHandler.Track)

	// API routes - all require a valid session token
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(jwtUtil))

	vendor := api.Group("/vendor")
	vendor.GET("/profile", vendorHandler.GetProfile)
	vendor.PUT("/profile", vendorHandler.UpdateProfile)
	vendor.POST("/restaurant-name", vendorHandler.UpdateRestaurantName)
	vendor.GET("/menu", menuHandler.ListMenu)
	vendor.POST("/menu", menuHandler.AddItem)
	vendor.PUT("/menu/:id", menuHandler.UpdateItem)
	vendor.DELETE("/menu/:id", menuHandler.DeleteItem)
	vendor.GET("/analytics", analyticsHandler.Summary)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
