package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gharfindr/rental-api/internal/api/handler"
	"github.com/gharfindr/rental-api/internal/api/middleware"
	"github.com/gharfindr/rental-api/internal/core/domain"
	"github.com/gharfindr/rental-api/internal/core/ports"
	"github.com/gharfindr/rental-api/internal/core/service"
	"github.com/gharfindr/rental-api/internal/infrastructure/config"
	mongodb "github.com/gharfindr/rental-api/internal/infrastructure/db/mongo"
	redisdb "github.com/gharfindr/rental-api/internal/infrastructure/db/redis"
	"github.com/gharfindr/rental-api/internal/infrastructure/payment"
	"github.com/gharfindr/rental-api/internal/infrastructure/storage"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The mailer is injected so the caller controls its lifecycle (the async
// dispatcher is started and drained in main).
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	cfg *config.Config,
	mailer ports.Mailer,
	images *storage.DiskStore,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("gharfindr"))

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(db)
	roomRepo := mongodb.NewRoomRepository(db)
	roommateRepo := mongodb.NewRoommateRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)

	sessions := redisdb.NewSessionStore(rdb, cfg.Security.SessionTTL)
	gateway := payment.NewEsewaGateway(payment.Config{
		MerchantCode: cfg.Gateway.MerchantCode,
		SecretKey:    cfg.Gateway.SecretKey,
		CheckoutURL:  cfg.Gateway.CheckoutURL,
		ReturnURL:    cfg.Gateway.ReturnURL,
	})

	policy := service.SecurityPolicy{
		MaxFailedAttempts: cfg.Security.MaxFailedAttempts,
		LockDuration:      cfg.Security.LockDuration,
		CodeTTL:           cfg.Security.CodeTTL,
		ResetTokenTTL:     cfg.Security.ResetTokenTTL,
		TokenTTL:          cfg.Security.TokenTTL,
	}

	accountService := service.NewAccountService(accountRepo, sessions, mailer, policy, cfg.JWTSecret, log)
	roomService := service.NewRoomService(roomRepo, accountRepo, log)
	roommateService := service.NewRoommateService(roommateRepo, accountRepo, log)
	wishlistService := service.NewWishlistService(accountRepo, roomRepo, log)
	paymentService := service.NewPaymentService(orderRepo, roomRepo, accountRepo, gateway, log)

	authHandler := handler.NewAuthHandler(accountService, images)
	accountHandler := handler.NewAccountHandler(accountService)
	roomHandler := handler.NewRoomHandler(roomService, images)
	roommateHandler := handler.NewRoommateHandler(roommateService, images)
	wishlistHandler := handler.NewWishlistHandler(wishlistService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	authRequired := middleware.Auth(cfg.JWTSecret)
	sessionTracked := middleware.Session(sessions)
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/verify-email", authHandler.VerifyEmail)
	e.POST("/auth/resend-verification", authHandler.ResendVerification)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authRequired, sessionTracked)
	e.POST("/auth/profile-image", authHandler.UploadProfileImage, authRequired, sessionTracked)
	e.POST("/auth/forgot-password", authHandler.ForgotPassword)
	e.POST("/auth/reset-password", authHandler.ResetPassword)

	// --- Room listings ---
	// Detail pages are public; writes and the owner-scoped list need a token.
	e.GET("/rooms/:id", roomHandler.Get)
	rooms := e.Group("/rooms", authRequired, sessionTracked)
	rooms.POST("", roomHandler.Create)
	rooms.GET("", roomHandler.List)
	rooms.PUT("/:id", roomHandler.Update)
	rooms.DELETE("/:id", roomHandler.Delete)

	// --- Roommate listings ---
	e.GET("/roommates/:id", roommateHandler.Get)
	roommates := e.Group("/roommates", authRequired, sessionTracked)
	roommates.POST("", roommateHandler.Create)
	roommates.GET("", roommateHandler.List)
	roommates.PUT("/:id", roommateHandler.Update)
	roommates.DELETE("/:id", roommateHandler.Delete)

	// --- Wishlist ---
	wishlist := e.Group("/wishlist", authRequired, sessionTracked)
	wishlist.GET("", wishlistHandler.List)
	wishlist.POST("/:roomID", wishlistHandler.Add)
	wishlist.DELETE("/:roomID", wishlistHandler.Remove)

	// --- Payments ---
	e.POST("/payments/orders/:roomID", paymentHandler.InitiateOrder, authRequired, sessionTracked)
	// Gateway callback carries its own HMAC signature instead of a bearer token.
	e.POST("/payments/verify", paymentHandler.Verify)

	// --- Admin ---
	accounts := e.Group("/accounts", authRequired, adminOnly)
	accounts.GET("/:id/stats", accountHandler.Stats)
	accounts.POST("/:id/unlock", accountHandler.Unlock)

	// --- Uploaded listing images ---
	e.Static("/uploads", images.Dir())

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	return e
}
