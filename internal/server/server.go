package server

import (
	"context"
	"net/http"

	"passhub/internal/auth"
	"passhub/internal/checkout"
	"passhub/internal/config"
	"passhub/internal/email"
	"passhub/internal/logger"
	"passhub/internal/order"
	"passhub/internal/pass"
	"passhub/internal/product"
	"passhub/internal/subscription"
	"passhub/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	emitter := checkout.NewEmitter()
	subscribeEmailNotifications(emitter, db, emailService)

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	productHandler := product.NewHandler(db)
	passHandler := pass.NewHandler(db)
	subscriptionHandler := subscription.NewHandler(db)
	orderHandler := order.NewHandler(db)
	checkoutHandler := checkout.NewHandler(db, emitter)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/products", productHandler.ListProducts)
		protected.GET("/products/:productID", productHandler.GetProduct)
		protected.GET("/products/:productID/passes", passHandler.ListPassesForProduct)
		protected.GET("/products/:productID/instruments", checkoutHandler.GetInstruments)
		protected.POST("/products/:productID/checkout", checkoutHandler.Checkout)
		protected.POST("/orders/:orderID/confirm-payment", checkoutHandler.ConfirmPayment)
		protected.GET("/orders", orderHandler.ListMyOrders)
		protected.GET("/passes", passHandler.ListMyPasses)
		protected.GET("/plans", subscriptionHandler.ListPlans)
		protected.POST("/subscriptions", subscriptionHandler.Create)
		protected.GET("/subscriptions", subscriptionHandler.ListMy)
	}

	creatorMiddleware := auth.RequireRole("creator")
	creator := router.Group("/creator")
	creator.Use(authMiddleware, creatorMiddleware)
	{
		creator.POST("/products", productHandler.CreateProduct)
		creator.GET("/products", productHandler.ListMyProducts)
		creator.POST("/passes", passHandler.CreatePass)
		creator.GET("/passes", passHandler.ListCreatorPasses)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/users/:userID/approve", userHandler.ApproveUser)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

// subscribeEmailNotifications forwards completed checkouts to the email queue.
// The checkout engine stays unaware of email entirely; failures here only log.
func subscribeEmailNotifications(emitter *checkout.Emitter, db *sqlx.DB, emailService *email.Service) {
	userRepo := user.NewRepository(db)

	emitter.Subscribe(func(ev checkout.Event) {
		if ev.State != checkout.StateCompleted || ev.Product == nil {
			return
		}

		ctx := context.Background()
		u, err := userRepo.FindByID(ctx, ev.UserID)
		if err != nil {
			logger.Error("purchase email skipped, user lookup failed", "user_id", ev.UserID, "error", err)
			return
		}

		if err := emailService.SendPurchaseConfirmation(ctx, u.Email, u.Name, ev.Product.Title, ev.Product.Kind.Noun()); err != nil {
			logger.Error("purchase email not queued", "user_id", ev.UserID, "error", err)
		}
	})
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
