package server

import (
	"context"
	"net/http"

	"gympass/internal/auth"
	"gympass/internal/clock"
	"gympass/internal/config"
	"gympass/internal/email"
	"gympass/internal/offer"
	"gympass/internal/pass"
	"gympass/internal/user"
	"gympass/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service, clk clock.Clock) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	userRepo := user.NewRepository(db)
	userHandler := user.NewHandler(user.NewService(userRepo, cfg.JWTSecret))

	offerRepo := offer.NewRepository(db)
	offerHandler := offer.NewHandler(offerRepo)

	walletRepo := wallet.NewRepository(db)
	walletHandler := wallet.NewHandler(walletRepo)

	passRepo := pass.NewRepository(db)
	passService := pass.NewService(passRepo, offerRepo, userRepo, walletRepo, emailService, clk)
	passHandler := pass.NewHandler(passService)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/offers", offerHandler.List)
		protected.POST("/passes", passHandler.Purchase)
		protected.GET("/passes", passHandler.ListMy)
		protected.GET("/passes/latest", passHandler.Latest)
		protected.GET("/passes/:passID/validity", passHandler.Validity)
		protected.POST("/passes/:passID/suspend", passHandler.Suspend)
		protected.POST("/passes/:passID/checkin", passHandler.CheckIn)
		protected.DELETE("/passes/:passID", passHandler.Delete)
		protected.GET("/wallet", walletHandler.GetBalance)
		protected.POST("/wallet/topup", walletHandler.TopUp)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole("admin"))
	{
		admin.POST("/offers", offerHandler.Create)
		admin.GET("/offers", offerHandler.List)
		admin.GET("/passes", passHandler.ListAll)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
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
