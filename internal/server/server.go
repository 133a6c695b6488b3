package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/farellandr/mealpass/config"
	"github.com/farellandr/mealpass/internal/catalog"
	"github.com/farellandr/mealpass/internal/discount"
	"github.com/farellandr/mealpass/internal/gateway"
	"github.com/farellandr/mealpass/internal/handlers"
	"github.com/farellandr/mealpass/internal/ledger"
	"github.com/farellandr/mealpass/internal/logger"
	"github.com/farellandr/mealpass/internal/middleware"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/notify"
	"github.com/farellandr/mealpass/internal/receipt"
	"github.com/farellandr/mealpass/internal/reservation"
	"github.com/farellandr/mealpass/internal/store"
	"github.com/farellandr/mealpass/internal/users"
)

// Deps are the pieces NewHandler wires together. GatewayOptions and
// ReservationOptions let tests make the simulator deterministic.
type Deps struct {
	Store              store.Store
	Locker             store.Locker
	Logger             *logger.Logger
	JWTSecret          string
	// QRSecret signs pickup codes; JWTSecret is used when empty.
	QRSecret           string
	RefundPolicy       reservation.RefundPolicy
	GatewayOptions     []gateway.Option
	ReservationOptions []reservation.Option
}

func NewHandler(ctx context.Context, d Deps) (*handlers.Handler, error) {
	qrSecret := d.QRSecret
	if qrSecret == "" {
		qrSecret = d.JWTSecret
	}
	cat := catalog.NewProvider(d.Store)
	if err := cat.Seed(ctx); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	hub := notify.NewHub(d.Logger)
	notifications := notify.NewService(d.Store, d.Locker, hub, d.Logger)
	sim := gateway.New(d.Store, d.Logger, d.GatewayOptions...)
	discounts := discount.NewEngine()
	wallet := ledger.New(d.Store, d.Locker, sim, notifications, d.Logger)
	manager := reservation.NewManager(reservation.Deps{
		Store:     d.Store,
		Locker:    d.Locker,
		Catalog:   cat,
		Discounts: discounts,
		Payments:  sim,
		Ledger:    wallet,
		Notifier:  notifications,
		Logger:    d.Logger,
		Refund:    d.RefundPolicy,
	}, d.ReservationOptions...)

	return &handlers.Handler{
		Users:         users.NewService(d.Store, d.Locker, d.JWTSecret, d.Logger),
		Catalog:       cat,
		Discounts:     discounts,
		Gateway:       sim,
		Ledger:        wallet,
		Reservations:  manager,
		Notifications: notifications,
		Hub:           hub,
		Receipts:      receipt.NewSigner(qrSecret),
		Log:           d.Logger,
	}, nil
}

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stdout})
	refund, err := reservation.ParseRefundPolicy(cfg.RefundPolicy)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, locker, err := config.InitStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %v", err)
	}
	defer st.Close()

	h, err := NewHandler(ctx, Deps{
		Store:        st,
		Locker:       locker,
		Logger:       log,
		JWTSecret:    cfg.JWTSecret,
		QRSecret:     cfg.QRSecret,
		RefundPolicy: refund,
	})
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	setupRoutes(r, h, middleware.NewRateLimiter(cfg.RateLimitRPS, 5))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "port", cfg.Port, "store", cfg.StoreDriver, "refund_policy", refund)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupRoutes(r *gin.Engine, h *handlers.Handler, limiter *middleware.RateLimiter) {
	auth := middleware.JWTAuthMiddleware(h.Users)
	limit := limiter.Limit()

	public := r.Group("/v1")
	{
		public.POST("/register", limit, h.Register)
		public.POST("/login", limit, h.Login)
		public.GET("/foods", h.ListFoods)
		public.GET("/restaurants", h.ListRestaurants)
		public.GET("/gateways", h.ListGateways)
		public.GET("/gateways/:id", h.GetGateway)
		public.GET("/discounts/:code", h.GetDiscount)
		public.POST("/payments/validate", h.ValidatePayment)
	}

	protected := r.Group("/v1")
	protected.Use(auth)
	{
		protected.GET("/profile", h.GetProfile)
		protected.PUT("/settings/language", h.SetLanguage)
		protected.GET("/notification-preferences", h.GetNotificationPreferences)
		protected.PUT("/notification-preferences", h.UpdateNotificationPreferences)
		protected.GET("/notifications", h.ListNotifications)
		protected.POST("/notifications/:id/read", h.MarkNotificationRead)
		protected.GET("/ws", h.NotificationsWS)

		wallet := protected.Group("/wallet")
		{
			wallet.GET("", h.GetWallet)
			wallet.GET("/transactions", h.ListTransactions)
			wallet.POST("/recharge", limit, h.Recharge)
		}

		protected.GET("/schedule", h.GetSchedule)
		protected.GET("/payments/:id", h.GetPaymentStatus)

		reservations := protected.Group("/reservations")
		{
			reservations.GET("", h.ListReservations)
			reservations.PUT("/:date/:meal", h.SelectMeal)
			reservations.DELETE("/:date/:meal", h.CancelReservation)
			reservations.POST("/:date/:meal/confirm", h.ConfirmReservation)
			reservations.POST("/:date/:meal/discount", h.ApplyDiscount)
			reservations.POST("/:date/:meal/pay", limit, h.PayReservation)
			reservations.GET("/:date/:meal/qr", h.GetPickupQR)
			reservations.GET("/:date/:meal/receipt", h.GetReceipt)
		}
	}

	staff := r.Group("/v1/pickups")
	staff.Use(auth, middleware.RequireRole(models.RoleStaff))
	{
		staff.POST("/redeem", h.RedeemPickup)
	}
}
