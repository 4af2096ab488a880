package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/renaldyr/gigtix/config"
	"github.com/renaldyr/gigtix/internal/handlers"
	"github.com/renaldyr/gigtix/internal/middleware"
	"github.com/renaldyr/gigtix/internal/payment"
	"github.com/renaldyr/gigtix/internal/repository"
	"github.com/renaldyr/gigtix/internal/service"
	"github.com/renaldyr/gigtix/pkg/logger"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	checkoutCfg, err := config.LoadCheckoutConfig()
	if err != nil {
		return fmt.Errorf("failed to load checkout config: %v", err)
	}

	xenditCfg, err := config.LoadXenditConfig()
	if err != nil {
		return fmt.Errorf("failed to load xendit config: %v", err)
	}
	xenditClient, err := config.InitXenditClient(xenditCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize xendit client: %v", err)
	}
	gateway := payment.NewXenditGateway(xenditClient)

	eventRepo := repository.NewEventRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	ticketTypeRepo := repository.NewTicketTypeRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	shortfallRepo := repository.NewShortfallRepository(db)
	txManager := repository.NewTxManager(db)

	checkoutSvc := service.NewCheckoutService(
		eventRepo,
		orderRepo,
		userRepo,
		gateway,
		checkoutCfg,
		logger.WithComponent("checkout"),
	)
	issuerSvc := service.NewIssuerService(
		txManager,
		ticketTypeRepo,
		ticketRepo,
		shortfallRepo,
		logger.WithComponent("issuer"),
	)
	webhookSvc := service.NewWebhookService(orderRepo, issuerSvc, logger.WithComponent("webhook"))

	checkoutHandler := handlers.NewCheckoutHandler(checkoutSvc)
	webhookHandler := handlers.NewWebhookHandler(xenditCfg.CallbackToken, webhookSvc, logger.WithComponent("webhook"))

	r := gin.Default()

	setupRoutes(r, db, checkoutHandler, webhookHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, checkout *handlers.CheckoutHandler, webhook *handlers.WebhookHandler) {
	r.Use(middleware.DatabaseMiddleware(db))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		public.POST("/webhooks/payment", webhook.HandleInvoiceCallback)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)

		protected.POST("/checkout", checkout.CreateCheckoutSession)

		orderProtected := protected.Group("/orders")
		{
			orderProtected.GET("", handlers.ListMyOrders)
			orderProtected.GET("/:id", handlers.GetOrder)
		}

		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.POST("/:id/publish", handlers.PublishEvent)
			eventProtected.POST("/:id/cancel", handlers.CancelEvent)
			eventProtected.POST("/:id/archive", handlers.ArchiveEvent)
			eventProtected.POST("/:id/banner", handlers.UploadEventBanner)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
		}

		ticketTypeProtected := protected.Group("/ticket-types")
		{
			ticketTypeProtected.POST("", handlers.CreateTicketType)
			ticketTypeProtected.GET("/:id", handlers.GetTicketType)
			ticketTypeProtected.PUT("/:id", handlers.UpdateTicketType)
			ticketTypeProtected.POST("/:id/quantity", handlers.AddTicketTypeQuantity)
			ticketTypeProtected.DELETE("/:id", handlers.DeleteTicketType)
		}

		ticketProtected := protected.Group("/tickets")
		{
			ticketProtected.GET("/:ticketId/qr", handlers.GenerateTicketQR)
			ticketProtected.POST("/validate", handlers.ValidateTicket)
		}
	}
}
