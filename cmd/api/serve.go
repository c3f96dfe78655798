package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "storefront/api/swagger" // swagger docs
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the back-office websocket",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("migrate", true, "auto-migrate the schema before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	db, err := database.NewConnection(cfg.DB.DSN(), log)
	if err != nil {
		return err
	}
	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := database.Migrate(db); err != nil {
			// Keep serving; the schema may already be managed elsewhere.
			log.Warn("auto-migrate failed", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub(log.Named("ws"))
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newRouter(cfg, db, hub, log),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		log.Info("server listening", zap.String("addr", server.Addr), zap.String("mode", gin.Mode()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info("server stopped gracefully")
		return nil
	})

	return g.Wait()
}

// newRouter wires repositories, services and handlers (Repository -> Service -> Handler).
func newRouter(cfg *config.Config, db *gorm.DB, hub *websocket.Hub, log *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	txManager := repository.NewTransactionManager(db)
	productRepo := repository.NewProductRepository(db)
	contactRepo := repository.NewContactRepository(db)
	paymentTermRepo := repository.NewPaymentTermRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	inventoryTxRepo := repository.NewInventoryTxRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	offerRepo := repository.NewDiscountOfferRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	numbers := service.NewNumberGenerator(repository.NewSequenceRepository(db))

	productService := service.NewProductService(productRepo, inventoryTxRepo, auditRepo, txManager, hub, log.Named("product"))
	contactService := service.NewContactService(contactRepo, paymentTermRepo, auditRepo, txManager)
	paymentTermService := service.NewPaymentTermService(paymentTermRepo, auditRepo, txManager)
	orderService := service.NewOrderService(orderRepo, productRepo, contactRepo, couponRepo, inventoryTxRepo, auditRepo, numbers, txManager, log.Named("order"))
	invoiceService := service.NewInvoiceService(invoiceRepo, orderRepo, contactRepo, paymentTermRepo, paymentRepo, auditRepo, numbers, txManager, hub, log.Named("invoice"))
	paymentService := service.NewPaymentService(paymentRepo, invoiceRepo, orderRepo, auditRepo, txManager, log.Named("payment"))
	couponService := service.NewCouponService(couponRepo, offerRepo, contactRepo, auditRepo, txManager, log.Named("coupon"))
	auditService := service.NewAuditService(auditRepo)

	auth := middleware.NewAuthenticator(cfg.JWTSecret)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log.Named("http")))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(hub, auth, c)
	})

	api := router.Group("")
	handler.NewProductHandler(productService, auth).RegisterRoutes(api)
	handler.NewContactHandler(contactService, paymentTermService, auth).RegisterRoutes(api)
	handler.NewOrderHandler(orderService, auth).RegisterRoutes(api)
	handler.NewInvoiceHandler(invoiceService, paymentService, auth).RegisterRoutes(api)
	handler.NewCouponHandler(couponService, auth).RegisterRoutes(api)
	handler.NewAuditHandler(auditService, auth).RegisterRoutes(api)

	return router
}
