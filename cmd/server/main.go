package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/parapharma/shop/internal/auth"
	"github.com/parapharma/shop/internal/config"
	"github.com/parapharma/shop/internal/db"
	"github.com/parapharma/shop/internal/es"
	"github.com/parapharma/shop/internal/events"
	"github.com/parapharma/shop/internal/httpserver"
	"github.com/parapharma/shop/internal/logging"
	"github.com/parapharma/shop/internal/mailer"
	"github.com/parapharma/shop/internal/repo"
	"github.com/parapharma/shop/internal/service"
	"github.com/parapharma/shop/internal/stripe"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(logging.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	esClient, err := es.NewClient(cfg)
	if err != nil {
		logger.Warn("elasticsearch unavailable, search disabled", "error", err)
		esClient = nil
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
	} else {
		logger.Warn("no kafka brokers configured, events disabled")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	gormRepo := repo.New(database)
	stripeClient := stripe.NewClient(cfg.StripeSecretKey, cfg.StripeAPIURL)
	smtpMailer := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)

	userSvc := &service.UserService{
		Repo:      gormRepo,
		Stripe:    stripeClient,
		Mailer:    smtpMailer,
		JWTSecret: cfg.JWTSecret,
		BaseURL:   cfg.BaseURL,
	}
	catalogSvc := &service.CatalogService{Repo: gormRepo}
	cartSvc := &service.CartService{Repo: gormRepo}
	stockSvc := &service.StockService{Repo: gormRepo}
	orderSvc := &service.OrderService{Repo: gormRepo, Stock: stockSvc}
	paymentSvc := &service.PaymentService{Repo: gormRepo, Stripe: stripeClient}

	gate := &auth.Gate{DB: database, Secret: cfg.JWTSecret}

	httpserver.Register(e, &httpserver.Deps{
		UserHandler:     &httpserver.UserHTTP{Svc: userSvc, Producer: producer},
		ProductHandler:  &httpserver.ProductHTTP{Svc: catalogSvc, ES: esClient, Producer: producer, UploadDir: cfg.UploadDir},
		CategoryHandler: &httpserver.CategoryHTTP{Svc: catalogSvc},
		CartHandler:     &httpserver.CartHTTP{Svc: cartSvc},
		StockHandler:    &httpserver.StockHTTP{Svc: stockSvc},
		OrderHandler:    &httpserver.OrderHTTP{Svc: orderSvc, Producer: producer},
		PaymentHandler:  &httpserver.PaymentHTTP{Svc: paymentSvc},
		AddressHandler:  &httpserver.AddressHTTP{Svc: userSvc},
		Gate:            gate,
		UploadDir:       cfg.UploadDir,
	})

	go func() {
		addr := ":" + strconv.Itoa(cfg.ServerPort)
		logger.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	sqlDB, err := database.DB()
	if err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}
