package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/freefirelenden-cell/freefirelenden-sub000/controllers"
	"github.com/freefirelenden-cell/freefirelenden-sub000/database"
	"github.com/freefirelenden-cell/freefirelenden-sub000/kafka"
	"github.com/freefirelenden-cell/freefirelenden-sub000/logger"
	"github.com/freefirelenden-cell/freefirelenden-sub000/repository"
	"github.com/freefirelenden-cell/freefirelenden-sub000/routes"
	"github.com/freefirelenden-cell/freefirelenden-sub000/sender"
	"github.com/freefirelenden-cell/freefirelenden-sub000/services"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()
	log := logger.Log

	if err := database.ConnectWithConfig(cfg.MongoURL, cfg.MongoDB); err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer database.Close()

	// Repositories
	listingRepo := repository.NewMongoListingRepo(database.DB)
	sellerRepo := repository.NewMongoSellerRepo(database.DB)
	requestRepo := repository.NewMongoSellerRequestRepo(database.DB)
	orderRepo := repository.NewMongoOrderRepo(database.DB)
	paymentRepo := repository.NewMongoPaymentRepo(database.DB)
	userRepo := repository.NewMongoUserRepo(database.DB)

	// Order events are best-effort; without brokers configured the
	// services simply skip publishing.
	var producer kafka.ProducerAPI
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewProducer(cfg.KafkaBrokers, cfg.OrderTopic, log)
		defer kp.Close()
		producer = kp
	}

	var emailSender sender.EmailSender
	if smtpSender, err := sender.NewSMTPSender(); err != nil {
		log.Warn("SMTP not configured, emails will be logged only", zap.Error(err))
		emailSender = &sender.LogSender{Logger: log}
	} else {
		emailSender = smtpSender
	}
	dispatcher := sender.NewDispatcher(emailSender, 256, log)
	defer dispatcher.Close()

	// Services
	purchaseService := services.NewPurchaseService(
		listingRepo, sellerRepo, userRepo, paymentRepo, orderRepo, dispatcher, producer, log)
	orderService := services.NewOrderService(orderRepo, paymentRepo, sellerRepo, producer, log)
	onboardingService := services.NewOnboardingService(requestRepo, sellerRepo, userRepo, log)
	listingService := services.NewListingService(listingRepo, sellerRepo, log)

	// Controllers
	purchaseController := controllers.NewPurchaseController(purchaseService)
	orderController := controllers.NewOrderController(orderService)
	sellerController := controllers.NewSellerController(onboardingService)
	listingController := controllers.NewListingController(listingService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	routes.Register(r, []byte(cfg.JWTSecret),
		purchaseController, orderController, sellerController, listingController)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Marketplace service listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
}
