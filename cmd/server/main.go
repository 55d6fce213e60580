package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jungle-backend/config"
	"jungle-backend/internal/api"
	"jungle-backend/internal/auth"
	"jungle-backend/internal/broker"
	"jungle-backend/internal/gateway"
	"jungle-backend/internal/redisclient"
	"jungle-backend/internal/service"
	"jungle-backend/internal/store"
	"jungle-backend/internal/util"
	"jungle-backend/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting jungle backend")

	tp, err := util.InitTracer("jungle-backend", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer connectCancel()

	db, err := store.NewStore(connectCtx, cfg.Mongo.URL, cfg.Mongo.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		db.Close(ctx)
	}()
	log.Println("MongoDB connected")

	if err := db.CreateIndexes(connectCtx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	tokenIssuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	stripeClient := gateway.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)

	authService := service.NewAuthService(db, tokenIssuer)
	catalogService := service.NewCatalogService(db, redisClient)
	cartService := service.NewCartService(db)
	orderService := service.NewOrderService(db, eventPublisher, service.Pricing{
		FreeShippingThreshold: cfg.Business.FreeShippingThreshold,
		ShippingFee:           cfg.Business.ShippingFee,
	})
	paymentService := service.NewPaymentService(db, stripeClient, eventPublisher, cfg.Business.Currency)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	expiryWorker := worker.NewExpiryWorker(
		db,
		eventPublisher,
		time.Duration(cfg.Business.PendingTxTTLMinutes)*time.Minute,
		time.Duration(cfg.Business.ExpirySweepSeconds)*time.Second,
	)
	go expiryWorker.Start(workerCtx)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(authService, catalogService, cartService, orderService, paymentService, cfg.Server.CORSOrigins)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()

	log.Println("Server exited")
}
