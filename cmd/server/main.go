package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/Siddharthbgp/ride-hailing-app/internal/app"
	"github.com/Siddharthbgp/ride-hailing-app/internal/config"
	"github.com/Siddharthbgp/ride-hailing-app/internal/handler"
	internalRedis "github.com/Siddharthbgp/ride-hailing-app/internal/redis"
	"github.com/Siddharthbgp/ride-hailing-app/internal/repository/postgres"
	"github.com/Siddharthbgp/ride-hailing-app/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database driver can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	server := wireServer(db, redisClient, nrApp, cfg)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Redis-backed stores.
	demandLedger := internalRedis.NewDemandLedger(redisClient)
	locationStore := internalRedis.NewLocationStore(redisClient)
	broadcaster := internalRedis.NewBroadcaster(redisClient)

	// Repositories.
	rideRepo := postgres.NewRideRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	receiptRepo := postgres.NewReceiptRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	transactor := postgres.NewTransactor(db)

	// Services.
	pricingService := service.NewPricingService(demandLedger)
	receiptService := service.NewReceiptService(receiptRepo)
	dispatchService := service.NewDispatchService(transactor, demandLedger, broadcaster)
	rideService := service.NewRideService(rideRepo, driverRepo, pricingService, receiptService, demandLedger, broadcaster)
	ratingService := service.NewRatingService(transactor, ratingRepo)
	driverService := service.NewDriverService(locationStore, driverRepo, demandLedger, broadcaster)
	paymentService := service.NewPaymentService(receiptService, service.NewMockPSP())

	// Handlers.
	rideHandler := handler.NewRideHandler(rideService, dispatchService, receiptService)
	driverHandler := handler.NewDriverHandler(driverService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	router := app.NewRouter(app.RouterDeps{
		RideHandler:    rideHandler,
		DriverHandler:  driverHandler,
		RatingHandler:  ratingHandler,
		PaymentHandler: paymentHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
