package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/Siddharthbgp/ride-hailing-app/internal/handler"
	"github.com/Siddharthbgp/ride-hailing-app/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler    *handler.RideHandler
	DriverHandler  *handler.DriverHandler
	RatingHandler  *handler.RatingHandler
	PaymentHandler *handler.PaymentHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Ride lifecycle routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.CreateRide)
			rides.GET("", deps.RideHandler.GetAll)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("/:id/accept", deps.RideHandler.AcceptRide)
			rides.POST("/:id/start", deps.RideHandler.StartTrip)
			rides.POST("/:id/pause", deps.RideHandler.PauseTrip)
			rides.POST("/:id/resume", deps.RideHandler.ResumeTrip)
			rides.POST("/:id/end", deps.RideHandler.EndTrip)
			rides.POST("/:id/cancel", deps.RideHandler.CancelRide)
			rides.GET("/:id/receipt", deps.RideHandler.GetReceipt)
			rides.POST("/:id/rating", deps.RatingHandler.SubmitRating)
			rides.GET("/:id/rating", deps.RatingHandler.GetRating)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.GET("/:id", deps.DriverHandler.GetDriver)
			drivers.POST("/:id/location", deps.DriverHandler.UpdateLocation)
			drivers.POST("/:id/offline", deps.DriverHandler.SetOffline)
			drivers.GET("/:id/ratings", deps.RatingHandler.GetDriverRatings)
		}

		// Payment routes.
		payments := v1.Group("/payments")
		{
			payments.POST("/process", deps.PaymentHandler.ProcessPayment)
		}
	}

	return router
}
