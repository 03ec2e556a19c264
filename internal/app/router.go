package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"tawseel/internal/handler"
	"tawseel/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler      *handler.TripHandler
	RatingHandler    *handler.RatingHandler
	Verifier         middleware.TokenVerifier
	IdempotencyStore middleware.IdempotencyStore // nil disables Idempotency-Key handling
	NewRelicApp      *newrelic.Application
	Logger           *zap.Logger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(deps.Verifier))
	if deps.IdempotencyStore != nil {
		api.Use(middleware.IdempotencyMiddleware(deps.IdempotencyStore, deps.Logger))
	}
	{
		trips := api.Group("/trips")
		{
			trips.POST("/request", deps.TripHandler.RequestTrip)
			trips.POST("/search", deps.TripHandler.SearchTrips)
			trips.GET("/available", deps.TripHandler.ListAvailable)
			trips.PUT("/accept/:id", deps.TripHandler.AcceptTrip)
			trips.PUT("/complete/:id", deps.TripHandler.CompleteTrip)
			trips.PUT("/cancel/:id", deps.TripHandler.CancelTrip)
			trips.GET("/passenger/:id", deps.TripHandler.ListByPassenger)
			trips.GET("/driver/:id", deps.TripHandler.ListByDriver)
		}

		ratings := api.Group("/ratings")
		{
			ratings.POST("/passenger", deps.RatingHandler.RatePassenger)
			ratings.POST("/driver", deps.RatingHandler.RateDriver)
		}
	}

	return router
}
