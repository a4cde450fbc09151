package mockapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tripdesk/internal/mockapi/docs"
	"tripdesk/internal/shared/config"
	"tripdesk/internal/shared/middleware"
	"tripdesk/pkg/logger"
	"tripdesk/pkg/ratelimit"
)

// HealthChecker reports backing store health
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Router holds all route dependencies
type Router struct {
	config      *config.Config
	controller  *Controller
	health      HealthChecker
	rateLimiter *ratelimit.RateLimiter
	logger      *logger.Logger
}

// NewRouter creates a new router instance. health and rateLimiter may be nil.
func NewRouter(cfg *config.Config, svc Service, health HealthChecker, rateLimiter *ratelimit.RateLimiter, log *logger.Logger) *Router {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Router{
		config:      cfg,
		controller:  NewController(svc, log),
		health:      health,
		rateLimiter: rateLimiter,
		logger:      log,
	}
}

// Engine builds the gin engine with middleware and every route
func (r *Router) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestLogger(r.logger), gin.Recovery())
	engine.Use(middleware.CORS())

	if r.rateLimiter != nil {
		engine.Use(ratelimit.Middleware(r.rateLimiter))
	}

	r.SetupRoutes(engine)
	return engine
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.GET("/health", r.healthHandler)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(docs.SwaggerInfo.InstanceName())))

	api := engine.Group("/api")
	api.POST("/auth/login", r.controller.Login)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(r.config.MockAPI.JWTSecret, r.logger))
	{
		protected.GET("/flights/search", r.controller.SearchFlights)
		protected.GET("/hotel-search", r.controller.SearchHotels)
		protected.GET("/bookings", r.controller.ListBookings)
		protected.POST("/flight/bookings", r.controller.BookFlight)
		protected.POST("/hotel/bookings", r.controller.BookHotel)
	}
}

func (r *Router) healthHandler(c *gin.Context) {
	if r.health != nil {
		if err := r.health.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "tripdesk-mockapi",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "tripdesk-mockapi",
	})
}
