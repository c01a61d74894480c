package server

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/disciplineos/core/internal/adapters/http"
	"github.com/disciplineos/core/internal/adapters/repository"
	"github.com/disciplineos/core/internal/application/services"
	"github.com/disciplineos/core/internal/infrastructure/config"
	"github.com/disciplineos/core/internal/infrastructure/database"
	"github.com/disciplineos/core/internal/infrastructure/logger"
)

// Server represents the HTTP server
type Server struct {
	echo       *echo.Echo
	config     *config.Config
	logger     *logger.Logger
	db         *database.DB
	DayService *services.DayService
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Initialize repositories
	recordRepo := repository.NewDailyRecordRepository(db.DB)
	penaltyRepo := repository.NewPenaltyRepository(db.DB)
	rewardRepo := repository.NewRewardRepository(db.DB)
	streakRepo := repository.NewStreakRepository(db.DB)
	circleRepo := repository.NewCircleRepository(db.DB)
	profileRepo := repository.NewProfileRepository(db.DB)

	// Initialize services
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	dayService := services.NewDayService(recordRepo, penaltyRepo, rewardRepo, streakRepo, rng, appLogger)
	penaltyService := services.NewPenaltyService(penaltyRepo, profileRepo, circleRepo, appLogger)
	rewardService := services.NewRewardService(rewardRepo, appLogger)
	streakService := services.NewStreakService(streakRepo, recordRepo, appLogger)
	circleService := services.NewCircleService(circleRepo, profileRepo, recordRepo, streakRepo, penaltyRepo, rng, appLogger)
	analyticsService := services.NewAnalyticsService(recordRepo, profileRepo, circleRepo, appLogger)
	profileService := services.NewProfileService(profileRepo, appLogger)

	// Initialize handlers
	dayHandler := httpHandlers.NewDayHandler(dayService, appLogger)
	penaltyHandler := httpHandlers.NewPenaltyHandler(penaltyService, appLogger)
	rewardHandler := httpHandlers.NewRewardHandler(rewardService, appLogger)
	streakHandler := httpHandlers.NewStreakHandler(streakService, appLogger)
	circleHandler := httpHandlers.NewCircleHandler(circleService, appLogger)
	analyticsHandler := httpHandlers.NewAnalyticsHandler(analyticsService, appLogger)
	profileHandler := httpHandlers.NewProfileHandler(profileService, appLogger)
	catalogHandler := httpHandlers.NewCatalogHandler()

	server := &Server{
		echo:       e,
		config:     cfg,
		logger:     appLogger,
		db:         db,
		DayService: dayService,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes(dayHandler, penaltyHandler, rewardHandler, streakHandler, circleHandler, analyticsHandler, profileHandler, catalogHandler)

	// Setup metrics
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-User-ID"},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(dayHandler *httpHandlers.DayHandler, penaltyHandler *httpHandlers.PenaltyHandler, rewardHandler *httpHandlers.RewardHandler, streakHandler *httpHandlers.StreakHandler, circleHandler *httpHandlers.CircleHandler, analyticsHandler *httpHandlers.AnalyticsHandler, profileHandler *httpHandlers.ProfileHandler, catalogHandler *httpHandlers.CatalogHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Profile routes
	profileGroup := v1.Group("/profile")
	profileGroup.POST("", profileHandler.Register)
	profileGroup.GET("", profileHandler.Me)
	profileGroup.PUT("/settings", profileHandler.UpdateSettings)

	// Task catalog (static)
	catalogGroup := v1.Group("/catalog")
	catalogGroup.GET("", catalogHandler.List)
	catalogGroup.GET("/grouped", catalogHandler.Grouped)
	catalogGroup.GET("/:taskID", catalogHandler.Get)

	// Daily record routes
	dayGroup := v1.Group("/days")
	dayGroup.GET("", dayHandler.GetRange)
	dayGroup.GET("/:date", dayHandler.GetDay)
	dayGroup.PUT("/:date/tasks/:taskID", dayHandler.SetTaskCompletion)
	dayGroup.POST("/:date/end", dayHandler.EndDay)

	// Penalty routes
	penaltyGroup := v1.Group("/penalties")
	penaltyGroup.GET("/pending", penaltyHandler.GetPending)
	penaltyGroup.GET("/escalation", penaltyHandler.EscalationSignal)
	penaltyGroup.POST("/:id/complete", penaltyHandler.Complete)
	penaltyGroup.POST("/:id/waive", penaltyHandler.Waive)
	penaltyGroup.POST("/:id/partner-edit", penaltyHandler.PartnerEdit)
	penaltyGroup.GET("/:id/alternatives", penaltyHandler.Alternatives)

	// Reward routes
	rewardGroup := v1.Group("/rewards")
	rewardGroup.GET("/claimable", rewardHandler.GetClaimable)
	rewardGroup.POST("/:id/claim", rewardHandler.Claim)
	rewardGroup.GET("/suggestions/:type", rewardHandler.Suggestions)

	// Streak routes
	streakGroup := v1.Group("/streak")
	streakGroup.GET("", streakHandler.Get)
	streakGroup.GET("/progress", streakHandler.Progress)
	streakGroup.POST("/recompute", streakHandler.Recompute)

	// Couples circle routes
	circleGroup := v1.Group("/circle")
	circleGroup.POST("", circleHandler.Create)
	circleGroup.POST("/join", circleHandler.Join)
	circleGroup.POST("/leave", circleHandler.Leave)
	circleGroup.GET("", circleHandler.Get)
	circleGroup.GET("/partner", circleHandler.PartnerProgress)
	circleGroup.GET("/partner/:date", circleHandler.PartnerProgress)

	// Analytics routes
	analyticsGroup := v1.Group("/analytics")
	analyticsGroup.GET("/weekly", analyticsHandler.Weekly)
	analyticsGroup.GET("/monthly", analyticsHandler.Monthly)
	analyticsGroup.GET("/heatmap", analyticsHandler.Heatmap)
	analyticsGroup.GET("/comparison", analyticsHandler.Comparison)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	// Database health check
	if err := s.db.HealthCheck(); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.Stats(),
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  "1.21",
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.HealthCheck(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Error("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Error("Error sending response", "error", err)
			}
		}
	}
}
