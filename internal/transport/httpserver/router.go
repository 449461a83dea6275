// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"tweet-score-service/internal/app/service"
	"tweet-score-service/internal/metrics"
	"tweet-score-service/internal/transport/httpserver/dto"
	"tweet-score-service/internal/transport/httpserver/handler"
	"tweet-score-service/internal/transport/httpserver/middleware"
	"tweet-score-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         int
	BodyLimit    int
	Debug        bool
	TemplatesDir string
	MetricsPath  string // empty disables the metrics endpoint
	CORSOrigins  []string
	Auth         middleware.AuthConfig
}

// Services groups the use cases the handlers call.
type Services struct {
	Analysis   *service.AnalysisService
	Generation *service.GenerationService
	Profiles   *service.ProfileService
	History    *service.HistoryService
	Campaigns  *service.CampaignService
	Analytics  *service.AnalyticsService
	Defaults   service.ProfileDefaults
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	svc Services,
	m *metrics.Collectors,
	v *validator.Validator,
	logger *zap.Logger,
	readiness ...middleware.ReadinessCheck,
) *Server {
	engine := html.New(cfg.TemplatesDir, ".html")
	if cfg.Debug {
		engine.Reload(true)
	}

	app := fiber.New(fiber.Config{
		AppName:      "tweet-score-service",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
		Views:        engine,
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(readiness...))

	if cfg.MetricsPath != "" && m != nil {
		app.Get(cfg.MetricsPath, adaptor.HTTPHandler(m.Handler()))
	}

	// Global middleware
	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Metrics(m))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS(cfg.CORSOrigins...))
	app.Use(compress.New())
	app.Use(middleware.Auth(cfg.Auth, logger))

	tweetHandler := handler.NewTweetHandler(svc.Analysis, svc.Generation, v, logger)
	engineHandler := handler.NewEngineHandler(svc.Analysis.Engine(), svc.Defaults, v, logger)
	profileHandler := handler.NewProfileHandler(svc.Profiles, svc.History, v, logger)
	dashboardHandler := handler.NewDashboardHandler(svc.Analysis, svc.Profiles, logger)
	campaignHandler := handler.NewCampaignHandler(svc.Campaigns, svc.Analytics, v, logger)

	registerRoutes(app, tweetHandler, engineHandler, profileHandler, dashboardHandler, campaignHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	tweetHandler *handler.TweetHandler,
	engineHandler *handler.EngineHandler,
	profileHandler *handler.ProfileHandler,
	dashboardHandler *handler.DashboardHandler,
	campaignHandler *handler.CampaignHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	// Dashboard (HTML)
	app.Get("/dashboard", dashboardHandler.Render)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	v1 := app.Group("/api/v1")

	tweets := v1.Group("/tweets")
	tweets.Post("/analyze", tweetHandler.Analyze)
	tweets.Post("/analyze/batch", tweetHandler.AnalyzeBatch)
	tweets.Post("/optimize", tweetHandler.Optimize)
	tweets.Post("/generate", tweetHandler.Generate)
	tweets.Get("/history", tweetHandler.History)

	v1.Post("/reach/predict", engineHandler.PredictReach)
	v1.Post("/authority/tweetcred", engineHandler.TweetCred)
	v1.Post("/authority/engagement-debt", engineHandler.EngagementDebt)
	v1.Post("/monetization/estimate", engineHandler.Monetization)
	v1.Get("/timing/windows", engineHandler.TimingWindows)
	v1.Post("/style/analyze", engineHandler.Style)

	profiles := v1.Group("/profiles")
	profiles.Put("/:username", profileHandler.Upsert)
	profiles.Get("/:username", profileHandler.Get)
	profiles.Get("/:username/report", profileHandler.Report)
	profiles.Post("/:username/sync", profileHandler.Sync)

	campaigns := v1.Group("/campaigns")
	campaigns.Post("/", campaignHandler.Create)
	campaigns.Get("/", campaignHandler.List)
	campaigns.Get("/:id/results", campaignHandler.Results)
	campaigns.Put("/:id/variants/:variant/metrics", campaignHandler.RecordMetrics)
	campaigns.Post("/:id/winner", campaignHandler.SetWinner)

	analytics := v1.Group("/analytics")
	analytics.Get("/overview", campaignHandler.Overview)
	analytics.Get("/performance", campaignHandler.Performance)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := "INTERNAL_ERROR"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			errCode = "HTTP_ERROR"
		}

		switch {
		case code == fiber.StatusNotFound:
			errCode = "NOT_FOUND"
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		msg := err.Error()
		if fe == nil {
			msg = "internal server error"
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: msg,
			Code:  errCode,
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
