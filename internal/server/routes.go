package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"zaplink/internal/handlers"
	"zaplink/internal/handlers/api"
	"zaplink/internal/registry"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Types   *registry.Registry
	Backend handlers.Backend
	Logger  zerolog.Logger
	// Checks are consulted by /readyz.
	Checks []handlers.ReadinessCheck
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(deps Deps) {
	// Initialize handlers
	pageHandler := handlers.NewPageHandler(s.Cfg, deps.Types)
	uploadHandler := handlers.NewUploadHandler(s.Cfg, deps.Types, deps.Backend, deps.Logger)
	customizeHandler := handlers.NewCustomizeHandler(s.Cfg, deps.Logger)
	zapHandler := handlers.NewZapHandler(s.Cfg, deps.Backend, deps.Logger)
	shortenHandler := handlers.NewShortenHandler(s.Cfg, deps.Backend, deps.Logger)
	probeHandler := handlers.NewProbeHandler(deps.Checks...)

	contentTypeAPI := api.NewContentTypeHandler(deps.Types)
	wizardAPI := api.NewWizardHandler(s.Cfg, deps.Types)
	qrAPI := api.NewQRHandler()

	// Probes and metrics
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Pages
	s.App.Get("/", pageHandler.Index)
	s.App.Get("/how-it-works", pageHandler.HowItWorks)
	s.App.Get("/about", pageHandler.About)

	// Upload wizard
	s.App.Get("/upload", uploadHandler.Show)
	s.App.Post("/upload", uploadHandler.Submit)
	s.App.Post("/upload/reset", uploadHandler.Reset)

	// QR customize
	s.App.Get("/customize", customizeHandler.Show)
	s.App.Post("/customize", customizeHandler.Preview)
	s.App.Post("/customize/download", customizeHandler.Download)

	// URL shortener
	s.App.Get("/shorten", shortenHandler.Show)
	s.App.Post("/shorten", shortenHandler.Shorten)
	s.App.Get("/url-shortener", shortenHandler.Show)
	s.App.Post("/url-shortener", shortenHandler.Shorten)

	// Short link visits
	s.App.Get("/zaps/:shortId", zapHandler.View)
	s.App.Post("/zaps/:shortId", zapHandler.Unlock)

	// JSON API
	apiGroup := s.App.Group("/api")
	apiGroup.Get("/content-types", contentTypeAPI.List)
	apiGroup.Get("/content-types/:type", contentTypeAPI.Get)
	apiGroup.Get("/wizard", wizardAPI.Get)
	apiGroup.Patch("/wizard", wizardAPI.Patch)
	apiGroup.Post("/qr/svg", qrAPI.SVG)
	apiGroup.Post("/qr/png", qrAPI.PNG)
}
