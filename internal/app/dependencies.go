package app

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lunch-tray/internal/config"
	"github.com/noah-isme/lunch-tray/internal/events"
	"github.com/noah-isme/lunch-tray/internal/health"
	"github.com/noah-isme/lunch-tray/internal/menu"
	"github.com/noah-isme/lunch-tray/internal/money"
	"github.com/noah-isme/lunch-tray/internal/obs"
	"github.com/noah-isme/lunch-tray/internal/order"
	"github.com/noah-isme/lunch-tray/internal/security"
)

// Dependencies enumerates the services shared by the HTTP surface.
type Dependencies struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Catalog   *menu.Catalog
	Formatter *money.Formatter
	Events    *events.MemoryStore
	Bus       *events.Bus
	Session   *order.Session
	Registry  *prometheus.Registry
	HTTP      *obs.HTTPMetrics
	Orders    *obs.OrderMetrics
}

// Build wires every dependency from configuration.
func Build(cfg *config.Config, logger zerolog.Logger) (*Dependencies, error) {
	formatter, err := money.NewFormatter(cfg.Locale, cfg.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("currency formatter: %w", err)
	}
	catalog, err := LoadCatalog(cfg, formatter.Digits())
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Config:    cfg,
		Logger:    logger,
		Catalog:   catalog,
		Formatter: formatter,
		Events:    events.NewMemoryStore(cfg.EventHistoryLimit),
	}
	deps.Bus = &events.Bus{
		Store:     deps.Events,
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}},
	}

	sessionCfg := order.SessionConfig{Events: deps.Bus, Logger: logger}
	if cfg.MetricsEnabled {
		deps.Registry = prometheus.NewRegistry()
		deps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		deps.HTTP = obs.NewHTTPMetrics(cfg.MetricsNamespace, nil, deps.Registry)
		deps.Orders = obs.NewOrderMetrics(cfg.MetricsNamespace, deps.Registry)
		sessionCfg.Metrics = deps.Orders
	}

	state, err := order.NewState(catalog, cfg.PricingTaxRateBPS, order.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	sessionCfg.State = state
	deps.Session, err = order.NewSession(sessionCfg)
	if err != nil {
		return nil, err
	}
	return deps, nil
}

// LoadCatalog reads MENU_FILE when set, falling back to the built-in menu.
// Prices are read in minor units of a currency with the given digits.
func LoadCatalog(cfg *config.Config, digits int) (*menu.Catalog, error) {
	if cfg.MenuFile == "" {
		catalog, err := menu.DefaultFor(digits)
		if err != nil {
			return nil, fmt.Errorf("currency %s: %w", cfg.CurrencyCode, err)
		}
		return catalog, nil
	}
	catalog, err := menu.LoadFile(cfg.MenuFile, digits)
	if err != nil {
		return nil, fmt.Errorf("load menu %s: %w", cfg.MenuFile, err)
	}
	return catalog, nil
}

// Router mounts every HTTP endpoint.
func (d *Dependencies) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if d.HTTP != nil {
		r.Use(obs.HTTPObs{Metrics: d.HTTP}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(security.Headers{Enable: d.Config.SecurityHeaders, EnableHSTS: d.Config.EnableHSTS}.Middleware)
	if len(d.Config.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: d.Config.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	healthHandler := health.Handler{Checker: health.CatalogChecker{Catalog: d.Catalog}}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	if d.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	menuHandler := &menu.Handler{Catalog: d.Catalog, Formatter: d.Formatter}
	orderHandler := &order.Handler{Session: d.Session, Formatter: d.Formatter, Logger: d.Logger}
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(security.BodyLimit{Max: d.Config.MaxBodyBytes}.Middleware)
		r.Get("/menu", menuHandler.List)
		r.Route("/order", orderHandler.Routes)
	})
	return r
}
