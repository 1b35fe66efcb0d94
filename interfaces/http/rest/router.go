package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	querybus "pipeline-backend/application/queries/bus"
	"pipeline-backend/infrastructure/config"
	"pipeline-backend/interfaces/http/rest/handlers"
	"pipeline-backend/interfaces/http/rest/middleware"
	pkgerrors "pipeline-backend/pkg/errors"
	"pipeline-backend/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	config       *config.Config
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	metrics      *observability.Collector
	tracer       trace.Tracer
	logger       *zap.Logger
}

// NewRouter creates a new router instance. The tracer may be nil when
// tracing is disabled.
func NewRouter(
	cfg *config.Config,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	metrics *observability.Collector,
	tracer trace.Tracer,
	logger *zap.Logger,
) *Router {
	return &Router{
		config:       cfg,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		metrics:      metrics,
		tracer:       tracer,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.tracer != nil {
		router.Use(middleware.Tracing(rt.tracer))
	}
	if rt.config.EnableMetrics {
		router.Use(middleware.Metrics(rt.metrics))
	}

	// CORS configuration. The default allows any origin, matching the
	// browser-editor clients this service fronts; deployments narrow it
	// through ALLOWED_ORIGINS.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check surface
	router.Get("/", rt.rootHealthCheck)
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// Prometheus exposition
	if rt.config.EnableMetrics {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
			rt.metrics.Registry(),
			promhttp.HandlerOpts{},
		))
	}

	// Consistent JSON errors for unmatched routes and methods
	router.NotFound(func(w http.ResponseWriter, req *http.Request) {
		rt.errorHandler.HandleStatus(w, req, http.StatusNotFound, "resource not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		rt.errorHandler.HandleStatus(w, req, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Pipeline endpoints
	router.Route("/pipelines", func(r chi.Router) {
		pipelineHandler := handlers.NewPipelineHandler(
			rt.queryBus,
			rt.errorHandler,
			rt.logger,
			rt.config.MaxRequestBodyBytes,
		)
		r.Post("/parse", pipelineHandler.ParsePipeline)
		r.Get("/parse", pipelineHandler.ParsePipelineHint)
	})

	return router
}

// rootHealthCheck handles GET /, the liveness surface frontend clients poll
func (rt *Router) rootHealthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","message":"Pipeline Analysis API is running"}`))
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests. The service has no
// downstream dependencies, so liveness implies readiness.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
