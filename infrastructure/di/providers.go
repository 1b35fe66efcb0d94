package di

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"pipeline-backend/application/queries"
	querybus "pipeline-backend/application/queries/bus"
	queryhandlers "pipeline-backend/application/queries/handlers"
	domainconfig "pipeline-backend/domain/config"
	"pipeline-backend/infrastructure/config"
	pkgerrors "pipeline-backend/pkg/errors"
	"pipeline-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	DomainConfig   *domainconfig.DomainConfig
	Metrics        *observability.Collector
	TracerProvider *observability.TracerProvider
	Tracer         trace.Tracer
	ErrorHandler   *pkgerrors.ErrorHandler
	QueryBus       *querybus.QueryBus
}

// Shutdown releases container resources
func (c *Container) Shutdown(ctx context.Context) error {
	if c.TracerProvider != nil {
		return c.TracerProvider.Shutdown(ctx)
	}
	return nil
}

// ProvideLogger creates the application logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}

	return zapCfg.Build()
}

// ProvideDomainConfig derives the domain limits from application configuration
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	domainCfg := domainconfig.DefaultDomainConfig()
	domainCfg.MaxNodesPerPipeline = cfg.MaxPipelineNodes
	domainCfg.MaxEdgesPerPipeline = cfg.MaxPipelineEdges
	return domainCfg
}

// ProvideMetrics creates the Prometheus metrics collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("pipeline_backend")
}

// ProvideTracerProvider creates the OTEL tracer provider when tracing is enabled
func ProvideTracerProvider(cfg *config.Config) (*observability.TracerProvider, error) {
	if !cfg.EnableTracing {
		return nil, nil
	}
	return observability.InitTracing(observability.TracingConfig{
		ServiceName: "pipeline-backend",
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRate:  cfg.TraceSampleRate,
	})
}

// ProvideTracer extracts a tracer from the provider; nil when tracing is off
func ProvideTracer(tp *observability.TracerProvider) trace.Tracer {
	if tp == nil {
		return nil
	}
	return tp.Tracer()
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// QueryHandlerAdapter adapts typed query handlers to the bus interface
type QueryHandlerAdapter struct {
	handler func(ctx context.Context, query querybus.Query) (interface{}, error)
}

// Handle implements querybus.QueryHandler
func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// busMetrics adapts the Prometheus collector to the query bus metrics interface
type busMetrics struct {
	collector *observability.Collector
}

type busTimer struct {
	timer *prometheus.Timer
}

func (t busTimer) Stop() {
	t.timer.ObserveDuration()
}

// StartTimer implements querybus.Metrics
func (m busMetrics) StartTimer(metric, label string) querybus.Timer {
	return busTimer{timer: prometheus.NewTimer(m.collector.QueryDuration.WithLabelValues(label))}
}

// Increment implements querybus.Metrics. Metric names arrive as query_errors
// or query_success; the suffix becomes the outcome label.
func (m busMetrics) Increment(metric, label string) {
	outcome := strings.TrimPrefix(metric, "query_")
	m.collector.QueryResults.WithLabelValues(label, outcome).Inc()
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	domainCfg *domainconfig.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()
	metricsMiddleware := querybus.NewMetricsMiddleware(busMetrics{collector: metrics})

	// Register AnalyzePipelineQuery handler
	analyzeHandler := queryhandlers.NewAnalyzePipelineHandler(domainCfg, metrics, logger)
	queryBus.Register(queries.AnalyzePipelineQuery{}, metricsMiddleware.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			analyzeQuery, ok := query.(queries.AnalyzePipelineQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return analyzeHandler.Handle(ctx, analyzeQuery)
		},
	}))

	return queryBus
}
