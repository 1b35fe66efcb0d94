package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pipeline-backend/application/queries"
	domainconfig "pipeline-backend/domain/config"
	"pipeline-backend/domain/dag"
	pkgerrors "pipeline-backend/pkg/errors"
	"pipeline-backend/pkg/observability"
)

// AnalyzePipelineHandler handles pipeline analysis queries
type AnalyzePipelineHandler struct {
	domainConfig *domainconfig.DomainConfig
	metrics      *observability.Collector
	logger       *zap.Logger
}

// NewAnalyzePipelineHandler creates a new pipeline analysis handler
func NewAnalyzePipelineHandler(
	domainConfig *domainconfig.DomainConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *AnalyzePipelineHandler {
	if domainConfig == nil {
		domainConfig = domainconfig.DefaultDomainConfig()
	}
	return &AnalyzePipelineHandler{
		domainConfig: domainConfig,
		metrics:      metrics,
		logger:       logger,
	}
}

// Handle executes the pipeline analysis query
func (h *AnalyzePipelineHandler) Handle(ctx context.Context, query queries.AnalyzePipelineQuery) (*queries.PipelineAnalysisResult, error) {
	if err := query.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	if err := h.enforceLimits(query); err != nil {
		return nil, err
	}

	analysis, err := dag.Analyze(query.Nodes, query.Edges)
	if err != nil {
		var validationErr *dag.ValidationError
		if errors.As(err, &validationErr) {
			h.metrics.ValidationFailures.Inc()
			return nil, pkgerrors.NewValidationError(validationErr.Error()).
				WithCode("UNKNOWN_EDGE_ENDPOINT").
				WithDetails(map[string]interface{}{
					"unknown_ids": validationErr.UnknownIDs,
				})
		}
		return nil, pkgerrors.Wrap(err, "pipeline analysis failed")
	}

	h.metrics.PipelinesAnalyzed.Inc()
	if !analysis.IsDAG {
		h.metrics.CyclesDetected.Inc()
	}

	h.logger.Info("Pipeline analyzed",
		zap.String("analysisID", uuid.New().String()),
		zap.Int("numNodes", analysis.NumNodes),
		zap.Int("numEdges", analysis.NumEdges),
		zap.Bool("isDAG", analysis.IsDAG),
	)

	return &queries.PipelineAnalysisResult{
		NumNodes: analysis.NumNodes,
		NumEdges: analysis.NumEdges,
		IsDAG:    analysis.IsDAG,
	}, nil
}

// enforceLimits rejects pipelines above the configured size limits. A limit
// of zero or below disables the check.
func (h *AnalyzePipelineHandler) enforceLimits(query queries.AnalyzePipelineQuery) error {
	if max := h.domainConfig.MaxNodesPerPipeline; max > 0 && len(query.Nodes) > max {
		h.metrics.ValidationFailures.Inc()
		return pkgerrors.NewValidationError(
			fmt.Sprintf("pipeline exceeds maximum of %d nodes", max),
		).WithCode("PIPELINE_TOO_LARGE")
	}
	if max := h.domainConfig.MaxEdgesPerPipeline; max > 0 && len(query.Edges) > max {
		h.metrics.ValidationFailures.Inc()
		return pkgerrors.NewValidationError(
			fmt.Sprintf("pipeline exceeds maximum of %d edges", max),
		).WithCode("PIPELINE_TOO_LARGE")
	}
	return nil
}
