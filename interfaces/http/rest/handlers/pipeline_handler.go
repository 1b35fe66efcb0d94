package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"pipeline-backend/application/queries"
	querybus "pipeline-backend/application/queries/bus"
	"pipeline-backend/domain/dag"
	"pipeline-backend/pkg/common"
	pkgerrors "pipeline-backend/pkg/errors"
	"pipeline-backend/pkg/utils"
)

// PipelineHandler handles pipeline analysis HTTP requests
type PipelineHandler struct {
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
	maxBodyBytes int64
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
	maxBodyBytes int64,
) *PipelineHandler {
	return &PipelineHandler{
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// NodePayload mirrors the frontend node structure. Only the id participates
// in analysis; type, position and data are caller metadata carried through
// untouched.
type NodePayload struct {
	ID       string                 `json:"id" validate:"required"`
	Type     string                 `json:"type,omitempty"`
	Position map[string]float64     `json:"position,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// EdgePayload mirrors the frontend edge structure
type EdgePayload struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// ParsePipelineRequest represents the request body for pipeline analysis
type ParsePipelineRequest struct {
	Nodes []NodePayload `json:"nodes" validate:"dive"`
	Edges []EdgePayload `json:"edges" validate:"dive"`
}

// ParsePipeline handles POST /pipelines/parse
func (h *PipelineHandler) ParsePipeline(w http.ResponseWriter, r *http.Request) {
	var req ParsePipelineRequest
	if err := common.ParseJSONBody(w, r, &req, h.maxBodyBytes); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	query := queries.AnalyzePipelineQuery{
		Nodes: toDomainNodes(req.Nodes),
		Edges: toDomainEdges(req.Edges),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ParsePipelineHint handles GET /pipelines/parse
func (h *PipelineHandler) ParsePipelineHint(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Please use POST method with pipeline data",
	})
}

func toDomainNodes(payloads []NodePayload) []dag.Node {
	nodes := make([]dag.Node, 0, len(payloads))
	for _, p := range payloads {
		nodes = append(nodes, dag.Node{ID: p.ID})
	}
	return nodes
}

func toDomainEdges(payloads []EdgePayload) []dag.Edge {
	edges := make([]dag.Edge, 0, len(payloads))
	for _, p := range payloads {
		edges = append(edges, dag.Edge{Source: p.Source, Target: p.Target})
	}
	return edges
}

func (h *PipelineHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
