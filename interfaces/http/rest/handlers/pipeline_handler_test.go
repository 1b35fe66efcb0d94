package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainconfig "pipeline-backend/domain/config"
	"pipeline-backend/infrastructure/di"
	pkgerrors "pipeline-backend/pkg/errors"
	"pipeline-backend/pkg/observability"
)

func newTestHandler(t *testing.T, domainCfg *domainconfig.DomainConfig) *PipelineHandler {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewCollector("pipeline_backend_test")
	queryBus := di.ProvideQueryBus(domainCfg, metrics, logger)
	errorHandler := pkgerrors.NewErrorHandler(logger, false)

	return NewPipelineHandler(queryBus, errorHandler, logger, 1<<20)
}

func postPipeline(t *testing.T, handler *PipelineHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/pipelines/parse", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ParsePipeline(rec, req)
	return rec
}

func decodeAnalysis(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestParsePipeline_AcyclicChain(t *testing.T) {
	handler := newTestHandler(t, domainconfig.DefaultDomainConfig())

	rec := postPipeline(t, handler, `{
		"nodes": [
			{"id": "A", "type": "input", "position": {"x": 0, "y": 0}, "data": {"label": "in"}},
			{"id": "B", "type": "transform", "position": {"x": 100, "y": 0}, "data": {}},
			{"id": "C", "type": "output", "position": {"x": 200, "y": 0}, "data": {}}
		],
		"edges": [
			{"id": "e1", "source": "A", "target": "B"},
			{"id": "e2", "source": "B", "target": "C"}
		]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeAnalysis(t, rec)
	assert.Equal(t, float64(3), result["num_nodes"])
	assert.Equal(t, float64(2), result["num_edges"])
	assert.Equal(t, true, result["is_dag"])
}

func TestParsePipeline_CyclicPipeline(t *testing.T) {
	handler := newTestHandler(t, domainconfig.DefaultDomainConfig())

	rec := postPipeline(t, handler, `{
		"nodes": [{"id": "A"}, {"id": "B"}, {"id": "C"}],
		"edges": [
			{"source": "A", "target": "B"},
			{"source": "B", "target": "C"},
			{"source": "C", "target": "A"}
		]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeAnalysis(t, rec)
	assert.Equal(t, float64(3), result["num_nodes"])
	assert.Equal(t, float64(3), result["num_edges"])
	assert.Equal(t, false, result["is_dag"])
}

func TestParsePipeline_EmptyPipeline(t *testing.T) {
	handler := newTestHandler(t, domainconfig.DefaultDomainConfig())

	rec := postPipeline(t, handler, `{"nodes": [], "edges": []}`)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeAnalysis(t, rec)
	assert.Equal(t, float64(0), result["num_nodes"])
	assert.Equal(t, float64(0), result["num_edges"])
	assert.Equal(t, true, result["is_dag"])
}

func TestParsePipeline_MalformedJSON(t *testing.T) {
	handler := newTestHandler(t, domainconfig.DefaultDomainConfig())

	rec := postPipeline(t, handler, `{"nodes": [`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var response pkgerrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Error)
	assert.Equal(t, string(pkgerrors.ErrorTypeBadRequest), response.Type)
}

func TestParsePipeline_MissingNodeID(t *testing.T) {
	handler := newTestHandler(t, domainconfig.DefaultDomainConfig())

	rec := postPipeline(t, handler, `{
		"nodes": [{"type": "input"}],
		"edges": []
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var response pkgerrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, string(pkgerrors.ErrorTypeValidation), response.Type)
	assert.Contains(t, response.Message, "id")
}

func TestParsePipeline_UnknownEdgeEndpoint(t *testing.T) {
	handler := newTestHandler(t, domainconfig.DefaultDomainConfig())

	rec := postPipeline(t, handler, `{
		"nodes": [{"id": "A"}],
		"edges": [{"source": "A", "target": "ghost"}]
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var response pkgerrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, string(pkgerrors.ErrorTypeValidation), response.Type)
	assert.Equal(t, "UNKNOWN_EDGE_ENDPOINT", response.Code)
	assert.Contains(t, response.Message, "ghost")
}

func TestParsePipeline_BodyTooLarge(t *testing.T) {
	logger := zap.NewNop()
	metrics := observability.NewCollector("pipeline_backend_test")
	queryBus := di.ProvideQueryBus(domainconfig.DefaultDomainConfig(), metrics, logger)
	errorHandler := pkgerrors.NewErrorHandler(logger, false)
	handler := NewPipelineHandler(queryBus, errorHandler, logger, 64)

	body := `{"nodes": [{"id": "` + strings.Repeat("x", 256) + `"}], "edges": []}`
	rec := postPipeline(t, handler, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParsePipeline_NodeLimitEnforced(t *testing.T) {
	domainCfg := &domainconfig.DomainConfig{MaxNodesPerPipeline: 2, MaxEdgesPerPipeline: 10}
	handler := newTestHandler(t, domainCfg)

	rec := postPipeline(t, handler, `{
		"nodes": [{"id": "A"}, {"id": "B"}, {"id": "C"}],
		"edges": []
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var response pkgerrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "PIPELINE_TOO_LARGE", response.Code)
}

func TestParsePipelineHint(t *testing.T) {
	handler := newTestHandler(t, domainconfig.DefaultDomainConfig())

	req := httptest.NewRequest(http.MethodGet, "/pipelines/parse", nil)
	rec := httptest.NewRecorder()
	handler.ParsePipelineHint(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Contains(t, result["message"], "POST")
}
