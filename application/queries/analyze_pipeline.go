package queries

import (
	"fmt"

	"pipeline-backend/domain/dag"
	pkgerrors "pipeline-backend/pkg/errors"
)

// AnalyzePipelineQuery asks for the structural summary of one submitted
// pipeline. The graph lives only for the duration of the query; nothing
// is retained once the result is produced.
type AnalyzePipelineQuery struct {
	Nodes []dag.Node
	Edges []dag.Edge
}

// Validate validates the query. An empty pipeline is valid input; only
// structurally unusable identifiers are rejected here.
func (q AnalyzePipelineQuery) Validate() error {
	for i, n := range q.Nodes {
		if n.ID == "" {
			return pkgerrors.NewValidationError(fmt.Sprintf("node %d has an empty id", i))
		}
	}
	for i, e := range q.Edges {
		if e.Source == "" || e.Target == "" {
			return pkgerrors.NewValidationError(fmt.Sprintf("edge %d is missing a source or target id", i))
		}
	}
	return nil
}

// PipelineAnalysisResult is the structural summary returned to callers.
type PipelineAnalysisResult struct {
	NumNodes int  `json:"num_nodes"`
	NumEdges int  `json:"num_edges"`
	IsDAG    bool `json:"is_dag"`
}
