// Package dag implements structural analysis of pipeline graphs.
// The checker is a pure function over the submitted node and edge sets;
// it holds no state between calls and is safe for concurrent use.
package dag

import (
	"fmt"
	"strings"
)

// Node is a declared pipeline node. Only the identifier matters for
// structural analysis; caller metadata never reaches this package.
type Node struct {
	ID string
}

// Edge is a directed connection between two declared nodes.
type Edge struct {
	Source string
	Target string
}

// Analysis is the structural summary of one submitted pipeline.
type Analysis struct {
	NumNodes int
	NumEdges int
	IsDAG    bool
}

// ValidationError reports edges whose endpoints were never declared as nodes.
// The checker rejects such input instead of registering implicit nodes, so
// num_nodes always reflects exactly what the caller declared.
type ValidationError struct {
	UnknownIDs []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("edges reference undeclared node ids: %s", strings.Join(e.UnknownIDs, ", "))
}

// Analyze builds the structural summary for a pipeline.
//
// Duplicate node identifiers are deduplicated before counting, so a repeated
// id cannot inflate NumNodes or corrupt in-degree accounting. Every edge
// endpoint is validated against the declared node set before any adjacency
// structure is built; unknown endpoints yield a *ValidationError.
//
// Acyclicity is decided with Kahn's algorithm: repeatedly remove in-degree
// zero nodes and count them. The graph is a DAG exactly when every declared
// node gets processed; nodes on or behind a cycle never reach in-degree zero.
// Runs in O(V+E) time and space.
func Analyze(nodes []Node, edges []Edge) (Analysis, error) {
	declared := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		declared[n.ID] = struct{}{}
	}

	if err := validateEndpoints(declared, edges); err != nil {
		return Analysis{}, err
	}

	return Analysis{
		NumNodes: len(declared),
		NumEdges: len(edges),
		IsDAG:    isAcyclic(declared, edges),
	}, nil
}

// IsAcyclic reports whether the directed graph formed by edges over the
// declared node set contains no cycle. Same validation policy as Analyze.
func IsAcyclic(nodes []Node, edges []Edge) (bool, error) {
	analysis, err := Analyze(nodes, edges)
	if err != nil {
		return false, err
	}
	return analysis.IsDAG, nil
}

// validateEndpoints checks every edge endpoint against the declared node set.
// Each unknown id is reported once, in first-seen order.
func validateEndpoints(declared map[string]struct{}, edges []Edge) error {
	var unknown []string
	seen := make(map[string]struct{})

	report := func(id string) {
		if _, ok := declared[id]; ok {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		unknown = append(unknown, id)
	}

	for _, e := range edges {
		report(e.Source)
		report(e.Target)
	}

	if len(unknown) > 0 {
		return &ValidationError{UnknownIDs: unknown}
	}
	return nil
}

// isAcyclic runs the counting form of Kahn's algorithm. Queue order is
// irrelevant to the verdict, so a plain slice with a head index serves as
// the FIFO queue.
func isAcyclic(declared map[string]struct{}, edges []Edge) bool {
	adjacency := make(map[string][]string, len(declared))
	inDegree := make(map[string]int, len(declared))
	for id := range declared {
		inDegree[id] = 0
	}

	for _, e := range edges {
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		inDegree[e.Target]++
	}

	queue := make([]string, 0, len(declared))
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	processed := 0
	for head := 0; head < len(queue); head++ {
		current := queue[head]
		processed++

		for _, target := range adjacency[current] {
			inDegree[target]--
			if inDegree[target] == 0 {
				queue = append(queue, target)
			}
		}
	}

	return processed == len(declared)
}
