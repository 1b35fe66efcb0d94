package dag

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodesFromIDs(ids ...string) []Node {
	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, Node{ID: id})
	}
	return nodes
}

func TestAnalyze_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []Node
		edges    []Edge
		expected Analysis
	}{
		{
			name:     "empty graph",
			nodes:    nil,
			edges:    nil,
			expected: Analysis{NumNodes: 0, NumEdges: 0, IsDAG: true},
		},
		{
			name:     "linear chain",
			nodes:    nodesFromIDs("A", "B", "C"),
			edges:    []Edge{{"A", "B"}, {"B", "C"}},
			expected: Analysis{NumNodes: 3, NumEdges: 2, IsDAG: true},
		},
		{
			name:     "triangle cycle",
			nodes:    nodesFromIDs("A", "B", "C"),
			edges:    []Edge{{"A", "B"}, {"B", "C"}, {"C", "A"}},
			expected: Analysis{NumNodes: 3, NumEdges: 3, IsDAG: false},
		},
		{
			name:     "self loop",
			nodes:    nodesFromIDs("A"),
			edges:    []Edge{{"A", "A"}},
			expected: Analysis{NumNodes: 1, NumEdges: 1, IsDAG: false},
		},
		{
			name:     "isolated nodes",
			nodes:    nodesFromIDs("A", "B"),
			edges:    nil,
			expected: Analysis{NumNodes: 2, NumEdges: 0, IsDAG: true},
		},
		{
			name:     "diamond",
			nodes:    nodesFromIDs("A", "B", "C", "D"),
			edges:    []Edge{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}},
			expected: Analysis{NumNodes: 4, NumEdges: 4, IsDAG: true},
		},
		{
			name:     "cycle behind a source node",
			nodes:    nodesFromIDs("A", "B", "C", "D"),
			edges:    []Edge{{"A", "B"}, {"B", "C"}, {"C", "D"}, {"D", "B"}},
			expected: Analysis{NumNodes: 4, NumEdges: 4, IsDAG: false},
		},
		{
			name:     "parallel edges between same pair",
			nodes:    nodesFromIDs("A", "B"),
			edges:    []Edge{{"A", "B"}, {"A", "B"}},
			expected: Analysis{NumNodes: 2, NumEdges: 2, IsDAG: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Analyze(tt.nodes, tt.edges)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAnalyze_DuplicateNodeIDsAreDeduplicated(t *testing.T) {
	result, err := Analyze(nodesFromIDs("A", "A", "B"), []Edge{{"A", "B"}})

	require.NoError(t, err)
	assert.Equal(t, 2, result.NumNodes)
	assert.True(t, result.IsDAG)
}

func TestAnalyze_UnknownEndpointsAreRejected(t *testing.T) {
	_, err := Analyze(nodesFromIDs("A"), []Edge{{"A", "ghost"}, {"phantom", "A"}, {"A", "ghost"}})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"ghost", "phantom"}, validationErr.UnknownIDs)
	assert.Contains(t, validationErr.Error(), "ghost")
}

func TestAnalyze_EdgeFreeGraphsAreAlwaysAcyclic(t *testing.T) {
	for _, count := range []int{0, 1, 5, 100} {
		nodes := make([]Node, count)
		for i := range nodes {
			nodes[i] = Node{ID: fmt.Sprintf("n%d", i)}
		}

		result, err := Analyze(nodes, nil)
		require.NoError(t, err)
		assert.Equal(t, count, result.NumNodes)
		assert.True(t, result.IsDAG)
	}
}

func TestAnalyze_CycleBreaksWhenAnyEdgeRemoved(t *testing.T) {
	nodes := nodesFromIDs("A", "B", "C", "D")
	cycle := []Edge{{"A", "B"}, {"B", "C"}, {"C", "D"}, {"D", "A"}}

	full, err := Analyze(nodes, cycle)
	require.NoError(t, err)
	assert.False(t, full.IsDAG)

	for skip := range cycle {
		remaining := make([]Edge, 0, len(cycle)-1)
		for i, e := range cycle {
			if i != skip {
				remaining = append(remaining, e)
			}
		}

		result, err := Analyze(nodes, remaining)
		require.NoError(t, err)
		assert.True(t, result.IsDAG, "removing edge %d should break the cycle", skip)
	}
}

func TestAnalyze_VerdictIsIndependentOfEdgeOrder(t *testing.T) {
	nodes := nodesFromIDs("A", "B", "C", "D", "E")
	edges := []Edge{{"A", "B"}, {"B", "C"}, {"C", "D"}, {"D", "E"}, {"A", "C"}, {"B", "E"}}

	baseline, err := Analyze(nodes, edges)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]Edge, len(edges))
		copy(shuffled, edges)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		result, err := Analyze(nodes, shuffled)
		require.NoError(t, err)
		assert.Equal(t, baseline, result)
	}
}

func TestAnalyze_IsIdempotent(t *testing.T) {
	nodes := nodesFromIDs("A", "B", "C")
	edges := []Edge{{"A", "B"}, {"B", "C"}, {"C", "A"}}

	first, err := Analyze(nodes, edges)
	require.NoError(t, err)
	second, err := Analyze(nodes, edges)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIsAcyclic(t *testing.T) {
	acyclic, err := IsAcyclic(nodesFromIDs("A", "B"), []Edge{{"A", "B"}})
	require.NoError(t, err)
	assert.True(t, acyclic)

	cyclic, err := IsAcyclic(nodesFromIDs("A", "B"), []Edge{{"A", "B"}, {"B", "A"}})
	require.NoError(t, err)
	assert.False(t, cyclic)

	_, err = IsAcyclic(nodesFromIDs("A"), []Edge{{"A", "B"}})
	assert.Error(t, err)
}
