package topology_test

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/katalvlaran/meshlytics/matrix"
	"github.com/katalvlaran/meshlytics/topology"
	"github.com/stretchr/testify/require"
)

func TestBuilderUndirectedMirrorsLinks(t *testing.T) {
	b := topology.NewBuilder()
	require.False(t, b.Directed())
	require.NoError(t, b.SetLink("a", "b", 2))

	w, ok := b.Link("b", "a")
	require.True(t, ok)
	require.Equal(t, 2.0, w)
	require.Equal(t, 2, b.NodeCount())
	require.Equal(t, []topology.Link{
		{From: "a", To: "b", Weight: 2},
		{From: "b", To: "a", Weight: 2},
	}, b.Links())

	require.True(t, b.RemoveLink("b", "a"))
	_, ok = b.Link("a", "b")
	require.False(t, ok)
	require.False(t, b.RemoveLink("a", "b"))
}

func TestBuilderDirected(t *testing.T) {
	b := topology.NewBuilder(topology.WithDirected())
	require.True(t, b.Directed())
	require.NoError(t, b.SetLink("a", "b", 1))

	_, ok := b.Link("b", "a")
	require.False(t, ok)
}

func TestBuilderRejects(t *testing.T) {
	b := topology.NewBuilder()
	require.ErrorIs(t, b.AddNode(""), topology.ErrEmptyNodeID)
	require.ErrorIs(t, b.SetLink("", "b", 1), topology.ErrEmptyNodeID)
	require.ErrorIs(t, b.SetLink("a", "a", 1), topology.ErrSelfLoop)
	require.ErrorIs(t, b.SetLink("a", "b", math.NaN()), topology.ErrInvalidWeight)
	require.ErrorIs(t, b.SetLink("a", "b", math.Inf(1)), topology.ErrInvalidWeight)
	require.Zero(t, b.NodeCount())

	_, err := b.Snapshot(topology.DefaultSpectrumOptions())
	require.ErrorIs(t, err, topology.ErrNoNodes)
}

func TestBuilderRemoveNodeDropsLinks(t *testing.T) {
	b := topology.NewBuilder()
	require.NoError(t, b.SetLink("a", "b", 1))
	require.NoError(t, b.SetLink("b", "c", 1))

	require.True(t, b.RemoveNode("b"))
	require.False(t, b.RemoveNode("b"))
	require.Equal(t, 2, b.NodeCount())
	require.Empty(t, b.Links())
}

func TestBuilderSnapshotTriangle(t *testing.T) {
	b := topology.NewBuilder()
	require.NoError(t, b.SetLink("c", "a", 1))
	require.NoError(t, b.SetLink("a", "b", 1))
	require.NoError(t, b.SetLink("b", "c", 1))
	require.NoError(t, b.AddNode("d")) // isolated

	s, err := b.Snapshot(topology.DefaultSpectrumOptions())
	require.NoError(t, err)
	require.Equal(t, []topology.NodeID{"a", "b", "c", "d"}, s.Mapping().IDs())
	require.Equal(t, [][]float64{
		{0, 1, 1, 0},
		{1, 0, 1, 0},
		{1, 1, 0, 0},
		{0, 0, 0, 0},
	}, s.Adjacency().Rows2D())

	eigs := s.Eigenvalues()
	require.Len(t, eigs, 4)
	require.InDelta(t, 2.0, eigs[0], 1e-9)
	require.InDelta(t, 0.0, eigs[1], 1e-9)
	require.InDelta(t, -1.0, eigs[2], 1e-9)
	require.InDelta(t, -1.0, eigs[3], 1e-9)
}

func TestBuilderSnapshotSkipSpectrum(t *testing.T) {
	b := topology.NewBuilder(topology.WithDirected())
	require.NoError(t, b.SetLink("a", "b", 1))

	s, err := b.Snapshot(topology.SpectrumOptions{Skip: true})
	require.NoError(t, err)
	require.Empty(t, s.Eigenvalues())
}

func TestFromAdjacencyDirectedCycle(t *testing.T) {
	adj, err := matrix.NewDenseFromRows([][]float64{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}})
	require.NoError(t, err)

	s, err := topology.FromAdjacency(mapping(t, "x", "y", "z"), adj, topology.DefaultSpectrumOptions())
	require.NoError(t, err)
	eigs := s.Eigenvalues()
	require.InDelta(t, 1.0, eigs[0], 1e-6)
	require.InDelta(t, -0.5, eigs[1], 1e-6)
	require.InDelta(t, -0.5, eigs[2], 1e-6)
}

func TestBuilderConcurrentMutation(t *testing.T) {
	b := topology.NewBuilder()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for k := 0; k < 50; k++ {
				from := topology.NodeID(fmt.Sprintf("n%d", g))
				to := topology.NodeID(fmt.Sprintf("n%d", (g+1)%8))
				_ = b.SetLink(from, to, float64(k+1))
				_, _ = b.Link(to, from)
				_ = b.NodeCount()
			}
		}(g)
	}
	wg.Wait()

	require.Equal(t, 8, b.NodeCount())
	_, err := b.Snapshot(topology.DefaultSpectrumOptions())
	require.NoError(t, err)
}
