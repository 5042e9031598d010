package topology_test

import (
	"testing"

	"github.com/katalvlaran/meshlytics/topology"
	"github.com/stretchr/testify/require"
)

func TestNewIndexMapping(t *testing.T) {
	ids := []topology.NodeID{"gw", "relay", "leaf"}
	m, err := topology.NewIndexMapping(ids)
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())

	ids[0] = "mutated"
	id, ok := m.ID(0)
	require.True(t, ok)
	require.Equal(t, topology.NodeID("gw"), id)

	for i, want := range []topology.NodeID{"gw", "relay", "leaf"} {
		idx, ok := m.Index(want)
		require.True(t, ok)
		require.Equal(t, i, idx)
	}

	_, ok = m.ID(3)
	require.False(t, ok)
	_, ok = m.Index("missing")
	require.False(t, ok)

	out := m.IDs()
	out[1] = "x"
	require.Equal(t, []topology.NodeID{"gw", "relay", "leaf"}, m.IDs())
}

func TestNewIndexMappingErrors(t *testing.T) {
	_, err := topology.NewIndexMapping(nil)
	require.ErrorIs(t, err, topology.ErrNoNodes)

	_, err = topology.NewIndexMapping([]topology.NodeID{"a", ""})
	require.ErrorIs(t, err, topology.ErrEmptyNodeID)

	_, err = topology.NewIndexMapping([]topology.NodeID{"a", "b", "a"})
	require.ErrorIs(t, err, topology.ErrDuplicateNode)
}
