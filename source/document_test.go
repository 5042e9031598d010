package source_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/meshlytics/source"
	"github.com/katalvlaran/meshlytics/topology"
)

const triangleYAML = `
nodes: [gw, relay, leaf]
links:
  - {from: gw, to: relay, weight: 1}
  - {from: relay, to: leaf}
  - {from: leaf, to: gw, weight: 1}
`

const triangleTOML = `
nodes = ["gw", "relay", "leaf"]

[[links]]
from = "gw"
to = "relay"
weight = 1.0

[[links]]
from = "relay"
to = "leaf"

[[links]]
from = "leaf"
to = "gw"
`

const triangleJSON = `{
  "nodes": ["gw", "relay", "leaf"],
  "adjacency": [[0, 1, 1], [1, 0, 1], [1, 1, 0]]
}`

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]source.Format{
		"a.yaml": source.FormatYAML,
		"b.YML":  source.FormatYAML,
		"c.toml": source.FormatTOML,
		"d.json": source.FormatJSON,
	} {
		got, err := source.FormatFromPath(path)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := source.FormatFromPath("e.txt")
	require.ErrorIs(t, err, source.ErrUnknownFormat)
}

func TestDecodeAllFormats(t *testing.T) {
	cases := []struct {
		format source.Format
		data   string
	}{
		{source.FormatYAML, triangleYAML},
		{source.FormatTOML, triangleTOML},
		{source.FormatJSON, triangleJSON},
	}
	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			doc, err := source.Decode([]byte(tc.data), tc.format)
			require.NoError(t, err)
			require.Equal(t, []string{"gw", "relay", "leaf"}, doc.Nodes)

			snap, err := doc.Snapshot(topology.DefaultSpectrumOptions())
			require.NoError(t, err)
			require.Equal(t, 3, snap.Len())
			require.InDelta(t, 2.0, snap.Eigenvalues()[0], 1e-9)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := source.Decode([]byte("nodes: [a"), source.FormatYAML)
	require.ErrorIs(t, err, source.ErrDecode)

	_, err = source.Decode([]byte(`{"nodes":["a"],"bogus":1}`), source.FormatJSON)
	require.ErrorIs(t, err, source.ErrDecode)

	_, err = source.Decode([]byte("x"), source.Format("ini"))
	require.ErrorIs(t, err, source.ErrUnknownFormat)
}

func TestDocumentSnapshotRules(t *testing.T) {
	w := 2.0
	amb := &source.Document{
		Nodes:     []string{"a", "b"},
		Links:     []source.LinkSpec{{From: "a", To: "b", Weight: &w}},
		Adjacency: [][]float64{{0, 1}, {1, 0}},
	}
	_, err := amb.Snapshot(topology.DefaultSpectrumOptions())
	require.ErrorIs(t, err, source.ErrAmbiguousDocument)

	unknown := &source.Document{Nodes: []string{"a"}, Links: []source.LinkSpec{{From: "a", To: "z"}}}
	_, err = unknown.Snapshot(topology.DefaultSpectrumOptions())
	require.ErrorIs(t, err, topology.ErrUnknownNode)

	short := &source.Document{Nodes: []string{"a"}, Adjacency: [][]float64{{0, 1}, {1, 0}}}
	_, err = short.Snapshot(topology.DefaultSpectrumOptions())
	require.ErrorIs(t, err, source.ErrInvalidDocument)

	empty := &source.Document{}
	_, err = empty.Snapshot(topology.DefaultSpectrumOptions())
	require.ErrorIs(t, err, topology.ErrNoNodes)
}

func TestDocumentDirectedAndGivenSpectrum(t *testing.T) {
	doc := &source.Document{
		Directed:    true,
		Links:       []source.LinkSpec{{From: "x", To: "y"}, {From: "y", To: "z"}, {From: "z", To: "x"}},
		Eigenvalues: []float64{1, -0.5, -0.5},
	}
	snap, err := doc.Snapshot(topology.DefaultSpectrumOptions())
	require.NoError(t, err)
	require.Equal(t, []float64{1, -0.5, -0.5}, snap.Eigenvalues())
	require.Equal(t, [][]float64{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}}, snap.Adjacency().Rows2D())
}

func TestAdjacencyKeepsNodeOrder(t *testing.T) {
	doc, err := source.Decode([]byte(`{"nodes":["z","a"],"adjacency":[[0,3],[1,0]],"eigenvalues":[1.7320508075688772,-1.7320508075688772]}`), source.FormatJSON)
	require.NoError(t, err)
	snap, err := doc.Snapshot(topology.DefaultSpectrumOptions())
	require.NoError(t, err)
	require.Equal(t, []topology.NodeID{"z", "a"}, snap.Mapping().IDs())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(triangleYAML), 0o600))

	snap, err := source.Load(path, topology.DefaultSpectrumOptions())
	require.NoError(t, err)
	require.Equal(t, []topology.NodeID{"gw", "leaf", "relay"}, snap.Mapping().IDs())

	_, err = source.Load(filepath.Join(dir, "missing.yaml"), topology.DefaultSpectrumOptions())
	require.Error(t, err)

	_, err = source.Load(filepath.Join(dir, "mesh.txt"), topology.DefaultSpectrumOptions())
	require.ErrorIs(t, err, source.ErrUnknownFormat)
}
