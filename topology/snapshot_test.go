package topology_test

import (
	"math"
	"testing"
	"time"

	"github.com/katalvlaran/meshlytics/matrix"
	"github.com/katalvlaran/meshlytics/topology"
	"github.com/stretchr/testify/require"
)

func mapping(t *testing.T, ids ...topology.NodeID) *topology.IndexMapping {
	t.Helper()
	m, err := topology.NewIndexMapping(ids)
	require.NoError(t, err)
	return m
}

func dense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewDenseFromRows(rows)
	require.NoError(t, err)
	return d
}

func TestNewSnapshotCopiesInputs(t *testing.T) {
	adj := dense(t, [][]float64{{0, 1}, {1, 0}})
	eigs := []float64{1, -1}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s, err := topology.NewSnapshot(mapping(t, "a", "b"), adj, eigs, topology.WithCapturedAt(at))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	require.Equal(t, at, s.CapturedAt())

	require.NoError(t, adj.Set(0, 1, 9))
	eigs[0] = 9
	v, err := s.Adjacency().At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
	require.Equal(t, []float64{1, -1}, s.Eigenvalues())

	// accessor copies are private too
	got := s.Adjacency()
	require.NoError(t, got.Set(0, 1, 7))
	v, _ = s.Adjacency().At(0, 1)
	require.Equal(t, 1.0, v)
}

func TestNewSnapshotValidation(t *testing.T) {
	_, err := topology.NewSnapshot(nil, dense(t, [][]float64{{0}}), nil)
	require.ErrorIs(t, err, topology.ErrNoNodes)

	_, err = topology.NewSnapshot(mapping(t, "a", "b"), dense(t, [][]float64{{0, 1, 0}, {1, 0, 0}}), nil)
	require.ErrorIs(t, err, topology.ErrDimension)
	require.ErrorIs(t, err, matrix.ErrNonSquare)

	_, err = topology.NewSnapshot(mapping(t, "a", "b"), dense(t, [][]float64{{0}}), nil)
	require.ErrorIs(t, err, topology.ErrDimension)

	_, err = topology.NewSnapshot(mapping(t, "a", "b"), dense(t, [][]float64{{0, 1}, {1, 0}}), []float64{1})
	require.ErrorIs(t, err, topology.ErrDimension)

	_, err = topology.NewSnapshot(mapping(t, "a", "b"), dense(t, [][]float64{{0, 1}, {1, 0}}), []float64{1, math.NaN()})
	require.ErrorIs(t, err, topology.ErrNonFinite)

	s, err := topology.NewSnapshot(mapping(t, "a", "b"), dense(t, [][]float64{{0, 1}, {1, 0}}), nil)
	require.NoError(t, err)
	require.Empty(t, s.Eigenvalues())
}

func TestFingerprint(t *testing.T) {
	a1, err := topology.NewSnapshot(mapping(t, "a", "b"), dense(t, [][]float64{{0, 1}, {1, 0}}), nil)
	require.NoError(t, err)
	a2, err := topology.NewSnapshot(mapping(t, "a", "b"), dense(t, [][]float64{{0, 1}, {1, 0}}), []float64{1, -1})
	require.NoError(t, err)
	b, err := topology.NewSnapshot(mapping(t, "a", "c"), dense(t, [][]float64{{0, 1}, {1, 0}}), nil)
	require.NoError(t, err)
	c, err := topology.NewSnapshot(mapping(t, "a", "b"), dense(t, [][]float64{{0, 2}, {1, 0}}), nil)
	require.NoError(t, err)

	require.Len(t, a1.Fingerprint(), 16)
	require.Equal(t, a1.Fingerprint(), a2.Fingerprint())
	require.NotEqual(t, a1.Fingerprint(), b.Fingerprint())
	require.NotEqual(t, a1.Fingerprint(), c.Fingerprint())
}
