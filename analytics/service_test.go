package analytics_test

import (
	"context"
	"io"
	"math"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/meshlytics/analytics"
	"github.com/katalvlaran/meshlytics/centrality"
	"github.com/katalvlaran/meshlytics/matrix"
	"github.com/katalvlaran/meshlytics/metrics"
	"github.com/katalvlaran/meshlytics/topology"
)

func newService(t *testing.T, params centrality.Parameters) (*analytics.Service, *metrics.Recorder) {
	t.Helper()
	rec := metrics.New()
	svc, err := analytics.NewService(params,
		analytics.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		analytics.WithRecorder(rec),
	)
	require.NoError(t, err)
	return svc, rec
}

func isolated(t *testing.T) *topology.Snapshot {
	t.Helper()
	m, err := topology.NewIndexMapping([]topology.NodeID{"a", "b", "c"})
	require.NoError(t, err)
	adj, err := matrix.NewDenseFromRows([][]float64{{0, 1, 0}, {1, 0, 0}, {0, 0, 0}})
	require.NoError(t, err)
	s, err := topology.NewSnapshot(m, adj, []float64{1, 0, -1})
	require.NoError(t, err)
	return s
}

func gaugeValue(t *testing.T, rec *metrics.Recorder, name string) float64 {
	t.Helper()
	families, err := rec.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return -1
}

func statusCount(t *testing.T, rec *metrics.Recorder, status string) float64 {
	t.Helper()
	families, err := rec.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "meshlytics_centrality_computations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "status" && l.GetValue() == status {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestNewServiceRejectsBadDepth(t *testing.T) {
	_, err := analytics.NewService(centrality.Parameters{"T": 0})
	require.ErrorIs(t, err, centrality.ErrConfiguration)
}

func TestNewServiceRejectsNonFiniteOption(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := analytics.NewService(centrality.Parameters{"T": 1, "alpha": v})
		require.ErrorIs(t, err, centrality.ErrConfiguration, "alpha=%v", v)
	}
}

func TestRefreshInstalls(t *testing.T) {
	svc, rec := newService(t, centrality.Parameters{"T": 1})
	snap := triangle(t, 1)

	e, err := svc.Refresh(context.Background(), snap)
	require.NoError(t, err)
	require.Same(t, snap, e.Snapshot)
	require.Equal(t, 1.0, e.Params["T"])

	cur, ok := svc.Current()
	require.True(t, ok)
	require.Equal(t, e.ID, cur.ID)
	v, _ := cur.Result.Score("a", "b")
	require.InDelta(t, 0.5, v, 1e-9)
	require.Equal(t, 3.0, gaugeValue(t, rec, "meshlytics_state_nodes"))
	require.Equal(t, 1.0, gaugeValue(t, rec, "meshlytics_state_present"))
}

func TestRefreshFailureKeepsPrevious(t *testing.T) {
	svc, _ := newService(t, nil)
	first, err := svc.Refresh(context.Background(), triangle(t, 1))
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), isolated(t))
	require.ErrorIs(t, err, centrality.ErrDegenerateGraph)

	_, err = svc.Refresh(context.Background(), nil)
	require.ErrorIs(t, err, centrality.ErrDimension)

	cur, ok := svc.Current()
	require.True(t, ok)
	require.Equal(t, first.ID, cur.ID)
}

func TestRefreshCanceledIsDiscarded(t *testing.T) {
	svc, _ := newService(t, nil)
	first, err := svc.Refresh(context.Background(), triangle(t, 1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Refresh(ctx, triangle(t, 2))
	require.ErrorIs(t, err, analytics.ErrDiscarded)
	require.ErrorIs(t, err, context.Canceled)

	cur, _ := svc.Current()
	require.Equal(t, first.ID, cur.ID)
}

func TestRefreshCanceledDuringComputeIsDiscarded(t *testing.T) {
	svc, rec := newService(t, nil)
	first, err := svc.Refresh(context.Background(), triangle(t, 1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	analytics.SetComputedHook(svc, cancel)

	_, err = svc.Refresh(ctx, triangle(t, 2))
	require.ErrorIs(t, err, analytics.ErrDiscarded)
	require.ErrorIs(t, err, context.Canceled)

	cur, ok := svc.Current()
	require.True(t, ok)
	require.Equal(t, first.ID, cur.ID)
	require.Equal(t, 1.0, statusCount(t, rec, metrics.StatusDiscarded))
	require.Equal(t, 1.0, statusCount(t, rec, metrics.StatusOK))
}

func TestInvalidate(t *testing.T) {
	svc, rec := newService(t, nil)
	require.False(t, svc.Invalidate("nothing yet"))

	_, err := svc.Refresh(context.Background(), triangle(t, 1))
	require.NoError(t, err)
	require.True(t, svc.Invalidate("device disconnected"))

	_, ok := svc.Current()
	require.False(t, ok)
	require.Equal(t, 0.0, gaugeValue(t, rec, "meshlytics_state_present"))
}

func TestSetParameters(t *testing.T) {
	svc, _ := newService(t, centrality.Parameters{"T": 1})
	first, err := svc.Refresh(context.Background(), triangle(t, 1))
	require.NoError(t, err)

	require.ErrorIs(t, svc.SetParameters(centrality.Parameters{"T": 1.5}), centrality.ErrConfiguration)
	require.ErrorIs(t, svc.SetParameters(centrality.Parameters{"T": 2, "alpha": math.NaN()}), centrality.ErrConfiguration)
	require.Equal(t, 1.0, svc.Parameters()["T"])

	require.NoError(t, svc.SetParameters(centrality.Parameters{"T": 2}))
	require.Equal(t, 1.0, first.Params["T"])

	second, err := svc.Refresh(context.Background(), triangle(t, 1))
	require.NoError(t, err)
	require.Equal(t, 2.0, second.Params["T"])
	v, _ := second.Result.Score("a", "a")
	require.InDelta(t, 2.0, v, 1e-9)
}

func TestWithStateShares(t *testing.T) {
	st := analytics.NewState()
	svc, err := analytics.NewService(nil, analytics.WithState(st))
	require.NoError(t, err)
	require.Same(t, st, svc.State())
}
