package analytics_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/meshlytics/analytics"
	"github.com/katalvlaran/meshlytics/centrality"
	"github.com/katalvlaran/meshlytics/topology"
)

// triangle returns a snapshot of a weighted 3-cycle tagged by w.
func triangle(t *testing.T, w float64) *topology.Snapshot {
	t.Helper()
	b := topology.NewBuilder()
	require.NoError(t, b.SetLink("a", "b", w))
	require.NoError(t, b.SetLink("b", "c", w))
	require.NoError(t, b.SetLink("c", "a", w))
	s, err := b.Snapshot(topology.DefaultSpectrumOptions())
	require.NoError(t, err)
	return s
}

func compute(t *testing.T, s *topology.Snapshot) *centrality.Result {
	t.Helper()
	r, err := centrality.Compute(s, centrality.Parameters{"T": 2})
	require.NoError(t, err)
	return r
}

func TestStateSetGetClear(t *testing.T) {
	st := analytics.NewState()
	_, ok := st.Get()
	require.False(t, ok)

	snap := triangle(t, 1)
	res := compute(t, snap)
	set := st.Set(snap, res)
	require.NotEqual(t, uuid.Nil, set.ID)
	require.False(t, set.ComputedAt.IsZero())

	got, ok := st.Get()
	require.True(t, ok)
	require.Same(t, snap, got.Snapshot)
	require.Same(t, res, got.Result)
	require.Equal(t, set.ID, got.ID)

	require.True(t, st.Clear())
	_, ok = st.Get()
	require.False(t, ok)
	require.False(t, st.Clear())
}

func TestStateZeroValue(t *testing.T) {
	var st analytics.State
	_, ok := st.Get()
	require.False(t, ok)
}

func TestStateInstallKeepsIDAndCopiesParams(t *testing.T) {
	st := analytics.NewState()
	id := uuid.New()
	params := centrality.Parameters{"T": 3}
	st.Install(analytics.Entry{ID: id, Params: params})
	params["T"] = 9

	got, ok := st.Get()
	require.True(t, ok)
	require.Equal(t, id, got.ID)
	require.Equal(t, 3.0, got.Params["T"])
}

func TestStateLastWriterWins(t *testing.T) {
	st := analytics.NewState()
	a, b := triangle(t, 1), triangle(t, 2)
	ra, rb := compute(t, a), compute(t, b)

	st.Set(a, ra)
	st.Set(b, rb)
	got, _ := st.Get()
	require.Same(t, b, got.Snapshot)
}

// TestStateConcurrentSetsNeverMix checks that concurrent writers leave
// exactly one of the submitted pairs, and that readers never observe a
// snapshot paired with another writer's result.
func TestStateConcurrentSetsNeverMix(t *testing.T) {
	st := analytics.NewState()
	const writers = 8
	snaps := make([]*topology.Snapshot, writers)
	results := make([]*centrality.Result, writers)
	pair := make(map[*topology.Snapshot]*centrality.Result, writers)
	for i := range snaps {
		snaps[i] = triangle(t, float64(i+1))
		results[i] = compute(t, snaps[i])
		pair[snaps[i]] = results[i]
	}

	var wg sync.WaitGroup
	errs := make(chan error, writers*100)
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				st.Set(snaps[i], results[i])
				if k%10 == 0 {
					st.Clear()
				}
			}
		}(i)
		go func() {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				if e, ok := st.Get(); ok && pair[e.Snapshot] != e.Result {
					errs <- fmt.Errorf("torn entry %s", e.ID)
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	st.Set(snaps[0], results[0])
	var final sync.WaitGroup
	for i := 0; i < 2; i++ {
		final.Add(1)
		go func(i int) {
			defer final.Done()
			st.Set(snaps[i], results[i])
		}(i)
	}
	final.Wait()
	got, ok := st.Get()
	require.True(t, ok)
	require.Contains(t, []*topology.Snapshot{snaps[0], snaps[1]}, got.Snapshot)
	require.Same(t, pair[got.Snapshot], got.Result)
}
