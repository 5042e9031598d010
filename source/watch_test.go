package source_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/meshlytics/source"
	"github.com/katalvlaran/meshlytics/topology"
)

const squareYAML = `
links:
  - {from: a, to: b}
  - {from: b, to: c}
  - {from: c, to: d}
  - {from: d, to: a}
`

func TestWatchReloadAndRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(triangleYAML), 0o600))

	snaps := make(chan *topology.Snapshot, 8)
	removed := make(chan struct{}, 8)
	h := source.HandlerFuncs{
		Snapshot: func(s *topology.Snapshot) { snaps <- s },
		Removed:  func() { removed <- struct{}{} },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- source.Watch(ctx, path, h, source.WatchOptions{
			Spectrum: topology.DefaultSpectrumOptions(),
			Debounce: 20 * time.Millisecond,
			Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		})
	}()
	time.Sleep(100 * time.Millisecond) // let the watcher register

	// unrelated files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))

	require.NoError(t, os.WriteFile(path, []byte(squareYAML), 0o600))
	select {
	case s := <-snaps:
		require.Equal(t, 4, s.Len())
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}

	// broken document: logged, handler untouched
	require.NoError(t, os.WriteFile(path, []byte("nodes: [a"), 0o600))
	select {
	case <-snaps:
		t.Fatal("broken document must not be delivered")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.Remove(path))
	select {
	case <-removed:
	case <-time.After(5 * time.Second):
		t.Fatal("no removal")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatchRejectsUnknownFormat(t *testing.T) {
	err := source.Watch(context.Background(), "mesh.txt", source.HandlerFuncs{}, source.WatchOptions{})
	require.ErrorIs(t, err, source.ErrUnknownFormat)
}
