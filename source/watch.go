// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/katalvlaran/meshlytics/topology"
)

// DefaultDebounce coalesces bursts of events from editors and atomic saves.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives watch outcomes. Calls are made from the Watch goroutine,
// one at a time.
type Handler interface {
	// OnSnapshot is called with every successfully reloaded document.
	OnSnapshot(snap *topology.Snapshot)
	// OnRemoved is called when the document disappears.
	OnRemoved()
}

// HandlerFuncs adapts two functions to Handler. Nil fields are skipped.
type HandlerFuncs struct {
	Snapshot func(*topology.Snapshot)
	Removed  func()
}

// OnSnapshot implements Handler.
func (h HandlerFuncs) OnSnapshot(snap *topology.Snapshot) {
	if h.Snapshot != nil {
		h.Snapshot(snap)
	}
}

// OnRemoved implements Handler.
func (h HandlerFuncs) OnRemoved() {
	if h.Removed != nil {
		h.Removed()
	}
}

// WatchOptions tunes Watch. Zero values take the defaults.
type WatchOptions struct {
	Spectrum topology.SpectrumOptions
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watch follows the document at path until ctx is done.
//
// The parent directory is watched so that atomic saves (write to a temp
// file, rename over path) and delete/recreate cycles are seen. After a
// quiet period of opts.Debounce the file is re-read: when it exists and
// loads, OnSnapshot is called; when it is gone, OnRemoved is called. A
// reload failure is logged and the handler is not called, so the caller's
// previous snapshot stays in effect.
func Watch(ctx context.Context, path string, h Handler, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if _, err := FormatFromPath(path); err != nil {
		return err
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("source: watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("source: watch: %w", err)
	}
	defer watcher.Close()

	if err = watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("source: watch %s: %w", filepath.Dir(target), err)
	}
	log := opts.Logger.With("path", target)
	log.Info("source: watching for changes")

	timer := time.NewTimer(opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			timer.Reset(opts.Debounce)

		case <-timer.C:
			settle(target, h, opts.Spectrum, log)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("source: watcher error", "err", werr)
		}
	}
}

func settle(path string, h Handler, spectrum topology.SpectrumOptions, log *slog.Logger) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Info("source: document removed")
		h.OnRemoved()
		return
	}
	snap, err := Load(path, spectrum)
	if err != nil {
		log.Error("source: reload failed, keeping previous snapshot", "err", err)
		return
	}
	log.Info("source: reloaded", "nodes", snap.Len(), "fingerprint", snap.Fingerprint())
	h.OnSnapshot(snap)
}
