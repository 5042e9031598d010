// SPDX-License-Identifier: MIT

package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/meshlytics/centrality"
	"github.com/katalvlaran/meshlytics/metrics"
	"github.com/katalvlaran/meshlytics/topology"
)

// Service refreshes and invalidates a State.
type Service struct {
	state    *State
	recorder *metrics.Recorder
	logger   *slog.Logger

	mu     sync.Mutex // guards params
	params centrality.Parameters

	// computed runs between a successful computation and the ctx check.
	computed func()
}

// Option customizes NewService.
type Option func(*Service)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder (default none).
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithState shares an existing State instead of a fresh one.
func WithState(st *State) Option {
	return func(s *Service) {
		if st != nil {
			s.state = st
		}
	}
}

// NewService validates params and returns a Service with an empty State.
//
// Errors:
//   - centrality.ErrConfiguration for a non-finite value or an unusable depth.
func NewService(params centrality.Parameters, opts ...Option) (*Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		state:  NewState(),
		logger: slog.Default(),
		params: params.Clone(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// State returns the underlying slot.
func (s *Service) State() *State { return s.state }

// Parameters returns a copy of the parameters used by future refreshes.
func (s *Service) Parameters() centrality.Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.params.Clone()
}

// SetParameters replaces the parameters for future refreshes.
// The installed entry keeps the parameters it was computed with.
func (s *Service) SetParameters(params centrality.Parameters) error {
	if err := params.Validate(); err != nil {
		return err
	}
	depth, _ := params.Depth()
	s.mu.Lock()
	s.params = params.Clone()
	s.mu.Unlock()

	s.logger.Info("analytics parameters updated", "depth", depth, "params", params.String())

	return nil
}

// Current returns the installed entry, or false when empty.
func (s *Service) Current() (Entry, bool) { return s.state.Get() }

// Refresh computes diffusion centrality for snapshot and installs it.
//
// Implementation:
//   - Stage 1: copy the parameters; nothing is locked while computing.
//   - Stage 2: centrality.Compute.
//   - Stage 3: if ctx is done by now, drop the result (ErrDiscarded).
//   - Stage 4: install; only this step touches the State lock.
//
// On any error the State is left as it was. The ctx check in stage 3 and
// the install are separate steps: a cancellation landing between them
// does not stop the install, and the entry is returned without error.
func (s *Service) Refresh(ctx context.Context, snapshot *topology.Snapshot) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrDiscarded, err)
	}
	params := s.Parameters()

	start := time.Now()
	res, err := centrality.Compute(snapshot, params)
	elapsed := time.Since(start)
	if err != nil {
		kind := centrality.Kind(err)
		s.recorder.ObserveComputation(metrics.StatusError, kind, elapsed)
		s.logger.Warn("centrality computation failed", "kind", kind, "elapsed", elapsed, "err", err)
		return Entry{}, err
	}
	if s.computed != nil {
		s.computed()
	}
	if err = ctx.Err(); err != nil {
		s.recorder.ObserveComputation(metrics.StatusDiscarded, "", elapsed)
		s.logger.Info("centrality result discarded", "fingerprint", snapshot.Fingerprint(), "err", err)
		return Entry{}, fmt.Errorf("%w: %w", ErrDiscarded, err)
	}

	entry := s.state.Install(Entry{
		ID:         uuid.New(),
		Snapshot:   snapshot,
		Result:     res,
		Params:     params,
		ComputedAt: time.Now(),
	})
	s.recorder.ObserveComputation(metrics.StatusOK, "", elapsed)
	s.recorder.ObserveInstall(res.Len())
	s.logger.Info("analytics refreshed",
		"entry_id", entry.ID,
		"nodes", res.Len(),
		"fingerprint", snapshot.Fingerprint(),
		"elapsed", elapsed,
	)

	return entry, nil
}

// Invalidate clears the State, e.g. when the topology source went away.
// It reports whether an entry was removed.
func (s *Service) Invalidate(reason string) bool {
	removed := s.state.Clear()
	s.recorder.ObserveClear(removed)
	s.logger.Info("analytics invalidated", "reason", reason, "removed", removed)

	return removed
}
