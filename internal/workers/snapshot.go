// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-blog-auth/internal/logger"
	"github.com/MKhiriev/go-blog-auth/internal/store"
)

const (
	defaultSnapshotInterval = time.Minute
	finalSnapshotTimeout    = 5 * time.Second
)

// SnapshotWorker periodically writes the users and sessions to a JSON file
// and writes one last snapshot when it stops.
type SnapshotWorker struct {
	path     string
	interval time.Duration
	users    store.UserRepository
	sessions store.SessionRepository
	logger   *logger.Logger

	save func(ctx context.Context, path string, users store.UserRepository, sessions store.SessionRepository) error

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSnapshotWorker creates an idle worker for path. An interval of zero or
// less defaults to one minute.
func NewSnapshotWorker(path string, interval time.Duration, users store.UserRepository, sessions store.SessionRepository, log *logger.Logger) *SnapshotWorker {
	if interval <= 0 {
		interval = defaultSnapshotInterval
	}
	return &SnapshotWorker{
		path:     path,
		interval: interval,
		users:    users,
		sessions: sessions,
		logger:   log.WithField("worker", "snapshot"),
		save:     store.SaveSnapshot,
	}
}

// Run implements [Worker]. A running worker is stopped first.
func (w *SnapshotWorker) Run(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	w.logger.Info().Str("path", w.path).Dur("interval", w.interval).Msg("snapshot worker started")

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				finalCtx, cancel := context.WithTimeout(context.WithoutCancel(jobCtx), finalSnapshotTimeout)
				w.snapshot(finalCtx)
				cancel()
				w.logger.Info().Msg("snapshot worker stopped")
				return
			case <-t.C:
				w.snapshot(jobCtx)
			}
		}
	}()
}

// Stop implements [Worker].
func (w *SnapshotWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// snapshot writes one snapshot. Failures are logged and the next tick tries
// again.
func (w *SnapshotWorker) snapshot(ctx context.Context) {
	start := time.Now()
	if err := w.save(ctx, w.path, w.users, w.sessions); err != nil {
		w.logger.Err(err).Str("path", w.path).Msg("snapshot failed")
		return
	}
	w.logger.Debug().Str("path", w.path).Dur("took", time.Since(start)).Msg("snapshot written")
}
