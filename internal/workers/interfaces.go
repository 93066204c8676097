// Package workers runs the background jobs of the auth core: the periodic
// snapshot of the in-memory stores and the content cascade signal emitters.
package workers

import "context"

// Worker is a background job with an explicit lifecycle.
//
// Run starts the job and returns immediately; the job keeps going until ctx
// is cancelled or Stop is called. Stop blocks until the job has fully exited
// and is safe to call on a worker that never ran.
type Worker interface {
	Run(ctx context.Context)
	Stop()
}

// Cascader emits the "delete everything authored by userID" signal to the
// external content store.
type Cascader interface {
	CascadeDelete(ctx context.Context, userID string) error
	Close() error
}
