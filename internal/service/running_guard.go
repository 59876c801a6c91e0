package service

import (
	"context"
	"sync"
)

// jobRuns tracks background maintenance jobs (history pruning) by name so a
// cron tick never overlaps a prune that is still walking the collections,
// and shutdown can wait for the one in flight.
type jobRuns struct {
	mu      sync.Mutex
	running map[string]chan struct{}
}

// begin claims job. It reports false when a run of job is already active.
func (r *jobRuns) begin(job string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.running[job]; busy {
		return false
	}
	if r.running == nil {
		r.running = make(map[string]chan struct{})
	}
	r.running[job] = make(chan struct{})
	return true
}

// end releases job and wakes anyone waiting on it.
func (r *jobRuns) end(job string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if done, ok := r.running[job]; ok {
		close(done)
		delete(r.running, job)
	}
}

// wait blocks until the runs active at call time finish. It returns false
// if ctx ended first.
func (r *jobRuns) wait(ctx context.Context) bool {
	r.mu.Lock()
	pending := make([]chan struct{}, 0, len(r.running))
	for _, done := range r.running {
		pending = append(pending, done)
	}
	r.mu.Unlock()

	for _, done := range pending {
		select {
		case <-done:
		case <-ctx.Done():
			return false
		}
	}
	return true
}
