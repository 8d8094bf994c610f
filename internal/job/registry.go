package job

import (
	"context"
	"sync"

	"github.com/sells-group/bureau-etl/internal/model"
)

// Handle tracks one running or finished job: its latest progress and, once
// terminal, its result.
type Handle struct {
	ID string

	cancel context.CancelFunc

	mu       sync.RWMutex
	progress model.Progress
	result   *model.JobResult
}

// SetProgress records the latest progress update.
func (h *Handle) SetProgress(p model.Progress) {
	h.mu.Lock()
	h.progress = p
	h.mu.Unlock()
}

// Complete records the final result.
func (h *Handle) Complete(res model.JobResult) {
	h.mu.Lock()
	h.result = &res
	h.mu.Unlock()
}

// Snapshot returns the current progress and, when finished, the result.
func (h *Handle) Snapshot() (model.Progress, *model.JobResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.progress, h.result
}

// Registry tracks jobs by id so the API collaborator can poll progress and
// request cancellation.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: map[string]*Handle{}}
}

// Register adds a job and its cancel function.
func (r *Registry) Register(id string, cancel context.CancelFunc) *Handle {
	h := &Handle{ID: id, cancel: cancel}
	r.mu.Lock()
	r.jobs[id] = h
	r.mu.Unlock()
	return h
}

// Get returns a job handle by id.
func (r *Registry) Get(id string) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.jobs[id]
	return h, ok
}

// Cancel signals the job's context. The effect is best-effort: the
// orchestrator observes it at the next batch boundary, so at most one
// in-flight batch completes afterwards. Returns false for unknown ids.
func (r *Registry) Cancel(id string) bool {
	r.mu.RLock()
	h, ok := r.jobs[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	h.cancel()
	return true
}
