package clips

import (
	"fmt"
	"sync"
	"time"
)

// Registry is the process-wide job table. Keys are append-only; each entry is
// written only by the goroutine driving that job, while status requests read
// concurrently. Reads return snapshot copies so callers never hold a
// reference the owning goroutine could race against.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Create registers a new job in the processing state.
func (r *Registry) Create(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id] = &Job{
		ID:        id,
		State:     JobStateProcessing,
		CreatedAt: time.Now(),
	}
}

// Get returns a snapshot of the job, or false if the id is unknown.
func (r *Registry) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}

	snapshot := *job
	if job.Clips != nil {
		snapshot.Clips = make([]ProcessedClip, len(job.Clips))
		copy(snapshot.Clips, job.Clips)
	}
	return snapshot, true
}

// SetMessage updates the progress message of a still-processing job.
func (r *Registry) SetMessage(id, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.State != JobStateProcessing {
		return
	}
	job.Message = message
}

// Complete moves the job to its terminal completed state with its final clip
// set and optional highlight ref.
func (r *Registry) Complete(id string, processed []ProcessedClip, highlights string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.State != JobStateProcessing {
		return
	}
	job.State = JobStateCompleted
	job.Message = "Processing completed successfully"
	job.Clips = processed
	job.Highlights = highlights
}

// Fail moves the job to its terminal failed state. Clips and highlights stay
// at their defaults.
func (r *Registry) Fail(id, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.State != JobStateProcessing {
		return
	}
	job.State = JobStateFailed
	job.Error = errMsg
	job.Message = fmt.Sprintf("Processing failed: %s", errMsg)
}
