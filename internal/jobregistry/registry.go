package jobregistry

import (
	"context"
	"sync"

	"kaambuddy/internal/client"
	"kaambuddy/internal/domain"

	"go.uber.org/zap"
)

// Registry caches job postings in two views: jobs (all open postings, the
// worker's browse list) and mine (the customer's own postings). Lists are
// server-derived; Create inserts only after the server confirms.
type Registry struct {
	api *client.Client
	log *zap.Logger

	mu   sync.Mutex
	jobs []domain.Job
	mine []domain.Job
}

func NewRegistry(api *client.Client, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{api: api, log: log}
}

func (r *Registry) Jobs() []domain.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Job, len(r.jobs))
	copy(out, r.jobs)
	return out
}

func (r *Registry) Mine() []domain.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Job, len(r.mine))
	copy(out, r.mine)
	return out
}

// Create posts a job and prepends the server-assigned record to the "mine"
// list.
func (r *Registry) Create(ctx context.Context, req client.CreateJobRequest) (*domain.Job, error) {
	job, err := r.api.CreateJob(ctx, req)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.mine = append([]domain.Job{*job}, r.mine...)
	r.mu.Unlock()
	return job, nil
}

// List refreshes the browse list from the server (full replace).
func (r *Registry) List(ctx context.Context, filters client.JobFilters) ([]domain.Job, error) {
	jobs, err := r.api.ListJobs(ctx, filters)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.jobs = jobs
	r.mu.Unlock()
	return jobs, nil
}

// RefreshMine refreshes the customer's own postings (full replace).
func (r *Registry) RefreshMine(ctx context.Context) ([]domain.Job, error) {
	jobs, err := r.api.UserJobs(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.mine = jobs
	r.mu.Unlock()
	return jobs, nil
}

// Get fetches one job without touching the cache.
func (r *Registry) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	return r.api.GetJob(ctx, jobID)
}

// Update applies the server-confirmed record to both lists by id.
func (r *Registry) Update(ctx context.Context, jobID string, req client.UpdateJobRequest) (*domain.Job, error) {
	job, err := r.api.UpdateJob(ctx, jobID, req)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.jobs = replaceByID(r.jobs, *job)
	r.mine = replaceByID(r.mine, *job)
	r.mu.Unlock()
	return job, nil
}

// Cancel removes the job from both lists once the server confirms.
func (r *Registry) Cancel(ctx context.Context, jobID string) error {
	if err := r.api.CancelJob(ctx, jobID); err != nil {
		return err
	}
	r.mu.Lock()
	r.jobs = removeByID(r.jobs, jobID)
	r.mine = removeByID(r.mine, jobID)
	r.mu.Unlock()
	return nil
}

func replaceByID(list []domain.Job, job domain.Job) []domain.Job {
	out := make([]domain.Job, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == job.ID {
			out[i] = job
		}
	}
	return out
}

func removeByID(list []domain.Job, id string) []domain.Job {
	out := make([]domain.Job, 0, len(list))
	for _, j := range list {
		if j.ID != id {
			out = append(out, j)
		}
	}
	return out
}
