package client

import (
	"context"
	"net/http"
	"net/url"

	"kaambuddy/internal/domain"
)

type CreateJobRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Budget      float64 `json:"budget"`
	Location    string  `json:"location,omitempty"`
}

type UpdateJobRequest struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Budget      float64 `json:"budget,omitempty"`
	Location    string  `json:"location,omitempty"`
}

// JobFilters narrows ListJobs; empty fields are omitted from the query.
type JobFilters struct {
	Category string
	Location string
}

func (f JobFilters) query() string {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) CreateJob(ctx context.Context, req CreateJobRequest) (*domain.Job, error) {
	env, err := c.do(ctx, http.MethodPost, "/jobs", req)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Failed to create job")
	}
	var job domain.Job
	if err := decode(env, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) ListJobs(ctx context.Context, filters JobFilters) ([]domain.Job, error) {
	env, err := c.do(ctx, http.MethodGet, "/jobs"+filters.query(), nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Failed to fetch jobs")
	}
	var jobs []domain.Job
	if err := decode(env, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	env, err := c.do(ctx, http.MethodGet, "/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Failed to fetch job")
	}
	var job domain.Job
	if err := decode(env, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) UpdateJob(ctx context.Context, jobID string, req UpdateJobRequest) (*domain.Job, error) {
	env, err := c.do(ctx, http.MethodPut, "/jobs/"+jobID, req)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Failed to update job")
	}
	var job domain.Job
	if err := decode(env, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) CancelJob(ctx context.Context, jobID string) error {
	env, err := c.do(ctx, http.MethodDelete, "/jobs/"+jobID, nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return domainError(env.errMessage(), "Failed to cancel job")
	}
	return nil
}

// UserJobs returns the jobs posted by the authenticated customer.
func (c *Client) UserJobs(ctx context.Context) ([]domain.Job, error) {
	env, err := c.do(ctx, http.MethodGet, "/jobs/user/me", nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, domainError(env.errMessage(), "Failed to fetch user jobs")
	}
	var jobs []domain.Job
	if err := decode(env, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
