// Package engine composes the record store, the search pipeline and the analytics
// recorder into the operations served by the API and the CLI.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
)

// Searcher is the query pipeline used by the engine
type Searcher interface {
	services.Evaluator
	services.Suggester
}

// Engine is the job board facade. Both the public and the admin call sites run
// the same Searcher over the full collection returned by the store.
type Engine struct {
	store    services.JobStore
	searcher Searcher
	recorder services.SearchRecorder
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSearchRecorder notifies recorder of every executed keyword search
func WithSearchRecorder(recorder services.SearchRecorder) Option {
	return func(e *Engine) { e.recorder = recorder }
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger.With("component", "engine")
		}
	}
}

// New creates an Engine
func New(store services.JobStore, searcher Searcher, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("job store cannot be nil")
	}
	if searcher == nil {
		return nil, fmt.Errorf("searcher cannot be nil")
	}

	e := &Engine{
		store:    store,
		searcher: searcher,
		logger:   slog.Default().With("component", "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ListJobs returns every job, newest first
func (e *Engine) ListJobs(ctx context.Context) ([]model.JobRecord, error) {
	return e.store.List(ctx)
}

// GetJob returns a single job
func (e *Engine) GetJob(ctx context.Context, id model.JobID) (model.JobRecord, error) {
	return e.store.Get(ctx, id)
}

// CreateJob stores a new job
func (e *Engine) CreateJob(ctx context.Context, job model.JobRecord) (model.JobRecord, error) {
	created, err := e.store.Create(ctx, job)
	if err != nil {
		return model.JobRecord{}, err
	}
	e.logger.Info("job created", "id", created.ID, "title", created.Title)
	return created, nil
}

// UpdateJob replaces the editable fields of a job
func (e *Engine) UpdateJob(ctx context.Context, id model.JobID, job model.JobRecord) (model.JobRecord, error) {
	updated, err := e.store.Update(ctx, id, job)
	if err != nil {
		return model.JobRecord{}, err
	}
	e.logger.Info("job updated", "id", id)
	return updated, nil
}

// DeleteJob removes a job
func (e *Engine) DeleteJob(ctx context.Context, id model.JobID) error {
	if err := e.store.Delete(ctx, id); err != nil {
		return err
	}
	e.logger.Info("job deleted", "id", id)
	return nil
}

// ImportJobs creates every job in order and returns how many were stored.
// It stops at the first failure.
func (e *Engine) ImportJobs(ctx context.Context, jobs []model.JobRecord) (int, error) {
	for i, job := range jobs {
		if _, err := e.store.Create(ctx, job); err != nil {
			return i, fmt.Errorf("import job %d (%q): %w", i, job.Title, err)
		}
	}
	e.logger.Info("jobs imported", "count", len(jobs))
	return len(jobs), nil
}

// Browse runs the public query pipeline. Keyword searches are reported to the recorder.
func (e *Engine) Browse(ctx context.Context, criteria services.FilterCriteria) ([]model.JobRecord, error) {
	jobs, err := e.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}

	if criteria.HasKeyword() {
		e.recordSearch(criteria.Keyword)
	}
	return jobs, nil
}

// Search runs the public query pipeline without reporting the keyword. Clients
// that log their searches through the analytics endpoint use this path.
func (e *Engine) Search(ctx context.Context, criteria services.FilterCriteria) ([]model.JobRecord, error) {
	jobs, err := e.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return e.searcher.Evaluate(jobs, criteria), nil
}

// AdminBrowse runs the admin query pipeline. Results default to newest first
// unless a known sort mode is given.
func (e *Engine) AdminBrowse(ctx context.Context, criteria services.FilterCriteria) ([]model.JobRecord, error) {
	jobs, err := e.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if !criteria.Sort.Valid() {
		criteria.Sort = services.SortNewest
	}
	switch {
	case strings.TrimSpace(criteria.Query) != "":
		e.recordSearch(criteria.Query)
	case criteria.HasKeyword():
		e.recordSearch(criteria.Keyword)
	}
	return e.searcher.Evaluate(jobs, criteria), nil
}

// Suggest returns keyword autocomplete suggestions
func (e *Engine) Suggest(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return []string{}, nil
	}
	jobs, err := e.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return e.searcher.Suggest(query, jobs), nil
}

// SuggestLocations returns location autocomplete suggestions
func (e *Engine) SuggestLocations(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return []string{}, nil
	}
	jobs, err := e.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return e.searcher.SuggestLocations(query, jobs), nil
}

func (e *Engine) recordSearch(term string) {
	if e.recorder == nil {
		return
	}
	e.recorder.RecordSearch(term)
}

// Close closes the underlying store
func (e *Engine) Close() error {
	return e.store.Close()
}
