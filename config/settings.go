// Package config provides configuration structures for the job search service.
// It defines the search pipeline settings and the process-level runtime configuration.
package config

import (
	"fmt"
	"strings"
)

const (
	defaultMaxSuggestions    = 2
	defaultParallelThreshold = 2048
	defaultWorkers           = 8
)

// SearchSettings tunes the query pipeline. None of these settings change which jobs
// a query returns or their order; they only control result limits and how the work
// is scheduled.
type SearchSettings struct {
	MaxSuggestions    int `json:"max_suggestions"`    // Upper bound on autocomplete results (e.g., 2)
	ParallelThreshold int `json:"parallel_threshold"` // Collections at least this large are filtered on the worker pool
	Workers           int `json:"workers"`            // Worker pool size (e.g., 8)
}

// ApplyDefaults applies default values to the search settings
func (settings *SearchSettings) ApplyDefaults() {
	if settings.MaxSuggestions == 0 {
		settings.MaxSuggestions = defaultMaxSuggestions
	}
	if settings.ParallelThreshold == 0 {
		settings.ParallelThreshold = defaultParallelThreshold
	}
	if settings.Workers == 0 {
		settings.Workers = defaultWorkers
	}
}

// Validate checks the settings and returns one message per problem found
func (settings *SearchSettings) Validate() []string {
	var errors []string

	if settings.MaxSuggestions < 1 {
		errors = append(errors, fmt.Sprintf("max_suggestions must be at least 1, got %d", settings.MaxSuggestions))
	}
	if settings.ParallelThreshold < 1 {
		errors = append(errors, fmt.Sprintf("parallel_threshold must be at least 1, got %d", settings.ParallelThreshold))
	}
	if settings.Workers < 0 {
		errors = append(errors, fmt.Sprintf("workers cannot be negative, got %d", settings.Workers))
	}

	return errors
}

// parseList splits a comma separated value into trimmed, non-empty entries
func parseList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
