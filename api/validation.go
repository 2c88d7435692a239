// Package api provides the HTTP handlers, middleware and request validation of the
// job board API.
package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
)

const (
	maxTitleLength   = 200
	defaultTopLimit  = 5
	maxTopLimit      = 50
	defaultDaysLimit = 15
	maxDaysLimit     = 90
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ParseCriteria reads FilterCriteria from the query string. Bucket, window and sort
// values must be one of the known values; experienceYears must be a non-negative integer.
func ParseCriteria(c *gin.Context) (services.FilterCriteria, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	criteria := services.FilterCriteria{
		Role:         c.Query("role"),
		Experience:   c.Query("experience"),
		Location:     c.Query("location"),
		CompanyType:  c.Query("companyType"),
		JobType:      c.Query("jobType"),
		Salary:       c.Query("salary"),
		DatePosted:   c.Query("datePosted"),
		Keyword:      c.Query("keyword"),
		LocationText: c.Query("locationText"),
		Query:        c.Query("q"),
		Sort:         services.SortMode(c.Query("sort")),
	}.Normalize()

	yearsInvalid := false
	if raw := strings.TrimSpace(c.Query("experienceYears")); raw != "" {
		years, err := strconv.Atoi(raw)
		if err != nil {
			yearsInvalid = true
		} else {
			criteria.ExperienceYears = &years
		}
	}

	for _, err := range criteria.Validate() {
		result.AddError(err.Field, err.Message)
	}
	if yearsInvalid {
		result.AddError("experienceYears", "experienceYears must be an integer")
	}
	return criteria, result
}

// ValidateJobID validates a job id path parameter
func ValidateJobID(id string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if id == "" {
		result.AddError("id", "Job ID is required")
		return result
	}

	if strings.TrimSpace(id) != id {
		result.AddError("id", "Job ID cannot have leading or trailing whitespace")
	}

	return result
}

// ValidateJobRecord validates a job posting submitted for create or update
func ValidateJobRecord(job *model.JobRecord) *ValidationResult {
	result := &ValidationResult{Valid: true}

	job.Title = strings.TrimSpace(job.Title)
	if job.Title == "" {
		result.AddError("title", "Title is required")
	} else if len(job.Title) > maxTitleLength {
		result.AddError("title", fmt.Sprintf("Title cannot be longer than %d characters", maxTitleLength))
	}

	if strings.TrimSpace(job.Company) == "" {
		result.AddError("company", "Company is required")
	}

	return result
}

// ValidateLimit parses an optional positive integer query parameter, applying the
// default when it is absent and capping it at max.
func ValidateLimit(raw, field string, def, max int) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, result
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		result.AddError(field, field+" must be a positive integer")
		return def, result
	}
	if n > max {
		n = max
	}
	return n, result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
