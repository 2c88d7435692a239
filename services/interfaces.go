package services

import (
	"context"
	"strings"

	"github.com/gcbaptista/findmyjob/model"
)

// Bucket and window values accepted by FilterCriteria.
const (
	ExperienceFresher   = "fresher"
	ExperienceOneThree  = "1-3"
	ExperienceThreePlus = "3+"

	SalaryUpTo3   = "0-3"
	Salary3To6    = "3-6"
	Salary6To10   = "6-10"
	SalaryTenPlus = "10+"

	PostedLast24h = "24h"
	PostedLast7d  = "7d"
	PostedLast30d = "30d"
)

// SortMode is an explicit result ordering. The empty value means "no explicit sort".
type SortMode string

const (
	SortNone   SortMode = ""
	SortNewest SortMode = "newest"
	SortOldest SortMode = "oldest"
	SortTitleA SortMode = "az"
	SortTitleZ SortMode = "za"
)

// FilterCriteria describes one query against the job collection.
// Every field is optional; the zero value imposes no constraint.
// All active fields combine with AND semantics.
type FilterCriteria struct {
	Role        string `json:"role,omitempty" form:"role"`
	Experience  string `json:"experience,omitempty" form:"experience"` // fresher | 1-3 | 3+
	Location    string `json:"location,omitempty" form:"location"`
	CompanyType string `json:"companyType,omitempty" form:"companyType"`
	JobType     string `json:"jobType,omitempty" form:"jobType"`
	Salary      string `json:"salary,omitempty" form:"salary"`         // 0-3 | 3-6 | 6-10 | 10+
	DatePosted  string `json:"datePosted,omitempty" form:"datePosted"` // 24h | 7d | 30d

	Keyword         string `json:"keyword,omitempty" form:"keyword"`           // keyword search: membership + relevance ordering
	LocationText    string `json:"locationText,omitempty" form:"locationText"` // free-text location search
	ExperienceYears *int   `json:"experienceYears,omitempty" form:"experienceYears"`

	Query string   `json:"query,omitempty" form:"q"` // admin free-text match over id, title and company
	Sort  SortMode `json:"sort,omitempty" form:"sort"`
}

// HasKeyword reports whether a keyword search was issued
func (c FilterCriteria) HasKeyword() bool {
	return strings.TrimSpace(c.Keyword) != ""
}

// JobStore is the record store for job postings
type JobStore interface {
	// List returns every job, newest first (posted date desc, then id desc)
	List(ctx context.Context) ([]model.JobRecord, error)
	Get(ctx context.Context, id model.JobID) (model.JobRecord, error)
	// Create assigns an id, stamps the posted date when missing and returns the stored record
	Create(ctx context.Context, job model.JobRecord) (model.JobRecord, error)
	Update(ctx context.Context, id model.JobID, job model.JobRecord) (model.JobRecord, error)
	Delete(ctx context.Context, id model.JobID) error
	Close() error
}

// Evaluator runs the filtering and ranking pipeline over a job collection
type Evaluator interface {
	Evaluate(jobs []model.JobRecord, criteria FilterCriteria) []model.JobRecord
}

// Suggester produces autocomplete suggestions
type Suggester interface {
	Suggest(query string, jobs []model.JobRecord) []string
	SuggestLocations(query string, jobs []model.JobRecord) []string
}

// SearchRecorder is notified of executed keyword searches. Implementations must not block.
type SearchRecorder interface {
	RecordSearch(keyword string)
}

// ActivityRecorder records visitor activity
type ActivityRecorder interface {
	SearchRecorder
	RecordWebsiteView()
	RecordJobView(id model.JobID)
	RecordJobApply(id model.JobID)
}

// AnalyticsReporter exposes aggregated activity
type AnalyticsReporter interface {
	WebsiteStats() model.TrafficStats
	JobStats(id model.JobID) model.TrafficStats
	TopSearchesToday(limit int) []model.KeywordCount
	History(days int) []model.DailyStats
}

// AdminAuthenticator manages admin accounts and bearer tokens
type AdminAuthenticator interface {
	Register(username, email, password string) (model.Session, error)
	Login(username, password string) (model.Session, error)
	Validate(token string) (model.Session, error)
	Logout(token string)
}
