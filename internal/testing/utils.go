// Package testing provides fixtures and helpers for testing the job board.
package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/findmyjob/config"
	"github.com/gcbaptista/findmyjob/internal/analytics"
	"github.com/gcbaptista/findmyjob/internal/engine"
	"github.com/gcbaptista/findmyjob/internal/search"
	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
	"github.com/gcbaptista/findmyjob/store"
)

// ReferenceTime anchors every fixture date. Test clocks should return it.
var ReferenceTime = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// TestEnv bundles an engine with the collaborators it was built from
type TestEnv struct {
	Engine    *engine.Engine
	Store     *store.BadgerStore
	Search    *search.Service
	Analytics *analytics.Service
}

// CreateTestEngine creates an engine over an in-memory badger store, a search service
// whose clock returns ReferenceTime and a memory-only analytics service.
// Everything is closed when the test ends.
func CreateTestEngine(t *testing.T) *TestEnv {
	t.Helper()

	jobStore, err := store.OpenBadgerStore("", true)
	require.NoError(t, err, "Failed to open in-memory store")

	searcher, err := search.NewService(config.SearchSettings{}, search.WithClock(func() time.Time { return ReferenceTime }))
	require.NoError(t, err, "Failed to create search service")

	activity := analytics.NewService(analytics.WithClock(func() time.Time { return ReferenceTime }), analytics.WithLocation(time.UTC))

	eng, err := engine.New(jobStore, searcher, engine.WithSearchRecorder(activity))
	require.NoError(t, err, "Failed to create engine")

	t.Cleanup(func() {
		searcher.Close()
		if err := eng.Close(); err != nil {
			t.Logf("Warning: failed to close test store: %v", err)
		}
	})

	return &TestEnv{Engine: eng, Store: jobStore, Search: searcher, Analytics: activity}
}

func daysBefore(n int) *time.Time {
	t := ReferenceTime.Add(-time.Duration(n) * 24 * time.Hour)
	return &t
}

// SampleJobs returns a small, varied job collection. Ids are left empty so the
// store assigns them; the slice is ordered oldest first.
func SampleJobs() []model.JobRecord {
	return []model.JobRecord{
		{
			Title: "Senior Java Engineer", Company: "TCS", Location: "Pune", Salary: "",
			ExperienceLevel: "", JobType: "full-time", CompanyType: "MNC", Role: "Developer",
			Skills: "JavaScript, SQL", PostedDate: daysBefore(40),
		},
		{
			Title: "QA Engineer", Company: "Zoho", Location: "Chennai", Salary: "Competitive",
			ExperienceLevel: "Fresher", JobType: "Internship", CompanyType: "Product", Role: "QA",
			Skills: "Selenium, React", PostedDate: daysBefore(10),
		},
		{
			Title: "Product Designer", Company: "Swiggy", Location: "Bengaluru, Karnataka", Salary: "6 - 9 LPA",
			ExperienceLevel: "1 - 3 Years", JobType: "Remote", CompanyType: "Startup", Role: "Design",
			Skills: "Figma", PostedDate: daysBefore(5),
		},
		{
			Title: "Java", Company: "Oracle", Location: "Remote", Salary: "12 - 18 LPA",
			ExperienceLevel: "5 - 8 Years", JobType: "Full-time", CompanyType: "MNC", Role: "Developer",
			Skills: "Java, Kubernetes", PostedDate: daysBefore(3),
		},
		{
			Title: "Java Developer", Company: "Infosys", Location: "Pune", Salary: "3 - 5 LPA",
			ExperienceLevel: "2 - 4 Years", JobType: "Full-time", CompanyType: "MNC", Role: "Developer",
			Skills: "Java, Spring, React", PostedDate: daysBefore(1),
		},
	}
}

// SeedJobs stores jobs through the engine and returns the stored records in the same order
func SeedJobs(t *testing.T, eng *engine.Engine, jobs []model.JobRecord) []model.JobRecord {
	t.Helper()
	created := make([]model.JobRecord, 0, len(jobs))
	for _, job := range jobs {
		stored, err := eng.CreateJob(context.Background(), job)
		require.NoError(t, err, "Failed to seed job %q", job.Title)
		created = append(created, stored)
	}
	return created
}

// Titles lists the titles of jobs in order
func Titles(jobs []model.JobRecord) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Title
	}
	return out
}

// RecordingSearchRecorder is a services.SearchRecorder that keeps every term
type RecordingSearchRecorder struct {
	mu    sync.Mutex
	terms []string
}

var _ services.SearchRecorder = (*RecordingSearchRecorder)(nil)

// RecordSearch stores term
func (r *RecordingSearchRecorder) RecordSearch(term string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terms = append(r.terms, term)
}

// Terms returns a copy of the recorded terms
func (r *RecordingSearchRecorder) Terms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.terms...)
}

// BrowseTestCase is a table entry for browse tests
type BrowseTestCase struct {
	Name           string
	Criteria       services.FilterCriteria
	ExpectedTitles []string
}

// RunBrowseTests runs Browse for each case and compares the result titles in order
func RunBrowseTests(t *testing.T, eng *engine.Engine, tests []BrowseTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			results, err := eng.Browse(context.Background(), tt.Criteria)
			require.NoError(t, err, "Browse should not fail")
			assert.Equal(t, tt.ExpectedTitles, Titles(results), "Result titles should match")
		})
	}
}
