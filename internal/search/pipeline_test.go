package search

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/findmyjob/config"
	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := testNow.Add(-time.Duration(n) * 24 * time.Hour)
	return &t
}

func pipelineJobs() []model.JobRecord {
	return []model.JobRecord{
		{ID: "1", Title: "Java Developer", Company: "Infosys", Location: "Pune", Salary: "3 - 5 LPA",
			ExperienceLevel: "2 - 4 Years", JobType: "Full-time", CompanyType: "MNC", Skills: "Java, Spring", PostedDate: daysAgo(1)},
		{ID: "2", Title: "QA Engineer", Company: "Zoho", Location: "Chennai", Salary: "Competitive",
			ExperienceLevel: "Fresher", JobType: "Internship", CompanyType: "Product", Skills: "Selenium", PostedDate: daysAgo(10)},
		{ID: "3", Title: "Java", Company: "Oracle", Location: "Remote", Salary: "12 - 18 LPA",
			ExperienceLevel: "5 - 8 Years", JobType: "Full-time", CompanyType: "MNC", Skills: "Java", PostedDate: daysAgo(3)},
		{ID: "4", Title: "Designer", Company: "Swiggy", Location: "Bengaluru", Salary: "6 - 9 LPA",
			ExperienceLevel: "1 - 3 Years", JobType: "Remote", CompanyType: "Startup", Skills: "Figma"},
		{ID: "5", Title: "Senior Java Engineer", Company: "TCS", Location: "Pune", Salary: "",
			ExperienceLevel: "", JobType: "full-time", CompanyType: "MNC", Skills: "JavaScript", PostedDate: daysAgo(40)},
	}
}

func newPipelineService(t *testing.T) *Service {
	return newTestService(t, config.SearchSettings{}, WithClock(func() time.Time { return testNow }))
}

func TestEvaluate_EmptyCriteriaIsIdentity(t *testing.T) {
	svc := newPipelineService(t)
	jobs := pipelineJobs()

	got := svc.Evaluate(jobs, services.FilterCriteria{})

	assert.Equal(t, jobs, got)
	got[0].Title = "changed"
	assert.Equal(t, "Java Developer", jobs[0].Title, "result must not alias the input")
}

func TestEvaluate_Idempotent(t *testing.T) {
	svc := newPipelineService(t)
	years := 3
	criteria := []services.FilterCriteria{
		{},
		{Keyword: "java"},
		{Role: "developer", Location: "pune"},
		{Salary: services.Salary3To6, ExperienceYears: &years},
		{DatePosted: services.PostedLast7d, Sort: services.SortOldest},
		{Query: "java", Sort: services.SortTitleZ},
		{Location: "remote", Keyword: "a"},
	}

	for i, c := range criteria {
		t.Run(fmt.Sprintf("criteria_%d", i), func(t *testing.T) {
			once := svc.Evaluate(pipelineJobs(), c)
			twice := svc.Evaluate(once, c)
			assert.Equal(t, ids(once), ids(twice))
		})
	}
}

func TestEvaluate_ANDSemantics(t *testing.T) {
	svc := newPipelineService(t)
	jobs := pipelineJobs()
	c := services.FilterCriteria{
		JobType:     "full-time",
		CompanyType: "mnc",
		Salary:      services.Salary3To6,
	}

	got := svc.Evaluate(jobs, c)

	// Job 3 fails the salary facet; job 5 has no salary number and passes
	assert.Equal(t, []model.JobID{"1", "5"}, ids(got))

	preds := compileFacets(c, testNow)
	for _, job := range jobs {
		present := false
		for _, g := range got {
			if g.ID == job.ID {
				present = true
			}
		}
		assert.Equal(t, matchesAll(&job, preds), present, "job %s", job.ID)
	}
}

func TestEvaluate_KeywordMembershipAndRanking(t *testing.T) {
	svc := newPipelineService(t)

	got := svc.Evaluate(pipelineJobs(), services.FilterCriteria{Keyword: "  Java "})

	// 3: exact title + skill token, 1: prefix + skill token, 5: contains + skill substring
	assert.Equal(t, []model.JobID{"3", "1", "5"}, ids(got))
}

func TestEvaluate_KeywordMatchesLocation(t *testing.T) {
	svc := newPipelineService(t)

	got := svc.Evaluate(pipelineJobs(), services.FilterCriteria{Keyword: "chennai"})

	assert.Equal(t, []model.JobID{"2"}, ids(got))
}

func TestEvaluate_LocationTextAndQuery(t *testing.T) {
	svc := newPipelineService(t)

	got := svc.Evaluate(pipelineJobs(), services.FilterCriteria{LocationText: "PUNE"})
	assert.Equal(t, []model.JobID{"1", "5"}, ids(got))

	got = svc.Evaluate(pipelineJobs(), services.FilterCriteria{Query: "4"})
	assert.Equal(t, []model.JobID{"4"}, ids(got))

	got = svc.Evaluate(pipelineJobs(), services.FilterCriteria{Query: "oracle"})
	assert.Equal(t, []model.JobID{"3"}, ids(got))
}

func TestEvaluate_RemoteLocationFacet(t *testing.T) {
	svc := newPipelineService(t)

	got := svc.Evaluate(pipelineJobs(), services.FilterCriteria{Location: "remote"})

	assert.Equal(t, []model.JobID{"3", "4"}, ids(got))
}

func TestEvaluate_DatePostedUsesClock(t *testing.T) {
	svc := newPipelineService(t)

	assert.Equal(t, []model.JobID{"1"}, ids(svc.Evaluate(pipelineJobs(), services.FilterCriteria{DatePosted: services.PostedLast24h})))
	assert.Equal(t, []model.JobID{"1", "3"}, ids(svc.Evaluate(pipelineJobs(), services.FilterCriteria{DatePosted: services.PostedLast7d})))
	assert.Equal(t, []model.JobID{"1", "2", "3"}, ids(svc.Evaluate(pipelineJobs(), services.FilterCriteria{DatePosted: services.PostedLast30d})))
}

func TestEvaluate_ExplicitSorts(t *testing.T) {
	svc := newPipelineService(t)

	tests := []struct {
		sort services.SortMode
		want []model.JobID
	}{
		{services.SortNewest, []model.JobID{"1", "3", "2", "5", "4"}},
		{services.SortOldest, []model.JobID{"4", "5", "2", "3", "1"}},
		{services.SortTitleA, []model.JobID{"4", "3", "1", "2", "5"}},
		{services.SortTitleZ, []model.JobID{"5", "2", "1", "3", "4"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			got := svc.Evaluate(pipelineJobs(), services.FilterCriteria{Sort: tt.sort})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestEvaluate_SortBeatsRelevance(t *testing.T) {
	svc := newPipelineService(t)

	got := svc.Evaluate(pipelineJobs(), services.FilterCriteria{Keyword: "java", Sort: services.SortOldest})

	assert.Equal(t, []model.JobID{"5", "3", "1"}, ids(got))
}

func TestEvaluate_UnknownSortKeepsRelevance(t *testing.T) {
	svc := newPipelineService(t)

	ranked := svc.Evaluate(pipelineJobs(), services.FilterCriteria{Keyword: "java"})
	got := svc.Evaluate(pipelineJobs(), services.FilterCriteria{Keyword: "java", Sort: "bogus"})

	assert.Equal(t, []model.JobID{"3", "1", "5"}, ids(ranked))
	assert.Equal(t, ids(ranked), ids(got))
}

func TestEvaluate_UnknownSortWithoutKeywordKeepsInputOrder(t *testing.T) {
	svc := newPipelineService(t)

	got := svc.Evaluate(pipelineJobs(), services.FilterCriteria{Sort: "relevance"})

	assert.Equal(t, []model.JobID{"1", "2", "3", "4", "5"}, ids(got))
}

func TestEvaluate_ParallelMatchesSequential(t *testing.T) {
	sequential := newTestService(t, config.SearchSettings{ParallelThreshold: 1 << 30},
		WithClock(func() time.Time { return testNow }), WithPoolSize(0))
	parallel := newTestService(t, config.SearchSettings{ParallelThreshold: 16},
		WithClock(func() time.Time { return testNow }), WithPoolSize(4))

	base := pipelineJobs()
	jobs := make([]model.JobRecord, 0, 1000)
	for i := 0; i < 1000; i++ {
		job := base[i%len(base)]
		job.ID = model.JobID(fmt.Sprint(i))
		jobs = append(jobs, job)
	}

	years := 3
	criteria := []services.FilterCriteria{
		{Role: "developer"},
		{JobType: "full-time", Salary: services.SalaryTenPlus},
		{ExperienceYears: &years, Keyword: "java"},
		{DatePosted: services.PostedLast30d, Sort: services.SortTitleA},
	}

	for i, c := range criteria {
		t.Run(fmt.Sprintf("criteria_%d", i), func(t *testing.T) {
			want := sequential.Evaluate(jobs, c)
			got := parallel.Evaluate(jobs, c)
			require.Equal(t, len(want), len(got))
			assert.Equal(t, ids(want), ids(got))
		})
	}
}

func TestEvaluate_ClosedServiceStillWorks(t *testing.T) {
	svc := newTestService(t, config.SearchSettings{ParallelThreshold: 1}, WithPoolSize(2))
	svc.Close()

	got := svc.Evaluate(pipelineJobs(), services.FilterCriteria{Role: "design"})

	assert.Equal(t, []model.JobID{"4"}, ids(got))
}

func TestNewService_InvalidOptions(t *testing.T) {
	_, err := NewService(config.SearchSettings{}, WithClock(nil))
	assert.Error(t, err)

	_, err = NewService(config.SearchSettings{}, WithPoolSize(-1))
	assert.Error(t, err)

	_, err = NewService(config.SearchSettings{MaxSuggestions: -2})
	assert.Error(t, err)
}
