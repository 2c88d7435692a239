package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/findmyjob/config"
	"github.com/gcbaptista/findmyjob/internal/engine"
	internalErrors "github.com/gcbaptista/findmyjob/internal/errors"
	"github.com/gcbaptista/findmyjob/internal/search"
	testutil "github.com/gcbaptista/findmyjob/internal/testing"
	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
	"github.com/gcbaptista/findmyjob/store"
)

func TestNew_RequiresCollaborators(t *testing.T) {
	searcher, err := search.NewService(config.SearchSettings{})
	require.NoError(t, err)
	defer searcher.Close()

	_, err = engine.New(nil, searcher)
	assert.Error(t, err)

	s, err := store.OpenBadgerStore("", true)
	require.NoError(t, err)
	defer s.Close()

	_, err = engine.New(s, nil)
	assert.Error(t, err)
}

func TestBrowse(t *testing.T) {
	env := testutil.CreateTestEngine(t)
	testutil.SeedJobs(t, env.Engine, testutil.SampleJobs())

	testutil.RunBrowseTests(t, env.Engine, []testutil.BrowseTestCase{
		{
			Name:           "no criteria returns newest first",
			ExpectedTitles: []string{"Java Developer", "Java", "Product Designer", "QA Engineer", "Senior Java Engineer"},
		},
		{
			Name:           "keyword ranks by relevance",
			Criteria:       services.FilterCriteria{Keyword: "java"},
			ExpectedTitles: []string{"Java", "Java Developer", "Senior Java Engineer"},
		},
		{
			Name:           "role alias",
			Criteria:       services.FilterCriteria{Role: "developer"},
			ExpectedTitles: []string{"Java Developer", "Java", "QA Engineer", "Senior Java Engineer"},
		},
		{
			Name:           "remote location",
			Criteria:       services.FilterCriteria{Location: "remote"},
			ExpectedTitles: []string{"Java", "Product Designer"},
		},
		{
			Name:           "posted within a week",
			Criteria:       services.FilterCriteria{DatePosted: services.PostedLast7d},
			ExpectedTitles: []string{"Java Developer", "Java", "Product Designer"},
		},
		{
			Name:           "salary without numbers is kept",
			Criteria:       services.FilterCriteria{Salary: services.SalaryUpTo3},
			ExpectedTitles: []string{"QA Engineer", "Senior Java Engineer"},
		},
		{
			Name:           "fresher",
			Criteria:       services.FilterCriteria{Experience: services.ExperienceFresher},
			ExpectedTitles: []string{"QA Engineer"},
		},
		{
			Name:           "location text",
			Criteria:       services.FilterCriteria{LocationText: "pune"},
			ExpectedTitles: []string{"Java Developer", "Senior Java Engineer"},
		},
		{
			Name:           "facets combine",
			Criteria:       services.FilterCriteria{Keyword: "java", CompanyType: "mnc", Salary: services.SalaryTenPlus},
			ExpectedTitles: []string{"Java", "Senior Java Engineer"},
		},
	})
}

func TestBrowse_RecordsKeywordSearches(t *testing.T) {
	env := testutil.CreateTestEngine(t)
	testutil.SeedJobs(t, env.Engine, testutil.SampleJobs())
	ctx := context.Background()

	_, err := env.Engine.Browse(ctx, services.FilterCriteria{Keyword: "  Java "})
	require.NoError(t, err)
	_, err = env.Engine.Browse(ctx, services.FilterCriteria{Role: "qa"})
	require.NoError(t, err)

	top := env.Analytics.TopSearchesToday(5)
	assert.Equal(t, []model.KeywordCount{{Keyword: "java", Count: 1}}, top)
}

func TestSearch_DoesNotRecord(t *testing.T) {
	env := testutil.CreateTestEngine(t)
	testutil.SeedJobs(t, env.Engine, testutil.SampleJobs())

	got, err := env.Engine.Search(context.Background(), services.FilterCriteria{Keyword: "java"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Java", "Java Developer", "Senior Java Engineer"}, testutil.Titles(got))
	assert.Empty(t, env.Analytics.TopSearchesToday(5))
}

func TestAdminBrowse(t *testing.T) {
	jobStore, err := store.OpenBadgerStore("", true)
	require.NoError(t, err)
	searcher, err := search.NewService(config.SearchSettings{})
	require.NoError(t, err)
	defer searcher.Close()

	recorder := &testutil.RecordingSearchRecorder{}
	eng, err := engine.New(jobStore, searcher, engine.WithSearchRecorder(recorder))
	require.NoError(t, err)
	defer eng.Close()

	// Seed in a scrambled order so the default sort is visible
	jobs := testutil.SampleJobs()
	testutil.SeedJobs(t, eng, []model.JobRecord{jobs[2], jobs[0], jobs[4], jobs[1], jobs[3]})
	ctx := context.Background()

	got, err := eng.AdminBrowse(ctx, services.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Java Developer", "Java", "Product Designer", "QA Engineer", "Senior Java Engineer"}, testutil.Titles(got))

	got, err = eng.AdminBrowse(ctx, services.FilterCriteria{Query: "infosys"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Java Developer"}, testutil.Titles(got))

	got, err = eng.AdminBrowse(ctx, services.FilterCriteria{Sort: services.SortTitleA})
	require.NoError(t, err)
	assert.Equal(t, []string{"Java", "Java Developer", "Product Designer", "QA Engineer", "Senior Java Engineer"}, testutil.Titles(got))

	got, err = eng.AdminBrowse(ctx, services.FilterCriteria{Query: got[0].ID.String()})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Java", got[0].Title)

	assert.Equal(t, "infosys", recorder.Terms()[0])
}

func TestSuggest(t *testing.T) {
	env := testutil.CreateTestEngine(t)
	testutil.SeedJobs(t, env.Engine, testutil.SampleJobs())
	ctx := context.Background()

	got, err := env.Engine.Suggest(ctx, "rea")
	require.NoError(t, err)
	assert.Equal(t, []string{"React"}, got)

	got, err = env.Engine.SuggestLocations(ctx, "pu")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pune"}, got)

	got, err = env.Engine.Suggest(ctx, " ")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = env.Engine.Suggest(ctx, "java")
	require.NoError(t, err)
	// exact match first, then the shorter prefix match
	assert.Equal(t, []string{"Java", "JavaScript"}, got)
}

func TestJobCRUD(t *testing.T) {
	env := testutil.CreateTestEngine(t)
	ctx := context.Background()

	created, err := env.Engine.CreateJob(ctx, model.JobRecord{Title: "Go Developer", Company: "Acme"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := env.Engine.GetJob(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Company)

	updated, err := env.Engine.UpdateJob(ctx, created.ID, model.JobRecord{Title: "Go Engineer", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Go Engineer", updated.Title)

	_, err = env.Engine.UpdateJob(ctx, "12345", model.JobRecord{Title: "x"})
	assert.ErrorIs(t, err, internalErrors.ErrJobNotFound)

	require.NoError(t, env.Engine.DeleteJob(ctx, created.ID))
	_, err = env.Engine.GetJob(ctx, created.ID)
	assert.ErrorIs(t, err, internalErrors.ErrJobNotFound)
}

func TestImportJobs(t *testing.T) {
	env := testutil.CreateTestEngine(t)

	n, err := env.Engine.ImportJobs(context.Background(), testutil.SampleJobs())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	jobs, err := env.Engine.ListJobs(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 5)
}
