package analytics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/findmyjob/model"
)

// fakeClock is a settable time source
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T, opts ...Option) (*Service, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now), WithLocation(time.UTC)}, opts...)
	return NewService(opts...), clock
}

func TestRecordSearch_Normalises(t *testing.T) {
	service, _ := newTestService(t)

	service.RecordSearch("  Java Developer ")
	service.RecordSearch("java developer")
	service.RecordSearch("   ")
	service.RecordSearch("")

	require.Len(t, service.events, 2)
	assert.Equal(t, "java developer", service.events[0].Keyword)
	assert.NotEmpty(t, service.events[0].ID)
	assert.NotEqual(t, service.events[0].ID, service.events[1].ID)

	top := service.TopSearchesToday(0)
	assert.Equal(t, []model.KeywordCount{{Keyword: "java developer", Count: 2}}, top)
}

func TestWebsiteStats_Windows(t *testing.T) {
	service, clock := newTestService(t)

	// Nine days ago, three days ago, earlier today and just now
	clock.t = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	service.RecordWebsiteView()
	clock.t = time.Date(2024, 6, 7, 12, 0, 0, 0, time.UTC)
	service.RecordWebsiteView()
	service.RecordJobApply("1")
	clock.t = time.Date(2024, 6, 10, 2, 0, 0, 0, time.UTC)
	service.RecordWebsiteView()
	clock.t = time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	service.RecordWebsiteView()
	service.RecordJobApply("2")

	clock.Advance(10 * time.Minute)
	stats := service.WebsiteStats()

	assert.Equal(t, model.TrafficStats{
		Lifetime: 4, Last7Days: 3, Today: 2, Last1Hour: 1,
		LifetimeApplies: 2, Last7DaysApplies: 2, TodayApplies: 1, Last1HourApplies: 1,
	}, stats)
}

func TestJobStats(t *testing.T) {
	service, clock := newTestService(t)

	service.RecordJobView("7")
	service.RecordJobView("7")
	service.RecordJobView("8")
	service.RecordJobApply("7")
	clock.Advance(2 * time.Hour)
	service.RecordJobView("7")

	stats := service.JobStats("7")
	assert.Equal(t, int64(3), stats.Lifetime)
	assert.Equal(t, int64(3), stats.Today)
	assert.Equal(t, int64(1), stats.Last1Hour)
	assert.Equal(t, int64(1), stats.LifetimeApplies)
	assert.Equal(t, int64(0), stats.Last1HourApplies)

	assert.Equal(t, model.TrafficStats{}, service.JobStats("unknown"))
}

func TestTopSearchesToday_OrderAndLimit(t *testing.T) {
	service, clock := newTestService(t)

	clock.t = clock.t.AddDate(0, 0, -1)
	for i := 0; i < 10; i++ {
		service.RecordSearch("yesterday")
	}
	clock.t = clock.t.AddDate(0, 0, 1)

	for kw, n := range map[string]int{"go": 3, "java": 3, "python": 5, "rust": 1, "sql": 2, "css": 1} {
		for i := 0; i < n; i++ {
			service.RecordSearch(kw)
		}
	}

	top := service.TopSearchesToday(5)

	assert.Equal(t, []model.KeywordCount{
		{Keyword: "python", Count: 5},
		{Keyword: "go", Count: 3},
		{Keyword: "java", Count: 3},
		{Keyword: "sql", Count: 2},
		{Keyword: "css", Count: 1},
	}, top)
	assert.Len(t, service.TopSearchesToday(2), 2)
}

func TestHistory(t *testing.T) {
	service, clock := newTestService(t)
	today := clock.t

	clock.t = today.AddDate(0, 0, -2)
	service.RecordWebsiteView()
	service.RecordWebsiteView()
	service.RecordSearch("react")
	clock.t = today.AddDate(0, 0, -20)
	service.RecordWebsiteView()
	clock.t = today
	service.RecordJobApply("3")

	history := service.History(0)

	require.Len(t, history, 15)
	assert.Equal(t, "2024-06-10", history[0].Date)
	assert.Equal(t, int64(1), history[0].Applies)
	assert.Equal(t, "2024-06-08", history[2].Date)
	assert.Equal(t, int64(2), history[2].Views)
	assert.Equal(t, []model.KeywordCount{{Keyword: "react", Count: 1}}, history[2].TopSearches)
	assert.Empty(t, history[1].TopSearches)
	assert.NotNil(t, history[1].TopSearches)

	assert.Len(t, service.History(3), 3)
}

func TestPrune_KeepsLifetime(t *testing.T) {
	service, clock := newTestService(t)

	service.RecordWebsiteView()
	service.RecordJobView("1")
	clock.Advance(40 * 24 * time.Hour)
	service.RecordWebsiteView()

	removed := service.Prune(30 * 24 * time.Hour)

	assert.Equal(t, 2, removed)
	assert.Len(t, service.events, 1)
	assert.Equal(t, int64(2), service.WebsiteStats().Lifetime)
	assert.Equal(t, int64(1), service.JobStats("1").Lifetime)
	assert.Equal(t, int64(0), service.JobStats("1").Last7Days)
}

func TestFlushAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), SnapshotFile)
	service, _ := newTestService(t, WithDataFile(path))

	service.RecordWebsiteView()
	service.RecordJobView("5")
	service.RecordSearch("golang")
	require.NoError(t, service.Flush())
	assert.False(t, service.dirty)

	reloaded, _ := newTestService(t, WithDataFile(path))

	assert.Len(t, reloaded.events, 3)
	assert.Equal(t, int64(1), reloaded.WebsiteStats().Lifetime)
	assert.Equal(t, int64(1), reloaded.JobStats("5").Lifetime)
	assert.Equal(t, "golang", reloaded.TopSearchesToday(1)[0].Keyword)

	// Recording after reload keeps working with the restored counters
	reloaded.RecordJobView("5")
	assert.Equal(t, int64(2), reloaded.JobStats("5").Lifetime)
}

func TestFlush_WithoutDataFile(t *testing.T) {
	service, _ := newTestService(t)
	service.RecordWebsiteView()

	assert.NoError(t, service.Flush())
}

func TestScheduler(t *testing.T) {
	path := filepath.Join(t.TempDir(), SnapshotFile)
	service, _ := newTestService(t, WithDataFile(path))

	_, err := NewScheduler(service, "not a spec", time.Hour)
	assert.Error(t, err)
	_, err = NewScheduler(service, "@every 1m", 0)
	assert.Error(t, err)
	_, err = NewScheduler(nil, "@every 1m", time.Hour)
	assert.Error(t, err)

	scheduler, err := NewScheduler(service, "@every 1h", 24*time.Hour)
	require.NoError(t, err)
	scheduler.Start()

	service.RecordWebsiteView()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, scheduler.Stop(ctx))

	reloaded, _ := newTestService(t, WithDataFile(path))
	assert.Equal(t, int64(1), reloaded.WebsiteStats().Lifetime, "stop must write a final snapshot")
}
