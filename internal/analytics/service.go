// Package analytics records visitor activity (page views, job views, applies and
// searches) and aggregates it for the admin dashboard.
package analytics

import (
	"errors"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/findmyjob/internal/persistence"
	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
)

const (
	// SnapshotFile is the snapshot name inside the data directory
	SnapshotFile = "analytics.gob"

	maxEventsToKeep         = 200000 // Hard cap so memory stays bounded between prunes
	defaultTopSearchesLimit = 5
	defaultHistoryDays      = 15
)

// counters are lifetime totals. They survive pruning of the raw events.
type counters struct {
	WebsiteViews int64
	Applies      int64
	JobViews     map[model.JobID]int64
	JobApplies   map[model.JobID]int64
}

func newCounters() counters {
	return counters{
		JobViews:   make(map[model.JobID]int64),
		JobApplies: make(map[model.JobID]int64),
	}
}

// snapshot is the persisted form of the service state
type snapshot struct {
	Events   []model.AnalyticsEvent
	Lifetime counters
}

// Service implements activity recording and reporting
type Service struct {
	mutex        sync.RWMutex
	events       []model.AnalyticsEvent
	lifetime     counters
	dirty        bool
	dataFilePath string
	now          func() time.Time
	location     *time.Location
	logger       *slog.Logger
}

var (
	_ services.ActivityRecorder  = (*Service)(nil)
	_ services.AnalyticsReporter = (*Service)(nil)
)

// Option configures a Service.
type Option func(*Service)

// WithDataFile persists the state to path. Without it the service is memory only.
func WithDataFile(path string) Option {
	return func(s *Service) { s.dataFilePath = path }
}

// WithClock sets the time source. Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone that defines calendar days. Default is time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger.With("component", "analytics")
		}
	}
}

// NewService creates an analytics service and loads a previous snapshot when one exists
func NewService(opts ...Option) *Service {
	s := &Service{
		events:   make([]model.AnalyticsEvent, 0),
		lifetime: newCounters(),
		now:      time.Now,
		location: time.Local,
		logger:   slog.Default().With("component", "analytics"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.loadData(); err != nil {
		s.logger.Warn("failed to load analytics data", "path", s.dataFilePath, "error", err)
	}
	return s
}

// RecordWebsiteView records a visit to the site
func (s *Service) RecordWebsiteView() {
	s.record(model.AnalyticsEvent{Kind: model.EventWebsiteView})
}

// RecordJobView records a visit to a job detail page
func (s *Service) RecordJobView(id model.JobID) {
	s.record(model.AnalyticsEvent{Kind: model.EventJobView, JobID: id})
}

// RecordJobApply records a click on a job's apply link
func (s *Service) RecordJobApply(id model.JobID) {
	s.record(model.AnalyticsEvent{Kind: model.EventJobApply, JobID: id})
}

// RecordSearch records an executed keyword search. Blank keywords are ignored;
// the rest are stored trimmed and lowercased.
func (s *Service) RecordSearch(keyword string) {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return
	}
	s.record(model.AnalyticsEvent{Kind: model.EventSearch, Keyword: kw})
}

func (s *Service) record(event model.AnalyticsEvent) {
	event.ID = uuid.New().String()
	event.OccurredAt = s.now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.events = append(s.events, event)
	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}

	switch event.Kind {
	case model.EventWebsiteView:
		s.lifetime.WebsiteViews++
	case model.EventJobView:
		s.lifetime.JobViews[event.JobID]++
	case model.EventJobApply:
		s.lifetime.Applies++
		s.lifetime.JobApplies[event.JobID]++
	}
	s.dirty = true
}

// startOfDay returns local midnight of the day containing t
func (s *Service) startOfDay(t time.Time) time.Time {
	local := t.In(s.location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
}

// windows are the lower bounds of the reporting windows, all exclusive
type windows struct {
	week, today, hour time.Time
}

func (s *Service) windows() windows {
	now := s.now()
	return windows{
		week:  now.Add(-7 * 24 * time.Hour),
		today: s.startOfDay(now),
		hour:  now.Add(-time.Hour),
	}
}

// tallyWindows counts one event into every window it falls in
func tallyWindows(at time.Time, w windows, last7, today, lastHour *int64) {
	if at.After(w.week) {
		*last7++
	}
	if at.After(w.today) {
		*today++
	}
	if at.After(w.hour) {
		*lastHour++
	}
}

// WebsiteStats returns site views and applies over the reporting windows
func (s *Service) WebsiteStats() model.TrafficStats {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	w := s.windows()
	stats := model.TrafficStats{
		Lifetime:        s.lifetime.WebsiteViews,
		LifetimeApplies: s.lifetime.Applies,
	}
	for _, e := range s.events {
		switch e.Kind {
		case model.EventWebsiteView:
			tallyWindows(e.OccurredAt, w, &stats.Last7Days, &stats.Today, &stats.Last1Hour)
		case model.EventJobApply:
			tallyWindows(e.OccurredAt, w, &stats.Last7DaysApplies, &stats.TodayApplies, &stats.Last1HourApplies)
		}
	}
	return stats
}

// JobStats returns views and applies of one job over the reporting windows
func (s *Service) JobStats(id model.JobID) model.TrafficStats {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	w := s.windows()
	stats := model.TrafficStats{
		Lifetime:        s.lifetime.JobViews[id],
		LifetimeApplies: s.lifetime.JobApplies[id],
	}
	for _, e := range s.events {
		if e.JobID != id {
			continue
		}
		switch e.Kind {
		case model.EventJobView:
			tallyWindows(e.OccurredAt, w, &stats.Last7Days, &stats.Today, &stats.Last1Hour)
		case model.EventJobApply:
			tallyWindows(e.OccurredAt, w, &stats.Last7DaysApplies, &stats.TodayApplies, &stats.Last1HourApplies)
		}
	}
	return stats
}

// TopSearchesToday returns the most frequent keywords since local midnight,
// count desc then keyword asc. A non-positive limit means 5.
func (s *Service) TopSearchesToday(limit int) []model.KeywordCount {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	from := s.startOfDay(s.now())
	return s.topSearches(from, from.AddDate(0, 0, 1), limit)
}

// History returns one entry per calendar day, today first. A non-positive days means 15.
func (s *Service) History(days int) []model.DailyStats {
	if days <= 0 {
		days = defaultHistoryDays
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	today := s.startOfDay(s.now())
	history := make([]model.DailyStats, 0, days)
	for i := 0; i < days; i++ {
		start := today.AddDate(0, 0, -i)
		end := start.AddDate(0, 0, 1)

		day := model.DailyStats{Date: start.Format(time.DateOnly)}
		for _, e := range s.events {
			if e.OccurredAt.Before(start) || !e.OccurredAt.Before(end) {
				continue
			}
			switch e.Kind {
			case model.EventWebsiteView:
				day.Views++
			case model.EventJobApply:
				day.Applies++
			}
		}
		day.TopSearches = s.topSearches(start, end, defaultTopSearchesLimit)
		history = append(history, day)
	}
	return history
}

// topSearches aggregates search keywords in [from, to). Callers hold the read lock.
func (s *Service) topSearches(from, to time.Time, limit int) []model.KeywordCount {
	if limit <= 0 {
		limit = defaultTopSearchesLimit
	}

	counts := make(map[string]int64)
	for _, e := range s.events {
		if e.Kind != model.EventSearch || e.OccurredAt.Before(from) || !e.OccurredAt.Before(to) {
			continue
		}
		counts[e.Keyword]++
	}

	top := make([]model.KeywordCount, 0, len(counts))
	for kw, n := range counts {
		top = append(top, model.KeywordCount{Keyword: kw, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Keyword < top[j].Keyword
	})

	if len(top) > limit {
		top = top[:limit]
	}
	return top
}

// Prune drops raw events older than retention and returns how many were removed.
// Lifetime totals are unaffected.
func (s *Service) Prune(retention time.Duration) int {
	cutoff := s.now().Add(-retention)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	kept := s.events[:0]
	for _, e := range s.events {
		if !e.OccurredAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	removed := len(s.events) - len(kept)
	// Clear the tail so pruned events can be collected
	clear(s.events[len(kept):])
	s.events = kept
	if removed > 0 {
		s.dirty = true
	}
	return removed
}

// Flush writes the snapshot when anything changed since the last flush.
// Without a data file it does nothing.
func (s *Service) Flush() error {
	if s.dataFilePath == "" {
		return nil
	}

	s.mutex.Lock()
	if !s.dirty {
		s.mutex.Unlock()
		return nil
	}
	snap := snapshot{
		Events:   append([]model.AnalyticsEvent(nil), s.events...),
		Lifetime: copyCounters(s.lifetime),
	}
	s.dirty = false
	s.mutex.Unlock()

	if err := persistence.SaveGob(s.dataFilePath, snap); err != nil {
		s.mutex.Lock()
		s.dirty = true
		s.mutex.Unlock()
		return err
	}
	return nil
}

func copyCounters(c counters) counters {
	out := counters{
		WebsiteViews: c.WebsiteViews,
		Applies:      c.Applies,
		JobViews:     make(map[model.JobID]int64, len(c.JobViews)),
		JobApplies:   make(map[model.JobID]int64, len(c.JobApplies)),
	}
	for k, v := range c.JobViews {
		out.JobViews[k] = v
	}
	for k, v := range c.JobApplies {
		out.JobApplies[k] = v
	}
	return out
}

// loadData restores a previous snapshot. A missing file is a fresh start.
func (s *Service) loadData() error {
	if s.dataFilePath == "" {
		return nil
	}

	var snap snapshot
	if err := persistence.LoadGob(s.dataFilePath, &snap); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if snap.Events != nil {
		s.events = snap.Events
	}
	s.lifetime = snap.Lifetime
	if s.lifetime.JobViews == nil {
		s.lifetime.JobViews = make(map[model.JobID]int64)
	}
	if s.lifetime.JobApplies == nil {
		s.lifetime.JobApplies = make(map[model.JobID]int64)
	}
	return nil
}
