package model

import "time"

// EventKind classifies an analytics event
type EventKind string

const (
	EventWebsiteView EventKind = "website_view"
	EventJobView     EventKind = "job_view"
	EventJobApply    EventKind = "job_apply"
	EventSearch      EventKind = "search"
)

// AnalyticsEvent is a single recorded interaction
type AnalyticsEvent struct {
	ID         string    `json:"id"`
	Kind       EventKind `json:"kind"`
	JobID      JobID     `json:"job_id,omitempty"`
	Keyword    string    `json:"keyword,omitempty"` // trimmed and lowercased, search events only
	OccurredAt time.Time `json:"occurred_at"`
}

// TrafficStats holds view and apply counts over the standard reporting windows
type TrafficStats struct {
	Lifetime         int64 `json:"lifetime"`
	Last7Days        int64 `json:"last7Days"`
	Today            int64 `json:"today"`
	Last1Hour        int64 `json:"last1Hour"`
	LifetimeApplies  int64 `json:"lifetimeApplies"`
	Last7DaysApplies int64 `json:"last7DaysApplies"`
	TodayApplies     int64 `json:"todayApplies"`
	Last1HourApplies int64 `json:"last1HourApplies"`
}

// KeywordCount is an aggregated search term
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}

// DailyStats summarises one calendar day
type DailyStats struct {
	Date        string         `json:"date"` // YYYY-MM-DD
	Views       int64          `json:"views"`
	Applies     int64          `json:"applies"`
	TopSearches []KeywordCount `json:"topSearches"`
}
