// Package store provides the persistent job record stores: an embedded badger store
// and a PostgreSQL store. Both implement services.JobStore.
package store

import (
	"sort"
	"time"

	"github.com/gcbaptista/findmyjob/model"
)

// sortNewestFirst orders jobs by posting date desc, then id desc.
// Jobs without a date come last.
func sortNewestFirst(jobs []model.JobRecord) {
	sort.SliceStable(jobs, func(i, j int) bool {
		if a, b := jobs[i].PostedUnix(), jobs[j].PostedUnix(); a != b {
			return a > b
		}
		return jobs[i].ID.Compare(jobs[j].ID) > 0
	})
}

// stampPosted sets the posting date to now when the record has none
func stampPosted(job *model.JobRecord, now func() time.Time) {
	if job.PostedDate == nil {
		t := now().UTC()
		job.PostedDate = &t
	}
}
