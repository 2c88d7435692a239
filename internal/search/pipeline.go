package search

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
)

// Evaluate filters jobs by every active membership test and facet of criteria, then
// orders the survivors. An explicit sort wins over keyword relevance; without either
// the input order is kept. The input slice and its records are never modified.
func (s *Service) Evaluate(jobs []model.JobRecord, criteria services.FilterCriteria) []model.JobRecord {
	preds := compileMembership(criteria)
	preds = append(preds, compileFacets(criteria, s.now())...)

	var out []model.JobRecord
	if len(preds) == 0 {
		out = make([]model.JobRecord, len(jobs))
		copy(out, jobs)
	} else {
		mask := s.evaluateMask(jobs, preds)
		out = make([]model.JobRecord, 0, len(jobs))
		for i, keep := range mask {
			if keep {
				out = append(out, jobs[i])
			}
		}
	}

	switch {
	case criteria.Sort.Valid():
		sortExplicit(out, criteria.Sort)
	case criteria.HasKeyword():
		out = rankByRelevance(out, strings.TrimSpace(criteria.Keyword))
	}
	return out
}

// compileMembership builds the free-text membership tests: keyword, location
// text and the admin query.
func compileMembership(c services.FilterCriteria) []predicate {
	var preds []predicate

	if c.HasKeyword() {
		kw := strings.ToLower(strings.TrimSpace(c.Keyword))
		preds = append(preds, func(job *model.JobRecord) bool {
			return strings.Contains(strings.ToLower(job.Title), kw) ||
				strings.Contains(strings.ToLower(job.Company), kw) ||
				strings.Contains(strings.ToLower(job.Location), kw) ||
				strings.Contains(strings.ToLower(job.Skills), kw)
		})
	}
	if text := strings.ToLower(strings.TrimSpace(c.LocationText)); text != "" {
		preds = append(preds, func(job *model.JobRecord) bool {
			return strings.Contains(strings.ToLower(job.Location), text)
		})
	}
	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		preds = append(preds, func(job *model.JobRecord) bool {
			return strings.Contains(strings.ToLower(job.ID.String()), q) ||
				strings.Contains(strings.ToLower(job.Title), q) ||
				strings.Contains(strings.ToLower(job.Company), q)
		})
	}

	return preds
}

// evaluateMask reports for each job whether it passes every predicate. Large
// collections are split into chunks evaluated on the worker pool; each chunk owns a
// disjoint range of the mask.
func (s *Service) evaluateMask(jobs []model.JobRecord, preds []predicate) []bool {
	mask := make([]bool, len(jobs))
	fill := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			mask[i] = matchesAll(&jobs[i], preds)
		}
	}

	pool := s.pool
	if pool == nil || len(jobs) < s.settings.ParallelThreshold {
		fill(0, len(jobs))
		return mask
	}

	chunks := pool.Cap()
	if chunks < 1 {
		chunks = 1
	}
	size := (len(jobs) + chunks - 1) / chunks

	var wg sync.WaitGroup
	for lo := 0; lo < len(jobs); lo += size {
		hi := min(lo+size, len(jobs))
		wg.Add(1)
		task := func() {
			defer wg.Done()
			fill(lo, hi)
		}
		if err := pool.Submit(task); err != nil {
			s.logger.Debug("worker pool rejected chunk, evaluating inline", "error", err)
			task()
		}
	}
	wg.Wait()

	return mask
}

// sortExplicit applies a user selected ordering in place. Ties keep their
// relative order.
func sortExplicit(jobs []model.JobRecord, mode services.SortMode) {
	switch mode {
	case services.SortNewest:
		sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].PostedUnix() > jobs[j].PostedUnix() })
	case services.SortOldest:
		sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].PostedUnix() < jobs[j].PostedUnix() })
	case services.SortTitleA, services.SortTitleZ:
		// Collators carry per-call buffers
		col := collate.New(language.English)
		desc := mode == services.SortTitleZ
		sort.SliceStable(jobs, func(i, j int) bool {
			c := col.CompareString(jobs[i].Title, jobs[j].Title)
			if desc {
				return c > 0
			}
			return c < 0
		})
	}
}
