package search

import (
	"sort"
	"strings"

	"github.com/gcbaptista/findmyjob/model"
)

// Relevance weights. Within a field group only the best tier counts.
const (
	titleExactScore  = 100
	titlePrefixScore = 80
	titleMatchScore  = 60

	skillExactScore = 50
	skillMatchScore = 30

	companyExactScore  = 20
	companyPrefixScore = 15
	companyMatchScore  = 10
)

// Score computes the relevance of a job for a lowercased keyword
func Score(job model.JobRecord, kw string) int {
	if kw == "" {
		return 0
	}
	score := 0

	title := strings.ToLower(job.Title)
	switch {
	case title == kw:
		score += titleExactScore
	case strings.HasPrefix(title, kw):
		score += titlePrefixScore
	case strings.Contains(title, kw):
		score += titleMatchScore
	}

	skills := strings.ToLower(job.Skills)
	if hasSkillToken(skills, kw) {
		score += skillExactScore
	} else if strings.Contains(skills, kw) {
		score += skillMatchScore
	}

	company := strings.ToLower(job.Company)
	switch {
	case company == kw:
		score += companyExactScore
	case strings.HasPrefix(company, kw):
		score += companyPrefixScore
	case strings.Contains(company, kw):
		score += companyMatchScore
	}

	return score
}

// hasSkillToken reports whether one comma separated, trimmed skill equals kw
func hasSkillToken(skills, kw string) bool {
	for _, s := range strings.Split(skills, ",") {
		if strings.TrimSpace(s) == kw {
			return true
		}
	}
	return false
}

// scoredJob pairs a job with its relevance score
type scoredJob struct {
	job   model.JobRecord
	score int
}

// rankByRelevance orders jobs by score desc, then newest posting, then largest id.
// The input slice is not modified.
func rankByRelevance(jobs []model.JobRecord, keyword string) []model.JobRecord {
	kw := strings.ToLower(keyword)

	scored := make([]scoredJob, len(jobs))
	for i, job := range jobs {
		scored[i] = scoredJob{job: job, score: Score(job, kw)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return newerFirst(scored[i].job, scored[j].job)
	})

	out := make([]model.JobRecord, len(scored))
	for i, s := range scored {
		out[i] = s.job
	}
	return out
}

// newerFirst orders by posting date desc, then id desc. Missing dates are oldest.
func newerFirst(a, b model.JobRecord) bool {
	if ad, bd := a.PostedUnix(), b.PostedUnix(); ad != bd {
		return ad > bd
	}
	return a.ID.Compare(b.ID) > 0
}
