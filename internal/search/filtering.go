package search

import (
	"math"
	"strings"
	"time"

	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
)

// roleAlias lists extra substrings that make a job match a canonical role key
// even when the key itself appears nowhere in the posting.
type roleAlias struct {
	title  []string
	skills []string
}

// roleAliases is keyed by the lowercased role facet value.
var roleAliases = map[string]roleAlias{
	"developer": {title: []string{"dev", "engineer", "full stack", "backend", "frontend"}},
	"ml":        {title: []string{"machine learning", " ml ", "data scientist", "ai "}, skills: []string{"tensorflow", "pytorch"}},
	"qa":        {title: []string{"test", "qa", "quality"}},
	"devops":    {title: []string{"devops", "cloud", "sre"}, skills: []string{"docker", "kubernetes"}},
	"analyst":   {title: []string{"analyst", "bi ", "data"}},
	"design":    {title: []string{"design", "ui", "ux"}},
}

// postedWindows maps a date-posted facet value to its maximum age.
var postedWindows = map[string]time.Duration{
	services.PostedLast24h: 24 * time.Hour,
	services.PostedLast7d:  7 * 24 * time.Hour,
	services.PostedLast30d: 30 * 24 * time.Hour,
}

// predicate reports whether a job satisfies one active facet
type predicate func(job *model.JobRecord) bool

// compileFacets returns one predicate per active facet of c.
// now anchors the date-posted window.
func compileFacets(c services.FilterCriteria, now time.Time) []predicate {
	var preds []predicate

	if c.Role != "" {
		role := c.Role
		preds = append(preds, func(job *model.JobRecord) bool { return MatchRole(*job, role) })
	}
	if c.Location != "" {
		loc := c.Location
		preds = append(preds, func(job *model.JobRecord) bool { return MatchLocation(*job, loc) })
	}
	if c.CompanyType != "" {
		ct := c.CompanyType
		preds = append(preds, func(job *model.JobRecord) bool { return MatchCompanyType(*job, ct) })
	}
	if c.JobType != "" {
		jt := c.JobType
		preds = append(preds, func(job *model.JobRecord) bool { return MatchJobType(*job, jt) })
	}
	if c.Salary != "" {
		bucket := c.Salary
		preds = append(preds, func(job *model.JobRecord) bool { return MatchSalary(*job, bucket) })
	}
	if c.Experience != "" {
		bucket := c.Experience
		preds = append(preds, func(job *model.JobRecord) bool { return MatchExperience(*job, bucket) })
	}
	if c.ExperienceYears != nil {
		years := *c.ExperienceYears
		preds = append(preds, func(job *model.JobRecord) bool { return MatchExperienceYears(*job, years) })
	}
	if c.DatePosted != "" {
		window := c.DatePosted
		preds = append(preds, func(job *model.JobRecord) bool { return MatchDatePosted(*job, window, now) })
	}

	return preds
}

// matchesAll applies every predicate (AND logic)
func matchesAll(job *model.JobRecord, preds []predicate) bool {
	for _, p := range preds {
		if !p(job) {
			return false
		}
	}
	return true
}

// MatchRole checks the role facet against role, title, category and skills,
// then falls back to the alias table.
func MatchRole(job model.JobRecord, value string) bool {
	roleVal := strings.ToLower(value)
	title := strings.ToLower(job.Title)
	skills := strings.ToLower(job.Skills)

	if strings.Contains(strings.ToLower(job.Role), roleVal) ||
		strings.Contains(title, roleVal) ||
		strings.Contains(strings.ToLower(job.Category), roleVal) ||
		strings.Contains(skills, roleVal) {
		return true
	}

	alias, ok := roleAliases[roleVal]
	if !ok {
		return false
	}
	return containsAny(title, alias.title) || containsAny(skills, alias.skills)
}

// MatchLocation treats "remote" specially: a job is remote when either its
// location or its job type says so.
func MatchLocation(job model.JobRecord, value string) bool {
	locFilter := strings.ToLower(value)
	location := strings.ToLower(job.Location)

	if locFilter == "remote" {
		return strings.Contains(location, "remote") || strings.Contains(strings.ToLower(job.JobType), "remote")
	}
	return strings.Contains(location, locFilter)
}

// MatchCompanyType is a case-insensitive substring test
func MatchCompanyType(job model.JobRecord, value string) bool {
	return strings.Contains(strings.ToLower(job.CompanyType), strings.ToLower(value))
}

// MatchJobType is a case-insensitive equality test
func MatchJobType(job model.JobRecord, value string) bool {
	return strings.EqualFold(job.JobType, value)
}

// MatchSalary checks a salary bucket. Salaries without any number are never
// excluded, so legacy descriptors like "Competitive" stay visible.
func MatchSalary(job model.JobRecord, bucket string) bool {
	r := ParseRange(job.Salary)
	if !r.OK {
		return true
	}

	switch bucket {
	case services.SalaryUpTo3:
		return r.Low < 3
	case services.Salary3To6:
		return r.Low < 6 && r.High >= 3
	case services.Salary6To10:
		return r.Low < 10 && r.High >= 6
	case services.SalaryTenPlus:
		return r.High >= 10
	default:
		return true
	}
}

// isFresher reports whether an experience descriptor denotes an entry-level posting
func isFresher(experience string) bool {
	exp := strings.ToLower(experience)
	return strings.Contains(exp, "fresh") || strings.Contains(exp, "0 - 0") || exp == "0"
}

// MatchExperience checks an experience bucket. Any bucket other than "fresher"
// excludes fresher postings, even when the bucket value is unknown.
func MatchExperience(job model.JobRecord, bucket string) bool {
	fresher := isFresher(job.ExperienceLevel)
	if bucket == services.ExperienceFresher {
		return fresher
	}
	if fresher {
		return false
	}

	r := ParseRange(strings.ToLower(job.ExperienceLevel))
	if !r.OK {
		return true
	}

	switch bucket {
	case services.ExperienceOneThree:
		return r.Low < 3 && r.High >= 1
	case services.ExperienceThreePlus:
		return r.High >= 3
	default:
		return true
	}
}

// MatchExperienceYears checks a number of years with a one year tolerance on
// both sides. Zero years means fresher.
func MatchExperienceYears(job model.JobRecord, years int) bool {
	fresher := isFresher(job.ExperienceLevel)
	if years == 0 {
		return fresher
	}
	if fresher {
		return false
	}

	r := ParseRange(strings.ToLower(job.ExperienceLevel))
	if !r.OK {
		return true
	}
	n := float64(years)
	return r.Low <= n+1 && r.High >= math.Max(0, n-1)
}

// MatchDatePosted requires a posting date no further than the window from now.
// Jobs without a date never match, whatever the window.
func MatchDatePosted(job model.JobRecord, window string, now time.Time) bool {
	if job.PostedDate == nil {
		return false
	}
	maxAge, ok := postedWindows[window]
	if !ok {
		return true
	}

	diff := now.Sub(*job.PostedDate)
	if diff < 0 {
		diff = -diff
	}
	return diff <= maxAge
}

// containsAny reports whether s contains any of the substrings
func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
