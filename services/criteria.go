package services

import (
	"fmt"
	"strings"

	internalErrors "github.com/gcbaptista/findmyjob/internal/errors"
)

// Allowed values for the enumerated criteria fields.
var (
	ExperienceBuckets = []string{ExperienceFresher, ExperienceOneThree, ExperienceThreePlus}
	SalaryBuckets     = []string{SalaryUpTo3, Salary3To6, Salary6To10, SalaryTenPlus}
	PostedWindows     = []string{PostedLast24h, PostedLast7d, PostedLast30d}
	SortModes         = []SortMode{SortNewest, SortOldest, SortTitleA, SortTitleZ}
)

// Valid reports whether m is one of the explicit orderings. SortNone is not.
func (m SortMode) Valid() bool {
	for _, known := range SortModes {
		if m == known {
			return true
		}
	}
	return false
}

// Normalize trims and lowercases the enumerated fields and trims the facet text.
func (c FilterCriteria) Normalize() FilterCriteria {
	c.Role = strings.TrimSpace(c.Role)
	c.Location = strings.TrimSpace(c.Location)
	c.CompanyType = strings.TrimSpace(c.CompanyType)
	c.JobType = strings.TrimSpace(c.JobType)
	c.Experience = strings.ToLower(strings.TrimSpace(c.Experience))
	c.Salary = strings.ToLower(strings.TrimSpace(c.Salary))
	c.DatePosted = strings.ToLower(strings.TrimSpace(c.DatePosted))
	c.Sort = SortMode(strings.ToLower(strings.TrimSpace(string(c.Sort))))
	return c
}

// Validate checks the enumerated fields and experience years of normalized
// criteria. Errors come back in field order: experience, salary, datePosted,
// sort, experienceYears.
func (c FilterCriteria) Validate() []*internalErrors.ValidationError {
	var errs []*internalErrors.ValidationError

	check := func(field, value string, allowed []string) {
		if value == "" {
			return
		}
		for _, a := range allowed {
			if value == a {
				return
			}
		}
		errs = append(errs, internalErrors.NewValidationError(field,
			fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", "))))
	}

	check("experience", c.Experience, ExperienceBuckets)
	check("salary", c.Salary, SalaryBuckets)
	check("datePosted", c.DatePosted, PostedWindows)

	sorts := make([]string, len(SortModes))
	for i, m := range SortModes {
		sorts[i] = string(m)
	}
	check("sort", string(c.Sort), sorts)

	if c.ExperienceYears != nil && *c.ExperienceYears < 0 {
		errs = append(errs, internalErrors.NewValidationError("experienceYears", "experienceYears cannot be negative"))
	}
	return errs
}
