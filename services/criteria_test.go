package services

import (
	"errors"
	"testing"

	internalErrors "github.com/gcbaptista/findmyjob/internal/errors"
)

func TestSortMode_Valid(t *testing.T) {
	tests := []struct {
		mode SortMode
		want bool
	}{
		{SortNewest, true},
		{SortOldest, true},
		{SortTitleA, true},
		{SortTitleZ, true},
		{SortNone, false},
		{"Newest", false},
		{"relevance", false},
	}

	for _, tt := range tests {
		if got := tt.mode.Valid(); got != tt.want {
			t.Errorf("SortMode(%q).Valid() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestFilterCriteria_Normalize(t *testing.T) {
	got := FilterCriteria{
		Role:       " developer ",
		Experience: " 3+ ",
		Salary:     "10+",
		DatePosted: "7D",
		Sort:       " AZ",
		Keyword:    "  Java ",
	}.Normalize()

	want := FilterCriteria{
		Role:       "developer",
		Experience: ExperienceThreePlus,
		Salary:     SalaryTenPlus,
		DatePosted: PostedLast7d,
		Sort:       SortTitleA,
		Keyword:    "  Java ",
	}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestFilterCriteria_Validate(t *testing.T) {
	negative := -1
	zero := 0

	tests := []struct {
		name       string
		criteria   FilterCriteria
		wantFields []string
	}{
		{name: "empty", criteria: FilterCriteria{}},
		{name: "all known", criteria: FilterCriteria{
			Experience: ExperienceFresher, Salary: Salary3To6, DatePosted: PostedLast24h,
			Sort: SortNewest, ExperienceYears: &zero,
		}},
		{name: "free text is not checked", criteria: FilterCriteria{Role: "anything", Location: "mars"}},
		{name: "unknown experience", criteria: FilterCriteria{Experience: "senior"}, wantFields: []string{"experience"}},
		{name: "unknown window", criteria: FilterCriteria{DatePosted: "90d"}, wantFields: []string{"datePosted"}},
		{name: "unknown sort", criteria: FilterCriteria{Sort: "bogus"}, wantFields: []string{"sort"}},
		{name: "negative years", criteria: FilterCriteria{ExperienceYears: &negative}, wantFields: []string{"experienceYears"}},
		{name: "field order", criteria: FilterCriteria{Sort: "x", Salary: "y", Experience: "z"},
			wantFields: []string{"experience", "salary", "sort"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.criteria.Validate()
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("Expected %d errors, got %v", len(tt.wantFields), errs)
			}
			for i, field := range tt.wantFields {
				if errs[i].Field != field {
					t.Errorf("Expected error %d on '%s', got '%s'", i, field, errs[i].Field)
				}
				if !errors.Is(errs[i], internalErrors.ErrInvalidInput) {
					t.Errorf("Expected error %d to match ErrInvalidInput", i)
				}
			}
		})
	}
}
