package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
)

func contextWithQuery(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/jobs?"+rawQuery, nil)
	return c
}

func TestValidationResult_AddError(t *testing.T) {
	result := &ValidationResult{Valid: true}

	result.AddError("field1", "error message")

	if result.Valid {
		t.Error("Expected Valid to be false after adding error")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(result.Errors))
	}
	if result.Errors[0].Field != "field1" {
		t.Errorf("Expected field 'field1', got '%s'", result.Errors[0].Field)
	}
	if !result.HasErrors() {
		t.Error("Expected HasErrors to be true after adding error")
	}
}

func TestParseCriteria(t *testing.T) {
	c := contextWithQuery("role=%20developer%20&experience=3%2B&location=remote&companyType=MNC&jobType=Full-time" +
		"&salary=10%2B&datePosted=7D&keyword=java&locationText=pune&experienceYears=4&q=infosys&sort=Newest")

	criteria, result := ParseCriteria(c)
	if result.HasErrors() {
		t.Fatalf("Expected no errors, got %v", result.Errors)
	}

	want := services.FilterCriteria{
		Role:         "developer",
		Experience:   services.ExperienceThreePlus,
		Location:     "remote",
		CompanyType:  "MNC",
		JobType:      "Full-time",
		Salary:       services.SalaryTenPlus,
		DatePosted:   services.PostedLast7d,
		Keyword:      "java",
		LocationText: "pune",
		Query:        "infosys",
		Sort:         services.SortNewest,
	}
	if criteria.ExperienceYears == nil || *criteria.ExperienceYears != 4 {
		t.Fatalf("Expected experienceYears 4, got %v", criteria.ExperienceYears)
	}
	criteria.ExperienceYears = nil
	if criteria != want {
		t.Errorf("Expected %+v, got %+v", want, criteria)
	}
}

func TestParseCriteria_Empty(t *testing.T) {
	criteria, result := ParseCriteria(contextWithQuery(""))
	if result.HasErrors() {
		t.Fatalf("Expected no errors, got %v", result.Errors)
	}
	if criteria != (services.FilterCriteria{}) {
		t.Errorf("Expected zero criteria, got %+v", criteria)
	}
}

func TestParseCriteria_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantFields []string
	}{
		{name: "experience bucket", query: "experience=senior", wantFields: []string{"experience"}},
		{name: "salary bucket", query: "salary=100", wantFields: []string{"salary"}},
		{name: "date window", query: "datePosted=90d", wantFields: []string{"datePosted"}},
		{name: "sort mode", query: "sort=relevance", wantFields: []string{"sort"}},
		{name: "years not a number", query: "experienceYears=3.5", wantFields: []string{"experienceYears"}},
		{name: "years negative", query: "experienceYears=-2", wantFields: []string{"experienceYears"}},
		{name: "several problems", query: "salary=x&sort=y", wantFields: []string{"salary", "sort"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, result := ParseCriteria(contextWithQuery(tt.query))
			if result.Valid {
				t.Fatal("Expected validation to fail")
			}
			if len(result.Errors) != len(tt.wantFields) {
				t.Fatalf("Expected %d errors, got %v", len(tt.wantFields), result.Errors)
			}
			for i, field := range tt.wantFields {
				if result.Errors[i].Field != field {
					t.Errorf("Expected error %d on '%s', got '%s'", i, field, result.Errors[i].Field)
				}
			}
		})
	}
}

func TestValidateJobID(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		wantValid bool
	}{
		{name: "numeric", id: "42", wantValid: true},
		{name: "external string id", id: "ext-abc", wantValid: true},
		{name: "empty", id: "", wantValid: false},
		{name: "surrounding whitespace", id: " 42", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateJobID(tt.id)
			if result.Valid != tt.wantValid {
				t.Errorf("ValidateJobID(%q).Valid = %v, want %v", tt.id, result.Valid, tt.wantValid)
			}
		})
	}
}

func TestValidateJobRecord(t *testing.T) {
	tests := []struct {
		name       string
		job        model.JobRecord
		wantFields []string
	}{
		{name: "valid", job: model.JobRecord{Title: "Go Developer", Company: "Acme"}},
		{name: "missing title", job: model.JobRecord{Title: "   ", Company: "Acme"}, wantFields: []string{"title"}},
		{name: "missing company", job: model.JobRecord{Title: "Go Developer"}, wantFields: []string{"company"}},
		{name: "title too long", job: model.JobRecord{Title: strings.Repeat("a", maxTitleLength+1), Company: "Acme"}, wantFields: []string{"title"}},
		{name: "empty record", wantFields: []string{"title", "company"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := tt.job
			result := ValidateJobRecord(&job)
			if len(result.Errors) != len(tt.wantFields) {
				t.Fatalf("Expected %d errors, got %v", len(tt.wantFields), result.Errors)
			}
			for i, field := range tt.wantFields {
				if result.Errors[i].Field != field {
					t.Errorf("Expected error %d on '%s', got '%s'", i, field, result.Errors[i].Field)
				}
			}
		})
	}
}

func TestValidateLimit(t *testing.T) {
	tests := []struct {
		raw       string
		want      int
		wantValid bool
	}{
		{raw: "", want: 5, wantValid: true},
		{raw: "3", want: 3, wantValid: true},
		{raw: "500", want: 50, wantValid: true},
		{raw: "0", want: 5, wantValid: false},
		{raw: "abc", want: 5, wantValid: false},
	}

	for _, tt := range tests {
		t.Run("raw="+tt.raw, func(t *testing.T) {
			got, result := ValidateLimit(tt.raw, "limit", 5, 50)
			if got != tt.want {
				t.Errorf("ValidateLimit(%q) = %d, want %d", tt.raw, got, tt.want)
			}
			if result.Valid != tt.wantValid {
				t.Errorf("ValidateLimit(%q).Valid = %v, want %v", tt.raw, result.Valid, tt.wantValid)
			}
		})
	}
}
