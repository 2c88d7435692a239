package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// JobID identifies a job posting. Stores assign base-10 integer ids, but ids coming
// from other systems may be arbitrary strings, so the value is kept as text.
type JobID string

// String returns the id as plain text.
func (id JobID) String() string {
	return string(id)
}

// Compare orders two ids. When both are base-10 integers they are compared
// numerically, otherwise lexically. It returns -1, 0 or +1.
func (id JobID) Compare(other JobID) int {
	a, aErr := strconv.ParseInt(string(id), 10, 64)
	b, bErr := strconv.ParseInt(string(other), 10, 64)
	if aErr == nil && bErr == nil {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(string(id), string(other))
}

// UnmarshalJSON accepts both JSON numbers and JSON strings.
func (id *JobID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = JobID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("job id must be a number or a string: %w", err)
	}
	*id = JobID(n.String())
	return nil
}

// MarshalJSON writes integer ids as JSON numbers and everything else as strings,
// so clients that expect numeric ids keep getting them.
func (id JobID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// JobRecord is a single job posting. Every text field is optional and an absent
// value is the empty string. PostedDate is nil when the posting date is unknown.
type JobRecord struct {
	ID               JobID      `json:"id"`
	Title            string     `json:"title"`
	Company          string     `json:"company"`
	CompanyLogo      string     `json:"companyLogo,omitempty"`
	Location         string     `json:"location"`
	Description      string     `json:"description,omitempty"`
	ExperienceLevel  string     `json:"experienceLevel"` // e.g. "2 - 5 Years", "Fresher"
	JobType          string     `json:"jobType"`         // e.g. "Full-time", "Internship"
	Category         string     `json:"category"`        // e.g. "Java Full Stack Developer"
	PostedDate       *time.Time `json:"postedDate"`
	Skills           string     `json:"skills"` // comma separated
	Salary           string     `json:"salary"` // e.g. "4 - 8 LPA"
	ApplyLink        string     `json:"applyLink,omitempty"`
	Role             string     `json:"role"`        // e.g. "Developer", "Analyst"
	CompanyType      string     `json:"companyType"` // e.g. "Startup", "MNC"
	Responsibilities string     `json:"responsibilities,omitempty"`
	Requirements     string     `json:"requirements,omitempty"`
}

// PostedUnix returns the posting time as unix milliseconds, or 0 when the date is
// unknown. Unknown dates therefore sort as the oldest postings.
func (j JobRecord) PostedUnix() int64 {
	if j.PostedDate == nil {
		return 0
	}
	return j.PostedDate.UnixMilli()
}

// UpdateFrom copies every editable field from src. The id and posting date are kept.
func (j *JobRecord) UpdateFrom(src JobRecord) {
	j.Title = src.Title
	j.Company = src.Company
	j.CompanyLogo = src.CompanyLogo
	j.Location = src.Location
	j.Description = src.Description
	j.ExperienceLevel = src.ExperienceLevel
	j.JobType = src.JobType
	j.Category = src.Category
	j.Skills = src.Skills
	j.Salary = src.Salary
	j.ApplyLink = src.ApplyLink
	j.Role = src.Role
	j.CompanyType = src.CompanyType
	j.Responsibilities = src.Responsibilities
	j.Requirements = src.Requirements
}
