package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/gcbaptista/findmyjob/config"
	"github.com/gcbaptista/findmyjob/internal/search"
	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
)

func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "jobs",
			Aliases:  []string{"j"},
			Usage:    "Path to a JSON array of jobs",
			Required: true,
		},
		&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}, Usage: "Keyword search, results ranked by relevance"},
		&cli.StringFlag{Name: "role", Usage: "Role facet (developer, qa, design, ...)"},
		&cli.StringFlag{Name: "experience", Usage: "Experience bucket: fresher, 1-3 or 3+"},
		&cli.IntFlag{Name: "experience-years", Usage: "Years of experience, matched with one year of tolerance"},
		&cli.StringFlag{Name: "location", Usage: "Location facet (remote matches remote job types too)"},
		&cli.StringFlag{Name: "location-text", Usage: "Free-text location search"},
		&cli.StringFlag{Name: "company-type", Usage: "Company type facet"},
		&cli.StringFlag{Name: "job-type", Usage: "Job type, matched case-insensitively"},
		&cli.StringFlag{Name: "salary", Usage: "Salary bucket in LPA: 0-3, 3-6, 6-10 or 10+"},
		&cli.StringFlag{Name: "date-posted", Usage: "Posting window: 24h, 7d or 30d"},
		&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Admin match over id, title and company"},
		&cli.StringFlag{Name: "sort", Usage: "Explicit order: newest, oldest, az or za"},
		&cli.TimestampFlag{
			Name:   "now",
			Usage:  "Reference time for date windows (RFC 3339), defaults to the current time",
			Layout: time.RFC3339,
		},
	}
}

func queryCommand(c *cli.Context) error {
	jobs, err := readJobsFile(c.String("jobs"))
	if err != nil {
		return err
	}

	criteria := services.FilterCriteria{
		Keyword:      c.String("keyword"),
		Role:         c.String("role"),
		Experience:   c.String("experience"),
		Location:     c.String("location"),
		LocationText: c.String("location-text"),
		CompanyType:  c.String("company-type"),
		JobType:      c.String("job-type"),
		Salary:       c.String("salary"),
		DatePosted:   c.String("date-posted"),
		Query:        c.String("query"),
		Sort:         services.SortMode(c.String("sort")),
	}.Normalize()
	if c.IsSet("experience-years") {
		years := c.Int("experience-years")
		criteria.ExperienceYears = &years
	}
	if invalid := criteria.Validate(); len(invalid) > 0 {
		errs := make([]error, len(invalid))
		for i, e := range invalid {
			errs[i] = e
		}
		return fmt.Errorf("invalid criteria: %w", errors.Join(errs...))
	}

	opts := []search.Option{search.WithPoolSize(0)}
	if now := c.Timestamp("now"); now != nil {
		fixed := *now
		opts = append(opts, search.WithClock(func() time.Time { return fixed }))
	}
	svc, err := search.NewService(config.SearchSettings{}, opts...)
	if err != nil {
		return err
	}
	defer svc.Close()

	return writeJSON(c, svc.Evaluate(jobs, criteria))
}

func suggestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one query argument, got %d", c.NArg())
	}
	jobs, err := readJobsFile(c.String("jobs"))
	if err != nil {
		return err
	}

	svc, err := search.NewService(config.SearchSettings{MaxSuggestions: c.Int("max")}, search.WithPoolSize(0))
	if err != nil {
		return err
	}
	defer svc.Close()

	query := c.Args().First()
	var suggestions []string
	if c.Bool("location") {
		suggestions = svc.SuggestLocations(query, jobs)
	} else {
		suggestions = svc.Suggest(query, jobs)
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return writeJSON(c, suggestions)
}

func readJobsFile(path string) ([]model.JobRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}
	var jobs []model.JobRecord
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("parse jobs file %s: %w", path, err)
	}
	return jobs, nil
}

func writeJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
