package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	internalErrors "github.com/gcbaptista/findmyjob/internal/errors"
	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
)

const jobsSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id               BIGSERIAL PRIMARY KEY,
	title            TEXT NOT NULL DEFAULT '',
	company          TEXT NOT NULL DEFAULT '',
	company_logo     TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	experience_level TEXT NOT NULL DEFAULT '',
	job_type         TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL DEFAULT '',
	posted_date      TIMESTAMPTZ,
	skills           TEXT NOT NULL DEFAULT '',
	salary           TEXT NOT NULL DEFAULT '',
	apply_link       TEXT NOT NULL DEFAULT '',
	role             TEXT NOT NULL DEFAULT '',
	company_type     TEXT NOT NULL DEFAULT '',
	responsibilities TEXT NOT NULL DEFAULT '',
	requirements     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS jobs_posted_date_idx ON jobs (posted_date DESC NULLS LAST, id DESC);
`

const jobColumns = `id::text, title, company, company_logo, location, description, experience_level,
	job_type, category, posted_date, skills, salary, apply_link, role, company_type,
	responsibilities, requirements`

// PostgresStore keeps job records in a PostgreSQL table.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	now    func() time.Time
}

var _ services.JobStore = (*PostgresStore)(nil)

// NewPostgresStore creates and verifies a connection pool for databaseURL.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return &PostgresStore{
		pool:   pool,
		logger: slog.Default().With("component", "job-store", "backend", "postgres"),
		now:    time.Now,
	}, nil
}

// Migrate creates the jobs table and its ordering index when missing
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, jobsSchema); err != nil {
		return fmt.Errorf("migrate jobs table: %w", err)
	}
	return nil
}

func scanJob(row pgx.Row) (model.JobRecord, error) {
	var (
		job    model.JobRecord
		id     string
		posted *time.Time
	)
	err := row.Scan(
		&id, &job.Title, &job.Company, &job.CompanyLogo, &job.Location, &job.Description,
		&job.ExperienceLevel, &job.JobType, &job.Category, &posted, &job.Skills, &job.Salary,
		&job.ApplyLink, &job.Role, &job.CompanyType, &job.Responsibilities, &job.Requirements,
	)
	if err != nil {
		return model.JobRecord{}, err
	}
	job.ID = model.JobID(id)
	if posted != nil {
		utc := posted.UTC()
		job.PostedDate = &utc
	}
	return job, nil
}

// numericID parses id for the BIGSERIAL key. Ids that are not integers cannot exist in the table.
func numericID(id model.JobID) (int64, bool) {
	n, err := strconv.ParseInt(id.String(), 10, 64)
	return n, err == nil
}

// List returns every job, newest first
func (s *PostgresStore) List(ctx context.Context) ([]model.JobRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY posted_date DESC NULLS LAST, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs query: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.JobRecord, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("list jobs scan: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// Get returns a single job
func (s *PostgresStore) Get(ctx context.Context, id model.JobID) (model.JobRecord, error) {
	n, ok := numericID(id)
	if !ok {
		return model.JobRecord{}, internalErrors.NewJobNotFoundError(id.String())
	}

	job, err := scanJob(s.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, n))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.JobRecord{}, internalErrors.NewJobNotFoundError(id.String())
	}
	if err != nil {
		return model.JobRecord{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

// Create inserts a job and returns it with its assigned id
func (s *PostgresStore) Create(ctx context.Context, job model.JobRecord) (model.JobRecord, error) {
	stampPosted(&job, s.now)

	created, err := scanJob(s.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, company, company_logo, location, description, experience_level,
		        job_type, category, posted_date, skills, salary, apply_link, role, company_type,
		        responsibilities, requirements)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING `+jobColumns,
		job.Title, job.Company, job.CompanyLogo, job.Location, job.Description, job.ExperienceLevel,
		job.JobType, job.Category, job.PostedDate, job.Skills, job.Salary, job.ApplyLink, job.Role,
		job.CompanyType, job.Responsibilities, job.Requirements,
	))
	if err != nil {
		return model.JobRecord{}, fmt.Errorf("create job: %w", err)
	}

	s.logger.Debug("job created", "id", created.ID)
	return created, nil
}

// Update replaces the editable fields of an existing job. The posted date is kept.
func (s *PostgresStore) Update(ctx context.Context, id model.JobID, job model.JobRecord) (model.JobRecord, error) {
	n, ok := numericID(id)
	if !ok {
		return model.JobRecord{}, internalErrors.NewJobNotFoundError(id.String())
	}

	updated, err := scanJob(s.pool.QueryRow(ctx,
		`UPDATE jobs SET title = $2, company = $3, company_logo = $4, location = $5, description = $6,
		        experience_level = $7, job_type = $8, category = $9, skills = $10, salary = $11,
		        apply_link = $12, role = $13, company_type = $14, responsibilities = $15, requirements = $16
		 WHERE id = $1
		 RETURNING `+jobColumns,
		n, job.Title, job.Company, job.CompanyLogo, job.Location, job.Description, job.ExperienceLevel,
		job.JobType, job.Category, job.Skills, job.Salary, job.ApplyLink, job.Role,
		job.CompanyType, job.Responsibilities, job.Requirements,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.JobRecord{}, internalErrors.NewJobNotFoundError(id.String())
	}
	if err != nil {
		return model.JobRecord{}, fmt.Errorf("update job %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes a job. Deleting a missing job is not an error.
func (s *PostgresStore) Delete(ctx context.Context, id model.JobID) error {
	n, ok := numericID(id)
	if !ok {
		return nil
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, n); err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
