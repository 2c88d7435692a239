package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	internalErrors "github.com/gcbaptista/findmyjob/internal/errors"
	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
)

const (
	jobKeyPrefix             = "job/"
	jobIDSequence            = "seq/job"
	defaultSequenceBandwidth = 100
)

// BadgerStore keeps job records in an embedded badger database.
// Keys are job/<id>; values are gob encoded records.
type BadgerStore struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger *slog.Logger
	now    func() time.Time
}

var _ services.JobStore = (*BadgerStore)(nil)

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

// Badger is chatty at info level, so its info messages go to debug
func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBadgerStore opens (creating when needed) a badger database in dir.
// With inMemory set, dir is ignored and nothing touches the disk.
func OpenBadgerStore(dir string, inMemory bool) (*BadgerStore, error) {
	logger := slog.Default().With("component", "job-store", "backend", "badger")

	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(dir)
	}
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}

	seq, err := db.GetSequence([]byte(jobIDSequence), defaultSequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open job id sequence: %w", err)
	}

	return &BadgerStore{db: db, seq: seq, logger: logger, now: time.Now}, nil
}

func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create data dir %s: %w", dir, err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

func jobKey(id model.JobID) []byte {
	return []byte(jobKeyPrefix + id.String())
}

func encodeJob(job model.JobRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(job); err != nil {
		return nil, fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	return buf.Bytes(), nil
}

func decodeJob(val []byte) (model.JobRecord, error) {
	var job model.JobRecord
	if err := gob.NewDecoder(bytes.NewReader(val)).Decode(&job); err != nil {
		return model.JobRecord{}, fmt.Errorf("decode job: %w", err)
	}
	return job, nil
}

func readJob(txn *badger.Txn, id model.JobID) (model.JobRecord, error) {
	item, err := txn.Get(jobKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return model.JobRecord{}, internalErrors.NewJobNotFoundError(id.String())
	}
	if err != nil {
		return model.JobRecord{}, err
	}
	var job model.JobRecord
	err = item.Value(func(val []byte) error {
		job, err = decodeJob(val)
		return err
	})
	return job, err
}

// List returns every job, newest first
func (s *BadgerStore) List(ctx context.Context) ([]model.JobRecord, error) {
	jobs := make([]model.JobRecord, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(jobKeyPrefix)
		iter := txn.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				job, err := decodeJob(val)
				if err != nil {
					return err
				}
				jobs = append(jobs, job)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(jobs)
	return jobs, nil
}

// Get returns a single job
func (s *BadgerStore) Get(ctx context.Context, id model.JobID) (model.JobRecord, error) {
	var job model.JobRecord
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		job, err = readJob(txn, id)
		return err
	})
	return job, err
}

// Create stores a new job under the next id from the sequence
func (s *BadgerStore) Create(ctx context.Context, job model.JobRecord) (model.JobRecord, error) {
	next, err := s.seq.Next()
	if err != nil {
		return model.JobRecord{}, fmt.Errorf("next job id: %w", err)
	}
	// Sequences start at 0; ids start at 1
	if next == 0 {
		if next, err = s.seq.Next(); err != nil {
			return model.JobRecord{}, fmt.Errorf("next job id: %w", err)
		}
	}

	job.ID = model.JobID(strconv.FormatUint(next, 10))
	stampPosted(&job, s.now)

	val, err := encodeJob(job)
	if err != nil {
		return model.JobRecord{}, err
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(jobKey(job.ID), val)
	}); err != nil {
		return model.JobRecord{}, fmt.Errorf("store job %s: %w", job.ID, err)
	}

	s.logger.Debug("job created", "id", job.ID)
	return job, nil
}

// Update replaces the editable fields of an existing job
func (s *BadgerStore) Update(ctx context.Context, id model.JobID, job model.JobRecord) (model.JobRecord, error) {
	var updated model.JobRecord
	err := s.db.Update(func(txn *badger.Txn) error {
		existing, err := readJob(txn, id)
		if err != nil {
			return err
		}
		existing.UpdateFrom(job)

		val, err := encodeJob(existing)
		if err != nil {
			return err
		}
		updated = existing
		return txn.Set(jobKey(id), val)
	})
	if err != nil {
		return model.JobRecord{}, err
	}
	return updated, nil
}

// Delete removes a job. Deleting a missing job is not an error.
func (s *BadgerStore) Delete(ctx context.Context, id model.JobID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(jobKey(id))
	})
}

// Close releases the id sequence and closes the database
func (s *BadgerStore) Close() error {
	if err := s.seq.Release(); err != nil {
		s.logger.Warn("failed to release job id sequence", "error", err)
	}
	return s.db.Close()
}
