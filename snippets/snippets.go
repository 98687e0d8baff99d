// Package snippets implements the operations the command line and the
// browser invoke: each loads the store, performs one change or query and,
// when mutating, saves under the store lock.
package snippets

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cmdsaver/export"
	"cmdsaver/history"
	"cmdsaver/matcher"
	"cmdsaver/model"
	"cmdsaver/store"

	"github.com/charmbracelet/log"
)

// ErrNotFound means no record id starts with the given prefix.
var ErrNotFound = errors.New("no command found")

// BackupPolicy decides whether Delete snapshots explicitly before saving.
type BackupPolicy int

const (
	// BackupTwiceOnDelete snapshots before the delete and again in the save.
	BackupTwiceOnDelete BackupPolicy = iota
	// BackupOncePerWrite relies on the snapshot taken by the save.
	BackupOncePerWrite
)

// Edit holds the fields to change. A nil field is left as it is; a non-nil
// empty Tags clears all tags.
type Edit struct {
	Command     *string
	Description *string
	Tags        *[]string
}

type Service struct {
	store      *store.Store
	history    *history.DB
	exportPath string
	policy     BackupPolicy
	logger     *log.Logger
}

type Option func(*Service)

// WithHistory enables usage tracking.
func WithHistory(h *history.DB) Option {
	return func(s *Service) { s.history = h }
}

func WithExportPath(path string) Option {
	return func(s *Service) { s.exportPath = path }
}

func WithBackupPolicy(p BackupPolicy) Option {
	return func(s *Service) { s.policy = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:      st,
		exportPath: "commands.md",
		policy:     BackupTwiceOnDelete,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add saves a new record at the end of the collection.
func (s *Service) Add(ctx context.Context, command, description string, tags []string) (model.Record, error) {
	var rec model.Record
	err := s.mutate(ctx, func(records []model.Record) ([]model.Record, bool, error) {
		rec = model.NewRecord(command, description, tags)
		return append(records, rec), true, nil
	})
	if err != nil {
		return model.Record{}, err
	}
	s.logger.Debug("added record", "id", rec.ID)
	return rec, nil
}

// List returns every record in stored order.
func (s *Service) List(ctx context.Context) ([]model.Record, error) {
	return s.store.Load()
}

// Read returns the first record whose id starts with prefix.
func (s *Service) Read(ctx context.Context, prefix string) (model.Record, error) {
	records, err := s.store.Load()
	if err != nil {
		return model.Record{}, err
	}
	i := model.FindFirstByPrefix(records, prefix)
	if i < 0 {
		return model.Record{}, notFound(prefix)
	}
	return records[i], nil
}

// Edit updates the supplied fields of the first record whose id starts with
// prefix. Nothing is written when no record matches.
func (s *Service) Edit(ctx context.Context, prefix string, e Edit) (model.Record, error) {
	var rec model.Record
	err := s.mutate(ctx, func(records []model.Record) ([]model.Record, bool, error) {
		i := model.FindFirstByPrefix(records, prefix)
		if i < 0 {
			return nil, false, notFound(prefix)
		}
		r := &records[i]
		if e.Command != nil {
			r.Command = *e.Command
		}
		if e.Description != nil {
			r.Description = *e.Description
		}
		if e.Tags != nil {
			r.Tags = append([]string{}, (*e.Tags)...)
		}
		rec = *r
		return records, true, nil
	})
	if err != nil {
		return model.Record{}, err
	}
	s.logger.Debug("edited record", "id", rec.ID)
	return rec, nil
}

// Delete removes every record whose id starts with prefix and returns them.
// Nothing is written when no record matches.
func (s *Service) Delete(ctx context.Context, prefix string) ([]model.Record, error) {
	var removed []model.Record
	err := s.mutate(ctx, func(records []model.Record) ([]model.Record, bool, error) {
		var kept []model.Record
		kept, removed = model.FilterByPrefix(records, prefix)
		if len(removed) == 0 {
			return nil, false, notFound(prefix)
		}
		if s.policy == BackupTwiceOnDelete {
			if _, err := s.store.Backup(); err != nil {
				return nil, false, err
			}
		}
		return kept, true, nil
	})
	if err != nil {
		return nil, err
	}

	if s.history != nil {
		ids := make([]string, len(removed))
		for i, r := range removed {
			ids[i] = r.ID
		}
		if err := s.history.Forget(ids...); err != nil {
			s.logger.Warn("forgetting usage of deleted records", "err", err)
		}
	}
	s.logger.Debug("deleted records", "count", len(removed))
	return removed, nil
}

// Search returns the records matching query in stored order.
func (s *Service) Search(ctx context.Context, query string) ([]model.Record, error) {
	records, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return matcher.Search(query, records), nil
}

// Export writes the markdown document and returns the number of records in
// it. With no records it writes nothing and returns 0.
func (s *Service) Export(ctx context.Context) (int, error) {
	records, err := s.store.Load()
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	if err := export.WriteMarkdown(s.exportPath, records); err != nil {
		return 0, &store.WriteError{Op: "exporting to", Path: s.exportPath, Err: err}
	}
	s.logger.Debug("exported records", "path", s.exportPath, "count", len(records))
	return len(records), nil
}

func (s *Service) ExportPath() string { return s.exportPath }

// MarkUsed records a run of id with its parameter values.
func (s *Service) MarkUsed(id string, params map[string]string) error {
	if s.history == nil {
		return nil
	}
	if err := s.history.Touch(id, params); err != nil {
		return fmt.Errorf("recording usage of %s: %w", id, err)
	}
	return nil
}

// Usage returns the run history of id, if any.
func (s *Service) Usage(id string) (history.Usage, bool, error) {
	if s.history == nil {
		return history.Usage{}, false, nil
	}
	return s.history.Get(id)
}

// mutate runs fn on the loaded records under the store lock and saves the
// result when fn reports a change.
func (s *Service) mutate(ctx context.Context, fn func([]model.Record) ([]model.Record, bool, error)) error {
	unlock, err := s.store.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	records, err := s.store.Load()
	if err != nil {
		return err
	}
	updated, changed, err := fn(records)
	if err != nil || !changed {
		return err
	}
	return s.store.Save(updated)
}

func notFound(prefix string) error {
	return fmt.Errorf("%w with ID starting with '%s'", ErrNotFound, prefix)
}
