// Package store persists the record collection as a single JSON file with a
// timestamped snapshot taken before every overwrite.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cmdsaver/model"

	"github.com/charmbracelet/log"
)

// backupStamp is granular to the second; collisions get a numeric suffix.
const backupStamp = "20060102150405"

// maxBackupAttempts bounds the suffix search for a free backup name.
const maxBackupAttempts = 1000

type Store struct {
	path   string
	now    func() time.Time
	logger *log.Logger
}

type Option func(*Store)

// WithClock overrides the clock used for backup names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New returns a store for the JSON file at path, creating its directory.
func New(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &WriteError{Op: "creating directory for", Path: path, Err: err}
	}

	s := &Store{
		path:   path,
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

// Load reads the persisted collection. A missing file is an empty collection.
func (s *Store) Load() ([]model.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Record{}, nil
	}
	if err != nil {
		return nil, &ReadError{Path: s.path, Err: err}
	}

	records, err := decode(data)
	if err != nil {
		return nil, &ReadError{Path: s.path, Err: err}
	}
	s.logger.Debug("loaded store", "path", s.path, "records", len(records))
	return records, nil
}

func decode(data []byte) ([]model.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var records []model.Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after records")
	}
	if records == nil {
		return nil, errors.New("expected a JSON array of records")
	}
	if err := checkRequiredKeys(data); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(records))
	for i := range records {
		r := &records[i]
		if r.ID == "" {
			return nil, fmt.Errorf("record %d: empty id", i)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("record %d: duplicate id %s", i, r.ID)
		}
		seen[r.ID] = true
		if r.CreatedAt.IsZero() {
			return nil, fmt.Errorf("record %s: missing created_at", r.ID)
		}
		if r.Tags == nil {
			r.Tags = []string{}
		}
	}
	return records, nil
}

// requiredKeys must be present on every record; tags may be null.
var requiredKeys = []string{"id", "command", "description", "tags", "created_at"}

// checkRequiredKeys rejects records that omit a field, which a plain decode
// would fill with its zero value.
func checkRequiredKeys(data []byte) error {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing records: %w", err)
	}
	for i, fields := range raw {
		for _, key := range requiredKeys {
			if _, ok := fields[key]; !ok {
				return fmt.Errorf("record %d: missing %s", i, key)
			}
		}
	}
	return nil
}

// Save backs up the current file, if any, then overwrites it with records.
// The original is not touched unless the backup succeeded.
func (s *Store) Save(records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &WriteError{Op: "encoding", Path: s.path, Err: err}
	}
	data = append(data, '\n')

	if _, err := s.Backup(); err != nil {
		return err
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return &WriteError{Op: "writing", Path: s.path, Err: err}
	}
	s.logger.Debug("saved store", "path", s.path, "records", len(records))
	return nil
}

// Backup copies the current file next to itself with a timestamp suffix and
// returns the snapshot path. With no persisted file it does nothing and
// returns "".
func (s *Store) Backup() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", &WriteError{Op: "reading for backup", Path: s.path, Err: err}
	}

	base := s.backupBase()
	ext := filepath.Ext(s.path)
	for attempt := 0; attempt < maxBackupAttempts; attempt++ {
		name := base + ext
		if attempt > 0 {
			name = base + "_" + strconv.Itoa(attempt) + ext
		}

		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", &WriteError{Op: "creating backup", Path: name, Err: err}
		}

		_, werr := f.Write(data)
		cerr := f.Close()
		if werr == nil {
			werr = cerr
		}
		if werr != nil {
			_ = os.Remove(name)
			return "", &WriteError{Op: "writing backup", Path: name, Err: werr}
		}
		s.logger.Debug("backed up store", "backup", name)
		return name, nil
	}
	return "", &WriteError{Op: "creating backup", Path: base + ext, Err: errors.New("no free backup name")}
}

// Backups lists snapshot files of this store in name order.
func (s *Store) Backups() ([]string, error) {
	dir := filepath.Dir(s.path)
	ext := filepath.Ext(s.path)
	prefix := strings.TrimSuffix(filepath.Base(s.path), ext) + "_backup_"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var backups []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		backups = append(backups, filepath.Join(dir, name))
	}
	return backups, nil
}

func (s *Store) backupBase() string {
	ext := filepath.Ext(s.path)
	stem := strings.TrimSuffix(s.path, ext)
	return stem + "_backup_" + s.now().Format(backupStamp)
}
