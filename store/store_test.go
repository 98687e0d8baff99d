package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"cmdsaver/model"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "commands.json")
	s, err := New(path, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func sampleRecords() []model.Record {
	return []model.Record{
		{ID: "a1", Command: "ls -la", Description: "list files verbosely", Tags: []string{"fs"}, CreatedAt: model.Timestamp{Time: fixedNow}},
		{ID: "b2", Command: "git status", Description: "repo state", Tags: []string{}, CreatedAt: model.Timestamp{Time: fixedNow.Add(time.Second)}},
		{ID: "c3", Command: "df -h", Description: "disk usage", Tags: []string{"fs", "disk"}, CreatedAt: model.Timestamp{Time: fixedNow.Add(2 * time.Second)}},
	}
}

func TestNew_EmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("New(\"\") error = nil, want error")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	s := newTestStore(t)
	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("Load() = %#v, want empty slice", records)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"not json", "not json"},
		{"object instead of array", `{"id":"x"}`},
		{"null", `null`},
		{"unknown field", `[{"id":"x","command":"c","description":"d","tags":[],"created_at":"2024-01-01T00:00:00Z","extra":1}]`},
		{"empty id", `[{"id":"","command":"c","description":"d","tags":[],"created_at":"2024-01-01T00:00:00Z"}]`},
		{"duplicate id", `[{"id":"x","command":"c","description":"d","tags":[],"created_at":"2024-01-01T00:00:00Z"},{"id":"x","command":"c","description":"d","tags":[],"created_at":"2024-01-01T00:00:00Z"}]`},
		{"missing created_at", `[{"id":"x","command":"c","description":"d","tags":[]}]`},
		{"only id and created_at", `[{"id":"x","created_at":"2024-01-01T00:00:00Z"}]`},
		{"missing id", `[{"command":"c","description":"d","tags":[],"created_at":"2024-01-01T00:00:00Z"}]`},
		{"missing command", `[{"id":"x","description":"d","tags":[],"created_at":"2024-01-01T00:00:00Z"}]`},
		{"missing description", `[{"id":"x","command":"c","tags":[],"created_at":"2024-01-01T00:00:00Z"}]`},
		{"missing tags", `[{"id":"x","command":"c","description":"d","created_at":"2024-01-01T00:00:00Z"}]`},
		{"second record incomplete", `[{"id":"x","command":"c","description":"d","tags":[],"created_at":"2024-01-01T00:00:00Z"},{"id":"y","command":"c","created_at":"2024-01-01T00:00:00Z"}]`},
		{"bad created_at", `[{"id":"x","command":"c","description":"d","tags":[],"created_at":"soon"}]`},
		{"trailing data", `[] []`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			if err := os.WriteFile(s.Path(), []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			_, err := s.Load()
			var readErr *ReadError
			if !errors.As(err, &readErr) {
				t.Fatalf("Load() error = %v, want *ReadError", err)
			}
		})
	}
}

func TestLoad_LegacyFile(t *testing.T) {
	s := newTestStore(t)
	content := `[
  {
    "id": "6f1c2d3e-0000-4000-8000-000000000001",
    "command": "ls -la",
    "description": "list files verbosely",
    "tags": null,
    "created_at": "2024-05-01T12:34:56.123456"
  }
]`
	if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Load() returned %d records, want 1", len(records))
	}
	if records[0].Tags == nil {
		t.Error("Tags = nil, want empty slice for null tags")
	}
	want := time.Date(2024, 5, 1, 12, 34, 56, 123456000, time.Local)
	if !records[0].CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", records[0].CreatedAt.Time, want)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := sampleRecords()

	if err := s.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSameRecords(t, got, want)

	first, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if err := s.Save(got); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	second, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("save(load()) changed file:\n%s\nvs\n%s", first, second)
	}
}

func TestSave_Nil(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(nil); err != nil {
		t.Fatalf("Save(nil) error = %v", err)
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("file = %q, want %q", data, "[]\n")
	}
}

func TestSave_BacksUpPreviousFile(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(sampleRecords()[:1]); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	backups, _ := s.Backups()
	if len(backups) != 0 {
		t.Fatalf("first Save() created backups %v, want none", backups)
	}

	before, _ := os.ReadFile(s.Path())
	if err := s.Save(sampleRecords()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	backups, err := s.Backups()
	if err != nil {
		t.Fatalf("Backups() error = %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("Backups() = %v, want 1", backups)
	}
	wantName := filepath.Join(filepath.Dir(s.Path()), "commands_backup_20250314150926.json")
	if backups[0] != wantName {
		t.Errorf("backup = %s, want %s", backups[0], wantName)
	}
	snap, _ := os.ReadFile(backups[0])
	if !bytes.Equal(snap, before) {
		t.Error("backup content differs from previous store file")
	}
}

func TestBackup_NoFile(t *testing.T) {
	s := newTestStore(t)
	name, err := s.Backup()
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if name != "" {
		t.Errorf("Backup() = %q, want empty", name)
	}
}

func TestBackup_SameSecondCollision(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(sampleRecords()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	dir := filepath.Dir(s.Path())
	want := []string{
		filepath.Join(dir, "commands_backup_20250314150926.json"),
		filepath.Join(dir, "commands_backup_20250314150926_1.json"),
		filepath.Join(dir, "commands_backup_20250314150926_2.json"),
	}
	for _, w := range want {
		got, err := s.Backup()
		if err != nil {
			t.Fatalf("Backup() error = %v", err)
		}
		if got != w {
			t.Errorf("Backup() = %s, want %s", got, w)
		}
	}

	backups, _ := s.Backups()
	if !reflect.DeepEqual(backups, want) {
		t.Errorf("Backups() = %v, want %v", backups, want)
	}
}

func TestBackups_MetacharactersInPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snip[pets]*?")
	s, err := New(filepath.Join(dir, "cmds[1].json"), WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Save(sampleRecords()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(sampleRecords()); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	// Neither a sibling nor a different store's backups may be listed.
	for _, name := range []string{"cmds1_backup_20250314150926.json", "cmds[1]_backup_x.txt", "other_backup_1.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	backups, err := s.Backups()
	if err != nil {
		t.Fatalf("Backups() error = %v", err)
	}
	want := []string{filepath.Join(dir, "cmds[1]_backup_20250314150926.json")}
	if !reflect.DeepEqual(backups, want) {
		t.Errorf("Backups() = %v, want %v", backups, want)
	}
}

func TestSave_WriteError(t *testing.T) {
	s := newTestStore(t)
	// A directory at the store path makes both backup and write fail.
	if err := os.MkdirAll(s.Path(), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	err := s.Save(sampleRecords())
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("Save() error = %v, want *WriteError", err)
	}
}

func TestLock(t *testing.T) {
	s := newTestStore(t)

	unlock, err := s.Lock(context.Background())
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	other, err := New(s.Path())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if _, err := other.Lock(ctx); err == nil {
		t.Fatal("second Lock() error = nil while lock held")
	}

	unlock()

	unlock2, err := other.Lock(context.Background())
	if err != nil {
		t.Fatalf("Lock() after release error = %v", err)
	}
	unlock2()
}

func assertSameRecords(t *testing.T, got, want []model.Record) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.ID != w.ID || g.Command != w.Command || g.Description != w.Description {
			t.Errorf("record %d = %+v, want %+v", i, g, w)
		}
		if !reflect.DeepEqual(g.Tags, w.Tags) {
			t.Errorf("record %d tags = %#v, want %#v", i, g.Tags, w.Tags)
		}
		if !g.CreatedAt.Equal(w.CreatedAt.Time) {
			t.Errorf("record %d created_at = %v, want %v", i, g.CreatedAt.Time, w.CreatedAt.Time)
		}
	}
}
