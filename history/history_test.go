package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGet_NeverUsed(t *testing.T) {
	db := openTestDB(t)
	_, ok, err := db.Get("missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true for unknown record")
	}
}

func TestTouch(t *testing.T) {
	db := openTestDB(t)
	before := time.Now().Add(-time.Second)

	if err := db.Touch("r1", map[string]string{"host": "a"}); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	if err := db.Touch("r1", map[string]string{"host": "b"}); err != nil {
		t.Fatalf("second Touch() error = %v", err)
	}

	u, ok, err := db.Get("r1")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, %v", u, ok, err)
	}
	if u.RunCount != 2 {
		t.Errorf("RunCount = %d, want 2", u.RunCount)
	}
	if u.LastParams["host"] != "b" {
		t.Errorf("LastParams = %v, want host=b", u.LastParams)
	}
	if u.LastUsedAt.Before(before) {
		t.Errorf("LastUsedAt = %v, want after %v", u.LastUsedAt, before)
	}
}

func TestTouch_NilParams(t *testing.T) {
	db := openTestDB(t)
	if err := db.Touch("r1", nil); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	u, ok, err := db.Get("r1")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, %v", u, ok, err)
	}
	if len(u.LastParams) != 0 {
		t.Errorf("LastParams = %v, want empty", u.LastParams)
	}
}

func TestForget(t *testing.T) {
	db := openTestDB(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := db.Touch(id, nil); err != nil {
			t.Fatalf("Touch(%s) error = %v", id, err)
		}
	}

	if err := db.Forget("a", "c"); err != nil {
		t.Fatalf("Forget() error = %v", err)
	}
	if err := db.Forget(); err != nil {
		t.Fatalf("Forget() with no ids error = %v", err)
	}

	for id, want := range map[string]bool{"a": false, "b": true, "c": false} {
		_, ok, err := db.Get(id)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", id, err)
		}
		if ok != want {
			t.Errorf("Get(%s) ok = %v, want %v", id, ok, want)
		}
	}
}
