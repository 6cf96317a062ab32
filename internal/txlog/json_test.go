package txlog_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fo-go/internal/model"
	"fo-go/internal/txlog"
)

func TestJSONStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.json")
	store := txlog.NewJSONStore(path)

	txns := []model.Transaction{
		txn("a", base),
		txn("b", base.Add(time.Second)),
	}
	if err := store.Save(txns); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("order = [%s %s], want [a b]", got[0].ID, got[1].ID)
	}
	if !got[0].Timestamp.Equal(base) {
		t.Errorf("Timestamp = %v, want %v", got[0].Timestamp, base)
	}
}

func TestJSONStore_MissingFile(t *testing.T) {
	store := txlog.NewJSONStore(filepath.Join(t.TempDir(), "nope.json"))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0 for missing file", len(got))
	}
}

func TestJSONStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	store := txlog.NewJSONStore(path)
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for corrupt file", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0 for corrupt file", len(got))
	}

	// A corrupt log must not block new writes.
	if err := store.Save([]model.Transaction{txn("a", base)}); err != nil {
		t.Fatalf("Save() after corruption error = %v", err)
	}
	got, err = store.Load()
	if err != nil || len(got) != 1 {
		t.Errorf("Load() after resave = %v entries, err %v, want 1, nil", len(got), err)
	}
}

func TestJSONStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "transactions.json")
	store := txlog.NewJSONStore(path)

	if err := store.Save(nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}
