package txlog_test

import (
	"testing"
	"time"

	"fo-go/internal/model"
	"fo-go/internal/testutil"
	"fo-go/internal/txlog"
)

var base = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func txn(id string, at time.Time) model.Transaction {
	return model.Transaction{
		ID:          id,
		Timestamp:   at,
		Operation:   model.OperationCopy,
		SourcePath:  "/src/" + id,
		Destination: "/dst/" + id,
		Success:     true,
	}
}

func newLog(t *testing.T) *txlog.Log {
	t.Helper()
	return txlog.New(txlog.NewMemoryStore(), testutil.NewStubClock(base))
}

func TestLog_AppendRecent(t *testing.T) {
	log := newLog(t)

	batch := []model.Transaction{
		txn("a", base),
		txn("b", base.Add(time.Second)),
		txn("c", base.Add(2*time.Second)),
	}
	if err := log.Append(batch); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	t.Run("most recent first", func(t *testing.T) {
		got, err := log.Recent(0)
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		if got[0].ID != "c" || got[2].ID != "a" {
			t.Errorf("order = [%s %s %s], want [c b a]", got[0].ID, got[1].ID, got[2].ID)
		}
	})

	t.Run("limit keeps the newest entries", func(t *testing.T) {
		got, err := log.Recent(2)
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[0].ID != "c" || got[1].ID != "b" {
			t.Errorf("order = [%s %s], want [c b]", got[0].ID, got[1].ID)
		}
	})
}

func TestLog_LastBatch(t *testing.T) {
	t.Run("entries within the window group together", func(t *testing.T) {
		log := newLog(t)
		all := []model.Transaction{
			txn("a", base),
			txn("b", base.Add(10*time.Second)),
			txn("c", base.Add(40*time.Second)),
			txn("d", base.Add(120*time.Second)),
		}
		if err := log.Append(all); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		batch, err := log.LastBatch()
		if err != nil {
			t.Fatalf("LastBatch() error = %v", err)
		}
		// The 80s gap before d starts a new batch; d stands alone.
		if len(batch) != 1 || batch[0].ID != "d" {
			t.Errorf("batch = %+v, want only d", batch)
		}
	})

	t.Run("a gap of exactly the window splits", func(t *testing.T) {
		log := newLog(t)
		all := []model.Transaction{
			txn("a", base),
			txn("b", base.Add(60*time.Second)),
		}
		if err := log.Append(all); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		batch, err := log.LastBatch()
		if err != nil {
			t.Fatalf("LastBatch() error = %v", err)
		}
		if len(batch) != 1 || batch[0].ID != "b" {
			t.Errorf("batch = %+v, want only b", batch)
		}
	})

	t.Run("adjacent gaps chain a batch", func(t *testing.T) {
		log := newLog(t)
		all := []model.Transaction{
			txn("a", base),
			txn("b", base.Add(59*time.Second)),
			txn("c", base.Add(118*time.Second)),
		}
		if err := log.Append(all); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		batch, err := log.LastBatch()
		if err != nil {
			t.Fatalf("LastBatch() error = %v", err)
		}
		// a..b and b..c are each under the window, so all three group.
		if len(batch) != 3 {
			t.Errorf("len(batch) = %d, want 3", len(batch))
		}
	})

	t.Run("empty log has no batch", func(t *testing.T) {
		log := newLog(t)
		batch, err := log.LastBatch()
		if err != nil {
			t.Fatalf("LastBatch() error = %v", err)
		}
		if len(batch) != 0 {
			t.Errorf("len(batch) = %d, want 0", len(batch))
		}
	})
}

func TestLog_RemoveLastBatch(t *testing.T) {
	log := newLog(t)
	all := []model.Transaction{
		txn("a", base),
		txn("b", base.Add(10*time.Second)),
		txn("c", base.Add(200*time.Second)),
		txn("d", base.Add(210*time.Second)),
	}
	if err := log.Append(all); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	removed, err := log.RemoveLastBatch()
	if err != nil {
		t.Fatalf("RemoveLastBatch() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	rest, err := log.Recent(0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(rest) != 2 || rest[0].ID != "b" {
		t.Errorf("remaining = %+v, want [b a]", rest)
	}
}

func TestLog_PruneOlderThan(t *testing.T) {
	clock := testutil.NewStubClock(base.AddDate(0, 0, 40))
	log := txlog.New(txlog.NewMemoryStore(), clock)

	all := []model.Transaction{
		txn("old", base),
		txn("recent", base.AddDate(0, 0, 35)),
	}
	if err := log.Append(all); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	removed, err := log.PruneOlderThan(30)
	if err != nil {
		t.Fatalf("PruneOlderThan() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	rest, err := log.Recent(0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(rest) != 1 || rest[0].ID != "recent" {
		t.Errorf("remaining = %+v, want only recent", rest)
	}
}
