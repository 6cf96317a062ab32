package txlog

import (
	"fmt"
	"time"

	"fo-go/internal/model"
	"fo-go/internal/organizer"
)

// BatchWindow is the grouping window for undo batches: walking backward from
// the chronologically last transaction, entries belong to the same batch
// while each adjacent pair's timestamp gap stays under this duration.
const BatchWindow = 60 * time.Second

// Log is the transaction log over a pluggable store. It is append-only in
// normal operation; entries leave only through undo of the last batch or
// explicit retention pruning.
type Log struct {
	store Store
	clock organizer.Clock
}

var _ organizer.TransactionLog = (*Log)(nil)

// New creates a Log over the given store.
func New(store Store, clock organizer.Clock) *Log {
	return &Log{store: store, clock: clock}
}

// Append adds a batch of transactions to the end of the log.
func (l *Log) Append(txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	existing, err := l.store.Load()
	if err != nil {
		return fmt.Errorf("loading transaction log: %w", err)
	}
	return l.store.Save(append(existing, txns...))
}

// Recent returns up to limit transactions, most recent first.
func (l *Log) Recent(limit int) ([]model.Transaction, error) {
	all, err := l.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading transaction log: %w", err)
	}

	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}

	// Reverse into most-recent-first order.
	out := make([]model.Transaction, len(all))
	for i, t := range all {
		out[len(all)-1-i] = t
	}
	return out, nil
}

// LastBatch returns the most recent batch in chronological order.
func (l *Log) LastBatch() ([]model.Transaction, error) {
	all, err := l.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading transaction log: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[lastBatchStart(all):], nil
}

// RemoveLastBatch deletes the most recent batch and returns how many entries
// were removed.
func (l *Log) RemoveLastBatch() (int, error) {
	all, err := l.store.Load()
	if err != nil {
		return 0, fmt.Errorf("loading transaction log: %w", err)
	}
	if len(all) == 0 {
		return 0, nil
	}

	start := lastBatchStart(all)
	removed := len(all) - start
	if err := l.store.Save(all[:start]); err != nil {
		return 0, fmt.Errorf("saving transaction log: %w", err)
	}
	return removed, nil
}

// PruneOlderThan removes transactions older than the given number of days
// and returns the number removed.
func (l *Log) PruneOlderThan(days int) (int, error) {
	all, err := l.store.Load()
	if err != nil {
		return 0, fmt.Errorf("loading transaction log: %w", err)
	}

	cutoff := l.clock.Now().AddDate(0, 0, -days)
	kept := all[:0:0]
	for _, t := range all {
		if t.Timestamp.After(cutoff) {
			kept = append(kept, t)
		}
	}

	removed := len(all) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := l.store.Save(kept); err != nil {
		return 0, fmt.Errorf("saving transaction log: %w", err)
	}
	return removed, nil
}

// Close releases the backing store.
func (l *Log) Close() error {
	return l.store.Close()
}

// lastBatchStart returns the index where the last batch begins in a
// chronologically ordered log. The batch extends backward from the final
// entry while consecutive timestamp gaps stay under BatchWindow.
func lastBatchStart(txns []model.Transaction) int {
	i := len(txns) - 1
	for i > 0 {
		gap := txns[i].Timestamp.Sub(txns[i-1].Timestamp)
		if gap < 0 {
			gap = -gap
		}
		if gap >= BatchWindow {
			break
		}
		i--
	}
	return i
}
