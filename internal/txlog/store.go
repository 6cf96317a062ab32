// Package txlog implements the persisted transaction log: an append-only,
// batch-grouped record of executed file operations that supports undo and
// retention pruning. The log has pluggable storage backends (JSON file,
// SQLite, memory) selected by configuration.
package txlog

import "fo-go/internal/model"

// Store persists the ordered collection of transactions. Load returns the
// full log in chronological order; Save replaces it wholesale. The log is
// small and exclusively owned by one process, so whole-collection
// replacement keeps every backend trivially consistent.
type Store interface {
	Load() ([]model.Transaction, error)
	Save(txns []model.Transaction) error
	Close() error
}
