package organizer

import "fo-go/internal/model"

// TransactionLog provides an interface for the persisted, append-only record
// of executed transactions. The log is exclusively owned by the invoking
// process; no concurrent writers are assumed.
type TransactionLog interface {
	// Append adds a batch of transactions to the end of the log.
	Append(txns []model.Transaction) error

	// Recent returns up to limit transactions, most recent first.
	Recent(limit int) ([]model.Transaction, error)

	// LastBatch returns the most recent batch in chronological order.
	// Starting from the chronologically last transaction, the batch extends
	// backward while each adjacent pair's timestamp gap is under the
	// grouping window.
	LastBatch() ([]model.Transaction, error)

	// RemoveLastBatch deletes the most recent batch from the log and
	// returns the number of entries removed.
	RemoveLastBatch() (int, error)

	// PruneOlderThan removes transactions older than the given number of
	// days and returns the number removed.
	PruneOlderThan(days int) (int, error)

	// Close releases any resources held by the backing store.
	Close() error
}
