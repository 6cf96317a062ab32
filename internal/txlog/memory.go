package txlog

import "fo-go/internal/model"

// MemoryStore keeps the transaction log in memory. Used for tests and for
// dry-run only sessions where nothing should touch disk.
type MemoryStore struct {
	txns []model.Transaction
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() ([]model.Transaction, error) {
	out := make([]model.Transaction, len(s.txns))
	copy(out, s.txns)
	return out, nil
}

func (s *MemoryStore) Save(txns []model.Transaction) error {
	s.txns = make([]model.Transaction, len(txns))
	copy(s.txns, txns)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
