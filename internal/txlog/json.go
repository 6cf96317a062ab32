package txlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fo-go/internal/model"
)

// JSONStore persists the transaction log as a single JSON array on disk.
// A missing or unreadable file is treated as an empty log so that a
// corrupted log never blocks new operations.
type JSONStore struct {
	path string
}

var _ Store = (*JSONStore)(nil)

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Load() ([]model.Transaction, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil
	}

	var txns []model.Transaction
	if err := json.Unmarshal(data, &txns); err != nil {
		return nil, nil
	}
	return txns, nil
}

func (s *JSONStore) Save(txns []model.Transaction) error {
	if txns == nil {
		txns = []model.Transaction{}
	}
	data, err := json.MarshalIndent(txns, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding transaction log: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating transaction log directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing transaction log: %w", err)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}
