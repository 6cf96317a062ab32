package txlog

import (
	"fmt"

	"fo-go/internal/config"
	"fo-go/internal/organizer"
)

// NewLogFromConfig creates a transaction log backed by the store the config
// selects.
func NewLogFromConfig(cfg config.TransactionLogConfig, clock organizer.Clock) (*Log, error) {
	switch cfg.Type {
	case "json":
		if cfg.Path == "" {
			return nil, fmt.Errorf("path required for json transaction log")
		}
		return New(NewJSONStore(cfg.Path), clock), nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite transaction log")
		}
		store, err := NewSQLiteStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return New(store, clock), nil
	case "memory":
		return New(NewMemoryStore(), clock), nil
	default:
		return nil, fmt.Errorf("unknown transaction log type: %s", cfg.Type)
	}
}
