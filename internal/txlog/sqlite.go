package txlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fo-go/internal/model"
	"fo-go/internal/txlog/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore persists the transaction log in a SQLite database. The log is
// small and rewritten wholesale on every save, which keeps the store
// interchangeable with the JSON backend.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the transaction database under
// dataDir and runs any pending schema migrations.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, "transactions.db")
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating transaction database: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with the PRAGMAs
// we rely on. path can be a file path or ":memory:".
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite ships with foreign keys OFF for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

func (s *SQLiteStore) Load() ([]model.Transaction, error) {
	rows, err := s.db.Query(`
		SELECT id, timestamp, operation, source_path, destination_path, success, error, backup_path
		FROM transactions
		ORDER BY timestamp, seq`)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var ts, op string
		var errMsg, backupPath sql.NullString
		if err := rows.Scan(&t.ID, &ts, &op, &t.SourcePath, &t.Destination, &t.Success, &errMsg, &backupPath); err != nil {
			return nil, fmt.Errorf("scanning transaction row: %w", err)
		}
		t.Operation = model.OperationKind(op)
		t.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing transaction timestamp %q: %w", ts, err)
		}
		t.Error = errMsg.String
		t.BackupPath = backupPath.String
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading transaction rows: %w", err)
	}
	return txns, nil
}

func (s *SQLiteStore) Save(txns []model.Transaction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM transactions"); err != nil {
		return fmt.Errorf("clearing transactions: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO transactions (id, seq, timestamp, operation, source_path, destination_path, success, error, backup_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range txns {
		_, err := stmt.Exec(
			t.ID,
			i,
			t.Timestamp.Format(time.RFC3339Nano),
			string(t.Operation),
			t.SourcePath,
			t.Destination,
			t.Success,
			nullable(t.Error),
			nullable(t.BackupPath),
		)
		if err != nil {
			return fmt.Errorf("inserting transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transactions: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
