package organizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"fo-go/internal/config"
	"fo-go/internal/model"
)

// encryptedBackupSuffix marks backup files written through the encryptor.
const encryptedBackupSuffix = ".age"

// Executor carries out non-skipped plans, producing one transaction per
// attempt. A failure on one file is recorded on its transaction and never
// aborts the batch.
type Executor struct {
	cfg       *config.Config
	fsmgr     FilesystemManager
	encryptor Encryptor
	logger    Logger
	clock     Clock
	idgen     IDGenerator
}

// NewExecutor creates an executor. encryptor may be a nop implementation
// when backup encryption is disabled.
func NewExecutor(cfg *config.Config, fsmgr FilesystemManager, encryptor Encryptor, logger Logger, clock Clock, idgen IDGenerator) *Executor {
	return &Executor{
		cfg:       cfg,
		fsmgr:     fsmgr,
		encryptor: encryptor,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
	}
}

// Execute runs each plan in order. Skipped plans produce no transaction.
// When dryRun is true, every transaction is recorded as successful and the
// filesystem is never touched. Conflicts are not re-checked here: whatever
// the resolver decided at planning time governs execution.
func (e *Executor) Execute(plans []*model.OrganizationPlan, dryRun bool) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(plans))

	for _, plan := range plans {
		if plan.Skip {
			continue
		}

		txn := model.Transaction{
			ID:          e.idgen.New(),
			Timestamp:   e.clock.Now(),
			Operation:   plan.Operation,
			SourcePath:  plan.Record.SourcePath,
			Destination: plan.Destination,
		}

		if dryRun {
			txn.Success = true
			transactions = append(transactions, txn)
			continue
		}

		if err := e.executeOne(plan, &txn); err != nil {
			txn.Error = err.Error()
			e.logger.Warn("plan failed", "source", plan.Record.SourcePath, "error", err)
		} else {
			txn.Success = true
			e.logger.Debug("plan executed", "source", plan.Record.SourcePath, "destination", plan.Destination)
		}
		transactions = append(transactions, txn)
	}

	return transactions
}

// executeOne performs the filesystem work for a single plan, recording the
// backup path on the transaction as soon as the backup exists so a partial
// failure still leaves an accurate record.
func (e *Executor) executeOne(plan *model.OrganizationPlan, txn *model.Transaction) error {
	src := plan.Record.SourcePath

	if err := e.fsmgr.MkdirAll(filepath.Dir(plan.Destination)); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	// A backup is taken only before a destructive move; a copy leaves the
	// source untouched and needs none.
	if plan.Operation == model.OperationMove && e.cfg.Safety.CreateBackup {
		backupPath, err := e.createBackup(src)
		if err != nil {
			return fmt.Errorf("creating backup: %w", err)
		}
		txn.BackupPath = backupPath
	}

	switch plan.Operation {
	case model.OperationCopy:
		if err := e.fsmgr.CopyFile(src, plan.Destination); err != nil {
			return fmt.Errorf("copying file: %w", err)
		}
		if e.cfg.Safety.PreserveTimestamps {
			info, err := e.fsmgr.Stat(src)
			if err != nil {
				return fmt.Errorf("stat source for timestamps: %w", err)
			}
			if err := e.fsmgr.Chtimes(plan.Destination, info.ModTime(), info.ModTime()); err != nil {
				return fmt.Errorf("preserving timestamps: %w", err)
			}
		}
	case model.OperationMove:
		if err := e.fsmgr.MoveFile(src, plan.Destination); err != nil {
			return fmt.Errorf("moving file: %w", err)
		}
	default:
		return fmt.Errorf("unknown operation kind: %s", plan.Operation)
	}

	return nil
}

// createBackup copies the source to a timestamped location in the backup
// directory, encrypting it when backup encryption is enabled and keys are
// configured. Returns the backup path.
func (e *Executor) createBackup(src string) (string, error) {
	backupDir := e.cfg.Safety.BackupPath
	if err := e.fsmgr.MkdirAll(backupDir); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	base := filepath.Base(src)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stamp := e.clock.Now().Format("20060102_150405")
	backupPath := filepath.Join(backupDir, fmt.Sprintf("%s_%s%s", stem, stamp, ext))

	if e.cfg.Safety.EncryptBackups && e.encryptor.IsConfigured() {
		backupPath += encryptedBackupSuffix
		if err := e.encryptToFile(src, backupPath); err != nil {
			return "", err
		}
		return backupPath, nil
	}

	if err := e.fsmgr.CopyFile(src, backupPath); err != nil {
		return "", err
	}
	return backupPath, nil
}

func (e *Executor) encryptToFile(src, dst string) error {
	r, err := e.fsmgr.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer r.Close()

	w, err := e.fsmgr.Create(dst)
	if err != nil {
		return fmt.Errorf("creating encrypted backup: %w", err)
	}

	if err := e.encryptor.Encrypt(r, w); err != nil {
		w.Close()
		return fmt.Errorf("encrypting backup: %w", err)
	}
	return w.Close()
}

// isEncryptedBackup reports whether a recorded backup path was written
// through the encryptor.
func isEncryptedBackup(path string) bool {
	return strings.HasSuffix(path, encryptedBackupSuffix)
}
