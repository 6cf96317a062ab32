package organizer

import (
	"fmt"

	"fo-go/internal/model"
)

// UndoLastBatch reverses the most recent batch of transactions, processing
// them in reverse chronological order. A copy is undone by deleting its
// destination; a move is undone by restoring the backup to the source when
// one exists, otherwise by moving the destination back. Failed transactions
// have nothing to undo and are skipped.
//
// decrypt is required when any backup in the batch is encrypted; pass nil
// otherwise. After processing, the batch is removed from the log regardless
// of per-transaction undo failures.
//
// Returns the counts of successful and failed undos.
func (s *Service) UndoLastBatch(decrypt DecryptionContext) (int, int, error) {
	batch, err := s.txlog.LastBatch()
	if err != nil {
		return 0, 0, fmt.Errorf("reading last batch: %w", err)
	}
	if len(batch) == 0 {
		return 0, 0, nil
	}

	succeeded, failed := 0, 0
	for i := len(batch) - 1; i >= 0; i-- {
		txn := batch[i]
		if !txn.Success {
			continue
		}

		if err := s.undoOne(txn, decrypt); err != nil {
			failed++
			s.logger.Warn("undo failed", "source", txn.SourcePath, "error", err)
		} else {
			succeeded++
		}
	}

	if _, err := s.txlog.RemoveLastBatch(); err != nil {
		return succeeded, failed, fmt.Errorf("removing undone batch: %w", err)
	}

	s.logger.Info("undo finished", "succeeded", succeeded, "failed", failed)
	return succeeded, failed, nil
}

// undoOne reverses a single transaction.
func (s *Service) undoOne(txn model.Transaction, decrypt DecryptionContext) error {
	switch txn.Operation {
	case model.OperationCopy:
		if !s.fsmgr.Exists(txn.Destination) {
			return nil
		}
		if err := s.fsmgr.Remove(txn.Destination); err != nil {
			return fmt.Errorf("removing copied file: %w", err)
		}
		return nil

	case model.OperationMove:
		if !s.fsmgr.Exists(txn.Destination) {
			return nil
		}
		if txn.BackupPath != "" && s.fsmgr.Exists(txn.BackupPath) {
			if err := s.restoreBackup(txn, decrypt); err != nil {
				return err
			}
			if err := s.fsmgr.Remove(txn.Destination); err != nil {
				return fmt.Errorf("removing moved file: %w", err)
			}
			return nil
		}
		if err := s.fsmgr.MoveFile(txn.Destination, txn.SourcePath); err != nil {
			return fmt.Errorf("moving file back: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown operation kind: %s", txn.Operation)
	}
}

// restoreBackup copies a transaction's backup back to its source path,
// decrypting when the backup was written through the encryptor.
func (s *Service) restoreBackup(txn model.Transaction, decrypt DecryptionContext) error {
	if !isEncryptedBackup(txn.BackupPath) {
		if err := s.fsmgr.CopyFile(txn.BackupPath, txn.SourcePath); err != nil {
			return fmt.Errorf("restoring backup: %w", err)
		}
		return nil
	}

	if decrypt == nil {
		return fmt.Errorf("backup is encrypted but no passphrase was provided")
	}

	r, err := s.fsmgr.Open(txn.BackupPath)
	if err != nil {
		return fmt.Errorf("opening backup: %w", err)
	}
	defer r.Close()

	w, err := s.fsmgr.Create(txn.SourcePath)
	if err != nil {
		return fmt.Errorf("creating restored file: %w", err)
	}

	if err := decrypt.Decrypt(r, w); err != nil {
		w.Close()
		s.fsmgr.Remove(txn.SourcePath)
		return fmt.Errorf("decrypting backup: %w", err)
	}
	return w.Close()
}
