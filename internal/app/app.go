// Package app is the application layer between the CLI and the organizer
// service. It constructs all dependencies from config, runs the configured
// scanners, and exposes high-level operations for the commands.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"fo-go/internal/config"
	"fo-go/internal/encryption"
	"fo-go/internal/fs"
	"fo-go/internal/model"
	"fo-go/internal/organizer"
	"fo-go/internal/source"
	"fo-go/internal/txlog"
)

// PromptFunc decides how to resolve a single conflicting plan when the
// configured strategy is "prompt". A nil prompt means non-interactive mode,
// where unresolved conflicts are skipped.
type PromptFunc func(plan *model.OrganizationPlan) model.ConflictStrategy

// App wires the scanners, planner, executor, and transaction log together.
// The caller must call Close when done.
type App struct {
	cfg       *config.Config
	fsmgr     organizer.FilesystemManager
	encryptor organizer.Encryptor
	txns      *txlog.Log
	scanners  []source.Scanner
	service   *organizer.Service
	logger    organizer.Logger
	logFile   *os.File
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "Organize", "Undo") and tags
// every log line the run emits.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	fsmgr := fs.NewOSFilesystemManager()

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	clock := organizer.RealClock{}
	log, err := txlog.NewLogFromConfig(cfg.Log.Transactions, clock)
	if err != nil {
		return nil, fmt.Errorf("creating transaction log: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	slogger, logFile, err := newLogger(cfg.Log.Dir, opID)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	svc := organizer.NewService(cfg, fsmgr, log, enc, logger, clock, organizer.UUIDGenerator{})

	return &App{
		cfg:       cfg,
		fsmgr:     fsmgr,
		encryptor: enc,
		txns:      log,
		scanners:  source.NewScannersFromConfig(cfg.Sources, logger),
		service:   svc,
		logger:    logger,
		logFile:   logFile,
	}, nil
}

// Scan runs every enabled scanner and returns their results.
func (a *App) Scan(ctx context.Context) ([]*model.ScanResult, error) {
	if len(a.scanners) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}

	var results []*model.ScanResult
	for _, sc := range a.scanners {
		res, err := sc.Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("scanning %s source: %w", sc.Kind(), err)
		}
		a.logger.Info("scan complete",
			"source", res.Source, "files", res.Count(), "bytes", res.TotalSize, "errors", len(res.Errors))
		results = append(results, res)
	}
	return results, nil
}

// Preview scans all sources and returns the plans that an organize run
// would execute, without touching anything.
func (a *App) Preview(ctx context.Context) ([]*model.OrganizationPlan, error) {
	results, err := a.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return a.buildPlans(results, nil)
}

// Organize scans all sources, plans destinations, and executes the plans.
// When dryRun is set no filesystem changes happen and nothing is logged to
// the transaction log.
func (a *App) Organize(ctx context.Context, dryRun bool, prompt PromptFunc) ([]*model.OrganizationPlan, []model.Transaction, error) {
	results, err := a.Scan(ctx)
	if err != nil {
		return nil, nil, err
	}

	plans, err := a.buildPlans(results, prompt)
	if err != nil {
		return nil, nil, err
	}

	if !dryRun {
		if err := a.checkDiskSpace(plans); err != nil {
			return nil, nil, err
		}
	}

	txns, err := a.service.Execute(plans, dryRun)
	if err != nil {
		return plans, txns, err
	}
	return plans, txns, nil
}

// buildPlans turns scan results into executable plans: destinations are
// validated, unresolved conflicts are settled via the prompt or skipped.
func (a *App) buildPlans(results []*model.ScanResult, prompt PromptFunc) ([]*model.OrganizationPlan, error) {
	var records []*model.FileRecord
	for _, res := range results {
		records = append(records, res.Files...)
	}

	plans := a.service.BuildPlans(records)

	for _, plan := range plans {
		if plan.Skip {
			continue
		}
		if err := organizer.ValidateDestination(plan.Destination); err != nil {
			plan.Skip = true
			plan.SkipReason = err.Error()
			a.logger.Warn("invalid destination", "source", plan.Record.SourcePath, "error", err)
			continue
		}
		if plan.Conflict && plan.Resolution == model.ConflictPrompt {
			a.settleConflict(plan, prompt)
		}
	}
	return plans, nil
}

// settleConflict applies an interactively chosen strategy to a plan the
// configured "prompt" strategy left unresolved.
func (a *App) settleConflict(plan *model.OrganizationPlan, prompt PromptFunc) {
	if prompt == nil {
		plan.Skip = true
		plan.SkipReason = organizer.ReasonUnresolvedConflict
		return
	}

	chosen := prompt(plan)
	if chosen == model.ConflictPrompt || !chosen.Valid() {
		plan.Skip = true
		plan.SkipReason = organizer.ReasonUnresolvedConflict
		return
	}

	resolver := organizer.NewConflictResolver(a.fsmgr, chosen)
	resolver.Resolve(plan, a.fsmgr.Exists)
}

// checkDiskSpace verifies the destination filesystem can hold the planned
// copies and backups.
func (a *App) checkDiskSpace(plans []*model.OrganizationPlan) error {
	needed := organizer.EstimateDiskSpace(plans, a.cfg.Safety.CreateBackup)
	if needed == 0 {
		return nil
	}

	if err := a.fsmgr.MkdirAll(a.cfg.Organization.BasePath); err != nil {
		return fmt.Errorf("creating base directory: %w", err)
	}
	free, err := a.fsmgr.DiskFree(a.cfg.Organization.BasePath)
	if err != nil {
		return fmt.Errorf("checking free disk space: %w", err)
	}
	if uint64(needed) > free {
		return fmt.Errorf("not enough disk space: need %d bytes, have %d", needed, free)
	}
	return nil
}

// UndoNeedsPassphrase reports whether undoing the last batch requires
// unlocking the encryption key (i.e. the batch restored from encrypted
// backups).
func (a *App) UndoNeedsPassphrase() (bool, error) {
	batch, err := a.txns.LastBatch()
	if err != nil {
		return false, err
	}
	for _, t := range batch {
		if t.BackupPath != "" && strings.HasSuffix(t.BackupPath, ".age") {
			return true, nil
		}
	}
	return false, nil
}

// Undo reverses the most recent batch of transactions. passphrase is only
// consulted when the batch contains encrypted backups.
func (a *App) Undo(passphrase func() (string, error)) (undone, failed int, err error) {
	needsKey, err := a.UndoNeedsPassphrase()
	if err != nil {
		return 0, 0, err
	}

	var decrypt organizer.DecryptionContext
	if needsKey {
		if passphrase == nil {
			return 0, 0, fmt.Errorf("undoing this batch requires the encryption passphrase")
		}
		pass, err := passphrase()
		if err != nil {
			return 0, 0, err
		}
		decrypt, err = a.encryptor.Unlock(pass)
		if err != nil {
			return 0, 0, fmt.Errorf("unlocking encryption key: %w", err)
		}
	}

	return a.service.UndoLastBatch(decrypt)
}

// History returns the most recent transactions, newest first.
func (a *App) History(limit int) ([]model.Transaction, error) {
	return a.service.Recent(limit)
}

// Prune removes transactions older than the given number of days.
func (a *App) Prune(days int) (int, error) {
	return a.service.PruneOlderThan(days)
}

// SetupKeys generates the encryption key pair protected by the passphrase.
func (a *App) SetupKeys(passphrase string) error {
	return a.encryptor.Setup(passphrase)
}

// Close releases the transaction log and the log file.
func (a *App) Close() error {
	err := a.txns.Close()
	if a.logFile != nil {
		a.logFile.Close()
	}
	return err
}
