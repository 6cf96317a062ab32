package organizer

import (
	"fmt"

	"fo-go/internal/config"
	"fo-go/internal/model"
)

// Service is the orchestration layer for the organization pipeline: it
// builds plans from discovered records, executes them, records the outcome
// in the transaction log, and replays the log for undo.
type Service struct {
	cfg       *config.Config
	fsmgr     FilesystemManager
	planner   *PlanBuilder
	executor  *Executor
	txlog     TransactionLog
	encryptor Encryptor
	logger    Logger
	clock     Clock
}

// NewService creates a Service with the provided dependencies.
func NewService(cfg *config.Config, fsmgr FilesystemManager, txlog TransactionLog, encryptor Encryptor, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		cfg:       cfg,
		fsmgr:     fsmgr,
		planner:   NewPlanBuilder(cfg, fsmgr),
		executor:  NewExecutor(cfg, fsmgr, encryptor, logger, clock, idgen),
		txlog:     txlog,
		encryptor: encryptor,
		logger:    logger,
		clock:     clock,
	}
}

// BuildPlans computes an ordered organization plan for each record.
func (s *Service) BuildPlans(records []*model.FileRecord) []*model.OrganizationPlan {
	plans := s.planner.Build(records)

	skipped, conflicted := 0, 0
	for _, p := range plans {
		if p.Skip {
			skipped++
		} else if p.Conflict {
			conflicted++
		}
	}
	s.logger.Info("plans built", "total", len(plans), "skipped", skipped, "conflicts", conflicted)
	return plans
}

// Execute carries out the plans. Executed transactions are appended to the
// transaction log unless dryRun is set, in which case neither the
// filesystem nor the log is touched.
func (s *Service) Execute(plans []*model.OrganizationPlan, dryRun bool) ([]model.Transaction, error) {
	transactions := s.executor.Execute(plans, dryRun)
	if dryRun {
		return transactions, nil
	}

	if len(transactions) > 0 {
		if err := s.txlog.Append(transactions); err != nil {
			return transactions, fmt.Errorf("recording transactions: %w", err)
		}
	}

	succeeded, failed := 0, 0
	for _, t := range transactions {
		if t.Success {
			succeeded++
		} else {
			failed++
		}
	}
	s.logger.Info("execution finished", "succeeded", succeeded, "failed", failed)
	return transactions, nil
}

// Organize is the full pipeline: plan the records, then execute.
func (s *Service) Organize(records []*model.FileRecord, dryRun bool) ([]*model.OrganizationPlan, []model.Transaction, error) {
	plans := s.BuildPlans(records)
	transactions, err := s.Execute(plans, dryRun)
	return plans, transactions, err
}

// Recent returns up to limit transactions from the log, most recent first.
func (s *Service) Recent(limit int) ([]model.Transaction, error) {
	return s.txlog.Recent(limit)
}

// PruneOlderThan removes log entries older than the given number of days.
func (s *Service) PruneOlderThan(days int) (int, error) {
	return s.txlog.PruneOlderThan(days)
}
