package organizer

import (
	"fo-go/internal/config"
	"fo-go/internal/model"
)

// PlanBuilder orchestrates the rule engine and conflict resolver over a list
// of file records, producing one plan per record in input order.
type PlanBuilder struct {
	cfg      *config.Config
	rules    *RuleEngine
	resolver *ConflictResolver
	fsmgr    FilesystemManager
}

// NewPlanBuilder creates a plan builder bound to the given configuration.
func NewPlanBuilder(cfg *config.Config, fsmgr FilesystemManager) *PlanBuilder {
	return &PlanBuilder{
		cfg:      cfg,
		rules:    NewRuleEngine(cfg),
		resolver: NewConflictResolver(fsmgr, model.ConflictStrategy(cfg.Safety.ConflictResolution)),
		fsmgr:    fsmgr,
	}
}

// Build produces an ordered list of organization plans, one per record.
// Project and category are filled in lazily when absent; records are not
// mutated after their plan is constructed. Destinations claimed by earlier
// plans in the batch count as occupied, so two records mapping to the same
// path route the second one through the conflict resolver as well.
//
// Callers must supply well-formed records; a record that cannot produce a
// path is a contract violation, not a recoverable error.
func (b *PlanBuilder) Build(records []*model.FileRecord) []*model.OrganizationPlan {
	plans := make([]*model.OrganizationPlan, 0, len(records))
	claimed := make(map[string]bool, len(records))

	occupied := func(path string) bool {
		return claimed[path] || b.fsmgr.Exists(path)
	}

	for _, record := range records {
		if record.Project == "" {
			record.Project = b.rules.InferProject(record)
		}
		if record.Category == "" {
			record.Category = b.rules.InferCategory(record)
		}

		plan := &model.OrganizationPlan{
			Record:      record,
			Destination: b.rules.DestinationPath(record),
			Operation:   model.OperationKind(b.cfg.Safety.Mode),
		}

		if occupied(plan.Destination) {
			b.resolver.Resolve(plan, occupied)
		}

		if !plan.Skip {
			claimed[plan.Destination] = true
		}
		plans = append(plans, plan)
	}

	return plans
}
