package organizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"fo-go/internal/model"
)

// Skip reasons produced by conflict resolution.
const (
	ReasonAlreadyExists      = "File already exists"
	ReasonExistingNewer      = "Existing file is newer"
	ReasonExistingOlder      = "Existing file is older"
	ReasonUnresolvedConflict = "Unresolved conflict"
)

// ConflictResolver decides what happens to a plan whose candidate
// destination is already occupied, either by a file on disk or by an
// earlier plan in the same batch.
type ConflictResolver struct {
	fsmgr    FilesystemManager
	strategy model.ConflictStrategy
}

// NewConflictResolver creates a resolver applying the given strategy.
func NewConflictResolver(fsmgr FilesystemManager, strategy model.ConflictStrategy) *ConflictResolver {
	return &ConflictResolver{fsmgr: fsmgr, strategy: strategy}
}

// Resolve mutates the plan according to the configured strategy. occupied
// reports whether a candidate path is taken, on disk or by an earlier claim
// in the batch. The switch is total over ConflictStrategy: prompt is an
// explicit deferred-decision case that leaves the plan conflicted for an
// interactive collaborator.
func (cr *ConflictResolver) Resolve(plan *model.OrganizationPlan, occupied func(string) bool) {
	plan.Conflict = true
	plan.Resolution = cr.strategy

	switch cr.strategy {
	case model.ConflictSkip:
		plan.Skip = true
		plan.SkipReason = ReasonAlreadyExists

	case model.ConflictRename:
		plan.Destination = nextFreeName(plan.Destination, occupied)
		plan.Conflict = false

	case model.ConflictKeepNewest:
		existing, err := cr.fsmgr.Stat(plan.Destination)
		if err != nil {
			// Occupied by an intra-batch claim only; there is no existing
			// file to compare against, so treat it as already taken.
			plan.Skip = true
			plan.SkipReason = ReasonAlreadyExists
			return
		}
		if !plan.Record.ModifiedAt.After(existing.ModTime()) {
			plan.Skip = true
			plan.SkipReason = ReasonExistingNewer
		}

	case model.ConflictKeepOldest:
		existing, err := cr.fsmgr.Stat(plan.Destination)
		if err != nil {
			plan.Skip = true
			plan.SkipReason = ReasonAlreadyExists
			return
		}
		if !plan.Record.ModifiedAt.Before(existing.ModTime()) {
			plan.Skip = true
			plan.SkipReason = ReasonExistingOlder
		}

	case model.ConflictOverwrite:
		// The overwrite happens at execution time; the destination is kept.
		plan.Conflict = false

	case model.ConflictPrompt:
		// Deferred to an interactive collaborator. The plan stays marked as
		// an unresolved conflict.
	}
}

// nextFreeName appends _1, _2, ... before the extension until an unoccupied
// path is found.
func nextFreeName(dest string, occupied func(string) bool) string {
	dir := filepath.Dir(dest)
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(filepath.Base(dest), ext)

	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		if !occupied(candidate) {
			return candidate
		}
	}
}
