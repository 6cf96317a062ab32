package organizer_test

import (
	"testing"
	"time"

	"fo-go/internal/model"
	"fo-go/internal/organizer"
	"fo-go/internal/testutil"
)

func conflictPlan(dest string, modTime time.Time) *model.OrganizationPlan {
	return &model.OrganizationPlan{
		Record:      testutil.NewRecord("/src/report.txt", 100, modTime),
		Destination: dest,
		Operation:   model.OperationCopy,
	}
}

func TestConflictResolver_Skip(t *testing.T) {
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddFile("/dst/report.txt", []byte("existing"), testTime)

	resolver := organizer.NewConflictResolver(fsmgr, model.ConflictSkip)
	plan := conflictPlan("/dst/report.txt", testTime)
	resolver.Resolve(plan, fsmgr.Exists)

	if !plan.Skip {
		t.Error("Skip = false, want true")
	}
	if plan.SkipReason != organizer.ReasonAlreadyExists {
		t.Errorf("SkipReason = %q, want %q", plan.SkipReason, organizer.ReasonAlreadyExists)
	}
	if plan.Resolution != model.ConflictSkip {
		t.Errorf("Resolution = %q, want %q", plan.Resolution, model.ConflictSkip)
	}
}

func TestConflictResolver_Rename(t *testing.T) {
	t.Run("appends counter before the extension", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/dst/report.txt", []byte("existing"), testTime)

		resolver := organizer.NewConflictResolver(fsmgr, model.ConflictRename)
		plan := conflictPlan("/dst/report.txt", testTime)
		resolver.Resolve(plan, fsmgr.Exists)

		if plan.Destination != "/dst/report_1.txt" {
			t.Errorf("Destination = %q, want %q", plan.Destination, "/dst/report_1.txt")
		}
		if plan.Skip {
			t.Error("Skip = true, want false")
		}
		if plan.Conflict {
			t.Error("Conflict = true, want false after rename")
		}
	})

	t.Run("counter advances past taken names", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/dst/report.txt", []byte("a"), testTime)
		fsmgr.AddFile("/dst/report_1.txt", []byte("b"), testTime)
		fsmgr.AddFile("/dst/report_2.txt", []byte("c"), testTime)

		resolver := organizer.NewConflictResolver(fsmgr, model.ConflictRename)
		plan := conflictPlan("/dst/report.txt", testTime)
		resolver.Resolve(plan, fsmgr.Exists)

		if plan.Destination != "/dst/report_3.txt" {
			t.Errorf("Destination = %q, want %q", plan.Destination, "/dst/report_3.txt")
		}
	})
}

func TestConflictResolver_Overwrite(t *testing.T) {
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddFile("/dst/report.txt", []byte("existing"), testTime)

	resolver := organizer.NewConflictResolver(fsmgr, model.ConflictOverwrite)
	plan := conflictPlan("/dst/report.txt", testTime)
	resolver.Resolve(plan, fsmgr.Exists)

	if plan.Skip {
		t.Error("Skip = true, want false")
	}
	if plan.Destination != "/dst/report.txt" {
		t.Errorf("Destination = %q, want unchanged %q", plan.Destination, "/dst/report.txt")
	}
	if plan.Conflict {
		t.Error("Conflict = true, want false after overwrite resolution")
	}
}

func TestConflictResolver_KeepNewest(t *testing.T) {
	existing := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("newer source proceeds", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/dst/report.txt", []byte("old"), existing)

		resolver := organizer.NewConflictResolver(fsmgr, model.ConflictKeepNewest)
		plan := conflictPlan("/dst/report.txt", existing.Add(time.Hour))
		resolver.Resolve(plan, fsmgr.Exists)

		if plan.Skip {
			t.Errorf("Skip = true (%s), want false", plan.SkipReason)
		}
	})

	t.Run("older source is skipped", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/dst/report.txt", []byte("new"), existing)

		resolver := organizer.NewConflictResolver(fsmgr, model.ConflictKeepNewest)
		plan := conflictPlan("/dst/report.txt", existing.Add(-time.Hour))
		resolver.Resolve(plan, fsmgr.Exists)

		if !plan.Skip {
			t.Fatal("Skip = false, want true")
		}
		if plan.SkipReason != organizer.ReasonExistingNewer {
			t.Errorf("SkipReason = %q, want %q", plan.SkipReason, organizer.ReasonExistingNewer)
		}
	})

	t.Run("equal timestamps keep the existing file", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/dst/report.txt", []byte("same"), existing)

		resolver := organizer.NewConflictResolver(fsmgr, model.ConflictKeepNewest)
		plan := conflictPlan("/dst/report.txt", existing)
		resolver.Resolve(plan, fsmgr.Exists)

		if !plan.Skip {
			t.Error("Skip = false, want true for equal timestamps")
		}
	})

	t.Run("intra-batch claim without a file skips", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()

		resolver := organizer.NewConflictResolver(fsmgr, model.ConflictKeepNewest)
		plan := conflictPlan("/dst/report.txt", existing)
		// Occupied by an earlier plan in the batch, nothing on disk yet.
		resolver.Resolve(plan, func(string) bool { return true })

		if !plan.Skip {
			t.Fatal("Skip = false, want true")
		}
		if plan.SkipReason != organizer.ReasonAlreadyExists {
			t.Errorf("SkipReason = %q, want %q", plan.SkipReason, organizer.ReasonAlreadyExists)
		}
	})
}

func TestConflictResolver_KeepOldest(t *testing.T) {
	existing := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("older source proceeds", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/dst/report.txt", []byte("new"), existing)

		resolver := organizer.NewConflictResolver(fsmgr, model.ConflictKeepOldest)
		plan := conflictPlan("/dst/report.txt", existing.Add(-time.Hour))
		resolver.Resolve(plan, fsmgr.Exists)

		if plan.Skip {
			t.Errorf("Skip = true (%s), want false", plan.SkipReason)
		}
	})

	t.Run("newer source is skipped", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/dst/report.txt", []byte("old"), existing)

		resolver := organizer.NewConflictResolver(fsmgr, model.ConflictKeepOldest)
		plan := conflictPlan("/dst/report.txt", existing.Add(time.Hour))
		resolver.Resolve(plan, fsmgr.Exists)

		if !plan.Skip {
			t.Fatal("Skip = false, want true")
		}
		if plan.SkipReason != organizer.ReasonExistingOlder {
			t.Errorf("SkipReason = %q, want %q", plan.SkipReason, organizer.ReasonExistingOlder)
		}
	})
}

func TestConflictResolver_Prompt(t *testing.T) {
	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddFile("/dst/report.txt", []byte("existing"), testTime)

	resolver := organizer.NewConflictResolver(fsmgr, model.ConflictPrompt)
	plan := conflictPlan("/dst/report.txt", testTime)
	resolver.Resolve(plan, fsmgr.Exists)

	if plan.Skip {
		t.Error("Skip = true, want false: prompt defers the decision")
	}
	if !plan.Conflict {
		t.Error("Conflict = false, want true: prompt leaves the plan unresolved")
	}
}
