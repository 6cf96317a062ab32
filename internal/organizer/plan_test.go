package organizer_test

import (
	"testing"

	"fo-go/internal/model"
	"fo-go/internal/organizer"
	"fo-go/internal/testutil"
)

func TestPlanBuilder_Build(t *testing.T) {
	t.Run("fills project and category", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		builder := organizer.NewPlanBuilder(testConfig(), fsmgr)

		r := testutil.NewRecord("/src/dissertation/chapter1.docx", 100, testTime)
		plans := builder.Build([]*model.FileRecord{r})

		if len(plans) != 1 {
			t.Fatalf("len(plans) = %d, want 1", len(plans))
		}
		if r.Project != "thesis" {
			t.Errorf("Project = %q, want %q", r.Project, "thesis")
		}
		if r.Category != "documents" {
			t.Errorf("Category = %q, want %q", r.Category, "documents")
		}
		want := "/organized/thesis/documents/2024/chapter1.docx"
		if plans[0].Destination != want {
			t.Errorf("Destination = %q, want %q", plans[0].Destination, want)
		}
	})

	t.Run("preset project and category are kept", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		builder := organizer.NewPlanBuilder(testConfig(), fsmgr)

		r := testutil.NewRecord("/src/dissertation/chapter1.docx", 100, testTime)
		r.Project = "archive"
		r.Category = "old"
		plans := builder.Build([]*model.FileRecord{r})

		want := "/organized/archive/old/2024/chapter1.docx"
		if plans[0].Destination != want {
			t.Errorf("Destination = %q, want %q", plans[0].Destination, want)
		}
	})

	t.Run("two records claiming one destination conflict within the batch", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		builder := organizer.NewPlanBuilder(testConfig(), fsmgr)

		a := testutil.NewRecord("/downloads/report.pdf", 100, testTime)
		b := testutil.NewRecord("/desktop/report.pdf", 200, testTime)
		a.Project, b.Project = "work", "work"

		plans := builder.Build([]*model.FileRecord{a, b})

		if plans[0].Destination != "/organized/work/documents/2024/report.pdf" {
			t.Errorf("plans[0].Destination = %q", plans[0].Destination)
		}
		if plans[1].Destination != "/organized/work/documents/2024/report_1.pdf" {
			t.Errorf("plans[1].Destination = %q, want renamed", plans[1].Destination)
		}
	})

	t.Run("existing file on disk triggers the resolver", func(t *testing.T) {
		cfg := testConfig()
		cfg.Safety.ConflictResolution = "skip"
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/organized/work/documents/2024/report.pdf", []byte("x"), testTime)
		builder := organizer.NewPlanBuilder(cfg, fsmgr)

		r := testutil.NewRecord("/downloads/report.pdf", 100, testTime)
		r.Project = "work"
		plans := builder.Build([]*model.FileRecord{r})

		if !plans[0].Skip {
			t.Fatal("Skip = false, want true")
		}
		if plans[0].SkipReason != organizer.ReasonAlreadyExists {
			t.Errorf("SkipReason = %q, want %q", plans[0].SkipReason, organizer.ReasonAlreadyExists)
		}
	})

	t.Run("skipped plans do not claim their destination", func(t *testing.T) {
		cfg := testConfig()
		cfg.Safety.ConflictResolution = "skip"
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/organized/work/documents/2024/report.pdf", []byte("x"), testTime)
		builder := organizer.NewPlanBuilder(cfg, fsmgr)

		a := testutil.NewRecord("/downloads/report.pdf", 100, testTime)
		b := testutil.NewRecord("/desktop/report.pdf", 200, testTime)
		a.Project, b.Project = "work", "work"

		plans := builder.Build([]*model.FileRecord{a, b})

		// Both collide with the on-disk file, both skip; neither claims.
		for i, p := range plans {
			if !p.Skip {
				t.Errorf("plans[%d].Skip = false, want true", i)
			}
		}
	})
}
