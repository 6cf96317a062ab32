package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fo-go/internal/config"
	"fo-go/internal/organizer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLocalScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "report.pdf"), "pdf content")
	writeFile(t, filepath.Join(root, "notes", "todo.txt"), "notes")
	writeFile(t, filepath.Join(root, "node_modules", "dep.js"), "js")
	writeFile(t, filepath.Join(root, "scratch.tmp"), "tmp")

	scanner := NewLocalScanner(config.LocalSourceConfig{
		Enabled:         true,
		Paths:           []string{root},
		ExcludePatterns: []string{"node_modules", "*.tmp"},
	}, organizer.NewNopLogger())

	result, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}
	if result.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", result.Count())
	}

	names := map[string]bool{}
	for _, rec := range result.Files {
		names[rec.Filename] = true
		if rec.Source != scanner.Kind() {
			t.Errorf("Source = %q, want %q", rec.Source, scanner.Kind())
		}
	}
	if !names["report.pdf"] || !names["todo.txt"] {
		t.Errorf("scanned files = %v, want report.pdf and todo.txt", names)
	}

	wantSize := int64(len("pdf content") + len("notes"))
	if result.TotalSize != wantSize {
		t.Errorf("TotalSize = %d, want %d", result.TotalSize, wantSize)
	}
}

func TestLocalScanner_IgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".foignore"), "*.log\n# build output\nbuild\n")
	writeFile(t, filepath.Join(root, "app.log"), "log")
	writeFile(t, filepath.Join(root, "build", "out.bin"), "bin")
	writeFile(t, filepath.Join(root, "keep.txt"), "keep")

	scanner := NewLocalScanner(config.LocalSourceConfig{
		Enabled: true,
		Paths:   []string{root},
	}, organizer.NewNopLogger())

	result, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if result.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", result.Count())
	}
	if result.Files[0].Filename != "keep.txt" {
		t.Errorf("Filename = %q, want %q", result.Files[0].Filename, "keep.txt")
	}
}

func TestLocalScanner_IgnoreFilePerRoot(t *testing.T) {
	ignoring := t.TempDir()
	writeFile(t, filepath.Join(ignoring, ".foignore"), "*.log\n")
	writeFile(t, filepath.Join(ignoring, "app.log"), "log")

	plain := t.TempDir()
	writeFile(t, filepath.Join(plain, "other.log"), "log")

	scanner := NewLocalScanner(config.LocalSourceConfig{
		Enabled: true,
		Paths:   []string{ignoring, plain},
	}, organizer.NewNopLogger())

	result, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	// The ignore file only affects its own root.
	if result.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", result.Count())
	}
	if result.Files[0].Filename != "other.log" {
		t.Errorf("Filename = %q, want %q", result.Files[0].Filename, "other.log")
	}
}

func TestLocalScanner_MissingPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")

	scanner := NewLocalScanner(config.LocalSourceConfig{
		Enabled: true,
		Paths:   []string{root, filepath.Join(root, "does-not-exist")},
	}, organizer.NewNopLogger())

	result, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if result.Count() != 1 {
		t.Errorf("Count() = %d, want 1", result.Count())
	}
	if len(result.Errors) != 1 {
		t.Errorf("len(Errors) = %d, want 1", len(result.Errors))
	}
}

func TestLocalScanner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scanner := NewLocalScanner(config.LocalSourceConfig{
		Enabled: true,
		Paths:   []string{t.TempDir()},
	}, organizer.NewNopLogger())

	if _, err := scanner.Scan(ctx); err == nil {
		t.Error("Scan() with cancelled context error = nil, want error")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/Downloads", filepath.Join(home, "Downloads")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := expandHome(tt.in); got != tt.want {
				t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
