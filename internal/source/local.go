package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fo-go/internal/config"
	"fo-go/internal/fs"
	"fo-go/internal/model"
	"fo-go/internal/organizer"
)

// LocalScanner walks configured directories on the local filesystem. Paths
// that do not exist or cannot be read are reported in the scan result
// instead of failing the whole scan.
type LocalScanner struct {
	cfg    config.LocalSourceConfig
	logger organizer.Logger
}

var _ Scanner = (*LocalScanner)(nil)

func NewLocalScanner(cfg config.LocalSourceConfig, logger organizer.Logger) *LocalScanner {
	return &LocalScanner{cfg: cfg, logger: logger}
}

func (s *LocalScanner) Kind() model.SourceKind {
	return model.SourceLocal
}

// ignoreFileName is the per-root ignore file: extra exclude patterns, one
// per line, merged with the configured ones for that root only.
const ignoreFileName = ".foignore"

func (s *LocalScanner) Scan(ctx context.Context) (*model.ScanResult, error) {
	result := &model.ScanResult{
		Source:   model.SourceLocal,
		ScanTime: time.Now(),
	}

	for _, root := range s.cfg.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		root = expandHome(root)
		if _, err := os.Stat(root); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", root, err))
			continue
		}

		matcher, err := s.rootMatcher(root)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", root, err))
			continue
		}

		paths, err := fs.FindFiles(root, matcher)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", root, err))
			continue
		}

		for _, p := range paths {
			info, err := os.Stat(p)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", p, err))
				continue
			}
			rec := model.NewFileRecord(p, model.SourceLocal, info)
			rec.CreatedAt = fs.ChangeTime(info)
			result.Files = append(result.Files, rec)
			result.TotalSize += info.Size()
		}

		s.logger.Debug("scanned local path", "path", root, "files", len(result.Files))
	}

	return result, nil
}

// rootMatcher builds the ignore matcher for one scan root: the configured
// exclude patterns plus any patterns from the root's ignore file. The ignore
// file itself is never reported as a record.
func (s *LocalScanner) rootMatcher(root string) (*fs.IgnoreMatcher, error) {
	extra, err := fs.ParseIgnoreFile(filepath.Join(root, ignoreFileName))
	if err != nil {
		return nil, err
	}

	patterns := make([]string, 0, len(s.cfg.ExcludePatterns)+len(extra)+1)
	patterns = append(patterns, s.cfg.ExcludePatterns...)
	patterns = append(patterns, extra...)
	patterns = append(patterns, ignoreFileName)
	return fs.NewIgnoreMatcher(patterns), nil
}

// expandHome resolves a leading ~/ against the current user's home directory.
func expandHome(path string) string {
	if path == "~" || len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
