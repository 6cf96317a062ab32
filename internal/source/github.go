package source

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"

	"fo-go/internal/config"
	"fo-go/internal/model"
	"fo-go/internal/organizer"
)

// GitHubScanner downloads repository tarballs and extracts them into a local
// cache, producing file records that remember which repository each file
// came from. A GITHUB_TOKEN environment variable is used when present so
// private repositories and higher rate limits work.
type GitHubScanner struct {
	cfg    config.GitHubSourceConfig
	client *github.Client
	logger organizer.Logger
}

var _ Scanner = (*GitHubScanner)(nil)

func NewGitHubScanner(cfg config.GitHubSourceConfig, logger organizer.Logger) *GitHubScanner {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubScanner{cfg: cfg, client: client, logger: logger}
}

func (s *GitHubScanner) Kind() model.SourceKind {
	return model.SourceVCS
}

func (s *GitHubScanner) Scan(ctx context.Context) (*model.ScanResult, error) {
	result := &model.ScanResult{
		Source:   model.SourceVCS,
		ScanTime: time.Now(),
	}

	for _, repo := range s.cfg.Repos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.scanRepo(ctx, repo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", repo, err))
		}
	}

	return result, nil
}

func (s *GitHubScanner) scanRepo(ctx context.Context, repo string, result *model.ScanResult) error {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return fmt.Errorf("invalid repository identifier %q (want owner/name)", repo)
	}

	dest := filepath.Join(s.cfg.CachePath, owner+"-"+name)
	if err := s.download(ctx, owner, name, dest); err != nil {
		return err
	}

	return filepath.WalkDir(dest, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", p, err))
			return nil
		}
		rec := model.NewFileRecord(p, model.SourceVCS, info)
		rec.Repository = repo
		result.Files = append(result.Files, rec)
		result.TotalSize += info.Size()
		return nil
	})
}

// download fetches the repository tarball and extracts it under dest. The
// tarball's single top-level directory is stripped so dest holds the repo
// contents directly.
func (s *GitHubScanner) download(ctx context.Context, owner, name, dest string) error {
	opts := &github.RepositoryContentGetOptions{Ref: s.cfg.Ref}
	url, _, err := s.client.Repositories.GetArchiveLink(ctx, owner, name, github.Tarball, opts, 3)
	if err != nil {
		return fmt.Errorf("resolving archive link: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return fmt.Errorf("building archive request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading archive: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading archive: unexpected status %s", resp.Status)
	}

	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("clearing cache directory: %w", err)
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	s.logger.Debug("extracting repository archive", "repo", owner+"/"+name, "dest", dest)
	return extractTarGz(resp.Body, dest)
}

func extractTarGz(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("opening gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		rel := stripTopDir(hdr.Name)
		if rel == "" {
			continue
		}
		target, err := securePath(dest, rel)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("creating directory for %s: %w", target, err)
			}
			f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode).Perm())
			if err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return fmt.Errorf("extracting %s: %w", target, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", target, err)
			}
			if !hdr.ModTime.IsZero() {
				os.Chtimes(target, hdr.ModTime, hdr.ModTime)
			}
		}
		// Symlinks and other special entries are skipped.
	}
}

// stripTopDir removes the "owner-repo-sha/" prefix GitHub tarballs carry.
func stripTopDir(name string) string {
	_, rest, ok := strings.Cut(name, "/")
	if !ok {
		return ""
	}
	return rest
}

// securePath joins rel to dest and rejects entries that escape it.
func securePath(dest, rel string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", rel)
	}
	return target, nil
}
