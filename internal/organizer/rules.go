package organizer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ncruces/go-strftime"

	"fo-go/internal/config"
	"fo-go/internal/model"
)

var (
	unsafeChars    = regexp.MustCompile(`[^\w\s-]`)
	dashRuns       = regexp.MustCompile(`[-\s]+`)
	projectTrimSet = "-_"
)

// RuleEngine maps a file record plus configuration to a project label, a
// category label, and a destination path. All methods are pure given an
// immutable configuration and never fail: malformed templates leave literal
// {placeholder} text in the output.
type RuleEngine struct {
	cfg *config.Config
}

// NewRuleEngine creates a rule engine bound to the given configuration.
func NewRuleEngine(cfg *config.Config) *RuleEngine {
	return &RuleEngine{cfg: cfg}
}

// InferProject determines the project label for a record. Precedence:
// repository identifier, first matching keyword pattern, parent directory
// name, configured default. First match wins; there is no scoring.
func (e *RuleEngine) InferProject(r *model.FileRecord) string {
	if r.Repository != "" {
		return cleanProjectName(r.Repository)
	}

	searchText := strings.ToLower(r.Filename + " " + r.ParentFolder)
	for _, pattern := range e.cfg.Organization.Projects.Patterns {
		for _, keyword := range pattern.Keywords {
			if keyword != "" && strings.Contains(searchText, strings.ToLower(keyword)) {
				return pattern.Name
			}
		}
	}

	if r.ParentFolder != "" {
		if cleaned := cleanProjectName(r.ParentFolder); cleaned != "" {
			return cleaned
		}
	}

	return e.cfg.Organization.Projects.Default
}

// InferCategory determines the category label for a record by exact
// case-insensitive extension membership. Categories are checked in
// configured order; the first match wins. No match yields "other".
func (e *RuleEngine) InferCategory(r *model.FileRecord) string {
	ext := strings.ToLower(r.Extension)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, cat := range e.cfg.Organization.Categories {
		for _, candidate := range cat.Extensions {
			if strings.EqualFold(candidate, ext) {
				return cat.Name
			}
		}
	}
	return "other"
}

// DestinationPath computes the absolute destination path for a record by
// substituting the structure template's placeholders and joining the result
// onto the configured base path.
func (e *RuleEngine) DestinationPath(r *model.FileRecord) string {
	project := r.Project
	if project == "" {
		project = e.cfg.Organization.Projects.Default
	}
	category := r.Category
	if category == "" {
		category = "other"
	}

	vars := map[string]string{
		"project":       project,
		"category":      category,
		"year":          fmt.Sprintf("%d", r.ModifiedAt.Year()),
		"month":         fmt.Sprintf("%02d", int(r.ModifiedAt.Month())),
		"day":           fmt.Sprintf("%02d", r.ModifiedAt.Day()),
		"filename":      e.FileName(r),
		"original_name": r.Filename,
		"extension":     strings.TrimPrefix(r.Extension, "."),
	}

	rel := substitute(e.cfg.Organization.Structure, vars)
	return filepath.Join(e.cfg.Organization.BasePath, filepath.FromSlash(rel))
}

// FileName applies the naming sub-template to a record: placeholder
// substitution, optional lowercasing and space replacement, extension
// append, and right-truncation to the configured maximum length with the
// extension preserved.
func (e *RuleEngine) FileName(r *model.FileRecord) string {
	naming := e.cfg.Organization.Naming

	project := r.Project
	if project == "" {
		project = "unknown"
	}
	category := r.Category
	if category == "" {
		category = "other"
	}

	vars := map[string]string{
		"original_name": r.Stem(),
		"date":          strftime.Format(naming.DateFormat, r.ModifiedAt),
		"year":          fmt.Sprintf("%d", r.ModifiedAt.Year()),
		"month":         fmt.Sprintf("%02d", int(r.ModifiedAt.Month())),
		"day":           fmt.Sprintf("%02d", r.ModifiedAt.Day()),
		"project":       project,
		"category":      category,
	}

	name := substitute(naming.Template, vars)

	if naming.Lowercase {
		name = strings.ToLower(name)
	}
	if naming.ReplaceSpaces != "" {
		name = strings.ReplaceAll(name, " ", naming.ReplaceSpaces)
	}

	name += r.Extension

	if max := naming.MaxLength; max > 0 && len(name) > max {
		keep := max - len(r.Extension)
		if keep < 0 {
			keep = 0
		}
		stem := name[:len(name)-len(r.Extension)]
		if len(stem) > keep {
			stem = stem[:keep]
		}
		name = stem + r.Extension
	}

	return name
}

// substitute replaces every {key} occurrence with its value. Braces are not
// escaped; unknown placeholders remain literal.
func substitute(template string, vars map[string]string) string {
	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return out
}

// cleanProjectName reduces a raw label to a path-safe slug: only
// alphanumerics, spaces, hyphens, and underscores survive; runs of spaces
// and hyphens collapse to a single hyphen; leading and trailing hyphens and
// underscores are trimmed.
func cleanProjectName(name string) string {
	cleaned := unsafeChars.ReplaceAllString(name, "")
	cleaned = dashRuns.ReplaceAllString(cleaned, "-")
	return strings.Trim(cleaned, projectTrimSet)
}
