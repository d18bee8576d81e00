// Package walker recursively enumerates FileRecord candidates for one repo
// root: ignore-set, symlink policy, include-path whitelist, and
// force-include rules. It never mutates the filesystem and
// degrades individual filesystem errors to "skip + diagnostic" rather than
// aborting the whole walk.
package walker

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sevigo/hubmerge/internal/config"
	"github.com/sevigo/hubmerge/internal/core"
)

var guardWorkflowRe = regexp.MustCompile(`(?i)guard`)

// Walker enumerates FileRecord candidates for a single repo root.
type Walker struct {
	cfg    config.WalkerConfig
	logger *slog.Logger
}

// New returns a Walker configured from cfg.
func New(cfg config.WalkerConfig, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{cfg: cfg, logger: logger}
}

// Diagnostic is a non-fatal issue observed during the walk — a skipped
// unreadable entry, or a symlink dropped for escaping the repo root.
type Diagnostic struct {
	Path string
	Msg  string
}

// Walk enumerates candidate FileRecords under repoRoot, labeling them
// repoLabel. Records returned here carry only path/size/extension/
// inclusion-reason fields — Category, Tags, IsText, Fingerprint,
// InclusionStatus, Roles, StableID, and Anchor are filled by later
// pipeline stages (explicit pipeline steps, no late mutation of
// fields read before they're set).
func (w *Walker) Walk(repoLabel, repoRoot string) ([]*core.FileRecord, []Diagnostic, error) {
	absRoot, err := filepath.Abs(repoRoot)
	if err != nil {
		return nil, nil, err
	}
	resolvedRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, nil, err
	}

	var records []*core.FileRecord
	var diags []Diagnostic

	ignore := make(map[string]bool, len(w.cfg.IgnoreDirs))
	for _, d := range w.cfg.IgnoreDirs {
		ignore[d] = true
	}

	walkErr := filepath.Walk(resolvedRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			diags = append(diags, Diagnostic{Path: path, Msg: err.Error()})
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if path != resolvedRoot && ignore[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(resolvedRoot, path)
		if err != nil {
			diags = append(diags, Diagnostic{Path: path, Msg: err.Error()})
			return nil
		}
		rel = filepath.ToSlash(rel)

		if info.Mode()&os.ModeSymlink != 0 {
			resolved, lerr := filepath.EvalSymlinks(path)
			if lerr != nil {
				diags = append(diags, Diagnostic{Path: rel, Msg: "unresolvable symlink: " + lerr.Error()})
				return nil
			}
			if !withinRoot(resolvedRoot, resolved) {
				diags = append(diags, Diagnostic{Path: rel, Msg: "symlink escapes repo root, dropped"})
				return nil
			}
			refreshed, statErr := os.Stat(resolved)
			if statErr != nil {
				diags = append(diags, Diagnostic{Path: rel, Msg: statErr.Error()})
				return nil
			}
			info = refreshed
		}

		forced := isForceInclude(rel)
		if !forced {
			if skipHidden(rel) {
				return nil
			}
			if !w.cfg.IncludesAll() && !matchesWhitelist(rel, w.cfg.IncludePaths) {
				return nil
			}
			if !matchesExtFilter(rel, w.cfg.ExtFilter) {
				return nil
			}
			if w.cfg.PathFilter != "" && !strings.Contains(rel, w.cfg.PathFilter) {
				return nil
			}
		} else {
			// Force-included files still obey an active hard filter:
			// a filtered report must not leak excluded context.
			if w.cfg.PathFilter != "" && !strings.Contains(rel, w.cfg.PathFilter) {
				return nil
			}
			if len(w.cfg.ExtFilter) > 0 && !matchesExtFilter(rel, w.cfg.ExtFilter) {
				return nil
			}
		}

		reason := core.InclusionNormal
		if forced {
			reason = core.InclusionForceInclude
		}

		records = append(records, &core.FileRecord{
			RepoLabel:       repoLabel,
			RelPath:         rel,
			AbsPath:         path,
			SizeBytes:       info.Size(),
			Extension:       strings.ToLower(filepath.Ext(rel)),
			InclusionReason: reason,
		})
		return nil
	})
	if walkErr != nil {
		return nil, diags, walkErr
	}

	sort.SliceStable(records, func(i, j int) bool {
		return strings.ToLower(records[i].RelPath) < strings.ToLower(records[j].RelPath)
	})

	return records, diags, nil
}

func withinRoot(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// skipHidden reports whether to skip a hidden dotfile; it never skips
// .github, skip .env* except the documented safe suffixes, and skip
// platform junk files.
func skipHidden(rel string) bool {
	base := filepath.Base(rel)
	if base == ".DS_Store" || base == "Thumbs.db" {
		return true
	}
	if strings.HasPrefix(base, ".env") {
		switch base {
		case ".env.example", ".env.template", ".env.sample":
			return false
		default:
			return true
		}
	}
	// Any path segment starting with "." is hidden, except ".github".
	for _, seg := range strings.Split(rel, "/") {
		if seg == "" || seg == ".github" {
			continue
		}
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// isForceInclude reports whether a path is always force-included.
func isForceInclude(rel string) bool {
	base := filepath.Base(rel)
	if strings.EqualFold(base, "README.md") {
		return true
	}
	if rel == ".ai-context.yml" || strings.HasSuffix(rel, "/.ai-context.yml") {
		return true
	}
	if rel == ".wgx/profile.yml" {
		return true
	}
	if strings.HasPrefix(rel, ".github/workflows/") && guardWorkflowRe.MatchString(base) {
		return true
	}
	return false
}

// matchesWhitelist reports whether a path matches iff it
// equals a whitelist entry or has a whitelist entry as a directory-boundary
// prefix.
func matchesWhitelist(rel string, whitelist []string) bool {
	for _, entry := range whitelist {
		entry = strings.Trim(entry, "/")
		if entry == "" {
			continue
		}
		if rel == entry {
			return true
		}
		if strings.HasPrefix(rel, entry+"/") {
			return true
		}
	}
	return false
}

func matchesExtFilter(rel string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(rel))
	for _, want := range exts {
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if strings.ToLower(want) == ext {
			return true
		}
	}
	return false
}
