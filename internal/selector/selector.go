// Package selector computes the per-file inclusion verdict from a
// FileRecord and a Profile. Select is a pure function: it
// never touches the filesystem, never mutates its inputs, and never
// returns core.StatusTruncated — that status is reserved for the Splitter.
package selector

import (
	"github.com/sevigo/hubmerge/internal/core"
)

const lockfileInlineLimitBytes = 20 * 1024 // 20 kB

// IsPriorityFile reports whether a file is a priority file, which every
// profile includes in full when it is text: tag ai-context or runbook, or
// filename equals "readme.md" case-insensitively.
func IsPriorityFile(fr *core.FileRecord) bool {
	if core.HasTag(fr.Tags, core.TagAIContext) || core.HasTag(fr.Tags, core.TagRunbook) {
		return true
	}
	return equalFoldBase(fr.RelPath, "readme.md")
}

func equalFoldBase(relPath, want string) bool {
	base := relPath
	for i := len(relPath) - 1; i >= 0; i-- {
		if relPath[i] == '/' {
			base = relPath[i+1:]
			break
		}
	}
	if len(base) != len(want) {
		return false
	}
	for i := range base {
		a, b := base[i], want[i]
		if a >= 'A' && a <= 'Z' {
			a += 'a' - 'A'
		}
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

// Select applies the profile's policy table. maxFileBytes is
// accepted for interface symmetry with the historical signature but is
// intentionally unused for truncation: that resolves
// that truncated is strictly a Splitter concept, so the Selector never
// reads file bytes to decide length-based demotion.
func Select(fr *core.FileRecord, profile core.Profile, maxFileBytes int64) core.InclusionStatus {
	_ = maxFileBytes

	if !fr.IsText {
		return core.StatusOmitted
	}

	priority := IsPriorityFile(fr)
	isLockfile := core.HasTag(fr.Tags, core.TagLockfile)

	switch profile.Name {
	case core.ProfileOverview:
		if priority {
			return core.StatusFull
		}
		return core.StatusMetaOnly

	case core.ProfileSummary:
		switch {
		case priority:
			return core.StatusFull
		case fr.Category == core.CategorySource || fr.Category == core.CategoryTest:
			return core.StatusMetaOnly
		case fr.Category == core.CategoryConfig || fr.Category == core.CategoryContract || fr.Category == core.CategoryDoc:
			return core.StatusFull
		case isLockfile:
			return core.StatusFull
		default:
			return core.StatusMetaOnly
		}

	case core.ProfileDev, core.ProfileMachineLean:
		switch {
		case priority:
			return core.StatusFull
		case isLockfile:
			// Checked ahead of category so a lockfile that also carries the
			// config/contract category (the common case: .lock,
			// package-lock.json) is still demoted past the size limit.
			if fr.SizeBytes <= lockfileInlineLimitBytes {
				return core.StatusFull
			}
			return core.StatusMetaOnly
		case fr.Category == core.CategorySource || fr.Category == core.CategoryTest:
			return core.StatusFull
		case fr.Category == core.CategoryConfig || fr.Category == core.CategoryContract:
			return core.StatusFull
		case fr.Category == core.CategoryDoc:
			// "full (doc only if priority)" — non-priority docs fall through
			// to meta-only under dev/machine-lean.
			return core.StatusMetaOnly
		default:
			return core.StatusMetaOnly
		}

	case core.ProfileMax:
		return core.StatusFull
	}

	return core.StatusMetaOnly
}
