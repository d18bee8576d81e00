// Package render produces the ordered block stream that makes up a merge
// report. It is split into a plan pass (Build, pure metric computation) and
// a render pass (Render, a pull-based block generator) so the machine-meta
// block, the epistemic declaration, and the sidecar can all read the same
// numbers instead of three independently computed copies.
package render

import (
	"time"

	"github.com/sevigo/hubmerge/internal/core"
)

const ContractName = "hubmerge.merge-report"
const ContractVersion = "1"

// Options carries every externally-supplied parameter the plan needs.
// Nothing in here is derived from file content; all of it comes from the
// Coordinator's invocation.
type Options struct {
	Profile      core.Profile
	Mode         string // "combined" | "per-repo"
	MaxFileBytes int64
	PlanOnly     bool
	CodeOnly     bool
	ExtFilter    []string
	PathFilter   string
	GeneratedAt  time.Time

	DeltaMeta    *core.DeltaMeta
	AugmentBlock string // pre-rendered "Augment Intelligence" body, or ""

	// ReadFile overrides how file content is read for content blocks.
	// Nil means os.ReadFile; tests inject a stub to avoid disk I/O.
	ReadFile func(absPath string) ([]byte, error)
}

// RepoPlan is one repo's slice of the overall Plan: its summary plus the
// resolved file order the Renderer will walk.
type RepoPlan struct {
	Summary *core.RepoSummary
	Files   []*core.FileRecord // walker order, already filtered
}

// Coverage holds the single-source-of-truth metrics shared by the text
// report and the sidecar.
type Coverage struct {
	TotalFiles        int
	FullCount         int
	TruncatedCount    int
	MetaOnlyCount     int
	OmittedCount      int
	TextTotal         int
	TextWithContact   int
	ContactRatio      float64
	TextCoverageRatio float64
	RiskLevel         string
	UncertaintyScore  float64
}

// Plan is the frozen output of the plan pass: everything the render pass
// needs, computed once.
type Plan struct {
	Opts        Options
	Repos       []RepoPlan
	Coverage    Coverage
	MetaDensity core.MetaDensity
	Title       string
}

// Build computes a Plan from repo summaries and options. It never mutates
// its inputs and never touches the filesystem.
func Build(repos []RepoPlan, opts Options) *Plan {
	cov := computeCoverage(repos)
	density := opts.Profile.ResolveMetaDensity(opts.PathFilter != "", len(opts.ExtFilter) > 0)

	// Repos keep the caller's order: the Coordinator has already sorted
	// them by the canonical repo ordering.
	sorted := make([]RepoPlan, len(repos))
	copy(sorted, repos)

	return &Plan{
		Opts:        opts,
		Repos:       sorted,
		Coverage:    cov,
		MetaDensity: density,
		Title:       titleFor(sorted),
	}
}

func titleFor(repos []RepoPlan) string {
	if len(repos) == 1 {
		return "Merge Report: " + repos[0].Summary.Name
	}
	return "Merge Report"
}

func computeCoverage(repos []RepoPlan) Coverage {
	var c Coverage
	for _, rp := range repos {
		for _, f := range rp.Files {
			c.TotalFiles++
			switch f.InclusionStatus {
			case core.StatusFull:
				c.FullCount++
			case core.StatusTruncated:
				c.TruncatedCount++
			case core.StatusMetaOnly:
				c.MetaOnlyCount++
			case core.StatusOmitted:
				c.OmittedCount++
			}
			if f.IsText {
				c.TextTotal++
				if f.InclusionStatus == core.StatusFull || f.InclusionStatus == core.StatusTruncated {
					c.TextWithContact++
				}
			}
		}
	}
	if c.TotalFiles > 0 {
		c.ContactRatio = float64(c.FullCount+c.TruncatedCount) / float64(c.TotalFiles)
	}
	if c.TextTotal > 0 {
		c.TextCoverageRatio = float64(c.TextWithContact) / float64(c.TextTotal)
	}
	switch {
	case c.TextCoverageRatio < 0.10:
		c.RiskLevel = "high"
	case c.TextCoverageRatio < 0.50 || c.TruncatedCount > 0:
		c.RiskLevel = "medium"
	default:
		c.RiskLevel = "low"
	}
	c.UncertaintyScore = 1 - c.TextCoverageRatio
	return c
}
