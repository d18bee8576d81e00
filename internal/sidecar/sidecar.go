// Package sidecar builds and writes the machine-readable index document
// that accompanies the text report: same coverage numbers, one entry per
// FileRecord, and enough cross-references that an agent can locate a file's
// content block without re-parsing Markdown.
package sidecar

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sevigo/hubmerge/internal/core"
	"github.com/sevigo/hubmerge/internal/render"
)

const primaryArtifactKey = "primary"

type Meta struct {
	Contract        string          `json:"contract"`
	ContractVersion string          `json:"contract_version"`
	Profile         string          `json:"profile"`
	GeneratedAt     string          `json:"generated_at"`
	PlanOnly        bool            `json:"plan_only"`
	CodeOnly        bool            `json:"code_only"`
	SourceRepos     []string        `json:"source_repos"`
	Filters         Filters         `json:"filters"`
	Coverage        CoverageBlock   `json:"coverage"`
}

type Filters struct {
	PathFilter    string   `json:"path_filter"`
	PathFilterOff bool     `json:"path_filter_off"`
	ExtFilter     []string `json:"ext_filter"`
	ExtFilterOff  bool     `json:"ext_filter_off"`
}

type CoverageBlock struct {
	ContactRatio      float64 `json:"contact_ratio"`
	TextCoverageRatio float64 `json:"text_coverage_ratio"`
	RiskLevel         string  `json:"risk_level"`
	UncertaintyScore  float64 `json:"uncertainty_score"`
}

type Artifacts struct {
	Primary string   `json:"primary"`
	Text    string   `json:"text"`
	Parts   []string `json:"parts"`
}

type ReadingPolicy struct {
	CanonicalForHumans string `json:"canonical_for_humans"`
	CanonicalForAgents string `json:"canonical_for_agents"`
}

type ContentRef struct {
	Marker   string `json:"marker"`
	Selector string `json:"selector"`
}

type MDRef struct {
	Anchor   string `json:"anchor"`
	Fragment string `json:"fragment"`
}

type FileEntry struct {
	ID              string     `json:"id"`
	Path            string     `json:"path"`
	Repo            string     `json:"repo"`
	SizeBytes       int64      `json:"size_bytes"`
	IsText          bool       `json:"is_text"`
	Category        string     `json:"category"`
	Tags            []string   `json:"tags"`
	Included        bool       `json:"included"`
	InclusionStatus string     `json:"inclusion_status"`
	ContentRef      ContentRef `json:"content_ref"`
	MDRef           MDRef      `json:"md_ref"`
}

type SelfReportEntry struct {
	Path      string `json:"path"`
	Evidence  string `json:"evidence"` // full | snippet | meta
	CharsSeen int    `json:"chars_seen"`
}

type Document struct {
	Meta          Meta              `json:"meta"`
	Artifacts     Artifacts         `json:"artifacts"`
	ReadingPolicy ReadingPolicy     `json:"reading_policy"`
	Files         []FileEntry       `json:"files"`
	SelfReport    []SelfReportEntry `json:"self_report"`
	Delta         *core.DeltaMeta   `json:"delta,omitempty"`
}

// Build assembles a Document from a render Plan and the artifact paths the
// Splitter produced. charsSeen maps a file's rel_path to how many
// characters of its content actually entered the report (0 for meta-only).
func Build(plan *render.Plan, textPath string, partPaths []string, charsSeen map[string]int) *Document {
	doc := &Document{
		Meta: Meta{
			Contract:        render.ContractName,
			ContractVersion: render.ContractVersion,
			Profile:         string(plan.Opts.Profile.Name),
			GeneratedAt:     plan.Opts.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
			PlanOnly:        plan.Opts.PlanOnly,
			CodeOnly:        plan.Opts.CodeOnly,
			Filters: Filters{
				PathFilter:    plan.Opts.PathFilter,
				PathFilterOff: plan.Opts.PathFilter == "",
				ExtFilter:     plan.Opts.ExtFilter,
				ExtFilterOff:  len(plan.Opts.ExtFilter) == 0,
			},
			Coverage: CoverageBlock{
				ContactRatio:      plan.Coverage.ContactRatio,
				TextCoverageRatio: plan.Coverage.TextCoverageRatio,
				RiskLevel:         plan.Coverage.RiskLevel,
				UncertaintyScore:  plan.Coverage.UncertaintyScore,
			},
		},
		Artifacts: Artifacts{
			Primary: primaryArtifactKey,
			Text:    textPath,
			Parts:   partPaths,
		},
		ReadingPolicy: ReadingPolicy{
			CanonicalForHumans: "text",
			CanonicalForAgents: "sidecar",
		},
		Delta: plan.Opts.DeltaMeta,
	}

	for _, rp := range plan.Repos {
		doc.Meta.SourceRepos = append(doc.Meta.SourceRepos, rp.Summary.Name)
		for _, f := range rp.Files {
			included := f.InclusionStatus == core.StatusFull || f.InclusionStatus == core.StatusTruncated
			doc.Files = append(doc.Files, FileEntry{
				ID:              f.StableID,
				Path:            f.RelPath,
				Repo:            f.RepoLabel,
				SizeBytes:       f.SizeBytes,
				IsText:          f.IsText,
				Category:        string(f.Category),
				Tags:            tagStrings(f.Tags),
				Included:        included,
				InclusionStatus: string(f.InclusionStatus),
				ContentRef: ContentRef{
					Marker:   fmt.Sprintf(`<!-- file:id=%q path=%q -->`, f.StableID, f.RelPath),
					Selector: fmt.Sprintf("#%s", f.Anchor),
				},
				MDRef: MDRef{Anchor: f.Anchor, Fragment: "#" + f.Anchor},
			})

			evidence := "meta"
			chars := 0
			if included {
				evidence = "full"
				if charsSeen != nil {
					chars = charsSeen[f.RelPath]
				}
			}
			doc.SelfReport = append(doc.SelfReport, SelfReportEntry{
				Path: f.RelPath, Evidence: evidence, CharsSeen: chars,
			})
		}
	}
	return doc
}

func tagStrings(tags []core.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

// Validate runs the light structural check required before write:
// top level is an object (guaranteed by the Go type), contract name/version
// match, artifacts.text names the text report, files[] present.
func Validate(doc *Document) error {
	if doc.Meta.Contract != render.ContractName {
		return fmt.Errorf("%w: unexpected contract name %q", core.ErrSidecarInvalid, doc.Meta.Contract)
	}
	if doc.Meta.ContractVersion != render.ContractVersion {
		return fmt.Errorf("%w: unexpected contract version %q", core.ErrSidecarInvalid, doc.Meta.ContractVersion)
	}
	if doc.Artifacts.Text == "" {
		return fmt.Errorf("%w: artifacts.text is empty", core.ErrSidecarInvalid)
	}
	if doc.Files == nil {
		return fmt.Errorf("%w: files[] is missing", core.ErrSidecarInvalid)
	}
	return nil
}

// Write validates doc, then marshals and writes it to path. A document that
// fails validation is never written — the run is considered to have
// produced no sidecar at all.
func Write(doc *Document, path string) error {
	if err := Validate(doc); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("sidecar: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("sidecar: write: %w", err)
	}
	return nil
}
