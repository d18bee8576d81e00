package render

import (
	"fmt"
	"iter"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sevigo/hubmerge/internal/core"
)

// Block is one contiguous text chunk of the report. Concatenating every
// Block a Render call yields is the canonical full report. FilePath is set
// only on per-file content blocks; the Splitter uses it to compute a part's
// file range without re-parsing rendered text.
type Block struct {
	Text     string
	FilePath string
	Anchor   string
}

const startOfContentMarker = "<!-- START_OF_CONTENT -->"

// Render walks plan and yields blocks in a fixed, invariant section order.
// It is pull-based: nothing is computed beyond what the consumer actually
// ranges over.
func Render(plan *Plan) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		emit := func(text string) bool { return yield(Block{Text: text}) }

		if !emit(header(plan)) {
			return
		}
		if !emit(sourceAndProfile(plan)) {
			return
		}
		if !emit(machineMeta(plan)) {
			return
		}
		if !emit(epistemicDeclaration(plan)) {
			return
		}
		if plan.MetaDensity != core.MetaDensityMin {
			if !emit(readingLenses(plan)) {
				return
			}
			if !emit(epistemicStatus(plan)) {
				return
			}
		}
		if !emit(profileDescription(plan)) {
			return
		}
		if !emit(readingPlan(plan)) {
			return
		}
		if !emit(planSection(plan)) {
			return
		}
		for _, block := range extras(plan) {
			if !emit(block) {
				return
			}
		}

		if plan.Opts.PlanOnly {
			return
		}

		if !yield(Block{Text: startOfContentMarker + "\n\n"}) {
			return
		}
		if plan.Profile() != core.ProfileMachineLean {
			if !emit(structureTree(plan)) {
				return
			}
		}
		if !emit(indexSection(plan)) {
			return
		}
		if !emit(manifest(plan)) {
			return
		}
		if !emit("## Content\n\n") {
			return
		}

		for _, rp := range plan.Repos {
			for _, f := range rp.Files {
				if f.InclusionStatus != core.StatusFull && f.InclusionStatus != core.StatusTruncated {
					continue
				}
				block := fileBlock(plan, readFunc(plan), f)
				if !yield(block) {
					return
				}
			}
		}
	}
}

func (p *Plan) Profile() core.ProfileName { return p.Opts.Profile.Name }

func header(p *Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	b.WriteString("> This report is generated for language-model consumption. Every claim ")
	b.WriteString("about file coverage below is derived from the same counters the sidecar ")
	b.WriteString("uses; treat `meta-only` and `omitted` files as unread, not summarized.\n\n")
	fmt.Fprintf(&b, "Contract: `%s` v%s\n\n", ContractName, ContractVersion)
	return b.String()
}

func sourceAndProfile(p *Plan) string {
	var b strings.Builder
	b.WriteString("## Source & Profile\n\n")
	names := make([]string, 0, len(p.Repos))
	for _, rp := range p.Repos {
		names = append(names, rp.Summary.Name)
	}
	sort.Strings(names)
	fmt.Fprintf(&b, "- Repositories: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "- Profile: `%s`\n", p.Opts.Profile.Name)
	fmt.Fprintf(&b, "- Generated: %s\n", p.Opts.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(&b, "- Max file bytes: %s\n", maxBytesLabel(p.Opts.MaxFileBytes))
	fmt.Fprintf(&b, "- Contract: `%s` v%s\n", ContractName, ContractVersion)
	fmt.Fprintf(&b, "- plan_only=%t code_only=%t mode=%s\n", p.Opts.PlanOnly, p.Opts.CodeOnly, p.Opts.Mode)
	fmt.Fprintf(&b, "- Coverage: %d/%d files had textual contact (%.1f%%)\n\n",
		p.Coverage.FullCount+p.Coverage.TruncatedCount, p.Coverage.TotalFiles, p.Coverage.ContactRatio*100)
	return b.String()
}

func maxBytesLabel(n int64) string {
	if n == 0 {
		return "unlimited"
	}
	return strconv.FormatInt(n, 10)
}

func machineMeta(p *Plan) string {
	var b strings.Builder
	b.WriteString("## Machine-Meta\n\n```hubmerge-meta\n")
	fmt.Fprintf(&b, "contract: %s\ncontract_version: %s\n", ContractName, ContractVersion)
	fmt.Fprintf(&b, "profile: %s\nmode: %s\nmeta_density: %s\n", p.Opts.Profile.Name, p.Opts.Mode, p.MetaDensity)
	fmt.Fprintf(&b, "plan_only: %t\ncode_only: %t\n", p.Opts.PlanOnly, p.Opts.CodeOnly)
	fmt.Fprintf(&b, "path_filter: %q\next_filter: %v\n", p.Opts.PathFilter, p.Opts.ExtFilter)
	fmt.Fprintf(&b, "contact_ratio: %.4f\ntext_coverage_ratio: %.4f\nrisk_level: %s\nuncertainty_score: %.4f\n",
		p.Coverage.ContactRatio, p.Coverage.TextCoverageRatio, p.Coverage.RiskLevel, p.Coverage.UncertaintyScore)
	hasAugment := p.Opts.AugmentBlock != ""
	hasDelta := p.Opts.DeltaMeta != nil
	fmt.Fprintf(&b, "extras: {augment: %t, delta: %t}\n", hasAugment, hasDelta)
	b.WriteString("```\n\n")
	return b.String()
}

func epistemicDeclaration(p *Plan) string {
	var b strings.Builder
	b.WriteString("## Epistemic Declaration\n\n")
	fmt.Fprintf(&b, "This report had direct textual contact with %.1f%% of text files in scope ",
		p.Coverage.TextCoverageRatio*100)
	fmt.Fprintf(&b, "(risk level: **%s**). Files marked `meta-only` below are known to exist, "+
		"classified, and counted — but their content was never read into this report.\n\n", p.Coverage.RiskLevel)
	return b.String()
}

func readingLenses(p *Plan) string {
	return "## Reading Lenses\n\nTreat `source`/`test` content as ground truth for behavior; " +
		"treat `doc` content as a claim to verify against source, not a substitute for it.\n\n"
}

func epistemicStatus(p *Plan) string {
	var b strings.Builder
	b.WriteString("## Epistemic Status\n\n")
	fmt.Fprintf(&b, "- full: %d\n- truncated: %d\n- meta-only: %d\n- omitted: %d\n\n",
		p.Coverage.FullCount, p.Coverage.TruncatedCount, p.Coverage.MetaOnlyCount, p.Coverage.OmittedCount)
	return b.String()
}

func profileDescription(p *Plan) string {
	descs := map[core.ProfileName]string{
		core.ProfileOverview:   "Only priority files (README, ai-context, runbooks) are fully read; everything else is inventoried only.",
		core.ProfileSummary:    "Config, contract, doc, and lockfile content is included in full; source and test content is inventoried unless priority.",
		core.ProfileDev:        "Source, test, config, and contract content is included in full; small lockfiles inline, large ones inventoried.",
		core.ProfileMachineLean: "Same inclusion policy as dev, rendered without the human-oriented directory tree.",
		core.ProfileMax:        "Every text file in scope is included in full.",
	}
	return "## Profile Description\n\n" + descs[p.Opts.Profile.Name] + "\n\n"
}

func readingPlan(p *Plan) string {
	var b strings.Builder
	b.WriteString("## Reading Plan\n\n")
	b.WriteString("1. Read Source & Profile and Epistemic Declaration for scope and coverage.\n")
	b.WriteString("2. Use the Index to locate files by category or tag.\n")
	b.WriteString("3. Use the Manifest as the authoritative per-repo file list; follow anchors into Content.\n")
	b.WriteString("4. Treat absence from Content as absence of evidence, not evidence of absence.\n\n")
	return b.String()
}

func planSection(p *Plan) string {
	var b strings.Builder
	b.WriteString("## Plan\n\n")
	fmt.Fprintf(&b, "Total files: %d across %d repositories.\n\n", p.Coverage.TotalFiles, len(p.Repos))
	for _, rp := range p.Repos {
		total, text, bytes, included := rp.Summary.Counts()
		fmt.Fprintf(&b, "- **%s**: %d files (%d text, %d bytes, %d included)\n", rp.Summary.Name, total, text, bytes, included)
	}
	b.WriteString("\n")
	return b.String()
}

func extras(p *Plan) []string {
	var out []string
	if h := healthBlock(p); h != "" {
		out = append(out, h)
	}
	if d := deltaBlock(p); d != "" {
		out = append(out, d)
	}
	if a := p.Opts.AugmentBlock; a != "" {
		out = append(out, "## Augment Intelligence\n\n"+a+"\n\n")
	}
	return out
}

func healthBlock(p *Plan) string {
	if p.Coverage.RiskLevel == "low" {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Health\n\n")
	fmt.Fprintf(&b, "Risk level is **%s**; text coverage ratio is %.2f.\n\n", p.Coverage.RiskLevel, p.Coverage.TextCoverageRatio)
	return b.String()
}

func deltaBlock(p *Plan) string {
	if p.Opts.DeltaMeta == nil {
		return ""
	}
	d := p.Opts.DeltaMeta
	var b strings.Builder
	b.WriteString("## Delta\n\n")
	fmt.Fprintf(&b, "Files added: %d, removed: %d, changed: %d\n\n",
		d.Summary.FilesAdded, d.Summary.FilesRemoved, d.Summary.FilesChanged)
	return b.String()
}

func structureTree(p *Plan) string {
	var b strings.Builder
	b.WriteString("## Structure\n\n")
	for _, rp := range p.Repos {
		fmt.Fprintf(&b, "- **%s/**\n", rp.Summary.Name)
		for _, f := range rp.Files {
			fmt.Fprintf(&b, "  - %s\n", f.RelPath)
		}
	}
	b.WriteString("\n")
	return b.String()
}

func indexSection(p *Plan) string {
	byCategory := map[core.Category][]*core.FileRecord{}
	byTag := map[core.Tag][]*core.FileRecord{}
	for _, rp := range p.Repos {
		for _, f := range rp.Files {
			byCategory[f.Category] = append(byCategory[f.Category], f)
			for _, t := range f.Tags {
				byTag[t] = append(byTag[t], f)
			}
		}
	}

	var b strings.Builder
	b.WriteString("## Index\n\n")
	b.WriteString("<a id=\"index\"></a>\n\n")

	cats := []core.Category{core.CategorySource, core.CategoryTest, core.CategoryDoc, core.CategoryConfig, core.CategoryContract, core.CategoryOther}
	for _, c := range cats {
		files := byCategory[c]
		if len(files) == 0 {
			continue
		}
		fmt.Fprintf(&b, "**%s** (%d): %s\n\n", c, len(files), joinPaths(files))
	}
	tags := []core.Tag{core.TagAIContext, core.TagRunbook, core.TagLockfile, core.TagScript, core.TagCI, core.TagADR, core.TagFeed, core.TagWGXProfile}
	for _, t := range tags {
		files := byTag[t]
		if len(files) == 0 {
			continue
		}
		fmt.Fprintf(&b, "*%s* (%d): %s\n\n", t, len(files), joinPaths(files))
	}
	return b.String()
}

func joinPaths(files []*core.FileRecord) string {
	parts := make([]string, len(files))
	for i, f := range files {
		parts[i] = f.RelPath
	}
	return strings.Join(parts, ", ")
}

func manifest(p *Plan) string {
	var b strings.Builder
	b.WriteString("## Manifest\n\n")
	b.WriteString("<a id=\"manifest\"></a>\n\n")
	for _, rp := range p.Repos {
		fmt.Fprintf(&b, "### %s\n\n", rp.Summary.Name)
		b.WriteString("| path | category | tags | roles | size | included | fingerprint |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, f := range rp.Files {
			included := f.InclusionStatus == core.StatusFull || f.InclusionStatus == core.StatusTruncated
			link := f.RelPath
			if included {
				link = fmt.Sprintf("[%s](#%s)", f.RelPath, f.Anchor)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %t | %s |\n",
				link, f.Category, tagList(f.Tags), strings.Join(f.Roles, ","), f.SizeBytes, included, displayFingerprint(f))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func tagList(tags []core.Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func displayFingerprint(f *core.FileRecord) string {
	if f.Fingerprint == "" {
		return "-"
	}
	return f.Fingerprint
}

// readFileFunc reads a file's content for embedding in a content block.
type readFileFunc func(absPath string) ([]byte, error)

func readFunc(p *Plan) readFileFunc {
	if p.Opts.ReadFile != nil {
		return p.Opts.ReadFile
	}
	return os.ReadFile
}

// fileBlock renders one file's content block: rule, stable-ID comment,
// anchor, heading, metadata, fence-open, content, fence-close, backlink —
// strictly in that order.
func fileBlock(p *Plan, read readFileFunc, f *core.FileRecord) Block {
	var b strings.Builder
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "<!-- file:id=%q path=%q -->\n", f.StableID, f.RelPath)
	fmt.Fprintf(&b, "<a id=\"%s\"></a>\n\n", f.Anchor)
	fmt.Fprintf(&b, "#### %s\n\n", f.RelPath)

	if p.MetaDensity != core.MetaDensityMin {
		fmt.Fprintf(&b, "- repo: %s\n", f.RepoLabel)
		fmt.Fprintf(&b, "- category: %s, tags: %s\n", f.Category, tagList(f.Tags))
		fmt.Fprintf(&b, "- size: %d bytes, status: %s\n", f.SizeBytes, f.InclusionStatus)
		if p.MetaDensity == core.MetaDensityFull && f.Fingerprint != "" {
			fmt.Fprintf(&b, "- fingerprint: %s\n", f.Fingerprint)
		}
		b.WriteString("\n")
	}
	// Both min and standard density emit the file-meta comment for
	// non-full files as a safety rule; full density already shows the
	// same information in the bulleted metadata above.
	if p.MetaDensity != core.MetaDensityFull && f.InclusionStatus != core.StatusFull {
		fmt.Fprintf(&b, "<!-- file-meta: status=%s size=%d -->\n\n", f.InclusionStatus, f.SizeBytes)
	}

	raw, err := read(f.AbsPath)
	content := string(raw)
	if err != nil {
		content = fmt.Sprintf("[unreadable at render time: %v]", err)
	}

	fence := fenceFor(content)
	b.WriteString(fence)
	b.WriteString("\n")
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(fence)
	b.WriteString("\n\n")
	b.WriteString("[back to manifest](#manifest)\n\n")

	return Block{Text: b.String(), FilePath: f.RelPath, Anchor: f.Anchor}
}

// fenceFor picks an opening/closing fence long enough to never be closed
// early by a backtick run already present in content: max(3, longest
// backtick run in content + 1).
func fenceFor(content string) string {
	longest := 0
	run := 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	n := longest + 1
	if n < 3 {
		n = 3
	}
	return strings.Repeat("`", n)
}
