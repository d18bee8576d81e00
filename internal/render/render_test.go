package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sevigo/hubmerge/internal/core"
)

func sampleFiles() []*core.FileRecord {
	return []*core.FileRecord{
		{
			RepoLabel: "demo", RelPath: "README.md", AbsPath: "/x/README.md",
			SizeBytes: 120, IsText: true, Category: core.CategoryDoc,
			Tags: []core.Tag{core.TagAIContext}, InclusionStatus: core.StatusFull,
			StableID: "f_aaa", Anchor: "file-demo-readme-md",
		},
		{
			RepoLabel: "demo", RelPath: "src/main.py", AbsPath: "/x/src/main.py",
			SizeBytes: 50, IsText: true, Category: core.CategorySource,
			InclusionStatus: core.StatusMetaOnly,
			StableID: "f_bbb", Anchor: "file-demo-src-main-py",
		},
	}
}

func collect(p *Plan) []Block {
	var out []Block
	for b := range Render(p) {
		out = append(out, b)
	}
	return out
}

func TestRender_PlanOnly_OmitsContentSections(t *testing.T) {
	files := sampleFiles()
	plan := Build([]RepoPlan{{Summary: &core.RepoSummary{Name: "demo"}, Files: files}}, Options{
		Profile:     core.Profile{Name: core.ProfileDev},
		PlanOnly:    true,
		GeneratedAt: time.Unix(0, 0),
	})
	blocks := collect(plan)
	full := joinBlocks(blocks)
	if strings.Contains(full, startOfContentMarker) {
		t.Error("plan-only report must not contain the start-of-content marker")
	}
	if strings.Contains(full, "## Manifest") {
		t.Error("plan-only report must not contain a Manifest section")
	}
}

func TestRender_FullRun_HasAllSections(t *testing.T) {
	files := sampleFiles()
	plan := Build([]RepoPlan{{Summary: &core.RepoSummary{Name: "demo"}, Files: files}}, Options{
		Profile:     core.Profile{Name: core.ProfileMax},
		GeneratedAt: time.Unix(0, 0),
		ReadFile:    func(string) ([]byte, error) { return []byte("print('hi')"), nil },
	})
	blocks := collect(plan)
	full := joinBlocks(blocks)
	for _, want := range []string{"## Machine-Meta", "## Epistemic Declaration", "## Manifest", startOfContentMarker} {
		if !strings.Contains(full, want) {
			t.Errorf("missing expected section %q", want)
		}
	}
	if !strings.HasPrefix(full, "# Merge Report: demo") {
		t.Errorf("first line must be a level-1 title, got: %q", full[:40])
	}
}

func TestRender_FirstLineMatchesTitlePattern(t *testing.T) {
	plan := Build([]RepoPlan{{Summary: &core.RepoSummary{Name: "demo"}, Files: sampleFiles()}}, Options{
		Profile: core.Profile{Name: core.ProfileDev}, GeneratedAt: time.Unix(0, 0),
	})
	blocks := collect(plan)
	firstLine := strings.SplitN(blocks[0].Text, "\n", 2)[0]
	if !strings.HasPrefix(firstLine, "# ") {
		t.Errorf("first line %q does not start with a title marker", firstLine)
	}
}

func TestFenceFor_LongestRunPlusOne(t *testing.T) {
	if got := fenceFor("no backticks here"); got != "```" {
		t.Errorf("expected default 3-backtick fence, got %q", got)
	}
	if got := fenceFor("some ```code``` inline"); got != "````" {
		t.Errorf("expected 4-backtick fence to escape a 3-run, got %q", got)
	}
}

func TestRender_ContentReadError_DoesNotAbort(t *testing.T) {
	files := sampleFiles()
	files[1].InclusionStatus = core.StatusFull
	plan := Build([]RepoPlan{{Summary: &core.RepoSummary{Name: "demo"}, Files: files}}, Options{
		Profile:     core.Profile{Name: core.ProfileMax},
		GeneratedAt: time.Unix(0, 0),
		ReadFile:    func(string) ([]byte, error) { return nil, errors.New("boom") },
	})
	blocks := collect(plan)
	if !strings.Contains(joinBlocks(blocks), "unreadable at render time") {
		t.Error("a content read failure should degrade to an inline diagnostic, not abort rendering")
	}
}

func TestComputeCoverage_ZeroFiles(t *testing.T) {
	plan := Build([]RepoPlan{{Summary: &core.RepoSummary{Name: "empty"}, Files: nil}}, Options{
		Profile: core.Profile{Name: core.ProfileDev}, GeneratedAt: time.Unix(0, 0),
	})
	if plan.Coverage.ContactRatio != 0 {
		t.Errorf("expected zero contact ratio for an empty repo, got %v", plan.Coverage.ContactRatio)
	}
}

func joinBlocks(blocks []Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		b.WriteString(blk.Text)
	}
	return b.String()
}
