package sidecar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sevigo/hubmerge/internal/core"
	"github.com/sevigo/hubmerge/internal/render"
)

func samplePlan() *render.Plan {
	files := []*core.FileRecord{
		{RepoLabel: "demo", RelPath: "README.md", IsText: true, Category: core.CategoryDoc,
			InclusionStatus: core.StatusFull, StableID: "f_aaa", Anchor: "file-demo-readme-md"},
		{RepoLabel: "demo", RelPath: "src/main.py", IsText: true, Category: core.CategorySource,
			InclusionStatus: core.StatusMetaOnly, StableID: "f_bbb", Anchor: "file-demo-src-main-py"},
	}
	return render.Build([]render.RepoPlan{{Summary: &core.RepoSummary{Name: "demo"}, Files: files}}, render.Options{
		Profile: core.Profile{Name: core.ProfileDev}, GeneratedAt: time.Unix(0, 0),
	})
}

func TestBuild_CoverageMatchesPlan(t *testing.T) {
	plan := samplePlan()
	doc := Build(plan, "demo_merge.md", nil, nil)
	if doc.Meta.Coverage.ContactRatio != plan.Coverage.ContactRatio {
		t.Errorf("sidecar contact_ratio %v must equal plan %v", doc.Meta.Coverage.ContactRatio, plan.Coverage.ContactRatio)
	}
	if len(doc.Files) != 2 {
		t.Fatalf("expected 2 file entries, got %d", len(doc.Files))
	}
}

func TestBuild_SelfReportEvidence(t *testing.T) {
	plan := samplePlan()
	doc := Build(plan, "demo_merge.md", nil, map[string]int{"README.md": 120})
	var readme, src SelfReportEntry
	for _, e := range doc.SelfReport {
		switch e.Path {
		case "README.md":
			readme = e
		case "src/main.py":
			src = e
		}
	}
	if readme.Evidence != "full" || readme.CharsSeen != 120 {
		t.Errorf("expected full evidence with chars_seen=120 for README.md, got %+v", readme)
	}
	if src.Evidence != "meta" {
		t.Errorf("expected meta evidence for a meta-only file, got %+v", src)
	}
}

func TestValidate_RejectsMissingText(t *testing.T) {
	doc := Build(samplePlan(), "", nil, nil)
	if err := Validate(doc); err == nil {
		t.Error("expected validation failure for an empty artifacts.text")
	}
}

func TestWrite_RefusesInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	doc := Build(samplePlan(), "", nil, nil)
	path := filepath.Join(dir, "out.json")
	if err := Write(doc, path); err == nil {
		t.Error("expected Write to refuse an invalid document")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("an invalid document must never be written to disk")
	}
}

func TestWrite_ValidDocument(t *testing.T) {
	dir := t.TempDir()
	doc := Build(samplePlan(), "demo_merge.md", nil, nil)
	path := filepath.Join(dir, "out.json")
	if err := Write(doc, path); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("written sidecar must be non-empty")
	}
}
