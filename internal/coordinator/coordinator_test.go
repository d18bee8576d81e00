package coordinator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sevigo/hubmerge/internal/config"
	"github.com/sevigo/hubmerge/internal/core"
)

func writeRepo(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func baseConfig() *config.Config {
	return &config.Config{
		Walker: config.WalkerConfig{
			IgnoreDirs:           []string{".git", "node_modules"},
			CalculateFingerprint: false,
		},
		Merge: config.MergeConfig{
			Profile:     string(core.ProfileDev),
			MetaDensity: string(core.MetaDensityFull),
			Mode:        string(core.RenderModeCombined),
			JSONSidecar: true,
		},
	}
}

func TestRun_ThreeFileRepo_DevProfile(t *testing.T) {
	hub := t.TempDir()
	repoRoot := filepath.Join(hub, "demo")
	writeRepo(t, repoRoot, map[string]string{
		"README.md":       strings.Repeat("a", 120),
		"src/main.py":     strings.Repeat("b", 50),
		"docs/manual.md":  strings.Repeat("c", 90),
	})
	out := filepath.Join(hub, "out")

	res, err := Run(context.Background(), Input{
		HubRoot: hub,
		Repos:   []RepoInput{{Label: "demo", Root: repoRoot}},
		Cfg:     baseConfig(),
		OutDir:  out,
		Now:     time.Unix(0, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Artifacts) != 1 {
		t.Fatalf("expected 1 artifact, got %d", len(res.Artifacts))
	}
	if len(res.Artifacts[0].TextPaths) != 1 {
		t.Fatalf("expected a single part, got %d", len(res.Artifacts[0].TextPaths))
	}
	data, err := os.ReadFile(res.Artifacts[0].TextPaths[0])
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"main.py", "README.md", "manual.md"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected manifest/content to mention %q", want)
		}
	}
	if res.Artifacts[0].SidecarPath == "" {
		t.Error("expected a sidecar path to be recorded")
	}
}

func TestRun_OverviewProfile_OnlyReadmeFull(t *testing.T) {
	hub := t.TempDir()
	repoRoot := filepath.Join(hub, "demo")
	writeRepo(t, repoRoot, map[string]string{
		"README.md":      "hello",
		"src/main.py":    "print(1)",
		"docs/manual.md": "manual",
	})
	out := filepath.Join(hub, "out")

	cfg := baseConfig()
	cfg.Merge.Profile = string(core.ProfileOverview)

	res, err := Run(context.Background(), Input{
		HubRoot: hub,
		Repos:   []RepoInput{{Label: "demo", Root: repoRoot}},
		Cfg:     cfg,
		OutDir:  out,
		Now:     time.Unix(0, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(res.Artifacts[0].TextPaths[0])
	if err != nil {
		t.Fatal(err)
	}
	count := strings.Count(string(data), "<!-- file:id=")
	if count != 1 {
		t.Errorf("expected exactly 1 content block under overview profile, got %d", count)
	}
}

func TestRun_PathFilter_ExcludesForceIncludedReadme(t *testing.T) {
	hub := t.TempDir()
	repoRoot := filepath.Join(hub, "demo")
	writeRepo(t, repoRoot, map[string]string{
		"README.md":      "hello",
		"docs/manual.md": "manual",
	})
	out := filepath.Join(hub, "out")

	cfg := baseConfig()
	cfg.Merge.Profile = string(core.ProfileMax)
	cfg.Walker.PathFilter = "docs/"

	res, err := Run(context.Background(), Input{
		HubRoot: hub,
		Repos:   []RepoInput{{Label: "demo", Root: repoRoot}},
		Cfg:     cfg,
		OutDir:  out,
		Now:     time.Unix(0, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(res.Artifacts[0].TextPaths[0])
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if strings.Contains(text, "README.md") {
		t.Error("a path filter must exclude README.md even though it would normally be force-included")
	}
	if !strings.Contains(text, "manual.md") {
		t.Error("expected docs/manual.md to survive the path filter")
	}
}

func TestRun_PlanOnly_NoStartOfContentMarker(t *testing.T) {
	hub := t.TempDir()
	repoRoot := filepath.Join(hub, "demo")
	writeRepo(t, repoRoot, map[string]string{"README.md": "hello"})
	out := filepath.Join(hub, "out")

	cfg := baseConfig()
	cfg.Merge.PlanOnly = true

	res, err := Run(context.Background(), Input{
		HubRoot: hub,
		Repos:   []RepoInput{{Label: "demo", Root: repoRoot}},
		Cfg:     cfg,
		OutDir:  out,
		Now:     time.Unix(0, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(res.Artifacts[0].TextPaths[0])
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "START_OF_CONTENT") {
		t.Error("plan-only output must not contain the start-of-content marker")
	}
}
