package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sevigo/hubmerge/internal/config"
	"github.com/sevigo/hubmerge/internal/core"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestWalk_BasicAndForceInclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "README.md"), "hello")
	writeFile(t, filepath.Join(root, "src", "main.go"), "package main")
	writeFile(t, filepath.Join(root, "node_modules", "x", "skip.go"), "ignored")
	writeFile(t, filepath.Join(root, ".DS_Store"), "junk")
	writeFile(t, filepath.Join(root, ".secret", "token"), "nope")

	w := New(config.WalkerConfig{IgnoreDirs: []string{"node_modules", ".git"}}, nil)
	records, _, err := w.Walk("demo", root)
	if err != nil {
		t.Fatal(err)
	}

	byPath := map[string]*core.FileRecord{}
	for _, r := range records {
		byPath[r.RelPath] = r
	}

	if _, ok := byPath["node_modules/x/skip.go"]; ok {
		t.Error("ignored directory should not be walked")
	}
	if _, ok := byPath[".DS_Store"]; ok {
		t.Error("platform junk should be skipped")
	}
	if _, ok := byPath[".secret/token"]; ok {
		t.Error("hidden directory should be skipped")
	}
	readme, ok := byPath["README.md"]
	if !ok {
		t.Fatal("README.md must be force-included")
	}
	if readme.InclusionReason != core.InclusionForceInclude {
		t.Errorf("README.md inclusion reason = %q, want force_include", readme.InclusionReason)
	}
	main, ok := byPath["src/main.go"]
	if !ok {
		t.Fatal("src/main.go should be walked")
	}
	if main.InclusionReason != core.InclusionNormal {
		t.Errorf("src/main.go inclusion reason = %q, want normal", main.InclusionReason)
	}
}

func TestWalk_IncludePathWhitelist(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "README.md"), "hello")
	writeFile(t, filepath.Join(root, "docs", "manual.md"), "docs")
	writeFile(t, filepath.Join(root, "src", "main.py"), "print()")

	w := New(config.WalkerConfig{IncludePaths: []string{"docs/"}}, nil)
	records, _, err := w.Walk("demo", root)
	if err != nil {
		t.Fatal(err)
	}
	// README.md is force-included, which the whitelist does not override.
	if len(records) != 2 || records[0].RelPath != "docs/manual.md" || records[1].RelPath != "README.md" {
		t.Fatalf("expected docs/manual.md plus the force-included README.md, got %+v", records)
	}
}

func TestWalk_EnvFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".env"), "SECRET=1")
	writeFile(t, filepath.Join(root, ".env.example"), "SECRET=")

	w := New(config.WalkerConfig{}, nil)
	records, _, err := w.Walk("demo", root)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].RelPath != ".env.example" {
		t.Fatalf("expected only .env.example, got %+v", records)
	}
}

func TestWalk_SortedByRelPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.go"), "x")
	writeFile(t, filepath.Join(root, "A.go"), "x")

	w := New(config.WalkerConfig{}, nil)
	records, _, err := w.Walk("demo", root)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].RelPath != "A.go" || records[1].RelPath != "b.go" {
		t.Fatalf("expected case-insensitive sorted order, got %+v", records)
	}
}
