package augment

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	d, ok := Load(dir, nil)
	if ok || d != nil {
		t.Errorf("expected ok=false for a missing augment file, got %v %v", ok, d)
	}
}

func TestLoad_MalformedJSON_NeverFatal(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".wgx"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".wgx", "augment.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	d, ok := Load(dir, nil)
	if ok || d != nil {
		t.Errorf("expected ok=false for malformed JSON, got %v %v", ok, d)
	}
}

func TestLoad_Valid(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".wgx"), 0o755); err != nil {
		t.Fatal(err)
	}
	content := `{"title":"Fleet","summary":"All green","highlights":["a","b"],"unknown_field":42}`
	if err := os.WriteFile(filepath.Join(dir, ".wgx", "augment.json"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	d, ok := Load(dir, nil)
	if !ok || d == nil {
		t.Fatal("expected a valid augment document to load")
	}
	if d.Title != "Fleet" || d.Summary != "All green" || len(d.Highlights) != 2 {
		t.Errorf("unexpected parse result: %+v", d)
	}
	body := d.Render()
	if body == "" {
		t.Error("expected non-empty rendered body")
	}
}

func TestRender_NilData(t *testing.T) {
	var d *Data
	if d.Render() != "" {
		t.Error("nil *Data should render empty")
	}
}
