package hasher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFingerprintFile_Deterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o600); err != nil {
		t.Fatal(err)
	}
	a, err := FingerprintFile(path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FingerprintFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("fingerprint not deterministic: %q != %q", a, b)
	}
}

func TestPool_Fingerprint_ErrorSentinel(t *testing.T) {
	p := DefaultFactory(2)
	results, err := p.Fingerprint(context.Background(), []string{"/no/such/file"})
	if err != nil {
		t.Fatalf("a missing file must degrade to ERROR, not fail the pool: %v", err)
	}
	if results["/no/such/file"] != errorSentinel {
		t.Errorf("expected ERROR sentinel, got %q", results["/no/such/file"])
	}
}

func TestRunIfEnabled_DisabledNeverConstructsPool(t *testing.T) {
	called := false
	factory := func(workers int) Pool {
		called = true
		return DefaultFactory(workers)
	}

	results, err := RunIfEnabled(context.Background(), false, 4, factory, []string{"/tmp/whatever"})
	if err != nil {
		t.Fatal(err)
	}
	if called {
		t.Fatal("factory must never be invoked when fingerprinting is disabled")
	}
	if len(results) != 0 {
		t.Errorf("expected no results when disabled, got %v", results)
	}
}

func TestRunIfEnabled_EnabledConstructsPool(t *testing.T) {
	called := false
	factory := func(workers int) Pool {
		called = true
		return DefaultFactory(workers)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	results, err := RunIfEnabled(context.Background(), true, 2, factory, []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("factory must be invoked when fingerprinting is enabled")
	}
	if results[path] == "" {
		t.Error("expected a fingerprint for the enabled path")
	}
}
