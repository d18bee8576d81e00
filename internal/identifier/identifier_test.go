package identifier

import "testing"

func TestStableID_DeterministicAndScoped(t *testing.T) {
	a := StableID("repoA", "src/main.go")
	b := StableID("repoA", "src/main.go")
	if a != b {
		t.Fatalf("StableID not deterministic: %q != %q", a, b)
	}
	if len(a) != len("f_")+12 {
		t.Fatalf("StableID wrong length: %q", a)
	}
	if StableID("repoB", "src/main.go") == a {
		t.Fatal("StableID must depend on repo_label")
	}
	if StableID("repoA", "src/other.go") == a {
		t.Fatal("StableID must depend on rel_path")
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"docs/adr/0001-decision.md": "docs-adr-0001-decision-md",
		"README.md":                 "readme-md",
		"Foo Bar!!Baz":              "foo-bar-baz",
		"--leading-trailing--":      "leading-trailing",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAnchor(t *testing.T) {
	a := Anchor("hub-repo", "src/main.go", "")
	if a != "file-hub-repo-src-main-go" {
		t.Errorf("unexpected anchor: %q", a)
	}
	withFP := Anchor("hub-repo", "src/main.go", "abcdef1234567890")
	if withFP != "file-hub-repo-src-main-go-abcdef" {
		t.Errorf("unexpected anchor with fingerprint: %q", withFP)
	}
}

func TestDedupe(t *testing.T) {
	seen := map[string]bool{}
	first := Dedupe("file-a-b", "", seen)
	second := Dedupe("file-a-b", "", seen)
	if first == second {
		t.Fatal("colliding anchors must be broken apart")
	}
	if first != "file-a-b" {
		t.Errorf("first anchor should be unmodified, got %q", first)
	}

	seen2 := map[string]bool{}
	withFP1 := Dedupe("file-x", "aaaaaa1111", seen2)
	withFP2 := Dedupe("file-x", "bbbbbb2222", seen2)
	if withFP1 == withFP2 {
		t.Fatal("fingerprint-suffixed anchors must differ")
	}
}
