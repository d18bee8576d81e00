package gitutil

import "testing"

func TestLabelFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/sevigo/hubmerge.git", "hubmerge"},
		{"git@github.com:sevigo/hubmerge.git", "hubmerge"},
		{"https://github.com/sevigo/hubmerge", "hubmerge"},
		{"https://github.com/sevigo/hubmerge/", "hubmerge"},
	}
	for _, tt := range tests {
		if got := labelFromURL(tt.url); got != tt.want {
			t.Errorf("labelFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestClient_HeadSHA_NotAGitRepo(t *testing.T) {
	c := NewClient(nil)
	if sha := c.HeadSHA(t.TempDir()); sha != "" {
		t.Errorf("expected empty SHA for non-repo path, got %q", sha)
	}
}

func TestClient_RemoteLabel_NotAGitRepo(t *testing.T) {
	c := NewClient(nil)
	if label := c.RemoteLabel(t.TempDir()); label != "" {
		t.Errorf("expected empty label for non-repo path, got %q", label)
	}
}
