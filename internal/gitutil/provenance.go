// Package gitutil provides best-effort provenance lookups against a git
// working tree. It is never required for a merge run to succeed: the core
// treats every failure here as a diagnostic, never fatal
// filesystem-per-entry error policy).
package gitutil

import (
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5"
)

// Client reads lightweight provenance metadata from a local git checkout.
type Client struct {
	Logger *slog.Logger
}

// NewClient returns a new Client. A nil logger falls back to slog.Default.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Logger: logger}
}

// HeadSHA returns the current HEAD commit SHA of the git repository rooted
// at path, or "" if path is not a git working tree or HEAD can't be read.
func (c *Client) HeadSHA(path string) string {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return ""
	}
	ref, err := repo.Head()
	if err != nil {
		c.Logger.Debug("could not resolve HEAD", "path", path, "error", err)
		return ""
	}
	return ref.Hash().String()
}

// RemoteLabel derives a short repo label from the `origin` remote's URL
// (the final path segment, stripped of ".git"), or "" if unavailable.
func (c *Client) RemoteLabel(path string) string {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return ""
	}
	remote, err := repo.Remote("origin")
	if err != nil || len(remote.Config().URLs) == 0 {
		return ""
	}
	return labelFromURL(remote.Config().URLs[0])
}

func labelFromURL(rawURL string) string {
	end := len(rawURL)
	for end > 0 && rawURL[end-1] == '/' {
		end--
	}
	start := end
	for start > 0 && rawURL[start-1] != '/' && rawURL[start-1] != ':' {
		start--
	}
	name := rawURL[start:end]
	const suffix = ".git"
	if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
		name = name[:len(name)-len(suffix)]
	}
	return name
}

// Describe returns a short human string combining remote label and SHA,
// used only for log lines and provenance records — never parsed back.
func (c *Client) Describe(path string) string {
	label := c.RemoteLabel(path)
	sha := c.HeadSHA(path)
	if label == "" && sha == "" {
		return ""
	}
	if len(sha) > 12 {
		sha = sha[:12]
	}
	return fmt.Sprintf("%s@%s", label, sha)
}
