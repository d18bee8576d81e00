package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrProfileNotFound is returned (alongside a usable default) when a repo
// has no .wgx/profile.yml override.
var ErrProfileNotFound = errors.New("repo profile override not found")

// RepoProfile is a per-repository override of the Walker's ignore/include
// policy, loaded from `.wgx/profile.yml` at the repo root. The file itself
// is always force-included by the Walker regardless of
// whether it parses. Nothing in the merge pipeline calls LoadRepoProfile:
// the Walker's policy comes from WalkerConfig alone.
type RepoProfile struct {
	ExtraIgnoreDirs []string `yaml:"extra_ignore_dirs"`
	ExtraExtFilter  []string `yaml:"extra_ext_filter"`
}

// DefaultRepoProfile returns an empty, no-op override.
func DefaultRepoProfile() *RepoProfile {
	return &RepoProfile{}
}

// LoadRepoProfile loads and parses `.wgx/profile.yml` from a repo root. A
// missing file is not an error condition for the caller: it returns the
// default profile alongside ErrProfileNotFound so callers can distinguish
// "no override" from "malformed override" the same way the Walker treats
// per-entry filesystem errors — log and continue, never abort.
func LoadRepoProfile(repoRoot string) (*RepoProfile, error) {
	path := filepath.Join(repoRoot, ".wgx", "profile.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultRepoProfile(), ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to read .wgx/profile.yml: %w", err)
	}

	profile := DefaultRepoProfile()
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse .wgx/profile.yml: %w", err)
	}
	return profile, nil
}
