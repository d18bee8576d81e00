// Package augment loads the optional, read-only "augment sidecar" a hub
// directory may carry: a small JSON file supplying extra human-curated
// context (a fleet-level snapshot, notes, links) that the Renderer folds
// into an "Augment Intelligence" extras block. It is never authoritative
// and never fatal to load.
package augment

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

const relPath = ".wgx/augment.json"

// Data is parsed permissively: unknown fields are ignored, and any field
// may be absent. It has no required shape beyond being a JSON object.
type Data struct {
	Title       string         `json:"title"`
	Summary     string         `json:"summary"`
	Highlights  []string       `json:"highlights"`
	Extra       map[string]any `json:"-"`
}

// Load looks for <hubRoot>/.wgx/augment.json. A missing file is the common
// case and returns (nil, false) without logging. A present-but-malformed
// file is logged and ignored — never fatal, per the read-only augment
// contract.
func Load(hubRoot string, logger *slog.Logger) (*Data, bool) {
	path := filepath.Join(hubRoot, relPath)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) && logger != nil {
			logger.Warn("augment sidecar unreadable, ignoring", "path", path, "error", err)
		}
		return nil, false
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		if logger != nil {
			logger.Warn("augment sidecar malformed, ignoring", "path", path, "error", err)
		}
		return nil, false
	}
	return &d, true
}

// Render produces the body text the Renderer embeds verbatim in its
// "Augment Intelligence" extras block.
func (d *Data) Render() string {
	if d == nil {
		return ""
	}
	out := ""
	if d.Title != "" {
		out += "**" + d.Title + "**\n\n"
	}
	if d.Summary != "" {
		out += d.Summary + "\n\n"
	}
	for _, h := range d.Highlights {
		out += "- " + h + "\n"
	}
	return out
}
