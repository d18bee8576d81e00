// Package classifier assigns (category, tags[]) to a FileRecord from
// path/extension heuristics, and detects text vs binary content.
// Classify is the only place that mutates a FileRecord's
// Category/Tags/IsText/Roles fields — once it returns, those fields are
// frozen for the rest of the pipeline.
package classifier

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sevigo/hubmerge/internal/core"
)

const maxTextDetectSize = 20 * 1024 * 1024 // 20 MiB

var textExtensions = map[string]bool{
	".go": true, ".py": true, ".js": true, ".ts": true, ".tsx": true, ".jsx": true,
	".java": true, ".c": true, ".h": true, ".cpp": true, ".hpp": true, ".rs": true,
	".rb": true, ".php": true, ".cs": true, ".kt": true, ".swift": true, ".scala": true,
	".sh": true, ".bash": true, ".zsh": true, ".sql": true,
	".md": true, ".rst": true, ".txt": true, ".adoc": true,
	".toml": true, ".yaml": true, ".yml": true, ".json": true, ".lock": true,
	".ini": true, ".cfg": true, ".env": true, ".proto": true, ".graphql": true,
	".html": true, ".css": true, ".scss": true, ".xml": true,
}

var textBareNames = map[string]bool{
	"Makefile": true, "Dockerfile": true, "Gemfile": true, "Rakefile": true,
	"LICENSE": true, "CHANGELOG": true, "Procfile": true,
}

var configFilenames = map[string]bool{
	"Dockerfile": true, "Makefile": true, "Procfile": true,
}

var runbookRe = regexp.MustCompile(`(?i)^runbook.*\.md$`)

// IsText reports whether a file should be treated as text.
func IsText(absPath string, size int64, extension, baseName string) bool {
	if textExtensions[extension] || textBareNames[baseName] {
		return true
	}
	if size > maxTextDetectSize {
		return false
	}
	f, err := os.Open(absPath)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 4096)
	n, _ := f.Read(buf)
	if n == 0 {
		return true
	}
	return !bytes.ContainsRune(buf[:n], 0)
}

// Classify assigns Category, Tags, IsText, and Roles to fr in place. It is
// the only pipeline stage permitted to write those fields.
func Classify(fr *core.FileRecord) {
	baseName := filepath.Base(fr.RelPath)
	fr.IsText = IsText(fr.AbsPath, fr.SizeBytes, fr.Extension, baseName)
	fr.Category = categorize(fr.RelPath, fr.Extension, baseName)
	fr.Tags = tagsFor(fr.RelPath, fr.Extension, baseName)
	fr.Roles = rolesFor(fr)
}

// categorize applies an ordered set of category rules: the first
// matching rule wins.
func categorize(relPath, ext, baseName string) core.Category {
	lower := strings.ToLower(relPath)

	isConfigFilename := configFilenames[baseName]
	isConfigPath := strings.Contains(lower, ".github/") || strings.Contains(lower, ".wgx/")
	isConfigExt := ext == ".toml" || ext == ".yaml" || ext == ".yml" || ext == ".json" ||
		ext == ".lock" || ext == ".ini" || ext == ".cfg"

	if isConfigFilename || isConfigPath || isConfigExt {
		if strings.Contains(lower, "/contracts/") {
			return core.CategoryContract
		}
		return core.CategoryConfig
	}

	if ext == ".md" || ext == ".rst" || ext == ".txt" || ext == ".adoc" || strings.Contains(lower, "/docs/") {
		return core.CategoryDoc
	}

	if strings.Contains(lower, "/contracts/") {
		return core.CategoryContract
	}

	if isTestPath(lower, baseName, ext) {
		return core.CategoryTest
	}

	if isSourceExt(ext) || strings.Contains(lower, "/src/") || strings.Contains(lower, "/scripts/") || strings.Contains(lower, "/crates/") {
		return core.CategorySource
	}

	return core.CategoryOther
}

func isTestPath(lowerRelPath, baseName, ext string) bool {
	for _, seg := range strings.Split(lowerRelPath, "/") {
		if seg == "tests" || seg == "test" {
			return true
		}
	}
	if strings.HasPrefix(strings.ToLower(baseName), "test_") {
		return true
	}
	if strings.HasSuffix(strings.ToLower(baseName), "_test"+ext) {
		return true
	}
	return false
}

var sourceExtensions = map[string]bool{
	".go": true, ".py": true, ".js": true, ".ts": true, ".tsx": true, ".jsx": true,
	".java": true, ".c": true, ".h": true, ".cpp": true, ".hpp": true, ".rs": true,
	".rb": true, ".php": true, ".cs": true, ".kt": true, ".swift": true, ".scala": true,
}

func isSourceExt(ext string) bool {
	return sourceExtensions[ext]
}

// tagsFor computes the additive tag set for a file.
func tagsFor(relPath, ext, baseName string) []core.Tag {
	lower := strings.ToLower(relPath)
	var tags []core.Tag

	if strings.HasSuffix(lower, ".ai-context.yml") || isRepoReadme(relPath) {
		tags = append(tags, core.TagAIContext)
	}
	if strings.HasPrefix(lower, ".github/workflows/") && (ext == ".yml" || ext == ".yaml") {
		tags = append(tags, core.TagCI)
	}
	if runbookRe.MatchString(strings.ToLower(baseName)) {
		tags = append(tags, core.TagRunbook)
	}
	if strings.HasPrefix(lower, "docs/adr/") && ext == ".md" {
		tags = append(tags, core.TagADR)
	}
	if (strings.HasPrefix(lower, "scripts/") || strings.HasPrefix(lower, "bin/")) && isScriptExt(ext) {
		tags = append(tags, core.TagScript)
	}
	if strings.Contains(strings.ToLower(baseName), "lock") {
		tags = append(tags, core.TagLockfile)
	}
	if strings.HasPrefix(lower, ".wgx/") && strings.HasPrefix(strings.ToLower(baseName), "profile") {
		tags = append(tags, core.TagWGXProfile)
	}
	if strings.HasPrefix(lower, "export/") && ext == ".jsonl" {
		tags = append(tags, core.TagFeed)
	}
	return tags
}

func isRepoReadme(relPath string) bool {
	return strings.EqualFold(filepath.Base(relPath), "readme.md") && !strings.Contains(relPath, "/")
}

func isScriptExt(ext string) bool {
	switch ext {
	case ".sh", ".bash", ".zsh", ".py", ".rb":
		return true
	}
	return false
}

// rolesFor computes the heuristic, non-authoritative role labels.
// Roles never gate inclusion — they are descriptive only.
func rolesFor(fr *core.FileRecord) []string {
	var roles []string
	if core.HasTag(fr.Tags, core.TagAIContext) {
		roles = append(roles, "ai-context")
	}
	if fr.Category == core.CategoryDoc && (isRepoReadme(fr.RelPath) || core.HasTag(fr.Tags, core.TagRunbook)) {
		roles = append(roles, "doc-essential")
	}
	if fr.Category == core.CategoryConfig {
		roles = append(roles, "config")
	}
	if isEntrypoint(fr.RelPath) {
		roles = append(roles, "entrypoint")
	}
	return roles
}

func isEntrypoint(relPath string) bool {
	base := filepath.Base(relPath)
	switch base {
	case "main.go", "main.py", "index.js", "index.ts", "app.py", "server.go":
		return true
	}
	return false
}
