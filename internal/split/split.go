// Package split consumes a Renderer block stream and writes it out as N
// size-bounded parts, rewriting each part's header and injecting a part
// signature block when there is more than one part.
package split

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sevigo/hubmerge/internal/render"
)

// Part is one written output part, returned so the Coordinator/Sidecar can
// advertise it and the caller can verify it post-write.
type Part struct {
	Path       string
	Index      int // 1-based
	FirstFile  string
	LastFile   string
}

var titleLineRe = regexp.MustCompile(`^# [^\n]+$`)

// Splitter buffers blocks by byte size and opens a new part when the next
// block would exceed SplitSize and the current part already has content.
// SplitSize == 0 means unlimited: the whole stream becomes a single part.
type Splitter struct {
	SplitSize int64
	OutDir    string
	BaseName  string // filename stem, without extension or part suffix
	Title     string // report title, used to synthesize continuation headers
}

// Write buffers every part's blocks in memory until the stream ends, so the
// total part count N is known before anything is written; only then is the
// first-line header of every part rewritten to "<title> (Part i/N)". Each
// part is then written to a ".tmp" file and renamed to its canonical name.
func (s *Splitter) Write(blocks iter.Seq[render.Block]) ([]Part, error) {
	if err := os.MkdirAll(s.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("split: create out dir: %w", err)
	}

	type buffered struct {
		blocks    []render.Block
		size      int64
		firstFile string
		lastFile  string
	}
	var parts []*buffered
	cur := &buffered{}

	flush := func() {
		if len(cur.blocks) > 0 {
			parts = append(parts, cur)
		}
		cur = &buffered{}
	}

	for b := range blocks {
		n := int64(len(b.Text))
		if s.SplitSize > 0 && cur.size+n > s.SplitSize && len(cur.blocks) > 0 {
			flush()
		}
		cur.blocks = append(cur.blocks, b)
		cur.size += n
		if b.FilePath != "" {
			if cur.firstFile == "" {
				cur.firstFile = b.FilePath
			}
			cur.lastFile = b.FilePath
		}
	}
	flush()

	if len(parts) == 0 {
		parts = append(parts, &buffered{})
	}

	n := len(parts)
	var written []Part
	for i, p := range parts {
		idx := i + 1
		text := joinText(p.blocks)
		text = rewriteTitle(text, s.Title, idx, n)
		if n > 1 {
			prev := "none"
			if i > 0 {
				prev = partFileName(s.BaseName, i, n)
			}
			text = injectSignature(text, idx, n, prev, p.firstFile, p.lastFile)
		}

		name := s.BaseName + "_merge.md"
		if n > 1 {
			name = partFileName(s.BaseName, idx, n)
		}
		finalPath := filepath.Join(s.OutDir, name)
		tmpPath := finalPath + ".tmp"

		if err := os.WriteFile(tmpPath, []byte(text), 0o600); err != nil {
			return nil, fmt.Errorf("split: write part %d: %w", idx, err)
		}
		if err := os.Rename(tmpPath, finalPath); err != nil {
			return nil, fmt.Errorf("split: rename part %d: %w", idx, err)
		}

		written = append(written, Part{Path: finalPath, Index: idx, FirstFile: p.firstFile, LastFile: p.lastFile})
	}
	return written, nil
}

func partFileName(base string, idx, n int) string {
	return fmt.Sprintf("%s-part%dof%d_merge.md", base, idx, n)
}

func joinText(blocks []render.Block) string {
	var b strings.Builder
	for _, blk := range blocks {
		b.WriteString(blk.Text)
	}
	return b.String()
}

// rewriteTitle ensures every part begins with a "# <title> (Part i/N)"
// first line. The marker is unconditional, even for N == 1. Only part 1
// actually starts with the Renderer's "# <title>" header block — parts
// 2..N start at whichever block boundary the size limit fell on — so
// for those this synthesizes a new continuation header from the report
// title instead of rewriting a line that isn't a header at all.
func rewriteTitle(text string, title string, idx, n int) string {
	lines := strings.SplitN(text, "\n", 2)
	first := strings.TrimSuffix(lines[0], " ")
	if titleLineRe.MatchString(first) {
		rest := ""
		if len(lines) > 1 {
			rest = lines[1]
		}
		return fmt.Sprintf("%s (Part %d/%d)\n%s", first, idx, n, rest)
	}
	return fmt.Sprintf("# %s (Part %d/%d)\n%s", title, idx, n, text)
}

func injectSignature(text string, idx, n int, continuationOf, first, last string) string {
	lines := strings.SplitN(text, "\n", 2)
	rest := ""
	if len(lines) > 1 {
		rest = lines[1]
	}
	rangeStr := first
	if last != "" && last != first {
		rangeStr = first + " .. " + last
	}
	sig := fmt.Sprintf("\n```hubmerge-part\npart_index: %d\npart_total: %d\ncontinuation_of: %s\nrange: %s\n```\n\n",
		idx, n, continuationOf, rangeStr)
	return lines[0] + "\n" + sig + rest
}
