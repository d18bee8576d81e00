// Package validate stream-checks the structural invariants of a rendered
// report as it is produced: fence nesting, monotonic section order, and
// anchor uniqueness. It is meant to run as a tee alongside the file sink —
// the Coordinator feeds it the same blocks it writes to disk.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sevigo/hubmerge/internal/core"
	"github.com/sevigo/hubmerge/internal/render"
)

// step identifies a logical section by its level-2 heading text.
type step int

const (
	stepNone step = iota
	stepHeader
	stepSourceProfile
	stepProfileDescription
	stepReadingPlan
	stepPlan
	stepManifest
	stepContent
)

var headingToStep = map[string]step{
	"Source & Profile":    stepSourceProfile,
	"Profile Description": stepProfileDescription,
	"Reading Plan":        stepReadingPlan,
	"Plan":                stepPlan,
	"Manifest":            stepManifest,
	"Content":             stepContent,
}

var fenceRe = regexp.MustCompile("^(`{3,})")
var headingRe = regexp.MustCompile(`^##\s+(.+?)\s*$`)
var h1Re = regexp.MustCompile(`^#\s`)
var anchorIDRe = regexp.MustCompile(`id="([^"]+)"`)

// Validator is a finite-state consumer: Feed is called once per block in
// emission order, Close checks that every non-optional step was observed.
type Validator struct {
	planOnly bool

	fenceStack []int
	inFence    bool

	lastStep step
	seen     map[step]bool

	seenAnchors map[string]bool
	sawFirstH1  bool
	sawStartOfContent bool
}

func New(planOnly bool) *Validator {
	return &Validator{
		planOnly:    planOnly,
		seen:        map[step]bool{},
		seenAnchors: map[string]bool{},
	}
}

// Feed consumes one block. It never buffers block text beyond the single
// block passed in.
func (v *Validator) Feed(b render.Block) error {
	for _, line := range strings.Split(b.Text, "\n") {
		if err := v.feedLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) feedLine(line string) error {
	if !v.sawFirstH1 && h1Re.MatchString(line) {
		v.sawFirstH1 = true
	}

	if m := fenceRe.FindStringSubmatch(line); m != nil {
		length := len(m[1])
		v.applyFence(length)
	}

	if strings.Contains(line, "START_OF_CONTENT") {
		v.sawStartOfContent = true
	}

	if v.inFence {
		for _, id := range anchorIDRe.FindAllStringSubmatch(line, -1) {
			if v.seenAnchors[id[1]] {
				return fmt.Errorf("%w: duplicate anchor %q", core.ErrRenderInvariant, id[1])
			}
			v.seenAnchors[id[1]] = true
		}
		return nil
	}

	if m := headingRe.FindStringSubmatch(line); m != nil {
		title := m[1]
		if st, ok := headingToStep[title]; ok {
			if st < v.lastStep {
				return fmt.Errorf("%w: section %q appeared out of order", core.ErrRenderInvariant, title)
			}
			v.lastStep = st
			v.seen[st] = true
		}
	}

	for _, id := range anchorIDRe.FindAllStringSubmatch(line, -1) {
		if v.seenAnchors[id[1]] {
			return fmt.Errorf("%w: duplicate anchor %q", core.ErrRenderInvariant, id[1])
		}
		v.seenAnchors[id[1]] = true
	}

	return nil
}

// applyFence implements CommonMark's fence-closing rule via a stack of open
// lengths: a backtick run only opens a new fence when we are not already
// inside one. While inside a fence, a run shorter than the enclosing fence
// is literal content and is ignored; only a run of equal-or-greater length
// closes the enclosing fence.
func (v *Validator) applyFence(length int) {
	if !v.inFence {
		v.fenceStack = append(v.fenceStack, length)
		v.inFence = true
		return
	}
	top := v.fenceStack[len(v.fenceStack)-1]
	if length < top {
		return
	}
	v.fenceStack = v.fenceStack[:len(v.fenceStack)-1]
	v.inFence = len(v.fenceStack) > 0
}

// Close reports whether every required step was observed on close. Optional
// extras (Health, Delta, Fleet Panorama, Organism Index, Heatmap, Augment
// Intelligence) are never enforced.
func (v *Validator) Close() error {
	if len(v.fenceStack) != 0 {
		return fmt.Errorf("%w: %d fence(s) left unclosed", core.ErrRenderInvariant, len(v.fenceStack))
	}
	if !v.sawFirstH1 {
		return fmt.Errorf("%w: missing header section", core.ErrRenderInvariant)
	}
	if v.planOnly {
		return nil
	}
	if !v.sawStartOfContent {
		return fmt.Errorf("%w: missing start-of-content marker", core.ErrRenderInvariant)
	}
	required := []step{stepSourceProfile, stepProfileDescription, stepReadingPlan, stepPlan, stepManifest, stepContent}
	for _, st := range required {
		if !v.seen[st] {
			return fmt.Errorf("%w: missing required section (step %d)", core.ErrRenderInvariant, st)
		}
	}
	return nil
}
