// Package coordinator orchestrates the ten pipeline stages end-to-end:
// Walker through Validator. It is the single place that decides whether a
// failure is a per-file diagnostic or a fatal run failure, and the single
// place that verifies post-conditions before reporting success.
package coordinator

import (
	"context"
	"crypto/sha1" //nolint:gosec // deterministic run-id derivation, not a security boundary
	"encoding/hex"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sevigo/hubmerge/internal/augment"
	"github.com/sevigo/hubmerge/internal/classifier"
	"github.com/sevigo/hubmerge/internal/config"
	"github.com/sevigo/hubmerge/internal/core"
	"github.com/sevigo/hubmerge/internal/gitutil"
	"github.com/sevigo/hubmerge/internal/hasher"
	"github.com/sevigo/hubmerge/internal/identifier"
	"github.com/sevigo/hubmerge/internal/render"
	"github.com/sevigo/hubmerge/internal/selector"
	"github.com/sevigo/hubmerge/internal/sidecar"
	"github.com/sevigo/hubmerge/internal/split"
	"github.com/sevigo/hubmerge/internal/validate"
	"github.com/sevigo/hubmerge/internal/walker"
)

// RepoInput is one repository the caller has already resolved and
// allow-listed; the Coordinator trusts this path without re-validating it.
type RepoInput struct {
	Label string
	Root  string
}

// Input is everything one merge invocation needs.
type Input struct {
	HubRoot   string
	Repos     []RepoInput
	RepoOrder []string // canonical ordering; repos absent sort after those present. Empty means Cfg.Walker.RepoOrder.

	Cfg       *config.Config
	OutDir    string
	Logger    *slog.Logger
	GitClient *gitutil.Client
	DeltaMeta *core.DeltaMeta
	Now       time.Time
}

// Artifact describes one written output pair for a single Renderer
// invocation (one repo in per-repo mode, or the whole run in combined mode).
type Artifact struct {
	TextPaths    []string
	SidecarPath  string
}

// Output is the Coordinator's result: the deterministic run id plus every
// artifact written.
type Output struct {
	RunID     string
	Artifacts []Artifact
}

// Run executes the full pipeline. Any returned error is fatal: a partial
// write on disk must be assumed invalid by the caller.
func Run(ctx context.Context, in Input) (*Output, error) {
	logger := in.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repoPlans, err := scanRepos(ctx, in, logger)
	if err != nil {
		return nil, err
	}

	aug, _ := augment.Load(in.HubRoot, logger)

	repoNames := make([]string, 0, len(repoPlans))
	for _, rp := range repoPlans {
		repoNames = append(repoNames, rp.Summary.Name)
	}
	sort.Strings(repoNames)
	runID := computeRunID(repoNames, in.Cfg.Merge.Profile, in.Cfg.Walker.PathFilter, in.Cfg.Walker.ExtFilter, in.Cfg.Merge.Mode, in.Now)

	opts := render.Options{
		Profile:      core.Profile{Name: core.ProfileName(in.Cfg.Merge.Profile), PlanOnly: in.Cfg.Merge.PlanOnly, CodeOnly: in.Cfg.Merge.CodeOnly, MetaDensity: core.MetaDensity(in.Cfg.Merge.MetaDensity)},
		Mode:         in.Cfg.Merge.Mode,
		MaxFileBytes: in.Cfg.Merge.MaxFileBytes,
		PlanOnly:     in.Cfg.Merge.PlanOnly,
		CodeOnly:     in.Cfg.Merge.CodeOnly,
		ExtFilter:    in.Cfg.Walker.ExtFilter,
		PathFilter:   in.Cfg.Walker.PathFilter,
		GeneratedAt:  in.Now,
		DeltaMeta:    in.DeltaMeta,
		AugmentBlock: aug.Render(),
	}

	var invocations [][]render.RepoPlan
	if core.RenderMode(in.Cfg.Merge.Mode) == core.RenderModePerRepo {
		for _, rp := range repoPlans {
			invocations = append(invocations, []render.RepoPlan{rp})
		}
	} else {
		invocations = append(invocations, repoPlans)
	}

	out := &Output{RunID: runID}
	for i, group := range invocations {
		artifact, err := renderOne(group, opts, in, runID, i, logger)
		if err != nil {
			return nil, err
		}
		out.Artifacts = append(out.Artifacts, *artifact)
	}
	return out, nil
}

func scanRepos(ctx context.Context, in Input, logger *slog.Logger) ([]render.RepoPlan, error) {
	order := in.RepoOrder
	if len(order) == 0 {
		order = in.Cfg.Walker.RepoOrder
	}
	orderIndex := make(map[string]int, len(order))
	for i, name := range order {
		orderIndex[name] = i
	}

	w := walker.New(in.Cfg.Walker, logger)

	var plans []render.RepoPlan
	anchorSeen := map[string]bool{}
	for _, repo := range in.Repos {
		label := repo.Label
		if label == "" && in.GitClient != nil {
			label = in.GitClient.RemoteLabel(repo.Root)
		}
		if label == "" {
			label = filepath.Base(repo.Root)
		}
		if in.GitClient != nil {
			logger.Info("repo provenance", "repo", label, "describe", in.GitClient.Describe(repo.Root))
		}

		records, diags, err := w.Walk(label, repo.Root)
		if err != nil {
			logger.Warn("repo scan aborted", "repo", label, "error", err)
			continue
		}
		for _, d := range diags {
			logger.Warn("walker diagnostic", "repo", label, "path", d.Path, "msg", d.Msg)
		}

		var paths []string
		for _, fr := range records {
			classifier.Classify(fr)
			if !core.ValidCategory(fr.Category) {
				return nil, fmt.Errorf("%w: category %q on %s", core.ErrUnknownVocabulary, fr.Category, fr.RelPath)
			}
			for _, tag := range fr.Tags {
				if !core.ValidTag(tag) {
					return nil, fmt.Errorf("%w: tag %q on %s", core.ErrUnknownVocabulary, tag, fr.RelPath)
				}
			}
			if fr.IsText && in.Cfg.Walker.CalculateFingerprint {
				paths = append(paths, fr.AbsPath)
			}
		}

		fingerprints, err := hasher.RunIfEnabled(ctx, in.Cfg.Walker.CalculateFingerprint, 0, hasher.DefaultFactory, paths)
		if err != nil {
			return nil, fmt.Errorf("hasher: %w", err)
		}

		profile := core.Profile{Name: core.ProfileName(in.Cfg.Merge.Profile), PlanOnly: in.Cfg.Merge.PlanOnly, CodeOnly: in.Cfg.Merge.CodeOnly, MetaDensity: core.MetaDensity(in.Cfg.Merge.MetaDensity)}
		for _, fr := range records {
			if fp, ok := fingerprints[fr.AbsPath]; ok {
				fr.Fingerprint = fp
			}
			fr.InclusionStatus = selector.Select(fr, profile, in.Cfg.Merge.MaxFileBytes)
			fr.StableID = identifier.StableID(fr.RepoLabel, fr.RelPath)
			anchor := identifier.Anchor(fr.RepoLabel, fr.RelPath, fr.Fingerprint)
			fr.Anchor = identifier.Dedupe(anchor, fr.Fingerprint, anchorSeen)
		}

		summary := &core.RepoSummary{Name: label, Root: repo.Root, Files: records}
		plans = append(plans, render.RepoPlan{Summary: summary, Files: records})
	}

	sort.SliceStable(plans, func(i, j int) bool {
		oi, oki := orderIndex[plans[i].Summary.Name]
		oj, okj := orderIndex[plans[j].Summary.Name]
		switch {
		case oki && okj:
			return oi < oj
		case oki:
			return true
		case okj:
			return false
		default:
			return strings.ToLower(plans[i].Summary.Name) < strings.ToLower(plans[j].Summary.Name)
		}
	})
	return plans, nil
}

func renderOne(group []render.RepoPlan, opts render.Options, in Input, runID string, index int, logger *slog.Logger) (*Artifact, error) {
	plan := render.Build(group, opts)

	v := validate.New(plan.Opts.PlanOnly)
	var feedErr error
	teed := teeValidate(render.Render(plan), v, &feedErr)

	baseName := resolveBaseName(in, plan, runID, index)
	splitter := &split.Splitter{SplitSize: in.Cfg.Merge.SplitSize, OutDir: in.OutDir, BaseName: baseName, Title: plan.Title}
	parts, err := splitter.Write(teed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSplitFailure, err)
	}
	if feedErr != nil {
		return nil, feedErr
	}
	if err := v.Close(); err != nil {
		return nil, err
	}

	var textPaths, partFilenames []string
	for _, p := range parts {
		textPaths = append(textPaths, p.Path)
		partFilenames = append(partFilenames, filepath.Base(p.Path))
	}

	artifact := &Artifact{TextPaths: textPaths}

	if in.Cfg.Merge.JSONSidecar {
		charsSeen := map[string]int{}
		for _, rp := range group {
			for _, f := range rp.Files {
				if f.InclusionStatus == core.StatusFull || f.InclusionStatus == core.StatusTruncated {
					charsSeen[f.RelPath] = int(f.SizeBytes)
				}
			}
		}
		primaryText := ""
		if len(textPaths) > 0 {
			primaryText = filepath.Base(textPaths[0])
		}
		doc := sidecar.Build(plan, primaryText, partFilenames, charsSeen)
		sidecarPath := filepath.Join(in.OutDir, baseName+".json")
		if err := sidecar.Write(doc, sidecarPath); err != nil {
			return nil, err
		}
		artifact.SidecarPath = sidecarPath
	}

	if err := verifyPostConditions(artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

func verifyPostConditions(a *Artifact) error {
	for _, p := range a.TextPaths {
		info, err := os.Stat(p)
		if err != nil || info.Size() == 0 {
			return fmt.Errorf("%w: %s", core.ErrPostWriteVerification, p)
		}
	}
	if a.SidecarPath != "" {
		info, err := os.Stat(a.SidecarPath)
		if err != nil || info.Size() == 0 {
			return fmt.Errorf("%w: %s", core.ErrPostWriteVerification, a.SidecarPath)
		}
	}
	return nil
}

// teeValidate wraps blocks so every block reaches the Validator before it
// reaches the downstream consumer (the Splitter) — a tee, not a copy after
// the fact, so validation failures are observed at the same granularity the
// file sink sees them.
func teeValidate(blocks iter.Seq[render.Block], v *validate.Validator, errOut *error) iter.Seq[render.Block] {
	return func(yield func(render.Block) bool) {
		for b := range blocks {
			if err := v.Feed(b); err != nil {
				*errOut = err
				return
			}
			if !yield(b) {
				return
			}
		}
	}
}

func resolveBaseName(in Input, plan *render.Plan, runID string, index int) string {
	repoBlock := "multi"
	if len(plan.Repos) == 1 {
		repoBlock = plan.Repos[0].Summary.Name
	}
	modeBlock := string(in.Cfg.Merge.Mode)
	detailBlock := string(in.Cfg.Merge.Profile)
	pathBlock := ""
	if in.Cfg.Walker.PathFilter != "" {
		pathBlock = sanitizeForFilename(in.Cfg.Walker.PathFilter) + "-"
	}
	extBlock := ""
	if len(in.Cfg.Walker.ExtFilter) > 0 {
		extBlock = "-ext-" + strings.Join(in.Cfg.Walker.ExtFilter, "")
	}
	ts := in.Now.Format("060102-1504")
	indexSuffix := ""
	if index > 0 {
		indexSuffix = fmt.Sprintf("-%d", index)
	}
	return fmt.Sprintf("%s%s-%s-%s%s%s-%s", pathBlock, repoBlock, modeBlock, detailBlock, extBlock, indexSuffix, ts)
}

func sanitizeForFilename(s string) string {
	s = strings.Trim(s, "/")
	return strings.Map(func(r rune) rune {
		if r == '/' || r == ' ' {
			return '-'
		}
		return r
	}, s)
}

func computeRunID(repoNames []string, profile, pathFilter string, extFilter []string, mode string, ts time.Time) string {
	h := sha1.New() //nolint:gosec
	fmt.Fprintf(h, "%s|%s|%s|%v|%s|%s", strings.Join(repoNames, ","), profile, pathFilter, extFilter, mode, ts.UTC().Format(time.RFC3339))
	return hex.EncodeToString(h.Sum(nil))[:12]
}
