package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/hubmerge/internal/config"
	"github.com/sevigo/hubmerge/internal/coordinator"
	"github.com/sevigo/hubmerge/internal/wire"
)

var (
	mergeProfile      string
	mergePlanOnly     bool
	mergeCodeOnly     bool
	mergeMetaDensity  string
	mergeMaxFileBytes int64
	mergeSplitSize    int64
	mergeMode         string
	mergeJSONSidecar  bool
	mergeOutDir       string
	mergePathFilter   string
	mergeExtFilter    []string
	mergeRepoOrder    []string
	mergeLabels       []string
)

var mergeCmd = &cobra.Command{
	Use:   "merge <repo-path>...",
	Short: "Render a merge report over one or more repositories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runtime, err := wire.InitializeRuntime()
		if err != nil {
			return fmt.Errorf("failed to initialize runtime: %w", err)
		}
		cfg := runtime.Cfg
		applyMergeFlags(cfg, cmd)

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		repos := make([]coordinator.RepoInput, len(args))
		for i, root := range args {
			label := filepath.Base(root)
			if i < len(mergeLabels) && mergeLabels[i] != "" {
				label = mergeLabels[i]
			}
			repos[i] = coordinator.RepoInput{Label: label, Root: root}
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Merge.Timeout)
		defer cancel()

		out, err := coordinator.Run(ctx, coordinator.Input{
			HubRoot:   filepath.Dir(args[0]),
			Repos:     repos,
			RepoOrder: mergeRepoOrder,
			Cfg:       cfg,
			OutDir:    mergeOutDir,
			Logger:    runtime.Logger,
			GitClient: runtime.GitClient,
			Now:       time.Now(),
		})
		if err != nil {
			return fmt.Errorf("merge run failed: %w", err)
		}

		color.Green("run %s complete", out.RunID)
		for _, a := range out.Artifacts {
			for _, p := range a.TextPaths {
				fmt.Printf("  %s %s\n", color.CyanString("text"), p)
			}
			if a.SidecarPath != "" {
				fmt.Printf("  %s %s\n", color.YellowString("sidecar"), a.SidecarPath)
			}
		}
		return nil
	},
}

func applyMergeFlags(cfg *config.Config, cmd *cobra.Command) {
	if cmd.Flags().Changed("profile") {
		cfg.Merge.Profile = mergeProfile
	}
	if cmd.Flags().Changed("plan-only") {
		cfg.Merge.PlanOnly = mergePlanOnly
	}
	if cmd.Flags().Changed("code-only") {
		cfg.Merge.CodeOnly = mergeCodeOnly
	}
	if cmd.Flags().Changed("meta-density") {
		cfg.Merge.MetaDensity = mergeMetaDensity
	}
	if cmd.Flags().Changed("max-file-bytes") {
		cfg.Merge.MaxFileBytes = mergeMaxFileBytes
	}
	if cmd.Flags().Changed("split-size") {
		cfg.Merge.SplitSize = mergeSplitSize
	}
	if cmd.Flags().Changed("mode") {
		cfg.Merge.Mode = mergeMode
	}
	if cmd.Flags().Changed("json-sidecar") {
		cfg.Merge.JSONSidecar = mergeJSONSidecar
	}
	if cmd.Flags().Changed("path-filter") {
		cfg.Walker.PathFilter = mergePathFilter
	}
	if cmd.Flags().Changed("ext") {
		cfg.Walker.ExtFilter = mergeExtFilter
	}
	if len(mergeRepoOrder) > 0 {
		cfg.Walker.RepoOrder = mergeRepoOrder
	}
}

func init() { //nolint:gochecknoinits // cobra flag registration
	mergeCmd.Flags().StringVar(&mergeProfile, "profile", "", "overview|summary|dev|max|machine-lean")
	mergeCmd.Flags().BoolVar(&mergePlanOnly, "plan-only", false, "emit structure and coverage only, no file content")
	mergeCmd.Flags().BoolVar(&mergeCodeOnly, "code-only", false, "record code_only in the report and sidecar metadata; file selection is unchanged")
	mergeCmd.Flags().StringVar(&mergeMetaDensity, "meta-density", "", "min|standard|full|auto")
	mergeCmd.Flags().Int64Var(&mergeMaxFileBytes, "max-file-bytes", 0, "0 = unlimited")
	mergeCmd.Flags().Int64Var(&mergeSplitSize, "split-size", 0, "0 = single part")
	mergeCmd.Flags().StringVar(&mergeMode, "mode", "", "combined|per-repo")
	mergeCmd.Flags().BoolVar(&mergeJSONSidecar, "json-sidecar", true, "write the JSON sidecar alongside the text report")
	mergeCmd.Flags().StringVar(&mergeOutDir, "out", ".", "output directory")
	mergeCmd.Flags().StringVar(&mergePathFilter, "path-filter", "", "restrict to paths containing this substring")
	mergeCmd.Flags().StringSliceVar(&mergeExtFilter, "ext", nil, "restrict to these extensions, comma-separated")
	mergeCmd.Flags().StringSliceVar(&mergeRepoOrder, "repo-order", nil, "canonical repo ordering, comma-separated")
	mergeCmd.Flags().StringSliceVar(&mergeLabels, "label", nil, "one label per repo path, in order")
}
