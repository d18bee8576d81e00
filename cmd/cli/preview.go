package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/hubmerge/internal/coordinator"
	"github.com/sevigo/hubmerge/internal/sidecar"
	"github.com/sevigo/hubmerge/internal/wire"
)

var previewProfile string

var previewCmd = &cobra.Command{
	Use:   "preview <repo-path>...",
	Short: "Show the coverage and risk level a merge run would produce, without writing a report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		runtime, err := wire.InitializeRuntime()
		if err != nil {
			return fmt.Errorf("failed to initialize runtime: %w", err)
		}
		cfg := runtime.Cfg
		if previewProfile != "" {
			cfg.Merge.Profile = previewProfile
		}
		cfg.Merge.PlanOnly = true
		cfg.Merge.JSONSidecar = true

		scratch, err := os.MkdirTemp("", "hubmerge-preview-*")
		if err != nil {
			return fmt.Errorf("failed to create scratch dir: %w", err)
		}
		defer os.RemoveAll(scratch)

		repos := make([]coordinator.RepoInput, len(args))
		for i, root := range args {
			repos[i] = coordinator.RepoInput{Label: filepath.Base(root), Root: root}
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Merge.Timeout)
		defer cancel()

		out, err := coordinator.Run(ctx, coordinator.Input{
			HubRoot:   filepath.Dir(args[0]),
			Repos:     repos,
			Cfg:       cfg,
			OutDir:    scratch,
			Logger:    runtime.Logger,
			GitClient: runtime.GitClient,
			Now:       time.Now(),
		})
		if err != nil {
			return fmt.Errorf("preview run failed: %w", err)
		}

		for _, a := range out.Artifacts {
			if a.SidecarPath == "" {
				continue
			}
			raw, err := os.ReadFile(a.SidecarPath)
			if err != nil {
				return fmt.Errorf("failed to read sidecar: %w", err)
			}
			var doc sidecar.Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("failed to parse sidecar: %w", err)
			}
			printCoverage(doc)
		}
		return nil
	},
}

func printCoverage(doc sidecar.Document) {
	riskColor := color.New(color.FgGreen)
	switch doc.Meta.Coverage.RiskLevel {
	case "medium":
		riskColor = color.New(color.FgYellow)
	case "high":
		riskColor = color.New(color.FgRed)
	}
	fmt.Printf("repos:          %v\n", doc.Meta.SourceRepos)
	fmt.Printf("profile:        %s\n", doc.Meta.Profile)
	fmt.Printf("files:          %d\n", len(doc.Files))
	fmt.Printf("contact ratio:  %.2f\n", doc.Meta.Coverage.ContactRatio)
	fmt.Printf("text coverage:  %.2f\n", doc.Meta.Coverage.TextCoverageRatio)
	fmt.Printf("risk level:     %s\n", riskColor.Sprint(doc.Meta.Coverage.RiskLevel))
	fmt.Printf("uncertainty:    %.2f\n", doc.Meta.Coverage.UncertaintyScore)
}

func init() { //nolint:gochecknoinits // cobra flag registration
	previewCmd.Flags().StringVar(&previewProfile, "profile", "", "overview|summary|dev|max|machine-lean")
}
