package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/hubmerge/internal/coordinator"
	"github.com/sevigo/hubmerge/internal/wire"
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		fmt.Println("usage: hubmerge-tui <repo-path>...")
		os.Exit(1)
	}

	runtime, err := wire.InitializeRuntime()
	if err != nil {
		fmt.Printf("failed to initialize runtime: %v\n", err)
		os.Exit(1)
	}

	repos := make([]coordinator.RepoInput, len(args))
	for i, root := range args {
		repos[i] = coordinator.RepoInput{Label: filepath.Base(root), Root: root}
	}

	ctx, cancel := context.WithTimeout(context.Background(), runtime.Cfg.Merge.Timeout)
	defer cancel()

	in := coordinator.Input{
		HubRoot:   filepath.Dir(args[0]),
		Repos:     repos,
		Cfg:       runtime.Cfg,
		OutDir:    ".",
		Logger:    runtime.Logger,
		GitClient: runtime.GitClient,
		Now:       time.Now(),
	}

	p := tea.NewProgram(initialModel(ctx, in), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("error running hubmerge tui", "error", err)
		os.Exit(1)
	}
}
