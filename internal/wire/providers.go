package wire

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/wire"

	"github.com/sevigo/hubmerge/internal/config"
	"github.com/sevigo/hubmerge/internal/gitutil"
	"github.com/sevigo/hubmerge/internal/logger"
)

// Runtime bundles the ambient dependencies every command needs: the
// loaded configuration, the process logger, and a best-effort git
// provenance client — a thin root object assembled once at process start.
type Runtime struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	GitClient *gitutil.Client
}

func NewRuntime(cfg *config.Config, logger *slog.Logger, gitClient *gitutil.Client) *Runtime {
	return &Runtime{Cfg: cfg, Logger: logger, GitClient: gitClient}
}

// Set wires the ambient stack shared by every command: configuration,
// logging, and a git provenance client. The pipeline components
// themselves (walker, classifier, hasher, selector, identifier, render,
// split, sidecar, validate, coordinator) are plain constructors invoked
// directly from the coordinator rather than provided here, since their
// lifetime is scoped to a single merge run rather than the process.
var Set = wire.NewSet(
	config.LoadConfig,
	gitutil.NewClient,
	provideLoggerConfig,
	provideLogWriter,
	provideSlogLogger,
	NewRuntime,
)

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogWriter(cfg *config.Config) io.Writer {
	switch cfg.Logging.Output {
	case "stderr":
		return os.Stderr
	case "file":
		f, err := os.OpenFile("hubmerge.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
		if err != nil {
			return os.Stdout
		}
		return f
	default:
		return os.Stdout
	}
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	l := logger.NewLogger(loggerConfig, writer)
	slog.SetDefault(l)
	return l
}
