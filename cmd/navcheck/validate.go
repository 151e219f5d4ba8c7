package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nao1215/navcheck/internal/config"
	"github.com/nao1215/navcheck/internal/history"
	navlog "github.com/nao1215/navcheck/internal/log"
	"github.com/nao1215/navcheck/internal/model"
	"github.com/nao1215/navcheck/internal/pipeline"
	"github.com/nao1215/navcheck/internal/report"
	"github.com/nao1215/navcheck/internal/watch"
)

// addValidateFlags registers the validation flags on cmd.
func addValidateFlags(cmd *cobra.Command) {
	defaults := config.NewConfig()

	// Input flags
	cmd.Flags().StringP("root", "r", config.DefaultRoot,
		"Documentation root; links may not leave it")
	cmd.Flags().StringSliceP(config.FlagExclude, "x", nil,
		"Glob of documents or directories to skip (repeatable, ** spans directories)")
	cmd.Flags().StringSlice(config.FlagIgnoreTargets, nil,
		"Glob of link targets that are never reported (repeatable)")
	cmd.Flags().StringSlice(config.FlagExtensions, defaults.Extensions,
		"File extensions treated as markdown")
	cmd.Flags().IntP(config.FlagWorkers, "w", defaults.Workers,
		"Number of documents parsed concurrently")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .navcheck in the root or current directory)")

	// Policy flags
	cmd.Flags().BoolP(config.FlagStrict, "s", false,
		"Fail on warnings as well as errors")

	// Report flags
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format: text, json or markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-color", false,
		"Disable colored text output")
	cmd.Flags().Bool("raw", false,
		"Print Markdown reports as plain Markdown even on a terminal")

	// History and watch flags
	cmd.Flags().Bool("record", false,
		"Save the run to the history database for 'navcheck compare'")
	cmd.Flags().Bool("watch", false,
		"Re-run validation whenever a file under the root changes")
	cmd.Flags().Duration("debounce", defaults.WatchDebounce,
		"Quiet period after the last change before a --watch re-run")
}

// runValidateCmd executes validation.
func runValidateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if cfg.Watch {
		return runWatch(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	run, err := validateOnce(ctx, cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if run.Failed() {
		return errLinksFailed
	}
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getDBDir retrieves the history database directory.
func getDBDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil || dir == "" {
		return config.XDGDataDir()
	}
	return dir
}

// buildConfig creates a Config from the configuration file and cobra
// command flags. Flags given on the command line win over the file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.Root, err = flags.GetString("root"); err != nil {
		return nil, err
	}
	if cfg.Exclude, err = flags.GetStringSlice(config.FlagExclude); err != nil {
		return nil, err
	}
	if cfg.IgnoreTargets, err = flags.GetStringSlice(config.FlagIgnoreTargets); err != nil {
		return nil, err
	}
	if cfg.Extensions, err = flags.GetStringSlice(config.FlagExtensions); err != nil {
		return nil, err
	}
	if cfg.Workers, err = flags.GetInt(config.FlagWorkers); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.Strict, err = flags.GetBool(config.FlagStrict); err != nil {
		return nil, err
	}
	if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.NoColor, err = flags.GetBool("no-color"); err != nil {
		return nil, err
	}
	if cfg.Raw, err = flags.GetBool("raw"); err != nil {
		return nil, err
	}
	if cfg.Record, err = flags.GetBool("record"); err != nil {
		return nil, err
	}
	if cfg.Watch, err = flags.GetBool("watch"); err != nil {
		return nil, err
	}
	if cfg.WatchDebounce, err = flags.GetDuration("debounce"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.DBDir = getDBDir(cmd)

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use defaults if no file found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath, cfg.Root)
	if configPath == "" {
		if cfg.ConfigFilePath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		return cfg, nil
	}

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	file.Apply(cfg, flags.Changed)

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// Logs go to stderr so that stdout carries only the report.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	return navlog.NewLogger(w, verbose)
}

// validateOnce runs the pipeline, writes the report and records the run.
func validateOnce(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) (*model.Run, error) {
	logger.Info("starting validation",
		"root", cfg.Root,
		"strict", cfg.Strict,
		"workers", cfg.Workers,
		"exclude", cfg.Exclude,
	)

	run, err := pipeline.Validate(ctx, cfg.Root, cfg.Strict,
		[]pipeline.Option{pipeline.WithLogger(logger)},
		pipeline.WithPipelineExtensions(cfg.Extensions),
		pipeline.WithPipelineExclude(cfg.Exclude),
		pipeline.WithPipelineIgnoreTargets(cfg.IgnoreTargets),
		pipeline.WithPipelineWorkers(cfg.Workers),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("validation completed",
		"documents", run.Documents,
		"links", run.Links,
		"findings", run.TotalFindings(),
		"duration", run.Duration,
	)

	if err := outputReport(cfg, run, stdout); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.Record {
		if err := recordRun(ctx, cfg.DBDir, run, logger); err != nil {
			return nil, err
		}
	}

	return run, nil
}

// outputReport outputs the run in the requested format, to the report
// file when one is configured and to stdout otherwise.
func outputReport(cfg *config.Config, run *model.Run, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports list repository paths; keep them readable by the owner only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	tty := cfg.ReportFile == "" && isTerminal(output)
	w, err := report.NewWriter(output, cfg.Format, report.Options{
		Color:  tty && !cfg.NoColor && !color.NoColor,
		Render: tty && !cfg.Raw,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(run)
	return err
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// recordRun saves the run to the history database.
func recordRun(ctx context.Context, dbDir string, run *model.Run, logger *slog.Logger) error {
	store, err := history.Open(dbDir, history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if err := store.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run saved to database", "id", run.ID, "db", store.Path())
	return nil
}

// runWatch validates once and again on every change until ctx is done.
// A root that cannot be read is fatal; findings only affect the output.
func runWatch(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	if info, err := os.Stat(cfg.Root); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", pipeline.ErrRootUnreadable, cfg.Root)
	}

	w := watch.New(cfg.Root,
		func(ctx context.Context) error {
			_, err := validateOnce(ctx, cfg, logger, stdout)
			return err
		},
		watch.WithDebounce(cfg.WatchDebounce),
		watch.WithExclude(cfg.Exclude),
		watch.WithLogger(logger),
	)

	fmt.Fprintf(stderr, "Watching %s for changes (Ctrl-C to stop)\n", cfg.Root)
	return w.Watch(ctx)
}
