package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/navcheck/internal/pathmatch"
)

// Report formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "navcheck"

	// DefaultRoot is the directory validated when --root is not given.
	DefaultRoot = "."

	// DefaultFormat is the human-readable, one line per finding format.
	DefaultFormat = FormatText

	// DefaultWatchDebounce collapses the burst of events editors produce
	// on save into a single re-run.
	DefaultWatchDebounce = 300 * time.Millisecond
)

// DefaultExtensions are the file extensions treated as markdown.
var DefaultExtensions = []string{".md", ".markdown"}

// Config holds all configuration options for navcheck.
// This struct is populated from CLI flags and the optional config file and
// passed through the application rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// Root is the documentation root. Links may not leave it.
	Root string

	// Strict makes warnings fail the run.
	Strict bool

	// Format is one of FormatText, FormatJSON or FormatMarkdown.
	Format string

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Exclude are glob patterns of documents and directories to skip.
	Exclude []string

	// IgnoreTargets are glob patterns of link targets that are never reported.
	IgnoreTargets []string

	// Extensions are the file extensions treated as markdown.
	Extensions []string

	// Workers is the number of documents parsed concurrently.
	Workers int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// NoColor disables colored text output even on a terminal.
	NoColor bool

	// Raw disables terminal rendering of the Markdown report.
	Raw bool

	// ConfigFilePath is the path given with --config.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string

	// Record saves the run to the history database for later comparison.
	Record bool

	// DBDir is the directory of the history database.
	// Defaults to XDG data directory (~/.local/share/navcheck on Linux).
	DBDir string

	// Watch re-runs validation whenever a file under Root changes.
	Watch bool

	// WatchDebounce is the quiet period after the last change before a re-run.
	WatchDebounce time.Duration
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (root, format, workers).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Root:          DefaultRoot,
		Format:        DefaultFormat,
		Extensions:    append([]string(nil), DefaultExtensions...),
		Workers:       runtime.NumCPU(),
		DBDir:         XDGDataDir(),
		WatchDebounce: DefaultWatchDebounce,
	}
}

// XDGDataDir returns the XDG data directory for navcheck.
// On Linux: ~/.local/share/navcheck
// On macOS: ~/Library/Application Support/navcheck
// On Windows: %LOCALAPPDATA%\navcheck
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for navcheck.
// On Linux: ~/.config/navcheck
// On macOS: ~/Library/Application Support/navcheck
// On Windows: %APPDATA%\navcheck
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return ErrEmptyRoot
	}

	switch c.Format {
	case FormatText, FormatJSON, FormatMarkdown:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format)
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
	}

	if bad, ok := pathmatch.Validate(c.Exclude); !ok {
		return fmt.Errorf("%w in exclude: %q", ErrInvalidPattern, bad)
	}
	if bad, ok := pathmatch.Validate(c.IgnoreTargets); !ok {
		return fmt.Errorf("%w in ignoreTargets: %q", ErrInvalidPattern, bad)
	}

	if c.Watch {
		if c.WatchDebounce <= 0 {
			return ErrInvalidDebounce
		}
		if c.ReportFile != "" {
			return ErrConflictingOutput
		}
	}

	return nil
}
