package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/navcheck/internal/config"
)

// Exit codes.
const (
	exitOK       = 0
	exitFindings = 1
	exitFatal    = 2
)

// errLinksFailed is returned when the run has failing findings. The report
// already explains them, so nothing more is printed.
var errLinksFailed = errors.New("validation failed")

// NewRootCmd creates the root command for navcheck.
// The root command itself performs validation.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "navcheck",
		Short: "Validate links and anchors in markdown documentation",
		Long: `navcheck checks every relative link and heading anchor in a markdown
documentation tree and reports the ones that do not resolve.

Anchors are generated from headings the same way GitHub does, so a link
that navcheck accepts works when the docs are browsed on GitHub.

Findings:
  broken-file            the linked file does not exist (error)
  broken-anchor          the #fragment matches no heading or explicit anchor (error)
  non-portable-file-url  the link uses file:// (error)
  parse-error            the document is not valid UTF-8 markdown (error)
  case-mismatch          the target exists only with different letter case (warning)
  escapes-root           the target lies outside --root (warning)
  empty-link             the link has no destination (warning)

Exit status is 0 when nothing fails, 1 when an error (or, with --strict, a
warning) was found, and 2 when validation could not run.

Examples:
  # Check the current directory
  navcheck

  # Check docs/ and fail on warnings too
  navcheck --root docs --strict

  # Write a Markdown report for a pull request comment
  navcheck -f markdown -o out/links.md

  # Re-check whenever a file changes
  navcheck --watch

Configuration file (.navcheck) example:
  strict: false
  exclude:
    - node_modules/**
    - vendor/**
  ignoreTargets:
    - CHANGELOG.md
  extensions: [".md", ".markdown"]
  workers: 8`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runValidateCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(),
		"Directory of the run history database")

	addValidateFlags(cmd)

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return execute(NewRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

// execute runs cmd with args. Fatal errors are printed to stderr as
// "navcheck: <message>".
func execute(cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errLinksFailed):
		return exitFindings
	default:
		fmt.Fprintf(stderr, "navcheck: %v\n", err)
		return exitFatal
	}
}
