package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/navcheck/internal/history"
	"github.com/nao1215/navcheck/internal/model"
)

// noHistoryMessage is printed by the list modes when nothing was recorded yet.
const noHistoryMessage = "No recorded runs. Use 'navcheck --record' to save validation results."

// NewCompareCmd creates the compare command.
// This command compares validation runs stored with --record.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [root]",
		Short: "Compare validation results with recorded history",
		Long: `Compare displays differences between two recorded validation runs of
the same documentation root.

It shows:
- New findings that appeared since the previous run
- Resolved findings that are no longer present
- Whether the error and warning counts improved or worsened

Runs are recorded with 'navcheck --record'. The root defaults to the current
directory and is matched by its absolute path.

Examples:
  # Compare the latest two runs of the current directory
  navcheck compare

  # List recorded runs for a root
  navcheck compare --list docs

  # Compare the latest run with a specific run
  navcheck compare --with-run-id 5f0c... docs

  # Output the comparison as JSON
  navcheck compare --json

  # List every recorded root
  navcheck compare --list-roots`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List recorded runs for the root")
	cmd.Flags().BoolP("list-roots", "L", false,
		"List every root with recorded runs")

	// Comparison target flags
	cmd.Flags().StringP("with-run-id", "i", "",
		"Compare the latest run with a specific run ID (use --list to see IDs)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	listRoots, err := cmd.Flags().GetBool("list-roots")
	if err != nil {
		return err
	}
	listRuns, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	withRunID, err := cmd.Flags().GetString("with-run-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return errors.New("--json and --markdown cannot be used together")
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("invalid root: %w", err)
	}

	out := cmd.OutOrStdout()
	opts := history.Options{CreateIfNotExists: false, EnableWAL: true}
	store, err := history.Open(getDBDir(cmd), opts)
	if err != nil {
		if errors.Is(err, history.ErrDatabaseNotFound) && (listRoots || listRuns) {
			fmt.Fprintln(out, noHistoryMessage)
			return nil
		}
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	if listRoots {
		return listRecordedRoots(ctx, out, store)
	}
	if listRuns {
		return listRunHistory(ctx, out, store, root)
	}

	comparison, err := compareRuns(ctx, store, root, withRunID)
	if err != nil {
		return err
	}

	switch {
	case jsonOutput:
		return outputComparisonJSON(out, comparison)
	case markdownOutput:
		return outputComparisonMarkdown(out, comparison)
	default:
		return outputComparisonText(out, comparison)
	}
}

// listRecordedRoots prints every root that has recorded runs.
func listRecordedRoots(ctx context.Context, out io.Writer, store *history.Store) error {
	roots, err := store.ListRoots(ctx)
	if err != nil {
		return fmt.Errorf("failed to list roots: %w", err)
	}
	if len(roots) == 0 {
		fmt.Fprintln(out, noHistoryMessage)
		return nil
	}

	fmt.Fprintf(out, "Recorded roots (%d):\n", len(roots))
	for _, r := range roots {
		fmt.Fprintf(out, "  %s\n", r)
	}
	return nil
}

// listRunHistory prints the runs of root, newest first.
func listRunHistory(ctx context.Context, out io.Writer, store *history.Store, root string) error {
	runs, err := store.ListRuns(ctx, root)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintf(out, "No recorded runs for %s\n", root)
		return nil
	}

	fmt.Fprintf(out, "Run history for %s:\n\n", root)
	fmt.Fprintf(out, "  %-36s  %-19s  %s\n", "ID", "Date", "Summary")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 80))
	for _, meta := range runs {
		fmt.Fprintf(out, "  %-36s  %-19s  %s\n",
			meta.ID,
			meta.StartedAt.Local().Format("2006-01-02 15:04:05"),
			formatRunSummary(meta))
	}
	return nil
}

// formatRunSummary formats the counts of a recorded run.
func formatRunSummary(meta history.RunMetadata) string {
	if meta.Total == 0 {
		return fmt.Sprintf("no findings (%d docs, %d links)", meta.Documents, meta.Links)
	}
	return fmt.Sprintf("%d errors, %d warnings (%d docs, %d links)",
		meta.Errors, meta.Warnings, meta.Documents, meta.Links)
}

// compareRuns loads the two runs to compare. Without withRunID the latest
// two runs of root are used; otherwise the latest run is compared against
// the given one.
func compareRuns(ctx context.Context, store *history.Store, root, withRunID string) (*history.Comparison, error) {
	if withRunID == "" {
		runs, err := store.LatestRuns(ctx, root, 2)
		if err != nil {
			return nil, fmt.Errorf("failed to load runs: %w", err)
		}
		if len(runs) < 2 {
			return nil, fmt.Errorf("at least two recorded runs of %s are needed, found %d", root, len(runs))
		}
		return history.Compare(runs[1], runs[0]), nil
	}

	runs, err := store.LatestRuns(ctx, root, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to load runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no recorded runs of %s", root)
	}
	previous, err := store.GetRun(ctx, withRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", withRunID, err)
	}
	if previous.Root != root {
		return nil, fmt.Errorf("run %s belongs to %s, not %s", withRunID, previous.Root, root)
	}
	return history.Compare(previous, runs[0]), nil
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, result *history.Comparison) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *history.Comparison) error {
	md := markdown.NewMarkdown(out)

	md.H1("Run Comparison: " + result.Root)
	md.PlainText("")
	md.H2("Summary")
	md.PlainText("")
	md.PlainTextf("**Status:** %s", formatDirection(result.Direction))
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Date", result.Previous.StartedAt.Local().Format("2006-01-02 15:04"),
				result.Current.StartedAt.Local().Format("2006-01-02 15:04"), "-"},
			countRow("Documents", result.Previous.Documents, result.Current.Documents),
			countRow("Links", result.Previous.Links, result.Current.Links),
			countRow("Errors", result.Previous.Errors, result.Current.Errors),
			countRow("Warnings", result.Previous.Warnings, result.Current.Warnings),
			countRow("**Total**", result.Previous.Total, result.Current.Total),
		},
	})
	md.PlainText("")

	if !result.ContentChanged {
		md.Note("No document changed between the two runs.")
		md.PlainText("")
	}

	if len(result.NewFindings) > 0 {
		md.H2(fmt.Sprintf("New Findings (%d)", len(result.NewFindings)))
		md.PlainText("")
		md.BulletList(findingItems(result.NewFindings, "**[%s]** `%s` %s")...)
		md.PlainText("")
	}

	if len(result.ResolvedFindings) > 0 {
		md.H2(fmt.Sprintf("Resolved Findings (%d)", len(result.ResolvedFindings)))
		md.PlainText("")
		md.BulletList(findingItems(result.ResolvedFindings, "~~**[%s]** `%s` %s~~")...)
		md.PlainText("")
	}

	if result.UnchangedCount > 0 {
		md.HorizontalRule()
		md.PlainTextf("*%d findings unchanged*", result.UnchangedCount)
	}

	return md.Build()
}

func countRow(name string, previous, current int) []string {
	return []string{name, strconv.Itoa(previous), strconv.Itoa(current), formatDelta(current - previous)}
}

func findingItems(findings []model.Finding, format string) []string {
	items := make([]string, 0, len(findings))
	for _, f := range findings {
		items = append(items, fmt.Sprintf(format, f.Category, f.Location(), f.Message))
	}
	return items
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *history.Comparison) error {
	fmt.Fprintf(out, "Run Comparison: %s\n", result.Root)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nStatus: %s\n", formatDirection(result.Direction))

	fmt.Fprintf(out, "\nPrevious run: %s  %s\n", result.Previous.StartedAt.Local().Format("2006-01-02 15:04:05"), result.Previous.ID)
	fmt.Fprintf(out, "Current run:  %s  %s\n", result.Current.StartedAt.Local().Format("2006-01-02 15:04:05"), result.Current.ID)
	if !result.ContentChanged {
		fmt.Fprintln(out, "No document changed between the two runs.")
	}

	fmt.Fprintln(out, "\nFindings Summary:")
	fmt.Fprintf(out, "  %-10s  %-10s  %-10s  %-10s\n", "", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	printCountRow(out, "Documents", result.Previous.Documents, result.Current.Documents)
	printCountRow(out, "Links", result.Previous.Links, result.Current.Links)
	printCountRow(out, "Errors", result.Previous.Errors, result.Current.Errors)
	printCountRow(out, "Warnings", result.Previous.Warnings, result.Current.Warnings)
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	printCountRow(out, "Total", result.Previous.Total, result.Current.Total)

	if len(result.NewFindings) > 0 {
		fmt.Fprintf(out, "\nNew Findings (%d):\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Fprintf(out, "  [+] [%s] %s: %s\n", f.Category, f.Location(), f.Message)
		}
	}

	if len(result.ResolvedFindings) > 0 {
		fmt.Fprintf(out, "\nResolved Findings (%d):\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Fprintf(out, "  [-] [%s] %s: %s\n", f.Category, f.Location(), f.Message)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d findings\n", result.UnchangedCount)
	}

	return nil
}

func printCountRow(out io.Writer, name string, previous, current int) {
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", name, previous, current, formatDelta(current-previous))
}

// formatDirection formats the change direction for display.
func formatDirection(direction string) string {
	switch direction {
	case history.DirectionImproved:
		return "IMPROVED (fewer findings)"
	case history.DirectionWorsened:
		return "WORSENED (more findings)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
