package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/bfscrawl/internal/database"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [old-id new-id]",
		Short: "Compare the links of two recorded runs",
		Long: `Compare shows which links were added or removed between two crawl runs
recorded in the history database.

Pass two run IDs (see 'bfscrawl history'), or pass --urls to compare the
latest two runs of a seed set.

Examples:
  # Compare run 3 with run 5
  bfscrawl compare 3 5

  # Compare the latest two runs of a seed set
  bfscrawl compare -u https://example.com

  # Output JSON
  bfscrawl compare --json 3 5`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts 0 or 2 run IDs, received %d", len(args))
			}
			return nil
		},
		RunE: runCompareCmd,
	}

	cmd.Flags().StringArrayP("urls", "u", nil,
		"Compare the latest two runs of this seed set (repeatable)")
	cmd.Flags().BoolP("same-domain", "s", false,
		"Seed set refers to same-domain crawls")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	seeds, err := cmd.Flags().GetStringArray("urls")
	if err != nil {
		return err
	}
	sameDomain, err := cmd.Flags().GetBool("same-domain")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var oldID, newID int64
	switch {
	case len(args) == 2:
		if oldID, err = parseRunID(args[0]); err != nil {
			return err
		}
		if newID, err = parseRunID(args[1]); err != nil {
			return err
		}
	case len(seeds) == 0:
		return errors.New("two run IDs or --urls are required (use 'bfscrawl history' to see recorded runs)")
	}

	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if len(args) == 0 {
		if oldID, newID, err = latestRuns(ctx, db, seeds, sameDomain); err != nil {
			return err
		}
	}

	diff, err := db.CompareRuns(ctx, oldID, newID)
	if err != nil {
		return fmt.Errorf("failed to compare runs: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(diff)
	}
	return outputComparisonText(cmd.OutOrStdout(), diff)
}

// parseRunID parses a positive run ID argument.
func parseRunID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid run ID %q", s)
	}
	return id, nil
}

// outputComparisonText writes the comparison in human-readable form.
func outputComparisonText(w io.Writer, diff *database.RunDiff) error {
	fmt.Fprintf(w, "Run Comparison: #%d -> #%d\n", diff.OldRunID, diff.NewRunID)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	if !diff.HasChanges() {
		fmt.Fprintf(w, "\nNo changes (%d links in both runs)\n", diff.Unchanged)
		return nil
	}

	fmt.Fprintf(w, "\n  %-10s  %s\n", "Added", formatDelta(len(diff.Added)))
	fmt.Fprintf(w, "  %-10s  %s\n", "Removed", formatDelta(-len(diff.Removed)))
	fmt.Fprintf(w, "  %-10s  %d\n", "Unchanged", diff.Unchanged)

	if len(diff.Added) > 0 {
		fmt.Fprintf(w, "\nAdded Links (%d):\n", len(diff.Added))
		for _, u := range diff.Added {
			fmt.Fprintf(w, "  [+] %s\n", u)
		}
	}

	if len(diff.Removed) > 0 {
		fmt.Fprintf(w, "\nRemoved Links (%d):\n", len(diff.Removed))
		for _, u := range diff.Removed {
			fmt.Fprintf(w, "  [-] %s\n", u)
		}
	}

	return nil
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
