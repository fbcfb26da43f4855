package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/bfscrawl/internal/config"
	"github.com/nao1215/bfscrawl/internal/database"
)

// defaultHistoryLimit is the number of runs listed when --limit is not set.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded crawl runs",
		Long: `History lists crawl runs recorded in the history database, newest first.

Runs are grouped by their seed set and same-domain flag. Use --urls (and
--same-domain if the crawl used it) to list only the runs of one seed set.

Examples:
  # List the 20 most recent runs
  bfscrawl history

  # List every run of one seed set
  bfscrawl history -u https://example.com -n 0

  # Output JSON
  bfscrawl history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().StringArrayP("urls", "u", nil,
		"Only list runs with this seed set (repeatable)")
	cmd.Flags().BoolP("same-domain", "s", false,
		"Seed set filter refers to same-domain crawls")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// historyEntry is the JSON form of one run in the history listing.
type historyEntry struct {
	ID           int64    `json:"id"`
	CreatedAt    string   `json:"created_at"`
	Seeds        []string `json:"seeds"`
	SameDomain   bool     `json:"same_domain"`
	Links        int      `json:"links"`
	TotalVisited uint64   `json:"total_visited"`
	TotalFailed  uint64   `json:"total_failed"`
	Rounds       uint64   `json:"rounds"`
	Fingerprint  string   `json:"fingerprint"`
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
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

	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	var fingerprint string
	if len(seeds) > 0 {
		fingerprint = database.Fingerprint(seeds, sameDomain)
	}

	runs, err := db.ListRuns(cmd.Context(), fingerprint, limit)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if jsonOutput {
		return outputHistoryJSON(cmd.OutOrStdout(), runs)
	}
	return outputHistoryText(cmd.OutOrStdout(), runs)
}

// openHistoryDB opens the history database at --db-dir or the XDG data
// directory.
func openHistoryDB(cmd *cobra.Command) (*database.RunDB, error) {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// outputHistoryJSON writes the run list as a JSON array.
func outputHistoryJSON(w io.Writer, runs []database.Run) error {
	entries := make([]historyEntry, 0, len(runs))
	for _, run := range runs {
		entries = append(entries, historyEntry{
			ID:           run.ID,
			CreatedAt:    run.CreatedAt.Format("2006-01-02 15:04:05"),
			Seeds:        run.Seeds,
			SameDomain:   run.SameDomain,
			Links:        run.LinkCount,
			TotalVisited: run.Stats.TotalVisited,
			TotalFailed:  run.Stats.TotalFailed,
			Rounds:       run.Stats.Rounds,
			Fingerprint:  run.Fingerprint,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

// outputHistoryText writes the run list as a table.
func outputHistoryText(w io.Writer, runs []database.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No crawl history found.")
		fmt.Fprintln(w, "\nUse 'bfscrawl crawl' to record a run.")
		return nil
	}

	fmt.Fprintf(w, "Crawl history (%d runs):\n\n", len(runs))
	fmt.Fprintf(w, "  %-6s  %-20s  %-7s  %-7s  %-7s  %s\n", "ID", "Date", "Links", "Failed", "Rounds", "Seeds")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 76))

	for _, run := range runs {
		fmt.Fprintf(w, "  %-6d  %-20s  %-7d  %-7d  %-7d  %s\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.LinkCount,
			run.Stats.TotalFailed,
			run.Stats.Rounds,
			formatSeeds(run.Seeds, run.SameDomain),
		)
	}

	fmt.Fprintln(w, "\nUse 'bfscrawl compare <old-id> <new-id>' to compare two runs.")
	return nil
}

// formatSeeds joins seeds for the history table.
func formatSeeds(seeds []string, sameDomain bool) string {
	s := strings.Join(seeds, ", ")
	if sameDomain {
		s += " (same domain)"
	}
	return s
}

// latestRuns returns the two most recent runs of a seed set, oldest first.
func latestRuns(ctx context.Context, db *database.RunDB, seeds []string, sameDomain bool) (int64, int64, error) {
	runs, err := db.ListRuns(ctx, database.Fingerprint(seeds, sameDomain), 2)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get run history: %w", err)
	}
	if len(runs) < 2 {
		return 0, 0, fmt.Errorf("need at least two recorded runs of %s, found %d", strings.Join(seeds, ", "), len(runs))
	}
	return runs[1].ID, runs[0].ID, nil
}
