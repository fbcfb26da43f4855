package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for bfscrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bfscrawl",
		Short: "Breadth-first web crawler",
		Long: `bfscrawl is a breadth-first web crawler.

Starting from one or more seed URLs, it fetches every page of the current
round, extracts links, and crawls the links it has not visited yet in the
next round, until no new links remain. Each page is fetched at most once.

Completed runs are recorded in a local history database so that two runs
of the same seeds can be compared.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
