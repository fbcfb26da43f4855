package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/bfscrawl/internal/config"
	"github.com/nao1215/bfscrawl/internal/crawler"
	"github.com/nao1215/bfscrawl/internal/database"
	seclog "github.com/nao1215/bfscrawl/internal/log"
	"github.com/nao1215/bfscrawl/internal/model"
	"github.com/nao1215/bfscrawl/internal/report"
	"github.com/nao1215/bfscrawl/internal/transport"
)

// errInvalidHeader is returned when a --header value is not "Name: Value".
var errInvalidHeader = errors.New("invalid header: expected \"Name: Value\"")

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl the web breadth-first from seed URLs",
		Long: `Crawl fetches the seed URLs, extracts their links, and keeps crawling
round by round until no unvisited link remains. Every page is fetched at most
once. Pages that fail to load are counted and never retried.

Links are followed when they are absolute http(s) URLs or root-relative
paths. Links to images, stylesheets, scripts and other static resources are
skipped. With --same-domain only links on the current page's host are
followed.

Examples:
  # Crawl a single site
  bfscrawl crawl -u https://example.com

  # Stay on the same domain and print stats as JSON
  bfscrawl crawl -u https://example.com --same-domain --stats --json

  # Several seeds, four fetches in flight, at most three rounds
  bfscrawl crawl -u https://a.example -u https://b.example -c 4 -d 3

  # Write a Markdown report through a SOCKS5 proxy
  bfscrawl crawl -u https://example.com -o markdown -f report.md -x 127.0.0.1:1080

Configuration file (.bfscrawl) example:
  same_domain: true
  concurrency: 4
  timeout: 10s
  headers:
    Accept-Language: en`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Seed flags
	cmd.Flags().StringArrayP("urls", "u", nil,
		"Seed URL to start crawling from (repeatable)")

	// Traversal flags
	cmd.Flags().BoolP("same-domain", "s", false,
		"Only follow links on the same domain as the current page")
	cmd.Flags().IntP("concurrency", "c", config.DefaultConcurrency,
		"Number of fetches in flight within one round")
	cmd.Flags().IntP("max-rounds", "d", config.DefaultMaxRounds,
		"Stop after this many rounds (0 means no limit)")

	// HTTP flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().StringP("proxy", "x", "",
		"Route requests through a SOCKS5 proxy (e.g., 127.0.0.1:1080)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with each request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum number of body bytes read per page")
	cmd.Flags().StringArrayP("header", "H", nil,
		"Extra request header in \"Name: Value\" form (repeatable)")

	// Output flags
	cmd.Flags().Bool("stats", false,
		"Include session stats in the output")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (shorthand for --output json)")
	cmd.Flags().StringP("output", "o", string(config.OutputFormatText),
		"Output format: text, json, yaml or markdown")
	cmd.Flags().StringP("report-file", "f", "",
		"Write output to the specified file path (creates directories if needed)")

	// Configuration and history
	cmd.Flags().String("config", "",
		"Configuration file path (default: .bfscrawl in current or home directory)")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd, cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, cmd.OutOrStdout(), logger)
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

// getLogJSONFlag retrieves the log-json flag from the command or its parent.
func getLogJSONFlag(cmd *cobra.Command) bool {
	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		logJSON, err = cmd.Root().PersistentFlags().GetBool("log-json")
		if err != nil {
			return false
		}
	}
	return logJSON
}

// newLogger creates the redacting logger writing to the command's stderr.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	if getLogJSONFlag(cmd) {
		return seclog.NewSecureJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return seclog.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}

// buildConfig creates a Config from defaults, the config file and the flags
// the user changed, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist; the default locations
	// are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	seeds, err := flags.GetStringArray("urls")
	if err != nil {
		return nil, err
	}
	cfg.Seeds = append(seeds, args...)

	if flags.Changed("same-domain") {
		if cfg.SameDomain, err = flags.GetBool("same-domain"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-rounds") {
		if cfg.MaxRounds, err = flags.GetInt("max-rounds"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-body-size") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("header") {
		headers, err := flags.GetStringArray("header")
		if err != nil {
			return nil, err
		}
		for _, h := range headers {
			name, value, err := parseHeader(h)
			if err != nil {
				return nil, err
			}
			cfg.Headers[name] = value
		}
	}
	if flags.Changed("stats") {
		if cfg.IncludeStats, err = flags.GetBool("stats"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output") {
		name, err := flags.GetString("output")
		if err != nil {
			return nil, err
		}
		if cfg.OutputFormat, err = config.ParseOutputFormat(name); err != nil {
			return nil, err
		}
	}
	if flags.Changed("json") {
		if cfg.JSONOutput, err = flags.GetBool("json"); err != nil {
			return nil, err
		}
		// --json alone selects JSON; together with --output Validate
		// reports a conflict unless both say json.
		if cfg.JSONOutput && !flags.Changed("output") {
			cfg.OutputFormat = config.OutputFormatJSON
		}
	}
	if cfg.ReportFile, err = flags.GetString("report-file"); err != nil {
		return nil, err
	}
	if flags.Changed("no-history") {
		noHistory, err := flags.GetBool("no-history")
		if err != nil {
			return nil, err
		}
		cfg.SaveHistory = !noHistory
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// parseHeader splits a "Name: Value" header flag.
func parseHeader(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("%w: %q", errInvalidHeader, s)
	}
	return name, strings.TrimSpace(value), nil
}

// runCrawl executes the crawl and writes the output.
// If the crawl is interrupted the partial result is still written, the run
// is not recorded, and the interruption is returned.
func runCrawl(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	client, err := transport.NewHTTPClient(transport.Options{
		Timeout:      cfg.Timeout,
		ProxyAddress: cfg.ProxyAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	if cfg.ProxyAddress != "" {
		if status := transport.CheckProxy(ctx, cfg.ProxyAddress); status != transport.ProxyStatusOK {
			return fmt.Errorf("proxy check failed for %s: %w", cfg.ProxyAddress, status.Err())
		}
		logger.Info("proxy connection verified", "address", cfg.ProxyAddress)
	}

	fetcher := crawler.NewHTTPFetcher(client,
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithHeaders(cfg.Headers),
	)

	engine := crawler.NewEngine(fetcher,
		crawler.WithSameDomain(cfg.SameDomain),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithMaxRounds(cfg.MaxRounds),
		crawler.WithLogger(logger),
	)

	result, crawlErr := engine.Crawl(ctx, cfg.Seeds)
	if result == nil {
		return fmt.Errorf("crawl failed: %w", crawlErr)
	}

	output := model.NewCrawlOutput(cfg.Seeds, result.Visited, result.Stats, cfg.IncludeStats)
	if err := outputReport(cfg, stdout, output); err != nil {
		return err
	}

	if crawlErr != nil {
		return fmt.Errorf("crawl interrupted: %w", crawlErr)
	}

	if err := saveRun(ctx, cfg, result, logger); err != nil {
		logger.Error("failed to save run", "error", err)
	}

	return nil
}

// outputReport writes the crawl output in the configured format to the
// report file, or to stdout if none is set.
func outputReport(cfg *config.Config, stdout io.Writer, output *model.CrawlOutput) error {
	out := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	writer, err := report.NewWriter(cfg.OutputFormat, out)
	if err != nil {
		return err
	}
	if _, err := writer.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// saveRun records a finished crawl in the history database.
// It is a no-op when history is disabled.
func saveRun(ctx context.Context, cfg *config.Config, result *crawler.Result, logger *slog.Logger) error {
	if !cfg.SaveHistory {
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, cfg.Seeds, cfg.SameDomain, result.Visited, result.Stats)
	if err != nil {
		return err
	}

	logger.Info("run saved to history", "id", id, "links", result.Visited.Len())
	return nil
}
