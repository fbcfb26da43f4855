package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/bfscrawl/internal/crawler"
	"github.com/nao1215/bfscrawl/internal/model"
	"github.com/nao1215/bfscrawl/internal/transport"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "bfscrawl"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency keeps one fetch in flight at a time.
	DefaultConcurrency = 1

	// DefaultMaxRounds of 0 crawls until the frontier is empty.
	DefaultMaxRounds = 0

	// DefaultUserAgent identifies the crawler in HTTP requests.
	DefaultUserAgent = crawler.DefaultUserAgent

	// DefaultMaxBodySize limits the response body size read per page.
	DefaultMaxBodySize = model.MaxPageSize
)

// Config holds all options for one crawl run.
// It is built from NewConfig defaults, then the config file, then flags.
type Config struct {
	// Seeds are the URLs the crawl starts from.
	Seeds []string

	// SameDomain restricts traversal to links on the current page's domain.
	SameDomain bool

	// IncludeStats adds session stats to the output.
	IncludeStats bool

	// OutputFormat selects the output renderer.
	OutputFormat OutputFormat

	// JSONOutput is set by the --json shortcut. It conflicts with any
	// OutputFormat other than JSON.
	JSONOutput bool

	// ReportFile writes the output to this path instead of stdout.
	ReportFile string

	// Concurrency is the number of fetches in flight within one round.
	Concurrency int

	// MaxRounds stops the crawl after this many rounds. 0 means no limit.
	MaxRounds int

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// MaxBodySize is the maximum number of body bytes read per page.
	// 0 means DefaultMaxBodySize.
	MaxBodySize int64

	// Headers are extra request headers sent with every fetch.
	Headers map[string]string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path given with --config. Empty means search
	// the default locations.
	ConfigFilePath string

	// SaveHistory records the run in the history database.
	SaveHistory bool

	// DBDir is the directory of the history database.
	DBDir string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		OutputFormat: OutputFormatText,
		Concurrency:  DefaultConcurrency,
		MaxRounds:    DefaultMaxRounds,
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
		Headers:      make(map[string]string),
		SaveHistory:  true,
		DBDir:        XDGDataDir(),
	}
}

// XDGDataDir returns the data directory, e.g. ~/.local/share/bfscrawl on Linux.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the config directory, e.g. ~/.config/bfscrawl on Linux.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate returns the first configuration error found, or nil.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}

	for _, seed := range c.Seeds {
		if err := validateSeed(seed); err != nil {
			return err
		}
	}

	if !c.OutputFormat.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, c.OutputFormat)
	}

	if c.JSONOutput && c.OutputFormat != OutputFormatJSON {
		return ErrConflictingOutputFormats
	}

	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxRounds < 0 {
		return ErrInvalidMaxRounds
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.ProxyAddress != "" {
		if err := transport.ValidateProxyAddress(c.ProxyAddress); err != nil {
			return fmt.Errorf("proxy %q: %w", c.ProxyAddress, err)
		}
	}

	return nil
}

// validateSeed checks that seed is an absolute URL with a host.
func validateSeed(seed string) error {
	u, err := url.Parse(seed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidSeed, seed)
	}
	return nil
}
