package config

import "time"

// File is the structure of the .bfscrawl configuration file.
// Unset fields leave the corresponding defaults untouched.
type File struct {
	// SameDomain restricts traversal to the current page's domain.
	SameDomain *bool `yaml:"same_domain,omitempty"`

	// Stats includes session stats in the output.
	Stats *bool `yaml:"stats,omitempty"`

	// Output is the output format name.
	Output string `yaml:"output,omitempty"`

	// Concurrency is the number of fetches in flight within one round.
	Concurrency *int `yaml:"concurrency,omitempty"`

	// MaxRounds stops the crawl after this many rounds.
	MaxRounds *int `yaml:"max_rounds,omitempty"`

	// Timeout is the per-request timeout, e.g. "30s".
	Timeout *time.Duration `yaml:"timeout,omitempty"`

	// Proxy is a SOCKS5 proxy address in "host:port" form.
	Proxy string `yaml:"proxy,omitempty"`

	// UserAgent is the User-Agent header.
	UserAgent string `yaml:"user_agent,omitempty"`

	// MaxBodySize is the maximum number of body bytes read per page.
	MaxBodySize *int64 `yaml:"max_body_size,omitempty"`

	// Headers are extra request headers.
	Headers map[string]string `yaml:"headers,omitempty"`

	// History enables recording runs in the history database.
	History *bool `yaml:"history,omitempty"`

	// DBDir is the history database directory.
	DBDir string `yaml:"db_dir,omitempty"`
}

// Apply overlays the values set in f onto c.
// An unknown output name is kept as is so Validate reports it.
func (f *File) Apply(c *Config) {
	if f == nil {
		return
	}
	if f.SameDomain != nil {
		c.SameDomain = *f.SameDomain
	}
	if f.Stats != nil {
		c.IncludeStats = *f.Stats
	}
	if f.Output != "" {
		if format, err := ParseOutputFormat(f.Output); err == nil {
			c.OutputFormat = format
		} else {
			c.OutputFormat = OutputFormat(f.Output)
		}
	}
	if f.Concurrency != nil {
		c.Concurrency = *f.Concurrency
	}
	if f.MaxRounds != nil {
		c.MaxRounds = *f.MaxRounds
	}
	if f.Timeout != nil {
		c.Timeout = *f.Timeout
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.MaxBodySize != nil {
		c.MaxBodySize = *f.MaxBodySize
	}
	if len(f.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		for k, v := range f.Headers {
			c.Headers[k] = v
		}
	}
	if f.History != nil {
		c.SaveHistory = *f.History
	}
	if f.DBDir != "" {
		c.DBDir = f.DBDir
	}
}
