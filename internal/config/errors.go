package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoSeeds is returned when no seed URL is given.
	ErrNoSeeds = errors.New("no seed urls specified: use --urls")

	// ErrInvalidSeed is returned when a seed is not an absolute URL with a host.
	ErrInvalidSeed = errors.New("invalid seed url: must be absolute with a host")

	// ErrInvalidOutputFormat is returned for an unknown output format.
	ErrInvalidOutputFormat = errors.New("invalid output format: must be one of json, text, yaml, markdown")

	// ErrConflictingOutputFormats is returned when --json is combined with a
	// different --output format.
	ErrConflictingOutputFormats = errors.New("conflicting output formats: --json cannot be combined with another --output format")

	// ErrInvalidConcurrency is returned when concurrency is below 1.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be at least 1")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxRounds is returned when max rounds is negative.
	// Use 0 for no limit.
	ErrInvalidMaxRounds = errors.New("invalid max rounds: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
