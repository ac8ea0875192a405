package model

import (
	"fmt"
	"math"
	"time"
)

// maxTimeoutSeconds is the largest timeout representable as a time.Duration.
const maxTimeoutSeconds = float64(math.MaxInt64) / float64(time.Second)

// Log formats understood by the logging package.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Output formats understood by the output package.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// Config is the resolved runtime configuration of a bench run.
type Config struct {
	TimeoutSeconds float64
	Hosts          []string
	HostsFile      string
	OutputFile     string
	OutputFormat   string // text, table, json or csv
	Count          int    // requests per host
	Workers        int    // > 1 selects parallel mode
	Proxy          string // optional upstream proxy URL
	MetricsFile    string
	GeoIPDB        string
	Verbose        bool
	LogFormat      string // json or text
}

// DefaultConfig returns the values used when neither a flag nor the
// config file sets a field.
func DefaultConfig() Config {
	return Config{
		TimeoutSeconds: 10.0,
		OutputFormat:   FormatText,
		Count:          1,
		Workers:        1,
		LogFormat:      LogFormatJSON,
	}
}

// Timeout returns the per-request timeout as a time.Duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// Parallel reports whether the run should use the worker pool.
func (c Config) Parallel() bool {
	return c.Workers > 1
}

// Validate checks the numeric limits and the output format.
func (c Config) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("%w: count must be >= 1, got %d", ErrInvalidArgument, c.Count)
	}
	if math.IsNaN(c.TimeoutSeconds) || c.TimeoutSeconds <= 0 || c.TimeoutSeconds > maxTimeoutSeconds {
		return fmt.Errorf("%w: timeout must be > 0 and finite, got %g", ErrInvalidArgument, c.TimeoutSeconds)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidArgument, c.Workers)
	}
	switch c.OutputFormat {
	case FormatText, FormatTable, FormatJSON, FormatCSV:
	default:
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidArgument, c.OutputFormat)
	}
	switch c.LogFormat {
	case LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("%w: unsupported log format %q", ErrInvalidArgument, c.LogFormat)
	}
	if c.Hosts != nil && c.HostsFile != "" {
		return fmt.Errorf("%w: hosts and hosts file are mutually exclusive", ErrInvalidArgument)
	}
	return nil
}
