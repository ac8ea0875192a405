package model

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero count", func(c *Config) { c.Count = 0 }, true},
		{"negative count", func(c *Config) { c.Count = -3 }, true},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }, true},
		{"NaN timeout", func(c *Config) { c.TimeoutSeconds = math.NaN() }, true},
		{"infinite timeout", func(c *Config) { c.TimeoutSeconds = math.Inf(1) }, true},
		{"overflowing timeout", func(c *Config) { c.TimeoutSeconds = 1e20 }, true},
		{"long timeout", func(c *Config) { c.TimeoutSeconds = 3600 }, false},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"text log format", func(c *Config) { c.LogFormat = LogFormatText }, false},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"unknown format", func(c *Config) { c.OutputFormat = "xml" }, true},
		{"csv format", func(c *Config) { c.OutputFormat = FormatCSV }, false},
		{"hosts and file", func(c *Config) {
			c.Hosts = []string{"https://a.example.com"}
			c.HostsFile = "hosts.txt"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
		})
	}
}

func TestConfigTimeout(t *testing.T) {
	cfg := Config{TimeoutSeconds: 1.5}
	if got := cfg.Timeout(); got != 1500*time.Millisecond {
		t.Fatalf("Timeout() = %s, want 1.5s", got)
	}
}

func TestConfigTimeout_ValidIsPositive(t *testing.T) {
	for _, v := range []float64{0.001, 10, 3600, 1e9} {
		cfg := DefaultConfig()
		cfg.TimeoutSeconds = v
		if err := cfg.Validate(); err != nil {
			t.Fatalf("timeout %g: unexpected err: %v", v, err)
		}
		if d := cfg.Timeout(); d <= 0 {
			t.Fatalf("timeout %g converted to non-positive duration %s", v, d)
		}
	}
}

func TestHostFailureUnwrap(t *testing.T) {
	f := HostFailure{Host: "bad url", State: StateRejected, Err: ErrInvalidURL}
	if !errors.Is(f, ErrInvalidURL) {
		t.Fatalf("expected HostFailure to unwrap to ErrInvalidURL")
	}
	if f.Error() != "rejected bad url: invalid url" {
		t.Fatalf("unexpected message %q", f.Error())
	}
}
