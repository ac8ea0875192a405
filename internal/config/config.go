package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/August26/httpbench-go/internal/model"
)

// File mirrors the command-line flags. Nil fields are unset.
type File struct {
	Timeout     *float64 `yaml:"timeout"`
	Count       *int     `yaml:"count"`
	Workers     *int     `yaml:"workers"`
	Hosts       []string `yaml:"hosts"`
	HostsFile   *string  `yaml:"hosts_file"`
	Output      *string  `yaml:"output"`
	Format      *string  `yaml:"format"`
	Proxy       *string  `yaml:"proxy"`
	MetricsFile *string  `yaml:"metrics_file"`
	GeoIPDB     *string  `yaml:"geoip_db"`
	Verbose     *bool    `yaml:"verbose"`
	LogFormat   *string  `yaml:"log_format"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if f.Hosts != nil && f.HostsFile != nil {
		return nil, fmt.Errorf("config: hosts and hosts_file are mutually exclusive")
	}

	return &f, nil
}

// Apply overlays the file on cfg, skipping every field whose flag was
// set explicitly on the command line. changed reports that by flag name.
func Apply(cfg model.Config, f *File, changed func(flag string) bool) model.Config {
	if f == nil {
		return cfg
	}
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if f.Timeout != nil && !changed("timeout") {
		cfg.TimeoutSeconds = *f.Timeout
	}
	if f.Count != nil && !changed("count") {
		cfg.Count = *f.Count
	}
	if f.Workers != nil && !changed("workers") {
		cfg.Workers = *f.Workers
	}
	// A host source on the command line replaces the file's source entirely.
	if !changed("hosts") && !changed("file") {
		if f.Hosts != nil {
			cfg.Hosts = append([]string(nil), f.Hosts...)
			cfg.HostsFile = ""
		}
		if f.HostsFile != nil {
			cfg.HostsFile = *f.HostsFile
			cfg.Hosts = nil
		}
	}
	if f.Output != nil && !changed("output") {
		cfg.OutputFile = *f.Output
	}
	if f.Format != nil && !changed("format") {
		cfg.OutputFormat = *f.Format
	}
	if f.Proxy != nil && !changed("proxy") {
		cfg.Proxy = *f.Proxy
	}
	if f.MetricsFile != nil && !changed("metrics-file") {
		cfg.MetricsFile = *f.MetricsFile
	}
	if f.GeoIPDB != nil && !changed("geoip-db") {
		cfg.GeoIPDB = *f.GeoIPDB
	}
	if f.Verbose != nil && !changed("verbose") {
		cfg.Verbose = *f.Verbose
	}
	if f.LogFormat != nil && !changed("log-format") {
		cfg.LogFormat = *f.LogFormat
	}
	return cfg
}
