package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tsickle-go/tsickle/internal/config"
)

// TimingReport collects timing data for each build phase. A struct avoids
// an error-prone multi-parameter function signature for something that
// only ever gets assembled once and printed once.
type TimingReport struct {
	TSConfig time.Duration
	Pipeline time.Duration
	Write    time.Duration
	Total    time.Duration
}

// Print outputs the build timing breakdown to stderr.
func (t *TimingReport) Print() {
	fmt.Fprintf(os.Stderr, "\n--- timing ---\n")
	fmt.Fprintf(os.Stderr, "  tsconfig:  %s\n", t.TSConfig.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  pipeline:  %s\n", t.Pipeline.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  write:     %s\n", t.Write.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  total:     %s\n", t.Total.Round(time.Millisecond))
}

// ConfigResult holds the result of loading a tsickle config file.
type ConfigResult struct {
	Config *config.Config
	Path   string // resolved absolute path to config file (empty if none found)
}

// loadOrDiscoverConfig loads a tsickle config from the given path, or
// auto-discovers tsickle.config.json in the working directory if
// configPath is empty. Shared across build and dev.
func loadOrDiscoverConfig(configPath, cwd string) (*ConfigResult, error) {
	if configPath != "" {
		resolved := configPath
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(cwd, resolved)
		}
		cfg, err := config.Load(resolved)
		if err != nil {
			return nil, err
		}
		return &ConfigResult{Config: cfg, Path: resolved}, nil
	}

	if p := config.Discover(cwd); p != "" {
		cfg, err := config.Load(p)
		if err != nil {
			return nil, err
		}
		return &ConfigResult{Config: cfg, Path: p}, nil
	}

	// No config found — fall back to defaults, not an error.
	defaults := config.DefaultConfig()
	return &ConfigResult{Config: &defaults}, nil
}
