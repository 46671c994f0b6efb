package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents tsickle's project configuration.
type Config struct {
	Files    FilesConfig    `json:"files"`
	Decorate DecorateConfig `json:"decorate,omitempty"`
	Emit     EmitConfig     `json:"emit,omitempty"`
	Externs  ExternsConfig  `json:"externs,omitempty"`

	EntryFile    string `json:"entryFile,omitempty"`    // entry point name without extension (no default; not read by the pipeline)
	SourceRoot   string `json:"sourceRoot,omitempty"`   // source root directory (default: "src")
	DeleteOutDir bool   `json:"deleteOutDir,omitempty"` // not read by the build; `tsickle build --clean` clears the output directory
}

// FilesConfig selects which input files the Pipeline Coordinator treats as
// "in scope" for tsickle processing (spec.md §4.7's
// shouldSkipTsickleProcessing).
type FilesConfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude,omitempty"`
}

// DecorateConfig controls the Decorator Downleveler.
type DecorateConfig struct {
	Enabled bool `json:"enabled"` // run the decorator-downlevel pass at all
}

// EmitConfig controls the JSDoc Annotator and ES5/goog.module Converter.
type EmitConfig struct {
	Untyped      bool   `json:"untyped,omitempty"`      // §4.2 untyped mode: every emitted type is "?"
	ModuleFormat string `json:"moduleFormat,omitempty"` // "goog" (default) or "commonjs" passthrough, see Validate
}

// ExternsConfig controls where the Externs Generator writes its output.
type ExternsConfig struct {
	Output string `json:"output,omitempty"` // default "externs.js"
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Files: FilesConfig{
			Include: []string{"src/**/*.ts"},
			Exclude: []string{"src/**/*.d.ts", "src/**/*.spec.ts"},
		},
		Decorate: DecorateConfig{Enabled: true},
		Emit: EmitConfig{
			ModuleFormat: "goog",
		},
		Externs: ExternsConfig{
			Output: "externs.js",
		},
		SourceRoot: "src",
	}
}

// Discover searches dir for a tsickle config file.
func Discover(dir string) string {
	p := filepath.Join(dir, "tsickle.config.json")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// Load reads and parses a tsickle config file. Only JSON is supported:
// unlike tsgonest's config (consumed by a Node.js-hosted build tool), this
// config is read before any TypeScript has been parsed, so there is no
// runtime available yet to evaluate a `.ts` config file.
func Load(path string) (*Config, error) {
	if filepath.Ext(path) != ".json" {
		return nil, fmt.Errorf("unsupported config file extension %q (expected .json)", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", path, err)
	}

	return &config, nil
}

// Validate checks the config for logical errors.
func (c *Config) Validate() error {
	if len(c.Files.Include) == 0 {
		return fmt.Errorf("files.include must have at least one pattern")
	}

	switch c.Emit.ModuleFormat {
	case "", "goog", "commonjs":
		// valid — empty defaults to "goog"
	default:
		return fmt.Errorf("emit.moduleFormat must be one of \"goog\", \"commonjs\", got %q", c.Emit.ModuleFormat)
	}

	if c.Externs.Output != "" && filepath.Ext(c.Externs.Output) != ".js" {
		return fmt.Errorf("externs.output must have a .js extension, got %q", filepath.Ext(c.Externs.Output))
	}

	return nil
}
