package config

import (
	"fmt"
	"strings"
)

// ValidationResult holds config validation results.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// ValidateDetailed performs thorough config validation with suggestions,
// reporting warnings as well as the errors that Validate alone only
// rejects outright.
func (c *Config) ValidateDetailed() *ValidationResult {
	result := &ValidationResult{}

	if len(c.Files.Include) == 0 {
		result.Errors = append(result.Errors, "files.include: at least one pattern required")
	}
	for _, pattern := range c.Files.Include {
		if !strings.Contains(pattern, "*") && !strings.HasSuffix(pattern, ".ts") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("files.include: pattern %q doesn't contain a wildcard or .ts extension — did you mean %q?", pattern, pattern+"/**/*.ts"))
		}
	}

	switch c.Emit.ModuleFormat {
	case "", "goog", "commonjs":
	default:
		result.Errors = append(result.Errors,
			fmt.Sprintf("emit.moduleFormat: invalid value %q — must be \"goog\" or \"commonjs\"", c.Emit.ModuleFormat))
	}

	if !c.Decorate.Enabled {
		result.Warnings = append(result.Warnings,
			"decorate.enabled is false — @Annotation-marked decorators will be left untransformed")
	}

	return result
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}
