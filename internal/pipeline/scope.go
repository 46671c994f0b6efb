package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/tsickle-go/tsickle/internal/config"
)

// inScope answers spec.md §4.7's shouldSkipTsickleProcessing question for
// one source file: a file is in scope iff it matches files.include and
// does not match files.exclude, both evaluated relative to cwd. Files
// pulled in transitively (ambient libs, node_modules .d.ts) are never
// listed in files.include and so stay out of scope automatically.
//
// Grounded on tsgonest's internal/analyzer/glob.go MatchesGlob/globMatch:
// same hand-rolled "**" support over filepath.Match, since no glob
// library appears anywhere in the pack for this need.
func inScope(cfg *config.Config, cwd, file string) bool {
	if cfg == nil || len(cfg.Files.Include) == 0 {
		return false
	}
	rel, err := filepath.Rel(cwd, file)
	if err != nil {
		rel = file
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range cfg.Files.Exclude {
		if globMatch(rel, filepath.ToSlash(pattern)) {
			return false
		}
	}
	for _, pattern := range cfg.Files.Include {
		if globMatch(rel, filepath.ToSlash(pattern)) {
			return true
		}
	}
	return false
}

// globMatch matches a path against a pattern that may contain a single
// "**" segment, matching any number of intermediate directories.
func globMatch(filePath, pattern string) bool {
	if matched, _ := filepath.Match(pattern, filePath); matched {
		return true
	}

	if !strings.Contains(pattern, "**") {
		baseName := filepath.Base(filePath)
		patternBase := filepath.Base(pattern)
		matched, _ := filepath.Match(patternBase, baseName)
		return matched
	}

	parts := strings.SplitN(pattern, "**", 2)
	prefix := strings.TrimSuffix(parts[0], "/")
	suffix := strings.TrimPrefix(parts[1], "/")

	if prefix == "" {
		if suffix == "" {
			return true
		}
		fileName := filepath.Base(filePath)
		matched, _ := filepath.Match(suffix, fileName)
		return matched
	}

	var remaining string
	if strings.HasPrefix(filePath, prefix+"/") {
		remaining = filePath[len(prefix)+1:]
	} else {
		searchStr := "/" + prefix + "/"
		idx := strings.Index(filePath, searchStr)
		if idx < 0 {
			return false
		}
		remaining = filePath[idx+len(searchStr):]
	}
	if suffix == "" {
		return true
	}
	if matched, _ := filepath.Match(suffix, filepath.Base(remaining)); matched {
		return true
	}
	matched, _ := filepath.Match(suffix, remaining)
	return matched
}
