// Package es5processor implements the CommonJS→goog.module Converter
// (§4.6): a line-oriented rewriter that runs over already-emitted ES5
// CommonJS output and turns it into Closure's goog.module idiom. It does
// not re-parse the file — every line not matched by one of the anchored
// patterns below is copied through verbatim, after three prepended header
// lines.
package es5processor

import (
	"fmt"
	"strings"
)

// Host resolves module identity on behalf of the converter. The Pipeline
// Coordinator supplies one implementation backed by the overlay compiler
// host's own module resolution, so goog.require targets agree with
// whatever moduleId the target file's own goog.module statement uses.
type Host interface {
	// PathToModuleName resolves a require() specifier, relative to the
	// file it appears in (contextPath), to the goog.module id the target
	// registers under.
	PathToModuleName(contextPath, specifier string) string
	// FileNameToModuleId returns the goog.module id fileName itself
	// should register under.
	FileNameToModuleId(fileName string) string
}

// TypeOnlyExports names the type-only bindings a file re-exports (recorded
// by the annotator pass as `export type { X } from './y'` or equivalent
// interface/typedef re-exports that have no runtime value) — the converter
// emits a `@typedef` alias for these instead of a runtime property copy,
// since the lowered JS re-export loop has nothing to copy for them.
type TypeOnlyExports map[string]bool

// rewriteSentinel is inserted into rewritten files to prevent double
// conversion if Convert is ever invoked twice over the same output.
const rewriteSentinel = "/* @tsickle-goog-module */"

// Convert rewrites one emitted CommonJS file into goog.module form.
// relativeID is the path the emitted module id's `var module = module ||
// {id: ...}` line records, normally the file's path relative to the
// compilation root.
func Convert(host Host, sourceFile, relativeID, text string, typeOnly TypeOnlyExports) string {
	if strings.Contains(text, rewriteSentinel) {
		return text
	}

	moduleID := host.FileNameToModuleId(sourceFile)
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+4)

	out = append(out, rewriteSentinel)
	out = append(out, fmt.Sprintf("goog.module(%s);", quote(moduleID)))
	out = append(out, fmt.Sprintf("var module = module || {id: %s};", quote(relativeID)))

	sawExportsAssign := false
	tmpCounter := 0

	for _, line := range lines {
		switch {
		case esModuleDefRe.MatchString(line):
			// Dropped: goog.module has no ESM/CJS interop marker to carry.
			continue

		case exportsAssignRe.MatchString(line):
			sawExportsAssign = true
			out = append(out, line)

		case reExportStarRe.MatchString(line):
			m := reExportStarRe.FindStringSubmatch(line)
			spec := m[1]
			target := host.PathToModuleName(sourceFile, spec)
			tmpCounter++
			tmpName := fmt.Sprintf("tsickle_reexport_%d_", tmpCounter)
			out = append(out, fmt.Sprintf("var %s = goog.require(%s);", tmpName, quote(target)))
			out = append(out, fmt.Sprintf("for (var p_ in %s) { if (!exports.hasOwnProperty(p_)) exports[p_] = %s[p_]; }", tmpName, tmpName))
			sawExportsAssign = true

		default:
			if rewritten, ok := rewriteRequireLine(line, sourceFile, host); ok {
				out = append(out, rewritten)
			} else {
				out = append(out, line)
			}
		}
	}

	for name := range typeOnly {
		out = append(out, fmt.Sprintf("/** @typedef {?} */\nexports.%s;", name))
	}

	if !sawExportsAssign {
		out = append(out, "exports = {};")
	}

	return strings.Join(out, "\n")
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}
