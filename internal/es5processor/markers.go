package es5processor

import (
	"fmt"
	"regexp"
)

// These patterns are deliberately anchored to whole lines: tsickle's ES5
// converter runs on already-emitted, already-formatted CommonJS output, so
// matching line-by-line is enough and avoids re-parsing a file the pipeline
// already parsed once upstream.
var (
	// var X = require('spec'); / const X = require('spec');
	requireAssignRe = regexp.MustCompile(`^(\s*)(?:var|const)\s+(\w+)\s*=\s*require\(['"]([^'"]+)['"]\)\s*;\s*$`)

	// require('spec'); on its own, for side-effect imports.
	requireSideEffectRe = regexp.MustCompile(`^(\s*)require\(['"]([^'"]+)['"]\)\s*;\s*$`)

	// Object.defineProperty(exports, "__esModule", { value: true });
	esModuleDefRe = regexp.MustCompile(`^\s*Object\.defineProperty\(exports,\s*["']__esModule["']\s*,\s*\{\s*value:\s*true\s*\}\)\s*;\s*$`)

	// exports.foo = ...; or exports["foo"] = ...; — presence of any such
	// line means the fallback `exports = {};` at end-of-file is unneeded.
	exportsAssignRe = regexp.MustCompile(`^\s*exports\.\w+\s*=|^\s*exports\[["'][^"']+["']\]\s*=`)

	// tsc's emitted re-export-star helpers: __export(require('spec'));
	// and __exportStar(require('spec'), exports);
	reExportStarRe = regexp.MustCompile(`^\s*(?:tslib_1\.)?__export(?:Star)?\(require\(['"]([^'"]+)['"]\)(?:,\s*exports)?\)\s*;\s*$`)
)

// rewriteRequireLine turns a `require(...)` statement into its
// `goog.require(...)` equivalent. It reports ok=false for any line that
// does not match one of the two require forms, so the caller can fall back
// to copying the line verbatim.
func rewriteRequireLine(line, sourceFile string, host Host) (string, bool) {
	if m := requireAssignRe.FindStringSubmatch(line); m != nil {
		indent, name, spec := m[1], m[2], m[3]
		target := host.PathToModuleName(sourceFile, spec)
		return fmt.Sprintf("%svar %s = goog.require(%s);", indent, name, quote(target)), true
	}
	if m := requireSideEffectRe.FindStringSubmatch(line); m != nil {
		indent, spec := m[1], m[2]
		target := host.PathToModuleName(sourceFile, spec)
		return fmt.Sprintf("%sgoog.require(%s);", indent, quote(target)), true
	}
	return "", false
}
