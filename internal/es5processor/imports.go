package es5processor

import (
	"path/filepath"
	"strings"
)

// DefaultHost resolves module ids from plain file-system paths, relative to
// a compilation root — the shape the Pipeline Coordinator's overlay hosts
// already compute paths in, so no separate alias-resolution layer is
// needed here.
type DefaultHost struct {
	// RootDir is stripped from every file path before it is turned into a
	// dotted module id.
	RootDir string
}

// FileNameToModuleId turns an absolute or root-relative file path into the
// dotted identifier goog.module registers under, e.g.
// "/root/src/user/user.service.ts" with RootDir "/root/src" becomes
// "user.user_service".
func (h DefaultHost) FileNameToModuleId(fileName string) string {
	return pathToModuleID(h.relativize(fileName))
}

// PathToModuleName resolves a require() specifier written in contextPath
// to the module id of the file it points at.
func (h DefaultHost) PathToModuleName(contextPath, specifier string) string {
	if !strings.HasPrefix(specifier, ".") {
		// A bare specifier ("tslib", "rxjs") names a package tsickle does
		// not own the module id of; goog.require still needs a string, so
		// fall back to dots-for-slashes on the specifier itself.
		return pathToModuleID(specifier)
	}
	resolved := filepath.Join(filepath.Dir(contextPath), specifier)
	return pathToModuleID(h.relativize(resolved))
}

func (h DefaultHost) relativize(fileName string) string {
	if h.RootDir == "" {
		return fileName
	}
	rel, err := filepath.Rel(h.RootDir, fileName)
	if err != nil {
		return fileName
	}
	return rel
}

// pathToModuleID strips known source extensions, turns non-identifier
// characters within each path component into underscores, and joins the
// components with dots — Closure's conventional "dir.sub.file" module id
// shape.
func pathToModuleID(p string) string {
	p = filepath.ToSlash(p)
	for _, ext := range []string{".ts", ".tsx", ".mts", ".cts", ".js"} {
		if strings.HasSuffix(p, ext) {
			p = p[:len(p)-len(ext)]
			break
		}
	}
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = sanitizeIdentifierPart(part)
	}
	return strings.Join(parts, ".")
}

func sanitizeIdentifierPart(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
