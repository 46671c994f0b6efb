package testutil

import (
	"context"
	"testing"

	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"

	"github.com/tsickle-go/tsickle/internal/compiler"
)

// defaultTSConfig is good enough for the core's own unit tests: every pass
// under test drives the checker/AST directly rather than going through
// emitted output, so compiler options beyond strict type-checking don't
// matter.
const defaultTSConfig = `{
	"compilerOptions": { "target": "ES2020", "module": "commonjs", "strict": true }
}`

// NewCheckedProgram type-checks an in-memory TypeScript project built
// entirely from files (no tsconfig.json entry required; one is supplied)
// using OverlayVFS over the bundled lib files, the way OverlayVFS's own
// doc comment describes: "creating tsgo programs from inline TypeScript
// source". Returns the program, its checker, and a release func the
// caller must defer.
func NewCheckedProgram(t *testing.T, files map[string]string) (*shimcompiler.Program, *shimchecker.Checker, func()) {
	t.Helper()

	virtual := make(map[string]string, len(files)+1)
	for k, v := range files {
		virtual[k] = v
	}
	if _, ok := virtual["/tsconfig.json"]; !ok {
		virtual["/tsconfig.json"] = defaultTSConfig
	}

	overlay := NewDefaultOverlayVFS(virtual)
	host := compiler.CreateDefaultHost("/", overlay)

	result, diags, err := compiler.CreateProgram(true, overlay, "/", "/tsconfig.json", host)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if len(diags) > 0 {
		t.Fatalf("CreateProgram diagnostics: %v", diags)
	}

	checker, release := shimcompiler.Program_GetTypeChecker(result.Program, context.Background())
	if release == nil {
		release = func() {}
	}
	return result.Program, checker, release
}

// MustSourceFile returns the parsed source file for fileName, failing the
// test if the program does not contain it.
func MustSourceFile(t *testing.T, program *shimcompiler.Program, fileName string) *ast.SourceFile {
	t.Helper()
	for _, sf := range program.GetSourceFiles() {
		if sf.FileName() == fileName {
			return sf
		}
	}
	t.Fatalf("source file %q not found in program", fileName)
	return nil
}
