package rewriter

import (
	"github.com/microsoft/typescript-go/shim/ast"
	shimscanner "github.com/microsoft/typescript-go/shim/scanner"
)

// lineAndColumn converts a character offset to a 0-based (line, column)
// pair, reusing the shim's own scanner rather than re-deriving line breaks —
// the same call internal/compiler/diagnostics.go makes for diagnostic
// formatting.
func lineAndColumn(file *ast.SourceFile, pos int) (line, col int) {
	return shimscanner.GetECMALineAndCharacterOfPosition(file, pos)
}
