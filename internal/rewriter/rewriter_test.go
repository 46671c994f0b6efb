package rewriter_test

import (
	"testing"

	"github.com/microsoft/typescript-go/shim/ast"

	"github.com/tsickle-go/tsickle/internal/diagnostic"
	"github.com/tsickle-go/tsickle/internal/rewriter"
	"github.com/tsickle-go/tsickle/internal/testutil"
)

// TestVisitAll_NoVisitorOverride_ReproducesSourceVerbatim covers the
// "copy verbatim except where overridden" guarantee when every Visit call
// returns handled=false.
func TestVisitAll_NoVisitorOverride_ReproducesSourceVerbatim(t *testing.T) {
	src := "export const a = 1;\nexport function f() { return a; }\n"
	program, _, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": src,
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")

	passthrough := func(r *rewriter.Rewriter, node *ast.Node) bool { return false }
	r := rewriter.New(sf, passthrough, diagnostic.NewCollector(false, false), nil)
	r.VisitAll()

	if r.String() != src {
		t.Errorf("VisitAll() = %q, want verbatim %q", r.String(), src)
	}
}

// TestVisit_OverrideReplacesNodeText covers a Visitor that takes over a
// single node's range and emits synthetic text in its place, leaving
// everything else verbatim.
func TestVisit_OverrideReplacesNodeText(t *testing.T) {
	src := "const a = 1;\nconst b = 2;\n"
	program, _, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": src,
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")

	visit := func(r *rewriter.Rewriter, node *ast.Node) bool {
		if node.Kind != ast.KindVariableStatement {
			return false
		}
		decl := node.AsVariableStatement().DeclarationList.AsVariableDeclarationList().Declarations.Nodes[0]
		if decl.AsVariableDeclaration().Name().Text() != "a" {
			return false
		}
		r.WriteRange(r.Cursor(), node.Pos())
		r.Emit("const a = 99;")
		r.SkipRange(node.End())
		return true
	}
	r := rewriter.New(sf, visit, diagnostic.NewCollector(false, false), nil)
	r.VisitAll()

	want := "const a = 99;\nconst b = 2;\n"
	if r.String() != want {
		t.Errorf("VisitAll() = %q, want %q", r.String(), want)
	}
}

// TestWriteRange_StartBeforeCursor_IsClampedNotDuplicated guards the
// documented no-op behavior for an already-emitted range.
func TestWriteRange_StartBeforeCursor_IsClampedNotDuplicated(t *testing.T) {
	src := "abcdef"
	program, _, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": "const x = 1;\n",
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")

	r := rewriter.New(sf, func(*rewriter.Rewriter, *ast.Node) bool { return false }, diagnostic.NewCollector(false, false), nil)
	_ = src
	r.WriteRange(0, 5)
	r.WriteRange(2, 8) // overlaps [0,5); only [5,8) should be appended
	got := r.String()
	text := r.Text()
	want := text[0:8]
	if got != want {
		t.Errorf("overlapping WriteRange produced %q, want %q", got, want)
	}
}

func TestSkipRange_ElidesTextWithoutEmittingIt(t *testing.T) {
	src := "@deco\nclass C {}\n"
	program, _, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": "class C {}\n",
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")
	_ = src

	r := rewriter.New(sf, func(*rewriter.Rewriter, *ast.Node) bool { return false }, diagnostic.NewCollector(false, false), nil)
	r.WriteRange(0, 5)
	r.SkipRange(8)
	r.WriteRange(r.Cursor(), len(r.Text()))

	if r.Cursor() != len(r.Text()) {
		t.Errorf("cursor should reach end of text, got %d want %d", r.Cursor(), len(r.Text()))
	}
}
