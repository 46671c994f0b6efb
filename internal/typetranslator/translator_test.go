package typetranslator_test

import (
	"testing"

	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"

	"github.com/tsickle-go/tsickle/internal/diagnostic"
	"github.com/tsickle-go/tsickle/internal/testutil"
	"github.com/tsickle-go/tsickle/internal/typetranslator"
)

func findTypeAlias(t *testing.T, sf *ast.SourceFile, name string) *ast.Node {
	t.Helper()
	var found *ast.Node
	sf.AsNode().ForEachChild(func(n *ast.Node) bool {
		if n.Kind == ast.KindTypeAliasDeclaration && n.AsTypeAliasDeclaration().Name().Text() == name {
			found = n
			return true
		}
		return false
	})
	if found == nil {
		t.Fatalf("type alias %q not found", name)
	}
	return found
}

func findVarType(t *testing.T, sf *ast.SourceFile, checker *shimchecker.Checker, name string) *ast.Node {
	t.Helper()
	var found *ast.Node
	sf.AsNode().ForEachChild(func(n *ast.Node) bool {
		if n.Kind != ast.KindVariableStatement {
			return false
		}
		for _, decl := range n.AsVariableStatement().DeclarationList.AsVariableDeclarationList().Declarations.Nodes {
			vd := decl.AsVariableDeclaration()
			if vd.Name() != nil && vd.Name().Text() == name {
				found = vd.Type
			}
		}
		return found != nil
	})
	if found == nil {
		t.Fatalf("variable %q not found", name)
	}
	return found
}

func TestTranslateTypeNode_Primitives(t *testing.T) {
	program, checker, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": "export const a: string = 'x';\nexport const b: number = 1;\nexport const c: boolean = true;\n",
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")

	tr := typetranslator.New(checker, diagnostic.NewCollector(false, false), sf.FileName())

	cases := map[string]string{"a": "string", "b": "number", "c": "boolean"}
	for name, want := range cases {
		got := tr.TranslateTypeNode(findVarType(t, sf, checker, name)).Render()
		if got != want {
			t.Errorf("TranslateTypeNode(%s) = %q, want %q", name, got, want)
		}
	}
}

func TestTranslateTypeNode_UnionWithNull(t *testing.T) {
	program, checker, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": "export const a: string | null = null;\n",
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")

	tr := typetranslator.New(checker, diagnostic.NewCollector(false, false), sf.FileName())
	got := tr.TranslateTypeNode(findVarType(t, sf, checker, "a")).Render()
	if got != "(string|null)" {
		t.Errorf("Render() = %q, want (string|null)", got)
	}
}

func TestTranslateTypeNode_Array(t *testing.T) {
	program, checker, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": "export const a: number[] = [];\n",
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")

	tr := typetranslator.New(checker, diagnostic.NewCollector(false, false), sf.FileName())
	got := tr.TranslateTypeNode(findVarType(t, sf, checker, "a")).Render()
	if got != "!Array<number>" {
		t.Errorf("Render() = %q, want !Array<number>", got)
	}
}

// TestTranslateAliasTypeNode_BreaksRecursionAfterOneLevel regression-tests
// the cycle-breaking fix: a type alias to an object literal that refers to
// itself must render the self-reference as "?" after one level of
// unfolding, not recurse until the walk-depth guard gives up.
func TestTranslateAliasTypeNode_BreaksRecursionAfterOneLevel(t *testing.T) {
	program, checker, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": "export type R = { value: number; next: R };\n",
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")

	alias := findTypeAlias(t, sf, "R")
	tr := typetranslator.New(checker, diagnostic.NewCollector(false, false), sf.FileName())

	got := tr.TranslateAliasTypeNode("R", alias.AsTypeAliasDeclaration().Type).Render()
	if got != "!{next: ?, value: number}" {
		t.Errorf("Render() = %q, want !{next: ?, value: number}", got)
	}
}

func TestTranslateAliasTypeNode_NonRecursiveObjectLiteral(t *testing.T) {
	program, checker, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": "export type Pair = { a: string; b: number };\n",
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")

	alias := findTypeAlias(t, sf, "Pair")
	tr := typetranslator.New(checker, diagnostic.NewCollector(false, false), sf.FileName())

	got := tr.TranslateAliasTypeNode("Pair", alias.AsTypeAliasDeclaration().Type).Render()
	if got != "!{a: string, b: number}" {
		t.Errorf("Render() = %q, want !{a: string, b: number}", got)
	}
}

func TestTranslateTypeNode_InterfaceSelfReferenceRendersAsNamed(t *testing.T) {
	program, checker, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": "export interface Node { value: number; next: Node }\nexport const n: Node = { value: 1, next: null as any };\n",
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")

	tr := typetranslator.New(checker, diagnostic.NewCollector(false, false), sf.FileName())
	got := tr.TranslateTypeNode(findVarType(t, sf, checker, "n")).Render()
	if got != "!Node" {
		t.Errorf("Render() = %q, want !Node", got)
	}
	names := tr.NamedTypes()
	if len(names) != 1 || names[0] != "Node" {
		t.Errorf("NamedTypes() = %v, want [Node]", names)
	}
}

// TestTranslateTypeNode_Totality covers spec §8's "every input type yields
// a string; no translation call fails" invariant across a sampling of
// exotic type shapes: generics, tuples, function types, and a deep union.
func TestTranslateTypeNode_Totality(t *testing.T) {
	program, checker, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": `
export const a: Map<string, number[]> = new Map();
export const b: [string, number, boolean] = ['x', 1, true];
export const c: (x: number) => string = x => String(x);
export const d: 'a' | 'b' | 'c' | number | null = null;
`,
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")

	tr := typetranslator.New(checker, diagnostic.NewCollector(false, false), sf.FileName())
	for _, name := range []string{"a", "b", "c", "d"} {
		got := tr.TranslateTypeNode(findVarType(t, sf, checker, name)).Render()
		if got == "" {
			t.Errorf("TranslateTypeNode(%s) rendered an empty string, want a non-empty Closure type", name)
		}
	}
}

func TestUntypedMode_AlwaysRendersUnknown(t *testing.T) {
	program, checker, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": "export const a: string = 'x';\n",
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")

	tr := typetranslator.New(checker, diagnostic.NewCollector(false, false), sf.FileName())
	tr.Untyped = true
	got := tr.TranslateTypeNode(findVarType(t, sf, checker, "a")).Render()
	if got != "?" {
		t.Errorf("Render() = %q, want ? in untyped mode", got)
	}
}
