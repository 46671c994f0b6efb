// Package externs implements the Externs Generator: it walks ambient
// declarations — `.d.ts` inputs and `declare global { ... }` blocks in
// ordinary source — and emits a single Closure externs file describing
// them, so the Closure Compiler does not treat ambient symbols as typos
// or rename them.
package externs

import (
	"fmt"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"
	"golang.org/x/text/unicode/norm"

	"github.com/tsickle-go/tsickle/internal/diagnostic"
	"github.com/tsickle-go/tsickle/internal/typetranslator"
)

// entry is one emitted externs declaration, keyed by its fully qualified
// dotted name for de-duplication across files.
type entry struct {
	fqn  string
	text string
}

// Builder accumulates externs entries across every ambient file in a
// translation run, in the file order the Pipeline Coordinator supplies
// (spec.md's externs concatenation order = input file order).
type Builder struct {
	diags   *diagnostic.Collector
	checker *shimchecker.Checker

	seen    map[string]string // fqn -> first-registered text, for conflict detection
	ordered []entry
}

// New creates an externs Builder bound to one checker.
func New(checker *shimchecker.Checker, diags *diagnostic.Collector) *Builder {
	return &Builder{checker: checker, diags: diags, seen: make(map[string]string)}
}

// WalkFile collects externs entries from one ambient source file: every
// `.d.ts` input in full, and every `declare global { ... }` block in an
// ordinary source file.
func (b *Builder) WalkFile(sourceFile *ast.SourceFile) {
	isDeclarationFile := strings.HasSuffix(sourceFile.FileName(), ".d.ts")
	tr := typetranslator.New(b.checker, b.diags, sourceFile.FileName())

	sourceFile.AsNode().ForEachChild(func(node *ast.Node) bool {
		if isDeclarationFile {
			b.walkAmbientStatement(tr, node, nil)
			return false
		}
		if node.Kind == ast.KindModuleDeclaration {
			mod := node.AsModuleDeclaration()
			if mod.Name() != nil && mod.Name().Text() == "global" && mod.Body != nil {
				b.walkAmbientBlock(tr, mod.Body, nil)
			}
		}
		return false
	})
}

func (b *Builder) walkAmbientBlock(tr *typetranslator.Translator, block *ast.Node, ns []string) {
	body := block.AsModuleBlock()
	if body == nil || body.Statements == nil {
		return
	}
	for _, stmt := range body.Statements.Nodes {
		b.walkAmbientStatement(tr, stmt, ns)
	}
}

func (b *Builder) walkAmbientStatement(tr *typetranslator.Translator, node *ast.Node, ns []string) {
	switch node.Kind {
	case ast.KindVariableStatement:
		b.emitVariables(tr, node, ns)
	case ast.KindFunctionDeclaration:
		b.emitFunction(tr, node, ns)
	case ast.KindClassDeclaration:
		b.emitClass(tr, node, ns)
	case ast.KindInterfaceDeclaration:
		b.emitInterface(tr, node, ns)
	case ast.KindModuleDeclaration:
		mod := node.AsModuleDeclaration()
		if mod.Name() == nil || mod.Body == nil {
			return
		}
		b.walkAmbientBlock(tr, mod.Body, append(ns, mod.Name().Text()))
	}
}

// dottedName collapses namespace nesting into one dotted identifier, e.g.
// ns1.ns2.C — normalized to NFC so visually-identical identifiers from
// different source encodings de-duplicate correctly.
func dottedName(ns []string, name string) string {
	parts := append(append([]string{}, ns...), name)
	return norm.NFC.String(strings.Join(parts, "."))
}

func (b *Builder) register(fqn, text string) {
	if existing, ok := b.seen[fqn]; ok {
		if existing != text {
			b.diags.Error(diagnostic.CategoryUnsupportedConstruct, "", 0,
				fmt.Sprintf("externs conflict for %q: keeping first declaration", fqn))
		}
		return
	}
	b.seen[fqn] = text
	b.ordered = append(b.ordered, entry{fqn: fqn, text: text})
}

func (b *Builder) emitVariables(tr *typetranslator.Translator, node *ast.Node, ns []string) {
	stmt := node.AsVariableStatement()
	if stmt.DeclarationList == nil {
		return
	}
	for _, decl := range stmt.DeclarationList.AsVariableDeclarationList().Declarations.Nodes {
		vd := decl.AsVariableDeclaration()
		if vd.Name() == nil {
			continue
		}
		name := dottedName(ns, vd.Name().Text())
		typeExpr := "?"
		if vd.Type != nil {
			typeExpr = tr.TranslateTypeNode(vd.Type).Render()
		}
		b.register(name, fmt.Sprintf("/** @type {%s} */\nvar %s;\n", typeExpr, name))
	}
}

func (b *Builder) emitFunction(tr *typetranslator.Translator, node *ast.Node, ns []string) {
	fn := node.AsFunctionDeclaration()
	if fn.Name() == nil {
		return
	}
	name := dottedName(ns, fn.Name().Text())

	var sb strings.Builder
	sb.WriteString("/**\n")
	if fn.Parameters != nil {
		for _, param := range fn.Parameters.Nodes {
			pd := param.AsParameterDeclaration()
			pname := ""
			if pd.Name() != nil {
				pname = pd.Name().Text()
			}
			typeExpr := "?"
			if pd.Type != nil {
				typeExpr = tr.TranslateTypeNode(pd.Type).Render()
			}
			fmt.Fprintf(&sb, " * @param {%s} %s\n", typeExpr, pname)
		}
	}
	ret := "?"
	if fn.Type != nil {
		ret = tr.TranslateTypeNode(fn.Type).Render()
	}
	fmt.Fprintf(&sb, " * @return {%s}\n", ret)
	sb.WriteString(" */\n")
	fmt.Fprintf(&sb, "function %s() {}\n", name)

	b.register(name, sb.String())
}

func (b *Builder) emitClass(tr *typetranslator.Translator, node *ast.Node, ns []string) {
	cls := node.AsClassDeclaration()
	if cls.Name() == nil {
		return
	}
	name := dottedName(ns, cls.Name().Text())

	var sb strings.Builder
	sb.WriteString("/** @constructor */\n")
	fmt.Fprintf(&sb, "function %s() {}\n", name)

	if cls.Members != nil {
		for _, member := range cls.Members.Nodes {
			if member.Kind != ast.KindPropertyDeclaration {
				continue
			}
			pd := member.AsPropertyDeclaration()
			if pd.Name() == nil {
				continue
			}
			typeExpr := "?"
			if pd.Type != nil {
				typeExpr = tr.TranslateTypeNode(pd.Type).Render()
			}
			fmt.Fprintf(&sb, "/** @type {%s} */\n%s.prototype.%s;\n", typeExpr, name, pd.Name().Text())
		}
	}

	b.register(name, sb.String())
}

// emitInterface emits an ambient interface as a `@record` stub: Closure has
// no structural-typing externs construct, so an interface gets the same
// treatment the JSDoc Annotator gives a non-ambient one (visitInterface in
// internal/annotator), a synthesized constructor function plus one
// `.prototype.field` declaration per property signature, just emitted to
// the externs file instead of inlined after the source.
func (b *Builder) emitInterface(tr *typetranslator.Translator, node *ast.Node, ns []string) {
	iface := node.AsInterfaceDeclaration()
	if iface.Name() == nil {
		return
	}
	name := dottedName(ns, iface.Name().Text())

	var sb strings.Builder
	sb.WriteString("/** @record */\n")
	fmt.Fprintf(&sb, "function %s() {}\n", name)

	if iface.Members != nil {
		for _, member := range iface.Members.Nodes {
			if member.Kind != ast.KindPropertySignature {
				continue
			}
			ps := member.AsPropertySignatureDeclaration()
			if ps.Name() == nil {
				continue
			}
			typeExpr := "?"
			if ps.Type != nil {
				typeExpr = tr.TranslateTypeNode(ps.Type).Render()
			}
			if ps.QuestionToken != nil {
				typeExpr = fmt.Sprintf("(%s|undefined)", typeExpr)
			}
			fmt.Fprintf(&sb, "/** @type {%s} */\n%s.prototype.%s;\n", typeExpr, name, ps.Name().Text())
		}
	}

	b.register(name, sb.String())
}

// Render concatenates every registered entry in first-registered order.
func (b *Builder) Render() string {
	var sb strings.Builder
	for _, e := range b.ordered {
		sb.WriteString(e.text)
		sb.WriteString("\n")
	}
	return sb.String()
}
