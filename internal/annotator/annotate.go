// Package annotator implements the JSDoc Annotator (closurize) pass: it
// drives a rewriter.Rewriter over a type-checked source file, emitting a
// JSDoc comment ahead of every top-level declaration with a Closure type
// translated by internal/typetranslator, synthesizing interface prototype
// stubs and enum metadata, and prefixing the file with the fileoverview
// block Closure expects.
package annotator

import (
	"fmt"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"

	"github.com/tsickle-go/tsickle/internal/diagnostic"
	"github.com/tsickle-go/tsickle/internal/rewriter"
	"github.com/tsickle-go/tsickle/internal/sourcemap"
	"github.com/tsickle-go/tsickle/internal/typetranslator"
)

// Result is everything one file's annotator run produced.
type Result struct {
	Text       string
	SourceMap  *sourcemap.Builder
	NamedTypes []string // interfaces/classes referenced in type position, for externs/goog.require bookkeeping

	// TypeOnlyExports names this file's exported bindings that carry no
	// runtime value (explicit `export type {...}`, `export {type X}`, or a
	// bare re-export of a name this file itself imported type-only). The
	// compiler's own emit elides these from the generated JS entirely, so
	// the Pipeline Coordinator threads this through to
	// es5processor.Convert, which emits a @typedef stub in their place.
	TypeOnlyExports map[string]bool
}

// Pass closurizes one source file.
type Pass struct {
	checker *shimchecker.Checker
	tr      *typetranslator.Translator
	diags   *diagnostic.Collector
	untyped bool

	interfaceStubs []string // trailing text appended after the last top-level statement

	typeOnlyImports map[string]bool // local names bound by `import type` / `import {type X}`
	typeOnlyExports map[string]bool // names this file exports with no runtime value
}

// New creates an annotator Pass. untyped puts every emitted type at "?"
// (§4.2's untyped mode) and widens the fileoverview @suppress list.
func New(checker *shimchecker.Checker, diags *diagnostic.Collector, sourceFile *ast.SourceFile, untyped bool) *Pass {
	tr := typetranslator.New(checker, diags, sourceFile.FileName())
	tr.Untyped = untyped
	return &Pass{
		checker:         checker,
		tr:              tr,
		diags:           diags,
		untyped:         untyped,
		typeOnlyImports: make(map[string]bool),
		typeOnlyExports: make(map[string]bool),
	}
}

// Run closurizes sourceFile and returns the annotated text plus a source
// map when withSourceMap is set.
func (p *Pass) Run(sourceFile *ast.SourceFile, withSourceMap bool) Result {
	var sm *sourcemap.Builder
	if withSourceMap {
		sm = sourcemap.NewBuilder(nil)
	}
	r := rewriter.New(sourceFile, p.visit, p.diags, sm)

	sourceFile.AsNode().ForEachChild(func(child *ast.Node) bool {
		r.Visit(child)
		return false
	})
	r.WriteRange(r.Cursor(), len(sourceFile.Text()))

	body := r.String()
	if len(p.interfaceStubs) > 0 {
		body += "\n" + strings.Join(p.interfaceStubs, "\n")
	}

	header := p.fileOverview(sourceFile)
	return Result{
		Text:            header + body,
		SourceMap:       sm,
		NamedTypes:      p.tr.NamedTypes(),
		TypeOnlyExports: p.typeOnlyExports,
	}
}

// fileOverview builds the mandatory `/** @fileoverview ... */` block every
// annotated file is prefixed with.
func (p *Pass) fileOverview(sourceFile *ast.SourceFile) string {
	suppress := []string{"checkTypes"}
	if p.untyped {
		suppress = append(suppress,
			"missingProperties", "missingReturn", "uselessCode",
			"checkDebuggerStatement", "strictCheckTypes")
	}
	var sb strings.Builder
	sb.WriteString("/**\n")
	sb.WriteString(" * @fileoverview added by tsickle\n")
	fmt.Fprintf(&sb, " * @suppress {%s}\n", strings.Join(suppress, ","))
	sb.WriteString(" */\n")
	return sb.String()
}

func (p *Pass) visit(r *rewriter.Rewriter, node *ast.Node) bool {
	switch node.Kind {
	case ast.KindVariableStatement:
		return p.visitVariableStatement(r, node)
	case ast.KindFunctionDeclaration:
		return p.visitFunction(r, node)
	case ast.KindClassDeclaration:
		return p.visitClass(r, node)
	case ast.KindInterfaceDeclaration:
		return p.visitInterface(r, node)
	case ast.KindTypeAliasDeclaration:
		return p.visitTypeAlias(r, node)
	case ast.KindEnumDeclaration:
		return p.visitEnum(r, node)
	case ast.KindImportDeclaration:
		return p.visitImportDeclaration(r, node)
	case ast.KindExportDeclaration:
		return p.visitExportDeclaration(r, node)
	default:
		return false
	}
}

// visitImportDeclaration records which local bindings this file imports
// purely for type use, so a later bare `export { X }` of the same name
// (visitExportDeclaration below) can be recognized as a type-only
// re-export. The import text itself is left untouched — handled=false lets
// the Rewriter copy it verbatim — since the compiler's own emit step
// already drops type-only imports from the generated JS; the annotator
// only needs to remember the name.
func (p *Pass) visitImportDeclaration(r *rewriter.Rewriter, node *ast.Node) bool {
	decl := node.AsImportDeclaration()
	if decl.ImportClause == nil {
		return false
	}
	clause := decl.ImportClause.AsImportClause()
	if clause.IsTypeOnly {
		p.markImportClauseNames(clause)
		return false
	}
	if clause.NamedBindings == nil || clause.NamedBindings.Kind != ast.KindNamedImports {
		return false
	}
	for _, elem := range clause.NamedBindings.AsNamedImports().Elements.Nodes {
		spec := elem.AsImportSpecifier()
		if spec.IsTypeOnly {
			p.typeOnlyImports[spec.Name().Text()] = true
		}
	}
	return false
}

// markImportClauseNames records every local name an `import type ...`
// clause binds: the default binding, a namespace binding, or every named
// binding, since the whole clause is type-only regardless of per-specifier
// markers.
func (p *Pass) markImportClauseNames(clause *ast.ImportClause) {
	if clause.Name() != nil {
		p.typeOnlyImports[clause.Name().Text()] = true
	}
	if clause.NamedBindings == nil {
		return
	}
	switch clause.NamedBindings.Kind {
	case ast.KindNamedImports:
		for _, elem := range clause.NamedBindings.AsNamedImports().Elements.Nodes {
			p.typeOnlyImports[elem.AsImportSpecifier().Name().Text()] = true
		}
	case ast.KindNamespaceImport:
		p.typeOnlyImports[clause.NamedBindings.AsNamespaceImport().Name().Text()] = true
	}
}

// visitExportDeclaration records named exports that carry no runtime
// value: an explicit `export type {...}`/`export {type X}`, or a bare
// `export { X }` of a name this file itself imported type-only. Those
// names surface via Result.TypeOnlyExports so the Pipeline Coordinator can
// hand them to es5processor.Convert, which emits a @typedef stub in place
// of the runtime property copy the lowered JS has nothing to back.
func (p *Pass) visitExportDeclaration(r *rewriter.Rewriter, node *ast.Node) bool {
	decl := node.AsExportDeclaration()
	if decl.ExportClause == nil || decl.ExportClause.Kind != ast.KindNamedExports {
		return false
	}
	for _, elem := range decl.ExportClause.AsNamedExports().Elements.Nodes {
		spec := elem.AsExportSpecifier()
		exportedName := spec.Name().Text()
		localName := exportedName
		if spec.PropertyName != nil {
			localName = spec.PropertyName.AsIdentifier().Text
		}
		if decl.IsTypeOnly || spec.IsTypeOnly || p.typeOnlyImports[localName] {
			p.typeOnlyExports[exportedName] = true
		}
	}
	return false
}

// emitDoc writes a rendered JSDoc block (if non-empty) immediately before
// node's start, then copies node verbatim (recursing into children first so
// nested declarations get their own annotation).
func (p *Pass) emitDoc(r *rewriter.Rewriter, node *ast.Node, doc string) bool {
	if doc != "" {
		r.WriteRange(r.Cursor(), node.Pos())
		r.Emit(doc)
	}
	r.WriteNodeFrom(node, r.Cursor())
	return true
}

func isExported(node *ast.Node) bool {
	for _, mod := range modifiersOf(node) {
		if mod.Kind == ast.KindExportKeyword {
			return true
		}
	}
	return false
}

func modifiersOf(node *ast.Node) []*ast.Node {
	mods := node.Modifiers()
	if mods == nil {
		return nil
	}
	return mods.Nodes
}

func hasModifier(node *ast.Node, kind ast.Kind) bool {
	for _, m := range modifiersOf(node) {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

func (p *Pass) visitVariableStatement(r *rewriter.Rewriter, node *ast.Node) bool {
	stmt := node.AsVariableStatement()
	if stmt.DeclarationList == nil {
		return false
	}
	ex := readExisting(node)
	b := NewJSDocBuilder(ex.Description)
	if ex.Deprecated {
		b.Tag("@deprecated")
	}
	isConst := stmt.DeclarationList.AsVariableDeclarationList().Flags&ast.NodeFlagsConst != 0
	for _, decl := range stmt.DeclarationList.AsVariableDeclarationList().Declarations.Nodes {
		vd := decl.AsVariableDeclaration()
		if vd.Type == nil {
			continue
		}
		typeExpr := p.tr.TranslateTypeNode(vd.Type)
		b.TypeTag("type", typeExpr.Render())
	}
	if isConst {
		b.Tag("@const")
	}
	return p.emitDoc(r, node, b.Render())
}

func (p *Pass) visitFunction(r *rewriter.Rewriter, node *ast.Node) bool {
	fn := node.AsFunctionDeclaration()
	ex := readExisting(node)
	b := NewJSDocBuilder(ex.Description)
	if ex.Deprecated {
		b.Tag("@deprecated")
	}
	if fn.Parameters != nil {
		for _, param := range fn.Parameters.Nodes {
			pd := param.AsParameterDeclaration()
			name := ""
			if pd.Name() != nil {
				name = pd.Name().Text()
			}
			typeExpr := "?"
			if pd.Type != nil {
				typeExpr = p.tr.TranslateTypeNode(pd.Type).Render()
			}
			if pd.QuestionToken != nil {
				typeExpr = fmt.Sprintf("(%s|undefined)", typeExpr)
			}
			b.Param(name, typeExpr, ex.ParamDescs[name])
		}
	}
	if fn.Type != nil {
		b.TypeTag("return", p.tr.TranslateTypeNode(fn.Type).Render())
	}
	if hasModifier(node, ast.KindExportKeyword) {
		b.Tag("@export")
	}
	return p.emitDoc(r, node, b.Render())
}

func (p *Pass) visitClass(r *rewriter.Rewriter, node *ast.Node) bool {
	cls := node.AsClassDeclaration()
	ex := readExisting(node)
	b := NewJSDocBuilder(ex.Description)
	if ex.Deprecated {
		b.Tag("@deprecated")
	}
	if hasModifier(node, ast.KindAbstractKeyword) {
		b.Tag("@abstract")
	}
	if cls.HeritageClauses != nil {
		for _, clause := range cls.HeritageClauses.Nodes {
			hc := clause.AsHeritageClause()
			tag := "@extends"
			if hc.Token == ast.KindImplementsKeyword {
				tag = "@implements"
			}
			for _, t := range hc.Types.Nodes {
				expr := p.tr.TranslateTypeNode(t)
				b.Tag(fmt.Sprintf("%s {%s}", tag, expr.Render()))
			}
		}
	}
	return p.emitDoc(r, node, b.Render())
}

// visitInterface erases the interface declaration from its original
// position (interfaces have no runtime representation) and instead queues
// a `/** @record */ function I() {}` stub plus one `/** @type {T} */
// I.prototype.field;` line per member, appended after the file's other
// content — the shape §4.3 prescribes for end-to-end scenario 3.
func (p *Pass) visitInterface(r *rewriter.Rewriter, node *ast.Node) bool {
	iface := node.AsInterfaceDeclaration()
	name := ""
	if iface.Name() != nil {
		name = iface.Name().Text()
	}

	e := NewEmitter()
	recordTag := "@record"
	exported := isExported(node)
	prefix := ""
	if exported {
		prefix = "export "
	}

	var extends []string
	if iface.HeritageClauses != nil {
		for _, clause := range iface.HeritageClauses.Nodes {
			hc := clause.AsHeritageClause()
			for _, t := range hc.Types.Nodes {
				extends = append(extends, p.tr.TranslateTypeNode(t).Render())
			}
		}
	}

	b := NewJSDocBuilder("")
	b.Tag(recordTag)
	for _, ext := range extends {
		b.Tag(fmt.Sprintf("@extends {%s}", ext))
	}
	e.Raw(b.Render())
	e.Line("%sfunction %s() {}", prefix, name)

	if iface.Members != nil {
		for _, member := range iface.Members.Nodes {
			if member.Kind != ast.KindPropertySignature {
				continue
			}
			ps := member.AsPropertySignatureDeclaration()
			fieldName := ""
			if ps.Name() != nil {
				fieldName = ps.Name().Text()
			}
			typeExpr := "?"
			if ps.Type != nil {
				typeExpr = p.tr.TranslateTypeNode(ps.Type).Render()
			}
			if ps.QuestionToken != nil {
				typeExpr = fmt.Sprintf("(%s|undefined)", typeExpr)
			}
			e.Line("/** @type {%s} */", typeExpr)
			e.Line("%s.prototype.%s;", name, fieldName)
		}
	}

	p.interfaceStubs = append(p.interfaceStubs, e.String())

	// Elide the interface from its original position entirely: nothing
	// about it survives at that byte range, matching "interfaces are
	// erased at emit time" (§4.3).
	r.WriteRange(r.Cursor(), node.Pos())
	r.SkipRange(node.End())
	return true
}

// visitTypeAlias emits a `@typedef` in place of the alias declaration.
// Translating through TranslateNamed (keyed by the alias's own declared
// name, not whatever symbol name the checker gives the aliased type)
// breaks recursive aliases at one level of unfolding: a self-reference
// inside the alias's own shape resolves to the same TypeId mid-walk and
// degrades to "?" rather than unfolding further (scenario 2).
func (p *Pass) visitTypeAlias(r *rewriter.Rewriter, node *ast.Node) bool {
	alias := node.AsTypeAliasDeclaration()
	name := ""
	if alias.Name() != nil {
		name = alias.Name().Text()
	}
	typeExpr := "?"
	if alias.Type != nil {
		typeExpr = p.tr.TranslateAliasTypeNode(name, alias.Type).Render()
	}

	b := NewJSDocBuilder("")
	b.TypeTag("typedef", typeExpr)
	doc := b.Render()

	r.WriteRange(r.Cursor(), node.Pos())
	r.Emit(doc)
	qualifier := "var"
	if isExported(node) {
		qualifier = "exports."
		r.Emit(fmt.Sprintf("%s%s;\n", qualifier, name))
	} else {
		r.Emit(fmt.Sprintf("%s %s;\n", qualifier, name))
	}
	r.SkipRange(node.End())
	return true
}

// visitEnum emits a `@enum` annotation ahead of the (preserved) enum
// declaration — const enums keep their member initializers so Closure can
// see the constant values, matching §4.3's "Enums" rule.
func (p *Pass) visitEnum(r *rewriter.Rewriter, node *ast.Node) bool {
	numeric := enumIsNumeric(node)
	valueType := "string"
	if numeric {
		valueType = "number"
	}
	b := NewJSDocBuilder("")
	b.TypeTag("enum", valueType)
	return p.emitDoc(r, node, b.Render())
}

func enumIsNumeric(node *ast.Node) bool {
	en := node.AsEnumDeclaration()
	if en.Members == nil {
		return true
	}
	for _, m := range en.Members.Nodes {
		member := m.AsEnumMember()
		if member.Initializer != nil && member.Initializer.Kind == ast.KindStringLiteral {
			return false
		}
	}
	return true
}
