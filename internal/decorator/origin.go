// Package decorator implements the decorator downleveling pass: it resolves
// where each decorator on a class came from, decides which decorators are
// eligible for downleveling, and emits the static `decorators`,
// `ctorParameters`, and `propDecorators` metadata fields Closure-compiled
// output needs in place of native decorator syntax.
package decorator

import (
	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"
)

// Origin contains the resolved original name and import source of a decorator.
type Origin struct {
	// Name is the original exported name (e.g., "Component", "Injectable").
	// For aliased imports like `import { Component as C }`, this is
	// "Component", not "C".
	Name string
	// ModuleSpecifier is the import module path. Empty if the decorator is
	// locally defined rather than imported.
	ModuleSpecifier string
	// Declaration is the directly-resolved declaration node the decorator
	// traces to (the exported function/variable, not the import specifier).
	// Lowering eligibility is decided by looking for @Annotation on this
	// node's own leading comment — per the source, the marker is never
	// chased through re-exporting modules.
	Declaration *ast.Node
}

// ResolveOrigin resolves the original name and import source module of a
// decorator expression. Handles:
//   - Direct imports:    import { Component } from '@angular/core'        → Name="Component", Module="@angular/core"
//   - Aliased imports:   import { Component as C } from '@angular/core'   → Name="Component", Module="@angular/core"
//   - Namespace imports: import * as ng from '@angular/core'; @ng.Component() → Name="Component", Module="@angular/core"
//
// Returns nil if the decorator origin cannot be determined (e.g., a locally
// defined decorator function).
func ResolveOrigin(dec *ast.Node, checker *shimchecker.Checker) *Origin {
	if dec.Kind != ast.KindDecorator {
		return nil
	}
	expr := dec.AsDecorator().Expression

	// Unwrap call expression to get the callee: @Foo() → Foo, @ns.Foo() → ns.Foo
	callee := expr
	if callee.Kind == ast.KindCallExpression {
		callee = callee.AsCallExpression().Expression
	}

	switch callee.Kind {
	case ast.KindIdentifier:
		return resolveIdentifierOrigin(callee, checker)
	case ast.KindPropertyAccessExpression:
		return resolvePropertyAccessOrigin(callee, checker)
	}

	return nil
}

// resolveIdentifierOrigin resolves a bare identifier decorator like
// @Component() or @C() where C is aliased from Component.
func resolveIdentifierOrigin(ident *ast.Node, checker *shimchecker.Checker) *Origin {
	sym := checker.GetSymbolAtLocation(ident)
	if sym == nil {
		return nil
	}

	if sym.Flags&ast.SymbolFlagsAlias == 0 {
		return nil
	}

	original := checker.GetAliasedSymbol(sym)
	originalName := sym.Name
	var decl *ast.Node
	if original != nil {
		if original.Name != "" {
			originalName = original.Name
		}
		decl = original.ValueDeclaration
	}

	moduleSpec := moduleSpecifierFromDeclarations(sym.Declarations)

	return &Origin{
		Name:            originalName,
		ModuleSpecifier: moduleSpec,
		Declaration:     decl,
	}
}

// resolvePropertyAccessOrigin resolves a namespace-qualified decorator like
// @ng.Component(). The property name ("Component") is the original name,
// and the namespace object ("ng") traces back to the import declaration's
// module specifier.
func resolvePropertyAccessOrigin(pa *ast.Node, checker *shimchecker.Checker) *Origin {
	propAccess := pa.AsPropertyAccessExpression()

	propName := propAccess.Name().AsIdentifier().Text

	obj := propAccess.Expression
	if obj.Kind != ast.KindIdentifier {
		return nil
	}

	nsSym := checker.GetSymbolAtLocation(obj)
	if nsSym == nil {
		return nil
	}

	if nsSym.Flags&ast.SymbolFlagsAlias == 0 {
		return nil
	}

	moduleSpec := moduleSpecifierFromDeclarations(nsSym.Declarations)

	var decl *ast.Node
	if propSym := checker.GetSymbolAtLocation(pa); propSym != nil {
		resolved := propSym
		if propSym.Flags&ast.SymbolFlagsAlias != 0 {
			resolved = checker.GetAliasedSymbol(propSym)
		}
		if resolved != nil {
			decl = resolved.ValueDeclaration
		}
	}

	return &Origin{
		Name:            propName,
		ModuleSpecifier: moduleSpec,
		Declaration:     decl,
	}
}

// moduleSpecifierFromDeclarations walks the declaration nodes of an import
// symbol to find the ImportDeclaration and extract its module specifier
// string.
//
// Parent chains:
//   - ImportSpecifier → NamedImports → ImportClause → ImportDeclaration
//   - NamespaceImport → ImportClause → ImportDeclaration
//   - ImportClause → ImportDeclaration
func moduleSpecifierFromDeclarations(declarations []*ast.Node) string {
	for _, decl := range declarations {
		if spec := moduleSpecifierFromNode(decl); spec != "" {
			return spec
		}
	}
	return ""
}

func moduleSpecifierFromNode(node *ast.Node) string {
	var importDecl *ast.Node
	switch node.Kind {
	case ast.KindImportSpecifier:
		if node.Parent != nil && node.Parent.Parent != nil && node.Parent.Parent.Parent != nil {
			importDecl = node.Parent.Parent.Parent
		}
	case ast.KindNamespaceImport:
		if node.Parent != nil && node.Parent.Parent != nil {
			importDecl = node.Parent.Parent
		}
	case ast.KindImportClause:
		importDecl = node.Parent
	default:
		for n := node.Parent; n != nil; n = n.Parent {
			if n.Kind == ast.KindImportDeclaration {
				importDecl = n
				break
			}
		}
	}

	if importDecl == nil || importDecl.Kind != ast.KindImportDeclaration {
		return ""
	}

	modSpec := importDecl.AsImportDeclaration().ModuleSpecifier
	if modSpec == nil || modSpec.Kind != ast.KindStringLiteral {
		return ""
	}

	return modSpec.AsStringLiteral().Text
}

// IsLowerable reports whether a decorator is marked `@Annotation` on its
// directly-resolved declaration's leading comment. Chasing the marker
// through re-exporting modules is not attempted — only the declaration
// Origin resolves to directly is consulted.
func IsLowerable(origin *Origin) bool {
	if origin == nil || origin.Declaration == nil {
		return false
	}
	return declarationHasMarker(origin.Declaration, "Annotation")
}

// declarationHasMarker reports whether node's own JSDoc carries a tag named
// marker (case-sensitive, matching the TS convention of PascalCase custom
// tags like @Annotation). Unknown tags like @Annotation parse as
// ast.KindJSDocTag with the tag name preserved verbatim.
func declarationHasMarker(node *ast.Node, marker string) bool {
	if node == nil {
		return false
	}
	for _, doc := range node.JSDoc(nil) {
		jsdoc := doc.AsJSDoc()
		if jsdoc == nil || jsdoc.Tags == nil {
			continue
		}
		for _, tagNode := range jsdoc.Tags.Nodes {
			if tagNode.Kind != ast.KindJSDocTag {
				continue
			}
			unknown := tagNode.AsJSDocUnknownTag()
			if unknown == nil || unknown.TagName == nil {
				continue
			}
			if unknown.TagName.Text() == marker {
				return true
			}
		}
	}
	return false
}
