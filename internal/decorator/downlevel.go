package decorator

import (
	"fmt"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"

	"github.com/tsickle-go/tsickle/internal/diagnostic"
	"github.com/tsickle-go/tsickle/internal/rewriter"
)

// Call is one lowered decorator, rendered into the `{type: F, args: [...]}`
// object literal shape the static metadata fields embed.
type Call struct {
	TypeExpr string   // source text of the decorator's callee expression, e.g. "Component" or "ng.Component"
	Args     []string // source text of each call argument, nil for a bare (non-call) decorator or a zero-arg call
}

func (c Call) render() string {
	if len(c.Args) == 0 {
		return fmt.Sprintf("{type: %s}", c.TypeExpr)
	}
	return fmt.Sprintf("{type: %s, args: [%s]}", c.TypeExpr, strings.Join(c.Args, ", "))
}

// Param is one constructor-parameter entry: either empty (renders "null")
// or a type reference paired with its lowerable decorators.
type Param struct {
	TypeExpr   string // value identifier of the parameter's declared type, "" if unresolved
	Decorators []Call
}

func (p Param) render() string {
	if p.TypeExpr == "" && len(p.Decorators) == 0 {
		return "null"
	}
	typeExpr := p.TypeExpr
	if typeExpr == "" {
		typeExpr = "undefined"
	}
	if len(p.Decorators) == 0 {
		return fmt.Sprintf("{type: %s}", typeExpr)
	}
	parts := make([]string, len(p.Decorators))
	for i, d := range p.Decorators {
		parts[i] = d.render()
	}
	return fmt.Sprintf("{type: %s, decorators: [%s]}", typeExpr, strings.Join(parts, ", "))
}

// Metadata is the DecoratorMetadata for one class: what the static
// `decorators`, `ctorParameters`, and `propDecorators` fields are built
// from.
type Metadata struct {
	ClassDecorators []Call
	CtorParams      []Param
	PropDecorators  map[string][]Call
	propOrder       []string // insertion order, so propDecorators renders deterministically
}

// Empty reports whether a class has nothing to lower — per the invariant, a
// class appears in the metadata table only when at least one of its
// decorators, constructor parameters, or member decorators is lowerable.
func (m *Metadata) Empty() bool {
	if m == nil {
		return true
	}
	ctorDecorated := false
	for _, p := range m.CtorParams {
		if len(p.Decorators) > 0 {
			ctorDecorated = true
			break
		}
	}
	return len(m.ClassDecorators) == 0 && !ctorDecorated && len(m.PropDecorators) == 0
}

// Render produces the static field declarations to inject before a class's
// closing brace, in the order §4.5 specifies.
func (m *Metadata) Render() string {
	var sb strings.Builder
	if len(m.ClassDecorators) > 0 {
		parts := make([]string, len(m.ClassDecorators))
		for i, c := range m.ClassDecorators {
			parts[i] = c.render()
		}
		fmt.Fprintf(&sb, "static decorators: {type: Function, args?: any[]}[] = [%s];\n", strings.Join(parts, ", "))
	}
	if len(m.CtorParams) > 0 {
		parts := make([]string, len(m.CtorParams))
		for i, p := range m.CtorParams {
			parts[i] = p.render()
		}
		fmt.Fprintf(&sb, "static ctorParameters: () => (any|null)[] = () => [%s];\n", strings.Join(parts, ", "))
	}
	if len(m.PropDecorators) > 0 {
		entries := make([]string, 0, len(m.propOrder))
		for _, name := range m.propOrder {
			calls := m.PropDecorators[name]
			parts := make([]string, len(calls))
			for i, c := range calls {
				parts[i] = c.render()
			}
			entries = append(entries, fmt.Sprintf("%s: [%s]", name, strings.Join(parts, ", ")))
		}
		fmt.Fprintf(&sb, "static propDecorators: {[key: string]: {type: Function, args?: any[]}[]} = {%s};\n", strings.Join(entries, ", "))
	}
	return sb.String()
}

// Pass lowers @Annotation-marked decorators on every class in a source
// file. One Pass instance processes one file; it is not safe for concurrent
// reuse across files because its suppress set is keyed by *ast.Node
// identity within that file's tree.
type Pass struct {
	checker  *shimchecker.Checker
	diags    *diagnostic.Collector
	file     string
	text     string
	suppress map[*ast.Node]bool
}

// New creates a decorator-downleveling Pass bound to one file's checker and
// diagnostic sink. sourceFile provides the raw text used to render decorator
// callee/argument expressions verbatim into the metadata literals.
func New(checker *shimchecker.Checker, diags *diagnostic.Collector, sourceFile *ast.SourceFile) *Pass {
	return &Pass{
		checker:  checker,
		diags:    diags,
		file:     sourceFile.FileName(),
		text:     sourceFile.Text(),
		suppress: make(map[*ast.Node]bool),
	}
}

// Visitor returns the rewriter.Visitor this pass drives. Register it with
// rewriter.New before calling VisitAll.
func (p *Pass) Visitor() rewriter.Visitor {
	return p.visit
}

func (p *Pass) visit(r *rewriter.Rewriter, node *ast.Node) bool {
	switch node.Kind {
	case ast.KindClassDeclaration, ast.KindClassExpression:
		return p.visitClass(r, node)
	case ast.KindDecorator:
		if p.suppress[node] {
			r.WriteRange(r.Cursor(), node.Pos())
			r.SkipRange(node.End())
			return true
		}
		return false
	default:
		return false
	}
}

func (p *Pass) visitClass(r *rewriter.Rewriter, classNode *ast.Node) bool {
	meta := p.buildMetadata(classNode)

	classNode.ForEachChild(func(child *ast.Node) bool {
		r.Visit(child)
		return false
	})

	if meta.Empty() {
		r.WriteRange(r.Cursor(), classNode.End())
		return true
	}

	// The closing brace is the class declaration's last character; nothing
	// in a class body can legally follow it within the node's own range.
	braceStart := classNode.End() - 1
	r.WriteRange(r.Cursor(), braceStart)
	r.Emit(meta.Render())
	r.WriteRange(braceStart, classNode.End())
	return true
}

func (p *Pass) buildMetadata(classNode *ast.Node) *Metadata {
	meta := &Metadata{PropDecorators: make(map[string][]Call)}

	for _, dec := range classDecorators(classNode) {
		origin := ResolveOrigin(dec, p.checker)
		if !IsLowerable(origin) {
			continue
		}
		p.suppress[dec] = true
		meta.ClassDecorators = append(meta.ClassDecorators, p.renderCall(dec, origin))
	}

	ctor := findConstructor(classNode)
	if ctor != nil {
		for _, param := range ctorParameters(ctor) {
			meta.CtorParams = append(meta.CtorParams, p.buildParamMetadata(param))
		}
	}

	for _, member := range classMembers(classNode) {
		if member == ctor {
			continue
		}
		calls := p.buildMemberDecorators(member)
		if len(calls) == 0 {
			continue
		}
		name, ok := memberName(member)
		if !ok {
			p.diags.Error(diagnostic.CategoryDecoratorMetadata, p.file, 0,
				"decorator on a computed member name cannot be lowered")
			continue
		}
		meta.propOrder = append(meta.propOrder, name)
		meta.PropDecorators[name] = calls
	}

	return meta
}

func (p *Pass) buildParamMetadata(param *ast.Node) Param {
	pd := param.AsParameterDeclaration()
	var out Param
	if pd.Type != nil {
		out.TypeExpr = valueIdentifier(pd.Type)
	}
	for _, dec := range decoratorsOf(param) {
		origin := ResolveOrigin(dec, p.checker)
		if !IsLowerable(origin) {
			continue
		}
		p.suppress[dec] = true
		out.Decorators = append(out.Decorators, p.renderCall(dec, origin))
	}
	return out
}

func (p *Pass) buildMemberDecorators(member *ast.Node) []Call {
	var calls []Call
	for _, dec := range decoratorsOf(member) {
		origin := ResolveOrigin(dec, p.checker)
		if !IsLowerable(origin) {
			continue
		}
		p.suppress[dec] = true
		calls = append(calls, p.renderCall(dec, origin))
	}
	return calls
}

func (p *Pass) renderCall(dec *ast.Node, origin *Origin) Call {
	expr := dec.AsDecorator().Expression
	callee := expr
	var args []string
	if callee.Kind == ast.KindCallExpression {
		call := callee.AsCallExpression()
		callee = call.Expression
		if call.Arguments != nil {
			for _, arg := range call.Arguments.Nodes {
				args = append(args, p.sourceText(arg))
			}
		}
	}
	return Call{TypeExpr: p.sourceText(callee), Args: args}
}

func (p *Pass) sourceText(node *ast.Node) string {
	return strings.TrimSpace(p.text[node.Pos():node.End()])
}

// CollectMetadata walks every class in sf and returns the DecoratorMetadata
// that would be lowered for it, keyed by class name. Classes with nothing
// to lower are omitted, and anonymous class expressions are skipped since
// they have no name to key the map by. This drives `tsickle dump`, which
// reports the metadata table without running the rewriter over the file.
func (p *Pass) CollectMetadata(sf *ast.SourceFile) map[string]*Metadata {
	out := make(map[string]*Metadata)
	var walk func(node *ast.Node)
	walk = func(node *ast.Node) {
		if node.Kind == ast.KindClassDeclaration {
			if name := node.AsClassDeclaration().Name(); name != nil {
				if meta := p.buildMetadata(node); !meta.Empty() {
					out[name.Text()] = meta
				}
			}
		}
		node.ForEachChild(func(child *ast.Node) bool {
			walk(child)
			return false
		})
	}
	walk(sf.AsNode())
	return out
}

// valueIdentifier renders a type annotation node as the bare identifier
// text Closure/JS can reference as a value (a class constructor), matching
// §4.2's "value identifier" path: `Svc` for `a: Svc`, "" for anything that
// is not a simple type reference (generics, unions, primitives have no
// runtime class to reference).
func valueIdentifier(typeNode *ast.Node) string {
	if typeNode.Kind != ast.KindTypeReference {
		return ""
	}
	ref := typeNode.AsTypeReferenceNode()
	if ref.TypeName == nil || ref.TypeName.Kind != ast.KindIdentifier {
		return ""
	}
	return ref.TypeName.Text()
}

func classDecorators(classNode *ast.Node) []*ast.Node {
	return decoratorsOf(classNode)
}

func decoratorsOf(node *ast.Node) []*ast.Node {
	return node.Decorators()
}

func findConstructor(classNode *ast.Node) *ast.Node {
	for _, m := range classMembers(classNode) {
		if m.Kind == ast.KindConstructor {
			return m
		}
	}
	return nil
}

func classMembers(classNode *ast.Node) []*ast.Node {
	cls := classNode.AsClassDeclaration()
	if cls == nil || cls.Members == nil {
		return nil
	}
	return cls.Members.Nodes
}

func ctorParameters(ctor *ast.Node) []*ast.Node {
	fn := ctor.AsConstructorDeclaration()
	if fn == nil || fn.Parameters == nil {
		return nil
	}
	return fn.Parameters.Nodes
}

// memberName returns a method/property/accessor's name and whether it is a
// simple (non-computed) name eligible for propDecorators keying.
func memberName(member *ast.Node) (string, bool) {
	name := member.Name()
	if name == nil {
		return "", false
	}
	if name.Kind == ast.KindComputedPropertyName {
		return "", false
	}
	return name.Text(), true
}
