// Package typetranslator converts TypeScript types, as resolved by the tsgo
// checker, into Closure Compiler JSDoc type expressions. It is the core's
// Type Translator: every other pass that needs to render a TS type as a
// string (the JSDoc Annotator for parameter/property/return types, the
// Externs Generator for ambient declarations) goes through a Translator.
package typetranslator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"

	"github.com/tsickle-go/tsickle/internal/diagnostic"
)

// maxWalkDepth bounds recursion into nested type structure. Conditional and
// mapped types can expand without bound (TypedOmit-style aliases produce a
// fresh anonymous type at every level); past this depth the translator
// degrades to the unknown type rather than overflowing the stack.
const maxWalkDepth = 20

// maxTotalTypes bounds the number of distinct types visited while
// translating a single top-level type, guarding against wide object graphs
// (schema.org-style interface webs) rather than deep ones.
const maxTotalTypes = 500

// Kind discriminates the shape of a TypeExpression.
type Kind int

const (
	KindAny Kind = iota
	KindUnknown
	KindVoid
	KindAtomic  // string, number, boolean, bigint, symbol, null, undefined
	KindArray   // Array<Elem>
	KindRecord  // inline object literal type: {field: Type, ...}
	KindUnion   // (A|B|C)
	KindFunction
	KindNamed // reference to a declared interface/class: Foo
)

// cycleEntry records why a TypeId is currently mid-walk. isAlias marks a
// type-alias target being unfolded via TranslateNamed: if the same TypeId
// is reached again before the outer call returns, there is no nominal type
// to reference (a type alias has no runtime constructor), so the
// self-reference degrades to Unknown() rather than a KindNamed back-edge.
// A non-alias entry (an interface or class the checker names directly)
// does have something to reference, so its self-reference renders as
// KindNamed instead.
type cycleEntry struct {
	name    string
	isAlias bool
}

// Property is one field of a KindRecord TypeExpression.
type Property struct {
	Name     string
	Type     *TypeExpression
	Optional bool
}

// FunctionSignature describes a KindFunction TypeExpression in Closure's
// function(this:T, P1, P2): R grammar.
type FunctionSignature struct {
	This    *TypeExpression // nil if the signature has no explicit this type
	Params  []*TypeExpression
	Return  *TypeExpression
	IsNew   bool
}

// TypeExpression is a Closure JSDoc type, closed under the operations
// nullable/array/union/function/record/templated the way a TS type is
// closed under the analogous TS operations. Render renders it to the exact
// string that goes inside a JSDoc {...} type annotation.
type TypeExpression struct {
	Kind Kind

	Atomic string // set when Kind == KindAtomic: "string", "number", "null", ...

	Nullable bool // object-ish kinds (Array, Record, Named, Function) default non-null; ? marks nullable
	Elem     *TypeExpression    // KindArray
	Fields   []Property         // KindRecord
	Members  []*TypeExpression  // KindUnion
	Name     string             // KindNamed: the interface/class name to emit as !Name
	Func     *FunctionSignature // KindFunction
}

// Any is the Closure "don't know, don't check" type.
func Any() *TypeExpression { return &TypeExpression{Kind: KindAny} }

// Unknown is Closure's explicit unknown-type marker, rendered the same as
// Any ("?") — tsickle never needs to distinguish the two in emitted JSDoc,
// only in its own diagnostics about why a type degraded.
func Unknown() *TypeExpression { return &TypeExpression{Kind: KindUnknown} }

// Render renders the type expression to Closure JSDoc type syntax, e.g.
// "?", "!Array<string>", "(string|null)", "function(this: Foo, number): void".
func (t *TypeExpression) Render() string {
	if t == nil {
		return "?"
	}
	switch t.Kind {
	case KindAny, KindUnknown:
		return "?"
	case KindVoid:
		return "void"
	case KindAtomic:
		return t.Atomic
	case KindArray:
		return t.bang() + "Array<" + t.Elem.Render() + ">"
	case KindRecord:
		return t.bang() + "{" + t.renderFields() + "}"
	case KindUnion:
		return t.renderUnion()
	case KindFunction:
		return t.renderFunction()
	case KindNamed:
		return t.bang() + t.Name
	default:
		return "?"
	}
}

// bang renders the Closure nullability prefix for object-ish kinds: "!" for
// non-null (the default TS gives an object-typed value absent "| null"),
// "" (bare) when Nullable is set, matching Closure's inverted-default
// nullability for reference types.
func (t *TypeExpression) bang() string {
	if t.Nullable {
		return ""
	}
	return "!"
}

func (t *TypeExpression) renderFields() string {
	names := make([]string, 0, len(t.Fields))
	byName := make(map[string]Property, len(t.Fields))
	for _, f := range t.Fields {
		names = append(names, f.Name)
		byName[f.Name] = f
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		f := byName[n]
		key := f.Name
		if f.Optional {
			key += "="
		}
		parts = append(parts, fmt.Sprintf("%s: %s", key, f.Type.Render()))
	}
	return strings.Join(parts, ", ")
}

func (t *TypeExpression) renderUnion() string {
	if len(t.Members) == 0 {
		return "?"
	}
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.Render()
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, "|") + ")"
}

func (t *TypeExpression) renderFunction() string {
	if t.Func == nil {
		return "Function"
	}
	var sb strings.Builder
	sb.WriteString("function(")
	first := true
	write := func(s string) {
		if !first {
			sb.WriteString(", ")
		}
		sb.WriteString(s)
		first = false
	}
	if t.Func.IsNew {
		write("new: " + renderOrUnknown(t.Func.This))
	} else if t.Func.This != nil {
		write("this: " + t.Func.This.Render())
	}
	for _, p := range t.Func.Params {
		write(p.Render())
	}
	sb.WriteString(")")
	if t.Func.Return != nil && t.Func.Return.Kind != KindVoid {
		sb.WriteString(": ")
		sb.WriteString(t.Func.Return.Render())
	} else if t.Func.Return != nil {
		sb.WriteString(": void")
	}
	return sb.String()
}

func renderOrUnknown(t *TypeExpression) string {
	if t == nil {
		return "?"
	}
	return t.Render()
}

// Translator walks tsgo checker types and produces TypeExpressions. It
// tracks which TypeIds are currently being translated (to break cycles in
// recursive interfaces, turning a self-reference into a KindNamed ref
// instead of an infinite inline expansion) and which named types have been
// referenced at all (so the Externs/Annotator passes know which interfaces
// need a synthesized prototype stub).
type Translator struct {
	checker *shimchecker.Checker
	diags   *diagnostic.Collector
	file    string

	// Untyped puts the translator in "untyped mode": every type renders as
	// "?" regardless of what the checker resolves, matching tsickle's
	// untyped-output mode for code bases migrating incrementally.
	Untyped bool

	translating map[shimchecker.TypeId]cycleEntry // TypeId -> entry, while mid-walk
	depth       int
	visitedCount int

	namedTypes map[string]bool // names referenced via KindNamed, in first-seen order
	namedOrder []string
}

// New creates a Translator bound to one checker instance and diagnostic
// sink. file is used only to attribute degraded-type diagnostics.
func New(checker *shimchecker.Checker, diags *diagnostic.Collector, file string) *Translator {
	return &Translator{
		checker:     checker,
		diags:       diags,
		file:        file,
		translating: make(map[shimchecker.TypeId]cycleEntry),
		namedTypes:  make(map[string]bool),
	}
}

// NamedTypes returns, in first-encountered order, the names of every
// interface/class type the translator rendered as a KindNamed reference.
// The Externs Generator and JSDoc Annotator use this to know which
// declarations need a synthesized prototype stub or externs entry.
func (tr *Translator) NamedTypes() []string {
	out := make([]string, len(tr.namedOrder))
	copy(out, tr.namedOrder)
	return out
}

func (tr *Translator) noteNamed(name string) {
	if name == "" || tr.namedTypes[name] {
		return
	}
	tr.namedTypes[name] = true
	tr.namedOrder = append(tr.namedOrder, name)
}

// degrade records why a type could not be translated precisely and returns
// the unknown type in its place.
func (tr *Translator) degrade(reason string) *TypeExpression {
	tr.diags.Warn(diagnostic.CategoryTranslation, tr.file, 0, reason)
	return Unknown()
}

// enterWalk applies the depth/breadth guards shared by every walk entry
// point (Translate and TranslateNamed): it resets the per-top-level-walk
// visited counter at depth 0, then bounds both how deep and how wide a
// single top-level type may expand before the translator gives up and
// degrades to "?". leave must be deferred by the caller regardless of
// whether reason is set, so depth bookkeeping stays balanced.
func (tr *Translator) enterWalk() (reason string, leave func()) {
	if tr.depth == 0 {
		tr.visitedCount = 0
	}
	if tr.depth >= maxWalkDepth {
		return "type nesting exceeded translation depth limit, emitting ?", func() {}
	}
	tr.depth++
	tr.visitedCount++
	if tr.visitedCount > maxTotalTypes {
		return "type graph exceeded translation breadth limit, emitting ?", func() { tr.depth-- }
	}
	return "", func() { tr.depth-- }
}

// Translate converts a resolved tsgo Type into a TypeExpression.
func (tr *Translator) Translate(t *shimchecker.Type) *TypeExpression {
	if tr.Untyped {
		return Unknown()
	}
	if t == nil {
		return Any()
	}

	reason, leave := tr.enterWalk()
	defer leave()
	if reason != "" {
		return tr.degrade(reason)
	}

	flags := t.Flags()
	if flags&shimchecker.TypeFlagsUnion != 0 {
		return tr.translateUnion(t)
	}
	if flags&shimchecker.TypeFlagsIntersection != 0 {
		return tr.translateIntersection(t)
	}
	return tr.translateSingle(t)
}

// TranslateNamed translates t as the target of a declaration known by name
// (currently: a type alias's own declared name) rather than whatever name
// the checker's symbol carries. Grounded on the teacher's type_walker.go
// WalkNamedType, which keys its own cycle guard by the alias's declared
// name for exactly this reason: a type alias to an object literal resolves
// to an anonymous type (namedTypeOf returns ""), so the generic
// translateObject cycle guard never fires for `type R = {v: number, next:
// R}` and the translator would otherwise unfold next's reference to R
// until maxWalkDepth gives up, instead of breaking after one level the way
// spec scenario 2 requires.
func (tr *Translator) TranslateNamed(name string, t *shimchecker.Type) *TypeExpression {
	if tr.Untyped {
		return Unknown()
	}
	if t == nil {
		return Any()
	}

	if existing, ok := tr.translating[t.Id()]; ok {
		tr.noteNamed(existing.name)
		if existing.isAlias {
			return Unknown()
		}
		return &TypeExpression{Kind: KindNamed, Name: existing.name}
	}

	reason, leave := tr.enterWalk()
	defer leave()
	if reason != "" {
		return tr.degrade(reason)
	}

	tr.translating[t.Id()] = cycleEntry{name: name, isAlias: true}
	defer delete(tr.translating, t.Id())

	if t.Flags()&shimchecker.TypeFlagsObject != 0 {
		return tr.translateObjectShape(t)
	}
	return tr.translateSingle(t)
}

// TranslateAliasTypeNode resolves node (a type alias's right-hand side) and
// translates it via TranslateNamed, keyed by the alias's own declared name.
func (tr *Translator) TranslateAliasTypeNode(name string, node *ast.Node) *TypeExpression {
	t := shimchecker.Checker_getTypeFromTypeNode(tr.checker, node)
	return tr.TranslateNamed(name, t)
}

// TranslateTypeNode translates the type the checker resolves for an AST
// type-annotation node. When that translation is not a KindNamed reference
// but the node is written as a plain type reference (e.g. "Foo" in
// `x: Foo`), the written name is recorded in NamedTypes; the returned
// expression is still the resolved translation, not "!Foo".
func (tr *Translator) TranslateTypeNode(node *ast.Node) *TypeExpression {
	t := shimchecker.Checker_getTypeFromTypeNode(tr.checker, node)
	expr := tr.Translate(t)
	if expr.Kind != KindNamed && node.Kind == ast.KindTypeReference {
		ref := node.AsTypeReferenceNode()
		if ref.TypeName != nil && ref.TypeName.Kind == ast.KindIdentifier {
			name := ref.TypeName.Text()
			if name != "Promise" && name != "Observable" && name != "Array" {
				tr.noteNamed(name)
			}
		}
	}
	return expr
}

func (tr *Translator) translateSingle(t *shimchecker.Type) *TypeExpression {
	flags := t.Flags()

	switch {
	case flags&shimchecker.TypeFlagsAny != 0:
		return Any()
	case flags&shimchecker.TypeFlagsUnknown != 0:
		return Unknown()
	case flags&shimchecker.TypeFlagsNever != 0:
		return tr.degrade("never has no Closure equivalent, emitting ?")
	case flags&shimchecker.TypeFlagsVoid != 0:
		return &TypeExpression{Kind: KindVoid}
	case flags&shimchecker.TypeFlagsNull != 0:
		return &TypeExpression{Kind: KindAtomic, Atomic: "null"}
	case flags&shimchecker.TypeFlagsUndefined != 0:
		return &TypeExpression{Kind: KindAtomic, Atomic: "undefined"}
	case flags&shimchecker.TypeFlagsNumberLiteral != 0:
		// Closure has no literal-value types: a literal degrades to its base
		// atomic type, the same approximation tsickle's annotator documents
		// for const-asserted and enum-member literal types.
		return &TypeExpression{Kind: KindAtomic, Atomic: "number"}
	case flags&(shimchecker.TypeFlagsStringLiteral|shimchecker.TypeFlagsEnumLiteral) != 0:
		return &TypeExpression{Kind: KindAtomic, Atomic: "string"}
	case flags&shimchecker.TypeFlagsBooleanLiteral != 0:
		return &TypeExpression{Kind: KindAtomic, Atomic: "boolean"}
	case flags&shimchecker.TypeFlagsBigIntLiteral != 0:
		return &TypeExpression{Kind: KindAtomic, Atomic: "bigint"}
	case flags&shimchecker.TypeFlagsString != 0:
		return &TypeExpression{Kind: KindAtomic, Atomic: "string"}
	case flags&shimchecker.TypeFlagsNumber != 0:
		return &TypeExpression{Kind: KindAtomic, Atomic: "number"}
	case flags&shimchecker.TypeFlagsBoolean != 0:
		return &TypeExpression{Kind: KindAtomic, Atomic: "boolean"}
	case flags&shimchecker.TypeFlagsBigInt != 0:
		return &TypeExpression{Kind: KindAtomic, Atomic: "bigint"}
	case flags&shimchecker.TypeFlagsESSymbol != 0:
		return &TypeExpression{Kind: KindAtomic, Atomic: "symbol"}
	case flags&shimchecker.TypeFlagsTemplateLiteral != 0:
		return tr.translateTemplateLiteral(t)
	case flags&shimchecker.TypeFlagsObject != 0:
		return tr.translateObject(t)
	case flags&(shimchecker.TypeFlagsTypeParameter|shimchecker.TypeFlagsConditional|shimchecker.TypeFlagsIndexedAccess|shimchecker.TypeFlagsIndex) != 0:
		if constraint := shimchecker.Checker_getBaseConstraintOfType(tr.checker, t); constraint != nil && constraint != t {
			return tr.Translate(constraint)
		}
		return tr.degrade("type parameter/conditional/indexed-access type has no resolvable constraint, emitting ?")
	default:
		return tr.degrade("unrecognized type flags, emitting ?")
	}
}

// translateTemplateLiteral renders a template literal type as plain string:
// Closure JSDoc has no analogue of TS template literal types, and the
// pattern they imply is a runtime-validation concern, not a type-annotation
// one, so the Annotator only needs the base type here.
func (tr *Translator) translateTemplateLiteral(t *shimchecker.Type) *TypeExpression {
	return &TypeExpression{Kind: KindAtomic, Atomic: "string"}
}

func (tr *Translator) translateUnion(t *shimchecker.Type) *TypeExpression {
	members := t.Types()
	if len(members) == 0 {
		return tr.degrade("empty union, emitting ?")
	}

	var rendered []*TypeExpression
	nullable := false
	sawBoolTrue, sawBoolFalse := false, false

	for _, m := range members {
		flags := m.Flags()
		if flags&shimchecker.TypeFlagsNull != 0 {
			nullable = true
			continue
		}
		if flags&shimchecker.TypeFlagsUndefined != 0 {
			nullable = true
			continue
		}
		if flags&shimchecker.TypeFlagsBooleanLiteral != 0 {
			lit := m.AsLiteralType()
			if lit != nil {
				if b, ok := lit.Value().(bool); ok {
					if b {
						sawBoolTrue = true
					} else {
						sawBoolFalse = true
					}
					continue
				}
			}
		}
		rendered = append(rendered, tr.Translate(m))
	}
	if sawBoolTrue || sawBoolFalse {
		rendered = append(rendered, &TypeExpression{Kind: KindAtomic, Atomic: "boolean"})
	}

	var result *TypeExpression
	switch len(rendered) {
	case 0:
		result = Any()
	case 1:
		result = rendered[0]
	default:
		result = &TypeExpression{Kind: KindUnion, Members: dedupeMembers(rendered)}
	}
	if nullable && isNullable(result) {
		result = withNullable(result)
	} else if nullable {
		result = &TypeExpression{Kind: KindUnion, Members: dedupeMembers(append(rendered, &TypeExpression{Kind: KindAtomic, Atomic: "null"}))}
	}
	return result
}

func isNullable(t *TypeExpression) bool {
	switch t.Kind {
	case KindArray, KindRecord, KindNamed, KindFunction:
		return true
	default:
		return false
	}
}

func withNullable(t *TypeExpression) *TypeExpression {
	cp := *t
	cp.Nullable = true
	return &cp
}

func dedupeMembers(members []*TypeExpression) []*TypeExpression {
	seen := make(map[string]bool, len(members))
	out := make([]*TypeExpression, 0, len(members))
	for _, m := range members {
		key := m.Render()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// translateIntersection flattens A & B into a single KindRecord when every
// member resolves to an object shape (the common "merge two interfaces"
// idiom); otherwise it falls back to the first member, matching the
// approximation tsickle documents for mixed intersections like branded
// primitives (string & {__brand: 'Email'}), which Closure cannot express
// precisely.
func (tr *Translator) translateIntersection(t *shimchecker.Type) *TypeExpression {
	members := t.Types()
	if len(members) == 0 {
		return Any()
	}
	if len(members) == 1 {
		return tr.Translate(members[0])
	}

	var fields []Property
	allRecords := true
	for _, m := range members {
		translated := tr.Translate(m)
		if translated.Kind != KindRecord {
			allRecords = false
			break
		}
		fields = append(fields, translated.Fields...)
	}
	if allRecords {
		return &TypeExpression{Kind: KindRecord, Fields: mergeFields(fields)}
	}
	return tr.Translate(members[0])
}

func mergeFields(fields []Property) []Property {
	byName := make(map[string]int, len(fields))
	var out []Property
	for _, f := range fields {
		if idx, ok := byName[f.Name]; ok {
			out[idx] = f
			continue
		}
		byName[f.Name] = len(out)
		out = append(out, f)
	}
	return out
}

// translateObject is the entry point translateSingle dispatches
// TypeFlagsObject types through. It checks the cycle guard first: a type
// reached again while its own translation is still on the stack (either a
// real named interface/class registered by translateObjectShape below, or
// an alias target registered by TranslateNamed) never re-enters shape
// classification.
func (tr *Translator) translateObject(t *shimchecker.Type) *TypeExpression {
	if existing, ok := tr.translating[t.Id()]; ok {
		tr.noteNamed(existing.name)
		if existing.isAlias {
			return Unknown()
		}
		return &TypeExpression{Kind: KindNamed, Name: existing.name}
	}
	return tr.translateObjectShape(t)
}

// translateObjectShape classifies an object type's concrete shape: array,
// tuple, one of a handful of well-known generic names, a call signature, a
// named interface/class reference, or an inline record.
func (tr *Translator) translateObjectShape(t *shimchecker.Type) *TypeExpression {
	if shimchecker.Checker_isArrayType(tr.checker, t) {
		args := shimchecker.Checker_getTypeArguments(tr.checker, t)
		elem := Any()
		if len(args) > 0 {
			elem = tr.Translate(args[0])
		}
		return &TypeExpression{Kind: KindArray, Elem: elem}
	}

	if shimchecker.IsTupleType(t) {
		return tr.translateTuple(t)
	}

	if sym := t.Symbol(); sym != nil {
		switch sym.Name {
		case "Date":
			return &TypeExpression{Kind: KindNamed, Name: "Date"}
		case "RegExp":
			return &TypeExpression{Kind: KindNamed, Name: "RegExp"}
		case "Promise":
			if args := shimchecker.Checker_getTypeArguments(tr.checker, t); len(args) > 0 {
				return tr.Translate(args[0])
			}
			return Any()
		case "Observable":
			if args := shimchecker.Checker_getTypeArguments(tr.checker, t); len(args) > 0 {
				return tr.Translate(args[0])
			}
			return Any()
		case "Map":
			return &TypeExpression{Kind: KindNamed, Name: tr.genericName("Map", t)}
		case "Set":
			return &TypeExpression{Kind: KindNamed, Name: tr.genericName("Set", t)}
		}
	}

	callSigs := shimchecker.Checker_getSignaturesOfType(tr.checker, t, shimchecker.SignatureKindCall)
	if len(callSigs) > 0 {
		return tr.translateFunction(callSigs[0])
	}

	typeName := tr.namedTypeOf(t)
	if typeName != "" {
		tr.translating[t.Id()] = cycleEntry{name: typeName}
		fields := tr.objectFields(t)
		delete(tr.translating, t.Id())
		tr.noteNamed(typeName)
		_ = fields // the field shape is owned by the Annotator's interface stub synthesis, not the reference itself
		return &TypeExpression{Kind: KindNamed, Name: typeName}
	}

	return &TypeExpression{Kind: KindRecord, Fields: tr.objectFields(t)}
}

func (tr *Translator) genericName(base string, t *shimchecker.Type) string {
	args := shimchecker.Checker_getTypeArguments(tr.checker, t)
	if len(args) == 0 {
		return base
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = tr.Translate(a).Render()
	}
	return fmt.Sprintf("%s<%s>", base, strings.Join(parts, ", "))
}

func (tr *Translator) objectFields(t *shimchecker.Type) []Property {
	props := shimchecker.Checker_getPropertiesOfType(tr.checker, t)
	fields := make([]Property, 0, len(props))
	for _, prop := range props {
		propType := shimchecker.Checker_getTypeOfSymbol(tr.checker, prop)
		optional := prop.Flags&ast.SymbolFlagsOptional != 0
		fields = append(fields, Property{
			Name:     prop.Name,
			Type:     tr.Translate(propType),
			Optional: optional,
		})
	}
	return fields
}

// namedTypeOf returns the declared name of an object type worth referencing
// by name (an interface or class), or "" for anonymous object literals and
// type-alias targets, which should be inlined as records instead.
func (tr *Translator) namedTypeOf(t *shimchecker.Type) string {
	if shimchecker.Type_objectFlags(t)&shimchecker.ObjectFlagsAnonymous != 0 {
		return ""
	}
	sym := t.Symbol()
	if sym == nil || sym.Name == "" {
		return ""
	}
	name := sym.Name
	if name == "__type" || name == "__object" || name == "__function" {
		return ""
	}
	if name[0] == '\xfe' {
		return ""
	}
	return name
}

func (tr *Translator) translateTuple(t *shimchecker.Type) *TypeExpression {
	args := shimchecker.Checker_getTypeArguments(tr.checker, t)
	elems := make([]*TypeExpression, len(args))
	for i, a := range args {
		elems[i] = tr.Translate(a)
	}
	// Closure has no tuple syntax; the Array<(A|B|...)> approximation is the
	// one tsickle documents for tuple types.
	return &TypeExpression{Kind: KindArray, Elem: &TypeExpression{Kind: KindUnion, Members: dedupeMembers(elems)}}
}

// translateFunction renders a call signature as Closure's function(...) type.
func (tr *Translator) translateFunction(sig *shimchecker.Signature) *TypeExpression {
	params := shimchecker.Signature_Parameters(sig)
	rendered := make([]*TypeExpression, 0, len(params))
	for _, p := range params {
		rendered = append(rendered, tr.Translate(shimchecker.Checker_getTypeOfSymbol(tr.checker, p)))
	}
	ret := tr.Translate(shimchecker.Checker_getReturnTypeOfSignature(tr.checker, sig))
	return &TypeExpression{Kind: KindFunction, Func: &FunctionSignature{
		Params: rendered,
		Return: ret,
	}}
}
