// Package rewriter implements the position-preserving text emitter shared
// by every pass in the core: the JSDoc Annotator and the Decorator
// Downleveler both drive a Rewriter over a *ast.SourceFile and trust that
// any subtree neither one overrides is reproduced byte-for-byte.
//
// The approach is the teacher's own: walk the AST with ast.Node.ForEachChild
// the way internal/rewrite/extract.go's walkNode does, and copy
// sourceFile.Text()[start:end] verbatim between visited positions the way
// the ES5 processor (internal/rewrite/markers.go) copies unmatched lines
// verbatim. tsgonest never needed to fuse those two idioms into one
// generic node rewriter because its own rewrites operate purely on emitted
// text; the core's Annotator and Decorator Downleveler operate on the
// TypeScript AST itself, so the fusion is new.
package rewriter

import (
	"fmt"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"

	"github.com/tsickle-go/tsickle/internal/diagnostic"
	"github.com/tsickle-go/tsickle/internal/sourcemap"
)

// Visitor is the single capability the Rewriter invokes for every node it
// visits. Returning handled=false tells the Rewriter to copy the node
// verbatim and recurse into its children on the visitor's behalf; returning
// handled=true means the visitor already took care of emitting (or skipping)
// this node's range, including any recursion into its children it wants.
type Visitor func(r *Rewriter, node *ast.Node) (handled bool)

// Rewriter streams the output for one source file, reproducing the input
// verbatim except where the Visitor overrides a subtree.
type Rewriter struct {
	file    *ast.SourceFile
	text    string
	visit   Visitor
	out     strings.Builder
	cursor  int // next unwritten input offset
	diags   *diagnostic.Collector
	sourceIndex int
	sm      *sourcemap.Builder // nil if no source map requested
}

// New creates a Rewriter over a source file. visit is consulted for every
// node reached by Emit; sm may be nil to skip source-map tracking.
func New(file *ast.SourceFile, visit Visitor, diags *diagnostic.Collector, sm *sourcemap.Builder) *Rewriter {
	r := &Rewriter{
		file:  file,
		text:  file.Text(),
		visit: visit,
		diags: diags,
		sm:    sm,
	}
	if sm != nil {
		r.sourceIndex = sm.AddSource(file.FileName())
	}
	return r
}

// File returns the source file being rewritten.
func (r *Rewriter) File() *ast.SourceFile {
	return r.file
}

// Text returns the full original source text.
func (r *Rewriter) Text() string {
	return r.text
}

// Cursor returns the next unwritten input offset.
func (r *Rewriter) Cursor() int {
	return r.cursor
}

// WriteRange copies the verbatim substring [start, end) of the input to the
// output and advances the cursor to end. It is a no-op (but not an error) if
// start < r.cursor: the range has already been emitted by an earlier call.
func (r *Rewriter) WriteRange(start, end int) {
	if start < r.cursor {
		start = r.cursor
	}
	if end <= start {
		return
	}
	if end > len(r.text) {
		r.assertionFailure(fmt.Sprintf("WriteRange(%d,%d) exceeds source length %d", start, end, len(r.text)))
		end = len(r.text)
		if end <= start {
			return
		}
	}
	chunk := r.text[start:end]
	r.mark(start)
	r.out.WriteString(chunk)
	r.advance(chunk)
	r.cursor = end
}

// SkipRange advances the cursor to end without writing [cursor, end) to the
// output — used by the Decorator Downleveler to elide a lowered decorator's
// own text while still flushing the whitespace that preceded it (a separate
// WriteRange up to the decorator's start, made by the caller first).
func (r *Rewriter) SkipRange(end int) {
	if end > r.cursor {
		r.cursor = end
	}
}

// Emit appends synthetic text to the output without advancing the cursor or
// consuming any input range. Source-mapped as belonging to no particular
// input position (a generated line).
func (r *Rewriter) Emit(text string) {
	r.out.WriteString(text)
	r.advance(text)
}

// Visit dispatches to the configured Visitor. If the visitor does not
// handle the node, Visit copies [node.Pos(), node.End()) verbatim, visiting
// children first so their own overrides are honored — this is what gives
// "copy verbatim except where overridden" its compositional guarantee.
func (r *Rewriter) Visit(node *ast.Node) {
	if node == nil {
		return
	}
	if r.visit != nil && r.visit(r, node) {
		return
	}
	r.WriteNodeFrom(node, node.Pos())
}

// WriteNodeFrom copies [start, node.End()) to the output, but descends into
// node's children first so that any Visitor override for a descendant still
// takes effect — the descendant's own WriteRange calls will have already
// advanced the cursor past its range by the time this catches up.
func (r *Rewriter) WriteNodeFrom(node *ast.Node, start int) {
	if node == nil {
		return
	}
	node.ForEachChild(func(child *ast.Node) bool {
		r.Visit(child)
		return false
	})
	r.WriteRange(start, node.End())
}

// VisitAll visits every top-level statement of the source file and finally
// flushes any trailing text (trailing trivia, EOF) verbatim.
func (r *Rewriter) VisitAll() {
	r.file.AsNode().ForEachChild(func(child *ast.Node) bool {
		r.Visit(child)
		return false
	})
	r.WriteRange(r.cursor, len(r.text))
}

// Error records a diagnostic at the node's position and keeps going — the
// core's passes never throw on source errors.
func (r *Rewriter) Error(node *ast.Node, category diagnostic.Category, message string) {
	if r.diags == nil {
		return
	}
	line, col := 0, 0
	if node != nil {
		line, col = lineAndColumn(r.file, node.Pos())
	}
	r.diags.Error(category, r.file.FileName(), line, fmt.Sprintf("%s (column %d)", message, col))
}

// assertionFailure records an internal invariant violation as a
// CategoryAssertion error. It does not stop the rewrite: the caller goes
// on with its range clamped to the source length, and the file's output is
// still produced.
func (r *Rewriter) assertionFailure(message string) {
	if r.diags != nil {
		r.diags.Error(diagnostic.CategoryAssertion, r.file.FileName(), 0, message)
	}
}

// String returns the accumulated output text.
func (r *Rewriter) String() string {
	return r.out.String()
}

// SourceMapBuilder returns the associated source-map builder, or nil.
func (r *Rewriter) SourceMapBuilder() *sourcemap.Builder {
	return r.sm
}

func (r *Rewriter) mark(inputPos int) {
	if r.sm != nil {
		r.sm.Mark(r.file, inputPos, r.sourceIndex)
	}
}

func (r *Rewriter) advance(text string) {
	if r.sm != nil {
		r.sm.Advance(text)
	}
}
