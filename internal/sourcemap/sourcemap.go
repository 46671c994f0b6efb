// Package sourcemap builds source-map-v3 payloads for a Rewriter's output,
// mapping emitted (line, column) positions back to the original TypeScript
// source the way the rewriter's "optional collaborator" is described in the
// core's design: it receives a mapping on every verbatim copy and every
// synthetic emit.
//
// No source-map library is grounded in the example pack (the pack's only
// "sourcemap"-looking go.mod hits are unrelated GCP "resourcemapping"
// packages), so this is a small hand-rolled VLQ/base64 encoder over the
// standard library, reusing the shim's own line/column resolution
// (shim/scanner) rather than re-deriving it.
package sourcemap

import (
	"strings"

	shimscanner "github.com/microsoft/typescript-go/shim/scanner"

	"github.com/microsoft/typescript-go/shim/ast"
)

// Segment is one mapping from an output position to an input position.
type Segment struct {
	OutputLine   int // 0-based
	OutputColumn int // 0-based
	SourceIndex  int
	InputLine    int // 0-based
	InputColumn  int // 0-based
}

// Builder accumulates mappings while a Rewriter streams output text.
type Builder struct {
	sources  []string
	segments []Segment
	// cursor tracks where the next emitted byte lands in the output, so
	// callers only need to report the *length* of copied/emitted text.
	outLine int
	outCol  int
}

// NewBuilder creates a Builder with a fixed list of source file names,
// indexed as spec.md's ModuleRewriteTable indexes require()s: by position.
func NewBuilder(sources []string) *Builder {
	return &Builder{sources: sources}
}

// AddSource registers another source file and returns its index.
func (b *Builder) AddSource(name string) int {
	for i, s := range b.sources {
		if s == name {
			return i
		}
	}
	b.sources = append(b.sources, name)
	return len(b.sources) - 1
}

// Mark records that the text about to be appended to the output starts at
// the given output cursor and corresponds to the given input file position.
// file may be nil for purely synthetic text (emit()), in which case no
// segment is recorded — synthetic text has no source-position counterpart.
func (b *Builder) Mark(file *ast.SourceFile, inputPos int, sourceIndex int) {
	if file == nil {
		return
	}
	line, col := shimscanner.GetECMALineAndCharacterOfPosition(file, inputPos)
	b.segments = append(b.segments, Segment{
		OutputLine:   b.outLine,
		OutputColumn: b.outCol,
		SourceIndex:  sourceIndex,
		InputLine:    line,
		InputColumn:  col,
	})
}

// Advance moves the output cursor forward by the given emitted text,
// accounting for embedded newlines.
func (b *Builder) Advance(text string) {
	for {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			b.outCol += len(text)
			return
		}
		b.outLine++
		b.outCol = 0
		text = text[idx+1:]
	}
}

// Segments returns the recorded mappings in emission order.
func (b *Builder) Segments() []Segment {
	return b.segments
}

// VLQEncode encodes a source-map-v3 "mappings" string from the accumulated
// segments, grouping by output line and delta-encoding each field against
// the previous segment (the output column against the previous segment on
// the same line, the source fields across lines), per the source-map-v3
// spec.
func (b *Builder) VLQEncode() string {
	var out strings.Builder
	prevOutCol, prevSrc, prevInLine, prevInCol := 0, 0, 0, 0
	curLine := 0
	first := true

	for _, seg := range b.segments {
		for curLine < seg.OutputLine {
			out.WriteByte(';')
			curLine++
			prevOutCol = 0
			first = true
		}
		if !first {
			out.WriteByte(',')
		}
		first = false

		writeVLQ(&out, seg.OutputColumn-prevOutCol)
		writeVLQ(&out, seg.SourceIndex-prevSrc)
		writeVLQ(&out, seg.InputLine-prevInLine)
		writeVLQ(&out, seg.InputColumn-prevInCol)

		prevOutCol = seg.OutputColumn
		prevSrc = seg.SourceIndex
		prevInLine = seg.InputLine
		prevInCol = seg.InputColumn
	}
	return out.String()
}

// Sources returns the registered source file names in index order.
func (b *Builder) Sources() []string {
	return b.sources
}

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// writeVLQ appends the base64-VLQ encoding of a signed integer, the encoding
// used throughout the source-map-v3 "mappings" field.
func writeVLQ(out *strings.Builder, value int) {
	vlq := value << 1
	if value < 0 {
		vlq = (-value << 1) | 1
	}
	for {
		digit := vlq & 0x1f
		vlq >>= 5
		if vlq > 0 {
			digit |= 0x20
		}
		out.WriteByte(base64Alphabet[digit])
		if vlq == 0 {
			break
		}
	}
}
