package annotator

import (
	"fmt"
	"strings"
)

// Emitter builds plain text with indentation tracking — the annotator uses
// it for multi-line synthesized output (interface prototype stubs) the
// same way a companion-file generator builds a JS
// function body line by line.
type Emitter struct {
	buf    strings.Builder
	indent int
}

// NewEmitter creates a new text emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Line writes a single line at the current indentation level.
func (e *Emitter) Line(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if line == "" {
		e.buf.WriteByte('\n')
		return
	}
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("  ")
	}
	e.buf.WriteString(line)
	e.buf.WriteByte('\n')
}

// Raw writes a raw string without indentation or a trailing newline.
func (e *Emitter) Raw(s string) {
	e.buf.WriteString(s)
}

// Indent increases the indentation level.
func (e *Emitter) Indent() {
	e.indent++
}

// Dedent decreases the indentation level.
func (e *Emitter) Dedent() {
	if e.indent > 0 {
		e.indent--
	}
}

// String returns the accumulated text.
func (e *Emitter) String() string {
	return e.buf.String()
}

// JSDocBuilder accumulates tag lines for a single `/** ... */` block.
type JSDocBuilder struct {
	description string
	lines       []string
}

// NewJSDocBuilder starts a block with an optional description line.
func NewJSDocBuilder(description string) *JSDocBuilder {
	return &JSDocBuilder{description: strings.TrimSpace(description)}
}

// Tag appends a bare tag line, e.g. "@const" or "@private".
func (b *JSDocBuilder) Tag(tag string) *JSDocBuilder {
	b.lines = append(b.lines, tag)
	return b
}

// TypeTag appends "@type {expr}" (or @param/@return with a type payload)
// given a pre-rendered tag name and Closure type string.
func (b *JSDocBuilder) TypeTag(name, typeExpr string) *JSDocBuilder {
	b.lines = append(b.lines, fmt.Sprintf("@%s {%s}", name, typeExpr))
	return b
}

// Param appends "@param {type} name description".
func (b *JSDocBuilder) Param(name, typeExpr, description string) *JSDocBuilder {
	line := fmt.Sprintf("@param {%s} %s", typeExpr, name)
	if description != "" {
		line += " " + description
	}
	b.lines = append(b.lines, line)
	return b
}

// Render produces the full "/** ... */" comment text, one line per tag,
// indented to match a standard JSDoc block. Returns "" if the block would
// be entirely empty (no description, no tags) — callers skip emitting an
// empty comment.
func (b *JSDocBuilder) Render() string {
	if b.description == "" && len(b.lines) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("/**\n")
	if b.description != "" {
		for _, line := range strings.Split(b.description, "\n") {
			fmt.Fprintf(&sb, " * %s\n", line)
		}
	}
	for _, line := range b.lines {
		fmt.Fprintf(&sb, " * %s\n", line)
	}
	sb.WriteString(" */\n")
	return sb.String()
}
