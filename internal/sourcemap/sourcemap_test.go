package sourcemap_test

import (
	"testing"

	"github.com/tsickle-go/tsickle/internal/sourcemap"
	"github.com/tsickle-go/tsickle/internal/testutil"
)

func TestAddSource_DeduplicatesByName(t *testing.T) {
	b := sourcemap.NewBuilder(nil)
	i1 := b.AddSource("/src/a.ts")
	i2 := b.AddSource("/src/b.ts")
	i3 := b.AddSource("/src/a.ts")

	if i1 != 0 || i2 != 1 {
		t.Fatalf("expected indices 0,1, got %d,%d", i1, i2)
	}
	if i3 != i1 {
		t.Errorf("re-adding an existing source should return its original index, got %d want %d", i3, i1)
	}
	if len(b.Sources()) != 2 {
		t.Errorf("expected 2 distinct sources, got %v", b.Sources())
	}
}

func TestAdvance_TracksLineAndColumnAcrossNewlines(t *testing.T) {
	program, _, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": "const a = 1;\nconst b = 2;\n",
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")

	b := sourcemap.NewBuilder(nil)
	idx := b.AddSource(sf.FileName())

	b.Mark(sf, 0, idx)
	b.Advance("const a = 1;\n")
	b.Mark(sf, 13, idx)
	b.Advance("const b = 2;\n")

	segs := b.Segments()
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].OutputLine != 0 || segs[0].OutputColumn != 0 {
		t.Errorf("first segment should start at (0,0), got (%d,%d)", segs[0].OutputLine, segs[0].OutputColumn)
	}
	if segs[1].OutputLine != 1 || segs[1].OutputColumn != 0 {
		t.Errorf("second segment should start at line 1 col 0 after one newline, got (%d,%d)", segs[1].OutputLine, segs[1].OutputColumn)
	}
	if segs[1].InputLine != 1 {
		t.Errorf("second segment should map to input line 1, got %d", segs[1].InputLine)
	}
}

func TestMark_NilFile_RecordsNoSegment(t *testing.T) {
	b := sourcemap.NewBuilder(nil)
	b.Mark(nil, 0, 0)
	if len(b.Segments()) != 0 {
		t.Errorf("expected no segments for a nil file, got %v", b.Segments())
	}
}

func TestVLQEncode_MultiLineMappingsSeparatedBySemicolons(t *testing.T) {
	program, _, release := testutil.NewCheckedProgram(t, map[string]string{
		"/src/index.ts": "const a = 1;\nconst b = 2;\n",
	})
	defer release()
	sf := testutil.MustSourceFile(t, program, "/src/index.ts")

	b := sourcemap.NewBuilder(nil)
	idx := b.AddSource(sf.FileName())

	b.Mark(sf, 0, idx)
	b.Advance("const a = 1;\n")
	b.Mark(sf, 13, idx)
	b.Advance("const b = 2;\n")

	out := b.VLQEncode()
	if out == "" {
		t.Fatal("expected a non-empty mappings string")
	}
	groups := 1
	for _, c := range out {
		if c == ';' {
			groups++
		}
	}
	if groups < 2 {
		t.Errorf("expected at least 2 line groups separated by ';', got mappings %q", out)
	}
}
