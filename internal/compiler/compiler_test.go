package compiler_test

import (
	"strings"
	"testing"

	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"

	"github.com/tsickle-go/tsickle/internal/compiler"
	"github.com/tsickle-go/tsickle/internal/testutil"
)

func TestCreateProgram_ValidSource_NoDiagnostics(t *testing.T) {
	overlay := testutil.NewDefaultOverlayVFS(map[string]string{
		"/tsconfig.json": `{"compilerOptions": {"target": "ES2020", "module": "commonjs"}}`,
		"/src/index.ts":  "export const a: number = 1;\n",
	})
	host := compiler.CreateDefaultHost("/", overlay)

	result, diags, err := compiler.CreateProgram(true, overlay, "/", "/tsconfig.json", host)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if result.Program == nil {
		t.Fatal("expected a non-nil program")
	}
}

func TestGatherRawDiagnostics_TypeError_IsReported(t *testing.T) {
	overlay := testutil.NewDefaultOverlayVFS(map[string]string{
		"/tsconfig.json": `{"compilerOptions": {"target": "ES2020", "module": "commonjs", "strict": true}}`,
		"/src/index.ts":  "export const a: number = 'not a number';\n",
	})
	host := compiler.CreateDefaultHost("/", overlay)

	result, diags, err := compiler.CreateProgram(true, overlay, "/", "/tsconfig.json", host)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", diags)
	}

	raw := compiler.GatherRawDiagnostics(result.Program)
	if compiler.CountErrors(raw) == 0 {
		t.Fatalf("expected at least one type error, got none")
	}
}

func TestEmitProgramWithWriteFile_CapturesOutputInMemory(t *testing.T) {
	overlay := testutil.NewDefaultOverlayVFS(map[string]string{
		"/tsconfig.json": `{"compilerOptions": {"target": "ES2020", "module": "commonjs", "outDir": "/out"}}`,
		"/src/index.ts":  "export const greeting = 'hi';\n",
	})
	host := compiler.CreateDefaultHost("/", overlay)

	result, diags, err := compiler.CreateProgram(true, overlay, "/", "/tsconfig.json", host)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	emitted := make(map[string]string)
	writeFile := func(fileName, text string, bom bool, data *shimcompiler.WriteFileData) error {
		emitted[fileName] = text
		return nil
	}
	_, emitDiags, err := compiler.EmitProgramWithWriteFile(result.Program, writeFile)
	if err != nil {
		t.Fatalf("EmitProgramWithWriteFile: %v", err)
	}
	if len(emitDiags) != 0 {
		t.Fatalf("unexpected emit diagnostics: %v", emitDiags)
	}

	found := false
	for name, text := range emitted {
		if strings.HasSuffix(name, "index.js") && strings.Contains(text, "greeting") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an emitted index.js containing \"greeting\", got %v", emitted)
	}
}

func TestGetSourceFiles_ExcludesDeclarationFiles(t *testing.T) {
	overlay := testutil.NewDefaultOverlayVFS(map[string]string{
		"/tsconfig.json": `{"compilerOptions": {"target": "ES2020", "module": "commonjs"}}`,
		"/src/index.ts":  "export const a = 1;\n",
		"/src/types.d.ts": "declare var external: string;\n",
	})
	host := compiler.CreateDefaultHost("/", overlay)

	result, diags, err := compiler.CreateProgram(true, overlay, "/", "/tsconfig.json", host)
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	for _, sf := range compiler.GetSourceFiles(result.Program) {
		if strings.HasSuffix(sf.FileName(), ".d.ts") {
			t.Errorf("GetSourceFiles should exclude declaration files, got %s", sf.FileName())
		}
	}
}

func TestFormatDiagnostics_JoinsMessagesWithFilePath(t *testing.T) {
	diags := []compiler.Diagnostic{
		{FilePath: "/src/a.ts", Message: "boom"},
		{Message: "no file"},
	}
	out := compiler.FormatDiagnostics(diags)
	if !strings.Contains(out, "/src/a.ts: boom") {
		t.Errorf("expected file-qualified message, got %q", out)
	}
	if !strings.Contains(out, "no file") {
		t.Errorf("expected file-less message, got %q", out)
	}
}
