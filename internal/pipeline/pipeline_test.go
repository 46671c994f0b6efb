package pipeline_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsickle-go/tsickle/internal/config"
	"github.com/tsickle-go/tsickle/internal/pipeline"
)

// setupTSProject writes a temp project with a tsconfig and one source file,
// mirroring the teacher's own setupTSProject helper for build.go's
// integration tests: the shim compiler needs real files on disk to parse a
// tsconfig from, so pipeline.Run is exercised against t.TempDir() rather
// than an in-memory overlay.
func setupTSProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	os.WriteFile(filepath.Join(dir, "tsconfig.json"), []byte(`{
		"compilerOptions": { "target": "ES2020", "module": "commonjs", "rootDir": "src", "outDir": "dist" }
	}`), 0644)

	for name, content := range files {
		path := filepath.Join(dir, name)
		os.MkdirAll(filepath.Dir(path), 0755)
		os.WriteFile(path, []byte(content), 0644)
	}

	return dir
}

func TestRun_DevMode_ConvertsToGoogModule(t *testing.T) {
	dir := setupTSProject(t, map[string]string{
		"src/index.ts": "export const greeting: string = 'hi';\n",
	})

	cfg := config.DefaultConfig()
	result, err := pipeline.Run(pipeline.Options{
		Cwd:          dir,
		TsconfigPath: "tsconfig.json",
		Config:       &cfg,
		Dev:          true,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("Run() did not succeed: %v", result.TypeErrors)
	}

	found := false
	for name, text := range result.JSFiles {
		if strings.HasSuffix(name, "index.js") {
			found = true
			if !strings.Contains(text, "goog.module(") {
				t.Errorf("expected goog.module header in %s, got:\n%s", name, text)
			}
		}
	}
	if !found {
		t.Fatalf("no emitted index.js found among %v", mapKeys(result.JSFiles))
	}
}

func TestRun_AbortsOnTypeErrors(t *testing.T) {
	dir := setupTSProject(t, map[string]string{
		"src/index.ts": "export const n: number = 'not a number';\n",
	})

	cfg := config.DefaultConfig()
	result, err := pipeline.Run(pipeline.Options{
		Cwd:          dir,
		TsconfigPath: "tsconfig.json",
		Config:       &cfg,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Success {
		t.Fatal("expected Run() to abort on a type error, but it reported success")
	}
	if len(result.TypeErrors) == 0 {
		t.Fatal("expected at least one type error to be reported")
	}
}

func TestRun_FullPipeline_EmitsExterns(t *testing.T) {
	dir := setupTSProject(t, map[string]string{
		"src/index.ts": "export function greet(name: string): string { return 'hi ' + name; }\n",
		"src/ambient.d.ts": "declare const BUILD_VERSION: string;\n",
	})

	cfg := config.DefaultConfig()
	cfg.Decorate.Enabled = false
	result, err := pipeline.Run(pipeline.Options{
		Cwd:          dir,
		TsconfigPath: "tsconfig.json",
		Config:       &cfg,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("Run() did not succeed: %v", result.TypeErrors)
	}
	if !strings.Contains(result.Externs, "BUILD_VERSION") {
		t.Errorf("expected externs to mention the ambient declaration, got:\n%s", result.Externs)
	}
}

func TestRun_DecoratorDownlevel_EmitsStaticMetadataInGoogModule(t *testing.T) {
	dir := setupTSProject(t, map[string]string{
		"src/deco.ts": `/** @Annotation */
export function Injectable(): ClassDecorator {
  return () => {};
}
`,
		"src/index.ts": `import { Injectable } from './deco';
@Injectable()
export class Widget {}
`,
	})

	cfg := config.DefaultConfig()
	result, err := pipeline.Run(pipeline.Options{
		Cwd:          dir,
		TsconfigPath: "tsconfig.json",
		Config:       &cfg,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("Run() did not succeed: %v", result.TypeErrors)
	}

	found := false
	for name, text := range result.JSFiles {
		if strings.HasSuffix(name, "index.js") {
			found = true
			if !strings.Contains(text, "goog.module(") {
				t.Errorf("expected goog.module header in %s, got:\n%s", name, text)
			}
			if !strings.Contains(text, "static decorators") {
				t.Errorf("expected lowered static decorators field in %s, got:\n%s", name, text)
			}
		}
	}
	if !found {
		t.Fatalf("no emitted index.js found among %v", mapKeys(result.JSFiles))
	}
}

func mapKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
