// Package pipeline implements the Pipeline Coordinator (spec.md §4.7): it
// sequences the Decorator Downleveler, JSDoc Annotator, Externs Generator,
// and ES5/goog.module Converter around a single host-compiler program,
// re-parsing through an in-memory overlay between stages so each pass sees
// the complete, type-checked output of the one before it.
//
// Sequencing follows cmd/tsgonest/build.go's own phased structure (parse
// tsconfig → create program → gather diagnostics → pre-emit analysis →
// emit with a WriteFile callback), generalized from tsgonest's one-shot
// emit into the multi-stage re-parse loop spec.md §4.7 requires.
package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	shimchecker "github.com/microsoft/typescript-go/shim/checker"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"
	"github.com/microsoft/typescript-go/shim/tsoptions"

	"github.com/tsickle-go/tsickle/internal/annotator"
	"github.com/tsickle-go/tsickle/internal/compiler"
	"github.com/tsickle-go/tsickle/internal/config"
	"github.com/tsickle-go/tsickle/internal/decorator"
	"github.com/tsickle-go/tsickle/internal/diagnostic"
	"github.com/tsickle-go/tsickle/internal/es5processor"
	"github.com/tsickle-go/tsickle/internal/externs"
	"github.com/tsickle-go/tsickle/internal/rewriter"
)

// Result is spec.md §4.7 step 7's (jsFiles, externs) pair, plus every
// diagnostic collected along the way.
type Result struct {
	// JSFiles maps each emitted file's path to its final, goog.module-
	// converted (or passthrough, in commonjs mode) text.
	JSFiles map[string]string
	// Externs is the concatenated externs text from every ambient
	// declaration the program contains.
	Externs string
	// Diagnostics holds translation/decorator/module-conversion warnings
	// from the three core passes.
	Diagnostics []diagnostic.Diagnostic
	// TypeErrors holds the host-compiler diagnostics that failed the run.
	// Config and type-check errors stop it before any pass below runs;
	// emit diagnostics are reported after the passes have run.
	TypeErrors []compiler.Diagnostic
	Success    bool
}

// Options configures one pipeline run.
type Options struct {
	Cwd          string
	TsconfigPath string
	Config       *config.Config
	// Dev runs the simplified §4.7 "Dev mode" path: type errors do not
	// abort the run, and the decorator and annotator passes are both
	// suppressed — only the ES5/goog.module Converter runs, over whatever
	// CommonJS the host compiler emits for the unmodified program.
	Dev bool
}

// Run executes the coordinator sequence described in spec.md §4.7.
func Run(opts Options) (*Result, error) {
	fs := compiler.CreateDefaultFS()
	host := compiler.CreateDefaultHost(opts.Cwd, fs)

	programResult, parseDiags, err := compiler.CreateProgram(true, fs, opts.Cwd, opts.TsconfigPath, host)
	if err != nil {
		return nil, err
	}
	if len(parseDiags) > 0 {
		return &Result{TypeErrors: parseDiags, Success: false}, nil
	}

	program := programResult.Program
	parsedConfig := programResult.ParsedConfig
	rootDir := parsedConfig.CompilerOptions().RootDir
	if rootDir == "" {
		rootDir = opts.Cwd
	}

	// Step 2: abort on type errors, unless Dev mode trades accuracy for
	// latency and tolerates them.
	if !opts.Dev {
		raw := compiler.GatherRawDiagnostics(program)
		if compiler.CountErrors(raw) > 0 {
			return &Result{TypeErrors: compiler.ConvertDiagnostics(raw), Success: false}, nil
		}
	}

	diags := diagnostic.NewCollector(false, false)

	if opts.Dev {
		return runDevMode(opts, program, rootDir, diags)
	}

	checker, release := shimcompiler.Program_GetTypeChecker(program, context.Background())
	if checker == nil {
		release = func() {}
	}
	defer release()

	// Step 3: decorator downlevel, re-parsing through the overlay so the
	// emitted static metadata fields are visible to the next stage's parse.
	if opts.Config != nil && opts.Config.Decorate.Enabled {
		overlaid := make(map[string]string)
		for _, sf := range compiler.GetSourceFiles(program) {
			if !inScope(opts.Config, opts.Cwd, sf.FileName()) {
				continue
			}
			pass := decorator.New(checker, diags, sf)
			r := rewriter.New(sf, pass.Visitor(), diags, nil)
			r.VisitAll()
			overlaid[sf.FileName()] = r.String()
		}
		if len(overlaid) > 0 {
			program, checker, release, err = reparse(opts.Cwd, parsedConfig, overlaid, release)
			if err != nil {
				return nil, err
			}
			defer release()
		}
	}

	// Step 4: JSDoc annotator + externs collection, then overlay the
	// annotated text.
	externBuilder := externs.New(checker, diags)
	for _, sf := range program.GetSourceFiles() {
		externBuilder.WalkFile(sf)
	}

	annotated := make(map[string]string)
	typeOnlyByModule := make(map[string]map[string]bool)
	for _, sf := range compiler.GetSourceFiles(program) {
		if !inScope(opts.Config, opts.Cwd, sf.FileName()) {
			continue
		}
		pass := annotator.New(checker, diags, sf, opts.Config != nil && opts.Config.Emit.Untyped)
		result := pass.Run(sf, false)
		annotated[sf.FileName()] = result.Text
		if len(result.TypeOnlyExports) > 0 {
			typeOnlyByModule[moduleKey(rootDir, sf.FileName())] = result.TypeOnlyExports
		}
	}

	if len(annotated) > 0 {
		program, _, release, err = reparse(opts.Cwd, parsedConfig, annotated, release)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	// Step 5: emit CommonJS into an in-memory map instead of disk.
	emitted := make(map[string]string)
	writeFile := func(fileName string, text string, bom bool, data *shimcompiler.WriteFileData) error {
		emitted[fileName] = text
		return nil
	}
	_, emitDiags, err := compiler.EmitProgramWithWriteFile(program, writeFile)
	if err != nil {
		return nil, err
	}
	if len(emitDiags) > 0 {
		return &Result{TypeErrors: emitDiags, Success: false}, nil
	}

	// Step 6: ES5/goog.module conversion on each emitted .js.
	jsFiles := convertEmitted(opts, rootDir, emitted, typeOnlyByModule)

	return &Result{
		JSFiles:     jsFiles,
		Externs:     externBuilder.Render(),
		Diagnostics: diags.Diagnostics(),
		Success:     true,
	}, nil
}

// runDevMode implements spec.md §4.7's Dev mode: no decorator or annotator
// pass, type errors do not abort, and the host compiler's own CommonJS
// emit is handed straight to the ES5/goog.module Converter.
func runDevMode(opts Options, program *shimcompiler.Program, rootDir string, diags *diagnostic.Collector) (*Result, error) {
	emitted := make(map[string]string)
	writeFile := func(fileName string, text string, bom bool, data *shimcompiler.WriteFileData) error {
		emitted[fileName] = text
		return nil
	}
	_, _, err := compiler.EmitProgramWithWriteFile(program, writeFile)
	if err != nil {
		return nil, err
	}

	jsFiles := convertEmitted(opts, rootDir, emitted, nil)
	return &Result{
		JSFiles:     jsFiles,
		Diagnostics: diags.Diagnostics(),
		Success:     true,
	}, nil
}

// moduleKey maps a file to the rootDir-relative, extension-stripped key
// typeOnlyByModule is indexed by: the annotator records a source .ts
// file's type-only exports under this key, and convertEmitted looks them
// up by computing the same key for the corresponding emitted .js file —
// the host compiler mirrors rootDir's directory structure into outDir, so
// an extension-stripped relative path identifies the same module on both
// sides of the emit step.
func moduleKey(rootDir, fileName string) string {
	rel, err := filepath.Rel(rootDir, fileName)
	if err != nil {
		rel = fileName
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

// convertEmitted runs the ES5/goog.module Converter (or, in commonjs
// passthrough mode, nothing at all) over every emitted .js file,
// skipping .d.ts inputs and .map files per §4.7 step 6. typeOnlyByModule
// carries each module's type-only re-exports (nil in Dev mode, where the
// annotator never runs) keyed by moduleKey.
func convertEmitted(opts Options, rootDir string, emitted map[string]string, typeOnlyByModule map[string]map[string]bool) map[string]string {
	passthrough := opts.Config != nil && opts.Config.Emit.ModuleFormat == "commonjs"
	convHost := es5processor.DefaultHost{RootDir: rootDir}

	jsFiles := make(map[string]string, len(emitted))
	for fileName, text := range emitted {
		if !strings.HasSuffix(fileName, ".js") || strings.HasSuffix(fileName, ".d.ts") {
			jsFiles[fileName] = text
			continue
		}
		if passthrough {
			jsFiles[fileName] = text
			continue
		}
		relativeID, err := filepath.Rel(rootDir, fileName)
		if err != nil {
			relativeID = fileName
		}
		typeOnly := es5processor.TypeOnlyExports(typeOnlyByModule[moduleKey(rootDir, fileName)])
		jsFiles[fileName] = es5processor.Convert(convHost, fileName, filepath.ToSlash(relativeID), text, typeOnly)
	}
	return jsFiles
}

// reparse rebuilds the program over an overlay that replaces overlaid
// files with their rewritten text, releasing the previous stage's checker
// first since a stale checker cannot outlive the program it was drawn
// from.
func reparse(cwd string, parsedConfig *tsoptions.ParsedCommandLine, overlaid map[string]string, release func()) (*shimcompiler.Program, *shimchecker.Checker, func(), error) {
	release()

	overlay := newOverlayHost(overlaid)
	overlayCompilerHost := compiler.CreateDefaultHost(cwd, overlay)

	program, diags, err := compiler.CreateProgramFromConfig(true, parsedConfig, overlayCompilerHost)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(diags) > 0 {
		return nil, nil, nil, errors.New(compiler.FormatDiagnostics(diags))
	}

	checker, newRelease := shimcompiler.Program_GetTypeChecker(program, context.Background())
	if newRelease == nil {
		newRelease = func() {}
	}
	return program, checker, newRelease, nil
}
