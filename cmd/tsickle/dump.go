package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/microsoft/typescript-go/shim/ast"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"

	"github.com/tsickle-go/tsickle/internal/annotator"
	"github.com/tsickle-go/tsickle/internal/compiler"
	"github.com/tsickle-go/tsickle/internal/decorator"
	"github.com/tsickle-go/tsickle/internal/diagnostic"
)

// dumpResult is the JSON output structure for `tsickle dump`.
type dumpResult struct {
	File             string                         `json:"file"`
	AnnotatedSource  string                         `json:"annotatedSource"`
	TypeOnlyExports  map[string]bool                `json:"typeOnlyExports,omitempty"`
	DecoratorClasses map[string]*decorator.Metadata `json:"decoratorMetadata,omitempty"`
}

// runDump implements "tsickle dump <file>": prints the closurized JSDoc
// annotation plan and the decorator metadata table for a single source
// file as JSON, mirroring tsgonest's --dump-metadata debug flag without
// the companion/controller machinery that flag also dumped.
func runDump(args []string) int {
	dumpFlags := flag.NewFlagSet("dump", flag.ExitOnError)
	var tsconfigPath string
	dumpFlags.StringVar(&tsconfigPath, "project", "tsconfig.json", "Path to tsconfig.json")
	dumpFlags.StringVar(&tsconfigPath, "p", "tsconfig.json", "Path to tsconfig.json (shorthand)")
	dumpFlags.Parse(args)

	targets := dumpFlags.Args()
	if len(targets) != 1 {
		fmt.Fprintln(os.Stderr, "usage: tsickle dump [-p tsconfig.json] <file.ts>")
		return 1
	}
	target := targets[0]

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not get working directory: %v\n", err)
		return 1
	}

	fs := compiler.CreateDefaultFS()
	host := compiler.CreateDefaultHost(cwd, fs)
	programResult, diags, err := compiler.CreateProgram(true, fs, cwd, tsconfigPath, host)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if len(diags) > 0 {
		fmt.Fprint(os.Stderr, compiler.FormatDiagnostics(diags))
		return 1
	}

	var sf *ast.SourceFile
	for _, f := range programResult.Program.GetSourceFiles() {
		if f.FileName() == target || relTo(cwd, f.FileName()) == target {
			sf = f
			break
		}
	}
	if sf == nil {
		fmt.Fprintf(os.Stderr, "error: %s is not part of the program rooted at %s\n", target, tsconfigPath)
		return 1
	}

	checker, release := shimcompiler.Program_GetTypeChecker(programResult.Program, context.Background())
	if checker == nil {
		fmt.Fprintln(os.Stderr, "error: could not get type checker")
		return 1
	}
	defer release()

	collector := diagnostic.NewCollector(false, false)

	annotated := annotator.New(checker, collector, sf, false).Run(sf, false)
	decoPass := decorator.New(checker, collector, sf)

	dump := dumpResult{
		File:             sf.FileName(),
		AnnotatedSource:  annotated.Text,
		TypeOnlyExports:  annotated.TypeOnlyExports,
		DecoratorClasses: decoPass.CollectMetadata(sf),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump); err != nil {
		fmt.Fprintf(os.Stderr, "error encoding JSON: %v\n", err)
		return 1
	}
	return 0
}

// relTo returns fileName relative to cwd, or fileName itself if it isn't
// underneath cwd — lets `tsickle dump` accept either an absolute path or
// one relative to the working directory.
func relTo(cwd, fileName string) string {
	rel, err := filepath.Rel(cwd, fileName)
	if err != nil {
		return fileName
	}
	return rel
}
