package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tsickle-go/tsickle/internal/buildcache"
	"github.com/tsickle-go/tsickle/internal/compiler"
	"github.com/tsickle-go/tsickle/internal/config"
	"github.com/tsickle-go/tsickle/internal/pipeline"
)

// buildFlags holds the parsed flags from the build command line.
type buildFlags struct {
	ConfigPath   string
	TsconfigPath string
	Clean        bool
	Untyped      bool
}

// parseBuildArgs parses tsickle's own build flags. Unlike tsgonest,
// tsickle has no reason to forward unrecognized flags to the host
// compiler's own command-line parser: tsconfig.json is the only place
// compiler options are read from.
func parseBuildArgs(args []string) buildFlags {
	f := buildFlags{TsconfigPath: "tsconfig.json"}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config":
			if i+1 < len(args) {
				i++
				f.ConfigPath = args[i]
			}
		case "--project", "-p":
			if i+1 < len(args) {
				i++
				f.TsconfigPath = args[i]
			}
		case "--clean":
			f.Clean = true
		case "--untyped":
			f.Untyped = true
		}
	}

	return f
}

// runBuild executes the full build pipeline: parse tsconfig, run the
// Pipeline Coordinator, and write the resulting JS files and externs to
// disk.
//
// Exit codes:
//
//	0 = success
//	1 = type errors (nothing written) or a hard failure
func runBuild(args []string) int {
	flags := parseBuildArgs(args)

	buildStart := time.Now()
	timing := &TimingReport{}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not get working directory: %v\n", err)
		return 1
	}

	cfgResult, err := loadOrDiscoverConfig(flags.ConfigPath, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	cfg := cfgResult.Config
	if flags.Untyped {
		cfg.Emit.Untyped = true
	}
	if cfgResult.Path != "" {
		fmt.Fprintf(os.Stderr, "loaded config from %s\n", filepath.Base(cfgResult.Path))
	}

	tsconfigStart := time.Now()
	fs := compiler.CreateDefaultFS()
	host := compiler.CreateDefaultHost(cwd, fs)

	fmt.Fprintf(os.Stderr, "compiling with tsconfig: %s\n", flags.TsconfigPath)

	parsedConfig, diags, err := compiler.ParseTSConfig(fs, cwd, flags.TsconfigPath, host)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if len(diags) > 0 {
		fmt.Fprint(os.Stderr, compiler.FormatDiagnostics(diags))
		return 1
	}
	opts := parsedConfig.CompilerOptions()
	timing.TSConfig = time.Since(tsconfigStart)

	cachePath := buildcache.CachePath(opts.OutDir)
	if flags.Clean && opts.OutDir != "" {
		if cleanErr := cleanDir(opts.OutDir); cleanErr != nil {
			fmt.Fprintf(os.Stderr, "warning: clean: %v\n", cleanErr)
		}
		buildcache.Delete(cachePath)
	}

	pipelineStart := time.Now()
	result, err := pipeline.Run(pipeline.Options{
		Cwd:          cwd,
		TsconfigPath: flags.TsconfigPath,
		Config:       cfg,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	timing.Pipeline = time.Since(pipelineStart)

	if !result.Success {
		for _, d := range result.TypeErrors {
			fmt.Fprintln(os.Stderr, d.String())
		}
		return 1
	}

	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}

	writeStart := time.Now()
	if err := writeJSFiles(result.JSFiles); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "emitted %d file(s)\n", len(result.JSFiles))

	externsPath := resolveExternsPath(cfg.Externs.Output, opts.OutDir, cwd)
	if err := writeExterns(externsPath, result.Externs); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "generated externs: %s\n", externsPath)

	cache := buildcache.New(configHash(cfg))
	for name, text := range result.JSFiles {
		cache.Record(name, text)
	}
	if saveErr := buildcache.Save(cachePath, cache); saveErr != nil {
		fmt.Fprintf(os.Stderr, "warning: saving build cache: %v\n", saveErr)
	}
	timing.Write = time.Since(writeStart)

	timing.Total = time.Since(buildStart)
	timing.Print()

	return 0
}

// writeJSFiles writes every emitted JS file to its target path, creating
// parent directories as needed.
func writeJSFiles(files map[string]string) error {
	for path, text := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating dir for %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// resolveExternsPath joins the configured externs output path against
// outDir (falling back to cwd when the host compiler has no outDir
// configured), unless it is already absolute.
func resolveExternsPath(output, outDir, cwd string) string {
	if filepath.IsAbs(output) {
		return output
	}
	base := outDir
	if base == "" {
		base = cwd
	}
	return filepath.Join(base, output)
}

func writeExterns(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// configHash hashes the subset of config that changes every output file's
// shape, so a config edit invalidates buildcache.Cache wholesale the way
// its own doc comment promises.
func configHash(cfg *config.Config) string {
	return buildcache.HashString(fmt.Sprintf("%v|%v|%v", cfg.Decorate.Enabled, cfg.Emit, cfg.Externs))
}

func cleanDir(outDir string) error {
	fmt.Fprintf(os.Stderr, "cleaning output directory: %s\n", outDir)
	entries, err := os.ReadDir(outDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(outDir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
