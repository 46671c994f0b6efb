package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tsickle-go/tsickle/internal/buildcache"
	"github.com/tsickle-go/tsickle/internal/compiler"
	"github.com/tsickle-go/tsickle/internal/pipeline"
	"github.com/tsickle-go/tsickle/internal/watcher"
)

// runDev implements "tsickle dev": an initial build followed by a
// polling watch loop that rebuilds whenever a watched .ts file changes.
// Unlike tsgonest's dev command, tsickle has no child process to restart
// (its output is a Closure Compiler input, not something Node.js runs),
// so this is the watch+rebuild half of that command with the
// process-supervision half dropped.
func runDev(args []string) int {
	devFlags := flag.NewFlagSet("dev", flag.ExitOnError)

	var (
		configPath   string
		tsconfigPath string
	)
	devFlags.StringVar(&configPath, "config", "", "Path to tsickle.config.json")
	devFlags.StringVar(&tsconfigPath, "project", "tsconfig.json", "Path to tsconfig.json")
	devFlags.StringVar(&tsconfigPath, "p", "tsconfig.json", "Path to tsconfig.json (shorthand)")

	devFlags.Usage = func() {
		fmt.Println("Usage: tsickle dev [flags]")
		fmt.Println()
		fmt.Println("Flags:")
		devFlags.PrintDefaults()
	}
	devFlags.Parse(args)

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not get working directory: %v\n", err)
		return 1
	}

	cfgResult, err := loadOrDiscoverConfig(configPath, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	cfg := cfgResult.Config

	srcDir := filepath.Join(cwd, cfg.SourceRoot)
	if _, statErr := os.Stat(srcDir); os.IsNotExist(statErr) {
		srcDir = cwd
	}

	cache := buildcache.New(configHash(cfg))

	rebuild := func() {
		fmt.Fprintln(os.Stderr, "rebuilding...")

		result, err := pipeline.Run(pipeline.Options{
			Cwd:          cwd,
			TsconfigPath: tsconfigPath,
			Config:       cfg,
			Dev:          true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		if !result.Success {
			fmt.Fprintln(os.Stderr, "build failed, waiting for changes...")
			for _, d := range result.TypeErrors {
				fmt.Fprintln(os.Stderr, d.String())
			}
			return
		}

		changed := 0
		for name, text := range result.JSFiles {
			if cache.UpToDate(configHash(cfg), name, text) {
				continue
			}
			if err := writeJSFiles(map[string]string{name: text}); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			cache.Record(name, text)
			changed++
		}
		fmt.Fprintf(os.Stderr, "rebuilt %d file(s), %d changed\n", len(result.JSFiles), changed)
	}

	fmt.Fprintln(os.Stderr, "performing initial build...")
	rebuild()

	w := watcher.New(
		[]string{srcDir},
		[]string{".ts", ".tsx", ".mts", ".cts"},
		100*time.Millisecond,
		func(events []watcher.Event) {
			fmt.Fprintf(os.Stderr, "\ndetected %d change(s)\n", len(events))
			rebuild()
		},
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nshutting down...")
		w.Stop()
	}()

	fmt.Fprintf(os.Stderr, "watching %s for changes (pretty output: %v)\n", srcDir, compiler.IsPrettyOutput())
	if err := w.Watch(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}
