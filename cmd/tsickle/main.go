package main

import (
	"fmt"
	"os"
	"strings"
)

const version = "0.0.1-dev"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		// No subcommand — default to build (backward compatible).
		return runBuild(os.Args[1:])
	}

	switch os.Args[1] {
	case "build":
		return runBuild(os.Args[2:])
	case "dev":
		return runDev(os.Args[2:])
	case "dump":
		return runDump(os.Args[2:])
	case "--version", "-v":
		fmt.Println("tsickle", version)
		return 0
	case "--help", "-h":
		printUsage()
		return 0
	default:
		// Check if first arg starts with - (it's a flag, not a subcommand).
		if strings.HasPrefix(os.Args[1], "-") {
			return runBuild(os.Args[1:])
		}
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println("tsickle - translates TypeScript into Closure-Compiler-annotated JavaScript")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tsickle [flags]              Build project (default)")
	fmt.Println("  tsickle build [flags]        Build project")
	fmt.Println("  tsickle dev [flags]          Watch mode (rebuild on change)")
	fmt.Println("  tsickle dump <file>          Dump JSDoc/decorator metadata as JSON (debug)")
	fmt.Println()
	fmt.Println("Global Flags:")
	fmt.Println("  --version, -v          Print version and exit")
	fmt.Println("  --help, -h             Print this help message")
	fmt.Println()
	fmt.Println("Build Flags:")
	fmt.Println("  --project, -p <path>   Path to tsconfig.json (default: tsconfig.json)")
	fmt.Println("  --config <path>        Path to tsickle.config.json")
	fmt.Println("  --clean                Clean output directory before building")
	fmt.Println("  --untyped              Force untyped mode: every emitted type is \"?\"")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tsickle")
	fmt.Println("  tsickle build")
	fmt.Println("  tsickle build --project tsconfig.build.json")
	fmt.Println("  tsickle build --clean --config tsickle.config.json")
	fmt.Println("  tsickle dev")
	fmt.Println()
}
