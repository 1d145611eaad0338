package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dshills/diagc/pkg/compile"
	"github.com/dshills/diagc/pkg/config"
	"github.com/dshills/diagc/pkg/diag"
)

const version = "1.0.0"

var (
	configPath = flag.String("config", "", "Path to YAML configuration file (layout defaults + palettes, optional)")
	outputPath = flag.String("output", "", "Output file for the rendered SVG (default: stdout)")
	describe   = flag.Bool("describe", false, "Print a structural summary instead of rendering SVG")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("diagc version %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one source file is required")
		printUsage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// nolint:gocyclo // CLI argument handling and diagnostic reporting
func run(sourcePath string) error {
	ctx := context.Background()

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("reading source file: %w", err)
	}
	source := string(data)

	var cfg *config.Config
	if *configPath != "" {
		if *verbose {
			fmt.Printf("Loading configuration from %s\n", *configPath)
		}
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	if *describe {
		summary, diags, err := compile.Describe(source, cfg)
		if err != nil {
			return fmt.Errorf("describe failed: %w", err)
		}
		reportDiagnostics(source, diags)
		if summary == "" {
			return fmt.Errorf("compilation failed, see diagnostics above")
		}
		fmt.Print(summary)
		return nil
	}

	res, diags, err := compile.Compile(ctx, source, cfg)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	reportDiagnostics(source, diags)
	if res == nil {
		return fmt.Errorf("compilation failed, see diagnostics above")
	}

	if *outputPath == "" {
		_, err = os.Stdout.Write(res.SVG)
		return err
	}
	if *verbose {
		fmt.Printf("Writing %d bytes to %s\n", len(res.SVG), *outputPath)
	}
	return os.WriteFile(*outputPath, res.SVG, 0o644)
}

func reportDiagnostics(source string, diags []*diag.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprint(os.Stderr, diag.Report(source, diags))
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: diagc [options] <source-file>")
	fmt.Fprintln(os.Stderr, "\nRun 'diagc -help' for detailed help")
}

func printHelp() {
	fmt.Printf("diagc version %s\n\n", version)
	fmt.Println("Compiles a component or sequence diagram source file to SVG.")
	fmt.Println("\nUsage:")
	fmt.Println("  diagc [options] <source-file>")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -config string")
	fmt.Println("        Path to a YAML configuration file (layout defaults + palettes)")
	fmt.Println("  -output string")
	fmt.Println("        Output file for the rendered SVG (default: stdout)")
	fmt.Println("  -describe")
	fmt.Println("        Print a structural summary instead of rendering SVG")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  diagc diagram.txt > diagram.svg")
	fmt.Println("  diagc -config theme.yml -output out.svg diagram.txt")
	fmt.Println("  diagc -describe diagram.txt")
}
