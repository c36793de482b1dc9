package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nnobol/8086/asm8086"
	"github.com/nnobol/8086/formatter"
	"github.com/nnobol/8086/inspector"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		inspectMode = flag.Bool("inspect", false, "Launch the interactive inspector instead of assembling")
		formatMode  = flag.Bool("format", false, "Print the canonicalized source to stdout instead of assembling")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("asm8086 %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 2 {
		printHelp()
		os.Exit(1)
	}

	inputPath, outputPath := args[0], args[1]

	if !strings.HasSuffix(inputPath, ".asm") {
		fmt.Fprintf(os.Stderr, "Error: input file must end in .asm\n")
		os.Exit(1)
	}

	data, err := os.ReadFile(inputPath) // #nosec G304 -- user-specified input path
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", inputPath, err)
		os.Exit(1)
	}
	source := string(data)

	if *inspectMode {
		if err := inspector.Run(source); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *formatMode {
		formatted, err := formatter.FormatString(source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(formatted)
		os.Exit(0)
	}

	out, err := asm8086.Assemble(source)
	if err != nil {
		if asmErr, ok := err.(*asm8086.Error); ok {
			fmt.Fprintf(os.Stderr, "Error on line %d: %s\n", asmErr.Line, asmErr.Description())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, out, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", outputPath, err)
		os.Exit(1)
	}

	os.Exit(0)
}

func printHelp() {
	fmt.Printf(`asm8086 %s

Usage: asm8086 [options] <input.asm> <output>

Options:
  -help      Show this help message
  -version   Show version information
  -inspect   Launch the interactive inspector instead of assembling
  -format    Print the canonicalized source to stdout instead of assembling

Input format:
  Line 1 must be exactly "bits 16". Lines 2+ are instructions, blank
  lines, or comment-only lines. Supported mnemonics: mov, add, sub, cmp.

Examples:
  asm8086 program.asm program.bin
  asm8086 -inspect program.asm program.bin
  asm8086 -format program.asm program.bin
`, Version)
}
