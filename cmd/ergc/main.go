// Command ergc is the analyzer-facing CLI of spec.md §6: it runs the
// package builder against a root module and reports diagnostics. The
// per-module analysis step is a stand-in that attaches no HIR, so the
// linker, effect checker, and ownership checker are not run by this
// binary. Parsing and the per-module type checker that turns AST into
// HIR are external collaborators (spec.md §1's Non-goals); the flag
// surface, exit-code contract, and build diagnostics are real, in the
// spirit of the same collaborator pattern internal/build's tests use.
//
// Grounded on ailang/cmd/ailang/main.go's flag declarations, ldflags-set
// version variables, color palette, and command dispatch.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/sunholo/ergo/internal/ast"
	"github.com/sunholo/ergo/internal/build"
	"github.com/sunholo/ergo/internal/console"
	ergoerrors "github.com/sunholo/ergo/internal/errors"
	"github.com/sunholo/ergo/internal/manifest"
	"github.com/sunholo/ergo/internal/modcache"
)

// Version info, set by ldflags during build.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Exit codes per spec.md §6.
const (
	exitOK      = 0
	exitUserErr = 1
	exitInvalid = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ergc", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		inlineSrc    = fs.String("c", "", "analyze inline source instead of a file")
		checkFlag    = fs.Bool("check", false, "type-check only, no emit")
		compileFlag  = fs.Bool("compile", false, "emit bytecode")
		lspFlag      = fs.Bool("language-server", false, "speak LSP over stdio")
		noStd        = fs.Bool("no-std", false, "suppress the implicit stdlib search path")
		moduleName   = fs.String("m", "", "module name for the root file")
		optLevel     = fs.Int("o", 0, "optimization level (0-3)")
		outputDir    = fs.String("output-dir", "", "directory for emitted artifacts")
		targetVer    = fs.String("target-version", "", "target language version (major.minor[.patch])")
		verbose      = fs.Int("verbose", 0, "verbosity level (0-2)")
		pingFlag     = fs.Bool("ping", false, "print pong and exit")
		versionFlag  = fs.Bool("version", false, "print version information")
		versionFlagV = fs.Bool("V", false, "print version information")
	)

	if err := fs.Parse(args); err != nil {
		return exitInvalid
	}

	if *pingFlag {
		fmt.Println("pong")
		return exitOK
	}
	if *versionFlag || *versionFlagV {
		printVersion()
		return exitOK
	}
	if *lspFlag {
		fmt.Fprintf(os.Stderr, "%s: --language-server is not implemented by this binary (spec.md §1 Non-goals)\n", yellow("Warning"))
		return exitInvalid
	}
	if *optLevel < 0 || *optLevel > 3 {
		fmt.Fprintf(os.Stderr, "%s: -o must be in 0..3, got %d\n", red("Error"), *optLevel)
		return exitInvalid
	}
	if *verbose < 0 || *verbose > 2 {
		fmt.Fprintf(os.Stderr, "%s: --verbose must be in 0..2, got %d\n", red("Error"), *verbose)
		return exitInvalid
	}
	if *targetVer != "" {
		if _, err := manifest.ParseVersion(*targetVer); err != nil {
			fmt.Fprintf(os.Stderr, "%s: --target-version: %v\n", red("Error"), err)
			return exitInvalid
		}
	}

	rootPath := fs.Arg(0)
	if *inlineSrc == "" && rootPath == "" {
		printHelp()
		return exitInvalid
	}

	searchPaths := resolveSearchPaths(*noStd)

	if *inlineSrc != "" {
		// -c implies the interactive debug console (SPEC_FULL.md §2): the
		// inline snippet is written to a temp file so it has a path the
		// pipeline can resolve imports relative to, then pre-loaded.
		tmp, err := os.CreateTemp("", "ergc-inline-*.ergo")
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			return exitUserErr
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.WriteString(*inlineSrc); err != nil {
			tmp.Close()
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			return exitUserErr
		}
		tmp.Close()

		c := console.New(stubParse, stubAnalyze(*moduleName), searchPaths)
		c.Load(tmp.Name(), os.Stdout)
		c.Start(os.Stdout)
		return exitOK
	}

	if *compileFlag {
		col := ergoerrors.NewCollector()
		col.Add(&ergoerrors.Report{
			Schema:  ergoerrors.Schema,
			Code:    ergoerrors.FeatureUnsupported,
			Kind:    ergoerrors.KindFeature,
			Phase:   "compile",
			Message: "--compile: bytecode emission is out of scope for this implementation (spec.md §6)",
		})
		col.WriteSummary(os.Stderr, true)
		return exitUserErr
	}

	cache := modcache.New()
	builder := build.NewBuilder(stubParse, cache, searchPaths)
	_, reports := builder.Build(rootPath, stubAnalyze(*moduleName))

	col := ergoerrors.NewCollector()
	col.Extend(reports)
	col.WriteSummary(os.Stdout, *verbose > 0)

	if col.HasErrors() {
		return exitUserErr
	}
	if *checkFlag {
		return exitOK
	}

	// Emission beyond --check is out of scope (spec.md §1); running
	// without --check still only checks, consistent with no runtime
	// existing to execute the result.
	if *outputDir != "" {
		fmt.Fprintf(os.Stdout, "%s nothing to emit into %s: bytecode emission is out of scope\n", dim("note:"), *outputDir)
	}
	return exitOK
}

func dim(s string) string { return color.New(color.Faint).Sprint(s) }

func resolveSearchPaths(noStd bool) []string {
	if m, err := manifest.Load("ergo.yaml"); err == nil {
		if noStd {
			m.NoStd = true
		}
		return m.ResolveSearchPaths()
	}
	if noStd {
		return []string{"."}
	}
	return build.ErgoStdlibSearchPaths()
}

// stubParse is a minimal stand-in for the external parser: it never
// rejects input and never discovers imports, since the parser itself is
// explicitly out of scope (spec.md §1). It exists so the rest of the
// pipeline (import resolution, effect/ownership checking, diagnostics)
// has a concrete ast.File to operate against when this binary is run
// without a real front end attached.
func stubParse(path string, src []byte) (*ast.File, error) {
	if !isValidUTF8(src) {
		return nil, fmt.Errorf("%s: not valid UTF-8", path)
	}
	return &ast.File{Path: path}, nil
}

func isValidUTF8(b []byte) bool {
	return strings.ToValidUTF8(string(b), "�") == string(b)
}

// stubAnalyze records a successful module entry in the cache without
// producing HIR: the per-module type checker that would elaborate AST
// into typed HIR is, like the parser, an external collaborator (spec.md
// §1). This keeps the builder/linker/cache pipeline exercisable end to
// end while leaving elaboration to whatever front end is eventually
// wired in.
func stubAnalyze(moduleName string) build.AnalysisFunc {
	return func(path string, file *ast.File, cache *modcache.Cache) []*ergoerrors.Report {
		cache.Insert(path, &modcache.Entry{Path: path, Status: modcache.StatusSucceed, AST: file})
		return nil
	}
}

func printVersion() {
	fmt.Printf("ergc %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("Built:  %s\n", BuildTime)
	}
}

func printHelp() {
	fmt.Println(bold("ergc - compiler front-end analyzer"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ergc <file> [flags]")
	fmt.Println("  ergc -c <src> [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Printf("  %s              type-check only, no emit\n", cyan("--check"))
	fmt.Printf("  %s            emit bytecode (not implemented; reports Feature error)\n", cyan("--compile"))
	fmt.Printf("  %s    speak LSP over stdio (not implemented)\n", cyan("--language-server"))
	fmt.Printf("  %s             suppress the implicit stdlib search path\n", cyan("--no-std"))
	fmt.Printf("  %s <name>          module name for the root file\n", cyan("-m"))
	fmt.Printf("  %s <0-3>           optimization level\n", cyan("-o"))
	fmt.Printf("  %s <dir>   directory for emitted artifacts\n", cyan("--output-dir"))
	fmt.Printf("  %s <ver>  target language version (major.minor[.patch])\n", cyan("--target-version"))
	fmt.Printf("  %s <0-2>      verbosity level\n", cyan("--verbose"))
	fmt.Printf("  %s               print pong and exit\n", cyan("--ping"))
	fmt.Printf("  %s/%s    print version information\n", cyan("-V"), cyan("--version"))
	fmt.Println()
	fmt.Println("Exit codes: 0 success, 1 user error, 2 invalid invocation.")
}
