// Package console implements an interactive debug console: a read-loop
// that re-runs the package build (with the caller-supplied per-module
// analysis function) against a root module on demand and lets the user
// inspect the resulting dependency graph, module cache, and collected
// diagnostics. It does not itself run the linker or the checkers.
// It backs `cmd/ergc`'s `-c` inline-source debug mode (SPEC_FULL.md §2's
// "AMBIENT STACK" entry for `internal/console`).
//
// Grounded on ailang/internal/repl/repl.go's Start loop (liner.NewLiner,
// a history file under os.TempDir, SetCompleter, the `:`-prefixed command
// dispatch, and the fatih/color SprintFunc palette), adapted from
// "evaluate an expression against a persistent environment" (this repo
// has no evaluator -- spec.md Non-goals exclude a runtime) to "re-run
// static analysis against a module path and report what the pipeline
// found".
package console

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sunholo/ergo/internal/build"
	ergoerrors "github.com/sunholo/ergo/internal/errors"
	"github.com/sunholo/ergo/internal/modcache"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// historyFileName is the console's liner history file, mirroring
// ailang/internal/repl/repl.go's ".ailang_history" convention.
const historyFileName = ".ergo_console_history"

// Console holds the state one interactive debug session needs: the
// narrow collaborators a real build requires (a ParseFunc and an
// AnalysisFunc, supplied by the caller since parsing and the full
// checker pipeline are external to this package) plus the last graph and
// diagnostics a run produced.
type Console struct {
	parse       build.ParseFunc
	analyze     build.AnalysisFunc
	searchPaths []string
	cache       *modcache.Cache

	history    []string
	lastGraph  *build.Graph
	lastReport []*ergoerrors.Report
	rootPath   string
}

// New returns a Console. parse and analyze are the same narrow
// collaborators build.Builder takes; searchPaths seeds module
// resolution (build.ErgoStdlibSearchPaths's conventional default, or a
// manifest's manifest.ResolveSearchPaths).
func New(parse build.ParseFunc, analyze build.AnalysisFunc, searchPaths []string) *Console {
	return &Console{
		parse:       parse,
		analyze:     analyze,
		searchPaths: searchPaths,
		cache:       modcache.New(),
	}
}

// getPrompt returns the console's prompt, naming the last-loaded module
// if there is one -- the analogue of repl.go's capability-listing prompt,
// here listing the active module instead of granted effect capabilities.
func (c *Console) getPrompt() string {
	if c.rootPath == "" {
		return "ergo> "
	}
	return fmt.Sprintf("ergo[%s]> ", filepath.Base(c.rootPath))
}

// Start begins the interactive session, reading commands from a liner
// prompt and writing output to out until EOF or a :quit command.
func (c *Console) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), historyFileName)
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetMultiLineMode(false)

	fmt.Fprintf(out, "%s\n", bold("ergo debug console"))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(l string) (comp []string) {
		if !strings.HasPrefix(l, ":") {
			return nil
		}
		for _, cmd := range commandNames {
			if strings.HasPrefix(cmd, l) {
				comp = append(comp, cmd)
			}
		}
		return
	})

	for {
		input, err := line.Prompt(c.getPrompt())
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		c.history = append(c.history, input)

		if strings.HasPrefix(input, ":") {
			if strings.HasPrefix(input, ":quit") || strings.HasPrefix(input, ":q") {
				fmt.Fprintln(out, green("Goodbye!"))
				break
			}
			c.handleCommand(input, out)
			continue
		}

		// A bare (non-`:`) line is treated as a module path to load and run.
		c.load(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

var commandNames = []string{
	":help", ":quit", ":load", ":reload", ":graph", ":report", ":module", ":history", ":clear",
}

func (c *Console) handleCommand(input string, out io.Writer) {
	fields := strings.Fields(input)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case ":help":
		c.printHelp(out)
	case ":load", ":reload":
		path := c.rootPath
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			fmt.Fprintf(out, "%s: no module loaded yet; usage: :load <path>\n", red("Error"))
			return
		}
		c.load(path, out)
	case ":graph":
		c.printGraph(out)
	case ":report":
		c.printReport(out)
	case ":module":
		if len(args) == 0 {
			fmt.Fprintf(out, "%s: usage: :module <path>\n", red("Error"))
			return
		}
		c.printModule(args[0], out)
	case ":history":
		for i, h := range c.history {
			fmt.Fprintf(out, "%4d  %s\n", i+1, h)
		}
	case ":clear":
		c.history = nil
		c.lastGraph = nil
		c.lastReport = nil
		c.rootPath = ""
		fmt.Fprintln(out, dim("console state cleared"))
	default:
		fmt.Fprintf(out, "%s: unknown command %q (try :help)\n", yellow("Warning"), cmd)
	}
}

func (c *Console) printHelp(out io.Writer) {
	fmt.Fprintln(out, `Commands:
  :load <path>     load and run the pipeline against a root module
  :reload          re-run the pipeline against the last-loaded module
  :graph           print the dependency graph from the last run
  :report          print the collected diagnostics summary
  :module <path>   print one module's cache entry
  :history         print this session's command history
  :clear           forget the loaded module and history
  :quit            exit the console`)
}

// Load runs the build → analyze pipeline against rootPath and writes its
// diagnostic summary to out, exactly as typing the path at the prompt
// would. Exported so a caller (cmd/ergc's -c inline-source mode) can
// pre-load a module before handing control to Start's interactive loop.
func (c *Console) Load(rootPath string, out io.Writer) {
	c.load(rootPath, out)
}

// load runs the build → analyze pipeline against rootPath, caching the
// result for subsequent :graph/:report/:module commands.
func (c *Console) load(rootPath string, out io.Writer) {
	builder := build.NewBuilder(c.parse, c.cache, c.searchPaths)
	graph, reports := builder.Build(rootPath, c.analyze)

	c.rootPath = rootPath
	c.lastGraph = graph
	c.lastReport = reports

	col := ergoerrors.NewCollector()
	col.Extend(reports)
	col.WriteSummary(out, true)
}

func (c *Console) printGraph(out io.Writer) {
	if c.lastGraph == nil {
		fmt.Fprintf(out, "%s: no module loaded; use :load <path>\n", yellow("Warning"))
		return
	}
	fmt.Fprintf(out, "%s %s\n", cyan("root:"), c.lastGraph.RootPath)
	fmt.Fprintln(out, cyan("build order:"))
	for _, p := range c.lastGraph.PostOrder {
		marker := ""
		if c.lastGraph.DeclareOnly[p] {
			marker = dim(" (declare-only)")
		}
		fmt.Fprintf(out, "  %s%s\n", p, marker)
	}
	paths := make([]string, 0, len(c.lastGraph.Edges))
	for p := range c.lastGraph.Edges {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	if len(paths) > 0 {
		fmt.Fprintln(out, cyan("edges:"))
		for _, p := range paths {
			fmt.Fprintf(out, "  %s -> %s\n", p, strings.Join(c.lastGraph.Edges[p], ", "))
		}
	}
}

func (c *Console) printReport(out io.Writer) {
	col := ergoerrors.NewCollector()
	col.Extend(c.lastReport)
	if len(col.All()) == 0 {
		fmt.Fprintln(out, green("no diagnostics"))
		return
	}
	for _, r := range col.Sorted() {
		fmt.Fprintf(out, "[%s] %s: %s\n", r.Code, r.Module, r.Message)
	}
	col.WriteSummary(out, true)
}

func (c *Console) printModule(path string, out io.Writer) {
	entry, ok := c.cache.Get(path)
	if !ok {
		if suggestion, found := c.cache.SuggestSimilar(path); found {
			fmt.Fprintf(out, "%s: %q not found; did you mean %q?\n", red("Error"), path, suggestion)
			return
		}
		fmt.Fprintf(out, "%s: %q not found in the module cache\n", red("Error"), path)
		return
	}
	fmt.Fprintln(out, entry.String())
}
