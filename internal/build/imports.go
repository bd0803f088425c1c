package build

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sunholo/ergo/internal/ast"
)

// importSite is one recognized top-level import call, with a setter that
// performs the in-place AST rewrite spec.md §4.6 describes (self-import ->
// SelfModule, cycle-closing import -> ImportInline).
type importSite struct {
	path    string
	native  bool
	pos     ast.Pos
	replace func(ast.Expr)
}

// gatherImports finds every top-level import call in file (spec.md §4.6
// step 1: "a call to a builtin whose single positional argument is a
// string literal"). Only top-level `name = import "p"` bindings and bare
// `import "p"` statements are recognized; nested imports are not part of
// this language's surface.
func gatherImports(file *ast.File) []importSite {
	var sites []importSite
	for i, stmt := range file.Statements {
		switch n := stmt.(type) {
		case *ast.Assign:
			fc, ok := n.Value.(*ast.FuncCall)
			if !ok {
				continue
			}
			path, native, ok := ast.ImportTarget(fc)
			if !ok {
				continue
			}
			assign := n
			sites = append(sites, importSite{
				path: path, native: native, pos: fc.Position(),
				replace: func(e ast.Expr) { assign.Value = e },
			})
		case *ast.FuncCall:
			path, native, ok := ast.ImportTarget(n)
			if !ok {
				continue
			}
			idx := i
			sites = append(sites, importSite{
				path: path, native: native, pos: n.Position(),
				replace: func(e ast.Expr) { file.Statements[idx] = e },
			})
		}
	}
	return sites
}

// resolvePath computes the canonical absolute path of a raw import target
// relative to the importing file, falling back to the builder's search
// paths (spec.md §4.6 step 2's "canonical absolute path of p relative to
// the importer").
func (b *Builder) resolvePath(importerPath, target string) (string, error) {
	candidates := []string{filepath.Join(filepath.Dir(importerPath), target)}
	for _, sp := range b.searchPaths {
		candidates = append(candidates, filepath.Join(sp, target))
	}

	for _, c := range candidates {
		if !strings.HasSuffix(c, SourceExt) {
			c += SourceExt
		}
		if fileExists(c) {
			return canonicalPath(c)
		}
	}
	return "", fmt.Errorf("module %q not found (searched %d candidate path(s))", target, len(candidates))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
