package errors

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/width"
)

// visualWidth measures s the way a terminal renders it: fullwidth and wide
// runes (CJK, fullwidth punctuation in a diagnostic's quoted source
// snippet) count as two columns, matching golang.org/x/text/width's East
// Asian Width classification rather than simple rune count.
func visualWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func pad(s string, to int) string {
	w := visualWidth(s)
	if w >= to {
		return s
	}
	return s + strings.Repeat(" ", to-w)
}

var kindColor = map[Kind]*color.Color{
	KindSyntax:   color.New(color.FgRed),
	KindName:     color.New(color.FgRed),
	KindType:     color.New(color.FgRed),
	KindEffect:   color.New(color.FgRed),
	KindMove:     color.New(color.FgRed),
	KindFeature:  color.New(color.FgYellow),
	KindImport:   color.New(color.FgRed),
	KindIo:       color.New(color.FgRed),
	KindCompiler: color.New(color.FgMagenta),
	KindWarning:  color.New(color.FgYellow),
}

// WriteSummary prints the end-of-run line spec.md §7 requires: per-Kind
// counts, column-aligned, followed by the overall pass/fail verdict.
func (c *Collector) WriteSummary(w io.Writer, useColor bool) {
	counts := c.Counts()
	kinds := make([]Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	maxLabel := 0
	for _, k := range kinds {
		if lw := visualWidth(string(k)); lw > maxLabel {
			maxLabel = lw
		}
	}

	for _, k := range kinds {
		label := pad(string(k)+":", maxLabel+1)
		line := fmt.Sprintf("  %s %d", label, counts[k])
		if useColor {
			if cl, ok := kindColor[k]; ok {
				line = cl.Sprint(line)
			}
		}
		fmt.Fprintln(w, line)
	}

	if c.HasErrors() {
		verdict := fmt.Sprintf("FAILED with %d diagnostic(s)", len(c.All()))
		if useColor {
			verdict = color.New(color.FgRed, color.Bold).Sprint(verdict)
		}
		fmt.Fprintln(w, verdict)
		return
	}
	verdict := "OK"
	if useColor {
		verdict = color.New(color.FgGreen, color.Bold).Sprint(verdict)
	}
	fmt.Fprintln(w, verdict)
}
