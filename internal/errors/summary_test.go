package errors

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteSummaryReportsOK(t *testing.T) {
	c := NewCollector()
	c.Add(&Report{Kind: KindWarning})

	var buf bytes.Buffer
	c.WriteSummary(&buf, false)

	out := buf.String()
	if !strings.Contains(out, "Warning:") {
		t.Errorf("expected a Warning count line, got %q", out)
	}
	if !strings.Contains(out, "OK") {
		t.Errorf("expected OK verdict, got %q", out)
	}
}

func TestWriteSummaryReportsFailure(t *testing.T) {
	c := NewCollector()
	c.Add(&Report{Kind: KindType})
	c.Add(&Report{Kind: KindEffect})

	var buf bytes.Buffer
	c.WriteSummary(&buf, false)

	out := buf.String()
	if !strings.Contains(out, "FAILED with 2 diagnostic(s)") {
		t.Errorf("expected failure verdict with count, got %q", out)
	}
}

func TestVisualWidthCountsFullwidthRunesDouble(t *testing.T) {
	if visualWidth("ab") != 2 {
		t.Errorf("expected ascii width 2")
	}
	if w := visualWidth("日本語"); w != 6 {
		t.Errorf("expected fullwidth string width 6, got %d", w)
	}
}
