// Package sid provides stable, content-addressed identifiers for test
// cases and diagnostic sites: a hash of a location's canonical path,
// span, and kind rather than a process-local counter, so the same test
// case or node gets the same ID across repeated runs and recompiles.
package sid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// SID is a stable identifier.
type SID string

// NewSID hashes a canonicalized path together with a span, a kind label,
// and an optional child path (e.g. an index chain for nested nodes) into
// a short, stable identifier.
func NewSID(path string, start, end int, kind string, childPath []int) SID {
	canonPath := canonicalizePath(path)

	parts := []string{canonPath, fmt.Sprintf("%d", start), fmt.Sprintf("%d", end), kind}
	for _, idx := range childPath {
		parts = append(parts, fmt.Sprintf("%d", idx))
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return SID(hex.EncodeToString(hash[:])[:16])
}

// canonicalizePath normalizes a file path for stable SID calculation.
func canonicalizePath(path string) string {
	path = filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	// SID stability only; actual resolution uses real FS semantics.
	if isCaseInsensitive() {
		path = strings.ToLower(path)
	}
	return filepath.ToSlash(path)
}

func isCaseInsensitive() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}
