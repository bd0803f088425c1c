// Package manifest loads and validates a project's ergo.yaml manifest: the
// module name, the source/stdlib search path list, whether the implicit
// stdlib search path is suppressed (--no-std), and the target language
// version a package is compiled against.
//
// Grounded on ailang/internal/manifest/manifest.go's New/Load/Save/Validate
// shape, adapted from a JSON example-status manifest (schema digest,
// per-example statistics) to a YAML project manifest (spec.md §6's
// designated ERGO_STDLIB_PATH environment variable and search-path/
// target-version configuration), so it now uses gopkg.in/yaml.v3 rather
// than encoding/json + the internal/schema deterministic marshaler.
package manifest

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaVersion identifies the ergo.yaml document shape this package reads
// and writes.
const SchemaVersion = "ergo.manifest/v1"

// defaultTargetVersion is the target version New seeds a manifest with when
// the caller has no opinion yet.
const defaultTargetVersion = "0.1.0"

// Manifest is the parsed contents of a project's ergo.yaml.
type Manifest struct {
	Schema        string   `yaml:"schema"`
	Module        string   `yaml:"module"`
	TargetVersion string   `yaml:"target_version"`
	SearchPaths   []string `yaml:"search_paths,omitempty"`
	NoStd         bool     `yaml:"no_std,omitempty"`
}

// New returns a manifest for the named module, seeded with defaults.
func New(module string) *Manifest {
	return &Manifest{
		Schema:        SchemaVersion,
		Module:        module,
		TargetVersion: defaultTargetVersion,
	}
}

// Load reads and validates a manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest validation failed: %w", err)
	}

	return &m, nil
}

// Save writes the manifest to path as YAML. yaml.v3 marshals struct fields
// in declaration order, so the output is deterministic without the extra
// sorting/digest machinery a JSON sibling would need.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the manifest for consistency.
func (m *Manifest) Validate() error {
	if m.Schema != SchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected %s)", m.Schema, SchemaVersion)
	}
	if m.Module == "" {
		return fmt.Errorf("missing module name")
	}
	if _, err := ParseVersion(m.TargetVersion); err != nil {
		return fmt.Errorf("invalid target_version: %w", err)
	}

	seen := make(map[string]bool, len(m.SearchPaths))
	for _, p := range m.SearchPaths {
		if p == "" {
			return fmt.Errorf("empty entry in search_paths")
		}
		if seen[p] {
			return fmt.Errorf("duplicate search path: %s", p)
		}
		seen[p] = true
	}

	return nil
}

// ResolveSearchPaths returns the module-search path list a build should
// use: the manifest's own search_paths, followed by ERGO_STDLIB_PATH's
// entries (spec.md §6's designated environment variable), unless NoStd
// suppresses the implicit stdlib lookup (the --no-std CLI flag's effect).
func (m *Manifest) ResolveSearchPaths() []string {
	paths := append([]string(nil), m.SearchPaths...)
	if m.NoStd {
		return paths
	}
	if raw := os.Getenv("ERGO_STDLIB_PATH"); raw != "" {
		paths = append(paths, strings.Split(raw, string(os.PathListSeparator))...)
	}
	return paths
}

// Version is a parsed major.minor[.patch] target version, per spec.md §6's
// --target-version flag.
type Version struct {
	Major, Minor, Patch int
}

// ParseVersion parses a "major.minor" or "major.minor.patch" string.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 && len(parts) != 3 {
		return Version{}, fmt.Errorf("version %q must be major.minor or major.minor.patch", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("version %q has a non-numeric component %q", s, p)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String renders v as major.minor.patch.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other.
func (v Version) Compare(other Version) int {
	for _, pair := range [][2]int{{v.Major, other.Major}, {v.Minor, other.Minor}, {v.Patch, other.Patch}} {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}
