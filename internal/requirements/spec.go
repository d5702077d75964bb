// Package requirements implements the dependency-requirements refresh
// pipeline: YAML requirement specifications are normalized in place, and
// plain-text requirement files are regenerated per package group whenever
// normalization changed the working tree.
package requirements

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/flowscope/flowscope/internal/pkg/errors"
)

// PackageGroups is the fixed enumeration of logical package groups for which
// requirement text files are generated.
var PackageGroups = []string{"tracing", "skinny", "core", "gateway"}

// Package is one dependency constraint within a requirement specification.
type Package struct {
	Name    string   `yaml:"name"`
	Minimum string   `yaml:"minimum,omitempty"`
	Maximum string   `yaml:"maximum,omitempty"`
	Pin     string   `yaml:"pin,omitempty"`
	Extras  []string `yaml:"extras,omitempty"`
	Markers string   `yaml:"markers,omitempty"`
	// DevOnly packages stay in the YAML specification but are excluded
	// from the generated requirement files.
	DevOnly bool `yaml:"dev_only,omitempty"`
}

// Spec is the requirement specification for one package group.
type Spec struct {
	Group    string    `yaml:"group"`
	Packages []Package `yaml:"packages"`
}

// LoadSpec reads and parses a YAML requirement specification.
func LoadSpec(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading requirement spec: %w", err)
	}

	var spec Spec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parsing requirement spec %s: %w", path, err)
	}
	return &spec, nil
}

// Write marshals the specification back to its YAML form.
func (s *Spec) Write(path string) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling requirement spec: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing requirement spec: %w", err)
	}
	return nil
}

// Canonicalize rewrites the specification into its normal form: package
// names lowercased with underscores folded to hyphens, versions stripped of
// a leading "v" with missing patch segments collapsed, duplicates dropped
// (last occurrence wins), and packages sorted by name. It reports whether
// anything changed.
func (s *Spec) Canonicalize() bool {
	before, err := yaml.Marshal(s)
	if err != nil {
		before = nil
	}

	byName := make(map[string]Package, len(s.Packages))
	order := make([]string, 0, len(s.Packages))

	for _, pkg := range s.Packages {
		pkg.Name = CanonicalName(pkg.Name)
		pkg.Minimum = canonicalVersion(pkg.Minimum)
		pkg.Maximum = canonicalVersion(pkg.Maximum)
		pkg.Pin = canonicalVersion(pkg.Pin)
		pkg.Markers = strings.TrimSpace(pkg.Markers)
		for i := range pkg.Extras {
			pkg.Extras[i] = CanonicalName(pkg.Extras[i])
		}
		sort.Strings(pkg.Extras)

		if _, seen := byName[pkg.Name]; !seen {
			order = append(order, pkg.Name)
		}
		byName[pkg.Name] = pkg
	}

	sort.Strings(order)
	normalized := make([]Package, 0, len(order))
	for _, name := range order {
		normalized = append(normalized, byName[name])
	}
	s.Packages = normalized

	after, err := yaml.Marshal(s)
	if err != nil {
		return true
	}
	return string(before) != string(after)
}

// Validate checks the specification for contradictory constraints.
func (s *Spec) Validate() error {
	for _, pkg := range s.Packages {
		if CanonicalName(pkg.Name) == "" {
			return apperrors.Validation("package name is required")
		}
		if pkg.Pin != "" && (pkg.Minimum != "" || pkg.Maximum != "") {
			return apperrors.Validation(
				fmt.Sprintf("package %s: pin and minimum/maximum are mutually exclusive", pkg.Name))
		}
	}
	return nil
}

// ConstraintLine renders a package as one line of a requirements text file.
func (p Package) ConstraintLine() string {
	var b strings.Builder
	b.WriteString(p.Name)

	if len(p.Extras) > 0 {
		b.WriteString("[")
		b.WriteString(strings.Join(p.Extras, ","))
		b.WriteString("]")
	}

	switch {
	case p.Pin != "":
		b.WriteString("==")
		b.WriteString(p.Pin)
	default:
		var bounds []string
		if p.Minimum != "" {
			bounds = append(bounds, ">="+p.Minimum)
		}
		if p.Maximum != "" {
			bounds = append(bounds, "<"+p.Maximum)
		}
		b.WriteString(strings.Join(bounds, ","))
	}

	if p.Markers != "" {
		b.WriteString(" ; ")
		b.WriteString(p.Markers)
	}

	return b.String()
}

// CanonicalName normalizes a package name: lowercase with underscores and
// dots folded to hyphens.
func CanonicalName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, ".", "-")
	return name
}

// canonicalVersion strips a leading "v" and pads purely numeric versions to
// three segments ("1.2" becomes "1.2.0"). Versions carrying pre-release or
// local suffixes are left as written.
func canonicalVersion(version string) string {
	version = strings.TrimSpace(version)
	version = strings.TrimPrefix(version, "v")
	if version == "" {
		return version
	}

	parts := strings.Split(version, ".")
	if len(parts) >= 3 {
		return version
	}
	for _, part := range parts {
		if !isDigits(part) {
			return version
		}
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts, ".")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
