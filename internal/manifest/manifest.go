// Package manifest parses Cargo.toml and validates the declared metadata:
// package fields, dependency version specs and the Rust edition.
package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest filename at the project root.
const FileName = "Cargo.toml"

// Manifest is the parsed Cargo.toml. A manifest with no [package] section
// is a legal virtual/workspace manifest.
type Manifest struct {
	Package           *Package              `toml:"package"`
	Dependencies      map[string]Dependency `toml:"dependencies"`
	DevDependencies   map[string]Dependency `toml:"dev-dependencies"`
	BuildDependencies map[string]Dependency `toml:"build-dependencies"`
}

// Package is the [package] section. Optional fields are empty when absent.
type Package struct {
	Name        string      `toml:"name"`
	Version     string      `toml:"version"`
	Edition     string      `toml:"edition"`
	Description string      `toml:"description"`
	License     string      `toml:"license"`
	Readme      ReadmeValue `toml:"readme"`
	Repository  string      `toml:"repository"`
}

// ReadmeValue models the polymorphic readme field: a path string,
// the boolean false, absent, or something malformed.
type ReadmeValue struct {
	set    bool
	str    string
	isStr  bool
	b      bool
	isBool bool
}

// UnmarshalTOML accepts a string or a boolean; any other shape is recorded
// as set-but-malformed so the readme check can flag it.
func (r *ReadmeValue) UnmarshalTOML(v any) error {
	r.set = true
	switch val := v.(type) {
	case string:
		r.str, r.isStr = val, true
	case bool:
		r.b, r.isBool = val, true
	}
	return nil
}

// IsSet reports whether the field was present at all.
func (r ReadmeValue) IsSet() bool { return r.set }

// Str returns the path string form, if that is what was declared.
func (r ReadmeValue) Str() (string, bool) { return r.str, r.isStr }

// Bool returns the boolean form, if that is what was declared.
func (r ReadmeValue) Bool() (bool, bool) { return r.b, r.isBool }

// Dependency is polymorphic over a bare version string and a detailed
// table with optional version, local path and feature list.
type Dependency struct {
	Version  string
	Path     string
	Features []string
	detailed bool
}

// UnmarshalTOML accepts `dep = "1.0"` and `dep = { version = ..., path = ..., features = [...] }`.
func (d *Dependency) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		d.Version = val
	case map[string]any:
		d.detailed = true
		if s, ok := val["version"].(string); ok {
			d.Version = s
		}
		if s, ok := val["path"].(string); ok {
			d.Path = s
		}
		if raw, ok := val["features"].([]any); ok {
			for _, f := range raw {
				if s, ok := f.(string); ok {
					d.Features = append(d.Features, s)
				}
			}
		}
	default:
		return fmt.Errorf("unsupported dependency value of type %T", v)
	}
	return nil
}

// IsLocal reports whether this is a local/workspace dependency: a path
// with no version. Local dependencies are exempt from registry-freshness
// and wildcard checks.
func (d Dependency) IsLocal() bool {
	return d.Path != "" && d.Version == ""
}

// Parse loads and decodes the Cargo.toml inside projectRoot.
func Parse(projectRoot string) (*Manifest, error) {
	path := filepath.Join(projectRoot, FileName)
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("%s: failed to parse manifest: %w", path, err)
	}
	return &m, nil
}
