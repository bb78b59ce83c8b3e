// Package manifest loads declarative module *descriptors* — metadata
// only, never handlers — from YAML files, so operators and documentation
// tooling can discover what modules exist without reading Go source. The
// actual schema.Spec registration (with its Go handler funcs) still
// happens in code; a Spec's handler cannot be expressed as data.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coreflux/netcfgd/core/token"
)

// Descriptor is metadata about one registered module, independent of its
// Go implementation.
type Descriptor struct {
	Name        string   `yaml:"module"`
	Version     string   `yaml:"version,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Depends     []string `yaml:"depends,omitempty"`
}

// Validate checks the descriptor's own invariants — it does not check
// that Depends names other modules that actually exist, since that
// requires the full set and is the caller's job.
func (d Descriptor) Validate() error {
	if !token.IsIdentifier(d.Name) {
		return fmt.Errorf("module descriptor: name %q is not a valid identifier", d.Name)
	}
	for _, dep := range d.Depends {
		if !token.IsIdentifier(dep) {
			return fmt.Errorf("module descriptor %q: dependency name %q is not a valid identifier", d.Name, dep)
		}
	}
	return nil
}

// ParseFile loads one Descriptor from a YAML file.
func ParseFile(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse loads one Descriptor from YAML bytes.
func Parse(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// ParseDir loads every *.yaml/*.yml file directly under dir as a
// Descriptor (non-recursive — module manifests are expected to sit flat
// in one directory).
func ParseDir(dir string) ([]Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var out []Descriptor
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		d, err := ParseFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
