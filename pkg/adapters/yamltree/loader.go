// Package yamltree loads module trees from a declarative YAML description,
// for tools that need a tree without a model framework behind it.
//
// The document mirrors the domain model directly:
//
//	kind: sequential
//	children:
//	  - name: "0"
//	    kind: linear
//	    params:
//	      - {name: weight, numel: 25}
//	      - {name: bias, numel: 5}
package yamltree

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/shardtree/pkg/domain"
)

// Spec is one module in the YAML document.
type Spec struct {
	Name     string      `yaml:"name"`
	Kind     string      `yaml:"kind"`
	Params   []ParamSpec `yaml:"params,omitempty"`
	Children []Spec      `yaml:"children,omitempty"`
}

// ParamSpec is one locally-owned parameter.
type ParamSpec struct {
	Name   string `yaml:"name"`
	Numel  int64  `yaml:"numel"`
	Frozen bool   `yaml:"frozen,omitempty"`
}

// Load reads a YAML document from r and builds the module tree.
func Load(r io.Reader) (domain.Module, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("yamltree: reading document: %w", err)
	}
	return Parse(raw)
}

// Parse builds the module tree described by data.
func Parse(data []byte) (domain.Module, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("yamltree: invalid document: %w", err)
	}
	return build(spec, "")
}

func build(spec Spec, path string) (domain.Module, error) {
	if spec.Kind == "" {
		return nil, fmt.Errorf("yamltree: module %q has no kind", orRoot(path))
	}
	g := domain.NewGroup(domain.Kind(spec.Kind))
	for _, p := range spec.Params {
		if p.Numel < 0 {
			return nil, fmt.Errorf("yamltree: module %q: parameter %q has negative numel", orRoot(path), p.Name)
		}
		g.AddParameter(&domain.Parameter{Name: p.Name, Numel: p.Numel, Frozen: p.Frozen})
	}
	seen := make(map[string]struct{}, len(spec.Children))
	for i, c := range spec.Children {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("%d", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("yamltree: module %q: duplicate child name %q", orRoot(path), name)
		}
		seen[name] = struct{}{}
		child, err := build(c, childPath(path, name))
		if err != nil {
			return nil, err
		}
		g.Add(name, child)
	}
	return g, nil
}

func childPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func orRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
