package domain

// Module is a node in a composition tree. Trees are caller-owned, finite
// and acyclic; a module's identity is stable across one traversal.
type Module interface {
	// Kind returns the type tag used for policy matching.
	Kind() Kind

	// Parameters returns the parameters owned directly by this module,
	// excluding those owned by children.
	Parameters() []*Parameter

	// Children returns the direct children in declaration order.
	Children() []Child

	// ReplaceChild swaps the named child for m, preserving declaration
	// order. Unknown names are ignored.
	ReplaceChild(name string, m Module)
}

// Child is a named edge from a module to one of its children.
type Child struct {
	Name   string
	Module Module
}

// Decision is a per-module policy outcome.
//
// Recurse=false treats the subtree as an opaque leaf: its internal
// structure is preserved unmodified. Wrap=true makes this module (after
// its children have been processed) the root of a wrapped group.
type Decision struct {
	Recurse bool
	Wrap    bool
}

// Group is the general-purpose composite module. It is the concrete type
// behind trees built with pkg/dsl and pkg/adapters/yamltree; callers with
// their own module representation can implement Module directly instead.
type Group struct {
	kind     Kind
	params   []*Parameter
	children []Child
}

// NewGroup creates a composite module of the given kind.
func NewGroup(kind Kind, children ...Child) *Group {
	return &Group{kind: kind, children: children}
}

// NewLeaf creates a childless module owning the given parameters.
func NewLeaf(kind Kind, params ...*Parameter) *Group {
	return &Group{kind: kind, params: params}
}

// Add appends a named child and returns g for chaining.
func (g *Group) Add(name string, m Module) *Group {
	g.children = append(g.children, Child{Name: name, Module: m})
	return g
}

// AddParameter appends a locally-owned parameter and returns g for chaining.
func (g *Group) AddParameter(p *Parameter) *Group {
	g.params = append(g.params, p)
	return g
}

func (g *Group) Kind() Kind { return g.kind }

func (g *Group) Parameters() []*Parameter { return g.params }

func (g *Group) Children() []Child { return g.children }

func (g *Group) ReplaceChild(name string, m Module) {
	for i := range g.children {
		if g.children[i].Name == name {
			g.children[i].Module = m
			return
		}
	}
}

// ChildByName returns the named child module, or nil.
func (g *Group) ChildByName(name string) Module {
	for _, c := range g.children {
		if c.Name == name {
			return c.Module
		}
	}
	return nil
}
