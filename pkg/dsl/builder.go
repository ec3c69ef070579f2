package dsl

import (
	"fmt"

	"github.com/aretw0/shardtree/pkg/domain"
)

// Builder accumulates one module description.
type Builder struct {
	kind     domain.Kind
	params   []*domain.Parameter
	children []domain.Child
}

// Module starts a new module description of the given kind.
func Module(kind domain.Kind) *Builder {
	return &Builder{kind: kind}
}

// Param adds a locally-owned trainable parameter.
func (b *Builder) Param(name string, numel int64) *Builder {
	b.params = append(b.params, domain.NewParameter(name, numel))
	return b
}

// Shared adds an existing parameter by reference, for weight tying across
// modules.
func (b *Builder) Shared(p *domain.Parameter) *Builder {
	b.params = append(b.params, p)
	return b
}

// Child adds a named child.
func (b *Builder) Child(name string, c *Builder) *Builder {
	b.children = append(b.children, domain.Child{Name: name, Module: c.Build()})
	return b
}

// Build materializes the description as a domain module.
func (b *Builder) Build() domain.Module {
	g := domain.NewGroup(b.kind, b.children...)
	for _, p := range b.params {
		g.AddParameter(p)
	}
	return g
}

// Linear describes a fully-connected layer with a weight of in*out
// elements and a bias of out elements.
func Linear(in, out int64) *Builder {
	return Module(domain.KindLinear).
		Param("weight", in*out).
		Param("bias", out)
}

// LinearNoBias describes a fully-connected layer without a bias.
func LinearNoBias(in, out int64) *Builder {
	return Module(domain.KindLinear).Param("weight", in*out)
}

// Attention describes an attention block: in-projection, out-projection,
// and biases, with the out-projection kept as an inner child the way the
// reference layer lays it out.
func Attention(embed, heads int64) *Builder {
	_ = heads // head count does not change the parameter total
	return Module(domain.KindAttention).
		Param("in_proj_weight", 3*embed*embed).
		Param("in_proj_bias", 3*embed).
		Child("out_proj", Linear(embed, embed))
}

// Sequential describes an ordered composite; children are named by index.
func Sequential(children ...*Builder) *Builder {
	b := Module(domain.KindSequential)
	for i, c := range children {
		b.Child(fmt.Sprintf("%d", i), c)
	}
	return b
}

// List describes a pure container of children named by index.
func List(children ...*Builder) *Builder {
	b := Module(domain.KindList)
	for i, c := range children {
		b.Child(fmt.Sprintf("%d", i), c)
	}
	return b
}
