// Package shard is the reference sharding adapter for shardtree.
//
// It implements ports.Wrapper with an in-process stand-in for a real
// distributed sharding wrapper: it records the process group and resolved
// options instead of flattening storage or issuing collectives. Real
// integrations keep this package's shape and swap the mechanics.
package shard

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/shardtree"
	"github.com/aretw0/shardtree/pkg/domain"
	"github.com/aretw0/shardtree/pkg/ports"
)

// ProcessGroup identifies the collective-communication group a shard
// participates in.
type ProcessGroup struct {
	Rank int
	Size int
}

// NewProcessGroup creates a process group handle.
func NewProcessGroup(rank, size int) *ProcessGroup {
	return &ProcessGroup{Rank: rank, Size: size}
}

// Options control shard construction. They are decoded from the merged
// option map of the active scope; unknown keys in the map are rejected so
// misspelled options fail loudly.
type Options struct {
	ProcessGroup  *ProcessGroup `mapstructure:"process_group"`
	FlattenParams bool          `mapstructure:"flatten_params"`
	OffloadParams bool          `mapstructure:"offload_params"`
}

// Module is a sharded group: it owns exactly one inner module (the
// original subtree root) plus the adapter state used to build it.
type Module struct {
	inner domain.Module
	opts  Options
}

func (s *Module) Kind() domain.Kind { return domain.KindShard }

// Parameters is empty: the inner module keeps ownership of its
// parameters, and wrapped subtrees are opaque to measurement anyway.
func (s *Module) Parameters() []*domain.Parameter { return nil }

func (s *Module) Children() []domain.Child {
	return []domain.Child{{Name: "module", Module: s.inner}}
}

func (s *Module) ReplaceChild(name string, m domain.Module) {
	if name == "module" {
		s.inner = m
	}
}

// Inner returns the wrapped subtree root.
func (s *Module) Inner() domain.Module { return s.inner }

// ProcessGroup returns the group handle the shard was built with, or nil.
func (s *Module) ProcessGroup() *ProcessGroup { return s.opts.ProcessGroup }

// Options returns the resolved construction options.
func (s *Module) Options() Options { return s.opts }

// Wrapper implements ports.Wrapper for the shard family.
type Wrapper struct{}

var _ ports.Wrapper = Wrapper{}

// Wrap builds a shard around m, non-recursively.
func (Wrapper) Wrap(ctx context.Context, m domain.Module, opts map[string]any) (domain.Module, error) {
	if (Wrapper{}).IsWrapped(m) {
		return nil, domain.ErrAlreadyWrapped
	}
	o, err := decodeOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Module{inner: m, opts: o}, nil
}

// IsWrapped reports whether m is a shard produced by this family.
func (Wrapper) IsWrapped(m domain.Module) bool {
	_, ok := m.(*Module)
	return ok
}

func decodeOptions(opts map[string]any) (Options, error) {
	var o Options
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &o,
		ErrorUnused: true,
	})
	if err != nil {
		return Options{}, fmt.Errorf("shard: building option decoder: %w", err)
	}
	if err := dec.Decode(opts); err != nil {
		return Options{}, fmt.Errorf("shard: invalid options: %w", err)
	}
	return o, nil
}

// CtorOption configures New.
type CtorOption func(*ctorConfig)

type ctorConfig struct {
	opts   Options
	policy ports.Policy
}

// WithProcessGroup sets the process group for the shard and any shards
// created by auto-wrapping.
func WithProcessGroup(pg *ProcessGroup) CtorOption {
	return func(c *ctorConfig) { c.opts.ProcessGroup = pg }
}

// WithFlattenParams enables parameter flattening.
func WithFlattenParams(on bool) CtorOption {
	return func(c *ctorConfig) { c.opts.FlattenParams = on }
}

// WithOffloadParams enables parameter offload.
func WithOffloadParams(on bool) CtorOption {
	return func(c *ctorConfig) { c.opts.OffloadParams = on }
}

// WithAutoWrapPolicy makes New pre-partition the argument tree with the
// given policy before wrapping it.
func WithAutoWrapPolicy(p ports.Policy) CtorOption {
	return func(c *ctorConfig) { c.policy = p }
}

// New builds a shard around m directly, without requiring an active scope.
//
// With WithAutoWrapPolicy the construction is two-phase: phase one runs
// the auto-wrap engine over m's descendants (m itself is left alone), and
// phase two wraps the now partially pre-wrapped tree. m must NOT already
// be wrapped; New fails fast with domain.ErrAlreadyWrapped instead of
// silently double-wrapping.
func New(ctx context.Context, m domain.Module, opts ...CtorOption) (*Module, error) {
	var cfg ctorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	w := Wrapper{}
	if w.IsWrapped(m) {
		return nil, fmt.Errorf("shard: module passed to New must NOT already be sharded: %w", domain.ErrAlreadyWrapped)
	}
	if cfg.policy != nil {
		ctx := shardtree.EnableWrap(ctx, shardtree.Config{
			Wrapper: w,
			Policy:  cfg.policy,
			Options: optionMap(cfg.opts),
		})
		pre, err := shardtree.AutoWrapChildren(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("shard: auto wrap: %w", err)
		}
		m = pre
	}
	return &Module{inner: m, opts: cfg.opts}, nil
}

func optionMap(o Options) map[string]any {
	out := map[string]any{
		"flatten_params": o.FlattenParams,
		"offload_params": o.OffloadParams,
	}
	if o.ProcessGroup != nil {
		out["process_group"] = o.ProcessGroup
	}
	return out
}
