// Package plan computes dry-run wrap plans: which modules an auto-wrap
// pass would turn into shard boundaries, without touching a real adapter.
package plan

import (
	"context"

	"github.com/aretw0/shardtree/internal/runtime"
	"github.com/aretw0/shardtree/pkg/domain"
	"github.com/aretw0/shardtree/pkg/ports"
	"github.com/aretw0/shardtree/pkg/scope"
)

// Entry records one wrap boundary chosen by the engine.
type Entry struct {
	Path   string      `json:"path" yaml:"path"`
	Kind   domain.Kind `json:"kind" yaml:"kind"`
	Params int64       `json:"params" yaml:"params"`
}

// Plan is the outcome of one dry-run auto-wrap pass. Entries appear in
// wrap order (bottom-up, children before parents, declaration order among
// siblings), which is also the order a real pass would assign process
// groups in.
type Plan struct {
	Entries []Entry `json:"entries" yaml:"entries"`

	// TotalParams counts every trainable element in the tree;
	// WrappedParams the portion claimed by the planned boundaries.
	TotalParams   int64 `json:"total_params" yaml:"total_params"`
	WrappedParams int64 `json:"wrapped_params" yaml:"wrapped_params"`
}

// Marked is the placeholder a dry-run pass substitutes for a wrapped
// module. It preserves the subtree untouched while the recorder's
// IsWrapped recognizes it as a boundary.
type Marked struct {
	domain.Module
}

// Unmark returns the original tree, removing every Marked placeholder a
// dry run introduced. The root itself may be a placeholder.
func Unmark(m domain.Module) domain.Module {
	if marked, ok := m.(*Marked); ok {
		m = marked.Module
	}
	for _, c := range m.Children() {
		if clean := Unmark(c.Module); clean != c.Module {
			m.ReplaceChild(c.Name, clean)
		}
	}
	return m
}

// Recorder is a ports.Wrapper that marks boundaries instead of sharding.
type Recorder struct{}

func (Recorder) Wrap(ctx context.Context, m domain.Module, opts map[string]any) (domain.Module, error) {
	return &Marked{Module: m}, nil
}

func (Recorder) IsWrapped(m domain.Module) bool {
	_, ok := m.(*Marked)
	return ok
}

// Build runs a dry auto-wrap pass over root with the given policy and
// returns the resulting plan. The tree is restored before returning, so
// the caller's model is left as it was.
func Build(ctx context.Context, root domain.Module, pol ports.Policy) (*Plan, error) {
	p := &Plan{}
	eng := runtime.NewEngine(runtime.WithHooks(domain.TraversalHooks{
		OnVisit: func(_ context.Context, ev *domain.TraversalEvent) {
			if ev.Path == "" {
				p.TotalParams = ev.Params
			}
		},
		OnWrap: func(_ context.Context, ev *domain.TraversalEvent) {
			p.Entries = append(p.Entries, Entry(*ev))
			p.WrappedParams += ev.Params
		},
	}))

	ctx = scope.Enable(ctx, scope.Config{Wrapper: Recorder{}, Policy: pol})
	out, err := eng.AutoWrap(ctx, root, scope.Config{})
	if err != nil {
		return nil, err
	}
	Unmark(out)
	return p, nil
}
