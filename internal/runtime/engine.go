package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/shardtree/internal/logging"
	"github.com/aretw0/shardtree/pkg/domain"
	"github.com/aretw0/shardtree/pkg/policy"
	"github.com/aretw0/shardtree/pkg/ports"
	"github.com/aretw0/shardtree/pkg/scope"
)

// Engine is the core wrap traversal runner. It is stateless between calls;
// one Engine may serve many trees.
type Engine struct {
	logger *slog.Logger
	hooks  domain.TraversalHooks
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger for traversal events.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithHooks registers observability hooks invoked during traversal.
func WithHooks(hooks domain.TraversalHooks) EngineOption {
	return func(e *Engine) { e.hooks = hooks }
}

// NewEngine creates a traversal engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WrapOne wraps exactly one module, non-recursively, using the scope
// configuration on ctx merged with override (override wins per key).
//
// Outside any scope this is a deliberate pass-through: m is returned
// unchanged so callers can invoke it unconditionally and let ambient
// configuration decide real behavior.
func (e *Engine) WrapOne(ctx context.Context, m domain.Module, override scope.Config) (domain.Module, error) {
	cfg, ok := scope.Current(ctx)
	if !ok {
		return m, nil
	}
	merged := cfg.Merge(override)
	if merged.Wrapper == nil {
		return nil, fmt.Errorf("wrap [kind=%s]: %w", m.Kind(), domain.ErrNoWrapper)
	}
	if merged.Wrapper.IsWrapped(m) {
		return nil, &domain.WrapError{Kind: m.Kind(), Err: domain.ErrAlreadyWrapped}
	}
	wrapped, err := merged.Wrapper.Wrap(ctx, m, merged.Options)
	if err != nil {
		return nil, &domain.WrapError{Kind: m.Kind(), Err: err}
	}
	e.logger.Debug("wrapped module", "kind", m.Kind())
	return wrapped, nil
}

// AutoWrap walks the whole tree rooted at root, bottom-up, wrapping the
// modules chosen by the configured policy. Children are replaced in place
// on their parents; the returned module is the new root, which may itself
// be wrapped.
//
// Outside any scope the tree is returned unchanged. If root is already
// wrapped the call fails with domain.ErrAlreadyWrapped; already-wrapped
// descendants discovered mid-walk are simply treated as opaque. On error
// the tree keeps every wrap applied before the failure; nothing is rolled
// back.
func (e *Engine) AutoWrap(ctx context.Context, root domain.Module, override scope.Config) (domain.Module, error) {
	return e.autoWrap(ctx, root, override, true)
}

// AutoWrapChildren is AutoWrap with the final root wrap suppressed. It is
// the phase-1 half of the two-phase adapter construction protocol: the
// adapter pre-partitions the inner tree here, then finalizes the outer
// wrap itself.
func (e *Engine) AutoWrapChildren(ctx context.Context, root domain.Module, override scope.Config) (domain.Module, error) {
	return e.autoWrap(ctx, root, override, false)
}

func (e *Engine) autoWrap(ctx context.Context, root domain.Module, override scope.Config, wrapRoot bool) (domain.Module, error) {
	cfg, ok := scope.Current(ctx)
	if !ok {
		return root, nil
	}
	merged := cfg.Merge(override)
	if merged.Wrapper == nil {
		return nil, fmt.Errorf("auto wrap [kind=%s]: %w", root.Kind(), domain.ErrNoWrapper)
	}
	if merged.Wrapper.IsWrapped(root) {
		return nil, &domain.WrapError{Kind: root.Kind(), Err: domain.ErrAlreadyWrapped}
	}
	pol := merged.Policy
	if pol == nil {
		pol = policy.Default()
	}
	out, err := e.walk(ctx, root, "", pol, merged, wrapRoot)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// walk visits m exactly once per AutoWrap call. It returns the module that
// should take m's place under its parent.
func (e *Engine) walk(ctx context.Context, m domain.Module, path string, pol ports.Policy, cfg scope.Config, wrapSelf bool) (domain.Module, error) {
	unwrapped := policy.CountUnwrapped(m, cfg.Wrapper.IsWrapped)
	e.visit(ctx, path, m, unwrapped)

	d, err := pol.Decide(m, true, unwrapped)
	if err != nil {
		return nil, &domain.WrapError{Path: path, Kind: m.Kind(), Err: err}
	}

	if d.Recurse {
		for _, c := range m.Children() {
			if cfg.Wrapper.IsWrapped(c.Module) {
				// Opaque: not descended, not re-wrapped.
				continue
			}
			replacement, err := e.walk(ctx, c.Module, childPath(path, c.Name), pol, cfg, true)
			if err != nil {
				return nil, err
			}
			if replacement != c.Module {
				m.ReplaceChild(c.Name, replacement)
			}
		}
		// Children wrapped above no longer count; the wrap decision is
		// made on what remains.
		unwrapped = policy.CountUnwrapped(m, cfg.Wrapper.IsWrapped)
		d, err = pol.Decide(m, false, unwrapped)
		if err != nil {
			return nil, &domain.WrapError{Path: path, Kind: m.Kind(), Err: err}
		}
	}

	if !d.Wrap || !wrapSelf {
		return m, nil
	}
	wrapped, err := cfg.Wrapper.Wrap(ctx, m, cfg.Options)
	if err != nil {
		return nil, &domain.WrapError{Path: path, Kind: m.Kind(), Err: err}
	}
	if e.hooks.OnWrap != nil {
		e.hooks.OnWrap(ctx, &domain.TraversalEvent{Path: path, Kind: m.Kind(), Params: unwrapped})
	}
	e.logger.Debug("wrapped module", "path", path, "kind", m.Kind(), "params", unwrapped)
	return wrapped, nil
}

func (e *Engine) visit(ctx context.Context, path string, m domain.Module, params int64) {
	if e.hooks.OnVisit != nil {
		e.hooks.OnVisit(ctx, &domain.TraversalEvent{Path: path, Kind: m.Kind(), Params: params})
	}
}

func childPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
