package shardtree

import (
	"context"
	"log/slog"

	"github.com/aretw0/shardtree/internal/runtime"
	"github.com/aretw0/shardtree/pkg/domain"
	"github.com/aretw0/shardtree/pkg/ports"
	"github.com/aretw0/shardtree/pkg/scope"
)

// Config is the wrap configuration carried by a scope. Alias of
// scope.Config so most callers only import this package.
type Config = scope.Config

// Re-exported sentinels; use errors.Is against these.
var (
	ErrAlreadyWrapped = domain.ErrAlreadyWrapped
	ErrNoWrapper      = domain.ErrNoWrapper
)

// Engine is the high-level entry point for the shardtree library. The
// zero-configuration package-level functions cover most uses; construct an
// Engine to attach a logger or observability hooks.
type Engine struct {
	rt *runtime.Engine
}

// Option defines a functional option for configuring the Engine.
type Option func(*engineConfig)

type engineConfig struct {
	rtOpts []runtime.EngineOption
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.rtOpts = append(c.rtOpts, runtime.WithLogger(logger))
	}
}

// WithHooks registers traversal observability hooks.
func WithHooks(hooks domain.TraversalHooks) Option {
	return func(c *engineConfig) {
		c.rtOpts = append(c.rtOpts, runtime.WithHooks(hooks))
	}
}

// New initializes a new shardtree Engine.
func New(opts ...Option) *Engine {
	var cfg engineConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{rt: runtime.NewEngine(cfg.rtOpts...)}
}

// Override adjusts a single Wrap or AutoWrap call on top of the active
// scope configuration. Call-site overrides win per key.
type Override func(*scope.Config)

// WithWrapper overrides the wrapper capability for one call.
func WithWrapper(w ports.Wrapper) Override {
	return func(c *scope.Config) { c.Wrapper = w }
}

// WithPolicy overrides the wrap policy for one call.
func WithPolicy(p ports.Policy) Override {
	return func(c *scope.Config) { c.Policy = p }
}

// WithOption overrides one adapter-directed option for one call.
func WithOption(key string, value any) Override {
	return func(c *scope.Config) {
		if c.Options == nil {
			c.Options = make(map[string]any)
		}
		c.Options[key] = value
	}
}

// EnableWrap returns a context carrying cfg as the innermost wrap scope.
// The scope ends when the returned context stops being used; nested calls
// shadow outer scopes.
func EnableWrap(ctx context.Context, cfg Config) context.Context {
	return scope.Enable(ctx, cfg)
}

// Wrap wraps exactly one module, non-recursively, using the active scope
// configuration merged with the given overrides. Outside any scope it
// returns m unchanged. It fails with ErrNoWrapper when the merged
// configuration lacks a wrapper capability, and with ErrAlreadyWrapped
// when m already carries wrapper state.
func (e *Engine) Wrap(ctx context.Context, m domain.Module, overrides ...Override) (domain.Module, error) {
	return e.rt.WrapOne(ctx, m, buildOverride(overrides))
}

// AutoWrap recursively walks the tree rooted at m, bottom-up, wrapping the
// modules selected by the policy. The returned module replaces m as the
// tree root; children are replaced in place. See the package documentation
// for scope and error semantics.
func (e *Engine) AutoWrap(ctx context.Context, m domain.Module, overrides ...Override) (domain.Module, error) {
	return e.rt.AutoWrap(ctx, m, buildOverride(overrides))
}

// AutoWrapChildren is AutoWrap with the root wrap suppressed: descendants
// are partitioned as usual but m itself is never wrapped. Sharding
// adapters use it as phase one of their construction, finalizing the outer
// wrap themselves.
func (e *Engine) AutoWrapChildren(ctx context.Context, m domain.Module, overrides ...Override) (domain.Module, error) {
	return e.rt.AutoWrapChildren(ctx, m, buildOverride(overrides))
}

func buildOverride(overrides []Override) scope.Config {
	var cfg scope.Config
	for _, o := range overrides {
		o(&cfg)
	}
	return cfg
}

var defaultEngine = New()

// Wrap calls Engine.Wrap on a default engine.
func Wrap(ctx context.Context, m domain.Module, overrides ...Override) (domain.Module, error) {
	return defaultEngine.Wrap(ctx, m, overrides...)
}

// AutoWrap calls Engine.AutoWrap on a default engine.
func AutoWrap(ctx context.Context, m domain.Module, overrides ...Override) (domain.Module, error) {
	return defaultEngine.AutoWrap(ctx, m, overrides...)
}

// AutoWrapChildren calls Engine.AutoWrapChildren on a default engine.
func AutoWrapChildren(ctx context.Context, m domain.Module, overrides ...Override) (domain.Module, error) {
	return defaultEngine.AutoWrapChildren(ctx, m, overrides...)
}
