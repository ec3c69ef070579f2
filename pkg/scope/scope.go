// Package scope carries the ambient wrap configuration on a
// context.Context.
//
// The reference design used a process-global stack guarded by a context
// manager. Here each Enable call derives a new context that shadows the
// outer scope, so nesting, restore-on-exit and isolation between
// concurrent workers all follow from ordinary context propagation: the
// inner scope ends when its context stops being passed around, error
// paths included.
package scope

import (
	"context"

	"github.com/aretw0/shardtree/pkg/ports"
)

// Config is the wrap configuration visible inside a scope. A zero Config
// carries nothing; fields left unset by an override keep the scope's
// values on merge.
type Config struct {
	// Wrapper is the capability that builds wrapped modules. Required by
	// the time a wrap executes.
	Wrapper ports.Wrapper

	// Policy drives auto-wrap decisions. Optional; the engine falls back
	// to policy.Default().
	Policy ports.Policy

	// Options are adapter-directed keyword options (process group,
	// offload flags, ...) handed to Wrapper.Wrap verbatim.
	Options map[string]any
}

// Merge returns a copy of c with the non-zero fields of override taking
// precedence. Options are merged key-wise, override winning on collision.
// Neither receiver nor argument is modified.
func (c Config) Merge(override Config) Config {
	out := c
	if override.Wrapper != nil {
		out.Wrapper = override.Wrapper
	}
	if override.Policy != nil {
		out.Policy = override.Policy
	}
	if len(override.Options) > 0 {
		opts := make(map[string]any, len(c.Options)+len(override.Options))
		for k, v := range c.Options {
			opts[k] = v
		}
		for k, v := range override.Options {
			opts[k] = v
		}
		out.Options = opts
	}
	return out
}

type ctxKey struct{}

// Enable returns a context carrying cfg as the innermost wrap scope.
// An inner Enable fully shadows the outer scope (top-of-stack semantics,
// no field inheritance); the outer configuration becomes visible again
// wherever the outer context is used.
func Enable(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// Current returns the innermost scope configuration, if any.
func Current(ctx context.Context) (Config, bool) {
	cfg, ok := ctx.Value(ctxKey{}).(Config)
	return cfg, ok
}
