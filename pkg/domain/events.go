package domain

import "context"

// TraversalEvent describes one module visited by the auto-wrap engine.
type TraversalEvent struct {
	// Path is the slash-separated chain of child names from the traversal
	// root; empty for the root itself.
	Path string
	Kind Kind
	// Params is the unwrapped parameter count measured at the event. For
	// OnWrap it is the count the wrap decision was made on.
	Params int64
}

// TraversalHooks defines callbacks for engine observability. Nil hooks are
// skipped. Hooks must not mutate the tree being walked.
type TraversalHooks struct {
	OnVisit func(context.Context, *TraversalEvent)
	OnWrap  func(context.Context, *TraversalEvent)
}
