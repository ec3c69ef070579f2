package shardtree_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shardtree"
	"github.com/aretw0/shardtree/internal/testutils"
	"github.com/aretw0/shardtree/pkg/adapters/shard"
	"github.com/aretw0/shardtree/pkg/domain"
	"github.com/aretw0/shardtree/pkg/dsl"
	"github.com/aretw0/shardtree/pkg/policy"
)

func TestWrap_InsideScope(t *testing.T) {
	pg := shard.NewProcessGroup(0, 1)
	ctx := shardtree.EnableWrap(context.Background(), shardtree.Config{
		Wrapper: shard.Wrapper{},
		Options: map[string]any{"process_group": pg},
	})

	layer, err := shardtree.Wrap(ctx, dsl.Linear(5, 5).Build())
	require.NoError(t, err)

	sharded, ok := layer.(*shard.Module)
	require.True(t, ok)
	assert.Equal(t, 0, sharded.ProcessGroup().Rank)
	assert.Equal(t, 1, sharded.ProcessGroup().Size)
}

func TestWrap_DisabledOutsideScope(t *testing.T) {
	layer := dsl.Linear(5, 5).Build()
	out, err := shardtree.Wrap(context.Background(), layer)
	require.NoError(t, err)
	assert.Same(t, layer, out, "wrap outside any scope is a pass-through")
}

func TestWrap_OverrideDefaults(t *testing.T) {
	ctx := shardtree.EnableWrap(context.Background(), shardtree.Config{
		Wrapper: shard.Wrapper{},
		Options: map[string]any{"process_group": shard.NewProcessGroup(0, 1)},
	})

	out, err := shardtree.Wrap(ctx, dsl.Linear(5, 5).Build(),
		shardtree.WithOption("process_group", shard.NewProcessGroup(0, 2)))
	require.NoError(t, err)

	sharded := out.(*shard.Module)
	assert.Equal(t, 0, sharded.ProcessGroup().Rank)
	assert.Equal(t, 2, sharded.ProcessGroup().Size, "call-site override wins")
}

func TestAutoWrap_MainAPI(t *testing.T) {
	model := testutils.NestedSequential(t)
	ctx := shardtree.EnableWrap(context.Background(), shardtree.Config{
		Wrapper: shard.Wrapper{},
	})

	out, err := shardtree.AutoWrap(ctx, model, shardtree.WithPolicy(policy.Size(40)))
	require.NoError(t, err)

	root, ok := out.(*shard.Module)
	require.True(t, ok)
	inner := root.Inner()
	assert.Equal(t, domain.KindLinear, testutils.ChildModule(t, inner, "0").Kind())
	assert.Equal(t, domain.KindLinear, testutils.ChildModule(t, inner, "1").Kind())
	assert.IsType(t, &shard.Module{}, testutils.ChildModule(t, inner, "2"))
}

func TestAutoWrap_NestedScopes(t *testing.T) {
	outer := shardtree.EnableWrap(context.Background(), shardtree.Config{
		Wrapper: shard.Wrapper{},
		Options: map[string]any{"process_group": shard.NewProcessGroup(0, 4)},
	})
	inner := shardtree.EnableWrap(outer, shardtree.Config{
		Wrapper: shard.Wrapper{},
		Options: map[string]any{"process_group": shard.NewProcessGroup(1, 8)},
	})

	// Inside the inner scope the inner configuration is visible.
	out, err := shardtree.Wrap(inner, dsl.Linear(5, 5).Build())
	require.NoError(t, err)
	assert.Equal(t, 8, out.(*shard.Module).ProcessGroup().Size)

	// Back on the outer context, the outer configuration applies again.
	out, err = shardtree.Wrap(outer, dsl.Linear(5, 5).Build())
	require.NoError(t, err)
	assert.Equal(t, 4, out.(*shard.Module).ProcessGroup().Size)
}

func TestAutoWrap_AlreadyWrappedRoot(t *testing.T) {
	ctx := shardtree.EnableWrap(context.Background(), shardtree.Config{Wrapper: shard.Wrapper{}})

	pre, err := shardtree.Wrap(ctx, dsl.Linear(5, 5).Build())
	require.NoError(t, err)

	_, err = shardtree.AutoWrap(ctx, pre, shardtree.WithPolicy(policy.Size(0)))
	assert.ErrorIs(t, err, shardtree.ErrAlreadyWrapped)
}

func TestEngine_WithHooks(t *testing.T) {
	var wrapped []string
	eng := shardtree.New(shardtree.WithHooks(domain.TraversalHooks{
		OnWrap: func(_ context.Context, ev *domain.TraversalEvent) {
			path := ev.Path
			if path == "" {
				path = "(root)"
			}
			wrapped = append(wrapped, path)
		},
	}))

	ctx := shardtree.EnableWrap(context.Background(), shardtree.Config{Wrapper: shard.Wrapper{}})
	_, err := eng.AutoWrap(ctx, testutils.NestedSequential(t), shardtree.WithPolicy(policy.Size(40)))
	require.NoError(t, err)

	// Bottom-up: the inner sequential is chosen before the root.
	assert.Equal(t, []string{"2", "(root)"}, wrapped)
}
