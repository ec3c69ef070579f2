package shard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shardtree/internal/testutils"
	"github.com/aretw0/shardtree/pkg/adapters/shard"
	"github.com/aretw0/shardtree/pkg/domain"
	"github.com/aretw0/shardtree/pkg/dsl"
	"github.com/aretw0/shardtree/pkg/policy"
)

func TestWrapper_WrapAndRecognize(t *testing.T) {
	w := shard.Wrapper{}
	layer := dsl.Linear(5, 5).Build()

	out, err := w.Wrap(context.Background(), layer, map[string]any{
		"process_group":  shard.NewProcessGroup(2, 8),
		"flatten_params": true,
	})
	require.NoError(t, err)

	sharded, ok := out.(*shard.Module)
	require.True(t, ok)
	assert.True(t, w.IsWrapped(sharded))
	assert.False(t, w.IsWrapped(layer))
	assert.Same(t, layer, sharded.Inner())
	assert.Equal(t, 2, sharded.ProcessGroup().Rank)
	assert.Equal(t, 8, sharded.ProcessGroup().Size)
	assert.True(t, sharded.Options().FlattenParams)

	// The wrapped module exposes its inner tree through one child edge.
	require.Len(t, sharded.Children(), 1)
	assert.Equal(t, "module", sharded.Children()[0].Name)
	assert.Equal(t, domain.KindShard, sharded.Kind())
}

func TestWrapper_UnknownOptionRejected(t *testing.T) {
	w := shard.Wrapper{}
	_, err := w.Wrap(context.Background(), dsl.Linear(5, 5).Build(), map[string]any{
		"fltten_params": true, // typo
	})
	assert.ErrorContains(t, err, "invalid options")
}

func TestWrapper_RejectsDoubleWrap(t *testing.T) {
	w := shard.Wrapper{}
	once, err := w.Wrap(context.Background(), dsl.Linear(5, 5).Build(), nil)
	require.NoError(t, err)

	_, err = w.Wrap(context.Background(), once, nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyWrapped)
}

func TestNew_PlainConstruction(t *testing.T) {
	sharded, err := shard.New(context.Background(), dsl.Linear(5, 5).Build(),
		shard.WithProcessGroup(shard.NewProcessGroup(0, 4)),
		shard.WithOffloadParams(true),
	)
	require.NoError(t, err)
	assert.Equal(t, 4, sharded.ProcessGroup().Size)
	assert.True(t, sharded.Options().OffloadParams)
	assert.Equal(t, domain.KindLinear, sharded.Inner().Kind())
}

func TestNew_TwoPhaseAutoWrap(t *testing.T) {
	// Phase one partitions the inner tree with the policy; phase two adds
	// the outer shard. The argument root itself is never auto-wrapped, so
	// no double wrap can occur.
	model := testutils.NestedSequential(t)
	pg := shard.NewProcessGroup(0, 2)

	sharded, err := shard.New(context.Background(), model,
		shard.WithProcessGroup(pg),
		shard.WithAutoWrapPolicy(policy.Size(40)),
	)
	require.NoError(t, err)

	assert.Same(t, domain.Module(model), sharded.Inner())
	assert.Equal(t, domain.KindLinear, testutils.ChildModule(t, model, "0").Kind())
	assert.Equal(t, domain.KindLinear, testutils.ChildModule(t, model, "1").Kind())

	inner := testutils.ChildModule(t, model, "2")
	innerShard, ok := inner.(*shard.Module)
	require.True(t, ok, "the inner sequential crosses the threshold")
	assert.Equal(t, pg, innerShard.ProcessGroup(), "nested shards inherit the constructor options")
}

func TestNew_RejectsAlreadyShardedArgument(t *testing.T) {
	inner, err := shard.New(context.Background(), testutils.NestedSequential(t))
	require.NoError(t, err)

	_, err = shard.New(context.Background(), inner,
		shard.WithAutoWrapPolicy(policy.Size(40)))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyWrapped)
	assert.ErrorContains(t, err, "must NOT already be sharded")
}

func TestNew_NestedShardedDescendantIsKept(t *testing.T) {
	// A descendant sharded by hand is opaque to the constructor's
	// auto-wrap phase: kept as is, not descended into.
	preWrapped, err := shard.New(context.Background(), dsl.Linear(5, 5).Build())
	require.NoError(t, err)

	model := domain.NewGroup(domain.KindSequential).
		Add("pre", preWrapped).
		Add("big", dsl.Sequential(dsl.Linear(5, 5), dsl.Linear(5, 5)).Build())

	sharded, err := shard.New(context.Background(), model,
		shard.WithAutoWrapPolicy(policy.Size(40)))
	require.NoError(t, err)

	assert.Same(t, domain.Module(preWrapped), testutils.ChildModule(t, sharded.Inner(), "pre"))
	assert.IsType(t, &shard.Module{}, testutils.ChildModule(t, sharded.Inner(), "big"))
}
