/*
Package shardtree automatically partitions a tree of composable computation
modules into independently-shardable groups for distributed training.

It walks an arbitrarily nested, heterogeneous module tree bottom-up and
decides, via a pluggable policy, which subtrees get wrapped in a sharding
adapter and which stay untouched. The sharding mechanism itself is an
external collaborator behind the ports.Wrapper interface; this package owns
only the structural decision process: what to wrap, and in what order.

# Concept

A model is a tree of domain.Module values. A scope entered with EnableWrap
supplies the ambient configuration (wrapper capability, policy, adapter
options). Inside a scope, Wrap wraps exactly one module and AutoWrap walks
a whole tree, consulting the policy at every node. Outside a scope both are
deliberate no-ops, so library code can call them unconditionally.

# Usage

	pg := shard.NewProcessGroup(0, 8)
	ctx := shardtree.EnableWrap(context.Background(), shardtree.Config{
		Wrapper: shard.Wrapper{},
		Options: map[string]any{"process_group": pg},
	})

	model, err := shardtree.AutoWrap(ctx, model,
		shardtree.WithPolicy(policy.Size(1_000_000)))

Nested scopes shadow outer ones; the outer configuration becomes visible
again wherever the outer context is used. Concurrent workers entering their
own scopes never observe each other's configuration, because scopes travel
on the context.
*/
package shardtree
