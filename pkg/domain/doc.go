/*
Package domain defines the core types of the shardtree composition model.

A model is a tree of Modules: composite or leaf computation units that own
trainable Parameters and an ordered collection of named children. The
auto-wrap engine walks such a tree and decides, per module, whether it
becomes the root of an independently-shardable group.

The types here are deliberately free of any sharding mechanics. The actual
wrapper capability lives behind the ports.Wrapper interface, and the
reference implementation is in pkg/adapters/shard.
*/
package domain
