/*
Package ports defines the driven ports (interfaces) for the shardtree engine.

These interfaces decouple the traversal and decision core from external
implementations: the sharding adapter that actually builds wrapped modules,
and the policy that chooses wrap boundaries.

# Key Interfaces

  - Wrapper: the sharding capability (construct a wrapped module, recognize
    modules it has wrapped before).
  - Policy: the pure per-module recurse/wrap decision function.
*/
package ports
