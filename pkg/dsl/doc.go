/*
Package dsl provides a fluent builder for module trees.

It exists for tests, examples, and tools that need a tree without a real
model framework behind it. The convenience constructors mirror a familiar
layer zoo (Linear, Attention, Sequential, List) so fixtures read close to
the model definitions they stand in for.
*/
package dsl
