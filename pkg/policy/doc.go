/*
Package policy provides the parameter counter and the default wrap policy.

The default SizePolicy mirrors the classic size-threshold heuristic: a
module becomes a wrap boundary when the trainable parameters not already
claimed by a wrapped descendant reach MinParams. Container kinds are
descended but never wrapped; force-leaf kinds are kept atomic.
*/
package policy
