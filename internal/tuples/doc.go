// Package tuples generates small synthetic relational datasets used by
// chart and visualization demos.
//
// The central generator is GenerateCategorical. It draws (x, y, z) samples,
// assigns every distinct z a dense identifier (zid) in order of first
// appearance, and returns the normalized (x, y, zid) samples together with
// the (zid, z) category table.
//
// Sibling generators produce raw (x, y, z) samples for other chart shapes:
//
//   - GeneratePunchcard: y on a fixed grid, z a truncated uniform float draw.
//   - GenerateParallelCoord: y and z from shuffled, pre-balanced pools.
//   - GenerateNested: y chosen from an explicit value list.
//
// Every generator takes an explicit Source. Nothing in this package touches
// global random state, so the same seed always reproduces the same dataset.
// Use NewLCG for a pinned, portable algorithm, or pass a *math/rand.Rand.
//
// Numeric draws use "uniform then truncate" semantics: a continuous value in
// [low, high) is converted to int by truncation toward zero. The upper bound
// is never returned unless low == high.
package tuples
