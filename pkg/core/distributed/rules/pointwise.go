// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package rules

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/shardingrules/pkg/core/shapes"
)

// AddPointwise declares one factor per axis of dims, with size dims[axis], bound to that same axis of
// every operand and result of rank at least 1.
//
// factorTypeFn returns the type of the factor of each axis, and blockedFn whether a factor of a given
// type is blocked. Either can be nil, in which case factors are FactorTypePassThrough and not blocked.
func (b *Builder) AddPointwise(dims []int, factorTypeFn func(axis int) FactorType, blockedFn func(FactorType) bool) *Builder {
	for axis, dim := range dims {
		factorType := FactorTypePassThrough
		if factorTypeFn != nil {
			factorType = factorTypeFn(axis)
		}
		blocked := blockedFn != nil && blockedFn(factorType)
		b.AddFactorForAll(axis, Factor{Size: dim, Type: factorType, Blocked: blocked})
	}
	return b
}

// AddPointwiseIf is like AddPointwise, but only for the axes for which pred returns true.
// The other axes are left unassigned, to be bound by further calls or get an implicit factor on Build.
//
// Either function can be nil: a nil pred selects every axis, and with a nil factorTypeFn factors are
// FactorTypePassThrough.
func (b *Builder) AddPointwiseIf(dims []int, pred func(axis int) bool, factorTypeFn func(axis int) FactorType) *Builder {
	for axis, dim := range dims {
		if pred != nil && !pred(axis) {
			continue
		}
		factorType := FactorTypePassThrough
		if factorTypeFn != nil {
			factorType = factorTypeFn(axis)
		}
		b.AddFactorForAll(axis, Factor{Size: dim, Type: factorType})
	}
	return b
}

// AddPointwiseWithDiffTypeForMismatch compares inDims and outDims axis by axis: an axis with the same
// dimension gets a FactorTypePassThrough factor, an axis where they differ gets a factor of type
// mismatchType (blocked if mismatchBlocked), sized with the input dimension.
// Each factor is bound to its axis in every operand and result, as in AddPointwise.
//
// This models operations like broadcasts or pads, where an output dimension differs from the input one.
// The usual mismatchType is FactorTypeNeedReplication.
//
// It panics if inDims and outDims have different lengths.
func (b *Builder) AddPointwiseWithDiffTypeForMismatch(inDims, outDims []int, mismatchType FactorType, mismatchBlocked bool) *Builder {
	if len(inDims) != len(outDims) {
		exceptions.Panicf("AddPointwiseWithDiffTypeForMismatch: input dims %v and output dims %v have different ranks",
			inDims, outDims)
	}
	for axis, inDim := range inDims {
		if inDim == outDims[axis] {
			b.AddFactorForAll(axis, PassThrough(inDim))
		} else {
			b.AddFactorForAll(axis, Factor{Size: inDim, Type: mismatchType, Blocked: mismatchBlocked})
		}
	}
	return b
}

// Pointwise returns the rule of a pointwise operation (e.g. add, tanh, and, ceil) whose operands and
// results all have the same dimensions: one FactorTypePassThrough factor per axis, shared by every operand
// and result.
//
// The dimensions are taken from the first result. It panics if there are no results, or if an operand
// or result of rank at least 1 has a lower rank than the first result: operands and results are
// expected to have the same shape.
func Pointwise(operands, results []shapes.Shape) *Rule {
	return buildPointwise(nil, operands, results)
}

// Identity returns the rule of an operation with numOperands operands and numResults results, all with the
// given shape, mapped to each other one-to-one: as a pointwise operation, but with any number of operands
// and results.
//
// For a scalar shape, the rule has no factors at all.
func Identity(shape shapes.Shape, numOperands, numResults int) *Rule {
	return buildIdentity(nil, shape, numOperands, numResults)
}

func buildPointwise(ctx *Context, operands, results []shapes.Shape) *Rule {
	if len(results) == 0 {
		exceptions.Panicf("rules.Pointwise requires at least one result, got operands %v and no results", operands)
	}
	b := NewBuilder(operands, results)
	b.ctx = ctx
	return b.AddPointwise(results[0].Dimensions, nil, nil).Build()
}

func buildIdentity(ctx *Context, shape shapes.Shape, numOperands, numResults int) *Rule {
	b := NewBuilder(shapes.Repeat(shape, numOperands), shapes.Repeat(shape, numResults))
	b.ctx = ctx
	return b.AddPointwise(shape.Dimensions, nil, nil).Build()
}
