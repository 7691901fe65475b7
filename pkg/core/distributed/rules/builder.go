// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package rules

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/shardingrules/pkg/core/shapes"
)

// Builder incrementally creates a Rule for one operation.
//
// Factors are declared one at a time, each one bound to zero or more axes of the operands and
// results. Any axis left without a factor when Build is called gets an implicit factor of size 1.
//
// All the Add* methods return the Builder itself, so calls can be chained:
//
//	rule := rules.NewBuilder(operands, results).
//		AddFactor(rules.Axes(0, 0), rules.Axes(0), rules.PassThrough(batchSize)).
//		AddFactor(rules.Axes(1, 0), []rules.Dim{rules.NoAxis}, rules.Reduction(contractingSize)).
//		Build()
//
// Invalid arguments (axes out of range, wrong number of axes, non-positive factor sizes) are bugs
// in the caller and panic, with an error created by github.com/pkg/errors.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	ctx      *Context
	factors  registry
	operands []TensorMapping
	results  []TensorMapping
}

// NewBuilder creates a Builder for an operation with the given operands and results shapes.
// Only the ranks of the shapes are used.
func NewBuilder(operands, results []shapes.Shape) *Builder {
	return NewBuilderForRanks(shapes.Ranks(operands), shapes.Ranks(results))
}

// NewBuilderForRanks creates a Builder for an operation whose operands and results have the given ranks.
func NewBuilderForRanks(operandRanks, resultRanks []int) *Builder {
	b := &Builder{
		operands: make([]TensorMapping, len(operandRanks)),
		results:  make([]TensorMapping, len(resultRanks)),
	}
	maxRank := 0
	for i, rank := range operandRanks {
		b.operands[i] = NewTensorMapping(rank)
		maxRank = max(maxRank, rank)
	}
	for i, rank := range resultRanks {
		b.results[i] = NewTensorMapping(rank)
		maxRank = max(maxRank, rank)
	}
	b.factors.factors = make([]Factor, 0, maxRank)
	return b
}

// NumFactors declared so far. It doesn't include the implicit factors added by Build.
func (b *Builder) NumFactors() int { return b.factors.len() }

// NumOperands of the operation.
func (b *Builder) NumOperands() int { return len(b.operands) }

// NumResults of the operation.
func (b *Builder) NumResults() int { return len(b.results) }

// OperandMapping returns a copy of the current mapping of the given operand.
func (b *Builder) OperandMapping(operand int) TensorMapping {
	if operand < 0 || operand >= len(b.operands) {
		exceptions.Panicf("Builder.OperandMapping(%d): operation has %d operands", operand, len(b.operands))
	}
	return b.operands[operand].Clone()
}

// ResultMapping returns a copy of the current mapping of the given result.
func (b *Builder) ResultMapping(result int) TensorMapping {
	if result < 0 || result >= len(b.results) {
		exceptions.Panicf("Builder.ResultMapping(%d): operation has %d results", result, len(b.results))
	}
	return b.results[result].Clone()
}

// AddFactor declares a new factor and binds it to the axis operandAxes[i] of each operand i, and
// to the axis resultAxes[j] of each result j. Operands or results given NoAxis are skipped.
//
// If the factor has size 1 and an axis already has some factor bound to it, the new factor is not
// added to that axis: a size 1 factor adds nothing to an axis that is already covered.
// This is checked independently for every operand and result.
//
// It panics if len(operandAxes) or len(resultAxes) don't match the number of operands and results,
// or if an axis is out of range.
func (b *Builder) AddFactor(operandAxes, resultAxes []Dim, factor Factor) *Builder {
	checkAxes("operand", b.operands, operandAxes)
	checkAxes("result", b.results, resultAxes)
	factorIdx := b.factors.reserve(factor)
	mapAxesToFactor(b.operands, operandAxes, factorIdx, factor.Size)
	mapAxesToFactor(b.results, resultAxes, factorIdx, factor.Size)
	return b
}

// AddFactorSameForAllOperands declares a new factor and binds it to the given axis of every operand
// of rank at least 1. Results are not bound.
//
// Unlike AddFactor, a size 1 factor is always appended.
func (b *Builder) AddFactorSameForAllOperands(axis int, factor Factor) *Builder {
	checkAxisForAll("operand", b.operands, axis)
	factorIdx := b.factors.reserve(factor)
	mapAxisForAllToFactor(b.operands, axis, factorIdx)
	return b
}

// AddFactorSameForAllResults declares a new factor and binds it to the given axis of every result
// of rank at least 1. Operands are not bound.
//
// Unlike AddFactor, a size 1 factor is always appended.
func (b *Builder) AddFactorSameForAllResults(axis int, factor Factor) *Builder {
	checkAxisForAll("result", b.results, axis)
	factorIdx := b.factors.reserve(factor)
	mapAxisForAllToFactor(b.results, axis, factorIdx)
	return b
}

// AddFactorForAll declares a new factor and binds it to the given axis of every operand and result
// of rank at least 1. This is the common case of pointwise operations.
//
// Unlike AddFactor, a size 1 factor is always appended.
func (b *Builder) AddFactorForAll(axis int, factor Factor) *Builder {
	checkAxisForAll("operand", b.operands, axis)
	checkAxisForAll("result", b.results, axis)
	factorIdx := b.factors.reserve(factor)
	mapAxisForAllToFactor(b.operands, axis, factorIdx)
	mapAxisForAllToFactor(b.results, axis, factorIdx)
	return b
}

func checkAxes(kind string, mappings []TensorMapping, axes []Dim) {
	if len(axes) != len(mappings) {
		exceptions.Panicf("got axes for %d %ss, but the operation has %d %ss", len(axes), kind, len(mappings), kind)
	}
	for i, dim := range axes {
		axis, bound := dim.AxisIndex()
		if !bound {
			continue
		}
		if axis >= mappings[i].Rank() {
			exceptions.Panicf("axis %d out of range for %s #%d of rank %d", axis, kind, i, mappings[i].Rank())
		}
	}
}

func checkAxisForAll(kind string, mappings []TensorMapping, axis int) {
	if axis < 0 {
		exceptions.Panicf("axis must be non-negative, got %d", axis)
	}
	for i, mapping := range mappings {
		if mapping.Rank() > 0 && axis >= mapping.Rank() {
			exceptions.Panicf("axis %d out of range for %s #%d of rank %d", axis, kind, i, mapping.Rank())
		}
	}
}

// mapAxesToFactor appends factorIdx to the bound axes.
// A size 1 factor is skipped for axes that already have some factor.
func mapAxesToFactor(mappings []TensorMapping, axes []Dim, factorIdx, factorSize int) {
	for i, dim := range axes {
		axis, bound := dim.AxisIndex()
		if !bound {
			continue
		}
		dimMapping := &mappings[i][axis]
		if factorSize == 1 && len(*dimMapping) > 0 {
			continue
		}
		*dimMapping = append(*dimMapping, factorIdx)
	}
}

// mapAxisForAllToFactor appends factorIdx to the axis of every tensor, except scalars.
func mapAxisForAllToFactor(mappings []TensorMapping, axis, factorIdx int) {
	for _, mapping := range mappings {
		if mapping.Rank() == 0 {
			continue
		}
		mapping[axis] = append(mapping[axis], factorIdx)
	}
}
