// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package rules describes how the axes of the operands and results of an operation relate to each other
// through shared factors, so a sharding propagation algorithm can infer the sharding of unconstrained
// tensors from the constrained ones.
//
// A factor is a shared iteration dimension, analogous to an einsum index: a matrix multiplication
// "bmk,bkn->bmn" has 4 factors b, m, n and k. Each factor has a size and a FactorType
// (pass-through, reduction, need-replication or permutation), and may be blocked.
//
// Rules are created with a Builder, or with the Pointwise and Identity constructors, and follow the
// OpShardingRule definition of XLA Shardy [1].
//
// [1] https://github.com/openxla/shardy/blob/main/docs/sharding_representation.md
package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
)

// Rule is the immutable description, for one operation, of which factors cover each axis of each
// of its operands and results.
//
// Every axis of every operand and result is covered by at least one factor. Rules are created
// by Builder.Build, Pointwise or Identity. All methods return copies, a Rule is never modified.
type Rule struct {
	factors  []Factor
	operands []TensorMapping
	results  []TensorMapping
}

// NumFactors in the rule, including implicit size 1 factors.
func (r *Rule) NumFactors() int { return len(r.factors) }

// NumOperands of the operation the rule describes.
func (r *Rule) NumOperands() int { return len(r.operands) }

// NumResults of the operation the rule describes.
func (r *Rule) NumResults() int { return len(r.results) }

// Factor returns the factor with the given index.
func (r *Rule) Factor(factor int) Factor {
	r.checkFactorIndex(factor)
	return r.factors[factor]
}

// Factors returns a copy of all factors, in index order.
func (r *Rule) Factors() []Factor {
	return slices.Clone(r.factors)
}

// FactorSizes returns the size of each factor, in index order.
func (r *Rule) FactorSizes() []int {
	sizes := make([]int, len(r.factors))
	for i, f := range r.factors {
		sizes[i] = f.Size
	}
	return sizes
}

// OperandMapping returns a copy of the mapping of the given operand.
func (r *Rule) OperandMapping(operand int) TensorMapping {
	if operand < 0 || operand >= len(r.operands) {
		exceptions.Panicf("Rule.OperandMapping(%d): rule has %d operands", operand, len(r.operands))
	}
	return r.operands[operand].Clone()
}

// ResultMapping returns a copy of the mapping of the given result.
func (r *Rule) ResultMapping(result int) TensorMapping {
	if result < 0 || result >= len(r.results) {
		exceptions.Panicf("Rule.ResultMapping(%d): rule has %d results", result, len(r.results))
	}
	return r.results[result].Clone()
}

// OperandMappings returns a copy of the mappings of all operands.
func (r *Rule) OperandMappings() []TensorMapping { return cloneMappings(r.operands) }

// ResultMappings returns a copy of the mappings of all results.
func (r *Rule) ResultMappings() []TensorMapping { return cloneMappings(r.results) }

// FactorsOfType returns the indices of the factors of the given type, in ascending order.
func (r *Rule) FactorsOfType(factorType FactorType) []int {
	indices := make([]int, 0)
	for i, f := range r.factors {
		if f.Type == factorType {
			indices = append(indices, i)
		}
	}
	return indices
}

// ReductionFactors returns the indices of the FactorTypeReduction factors.
func (r *Rule) ReductionFactors() []int { return r.FactorsOfType(FactorTypeReduction) }

// NeedReplicationFactors returns the indices of the FactorTypeNeedReplication factors.
func (r *Rule) NeedReplicationFactors() []int { return r.FactorsOfType(FactorTypeNeedReplication) }

// PermutationFactors returns the indices of the FactorTypePermutation factors.
func (r *Rule) PermutationFactors() []int { return r.FactorsOfType(FactorTypePermutation) }

// BlockedFactors returns the indices of the blocked factors, in ascending order.
func (r *Rule) BlockedFactors() []int {
	indices := make([]int, 0)
	for i, f := range r.factors {
		if f.Blocked {
			indices = append(indices, i)
		}
	}
	return indices
}

// IsPassThrough returns whether the factor is of type FactorTypePassThrough.
func (r *Rule) IsPassThrough(factor int) bool { return r.Factor(factor).Type == FactorTypePassThrough }

// IsReduction returns whether the factor is of type FactorTypeReduction.
func (r *Rule) IsReduction(factor int) bool { return r.Factor(factor).Type == FactorTypeReduction }

// IsNeedReplication returns whether the factor is of type FactorTypeNeedReplication.
func (r *Rule) IsNeedReplication(factor int) bool {
	return r.Factor(factor).Type == FactorTypeNeedReplication
}

// IsPermutation returns whether the factor is of type FactorTypePermutation.
func (r *Rule) IsPermutation(factor int) bool { return r.Factor(factor).Type == FactorTypePermutation }

// IsBlocked returns whether propagation along the factor is blocked.
func (r *Rule) IsBlocked(factor int) bool { return r.Factor(factor).Blocked }

// FactorAxis identifies one axis of an operand or of a result.
type FactorAxis struct {
	// IsResult is false for operands.
	IsResult bool

	// Tensor is the index of the operand or result.
	Tensor int

	// Axis of the tensor.
	Axis int
}

// FactorAxes returns every operand and result axis whose mapping includes the factor: operands first,
// then results, in axis order.
func (r *Rule) FactorAxes(factor int) []FactorAxis {
	r.checkFactorIndex(factor)
	var axes []FactorAxis
	collect := func(isResult bool, mappings []TensorMapping) {
		for tensor, mapping := range mappings {
			for axis, dimMapping := range mapping {
				if slices.Contains(dimMapping, factor) {
					axes = append(axes, FactorAxis{IsResult: isResult, Tensor: tensor, Axis: axis})
				}
			}
		}
	}
	collect(false, r.operands)
	collect(true, r.results)
	return axes
}

func (r *Rule) checkFactorIndex(factor int) {
	if factor < 0 || factor >= len(r.factors) {
		exceptions.Panicf("factor #%d out of range, rule has %d factors", factor, len(r.factors))
	}
}

// Equal returns whether both rules have the same factors, in the same order, and the same mappings.
func (r *Rule) Equal(other *Rule) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	return slices.Equal(r.factors, other.factors) &&
		equalMappings(r.operands, other.operands) &&
		equalMappings(r.results, other.results)
}

// String returns the rule in the textual form used by Shardy, e.g.:
//
//	([i, k], [k, j])->([i, j]) {i=8, j=16, k=4} reduction={k}
//
// Factors are named i, j, ..., z, z_1, z_2, ... (see FactorSymbol), an axis covered by more than one
// factor concatenates their symbols, and only non-empty factor groups are listed.
func (r *Rule) String() string {
	if r == nil {
		return "Rule<nil>"
	}
	var sb strings.Builder
	writeMappings(&sb, r.operands)
	sb.WriteString("->")
	writeMappings(&sb, r.results)
	sb.WriteString(" {")
	for i, f := range r.factors {
		if i > 0 {
			sb.WriteString(", ")
		}
		_, _ = fmt.Fprintf(&sb, "%s=%d", FactorSymbol(i), f.Size)
	}
	sb.WriteString("}")
	groups := []struct {
		name    string
		factors []int
	}{
		{"reduction", r.ReductionFactors()},
		{"need_replication", r.NeedReplicationFactors()},
		{"permutation", r.PermutationFactors()},
		{"blocked_propagation", r.BlockedFactors()},
	}
	for _, group := range groups {
		if len(group.factors) == 0 {
			continue
		}
		symbols := make([]string, len(group.factors))
		for i, factor := range group.factors {
			symbols[i] = FactorSymbol(factor)
		}
		_, _ = fmt.Fprintf(&sb, " %s={%s}", group.name, strings.Join(symbols, ", "))
	}
	return sb.String()
}

func writeMappings(sb *strings.Builder, mappings []TensorMapping) {
	sb.WriteByte('(')
	for i, mapping := range mappings {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('[')
		for axis, dimMapping := range mapping {
			if axis > 0 {
				sb.WriteString(", ")
			}
			for _, factor := range dimMapping {
				sb.WriteString(FactorSymbol(factor))
			}
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(')')
}
