// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package rules

import (
	"k8s.io/klog/v2"
)

// Build returns the Rule described by the Builder so far.
//
// Every axis of every operand and result must be covered by at least one factor, so Build adds a new
// FactorTypePassThrough factor of size 1 to each axis that has none, visiting operands first and then
// results, in axis order.
// These implicit factors exist only in the returned Rule: the Builder is not changed, so Build can be
// called any number of times, and more factors can be added in between.
//
// If the Builder was created with Context.NewBuilder, the Rule is interned in the Context.
func (b *Builder) Build() *Rule {
	factors := b.factors.clone()
	operands := completeMappings(b.operands, &factors)
	results := completeMappings(b.results, &factors)
	rule := &Rule{factors: factors, operands: operands, results: results}
	if klog.V(2).Enabled() {
		klog.Infof("Built sharding rule %s (%d implicit factors)", rule, len(factors)-b.NumFactors())
	}
	if b.ctx != nil {
		return b.ctx.Intern(rule)
	}
	return rule
}

// completeMappings returns a deep copy of mappings where each unassigned axis gets a new factor of size 1,
// appended to factors.
func completeMappings(mappings []TensorMapping, factors *[]Factor) []TensorMapping {
	completed := cloneMappings(mappings)
	for _, mapping := range completed {
		for axis, dimMapping := range mapping {
			if len(dimMapping) > 0 {
				continue
			}
			mapping[axis] = DimMapping{len(*factors)}
			*factors = append(*factors, PassThrough(1))
		}
	}
	return completed
}
