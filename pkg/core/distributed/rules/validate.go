// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package rules

import (
	"github.com/gomlx/shardingrules/pkg/core/shapes"
	"github.com/gomlx/shardingrules/pkg/support/sets"
	"github.com/gomlx/shardingrules/pkg/support/xslices"
	"github.com/pkg/errors"
)

// Validate checks the structural invariants of the rule:
//
//   - every factor has a positive size and a known type;
//   - every axis of every operand and result is covered by at least one factor;
//   - every factor index refers to a factor of the rule;
//   - no factor is used more than once in the same operand or result.
//
// Rules created by Builder.Build always validate, this is meant for rules reconstructed from
// some serialized form.
func (r *Rule) Validate() error {
	for i, f := range r.factors {
		if f.Size <= 0 {
			return errors.Errorf("factor %s (#%d) has non-positive size %d", FactorSymbol(i), i, f.Size)
		}
		if !f.Type.IsAFactorType() {
			return errors.Errorf("factor %s (#%d) has unknown type %s", FactorSymbol(i), i, f.Type)
		}
	}
	if err := r.validateMappings("operand", r.operands); err != nil {
		return err
	}
	return r.validateMappings("result", r.results)
}

func (r *Rule) validateMappings(kind string, mappings []TensorMapping) error {
	for tensor, mapping := range mappings {
		used := sets.Make[int]()
		for axis, dimMapping := range mapping {
			if len(dimMapping) == 0 {
				return errors.Errorf("%s #%d axis %d is not covered by any factor", kind, tensor, axis)
			}
			for _, factor := range dimMapping {
				if factor < 0 || factor >= len(r.factors) {
					return errors.Errorf("%s #%d axis %d refers to factor #%d, but the rule has only %d factors",
						kind, tensor, axis, factor, len(r.factors))
				}
				if used.Has(factor) {
					return errors.Errorf("%s #%d uses factor %s (#%d) more than once",
						kind, tensor, FactorSymbol(factor), factor)
				}
				used.Insert(factor)
			}
		}
	}
	return nil
}

// Check validates the rule (see Validate) and checks that it matches an operation with the given
// operands and results shapes: the number of operands and results, their ranks, and that for every
// axis the product of the sizes of its factors equals the dimension of the axis.
//
// Notice rules built with AddPointwiseWithDiffTypeForMismatch use the input dimension for
// mismatched axes, so those only check against the input shapes.
func (r *Rule) Check(operands, results []shapes.Shape) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := r.checkShapes("operand", r.operands, operands); err != nil {
		return err
	}
	return r.checkShapes("result", r.results, results)
}

func (r *Rule) checkShapes(kind string, mappings []TensorMapping, tensorShapes []shapes.Shape) error {
	if len(mappings) != len(tensorShapes) {
		return errors.Errorf("rule has %d %ss, but %d %s shapes were given", len(mappings), kind, len(tensorShapes), kind)
	}
	for tensor, mapping := range mappings {
		shape := tensorShapes[tensor]
		if err := shape.CheckRank(mapping.Rank()); err != nil {
			return errors.WithMessagef(err, "%s #%d", kind, tensor)
		}
		for axis, dimMapping := range mapping {
			product := xslices.Product(xslices.Map(dimMapping, func(factor int) int { return r.factors[factor].Size }))
			if product != shape.Dimensions[axis] {
				return errors.Errorf("%s #%d axis %d has dimension %d, but the product of its factors sizes is %d",
					kind, tensor, axis, shape.Dimensions[axis], product)
			}
		}
	}
	return nil
}
