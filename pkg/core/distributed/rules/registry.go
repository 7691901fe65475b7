// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package rules

import (
	"github.com/gomlx/exceptions"
)

// registry holds the factors declared so far, in declaration order: the index of a factor
// in the registry is its identity, and it is never reused or renumbered.
type registry struct {
	factors []Factor
}

// reserve appends the factor and returns its index.
func (r *registry) reserve(factor Factor) int {
	checkFactor(len(r.factors), factor)
	factorIdx := len(r.factors)
	r.factors = append(r.factors, factor)
	return factorIdx
}

// checkFactor panics if the factor can't be declared.
func checkFactor(factorIdx int, factor Factor) {
	if factor.Size <= 0 {
		exceptions.Panicf("factor #%d must have a positive size, got %d", factorIdx, factor.Size)
	}
	if !factor.Type.IsAFactorType() {
		exceptions.Panicf("factor #%d has an unknown type %s", factorIdx, factor.Type)
	}
}

func (r *registry) len() int { return len(r.factors) }

// clone returns a copy of the factors, never nil.
func (r *registry) clone() []Factor {
	return append(make([]Factor, 0, len(r.factors)), r.factors...)
}
