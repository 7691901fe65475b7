// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"strings"
)

// FactorType classifies how the propagation algorithm may move a sharding along a factor.
type FactorType int

//go:generate go tool enumer -type FactorType -trimprefix=FactorType -transform=snake -text -json -output=gen_factortype_enumer.go factor.go

const (
	// FactorTypePassThrough is the default: the factor maps operand and result axes isomorphically,
	// and a sharding can be propagated freely along it.
	FactorTypePassThrough FactorType = iota

	// FactorTypeReduction factors are contracted away: present in operands, absent from results.
	// An operand sharded along it requires a reduction (e.g. a cross-device sum) to produce the result.
	FactorTypeReduction

	// FactorTypeNeedReplication factors cannot be sharded: any sharding along it must fall back to
	// full replication.
	FactorTypeNeedReplication

	// FactorTypePermutation factors reorder elements between operands and results (e.g. a reverse),
	// so propagation must not assume index alignment.
	FactorTypePermutation
)

// Factor is a shared iteration dimension of an operation, analogous to an einsum index.
//
// Factors are identified by their index in the Rule (or Builder) that declares them.
type Factor struct {
	// Size is the extent of the factor, it must be positive.
	Size int `json:"size"`

	// Type is the classification of the factor, FactorTypePassThrough by default.
	Type FactorType `json:"type"`

	// Blocked factors are never used to propagate a sharding, regardless of their type.
	Blocked bool `json:"blocked,omitempty"`
}

// PassThrough returns a FactorTypePassThrough factor of the given size.
func PassThrough(size int) Factor { return Factor{Size: size, Type: FactorTypePassThrough} }

// Reduction returns a FactorTypeReduction factor of the given size.
func Reduction(size int) Factor { return Factor{Size: size, Type: FactorTypeReduction} }

// NeedReplication returns a FactorTypeNeedReplication factor of the given size.
func NeedReplication(size int) Factor { return Factor{Size: size, Type: FactorTypeNeedReplication} }

// Permutation returns a FactorTypePermutation factor of the given size.
func Permutation(size int) Factor { return Factor{Size: size, Type: FactorTypePermutation} }

// WithBlocked returns a copy of the factor with Blocked set to the given value.
func (f Factor) WithBlocked(blocked bool) Factor {
	f.Blocked = blocked
	return f
}

// String implements fmt.Stringer. E.g.: "16", "16:reduction" or "16:need_replication:blocked".
func (f Factor) String() string {
	parts := []string{fmt.Sprintf("%d", f.Size)}
	if f.Type != FactorTypePassThrough {
		parts = append(parts, f.Type.String())
	}
	if f.Blocked {
		parts = append(parts, "blocked")
	}
	return strings.Join(parts, ":")
}

// numFactorSymbols is the number of single letter factor symbols: 'i' to 'z'.
const numFactorSymbols = 'z' - 'i' + 1

// FactorSymbol returns the symbol used to represent the factor of the given index in the textual
// form of a Rule: "i", "j", ..., "z", and then "z_1", "z_2", etc.
func FactorSymbol(factor int) string {
	if factor < numFactorSymbols {
		return string(rune('i' + factor))
	}
	return fmt.Sprintf("z_%d", factor-numFactorSymbols+1)
}
