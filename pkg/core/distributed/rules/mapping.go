// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"slices"

	"github.com/gomlx/exceptions"
)

// Dim selects which axis of an operand (or result) a factor is bound to, or that the operand
// doesn't participate in the factor at all (NoAxis).
//
// The zero value is NoAxis.
type Dim struct {
	axis  int
	bound bool
}

// NoAxis marks an operand or result as not participating in a factor.
var NoAxis = Dim{}

// Axis binds a factor to the given axis of an operand or result.
func Axis(axis int) Dim {
	if axis < 0 {
		exceptions.Panicf("rules.Axis(%d): axis must be non-negative", axis)
	}
	return Dim{axis: axis, bound: true}
}

// Axes is a shortcut to create one Dim per given axis, all bound.
func Axes(axes ...int) []Dim {
	dims := make([]Dim, len(axes))
	for i, axis := range axes {
		dims[i] = Axis(axis)
	}
	return dims
}

// AxisIndex returns the axis selected, and whether it is bound at all.
func (d Dim) AxisIndex() (axis int, bound bool) {
	return d.axis, d.bound
}

// String implements fmt.Stringer.
func (d Dim) String() string {
	if !d.bound {
		return "_"
	}
	return fmt.Sprintf("%d", d.axis)
}

// DimMapping lists, in order, the indices of the factors that jointly cover one axis of a tensor.
//
// Once a rule is built, the product of the sizes of the factors equals the dimension of the axis.
// An empty DimMapping in a Builder means the axis is not yet assigned.
type DimMapping []int

// Clone returns a copy of the mapping.
func (m DimMapping) Clone() DimMapping {
	return slices.Clone(m)
}

// TensorMapping holds one DimMapping per axis of an operand or result, in axis order.
type TensorMapping []DimMapping

// NewTensorMapping returns a TensorMapping for a tensor of the given rank, with all axes unassigned.
func NewTensorMapping(rank int) TensorMapping {
	if rank < 0 {
		exceptions.Panicf("rules.NewTensorMapping(%d): rank must be non-negative", rank)
	}
	return make(TensorMapping, rank)
}

// Rank of the tensor described by the mapping.
func (t TensorMapping) Rank() int { return len(t) }

// Clone returns a deep copy of the mapping. It is never nil.
func (t TensorMapping) Clone() TensorMapping {
	clone := make(TensorMapping, len(t))
	for axis, dimMapping := range t {
		clone[axis] = dimMapping.Clone()
	}
	return clone
}

// Equal returns whether both mappings have the same factors in every axis.
// Nil and empty mappings are considered equal.
func (t TensorMapping) Equal(other TensorMapping) bool {
	if len(t) != len(other) {
		return false
	}
	for axis, dimMapping := range t {
		if !slices.Equal(dimMapping, other[axis]) {
			return false
		}
	}
	return true
}

func cloneMappings(mappings []TensorMapping) []TensorMapping {
	clones := make([]TensorMapping, len(mappings))
	for i, m := range mappings {
		clones[i] = m.Clone()
	}
	return clones
}

func equalMappings(a, b []TensorMapping) bool {
	return slices.EqualFunc(a, b, TensorMapping.Equal)
}
