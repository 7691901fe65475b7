// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapes defines Shape, the description of an operand or result tensor of an operation:
// its DType and the dimension of each of its axes.
//
// ## Glossary
//
//   - Rank: number of axes of a tensor.
//   - Axis: the index of a dimension of a tensor. Sharding rules refer to axes by this index.
//   - Dimension: the size of a tensor along one of its axes.
//   - Scalar: a shape with no axes, only a single value of the associated DType.
//
// Example: the shape `(Float32)[4 8]` has rank 2, axis 0 has dimension 4 and axis 1 has
// dimension 8. It can be created with `shapes.Make(dtypes.Float32, 4, 8)`.
package shapes

import (
	"fmt"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
)

// Shape of an operand or result of an operation.
//
// Use Make to create a new shape.
type Shape struct {
	DType      dtypes.DType
	Dimensions []int
}

// Make returns a Shape structure filled with the values given.
//
// It panics if any of the dimensions is not positive.
func Make(dtype dtypes.DType, dimensions ...int) Shape {
	s := Shape{Dimensions: slices.Clone(dimensions), DType: dtype}
	for _, dim := range dimensions {
		if dim <= 0 {
			exceptions.Panicf("shapes.Make(%s): cannot create a shape with an axis with dimension <= 0", s)
		}
	}
	return s
}

// Rank of the shape, that is, the number of axes.
func (s Shape) Rank() int { return len(s.Dimensions) }

// String implements stringer, pretty-prints the shape.
func (s Shape) String() string {
	if s.Rank() == 0 {
		return fmt.Sprintf("(%s)", s.DType)
	}
	return fmt.Sprintf("(%s)%v", s.DType, s.Dimensions)
}

// Clone returns a new deep copy of the shape.
func (s Shape) Clone() (s2 Shape) {
	s2.DType = s.DType
	s2.Dimensions = slices.Clone(s.Dimensions)
	return
}

// Ranks returns the rank of each of the given shapes.
func Ranks(shapes []Shape) []int {
	ranks := make([]int, len(shapes))
	for i, s := range shapes {
		ranks[i] = s.Rank()
	}
	return ranks
}

// Repeat returns a slice with n copies of the shape s.
func Repeat(s Shape, n int) []Shape {
	if n < 0 {
		exceptions.Panicf("shapes.Repeat(%s, %d): n must be non-negative", s, n)
	}
	repeated := make([]Shape, n)
	for i := range repeated {
		repeated[i] = s.Clone()
	}
	return repeated
}
