/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package xslices provide missing functionality to the slices package.
package xslices

import (
	"flag"
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Product returns the product of all elements of the slice. The product of an empty slice is 1.
func Product[T constraints.Integer | constraints.Float](slice []T) T {
	product := T(1)
	for _, v := range slice {
		product *= v
	}
	return product
}

// Map executes the given function sequentially for every element on in, and returns a mapped slice.
func Map[In, Out any](in []In, fn func(e In) Out) (out []Out) {
	out = make([]Out, len(in))
	for ii, e := range in {
		out[ii] = fn(e)
	}
	return
}

// Flag creates a flag for []T with the given name, description and default value.
// It takes as input a parser for an individual T value.
//
// Values are given separated by sep (usually ",").
func Flag[T any](name string, defaultValue []T, sep, usage string,
	parserFn func(valueStr string) (T, error)) *[]T {
	f := &genericSliceFlagImpl[T]{
		parsedSlice: defaultValue,
		sep:         sep,
		parserFn:    parserFn,
	}
	flag.Var(f, name, usage)
	return &f.parsedSlice
}

// genericSliceFlagImpl implements flag.Value for a generic type.
type genericSliceFlagImpl[T any] struct {
	parsedSlice []T
	sep         string
	parserFn    func(valueStr string) (T, error)
}

func (f *genericSliceFlagImpl[T]) String() string {
	if len(f.parsedSlice) == 0 {
		return ""
	}
	parts := make([]string, len(f.parsedSlice))
	for ii, elem := range f.parsedSlice {
		if stringer, ok := any(elem).(fmt.Stringer); ok {
			parts[ii] = stringer.String()
		} else {
			parts[ii] = fmt.Sprintf("%v", elem)
		}
	}
	return strings.Join(parts, f.sep)
}

func (f *genericSliceFlagImpl[T]) Set(listStr string) error {
	parsed, err := ParseList(listStr, f.sep, f.parserFn)
	if err != nil {
		return err
	}
	f.parsedSlice = parsed
	return nil
}

// ParseList splits listStr by sep and parses each part with parserFn.
// An empty listStr yields an empty (non-nil) slice.
func ParseList[T any](listStr, sep string, parserFn func(valueStr string) (T, error)) ([]T, error) {
	if strings.TrimSpace(listStr) == "" {
		return make([]T, 0), nil
	}
	parts := strings.Split(listStr, sep)
	parsed := make([]T, len(parts))
	for ii, part := range parts {
		var err error
		parsed[ii], err = parserFn(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
	}
	return parsed, nil
}
