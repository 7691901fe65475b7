// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/shardingrules/pkg/core/distributed/rules"
	"github.com/gomlx/shardingrules/pkg/core/shapes"
	"github.com/gomlx/shardingrules/pkg/support/fsutil"
	"github.com/gomlx/shardingrules/pkg/support/xslices"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Recipes supported by opConfig.
const (
	RecipePointwise = "pointwise"
	RecipeIdentity  = "identity"
	RecipeMismatch  = "mismatch"
	RecipeCustom    = "custom"
)

// fileConfig is the format of the file given with -config.
//
// Example:
//
//	ops:
//	  - name: add
//	    recipe: pointwise
//	    operands: [[4, 8], [4, 8]]
//	    results: [[4, 8]]
//	  - name: dot
//	    recipe: custom
//	    operands: [[4, 16], [16, 8]]
//	    results: [[4, 8]]
//	    factors:
//	      - {size: 4, operands: [0, ~], results: [0]}
//	      - {size: 8, operands: [~, 1], results: [1]}
//	      - {size: 16, type: reduction, operands: [1, 0], results: [~]}
type fileConfig struct {
	Ops []opConfig `yaml:"ops"`
}

// opConfig describes one operation and how to build its rule.
type opConfig struct {
	Name   string `yaml:"name"`
	Recipe string `yaml:"recipe"`

	// Operands and Results dimensions: an empty list is a scalar.
	Operands [][]int `yaml:"operands"`
	Results  [][]int `yaml:"results"`

	// Shape, NumOperands and NumResults are used by RecipeIdentity.
	Shape       []int `yaml:"shape"`
	NumOperands int   `yaml:"num_operands"`
	NumResults  int   `yaml:"num_results"`

	// MismatchType and MismatchBlocked are used by RecipeMismatch. MismatchType defaults to "need_replication".
	MismatchType    string `yaml:"mismatch_type"`
	MismatchBlocked bool   `yaml:"mismatch_blocked"`

	// Factors are used by RecipeCustom.
	Factors []factorConfig `yaml:"factors"`
}

// factorConfig declares one factor of RecipeCustom.
type factorConfig struct {
	Size    int    `yaml:"size"`
	Type    string `yaml:"type"`
	Blocked bool   `yaml:"blocked"`

	// Operands and Results hold the axis bound for each operand/result, or null if it doesn't participate.
	Operands []*int `yaml:"operands"`
	Results  []*int `yaml:"results"`
}

// loadConfig reads and parses the YAML file at path.
func loadConfig(path string) (*fileConfig, error) {
	path, err := fsutil.ResolveFile(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %q", path)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*fileConfig, error) {
	config := &fileConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	for i := range config.Ops {
		if config.Ops[i].Name == "" {
			config.Ops[i].Name = "op_" + strconv.Itoa(i)
		}
	}
	return config, nil
}

// parseDims parses a comma-separated list of dimensions. An empty string is a scalar.
func parseDims(dimsStr string) ([]int, error) {
	dims, err := xslices.ParseList(dimsStr, ",", strconv.Atoi)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid dimensions %q", dimsStr)
	}
	return dims, nil
}

func toShapes(allDims [][]int) []shapes.Shape {
	return xslices.Map(allDims, func(dims []int) shapes.Shape { return shapes.Make(dtypes.Float32, dims...) })
}

func parseFactorType(name string, defaultType rules.FactorType) (rules.FactorType, error) {
	if strings.TrimSpace(name) == "" {
		return defaultType, nil
	}
	factorType, err := rules.FactorTypeString(name)
	if err != nil {
		return defaultType, errors.Wrapf(err, "invalid factor type %q, valid values are %v", name, rules.FactorTypeStrings())
	}
	return factorType, nil
}

func toDims(axes []*int) []rules.Dim {
	return xslices.Map(axes, func(axis *int) rules.Dim {
		if axis == nil {
			return rules.NoAxis
		}
		return rules.Axis(*axis)
	})
}

// build the rule described by the op, interned in ctx.
//
// Invalid descriptions that the rules package treats as programming errors (axes out of range,
// non-positive sizes) are returned as errors.
func (op *opConfig) build(ctx *rules.Context) (*rules.Rule, error) {
	var rule *rules.Rule
	var err error
	if panicErr := exceptions.TryCatch[error](func() { rule, err = op.buildOrPanic(ctx) }); panicErr != nil {
		err = panicErr
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "op %q", op.Name)
	}
	return rule, nil
}

func (op *opConfig) buildOrPanic(ctx *rules.Context) (*rules.Rule, error) {
	operands, results := toShapes(op.Operands), toShapes(op.Results)
	switch op.Recipe {
	case RecipePointwise, "":
		return ctx.Pointwise(operands, results), nil

	case RecipeIdentity:
		return ctx.Identity(shapes.Make(dtypes.Float32, op.Shape...), op.NumOperands, op.NumResults), nil

	case RecipeMismatch:
		if len(operands) == 0 || len(results) == 0 {
			return nil, errors.Errorf("recipe %q requires at least one operand and one result", op.Recipe)
		}
		mismatchType, err := parseFactorType(op.MismatchType, rules.FactorTypeNeedReplication)
		if err != nil {
			return nil, err
		}
		return ctx.NewBuilder(operands, results).
			AddPointwiseWithDiffTypeForMismatch(op.Operands[0], op.Results[0], mismatchType, op.MismatchBlocked).
			Build(), nil

	case RecipeCustom:
		b := ctx.NewBuilder(operands, results)
		for i, f := range op.Factors {
			factorType, err := parseFactorType(f.Type, rules.FactorTypePassThrough)
			if err != nil {
				return nil, errors.WithMessagef(err, "factor #%d", i)
			}
			b.AddFactor(toDims(f.Operands), toDims(f.Results),
				rules.Factor{Size: f.Size, Type: factorType, Blocked: f.Blocked})
		}
		return b.Build(), nil
	}
	return nil, errors.Errorf("unknown recipe %q, valid values are %q, %q, %q and %q",
		op.Recipe, RecipePointwise, RecipeIdentity, RecipeMismatch, RecipeCustom)
}

// check the rule against the op shapes, see rules.Rule.Check.
func (op *opConfig) check(rule *rules.Rule) error {
	switch op.Recipe {
	case RecipeIdentity:
		shape := shapes.Make(dtypes.Float32, op.Shape...)
		return rule.Check(shapes.Repeat(shape, op.NumOperands), shapes.Repeat(shape, op.NumResults))
	case RecipeMismatch:
		// Mismatched axes carry the input dimension.
		operands := toShapes(op.Operands)
		return rule.Check(operands, shapes.Repeat(operands[0], len(op.Results)))
	}
	return rule.Check(toShapes(op.Operands), toShapes(op.Results))
}
