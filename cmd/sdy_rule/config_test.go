// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/shardingrules/pkg/core/distributed/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
ops:
  - name: add
    operands: [[4, 8], [4, 8]]
    results: [[4, 8]]
  - name: copy
    recipe: identity
    shape: [2, 3]
    num_operands: 2
    num_results: 1
  - name: pad
    recipe: mismatch
    operands: [[4, 8]]
    results: [[4, 16]]
  - recipe: custom
    operands: [[4, 16], [16, 8]]
    results: [[4, 8]]
    factors:
      - {size: 4, operands: [0, ~], results: [0]}
      - {size: 8, operands: [~, 1], results: [1]}
      - {size: 16, type: reduction, blocked: true, operands: [1, 0], results: [~]}
`

func TestConfig(t *testing.T) {
	config, err := parseConfig([]byte(testConfig))
	require.NoError(t, err)
	require.Len(t, config.Ops, 4)
	assert.Equal(t, "op_3", config.Ops[3].Name)

	ctx := rules.NewContext()
	want := []string{
		"([i, j], [i, j])->([i, j]) {i=4, j=8}",
		"([i, j], [i, j])->([i, j]) {i=2, j=3}",
		"([i, j])->([i, j]) {i=4, j=8} need_replication={j}",
		"([i, k], [k, j])->([i, j]) {i=4, j=8, k=16} reduction={k} blocked_propagation={k}",
	}
	for i, op := range config.Ops {
		t.Run(op.Name, func(t *testing.T) {
			rule, err := op.build(ctx)
			require.NoError(t, err)
			assert.Equal(t, want[i], rule.String())
			assert.NoError(t, op.check(rule))
		})
	}

	_, err = parseConfig([]byte("ops: {name: 3"))
	require.Error(t, err)
}

func TestBuildAll(t *testing.T) {
	ops := []opConfig{
		{Name: "add", Operands: [][]int{{4, 8}, {4, 8}}, Results: [][]int{{4, 8}}},
		{Name: "copy", Recipe: RecipeIdentity, Shape: []int{4, 8}, NumOperands: 2, NumResults: 1},
		{Name: "broken", Recipe: "einsum"},
	}
	built, errs := buildAll(ops)
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.Error(t, errs[2])
	assert.Same(t, built[0], built[1])
	assert.Nil(t, built[2])
}

func TestLoadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ops.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0o644))
	config, err := loadConfig(configPath)
	require.NoError(t, err)
	require.Len(t, config.Ops, 4)
	assert.Equal(t, RecipeMismatch, config.Ops[2].Recipe)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestBuildErrors(t *testing.T) {
	for _, op := range []opConfig{
		{Name: "unknown_recipe", Recipe: "einsum"},
		{Name: "missing_results", Recipe: RecipeMismatch, Operands: [][]int{{4}}},
		{Name: "bad_mismatch_type", Recipe: RecipeMismatch, Operands: [][]int{{4}}, Results: [][]int{{8}},
			MismatchType: "broadcast"},
		{Name: "bad_factor_type", Recipe: RecipeCustom, Operands: [][]int{{4}}, Results: [][]int{{4}},
			Factors: []factorConfig{{Size: 4, Type: "sum", Operands: []*int{ptr(0)}, Results: []*int{ptr(0)}}}},
		{Name: "axis_out_of_range", Recipe: RecipeCustom, Operands: [][]int{{4}}, Results: [][]int{{4}},
			Factors: []factorConfig{{Size: 4, Operands: []*int{ptr(1)}, Results: []*int{ptr(0)}}}},
		{Name: "non_positive_size", Recipe: RecipeCustom, Operands: [][]int{{4}}, Results: [][]int{{4}},
			Factors: []factorConfig{{Size: 0, Operands: []*int{ptr(0)}, Results: []*int{ptr(0)}}}},
	} {
		t.Run(op.Name, func(t *testing.T) {
			rule, err := op.build(rules.NewContext())
			require.Error(t, err)
			assert.Nil(t, rule)
			assert.Contains(t, err.Error(), op.Name)
		})
	}
}

func TestParseDims(t *testing.T) {
	dims, err := parseDims("4, 8")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 8}, dims)

	dims, err = parseDims("")
	require.NoError(t, err)
	assert.Empty(t, dims)

	_, err = parseDims("4,x")
	require.Error(t, err)
}

func TestFactorAxesString(t *testing.T) {
	rule := rules.NewBuilder(toShapes([][]int{{4, 16}, {16, 8}}), toShapes([][]int{{4, 8}})).
		AddFactor(rules.Axes(1, 0), []rules.Dim{rules.NoAxis}, rules.Reduction(16)).
		Build()
	assert.Equal(t, "operand#0[1], operand#1[0]", factorAxesString(rule.FactorAxes(0)))
}

func ptr[T any](v T) *T { return &v }
