// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package rules_test

import (
	"encoding/json"
	"testing"

	"github.com/gomlx/shardingrules/pkg/core/distributed/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matMulRule() *rules.Rule {
	return rules.NewBuilder(list(f32(2, 4, 16), f32(2, 16, 8)), list(f32(2, 4, 8))).
		AddFactor(rules.Axes(0, 0), rules.Axes(0), rules.PassThrough(2)).
		AddFactor([]rules.Dim{rules.Axis(1), rules.NoAxis}, rules.Axes(1), rules.PassThrough(4)).
		AddFactor([]rules.Dim{rules.NoAxis, rules.Axis(2)}, rules.Axes(2), rules.PassThrough(8)).
		AddFactor(rules.Axes(2, 1), []rules.Dim{rules.NoAxis}, rules.Reduction(16)).
		Build()
}

func TestFactorSymbol(t *testing.T) {
	assert.Equal(t, "i", rules.FactorSymbol(0))
	assert.Equal(t, "k", rules.FactorSymbol(2))
	assert.Equal(t, "z", rules.FactorSymbol(17))
	assert.Equal(t, "z_1", rules.FactorSymbol(18))
	assert.Equal(t, "z_3", rules.FactorSymbol(20))
}

func TestFactorType(t *testing.T) {
	assert.Equal(t, "need_replication", rules.FactorTypeNeedReplication.String())
	ft, err := rules.FactorTypeString("permutation")
	require.NoError(t, err)
	assert.Equal(t, rules.FactorTypePermutation, ft)
	_, err = rules.FactorTypeString("sideways")
	require.Error(t, err)
	assert.Len(t, rules.FactorTypeValues(), 4)

	assert.Equal(t, "8", rules.PassThrough(8).String())
	assert.Equal(t, "8:reduction:blocked", rules.Reduction(8).WithBlocked(true).String())
	assert.Equal(t, "_", rules.NoAxis.String())
	assert.Equal(t, "2", rules.Axis(2).String())
}

func TestRuleViews(t *testing.T) {
	rule := matMulRule()
	assert.Equal(t, 4, rule.NumFactors())
	assert.True(t, rule.IsReduction(3))
	assert.False(t, rule.IsReduction(0))
	assert.Equal(t, []int{0, 1, 2}, rule.FactorsOfType(rules.FactorTypePassThrough))
	require.Panics(t, func() { _ = rule.Factor(4) })
	require.Panics(t, func() { _ = rule.OperandMapping(2) })
	require.Panics(t, func() { _ = rule.ResultMapping(1) })

	assert.Equal(t, []rules.FactorAxis{
		{IsResult: false, Tensor: 0, Axis: 2},
		{IsResult: false, Tensor: 1, Axis: 1},
	}, rule.FactorAxes(3))
	assert.Equal(t, []rules.FactorAxis{
		{IsResult: false, Tensor: 0, Axis: 0},
		{IsResult: false, Tensor: 1, Axis: 0},
		{IsResult: true, Tensor: 0, Axis: 0},
	}, rule.FactorAxes(0))

	// Accessors return copies.
	mapping := rule.OperandMapping(0)
	mapping[0][0] = 3
	assert.Equal(t, rules.DimMapping{0}, rule.OperandMapping(0)[0])
	factors := rule.Factors()
	factors[0].Size = 100
	assert.Equal(t, 2, rule.Factor(0).Size)

	var nilRule *rules.Rule
	assert.Equal(t, "Rule<nil>", nilRule.String())
	assert.False(t, rule.Equal(nil))
	assert.True(t, rule.Equal(matMulRule()))
}

func TestCheck(t *testing.T) {
	rule := matMulRule()
	require.NoError(t, rule.Check(list(f32(2, 4, 16), f32(2, 16, 8)), list(f32(2, 4, 8))))
	assert.Error(t, rule.Check(list(f32(2, 4, 16)), list(f32(2, 4, 8))))
	assert.Error(t, rule.Check(list(f32(2, 4, 16), f32(2, 16, 8)), nil))
	assert.Error(t, rule.Check(list(f32(2, 4, 16), f32(2, 16)), list(f32(2, 4, 8))))
	assert.Error(t, rule.Check(list(f32(2, 4, 16), f32(2, 16, 8)), list(f32(2, 4, 9))))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{"valid", `{"factors":[{"size":4,"type":"pass_through"}],"operands":[[[0]]],"results":[[[0]]]}`, false},
		{"dangling", `{"factors":[{"size":4,"type":"pass_through"}],"operands":[[[1]]],"results":[]}`, true},
		{"negative_index", `{"factors":[{"size":4,"type":"pass_through"}],"operands":[[[-1]]],"results":[]}`, true},
		{"uncovered", `{"factors":[{"size":4,"type":"pass_through"}],"operands":[[[0], []]],"results":[]}`, true},
		{"null_axis", `{"factors":[{"size":4,"type":"pass_through"}],"operands":[[null]],"results":[]}`, true},
		{"duplicated", `{"factors":[{"size":4,"type":"pass_through"}],"operands":[[[0], [0]]],"results":[]}`, true},
		{"zero_size", `{"factors":[{"size":0,"type":"pass_through"}],"operands":[[[0]]],"results":[]}`, true},
		{"unknown_type", `{"factors":[{"size":4,"type":"sideways"}],"operands":[[[0]]],"results":[]}`, true},
		{"not_json", `{"factors":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rule rules.Rule
			err := json.Unmarshal([]byte(tt.json), &rule)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, rule.Validate())
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	for _, rule := range []*rules.Rule{
		matMulRule(),
		rules.Identity(f32(), 2, 1),
		rules.Identity(f32(4, 8), 1, 1),
		rules.NewBuilder(list(f32(4, 8)), list(f32(4, 16))).
			AddPointwiseWithDiffTypeForMismatch([]int{4, 8}, []int{4, 16}, rules.FactorTypeNeedReplication, true).
			Build(),
	} {
		t.Run(rule.String(), func(t *testing.T) {
			data, err := json.Marshal(rule)
			require.NoError(t, err)
			var decoded rules.Rule
			require.NoError(t, json.Unmarshal(data, &decoded))
			require.True(t, rule.Equal(&decoded), "got %s", &decoded)
			require.Equal(t, rule.String(), decoded.String())
		})
	}

	data, err := json.Marshal(rules.Identity(f32(4), 1, 1))
	require.NoError(t, err)
	assert.JSONEq(t, `{"factors":[{"size":4,"type":"pass_through"}],"operands":[[[0]]],"results":[[[0]]]}`, string(data))
}
