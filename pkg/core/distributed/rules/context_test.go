// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package rules_test

import (
	"sync"
	"testing"

	"github.com/gomlx/shardingrules/pkg/core/distributed/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext(t *testing.T) {
	ctx := rules.NewContext()
	r1 := ctx.Identity(f32(4, 8), 2, 1)
	r2 := ctx.Pointwise(list(f32(4, 8), f32(4, 8)), list(f32(4, 8)))
	require.Same(t, r1, r2)
	require.Equal(t, 1, ctx.Len())

	r3 := ctx.NewBuilder(list(f32(4, 8), f32(4, 8)), list(f32(4, 8))).
		AddFactorForAll(0, rules.PassThrough(4)).
		AddFactorForAll(1, rules.PassThrough(8)).
		Build()
	require.Same(t, r1, r3)

	// Same structure, different classification: a different rule.
	r4 := ctx.NewBuilder(list(f32(4, 8), f32(4, 8)), list(f32(4, 8))).
		AddFactorForAll(0, rules.PassThrough(4)).
		AddFactorForAll(1, rules.PassThrough(8).WithBlocked(true)).
		Build()
	require.NotSame(t, r1, r4)
	require.Equal(t, 2, ctx.Len())

	// Rules built outside the context are only equal, until interned.
	outside := rules.Identity(f32(4, 8), 2, 1)
	require.NotSame(t, r1, outside)
	require.Same(t, r1, ctx.Intern(outside))
	require.Equal(t, 2, ctx.Len())
}

func TestContextConcurrentInterning(t *testing.T) {
	ctx := rules.NewContext()
	const numWorkers = 16
	got := make([]*rules.Rule, numWorkers)
	var wg sync.WaitGroup
	for i := range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = ctx.Identity(f32(8, 2, 3), 1, 1)
		}()
	}
	wg.Wait()
	for i := range numWorkers {
		assert.Same(t, got[0], got[i])
	}
	assert.Equal(t, 1, ctx.Len())
}
