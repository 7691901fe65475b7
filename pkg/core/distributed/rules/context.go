// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"sync"

	"github.com/gomlx/shardingrules/pkg/core/shapes"
	"k8s.io/klog/v2"
)

// Context allocates rules: structurally equal rules built through the same Context are interned
// and share one *Rule, so they can be compared by pointer.
//
// A Context is safe for concurrent use, even though each Builder is not.
type Context struct {
	mu    sync.Mutex
	rules map[string]*Rule
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{rules: make(map[string]*Rule)}
}

// NewBuilder creates a Builder (see NewBuilder) whose rules are interned in this Context.
func (c *Context) NewBuilder(operands, results []shapes.Shape) *Builder {
	b := NewBuilder(operands, results)
	b.ctx = c
	return b
}

// Pointwise is like the package function Pointwise, but the rule is interned in this Context.
func (c *Context) Pointwise(operands, results []shapes.Shape) *Rule {
	return buildPointwise(c, operands, results)
}

// Identity is like the package function Identity, but the rule is interned in this Context.
func (c *Context) Identity(shape shapes.Shape, numOperands, numResults int) *Rule {
	return buildIdentity(c, shape, numOperands, numResults)
}

// Intern returns the Context's instance of a rule structurally equal to rule, registering rule
// itself if there is none yet.
func (c *Context) Intern(rule *Rule) *Rule {
	key := rule.internKey()
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, found := c.rules[key]; found {
		return existing
	}
	c.rules[key] = rule
	if klog.V(3).Enabled() {
		klog.Infof("Interned sharding rule #%d: %s", len(c.rules), rule)
	}
	return rule
}

// Len returns the number of distinct rules interned.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rules)
}

// internKey encodes the full structure of the rule.
func (r *Rule) internKey() string {
	return fmt.Sprintf("%v|%v|%v", r.factors, r.operands, r.results)
}
