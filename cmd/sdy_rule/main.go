// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// sdy_rule builds sharding rules and prints them: their textual form and a table of their factors.
//
// The operations are described either with flags (one operation) or with a YAML file (-config) listing
// several of them, see fileConfig for its format.
//
// Example:
//
//	sdy_rule -recipe=mismatch -operands="4,8" -results="4,16"
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/shardingrules/pkg/core/distributed/rules"
	"github.com/gomlx/shardingrules/pkg/support/xslices"
	"github.com/janpfeifer/must"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var (
	flagConfig = flag.String("config", "", "YAML file with the list of operations to build rules for. "+
		"If set, the other flags describing an operation are ignored.")
	flagRecipe = flag.String("recipe", RecipePointwise,
		fmt.Sprintf("How to build the rule: %q, %q or %q.", RecipePointwise, RecipeIdentity, RecipeMismatch))
	flagOperands = xslices.Flag("operands", nil, ";",
		"Operand dimensions: ';' separates operands, ',' separates dimensions, e.g. \"4,8;4,8\". "+
			"For -recipe=identity only the first one is used, as the shared shape.", parseDims)
	flagResults = xslices.Flag("results", nil, ";",
		"Result dimensions, same format as -operands.", parseDims)
	flagNumOperands = flag.Int("num_operands", 1, "Number of operands for -recipe=identity.")
	flagNumResults  = flag.Int("num_results", 1, "Number of results for -recipe=identity.")
	flagMismatch    = flag.String("mismatch_type", rules.FactorTypeNeedReplication.String(),
		fmt.Sprintf("Factor type of the mismatched axes for -recipe=mismatch, one of %v.", rules.FactorTypeStrings()))
	flagMismatchBlocked = flag.Bool("mismatch_blocked", false, "Whether mismatched axes factors are blocked.")
	flagJSON            = flag.Bool("json", false, "Print the rules in JSON instead of the factors table.")
	flagParallelism     = flag.Int("parallelism", runtime.NumCPU(), "Number of ops to build in parallel.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	var ops []opConfig
	if *flagConfig != "" {
		config, err := loadConfig(*flagConfig)
		if err != nil {
			klog.Fatalf("%+v", err)
		}
		ops = config.Ops
	} else {
		ops = []opConfig{opFromFlags()}
	}

	built, errs := buildAll(ops)
	failed := false
	for i := range ops {
		op := &ops[i]
		if errs[i] != nil {
			klog.Errorf("%+v", errs[i])
			failed = true
			continue
		}
		if *flagJSON {
			fmt.Printf("%s\n", must.M1(json.MarshalIndent(map[string]any{"name": op.Name, "rule": built[i]}, "", "  ")))
			continue
		}
		report(op, built[i])
	}
	if failed {
		os.Exit(1)
	}
}

// buildAll builds the rules of all ops in parallel, interned in one rules.Context.
// It returns the rules and the errors, one per op.
func buildAll(ops []opConfig) ([]*rules.Rule, []error) {
	ctx := rules.NewContext()
	built := make([]*rules.Rule, len(ops))
	errs := make([]error, len(ops))
	var g errgroup.Group
	g.SetLimit(max(*flagParallelism, 1))
	for i := range ops {
		g.Go(func() error {
			built[i], errs[i] = ops[i].build(ctx)
			return nil
		})
	}
	_ = g.Wait()
	klog.V(1).Infof("Built %d ops, %d distinct rules", len(ops), ctx.Len())
	return built, errs
}

func opFromFlags() opConfig {
	op := opConfig{
		Name:            *flagRecipe,
		Recipe:          *flagRecipe,
		Operands:        *flagOperands,
		Results:         *flagResults,
		NumOperands:     *flagNumOperands,
		NumResults:      *flagNumResults,
		MismatchType:    *flagMismatch,
		MismatchBlocked: *flagMismatchBlocked,
	}
	if op.Recipe == RecipeIdentity {
		if len(op.Operands) > 0 {
			op.Shape = op.Operands[0]
		}
		op.Operands, op.Results = nil, nil
	}
	return op
}

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

func newPlainTable() *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if row == lgtable.HeaderRow {
				return headerRowStyle
			}
			if row%2 == 0 {
				s = oddRowStyle
			} else {
				s = evenRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			return
		})
}

// report prints the rule and the table of its factors.
func report(op *opConfig, rule *rules.Rule) {
	fmt.Println(titleStyle.Render(op.Name))
	fmt.Println(rule)
	if err := op.check(rule); err != nil {
		klog.Warningf("op %q: rule doesn't match its shapes: %v", op.Name, err)
	}
	if rule.NumFactors() == 0 {
		return
	}
	fmt.Println(factorsTable(rule).Render())
}

func factorsTable(rule *rules.Rule) *lgtable.Table {
	table := newPlainTable().Headers("#", "Symbol", "Size", "Type", "Blocked", "Axes")
	for factor, f := range rule.Factors() {
		blocked := ""
		if f.Blocked {
			blocked = "yes"
		}
		table.Row(strconv.Itoa(factor), rules.FactorSymbol(factor), humanize.Comma(int64(f.Size)),
			f.Type.String(), blocked, factorAxesString(rule.FactorAxes(factor)))
	}
	return table
}

// factorAxesString formats axes as "operand#0[1], result#0[1]".
func factorAxesString(axes []rules.FactorAxis) string {
	parts := xslices.Map(axes, func(axis rules.FactorAxis) string {
		kind := "operand"
		if axis.IsResult {
			kind = "result"
		}
		return fmt.Sprintf("%s#%d[%d]", kind, axis.Tensor, axis.Axis)
	})
	return strings.Join(parts, ", ")
}
