// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	diag "abcdec/internal/errors"
	"abcdec/internal/ir"
	"abcdec/internal/passes"
	"abcdec/internal/passmgr"
	"abcdec/internal/ssa"
)

// nopPool resolves no string ids; abcdump has no string pool section
// reader, so string-bearing instructions print their raw id instead of
// decoded text.
type nopPool struct{}

func (nopPool) Lookup(id uint64) (string, bool) { return "", false }

func pipeline() *passmgr.PassManager {
	pm := passmgr.New()
	pm.AddPass(passes.SimplifyCFG{})
	pm.AddPass(passes.ConstantFolding{})
	pm.AddPass(passes.ConstantPropagation{})
	pm.AddPass(passes.AlgebraicSimplification{})
	pm.AddPass(passes.GlobalValueNumbering{})
	pm.AddPass(passes.LoopInvariantCodeMotion{})
	pm.AddPass(passes.BranchFolding{})
	pm.AddPass(passes.TypePropagation{})
	pm.AddPass(passes.ToNumericElimination{})
	pm.AddPass(passes.CompoundAssignment{})
	pm.AddPass(passes.VariableReconstruction{})
	pm.AddPass(passes.RedundantReturnElimination{})
	pm.AddPass(passes.DeadCodeElimination{})
	pm.AddPass(passes.AggressiveDCE{})
	return pm
}

func main() {
	paramCount := flag.Int("params", 0, "declared parameter count")
	numVRegs := flag.Int("vregs", 4, "virtual register count")
	numArgs := flag.Int("args", 0, "argument register count")
	name := flag.String("name", "main", "method name for the decoded function")
	stats := flag.Bool("stats", false, "print pass manager statistics")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: abcdump [flags] <method.bin>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	path := flag.Arg(0)
	raw, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	reporter := diag.NewErrorReporter(path)

	module := ir.NewModule(path)
	result := ssa.Convert(module, *name, raw, *paramCount, *numVRegs, *numArgs, nopPool{})

	for _, w := range result.Warnings {
		fmt.Print(reporter.FormatError(diag.VerificationFinding(*name, w)))
	}
	for _, e := range result.Errors {
		fmt.Print(reporter.FormatError(diag.NewSemanticError(diag.ErrorPassFailed, e, diag.Location{Function: *name}).Build()))
	}
	if !result.IsSuccess() {
		os.Exit(1)
	}

	pm := pipeline()
	pm.EnableStats(*stats)
	if failures := pm.RunModule(module); len(failures) > 0 {
		for _, f := range failures {
			fmt.Print(reporter.FormatError(diag.PassFailed(*name, "pipeline", f.Error(), nil)))
		}
	}

	fmt.Println(ir.PrintModule(module))

	if *stats {
		for passName, s := range pm.Stats() {
			fmt.Printf("  %-28s runs=%-4d modified=%-4d failures=%-4d elapsed=%s\n",
				passName, s.Runs, s.Modified, s.Failures, s.Elapsed)
		}
	}

	color.Green("decoded %s: %d function(s)", path, len(module.Functions()))
}
