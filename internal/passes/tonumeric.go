package passes

import (
	"abcdec/internal/ir"
	"abcdec/internal/passmgr"
)

// ToNumericElimination is a cheap structural follow-up to
// TypePropagation: it drops any to-numeric instruction whose operand's
// Type already carries a numeric Kind, independent of the fixed-point
// analysis, so it also cleans up values that other passes retyped
// after TypePropagation last ran.
type ToNumericElimination struct{}

func (ToNumericElimination) Name() string        { return "ToNumericElimination" }
func (ToNumericElimination) Description() string { return "drops to-numeric on operands already typed numeric" }

func (p ToNumericElimination) RunOnFunction(fn *ir.Function, cache *passmgr.AnalysisCache) passmgr.Result {
	modified := false
	for _, inst := range allInstructions(fn) {
		un, ok := inst.(*ir.UnaryInst)
		if !ok || un.Op() != ir.OpToNumeric {
			continue
		}
		x := un.X.Value()
		if x == nil || !x.Type.IsNumeric() {
			continue
		}
		un.Result().ReplaceAllUsesWith(x)
		ir.EraseFromParent(un)
		modified = true
	}
	return passmgr.Success(modified)
}
