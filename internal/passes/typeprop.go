package passes

import (
	"abcdec/internal/ir"
	"abcdec/internal/passmgr"
)

// TypePropagation grows a known-numeric value set to a fixed point,
// seeded by numeric constants and to-numeric results, propagated through
// copies, phis and arithmetic binaries, then tags every member's Type
// with a numeric kind and collapses any to-numeric instruction whose
// operand is already a member onto that operand directly.
type TypePropagation struct{}

func (TypePropagation) Name() string        { return "TypePropagation" }
func (TypePropagation) Description() string { return "propagates numeric typing through copies, phis and arithmetic" }

func (p TypePropagation) RunOnFunction(fn *ir.Function, cache *passmgr.AnalysisCache) passmgr.Result {
	numeric := make(map[*ir.Value]bool)
	seedNumeric(fn, numeric)

	for {
		changed := false
		for _, inst := range allInstructions(fn) {
			if growNumeric(inst, numeric) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	modified := false
	for v := range numeric {
		if !v.Type.IsNumeric() {
			v.Type = ir.F64Type()
			modified = true
		}
	}

	for _, inst := range allInstructions(fn) {
		un, ok := inst.(*ir.UnaryInst)
		if !ok || un.Op() != ir.OpToNumeric {
			continue
		}
		x := un.X.Value()
		if numeric[x] || x.Type.IsNumeric() {
			un.Result().ReplaceAllUsesWith(x)
			ir.EraseFromParent(un)
			modified = true
		}
	}
	return passmgr.Success(modified)
}

func seedNumeric(fn *ir.Function, numeric map[*ir.Value]bool) {
	for _, inst := range allInstructions(fn) {
		for _, u := range inst.Operands() {
			v := u.Value()
			if v != nil && v.IsConstant() && (v.ConstKind == ir.ConstInt || v.ConstKind == ir.ConstFloat) {
				numeric[v] = true
			}
		}
		if res := inst.Result(); res != nil && res.IsConstant() && (res.ConstKind == ir.ConstInt || res.ConstKind == ir.ConstFloat) {
			numeric[res] = true
		}
	}
}

func growNumeric(inst ir.Instruction, numeric map[*ir.Value]bool) bool {
	res := inst.Result()
	if res == nil || numeric[res] {
		return false
	}
	switch i := inst.(type) {
	case *ir.CopyInst:
		if numeric[i.Src.Value()] {
			numeric[res] = true
			return true
		}
	case *ir.PhiInst:
		for idx := 0; idx < i.NumIncoming(); idx++ {
			if !numeric[i.IncomingValue(idx)] {
				return false
			}
		}
		if i.NumIncoming() > 0 {
			numeric[res] = true
			return true
		}
	case *ir.UnaryInst:
		switch i.Op() {
		case ir.OpToNumeric, ir.OpInc, ir.OpDec, ir.OpNeg, ir.OpBitNot:
			numeric[res] = true
			return true
		}
	case *ir.BinaryInst:
		switch i.Op() {
		case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod, ir.OpExp, ir.OpAnd, ir.OpOr, ir.OpXor, ir.OpShl, ir.OpShr, ir.OpAShr:
			if numeric[i.Left.Value()] && numeric[i.Right.Value()] {
				numeric[res] = true
				return true
			}
		}
	}
	return false
}
