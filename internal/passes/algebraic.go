package passes

import (
	"abcdec/internal/ir"
	"abcdec/internal/passmgr"
)

// AlgebraicSimplification applies closed-form identities that need at
// most one constant operand (x+0=x, x*1=x, x-x=0, etc.), independent of
// full constant folding.
type AlgebraicSimplification struct{}

func (AlgebraicSimplification) Name() string { return "AlgebraicSimplification" }
func (AlgebraicSimplification) Description() string {
	return "rewrites binary instructions matching closed-form identities"
}

func (p AlgebraicSimplification) RunOnFunction(fn *ir.Function, cache *passmgr.AnalysisCache) passmgr.Result {
	modified := false
	for {
		changed := false
		for _, inst := range allInstructions(fn) {
			bin, ok := inst.(*ir.BinaryInst)
			if !ok {
				continue
			}
			if simplifyBinary(fn, bin) {
				changed = true
			}
		}
		if !changed {
			break
		}
		modified = true
	}
	return passmgr.Success(modified)
}

func simplifyBinary(fn *ir.Function, i *ir.BinaryInst) bool {
	left := i.Left.Value()
	right := i.Right.Value()
	rc, rok := constInt(right)
	lc, lok := constInt(left)
	sameValue := left == right

	switch i.Op() {
	case ir.OpAdd:
		if rok && rc == 0 {
			return replaceWith(i, left)
		}
		if lok && lc == 0 {
			return replaceWith(i, right)
		}
	case ir.OpSub:
		if rok && rc == 0 {
			return replaceWith(i, left)
		}
		if sameValue {
			return replaceWith(i, fn.Module().ConstInt(0, 32))
		}
	case ir.OpMul:
		if rok && rc == 1 {
			return replaceWith(i, left)
		}
		if lok && lc == 1 {
			return replaceWith(i, right)
		}
		if (rok && rc == 0) || (lok && lc == 0) {
			return replaceWith(i, fn.Module().ConstInt(0, 32))
		}
	case ir.OpDiv:
		if rok && rc == 1 {
			return replaceWith(i, left)
		}
	case ir.OpAnd:
		if (rok && rc == 0) || (lok && lc == 0) {
			return replaceWith(i, fn.Module().ConstInt(0, 32))
		}
	case ir.OpOr:
		if rok && rc == 0 {
			return replaceWith(i, left)
		}
		if lok && lc == 0 {
			return replaceWith(i, right)
		}
		if rok && rc == -1 {
			return replaceWith(i, fn.Module().ConstInt(-1, 32))
		}
	case ir.OpEq, ir.OpStrictEq:
		if sameValue {
			return replaceWith(i, fn.Module().ConstInt(1, 1))
		}
	case ir.OpNe, ir.OpStrictNe:
		if sameValue {
			return replaceWith(i, fn.Module().ConstInt(0, 1))
		}
	case ir.OpLt, ir.OpGt:
		if sameValue {
			return replaceWith(i, fn.Module().ConstInt(0, 1))
		}
	case ir.OpLe, ir.OpGe:
		if sameValue {
			return replaceWith(i, fn.Module().ConstInt(1, 1))
		}
	}
	return false
}

func replaceWith(inst ir.Instruction, v *ir.Value) bool {
	inst.Result().ReplaceAllUsesWith(v)
	ir.EraseFromParent(inst)
	return true
}
