package passes

import (
	"abcdec/internal/ir"
	"abcdec/internal/passmgr"
)

// BranchFolding fuses the `cmp = icmp OP a b; wrap = icmp-eq cmp 0;
// br-cond wrap T F` pattern the SSA constructor's jeqz/jnez lowering
// produces into a direct branch on cmp, inverting the branch's target
// order when the wrapper tested for equality with zero (zero means the
// original comparison was false) and leaving it unchanged when the
// wrapper tested for inequality with zero.
type BranchFolding struct{}

func (BranchFolding) Name() string        { return "BranchFolding" }
func (BranchFolding) Description() string { return "fuses a zero-comparison wrapper into its branch" }

func (p BranchFolding) RunOnFunction(fn *ir.Function, cache *passmgr.AnalysisCache) passmgr.Result {
	modified := false
	for _, b := range fn.Blocks() {
		bc, ok := b.Terminator().(*ir.BrCondInst)
		if !ok {
			continue
		}
		wrap, ok := bc.Cond.Value().Inst.(*ir.BinaryInst)
		if !ok || (wrap.Op() != ir.OpEq && wrap.Op() != ir.OpNe) {
			continue
		}
		cmp, invert, ok := zeroComparisonOperand(wrap)
		if !ok {
			continue
		}

		trueB, falseB := bc.True, bc.False
		if invert {
			trueB, falseB = falseB, trueB
		}
		bc.Cond.Set(cmp)
		bc.True, bc.False = trueB, falseB
		modified = true
	}
	return passmgr.Success(modified)
}

// zeroComparisonOperand recognizes `wrap = eq(cmp, 0)` or
// `wrap = ne(cmp, 0)` where cmp is itself a comparison, returning cmp
// and whether the branch's target order must invert (true for eq).
func zeroComparisonOperand(wrap *ir.BinaryInst) (*ir.Value, bool, bool) {
	left, right := wrap.Left.Value(), wrap.Right.Value()
	var other *ir.Value
	switch {
	case isZero(right):
		other = left
	case isZero(left):
		other = right
	default:
		return nil, false, false
	}
	if other == nil || other.Inst == nil {
		return nil, false, false
	}
	bin, ok := other.Inst.(*ir.BinaryInst)
	if !ok || !isComparison(bin.Op()) {
		return nil, false, false
	}
	return other, wrap.Op() == ir.OpEq, true
}

func isZero(v *ir.Value) bool {
	c, ok := constInt(v)
	return ok && c == 0
}

func isComparison(op ir.Op) bool {
	switch op {
	case ir.OpEq, ir.OpNe, ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe, ir.OpStrictEq, ir.OpStrictNe:
		return true
	default:
		return false
	}
}
