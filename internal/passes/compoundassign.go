package passes

import (
	"abcdec/internal/ir"
	"abcdec/internal/passmgr"
)

// CompoundAssignment marks, rather than rewrites, self-update
// instructions reaching a loop phi through its back edge — v = add(v,
// const) or v = inc(v)/dec(v) — by setting the display-only
// CompoundAssign flag InstBase already carries, so later printing can
// render `v += const` / `v++` instead of the fully expanded SSA form.
type CompoundAssignment struct{}

func (CompoundAssignment) Name() string        { return "CompoundAssignment" }
func (CompoundAssignment) Description() string { return "flags self-update phi back-edges for compact display" }

func (p CompoundAssignment) RunOnFunction(fn *ir.Function, cache *passmgr.AnalysisCache) passmgr.Result {
	modified := false
	for _, b := range fn.Blocks() {
		for _, inst := range b.Instructions() {
			phi, ok := inst.(*ir.PhiInst)
			if !ok {
				continue
			}
			for idx := 0; idx < phi.NumIncoming(); idx++ {
				if markSelfUpdate(phi.IncomingValue(idx), phi.Result()) {
					modified = true
				}
			}
		}
	}
	return passmgr.Success(modified)
}

// markSelfUpdate walks the copy/inc/dec/to-numeric/add-const chain
// starting at v, setting CompoundAssign on every instruction visited if
// the chain's root operand is target (the phi it feeds back into).
// Returns true only if it actually flipped a flag that was not already
// set, so repeated runs over an already-marked chain report unmodified.
func markSelfUpdate(v, target *ir.Value) bool {
	var chain []ir.Instruction
	cur := v
	for steps := 0; steps < 32; steps++ {
		if cur == target {
			flipped := false
			for _, inst := range chain {
				if !inst.CompoundAssign() {
					inst.SetCompoundAssign(true)
					flipped = true
				}
			}
			return flipped
		}
		if cur == nil || cur.Inst == nil {
			return false
		}
		switch inst := cur.Inst.(type) {
		case *ir.CopyInst:
			chain = append(chain, inst)
			cur = inst.Src.Value()
		case *ir.UnaryInst:
			if inst.Op() != ir.OpInc && inst.Op() != ir.OpDec && inst.Op() != ir.OpToNumeric {
				return false
			}
			chain = append(chain, inst)
			cur = inst.X.Value()
		case *ir.BinaryInst:
			if inst.Op() != ir.OpAdd && inst.Op() != ir.OpSub {
				return false
			}
			left, right := inst.Left.Value(), inst.Right.Value()
			chain = append(chain, inst)
			switch {
			case left == target:
				cur = left
			case right == target:
				cur = right
			case isConstValue(right):
				cur = left
			case isConstValue(left):
				cur = right
			default:
				return false
			}
		default:
			return false
		}
	}
	return false
}

func isConstValue(v *ir.Value) bool { return v != nil && v.IsConstant() }
