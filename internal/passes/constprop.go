package passes

import (
	"abcdec/internal/ir"
	"abcdec/internal/passmgr"
)

// ConstantPropagation tracks values known-constant through chains of
// copy, rewrites every non-terminator, non-copy instruction's operands
// to reference the constant directly, then iteratively collapses phis
// whose incoming values all resolve to the same constant.
type ConstantPropagation struct{}

func (ConstantPropagation) Name() string { return "ConstantPropagation" }
func (ConstantPropagation) Description() string {
	return "propagates constants through copy chains into operand lists"
}

func (p ConstantPropagation) RunOnFunction(fn *ir.Function, cache *passmgr.AnalysisCache) passmgr.Result {
	modified := false
	for {
		changed := false
		consts := resolveConstants(fn)

		for _, inst := range allInstructions(fn) {
			if inst.IsTerminator() {
				continue
			}
			if _, ok := inst.(*ir.CopyInst); ok {
				continue
			}
			for _, u := range inst.Operands() {
				if c, ok := consts[u.Value()]; ok && c != u.Value() {
					u.Set(c)
					changed = true
				}
			}
		}

		for _, inst := range allInstructions(fn) {
			if phi, ok := inst.(*ir.PhiInst); ok {
				if foldPhi(phi) {
					changed = true
				}
			}
		}

		if !changed {
			break
		}
		modified = true
	}
	return passmgr.Success(modified)
}

// resolveConstants maps every copy-instruction result to the constant
// at the end of its copy chain, if any.
func resolveConstants(fn *ir.Function) map[*ir.Value]*ir.Value {
	out := make(map[*ir.Value]*ir.Value)
	for _, inst := range allInstructions(fn) {
		cp, ok := inst.(*ir.CopyInst)
		if !ok {
			continue
		}
		src := cp.Src.Value()
		for src != nil {
			if src.IsConstant() {
				out[cp.Result()] = src
				break
			}
			producer, ok := src.Inst.(*ir.CopyInst)
			if !ok {
				break
			}
			src = producer.Src.Value()
		}
	}
	return out
}
