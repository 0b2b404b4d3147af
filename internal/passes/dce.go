package passes

import (
	"abcdec/internal/ir"
	"abcdec/internal/passmgr"
)

// DeadCodeElimination computes live instructions as the transitive
// closure over operand-producer edges starting from {terminators,
// side-effecting instructions}, then removes everything else.
type DeadCodeElimination struct{}

func (DeadCodeElimination) Name() string { return "DeadCodeElimination" }
func (DeadCodeElimination) Description() string {
	return "removes pure instructions unreachable from terminators or side effects"
}

func (p DeadCodeElimination) RunOnFunction(fn *ir.Function, cache *passmgr.AnalysisCache) passmgr.Result {
	modified := false
	for {
		if !runDCEOnce(fn) {
			break
		}
		modified = true
	}
	return passmgr.Success(modified)
}

func runDCEOnce(fn *ir.Function) bool {
	live := make(map[ir.Instruction]bool)
	var queue []ir.Instruction

	mark := func(inst ir.Instruction) {
		if !live[inst] {
			live[inst] = true
			queue = append(queue, inst)
		}
	}

	for _, inst := range allInstructions(fn) {
		if inst.IsTerminator() || !isPure(inst) {
			mark(inst)
		}
	}

	for len(queue) > 0 {
		inst := queue[0]
		queue = queue[1:]
		for _, u := range inst.Operands() {
			v := u.Value()
			if v != nil && v.Inst != nil && !live[v.Inst] {
				mark(v.Inst)
			}
		}
	}

	removed := false
	for _, b := range fn.Blocks() {
		for _, inst := range b.Instructions() {
			if !live[inst] {
				ir.EraseFromParent(inst)
				removed = true
			}
		}
	}
	return removed
}

// AggressiveDCE first drops every block unreachable from the entry
// block (DFS over successors), rewiring the surviving blocks' edge
// lists and any phi incoming pairs that named a removed block, then
// runs DeadCodeElimination.
type AggressiveDCE struct{}

func (AggressiveDCE) Name() string { return "AggressiveDCE" }
func (AggressiveDCE) Description() string {
	return "removes unreachable blocks, then runs dead code elimination"
}

func (p AggressiveDCE) RunOnFunction(fn *ir.Function, cache *passmgr.AnalysisCache) passmgr.Result {
	removedBlocks := removeUnreachableBlocks(fn)
	dceResult := (DeadCodeElimination{}).RunOnFunction(fn, cache)
	return passmgr.Success(removedBlocks || dceResult.Modified)
}

func removeUnreachableBlocks(fn *ir.Function) bool {
	entry := fn.Entry()
	if entry == nil {
		return false
	}
	reachable := map[*ir.BasicBlock]bool{entry: true}
	stack := []*ir.BasicBlock{entry}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range b.Successors() {
			if !reachable[s] {
				reachable[s] = true
				stack = append(stack, s)
			}
		}
	}

	removed := false
	for _, b := range fn.Blocks() {
		if reachable[b] {
			continue
		}
		for _, s := range b.Successors() {
			s.RemovePredecessor(b)
			removePhiIncoming(s, b)
		}
		for _, inst := range b.Instructions() {
			ir.EraseFromParent(inst)
		}
		fn.RemoveBlock(b)
		removed = true
	}
	return removed
}

func removePhiIncoming(b *ir.BasicBlock, pred *ir.BasicBlock) {
	for _, inst := range b.Instructions() {
		if phi, ok := inst.(*ir.PhiInst); ok {
			phi.RemoveIncoming(pred)
		}
	}
}
