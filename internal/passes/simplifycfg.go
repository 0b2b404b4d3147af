package passes

import (
	"abcdec/internal/ir"
	"abcdec/internal/passmgr"
)

// SimplifyCFG iterates three rewrites to a fixed point: folding a
// constant-conditioned br-cond into an unconditional br, merging a
// block into its sole successor when that successor has exactly one
// predecessor, and bypassing an "empty trampoline" block (a single
// unconditional br) by retargeting its one predecessor directly at its
// target. Every rewrite re-parents any phi incoming pair that named a
// removed edge, so sealed blocks never carry a stale predecessor.
type SimplifyCFG struct{}

func (SimplifyCFG) Name() string        { return "SimplifyCFG" }
func (SimplifyCFG) Description() string { return "folds constant branches and collapses trivial control flow" }

func (p SimplifyCFG) RunOnFunction(fn *ir.Function, cache *passmgr.AnalysisCache) passmgr.Result {
	modified := false
	for {
		changed := false
		for _, b := range fn.Blocks() {
			if foldConstantBranch(b) {
				changed = true
			}
		}
		if changed {
			modified = true
			continue
		}
		for _, b := range fn.Blocks() {
			if mergeWithSoleSuccessor(fn, b) {
				changed = true
				break
			}
		}
		if changed {
			modified = true
			continue
		}
		for _, b := range fn.Blocks() {
			if bypassTrampoline(fn, b) {
				changed = true
				break
			}
		}
		if !changed {
			break
		}
		modified = true
	}
	return passmgr.Success(modified)
}

func foldConstantBranch(b *ir.BasicBlock) bool {
	bc, ok := b.Terminator().(*ir.BrCondInst)
	if !ok {
		return false
	}
	c, isConst := constInt(bc.Cond.Value())
	if !isConst {
		return false
	}
	chosen, dropped := bc.True, bc.False
	if c == 0 {
		chosen, dropped = bc.False, bc.True
	}
	if chosen != dropped {
		// True and False name distinct blocks: both are already
		// separate entries in b's successor/predecessor/phi-incoming
		// bookkeeping (AddSuccessor/AddPredecessor dedupe by identity,
		// not by edge), so only the dropped one needs removing.
		dropped.RemovePredecessor(b)
		removePhiIncoming(dropped, b)
		b.RemoveSuccessor(dropped)
	}
	// When True == False there is exactly one shared edge backing both
	// arms (the same dedupe), so folding to an unconditional br keeps
	// it untouched: nothing to add or remove.
	ir.EraseFromParent(bc)
	b.Append(ir.NewBr(chosen))
	return true
}

// mergeWithSoleSuccessor implements rule (a): B with an unconditional
// br terminator whose target S has exactly one predecessor (B) and is
// not the entry block is absorbed into B.
func mergeWithSoleSuccessor(fn *ir.Function, b *ir.BasicBlock) bool {
	br, ok := b.Terminator().(*ir.BrInst)
	if !ok {
		return false
	}
	s := br.Target
	if s == fn.Entry() || len(s.Predecessors()) != 1 {
		return false
	}

	ir.EraseFromParent(br)

	for _, inst := range s.Instructions() {
		if phi, ok := inst.(*ir.PhiInst); ok {
			val := phi.IncomingValue(0)
			phi.Result().ReplaceAllUsesWith(val)
			ir.EraseFromParent(phi)
			continue
		}
		s.Remove(inst)
		b.Append(inst)
	}

	for _, succ := range s.Successors() {
		succ.RemovePredecessor(s)
		succ.AddPredecessor(b)
		reparentPhiBlock(succ, s, b)
		b.AddSuccessor(succ)
	}
	b.RemoveSuccessor(s)
	fn.RemoveBlock(s)
	return true
}

// bypassTrampoline implements rule (c): a block whose only instruction
// is an unconditional br and that has exactly one predecessor is
// removed by retargeting that predecessor's edge at the trampoline's
// target directly.
func bypassTrampoline(fn *ir.Function, t *ir.BasicBlock) bool {
	if t == fn.Entry() || t.Len() != 1 {
		return false
	}
	br, ok := t.Terminator().(*ir.BrInst)
	if !ok {
		return false
	}
	preds := t.Predecessors()
	if len(preds) != 1 {
		return false
	}
	p := preds[0]
	target := br.Target

	retargetTerminator(p, t, target)
	target.RemovePredecessor(t)
	target.AddPredecessor(p)
	reparentPhiBlock(target, t, p)
	p.RemoveSuccessor(t)
	p.AddSuccessor(target)
	fn.RemoveBlock(t)
	return true
}

func retargetTerminator(b *ir.BasicBlock, from, to *ir.BasicBlock) {
	switch term := b.Terminator().(type) {
	case *ir.BrInst:
		if term.Target == from {
			term.Target = to
		}
	case *ir.BrCondInst:
		if term.True == from {
			term.True = to
		}
		if term.False == from {
			term.False = to
		}
	}
}

// reparentPhiBlock rewrites every phi in b whose incoming block is
// "from" to instead name "to", preserving the incoming value.
func reparentPhiBlock(b *ir.BasicBlock, from, to *ir.BasicBlock) {
	for _, inst := range b.Instructions() {
		phi, ok := inst.(*ir.PhiInst)
		if !ok {
			continue
		}
		val, has := phi.ValueForBlock(from)
		if !has {
			continue
		}
		phi.RemoveIncoming(from)
		phi.AddIncoming(val, to)
	}
}
