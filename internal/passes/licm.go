package passes

import (
	"abcdec/internal/ir"
	"abcdec/internal/passmgr"
)

// LoopInvariantCodeMotion finds natural loops via DFS back-edges over
// the function's reverse-postorder, then hoists pure instructions whose
// operands are all defined outside the loop body to the loop's
// preheader (the header's one predecessor outside the loop). An
// operand produced by an instruction still inside the loop body — in
// particular a loop-carried phi or anything derived from one — blocks
// hoisting, which is how the pass avoids moving past a loop-carried
// value without needing a separate phi-dependence check.
type LoopInvariantCodeMotion struct{}

func (LoopInvariantCodeMotion) Name() string { return "LoopInvariantCodeMotion" }
func (LoopInvariantCodeMotion) Description() string {
	return "hoists loop-invariant pure instructions to the loop preheader"
}

func (p LoopInvariantCodeMotion) RunOnFunction(fn *ir.Function, cache *passmgr.AnalysisCache) passmgr.Result {
	rpo := fn.ReversePostorder()
	index := make(map[*ir.BasicBlock]int, len(rpo))
	for i, b := range rpo {
		index[b] = i
	}

	modified := false
	for _, latch := range rpo {
		for _, header := range latch.Successors() {
			hi, hok := index[header]
			li, lok := index[latch]
			if !hok || !lok || li < hi {
				continue // not a back-edge
			}
			if hoistLoop(fn, header, latch, index) {
				modified = true
			}
		}
	}
	return passmgr.Success(modified)
}

func hoistLoop(fn *ir.Function, header, latch *ir.BasicBlock, index map[*ir.BasicBlock]int) bool {
	lo, hi := index[header], index[latch]
	body := make(map[*ir.BasicBlock]bool)
	for b, i := range index {
		if i >= lo && i <= hi && reachesWithin(header, b, index, lo, hi) {
			body[b] = true
		}
	}

	var preheader *ir.BasicBlock
	for _, pred := range header.Predecessors() {
		if body[pred] {
			continue
		}
		if preheader != nil {
			return false // more than one external predecessor: no single preheader
		}
		preheader = pred
	}
	if preheader == nil || preheader.Terminator() == nil {
		return false
	}

	modified := false
	for {
		changed := false
		for b := range body {
			for _, inst := range b.Instructions() {
				if inst.IsTerminator() || inst.IsPhi() || !isPure(inst) {
					continue
				}
				if isLoopInvariant(inst, body) {
					b.Remove(inst)
					preheader.InsertBefore(inst, preheader.Terminator())
					changed = true
				}
			}
		}
		if !changed {
			break
		}
		modified = true
	}
	return modified
}

func isLoopInvariant(inst ir.Instruction, body map[*ir.BasicBlock]bool) bool {
	for _, u := range inst.Operands() {
		v := u.Value()
		if v == nil || v.Inst == nil {
			continue // constant, argument, global, undef: always outside the loop
		}
		if blk := v.Inst.Block(); blk != nil && body[blk] {
			return false
		}
	}
	return true
}

// reachesWithin is a coarse reachability check restricted to the
// [lo, hi] reverse-postorder window, standing in for full dominance:
// true when b lies on some successor path from header within the
// window.
func reachesWithin(header, b *ir.BasicBlock, index map[*ir.BasicBlock]int, lo, hi int) bool {
	if header == b {
		return true
	}
	visited := map[*ir.BasicBlock]bool{header: true}
	stack := []*ir.BasicBlock{header}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range cur.Successors() {
			i, ok := index[s]
			if !ok || i < lo || i > hi || visited[s] {
				continue
			}
			if s == b {
				return true
			}
			visited[s] = true
			stack = append(stack, s)
		}
	}
	return false
}
