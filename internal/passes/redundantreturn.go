package passes

import (
	"abcdec/internal/ir"
	"abcdec/internal/passmgr"
)

// RedundantReturnElimination collapses multiple ret-void exit blocks
// into one: the block with the most predecessors is kept as the sole
// exit, every other ret-void block is rewritten to branch to it.
type RedundantReturnElimination struct{}

func (RedundantReturnElimination) Name() string { return "RedundantReturnElimination" }
func (RedundantReturnElimination) Description() string {
	return "merges multiple ret-void exits into a single exit block"
}

func (p RedundantReturnElimination) RunOnFunction(fn *ir.Function, cache *passmgr.AnalysisCache) passmgr.Result {
	var exits []*ir.BasicBlock
	for _, b := range fn.Blocks() {
		if _, ok := b.Terminator().(*ir.RetVoidInst); ok {
			exits = append(exits, b)
		}
	}
	if len(exits) < 2 {
		return passmgr.Success(false)
	}

	kept := exits[0]
	for _, b := range exits[1:] {
		if len(b.Predecessors()) > len(kept.Predecessors()) {
			kept = b
		}
	}

	modified := false
	for _, b := range exits {
		if b == kept {
			continue
		}
		ir.EraseFromParent(b.Terminator())
		b.Append(ir.NewBr(kept))
		b.AddSuccessor(kept)
		kept.AddPredecessor(b)
		modified = true
	}
	return passmgr.Success(modified)
}
