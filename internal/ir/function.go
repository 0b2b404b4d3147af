package ir

import "fmt"

// Function is a single decompiled method: its parameters (as argument
// Values) and its basic blocks in layout order.
type Function struct {
	Name       string
	NumArgs    int
	Arguments  []*Value
	ParamCount int

	blocks    []*BasicBlock
	entry     *BasicBlock
	nextInstID int
	module    *Module
}

// NewFunction creates an empty function with the given argument types.
// Arguments are materialized immediately since they are Values that
// exist for the whole function lifetime.
func NewFunction(name string, argTypes []Type) *Function {
	f := &Function{Name: name, NumArgs: len(argTypes)}
	for i, t := range argTypes {
		f.Arguments = append(f.Arguments, NewArgument(i, t))
	}
	return f
}

func (f *Function) Module() *Module { return f.module }

// AddBlock appends a new block to the function's layout order. The
// first block added becomes the entry block.
func (f *Function) AddBlock(b *BasicBlock) {
	b.fn = f
	f.blocks = append(f.blocks, b)
	if f.entry == nil {
		f.entry = b
	}
}

// Blocks returns the function's blocks in layout order. Callers may
// retain the slice; AddBlock/RemoveBlock return a fresh one.
func (f *Function) Blocks() []*BasicBlock { return f.blocks }

func (f *Function) Entry() *BasicBlock { return f.entry }

// SetEntry overrides the entry block, used when SimplifyCFG removes the
// original entry.
func (f *Function) SetEntry(b *BasicBlock) { f.entry = b }

// RemoveBlock deletes b from the function's layout order. It does not
// touch b's predecessor/successor edges; callers must have already
// unlinked those via BasicBlock.RemoveSuccessor/RemovePredecessor.
func (f *Function) RemoveBlock(b *BasicBlock) {
	out := make([]*BasicBlock, 0, len(f.blocks))
	for _, e := range f.blocks {
		if e != b {
			out = append(out, e)
		}
	}
	f.blocks = out
	if f.entry == b {
		if len(f.blocks) > 0 {
			f.entry = f.blocks[0]
		} else {
			f.entry = nil
		}
	}
}

// NextInstID allocates a fresh, function-scoped instruction id, used by
// the SSA builder and every pass that needs a display id.
func (f *Function) NextInstID() int {
	id := f.nextInstID
	f.nextInstID++
	return id
}

// NewBlock is a convenience that creates, labels, registers and returns
// a block attached to f in one call.
func (f *Function) NewBlock(label string) *BasicBlock {
	b := NewBasicBlock(label)
	f.AddBlock(b)
	return b
}

// ReversePostorder returns the function's blocks in RPO starting from
// the entry block, the iteration order LICM relies on for determinism.
func (f *Function) ReversePostorder() []*BasicBlock {
	if f.entry == nil {
		return nil
	}
	visited := make(map[*BasicBlock]bool, len(f.blocks))
	var post []*BasicBlock
	var visit func(*BasicBlock)
	visit = func(b *BasicBlock) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range b.succs {
			visit(s)
		}
		post = append(post, b)
	}
	visit(f.entry)
	rpo := make([]*BasicBlock, len(post))
	for i, b := range post {
		rpo[len(post)-1-i] = b
	}
	return rpo
}

// VerifyWarning is one violated invariant found by Verify.
type VerifyWarning struct {
	Block   *BasicBlock
	Message string
}

func (w VerifyWarning) String() string {
	if w.Block != nil {
		return fmt.Sprintf("%s: %s", w.Block.Label, w.Message)
	}
	return w.Message
}

// Verify checks the function's structural invariants: each
// block has exactly one terminator as its last instruction, φ-nodes
// appear only as a contiguous prefix, every φ's incoming blocks match
// the block's actual predecessors exactly, and predecessor/successor
// edges are mutually consistent. It never panics; violations are
// returned as warnings for the caller to act on.
func (f *Function) Verify() []VerifyWarning {
	var warns []VerifyWarning
	if f.entry == nil && len(f.blocks) > 0 {
		warns = append(warns, VerifyWarning{Message: "function has blocks but no entry block"})
	}
	for _, b := range f.blocks {
		if b.count == 0 {
			warns = append(warns, VerifyWarning{Block: b, Message: "block is empty"})
			continue
		}
		if !b.last.IsTerminator() {
			warns = append(warns, VerifyWarning{Block: b, Message: "last instruction is not a terminator"})
		}
		seenNonPhi := false
		for _, inst := range b.Instructions() {
			if inst.IsPhi() {
				if seenNonPhi {
					warns = append(warns, VerifyWarning{Block: b, Message: "phi after non-phi instruction"})
				}
			} else {
				seenNonPhi = true
			}
			if inst != b.last && inst.IsTerminator() {
				warns = append(warns, VerifyWarning{Block: b, Message: "terminator before end of block"})
			}
		}
		if term, ok := b.last.(Terminator); ok {
			want := map[*BasicBlock]bool{}
			for _, s := range term.Successors() {
				if s != nil {
					want[s] = true
				}
			}
			have := map[*BasicBlock]bool{}
			for _, s := range b.succs {
				have[s] = true
			}
			if len(want) != len(have) {
				warns = append(warns, VerifyWarning{Block: b, Message: "successor edges inconsistent with terminator"})
			}
			for _, inst := range b.Instructions() {
				phi, ok := inst.(*PhiInst)
				if !ok {
					break
				}
				if phi.NumIncoming() != len(b.preds) {
					warns = append(warns, VerifyWarning{Block: b, Message: fmt.Sprintf("phi %s incoming count (%d) does not match predecessor count (%d)", displayName(phi), phi.NumIncoming(), len(b.preds))})
					continue
				}
				predSet := map[*BasicBlock]bool{}
				for _, p := range b.preds {
					predSet[p] = true
				}
				for i := 0; i < phi.NumIncoming(); i++ {
					if !predSet[phi.IncomingBlock(i)] {
						warns = append(warns, VerifyWarning{Block: b, Message: fmt.Sprintf("phi %s has incoming edge from non-predecessor %s", displayName(phi), phi.IncomingBlock(i).Label)})
					}
				}
			}
		}
		for _, s := range b.succs {
			found := false
			for _, p := range s.preds {
				if p == b {
					found = true
					break
				}
			}
			if !found {
				warns = append(warns, VerifyWarning{Block: b, Message: fmt.Sprintf("successor %s does not list this block as a predecessor", s.Label)})
			}
		}
	}
	return warns
}

func (f *Function) String() string {
	return fmt.Sprintf("function %s(%d args, %d blocks)", f.Name, f.NumArgs, len(f.blocks))
}
