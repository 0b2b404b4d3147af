package ir

import "fmt"

// BasicBlock is a maximal straight-line instruction sequence ending in
// exactly one terminator. Instructions are kept as an intrusive
// doubly-linked list (Instruction.Prev/Next) so InsertBefore/Remove are
// O(1), with a slice-backed stable iteration view built on demand by
// Instructions().
type BasicBlock struct {
	Label string
	fn    *Function

	first, last Instruction
	count       int

	preds []*BasicBlock
	succs []*BasicBlock

	sealed bool

	// incompletePhis holds phis created for a register read before this
	// block was sealed; the SSA builder resolves them once all
	// predecessors are known. Keyed by virtual register number.
	incompletePhis map[int]*PhiInst
}

// NewBasicBlock creates an unattached, unsealed block.
func NewBasicBlock(label string) *BasicBlock {
	return &BasicBlock{Label: label, incompletePhis: make(map[int]*PhiInst)}
}

func (b *BasicBlock) Function() *Function { return b.fn }

// Instructions returns the block's instructions in program order. The
// returned slice is freshly built and safe to mutate/retain.
func (b *BasicBlock) Instructions() []Instruction {
	out := make([]Instruction, 0, b.count)
	for i := b.first; i != nil; i = i.Next() {
		out = append(out, i)
	}
	return out
}

func (b *BasicBlock) Len() int { return b.count }

func (b *BasicBlock) First() Instruction { return b.first }
func (b *BasicBlock) Last() Instruction  { return b.last }

// Terminator returns the block's terminator instruction, or nil if the
// block is malformed (caught by Verify).
func (b *BasicBlock) Terminator() Instruction {
	if b.last != nil && b.last.IsTerminator() {
		return b.last
	}
	return nil
}

func (b *BasicBlock) assignID(inst Instruction) {
	if b.fn != nil && inst.ID() == 0 {
		inst.setID(b.fn.NextInstID())
	}
}

// Append adds inst to the end of the block's instruction list.
func (b *BasicBlock) Append(inst Instruction) {
	b.assignID(inst)
	inst.setBlock(b)
	inst.setPrev(b.last)
	inst.setNext(nil)
	if b.last != nil {
		b.last.setNext(inst)
	} else {
		b.first = inst
	}
	b.last = inst
	b.count++
}

// Prepend adds inst to the front of the block's instruction list (after
// any existing φ-nodes would be the caller's responsibility via
// InsertAfterPhis; Prepend is a raw primitive).
func (b *BasicBlock) Prepend(inst Instruction) {
	b.assignID(inst)
	inst.setBlock(b)
	inst.setNext(b.first)
	inst.setPrev(nil)
	if b.first != nil {
		b.first.setPrev(inst)
	} else {
		b.last = inst
	}
	b.first = inst
	b.count++
}

// InsertBefore splices inst immediately before mark, which must belong
// to this block.
func (b *BasicBlock) InsertBefore(inst, mark Instruction) {
	if mark == nil {
		b.Append(inst)
		return
	}
	prev := mark.Prev()
	b.assignID(inst)
	inst.setBlock(b)
	inst.setPrev(prev)
	inst.setNext(mark)
	if prev != nil {
		prev.setNext(inst)
	} else {
		b.first = inst
	}
	mark.setPrev(inst)
	b.count++
}

// InsertAfter splices inst immediately after mark, which must belong to
// this block.
func (b *BasicBlock) InsertAfter(inst, mark Instruction) {
	if mark == nil {
		b.Prepend(inst)
		return
	}
	next := mark.Next()
	b.assignID(inst)
	inst.setBlock(b)
	inst.setPrev(mark)
	inst.setNext(next)
	if next != nil {
		next.setPrev(inst)
	} else {
		b.last = inst
	}
	mark.setNext(inst)
	b.count++
}

// InsertAfterPhis inserts inst after the block's leading run of
// φ-instructions, preserving the invariant that every φ precedes
// every non-φ instruction in the block's own instruction list.
func (b *BasicBlock) InsertAfterPhis(inst Instruction) {
	mark := b.first
	for mark != nil && mark.IsPhi() {
		mark = mark.Next()
	}
	b.InsertBefore(inst, mark)
}

// Remove unlinks inst from the block's instruction list without
// clearing its operand Uses; callers that are deleting the instruction
// entirely should also clear its operands via EraseFromParent.
func (b *BasicBlock) Remove(inst Instruction) {
	prev, next := inst.Prev(), inst.Next()
	if prev != nil {
		prev.setNext(next)
	} else {
		b.first = next
	}
	if next != nil {
		next.setPrev(prev)
	} else {
		b.last = prev
	}
	inst.setPrev(nil)
	inst.setNext(nil)
	inst.setBlock(nil)
	b.count--
}

// EraseFromParent removes inst from its block and clears all of its
// operand Uses, dropping its entries from every operand's use-list.
func EraseFromParent(inst Instruction) {
	if blk := inst.Block(); blk != nil {
		blk.Remove(inst)
	}
	for _, u := range inst.Operands() {
		u.Set(nil)
	}
	if phi, ok := inst.(*PhiInst); ok {
		phi.preds = nil
		phi.vals = nil
	}
}

func (b *BasicBlock) Predecessors() []*BasicBlock { return b.preds }
func (b *BasicBlock) Successors() []*BasicBlock   { return b.succs }

// AddPredecessor/RemovePredecessor/AddSuccessor/RemoveSuccessor maintain
// the explicit edge lists the CFG analyzer and SimplifyCFG rely on;
// they are kept separate from the terminator's own Successors() because
// during construction a terminator may not exist yet.
func (b *BasicBlock) AddPredecessor(p *BasicBlock) {
	for _, e := range b.preds {
		if e == p {
			return
		}
	}
	b.preds = append(b.preds, p)
}

func (b *BasicBlock) RemovePredecessor(p *BasicBlock) {
	for i, e := range b.preds {
		if e == p {
			b.preds = append(b.preds[:i], b.preds[i+1:]...)
			return
		}
	}
}

func (b *BasicBlock) AddSuccessor(s *BasicBlock) {
	for _, e := range b.succs {
		if e == s {
			return
		}
	}
	b.succs = append(b.succs, s)
}

func (b *BasicBlock) RemoveSuccessor(s *BasicBlock) {
	for i, e := range b.succs {
		if e == s {
			b.succs = append(b.succs[:i], b.succs[i+1:]...)
			return
		}
	}
}

// Sealed reports whether every predecessor of this block is known,
// meaning incomplete φs can be finalized.
func (b *BasicBlock) Sealed() bool { return b.sealed }

func (b *BasicBlock) String() string {
	return fmt.Sprintf("block %s (%d preds, %d succs, %d insts)", b.Label, len(b.preds), len(b.succs), b.count)
}
