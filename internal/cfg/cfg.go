// Package cfg partitions a decoded instruction stream into basic-block
// boundaries and computes their successor edges, per the jump-target
// arithmetic pinned in the instruction stream's offset space (never the
// post-operand position).
package cfg

import (
	"sort"

	"abcdec/internal/decode"
)

// EdgeKind classifies how a block's last instruction flows to its
// successors.
type EdgeKind int

const (
	EdgeNone EdgeKind = iota
	EdgeFallthrough
	EdgeConditional
	EdgeUnconditional
)

// Block is one basic block's boundary in the instruction stream: the
// half-open byte range [Start, End) and the indices into the decoded
// instruction slice it owns.
type Block struct {
	Start, End   int
	FirstInst    int
	LastInst     int
	Kind         EdgeKind
	Target       int // branch-target offset, valid for Conditional/Unconditional
	Fallthrough  int // fall-through offset, valid for Conditional
	HasFallthrough bool
}

// Graph is the full set of block boundaries plus the owning-block index
// for each decoded instruction.
type Graph struct {
	Blocks   []Block
	instBlock []int // instruction index -> block index
}

// boundaryTarget computes target = inst.offset + signed_displacement,
// the arithmetic the spec pins exactly (not offset + instruction
// length).
func boundaryTarget(inst decode.Record) (int, bool) {
	if len(inst.Operands) == 0 {
		return 0, false
	}
	last := inst.Operands[len(inst.Operands)-1]
	if last.Kind != decode.KindJumpOffset {
		return 0, false
	}
	return inst.Offset + int(last.Signed), true
}

// Build computes block boundaries and edges over a decoded instruction
// list, per component C3.
func Build(insts []decode.Record) *Graph {
	if len(insts) == 0 {
		return &Graph{}
	}

	boundarySet := map[int]bool{insts[0].Offset: true}

	for _, inst := range insts {
		isTerm := inst.Entry.Flags.IsTerminator
		isCond := inst.Entry.Flags.IsConditionalBranch
		isUncond := inst.Entry.Flags.IsUnconditionalBranch

		if isTerm || isCond {
			boundarySet[inst.End()] = true
		}

		if isCond || isUncond {
			if target, ok := boundaryTarget(inst); ok {
				boundarySet[target] = true
			}
		}
	}

	streamEnd := insts[len(insts)-1].End()
	boundaries := make([]int, 0, len(boundarySet))
	for b := range boundarySet {
		// The end offset of the last instruction starts no block: no
		// instruction lives there.
		if b == streamEnd {
			continue
		}
		boundaries = append(boundaries, b)
	}
	sort.Ints(boundaries)

	g := &Graph{instBlock: make([]int, len(insts))}

	for bi, start := range boundaries {
		end := streamEnd
		if bi+1 < len(boundaries) {
			end = boundaries[bi+1]
		}
		g.Blocks = append(g.Blocks, Block{Start: start, End: end, FirstInst: -1, LastInst: -1})
	}

	for idx, inst := range insts {
		bi := blockIndexForOffset(boundaries, inst.Offset)
		g.instBlock[idx] = bi
		if g.Blocks[bi].FirstInst == -1 {
			g.Blocks[bi].FirstInst = idx
		}
		g.Blocks[bi].LastInst = idx
	}

	for bi := range g.Blocks {
		b := &g.Blocks[bi]
		if b.LastInst < 0 {
			b.Kind = EdgeNone
			continue
		}
		last := insts[b.LastInst]
		switch {
		case last.Entry.Flags.IsConditionalBranch:
			b.Kind = EdgeConditional
			if target, ok := boundaryTarget(last); ok {
				b.Target = target
			}
			b.Fallthrough = last.End()
			b.HasFallthrough = true
		case last.Entry.Flags.IsUnconditionalBranch:
			b.Kind = EdgeUnconditional
			if target, ok := boundaryTarget(last); ok {
				b.Target = target
			}
		case last.Entry.Flags.IsTerminator:
			b.Kind = EdgeNone
		default:
			b.Kind = EdgeFallthrough
			b.Fallthrough = last.End()
			b.HasFallthrough = true
		}
	}

	return g
}

func blockIndexForOffset(boundaries []int, offset int) int {
	i := sort.Search(len(boundaries), func(i int) bool { return boundaries[i] > offset })
	return i - 1
}

// BlockForOffset returns the index of the block containing the given
// byte offset, or -1 if none does. Blocks are built in ascending Start
// order, so the same binary search blockIndexForOffset uses during
// construction applies here instead of a linear scan.
func (g *Graph) BlockForOffset(offset int) int {
	if len(g.Blocks) == 0 {
		return -1
	}
	i := sort.Search(len(g.Blocks), func(i int) bool { return g.Blocks[i].Start > offset }) - 1
	if i < 0 {
		return -1
	}
	b := g.Blocks[i]
	if offset >= b.Start && offset < b.End {
		return i
	}
	return -1
}

// BlockForInst returns the index of the block that owns decoded
// instruction index idx.
func (g *Graph) BlockForInst(idx int) int { return g.instBlock[idx] }

// Successors returns the block indices that block bi's terminator flows
// to, in the fixed order {target, fallthrough} for conditional edges,
// per C3's successor-list contract.
func (g *Graph) Successors(bi int) []int {
	b := g.Blocks[bi]
	switch b.Kind {
	case EdgeConditional:
		out := []int{}
		if t := g.BlockForOffset(b.Target); t >= 0 {
			out = append(out, t)
		}
		if b.HasFallthrough {
			if f := g.BlockForOffset(b.Fallthrough); f >= 0 {
				out = append(out, f)
			}
		}
		return out
	case EdgeUnconditional:
		if t := g.BlockForOffset(b.Target); t >= 0 {
			return []int{t}
		}
		return nil
	case EdgeFallthrough:
		if f := g.BlockForOffset(b.Fallthrough); f >= 0 {
			return []int{f}
		}
		return nil
	default:
		return nil
	}
}
