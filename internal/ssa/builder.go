// Package ssa drives the decoder and CFG analyzer over one method body
// and lowers its accumulator-plus-registers bytecode into explicit SSA
// values, using Braun & Buchwald's on-the-fly value-numbering algorithm
// for φ-node placement. Grounded on the single-pass bytecode-to-SSA
// lowering walk in wazero's SSA pass scaffolding
// (other_examples/..._wazevo-ssa-pass.go.go) and nooga/paserati's
// compiler walk (other_examples/..._pkg-compiler-compiler.go.go),
// generalized here to a register-to-SSA map with incomplete φs instead
// of a structured one-pass expression compiler.
package ssa

import (
	"fmt"

	"abcdec/internal/cfg"
	"abcdec/internal/decode"
	"abcdec/internal/ir"
	"abcdec/internal/isa"
)

// ConversionResult is the outcome of converting one method body, per
// the external-interface contract: warnings are non-fatal, errors are
// fatal to this method only.
type ConversionResult struct {
	Function *ir.Function
	Warnings []string
	Errors   []string
}

func (r *ConversionResult) IsSuccess() bool { return len(r.Errors) == 0 }

func (r *ConversionResult) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ConversionResult) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// StringPool resolves a bytecode string-id to its decoded text; nil
// entries mean the pool has no mapping for that id.
type StringPool interface {
	Lookup(id uint64) (string, bool)
}

// blockState is the per-basic-block bookkeeping Braun/Buchwald's
// algorithm needs: the local reg->Value map, whether the block is
// sealed, and the set of incomplete phis awaiting sealing.
type blockState struct {
	block     *ir.BasicBlock
	defs      map[int]*ir.Value
	sealed    bool
	incomplete map[int]*ir.PhiInst
	visiting  map[int]bool // re-entrancy guard for read()
}

func newBlockState(b *ir.BasicBlock) *blockState {
	return &blockState{
		block:      b,
		defs:       make(map[int]*ir.Value),
		incomplete: make(map[int]*ir.PhiInst),
		visiting:   make(map[int]bool),
	}
}

// defaultCatalog is the one opcode catalog instance the SSA
// constructor consults; it is pure lookup data, so one shared instance
// per process is correct and avoids rebuilding the five namespace
// tables per method.
var defaultCatalog = isa.New()

// Builder owns the per-function conversion state: the register-to-SSA
// map, the accumulator cell, and the block graph being constructed.
type Builder struct {
	module   *ir.Module
	fn       *ir.Function
	catalog  *isa.Catalog
	pool     StringPool
	result   *ConversionResult

	states   []*blockState
	byBlock  map[*ir.BasicBlock]*blockState
	cfgGraph *cfg.Graph
	irBlocks []*ir.BasicBlock

	firstArgReg int
	numVRegs    int
}

// Convert runs the full C5 pipeline for one method body: decode, CFG
// analysis, block pre-creation, argument-register registration, the
// instruction walk, and post-processing (unterminated-block closing,
// sealing in ascending id order).
func Convert(module *ir.Module, name string, bytes []byte, paramCount, numVRegs, numArgs int, pool StringPool) *ConversionResult {
	result := &ConversionResult{}

	argTypes := make([]ir.Type, numArgs)
	for i := range argTypes {
		argTypes[i] = ir.AnyType()
	}
	fn := ir.NewFunction(name, argTypes)
	module.AddFunction(fn)
	result.Function = fn

	if len(bytes) == 0 {
		entry := fn.NewBlock("entry")
		entry.Append(ir.NewRetVoid())
		return result
	}

	insts := decode.All(defaultCatalog, bytes)
	if len(insts) == 0 {
		result.errorf("decode produced no instructions for %q", name)
		entry := fn.NewBlock("entry")
		entry.Append(ir.NewRetVoid())
		return result
	}

	graph := cfg.Build(insts)
	if len(graph.Blocks) == 0 {
		result.errorf("cfg analysis produced no blocks for %q", name)
		entry := fn.NewBlock("entry")
		entry.Append(ir.NewRetVoid())
		return result
	}

	b := &Builder{
		module:   module,
		fn:       fn,
		catalog:  defaultCatalog,
		pool:     pool,
		result:   result,
		byBlock:  make(map[*ir.BasicBlock]*blockState),
		cfgGraph: graph,
	}

	b.precreateBlocks()
	b.wireEdges()
	b.registerArguments(paramCount, numVRegs, numArgs)
	b.walk(insts)
	b.closeUnterminatedBlocks()
	b.sealAll()

	for _, w := range fn.Verify() {
		result.warnf("verify: %s", w.String())
	}

	return result
}

func (b *Builder) precreateBlocks() {
	b.irBlocks = make([]*ir.BasicBlock, len(b.cfgGraph.Blocks))
	for i, blk := range b.cfgGraph.Blocks {
		label := fmt.Sprintf("bb%d_%d", i, blk.Start)
		irb := b.fn.NewBlock(label)
		b.irBlocks[i] = irb
		st := newBlockState(irb)
		b.states = append(b.states, st)
		b.byBlock[irb] = st
	}
}

func (b *Builder) wireEdges() {
	for i := range b.cfgGraph.Blocks {
		for _, s := range b.cfgGraph.Successors(i) {
			b.irBlocks[i].AddSuccessor(b.irBlocks[s])
			b.irBlocks[s].AddPredecessor(b.irBlocks[i])
		}
	}
}

// registerArguments computes the first real-parameter register and
// materializes each argument's initial definition in the entry block.
func (b *Builder) registerArguments(paramCount, numVRegs, numArgs int) {
	b.numVRegs = numVRegs
	first := numVRegs + numArgs - paramCount
	if numVRegs == 0 {
		first = 0
	}
	b.firstArgReg = first

	entryState := b.states[0]
	for i, arg := range b.fn.Arguments {
		entryState.defs[first+i] = arg
	}
}

// accRegister is a reserved register index no real vreg/arg slot ever
// occupies (all real indices are >= 0), letting the accumulator ride
// the same Braun/Buchwald defs/incomplete-phi machinery the register
// file uses instead of a block-local variable reset at every block
// entry. Reading and writing it through b.read/b.write threads a
// value loaded in one block and consumed after a fallthrough into
// another across the block boundary, inserting a phi wherever
// predecessors disagree, exactly as already happens for registers.
const accRegister = -1

// walk lowers the instruction stream in offset order, moving the
// builder's insertion point to each instruction's block as it goes.
func (b *Builder) walk(insts []decode.Record) {
	var curIdx = -1
	var cur *blockState

	enterBlock := func(idx int) {
		if idx == curIdx {
			return
		}
		curIdx = idx
		cur = b.states[idx]
	}

	for instIdx, inst := range insts {
		bi := b.cfgGraph.BlockForInst(instIdx)
		enterBlock(bi)
		acc := b.read(accRegister, cur)

		if inst.Entry.Flags.IsConditionalBranch || inst.Entry.Flags.IsUnconditionalBranch {
			b.lowerBranch(bi, cur, inst, acc)
			continue
		}

		newAcc, err := b.lowerInstruction(cur, inst, acc)
		if err != nil {
			b.result.errorf("offset %d: %s", inst.Offset, err.Error())
			continue
		}
		b.write(accRegister, cur, newAcc)
	}
}

// read implements Braun/Buchwald's on-the-fly SSA value-numbering
// lookup for register reg as observed at block st, including the
// incomplete-phi-for-unsealed-block case and the re-entrancy guard
// for blocks currently being read during their own φ resolution.
func (b *Builder) read(reg int, st *blockState) *ir.Value {
	if v, ok := st.defs[reg]; ok {
		return v
	}
	if st.visiting[reg] {
		// Re-entrant read of the same (reg, block) pair during φ
		// resolution: return the in-progress phi rather than loop.
		if phi, ok := st.incomplete[reg]; ok {
			return phi.Result()
		}
	}
	if !st.sealed {
		phi := b.newPhi(st.block)
		st.incomplete[reg] = phi
		st.defs[reg] = phi.Result()
		return phi.Result()
	}
	preds := st.block.Predecessors()
	if len(preds) == 1 {
		v := b.read(reg, b.byBlock[preds[0]])
		st.defs[reg] = v
		return v
	}
	phi := b.newPhi(st.block)
	st.defs[reg] = phi.Result()
	st.visiting[reg] = true
	for _, p := range preds {
		phi.AddIncoming(b.read(reg, b.byBlock[p]), p)
	}
	st.visiting[reg] = false
	resolved := b.tryRemoveTrivialPhi(phi)
	st.defs[reg] = resolved
	return resolved
}

func (b *Builder) write(reg int, st *blockState, v *ir.Value) {
	st.defs[reg] = v
}

func (b *Builder) newPhi(block *ir.BasicBlock) *ir.PhiInst {
	phi := ir.NewPhi(ir.AnyType())
	block.InsertAfterPhis(phi)
	return phi
}

// tryRemoveTrivialPhi drops a phi whose non-self incoming values are
// all one single value (or the phi itself), rewriting its uses to that
// value.
func (b *Builder) tryRemoveTrivialPhi(phi *ir.PhiInst) *ir.Value {
	var same *ir.Value
	result := phi.Result()
	for i := 0; i < phi.NumIncoming(); i++ {
		v := phi.IncomingValue(i)
		if v == result || v == same {
			continue
		}
		if same != nil {
			return result // genuinely merges >1 distinct value; keep it
		}
		same = v
	}
	if same == nil {
		same = ir.NewUndef(ir.AnyType())
	}
	result.ReplaceAllUsesWith(same)
	ir.EraseFromParent(phi)
	return same
}

// closeUnterminatedBlocks gives every still-open block a terminator:
// br to its first successor if one exists, else ret-void.
func (b *Builder) closeUnterminatedBlocks() {
	for _, irb := range b.irBlocks {
		if irb.Terminator() != nil {
			continue
		}
		succs := irb.Successors()
		if len(succs) > 0 {
			irb.Append(ir.NewBr(succs[0]))
		} else {
			irb.Append(ir.NewRetVoid())
		}
	}
}

// sealAll seals every block in ascending id (layout) order once the
// full predecessor set is known, finalizing pending incomplete phis.
func (b *Builder) sealAll() {
	for _, st := range b.states {
		b.sealBlock(st)
	}
}

func (b *Builder) sealBlock(st *blockState) {
	if st.sealed {
		return
	}
	for reg, phi := range st.incomplete {
		for _, p := range st.block.Predecessors() {
			phi.AddIncoming(b.read(reg, b.byBlock[p]), p)
		}
		resolved := b.tryRemoveTrivialPhi(phi)
		// A later write in this block supersedes the phi as the block's
		// outgoing definition; only replace the def if it is still the phi.
		if st.defs[reg] == phi.Result() {
			st.defs[reg] = resolved
		}
	}
	st.incomplete = make(map[int]*ir.PhiInst)
	st.sealed = true
}
