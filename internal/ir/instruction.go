package ir

import "fmt"

// Effect describes the side effect, if any, an instruction has on the
// world outside the SSA graph. DCE treats any instruction whose
// Effects() is non-empty (besides PureEffect) as a root.
type Effect interface{ EffectKind() string }

type PureEffect struct{}

func (PureEffect) EffectKind() string { return "pure" }

type ThrowEffect struct{}

func (ThrowEffect) EffectKind() string { return "throw" }

type GlobalEffect struct{ Write bool }

func (GlobalEffect) EffectKind() string { return "global" }

type CallEffect struct{}

func (CallEffect) EffectKind() string { return "call" }

// Instruction is the closed sum type over all IR instruction variants.
// Concrete types embed InstBase for the plumbing (owning block,
// intrusive list links, display name, compound-assign flag) and
// implement the variant-specific accessors themselves.
type Instruction interface {
	ID() int
	setID(int)
	Op() Op
	Block() *BasicBlock
	setBlock(*BasicBlock)
	Prev() Instruction
	setPrev(Instruction)
	Next() Instruction
	setNext(Instruction)

	// Result is the Value this instruction produces, or nil for
	// instructions with no result (store, assume-like checks, void
	// calls handled via a CallInst with Result==nil).
	Result() *Value

	// Operands returns the instruction's operand Uses in a fixed,
	// opcode-defined order.
	Operands() []*Use

	IsTerminator() bool
	IsPhi() bool

	Name() string
	SetName(string)
	CompoundAssign() bool
	SetCompoundAssign(bool)

	Effects() []Effect
	String() string
}

// Terminator is the subset of Instruction that ends a basic block and
// names its successors.
type Terminator interface {
	Instruction
	Successors() []*BasicBlock
}

// InstBase provides the intrusive-list plumbing shared by every
// concrete instruction type. It is never used standalone.
type InstBase struct {
	id             int
	op             Op
	block          *BasicBlock
	prev, next     Instruction
	name           string
	compoundAssign bool
	inserted       bool
}

func (b *InstBase) ID() int                    { return b.id }
func (b *InstBase) setID(id int)               { b.id = id }
func (b *InstBase) Op() Op                     { return b.op }
func (b *InstBase) Block() *BasicBlock         { return b.block }
func (b *InstBase) setBlock(bb *BasicBlock)    { b.block = bb }
func (b *InstBase) Prev() Instruction          { return b.prev }
func (b *InstBase) setPrev(i Instruction)      { b.prev = i }
func (b *InstBase) Next() Instruction          { return b.next }
func (b *InstBase) setNext(i Instruction)      { b.next = i }
func (b *InstBase) IsTerminator() bool         { return false }
func (b *InstBase) IsPhi() bool                { return false }
func (b *InstBase) Name() string               { return b.name }
func (b *InstBase) SetName(n string)           { b.name = n }
func (b *InstBase) CompoundAssign() bool       { return b.compoundAssign }
func (b *InstBase) SetCompoundAssign(v bool)   { b.compoundAssign = v }
func (b *InstBase) Effects() []Effect          { return []Effect{PureEffect{}} }

func displayName(inst Instruction) string {
	if inst.Name() != "" {
		return inst.Name()
	}
	return fmt.Sprintf("%%t%d", inst.ID())
}

// --- Terminators -----------------------------------------------------

type RetInst struct {
	InstBase
	Value *Use
}

func (i *RetInst) Result() *Value  { return nil }
func (i *RetInst) Operands() []*Use {
	if i.Value == nil {
		return nil
	}
	return []*Use{i.Value}
}
func (i *RetInst) IsTerminator() bool { return true }
func (i *RetInst) Successors() []*BasicBlock { return nil }
func (i *RetInst) String() string {
	if i.Value == nil {
		return "ret"
	}
	return fmt.Sprintf("ret %s", i.Value.Value().Name)
}

type RetVoidInst struct{ InstBase }

func (i *RetVoidInst) Result() *Value         { return nil }
func (i *RetVoidInst) Operands() []*Use        { return nil }
func (i *RetVoidInst) IsTerminator() bool      { return true }
func (i *RetVoidInst) Successors() []*BasicBlock { return nil }
func (i *RetVoidInst) String() string          { return "ret.void" }

type BrInst struct {
	InstBase
	Target *BasicBlock
}

func (i *BrInst) Result() *Value    { return nil }
func (i *BrInst) Operands() []*Use   { return nil }
func (i *BrInst) IsTerminator() bool { return true }
func (i *BrInst) Successors() []*BasicBlock { return []*BasicBlock{i.Target} }
func (i *BrInst) String() string { return fmt.Sprintf("br %s", i.Target.Label) }

type BrCondInst struct {
	InstBase
	Cond        *Use
	True, False *BasicBlock
}

func (i *BrCondInst) Result() *Value    { return nil }
func (i *BrCondInst) Operands() []*Use   { return []*Use{i.Cond} }
func (i *BrCondInst) IsTerminator() bool { return true }
func (i *BrCondInst) Successors() []*BasicBlock {
	return []*BasicBlock{i.True, i.False}
}
func (i *BrCondInst) String() string {
	return fmt.Sprintf("br.cond %s, %s, %s", i.Cond.Value().Name, i.True.Label, i.False.Label)
}

// SwitchCase is one discriminant-value/target pair of a switch.
type SwitchCase struct {
	Value *Use
	Block *BasicBlock
}

type SwitchInst struct {
	InstBase
	Disc    *Use
	Cases   []SwitchCase
	Default *BasicBlock
}

func (i *SwitchInst) Result() *Value { return nil }
func (i *SwitchInst) Operands() []*Use {
	ops := []*Use{i.Disc}
	for _, c := range i.Cases {
		ops = append(ops, c.Value)
	}
	return ops
}
func (i *SwitchInst) IsTerminator() bool { return true }
func (i *SwitchInst) Successors() []*BasicBlock {
	out := make([]*BasicBlock, 0, len(i.Cases)+1)
	for _, c := range i.Cases {
		out = append(out, c.Block)
	}
	if i.Default != nil {
		out = append(out, i.Default)
	}
	return out
}
func (i *SwitchInst) String() string { return fmt.Sprintf("switch %s", i.Disc.Value().Name) }

type UnreachableInst struct{ InstBase }

func (i *UnreachableInst) Result() *Value           { return nil }
func (i *UnreachableInst) Operands() []*Use          { return nil }
func (i *UnreachableInst) IsTerminator() bool        { return true }
func (i *UnreachableInst) Successors() []*BasicBlock { return nil }
func (i *UnreachableInst) String() string            { return "unreachable" }

// --- Binary / unary ---------------------------------------------------

type BinaryInst struct {
	InstBase
	result      *Value
	Left, Right *Use
}

func (i *BinaryInst) Result() *Value  { return i.result }
func (i *BinaryInst) Operands() []*Use { return []*Use{i.Left, i.Right} }
func (i *BinaryInst) Effects() []Effect {
	if i.op == OpDiv || i.op == OpMod {
		return []Effect{ThrowEffect{}}
	}
	return []Effect{PureEffect{}}
}
func (i *BinaryInst) String() string {
	return fmt.Sprintf("%s = %s %s, %s", displayName(i), i.op, i.Left.Value().Name, i.Right.Value().Name)
}

type UnaryInst struct {
	InstBase
	result *Value
	X      *Use
}

func (i *UnaryInst) Result() *Value  { return i.result }
func (i *UnaryInst) Operands() []*Use { return []*Use{i.X} }
func (i *UnaryInst) String() string {
	return fmt.Sprintf("%s = %s %s", displayName(i), i.op, i.X.Value().Name)
}

// --- Memory ------------------------------------------------------------

type LoadInst struct {
	InstBase
	result *Value
	Addr   *Use
}

func (i *LoadInst) Result() *Value  { return i.result }
func (i *LoadInst) Operands() []*Use { return []*Use{i.Addr} }
func (i *LoadInst) String() string {
	return fmt.Sprintf("%s = load %s", displayName(i), i.Addr.Value().Name)
}

type StoreInst struct {
	InstBase
	Addr, Value *Use
}

func (i *StoreInst) Result() *Value    { return nil }
func (i *StoreInst) Operands() []*Use   { return []*Use{i.Addr, i.Value} }
func (i *StoreInst) Effects() []Effect { return []Effect{GlobalEffect{Write: true}} }
func (i *StoreInst) String() string {
	return fmt.Sprintf("store %s, %s", i.Addr.Value().Name, i.Value.Value().Name)
}

type AllocaInst struct {
	InstBase
	result  *Value
	ElemType Type
}

func (i *AllocaInst) Result() *Value  { return i.result }
func (i *AllocaInst) Operands() []*Use { return nil }
func (i *AllocaInst) String() string  { return fmt.Sprintf("%s = alloca %s", displayName(i), i.ElemType) }

type GEPInst struct {
	InstBase
	result      *Value
	Base, Index *Use
}

func (i *GEPInst) Result() *Value  { return i.result }
func (i *GEPInst) Operands() []*Use { return []*Use{i.Base, i.Index} }
func (i *GEPInst) String() string {
	return fmt.Sprintf("%s = gep %s, %s", displayName(i), i.Base.Value().Name, i.Index.Value().Name)
}

// --- Object / array ------------------------------------------------------

// ObjectInst covers create-object/create-array/…/get-element/set-element:
// instructions shaped as "optional receiver + key + optional value +
// variadic args", distinguished by Op.
type ObjectInst struct {
	InstBase
	result           *Value
	Receiver, Key, Val *Use
	Args             []*Use
	LiteralIndex     int // literal-array/buffer id, -1 if unused
}

func (i *ObjectInst) Result() *Value { return i.result }
func (i *ObjectInst) Operands() []*Use {
	var ops []*Use
	for _, u := range []*Use{i.Receiver, i.Key, i.Val} {
		if u != nil {
			ops = append(ops, u)
		}
	}
	ops = append(ops, i.Args...)
	return ops
}
func (i *ObjectInst) Effects() []Effect {
	switch i.op {
	case OpSetProperty, OpSetElement, OpDeleteProperty:
		return []Effect{GlobalEffect{Write: true}}
	case OpGetProperty, OpGetElement:
		return []Effect{ThrowEffect{}}
	default:
		return []Effect{PureEffect{}}
	}
}
func (i *ObjectInst) String() string {
	if i.result != nil {
		return fmt.Sprintf("%s = %s", displayName(i), i.op)
	}
	return i.op.String()
}

// --- Calls ---------------------------------------------------------------

type CallInst struct {
	InstBase
	result       *Value
	Callee, This *Use
	Args         []*Use
	RuntimeName  string // populated for OpCallRuntime
}

func (i *CallInst) Result() *Value { return i.result }
func (i *CallInst) Operands() []*Use {
	var ops []*Use
	if i.Callee != nil {
		ops = append(ops, i.Callee)
	}
	if i.This != nil {
		ops = append(ops, i.This)
	}
	ops = append(ops, i.Args...)
	return ops
}
func (i *CallInst) Effects() []Effect { return []Effect{CallEffect{}, ThrowEffect{}} }
func (i *CallInst) String() string {
	if i.result != nil {
		return fmt.Sprintf("%s = %s", displayName(i), i.op)
	}
	return i.op.String()
}

// --- Environment / global / module ----------------------------------------

// EnvInst covers lexical-environment and global/module variable ops:
// new-lex-env, pop-lex-env, load/store-lex-var, load/store-global,
// try-load/try-store-global, load/store-module-var, get-module-ns,
// dynamic-import. Slot/Name disambiguate which variable is addressed.
type EnvInst struct {
	InstBase
	result *Value
	Value  *Use
	Slot   int
	Name   string
}

func (i *EnvInst) Result() *Value { return i.result }
func (i *EnvInst) Operands() []*Use {
	if i.Value == nil {
		return nil
	}
	return []*Use{i.Value}
}
func (i *EnvInst) Effects() []Effect {
	switch i.op {
	case OpStoreLexVar, OpStoreGlobal, OpTryStoreGlobal, OpStoreModuleVar:
		return []Effect{GlobalEffect{Write: true}}
	case OpLoadGlobal, OpTryLoadGlobal, OpDynamicImport:
		return []Effect{GlobalEffect{}}
	default:
		return []Effect{PureEffect{}}
	}
}
func (i *EnvInst) String() string {
	if i.result != nil {
		return fmt.Sprintf("%s = %s %s", displayName(i), i.op, i.Name)
	}
	return fmt.Sprintf("%s %s", i.op, i.Name)
}

// --- Exceptions ------------------------------------------------------------

type ThrowInst struct {
	InstBase
	Value *Use
}

func (i *ThrowInst) Result() *Value           { return nil }
func (i *ThrowInst) Operands() []*Use          { return []*Use{i.Value} }
func (i *ThrowInst) IsTerminator() bool        { return true }
func (i *ThrowInst) Successors() []*BasicBlock { return nil }
func (i *ThrowInst) Effects() []Effect         { return []Effect{ThrowEffect{}} }
func (i *ThrowInst) String() string            { return fmt.Sprintf("throw %s", i.Value.Value().Name) }

type LandingPadInst struct {
	InstBase
	result *Value
}

func (i *LandingPadInst) Result() *Value  { return i.result }
func (i *LandingPadInst) Operands() []*Use { return nil }
func (i *LandingPadInst) String() string  { return fmt.Sprintf("%s = landingpad", displayName(i)) }

type ResumeInst struct {
	InstBase
	Value *Use
}

func (i *ResumeInst) Result() *Value  { return nil }
func (i *ResumeInst) Operands() []*Use { return []*Use{i.Value} }
func (i *ResumeInst) String() string  { return fmt.Sprintf("resume %s", i.Value.Value().Name) }

// --- SSA -------------------------------------------------------------------

// PhiInst selects its value based on the predecessor taken at runtime.
// incoming is kept as two parallel ordered slices (not a map) so
// iteration order is stable.
type PhiInst struct {
	InstBase
	result *Value
	preds  []*BasicBlock
	vals   []*Use
}

func (i *PhiInst) Result() *Value { return i.result }
func (i *PhiInst) Operands() []*Use {
	ops := make([]*Use, len(i.vals))
	copy(ops, i.vals)
	return ops
}
func (i *PhiInst) IsPhi() bool { return true }

// AddIncoming records one predecessor/value pair.
func (i *PhiInst) AddIncoming(v *Value, b *BasicBlock) {
	i.preds = append(i.preds, b)
	i.vals = append(i.vals, NewUse(v, i))
}

func (i *PhiInst) NumIncoming() int { return len(i.preds) }

func (i *PhiInst) IncomingBlock(idx int) *BasicBlock { return i.preds[idx] }

func (i *PhiInst) IncomingValue(idx int) *Value { return i.vals[idx].Value() }

// ValueForBlock returns the incoming value associated with block b, if any.
func (i *PhiInst) ValueForBlock(b *BasicBlock) (*Value, bool) {
	for idx, p := range i.preds {
		if p == b {
			return i.vals[idx].Value(), true
		}
	}
	return nil, false
}

// SetValueForBlock rewrites (or adds) the incoming edge for block b.
func (i *PhiInst) SetValueForBlock(b *BasicBlock, v *Value) {
	for idx, p := range i.preds {
		if p == b {
			i.vals[idx].Set(v)
			return
		}
	}
	i.AddIncoming(v, b)
}

// RemoveIncoming drops the incoming edge from block b, if present.
func (i *PhiInst) RemoveIncoming(b *BasicBlock) {
	for idx, p := range i.preds {
		if p == b {
			i.vals[idx].Set(nil)
			i.preds = append(i.preds[:idx], i.preds[idx+1:]...)
			i.vals = append(i.vals[:idx], i.vals[idx+1:]...)
			return
		}
	}
}

func (i *PhiInst) String() string {
	return fmt.Sprintf("%s = phi(%d incoming)", displayName(i), len(i.preds))
}

type SelectInst struct {
	InstBase
	result           *Value
	Cond, True, False *Use
}

func (i *SelectInst) Result() *Value  { return i.result }
func (i *SelectInst) Operands() []*Use { return []*Use{i.Cond, i.True, i.False} }
func (i *SelectInst) String() string {
	return fmt.Sprintf("%s = select %s, %s, %s", displayName(i), i.Cond.Value().Name, i.True.Value().Name, i.False.Value().Name)
}

// CopyInst materializes the implicit accumulator write as an explicit
// instruction (the recommended canonical form).
type CopyInst struct {
	InstBase
	result *Value
	Src    *Use
}

func (i *CopyInst) Result() *Value  { return i.result }
func (i *CopyInst) Operands() []*Use { return []*Use{i.Src} }
func (i *CopyInst) String() string {
	return fmt.Sprintf("%s = copy %s", displayName(i), i.Src.Value().Name)
}

// --- Debug/nop ---------------------------------------------------------

type NopInst struct{ InstBase }

func (i *NopInst) Result() *Value  { return nil }
func (i *NopInst) Operands() []*Use { return nil }
func (i *NopInst) String() string  { return "nop" }

type DebuggerInst struct{ InstBase }

func (i *DebuggerInst) Result() *Value  { return nil }
func (i *DebuggerInst) Operands() []*Use { return nil }
func (i *DebuggerInst) String() string  { return "debugger" }
