package ir

// This file collects the constructor functions for every concrete
// Instruction variant. Each wires its result Value (when it has one)
// and its operand Uses through NewUse, so callers (the SSA builder,
// the transform passes) never touch an unexported field directly.

func newResult(typ Type) *Value {
	return &Value{Kind: ValInstruction, Type: typ}
}

func bindResult(v *Value, inst Instruction) {
	v.Inst = inst
}

func NewRet(v *Value) *RetInst {
	i := &RetInst{InstBase: InstBase{op: OpRet}}
	i.Value = NewUse(v, i)
	return i
}

func NewRetVoid() *RetVoidInst { return &RetVoidInst{InstBase: InstBase{op: OpRetVoid}} }

func NewBr(target *BasicBlock) *BrInst {
	return &BrInst{InstBase: InstBase{op: OpBr}, Target: target}
}

func NewBrCond(cond *Value, t, f *BasicBlock) *BrCondInst {
	i := &BrCondInst{InstBase: InstBase{op: OpBrCond}, True: t, False: f}
	i.Cond = NewUse(cond, i)
	return i
}

func NewUnreachable() *UnreachableInst { return &UnreachableInst{InstBase: InstBase{op: OpUnreachable}} }

// NewBinary creates a binary instruction of op with result type typ.
func NewBinary(op Op, left, right *Value, typ Type) *BinaryInst {
	i := &BinaryInst{InstBase: InstBase{op: op}}
	i.result = newResult(typ)
	bindResult(i.result, i)
	i.Left = NewUse(left, i)
	i.Right = NewUse(right, i)
	return i
}

func NewUnary(op Op, x *Value, typ Type) *UnaryInst {
	i := &UnaryInst{InstBase: InstBase{op: op}}
	i.result = newResult(typ)
	bindResult(i.result, i)
	i.X = NewUse(x, i)
	return i
}

func NewLoad(addr *Value, typ Type) *LoadInst {
	i := &LoadInst{InstBase: InstBase{op: OpLoad}}
	i.result = newResult(typ)
	bindResult(i.result, i)
	i.Addr = NewUse(addr, i)
	return i
}

func NewStore(addr, val *Value) *StoreInst {
	i := &StoreInst{InstBase: InstBase{op: OpStore}}
	i.Addr = NewUse(addr, i)
	i.Value = NewUse(val, i)
	return i
}

func NewAlloca(elemType Type) *AllocaInst {
	i := &AllocaInst{InstBase: InstBase{op: OpAlloca}, ElemType: elemType}
	i.result = newResult(AnyType())
	bindResult(i.result, i)
	return i
}

func NewObjectInst(op Op, receiver, key, val *Value, args []*Value, hasResult bool) *ObjectInst {
	i := &ObjectInst{InstBase: InstBase{op: op}, LiteralIndex: -1}
	if hasResult {
		i.result = newResult(AnyType())
		bindResult(i.result, i)
	}
	if receiver != nil {
		i.Receiver = NewUse(receiver, i)
	}
	if key != nil {
		i.Key = NewUse(key, i)
	}
	if val != nil {
		i.Val = NewUse(val, i)
	}
	for _, a := range args {
		i.Args = append(i.Args, NewUse(a, i))
	}
	return i
}

func NewCall(op Op, callee, this *Value, args []*Value, hasResult bool) *CallInst {
	i := &CallInst{InstBase: InstBase{op: op}}
	if hasResult {
		i.result = newResult(AnyType())
		bindResult(i.result, i)
	}
	if callee != nil {
		i.Callee = NewUse(callee, i)
	}
	if this != nil {
		i.This = NewUse(this, i)
	}
	for _, a := range args {
		i.Args = append(i.Args, NewUse(a, i))
	}
	return i
}

func NewCallRuntime(name string, args []*Value, hasResult bool) *CallInst {
	i := NewCall(OpCallRuntime, nil, nil, args, hasResult)
	i.RuntimeName = name
	return i
}

func NewEnvInst(op Op, value *Value, slot int, name string, hasResult bool) *EnvInst {
	i := &EnvInst{InstBase: InstBase{op: op}, Slot: slot, Name: name}
	if hasResult {
		i.result = newResult(AnyType())
		bindResult(i.result, i)
	}
	if value != nil {
		i.Value = NewUse(value, i)
	}
	return i
}

func NewThrow(v *Value) *ThrowInst {
	i := &ThrowInst{InstBase: InstBase{op: OpThrow}}
	i.Value = NewUse(v, i)
	return i
}

func NewLandingPad() *LandingPadInst {
	i := &LandingPadInst{InstBase: InstBase{op: OpLandingPad}}
	i.result = newResult(AnyType())
	bindResult(i.result, i)
	return i
}

func NewResume(v *Value) *ResumeInst {
	i := &ResumeInst{InstBase: InstBase{op: OpResume}}
	i.Value = NewUse(v, i)
	return i
}

// NewPhi creates an empty phi of the given type with no incoming
// edges; callers add edges via AddIncoming.
func NewPhi(typ Type) *PhiInst {
	i := &PhiInst{InstBase: InstBase{op: OpPhi}}
	i.result = newResult(typ)
	bindResult(i.result, i)
	return i
}

func NewSelect(cond, t, f *Value) *SelectInst {
	i := &SelectInst{InstBase: InstBase{op: OpSelect}}
	i.result = newResult(t.Type)
	bindResult(i.result, i)
	i.Cond = NewUse(cond, i)
	i.True = NewUse(t, i)
	i.False = NewUse(f, i)
	return i
}

func NewCopy(src *Value) *CopyInst {
	i := &CopyInst{InstBase: InstBase{op: OpCopy}}
	i.result = newResult(src.Type)
	bindResult(i.result, i)
	i.Src = NewUse(src, i)
	return i
}

func NewNop() *NopInst           { return &NopInst{InstBase: InstBase{op: OpNop}} }
func NewDebugger() *DebuggerInst { return &DebuggerInst{InstBase: InstBase{op: OpDebugger}} }
