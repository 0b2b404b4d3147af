package ssa

import (
	"fmt"

	"abcdec/internal/decode"
	"abcdec/internal/ir"
	"abcdec/internal/isa"
)

// lowerBranch lowers a conditional or unconditional jump into a
// terminator against the CFG-analyzer-computed successor blocks:
// jeqz/jnez become br-cond whose condition is a materialized
// comparison against a zero constant. The other conditional jumps are
// lowered the same way: their catalog entries carry no register
// operand, so they too compare the accumulator against zero.
func (b *Builder) lowerBranch(bi int, cur *blockState, inst decode.Record, acc *ir.Value) {
	succs := b.cfgGraph.Successors(bi)
	if inst.Entry.Flags.IsUnconditionalBranch {
		if len(succs) == 0 {
			cur.block.Append(ir.NewUnreachable())
			return
		}
		cur.block.Append(ir.NewBr(b.irBlocks[succs[0]]))
		return
	}

	// Conditional: the CFG analyzer orders a conditional block's
	// successors {target, fallthrough}.
	if len(succs) < 2 {
		if len(succs) == 1 {
			cur.block.Append(ir.NewBr(b.irBlocks[succs[0]]))
		} else {
			cur.block.Append(ir.NewUnreachable())
		}
		return
	}
	trueBlock := b.irBlocks[succs[0]]
	falseBlock := b.irBlocks[succs[1]]

	cond := b.materializeCondition(cur, inst, acc)
	cur.block.Append(ir.NewBrCond(cond, trueBlock, falseBlock))
}

// materializeCondition builds the comparison value a conditional jump
// branches on. jeqz/jnez compare the accumulator against zero; every
// other conditional mnemonic also compares the accumulator against
// zero, using the comparison its mnemonic names; no register operand
// is read for it.
func (b *Builder) materializeCondition(cur *blockState, inst decode.Record, acc *ir.Value) *ir.Value {
	if acc == nil {
		acc = b.module.ConstSpecial(ir.ConstUndefined)
	}
	switch inst.Entry.Mnemonic {
	case "jeqz":
		zero := ir.NewCopy(b.module.ConstInt(0, 32))
		cur.block.Append(zero)
		cmp := ir.NewBinary(ir.OpEq, acc, zero.Result(), ir.BoolType())
		cur.block.Append(cmp)
		return cmp.Result()
	case "jnez":
		zero := ir.NewCopy(b.module.ConstInt(0, 32))
		cur.block.Append(zero)
		cmp := ir.NewBinary(ir.OpNe, acc, zero.Result(), ir.BoolType())
		cur.block.Append(cmp)
		return cmp.Result()
	default:
		// jeq/jne/jstricteq/.../jltz/jgez: compare acc against zero by
		// default in the absence of a register operand (this catalog's
		// jump mnemonics beyond jeqz/jnez carry no register operand;
		// a full namespace would read one here).
		op := ir.OpNe
		switch inst.Entry.Mnemonic {
		case "jeq", "jstricteq":
			op = ir.OpEq
		case "jne", "jstrictnoteq":
			op = ir.OpNe
		case "jltz":
			op = ir.OpLt
		case "jgez":
			op = ir.OpGe
		}
		zero := ir.NewCopy(b.module.ConstInt(0, 32))
		cur.block.Append(zero)
		cmp := ir.NewBinary(op, acc, zero.Result(), ir.BoolType())
		cur.block.Append(cmp)
		return cmp.Result()
	}
}

// lowerInstruction dispatches a single non-branch decoded instruction,
// updating register state and the accumulator.
func (b *Builder) lowerInstruction(cur *blockState, inst decode.Record, acc *ir.Value) (*ir.Value, error) {
	if inst.Unknown {
		b.result.warnf("offset %d: unknown opcode 0x%02x treated as no-op", inst.Offset, inst.OpcodeByte)
		return acc, nil
	}

	mnem := inst.Entry.Mnemonic
	switch mnem {
	case "returnundefined":
		cur.block.Append(ir.NewRetVoid())
		return acc, nil
	case "return":
		cur.block.Append(ir.NewRet(requireAcc(b, acc)))
		return acc, nil
	case "throw":
		cur.block.Append(ir.NewThrow(requireAcc(b, acc)))
		return acc, nil
	}

	// Accumulator-load family: materialize a constant or a register
	// read, wrapped in an explicit copy.
	if v, ok := b.lowerAccumulatorLoad(cur, inst); ok {
		cp := ir.NewCopy(v)
		cur.block.Append(cp)
		return cp.Result(), nil
	}

	if mnem == "sta" {
		reg := regOperand(inst, 0)
		b.write(reg, cur, requireAcc(b, acc))
		return acc, nil
	}

	// Binary arithmetic/bitwise/comparison: acc OP reg, with ordering
	// comparisons swapped to reg OP acc so the operand order matches
	// the source-level `reg < acc` reading.
	if isBinaryOpcode(inst.Entry.Lowering) {
		reg := b.read(regOperand(inst, 0), cur)
		left, right := requireAcc(b, acc), reg
		if isOrderingComparison(inst.Entry.Lowering) {
			left, right = reg, requireAcc(b, acc)
		}
		bin := ir.NewBinary(inst.Entry.Lowering, left, right, resultTypeFor(inst.Entry.Lowering))
		cur.block.Append(bin)
		return bin.Result(), nil
	}

	if isUnaryOpcode(inst.Entry.Lowering) {
		un := ir.NewUnary(inst.Entry.Lowering, requireAcc(b, acc), resultTypeFor(inst.Entry.Lowering))
		cur.block.Append(un)
		return un.Result(), nil
	}

	switch inst.Entry.Lowering {
	case ir.OpGetProperty:
		name := b.stringOperand(inst)
		obj := ir.NewObjectInst(ir.OpGetProperty, requireAcc(b, acc), b.module.ConstString(name), nil, nil, true)
		cur.block.Append(obj)
		return obj.Result(), nil
	case ir.OpSetProperty:
		name := b.stringOperand(inst)
		receiver := b.read(regOperand(inst, 0), cur)
		obj := ir.NewObjectInst(ir.OpSetProperty, receiver, b.module.ConstString(name), requireAcc(b, acc), nil, false)
		cur.block.Append(obj)
		return acc, nil
	case ir.OpGetElement:
		reg := b.read(regOperand(inst, 0), cur)
		obj := ir.NewObjectInst(ir.OpGetElement, requireAcc(b, acc), reg, nil, nil, true)
		cur.block.Append(obj)
		return obj.Result(), nil
	case ir.OpSetElement:
		key := b.read(regOperand(inst, 0), cur)
		val := b.read(regOperand(inst, 1), cur)
		obj := ir.NewObjectInst(ir.OpSetElement, requireAcc(b, acc), key, val, nil, false)
		cur.block.Append(obj)
		return acc, nil
	case ir.OpDeleteProperty:
		reg := b.read(regOperand(inst, 0), cur)
		obj := ir.NewObjectInst(ir.OpDeleteProperty, reg, nil, nil, nil, false)
		cur.block.Append(obj)
		return acc, nil
	case ir.OpCreateObject, ir.OpCreateArray:
		obj := ir.NewObjectInst(inst.Entry.Lowering, nil, nil, nil, nil, true)
		cur.block.Append(obj)
		return obj.Result(), nil
	case ir.OpCreateObjectWithBuf, ir.OpCreateArrayWithBuf, ir.OpCreateRegexp:
		obj := ir.NewObjectInst(inst.Entry.Lowering, nil, nil, nil, nil, true)
		obj.LiteralIndex = literalIndexOperand(inst)
		cur.block.Append(obj)
		return obj.Result(), nil
	case ir.OpCall, ir.OpCallThis, ir.OpCallSuper, ir.OpApply:
		return b.lowerCall(cur, inst, acc)
	case ir.OpNew:
		return b.lowerNew(cur, inst, acc)
	case ir.OpNewLexEnv:
		env := ir.NewEnvInst(ir.OpNewLexEnv, nil, immOperand(inst, 0), "", false)
		cur.block.Append(env)
		return acc, nil
	case ir.OpPopLexEnv:
		cur.block.Append(ir.NewEnvInst(ir.OpPopLexEnv, nil, 0, "", false))
		return acc, nil
	case ir.OpLoadLexVar:
		env := ir.NewEnvInst(ir.OpLoadLexVar, nil, immOperand(inst, 0), "", true)
		cur.block.Append(env)
		return env.Result(), nil
	case ir.OpStoreLexVar:
		env := ir.NewEnvInst(ir.OpStoreLexVar, requireAcc(b, acc), immOperand(inst, 0), "", false)
		cur.block.Append(env)
		return acc, nil
	case ir.OpLoadGlobal, ir.OpTryLoadGlobal:
		name := b.stringOperand(inst)
		env := ir.NewEnvInst(inst.Entry.Lowering, nil, 0, name, true)
		cur.block.Append(env)
		return env.Result(), nil
	case ir.OpStoreGlobal, ir.OpTryStoreGlobal:
		name := b.stringOperand(inst)
		env := ir.NewEnvInst(inst.Entry.Lowering, requireAcc(b, acc), 0, name, false)
		cur.block.Append(env)
		return acc, nil
	case ir.OpLoadModuleVar:
		env := ir.NewEnvInst(ir.OpLoadModuleVar, nil, immOperand(inst, 0), "", true)
		cur.block.Append(env)
		return env.Result(), nil
	case ir.OpStoreModuleVar:
		env := ir.NewEnvInst(ir.OpStoreModuleVar, requireAcc(b, acc), immOperand(inst, 0), "", false)
		cur.block.Append(env)
		return acc, nil
	case ir.OpGetModuleNS:
		env := ir.NewEnvInst(ir.OpGetModuleNS, nil, immOperand(inst, 0), "", true)
		cur.block.Append(env)
		return env.Result(), nil
	case ir.OpDynamicImport:
		env := ir.NewEnvInst(ir.OpDynamicImport, requireAcc(b, acc), 0, "", true)
		cur.block.Append(env)
		return env.Result(), nil
	case ir.OpCreateGeneratorObj:
		reg := b.read(regOperand(inst, 0), cur)
		obj := ir.NewObjectInst(ir.OpCreateGeneratorObj, reg, nil, nil, nil, true)
		cur.block.Append(obj)
		return obj.Result(), nil
	case ir.OpSuspendGenerator:
		reg := b.read(regOperand(inst, 0), cur)
		obj := ir.NewObjectInst(ir.OpSuspendGenerator, reg, nil, requireAcc(b, acc), nil, true)
		cur.block.Append(obj)
		return obj.Result(), nil
	case ir.OpLandingPad:
		lp := ir.NewLandingPad()
		cur.block.Append(lp)
		return lp.Result(), nil
	case ir.OpResume:
		cur.block.Append(ir.NewResume(requireAcc(b, acc)))
		return acc, nil
	case ir.OpNop:
		cur.block.Append(ir.NewNop())
		return acc, nil
	case ir.OpDebugger:
		cur.block.Append(ir.NewDebugger())
		return acc, nil
	case ir.OpSwitch:
		// Switch-table dispatch is out of scope; record a runtime shim
		// so the stream stays consistent instead of silently dropping it.
		call := ir.NewCallRuntime(mnem, nil, false)
		cur.block.Append(call)
		return acc, nil
	case ir.OpCallRuntime:
		call := ir.NewCallRuntime(mnem, nil, true)
		cur.block.Append(call)
		return call.Result(), nil
	}

	if inst.Entry.Lowering == ir.OpInvalid {
		// Deprecated-prefix opcode with no modern equivalent: shim it
		// as a named runtime call instead of failing the whole method.
		b.result.warnf("offset %d: opcode %s has no modern equivalent; lowered as a runtime-call shim", inst.Offset, mnem)
		call := ir.NewCallRuntime(mnem, nil, false)
		cur.block.Append(call)
		return acc, nil
	}

	return acc, fmt.Errorf("no lowering rule for opcode %q", mnem)
}

func requireAcc(b *Builder, acc *ir.Value) *ir.Value {
	if acc != nil {
		return acc
	}
	return b.module.ConstSpecial(ir.ConstUndefined)
}

// lowerAccumulatorLoad handles the ldXXX family that materializes a
// constant or a register value into the accumulator. ok is false for
// every other mnemonic.
func (b *Builder) lowerAccumulatorLoad(cur *blockState, inst decode.Record) (*ir.Value, bool) {
	switch inst.Entry.Mnemonic {
	case "ldai":
		return b.module.ConstInt(int64(int32(immOperand(inst, 0))), 32), true
	case "fldai":
		return b.module.ConstFloat(float64(immOperand(inst, 0))), true
	case "lda":
		return b.read(regOperand(inst, 0), cur), true
	case "ldundefined":
		return b.module.ConstSpecial(ir.ConstUndefined), true
	case "ldnull":
		return b.module.ConstSpecial(ir.ConstNull), true
	case "ldtrue":
		return b.module.ConstInt(1, 1), true
	case "ldfalse":
		return b.module.ConstInt(0, 1), true
	case "ldhole":
		return b.module.ConstSpecial(ir.ConstHole), true
	case "ldnan":
		return b.module.ConstSpecial(ir.ConstNaN), true
	case "ldinfinity":
		return b.module.ConstSpecial(ir.ConstPosInf), true
	case "ldstr":
		return b.module.ConstString(b.stringOperand(inst)), true
	default:
		return nil, false
	}
}

func (b *Builder) lowerCall(cur *blockState, inst decode.Record, acc *ir.Value) (*ir.Value, error) {
	window := registerWindow(inst)
	var args []*ir.Value
	var this *ir.Value
	callee := requireAcc(b, acc)
	if inst.Entry.Lowering == ir.OpCallThis && len(window) > 0 {
		this = b.read(window[0], cur)
		for _, r := range window[1:] {
			args = append(args, b.read(r, cur))
		}
	} else {
		for _, r := range window {
			args = append(args, b.read(r, cur))
		}
	}
	call := ir.NewCall(inst.Entry.Lowering, callee, this, args, true)
	cur.block.Append(call)
	return call.Result(), nil
}

func (b *Builder) lowerNew(cur *blockState, inst decode.Record, acc *ir.Value) (*ir.Value, error) {
	window := registerWindow(inst)
	var args []*ir.Value
	for _, r := range window {
		args = append(args, b.read(r, cur))
	}
	call := ir.NewCall(ir.OpNew, requireAcc(b, acc), nil, args, true)
	cur.block.Append(call)
	return call.Result(), nil
}

// registerWindow returns the argument registers named by a call/new
// instruction. An imm8+regN-shaped entry (newobjrange/callthisrange)
// names a contiguous window {base, base+1, ..., base+count-1}; every
// other layout carries its argument registers as individual Reg
// operands in call order.
func registerWindow(inst decode.Record) []int {
	if inst.Entry.Layout == isa.LayoutImm8RegN && len(inst.Operands) >= 2 {
		count := int(inst.Operands[0].Value)
		base := int(inst.Operands[1].Value)
		window := make([]int, 0, count)
		for i := 0; i < count; i++ {
			window = append(window, base+i)
		}
		return window
	}
	var regs []int
	for _, op := range inst.Operands {
		if op.Kind == decode.KindRegister {
			regs = append(regs, int(op.Value))
		}
	}
	return regs
}

func regOperand(inst decode.Record, idx int) int {
	n := -1
	for _, op := range inst.Operands {
		if op.Kind == decode.KindRegister {
			n++
			if n == idx {
				return int(op.Value)
			}
		}
	}
	return 0
}

// literalIndexOperand returns the first operand's raw value, used for
// literal-array/buffer-id operands (createobjectwithbuf and friends)
// regardless of whether the catalog typed it as an imm or a string id.
func literalIndexOperand(inst decode.Record) int {
	if len(inst.Operands) == 0 {
		return -1
	}
	return int(inst.Operands[0].Value)
}

func immOperand(inst decode.Record, idx int) int {
	n := -1
	for _, op := range inst.Operands {
		switch op.Kind {
		case decode.KindImm8, decode.KindImm16, decode.KindImm32, decode.KindImm64:
			n++
			if n == idx {
				return int(op.Value)
			}
		}
	}
	return 0
}

func (b *Builder) stringOperand(inst decode.Record) string {
	for _, op := range inst.Operands {
		if op.Kind == decode.KindStringID {
			if b.pool != nil {
				if s, ok := b.pool.Lookup(op.Value); ok {
					return s
				}
			}
			return fmt.Sprintf("str_%d", op.Value)
		}
	}
	return ""
}

func isBinaryOpcode(op ir.Op) bool {
	switch op {
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod, ir.OpExp,
		ir.OpAnd, ir.OpOr, ir.OpXor, ir.OpShl, ir.OpShr, ir.OpAShr,
		ir.OpEq, ir.OpNe, ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe,
		ir.OpStrictEq, ir.OpStrictNe, ir.OpIsIn, ir.OpInstanceOf:
		return true
	default:
		return false
	}
}

func isOrderingComparison(op ir.Op) bool {
	switch op {
	case ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe:
		return true
	default:
		return false
	}
}

func isUnaryOpcode(op ir.Op) bool {
	switch op {
	case ir.OpNeg, ir.OpBitNot, ir.OpNot, ir.OpInc, ir.OpDec, ir.OpTypeof,
		ir.OpToNumber, ir.OpToNumeric, ir.OpIsTrue, ir.OpIsFalse:
		return true
	default:
		return false
	}
}

func resultTypeFor(op ir.Op) ir.Type {
	switch op {
	case ir.OpEq, ir.OpNe, ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe,
		ir.OpStrictEq, ir.OpStrictNe, ir.OpIsIn, ir.OpInstanceOf,
		ir.OpIsTrue, ir.OpIsFalse, ir.OpNot:
		return ir.BoolType()
	default:
		return ir.AnyType()
	}
}
