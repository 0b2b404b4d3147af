package isa

import "abcdec/internal/ir"

// Byte values below are synthetic but internally consistent: this
// catalog is a from-scratch reconstruction of the opcode space
// described in spec prose, not a transcription of a real vendor byte
// table. What matters for the pipeline is that every mnemonic named
// in the catalog maps to a stable layout/flags/lowering triple that
// the decoder and SSA constructor can agree on.

func (c *Catalog) populateStandard() {
	add := func(b byte, mnemonic string, layout Layout, flags Flags, lowering ir.Op) {
		c.standard[b] = Entry{Mnemonic: mnemonic, Layout: layout, Flags: flags, Lowering: lowering}
	}

	// Terminators
	add(0x00, "returnundefined", LayoutNone, Flags{IsTerminator: true}, ir.OpRetVoid)
	add(0x01, "return", LayoutNone, Flags{IsTerminator: true}, ir.OpRet)
	add(0x02, "throw", LayoutNone, Flags{IsTerminator: true, MayThrow: true}, ir.OpThrow)

	// Accumulator load/store
	add(0x03, "ldai", LayoutImm32, Flags{}, ir.OpCopy)
	add(0x04, "fldai", LayoutImm64, Flags{}, ir.OpCopy)
	add(0x05, "lda", LayoutReg8, Flags{}, ir.OpCopy)
	add(0x06, "sta", LayoutReg8, Flags{HasSideEffects: true}, ir.OpCopy)
	add(0x07, "ldundefined", LayoutNone, Flags{}, ir.OpCopy)
	add(0x08, "ldnull", LayoutNone, Flags{}, ir.OpCopy)
	add(0x09, "ldtrue", LayoutNone, Flags{}, ir.OpCopy)
	add(0x0A, "ldfalse", LayoutNone, Flags{}, ir.OpCopy)
	add(0x0B, "ldhole", LayoutNone, Flags{}, ir.OpCopy)
	add(0x0C, "ldnan", LayoutNone, Flags{}, ir.OpCopy)
	add(0x0D, "ldinfinity", LayoutNone, Flags{}, ir.OpCopy)
	add(0x0E, "ldstr", LayoutImm16StrID16, Flags{}, ir.OpCopy)

	// Arithmetic, `acc OP reg`
	add(0x10, "add2", LayoutReg8, Flags{MayThrow: true}, ir.OpAdd)
	add(0x11, "sub2", LayoutReg8, Flags{MayThrow: true}, ir.OpSub)
	add(0x12, "mul2", LayoutReg8, Flags{MayThrow: true}, ir.OpMul)
	add(0x13, "div2", LayoutReg8, Flags{MayThrow: true}, ir.OpDiv)
	add(0x14, "mod2", LayoutReg8, Flags{MayThrow: true}, ir.OpMod)
	add(0x15, "exp", LayoutReg8, Flags{MayThrow: true}, ir.OpExp)
	add(0x16, "neg", LayoutNone, Flags{MayThrow: true}, ir.OpNeg)
	add(0x17, "inc", LayoutReg8, Flags{MayThrow: true}, ir.OpInc)
	add(0x18, "dec", LayoutReg8, Flags{MayThrow: true}, ir.OpDec)

	// Bitwise
	add(0x1A, "and2", LayoutReg8, Flags{MayThrow: true}, ir.OpAnd)
	add(0x1B, "or2", LayoutReg8, Flags{MayThrow: true}, ir.OpOr)
	add(0x1C, "xor2", LayoutReg8, Flags{MayThrow: true}, ir.OpXor)
	add(0x1D, "shl2", LayoutReg8, Flags{MayThrow: true}, ir.OpShl)
	add(0x1E, "shr2", LayoutReg8, Flags{MayThrow: true}, ir.OpShr)
	add(0x1F, "ashr2", LayoutReg8, Flags{MayThrow: true}, ir.OpAShr)
	add(0x20, "not", LayoutNone, Flags{MayThrow: true}, ir.OpBitNot)

	// Comparisons (acc OP reg at decode time)
	add(0x22, "eq", LayoutReg8, Flags{MayThrow: true}, ir.OpEq)
	add(0x23, "noteq", LayoutReg8, Flags{MayThrow: true}, ir.OpNe)
	add(0x24, "less", LayoutReg8, Flags{MayThrow: true}, ir.OpLt)
	add(0x25, "lesseq", LayoutReg8, Flags{MayThrow: true}, ir.OpLe)
	add(0x26, "greater", LayoutReg8, Flags{MayThrow: true}, ir.OpGt)
	add(0x27, "greatereq", LayoutReg8, Flags{MayThrow: true}, ir.OpGe)
	add(0x28, "stricteq", LayoutReg8, Flags{}, ir.OpStrictEq)
	add(0x29, "strictnoteq", LayoutReg8, Flags{}, ir.OpStrictNe)
	add(0x2A, "isin", LayoutReg8, Flags{MayThrow: true}, ir.OpIsIn)
	add(0x2B, "instanceof", LayoutReg8, Flags{MayThrow: true}, ir.OpInstanceOf)

	// Unary classification helpers
	add(0x2C, "typeof", LayoutNone, Flags{}, ir.OpTypeof)
	add(0x2D, "tonumber", LayoutNone, Flags{MayThrow: true}, ir.OpToNumber)
	add(0x2E, "tonumeric", LayoutNone, Flags{MayThrow: true}, ir.OpToNumeric)
	add(0x2F, "istrue", LayoutNone, Flags{}, ir.OpIsTrue)
	add(0x30, "isfalse", LayoutNone, Flags{}, ir.OpIsFalse)

	// Object/array
	add(0x32, "createemptyobject", LayoutNone, Flags{}, ir.OpCreateObject)
	add(0x33, "createemptyarray", LayoutNone, Flags{}, ir.OpCreateArray)
	add(0x34, "createobjectwithbuffer", LayoutImm16StrID16, Flags{}, ir.OpCreateObjectWithBuf)
	add(0x35, "createarraywithbuffer", LayoutImm16StrID16, Flags{}, ir.OpCreateArrayWithBuf)
	add(0x36, "createregexpwithliteral", LayoutImm8StrID16, Flags{}, ir.OpCreateRegexp)
	add(0x37, "ldobjbyname", LayoutImm8StrID16, Flags{MayThrow: true}, ir.OpGetProperty)
	add(0x38, "stobjbyname", LayoutReg8Imm8StrID16, Flags{MayThrow: true, HasSideEffects: true}, ir.OpSetProperty)
	add(0x39, "delobjprop", LayoutReg8, Flags{MayThrow: true, HasSideEffects: true}, ir.OpDeleteProperty)
	add(0x3A, "ldobjbyvalue", LayoutReg8, Flags{MayThrow: true}, ir.OpGetElement)
	add(0x3B, "stobjbyvalue", LayoutReg8Reg8, Flags{MayThrow: true, HasSideEffects: true}, ir.OpSetElement)
	add(0x3C, "ldobjbyindex", LayoutImm16, Flags{MayThrow: true}, ir.OpGetElement)
	add(0x3D, "stobjbyindex", LayoutImm16Reg8, Flags{MayThrow: true, HasSideEffects: true}, ir.OpSetElement)

	// Calls
	add(0x40, "callarg0", LayoutNone, Flags{MayThrow: true, HasSideEffects: true}, ir.OpCall)
	add(0x41, "callarg1", LayoutReg8, Flags{MayThrow: true, HasSideEffects: true}, ir.OpCall)
	add(0x42, "callargs2", LayoutReg8Reg8, Flags{MayThrow: true, HasSideEffects: true}, ir.OpCall)
	add(0x43, "callargs3", LayoutReg8Reg8Reg8, Flags{MayThrow: true, HasSideEffects: true}, ir.OpCall)
	add(0x44, "callrange", LayoutImm8RegN, Flags{MayThrow: true, HasSideEffects: true}, ir.OpCall)
	add(0x45, "callthisrange", LayoutImm8RegN, Flags{MayThrow: true, HasSideEffects: true}, ir.OpCallThis)
	add(0x46, "supercallthisrange", LayoutImm8RegN, Flags{MayThrow: true, HasSideEffects: true}, ir.OpCallSuper)
	add(0x47, "newobjrange", LayoutImm8RegN, Flags{MayThrow: true, HasSideEffects: true}, ir.OpNew)
	add(0x48, "apply", LayoutReg8Reg8, Flags{MayThrow: true, HasSideEffects: true}, ir.OpApply)

	// Environment
	add(0x4A, "newlexenv", LayoutImm8, Flags{HasSideEffects: true}, ir.OpNewLexEnv)
	add(0x4B, "poplexenv", LayoutNone, Flags{HasSideEffects: true}, ir.OpPopLexEnv)
	add(0x4C, "ldlexvar", LayoutImm8Reg8, Flags{}, ir.OpLoadLexVar)
	add(0x4D, "stlexvar", LayoutImm8Reg8, Flags{HasSideEffects: true}, ir.OpStoreLexVar)

	// Global
	add(0x4E, "ldglobalvar", LayoutImm16StrID16, Flags{MayThrow: true}, ir.OpLoadGlobal)

	// 0x4F-0x5F: ambiguous range in source prose; disambiguated here
	// purely via the jump-branch flags below, never via byte position.
	add(0x4F, "stglobalvar", LayoutImm16StrID16, Flags{MayThrow: true, HasSideEffects: true}, ir.OpStoreGlobal)
	add(0x50, "trystglobalbyname", LayoutImm8StrID16, Flags{MayThrow: true, HasSideEffects: true}, ir.OpTryStoreGlobal)
	add(0x51, "tryldglobalbyname", LayoutImm8StrID16, Flags{MayThrow: true}, ir.OpTryLoadGlobal)
	add(0x52, "jmp", LayoutJumpOffset32, Flags{IsUnconditionalBranch: true}, ir.OpInvalid)
	add(0x53, "jeqz", LayoutJumpOffset16, Flags{IsConditionalBranch: true}, ir.OpInvalid)
	add(0x54, "jnez", LayoutJumpOffset16, Flags{IsConditionalBranch: true}, ir.OpInvalid)
	add(0x55, "jeq", LayoutJumpOffset16, Flags{IsConditionalBranch: true}, ir.OpInvalid)
	add(0x56, "jne", LayoutJumpOffset16, Flags{IsConditionalBranch: true}, ir.OpInvalid)
	add(0x57, "jstricteq", LayoutJumpOffset16, Flags{IsConditionalBranch: true}, ir.OpInvalid)
	add(0x58, "jstrictnoteq", LayoutJumpOffset16, Flags{IsConditionalBranch: true}, ir.OpInvalid)
	add(0x59, "jltz", LayoutJumpOffset8, Flags{IsConditionalBranch: true}, ir.OpInvalid)
	add(0x5A, "jgez", LayoutJumpOffset8, Flags{IsConditionalBranch: true}, ir.OpInvalid)

	// Module
	add(0x5B, "ldmodulevar", LayoutImm8, Flags{}, ir.OpLoadModuleVar)
	add(0x5C, "stmodulevar", LayoutImm8, Flags{HasSideEffects: true}, ir.OpStoreModuleVar)
	add(0x5D, "getmodulenamespace", LayoutImm8, Flags{}, ir.OpGetModuleNS)
	add(0x5E, "dynamicimport", LayoutNone, Flags{MayThrow: true, HasSideEffects: true}, ir.OpDynamicImport)

	// Generator/async
	add(0x60, "creategeneratorobj", LayoutReg8, Flags{HasSideEffects: true}, ir.OpCreateGeneratorObj)
	add(0x61, "suspendgenerator", LayoutReg8, Flags{HasSideEffects: true}, ir.OpSuspendGenerator)

	// Exceptions
	add(0x62, "poplandingpad", LayoutNone, Flags{}, ir.OpLandingPad)
	add(0x63, "resumecaught", LayoutNone, Flags{}, ir.OpResume)

	// Debug/nop
	add(0x64, "nop", LayoutNone, Flags{}, ir.OpNop)
	add(0x65, "debugger", LayoutNone, Flags{}, ir.OpDebugger)

	// Switch
	add(0x66, "condswitch", LayoutComplexClassDef, Flags{IsTerminator: true}, ir.OpSwitch)
}

func (c *Catalog) populateWide() {
	add := func(b byte, mnemonic string, layout Layout, flags Flags, lowering ir.Op) {
		c.wide[b] = Entry{Mnemonic: mnemonic, Layout: layout, Flags: flags, Lowering: lowering}
	}
	add(0x01, "wide.callrange", LayoutImm8RegN, Flags{MayThrow: true, HasSideEffects: true}, ir.OpCall)
	add(0x02, "wide.newobjrange", LayoutImm8RegN, Flags{MayThrow: true, HasSideEffects: true}, ir.OpNew)
	add(0x03, "wide.createobjectwithbuffer", LayoutImm32, Flags{}, ir.OpCreateObjectWithBuf)
	add(0x04, "wide.createarraywithbuffer", LayoutImm32, Flags{}, ir.OpCreateArrayWithBuf)
	add(0x05, "wide.ldobjbyindex", LayoutImm32, Flags{MayThrow: true}, ir.OpGetElement)
	add(0x06, "wide.stobjbyindex", LayoutImm32, Flags{MayThrow: true, HasSideEffects: true}, ir.OpSetElement)
}

func (c *Catalog) populateDeprecated() {
	add := func(b byte, mnemonic string, layout Layout, flags Flags, lowering ir.Op) {
		c.deprecated[b] = Entry{Mnemonic: mnemonic, Layout: layout, Flags: flags, Lowering: lowering}
	}
	// Deprecated single-register loads have a clear modern equivalent
	// (plain lda/sta), so they lower directly per Open Question 2's
	// first branch.
	add(0x01, "deprecated.ldlexenv", LayoutNone, Flags{}, ir.OpCopy)
	add(0x02, "deprecated.stlexvar", LayoutImm8Reg8, Flags{HasSideEffects: true}, ir.OpCopy)
	// No modern equivalent for these two: lowered via the
	// call-runtime shim, per Open Question 2's second branch.
	add(0x03, "deprecated.asyncfunctionenter", LayoutNone, Flags{HasSideEffects: true}, ir.OpInvalid)
	add(0x04, "deprecated.callspread", LayoutReg8Reg8, Flags{MayThrow: true, HasSideEffects: true}, ir.OpInvalid)
}

func (c *Catalog) populateThrow() {
	add := func(b byte, mnemonic string, layout Layout, flags Flags, lowering ir.Op) {
		c.throw[b] = Entry{Mnemonic: mnemonic, Layout: layout, Flags: flags, Lowering: lowering}
	}
	add(0x01, "throw.notexists", LayoutNone, Flags{IsTerminator: true, MayThrow: true}, ir.OpThrow)
	add(0x02, "throw.patternnoncoercible", LayoutNone, Flags{IsTerminator: true, MayThrow: true}, ir.OpThrow)
	add(0x03, "throw.deletesuperproperty", LayoutNone, Flags{IsTerminator: true, MayThrow: true}, ir.OpThrow)
	add(0x04, "throw.constassignment", LayoutReg8, Flags{IsTerminator: true, MayThrow: true}, ir.OpThrow)
	add(0x05, "throw.ifnotobject", LayoutReg8, Flags{MayThrow: true}, ir.OpThrow)
	add(0x06, "throw.undefinedifhole", LayoutReg8Reg8, Flags{MayThrow: true}, ir.OpThrow)
}

func (c *Catalog) populateCallRuntime() {
	add := func(b byte, mnemonic string, layout Layout, flags Flags, lowering ir.Op) {
		c.callRuntime[b] = Entry{Mnemonic: mnemonic, Layout: layout, Flags: flags, Lowering: lowering}
	}
	add(0x01, "callruntime.notifyconcurrentresult", LayoutNone, Flags{HasSideEffects: true}, ir.OpCallRuntime)
	add(0x02, "callruntime.definefieldbyvalue", LayoutReg8Reg8, Flags{MayThrow: true, HasSideEffects: true}, ir.OpCallRuntime)
	add(0x03, "callruntime.definefieldbyindex", LayoutImm16, Flags{MayThrow: true, HasSideEffects: true}, ir.OpCallRuntime)
	add(0x04, "callruntime.createprivateproperty", LayoutImm16, Flags{HasSideEffects: true}, ir.OpCallRuntime)
	add(0x05, "callruntime.definesendableclass", LayoutComplexClassDef, Flags{HasSideEffects: true}, ir.OpCallRuntime)
}
