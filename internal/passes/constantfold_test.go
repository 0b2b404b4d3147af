package passes

import (
	"testing"

	"abcdec/internal/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFnInModule(name string, argTypes []ir.Type) *ir.Function {
	fn := ir.NewFunction(name, argTypes)
	m := ir.NewModule("m")
	m.AddFunction(fn)
	return fn
}

func TestConstantFoldingEvaluatesBinary(t *testing.T) {
	fn := newFnInModule("f", nil)
	entry := fn.NewBlock("entry")
	a := ir.NewConstInt(2, 32)
	b := ir.NewConstInt(3, 32)
	add := ir.NewBinary(ir.OpAdd, a, b, ir.I32Type())
	entry.Append(add)
	ret := ir.NewRetVoid()
	entry.Append(ret)

	res := ConstantFolding{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)
	assert.Equal(t, 1, entry.Len())
}

func TestConstantFoldingSkipsDivisionByZero(t *testing.T) {
	fn := newFnInModule("f", nil)
	entry := fn.NewBlock("entry")
	a := ir.NewConstInt(7, 32)
	zero := ir.NewConstInt(0, 32)
	div := ir.NewBinary(ir.OpDiv, a, zero, ir.I32Type())
	entry.Append(div)
	entry.Append(ir.NewRetVoid())

	res := ConstantFolding{}.RunOnFunction(fn, nil)
	assert.False(t, res.Modified)
}

func TestConstantFoldingShrIsLogicalNotArithmetic(t *testing.T) {
	fn := newFnInModule("f", nil)
	entry := fn.NewBlock("entry")
	a := ir.NewConstInt(-8, 32)
	one := ir.NewConstInt(1, 32)
	shr := ir.NewBinary(ir.OpShr, a, one, ir.I32Type())
	entry.Append(shr)
	ret := ir.NewRet(shr.Result())
	entry.Append(ret)

	res := ConstantFolding{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)

	got, ok := ret.Value.Value().IsConstInt()
	require.True(t, ok)
	neg8 := int64(-8)
	assert.Equal(t, int64(uint64(neg8)>>1), got)
	assert.NotEqual(t, int64(-8)>>1, got)
}

func TestConstantFoldingAShrSignExtends(t *testing.T) {
	fn := newFnInModule("f", nil)
	entry := fn.NewBlock("entry")
	a := ir.NewConstInt(-8, 32)
	one := ir.NewConstInt(1, 32)
	ashr := ir.NewBinary(ir.OpAShr, a, one, ir.I32Type())
	entry.Append(ashr)
	ret := ir.NewRet(ashr.Result())
	entry.Append(ret)

	res := ConstantFolding{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)

	got, ok := ret.Value.Value().IsConstInt()
	require.True(t, ok)
	assert.Equal(t, int64(-4), got)
}

func TestConstantFoldingCollapsesSameConstantPhi(t *testing.T) {
	fn := newFnInModule("f", nil)
	entry := fn.NewBlock("entry")
	left := fn.NewBlock("left")
	right := fn.NewBlock("right")
	join := fn.NewBlock("join")

	c := fn.Module().ConstInt(9, 32)
	cond := ir.NewConstInt(1, 1)
	bc := ir.NewBrCond(cond, left, right)
	entry.Append(bc)
	entry.AddSuccessor(left)
	entry.AddSuccessor(right)
	left.AddPredecessor(entry)
	right.AddPredecessor(entry)

	left.Append(ir.NewBr(join))
	left.AddSuccessor(join)
	right.Append(ir.NewBr(join))
	right.AddSuccessor(join)
	join.AddPredecessor(left)
	join.AddPredecessor(right)

	phi := ir.NewPhi(ir.I32Type())
	join.Append(phi)
	phi.AddIncoming(c, left)
	phi.AddIncoming(c, right)
	join.Append(ir.NewRetVoid())

	res := ConstantFolding{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)
	assert.Equal(t, 1, join.Len())
}
