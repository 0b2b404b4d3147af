package passes

import (
	"testing"

	"abcdec/internal/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlgebraicSimplificationAddZero(t *testing.T) {
	fn := newFnInModule("f", []ir.Type{ir.I32Type()})
	entry := fn.NewBlock("entry")
	zero := ir.NewConstInt(0, 32)
	add := ir.NewBinary(ir.OpAdd, fn.Arguments[0], zero, ir.I32Type())
	entry.Append(add)
	use := ir.NewUnary(ir.OpNeg, add.Result(), ir.I32Type())
	entry.Append(use)
	entry.Append(ir.NewRetVoid())

	res := AlgebraicSimplification{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)
	assert.Equal(t, fn.Arguments[0], use.X.Value())
}

func TestAlgebraicSimplificationSubSelfIsZero(t *testing.T) {
	fn := newFnInModule("f", []ir.Type{ir.I32Type()})
	entry := fn.NewBlock("entry")
	sub := ir.NewBinary(ir.OpSub, fn.Arguments[0], fn.Arguments[0], ir.I32Type())
	entry.Append(sub)
	entry.Append(ir.NewRetVoid())

	res := AlgebraicSimplification{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)
	assert.Equal(t, 1, entry.Len())
}

func TestAlgebraicSimplificationMulByOneAndZero(t *testing.T) {
	fn := newFnInModule("f", []ir.Type{ir.I32Type()})
	entry := fn.NewBlock("entry")
	one := ir.NewConstInt(1, 32)
	mulOne := ir.NewBinary(ir.OpMul, fn.Arguments[0], one, ir.I32Type())
	entry.Append(mulOne)
	zero := ir.NewConstInt(0, 32)
	mulZero := ir.NewBinary(ir.OpMul, mulOne.Result(), zero, ir.I32Type())
	entry.Append(mulZero)
	use := ir.NewUnary(ir.OpNeg, mulZero.Result(), ir.I32Type())
	entry.Append(use)
	entry.Append(ir.NewRetVoid())

	res := AlgebraicSimplification{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)
	c, ok := use.X.Value().IsConstInt()
	require.True(t, ok)
	assert.Equal(t, int64(0), c)
}

func TestAlgebraicSimplificationNoopOnUnrelatedBinary(t *testing.T) {
	fn := newFnInModule("f", []ir.Type{ir.I32Type(), ir.I32Type()})
	entry := fn.NewBlock("entry")
	add := ir.NewBinary(ir.OpAdd, fn.Arguments[0], fn.Arguments[1], ir.I32Type())
	entry.Append(add)
	entry.Append(ir.NewRetVoid())

	res := AlgebraicSimplification{}.RunOnFunction(fn, nil)
	assert.False(t, res.Modified)
}
