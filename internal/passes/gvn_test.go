package passes

import (
	"testing"

	"abcdec/internal/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalValueNumberingDeduplicatesRepeatedPropertyRead(t *testing.T) {
	fn := newFnInModule("f", nil)
	entry := fn.NewBlock("entry")
	g := ir.NewGlobal(1, "console", true)
	key := ir.NewConstString("log")

	first := ir.NewObjectInst(ir.OpGetProperty, g, key, nil, nil, true)
	entry.Append(first)
	second := ir.NewObjectInst(ir.OpGetProperty, g, key, nil, nil, true)
	entry.Append(second)
	use := ir.NewUnary(ir.OpNeg, second.Result(), ir.AnyType())
	entry.Append(use)
	entry.Append(ir.NewRetVoid())

	res := GlobalValueNumbering{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)
	assert.Equal(t, first.Result(), use.X.Value())
}

func TestGlobalValueNumberingDoesNotCrossBlocks(t *testing.T) {
	fn := newFnInModule("f", nil)
	entry := fn.NewBlock("entry")
	left := fn.NewBlock("left")
	right := fn.NewBlock("right")
	g := ir.NewGlobal(1, "console", true)
	key := ir.NewConstString("log")

	cond := ir.NewConstInt(1, 1)
	entry.Append(ir.NewBrCond(cond, left, right))
	entry.AddSuccessor(left)
	entry.AddSuccessor(right)
	left.AddPredecessor(entry)
	right.AddPredecessor(entry)

	firstInLeft := ir.NewObjectInst(ir.OpGetProperty, g, key, nil, nil, true)
	left.Append(firstInLeft)
	left.Append(ir.NewRetVoid())

	secondInRight := ir.NewObjectInst(ir.OpGetProperty, g, key, nil, nil, true)
	right.Append(secondInRight)
	right.Append(ir.NewRetVoid())

	res := GlobalValueNumbering{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.False(t, res.Modified)
	assert.NotNil(t, right.Instructions()[0])
}

func TestGlobalValueNumberingInvalidatesAcrossCall(t *testing.T) {
	fn := newFnInModule("f", nil)
	entry := fn.NewBlock("entry")
	g := ir.NewGlobal(1, "console", true)
	key := ir.NewConstString("log")

	first := ir.NewObjectInst(ir.OpGetProperty, g, key, nil, nil, true)
	entry.Append(first)
	call := ir.NewCall(ir.OpCall, first.Result(), nil, nil, true)
	entry.Append(call)
	second := ir.NewObjectInst(ir.OpGetProperty, g, key, nil, nil, true)
	entry.Append(second)
	use := ir.NewUnary(ir.OpNeg, second.Result(), ir.AnyType())
	entry.Append(use)
	entry.Append(ir.NewRetVoid())

	res := GlobalValueNumbering{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.False(t, res.Modified)
	assert.Equal(t, second.Result(), use.X.Value())
}

func TestGlobalValueNumberingIgnoresNonGlobalReceiver(t *testing.T) {
	fn := newFnInModule("f", []ir.Type{ir.AnyType()})
	entry := fn.NewBlock("entry")
	key := ir.NewConstString("log")
	first := ir.NewObjectInst(ir.OpGetProperty, fn.Arguments[0], key, nil, nil, true)
	entry.Append(first)
	second := ir.NewObjectInst(ir.OpGetProperty, fn.Arguments[0], key, nil, nil, true)
	entry.Append(second)
	entry.Append(ir.NewRetVoid())

	res := GlobalValueNumbering{}.RunOnFunction(fn, nil)
	assert.False(t, res.Modified)
}
