package passes

import (
	"testing"

	"abcdec/internal/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedundantReturnEliminationMergesExits(t *testing.T) {
	fn := ir.NewFunction("f", []ir.Type{ir.BoolType()})
	entry := fn.NewBlock("entry")
	left := fn.NewBlock("left")
	right := fn.NewBlock("right")
	third := fn.NewBlock("third")

	bc := ir.NewBrCond(fn.Arguments[0], left, right)
	entry.Append(bc)
	entry.AddSuccessor(left)
	entry.AddSuccessor(right)
	left.AddPredecessor(entry)
	right.AddPredecessor(entry)
	// give `right` a second predecessor so it outranks `left` and `third`
	right.AddPredecessor(third)
	third.Append(ir.NewBr(right))
	third.AddSuccessor(right)

	left.Append(ir.NewRetVoid())
	right.Append(ir.NewRetVoid())

	res := RedundantReturnElimination{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)

	_, leftIsRet := left.Terminator().(*ir.RetVoidInst)
	assert.False(t, leftIsRet)
	leftBr, ok := left.Terminator().(*ir.BrInst)
	require.True(t, ok)
	assert.Equal(t, right, leftBr.Target)

	_, rightIsRet := right.Terminator().(*ir.RetVoidInst)
	assert.True(t, rightIsRet)
}

func TestRedundantReturnEliminationNoopOnSingleExit(t *testing.T) {
	fn := ir.NewFunction("f", nil)
	entry := fn.NewBlock("entry")
	entry.Append(ir.NewRetVoid())

	res := RedundantReturnElimination{}.RunOnFunction(fn, nil)
	assert.False(t, res.Modified)
}
