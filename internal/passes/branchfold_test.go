package passes

import (
	"testing"

	"abcdec/internal/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildEqZeroBranch builds entry: cmp = lt(a,b); wrap = eq(cmp,0);
// br.cond wrap, trueB, falseB — the shape jeqz lowering produces when
// branching on a prior comparison's result.
func buildEqZeroBranch(t *testing.T, wrapOp ir.Op) (*ir.Function, *ir.BinaryInst, *ir.BrCondInst, *ir.BasicBlock, *ir.BasicBlock) {
	t.Helper()
	fn := ir.NewFunction("f", []ir.Type{ir.I32Type(), ir.I32Type()})
	entry := fn.NewBlock("entry")
	trueB := fn.NewBlock("true")
	falseB := fn.NewBlock("false")
	trueB.Append(ir.NewRetVoid())
	falseB.Append(ir.NewRetVoid())

	cmp := ir.NewBinary(ir.OpLt, fn.Arguments[0], fn.Arguments[1], ir.BoolType())
	entry.Append(cmp)
	zero := ir.NewConstInt(0, 32)
	wrap := ir.NewBinary(wrapOp, cmp.Result(), zero, ir.BoolType())
	entry.Append(wrap)
	bc := ir.NewBrCond(wrap.Result(), trueB, falseB)
	entry.Append(bc)
	entry.AddSuccessor(trueB)
	entry.AddSuccessor(falseB)
	trueB.AddPredecessor(entry)
	falseB.AddPredecessor(entry)

	return fn, cmp, bc, trueB, falseB
}

func TestBranchFoldingInvertsOnEqZero(t *testing.T) {
	fn, cmp, bc, trueB, falseB := buildEqZeroBranch(t, ir.OpEq)
	res := BranchFolding{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)
	assert.Equal(t, cmp.Result(), bc.Cond.Value())
	assert.Equal(t, falseB, bc.True)
	assert.Equal(t, trueB, bc.False)
}

func TestBranchFoldingKeepsOrderOnNeZero(t *testing.T) {
	fn, cmp, bc, trueB, falseB := buildEqZeroBranch(t, ir.OpNe)
	res := BranchFolding{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)
	assert.Equal(t, cmp.Result(), bc.Cond.Value())
	assert.Equal(t, trueB, bc.True)
	assert.Equal(t, falseB, bc.False)
}

func TestBranchFoldingIgnoresPlainCondition(t *testing.T) {
	fn := ir.NewFunction("f", []ir.Type{ir.BoolType()})
	entry := fn.NewBlock("entry")
	trueB := fn.NewBlock("true")
	falseB := fn.NewBlock("false")
	trueB.Append(ir.NewRetVoid())
	falseB.Append(ir.NewRetVoid())
	bc := ir.NewBrCond(fn.Arguments[0], trueB, falseB)
	entry.Append(bc)
	entry.AddSuccessor(trueB)
	entry.AddSuccessor(falseB)

	res := BranchFolding{}.RunOnFunction(fn, nil)
	assert.False(t, res.Modified)
}
