package passes

import (
	"testing"

	"abcdec/internal/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableReconstructionNamesLoopChain(t *testing.T) {
	fn, phi, inc := buildCountingLoop(t)
	res := VariableReconstruction{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)
	assert.Equal(t, "i1", phi.Result().Name)
	assert.Equal(t, "i1", inc.Result().Name)
}

func TestVariableReconstructionSkipsNonLoopPhi(t *testing.T) {
	fn := ir.NewFunction("f", []ir.Type{ir.BoolType(), ir.I32Type(), ir.I32Type()})
	entry := fn.NewBlock("entry")
	left := fn.NewBlock("left")
	right := fn.NewBlock("right")
	join := fn.NewBlock("join")

	bc := ir.NewBrCond(fn.Arguments[0], left, right)
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
	phi.AddIncoming(fn.Arguments[1], left)
	phi.AddIncoming(fn.Arguments[2], right)
	join.Append(ir.NewRetVoid())

	originalName := phi.Result().Name
	res := VariableReconstruction{}.RunOnFunction(fn, nil)
	assert.False(t, res.Modified)
	assert.Equal(t, originalName, phi.Result().Name)
}
