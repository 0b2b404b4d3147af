package passes

import (
	"testing"

	"abcdec/internal/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNumericEliminationDropsOnNumericOperand(t *testing.T) {
	fn := ir.NewFunction("f", []ir.Type{ir.I32Type()})
	entry := fn.NewBlock("entry")
	tn := ir.NewUnary(ir.OpToNumeric, fn.Arguments[0], ir.AnyType())
	entry.Append(tn)
	use := ir.NewUnary(ir.OpNeg, tn.Result(), ir.AnyType())
	entry.Append(use)
	entry.Append(ir.NewRetVoid())

	res := ToNumericElimination{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)
	assert.Equal(t, fn.Arguments[0], use.X.Value())
}

func TestToNumericEliminationKeepsNonNumericOperand(t *testing.T) {
	fn := ir.NewFunction("f", []ir.Type{ir.AnyType()})
	entry := fn.NewBlock("entry")
	tn := ir.NewUnary(ir.OpToNumeric, fn.Arguments[0], ir.AnyType())
	entry.Append(tn)
	entry.Append(ir.NewRetVoid())

	res := ToNumericElimination{}.RunOnFunction(fn, nil)
	assert.False(t, res.Modified)
}
