package passes

import (
	"testing"

	"abcdec/internal/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypePropagationGrowsThroughArithmeticAndCopy(t *testing.T) {
	fn := ir.NewFunction("f", nil)
	entry := fn.NewBlock("entry")

	c1 := ir.NewConstInt(2, 32)
	c2 := ir.NewConstInt(3, 32)
	sum := ir.NewBinary(ir.OpAdd, c1, c2, ir.AnyType())
	entry.Append(sum)
	cp := ir.NewCopy(sum.Result())
	entry.Append(cp)
	entry.Append(ir.NewRetVoid())

	res := TypePropagation{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)
	assert.True(t, sum.Result().Type.IsNumeric())
	assert.True(t, cp.Result().Type.IsNumeric())
}

func TestTypePropagationEliminatesToNumericOnKnownNumeric(t *testing.T) {
	fn := ir.NewFunction("f", nil)
	entry := fn.NewBlock("entry")

	c := ir.NewConstInt(5, 32)
	tn := ir.NewUnary(ir.OpToNumeric, c, ir.AnyType())
	entry.Append(tn)
	use := ir.NewUnary(ir.OpNeg, tn.Result(), ir.AnyType())
	entry.Append(use)
	entry.Append(ir.NewRetVoid())

	res := TypePropagation{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)
	assert.Equal(t, c, use.X.Value())
}

func TestTypePropagationLeavesNonNumericAlone(t *testing.T) {
	fn := ir.NewFunction("f", nil)
	entry := fn.NewBlock("entry")
	s := ir.NewConstString("x")
	cp := ir.NewCopy(s)
	entry.Append(cp)
	entry.Append(ir.NewRetVoid())

	res := TypePropagation{}.RunOnFunction(fn, nil)
	assert.False(t, res.Modified)
}
