package passes

import (
	"testing"

	"abcdec/internal/ir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantPropagationRewritesThroughCopyChain(t *testing.T) {
	fn := newFnInModule("f", nil)
	entry := fn.NewBlock("entry")
	c := ir.NewConstInt(42, 32)
	cp1 := ir.NewCopy(c)
	entry.Append(cp1)
	cp2 := ir.NewCopy(cp1.Result())
	entry.Append(cp2)
	use := ir.NewUnary(ir.OpNeg, cp2.Result(), ir.I32Type())
	entry.Append(use)
	entry.Append(ir.NewRetVoid())

	res := ConstantPropagation{}.RunOnFunction(fn, nil)
	require.False(t, res.Failed())
	assert.True(t, res.Modified)
	assert.Equal(t, c, use.X.Value())
}

func TestConstantPropagationLeavesNonConstantCopyAlone(t *testing.T) {
	fn := newFnInModule("f", []ir.Type{ir.I32Type()})
	entry := fn.NewBlock("entry")
	cp := ir.NewCopy(fn.Arguments[0])
	entry.Append(cp)
	use := ir.NewUnary(ir.OpNeg, cp.Result(), ir.I32Type())
	entry.Append(use)
	entry.Append(ir.NewRetVoid())

	res := ConstantPropagation{}.RunOnFunction(fn, nil)
	assert.False(t, res.Modified)
	assert.Equal(t, cp.Result(), use.X.Value())
}
