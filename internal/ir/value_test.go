package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseSetMaintainsUseLists(t *testing.T) {
	a := NewConstInt(1, 32)
	b := NewConstInt(2, 32)

	ret := &RetInst{}
	u := NewUse(a, ret)
	ret.Value = u

	require.Equal(t, []Instruction{ret}, a.Users())
	assert.False(t, b.HasUses())

	u.Set(b)

	assert.False(t, a.HasUses())
	require.Equal(t, []Instruction{ret}, b.Users())
}

func TestUseSetNoopOnSameValue(t *testing.T) {
	a := NewConstInt(1, 32)
	ret := &RetInst{}
	u := NewUse(a, ret)
	u.Set(a)
	assert.Len(t, a.Uses(), 1)
}

func TestReplaceAllUsesWith(t *testing.T) {
	a := NewConstInt(1, 32)
	other := NewConstInt(2, 32)

	ret1 := &RetInst{}
	ret1.Value = NewUse(a, ret1)
	ret2 := &RetInst{}
	ret2.Value = NewUse(a, ret2)

	require.Len(t, a.Uses(), 2)

	a.ReplaceAllUsesWith(other)

	assert.False(t, a.HasUses())
	require.Len(t, other.Uses(), 2)
	assert.Equal(t, other, ret1.Value.Value())
	assert.Equal(t, other, ret2.Value.Value())
}

func TestReplaceAllUsesWithSelfIsNoop(t *testing.T) {
	a := NewConstInt(1, 32)
	ret := &RetInst{}
	ret.Value = NewUse(a, ret)
	a.ReplaceAllUsesWith(a)
	assert.Len(t, a.Uses(), 1)
}

func TestUsersDeduplicatesAndPreservesOrder(t *testing.T) {
	a := NewConstInt(1, 32)
	bin := &BinaryInst{Left: NewUse(a, nil), Right: NewUse(a, nil)}
	bin.Left.user, bin.Right.user = bin, bin

	users := a.Users()
	require.Len(t, users, 1)
	assert.Equal(t, bin, users[0])
}

func TestIsConstInt(t *testing.T) {
	v := NewConstInt(42, 32)
	n, ok := v.IsConstInt()
	require.True(t, ok)
	assert.Equal(t, int64(42), n)

	arg := NewArgument(0, I32Type())
	_, ok = arg.IsConstInt()
	assert.False(t, ok)
}

func TestTypeIsNumeric(t *testing.T) {
	assert.True(t, I32Type().IsNumeric())
	assert.True(t, I64Type().IsNumeric())
	assert.True(t, F64Type().IsNumeric())
	assert.False(t, BoolType().IsNumeric())
	assert.False(t, StringType().IsNumeric())
	assert.False(t, AnyType().IsNumeric())
}
