package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abcdec/internal/isa"
)

func TestDecodeEmptyBuffer(t *testing.T) {
	d := New(isa.New(), nil)
	_, ok := d.Next()
	assert.False(t, ok)
	assert.True(t, d.Done())
}

func TestDecodeSimpleOpcode(t *testing.T) {
	// ldai imm32=3, then return.
	buf := []byte{0x03, 0x03, 0x00, 0x00, 0x00, 0x01}
	recs := All(isa.New(), buf)
	require.Len(t, recs, 2)

	assert.Equal(t, "ldai", recs[0].Entry.Mnemonic)
	require.Len(t, recs[0].Operands, 1)
	assert.Equal(t, uint64(3), recs[0].Operands[0].Value)
	assert.Equal(t, 0, recs[0].Offset)
	assert.Equal(t, 5, recs[0].End())

	assert.Equal(t, "return", recs[1].Entry.Mnemonic)
	assert.Equal(t, 5, recs[1].Offset)
}

func TestDecodeConsumedBytesEqualInput(t *testing.T) {
	buf := []byte{0x03, 0x03, 0x00, 0x00, 0x00, 0x01}
	recs := All(isa.New(), buf)
	var consumed []byte
	for _, r := range recs {
		consumed = append(consumed, r.Raw...)
	}
	assert.Equal(t, buf, consumed)
}

func TestDecodePrefixedOpcode(t *testing.T) {
	buf := []byte{isa.PrefixByteWide, 0x03, 0x00, 0x00, 0x00, 0x01}
	recs := All(isa.New(), buf)
	require.Len(t, recs, 1)
	assert.Equal(t, isa.PrefixWide, recs[0].Prefix)
	assert.Equal(t, "wide.createobjectwithbuffer", recs[0].Entry.Mnemonic)
}

func TestDecodeJumpOffsetSignExtends(t *testing.T) {
	// jltz (jump-offset8) with operand 0xFE == -2.
	buf := []byte{0x59, 0xFE}
	recs := All(isa.New(), buf)
	require.Len(t, recs, 1)
	require.Len(t, recs[0].Operands, 1)
	assert.Equal(t, int64(-2), recs[0].Operands[0].Signed)
}

func TestDecodeUnknownOpcodeFallsBackBySize(t *testing.T) {
	// 0xAA is not in the standard table; 4 bytes remain after it.
	buf := []byte{0xAA, 0x01, 0x02, 0x03, 0x04}
	recs := All(isa.New(), buf)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Unknown)
	assert.Equal(t, 5, recs[0].End())
}

func TestDecodeTruncatedTailHalts(t *testing.T) {
	// add2 needs a reg8 operand but the buffer ends right after the
	// opcode byte.
	buf := []byte{0x10}
	d := New(isa.New(), buf)
	rec, ok := d.Next()
	require.True(t, ok)
	assert.True(t, d.Done())
	assert.Equal(t, buf, rec.Raw)
}
