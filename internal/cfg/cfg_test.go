package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abcdec/internal/decode"
	"abcdec/internal/isa"
)

func TestBuildEmptyStream(t *testing.T) {
	g := Build(nil)
	assert.Empty(t, g.Blocks)
}

func TestBuildStraightLine(t *testing.T) {
	// ldai 3; return
	buf := []byte{0x03, 0x03, 0x00, 0x00, 0x00, 0x01}
	insts := decode.All(isa.New(), buf)
	g := Build(insts)
	require.Len(t, g.Blocks, 1)
	assert.Equal(t, 0, g.Blocks[0].Start)
	assert.Equal(t, 6, g.Blocks[0].End)
}

// TestJumpTargetMathPinnedAtOffsetPlusDisplacement builds a two-byte
// jltz at offset 10 with displacement +2 and checks its target is 12,
// matching the decoder's jump-target convention (target = inst.offset + displacement,
// not + length).
func TestJumpTargetMathPinnedAtOffsetPlusDisplacement(t *testing.T) {
	buf := make([]byte, 10)
	buf = append(buf, 0x59, 0x02) // jltz +2 at offset 10
	buf = append(buf, 0x00, 0x00) // padding so offset 12 is a real boundary
	insts := decode.All(isa.New(), buf)

	var jump decode.Record
	for _, r := range insts {
		if r.Offset == 10 {
			jump = r
		}
	}
	require.NotZero(t, jump.Offset)
	target, ok := boundaryTarget(jump)
	require.True(t, ok)
	assert.Equal(t, 12, target)
}

func TestBuildIfElseThreeBlocks(t *testing.T) {
	// entry: eq r0 (0x22 0x00) at 0, jnez (jump16, len 3) at 2 whose
	// target is the then-block; else: return at 5; then: return at 6.
	var buf []byte
	buf = append(buf, 0x22, 0x00) // eq r0, offset 0-1
	jeqzOffset := len(buf)
	buf = append(buf, 0x54, 0x00, 0x00) // jnez placeholder, patched below
	elseStart := len(buf)
	buf = append(buf, 0x01) // else: return, offset elseStart
	thenStart := len(buf)
	buf = append(buf, 0x01) // then: return, offset thenStart

	// Patch jnez displacement to target thenStart (taken branch),
	// fallthrough naturally continues to elseStart.
	disp := int16(thenStart - jeqzOffset)
	buf[jeqzOffset+1] = byte(disp)
	buf[jeqzOffset+2] = byte(disp >> 8)

	insts := decode.All(isa.New(), buf)
	g := Build(insts)
	require.Len(t, g.Blocks, 3)

	entry := g.Blocks[0]
	assert.Equal(t, EdgeConditional, entry.Kind)
	succs := g.Successors(0)
	require.Len(t, succs, 2)
	assert.Equal(t, []int{g.BlockForOffset(thenStart), g.BlockForOffset(elseStart)}, succs)
}
