// Package decode turns a raw ABC method body into a finite,
// non-restartable stream of structured instruction records. Grounded on
// the byte-buffer-plus-cursor disassembly walk in nooga/paserati's
// Chunk (disassembleInstruction advancing `offset` one instruction at a
// time over a flat []byte), generalized here to the four-namespace
// prefix scheme of the opcode catalog.
package decode

import (
	"abcdec/internal/isa"
)

// OperandKind tags one decoded operand's shape.
type OperandKind int

const (
	KindImm8 OperandKind = iota
	KindImm16
	KindImm32
	KindImm64
	KindRegister
	KindStringID
	KindMethodID
	KindTypeID
	KindFieldID
	KindLiteralArrayID
	KindJumpOffset
)

// Operand is one typed operand value decoded from the instruction's
// trailing bytes.
type Operand struct {
	Kind OperandKind
	// Value holds Imm8/Imm16/Imm32/Register/StringID/... as its
	// unsigned magnitude; Signed carries the sign-extended form for
	// JumpOffset operands.
	Value  uint64
	Signed int64
}

// Record is one decoded instruction: its catalog entry, its typed
// operands in layout order, its byte offset, and the raw bytes it
// consumed (offset inclusive, end exclusive).
type Record struct {
	Offset int
	Prefix isa.Prefix
	Entry  isa.Entry
	// Raw opcode byte within its namespace (the secondary byte after a
	// prefix byte, or the leading byte itself for the standard
	// namespace).
	OpcodeByte byte
	Operands   []Operand
	Raw        []byte
	// Unknown is true when no catalog entry matched and the decoder
	// fell back to the size-inferring heuristic.
	Unknown bool
}

// End is the offset one past the last byte this record consumed.
func (r Record) End() int { return r.Offset + len(r.Raw) }

// Decoder walks a byte buffer and yields Records via Next until the
// buffer is exhausted. It never panics and never errors: reading past
// the end of the buffer returns zero bytes and halts the stream.
type Decoder struct {
	catalog *isa.Catalog
	buf     []byte
	pos     int
	done    bool
}

// New creates a decoder over buf using the given opcode catalog.
func New(catalog *isa.Catalog, buf []byte) *Decoder {
	return &Decoder{catalog: catalog, buf: buf}
}

// Done reports whether the stream has been fully consumed or halted.
func (d *Decoder) Done() bool { return d.done || d.pos >= len(d.buf) }

func (d *Decoder) readByte() (byte, bool) {
	if d.pos >= len(d.buf) {
		return 0, false
	}
	b := d.buf[d.pos]
	d.pos++
	return b, true
}

// readLE reads n little-endian bytes, zero-filling (and marking the
// stream halted) if the buffer runs out.
func (d *Decoder) readLE(n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		b, ok := d.readByte()
		if !ok {
			d.done = true
			return v
		}
		v |= uint64(b) << (8 * uint(i))
	}
	return v
}

func signExtend(v uint64, bits int) int64 {
	shift := 64 - bits
	return int64(v<<uint(shift)) >> uint(shift)
}

// Next decodes and returns the instruction starting at the current
// cursor, or ok=false once the stream is exhausted.
func (d *Decoder) Next() (Record, bool) {
	if d.Done() {
		return Record{}, false
	}
	start := d.pos
	lead, ok := d.readByte()
	if !ok {
		d.done = true
		return Record{}, false
	}

	prefix := isa.PrefixNone
	opcodeByte := lead
	if p, isPrefix := isa.PrefixForByte(lead); isPrefix {
		secondary, ok := d.readByte()
		if !ok {
			d.done = true
			return d.truncated(start), true
		}
		prefix = p
		opcodeByte = secondary
	}

	entry, known := d.catalog.Decode(prefix, opcodeByte)
	if !known {
		return d.unknownFallback(start, prefix, opcodeByte), true
	}

	operands := d.readOperands(entry)
	rec := Record{
		Offset:     start,
		Prefix:     prefix,
		Entry:      entry,
		OpcodeByte: opcodeByte,
		Operands:   operands,
		Raw:        d.sliceSince(start),
	}
	return rec, true
}

func (d *Decoder) sliceSince(start int) []byte {
	end := d.pos
	if end > len(d.buf) {
		end = len(d.buf)
	}
	return d.buf[start:end]
}

// truncated produces a half-read record when a prefix byte was the
// last byte in the buffer; the stream halts immediately after.
func (d *Decoder) truncated(start int) Record {
	return Record{Offset: start, Raw: d.sliceSince(start), Unknown: true}
}

// unknownFallback infers an operand width from remaining buffer length
// (1/2/4/8 bytes) so the stream keeps progressing on unrecognized
// standard opcodes, per the decoder contract.
func (d *Decoder) unknownFallback(start int, prefix isa.Prefix, opcodeByte byte) Record {
	remaining := len(d.buf) - d.pos
	width := 0
	switch {
	case remaining >= 8:
		width = 8
	case remaining >= 4:
		width = 4
	case remaining >= 2:
		width = 2
	case remaining >= 1:
		width = 1
	}
	if width > 0 {
		d.readLE(width)
	}
	return Record{
		Offset:     start,
		Prefix:     prefix,
		OpcodeByte: opcodeByte,
		Raw:        d.sliceSince(start),
		Unknown:    true,
	}
}

func (d *Decoder) readOperands(e isa.Entry) []Operand {
	switch e.Layout {
	case isa.LayoutNone:
		return nil
	case isa.LayoutImm8:
		return []Operand{{Kind: KindImm8, Value: d.readLE(1)}}
	case isa.LayoutImm16:
		return []Operand{{Kind: KindImm16, Value: d.readLE(2)}}
	case isa.LayoutImm32:
		return []Operand{{Kind: KindImm32, Value: d.readLE(4)}}
	case isa.LayoutImm64:
		return []Operand{{Kind: KindImm64, Value: d.readLE(8)}}
	case isa.LayoutReg8:
		return []Operand{{Kind: KindRegister, Value: d.readLE(1)}}
	case isa.LayoutReg16:
		return []Operand{{Kind: KindRegister, Value: d.readLE(2)}}
	case isa.LayoutImm8Reg8:
		return []Operand{
			{Kind: KindImm8, Value: d.readLE(1)},
			{Kind: KindRegister, Value: d.readLE(1)},
		}
	case isa.LayoutImm8StrID16:
		return []Operand{
			{Kind: KindImm8, Value: d.readLE(1)},
			{Kind: KindStringID, Value: d.readLE(2)},
		}
	case isa.LayoutReg8Imm8StrID16:
		return []Operand{
			{Kind: KindRegister, Value: d.readLE(1)},
			{Kind: KindImm8, Value: d.readLE(1)},
			{Kind: KindStringID, Value: d.readLE(2)},
		}
	case isa.LayoutImm16StrID16:
		return []Operand{
			{Kind: KindImm16, Value: d.readLE(2)},
			{Kind: KindStringID, Value: d.readLE(2)},
		}
	case isa.LayoutReg8Reg8:
		return []Operand{
			{Kind: KindRegister, Value: d.readLE(1)},
			{Kind: KindRegister, Value: d.readLE(1)},
		}
	case isa.LayoutReg8Reg8Reg8:
		return []Operand{
			{Kind: KindRegister, Value: d.readLE(1)},
			{Kind: KindRegister, Value: d.readLE(1)},
			{Kind: KindRegister, Value: d.readLE(1)},
		}
	case isa.LayoutReg8Reg8Reg8Reg8:
		return []Operand{
			{Kind: KindRegister, Value: d.readLE(1)},
			{Kind: KindRegister, Value: d.readLE(1)},
			{Kind: KindRegister, Value: d.readLE(1)},
			{Kind: KindRegister, Value: d.readLE(1)},
		}
	case isa.LayoutImm8RegN:
		imm := d.readLE(1)
		base := d.readLE(1)
		return []Operand{
			{Kind: KindImm8, Value: imm},
			{Kind: KindRegister, Value: base},
		}
	case isa.LayoutImm16Reg8:
		return []Operand{
			{Kind: KindImm16, Value: d.readLE(2)},
			{Kind: KindRegister, Value: d.readLE(1)},
		}
	case isa.LayoutJumpOffset8:
		v := d.readLE(1)
		return []Operand{{Kind: KindJumpOffset, Value: v, Signed: signExtend(v, 8)}}
	case isa.LayoutJumpOffset16:
		v := d.readLE(2)
		return []Operand{{Kind: KindJumpOffset, Value: v, Signed: signExtend(v, 16)}}
	case isa.LayoutJumpOffset32:
		v := d.readLE(4)
		return []Operand{{Kind: KindJumpOffset, Value: v, Signed: signExtend(v, 32)}}
	case isa.LayoutComplexClassDef:
		// Class-definition bodies are out of scope; the
		// decoder records the literal-array id that anchors the
		// definition and lets the SSA constructor treat the rest as
		// opaque, matching the unknown-opcode size-inference policy.
		return []Operand{{Kind: KindLiteralArrayID, Value: d.readLE(2)}}
	default:
		return nil
	}
}

// All decodes every instruction in buf, for callers (e.g. the CFG
// analyzer) that need the full list rather than a pull-based stream.
func All(catalog *isa.Catalog, buf []byte) []Record {
	d := New(catalog, buf)
	var out []Record
	for {
		r, ok := d.Next()
		if !ok {
			break
		}
		out = append(out, r)
	}
	return out
}
