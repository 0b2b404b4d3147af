// Package ir implements the data model of the decompiler's SSA
// intermediate representation: modules, functions, basic blocks,
// values and the use-def chains that wire them together.
package ir

import "fmt"

// Kind tags the dynamic-typing-heritage type lattice values carry.
// any is the default; TypePropagation (internal/passes) refines it
// conservatively toward a numeric kind.
type Kind int

const (
	KindAny Kind = iota
	KindI32
	KindI64
	KindBool
	KindF64
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindBool:
		return "bool"
	case KindF64:
		return "f64"
	case KindString:
		return "string"
	default:
		return "any"
	}
}

// Type is the IR's type tag. It is a plain value type, not a sum type,
// because the lattice named in the spec is closed and flat.
type Type struct {
	Kind Kind
}

func (t Type) String() string { return t.Kind.String() }

func AnyType() Type    { return Type{Kind: KindAny} }
func I32Type() Type    { return Type{Kind: KindI32} }
func I64Type() Type    { return Type{Kind: KindI64} }
func BoolType() Type   { return Type{Kind: KindBool} }
func F64Type() Type    { return Type{Kind: KindF64} }
func StringType() Type { return Type{Kind: KindString} }

func (t Type) IsNumeric() bool {
	return t.Kind == KindI32 || t.Kind == KindI64 || t.Kind == KindF64
}

// ValueKind distinguishes the five producers of a Value.
type ValueKind int

const (
	ValConstant ValueKind = iota
	ValArgument
	ValGlobal
	ValUndef
	ValInstruction
)

// ConstKind distinguishes the constant variants a Value can hold.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
	ConstUndefined
	ConstNull
	ConstNaN
	ConstPosInf
	ConstNegInf
	ConstHole
)

// Value is the sum type of everything an instruction operand can point
// at: constants, arguments, global references, the undef sentinel, and
// instruction results. Constants, arguments and globals are producers
// by construction; instructions are producers because they compute a
// result (Value.Inst is non-nil exactly when Kind == ValInstruction).
//
// Every Value owns its own use-list: the set of Use records whose
// Value field points back at it. The use-list is the inverted index
// that makes ReplaceAllUsesWith O(uses) rather than O(instructions).
type Value struct {
	Kind ValueKind
	Type Type
	Name string

	// ValConstant
	ConstKind ConstKind
	IntBits   int
	IntVal    int64
	FloatVal  float64
	StrVal    string

	// ValArgument
	ArgIndex int

	// ValGlobal
	GlobalID       int
	GlobalName     string
	GlobalExternal bool

	// ValInstruction — the unique producer instruction of this value.
	Inst Instruction

	uses []*Use
}

// Use is a directed edge "user -> used". Setting Use.Value
// via Set atomically removes the edge from the old value's use-list
// and appends it to the new value's use-list; no other code path may
// mutate a Use's target.
type Use struct {
	value *Value
	user  Instruction
}

// NewUse creates a Use of v by user and registers it on v's use-list.
// Pass a nil v to create a detached operand slot (e.g. an optional
// operand not yet wired); Set must be called before the operand is
// read.
func NewUse(v *Value, user Instruction) *Use {
	u := &Use{user: user}
	u.Set(v)
	return u
}

// Value returns the value this use currently points at.
func (u *Use) Value() *Value {
	if u == nil {
		return nil
	}
	return u.value
}

// User returns the instruction that owns this operand slot.
func (u *Use) User() Instruction { return u.user }

// Set rewrites this Use to point at v, maintaining use-list coherence
// on both the old and new target. This is the single entry point
// through which operand rewriting happens (Instruction carries
// an ordered list of Use records; mutating them must go through here).
func (u *Use) Set(v *Value) {
	if u.value == v {
		return
	}
	if u.value != nil {
		u.value.removeUse(u)
	}
	u.value = v
	if v != nil {
		v.uses = append(v.uses, u)
	}
}

func (v *Value) removeUse(u *Use) {
	for i, e := range v.uses {
		if e == u {
			v.uses = append(v.uses[:i], v.uses[i+1:]...)
			return
		}
	}
}

// Uses returns the value's use-list in insertion order. The slice is
// owned by the Value; callers must not retain it across mutations.
func (v *Value) Uses() []*Use { return v.uses }

// Users returns the distinct instructions that reference v, in the
// order their first use was recorded.
func (v *Value) Users() []Instruction {
	seen := make(map[Instruction]bool, len(v.uses))
	var out []Instruction
	for _, u := range v.uses {
		if u.user != nil && !seen[u.user] {
			seen[u.user] = true
			out = append(out, u.user)
		}
	}
	return out
}

// HasUses reports whether any instruction still references v.
func (v *Value) HasUses() bool { return len(v.uses) > 0 }

// ReplaceAllUsesWith rewrites every Use pointing at v to point at
// other, then empties v's use-list. v and other must
// be distinct; self-replacement is a no-op guard to avoid corrupting
// the use-list while iterating it.
func (v *Value) ReplaceAllUsesWith(other *Value) {
	if v == other {
		return
	}
	uses := v.uses
	v.uses = nil
	for _, u := range uses {
		u.value = other
		if other != nil {
			other.uses = append(other.uses, u)
		}
	}
}

// NewConstInt creates an integer constant of the given bit width.
func NewConstInt(val int64, bits int) *Value {
	t := I32Type()
	switch bits {
	case 64:
		t = I64Type()
	case 1:
		t = BoolType()
	}
	return &Value{Kind: ValConstant, Type: t, ConstKind: ConstInt, IntBits: bits, IntVal: val, Name: fmt.Sprintf("%d", val)}
}

// NewConstFloat creates a floating-point constant.
func NewConstFloat(val float64) *Value {
	return &Value{Kind: ValConstant, Type: F64Type(), ConstKind: ConstFloat, FloatVal: val, Name: fmt.Sprintf("%g", val)}
}

// NewConstString creates a string constant.
func NewConstString(s string) *Value {
	return &Value{Kind: ValConstant, Type: StringType(), ConstKind: ConstString, StrVal: s, Name: fmt.Sprintf("%q", s)}
}

// NewConstSpecial creates one of the special constant sentinels:
// undefined, null, NaN, +inf, -inf, hole.
func NewConstSpecial(kind ConstKind) *Value {
	names := map[ConstKind]string{
		ConstUndefined: "undefined",
		ConstNull:      "null",
		ConstNaN:       "NaN",
		ConstPosInf:    "Infinity",
		ConstNegInf:    "-Infinity",
		ConstHole:      "<hole>",
	}
	typ := AnyType()
	if kind == ConstNaN || kind == ConstPosInf || kind == ConstNegInf {
		typ = F64Type()
	}
	return &Value{Kind: ValConstant, Type: typ, ConstKind: kind, Name: names[kind]}
}

// NewArgument creates an argument value at the given index.
func NewArgument(index int, typ Type) *Value {
	return &Value{Kind: ValArgument, Type: typ, ArgIndex: index, Name: fmt.Sprintf("arg%d", index)}
}

// NewGlobal creates a global-symbol reference.
func NewGlobal(id int, name string, external bool) *Value {
	display := name
	if display == "" {
		display = fmt.Sprintf("global%d", id)
	}
	return &Value{Kind: ValGlobal, Type: AnyType(), GlobalID: id, GlobalName: name, GlobalExternal: external, Name: display}
}

// NewUndef creates an UndefValue of the given type.
func NewUndef(typ Type) *Value {
	return &Value{Kind: ValUndef, Type: typ, Name: "undef"}
}

// IsConstInt reports whether v is an integer constant and returns its value.
func (v *Value) IsConstInt() (int64, bool) {
	if v != nil && v.Kind == ValConstant && v.ConstKind == ConstInt {
		return v.IntVal, true
	}
	return 0, false
}

// IsConstant reports whether v is any kind of Constant producer.
func (v *Value) IsConstant() bool { return v != nil && v.Kind == ValConstant }
