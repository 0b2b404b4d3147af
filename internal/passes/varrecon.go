package passes

import (
	"fmt"

	"abcdec/internal/ir"
	"abcdec/internal/passmgr"
)

// VariableReconstruction groups each loop-variable phi with the
// copy/inc/dec/to-numeric/add-const chain that updates it through the
// back edge, via a small union-find over *ir.Value, then assigns each
// group a shared display name i1, i2, … in first-encountered order —
// the inverse of the accumulator/register flattening the decoder
// produces, recovering something closer to a source-level loop counter.
type VariableReconstruction struct{}

func (VariableReconstruction) Name() string { return "VariableReconstruction" }
func (VariableReconstruction) Description() string {
	return "assigns shared display names to loop-variable update chains"
}

type unionFind struct {
	parent map[*ir.Value]*ir.Value
	order  []*ir.Value
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[*ir.Value]*ir.Value)}
}

func (u *unionFind) find(v *ir.Value) *ir.Value {
	if _, ok := u.parent[v]; !ok {
		u.parent[v] = v
		u.order = append(u.order, v)
	}
	for u.parent[v] != v {
		u.parent[v] = u.parent[u.parent[v]]
		v = u.parent[v]
	}
	return v
}

func (u *unionFind) union(a, b *ir.Value) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

func (p VariableReconstruction) RunOnFunction(fn *ir.Function, cache *passmgr.AnalysisCache) passmgr.Result {
	uf := newUnionFind()
	for _, b := range fn.Blocks() {
		for _, inst := range b.Instructions() {
			phi, ok := inst.(*ir.PhiInst)
			if !ok {
				continue
			}
			for idx := 0; idx < phi.NumIncoming(); idx++ {
				chain, ok := updateChain(phi.IncomingValue(idx), phi.Result())
				if !ok {
					continue
				}
				uf.union(phi.Result(), phi.Result())
				for _, v := range chain {
					uf.union(phi.Result(), v)
				}
			}
		}
	}

	groups := make(map[*ir.Value][]*ir.Value)
	var roots []*ir.Value
	for _, v := range uf.order {
		r := uf.find(v)
		if _, seen := groups[r]; !seen {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], v)
	}

	modified := false
	counter := 1
	for _, r := range roots {
		members := groups[r]
		if len(members) < 2 {
			continue
		}
		name := fmt.Sprintf("i%d", counter)
		counter++
		for _, v := range members {
			if v.Name != name {
				v.Name = name
				modified = true
			}
		}
	}
	return passmgr.Success(modified)
}

// updateChain mirrors markSelfUpdate's traversal but returns the
// visited values (not instructions) for union-find grouping.
func updateChain(v, target *ir.Value) ([]*ir.Value, bool) {
	var chain []*ir.Value
	cur := v
	for steps := 0; steps < 32; steps++ {
		if cur == target {
			return chain, len(chain) > 0
		}
		if cur == nil || cur.Inst == nil {
			return nil, false
		}
		chain = append(chain, cur)
		switch inst := cur.Inst.(type) {
		case *ir.CopyInst:
			cur = inst.Src.Value()
		case *ir.UnaryInst:
			if inst.Op() != ir.OpInc && inst.Op() != ir.OpDec && inst.Op() != ir.OpToNumeric {
				return nil, false
			}
			cur = inst.X.Value()
		case *ir.BinaryInst:
			if inst.Op() != ir.OpAdd && inst.Op() != ir.OpSub {
				return nil, false
			}
			left, right := inst.Left.Value(), inst.Right.Value()
			switch {
			case left == target:
				cur = left
			case right == target:
				cur = right
			case isConstValue(right):
				cur = left
			case isConstValue(left):
				cur = right
			default:
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return nil, false
}
