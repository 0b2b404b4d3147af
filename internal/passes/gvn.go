package passes

import (
	"fmt"

	"abcdec/internal/ir"
	"abcdec/internal/passmgr"
)

// GlobalValueNumbering hashes two pure expression shapes —
// get_property(global, name) and copy(global) — by a structural key;
// the first occurrence in program order wins and every later duplicate
// in the same block is replaced via ReplaceAllUsesWith and erased.
// Deduplication never crosses a block boundary: this function has no
// dominator analysis, and two instructions in different blocks are
// only known to execute in program order when one's block dominates
// the other's, which block-creation order alone does not establish.
// Within a block the seen-table is cleared at any instruction with a
// non-pure effect, since a call or a write through an alias can change
// what a later occurrence of the same key would read.
type GlobalValueNumbering struct{}

func (GlobalValueNumbering) Name() string        { return "GlobalValueNumbering" }
func (GlobalValueNumbering) Description() string { return "deduplicates repeated global property reads" }

func (p GlobalValueNumbering) RunOnFunction(fn *ir.Function, cache *passmgr.AnalysisCache) passmgr.Result {
	modified := false

	for _, b := range fn.Blocks() {
		seen := make(map[string]*ir.Value)
		for _, inst := range b.Instructions() {
			key, ok := gvnKey(inst)
			if !ok {
				if !isPure(inst) {
					seen = make(map[string]*ir.Value)
				}
				continue
			}
			if existing, ok := seen[key]; ok {
				inst.Result().ReplaceAllUsesWith(existing)
				ir.EraseFromParent(inst)
				modified = true
				continue
			}
			seen[key] = inst.Result()
		}
	}
	return passmgr.Success(modified)
}

func gvnKey(inst ir.Instruction) (string, bool) {
	switch i := inst.(type) {
	case *ir.ObjectInst:
		if i.Op() != ir.OpGetProperty {
			return "", false
		}
		recv := i.Receiver.Value()
		key := i.Key.Value()
		if recv == nil || recv.Kind != ir.ValGlobal || key == nil {
			return "", false
		}
		return fmt.Sprintf("getprop(global:%d,%s)", recv.GlobalID, key.StrVal), true
	case *ir.CopyInst:
		src := i.Src.Value()
		if src == nil || src.Kind != ir.ValGlobal {
			return "", false
		}
		return fmt.Sprintf("copy(global:%d)", src.GlobalID), true
	}
	return "", false
}
