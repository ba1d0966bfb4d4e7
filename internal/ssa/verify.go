package ssa

import (
	"fmt"
	"slices"
	"strings"

	"github.com/seen-lang/seen/internal/types"
)

// Verify checks the structural integrity of a function. It returns an
// error describing all violations found, or nil if valid.
func Verify(f *Func) error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if f.Entry == nil || len(f.Blocks) == 0 {
		add("func %s: no entry block", f.Name)
		return combineErrors(errs)
	}
	if f.Blocks[0] != f.Entry {
		add("func %s: Blocks[0] is not the entry block", f.Name)
	}

	// 1. Entry block has no predecessors
	if len(f.Entry.Preds) != 0 {
		add("func %s: entry block %s has %d predecessors, want 0",
			f.Name, f.Entry, len(f.Entry.Preds))
	}

	blockSet := make(map[*Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		blockSet[b] = true
	}
	valueSet := make(map[*Value]bool)

	for _, b := range f.Blocks {
		// 2. Every block is terminated
		if !b.Terminated() {
			add("func %s, %s: block has no terminator", f.Name, b)
		}

		// 3. Block's Func pointer matches
		if b.Func != f {
			add("func %s, %s: block Func pointer mismatch", f.Name, b)
		}

		seenNonPhi := false
		for _, v := range b.Values {
			valueSet[v] = true

			// 4. Every Value's Block pointer matches its containing block
			if v.Block != b {
				add("func %s, %s, %s: value Block pointer is %s, want %s",
					f.Name, b, v, v.Block, b)
			}

			// 5. Non-void values have a type; calls of Void functions are
			// the exception.
			if !v.Op.IsVoid() && v.Type == nil && !v.Op.IsCall() {
				add("func %s, %s, %s (%s): non-void value has nil Type",
					f.Name, b, v, v.Op)
			}

			// 6. Args are non-nil
			for i, arg := range v.Args {
				if arg == nil {
					add("func %s, %s, %s: arg[%d] is nil", f.Name, b, v, i)
				}
			}

			// 7. Phis come first and have one arg per predecessor
			if v.Op == OpPhi {
				if seenNonPhi {
					add("func %s, %s, %s: phi after non-phi value", f.Name, b, v)
				}
				if len(v.Args) != len(b.Preds) {
					add("func %s, %s, %s: phi has %d args but block has %d preds",
						f.Name, b, v, len(v.Args), len(b.Preds))
				}
			} else {
				seenNonPhi = true
			}

			// 8. Memory operands are pointers
			switch v.Op {
			case OpLoad, OpStore, OpFieldPtr:
				if len(v.Args) > 0 && v.Args[0] != nil {
					if _, ok := v.Args[0].Type.(*types.Pointer); !ok {
						add("func %s, %s, %s (%s): address operand %s has type %s",
							f.Name, b, v, v.Op, v.Args[0], v.Args[0].Type)
					}
				}
			}
		}

		// 9. Terminator shape
		switch b.Kind {
		case BlockJump:
			if len(b.Succs) != 1 {
				add("func %s, %s: jump block has %d succs, want 1",
					f.Name, b, len(b.Succs))
			}
		case BlockBranch:
			if len(b.Controls) != 1 || b.Controls[0] == nil {
				add("func %s, %s: branch block has no condition", f.Name, b)
			} else if !types.IsBoolean(b.Controls[0].Type) {
				add("func %s, %s: branch condition %s has type %s",
					f.Name, b, b.Controls[0], b.Controls[0].Type)
			}
			if len(b.Succs) != 2 {
				add("func %s, %s: branch block has %d succs, want 2",
					f.Name, b, len(b.Succs))
			}
		case BlockReturn:
			if len(b.Succs) != 0 {
				add("func %s, %s: return block has %d succs, want 0",
					f.Name, b, len(b.Succs))
			}
			if f.Sig != nil {
				void := types.IsVoid(f.Sig.Result())
				hasResult := len(b.Controls) > 0 && b.Controls[0] != nil
				if void && hasResult {
					add("func %s, %s: Void function returns a value", f.Name, b)
				}
				if !void && !hasResult {
					add("func %s, %s: missing return value of type %s",
						f.Name, b, f.Sig.Result())
				}
			}
		}

		// 10. Succs/Preds edge consistency
		for _, succ := range b.Succs {
			if !blockSet[succ] {
				add("func %s, %s: successor %s not in function", f.Name, b, succ)
				continue
			}
			if !slices.Contains(succ.Preds, b) {
				add("func %s, %s: successor %s does not have %s as predecessor",
					f.Name, b, succ, b)
			}
		}
		for _, pred := range b.Preds {
			if !blockSet[pred] {
				add("func %s, %s: predecessor %s not in function", f.Name, b, pred)
				continue
			}
			if !slices.Contains(pred.Succs, b) {
				add("func %s, %s: predecessor %s does not have %s as successor",
					f.Name, b, pred, b)
			}
		}
	}

	// 11. Args and controls reference values of this function
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg != nil && !valueSet[arg] {
					add("func %s, %s, %s: arg[%d] (%s) not found in function",
						f.Name, b, v, i, arg)
				}
			}
		}
		for i, c := range b.Controls {
			if c != nil && !valueSet[c] {
				add("func %s, %s: control[%d] (%s) not found in function",
					f.Name, b, i, c)
			}
		}
	}

	return combineErrors(errs)
}

// VerifyDom checks that every definition dominates its uses. It calls
// Verify first and computes the dominator tree itself.
func VerifyDom(f *Func) error {
	if err := Verify(f); err != nil {
		return err
	}
	ComputeDom(f)

	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	reachable := make(map[*Block]bool)
	for _, b := range ReversePostOrder(f) {
		reachable[b] = true
	}

	// 1. Entry Idom must be nil.
	if f.Entry.Idom != nil {
		add("func %s: entry %s has non-nil Idom %s", f.Name, f.Entry, f.Entry.Idom)
	}

	// 2. All reachable non-entry blocks must have non-nil Idom != self.
	for _, b := range f.Blocks {
		if !reachable[b] || b == f.Entry {
			continue
		}
		if b.Idom == nil {
			add("func %s, %s: reachable block has nil Idom", f.Name, b)
		} else if b.Idom == b {
			add("func %s, %s: block is its own Idom", f.Name, b)
		}
	}

	valIdx := make(map[*Value]int)
	for _, b := range f.Blocks {
		for i, v := range b.Values {
			valIdx[v] = i
		}
	}

	// 3. Non-phi args are defined earlier in the same block or in a
	// dominating block.
	for _, b := range f.Blocks {
		if !reachable[b] {
			continue
		}
		for _, v := range b.Values {
			if v.Op == OpPhi {
				continue
			}
			for i, arg := range v.Args {
				if arg == nil {
					continue
				}
				if arg.Block == b {
					if valIdx[arg] >= valIdx[v] {
						add("func %s, %s, %s: arg[%d] %s defined at index %d, used at index %d (same block)",
							f.Name, b, v, i, arg, valIdx[arg], valIdx[v])
					}
				} else if !Dominates(arg.Block, b) {
					add("func %s, %s, %s: arg[%d] %s defined in %s which does not dominate %s",
						f.Name, b, v, i, arg, arg.Block, b)
				}
			}
		}
	}

	// 4. Phi arg i is defined in a block dominating Preds[i].
	for _, b := range f.Blocks {
		if !reachable[b] {
			continue
		}
		for _, v := range b.Values {
			if v.Op != OpPhi {
				continue
			}
			for i, arg := range v.Args {
				if arg == nil || i >= len(b.Preds) {
					continue
				}
				if !Dominates(arg.Block, b.Preds[i]) {
					add("func %s, %s, %s: phi arg[%d] %s defined in %s which does not dominate pred %s",
						f.Name, b, v, i, arg, arg.Block, b.Preds[i])
				}
			}
		}
	}

	// 5. Control values dominate their block.
	for _, b := range f.Blocks {
		if !reachable[b] {
			continue
		}
		for i, c := range b.Controls {
			if c != nil && !Dominates(c.Block, b) {
				add("func %s, %s: control[%d] %s defined in %s which does not dominate %s",
					f.Name, b, i, c, c.Block, b)
			}
		}
	}

	return combineErrors(errs)
}

// combineErrors creates an error from a list of error strings, or returns nil.
func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("SSA verification failed:\n  %s", strings.Join(errs, "\n  "))
}
