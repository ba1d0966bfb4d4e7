package ssa

// ReversePostOrder returns the blocks reachable from f.Entry in reverse
// post-order.
func ReversePostOrder(f *Func) []*Block {
	if f.Entry == nil {
		return nil
	}
	type frame struct {
		b    *Block
		next int // index of the next successor to visit
	}
	seen := map[*Block]bool{f.Entry: true}
	stack := []frame{{b: f.Entry}}
	post := make([]*Block, 0, len(f.Blocks))
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.b.Succs) {
			s := top.b.Succs[top.next]
			top.next++
			if !seen[s] {
				seen[s] = true
				stack = append(stack, frame{b: s})
			}
			continue
		}
		post = append(post, top.b)
		stack = stack[:len(stack)-1]
	}

	rpo := make([]*Block, len(post))
	for i, b := range post {
		rpo[len(post)-1-i] = b
	}
	return rpo
}

// ComputeDom fills in Block.Idom and Block.Dominees for every block of f.
// Unreachable blocks get neither.
//
// The tree is computed on RPO indices with the iterative scheme of
// Cooper, Harvey and Kennedy: idom[i] is refined to the common ancestor
// of i's processed predecessors until nothing changes.
func ComputeDom(f *Func) {
	for _, b := range f.Blocks {
		b.Idom = nil
		b.Dominees = nil
	}
	rpo := ReversePostOrder(f)
	if len(rpo) == 0 {
		return
	}

	index := make(map[*Block]int, len(rpo))
	for i, b := range rpo {
		index[b] = i
	}

	const undef = -1
	idom := make([]int, len(rpo))
	for i := range idom {
		idom[i] = undef
	}
	idom[0] = 0

	common := func(a, b int) int {
		for a != b {
			for a > b {
				a = idom[a]
			}
			for b > a {
				b = idom[b]
			}
		}
		return a
	}

	for changed := true; changed; {
		changed = false
		for i := 1; i < len(rpo); i++ {
			d := undef
			for _, p := range rpo[i].Preds {
				j, ok := index[p]
				if !ok || idom[j] == undef {
					continue
				}
				if d == undef {
					d = j
				} else {
					d = common(j, d)
				}
			}
			if d != undef && idom[i] != d {
				idom[i] = d
				changed = true
			}
		}
	}

	for i := 1; i < len(rpo); i++ {
		if idom[i] == undef {
			continue
		}
		parent := rpo[idom[i]]
		rpo[i].Idom = parent
		parent.Dominees = append(parent.Dominees, rpo[i])
	}
}

// Dominates reports whether a dominates b. Every block dominates itself.
// ComputeDom must have been called first.
func Dominates(a, b *Block) bool {
	for ; b != nil; b = b.Idom {
		if b == a {
			return true
		}
	}
	return false
}
