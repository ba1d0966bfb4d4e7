package ssa

import "fmt"

// BlockKind describes how a basic block terminates.
type BlockKind int

const (
	BlockInvalid BlockKind = iota
	BlockJump              // unconditional jump to Succs[0]
	BlockBranch            // if Controls[0] then Succs[0] else Succs[1]
	BlockReturn            // function return; Controls[0] = result, nil for Void
)

var blockKindNames = [...]string{
	BlockInvalid: "invalid",
	BlockJump:    "jump",
	BlockBranch:  "branch",
	BlockReturn:  "ret",
}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block is a basic block in the control flow graph: a sequence of
// non-branching Values followed by the terminator described by Kind.
type Block struct {
	ID ID

	Kind BlockKind

	// Hint names the construct the block was lowered from, such as
	// "if.then" or "while.cond". The entry block has no hint.
	Hint string

	// Controls holds the terminator's operand values.
	Controls []*Value

	// Succs lists the successor blocks. For BlockBranch, Succs[0] is
	// taken when the condition holds.
	Succs []*Block

	Preds []*Block

	Values []*Value

	Func *Func

	// Dominator tree, filled in by ComputeDom.
	Idom     *Block
	Dominees []*Block
}

// String returns a short string representation (e.g., "b3").
func (b *Block) String() string {
	return fmt.Sprintf("b%d", b.ID)
}

// AddSucc adds a successor block, updating both Succs and the successor's Preds.
func (b *Block) AddSucc(succ *Block) {
	b.Succs = append(b.Succs, succ)
	succ.Preds = append(succ.Preds, b)
}

// SetControl sets the branch or return control value.
func (b *Block) SetControl(v *Value) {
	b.Controls = []*Value{v}
	if v != nil {
		v.Uses++
	}
}

// Terminated reports whether the block's terminator has been set.
func (b *Block) Terminated() bool {
	return b.Kind != BlockInvalid
}

// NumSuccs returns the number of successor blocks.
func (b *Block) NumSuccs() int { return len(b.Succs) }

// NumPreds returns the number of predecessor blocks.
func (b *Block) NumPreds() int { return len(b.Preds) }
