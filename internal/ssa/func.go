package ssa

import (
	"github.com/seen-lang/seen/internal/token"
	"github.com/seen-lang/seen/internal/types"
)

// Func is a lowered function: a control flow graph of Blocks.
type Func struct {
	// Name is the source name; the synthetic initializer is named
	// InitName.
	Name string

	Sig *types.Func

	// ParamNames holds the source names of the parameters.
	ParamNames []string

	// Blocks lists the blocks in creation order; Blocks[0] is Entry.
	Blocks []*Block

	Entry *Block

	nextValueID ID
	nextBlockID ID
}

// NewFunc creates a function with the given name and signature and an
// unterminated entry block.
func NewFunc(name string, sig *types.Func) *Func {
	f := &Func{
		Name: name,
		Sig:  sig,
	}
	f.Entry = f.NewBlock(BlockInvalid, "")
	return f
}

// NewBlock creates a block with the given kind and name hint and appends
// it to the function.
func (f *Func) NewBlock(kind BlockKind, hint string) *Block {
	b := &Block{
		ID:   f.nextBlockID,
		Kind: kind,
		Hint: hint,
		Func: f,
	}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	return b
}

// NewValue creates a new Value at the end of block b.
func (f *Func) NewValue(b *Block, op Op, typ types.Type, args ...*Value) *Value {
	v := &Value{
		ID:    f.nextValueID,
		Op:    op,
		Type:  typ,
		Block: b,
	}
	f.nextValueID++
	for _, arg := range args {
		v.AddArg(arg)
	}
	b.Values = append(b.Values, v)
	return v
}

// NewValueSpan creates a new Value carrying a source span.
func (f *Func) NewValueSpan(b *Block, op Op, typ types.Type, span token.Span, args ...*Value) *Value {
	v := f.NewValue(b, op, typ, args...)
	v.Span = span
	return v
}

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValues returns the total number of values across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Values)
	}
	return n
}

// Global is a top-level val or var. Globals are zero-initialized and
// assigned by the initializer function.
type Global struct {
	Name    string
	Type    types.Type
	Mutable bool
}

// Program is the lowered form of one file.
type Program struct {
	// Globals lists the top-level variables in declaration order.
	Globals []*Global

	// Funcs lists the declared functions in source order.
	Funcs []*Func

	// Init runs the top-level statements in source order. It is nil if
	// the file has none.
	Init *Func
}

// InitName is the name of the synthetic function holding the top-level
// statements.
const InitName = "init"

// Func returns the declared function with the given name, or nil.
func (p *Program) Func(name string) *Func {
	for _, f := range p.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Main returns the user-declared main function, or nil.
func (p *Program) Main() *Func {
	return p.Func("main")
}

// AllFuncs returns the declared functions followed by Init, if any.
func (p *Program) AllFuncs() []*Func {
	all := append([]*Func(nil), p.Funcs...)
	if p.Init != nil {
		all = append(all, p.Init)
	}
	return all
}
