package keywords

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Schema is the CUE schema a keyword table document must satisfy.
const Schema = `
languages: [...{
	code:      =~"^[a-z]{2}$"
	name:      string
	direction: "ltr" | "rtl"
}]
keywords: [string]: [string]: string
`

// LoadCUE builds a table from a CUE document validated against Schema.
// filename is used in error positions only.
func LoadCUE(filename string, src []byte) (*Table, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString("close({" + Schema + "})")
	if err := schema.Err(); err != nil {
		return nil, err
	}
	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("keyword table: %w", err)
	}
	value = schema.Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("keyword table: %w", err)
	}
	var file tableFile
	if err := value.Decode(&file); err != nil {
		return nil, fmt.Errorf("keyword table: %w", err)
	}
	t, err := file.build()
	if err != nil {
		return nil, fmt.Errorf("keyword table: %w", err)
	}
	return t, nil
}
