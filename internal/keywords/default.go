package keywords

import (
	"embed"
	"sync"
)

//go:embed languages/*.toml
var languageFiles embed.FS

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return LoadTOML(languageFiles, "languages/english.toml", "languages/arabic.toml")
})

// Default returns the built-in English and Arabic table.
func Default() *Table {
	t, err := defaultTable()
	if err != nil {
		panic(err)
	}
	return t
}
