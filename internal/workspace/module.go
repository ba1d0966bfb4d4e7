package workspace

import (
	"github.com/reusee/dscope"
	"github.com/seen-lang/seen/internal/configs"
	"github.com/seen-lang/seen/internal/keywords"
	"github.com/seen-lang/seen/internal/logs"
	"github.com/seen-lang/seen/internal/syntax"
)

// Module provides a Workspace configured from the project and keyword
// table in scope.
type Module struct {
	dscope.Module
	Logs logs.Module
}

// Workspace builds the project's workspace, logging through the scoped
// logger.
func (Module) Workspace(
	project configs.Project,
	table *keywords.Table,
	logger logs.Logger,
) *Workspace {
	return New(Config{
		Lexer: syntax.LexerConfig{
			Table:    table,
			Lang:     project.Language,
			Mixed:    project.Mixed,
			TabWidth: project.TabWidth,
		},
		Workers: project.Workers,
		Logger:  logger,
	})
}
