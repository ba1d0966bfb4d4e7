// Package logs builds the structured logger shared by the compiler driver
// and the workspace.
package logs

import "github.com/reusee/dscope"

type Module struct {
	dscope.Module
}
