package main

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
)

// runDoctor checks the tools that consume -emit-llvm output and returns
// an exit code.
func runDoctor(w io.Writer) int {
	fmt.Fprintln(w, "Seen Toolchain Doctor")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "seenc:   %s (%s)\n", Version, runtime.Version())

	allOk := true

	// clang (required)
	clangVersion, clangOk := checkTool("clang", "--version")
	fmt.Fprintf(w, "clang:   %s", clangVersion)
	if clangOk {
		fmt.Fprintln(w, " ✓")
	} else {
		fmt.Fprintln(w, " ✗ (not found)")
		allOk = false
	}

	for _, tool := range []string{"opt", "llvm-as"} {
		v, ok := checkTool(tool, "--version")
		fmt.Fprintf(w, "%-8s %s", tool+":", v)
		if ok {
			fmt.Fprintln(w, " ✓")
		} else {
			fmt.Fprintln(w, " (optional, not found)")
		}
	}

	fmt.Fprintln(w)
	if allOk {
		fmt.Fprintln(w, "All required tools available!")
		return 0
	}
	fmt.Fprintln(w, "Some required tools are missing.")
	return 1
}

// checkTool runs a tool with the given arguments and returns the first line of output.
func checkTool(name string, args ...string) (string, bool) {
	cmd := exec.Command(name, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}

	line, _, _ := strings.Cut(string(out), "\n")
	line = strings.TrimSpace(line)
	// Truncate long lines
	if len(line) > 60 {
		line = line[:57] + "..."
	}
	return line, true
}
