// Command seenc is the Seen compiler driver.
//
//	seenc [options] file.seen...   check files and emit the requested stage
//	seenc repl                     interactive session
//	seenc init [-lang ar] name     create seen.toml and main.seen
//	seenc doctor                   check the external toolchain
//	seenc version
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
)

// Version information
const Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "repl":
			return cmdRepl(args[1:], stdin, stdout, stderr)
		case "init":
			return cmdInit(args[1:], stdout, stderr)
		case "doctor":
			return runDoctor(stdout)
		case "version":
			printVersion(stdout)
			return 0
		}
	}
	return cmdBuild(args, stdout, stderr)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "seenc version %s\n", Version)
	fmt.Fprintf(w, "go version %s\n", runtime.Version())
}
