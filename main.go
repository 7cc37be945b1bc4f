package main

import (
	"fmt"
	"os"

	"github.com/vchilikov/keyoverlap/internal/runner"
)

func main() {
	code, err := execute(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "keyoverlap: %v\n", err)
	}
	os.Exit(code)
}

// execute runs the root command and maps errors that happen before a run
// starts onto the runtime failure code.
func execute(args []string) (int, error) {
	cmd, code := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if *code == runner.ExitSuccess {
			*code = runner.ExitRuntimeFail
		}
		return *code, err
	}
	return *code, nil
}
