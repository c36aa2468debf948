package main

import (
	"os"
)

func main() {
	root := newRootCommand(nil)
	if err := root.Execute(); err != nil {
		exitErr := asExitError(err)
		if !exitErr.silent {
			printFailure(os.Stderr, exitErr)
		}
		os.Exit(exitErr.code)
	}
}
