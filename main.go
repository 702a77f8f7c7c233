package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/vendorsync/cmd/cli"
	"github.com/temirov/vendorsync/internal/audit"
)

const (
	exitErrorTemplateConstant = "%v\n"
	exitCodeFailureConstant   = 1
)

// main executes the vendorsync command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		// the summary already lists every finding
		if !errors.Is(executionError, audit.ErrSyncCheckFailed) {
			fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		}
		os.Exit(exitCodeFailureConstant)
	}
}
