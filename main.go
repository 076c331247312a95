package main

import (
	"errors"
	"fmt"
	"os"

	"aln_qc_report/config"
	report "aln_qc_report/tools/alignment_report"
)

// Exit codes. Any non-zero code means the report was not written.
const (
	ExitSuccess    = 0
	ExitFailure    = 1
	ExitDataLoad   = 2
	ExitValidation = 3
	ExitWrite      = 4
)

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, report.ErrDataLoad):
		return ExitDataLoad
	case errors.Is(err, report.ErrValidation):
		return ExitValidation
	case errors.Is(err, report.ErrWrite):
		return ExitWrite
	default:
		return ExitFailure
	}
}

// Main controller
func main() {
	err := report.NewCommand().Execute()
	if err != nil && errors.Is(err, config.ErrNameRequired) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		fmt.Fprintln(os.Stderr, "Use -h to view valid flags.")
	} else if err != nil && exitCode(err) == ExitFailure {
		// Failures after logger setup are already logged by the command.
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}
