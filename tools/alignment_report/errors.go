package alignment_report

import "errors"

// Failure kinds surfaced to the command line. Each is wrapped with the detail
// of what went wrong; callers use errors.Is to tell them apart.
var (
	ErrDataLoad   = errors.New("data load failed")
	ErrValidation = errors.New("sample names do not match between input stat sources")
	ErrWrite      = errors.New("report write failed")
)
