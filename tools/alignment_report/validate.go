package alignment_report

import (
	"fmt"
	"strings"
)

// ValidateSampleNames checks that the per-read stats and the flagstat tables
// describe exactly the same samples. Both sets are computed independently at
// load time; any difference aborts the run before a report is assembled.
func ValidateSampleNames(stats, flagstat Categories) error {
	if stats.Equal(flagstat) {
		return nil
	}

	var detail []string
	if only := stats.Difference(flagstat); len(only) > 0 {
		detail = append(detail, "only in stats: "+strings.Join(only, ", "))
	}
	if only := flagstat.Difference(stats); len(only) > 0 {
		detail = append(detail, "only in flagstat: "+strings.Join(only, ", "))
	}
	return fmt.Errorf("%w (%s)", ErrValidation, strings.Join(detail, "; "))
}
