package probe

import (
	"strings"

	"github.com/mackerelio/checkers"
)

var severityLabels = map[checkers.Status]string{
	checkers.OK:       "OK",
	checkers.WARNING:  "WARNING",
	checkers.CRITICAL: "CRITICAL",
	checkers.UNKNOWN:  "UNKNOWN",
}

// Label returns the plugin output prefix of a severity.
func Label(severity checkers.Status) string {
	if label, ok := severityLabels[severity]; ok {
		return label
	}

	return "UNKNOWN"
}

// ExitCode maps a severity to the process exit code. Everything which is not
// OK, WARNING or CRITICAL exits with 3.
func ExitCode(severity checkers.Status) int {
	switch severity {
	case checkers.OK, checkers.WARNING, checkers.CRITICAL:
		return int(severity)
	}

	return int(checkers.UNKNOWN)
}

// Report is the final result of a run.
type Report struct {
	Severity checkers.Status
	Message  string
	Summary  string
	Perf     PerfData
}

// String renders the single output line:
//
//	<LABEL> - [<message> - ]<summary> | <perfdata>
func (r *Report) String() string {
	parts := []string{Label(r.Severity)}
	if r.Message != "" {
		parts = append(parts, r.Message)
	}
	if r.Summary != "" {
		parts = append(parts, r.Summary)
	}
	output := strings.Join(parts, " - ")
	if len(r.Perf) > 0 {
		output += " | " + r.Perf.String()
	}

	// exactly one line
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(output)
}

// ExitCode returns the process exit code of the report.
func (r *Report) ExitCode() int {
	return ExitCode(r.Severity)
}
