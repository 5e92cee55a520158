package probe

import (
	"fmt"
	"strings"

	"github.com/jansouza/nagios-plugins/pkg/convert"
	"github.com/jansouza/nagios-plugins/pkg/threshold"
	"github.com/mackerelio/checkers"
)

// TransportError is returned when the status data could not be fetched:
// refused connections, timeouts, tls failures and non-2xx responses.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0:
		status := e.Status
		if status == "" {
			status = fmt.Sprintf("%d", e.StatusCode)
		}

		return fmt.Sprintf("%s failed %s: %s", e.Op, e.URL, status)
	case e.Err != nil:
		return fmt.Sprintf("%s failed %s: %s", e.Op, e.URL, e.Err.Error())
	}

	return fmt.Sprintf("%s failed %s", e.Op, e.URL)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a payload could not be interpreted.
type ParseError struct {
	Dialect    string
	Group      string
	Recognized int
	Required   int
	Missing    []string
	Err        error
}

func (e *ParseError) Error() string {
	prefix := fmt.Sprintf("cannot parse %s payload", e.Dialect)
	if e.Group != "" {
		prefix = fmt.Sprintf("%s (group %s)", prefix, e.Group)
	}

	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %s", prefix, e.Err.Error())
	case len(e.Missing) > 0:
		return fmt.Sprintf("%s: missing %s", prefix, strings.Join(e.Missing, ", "))
	}

	return fmt.Sprintf("%s: recognized %d of %d required keys", prefix, e.Recognized, e.Required)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ThresholdExceeded describes the first metric which crossed a bound.
type ThresholdExceeded struct {
	Metric    string
	Group     string
	Value     float64
	Bound     float64
	Direction threshold.Direction
	Severity  checkers.Status
}

// Error returns the message as printed in the plugin output, ex.: response_time 0.25 > 0.2
func (e *ThresholdExceeded) Error() string {
	name := e.Metric
	if e.Group != "" {
		name = fmt.Sprintf("%s %s", e.Metric, e.Group)
	}

	return fmt.Sprintf("%s %s %s %s", name, convert.Num2String(e.Value), e.Direction.String(), convert.Num2String(e.Bound))
}
