package probe

import (
	"context"
	"fmt"
	"io"

	"github.com/jansouza/nagios-plugins/pkg/convert"
	"github.com/mackerelio/checkers"
)

// MetricResponseTime is added to every MetricSet after a successful collect.
const MetricResponseTime = "response_time"

// Descriptor declares everything a probe needs besides the collector.
type Descriptor struct {
	Name    string
	Dialect *Dialect

	// Derive adds secondary metrics, errors result in UNKNOWN.
	Derive func(metrics *MetricSet) error

	// Checks are evaluated in order, the first breach ends the evaluation.
	Checks []Check

	// Perf lists all perfdata entries, they are rendered regardless of the verdict.
	Perf []PerfSpec

	// Summary returns the text after the severity label.
	Summary func(metrics *MetricSet, payload *RawPayload) (string, error)
}

// Outcome contains the report plus the intermediate results of a run.
type Outcome struct {
	Report  *Report
	Metrics *MetricSet
	Payload *RawPayload
	Err     error
}

// ExitCode returns the process exit code.
func (o *Outcome) ExitCode() int {
	return o.Report.ExitCode()
}

// Write prints the output line and returns the exit code.
func (o *Outcome) Write(output io.Writer) int {
	fmt.Fprintf(output, "%s\n", o.Report.String())

	return o.ExitCode()
}

// Run executes collect, parse, derive, evaluate and report. It never returns
// nil, every failure is turned into a report.
func Run(ctx context.Context, collector Collector, desc *Descriptor) (outcome *Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("%s: panic: %v", desc.Name, rec)
			outcome = &Outcome{
				Report: &Report{Severity: checkers.UNKNOWN, Message: fmt.Sprintf("%s: internal error: %v", desc.Name, rec)},
				Err:    fmt.Errorf("panic: %v", rec),
			}
		}
	}()

	payload, err := collector.Collect(ctx)
	if err != nil {
		log.Debugf("%s: collect failed: %s", desc.Name, err.Error())

		return &Outcome{
			Report: &Report{Severity: checkers.CRITICAL, Message: err.Error()},
			Err:    err,
		}
	}

	outcome = &Outcome{Payload: payload}
	unknown := func(err error) *Outcome {
		log.Debugf("%s: %s", desc.Name, err.Error())
		outcome.Err = err
		outcome.Report = &Report{
			Severity: checkers.UNKNOWN,
			Message:  err.Error(),
			Summary:  fmt.Sprintf("%s %s", MetricResponseTime, convert.Num2String(payload.ResponseTime())),
		}

		return outcome
	}

	metrics, err := desc.Dialect.Parse(payload.Body)
	if err != nil {
		return unknown(err)
	}
	metrics.SetFloat(MetricResponseTime, payload.ResponseTime())
	outcome.Metrics = metrics

	if desc.Derive != nil {
		if err = desc.Derive(metrics); err != nil {
			return unknown(err)
		}
	}
	log.Debugf("%s: metrics: %s", desc.Name, metrics.Dump())

	verdict, err := Evaluate(metrics, desc.Checks)
	if err != nil {
		return unknown(err)
	}

	summary := ""
	if desc.Summary != nil {
		summary, err = desc.Summary(metrics, payload)
		if err != nil {
			return unknown(err)
		}
	}

	report := &Report{
		Severity: verdict.Severity,
		Summary:  summary,
		Perf:     BuildPerfData(metrics, desc.Perf),
	}
	if verdict.Breach != nil {
		report.Message = verdict.Breach.Error()
		outcome.Err = verdict.Breach
	}
	outcome.Report = report

	return outcome
}
