package probe

import (
	"errors"
	"fmt"

	"github.com/jansouza/nagios-plugins/pkg/convert"
	"github.com/jansouza/nagios-plugins/pkg/threshold"
	"github.com/mackerelio/checkers"
)

// Check is one threshold comparison. Checks are evaluated in the order given.
type Check struct {
	// Metric is the name in the MetricSet.
	Metric string

	// Name is used in the output message, defaults to Metric.
	Name string

	Threshold *threshold.Spec

	// Grouped evaluates Metric in every group before the next check.
	Grouped bool
}

func (c *Check) name() string {
	if c.Name != "" {
		return c.Name
	}

	return c.Metric
}

// Verdict is the outcome of the threshold evaluation.
type Verdict struct {
	Severity checkers.Status
	Breach   *ThresholdExceeded
}

// Evaluate compares the metrics against all checks and stops at the first
// metric which is not OK. Checks without threshold are skipped. A checked
// metric which is not present results in a ParseError.
func Evaluate(metrics *MetricSet, checks []Check) (*Verdict, error) {
	for i := range checks {
		check := &checks[i]
		if !check.Threshold.IsSet() {
			continue
		}

		if !check.Grouped {
			breach, err := check.evaluate(metrics, "")
			if err != nil || breach != nil {
				return verdict(breach), err
			}

			continue
		}

		for _, grp := range metrics.Groups() {
			breach, err := check.evaluate(grp.Metrics, grp.Name)
			if err != nil || breach != nil {
				return verdict(breach), err
			}
		}
	}

	return &Verdict{Severity: checkers.OK}, nil
}

func verdict(breach *ThresholdExceeded) *Verdict {
	if breach == nil {
		return &Verdict{Severity: checkers.UNKNOWN}
	}

	return &Verdict{Severity: breach.Severity, Breach: breach}
}

func (c *Check) evaluate(metrics *MetricSet, group string) (*ThresholdExceeded, error) {
	value, ok := metrics.Float(c.Metric)
	if !ok {
		err := metrics.Require("threshold", c.Metric)
		var pErr *ParseError
		switch {
		case err == nil:
			err = &ParseError{Dialect: "threshold", Group: group, Err: fmt.Errorf("%s is not numeric", c.Metric)}
		case errors.As(err, &pErr):
			pErr.Group = group
		}

		return nil, err
	}

	state, bound := c.Threshold.Evaluate(value)
	log.Debugf("%s %s: %s (warn: %s, crit: %s) -> %s", c.name(), group, convert.Num2String(value),
		ptrString(c.Threshold.Warning), ptrString(c.Threshold.Critical), state.String())
	if state == checkers.OK {
		return nil, nil
	}

	return &ThresholdExceeded{
		Metric:    c.name(),
		Group:     group,
		Value:     value,
		Bound:     bound,
		Direction: c.Threshold.Direction,
		Severity:  state,
	}, nil
}

func ptrString(num *float64) string {
	if num == nil {
		return ""
	}

	return convert.Num2String(*num)
}
