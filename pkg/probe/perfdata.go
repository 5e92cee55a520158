package probe

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jansouza/nagios-plugins/pkg/convert"
	"github.com/jansouza/nagios-plugins/pkg/threshold"
)

// PerfDatum contains a single performance value.
type PerfDatum struct {
	Label    string
	Value    Value
	Unit     string
	Warning  *float64
	Critical *float64
	Min      *float64
	Max      *float64
}

// String returns label=value[unit];warn;crit;min;max. Missing fields stay
// empty so positions never move.
func (p *PerfDatum) String() string {
	var res bytes.Buffer

	label := p.Label
	if strings.ContainsAny(label, " ='") {
		label = fmt.Sprintf("'%s'", strings.ReplaceAll(label, "'", ""))
	}
	res.WriteString(fmt.Sprintf("%s=%s%s", label, p.Value.String(), p.Unit))

	for _, num := range []*float64{p.Warning, p.Critical, p.Min, p.Max} {
		res.WriteString(";")
		if num != nil {
			res.WriteString(convert.Num2String(*num))
		}
	}

	return res.String()
}

// PerfData is the list of performance values of one run.
type PerfData []*PerfDatum

// String joins all entries with a space.
func (pd PerfData) String() string {
	perf := make([]string, 0, len(pd))
	for _, p := range pd {
		perf = append(perf, p.String())
	}

	return strings.Join(perf, " ")
}

// PerfSpec declares how a metric is rendered as perfdata.
type PerfSpec struct {
	// Metric is the name in the MetricSet.
	Metric string

	// Label defaults to Metric. For grouped specs it is a format string
	// receiving the group name, ex.: "%s_percent_thread".
	Label string

	Unit      string
	Threshold *threshold.Spec
	Min       *float64
	Max       *float64

	// MaxMetric takes the max field from another metric of the same set.
	MaxMetric string

	// Grouped renders one entry per group.
	Grouped bool
}

// Bound returns a pointer to num, used for Min and Max.
func Bound(num float64) *float64 {
	return &num
}

// BuildPerfData renders all specs in order. Metrics which are not present
// are left out.
func BuildPerfData(metrics *MetricSet, specs []PerfSpec) PerfData {
	perf := PerfData{}
	for i := range specs {
		spec := &specs[i]
		if !spec.Grouped {
			if datum := spec.datum(metrics, spec.label("")); datum != nil {
				perf = append(perf, datum)
			}

			continue
		}
		for _, grp := range metrics.Groups() {
			if datum := spec.datum(grp.Metrics, spec.label(grp.Name)); datum != nil {
				perf = append(perf, datum)
			}
		}
	}

	return perf
}

func (s *PerfSpec) label(group string) string {
	switch {
	case s.Label == "":
		if group != "" {
			return fmt.Sprintf("%s_%s", group, s.Metric)
		}

		return s.Metric
	case s.Grouped:
		return fmt.Sprintf(s.Label, group)
	}

	return s.Label
}

func (s *PerfSpec) datum(metrics *MetricSet, label string) *PerfDatum {
	val, ok := metrics.Get(s.Metric)
	if !ok {
		return nil
	}

	datum := &PerfDatum{
		Label: label,
		Value: val,
		Unit:  s.Unit,
		Min:   s.Min,
		Max:   s.Max,
	}
	if s.Threshold != nil {
		datum.Warning = s.Threshold.Warning
		datum.Critical = s.Threshold.Critical
	}
	if s.MaxMetric != "" {
		if max, ok := metrics.Float(s.MaxMetric); ok {
			datum.Max = Bound(max)
		}
	}

	return datum
}
