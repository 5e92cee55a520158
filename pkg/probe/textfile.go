package probe

import (
	"fmt"

	"github.com/mackerelio/checkers"
	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile exports the numeric metrics of an outcome in the node
// exporter textfile format.
func WriteTextfile(path, probeName string, outcome *Outcome) error {
	registry := prometheus.NewRegistry()

	metricValue := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nagios_probe_metric",
			Help: "numeric metric collected by the probe",
		},
		[]string{"probe", "metric", "group"})
	stateValue := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nagios_probe_state",
			Help: "plugin state: 0 ok, 1 warning, 2 critical, 3 unknown",
		},
		[]string{"probe"})
	responseTime := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nagios_probe_response_time_seconds",
			Help: "duration of the status request",
		},
		[]string{"probe"})

	for _, col := range []prometheus.Collector{metricValue, stateValue, responseTime} {
		if err := registry.Register(col); err != nil {
			return fmt.Errorf("register metric: %s", err.Error())
		}
	}

	state := checkers.UNKNOWN
	if outcome.Report != nil {
		state = outcome.Report.Severity
	}
	stateValue.WithLabelValues(probeName).Set(float64(ExitCode(state)))

	if outcome.Payload != nil {
		responseTime.WithLabelValues(probeName).Set(outcome.Payload.ResponseTime())
	}

	if outcome.Metrics != nil {
		exportMetrics(metricValue, probeName, "", outcome.Metrics)
		for _, grp := range outcome.Metrics.Groups() {
			exportMetrics(metricValue, probeName, grp.Name, grp.Metrics)
		}
	}

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write textfile %s: %s", path, err.Error())
	}
	log.Debugf("wrote metrics to %s", path)

	return nil
}

func exportMetrics(vec *prometheus.GaugeVec, probeName, group string, metrics *MetricSet) {
	for _, name := range metrics.Names() {
		val, _ := metrics.Get(name)
		if !val.IsNumeric() {
			continue
		}
		num, _ := val.Float64()
		vec.WithLabelValues(probeName, name, group).Set(num)
	}
}
