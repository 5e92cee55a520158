package checks

import (
	"context"
	"fmt"
	"io"

	"github.com/jansouza/nagios-plugins/pkg/probe"
	"github.com/jansouza/nagios-plugins/pkg/threshold"
)

type nginxOpts struct {
	CommonOptions
	SSL          bool   `long:"ssl" description:"Enable SSL request, default port changes to 443"`
	Context      string `short:"u" long:"url" required:"true" description:"Status URL context, ex.: /nginx_status"`
	ResponseTime string `short:"T" long:"response-time" description:"Response time in seconds -T WARN,CRIT, ex.: -T 0.1,0.5"`
	CurrentConn  string `short:"C" long:"current-connections" description:"Active connections -C WARN,CRIT, ex.: -C 30,50"`
}

// CheckNginx queries the stub_status page.
func CheckNginx(ctx context.Context, output io.Writer, args []string) int {
	return runProbe(ctx, output, "check_nginx", &nginxOpts{}, args)
}

func (o *nginxOpts) build() (probe.Collector, *probe.Descriptor, error) {
	thresholds := thresholdParser{}
	respTime := thresholds.parse("-T", o.ResponseTime, threshold.HighIsBad)
	active := thresholds.parse("-C", o.CurrentConn, threshold.HighIsBad)
	if thresholds.err != nil {
		return nil, nil, thresholds.err
	}

	ep := o.endpoint(80, 443, o.SSL, o.Context)

	desc := &probe.Descriptor{
		Name:    "nginx",
		Dialect: &probe.Dialect{Kind: probe.DialectStatusBlock},
		Derive: func(metrics *probe.MetricSet) error {
			if err := metrics.Require("derived", "requests", "handled"); err != nil {
				return err
			}
			requests, _ := metrics.Float("requests")
			handled, _ := metrics.Float("handled")
			metrics.SetFloat("requests_per_conn", probe.Ratio(requests, handled))

			return nil
		},
		Checks: []probe.Check{
			{Metric: probe.MetricResponseTime, Threshold: respTime},
			{Metric: "active", Name: "Current Connections", Threshold: active},
		},
		Perf: []probe.PerfSpec{
			{Metric: probe.MetricResponseTime, Threshold: respTime, Min: probe.Bound(0)},
			{Metric: "active", Threshold: active, Min: probe.Bound(0)},
			{Metric: "requests_per_conn"},
		},
		Summary: func(_ *probe.MetricSet, payload *probe.RawPayload) (string, error) {
			return fmt.Sprintf("%s - %d", payload.URL, payload.StatusCode), nil
		},
	}

	return probe.NewHTTPCollector(ep), desc, nil
}
