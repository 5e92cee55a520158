package checks

import (
	"context"
	"fmt"
	"io"

	"github.com/jansouza/nagios-plugins/pkg/probe"
	"github.com/jansouza/nagios-plugins/pkg/threshold"
)

type apacheOpts struct {
	CommonOptions
	SSL          bool   `long:"ssl" description:"Enable SSL request, default port changes to 443"`
	Context      string `short:"u" long:"url" default:"/server-status" description:"Status URL context"`
	ResponseTime string `short:"T" long:"response-time" description:"Response time in seconds -T WARN,CRIT, ex.: -T 0.1,0.5"`
	CurrentConn  string `short:"C" long:"current-connections" description:"Busy workers -C WARN,CRIT, ex.: -C 30,50"`
	IdleWorkers  string `short:"I" long:"idle-workers" description:"Idle workers, low values are bad -I WARN,CRIT, ex.: -I 5,1"`
}

// CheckApache queries the mod_status page in machine readable form.
func CheckApache(ctx context.Context, output io.Writer, args []string) int {
	return runProbe(ctx, output, "check_apache", &apacheOpts{}, args)
}

func (o *apacheOpts) build() (probe.Collector, *probe.Descriptor, error) {
	thresholds := thresholdParser{}
	respTime := thresholds.parse("-T", o.ResponseTime, threshold.HighIsBad)
	busy := thresholds.parse("-C", o.CurrentConn, threshold.HighIsBad)
	idle := thresholds.parse("-I", o.IdleWorkers, threshold.LowIsBad)
	if thresholds.err != nil {
		return nil, nil, thresholds.err
	}

	ep := o.endpoint(80, 443, o.SSL, o.Context+"?auto")

	desc := &probe.Descriptor{
		Name: "apache",
		Dialect: &probe.Dialect{
			Kind: probe.DialectKeyValue,
			Fields: []probe.Field{
				{Key: "ServerVersion", Name: "server_version", Kind: probe.KindString},
				{Key: "Total Accesses", Name: "total_accesses", Kind: probe.KindInt},
				{Key: "Total kBytes", Name: "total_kbytes", Kind: probe.KindInt},
				{Key: "CPULoad", Name: "cpuload", Kind: probe.KindFloat},
				{Key: "Uptime", Name: "uptime", Kind: probe.KindInt},
				{Key: "ReqPerSec", Name: "requests_per_second", Kind: probe.KindFloat},
				{Key: "BytesPerSec", Name: "bytes_per_second", Kind: probe.KindFloat},
				{Key: "BytesPerReq", Name: "bytes_per_request", Kind: probe.KindFloat},
				{Key: "BusyWorkers", Name: "busy_workers", Kind: probe.KindInt},
				{Key: "IdleWorkers", Name: "idle_workers", Kind: probe.KindInt},
			},
			Scoreboard: "Scoreboard",
		},
		Checks: []probe.Check{
			{Metric: probe.MetricResponseTime, Threshold: respTime},
			{Metric: "busy_workers", Name: "Current Connections", Threshold: busy},
			{Metric: "idle_workers", Threshold: idle},
		},
		Perf: []probe.PerfSpec{
			{Metric: probe.MetricResponseTime, Threshold: respTime, Min: probe.Bound(0)},
			{Metric: "busy_workers", Threshold: busy, Min: probe.Bound(0)},
			{Metric: "idle_workers", Threshold: idle},
			{Metric: "requests_per_second"},
			{Metric: "bytes_per_second"},
			{Metric: "bytes_per_request"},
		},
		Summary: func(metrics *probe.MetricSet, _ *probe.RawPayload) (string, error) {
			uptime, err := probe.DeriveUptime(metrics, "uptime")
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("%s on %s, up %s", metrics.Text("server_version"), ep.HostPort(), uptime), nil
		},
	}

	return probe.NewHTTPCollector(ep), desc, nil
}
