package checks

import (
	"context"
	"fmt"
	"io"

	"github.com/jansouza/nagios-plugins/pkg/convert"
	"github.com/jansouza/nagios-plugins/pkg/probe"
	"github.com/jansouza/nagios-plugins/pkg/threshold"
)

type solrOpts struct {
	CommonOptions
	BasicAuthOptions
	SSL     bool   `long:"ssl" description:"Enable SSL request"`
	MemUsed string `short:"M" long:"mem-used" description:"Percent of used heap memory -M WARN,CRIT, ex.: -M 80,90"`
}

// CheckSolr queries the system info handler of a solr node.
func CheckSolr(ctx context.Context, output io.Writer, args []string) int {
	return runProbe(ctx, output, "check_solr", &solrOpts{}, args)
}

func (o *solrOpts) build() (probe.Collector, *probe.Descriptor, error) {
	thresholds := thresholdParser{}
	memUsed := thresholds.parse("-M", o.MemUsed, threshold.HighIsBad)
	if thresholds.err != nil {
		return nil, nil, thresholds.err
	}

	ep := o.endpoint(8983, 8983, o.SSL, "/solr/admin/info/system?wt=json")
	ep.Credentials = o.credentials()

	desc := &probe.Descriptor{
		Name: "solr",
		Dialect: &probe.Dialect{
			Kind: probe.DialectJSON,
			Fields: []probe.Field{
				{Key: "lucene.solr-spec-version", Name: "version", Kind: probe.KindString},
				{Key: "jvm.jmx.upTimeMS", Name: "uptime_ms", Kind: probe.KindInt},
				{Key: "jvm.memory.raw.used%", Name: "heap_percent_raw", Kind: probe.KindFloat},
				{Key: "jvm.memory.raw.used", Name: "heap_used", Kind: probe.KindInt},
				{Key: "jvm.memory.raw.max", Name: "heap_max", Kind: probe.KindInt},
			},
		},
		Derive: func(metrics *probe.MetricSet) error {
			if err := metrics.Require("derived", "heap_percent_raw", "uptime_ms"); err != nil {
				return err
			}
			pct, _ := metrics.Float("heap_percent_raw")
			metrics.SetFloat("heap_percent_used", convert.ToPrecision(pct, probe.PrecisionPercent))
			uptime, _ := metrics.Int("uptime_ms")
			metrics.SetInt("uptime", uptime/1000)

			return nil
		},
		Checks: []probe.Check{
			{Metric: "heap_percent_used", Name: "Memory Used", Threshold: memUsed},
		},
		Perf: []probe.PerfSpec{
			{Metric: "heap_percent_used", Unit: "%", Threshold: memUsed},
			{Metric: "heap_used", Min: probe.Bound(0), MaxMetric: "heap_max"},
		},
		Summary: func(metrics *probe.MetricSet, _ *probe.RawPayload) (string, error) {
			uptime, err := probe.DeriveUptime(metrics, "uptime")
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("solr %s on %s, up %s", metrics.Text("version"), ep.HostPort(), uptime), nil
		},
	}

	return probe.NewHTTPCollector(ep), desc, nil
}
