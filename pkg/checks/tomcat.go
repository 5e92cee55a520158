package checks

import (
	"context"
	"fmt"
	"io"

	"github.com/jansouza/nagios-plugins/pkg/probe"
	"github.com/jansouza/nagios-plugins/pkg/threshold"
	"github.com/jansouza/nagios-plugins/pkg/utils"
)

type tomcatOpts struct {
	CommonOptions
	BasicAuthOptions
	SSL          bool   `long:"ssl" description:"Enable SSL request, default port changes to 8443"`
	Context      string `short:"U" long:"context" default:"/manager" description:"Manager URL context"`
	ResponseTime string `short:"T" long:"response-time" description:"Response time in seconds -T WARN,CRIT, ex.: -T 0.1,0.5"`
	MemUsed      string `short:"M" long:"mem-used" description:"Percent of used heap memory -M WARN,CRIT, ex.: -M 80,90"`
	ThreadsBusy  string `short:"C" long:"threads-busy" description:"Percent of busy threads per connector -C WARN,CRIT, ex.: -C 80,90"`
}

// CheckTomcat queries the manager status page in xml format.
func CheckTomcat(ctx context.Context, output io.Writer, args []string) int {
	return runProbe(ctx, output, "check_tomcat", &tomcatOpts{}, args)
}

func (o *tomcatOpts) build() (probe.Collector, *probe.Descriptor, error) {
	thresholds := thresholdParser{}
	respTime := thresholds.parse("-T", o.ResponseTime, threshold.HighIsBad)
	memUsed := thresholds.parse("-M", o.MemUsed, threshold.HighIsBad)
	threads := thresholds.parse("-C", o.ThreadsBusy, threshold.HighIsBad)
	if thresholds.err != nil {
		return nil, nil, thresholds.err
	}

	ep := o.endpoint(8080, 8443, o.SSL, o.Context+"/status/all?XML=true")
	ep.Credentials = o.credentials()

	desc := &probe.Descriptor{
		Name: "tomcat",
		Dialect: &probe.Dialect{
			Kind:    probe.DialectXML,
			Element: "memory",
			Fields: []probe.Field{
				{Key: "free", Name: "free_memory", Kind: probe.KindInt},
				{Key: "total", Name: "total_memory", Kind: probe.KindInt},
				{Key: "max", Name: "max_memory", Kind: probe.KindInt},
			},
			GroupElement:  "connector",
			GroupChild:    "threadInfo",
			GroupNameAttr: "name",
			GroupName:     utils.TrimQuotes,
			GroupFields: []probe.Field{
				{Key: "maxThreads", Name: "max_thread", Kind: probe.KindInt},
				{Key: "currentThreadsBusy", Name: "busy_thread", Kind: probe.KindInt},
				{Key: "currentThreadCount", Name: "thread_count", Kind: probe.KindInt},
			},
		},
		Derive: deriveTomcat,
		Checks: []probe.Check{
			{Metric: probe.MetricResponseTime, Threshold: respTime},
			{Metric: "mem_used", Name: "Memory Used", Threshold: memUsed},
			{Metric: "percent_thread", Name: "Threads Busy", Threshold: threads, Grouped: true},
		},
		Perf: []probe.PerfSpec{
			{Metric: probe.MetricResponseTime, Threshold: respTime, Min: probe.Bound(0)},
			{Metric: "mem_used", Threshold: memUsed, Min: probe.Bound(0)},
			{Metric: "used_memory", Label: "heap_size", Min: probe.Bound(0), MaxMetric: "max_memory"},
			{Metric: "percent_thread", Label: "%s_percent_thread", Threshold: threads, Min: probe.Bound(0), Grouped: true},
			{Metric: "busy_thread", Label: "%s_busy_thread", Min: probe.Bound(0), MaxMetric: "max_thread", Grouped: true},
		},
		Summary: func(_ *probe.MetricSet, payload *probe.RawPayload) (string, error) {
			return fmt.Sprintf("%s - %d", payload.URL, payload.StatusCode), nil
		},
	}

	return probe.NewHTTPCollector(ep), desc, nil
}

// deriveTomcat calculates the heap usage relative to the max heap size and
// the busy thread percentage of every connector.
func deriveTomcat(metrics *probe.MetricSet) error {
	free, _ := metrics.Int("free_memory")
	total, _ := metrics.Int("total_memory")
	max, _ := metrics.Int("max_memory")

	available := free + max - total
	metrics.SetInt("available_memory", available)
	metrics.SetInt("used_memory", max-available)
	if err := probe.DerivePercent(metrics, "mem_used", "used_memory", "max_memory"); err != nil {
		return err
	}

	return probe.DeriveGroupPercent(metrics, "percent_thread", "busy_thread", "max_thread")
}
