package checks

import (
	"context"
	"io"

	"github.com/jansouza/nagios-plugins/pkg/probe"
	"github.com/jansouza/nagios-plugins/pkg/threshold"
)

type jbossOpts struct {
	CommonOptions
	SSL      bool   `long:"ssl" description:"Enable SSL request, default port changes to 9993"`
	Context  string `short:"U" long:"context" default:"/management" description:"Management URL context"`
	Username string `short:"u" long:"username" required:"true" description:"Management user (digest auth)"`
	Password string `short:"P" long:"password" required:"true" description:"Management password (digest auth)"`
	MemUsed  string `short:"M" long:"mem-used" description:"Percent of used heap memory -M WARN,CRIT, ex.: -M 80,90"`
}

// CheckJBoss queries the heap usage from the wildfly management api.
func CheckJBoss(ctx context.Context, output io.Writer, args []string) int {
	return runProbe(ctx, output, "check_jboss", &jbossOpts{}, args)
}

func (o *jbossOpts) build() (probe.Collector, *probe.Descriptor, error) {
	thresholds := thresholdParser{}
	memUsed := thresholds.parse("-M", o.MemUsed, threshold.HighIsBad)
	if thresholds.err != nil {
		return nil, nil, thresholds.err
	}

	ep := o.endpoint(9990, 9993, o.SSL,
		o.Context+"/core-service/platform-mbean/type/memory?operation=attribute&name=heap-memory-usage")
	ep.Credentials = &probe.Credentials{
		Scheme:   probe.AuthDigest,
		Username: o.Username,
		Password: o.Password,
	}

	desc := &probe.Descriptor{
		Name: "jboss",
		Dialect: &probe.Dialect{
			Kind: probe.DialectJSON,
			Fields: []probe.Field{
				{Key: "init", Name: "heap_init", Kind: probe.KindInt},
				{Key: "used", Name: "heap_used", Kind: probe.KindInt},
				{Key: "committed", Name: "heap_committed", Kind: probe.KindInt},
				{Key: "max", Name: "heap_max", Kind: probe.KindInt},
			},
		},
		Derive: func(metrics *probe.MetricSet) error {
			return probe.DerivePercent(metrics, "heap_percent_used", "heap_used", "heap_max")
		},
		Checks: []probe.Check{
			{Metric: "heap_percent_used", Name: "Memory Used", Threshold: memUsed},
		},
		Perf: []probe.PerfSpec{
			{Metric: "heap_percent_used", Unit: "%", Threshold: memUsed},
			{Metric: "heap_used", Label: "heap_size", Min: probe.Bound(0), MaxMetric: "heap_max"},
		},
		Summary: func(_ *probe.MetricSet, _ *probe.RawPayload) (string, error) {
			return ep.HostPort() + o.Context, nil
		},
	}

	collector := probe.NewHTTPCollector(ep)
	collector.Header.Set("Content-Type", "application/json")

	return collector, desc, nil
}
