package checks

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/jansouza/nagios-plugins/pkg/probe"
	"github.com/jansouza/nagios-plugins/pkg/threshold"
)

type memcachedOpts struct {
	CommonOptions
	ResponseTime string `short:"T" long:"response-time" description:"Response time in seconds -T WARN,CRIT, ex.: -T 0.1,0.5"`
	Utilization  string `short:"U" long:"utilization" description:"Percent of space in use (bytes/limit_maxbytes) -U WARN,CRIT, ex.: -U 95,98"`
	Keys         bool   `long:"keys" description:"Count cached keys with stats cachedump"`
	KeysLimit    int    `long:"keys-limit" default:"100" description:"Max keys dumped per slab"`
}

var reSlabID = regexp.MustCompile(`^STAT items:(\d+):number `)

// CheckMemcached reads the general purpose statistics over the text protocol.
func CheckMemcached(ctx context.Context, output io.Writer, args []string) int {
	return runProbe(ctx, output, "check_memcached", &memcachedOpts{}, args)
}

func (o *memcachedOpts) build() (probe.Collector, *probe.Descriptor, error) {
	thresholds := thresholdParser{}
	respTime := thresholds.parse("-T", o.ResponseTime, threshold.HighIsBad)
	utilization := thresholds.parse("-U", o.Utilization, threshold.HighIsBad)
	if thresholds.err != nil {
		return nil, nil, thresholds.err
	}

	ep := o.endpoint(11211, 11211, false, "")
	collector := probe.NewTCPCollector(ep, "END", "stats")
	if o.Keys {
		collector.Conversation = o.statsWithKeys
	}

	perf := []probe.PerfSpec{
		{Metric: probe.MetricResponseTime, Threshold: respTime, Min: probe.Bound(0)},
		{Metric: "hit_rate"},
		{Metric: "curr_connections"},
		{Metric: "utilization", Threshold: utilization, Min: probe.Bound(0)},
		{Metric: "evictions"},
		{Metric: "cached_keys"},
	}

	desc := &probe.Descriptor{
		Name: "memcached",
		Dialect: &probe.Dialect{
			Kind:       probe.DialectKeyValue,
			LinePrefix: "STAT ",
			Separator:  " ",
			Fields: []probe.Field{
				{Key: "pid", Name: "pid", Kind: probe.KindInt},
				{Key: "uptime", Name: "uptime", Kind: probe.KindInt},
				{Key: "version", Name: "version", Kind: probe.KindString},
				{Key: "curr_connections", Name: "curr_connections", Kind: probe.KindInt},
				{Key: "total_connections", Name: "total_connections", Kind: probe.KindInt},
				{Key: "cmd_get", Name: "cmd_get", Kind: probe.KindInt},
				{Key: "cmd_set", Name: "cmd_set", Kind: probe.KindInt},
				{Key: "get_hits", Name: "get_hits", Kind: probe.KindInt},
				{Key: "get_misses", Name: "get_misses", Kind: probe.KindInt},
				{Key: "bytes", Name: "bytes", Kind: probe.KindInt},
				{Key: "limit_maxbytes", Name: "limit_maxbytes", Kind: probe.KindInt},
				{Key: "curr_items", Name: "curr_items", Kind: probe.KindInt},
				{Key: "evictions", Name: "evictions", Kind: probe.KindInt},
				{Key: "cached_keys", Name: "cached_keys", Kind: probe.KindInt},
			},
		},
		Derive: func(metrics *probe.MetricSet) error {
			if err := probe.DeriveHitRate(metrics, "hit_rate", "get_hits", "cmd_get", ""); err != nil {
				return err
			}

			return probe.DerivePercent(metrics, "utilization", "bytes", "limit_maxbytes")
		},
		Checks: []probe.Check{
			{Metric: probe.MetricResponseTime, Threshold: respTime},
			{Metric: "utilization", Threshold: utilization},
		},
		Perf: perf,
		Summary: func(metrics *probe.MetricSet, _ *probe.RawPayload) (string, error) {
			uptime, err := probe.DeriveUptime(metrics, "uptime")
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("memcached %s on %s, up %s", metrics.Text("version"), ep.HostPort(), uptime), nil
		},
	}

	return collector, desc, nil
}

// statsWithKeys sends stats, discovers the slabs in use and dumps their keys.
// The number of keys is appended as STAT cached_keys.
func (o *memcachedOpts) statsWithKeys(session *probe.TCPSession) ([]string, error) {
	stats, err := session.Command("stats")
	if err != nil {
		return nil, err
	}

	items, err := session.Command("stats items")
	if err != nil {
		return nil, err
	}

	keys := 0
	for _, slab := range slabIDs(items) {
		dump, err := session.Command(fmt.Sprintf("stats cachedump %s %d", slab, o.KeysLimit))
		if err != nil {
			return nil, err
		}
		for _, line := range dump {
			if strings.HasPrefix(line, "ITEM ") {
				keys++
			}
		}
	}
	log.Debugf("memcached: %d cached keys", keys)

	return append(stats, fmt.Sprintf("STAT cached_keys %d", keys)), nil
}

func slabIDs(lines []string) []string {
	ids := []string{}
	for _, line := range lines {
		if match := reSlabID.FindStringSubmatch(line); match != nil {
			ids = append(ids, match[1])
		}
	}

	return ids
}
