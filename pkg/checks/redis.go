package checks

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jansouza/nagios-plugins/pkg/probe"
	"github.com/jansouza/nagios-plugins/pkg/threshold"
)

type redisOpts struct {
	CommonOptions
	Password     string `short:"a" long:"password" description:"Password for the AUTH command"`
	Username     string `long:"username" description:"ACL username"`
	DB           int    `long:"db" default:"0" description:"Database number"`
	ResponseTime string `short:"T" long:"response-time" description:"Response time in seconds -T WARN,CRIT, ex.: -T 0.1,0.5"`
	LastSave     string `short:"S" long:"last-save" description:"Seconds since the last save -S WARN,CRIT, ex.: -S 3600,86400"`
}

// timeNow is replaced in tests.
var timeNow = time.Now

// CheckRedis reads the INFO statistics of a redis server.
func CheckRedis(ctx context.Context, output io.Writer, args []string) int {
	return runProbe(ctx, output, "check_redis", &redisOpts{}, args)
}

func (o *redisOpts) build() (probe.Collector, *probe.Descriptor, error) {
	thresholds := thresholdParser{}
	respTime := thresholds.parse("-T", o.ResponseTime, threshold.HighIsBad)
	lastSave := thresholds.parse("-S", o.LastSave, threshold.HighIsBad)
	if thresholds.err != nil {
		return nil, nil, thresholds.err
	}

	ep := o.endpoint(6379, 6379, false, "")
	if o.Password != "" {
		ep.Credentials = &probe.Credentials{Scheme: probe.AuthPassword, Username: o.Username, Password: o.Password}
	}
	collector := probe.NewRedisCollector(ep)
	collector.DB = o.DB

	desc := &probe.Descriptor{
		Name: "redis",
		Dialect: &probe.Dialect{
			Kind:      probe.DialectKeyValue,
			Separator: ":",
			Fields: []probe.Field{
				{Key: "redis_version", Name: "version", Kind: probe.KindString},
				{Key: "uptime_in_seconds", Name: "uptime", Kind: probe.KindInt},
				{Key: "connected_clients", Name: "connected_clients", Kind: probe.KindInt},
				{Key: "used_memory", Name: "used_memory_heap", Kind: probe.KindInt},
				{Key: "used_memory_rss", Name: "used_memory", Kind: probe.KindInt},
				{Key: "rdb_last_save_time", Name: "rdb_last_save_time", Kind: probe.KindInt},
				{Key: "evicted_keys", Name: "evicted_keys", Kind: probe.KindInt},
				{Key: "keyspace_hits", Name: "keyspace_hits", Kind: probe.KindInt},
				{Key: "keyspace_misses", Name: "keyspace_misses", Kind: probe.KindInt},
			},
		},
		Derive: deriveRedis,
		Checks: []probe.Check{
			{Metric: probe.MetricResponseTime, Threshold: respTime},
			{Metric: "last_save_time", Threshold: lastSave},
		},
		Perf: []probe.PerfSpec{
			{Metric: probe.MetricResponseTime, Threshold: respTime, Min: probe.Bound(0)},
			{Metric: "used_memory"},
			{Metric: "hit_rate"},
			{Metric: "connected_clients", Label: "connections"},
			{Metric: "evicted_keys"},
		},
		Summary: func(metrics *probe.MetricSet, _ *probe.RawPayload) (string, error) {
			uptime, err := probe.DeriveUptime(metrics, "uptime")
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("redis %s on %s, up %s", metrics.Text("version"), ep.HostPort(), uptime), nil
		},
	}

	return collector, desc, nil
}

func deriveRedis(metrics *probe.MetricSet) error {
	if err := probe.DeriveHitRate(metrics, "hit_rate", "keyspace_hits", "", "keyspace_misses"); err != nil {
		return err
	}

	if lastSave, ok := metrics.Int("rdb_last_save_time"); ok {
		metrics.SetInt("last_save_time", timeNow().Unix()-lastSave)
	}

	return nil
}
