package checks

import (
	"strings"
	"testing"
	"time"

	"github.com/jansouza/nagios-plugins/pkg/probe/probetest"
	"github.com/stretchr/testify/assert"
)

var testMemcachedStats = []string{
	"STAT pid 2345",
	"STAT uptime 93784",
	"STAT version 1.6.21",
	"STAT curr_connections 10",
	"STAT total_connections 52",
	"STAT cmd_get 0",
	"STAT cmd_set 12",
	"STAT get_hits 0",
	"STAT get_misses 0",
	"STAT bytes 5000",
	"STAT limit_maxbytes 10000",
	"STAT curr_items 3",
	"STAT evictions 0",
}

func TestCheckMemcached(t *testing.T) {
	srv := probetest.NewMemcachedServer(t, map[string][]string{"stats": testMemcachedStats})
	target := targetArgs(srv.Endpoint())
	hostPort := srv.Endpoint().HostPort()

	out, res := runCheck(t, CheckMemcached, target...)
	assert.Equal(t, 0, res, out)
	assert.True(t, strings.HasPrefix(out, "OK - memcached 1.6.21 on "+hostPort+", up 1 days, 2 hours, 3 minutes | response_time="), out)
	assert.True(t, strings.HasSuffix(out, " hit_rate=100;;;; curr_connections=10;;;; utilization=50;;;0; evictions=0;;;;"), out)

	out, res = runCheck(t, CheckMemcached, append(target, "-U", "40,60")...)
	assert.Equal(t, 1, res)
	assert.True(t, strings.HasPrefix(out, "WARNING - utilization 50 > 40 - memcached 1.6.21"), out)
	assert.Contains(t, out, "utilization=50;40;60;0;")
}

func TestCheckMemcachedKeys(t *testing.T) {
	srv := probetest.NewMemcachedServer(t, map[string][]string{
		"stats": testMemcachedStats,
		"stats items": {
			"STAT items:1:number 2",
			"STAT items:1:age 10",
			"STAT items:5:number 1",
			"STAT items:5:age 3",
		},
		"stats cachedump 1 50": {"ITEM foo [3 b; 0 s]", "ITEM bar [3 b; 0 s]"},
		"stats cachedump 5 50": {"ITEM baz [1 b; 0 s]"},
	})

	out, res := runCheck(t, CheckMemcached, append(targetArgs(srv.Endpoint()), "--keys", "--keys-limit", "50")...)
	assert.Equal(t, 0, res, out)
	assert.True(t, strings.HasSuffix(out, " evictions=0;;;; cached_keys=3;;;;"), out)
	assert.Equal(t, []string{"stats", "stats items", "stats cachedump 1 50", "stats cachedump 5 50"}, srv.Commands())
}

func TestCheckMemcachedErrors(t *testing.T) {
	srv := probetest.NewMemcachedServer(t, map[string][]string{"stats": {"STAT pid 1", "STAT uptime 5"}})

	out, res := runCheck(t, CheckMemcached, targetArgs(srv.Endpoint())...)
	assert.Equal(t, 3, res)
	assert.True(t, strings.HasPrefix(out, "UNKNOWN - cannot parse key-value payload: recognized 2 of 3 required keys - response_time "), out)

	ep := srv.Endpoint()
	srv.Close()
	out, res = runCheck(t, CheckMemcached, targetArgs(ep)...)
	assert.Equal(t, 2, res)
	assert.True(t, strings.HasPrefix(out, "CRITICAL - tcp connect failed "+ep.Address()), out)
}

const testRedisInfo = `# Server
redis_version:7.2.4
redis_mode:standalone
uptime_in_seconds:93784

# Clients
connected_clients:5

# Memory
used_memory:1048576
used_memory_human:1.00M
used_memory_rss:2097152

# Persistence
rdb_last_save_time:1700000000

# Stats
keyspace_hits:3
keyspace_misses:1
evicted_keys:0

# Keyspace
db0:keys=12,expires=0,avg_ttl=0
`

func TestCheckRedis(t *testing.T) {
	timeNow = func() time.Time { return time.Unix(1700003600, 0) }
	defer func() { timeNow = time.Now }()

	srv := probetest.NewRedisServer(t, testRedisInfo)
	target := targetArgs(srv.Endpoint())
	hostPort := srv.Endpoint().HostPort()

	out, res := runCheck(t, CheckRedis, target...)
	assert.Equal(t, 0, res, out)
	assert.True(t, strings.HasPrefix(out, "OK - redis 7.2.4 on "+hostPort+", up 1 days, 2 hours, 3 minutes | response_time="), out)
	assert.True(t, strings.HasSuffix(out, " used_memory=2097152;;;; hit_rate=75;;;; connections=5;;;; evicted_keys=0;;;;"), out)

	out, res = runCheck(t, CheckRedis, append(target, "-S", "1800,7200", "-a", "secret", "--db", "1")...)
	assert.Equal(t, 1, res, out)
	assert.True(t, strings.HasPrefix(out, "WARNING - last_save_time 3600 > 1800 - redis 7.2.4"), out)
	assert.Contains(t, srv.Commands(), "select 1")

	out, res = runCheck(t, CheckRedis, append(target, "-S", "1800,3600")...)
	assert.Equal(t, 2, res, out)
	assert.True(t, strings.HasPrefix(out, "CRITICAL - last_save_time 3600 > 3600"), out)
}

func TestCheckRedisRefused(t *testing.T) {
	srv := probetest.NewRedisServer(t, testRedisInfo)
	ep := srv.Endpoint()
	srv.Close()

	out, res := runCheck(t, CheckRedis, append(targetArgs(ep), "-t", "1")...)
	assert.Equal(t, 2, res)
	assert.True(t, strings.HasPrefix(out, "CRITICAL - redis info failed "+ep.Address()), out)
}
