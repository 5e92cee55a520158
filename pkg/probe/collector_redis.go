package probe

import (
	"context"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/redis/go-redis/v9"
)

// RedisCollector sends INFO and returns the flat key:value reply.
type RedisCollector struct {
	Endpoint *Endpoint
	DB       int
	Sections []string
}

func NewRedisCollector(ep *Endpoint) *RedisCollector {
	return &RedisCollector{Endpoint: ep}
}

func (c *RedisCollector) options() *redis.Options {
	timeout := c.Endpoint.GetTimeout()
	opts := &redis.Options{
		Addr:         c.Endpoint.Address(),
		DB:           c.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		MaxRetries:   -1,
		PoolSize:     1,
	}
	if creds := c.Endpoint.Credentials; creds != nil {
		opts.Username = creds.Username
		opts.Password = creds.Password
	}

	return opts
}

func (c *RedisCollector) Collect(ctx context.Context) (*RawPayload, error) {
	client := redis.NewClient(c.options())
	defer client.Close()

	log.Debugf("redis INFO %s (timeout: %s)", c.Endpoint.Address(), c.Endpoint.GetTimeout())
	start := time.Now()
	info, err := client.Info(ctx, c.Sections...).Result()
	elapsed := time.Since(start)
	if err != nil {
		return nil, &TransportError{Op: "redis info", URL: c.Endpoint.Address(), Err: err}
	}
	log.Debugf("redis info size: %s, elapsed: %s", humanize.Bytes(uint64(len(info))), elapsed)

	return &RawPayload{
		Body:    []byte(strings.ReplaceAll(info, "\r\n", "\n")),
		Elapsed: elapsed,
		URL:     c.Endpoint.Address(),
	}, nil
}
