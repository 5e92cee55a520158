package probe_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/icholy/digest"
	"github.com/jansouza/nagios-plugins/pkg/probe"
	"github.com/jansouza/nagios-plugins/pkg/probe/probetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCollector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/server-status", r.URL.Path)
		assert.Equal(t, "auto", r.URL.RawQuery)
		fmt.Fprint(w, "Total Accesses: 1\n")
	}))
	defer srv.Close()

	ep := probetest.Endpoint(t, srv.URL)
	ep.Path = "/server-status?auto"

	payload, err := probe.NewHTTPCollector(ep).Collect(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, "Total Accesses: 1\n", string(payload.Body))
	assert.Equal(t, http.StatusOK, payload.StatusCode)
	assert.GreaterOrEqual(t, payload.ResponseTime(), 0.0)
}

func TestHTTPCollectorTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	ep := probetest.Endpoint(t, srv.URL)
	require.True(t, ep.TLS)

	// self signed certificate is accepted
	payload, err := probe.NewHTTPCollector(ep).Collect(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, "ok", string(payload.Body))
}

func TestHTTPCollectorBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	ep := probetest.Endpoint(t, srv.URL)
	ep.Credentials = &probe.Credentials{Scheme: probe.AuthBasic, Username: "admin", Password: "secret"}
	_, err := probe.NewHTTPCollector(ep).Collect(context.TODO())
	require.NoError(t, err)

	ep.Credentials = &probe.Credentials{Scheme: probe.AuthBasic, Token: probe.EncodeBasicAuth("admin", "secret")}
	_, err = probe.NewHTTPCollector(ep).Collect(context.TODO())
	require.NoError(t, err)

	ep.Credentials = &probe.Credentials{Scheme: probe.AuthBasic, Username: "admin", Password: "wrong"}
	_, err = probe.NewHTTPCollector(ep).Collect(context.TODO())
	require.Error(t, err)

	var tErr *probe.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, http.StatusUnauthorized, tErr.StatusCode)
}

func TestHTTPCollectorDigestAuth(t *testing.T) {
	challenge := &digest.Challenge{
		Realm:     "jmx",
		Nonce:     "dcd98b7102dd2f0e8b11d0f600bfb0c093",
		Algorithm: "MD5",
		QOP:       []string{"auth"},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			w.Header().Set("WWW-Authenticate", challenge.String())
			w.WriteHeader(http.StatusUnauthorized)

			return
		}
		creds, err := digest.ParseCredentials(header)
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)

			return
		}
		assert.Equal(t, "admin", creds.Username)
		assert.Equal(t, "jmx", creds.Realm)
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	ep := probetest.Endpoint(t, srv.URL)
	ep.Credentials = &probe.Credentials{Scheme: probe.AuthDigest, Username: "admin", Password: "secret"}
	payload, err := probe.NewHTTPCollector(ep).Collect(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, "ok", string(payload.Body))
}

func TestHTTPCollectorErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			select {
			case <-r.Context().Done():
			case <-time.After(3 * time.Second):
			}

			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	ep := probetest.Endpoint(t, srv.URL)
	ep.Path = "/missing"
	_, err := probe.NewHTTPCollector(ep).Collect(context.TODO())
	require.Error(t, err)
	assert.Equal(t, fmt.Sprintf("http fetch failed %s/missing: 404 Not Found", srv.URL), err.Error())

	ep.Path = "/slow"
	ep.Timeout = 100 * time.Millisecond
	_, err = probe.NewHTTPCollector(ep).Collect(context.TODO())
	require.Error(t, err)

	var tErr *probe.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, 0, tErr.StatusCode)

	srv.Close()
	ep.Path = "/"
	_, err = probe.NewHTTPCollector(ep).Collect(context.TODO())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "http fetch failed"), err.Error())
}

func TestTCPCollector(t *testing.T) {
	srv := probetest.NewMemcachedServer(t, map[string][]string{
		"stats":          {"STAT pid 1", "STAT uptime 3600", "STAT version 1.6.21"},
		"stats settings": {"STAT maxconns 1024"},
	})

	payload, err := probe.NewTCPCollector(srv.Endpoint(), "END", "stats", "stats settings").Collect(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, "STAT pid 1\nSTAT uptime 3600\nSTAT version 1.6.21\nSTAT maxconns 1024", string(payload.Body))
	assert.Equal(t, []string{"stats", "stats settings"}, srv.Commands())

	_, err = probe.NewTCPCollector(srv.Endpoint(), "END", "bogus").Collect(context.TODO())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus: ERROR")
}

func TestTCPCollectorRefused(t *testing.T) {
	srv := probetest.NewMemcachedServer(t, nil)
	ep := srv.Endpoint()
	srv.Close()

	_, err := probe.NewTCPCollector(ep, "END", "stats").Collect(context.TODO())
	require.Error(t, err)

	var tErr *probe.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, "tcp connect", tErr.Op)
}

func TestRedisCollector(t *testing.T) {
	srv := probetest.NewRedisServer(t, "# Server\nredis_version:7.2.4\nuptime_in_seconds:93784\n")

	payload, err := probe.NewRedisCollector(srv.Endpoint()).Collect(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, "# Server\nredis_version:7.2.4\nuptime_in_seconds:93784\n", string(payload.Body))
	assert.Contains(t, srv.Commands(), "info")
}

func TestRedisCollectorRefused(t *testing.T) {
	srv := probetest.NewRedisServer(t, "")
	ep := srv.Endpoint()
	ep.Timeout = 500 * time.Millisecond
	srv.Close()

	_, err := probe.NewRedisCollector(ep).Collect(context.TODO())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "redis info failed"), err.Error())
}
