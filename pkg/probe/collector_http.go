package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/icholy/digest"
)

// Collector performs one round trip against a status endpoint.
type Collector interface {
	Collect(ctx context.Context) (*RawPayload, error)
}

// HTTPCollector fetches a status page with a single GET request.
type HTTPCollector struct {
	Endpoint *Endpoint
	Header   http.Header
	client   *http.Client
}

// NewHTTPCollector builds the http client for ep. Certificates are never verified.
func NewHTTPCollector(ep *Endpoint) *HTTPCollector {
	return &HTTPCollector{
		Endpoint: ep,
		Header:   http.Header{},
		client:   httpClient(ep),
	}
}

func httpClient(ep *Endpoint) *http.Client {
	timeout := ep.GetTimeout()
	var transport http.RoundTripper = &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // status pages use self signed certificates
			MinVersion:         tls.VersionTLS12,
		},
		DialContext: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
		ResponseHeaderTimeout: timeout,
		TLSHandshakeTimeout:   timeout,
		IdleConnTimeout:       timeout,
		DisableKeepAlives:     true,
	}

	if ep.Credentials != nil && ep.Credentials.Scheme == AuthDigest {
		transport = &digest.Transport{
			Username:  ep.Credentials.Username,
			Password:  ep.Credentials.Password,
			Transport: transport,
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Collect issues the GET request and reads the complete body.
func (c *HTTPCollector) Collect(ctx context.Context) (*RawPayload, error) {
	url := c.Endpoint.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &TransportError{Op: "new request", URL: url, Err: err}
	}

	for key, vals := range c.Header {
		for _, val := range vals {
			req.Header.Add(key, val)
		}
	}
	if creds := c.Endpoint.Credentials; creds != nil && creds.Scheme == AuthBasic {
		req.Header.Set("Authorization", fmt.Sprintf("Basic %s", creds.BasicToken()))
	}

	log.Debugf("http GET %s (timeout: %s)", url, c.Endpoint.GetTimeout())
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		// url.Error repeats method and url
		var uErr *neturl.Error
		if errors.As(err, &uErr) {
			err = uErr.Err
		}

		return nil, &TransportError{Op: "http fetch", URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return nil, &TransportError{Op: "http read", URL: url, Err: err}
	}
	log.Debugf("http status: %s, size: %s, elapsed: %s", resp.Status, humanize.Bytes(uint64(len(body))), elapsed)
	log.Tracef("http body:\n%s", body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: "http fetch", URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return &RawPayload{
		Body:       body,
		Elapsed:    elapsed,
		StatusCode: resp.StatusCode,
		URL:        url,
	}, nil
}
