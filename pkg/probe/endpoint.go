package probe

import (
	"encoding/base64"
	"fmt"
	"net"
	"strconv"
	"time"
)

// DefaultTimeout is used when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// AuthScheme selects how credentials are sent.
type AuthScheme int

const (
	AuthNone AuthScheme = iota
	AuthBasic
	AuthDigest
	AuthPassword // plain password as used by the redis AUTH command
)

// Credentials for the status endpoint. Token is a pre encoded basic auth
// string and takes precedence over Username/Password.
type Credentials struct {
	Scheme   AuthScheme
	Username string
	Password string
	Token    string
}

// BasicToken returns the base64 encoded "user:password" pair.
func (c *Credentials) BasicToken() string {
	if c.Token != "" {
		return c.Token
	}

	return EncodeBasicAuth(c.Username, c.Password)
}

// EncodeBasicAuth encodes username and password for the Authorization header.
func EncodeBasicAuth(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

// Endpoint describes where and how to reach a status interface. It is not
// modified once a run has started.
type Endpoint struct {
	Host        string
	Port        int
	Path        string
	TLS         bool
	Credentials *Credentials
	Timeout     time.Duration
}

// Address returns host:port suitable for net.Dial.
func (e *Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Scheme returns http or https.
func (e *Endpoint) Scheme() string {
	if e.TLS {
		return "https"
	}

	return "http"
}

// URL returns the full url of the status page.
func (e *Endpoint) URL() string {
	return fmt.Sprintf("%s://%s%s", e.Scheme(), e.Address(), e.Path)
}

// HostPort returns host:port as used in summary lines.
func (e *Endpoint) HostPort() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// GetTimeout returns the configured timeout or DefaultTimeout.
func (e *Endpoint) GetTimeout() time.Duration {
	if e.Timeout <= 0 {
		return DefaultTimeout
	}

	return e.Timeout
}

// DefaultPort returns port if set, otherwise the plain or tls default port.
func DefaultPort(port, plain, secure int, useTLS bool) int {
	switch {
	case port > 0:
		return port
	case useTLS && secure > 0:
		return secure
	}

	return plain
}
