// Package probetest provides fake status servers for tests.
package probetest

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jansouza/nagios-plugins/pkg/probe"
	"github.com/stretchr/testify/require"
)

// Endpoint converts the url of a httptest server into an endpoint.
func Endpoint(t *testing.T, rawURL string) *probe.Endpoint {
	t.Helper()

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)

	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)

	return &probe.Endpoint{
		Host:    parsed.Hostname(),
		Port:    port,
		Path:    parsed.Path,
		TLS:     parsed.Scheme == "https",
		Timeout: 5 * time.Second,
	}
}

// Server is a minimal line based tcp server. Handler is called for every
// received command and returns the raw answer.
type Server struct {
	listener net.Listener
	handler  func(cmd []string) string
	wg       sync.WaitGroup
	mutex    sync.Mutex
	commands []string
	conns    []net.Conn
}

func newServer(t *testing.T, handler func(cmd []string) string, read func(*bufio.Reader) ([]string, error)) *Server {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &Server{listener: listener, handler: handler}
	srv.wg.Add(1)
	go func() {
		defer srv.wg.Done()
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			srv.mutex.Lock()
			srv.conns = append(srv.conns, conn)
			srv.mutex.Unlock()
			srv.wg.Add(1)
			go func() {
				defer srv.wg.Done()
				srv.serve(conn, read)
			}()
		}
	}()
	t.Cleanup(srv.Close)

	return srv
}

func (s *Server) serve(conn net.Conn, read func(*bufio.Reader) ([]string, error)) {
	defer conn.Close()
	reader := bufio.NewReader(conn)
	for {
		cmd, err := read(reader)
		if err != nil {
			return
		}
		s.mutex.Lock()
		s.commands = append(s.commands, strings.Join(cmd, " "))
		s.mutex.Unlock()

		answer := s.handler(cmd)
		if answer == "" {
			continue
		}
		if _, err := io.WriteString(conn, answer); err != nil {
			return
		}
	}
}

// Endpoint returns the endpoint of the listener.
func (s *Server) Endpoint() *probe.Endpoint {
	addr, _ := s.listener.Addr().(*net.TCPAddr)

	return &probe.Endpoint{
		Host:    addr.IP.String(),
		Port:    addr.Port,
		Timeout: 5 * time.Second,
	}
}

// Commands returns all commands received so far.
func (s *Server) Commands() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]string{}, s.commands...)
}

// Close stops the listener, drops open connections and waits for all handlers.
func (s *Server) Close() {
	s.listener.Close()
	s.mutex.Lock()
	for _, conn := range s.conns {
		conn.Close()
	}
	s.mutex.Unlock()
	s.wg.Wait()
}

// NewMemcachedServer answers text protocol commands. Replies maps the full
// command line to the lines sent back, END is appended. Unknown commands
// are answered with ERROR.
func NewMemcachedServer(t *testing.T, replies map[string][]string) *Server {
	t.Helper()

	return newServer(t, func(cmd []string) string {
		line := strings.Join(cmd, " ")
		lines, ok := replies[line]
		if !ok {
			return "ERROR\r\n"
		}

		return strings.Join(append(lines, "END"), "\r\n") + "\r\n"
	}, func(reader *bufio.Reader) ([]string, error) {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		return strings.Fields(line), nil
	})
}

// NewRedisServer speaks just enough RESP2 for a go-redis client: HELLO and
// CLIENT are refused, AUTH and SELECT always succeed and INFO returns info
// as bulk string.
func NewRedisServer(t *testing.T, info string) *Server {
	t.Helper()

	info = strings.ReplaceAll(strings.ReplaceAll(info, "\r\n", "\n"), "\n", "\r\n")

	return newServer(t, func(cmd []string) string {
		if len(cmd) == 0 {
			return "-ERR empty command\r\n"
		}
		switch strings.ToUpper(cmd[0]) {
		case "INFO":
			return fmt.Sprintf("$%d\r\n%s\r\n", len(info), info)
		case "PING":
			return "+PONG\r\n"
		case "AUTH", "SELECT", "QUIT":
			return "+OK\r\n"
		default:
			return fmt.Sprintf("-ERR unknown command '%s'\r\n", cmd[0])
		}
	}, readRESP)
}

func readRESP(reader *bufio.Reader) ([]string, error) {
	header, err := readRESPLine(reader)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(header, "*") {
		// inline command
		return strings.Fields(header), nil
	}

	count, err := strconv.Atoi(header[1:])
	if err != nil {
		return nil, fmt.Errorf("bad array header %q", header)
	}
	cmd := make([]string, 0, count)
	for i := 0; i < count; i++ {
		size, err := readRESPLine(reader)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(size, "$") {
			return nil, fmt.Errorf("bad bulk header %q", size)
		}
		length, err := strconv.Atoi(size[1:])
		if err != nil {
			return nil, fmt.Errorf("bad bulk header %q", size)
		}
		data := make([]byte, length+2)
		if _, err := io.ReadFull(reader, data); err != nil {
			return nil, err
		}
		cmd = append(cmd, string(data[:length]))
	}

	return cmd, nil
}

func readRESPLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}
