package probe

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/textproto"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// TCPSession is a line oriented conversation on a single connection.
// Every command is answered by a block of lines ending with the terminator.
type TCPSession struct {
	Terminator string
	addr       string
	conn       net.Conn
	reader     *textproto.Reader
	writer     *bufio.Writer
}

// DialTCP opens the connection, the endpoint timeout bounds the whole session.
func DialTCP(ctx context.Context, ep *Endpoint, terminator string) (*TCPSession, error) {
	timeout := ep.GetTimeout()
	dialer := &net.Dialer{Timeout: timeout}
	log.Debugf("tcp connect %s (timeout: %s)", ep.Address(), timeout)
	conn, err := dialer.DialContext(ctx, "tcp", ep.Address())
	if err != nil {
		return nil, &TransportError{Op: "tcp connect", URL: ep.Address(), Err: err}
	}

	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()

		return nil, &TransportError{Op: "tcp connect", URL: ep.Address(), Err: err}
	}

	return &TCPSession{
		Terminator: terminator,
		addr:       ep.Address(),
		conn:       conn,
		reader:     textproto.NewReader(bufio.NewReader(conn)),
		writer:     bufio.NewWriter(conn),
	}, nil
}

// Command writes cmd and returns all lines up to, but not including, the terminator.
func (s *TCPSession) Command(cmd string) ([]string, error) {
	log.Tracef("tcp >> %s", cmd)
	if _, err := fmt.Fprintf(s.writer, "%s\r\n", cmd); err != nil {
		return nil, &TransportError{Op: "tcp write", URL: s.addr, Err: err}
	}
	if err := s.writer.Flush(); err != nil {
		return nil, &TransportError{Op: "tcp write", URL: s.addr, Err: err}
	}

	lines := []string{}
	size := 0
	for {
		line, err := s.reader.ReadLine()
		if err != nil {
			return nil, &TransportError{Op: "tcp read", URL: s.addr, Err: err}
		}
		size += len(line)
		line = strings.TrimRight(line, " ")
		switch {
		case line == s.Terminator:
			log.Debugf("tcp %s: %d lines, %s", cmd, len(lines), humanize.Bytes(uint64(size)))

			return lines, nil
		case line == "ERROR", strings.HasPrefix(line, "CLIENT_ERROR"), strings.HasPrefix(line, "SERVER_ERROR"):
			return nil, &TransportError{Op: "tcp command", URL: s.addr, Err: fmt.Errorf("%s: %s", cmd, line)}
		}
		lines = append(lines, line)
	}
}

// Close releases the connection.
func (s *TCPSession) Close() error {
	return s.conn.Close()
}

// TCPCollector runs a conversation over one tcp connection and returns
// the collected lines as payload. Elapsed time covers the whole session.
type TCPCollector struct {
	Endpoint     *Endpoint
	Terminator   string
	Conversation func(session *TCPSession) ([]string, error)
}

// NewTCPCollector returns a collector sending the given commands in order.
func NewTCPCollector(ep *Endpoint, terminator string, commands ...string) *TCPCollector {
	return &TCPCollector{
		Endpoint:   ep,
		Terminator: terminator,
		Conversation: func(session *TCPSession) ([]string, error) {
			result := []string{}
			for _, cmd := range commands {
				lines, err := session.Command(cmd)
				if err != nil {
					return nil, err
				}
				result = append(result, lines...)
			}

			return result, nil
		},
	}
}

func (c *TCPCollector) Collect(ctx context.Context) (*RawPayload, error) {
	start := time.Now()
	session, err := DialTCP(ctx, c.Endpoint, c.Terminator)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	lines, err := c.Conversation(session)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	return &RawPayload{
		Body:    []byte(strings.Join(lines, "\n")),
		Elapsed: elapsed,
		URL:     c.Endpoint.Address(),
	}, nil
}
