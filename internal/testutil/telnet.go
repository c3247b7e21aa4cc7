// Package testutil provides helpers for end-to-end console tests.
package testutil

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/cory-johannsen/boardclock/internal/frontend/telnet"
)

// TelnetClient is a simple Telnet test client for integration testing.
// Output it returns has IAC sequences and ANSI styling removed.
type TelnetClient struct {
	conn   net.Conn
	reader *bufio.Reader
	t      *testing.T
	// pending holds output read past the last match.
	pending string
}

// NewTelnetClient dials the given address and returns a test client.
//
// Precondition: addr must be a valid "host:port" string with a listening server.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v [%s]", addr, err, time.Since(start))
	}

	t.Cleanup(func() {
		conn.Close()
	})

	client := &TelnetClient{
		conn:   conn,
		reader: bufio.NewReader(conn),
		t:      t,
	}

	t.Logf("telnet client connected to %s [%s]", addr, time.Since(start))
	return client
}

// ReadUntil reads until the plain-text output contains substr or timeout occurs.
// It returns everything read up to and including the match; the rest is kept for
// the next call.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns the accumulated output containing substr, or fails on timeout.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	buf := c.pending
	tmp := make([]byte, 1024)
	for {
		if idx := strings.Index(buf, substr); idx >= 0 {
			end := idx + len(substr)
			c.pending = buf[end:]
			return buf[:end]
		}
		n, err := c.reader.Read(tmp)
		if n > 0 {
			buf += telnet.StripANSI(string(telnet.FilterIAC(tmp[:n])))
		}
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, buf, err)
		}
	}
}

// Send writes a line of text to the server, appending \r\n.
//
// Precondition: text should not contain trailing newline characters.
// Postcondition: text + \r\n is written to the connection.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_, err := fmt.Fprintf(c.conn, "%s\r\n", text)
	if err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Command sends text and waits for expect in the reply.
//
// Postcondition: Returns the output up to and including expect, or fails on timeout.
func (c *TelnetClient) Command(text, expect string) string {
	c.t.Helper()
	c.Send(text)
	return c.ReadUntil(expect, 5*time.Second)
}

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}
