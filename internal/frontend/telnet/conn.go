package telnet

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"time"
)

// Telnet command and option bytes (RFC 854, RFC 858).
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250
	GA   byte = 249
	NOP  byte = 241
	SE   byte = 240

	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
	OptLinemode        byte = 34
)

const readBufferSize = 4096

var _ Terminal = (*Conn)(nil)

// iacState tracks where a byte stream is inside a Telnet command.
type iacState int

const (
	inData iacState = iota
	inCommand
	inOption
	inSub
	inSubIAC
)

// iacFilter separates text from Telnet commands one byte at a time, so a command
// split across reads is still recognized.
type iacFilter struct {
	state iacState
}

// feed consumes b and reports whether it is text. An escaped IAC (IAC IAC) yields
// one 0xFF text byte.
func (f *iacFilter) feed(b byte) bool {
	switch f.state {
	case inCommand:
		switch b {
		case WILL, WONT, DO, DONT:
			f.state = inOption
		case SB:
			f.state = inSub
		case IAC:
			f.state = inData
			return true
		default:
			f.state = inData
		}
		return false
	case inOption:
		f.state = inData
		return false
	case inSub:
		if b == IAC {
			f.state = inSubIAC
		}
		return false
	case inSubIAC:
		if b == SE {
			f.state = inData
		} else {
			f.state = inSub
		}
		return false
	default:
		if b == IAC {
			f.state = inCommand
			return false
		}
		return true
	}
}

// Conn is one console client on a Telnet connection. Reads strip Telnet commands;
// writes are serialized so clock broadcasts never split a command reply.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	filter iacFilter

	mu sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps raw. A zero timeout disables that deadline.
//
// Precondition: raw must be a valid, open network connection.
// Postcondition: Returns a Conn ready for reading and writing.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, readBufferSize),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate announces that the server suppresses go-ahead, so status redraws are
// not interrupted by GA bytes.
func (c *Conn) Negotiate() error {
	return c.send(string([]byte{IAC, WILL, OptSuppressGoAhead}))
}

// ReadLine returns the next line typed by the client without its terminator.
// Telnet commands, control characters other than tab, and escaped 0xFF bytes are dropped.
//
// Postcondition: Returns the line, or the partial line and an error (including io.EOF).
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line strings.Builder
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}
		if !c.filter.feed(b) {
			continue
		}
		switch {
		case b == '\n':
			return line.String(), nil
		case b == '\r':
			if next, err := c.reader.Peek(1); err == nil && next[0] == '\n' {
				_, _ = c.reader.ReadByte()
			}
			return line.String(), nil
		case b == IAC, b < 32 && b != '\t':
		default:
			line.WriteByte(b)
		}
	}
}

// WriteLine writes text and a CRLF. Embedded newlines become CRLF as well.
func (c *Conn) WriteLine(text string) error {
	return c.send(strings.ReplaceAll(text, "\n", "\r\n") + "\r\n")
}

// WritePrompt writes prompt with no line break.
func (c *Conn) WritePrompt(prompt string) error {
	return c.send(prompt)
}

// WriteStatus overwrites the client's current line with text, leaving the cursor at its end.
func (c *Conn) WriteStatus(text string) error {
	return c.send(ClearLine + text)
}

func (c *Conn) send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write([]byte(text))
	return err
}

// Close closes the underlying connection. Blocked reads return an error.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the client's network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// FilterIAC returns input with Telnet commands removed and escaped IAC bytes unescaped.
// A command cut off at the end of input is dropped.
func FilterIAC(input []byte) []byte {
	var f iacFilter
	out := make([]byte, 0, len(input))
	for _, b := range input {
		if f.feed(b) {
			out = append(out, b)
		}
	}
	return out
}
