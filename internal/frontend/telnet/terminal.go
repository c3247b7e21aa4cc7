package telnet

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Terminal is a line-oriented text console. Telnet connections and the local
// stdin/stdout console both implement it.
type Terminal interface {
	// ReadLine blocks for the next line of input without its line terminator.
	ReadLine() (string, error)
	// WriteLine writes text followed by a line break.
	WriteLine(text string) error
	// WritePrompt writes text without a line break.
	WritePrompt(prompt string) error
	// WriteStatus replaces the current line with text.
	WriteStatus(text string) error
}

// StreamTerminal adapts a reader and writer, such as os.Stdin and os.Stdout, into a Terminal.
type StreamTerminal struct {
	scanner *bufio.Scanner
	mu      sync.Mutex
	w       io.Writer
}

// NewStreamTerminal wraps r and w.
//
// Precondition: r and w must be non-nil.
func NewStreamTerminal(r io.Reader, w io.Writer) *StreamTerminal {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, readBufferSize), readBufferSize)
	return &StreamTerminal{scanner: scanner, w: w}
}

// ReadLine returns the next line from the reader with a trailing \r removed.
//
// Postcondition: Returns io.EOF once the reader is exhausted.
func (s *StreamTerminal) ReadLine() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", fmt.Errorf("reading console input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimRight(s.scanner.Text(), "\r"), nil
}

// WriteLine writes text followed by \n.
func (s *StreamTerminal) WriteLine(text string) error {
	return s.write(text + "\n")
}

// WritePrompt writes text without a trailing newline.
func (s *StreamTerminal) WritePrompt(prompt string) error {
	return s.write(prompt)
}

// WriteStatus overwrites the current line with text.
func (s *StreamTerminal) WriteStatus(text string) error {
	return s.write(ClearLine + text)
}

func (s *StreamTerminal) write(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, text)
	return err
}
