package command

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command (preserving spacing for names).
	RawArgs string
}

// Parse splits a text line into a command and arguments.
//
// Precondition: line should be trimmed of leading/trailing whitespace.
// Postcondition: Returns a ParseResult. If line is empty, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	// Split at first space for the command word
	spaceIdx := strings.IndexByte(line, ' ')
	if spaceIdx < 0 {
		return ParseResult{
			Command: strings.ToLower(line),
		}
	}

	cmd := strings.ToLower(line[:spaceIdx])
	rest := line[spaceIdx+1:]
	rest = strings.TrimSpace(rest)

	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}

	return ParseResult{
		Command: cmd,
		Args:    args,
		RawArgs: rest,
	}
}

// ParseSeat converts a 1-based seat number typed by a player into a 0-based position.
//
// Postcondition: Returns a position in [0, n) or an error naming the valid range.
func ParseSeat(arg string, n int) (int, error) {
	seat, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || seat < 1 || seat > n {
		return 0, fmt.Errorf("seat must be a number between 1 and %d, got %q", n, arg)
	}
	return seat - 1, nil
}

// SplitSeatArg splits "<seat> <rest...>" into the seat token and the remaining raw text.
//
// Postcondition: rest preserves interior spacing; ok is false when raw has no seat token.
func SplitSeatArg(raw string) (seat, rest string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false
	}
	idx := strings.IndexByte(raw, ' ')
	if idx < 0 {
		return raw, "", true
	}
	return raw[:idx], strings.TrimSpace(raw[idx+1:]), true
}
