// Package telnet provides a Telnet server with ANSI color support for the table console.
package telnet

import (
	"fmt"
	"strconv"
	"strings"
)

// ANSI escape code constants for terminal styling.
const (
	Reset     = "\033[0m"
	Bold      = "\033[1m"
	Dim       = "\033[2m"
	Underline = "\033[4m"
	Reverse   = "\033[7m"

	// ClearLine returns the cursor to column 0 and erases the line.
	ClearLine = "\r\033[2K"

	// Foreground colors
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	White  = "\033[37m"

	// Bright foreground colors
	BrightBlack  = "\033[90m"
	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightCyan   = "\033[96m"
	BrightWhite  = "\033[97m"
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
//
// Precondition: color must be a valid ANSI escape sequence.
// Postcondition: Returns text wrapped with the color code and Reset.
func Colorize(color, text string) string {
	return color + text + Reset
}

// HexColor converts a "#rrggbb" color into a 24-bit foreground escape sequence.
//
// Postcondition: Returns ("", false) when hex is not "#rrggbb".
func HexColor(hex string) (string, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return "", false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", v>>16&0xff, v>>8&0xff, v&0xff), true
}

// Styler applies colors when enabled and passes text through unchanged otherwise.
type Styler struct {
	Enabled bool
}

// Apply wraps text with color when the styler is enabled.
func (s Styler) Apply(color, text string) string {
	if !s.Enabled || color == "" {
		return text
	}
	return Colorize(color, text)
}

// Hex wraps text with the 24-bit color for hex when enabled; invalid hex leaves text plain.
func (s Styler) Hex(hex, text string) string {
	code, ok := HexColor(hex)
	if !ok {
		return text
	}
	return s.Apply(code, text)
}

// StripANSI removes all ANSI escape sequences from a string.
// This is useful for measuring the printable width of styled text.
//
// Postcondition: Returns text with all \033[... sequences removed.
func StripANSI(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			// Skip past the final byte of the CSI sequence
			j := i + 2
			for j < len(s) && (s[j] < 0x40 || s[j] > 0x7e) {
				j++
			}
			if j < len(s) {
				i = j + 1
				continue
			}
		}
		sb.WriteByte(s[i])
		i++
	}
	return sb.String()
}
