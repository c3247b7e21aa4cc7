package telnet

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamTerminalReadLine(t *testing.T) {
	term := NewStreamTerminal(strings.NewReader("start\r\nend\nquit"), io.Discard)

	for _, want := range []string{"start", "end", "quit"} {
		line, err := term.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
	_, err := term.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestStreamTerminalWrites(t *testing.T) {
	var out bytes.Buffer
	term := NewStreamTerminal(strings.NewReader(""), &out)

	require.NoError(t, term.WriteLine("Red 05:00"))
	require.NoError(t, term.WritePrompt("> "))
	require.NoError(t, term.WriteStatus("Blue 04:59"))

	assert.Equal(t, "Red 05:00\n> "+ClearLine+"Blue 04:59", out.String())
}

func TestStreamTerminalOverlongLine(t *testing.T) {
	term := NewStreamTerminal(strings.NewReader(strings.Repeat("x", readBufferSize*2)+"\n"), io.Discard)
	_, err := term.ReadLine()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}
