package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleText_EOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.Error(t, err)
}

func TestGetTextWithDefault(t *testing.T) {
	var out bytes.Buffer
	got, err := GetTextWithDefault(rdr("\n"), "Title", "Beach", &out)
	require.NoError(t, err)
	assert.Equal(t, "Beach", got)
	assert.Contains(t, out.String(), "Title [Beach]")

	got, err = GetTextWithDefault(rdr("Lake\n"), "Title", "Beach", &out)
	require.NoError(t, err)
	assert.Equal(t, "Lake", got)
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "double enter", input: "a\nb\n\n\n", want: "a\nb"},
		{name: "crlf", input: "a\r\nb\r\n\r\n", want: "a\nb"},
		{name: "eof without blank line", input: "a\nb", want: "a\nb"},
		{name: "immediate blank", input: "\n", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tt.input), "Text", &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, Confirm(rdr("y\n"), "Sure?", &out))
	assert.True(t, Confirm(rdr("YES\n"), "Sure?", &out))
	assert.False(t, Confirm(rdr("\n"), "Sure?", &out))
	assert.False(t, Confirm(rdr(""), "Sure?", &out))
}

func stubTerminal(t *testing.T, terminal bool, pw []byte, err error) {
	t.Helper()
	origRead, origIs := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = origRead, origIs })
	isTerminal = func(int) bool { return terminal }
	readPassword = func(int) ([]byte, error) { return pw, err }
}

func TestGetSecret_Terminal(t *testing.T) {
	stubTerminal(t, true, []byte("letmein"), nil)

	var out bytes.Buffer
	got, err := GetSecret(rdr(""), &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("letmein"), got)
	assert.Equal(t, "Enter secret: \n", out.String())
}

func TestGetSecret_TerminalError(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("boom"))

	var out bytes.Buffer
	_, err := GetSecret(rdr(""), &out)
	assert.Error(t, err)
}

func TestGetSecret_PipedInput(t *testing.T) {
	stubTerminal(t, false, nil, errors.New("must not be called"))

	var out bytes.Buffer
	got, err := GetSecret(rdr("letmein\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("letmein"), got)
}
