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
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.Error(t, err)
}

func TestGetTextDefault(t *testing.T) {
	var out bytes.Buffer
	got, err := GetTextDefault(rdr("\n"), "Name", "Flat 4B", &out)
	require.NoError(t, err)
	assert.Equal(t, "Flat 4B", got)
	assert.Contains(t, out.String(), "Name [Flat 4B]")

	got, err = GetTextDefault(rdr("Office\n"), "Name", "Flat 4B", &out)
	require.NoError(t, err)
	assert.Equal(t, "Office", got)
}

func TestGetIDAndAmount(t *testing.T) {
	var out bytes.Buffer
	id, err := GetID(rdr("42\n"), "Id", &out)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = GetID(rdr("x\n"), "Id", &out)
	require.NoError(t, err)
	assert.Zero(t, id)

	tests := []struct {
		in   string
		def  float64
		want float64
	}{
		{"12.5\n", 0, 12.5},
		{"\n", 500, 500},
		{"abc\n", 500, 0},
		{"\n", 0, 0},
	}
	for _, tc := range tests {
		got, err := GetAmount(rdr(tc.in), "Amount", tc.def, &out)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	for in, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "maybe\n": false} {
		got, err := Confirm(rdr(in), "Sure?", &out)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestGetPassword_NotATerminalReadsLine(t *testing.T) {
	stubTerminal(t, false)
	var out bytes.Buffer
	pw, err := GetPassword(rdr("s3cret\n"), "Enter password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Equal(t, "Enter password: ", out.String())
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true)
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("hidden"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(rdr(""), "Enter password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("hidden"), pw)

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(rdr(""), "Enter password", &out)
	assert.Error(t, err)
}

func stubTerminal(t *testing.T, terminal bool) {
	t.Helper()
	old := isTerminal
	isTerminal = func(int) bool { return terminal }
	t.Cleanup(func() { isTerminal = old })
}
