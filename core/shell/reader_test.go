package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadCommand(t *testing.T) {
	out := &bytes.Buffer{}
	r := &Reader{
		Source:  NewBufferedSource(strings.NewReader("ls -l\n\nsleep 1 &\nlast"), out),
		MaxLine: DefaultMaxLine,
	}

	cmd, err := r.ReadCommand("$ ")
	require.NoError(t, err)
	assert.Equal(t, []string{"ls", "-l"}, cmd.Args)

	_, err = r.ReadCommand("$ ")
	assert.ErrorIs(t, err, ErrEmptyCommand)

	cmd, err = r.ReadCommand("$ ")
	require.NoError(t, err)
	assert.True(t, cmd.Background)

	cmd, err = r.ReadCommand("$ ")
	require.NoError(t, err)
	assert.Equal(t, []string{"last"}, cmd.Args)

	_, err = r.ReadCommand("$ ")
	assert.ErrorIs(t, err, ErrEndOfSession)

	assert.Equal(t, strings.Repeat("$ ", 5), out.String())
}

func TestReader_noPrompt(t *testing.T) {
	out := &bytes.Buffer{}
	r := &Reader{Source: NewBufferedSource(strings.NewReader("pwd\n"), out)}

	cmd, err := r.ReadCommand("")
	require.NoError(t, err)
	assert.Equal(t, "pwd", cmd.Name())
	assert.Empty(t, out.String())
}
