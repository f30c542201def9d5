package workflow

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/samzong/lmc/internal/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAffirmative(t *testing.T) {
	cases := map[string]bool{
		"yes":   true,
		"YES\n": true,
		" y ":   true,
		"no":    false,
		"":      false,
		"yess":  false,
		"sure":  false,
		"n\r\n": false,
	}
	for input, want := range cases {
		assert.Equal(t, want, isAffirmative(input), "input %q", input)
	}
}

func TestInteractivePrompter_ReadsSuccessiveLines(t *testing.T) {
	var errOut bytes.Buffer
	p := &InteractivePrompter{ErrWriter: &errOut, Stdin: strings.NewReader("yes\nno\ny")}
	msg := &synth.CommitMessage{Title: "T"}

	for _, want := range []bool{true, false, true} {
		got, err := p.Confirm("a.txt", msg)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 3, strings.Count(errOut.String(), "Do you accept this commit? (yes/no): "))

	_, err := p.Confirm("a.txt", msg)
	assert.Error(t, err, "closed input is an error")
}

func TestInteractivePrompter_AutoYes(t *testing.T) {
	var errOut bytes.Buffer
	p := &InteractivePrompter{ErrWriter: &errOut, AutoYes: true, Stdin: strings.NewReader("")}

	got, err := p.Confirm("a.txt", &synth.CommitMessage{Title: "T"})
	require.NoError(t, err)
	assert.True(t, got)
	assert.Contains(t, errOut.String(), "--yes")
}

func TestInteractivePrompter_ReadyRefusesNonTerminalFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	p := &InteractivePrompter{ErrWriter: io.Discard, Stdin: f}
	assert.ErrorIs(t, p.Ready(), ErrNotTerminal)

	_, err = p.Confirm("a.txt", &synth.CommitMessage{Title: "T"})
	assert.ErrorIs(t, err, ErrNotTerminal)

	p.AutoYes = true
	assert.NoError(t, p.Ready())
}

func TestInteractivePrompter_ReadyAcceptsReaders(t *testing.T) {
	p := &InteractivePrompter{ErrWriter: io.Discard, Stdin: strings.NewReader("y\n")}
	require.NoError(t, p.Ready())
	require.NoError(t, p.Ready())

	got, err := p.Confirm("a.txt", &synth.CommitMessage{Title: "T"})
	require.NoError(t, err)
	assert.True(t, got)
}
