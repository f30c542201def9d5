package workflow

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samzong/lmc/internal/synth"
	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("stdin is not a terminal, use --yes to accept suggestions without prompting")

// Prompter asks whether a suggested commit message should be applied. Ready is
// called once before any message is requested.
type Prompter interface {
	Ready() error
	Confirm(path string, msg *synth.CommitMessage) (bool, error)
}

type InteractivePrompter struct {
	ErrWriter io.Writer
	Stdin     io.Reader
	AutoYes   bool

	reader *bufio.Reader
}

// Ready fails with ErrNotTerminal when answers would have to come from a
// non-interactive stdin and --yes is not set.
func (p *InteractivePrompter) Ready() error {
	if p.AutoYes || p.reader != nil {
		return nil
	}
	stdin := p.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	if f, ok := stdin.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return ErrNotTerminal
	}
	p.reader = bufio.NewReader(stdin)
	return nil
}

// Confirm blocks until a line is read. Only "yes" or "y" (any case) accepts.
func (p *InteractivePrompter) Confirm(path string, _ *synth.CommitMessage) (bool, error) {
	if p.AutoYes {
		fmt.Fprintf(p.ErrWriter, "Auto-accepting commit for %s (--yes is set)\n", path)
		return true, nil
	}
	if err := p.Ready(); err != nil {
		return false, err
	}

	fmt.Fprint(p.ErrWriter, "\nDo you accept this commit? (yes/no): ")
	response, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || response == "") {
		return false, errors.Wrap(err, "read user input")
	}

	return isAffirmative(response), nil
}

func isAffirmative(response string) bool {
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "yes", "y":
		return true
	default:
		return false
	}
}
