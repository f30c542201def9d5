package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/samzong/lmc/internal/git"
	"github.com/samzong/lmc/internal/synth"
	"github.com/stretchr/testify/require"
)

type commitCall struct {
	title string
	body  string
	paths []string
	args  []string
}

type fakeGit struct {
	changes   git.ChangeSet
	detectErr error
	stageErr  map[string]error
	commitErr map[string]error

	staged  []string
	commits []commitCall
}

func (f *fakeGit) DetectChanges(context.Context) (git.ChangeSet, error) {
	if f.detectErr != nil {
		return git.ChangeSet{}, f.detectErr
	}
	return f.changes, nil
}

func (f *fakeGit) StageFile(_ context.Context, path string) error {
	if err := f.stageErr[path]; err != nil {
		return err
	}
	f.staged = append(f.staged, path)
	return nil
}

func (f *fakeGit) Commit(_ context.Context, title, body string, paths []string, args ...string) error {
	if len(paths) > 0 {
		if err := f.commitErr[paths[0]]; err != nil {
			return err
		}
	}
	f.commits = append(f.commits, commitCall{title: title, body: body, paths: paths, args: args})
	return nil
}

type fakeSynth struct {
	messages map[string]*synth.CommitMessage
	calls    []string
}

func (f *fakeSynth) Synthesize(_ context.Context, path string) (*synth.CommitMessage, error) {
	f.calls = append(f.calls, path)
	if msg, ok := f.messages[path]; ok {
		return msg, nil
	}
	return nil, errors.Wrapf(synth.ErrNoDiff, "%s", path)
}

type scriptedPrompter struct {
	answers  []bool
	asked    []string
	err      error
	readyErr error
}

func (s *scriptedPrompter) Ready() error {
	return s.readyErr
}

func (s *scriptedPrompter) Confirm(path string, _ *synth.CommitMessage) (bool, error) {
	s.asked = append(s.asked, path)
	if s.err != nil {
		return false, s.err
	}
	if len(s.answers) == 0 {
		return false, nil
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

func writeRepoFiles(t *testing.T, files map[string][]byte) string {
	t.Helper()
	root := t.TempDir()
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	return root
}
