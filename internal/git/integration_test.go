package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newTempRepo creates an isolated repository with one committed file and returns its root.
func newTempRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	gitRun(t, dir, "init", "-q")
	gitRun(t, dir, "config", "user.name", "Test")
	gitRun(t, dir, "config", "user.email", "test@example.com")
	gitRun(t, dir, "config", "commit.gpgsign", "false")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tracked.txt"), []byte("one\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doomed.txt"), []byte("bye\n"), 0o644))
	gitRun(t, dir, "add", ".")
	gitRun(t, dir, "commit", "-q", "-m", "initial")
	return dir
}

func gitRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return string(out)
}

func TestIntegration_DetectDiffCommit(t *testing.T) {
	dir := newTempRepo(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tracked.txt"), []byte("one\ntwo\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.bin"), []byte{0xff, 0x00, 0xfe}, 0o644))
	require.NoError(t, os.Remove(filepath.Join(dir, "doomed.txt")))

	client := NewClient(Options{Dir: dir})

	changes, err := client.DetectChanges(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doomed.txt", "tracked.txt"}, changes.Modified)
	assert.Equal(t, []string{"new.bin"}, changes.Untracked)
	assert.Equal(t, []string{"doomed.txt"}, changes.Deleted)
	assert.Equal(t, []string{"tracked.txt", "new.bin"}, changes.Candidates())

	diff, err := client.Diff(ctx, "tracked.txt")
	require.NoError(t, err)
	assert.Contains(t, diff, "+two")

	untrackedDiff, err := client.Diff(ctx, "new.bin")
	require.NoError(t, err)
	assert.Empty(t, untrackedDiff)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "staged.txt"), []byte("keep staged\n"), 0o644))
	gitRun(t, dir, "add", "staged.txt")

	require.NoError(t, client.StageFile(ctx, "tracked.txt"))
	require.NoError(t, client.Commit(ctx, "Add second line", "Appends a line to tracked.txt.", []string{"tracked.txt"}))

	log := gitRun(t, dir, "log", "-1", "--format=%s%n%b")
	assert.True(t, strings.HasPrefix(log, "Add second line\n"))
	assert.Contains(t, log, "Appends a line to tracked.txt.")

	committed := gitRun(t, dir, "show", "--name-only", "--format=", "HEAD")
	assert.Equal(t, "tracked.txt", strings.TrimSpace(committed))

	stillStaged := gitRun(t, dir, "diff", "--cached", "--name-only")
	assert.Equal(t, "staged.txt", strings.TrimSpace(stillStaged))

	changes, err = client.DetectChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"doomed.txt"}, changes.Modified)
}

func TestIntegration_UnusualFileNames(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("quote characters are not valid in Windows file names")
	}
	dir := newTempRepo(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "-notes.txt"), []byte("a\n"), 0o644))
	gitRun(t, dir, "add", "--", "-notes.txt")
	gitRun(t, dir, "commit", "-q", "-m", "add dash file")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "-notes.txt"), []byte("a\nb\n"), 0o644))
	quoted := `say "hi".txt`
	require.NoError(t, os.WriteFile(filepath.Join(dir, quoted), []byte("hi\n"), 0o644))

	client := NewClient(Options{Dir: dir})

	changes, err := client.DetectChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"-notes.txt"}, changes.Modified)
	assert.Equal(t, []string{quoted}, changes.Untracked)
	_, err = os.Stat(filepath.Join(dir, changes.Untracked[0]))
	require.NoError(t, err)

	diff, err := client.Diff(ctx, "-notes.txt")
	require.NoError(t, err)
	assert.Contains(t, diff, "+b")

	require.NoError(t, client.StageFile(ctx, "-notes.txt"))
	require.NoError(t, client.Commit(ctx, "Extend notes", "", []string{"-notes.txt"}))

	committed := gitRun(t, dir, "show", "--name-only", "--format=", "HEAD")
	assert.Equal(t, "-notes.txt", strings.TrimSpace(committed))
}
