package git

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samzong/lmc/internal/gitcmd"
)

type fakeResponse struct {
	stdout string
	stderr string
	err    error
}

// fakeExecutor answers git invocations from a table keyed by the joined args,
// without the leading "-c core.quotepath=off".
type fakeExecutor struct {
	responses map[string]fakeResponse
	calls     [][]string
}

func (f *fakeExecutor) Run(_ context.Context, args ...string) (gitcmd.Result, error) {
	f.calls = append(f.calls, args)
	key := strings.Join(args, " ")
	key = strings.TrimPrefix(key, "-c core.quotepath=off ")
	resp, ok := f.responses[key]
	if !ok {
		return gitcmd.Result{}, errors.Newf("unexpected git call: %s", key)
	}
	return gitcmd.Result{Stdout: []byte(resp.stdout), Stderr: []byte(resp.stderr)}, resp.err
}
