package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	profile bool
	calls   []string
	args    map[string][]string
	errs    map[string]error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	return f.errs[name]
}

func (f *fakeExec) hasProfile() bool { return f.profile }
func (f *fakeExec) Users(ctx context.Context, a []string) error {
	return f.record("users", a)
}
func (f *fakeExec) Select(ctx context.Context, a []string) error {
	f.profile = true
	return f.record("select", a)
}
func (f *fakeExec) WhoAmI(ctx context.Context, a []string) error  { return f.record("whoami", a) }
func (f *fakeExec) Forget(ctx context.Context, a []string) error  { return f.record("forget", a) }
func (f *fakeExec) List(ctx context.Context, a []string) error    { return f.record("list", a) }
func (f *fakeExec) Filter(ctx context.Context, a []string) error  { return f.record("filter", a) }
func (f *fakeExec) Sort(ctx context.Context, a []string) error    { return f.record("sort", a) }
func (f *fakeExec) Clear(ctx context.Context, a []string) error   { return f.record("clear", a) }
func (f *fakeExec) Refresh(ctx context.Context, a []string) error { return f.record("refresh", a) }
func (f *fakeExec) Show(ctx context.Context, a []string) error    { return f.record("show", a) }
func (f *fakeExec) Add(ctx context.Context, a []string) error     { return f.record("add", a) }
func (f *fakeExec) Edit(ctx context.Context, a []string) error    { return f.record("edit", a) }
func (f *fakeExec) Delete(ctx context.Context, a []string) error  { return f.record("delete", a) }

func run(exec execIface, input string) string {
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "" }, rdr(input), &out)
	return out.String()
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	exec := &fakeExec{}
	input := strings.Join([]string{
		"users", "select 2", "l", "filter thisYear", "sort oldest", "clear", "refresh",
		"show 1", "add", "edit 1", "delete 1", "whoami", "forget", "", "exit", "list",
	}, "\n")

	out := run(exec, input)

	assert.Equal(t, []string{
		"users", "select", "list", "filter", "sort", "clear", "refresh",
		"show", "add", "edit", "delete", "whoami", "forget",
	}, exec.calls)
	assert.Equal(t, []string{"thisYear"}, exec.args["filter"])
	assert.Equal(t, []string{"2"}, exec.args["select"])
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_HelpDependsOnProfile(t *testing.T) {
	out := run(&fakeExec{}, "help\nquit\n")
	assert.Contains(t, out, helpNoProfile)

	out = run(&fakeExec{profile: true}, "help\nquit\n")
	assert.Contains(t, out, helpProfile)
}

func TestRunREPL_ErrorsAreOneLineNotices(t *testing.T) {
	exec := &fakeExec{errs: map[string]error{
		"delete": common.ErrorUnauthorized,
		"list":   errors.New("boom"),
	}}

	out := run(exec, "delete 1\nlist\nfoobar\n")

	assert.Contains(t, out, "Error: the secret was not accepted\n")
	assert.Contains(t, out, "Error: boom\n")
	assert.Contains(t, out, "Unknown command: foobar\n")
	assert.Equal(t, []string{"delete", "list"}, exec.calls)
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	exec := &fakeExec{}
	run(exec, "users")
	assert.Equal(t, []string{"users"}, exec.calls)
}
