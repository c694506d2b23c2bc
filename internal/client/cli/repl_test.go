package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Analyze(ctx context.Context) error {
	f.calls = append(f.calls, "analyze")
	return nil
}
func (f *fakeExec) Reset(ctx context.Context) error { f.calls = append(f.calls, "reset"); return nil }
func (f *fakeExec) Status(ctx context.Context) error {
	f.calls = append(f.calls, "status")
	return nil
}

// capturePrintln records REPL output for the duration of the test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func reader(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	in := reader(
		"help",
		"register",
		"login",
		"help",
		"analyze",
		"a",
		"   ",
		"status",
		"reset",
		"logout",
		"exit",
		"login",
	)

	runREPL(context.Background(), exec, func() string { return "status" }, in)

	assert.Equal(t, []string{"register", "login", "analyze", "analyze", "status", "reset", "logout"}, exec.calls)
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, reader("help", "login", "help", "quit"))

	assert.Contains(t, *out, "Available commands: register, login, status, exit")
	assert.Contains(t, *out, "Available commands: analyze, reset, status, logout, exit")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_UnknownCommandAndEOF(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, reader("foobar", "status"))

	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Equal(t, []string{"status"}, exec.calls, "last line without newline is still executed")
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	capturePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, reader("login", "exit"))
	assert.Empty(t, exec.calls)
}
