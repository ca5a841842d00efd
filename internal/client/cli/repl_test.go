package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	after    int
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) dispatch(_ context.Context, cmd string, args []string) error {
	if _, ok := commands[cmd]; !ok {
		return errUnknownCommand
	}
	f.calls = append(f.calls, strings.TrimSpace(cmd+" "+strings.Join(args, " ")))
	switch cmd {
	case "login":
		f.loggedIn = true
	case "logout":
		f.loggedIn = false
	}
	return nil
}

func (f *fakeExec) afterCommand(context.Context) { f.after++ }

func TestRunREPL_DispatchesWithArgs(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"login",
		"",
		"group 7",
		"upload 3 ./receipt.png TX-1",
		"foobar",
		"logout",
		"exit",
		"groups",
	}, "\n")

	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "" }, rdr(input), &out)

	assert.Equal(t, []string{"login", "group 7", "upload 3 ./receipt.png TX-1", "logout"}, exec.calls)
	assert.Equal(t, 5, exec.after)
	assert.Contains(t, out.String(), "Unknown command: foobar")
	assert.Contains(t, out.String(), "Available commands: register, login, help, exit")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_Prompt(t *testing.T) {
	var out bytes.Buffer
	runREPL(context.Background(), &fakeExec{}, func() string { return "(mia@example.com [admin])" }, rdr("quit\n"), &out)
	assert.True(t, strings.HasPrefix(out.String(), "pb (mia@example.com [admin]) > "))

	out.Reset()
	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, rdr("quit\n"), &out)
	assert.True(t, strings.HasPrefix(out.String(), "pb > "))
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "" }, rdr("login"), &out)
	assert.Equal(t, []string{"login"}, exec.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec = &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, rdr("login\n"), &out)
	assert.Empty(t, exec.calls)
}

func TestHelpText_ListsCommandsWhenLoggedIn(t *testing.T) {
	txt := helpText(true)
	for _, want := range []string{"upload <penalty> <path> [reference]", "decline <proof>", "passwd", "exit"} {
		assert.Contains(t, txt, want)
	}
	assert.NotContains(t, txt, "register")
}
