package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

var errUnknownCommand = errors.New("unknown command")

// execIface is the command surface the REPL needs. The real App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	dispatch(ctx context.Context, cmd string, args []string) error
	afterCommand(ctx context.Context)
}

// runREPL reads commands from reader until EOF, "exit" or "quit", or until
// ctx is done. The first token is the command, the rest are its arguments.
//
// Errors returned by command handlers are not printed here; handlers report
// their own failures as toasts.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		if s := statusFn(); s != "" {
			fmt.Fprintf(out, "pb %s > ", s)
		} else {
			fmt.Fprint(out, "pb > ")
		}
		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(out, helpText(a.isLoggedIn()))

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			if err := a.dispatch(ctx, cmd, args); errors.Is(err, errUnknownCommand) {
				fmt.Fprintln(out, "Unknown command:", cmd)
			}
			a.afterCommand(ctx)
		}
	}
}

type command struct {
	usage string
	// auth commands need a session; the rest run signed out too.
	auth bool
	// args is the number of required arguments.
	args int
	run  func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"register": {usage: "register", run: (*App).Register},
	"login":    {usage: "login", run: (*App).Login},
	"logout":   {usage: "logout", auth: true, run: (*App).Logout},

	"dashboard":    {usage: "dashboard", auth: true, run: (*App).Dashboard},
	"groups":       {usage: "groups", auth: true, run: (*App).Groups},
	"group":        {usage: "group <id>", auth: true, args: 1, run: (*App).Group},
	"creategroup":  {usage: "creategroup", auth: true, run: (*App).CreateGroup},
	"editgroup":    {usage: "editgroup <id>", auth: true, args: 1, run: (*App).EditGroup},
	"deletegroup":  {usage: "deletegroup <id>", auth: true, args: 1, run: (*App).DeleteGroup},
	"addmember":    {usage: "addmember <group>", auth: true, args: 1, run: (*App).AddMember},
	"removemember": {usage: "removemember <group> <user>", auth: true, args: 2, run: (*App).RemoveMember},

	"rules":      {usage: "rules [group]", auth: true, run: (*App).Rules},
	"addrule":    {usage: "addrule <group>", auth: true, args: 1, run: (*App).AddRule},
	"editrule":   {usage: "editrule <group> <rule>", auth: true, args: 2, run: (*App).EditRule},
	"deleterule": {usage: "deleterule <group> <rule>", auth: true, args: 2, run: (*App).DeleteRule},

	"issue":          {usage: "issue <group>", auth: true, args: 1, run: (*App).Issue},
	"penalties":      {usage: "penalties [ALL|PAID|UNPAID]", auth: true, run: (*App).MyPenalties},
	"grouppenalties": {usage: "grouppenalties <group>", auth: true, args: 1, run: (*App).GroupPenalties},
	"status":         {usage: "status <penalty>", auth: true, args: 1, run: (*App).ToggleStatus},

	"upload":        {usage: "upload <penalty> <path> [reference]", auth: true, args: 2, run: (*App).Upload},
	"penaltyproofs": {usage: "penaltyproofs <penalty>", auth: true, args: 1, run: (*App).PenaltyProofs},
	"proofs":        {usage: "proofs [PENDING|APPROVED|DECLINED|ALL]", auth: true, run: (*App).ProofReview},
	"approve":       {usage: "approve <proof>", auth: true, args: 1, run: (*App).Approve},
	"decline":       {usage: "decline <proof>", auth: true, args: 1, run: (*App).Decline},
	"image":         {usage: "image <proof>", auth: true, args: 1, run: (*App).Image},

	"leaderboard": {usage: "leaderboard [group]", auth: true, run: (*App).Leaderboard},
	"profile":     {usage: "profile", auth: true, run: (*App).Profile},
	"editprofile": {usage: "editprofile", auth: true, run: (*App).EditProfile},
	"passwd":      {usage: "passwd", auth: true, run: (*App).ChangePassword},
}

func helpText(loggedIn bool) string {
	if !loggedIn {
		return "Available commands: register, login, help, exit"
	}
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		if c.auth {
			names = append(names, c.usage)
		}
	}
	sort.Strings(names)
	return "Available commands:\n  " + strings.Join(names, "\n  ") + "\n  help\n  exit"
}

func (a *App) dispatch(ctx context.Context, name string, args []string) error {
	c, ok := commands[name]
	if !ok {
		return errUnknownCommand
	}
	if c.auth && !a.isLoggedIn() {
		a.println("Please log in first (type 'login').")
		return nil
	}
	if len(args) < c.args {
		a.println("Usage:", c.usage)
		return nil
	}
	return c.run(a, ctx, args)
}
