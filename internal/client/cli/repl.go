package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface of the REPL. App implements it; tests
// use a stub.
type execIface interface {
	hasProfile() bool
	Users(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error
	Forget(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Sort(ctx context.Context, args []string) error
	Clear(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
}

const (
	helpNoProfile = "Available commands: users, select <n|id>, help, exit"
	helpProfile   = "Available commands: (l)ist, filter <all|thisYear|lastYear>, sort <newest|oldest>, clear, refresh, " +
		"show <n|id>, add, edit <n|id>, delete <n|id>, users, select <n|id>, whoami, forget, help, exit"
)

// runREPL reads commands from reader until EOF or exit/quit. Command errors
// are printed as a one-line notice and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "memorylane %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.hasProfile() {
				fmt.Fprintln(w, helpProfile)
			} else {
				fmt.Fprintln(w, helpNoProfile)
			}
		case "users":
			cmdErr = a.Users(ctx, args)
		case "select":
			cmdErr = a.Select(ctx, args)
		case "whoami":
			cmdErr = a.WhoAmI(ctx, args)
		case "forget":
			cmdErr = a.Forget(ctx, args)
		case "l", "list":
			cmdErr = a.List(ctx, args)
		case "filter":
			cmdErr = a.Filter(ctx, args)
		case "sort":
			cmdErr = a.Sort(ctx, args)
		case "clear":
			cmdErr = a.Clear(ctx, args)
		case "refresh":
			cmdErr = a.Refresh(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "add":
			cmdErr = a.Add(ctx, args)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", describe(cmdErr))
		}
	}
}
