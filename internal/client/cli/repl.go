package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cre8tlystudio/adminctl/internal/client/client"
)

// shell is the minimal surface the REPL needs. App satisfies it; tests can
// provide a stub.
type shell interface {
	isLoggedIn() bool
	getStatus() string
	commandContext(ctx context.Context, name string) context.Context
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
// The first token of a line selects the command, the rest are its
// arguments. Handler errors are printed and the loop continues. A session
// expiry has already been announced by the navigator, so it is not printed
// again.
func runREPL(ctx context.Context, sh shell, cmds []command, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(w, "admin%s> ", prefixed(sh.getStatus()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help", "?":
			fmt.Fprintln(w, helpText(cmds, sh.isLoggedIn()))
			continue
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		}

		c, ok := findCommand(cmds, name)
		if !ok {
			fmt.Fprintln(w, "Unknown command:", name)
			continue
		}

		if err := c.invoke(sh.commandContext(ctx, c.name), sh.isLoggedIn(), args); err != nil {
			if errors.Is(err, client.ErrSessionExpired) {
				continue
			}
			fmt.Fprintln(w, "Error:", err)
		}
	}
}

func prefixed(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}

// Shell starts the connectivity watcher and runs the interactive console
// until the user exits or ctx is cancelled.
func (a *App) Shell(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, a.config.StatusCheckInterval)

	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in. Type \"login\" to start or \"help\" for commands.")
	}
	runREPL(ctx, a, a.commands(), a.reader, a.out)
	return nil
}
