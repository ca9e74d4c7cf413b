package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrLoginRequired = errors.New("please log in first")

// command is one console action, shared by the REPL and the command tree.
type command struct {
	name       string
	aliases    []string
	args       string
	short      string
	minArgs    int
	maxArgs    int
	needsLogin bool
	run        func(ctx context.Context, args []string) error
}

func (c command) usage() string {
	if c.args == "" {
		return c.name
	}
	return c.name + " " + c.args
}

func (c command) matches(name string) bool {
	if c.name == name {
		return true
	}
	for _, alias := range c.aliases {
		if alias == name {
			return true
		}
	}
	return false
}

// invoke checks arity and login before running the command.
func (c command) invoke(ctx context.Context, loggedIn bool, args []string) error {
	if len(args) < c.minArgs || (c.maxArgs >= 0 && len(args) > c.maxArgs) {
		return fmt.Errorf("usage: %s", c.usage())
	}
	if c.needsLogin && !loggedIn {
		return ErrLoginRequired
	}
	return c.run(ctx, args)
}

func (a *App) commands() []command {
	return []command{
		{name: "login", short: "Log in with email, password and 2FA code", run: a.Login},
		{name: "logout", short: "Log out and forget the saved session", needsLogin: true, run: a.Logout},
		{name: "status", short: "Show the session and connectivity", run: a.Status},
		{name: "me", short: "Show the logged-in admin's profile", needsLogin: true, run: a.Me},
		{name: "enable-2fa", short: "Start 2FA enrolment and print the QR payload", needsLogin: true, run: a.EnableTwoFA},
		{name: "update-account", short: "Change email or password", needsLogin: true, run: a.UpdateAccount},

		{name: "stats", short: "Show dashboard counters", needsLogin: true, run: a.Stats},
		{name: "users", short: "List users, newest first", needsLogin: true, run: a.Users},
		{name: "referral", args: "<employee-id> [slug]", short: "Create an employee referral link", minArgs: 1, maxArgs: 2, needsLogin: true, run: a.Referral},
		{name: "reports", short: "List reports", needsLogin: true, run: a.Reports},
		{name: "deliveries", args: "[page]", short: "List product deliveries", maxArgs: 1, needsLogin: true, run: a.Deliveries},
		{name: "employees", short: "List employees with referral links", needsLogin: true, run: a.Employees},
		{name: "referrals", args: "[page] [employee-id]", short: "List employee referrals", maxArgs: 2, needsLogin: true, run: a.Referrals},

		{name: "topics", short: "List community topics", needsLogin: true, run: a.Topics},
		{name: "posts", args: "<topic-id>", short: "List posts of a topic", minArgs: 1, maxArgs: 1, needsLogin: true, run: a.Posts},
		{name: "post", args: "<post-id>", short: "Show a post with its comment tree", minArgs: 1, maxArgs: 1, needsLogin: true, run: a.Post},
		{name: "new-post", short: "Create a community post", needsLogin: true, run: a.NewPost},
		{name: "reply", args: "<post-id> [comment-id]", short: "Reply to a post or a comment", minArgs: 1, maxArgs: 2, needsLogin: true, run: a.Reply},
		{name: "edit-comment", args: "<comment-id>", short: "Replace a comment's body", minArgs: 1, maxArgs: 1, needsLogin: true, run: a.EditComment},
		{name: "delete-comment", args: "<comment-id>", short: "Delete a comment", minArgs: 1, maxArgs: 1, needsLogin: true, run: a.DeleteComment},
		{name: "delete-post", args: "<post-id>", short: "Delete a post", minArgs: 1, maxArgs: 1, needsLogin: true, run: a.DeletePost},

		{name: "messages", aliases: []string{"m"}, args: "[page]", short: "List message board entries", maxArgs: 1, needsLogin: true, run: a.Messages},
		{name: "announce", short: "Post a message to the message board", needsLogin: true, run: a.Announce},
		{name: "delete-message", args: "<message-id>", short: "Delete a message", minArgs: 1, maxArgs: 1, needsLogin: true, run: a.DeleteMessage},

		{name: "analytics", args: "[geo]", short: "Show website analytics", maxArgs: 1, needsLogin: true, run: a.Analytics},
	}
}

func findCommand(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.matches(name) {
			return c, true
		}
	}
	return command{}, false
}

func helpText(cmds []command, loggedIn bool) string {
	names := make([]string, 0, len(cmds)+2)
	for _, c := range cmds {
		if c.needsLogin == loggedIn || (!c.needsLogin && loggedIn && c.name != "login") {
			names = append(names, c.name)
		}
	}
	names = append(names, "help", "exit")
	return "Available commands: " + strings.Join(names, ", ")
}
