package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cre8tlystudio/adminctl/internal/client/models"
)

func (a *App) Messages(ctx context.Context, args []string) error {
	page := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = n
	}

	msgs, more, err := a.messages.List(ctx, page)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Fprintln(a.out, "No messages.")
		return nil
	}

	for _, m := range msgs {
		fmt.Fprintf(a.out, "[%s] %s  %s\n", m.ID, formatTime(m.CreatedAt), m.Title)
		fmt.Fprintf(a.out, "    %s\n", oneLine(m.Message, 120))
	}
	if more {
		fmt.Fprintf(a.out, "More: messages %d\n", page+1)
	}
	return nil
}

func (a *App) Announce(ctx context.Context, _ []string) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	message, err := GetMultiline(a.reader, "Message", a.out)
	if err != nil {
		return err
	}
	if err := a.messages.Post(ctx, title, message); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Message posted.")
	return nil
}

func (a *App) DeleteMessage(ctx context.Context, args []string) error {
	if !a.confirm(fmt.Sprintf("Delete message %s?", args[0])) {
		return nil
	}
	if err := a.messages.Delete(ctx, models.ID(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Message deleted.")
	return nil
}
