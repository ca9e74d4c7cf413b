package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cre8tlystudio/adminctl/internal/client/models"
	"github.com/cre8tlystudio/adminctl/internal/commenttree"
)

func (a *App) Topics(ctx context.Context, _ []string) error {
	topics, err := a.community.Topics(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tTOPIC\tNEW")
	for _, t := range topics {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, newMark(t.HasNew))
	}
	return w.Flush()
}

func (a *App) Posts(ctx context.Context, args []string) error {
	posts, err := a.community.PostsByTopic(ctx, models.ID(args[0]))
	if err != nil {
		return err
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tCREATED\tNEW")
	for _, p := range posts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, oneLine(p.Title, 60), orDash(p.Author), formatTime(p.CreatedAt), newMark(p.HasNew))
	}
	return w.Flush()
}

// Post prints the post followed by its comments, replies indented under
// their parent.
func (a *App) Post(ctx context.Context, args []string) error {
	thread, err := a.community.Post(ctx, models.ID(args[0]))
	if err != nil {
		return err
	}
	renderThread(a.out, thread)
	return nil
}

func renderThread(w io.Writer, thread models.PostThread) {
	p := thread.Post
	fmt.Fprintf(w, "#%s %s\n", p.ID, p.Title)
	fmt.Fprintf(w, "by %s, %s\n\n", orDash(p.Author), formatTime(p.CreatedAt))
	if body := strings.TrimSpace(p.Body); body != "" {
		fmt.Fprintln(w, body)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Comments (%d)\n", thread.Total)
	commenttree.Walk(thread.Comments, func(n *models.CommentNode, depth int) {
		indent := strings.Repeat("  ", depth+1)
		fmt.Fprintf(w, "%s[%s] %s: %s\n", indent, n.ID, orDash(n.Author), oneLine(n.Body, 100))
	})
}

func (a *App) NewPost(ctx context.Context, _ []string) error {
	topic, err := getSimpleText(a.reader, "Topic ID", a.out)
	if err != nil {
		return err
	}
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	body, err := GetMultiline(a.reader, "Body", a.out)
	if err != nil {
		return err
	}

	req := models.CreatePostRequest{TopicID: models.ID(topic), Title: title, Body: body}
	if err := a.community.CreatePost(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Post created.")
	return nil
}

func (a *App) Reply(ctx context.Context, args []string) error {
	var parent models.ID
	if len(args) > 1 {
		parent = models.ID(args[1])
	}
	body, err := GetMultiline(a.reader, "Reply", a.out)
	if err != nil {
		return err
	}
	if err := a.community.Reply(ctx, models.ID(args[0]), parent, body); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Reply posted.")
	return nil
}

func (a *App) EditComment(ctx context.Context, args []string) error {
	body, err := GetMultiline(a.reader, "New comment text", a.out)
	if err != nil {
		return err
	}
	if err := a.community.EditComment(ctx, models.ID(args[0]), body); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Comment updated.")
	return nil
}

func (a *App) DeleteComment(ctx context.Context, args []string) error {
	if !a.confirm(fmt.Sprintf("Delete comment %s?", args[0])) {
		return nil
	}
	if err := a.community.DeleteComment(ctx, models.ID(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Comment deleted.")
	return nil
}

func (a *App) DeletePost(ctx context.Context, args []string) error {
	if !a.confirm(fmt.Sprintf("Delete post %s and all its comments?", args[0])) {
		return nil
	}
	if err := a.community.DeletePost(ctx, models.ID(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Post deleted.")
	return nil
}

func (a *App) confirm(question string) bool {
	answer, err := getSimpleText(a.reader, question+" [y/N]", a.out)
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	fmt.Fprintln(a.out, "Cancelled.")
	return false
}
