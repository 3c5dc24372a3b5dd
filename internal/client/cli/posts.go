package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/client/services"
	"github.com/dmitrijs2005/chyrp/internal/client/views"
)

var errUsage = errors.New("usage")

// ListPosts prints the signed-in user's posts, newest first as returned by
// the server.
func (a *App) ListPosts(ctx context.Context) error {
	if a.enter(ctx, views.Dashboard) == nil {
		return services.ErrNoSession
	}

	posts, err := a.posts.List(ctx)
	if err != nil {
		return a.fail(err)
	}

	if len(posts) == 0 {
		a.println("No posts yet. Type 'new' to write one.")
		return nil
	}
	for _, p := range posts {
		a.println(formatPostLine(p))
	}
	return nil
}

func (a *App) ShowPost(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: show <id>")
		return errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		a.println("Post id must be a positive number.")
		return errUsage
	}

	if a.enter(ctx, views.Dashboard) == nil {
		return services.ErrNoSession
	}

	post, err := a.posts.Get(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	a.println(formatPost(post))
	return nil
}

// NewPost opens the composer and asks for the title and body straight away.
func (a *App) NewPost(ctx context.Context) error {
	if a.enter(ctx, views.CreatePost) == nil {
		return services.ErrNoSession
	}
	if _, err := a.views.Apply(views.OpenCreate); err != nil {
		return a.fail(err)
	}
	a.draft = &models.Draft{}

	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	a.draft.Title = title

	if err := a.SetContent(); err != nil {
		return err
	}

	a.println("Attach at least one image with 'attach <path>', then 'publish'.")
	return nil
}

func (a *App) SetTitle(args []string) error {
	if a.draft == nil {
		return errUsage
	}
	a.draft.Title = strings.Join(args, " ")
	return nil
}

func (a *App) SetContent() error {
	if a.draft == nil {
		return errUsage
	}
	content, err := GetMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	a.draft.Content = content
	return nil
}

// Attach adds files to the draft. Nothing is uploaded until publish.
func (a *App) Attach(args []string) error {
	if a.draft == nil {
		return errUsage
	}
	if len(args) == 0 {
		a.println("Usage: attach <path>...")
		return errUsage
	}

	for _, path := range args {
		f, err := models.FileFromPath(path)
		if err != nil {
			a.println("Error:", err)
			return err
		}
		a.draft.Files = append(a.draft.Files, f)
		a.printf("Attached %s (%s, %s)\n", f.Name, f.ContentType, humanSize(f.Size))
	}
	return nil
}

// Files prints the draft as it would be published.
func (a *App) Files() error {
	if a.draft == nil {
		return errUsage
	}
	a.println(formatDraft(*a.draft))
	return nil
}

// Publish uploads every attachment and creates the post. On failure the
// draft is kept so the user can fix it and try again.
func (a *App) Publish(ctx context.Context) error {
	if a.draft == nil {
		return errUsage
	}
	if a.enter(ctx, views.CreatePost) == nil {
		return services.ErrNoSession
	}

	a.printf("Publishing %d file(s)...\n", len(a.draft.Files))
	post, err := a.publisher.PublishCurrent(ctx, *a.draft)
	if err != nil {
		return a.fail(err)
	}

	if _, err := a.views.Apply(views.PublishSucceeded); err != nil {
		return a.fail(err)
	}
	a.draft = nil
	a.printf("Post #%d published.\n", post.ID)
	return a.ListPosts(ctx)
}

// Cancel leaves the current screen. On the profile screen it first
// discards unsaved edits.
func (a *App) Cancel(ctx context.Context) error {
	switch a.views.State() {
	case views.Profile:
		if a.form != nil && a.form.Mode() == views.Editing {
			a.form.Cancel()
			a.println("Changes discarded.")
			a.println(formatProfile(a.form.Profile()))
			return nil
		}
		a.form = nil
	case views.CreatePost:
		a.draft = nil
	}

	if _, err := a.views.Apply(views.Cancel); err != nil {
		return a.fail(err)
	}
	return nil
}
