package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/chyrp/internal/client/views"
)

// execIface is the command surface the REPL drives. App implements it.
type execIface interface {
	isLoggedIn() bool
	view() views.State

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	ListPosts(ctx context.Context) error
	ShowPost(ctx context.Context, args []string) error
	NewPost(ctx context.Context) error
	SetTitle(args []string) error
	SetContent() error
	Attach(args []string) error
	Files() error
	Publish(ctx context.Context) error

	OpenProfile(ctx context.Context) error
	EditProfile() error
	SetProfileField(args []string) error
	SaveProfile(ctx context.Context) error

	Cancel(ctx context.Context) error
}

var helpText = map[views.State]string{
	views.Dashboard:  "Available commands: (l)ist, show <id>, new, profile, logout, exit",
	views.CreatePost: "Available commands: title <text>, content, attach <path>..., files, publish, cancel, exit",
	views.Profile:    "Available commands: edit, set <name|username|email> <value>, save, cancel, exit",
}

// runREPL reads one command per line from reader and dispatches it to a.
// Signed-out users only get register and login; everything else depends
// on the current screen. The loop ends on EOF, "exit" or "quit".
//
// Handlers report their own errors, so return values are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	say := func(v ...any) { fmt.Fprintln(out, v...) }

	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(out, "chyrp> %s > \n", statusFn())
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "exit", "quit":
			say("Bye!")
			return
		case "help":
			if a.isLoggedIn() {
				say(helpText[a.view()])
			} else {
				say("Available commands: register, login, exit")
			}
			continue
		}

		if !a.isLoggedIn() {
			switch cmd {
			case "register":
				_ = a.Register(ctx)
			case "login":
				_ = a.Login(ctx)
			default:
				say("Unknown command:", cmd)
			}
			continue
		}

		dispatch(ctx, a, cmd, args, say)
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string, say func(...any)) {
	switch a.view() {
	case views.Dashboard:
		switch cmd {
		case "l", "list":
			_ = a.ListPosts(ctx)
		case "show":
			_ = a.ShowPost(ctx, args)
		case "new":
			_ = a.NewPost(ctx)
		case "profile":
			_ = a.OpenProfile(ctx)
		case "logout":
			_ = a.Logout(ctx)
		default:
			say("Unknown command:", cmd)
		}

	case views.CreatePost:
		switch cmd {
		case "title":
			_ = a.SetTitle(args)
		case "content":
			_ = a.SetContent()
		case "attach":
			_ = a.Attach(args)
		case "files":
			_ = a.Files()
		case "publish":
			_ = a.Publish(ctx)
		case "cancel":
			_ = a.Cancel(ctx)
		default:
			say("Unknown command:", cmd)
		}

	case views.Profile:
		switch cmd {
		case "edit":
			_ = a.EditProfile()
		case "set":
			_ = a.SetProfileField(args)
		case "save":
			_ = a.SaveProfile(ctx)
		case "cancel":
			_ = a.Cancel(ctx)
		default:
			say("Unknown command:", cmd)
		}
	}
}
