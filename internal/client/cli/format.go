package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/chyrp/internal/client/client"
	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/client/services"
	"github.com/dmitrijs2005/chyrp/internal/client/views"
	"github.com/dmitrijs2005/chyrp/internal/common"
)

// userMessage turns err into the line shown after "Error:".
func userMessage(err error) string {
	var (
		ve *common.ValidationError
		ue *services.UploadError
		re *client.RemoteError
	)

	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, services.ErrNoSession):
		return "Please log in first."
	case errors.Is(err, services.ErrLoginInProgress):
		return "A login is already in progress."
	case errors.Is(err, views.ErrInvalidTransition):
		return "That is not possible on this screen."
	case errors.As(err, &ue):
		return fmt.Sprintf("Publishing failed, %s could not be uploaded. %s", ue.File, client.Message(ue.Err))
	case errors.As(err, &re):
		return re.Error()
	case errors.Is(err, client.ErrNotFound):
		return "Post not found."
	case errors.Is(err, client.ErrUnavailable):
		return "The server is unavailable. Please try again later."
	}
	return client.Message(err)
}

func formatPostLine(p models.Post) string {
	return fmt.Sprintf("#%-5d %s  (%s, %d media)", p.ID, p.Title, humanize.Time(p.CreateTime), len(p.Media))
}

func formatPost(p models.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n", p.ID, p.Title)
	fmt.Fprintf(&b, "Posted %s\n\n", p.CreateTime.Local().Format(time.DateTime))
	b.WriteString(p.Content)
	b.WriteString("\n")
	for _, m := range p.Media {
		fmt.Fprintf(&b, "\n  [%s] %s", m.MediaType, m.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatDraft(d models.Draft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title:   %s\n", d.Title)
	fmt.Fprintf(&b, "Content: %d characters\n", len(d.Content))
	if len(d.Files) == 0 {
		b.WriteString("Files:   none")
		return b.String()
	}
	b.WriteString("Files:")
	for i, f := range d.Files {
		fmt.Fprintf(&b, "\n  %d. %s (%s, %s)", i+1, f.Name, f.ContentType, humanSize(f.Size))
	}
	return b.String()
}

func formatProfile(p models.Profile) string {
	return fmt.Sprintf("Name:     %s\nUsername: %s\nEmail:    %s", p.Name, p.Username, p.Email)
}

func humanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
