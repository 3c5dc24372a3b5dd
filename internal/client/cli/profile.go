package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/chyrp/internal/client/services"
	"github.com/dmitrijs2005/chyrp/internal/client/views"
)

func (a *App) OpenProfile(ctx context.Context) error {
	if a.enter(ctx, views.Profile) == nil {
		return services.ErrNoSession
	}

	p, err := a.profiles.Current(ctx)
	if err != nil {
		return a.fail(err)
	}
	if _, err := a.views.Apply(views.OpenProfile); err != nil {
		return a.fail(err)
	}

	a.form = views.NewProfileForm(p)
	a.println(formatProfile(p))
	return nil
}

func (a *App) EditProfile() error {
	if a.form == nil {
		return errUsage
	}
	a.form.Edit()
	a.println("Editing profile. Use 'set <field> <value>', then 'save' or 'cancel'.")
	return nil
}

func (a *App) SetProfileField(args []string) error {
	if a.form == nil {
		return errUsage
	}
	if len(args) < 2 {
		a.println("Usage: set <name|username|email> <value>")
		return errUsage
	}
	if err := a.form.Set(args[0], strings.Join(args[1:], " ")); err != nil {
		return a.fail(err)
	}
	return nil
}

// SaveProfile sends the edited profile. A rejected save keeps the form in
// editing mode with the user's changes.
func (a *App) SaveProfile(ctx context.Context) error {
	if a.form == nil || a.form.Mode() != views.Editing {
		a.println("Nothing to save. Type 'edit' first.")
		return errUsage
	}
	if a.enter(ctx, views.Profile) == nil {
		return services.ErrNoSession
	}

	saved, err := a.profiles.Update(ctx, a.form.Draft())
	if err != nil {
		return a.fail(err)
	}

	a.form.Saved(saved)
	a.println("Profile saved.")
	a.println(formatProfile(saved))

	if _, err := a.views.Apply(views.ProfileSaved); err != nil {
		return a.fail(err)
	}
	a.form = nil
	return nil
}
