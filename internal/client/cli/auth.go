package cli

import (
	"context"

	"github.com/dmitrijs2005/chyrp/internal/client/models"
	"github.com/dmitrijs2005/chyrp/internal/common"
)

// Indirections over the prompt helpers, swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register asks for the account fields and creates the account. It does
// not log the user in.
func (a *App) Register(ctx context.Context) error {
	var u models.NewUser
	prompts := []struct {
		label string
		dst   *string
	}{
		{"Enter name", &u.Name},
		{"Enter username", &u.Username},
		{"Enter email", &u.Email},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.label, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	u.Password = string(password)

	profile, err := a.gate.Register(ctx, u)
	if err != nil {
		return a.fail(err)
	}

	a.printf("Account %q created. You can log in now.\n", profile.Username)
	return nil
}

// Login asks for credentials and opens the dashboard on success.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.gate.Login(ctx, username, string(password))
	if err != nil {
		return a.fail(err)
	}

	a.views.Reset()
	a.printf("Welcome, %s.\n", displayName(sess))
	return a.ListPosts(ctx)
}

// Logout revokes the credential where possible and always signs out locally.
func (a *App) Logout(ctx context.Context) error {
	err := a.gate.Logout(ctx)
	a.views.Reset()
	a.draft = nil
	a.form = nil
	if err != nil {
		return a.fail(err)
	}
	a.println("Logged out.")
	return nil
}
