package cli

import (
	"context"

	"github.com/dmitrijs2005/resumefit/internal/client/ui"
	"github.com/dmitrijs2005/resumefit/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// Register prompts for a name, an email and a password and creates an
// account. The outcome is reported by the session's notifications; a new
// account still has to log in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.session.Signup(ctx, name, email, string(password))
}

// Login prompts for credentials and signs in. On success the user lands on
// the dashboard.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		return err
	}
	a.Navigate(ctx, ui.RouteDashboard)
	return nil
}

// Logout ends the session and discards any analysis on screen.
func (a *App) Logout(ctx context.Context) error {
	a.workflow.Reset()
	a.session.Logout(ctx)
	return nil
}
