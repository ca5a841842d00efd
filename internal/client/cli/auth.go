package cli

import (
	"context"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/views"
	"github.com/dmitrijs2005/penaltybox/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for name, email and password and creates the account.
// On success the user is signed in and sent to the dashboard.
func (a *App) Register(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.session.Register(ctx, models.Registration{Name: name, Email: email, Password: string(password)})
	if !res.Success {
		a.notifier.Error(res.Error)
		return nil
	}
	a.wasAuthenticated.Store(true)
	a.expired.Store(false)
	a.notifier.Success("Account created. Welcome, " + a.user().DisplayName() + "!")
	return a.navigate(ctx, views.RouteDashboard, nil)
}

// Login prompts for credentials and signs in.
//
// The password is wiped before returning. A failed login is reported as a
// toast and leaves the session signed out.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.session.Login(ctx, models.Credentials{Email: email, Password: string(password)})
	if !res.Success {
		a.notifier.Error(res.Error)
		return nil
	}
	// a 401 from the profile call may have dropped the previous session
	// on the way; the new one is valid.
	a.wasAuthenticated.Store(true)
	a.expired.Store(false)
	a.notifier.Success("Welcome back, " + a.user().DisplayName() + "!")
	if exp, ok := a.session.TokenExpiry(); ok {
		a.logger.Debug(ctx, "token expiry", "exp", exp)
	}
	return a.navigate(ctx, views.RouteDashboard, nil)
}

// Logout clears the stored session. Calling it twice is harmless.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	a.expired.Store(false)
	a.notifier.Success(views.MsgLoggedOut)
	return a.navigate(ctx, views.RouteLogin, nil)
}
