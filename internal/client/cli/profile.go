package cli

import (
	"context"

	"github.com/dmitrijs2005/penaltybox/internal/client/views"
	"github.com/dmitrijs2005/penaltybox/internal/common"
)

func (a *App) EditProfile(ctx context.Context, _ []string) error {
	u := a.user()
	if u == nil {
		return common.ErrNotAuthenticated
	}
	name, err := GetTextDefault(a.reader, "Name", u.Name, a.out)
	if err != nil {
		return err
	}
	email, err := GetTextDefault(a.reader, "Email", u.Email, a.out)
	if err != nil {
		return err
	}
	return a.modal.Run(ctx, views.MsgProfileUpdated, func(ctx context.Context) error {
		_, err := a.profile.Update(ctx, name, email)
		return err
	})
}

// ChangePassword reads the three password fields and wipes them afterwards.
func (a *App) ChangePassword(ctx context.Context, _ []string) error {
	var fields [3][]byte
	defer func() {
		for _, f := range fields {
			common.WipeByteArray(f)
		}
	}()
	for i, prompt := range []string{"Current password", "New password", "Confirm new password"} {
		pw, err := getPassword(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		fields[i] = pw
	}
	return a.modal.Run(ctx, views.MsgPasswordChanged, func(ctx context.Context) error {
		return a.profile.ChangePassword(ctx, string(fields[0]), string(fields[1]), string(fields[2]))
	})
}
