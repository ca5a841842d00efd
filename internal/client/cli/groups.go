package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
	"github.com/dmitrijs2005/penaltybox/internal/client/views"
	"golang.org/x/sync/errgroup"
)

func (a *App) CreateGroup(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "Group name", a.out)
	if err != nil {
		return err
	}
	desc, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}
	return a.modal.Run(ctx, views.MsgGroupCreated, func(ctx context.Context) error {
		_, err := a.groups.Create(ctx, name, desc)
		return err
	})
}

func (a *App) EditGroup(ctx context.Context, args []string) error {
	id, ok := a.argID(args[0], "group")
	if !ok {
		return nil
	}
	g, err := a.api.GetGroup(ctx, id)
	if err != nil {
		return a.loadFailed(ctx, views.MsgLoadGroupFailed, err)
	}
	desc := ""
	if g.Description != nil {
		desc = *g.Description
	}
	name, err := GetTextDefault(a.reader, "Group name", g.Name, a.out)
	if err != nil {
		return err
	}
	desc, err = GetTextDefault(a.reader, "Description", desc, a.out)
	if err != nil {
		return err
	}
	return a.modal.Run(ctx, views.MsgGroupUpdated, func(ctx context.Context) error {
		_, err := a.groups.Update(ctx, id, name, desc)
		return err
	})
}

func (a *App) DeleteGroup(ctx context.Context, args []string) error {
	id, ok := a.argID(args[0], "group")
	if !ok {
		return nil
	}
	yes, err := Confirm(a.reader, fmt.Sprintf("Delete group %d and everything in it?", id), a.out)
	if err != nil || !yes {
		return err
	}
	// The group page cannot be reloaded once the group is gone.
	m := *a.modal
	m.Page = nil
	if err := m.Run(ctx, views.MsgGroupDeleted, func(ctx context.Context) error {
		return a.groups.Delete(ctx, id)
	}); err != nil {
		return err
	}
	return a.navigate(ctx, views.RouteGroups, nil)
}

// AddMember lists the users who are not yet in the group and adds the one
// picked.
func (a *App) AddMember(ctx context.Context, args []string) error {
	gid, ok := a.argID(args[0], "group")
	if !ok {
		return nil
	}

	var (
		detail *models.GroupDetail
		users  []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		detail, err = a.api.GetGroup(gctx, gid)
		return err
	})
	g.Go(func() (err error) {
		users, err = a.api.ListUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return a.loadFailed(ctx, views.MsgLoadUsersFailed, err)
	}

	available := models.AvailableUsers(users, detail.Members)
	rows := make([][]string, 0, len(available))
	for _, u := range available {
		rows = append(rows, []string{itoa(u.ID), u.Name, u.Email})
	}
	a.println(ui.For(a.out).Table([]string{"ID", "Name", "Email"}, rows, "Everyone is already a member."))

	uid, err := GetID(a.reader, "User id", a.out)
	if err != nil {
		return err
	}
	role, err := GetTextDefault(a.reader, "Role (admin/member)", string(models.RoleMember), a.out)
	if err != nil {
		return err
	}

	name := "User"
	for _, u := range available {
		if u.ID == uid {
			name = u.DisplayName()
		}
	}
	return a.modal.Run(ctx, views.MsgMemberAdded(name, detail.Name), func(ctx context.Context) error {
		return a.members.Add(ctx, gid, uid, models.Role(strings.ToLower(role)))
	})
}

func (a *App) RemoveMember(ctx context.Context, args []string) error {
	gid, ok := a.argID(args[0], "group")
	if !ok {
		return nil
	}
	uid, ok := a.argID(args[1], "user")
	if !ok {
		return nil
	}
	detail, err := a.api.GetGroup(ctx, gid)
	if err != nil {
		return a.loadFailed(ctx, views.MsgLoadGroupFailed, err)
	}
	name := "User " + itoa(uid)
	for _, m := range detail.Members {
		if m.ID == uid {
			name = m.Name
		}
	}
	yes, err := Confirm(a.reader, fmt.Sprintf("Remove %s from %s?", name, detail.Name), a.out)
	if err != nil || !yes {
		return err
	}
	return a.modal.Run(ctx, views.MsgMemberRemoved(name, detail.Name), func(ctx context.Context) error {
		return a.members.Remove(ctx, gid, uid)
	})
}
