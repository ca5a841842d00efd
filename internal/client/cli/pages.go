package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/penaltybox/internal/client/router"
	"github.com/dmitrijs2005/penaltybox/internal/client/views"
)

// argID parses a positive id argument, printing a message when it is not.
func (a *App) argID(s, what string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		a.println("Invalid " + what + " id: " + s)
		return 0, false
	}
	return id, true
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (a *App) Dashboard(ctx context.Context, _ []string) error {
	return a.navigate(ctx, views.RouteDashboard, nil)
}

func (a *App) Groups(ctx context.Context, _ []string) error {
	return a.navigate(ctx, views.RouteGroups, nil)
}

func (a *App) Group(ctx context.Context, args []string) error {
	id, ok := a.argID(args[0], "group")
	if !ok {
		return nil
	}
	return a.navigate(ctx, views.RouteGroup, router.Params{"id": itoa(id)})
}

func (a *App) Rules(ctx context.Context, args []string) error {
	p := router.Params{}
	if s := optional(args, 0); s != "" {
		id, ok := a.argID(s, "group")
		if !ok {
			return nil
		}
		p["id"] = itoa(id)
	}
	return a.navigate(ctx, views.RouteRules, p)
}

func (a *App) MyPenalties(ctx context.Context, args []string) error {
	return a.navigate(ctx, views.RouteMyPenalties, router.Params{"filter": optional(args, 0)})
}

func (a *App) GroupPenalties(ctx context.Context, args []string) error {
	id, ok := a.argID(args[0], "group")
	if !ok {
		return nil
	}
	return a.navigate(ctx, views.RouteGroupPenalties, router.Params{"id": itoa(id)})
}

func (a *App) PenaltyProofs(ctx context.Context, args []string) error {
	id, ok := a.argID(args[0], "penalty")
	if !ok {
		return nil
	}
	return a.navigate(ctx, views.RoutePenaltyProofs, router.Params{"id": itoa(id)})
}

func (a *App) ProofReview(ctx context.Context, args []string) error {
	return a.navigate(ctx, views.RouteProofReview, router.Params{"filter": optional(args, 0)})
}

func (a *App) Leaderboard(ctx context.Context, args []string) error {
	p := router.Params{}
	if s := optional(args, 0); s != "" {
		id, ok := a.argID(s, "group")
		if !ok {
			return nil
		}
		p["id"] = itoa(id)
	}
	return a.navigate(ctx, views.RouteLeaderboard, p)
}

// Profile shows the stored profile and when the session token expires.
func (a *App) Profile(ctx context.Context, _ []string) error {
	if err := a.navigate(ctx, views.RouteProfile, nil); err != nil {
		return err
	}
	if exp, ok := a.session.TokenExpiry(); ok {
		a.println("Session valid until " + exp.Local().Format("02 Jan 2006 15:04"))
	}
	return nil
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
