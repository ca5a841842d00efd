package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/penaltybox/internal/client/api"
	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/notify"
	"github.com/dmitrijs2005/penaltybox/internal/client/router"
	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
	"github.com/dmitrijs2005/penaltybox/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Route names.
const (
	RouteLogin          = "login"
	RouteDashboard      = "dashboard"
	RouteGroups         = "groups"
	RouteGroup          = "group"
	RouteRules          = "rules"
	RouteMyPenalties    = "penalties"
	RouteGroupPenalties = "grouppenalties"
	RoutePenaltyProofs  = "penaltyproofs"
	RouteProofReview    = "proofs"
	RouteLeaderboard    = "leaderboard"
	RouteProfile        = "profile"
)

// CurrentUser gives the views the signed-in profile.
type CurrentUser interface {
	User() *models.User
}

// Deps are shared by every view.
type Deps struct {
	API      api.Client
	Session  CurrentUser
	Notifier notify.Notifier
	Logger   logging.Logger
}

func (d *Deps) user() *models.User {
	if d.Session == nil {
		return nil
	}
	return d.Session.User()
}

func (d *Deps) logger() logging.Logger {
	if d.Logger == nil {
		return logging.Nop()
	}
	return d.Logger
}

// IsGlobalAdmin reports the account-wide admin flag.
func IsGlobalAdmin(u *models.User) bool {
	return u != nil && u.IsAdmin
}

// IsGroupAdmin reports whether u holds the admin role in the group. The
// global flag does not count here.
func IsGroupAdmin(g *models.GroupDetail, u *models.User) bool {
	if g == nil || u == nil {
		return false
	}
	return models.HasAdmin(g.Members, u.ID)
}

// fetch runs get on g and stores the result in dst. Failures other than
// cancellation are logged and toasted with failMsg and leave dst zeroed.
func fetch[T any](ctx context.Context, g *errgroup.Group, d *Deps, dst *T, failMsg string, get func(context.Context) (T, error)) {
	g.Go(func() error {
		v, err := get(ctx)
		if err != nil {
			var zero T
			*dst = zero
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logFailure(ctx, d, failMsg, err)
			d.Notifier.Error(failMsg)
			return nil
		}
		*dst = v
		return nil
	})
}

func logFailure(ctx context.Context, d *Deps, msg string, err error) {
	var apiErr *api.APIError
	requestID := ""
	if errors.As(err, &apiErr) {
		requestID = apiErr.RequestID
	}
	d.logger().Error(ctx, msg, "status", api.StatusCode(err), "detail", api.DetailOr(err, ""), "request_id", requestID, "error", err)
}

// ParamID reads a positive integer parameter.
func ParamID(p router.Params, key string) (int64, bool) {
	id, err := strconv.ParseInt(p[key], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func section(w io.Writer, s ui.Styles, title, body string) {
	io.WriteString(w, s.Title.Render(title)+"\n"+body+"\n\n")
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// Routes returns every page in sidebar order.
func Routes(d *Deps) []router.Route {
	return []router.Route{
		{Name: RouteLogin, Label: "Login", View: func(router.Params) (router.View, error) { return NewLogin(), nil }},
		{Name: RouteDashboard, Label: "Dashboard", Protected: true, View: func(router.Params) (router.View, error) {
			return NewDashboard(d), nil
		}},
		{Name: RouteGroups, Label: "Groups", Protected: true, View: func(router.Params) (router.View, error) {
			return NewGroups(d), nil
		}},
		{Name: RouteMyPenalties, Label: "Penalties", Protected: true, View: func(p router.Params) (router.View, error) {
			return NewMyPenalties(d, models.ParsePenaltyFilter(p["filter"])), nil
		}},
		{Name: RouteRules, Label: "Rules", Protected: true, View: func(p router.Params) (router.View, error) {
			id, _ := ParamID(p, "id")
			return NewRules(d, id), nil
		}},
		{Name: RouteProofReview, Label: "Proofs", Protected: true, AdminOnly: true, View: func(p router.Params) (router.View, error) {
			return NewProofReview(d, models.ParseProofFilter(p["filter"])), nil
		}},
		{Name: RouteLeaderboard, Label: "Leaderboard", Protected: true, View: func(p router.Params) (router.View, error) {
			id, _ := ParamID(p, "id")
			return NewLeaderboard(d, id), nil
		}},
		{Name: RouteProfile, Label: "Profile", Protected: true, View: func(router.Params) (router.View, error) {
			return NewProfile(d), nil
		}},
		{Name: RouteGroup, Protected: true, Hidden: true, View: func(p router.Params) (router.View, error) {
			id, ok := ParamID(p, "id")
			if !ok {
				return nil, errInvalidID("group")
			}
			return NewGroupDetail(d, id), nil
		}},
		{Name: RouteGroupPenalties, Protected: true, Hidden: true, View: func(p router.Params) (router.View, error) {
			id, ok := ParamID(p, "id")
			if !ok {
				return nil, errInvalidID("group")
			}
			return NewGroupPenalties(d, id), nil
		}},
		{Name: RoutePenaltyProofs, Protected: true, Hidden: true, View: func(p router.Params) (router.View, error) {
			id, ok := ParamID(p, "id")
			if !ok {
				return nil, errInvalidID("penalty")
			}
			return NewPenaltyProofs(d, id), nil
		}},
	}
}

// ErrInvalidID is returned for a missing or malformed id parameter.
var ErrInvalidID = errors.New("invalid id")

func errInvalidID(what string) error {
	return fmt.Errorf("%w: %s", ErrInvalidID, what)
}
