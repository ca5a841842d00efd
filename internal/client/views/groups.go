package views

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/dmitrijs2005/penaltybox/internal/client/api"
	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/router"
	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
	"golang.org/x/sync/errgroup"
)

// Groups lists the groups the user belongs to.
type Groups struct {
	d      *Deps
	groups []models.Group
}

func NewGroups(d *Deps) *Groups { return &Groups{d: d} }

func (*Groups) Title() string { return "Groups" }

func (v *Groups) Load(ctx context.Context) error {
	var g errgroup.Group
	fetch(ctx, &g, v.d, &v.groups, MsgLoadGroupsFailed, v.d.API.ListGroups)
	return g.Wait()
}

func (v *Groups) Reload(ctx context.Context) error { return v.Load(ctx) }

// List returns the fetched groups.
func (v *Groups) List() []models.Group { return v.groups }

func (v *Groups) Render(w io.Writer) {
	s := ui.For(w)
	rows := make([][]string, 0, len(v.groups))
	for _, g := range v.groups {
		rows = append(rows, []string{
			itoa(g.ID), g.Name, orDash(g.Description),
			strconv.Itoa(g.MemberCount), strconv.Itoa(g.AdminCount), g.CreatedAt.Short(),
		})
	}
	io.WriteString(w, s.Table([]string{"ID", "Name", "Description", "Members", "Admins", "Created"}, rows,
		"You are not a member of any group yet.")+"\n")
}

// Group detail messages.
const (
	MsgNotGroupMember  = "You are not a member of this group"
	MsgGroupNotFound   = "Group not found"
	MsgLoadGroupFailed = "Failed to load group details"
	MsgLoadRulesFailed = "Failed to load rules"
	MsgLoadBoardFailed = "Failed to load leaderboard"
)

// GroupDetail shows one group with its members, rules and standings.
type GroupDetail struct {
	d     *Deps
	id    int64
	group *models.GroupDetail
	rules []models.Rule
	board []models.LeaderboardEntry
}

func NewGroupDetail(d *Deps, id int64) *GroupDetail { return &GroupDetail{d: d, id: id} }

func (v *GroupDetail) Title() string {
	if v.group != nil {
		return v.group.Name
	}
	return "Group"
}

// Group returns the fetched group, nil if it could not be loaded.
func (v *GroupDetail) Group() *models.GroupDetail { return v.group }

// IsAdmin reports whether the signed-in user administers this group.
func (v *GroupDetail) IsAdmin() bool { return IsGroupAdmin(v.group, v.d.user()) }

// Load fetches the group first; access errors send the user back to the
// group list. Rules and the leaderboard are then fetched together.
func (v *GroupDetail) Load(ctx context.Context) error {
	detail, err := v.d.API.GetGroup(ctx, v.id)
	switch {
	case err == nil:
		v.group = detail
	case errors.Is(err, api.ErrForbidden):
		return &router.Redirect{To: RouteGroups, Message: MsgNotGroupMember}
	case errors.Is(err, api.ErrNotFound):
		return &router.Redirect{To: RouteGroups, Message: MsgGroupNotFound}
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		v.group, v.rules, v.board = nil, nil, nil
		logFailure(ctx, v.d, MsgLoadGroupFailed, err)
		v.d.Notifier.Error(MsgLoadGroupFailed)
		return nil
	}

	var g errgroup.Group
	fetch(ctx, &g, v.d, &v.rules, MsgLoadRulesFailed, func(ctx context.Context) ([]models.Rule, error) {
		return v.d.API.ListRules(ctx, v.id)
	})
	fetch(ctx, &g, v.d, &v.board, MsgLoadBoardFailed, func(ctx context.Context) ([]models.LeaderboardEntry, error) {
		return v.d.API.GroupLeaderboard(ctx, v.id)
	})
	return g.Wait()
}

func (v *GroupDetail) Reload(ctx context.Context) error { return v.Load(ctx) }

func (v *GroupDetail) Render(w io.Writer) {
	s := ui.For(w)
	if v.group == nil {
		io.WriteString(w, s.Faint.Render("Group details are not available.")+"\n")
		return
	}
	g := v.group
	if g.Description != nil && *g.Description != "" {
		io.WriteString(w, *g.Description+"\n")
	}
	io.WriteString(w, s.Faint.Render("Created on "+g.CreatedAt.Short())+"\n\n")

	admins, regular := models.SplitMembers(g.Members)
	section(w, s, "Admins ("+strconv.Itoa(len(admins))+")", memberTable(s, admins, "No admins."))
	section(w, s, "Members ("+strconv.Itoa(len(regular))+")", memberTable(s, regular, "No members yet."))

	rules := make([][]string, 0, len(v.rules))
	for _, r := range v.rules {
		rules = append(rules, []string{itoa(r.ID), r.Title, models.FormatAmount(r.Amount)})
	}
	section(w, s, "Rules", s.Table([]string{"ID", "Rule", "Amount"}, rules, "No rules defined."))
	section(w, s, "Leaderboard", leaderboardTable(s, v.board))

	if v.IsAdmin() {
		io.WriteString(w, s.Faint.Render("You are an admin of this group: addmember, removemember, addrule, issue.")+"\n")
	}
}

func memberTable(s ui.Styles, members []models.Member, empty string) string {
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{itoa(m.ID), m.Name, m.Email, string(m.Role), m.JoinedAt.Short()})
	}
	return s.Table([]string{"ID", "Name", "Email", "Role", "Joined"}, rows, empty)
}
