package views

import (
	"context"
	"io"
	"strconv"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/router"
	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
	"golang.org/x/sync/errgroup"
)

// Dashboard greets the user and shows their penalty totals.
type Dashboard struct {
	d         *Deps
	penalties []models.Penalty
	groups    []models.Group
}

func NewDashboard(d *Deps) *Dashboard { return &Dashboard{d: d} }

func (*Dashboard) Title() string { return "Dashboard" }

func (v *Dashboard) Load(ctx context.Context) error {
	u := v.d.user()
	var g errgroup.Group
	if u != nil && u.ID != 0 {
		fetch(ctx, &g, v.d, &v.penalties, "Failed to load penalties", func(ctx context.Context) ([]models.Penalty, error) {
			return v.d.API.UserPenalties(ctx, u.ID)
		})
	}
	fetch(ctx, &g, v.d, &v.groups, MsgLoadGroupsFailed, v.d.API.ListGroups)
	return g.Wait()
}

func (v *Dashboard) Reload(ctx context.Context) error { return v.Load(ctx) }

func (v *Dashboard) Render(w io.Writer) {
	s := ui.For(w)
	u := v.d.user()

	name := u.DisplayName()
	if IsGlobalAdmin(u) {
		name += " " + s.Admin.Render(router.AdminMarker)
	}
	io.WriteString(w, "Welcome back, "+name+"!\n\n")

	pairs := [][2]string{{"Name", u.DisplayName()}}
	if u != nil {
		pairs = append(pairs, [2]string{"Email", u.Email})
		if u.GroupID != nil {
			pairs = append(pairs, [2]string{"Group ID", itoa(*u.GroupID)})
		}
	}
	section(w, s, "Your Profile Information", s.KeyValues(pairs...))

	st := models.SummarizePenalties(v.penalties)
	section(w, s, "Quick Stats", s.KeyValues(
		[2]string{"Total Penalties", strconv.Itoa(st.Total)},
		[2]string{"Total Paid", models.FormatAmount(st.PaidAmount)},
		[2]string{"Outstanding", models.FormatAmount(st.DueAmount)},
		[2]string{"Groups", strconv.Itoa(len(v.groups))},
	))
}
