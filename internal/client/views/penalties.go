package views

import (
	"context"
	"io"
	"strconv"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
	"golang.org/x/sync/errgroup"
)

const MsgLoadPenaltiesFailed = "Failed to load penalties"

// MyPenalties lists the signed-in user's penalties.
type MyPenalties struct {
	d         *Deps
	filter    models.PenaltyFilter
	penalties []models.Penalty
}

func NewMyPenalties(d *Deps, filter models.PenaltyFilter) *MyPenalties {
	if filter == "" {
		filter = models.FilterAll
	}
	return &MyPenalties{d: d, filter: filter}
}

func (*MyPenalties) Title() string { return "My Penalties" }

func (v *MyPenalties) Load(ctx context.Context) error {
	u := v.d.user()
	if u == nil || u.ID == 0 {
		v.penalties = nil
		return nil
	}
	var g errgroup.Group
	fetch(ctx, &g, v.d, &v.penalties, MsgLoadPenaltiesFailed, func(ctx context.Context) ([]models.Penalty, error) {
		return v.d.API.UserPenalties(ctx, u.ID)
	})
	return g.Wait()
}

func (v *MyPenalties) Reload(ctx context.Context) error { return v.Load(ctx) }

// Visible returns the penalties that pass the filter.
func (v *MyPenalties) Visible() []models.Penalty {
	return models.FilterPenalties(v.penalties, v.filter)
}

// Find returns the fetched penalty with id, filtered out or not.
func (v *MyPenalties) Find(id int64) (models.Penalty, bool) {
	return findPenalty(v.penalties, id)
}

// Stats are computed over all penalties, ignoring the filter.
func (v *MyPenalties) Stats() models.PenaltyStats {
	return models.SummarizePenalties(v.penalties)
}

func (v *MyPenalties) Render(w io.Writer) {
	s := ui.For(w)
	io.WriteString(w, statsBlock(s, v.Stats())+"\n\n")
	io.WriteString(w, s.Faint.Render("Filter: "+string(v.filter))+"\n")

	visible := v.Visible()
	rows := make([][]string, 0, len(visible))
	for _, p := range visible {
		rows = append(rows, []string{
			itoa(p.ID), p.RuleTitle, models.FormatAmount(p.Amount), s.Status(string(p.Status)), orDash(p.Note), p.CreatedAt.Short(),
		})
	}
	empty := "No penalties found."
	if v.filter != models.FilterAll {
		empty = "No " + string(v.filter) + " penalties."
	}
	io.WriteString(w, s.Table([]string{"ID", "Rule", "Amount", "Status", "Note", "Issued"}, rows, empty)+"\n")
}

func statsBlock(s ui.Styles, st models.PenaltyStats) string {
	return s.KeyValues(
		[2]string{"Total Penalties", strconv.Itoa(st.Total) + "  " + models.FormatAmount(st.TotalAmount)},
		[2]string{"Paid", strconv.Itoa(st.Paid) + "  " + models.FormatAmount(st.PaidAmount)},
		[2]string{"Unpaid", strconv.Itoa(st.Unpaid) + "  " + models.FormatAmount(st.DueAmount)},
	)
}

// GroupPenalties lists every penalty issued in one group.
type GroupPenalties struct {
	d         *Deps
	groupID   int64
	group     *models.GroupDetail
	penalties []models.Penalty
}

func NewGroupPenalties(d *Deps, groupID int64) *GroupPenalties {
	return &GroupPenalties{d: d, groupID: groupID}
}

func (v *GroupPenalties) Title() string {
	if v.group != nil {
		return "Penalties: " + v.group.Name
	}
	return "Penalties: group " + itoa(v.groupID)
}

func (v *GroupPenalties) Load(ctx context.Context) error {
	var g errgroup.Group
	fetch(ctx, &g, v.d, &v.group, MsgLoadGroupFailed, func(ctx context.Context) (*models.GroupDetail, error) {
		return v.d.API.GetGroup(ctx, v.groupID)
	})
	fetch(ctx, &g, v.d, &v.penalties, MsgLoadPenaltiesFailed, func(ctx context.Context) ([]models.Penalty, error) {
		return v.d.API.ListPenalties(ctx, v.groupID)
	})
	return g.Wait()
}

func (v *GroupPenalties) Reload(ctx context.Context) error { return v.Load(ctx) }

// Penalties returns the fetched penalties.
func (v *GroupPenalties) Penalties() []models.Penalty { return v.penalties }

// Find returns the fetched penalty with id.
func (v *GroupPenalties) Find(id int64) (models.Penalty, bool) {
	return findPenalty(v.penalties, id)
}

func findPenalty(ps []models.Penalty, id int64) (models.Penalty, bool) {
	for _, p := range ps {
		if p.ID == id {
			return p, true
		}
	}
	return models.Penalty{}, false
}

func (v *GroupPenalties) Render(w io.Writer) {
	s := ui.For(w)
	io.WriteString(w, statsBlock(s, models.SummarizePenalties(v.penalties))+"\n\n")

	names := map[int64]string{}
	if v.group != nil {
		for _, m := range v.group.Members {
			names[m.ID] = m.Name
		}
	}
	rows := make([][]string, 0, len(v.penalties))
	for _, p := range v.penalties {
		who := p.UserName
		if who == "" {
			who = names[p.UserID]
		}
		rows = append(rows, []string{
			itoa(p.ID), who, p.RuleTitle, models.FormatAmount(p.Amount), s.Status(string(p.Status)), orDash(p.Note), p.CreatedAt.Short(),
		})
	}
	io.WriteString(w, s.Table([]string{"ID", "Member", "Rule", "Amount", "Status", "Note", "Issued"}, rows, "No penalties issued.")+"\n")

	if IsGroupAdmin(v.group, v.d.user()) || IsGlobalAdmin(v.d.user()) {
		io.WriteString(w, s.Faint.Render("Use 'status <penalty>' to mark a penalty paid or unpaid.")+"\n")
	}
}
