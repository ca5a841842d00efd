package views

import (
	"context"
	"io"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
	"golang.org/x/sync/errgroup"
)

type groupRules struct {
	group models.Group
	rules []models.Rule
}

// Rules lists the rules of one group, or of every group the user is in
// when no group is given.
type Rules struct {
	d       *Deps
	groupID int64
	groups  []groupRules
}

func NewRules(d *Deps, groupID int64) *Rules { return &Rules{d: d, groupID: groupID} }

func (*Rules) Title() string { return "Rules" }

func (v *Rules) Load(ctx context.Context) error {
	var groups []models.Group
	if v.groupID != 0 {
		groups = []models.Group{{ID: v.groupID}}
	} else {
		var g errgroup.Group
		fetch(ctx, &g, v.d, &groups, MsgLoadGroupsFailed, v.d.API.ListGroups)
		if err := g.Wait(); err != nil {
			return err
		}
	}

	out := make([]groupRules, len(groups))
	var g errgroup.Group
	for i, grp := range groups {
		out[i].group = grp
		fetch(ctx, &g, v.d, &out[i].rules, MsgLoadRulesFailed, func(ctx context.Context) ([]models.Rule, error) {
			return v.d.API.ListRules(ctx, grp.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	v.groups = out
	return nil
}

func (v *Rules) Reload(ctx context.Context) error { return v.Load(ctx) }

// List returns the fetched rules across all listed groups.
func (v *Rules) List() []models.Rule {
	var out []models.Rule
	for _, gr := range v.groups {
		out = append(out, gr.rules...)
	}
	return out
}

func (v *Rules) Render(w io.Writer) {
	s := ui.For(w)
	if len(v.groups) == 0 {
		io.WriteString(w, s.Faint.Render("No groups, no rules.")+"\n")
		return
	}
	for _, gr := range v.groups {
		rows := make([][]string, 0, len(gr.rules))
		for _, r := range gr.rules {
			rows = append(rows, []string{itoa(r.ID), r.Title, models.FormatAmount(r.Amount), r.CreatedAt.Short()})
		}
		title := gr.group.Name
		if title == "" {
			title = "Group " + itoa(gr.group.ID)
		}
		section(w, s, title, s.Table([]string{"ID", "Rule", "Amount", "Created"}, rows, "No rules defined."))
	}
}
