package cli

import (
	"context"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/ui"
	"github.com/dmitrijs2005/penaltybox/internal/client/views"
	"golang.org/x/sync/errgroup"
)

// Issue shows the group's members and rules and issues a penalty. The
// amount defaults to the rule's amount.
func (a *App) Issue(ctx context.Context, args []string) error {
	gid, ok := a.argID(args[0], "group")
	if !ok {
		return nil
	}

	var (
		detail *models.GroupDetail
		rules  []models.Rule
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		detail, err = a.api.GetGroup(gctx, gid)
		return err
	})
	g.Go(func() (err error) {
		rules, err = a.api.ListRules(gctx, gid)
		return err
	})
	if err := g.Wait(); err != nil {
		return a.loadFailed(ctx, views.MsgLoadIssueFailed, err)
	}

	s := ui.For(a.out)
	members := make([][]string, 0, len(detail.Members))
	for _, m := range detail.Members {
		members = append(members, []string{itoa(m.ID), m.Name, string(m.Role)})
	}
	a.println(s.Table([]string{"ID", "Member", "Role"}, members, "No members."))
	ruleRows := make([][]string, 0, len(rules))
	for _, r := range rules {
		ruleRows = append(ruleRows, []string{itoa(r.ID), r.Title, models.FormatAmount(r.Amount)})
	}
	a.println(s.Table([]string{"ID", "Rule", "Amount"}, ruleRows, "No rules defined."))

	uid, err := GetID(a.reader, "Member id", a.out)
	if err != nil {
		return err
	}
	rid, err := GetID(a.reader, "Rule id", a.out)
	if err != nil {
		return err
	}
	def := 0.0
	for _, r := range rules {
		if r.ID == rid {
			def = r.Amount
		}
	}
	amount, err := GetAmount(a.reader, "Amount", def, a.out)
	if err != nil {
		return err
	}
	note, err := getSimpleText(a.reader, "Note (optional)", a.out)
	if err != nil {
		return err
	}
	return a.modal.Run(ctx, views.MsgPenaltyIssued, func(ctx context.Context) error {
		_, err := a.penalties.Issue(ctx, gid, uid, rid, amount, note)
		return err
	})
}

type penaltyFinder interface {
	Find(id int64) (models.Penalty, bool)
}

// ToggleStatus flips a penalty between PAID and UNPAID. The penalty must be
// on the page currently shown.
func (a *App) ToggleStatus(ctx context.Context, args []string) error {
	id, ok := a.argID(args[0], "penalty")
	if !ok {
		return nil
	}
	finder, ok := a.router.CurrentView().(penaltyFinder)
	if !ok {
		a.println("Open a penalty list first (penalties or grouppenalties <group>).")
		return nil
	}
	p, found := finder.Find(id)
	if !found {
		a.println("Penalty " + itoa(id) + " is not on this page.")
		return nil
	}

	target := p.Status.Toggle()
	a.println("Mark penalty " + itoa(id) + " (" + models.FormatAmount(p.Amount) + ") as " + string(target) + ".")
	note, err := getSimpleText(a.reader, "Admin note (optional)", a.out)
	if err != nil {
		return err
	}
	return a.modal.Run(ctx, views.MsgPenaltyMarked(target), func(ctx context.Context) error {
		_, err := a.penalties.ToggleStatus(ctx, p, note)
		return err
	})
}
