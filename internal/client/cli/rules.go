package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/client/views"
)

func (a *App) AddRule(ctx context.Context, args []string) error {
	gid, ok := a.argID(args[0], "group")
	if !ok {
		return nil
	}
	title, err := getSimpleText(a.reader, "Rule title", a.out)
	if err != nil {
		return err
	}
	amount, err := GetAmount(a.reader, "Amount", 0, a.out)
	if err != nil {
		return err
	}
	return a.modal.Run(ctx, views.MsgRuleCreated, func(ctx context.Context) error {
		_, err := a.rules.Create(ctx, gid, title, amount)
		return err
	})
}

// findRule fetches the group's rules and picks ruleID.
func (a *App) findRule(ctx context.Context, gid, ruleID int64) (models.Rule, bool, error) {
	rules, err := a.api.ListRules(ctx, gid)
	if err != nil {
		return models.Rule{}, false, a.loadFailed(ctx, views.MsgLoadRulesFailed, err)
	}
	for _, r := range rules {
		if r.ID == ruleID {
			return r, true, nil
		}
	}
	a.notifier.Error("Rule not found")
	return models.Rule{}, false, nil
}

func (a *App) EditRule(ctx context.Context, args []string) error {
	gid, ok := a.argID(args[0], "group")
	if !ok {
		return nil
	}
	rid, ok := a.argID(args[1], "rule")
	if !ok {
		return nil
	}
	rule, found, err := a.findRule(ctx, gid, rid)
	if err != nil || !found {
		return err
	}
	title, err := GetTextDefault(a.reader, "Rule title", rule.Title, a.out)
	if err != nil {
		return err
	}
	amount, err := GetAmount(a.reader, "Amount", rule.Amount, a.out)
	if err != nil {
		return err
	}
	return a.modal.Run(ctx, views.MsgRuleUpdated, func(ctx context.Context) error {
		_, err := a.rules.Update(ctx, gid, rid, title, amount)
		return err
	})
}

func (a *App) DeleteRule(ctx context.Context, args []string) error {
	gid, ok := a.argID(args[0], "group")
	if !ok {
		return nil
	}
	rid, ok := a.argID(args[1], "rule")
	if !ok {
		return nil
	}
	rule, found, err := a.findRule(ctx, gid, rid)
	if err != nil || !found {
		return err
	}
	yes, err := Confirm(a.reader, fmt.Sprintf("Delete rule %q?", rule.Title), a.out)
	if err != nil || !yes {
		return err
	}
	return a.modal.Run(ctx, views.MsgRuleDeleted(rule.Title), func(ctx context.Context) error {
		return a.rules.Delete(ctx, gid, rid)
	})
}
