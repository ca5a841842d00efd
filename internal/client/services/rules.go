package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/penaltybox/internal/client/api"
	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/logging"
)

type RuleService interface {
	Create(ctx context.Context, groupID int64, title string, amount float64) (*models.Rule, error)
	Update(ctx context.Context, groupID, ruleID int64, title string, amount float64) (*models.Rule, error)
	Delete(ctx context.Context, groupID, ruleID int64) error
}

type ruleService struct{ base }

func NewRuleService(c api.Client, l logging.Logger) RuleService {
	return &ruleService{newBase(c, l)}
}

func ruleInput(title string, amount float64) (models.RuleInput, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.RuleInput{}, invalid("title", "Rule title is required")
	}
	if !(amount > 0) {
		return models.RuleInput{}, invalid("amount", "Amount must be a positive number")
	}
	return models.RuleInput{Title: title, Amount: amount}, nil
}

func (s *ruleService) Create(ctx context.Context, groupID int64, title string, amount float64) (*models.Rule, error) {
	in, err := ruleInput(title, amount)
	if err != nil {
		return nil, err
	}
	r, err := s.api.CreateRule(ctx, groupID, in)
	if err != nil {
		return nil, s.fail(ctx, "create rule", err, "Failed to create rule", nil)
	}
	return r, nil
}

func (s *ruleService) Update(ctx context.Context, groupID, ruleID int64, title string, amount float64) (*models.Rule, error) {
	in, err := ruleInput(title, amount)
	if err != nil {
		return nil, err
	}
	r, err := s.api.UpdateRule(ctx, groupID, ruleID, in)
	if err != nil {
		return nil, s.fail(ctx, "update rule", err, "Failed to update rule", nil)
	}
	return r, nil
}

func (s *ruleService) Delete(ctx context.Context, groupID, ruleID int64) error {
	if err := s.api.DeleteRule(ctx, groupID, ruleID); err != nil {
		return s.fail(ctx, "delete rule", err, "Failed to delete rule", byStatus{
			http.StatusForbidden: "You do not have permission to delete rules",
			http.StatusNotFound:  "Rule not found",
		})
	}
	return nil
}
