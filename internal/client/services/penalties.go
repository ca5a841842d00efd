package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/penaltybox/internal/client/api"
	"github.com/dmitrijs2005/penaltybox/internal/client/models"
	"github.com/dmitrijs2005/penaltybox/internal/common"
	"github.com/dmitrijs2005/penaltybox/internal/logging"
)

type PenaltyService interface {
	Issue(ctx context.Context, groupID, userID, ruleID int64, amount float64, note string) (*models.Penalty, error)
	// ToggleStatus moves the penalty to the opposite status and returns it.
	ToggleStatus(ctx context.Context, p models.Penalty, note string) (models.PenaltyStatus, error)
}

type penaltyService struct{ base }

func NewPenaltyService(c api.Client, l logging.Logger) PenaltyService {
	return &penaltyService{newBase(c, l)}
}

func (s *penaltyService) Issue(ctx context.Context, groupID, userID, ruleID int64, amount float64, note string) (*models.Penalty, error) {
	switch {
	case userID <= 0:
		return nil, invalid("user_id", "Please select a member")
	case ruleID <= 0:
		return nil, invalid("rule_id", "Please select a rule")
	case !(amount > 0):
		return nil, invalid("amount", "Amount must be a positive number")
	}

	in := models.PenaltyInput{UserID: userID, RuleID: ruleID, Amount: amount, Note: common.TrimmedOrNil(note)}
	p, err := s.api.IssuePenalty(ctx, groupID, in)
	if err != nil {
		fallback := "Failed to issue penalty"
		if api.StatusCode(err) == http.StatusBadRequest {
			fallback = "Invalid request"
		}
		return nil, s.fail(ctx, "issue penalty", err, fallback, byStatus{
			http.StatusForbidden: "You do not have permission to issue penalties",
			http.StatusNotFound:  "Group, member, or rule not found",
		})
	}
	return p, nil
}

func (s *penaltyService) ToggleStatus(ctx context.Context, p models.Penalty, note string) (models.PenaltyStatus, error) {
	target := p.Status.Toggle()
	if _, err := s.api.UpdatePenaltyStatus(ctx, p.ID, target, common.TrimmedOrNil(note)); err != nil {
		return "", s.fail(ctx, "update penalty status", err, "Failed to update penalty status", nil)
	}
	return target, nil
}
