package api

import (
	"context"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
)

func (c *HTTPClient) ListGroups(ctx context.Context) ([]models.Group, error) {
	var out []models.Group
	if err := c.get(ctx, "/groups", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetGroup(ctx context.Context, id int64) (*models.GroupDetail, error) {
	var out models.GroupDetail
	if err := c.get(ctx, idPath("/groups/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateGroup(ctx context.Context, in models.GroupInput) (*models.Group, error) {
	var out models.Group
	if err := c.post(ctx, "/groups", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateGroup(ctx context.Context, id int64, in models.GroupInput) (*models.Group, error) {
	var out models.Group
	if err := c.put(ctx, idPath("/groups/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteGroup(ctx context.Context, id int64) error {
	return c.del(ctx, idPath("/groups/%d", id), nil)
}

func (c *HTTPClient) AddMember(ctx context.Context, groupID int64, in models.MemberInput) error {
	return c.post(ctx, idPath("/groups/%d/members", groupID), in, nil)
}

// RemoveMember sends the user id in the DELETE body, as the backend expects.
func (c *HTTPClient) RemoveMember(ctx context.Context, groupID, userID int64) error {
	return c.del(ctx, idPath("/groups/%d/members", groupID), models.MemberInput{UserID: userID})
}

func (c *HTTPClient) ListRules(ctx context.Context, groupID int64) ([]models.Rule, error) {
	var out []models.Rule
	if err := c.get(ctx, idPath("/groups/%d/rules", groupID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateRule(ctx context.Context, groupID int64, in models.RuleInput) (*models.Rule, error) {
	var out models.Rule
	if err := c.post(ctx, idPath("/groups/%d/rules", groupID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateRule(ctx context.Context, groupID, ruleID int64, in models.RuleInput) (*models.Rule, error) {
	var out models.Rule
	if err := c.put(ctx, idPath("/groups/%d/rules/%d", groupID, ruleID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteRule(ctx context.Context, groupID, ruleID int64) error {
	return c.del(ctx, idPath("/groups/%d/rules/%d", groupID, ruleID), nil)
}

func (c *HTTPClient) GlobalLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var out []models.LeaderboardEntry
	if err := c.get(ctx, "/groups/leaderboard/global", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GroupLeaderboard(ctx context.Context, groupID int64) ([]models.LeaderboardEntry, error) {
	var out []models.LeaderboardEntry
	if err := c.get(ctx, idPath("/groups/%d/leaderboard", groupID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
