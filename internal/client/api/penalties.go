package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
)

// ListPenalties returns the penalties of one group.
func (c *HTTPClient) ListPenalties(ctx context.Context, groupID int64) ([]models.Penalty, error) {
	q := url.Values{"group_id": {strconv.FormatInt(groupID, 10)}}
	var out []models.Penalty
	if err := c.get(ctx, "/penalties", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UserPenalties(ctx context.Context, userID int64) ([]models.Penalty, error) {
	var out []models.Penalty
	if err := c.get(ctx, idPath("/penalties/user/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IssuePenalty posts to /penalties with the group in the query string.
func (c *HTTPClient) IssuePenalty(ctx context.Context, groupID int64, in models.PenaltyInput) (*models.Penalty, error) {
	q := url.Values{"group_id": {strconv.FormatInt(groupID, 10)}}
	var out models.Penalty
	if err := c.do(ctx, request{method: http.MethodPost, path: "/penalties", query: q, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePenaltyStatus sends status and the optional admin note as query
// parameters with an empty body.
func (c *HTTPClient) UpdatePenaltyStatus(ctx context.Context, penaltyID int64, status models.PenaltyStatus, adminNote *string) (*models.Penalty, error) {
	q := url.Values{"status": {string(status)}}
	if adminNote != nil {
		q.Set("admin_note", *adminNote)
	}
	var out models.Penalty
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/penalties/%d/status", penaltyID), query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
