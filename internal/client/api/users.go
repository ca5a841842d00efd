package api

import (
	"context"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
)

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.get(ctx, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, userID int64, in models.ProfileUpdate) (*models.User, error) {
	var out models.User
	if err := c.put(ctx, idPath("/users/%d", userID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, userID int64, in models.PasswordChange) error {
	return c.post(ctx, idPath("/users/%d/change-password", userID), in, nil)
}
