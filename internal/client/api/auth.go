package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/penaltybox/internal/client/models"
)

// Register creates an account. The backend answers with the new user.
func (c *HTTPClient) Register(ctx context.Context, r models.Registration) (*models.User, error) {
	var u models.User
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: r, credentialCall: true}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for an access token. It does not store it.
func (c *HTTPClient) Login(ctx context.Context, cr models.Credentials) (*models.TokenResponse, error) {
	var tr models.TokenResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: cr, credentialCall: true}, &tr)
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

// Me returns the profile of the token's owner.
func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.get(ctx, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
