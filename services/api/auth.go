package api

import (
	"context"
	"net/http"

	"stayease/models"
)

func (c *DefaultClient) ExchangeToken(ctx context.Context, email string) (string, error) {
	var resp models.TokenResponse
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/jwt", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}
