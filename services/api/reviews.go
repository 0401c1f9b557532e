package api

import (
	"context"
	"net/http"
	"net/url"

	"stayease/models"
)

func (c *DefaultClient) ListReviews(ctx context.Context, roomID string) ([]models.Review, error) {
	var q url.Values
	if roomID != "" {
		q = url.Values{"roomId": {roomID}}
	}
	var reviews []models.Review
	if err := c.do(ctx, http.MethodGet, "/api/reviews", q, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *DefaultClient) CreateReview(ctx context.Context, in models.ReviewInput) (*models.Review, error) {
	var created models.Review
	if err := c.do(ctx, http.MethodPost, "/api/reviews", nil, in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
