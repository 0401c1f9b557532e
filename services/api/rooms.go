package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"stayease/models"
)

func (c *DefaultClient) ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, error) {
	q := url.Values{}
	if filter.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
	}
	var rooms []models.Room
	if err := c.do(ctx, http.MethodGet, "/api/rooms", q, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *DefaultClient) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := c.do(ctx, http.MethodGet, "/api/rooms/"+url.PathEscape(id), nil, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}
