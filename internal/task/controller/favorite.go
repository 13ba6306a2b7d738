package controller

import (
	"context"

	"github.com/harrypotter228/TaskManagement/internal/task/dto"
	"github.com/harrypotter228/TaskManagement/internal/task/service"
)

type FavoriteController struct {
	service *service.FavoriteService
}

func NewFavoriteController(svc *service.FavoriteService) *FavoriteController {
	return &FavoriteController{service: svc}
}

func (c *FavoriteController) Favorite(ctx context.Context, req dto.FavoriteRequest) error {
	return c.service.Favorite(ctx, req.UserID, req.TaskID)
}

func (c *FavoriteController) Unfavorite(ctx context.Context, req dto.FavoriteRequest) error {
	return c.service.Unfavorite(ctx, req.UserID, req.TaskID)
}

func (c *FavoriteController) ListFavorites(ctx context.Context, userID string) dto.FavoritesResponse {
	ids := c.service.FavoriteTaskIDs(ctx, userID)
	return dto.FavoritesResponse{UserID: userID, TaskIDs: ids}
}
