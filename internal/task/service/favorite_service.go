package service

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/harrypotter228/TaskManagement/internal/common/errors"
	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/events"
	"github.com/harrypotter228/TaskManagement/internal/events/bus"
	"github.com/harrypotter228/TaskManagement/internal/task/repository"
)

// FavoriteService marks tasks as favorites per user.
type FavoriteService struct {
	tasks     repository.TaskStore
	favorites repository.FavoriteIndex
	publisher
}

// NewFavoriteService creates a favorite service.
func NewFavoriteService(tasks repository.TaskStore, favorites repository.FavoriteIndex, eventBus bus.EventBus, log *logger.Logger) *FavoriteService {
	return &FavoriteService{
		tasks:     tasks,
		favorites: favorites,
		publisher: publisher{eventBus: eventBus, logger: log, source: "favorite-service"},
	}
}

// Favorite adds the task to the user's favorites. Repeating it has no effect.
func (s *FavoriteService) Favorite(ctx context.Context, userID, taskID string) error {
	if _, ok := s.tasks.Get(taskID); !ok {
		return apperrors.NotFound(MsgTaskNotFound)
	}
	s.favorites.Favorite(userID, taskID)

	s.logger.Debug("task favorited", zap.String("user_id", userID), zap.String("task_id", taskID))
	s.publish(ctx, events.FavoriteAdded, map[string]interface{}{"user_id": userID, "task_id": taskID})
	return nil
}

// Unfavorite removes the task from the user's favorites. Removing a task that
// was never favorited is not an error.
func (s *FavoriteService) Unfavorite(ctx context.Context, userID, taskID string) error {
	if _, ok := s.tasks.Get(taskID); !ok {
		return apperrors.NotFound(MsgTaskNotFound)
	}
	s.favorites.Unfavorite(userID, taskID)

	s.logger.Debug("task unfavorited", zap.String("user_id", userID), zap.String("task_id", taskID))
	s.publish(ctx, events.FavoriteRemoved, map[string]interface{}{"user_id": userID, "task_id": taskID})
	return nil
}

// FavoriteTaskIDs lists the user's favorite tasks.
func (s *FavoriteService) FavoriteTaskIDs(ctx context.Context, userID string) []string {
	return s.favorites.TaskIDs(userID)
}
