package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/harrypotter228/TaskManagement/internal/common/errors"
	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/events"
	"github.com/harrypotter228/TaskManagement/internal/events/bus"
	"github.com/harrypotter228/TaskManagement/internal/task/models"
	"github.com/harrypotter228/TaskManagement/internal/task/repository"
)

// BoardStatuses is the result of replacing a board's status columns.
type BoardStatuses struct {
	BoardID  string
	Statuses []models.TaskStatus
}

// BoardService manages boards and their status columns.
type BoardService struct {
	boards repository.BoardStore
	publisher
}

// NewBoardService creates a board service.
func NewBoardService(boards repository.BoardStore, eventBus bus.EventBus, log *logger.Logger) *BoardService {
	return &BoardService{
		boards:    boards,
		publisher: publisher{eventBus: eventBus, logger: log, source: "board-service"},
	}
}

// ListBoards returns every board.
func (s *BoardService) ListBoards(ctx context.Context) []*models.Board {
	return s.boards.GetAll()
}

// GetBoard returns the board or a NotFound error.
func (s *BoardService) GetBoard(ctx context.Context, boardID string) (*models.Board, error) {
	board, ok := s.boards.Get(boardID)
	if !ok {
		return nil, apperrors.NotFound(MsgBoardNotFound)
	}
	return board, nil
}

// CreateBoard creates a board. Statuses are optional; when given they go
// through the same filtering as UpdateStatuses.
func (s *BoardService) CreateBoard(ctx context.Context, name string, statuses []string) (*models.Board, error) {
	if err := validateStruct(defaultValidator, boardFields{Name: strings.TrimSpace(name)}); err != nil {
		return nil, err
	}
	board, err := models.NewBoard(name)
	if err != nil {
		return nil, err
	}
	if len(statuses) > 0 {
		parsed := parseStatuses(statuses)
		if len(parsed) == 0 {
			return nil, validationFailure("statuses", MsgStatusesRequired)
		}
		if err := board.SetStatuses(parsed); err != nil {
			return nil, err
		}
	}
	s.boards.Create(board)

	s.logger.Info("board created", zap.String("board_id", board.ID), zap.String("name", board.Name))
	s.publish(ctx, events.BoardCreated, map[string]interface{}{
		"board_id": board.ID,
		"name":     board.Name,
		"statuses": statusStrings(board.Statuses),
	})
	return board, nil
}

// UpdateStatuses replaces the board's status columns. Unknown values are
// dropped and duplicates collapse; an empty result is a validation error.
func (s *BoardService) UpdateStatuses(ctx context.Context, boardID string, statuses []string) (*BoardStatuses, error) {
	board, ok := s.boards.Get(boardID)
	if !ok {
		return nil, apperrors.NotFound(MsgBoardNotFound)
	}

	parsed := parseStatuses(statuses)
	if len(parsed) == 0 {
		return nil, validationFailure("statuses", MsgStatusesRequired)
	}
	if err := board.SetStatuses(parsed); err != nil {
		return nil, err
	}
	s.boards.Update(board)

	s.logger.WithBoardID(boardID).Info("board statuses updated", zap.Strings("statuses", statusStrings(board.Statuses)))
	s.publish(ctx, events.BoardStatusesUpdated, map[string]interface{}{
		"board_id": board.ID,
		"statuses": statusStrings(board.Statuses),
	})
	return &BoardStatuses{BoardID: board.ID, Statuses: board.Statuses}, nil
}

// BoardExists reports whether the board is known.
func (s *BoardService) BoardExists(ctx context.Context, boardID string) bool {
	_, ok := s.boards.Get(boardID)
	return ok
}

func parseStatuses(values []string) []models.TaskStatus {
	out := make([]models.TaskStatus, 0, len(values))
	for _, v := range values {
		if status, ok := models.ParseTaskStatus(v); ok {
			out = append(out, status)
		}
	}
	return models.DistinctStatuses(out)
}

func statusStrings(statuses []models.TaskStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
