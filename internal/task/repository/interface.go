package repository

import (
	"errors"

	"github.com/harrypotter228/TaskManagement/internal/task/models"
)

// ErrTaskNotFound is returned by TaskStore.Modify for an unknown id.
var ErrTaskNotFound = errors.New("task not found")

// TaskStore holds tasks keyed by id. Tasks cross the store boundary as
// copies. Read-modify-write goes through Modify so concurrent edits of one
// task are applied one after another instead of overwriting each other.
type TaskStore interface {
	Create(task *models.Task) *models.Task
	Get(id string) (*models.Task, bool)
	// Update replaces the stored task wholesale.
	Update(task *models.Task)
	// Modify applies fn to a copy of the task and stores it if fn returns
	// nil. The returned task is the stored state.
	Modify(id string, fn func(task *models.Task) error) (*models.Task, error)
	Delete(id string) bool
}

// BoardStore holds boards keyed by id. Boards are copied in and out like tasks.
type BoardStore interface {
	Create(board *models.Board) *models.Board
	Get(id string) (*models.Board, bool)
	GetAll() []*models.Board
	Update(board *models.Board)
}

// BoardTaskIndex is the many-to-many link between boards and tasks. Both
// directions change together under one lock.
type BoardTaskIndex interface {
	Add(boardID, taskID string)
	// Remove reports whether the link existed.
	Remove(boardID, taskID string) bool
	// RemoveTask unlinks the task from every board and returns those boards.
	RemoveTask(taskID string) []string
	Exists(boardID, taskID string) bool
	GetTaskIDs(boardID string) []string
	GetBoardIDs(taskID string) []string
}

// FavoriteIndex is the per-user set of favorited task ids.
type FavoriteIndex interface {
	Favorite(userID, taskID string)
	Unfavorite(userID, taskID string)
	IsFavorite(userID, taskID string) bool
	TaskIDs(userID string) []string
	// ForgetTask drops the task from every user's set.
	ForgetTask(taskID string)
}
