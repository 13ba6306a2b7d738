package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/harrypotter228/TaskManagement/internal/common/errors"
	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/events"
	"github.com/harrypotter228/TaskManagement/internal/events/bus"
	"github.com/harrypotter228/TaskManagement/internal/task/models"
	"github.com/harrypotter228/TaskManagement/internal/task/repository"
)

// TaskView is a task as seen from one board by one user.
type TaskView struct {
	Task       *models.Task
	BoardID    string
	IsFavorite bool
}

// DeleteTasksResult classifies the ids of a bulk delete.
type DeleteTasksResult struct {
	Removed  []string
	NotFound []string
}

// CreateTaskRequest contains the data for creating a new task.
type CreateTaskRequest struct {
	Name        string
	Description string
	Deadline    string // yyyy-MM-dd, blank for none
}

// UpdateTaskRequest replaces a task's details. A blank Deadline clears it; a
// blank Status leaves the status unchanged.
type UpdateTaskRequest struct {
	Name        string
	Description string
	Deadline    string
	Status      string
	UserID      string
}

// ListTasksFilter narrows ListTasks. Blank fields do not filter.
type ListTasksFilter struct {
	UserID string
	Status string
	Search string
}

// TaskService provides task business logic.
type TaskService struct {
	tasks     repository.TaskStore
	links     repository.BoardTaskIndex
	favorites repository.FavoriteIndex
	publisher
}

// NewTaskService creates a task service.
func NewTaskService(tasks repository.TaskStore, links repository.BoardTaskIndex, favorites repository.FavoriteIndex, eventBus bus.EventBus, log *logger.Logger) *TaskService {
	return &TaskService{
		tasks:     tasks,
		links:     links,
		favorites: favorites,
		publisher: publisher{eventBus: eventBus, logger: log, source: "task-service"},
	}
}

// CreateTask creates a task in ToDo and links it to the board. The board is
// not checked for existence.
func (s *TaskService) CreateTask(ctx context.Context, boardID string, req *CreateTaskRequest) (*TaskView, error) {
	if err := validateTaskFields(req.Name, req.Description); err != nil {
		return nil, err
	}
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}

	task, err := models.NewTask(req.Name, req.Description, deadline, models.TaskStatusToDo)
	if err != nil {
		return nil, err
	}
	s.tasks.Create(task)
	s.links.Add(boardID, task.ID)

	s.logger.WithTaskID(task.ID).Info("task created", zap.String("board_id", boardID))
	s.publish(ctx, events.TaskCreated, taskEventData(boardID, task))
	return &TaskView{Task: task, BoardID: boardID}, nil
}

// GetTask returns the task when it is linked to the board. The favorite flag
// is computed only for a non-blank userID.
func (s *TaskService) GetTask(ctx context.Context, boardID, taskID, userID string) (*TaskView, bool) {
	if !s.links.Exists(boardID, taskID) {
		return nil, false
	}
	task, ok := s.tasks.Get(taskID)
	if !ok {
		return nil, false
	}
	return s.view(boardID, task, userID), true
}

// ListTasks returns the board's tasks, favorites first and then by name
// ignoring case (see SortTaskViews).
func (s *TaskService) ListTasks(ctx context.Context, boardID string, filter ListTasksFilter) ([]*TaskView, error) {
	var status models.TaskStatus
	if strings.TrimSpace(filter.Status) != "" {
		parsed, ok := models.ParseTaskStatus(filter.Status)
		if !ok {
			return nil, validationFailure("status", MsgInvalidStatus)
		}
		status = parsed
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	return s.collect(boardID, filter.UserID, func(t *models.Task) bool {
		if status != "" && t.Status != status {
			return false
		}
		return search == "" || strings.Contains(strings.ToLower(t.Name), search)
	}), nil
}

// ListTasksByColumn returns the board's tasks in one status column, sorted as
// ListTasks. The user id is required.
func (s *TaskService) ListTasksByColumn(ctx context.Context, boardID, userID, status string) ([]*TaskView, error) {
	fields := apperrors.FieldErrors{}
	if strings.TrimSpace(userID) == "" {
		fields.Set("userId", MsgUserIDRequired)
	}
	parsed, ok := models.ParseTaskStatus(status)
	if !ok {
		fields.Set("status", MsgInvalidStatus)
	}
	if err := fields.Err(MsgValidationFailed); err != nil {
		return nil, err
	}

	return s.collect(boardID, userID, func(t *models.Task) bool {
		return t.Status == parsed
	}), nil
}

// UpdateTask replaces the task's name, description and deadline, and the
// status when one is given.
func (s *TaskService) UpdateTask(ctx context.Context, boardID, taskID string, req *UpdateTaskRequest) (*TaskView, error) {
	if _, err := s.linkedTask(boardID, taskID); err != nil {
		return nil, err
	}
	if err := validateTaskFields(req.Name, req.Description); err != nil {
		return nil, err
	}
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}
	var status models.TaskStatus
	if strings.TrimSpace(req.Status) != "" {
		parsed, ok := models.ParseTaskStatus(req.Status)
		if !ok {
			return nil, validationFailure("status", MsgInvalidStatus)
		}
		status = parsed
	}

	task, err := s.tasks.Modify(taskID, func(task *models.Task) error {
		if err := task.Rename(req.Name); err != nil {
			return err
		}
		task.UpdateDetails(req.Description, deadline)
		if status != "" {
			task.ChangeStatus(status)
		}
		return nil
	})
	if err != nil {
		return nil, taskStoreError(err)
	}

	s.logger.WithTaskID(taskID).Info("task updated", zap.String("board_id", boardID))
	s.publish(ctx, events.TaskUpdated, taskEventData(boardID, task))
	return s.view(boardID, task, req.UserID), nil
}

// ChangeTaskStatus moves the task to status. The task is written back only
// when the status actually changes.
func (s *TaskService) ChangeTaskStatus(ctx context.Context, boardID, taskID, status, userID string) (*TaskView, error) {
	if _, err := s.linkedTask(boardID, taskID); err != nil {
		return nil, err
	}
	newStatus, ok := models.ParseTaskStatus(status)
	if !ok {
		return nil, validationFailure("status", MsgInvalidStatus)
	}

	var oldStatus models.TaskStatus
	task, err := s.tasks.Modify(taskID, func(task *models.Task) error {
		if task.Status == newStatus {
			return errStatusUnchanged
		}
		oldStatus = task.Status
		task.ChangeStatus(newStatus)
		return nil
	})
	if errors.Is(err, errStatusUnchanged) {
		current, err := s.linkedTask(boardID, taskID)
		if err != nil {
			return nil, err
		}
		return s.view(boardID, current, userID), nil
	}
	if err != nil {
		return nil, taskStoreError(err)
	}

	s.logger.WithTaskID(taskID).Info("task status changed",
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(newStatus)))
	data := taskEventData(boardID, task)
	data["old_status"] = string(oldStatus)
	s.publish(ctx, events.TaskStatusChanged, data)
	return s.view(boardID, task, userID), nil
}

// DeleteTask deletes the task globally: it is unlinked from every board, not
// only boardID, and dropped from all favorites.
func (s *TaskService) DeleteTask(ctx context.Context, boardID, taskID string) error {
	if _, err := s.linkedTask(boardID, taskID); err != nil {
		return err
	}

	boardIDs := s.links.RemoveTask(taskID)
	s.tasks.Delete(taskID)
	s.favorites.ForgetTask(taskID)

	s.logger.WithTaskID(taskID).Info("task deleted", zap.Strings("board_ids", boardIDs))
	for _, bid := range boardIDs {
		s.publish(ctx, events.TaskDeleted, map[string]interface{}{
			"board_id": bid,
			"task_id":  taskID,
		})
	}
	return nil
}

// DeleteTasksBulk unlinks the given tasks from boardID only. The tasks and
// their links to other boards are kept.
func (s *TaskService) DeleteTasksBulk(ctx context.Context, boardID string, taskIDs []string) (*DeleteTasksResult, error) {
	if len(taskIDs) == 0 {
		return nil, validationFailure("taskIds", MsgTaskIDsRequired)
	}

	result := &DeleteTasksResult{Removed: []string{}, NotFound: []string{}}
	seen := make(map[string]struct{}, len(taskIDs))
	for _, id := range taskIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if !s.links.Remove(boardID, id) {
			result.NotFound = append(result.NotFound, id)
			continue
		}
		result.Removed = append(result.Removed, id)
		s.publish(ctx, events.TaskUnlinked, map[string]interface{}{
			"board_id": boardID,
			"task_id":  id,
		})
	}

	s.logger.WithBoardID(boardID).Info("tasks unlinked",
		zap.Int("removed", len(result.Removed)),
		zap.Int("not_found", len(result.NotFound)))
	return result, nil
}

// linkedTask fetches a task that must be linked to the board.
var errStatusUnchanged = errors.New("status unchanged")

// taskStoreError maps a failed Modify to the service error for the caller.
func taskStoreError(err error) error {
	if errors.Is(err, repository.ErrTaskNotFound) {
		return apperrors.NotFound(MsgTaskNotFound)
	}
	return err
}

func (s *TaskService) linkedTask(boardID, taskID string) (*models.Task, error) {
	if !s.links.Exists(boardID, taskID) {
		return nil, apperrors.NotFound(MsgTaskNotInBoard)
	}
	task, ok := s.tasks.Get(taskID)
	if !ok {
		return nil, apperrors.NotFound(MsgTaskNotFound)
	}
	return task, nil
}

func (s *TaskService) collect(boardID, userID string, keep func(*models.Task) bool) []*TaskView {
	views := make([]*TaskView, 0)
	for _, id := range s.links.GetTaskIDs(boardID) {
		task, ok := s.tasks.Get(id)
		if !ok || !keep(task) {
			continue
		}
		views = append(views, s.view(boardID, task, userID))
	}
	SortTaskViews(views)
	return views
}

func (s *TaskService) view(boardID string, task *models.Task, userID string) *TaskView {
	fav := strings.TrimSpace(userID) != "" && s.favorites.IsFavorite(userID, task.ID)
	return &TaskView{Task: task, BoardID: boardID, IsFavorite: fav}
}

// SortTaskViews orders favorites first, then by name compared on its upper-cased form.
func SortTaskViews(views []*TaskView) {
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].IsFavorite != views[j].IsFavorite {
			return views[i].IsFavorite
		}
		return strings.ToUpper(views[i].Task.Name) < strings.ToUpper(views[j].Task.Name)
	})
}

func validateTaskFields(name, description string) error {
	return validateStruct(defaultValidator, taskFields{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	})
}

func parseDeadline(value string) (*time.Time, error) {
	deadline, err := models.ParseDeadline(value)
	if err != nil {
		return nil, apperrors.Validation(MsgInvalidDate, map[string][]string{"deadline": {MsgInvalidDate}})
	}
	return deadline, nil
}
