package controller

import (
	"context"

	apperrors "github.com/harrypotter228/TaskManagement/internal/common/errors"
	"github.com/harrypotter228/TaskManagement/internal/task/dto"
	"github.com/harrypotter228/TaskManagement/internal/task/service"
)

type TaskController struct {
	service *service.TaskService
}

func NewTaskController(svc *service.TaskService) *TaskController {
	return &TaskController{service: svc}
}

func (c *TaskController) ListTasks(ctx context.Context, req dto.ListTasksRequest) (dto.ListTasksResponse, error) {
	views, err := c.service.ListTasks(ctx, req.BoardID, service.ListTasksFilter{
		UserID: req.UserID,
		Status: req.Status,
		Search: req.Search,
	})
	if err != nil {
		return dto.ListTasksResponse{}, err
	}
	return dto.FromTaskViews(views), nil
}

func (c *TaskController) ListTasksByColumn(ctx context.Context, req dto.ListTasksByColumnRequest) (dto.ListTasksResponse, error) {
	views, err := c.service.ListTasksByColumn(ctx, req.BoardID, req.UserID, req.Status)
	if err != nil {
		return dto.ListTasksResponse{}, err
	}
	return dto.FromTaskViews(views), nil
}

func (c *TaskController) GetTask(ctx context.Context, req dto.GetTaskRequest) (dto.TaskDTO, error) {
	view, ok := c.service.GetTask(ctx, req.BoardID, req.TaskID, req.UserID)
	if !ok {
		return dto.TaskDTO{}, apperrors.NotFound(service.MsgTaskNotFound)
	}
	return dto.FromTaskView(view), nil
}

func (c *TaskController) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskDTO, error) {
	view, err := c.service.CreateTask(ctx, req.BoardID, &service.CreateTaskRequest{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		return dto.TaskDTO{}, err
	}
	return dto.FromTaskView(view), nil
}

func (c *TaskController) UpdateTask(ctx context.Context, req dto.UpdateTaskRequest) (dto.TaskDTO, error) {
	view, err := c.service.UpdateTask(ctx, req.BoardID, req.TaskID, &service.UpdateTaskRequest{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		Status:      req.Status,
		UserID:      req.UserID,
	})
	if err != nil {
		return dto.TaskDTO{}, err
	}
	return dto.FromTaskView(view), nil
}

func (c *TaskController) ChangeTaskStatus(ctx context.Context, req dto.ChangeTaskStatusRequest) (dto.TaskDTO, error) {
	view, err := c.service.ChangeTaskStatus(ctx, req.BoardID, req.TaskID, req.Status, req.UserID)
	if err != nil {
		return dto.TaskDTO{}, err
	}
	return dto.FromTaskView(view), nil
}

func (c *TaskController) DeleteTask(ctx context.Context, req dto.DeleteTaskRequest) error {
	return c.service.DeleteTask(ctx, req.BoardID, req.TaskID)
}

func (c *TaskController) DeleteTasks(ctx context.Context, req dto.DeleteTasksRequest) (dto.DeleteTasksResponse, error) {
	result, err := c.service.DeleteTasksBulk(ctx, req.BoardID, req.TaskIDs)
	if err != nil {
		return dto.DeleteTasksResponse{}, err
	}
	return dto.FromDeleteTasksResult(result), nil
}
