package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/task/controller"
	"github.com/harrypotter228/TaskManagement/internal/task/dto"
)

type TaskHandlers struct {
	controller *controller.TaskController
	logger     *logger.Logger
}

func NewTaskHandlers(ctrl *controller.TaskController, log *logger.Logger) *TaskHandlers {
	return &TaskHandlers{
		controller: ctrl,
		logger:     log.WithFields(zap.String("component", "task-handlers")),
	}
}

func RegisterTaskRoutes(router *gin.Engine, ctrl *controller.TaskController, log *logger.Logger) *TaskHandlers {
	handlers := NewTaskHandlers(ctrl, log)
	tasks := router.Group("/api/v1/boards/:boardId/tasks")
	tasks.GET("", handlers.httpListTasks)
	tasks.POST("", handlers.httpCreateTask)
	tasks.GET("/sorted", handlers.httpListTasksByColumn)
	tasks.DELETE("/bulk", handlers.httpDeleteTasks)
	tasks.GET("/:taskId", handlers.httpGetTask)
	tasks.PUT("/:taskId", handlers.httpUpdateTask)
	tasks.DELETE("/:taskId", handlers.httpDeleteTask)
	tasks.PATCH("/:taskId/status", handlers.httpChangeTaskStatus)
	return handlers
}

func (h *TaskHandlers) httpListTasks(c *gin.Context) {
	resp, err := h.controller.ListTasks(c.Request.Context(), dto.ListTasksRequest{
		BoardID: c.Param("boardId"),
		UserID:  c.Query("userId"),
		Status:  c.Query("status"),
		Search:  c.Query("search"),
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandlers) httpListTasksByColumn(c *gin.Context) {
	resp, err := h.controller.ListTasksByColumn(c.Request.Context(), dto.ListTasksByColumnRequest{
		BoardID: c.Param("boardId"),
		UserID:  c.Query("userId"),
		Status:  c.Query("status"),
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandlers) httpGetTask(c *gin.Context) {
	resp, err := h.controller.GetTask(c.Request.Context(), dto.GetTaskRequest{
		BoardID: c.Param("boardId"),
		TaskID:  c.Param("taskId"),
		UserID:  c.Query("userId"),
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandlers) httpCreateTask(c *gin.Context) {
	var body dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		invalidPayload(c)
		return
	}
	body.BoardID = c.Param("boardId")
	resp, err := h.controller.CreateTask(c.Request.Context(), body)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.Header("Location", "/api/v1/boards/"+resp.BoardID+"/tasks/"+resp.ID)
	c.JSON(http.StatusCreated, resp)
}

func (h *TaskHandlers) httpUpdateTask(c *gin.Context) {
	var body dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		invalidPayload(c)
		return
	}
	body.BoardID = c.Param("boardId")
	body.TaskID = c.Param("taskId")
	if body.UserID == "" {
		body.UserID = c.Query("userId")
	}
	resp, err := h.controller.UpdateTask(c.Request.Context(), body)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandlers) httpChangeTaskStatus(c *gin.Context) {
	var body dto.ChangeTaskStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		invalidPayload(c)
		return
	}
	body.BoardID = c.Param("boardId")
	body.TaskID = c.Param("taskId")
	if body.UserID == "" {
		body.UserID = c.Query("userId")
	}
	resp, err := h.controller.ChangeTaskStatus(c.Request.Context(), body)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandlers) httpDeleteTask(c *gin.Context) {
	err := h.controller.DeleteTask(c.Request.Context(), dto.DeleteTaskRequest{
		BoardID: c.Param("boardId"),
		TaskID:  c.Param("taskId"),
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandlers) httpDeleteTasks(c *gin.Context) {
	var body dto.DeleteTasksRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		invalidPayload(c)
		return
	}
	body.BoardID = c.Param("boardId")
	resp, err := h.controller.DeleteTasks(c.Request.Context(), body)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
