package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/task/controller"
	"github.com/harrypotter228/TaskManagement/internal/task/dto"
)

type BoardHandlers struct {
	controller *controller.BoardController
	logger     *logger.Logger
}

func NewBoardHandlers(ctrl *controller.BoardController, log *logger.Logger) *BoardHandlers {
	return &BoardHandlers{
		controller: ctrl,
		logger:     log.WithFields(zap.String("component", "board-handlers")),
	}
}

func RegisterBoardRoutes(router *gin.Engine, ctrl *controller.BoardController, log *logger.Logger) *BoardHandlers {
	handlers := NewBoardHandlers(ctrl, log)
	api := router.Group("/api/v1")
	api.GET("/boards", handlers.httpListBoards)
	api.POST("/boards", handlers.httpCreateBoard)
	api.GET("/boards/:boardId", handlers.httpGetBoard)
	api.PUT("/boards/:boardId/tasks/statuses", handlers.httpUpdateStatuses)
	return handlers
}

func (h *BoardHandlers) httpListBoards(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.ListBoards(c.Request.Context()))
}

func (h *BoardHandlers) httpGetBoard(c *gin.Context) {
	resp, err := h.controller.GetBoard(c.Request.Context(), dto.GetBoardRequest{ID: c.Param("boardId")})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BoardHandlers) httpCreateBoard(c *gin.Context) {
	var body dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		invalidPayload(c)
		return
	}
	resp, err := h.controller.CreateBoard(c.Request.Context(), body)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.Header("Location", "/api/v1/boards/"+resp.ID)
	c.JSON(http.StatusCreated, resp)
}

func (h *BoardHandlers) httpUpdateStatuses(c *gin.Context) {
	var body dto.UpdateBoardStatusesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		invalidPayload(c)
		return
	}
	body.BoardID = c.Param("boardId")
	resp, err := h.controller.UpdateStatuses(c.Request.Context(), body)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
