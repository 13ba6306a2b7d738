package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harrypotter228/TaskManagement/internal/common/logger"
	"github.com/harrypotter228/TaskManagement/internal/task/controller"
	"github.com/harrypotter228/TaskManagement/internal/task/dto"
)

type FavoriteHandlers struct {
	controller *controller.FavoriteController
	logger     *logger.Logger
}

func NewFavoriteHandlers(ctrl *controller.FavoriteController, log *logger.Logger) *FavoriteHandlers {
	return &FavoriteHandlers{
		controller: ctrl,
		logger:     log.WithFields(zap.String("component", "favorite-handlers")),
	}
}

func RegisterFavoriteRoutes(router *gin.Engine, ctrl *controller.FavoriteController, log *logger.Logger) *FavoriteHandlers {
	handlers := NewFavoriteHandlers(ctrl, log)
	favorites := router.Group("/api/v1/users/:userId/favorites")
	favorites.GET("", handlers.httpListFavorites)
	favorites.POST("/:taskId", handlers.httpFavorite)
	favorites.DELETE("/:taskId", handlers.httpUnfavorite)
	return handlers
}

func (h *FavoriteHandlers) httpListFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.ListFavorites(c.Request.Context(), c.Param("userId")))
}

func (h *FavoriteHandlers) httpFavorite(c *gin.Context) {
	req := dto.FavoriteRequest{UserID: c.Param("userId"), TaskID: c.Param("taskId")}
	if err := h.controller.Favorite(c.Request.Context(), req); err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FavoriteHandlers) httpUnfavorite(c *gin.Context) {
	req := dto.FavoriteRequest{UserID: c.Param("userId"), TaskID: c.Param("taskId")}
	if err := h.controller.Unfavorite(c.Request.Context(), req); err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
